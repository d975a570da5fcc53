package service

import (
	"context"
	"time"

	"github.com/fsdevblog/billsplit/internal/domain"
	"github.com/fsdevblog/billsplit/internal/repository/repoargs"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

type PasswordHasher interface {
	HashPassword(password string) (string, error)
	ComparePassword(password string, hashedPassword string) bool
}

type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}

type BillRepository interface {
	Create(ctx context.Context, args repoargs.CreateBill) (*domain.Bill, error)
	CreateItems(ctx context.Context, billID int64, args []repoargs.CreateBillItem) ([]domain.BillItem, error)
	CreateAssignments(ctx context.Context, args []repoargs.CreateItemAssignment) error
	DeleteAssignments(ctx context.Context, participantIDs []int64) error
	FindByID(ctx context.Context, id int64) (*domain.Bill, error)
	FindByCode(ctx context.Context, code string) (*domain.Bill, error)
	LockByID(ctx context.Context, id int64) (*domain.Bill, error)
	UpdateStatus(ctx context.Context, args repoargs.UpdateBillStatus) error
	ListItems(ctx context.Context, billID int64) ([]domain.BillItem, error)
	ListAssignments(ctx context.Context, billID int64) ([]domain.ItemAssignment, error)
	CountAssignments(ctx context.Context, billID int64) (int64, error)
}

type ParticipantRepository interface {
	Create(ctx context.Context, args repoargs.CreateParticipant) (*domain.BillParticipant, error)
	FindByID(ctx context.Context, id int64) (*domain.BillParticipant, error)
	LockByID(ctx context.Context, id int64) (*domain.BillParticipant, error)
	ListByBill(ctx context.Context, billID int64) ([]domain.BillParticipant, error)
	UpdateBreakdowns(ctx context.Context, args []repoargs.UpdateBreakdown) error
	UpdateStatus(ctx context.Context, args repoargs.UpdateParticipantStatus) error
	Delete(ctx context.Context, id int64) error
}

type PaymentRepository interface {
	Create(ctx context.Context, args repoargs.CreatePayment) (*domain.Payment, error)
	UpdateAmount(ctx context.Context, args repoargs.UpdatePaymentAmount) error
	ListByBill(ctx context.Context, billID int64) ([]domain.Payment, error)
}

type AccountRepository interface {
	FindByUserID(ctx context.Context, userID int64) (*domain.LedgerAccount, error)
	LockByUserIDs(ctx context.Context, userIDs ...int64) ([]domain.LedgerAccount, error)
	UpdateBalance(ctx context.Context, args repoargs.UpdateBalance) error
}

// SessionStore хранилище сессий с ограниченным временем жизни.
type SessionStore interface {
	Create(ctx context.Context, userID int64, ttl time.Duration) (string, error)
	// UserID возвращает владельца сессии или domain.ErrRecordNotFound, если сессия истекла или удалена.
	UserID(ctx context.Context, sessionID string) (int64, error)
	Delete(ctx context.Context, sessionID string) error
}

// AdmissionChecker решает, может ли юзер присоединиться к счету хоста (друг хоста или приглашен).
type AdmissionChecker interface {
	CanJoin(ctx context.Context, hostID, userID, billID int64) (bool, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event domain.PaymentEvent) error
}

type PaymentObserver interface {
	ObservePayment(outcome string, amount float64)
}
