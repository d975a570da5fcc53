package api

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/fsdevblog/billsplit/internal/domain"
	"github.com/fsdevblog/billsplit/internal/service"
	"github.com/fsdevblog/billsplit/internal/service/tokens"
)

// UserServicer интерфейс исключительно для моков.
type UserServicer interface {
	Login(ctx context.Context, args service.LoginUserArgs) (*domain.User, string, error)
	Logout(ctx context.Context, sessionID string) error
	Authenticate(ctx context.Context, token string) (*tokens.UserClaims, error)
	Balance(ctx context.Context, userID int64) (*domain.LedgerAccount, error)
}

type BillServicer interface {
	CreateBill(ctx context.Context, args service.CreateBillArgs) (*service.BillDetails, error)
	JoinBill(ctx context.Context, code string, userID int64) (*domain.BillParticipant, error)
	GetBillSettlementView(ctx context.Context, billID, viewerID int64) (*service.BillSettlementView, error)
	ReassignBreakdowns(
		ctx context.Context,
		billID, hostID int64,
		breakdowns []service.ParticipantBreakdownArgs,
	) ([]domain.BillParticipant, error)
	RemoveParticipant(ctx context.Context, billID, hostID, participantID int64) error
}

type PaymentServicer interface {
	AttemptPayment(ctx context.Context, args service.AttemptPaymentArgs) (*service.PaymentReceipt, error)
	SchedulePayment(ctx context.Context, args service.SchedulePaymentArgs) (*domain.BillParticipant, error)
}
