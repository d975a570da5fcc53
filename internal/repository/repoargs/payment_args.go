package repoargs

import (
	"time"

	"github.com/fsdevblog/billsplit/internal/domain"
	"github.com/shopspring/decimal"
)

type CreatePayment struct {
	BillID        int64
	ParticipantID int64
	Amount        decimal.Decimal
	PaymentType   domain.PaymentType
	Status        string
	TransactionID string
	ScheduledDate *time.Time
	PaidAt        time.Time
}

type UpdateBalance struct {
	AccountNumber string
	Balance       decimal.Decimal
}

type UpdatePaymentAmount struct {
	ParticipantID int64
	Amount        decimal.Decimal
}
