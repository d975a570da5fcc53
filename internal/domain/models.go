package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID                int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
	Username          string
	EncryptedPassword string
}

// Breakdown разложение суммы участника на составляющие.
type Breakdown struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Service  decimal.Decimal
	Discount decimal.Decimal
}

// Total итог разложения: subtotal + tax + service - discount.
func (b Breakdown) Total() decimal.Decimal {
	return b.Subtotal.Add(b.Tax).Add(b.Service).Sub(b.Discount)
}

type Bill struct {
	ID                    int64
	CreatedAt             time.Time
	UpdatedAt             time.Time
	Code                  string
	HostID                int64
	Title                 string
	Currency              string
	TotalAmount           decimal.Decimal
	SubTotal              decimal.Decimal
	TaxPct                decimal.Decimal
	TaxAmount             decimal.Decimal
	ServicePct            decimal.Decimal
	ServiceAmount         decimal.Decimal
	DiscountPct           decimal.Decimal
	DiscountAmount        decimal.Decimal
	MaxPaymentDate        *time.Time
	AllowScheduledPayment bool
	Status                BillStatusType
}

// Breakdown возвращает суммы счета в виде Breakdown.
func (b *Bill) Breakdown() Breakdown {
	return Breakdown{
		Subtotal: b.SubTotal,
		Tax:      b.TaxAmount,
		Service:  b.ServiceAmount,
		Discount: b.DiscountAmount,
	}
}

type BillItem struct {
	ID        int64
	BillID    int64
	Name      string
	Price     decimal.Decimal
	Quantity  int64
	IsSharing bool
}

type ItemAssignment struct {
	ID               int64
	ItemID           int64
	ParticipantID    int64
	QuantityAssigned decimal.Decimal
	AmountAssigned   decimal.Decimal
}

type BillParticipant struct {
	ID             int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
	BillID         int64
	UserID         int64
	AmountShare    decimal.Decimal
	Subtotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	ServiceAmount  decimal.Decimal
	DiscountAmount decimal.Decimal
	PaymentStatus  PaymentStatusType
	PaidAt         *time.Time
	ScheduledDate  *time.Time
}

func (p *BillParticipant) Breakdown() Breakdown {
	return Breakdown{
		Subtotal: p.Subtotal,
		Tax:      p.TaxAmount,
		Service:  p.ServiceAmount,
		Discount: p.DiscountAmount,
	}
}

type Payment struct {
	ID            int64
	CreatedAt     time.Time
	BillID        int64
	ParticipantID int64
	Amount        decimal.Decimal
	PaymentType   PaymentType
	Status        string
	TransactionID string
	ScheduledDate *time.Time
	PaidAt        time.Time
}

// LedgerAccount имитация банковского счета.
type LedgerAccount struct {
	AccountNumber string
	UserID        int64
	Balance       decimal.Decimal
	UpdatedAt     time.Time
}

// PaymentEvent событие изменения статуса оплаты участника.
type PaymentEvent struct {
	Type          PaymentEventType  `json:"type"`
	BillID        int64             `json:"billId"`
	ParticipantID int64             `json:"participantId"`
	UserID        int64             `json:"userId"`
	Status        PaymentStatusType `json:"status"`
	Amount        decimal.Decimal   `json:"amount"`
	TransactionID string            `json:"transactionId,omitempty"`
	OccurredAt    time.Time         `json:"occurredAt"`
}
