package repoargs

import (
	"time"

	"github.com/fsdevblog/billsplit/internal/domain"
	"github.com/shopspring/decimal"
)

type CreateBill struct {
	Code                  string
	HostID                int64
	Title                 string
	Currency              string
	SubTotal              decimal.Decimal
	TaxPct                decimal.Decimal
	TaxAmount             decimal.Decimal
	ServicePct            decimal.Decimal
	ServiceAmount         decimal.Decimal
	DiscountPct           decimal.Decimal
	DiscountAmount        decimal.Decimal
	TotalAmount           decimal.Decimal
	MaxPaymentDate        *time.Time
	AllowScheduledPayment bool
	CreatedAt             time.Time
}

type CreateBillItem struct {
	Name      string
	Price     decimal.Decimal
	Quantity  int64
	IsSharing bool
}

type CreateItemAssignment struct {
	ItemID           int64
	ParticipantID    int64
	QuantityAssigned decimal.Decimal
	AmountAssigned   decimal.Decimal
}

type UpdateBillStatus struct {
	ID     int64
	Status domain.BillStatusType
}
