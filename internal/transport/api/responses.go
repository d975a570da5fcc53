package api

import (
	"time"

	"github.com/fsdevblog/billsplit/internal/domain"
	"github.com/fsdevblog/billsplit/internal/service"
	"github.com/shopspring/decimal"
)

type BillResponse struct {
	ID                    int64                 `json:"id"`
	Code                  string                `json:"code"`
	HostID                int64                 `json:"hostId"`
	Title                 string                `json:"title"`
	Currency              string                `json:"currency"`
	SubTotal              decimal.Decimal       `json:"subTotal"`
	TaxAmount             decimal.Decimal       `json:"taxAmount"`
	ServiceAmount         decimal.Decimal       `json:"serviceAmount"`
	DiscountAmount        decimal.Decimal       `json:"discountAmount"`
	TotalAmount           decimal.Decimal       `json:"totalAmount"`
	MaxPaymentDate        *time.Time            `json:"maxPaymentDate,omitempty"`
	AllowScheduledPayment bool                  `json:"allowScheduledPayment"`
	Status                domain.BillStatusType `json:"status"`
	CreatedAt             time.Time             `json:"createdAt"`
}

func newBillResponse(b *domain.Bill) BillResponse {
	return BillResponse{
		ID:                    b.ID,
		Code:                  b.Code,
		HostID:                b.HostID,
		Title:                 b.Title,
		Currency:              b.Currency,
		SubTotal:              b.SubTotal,
		TaxAmount:             b.TaxAmount,
		ServiceAmount:         b.ServiceAmount,
		DiscountAmount:        b.DiscountAmount,
		TotalAmount:           b.TotalAmount,
		MaxPaymentDate:        b.MaxPaymentDate,
		AllowScheduledPayment: b.AllowScheduledPayment,
		Status:                b.Status,
		CreatedAt:             b.CreatedAt,
	}
}

type ItemResponse struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
	IsSharing bool            `json:"isSharing"`
}

func newItemResponses(items []domain.BillItem) []ItemResponse {
	out := make([]ItemResponse, len(items))
	for i, item := range items {
		out[i] = ItemResponse{
			ID:        item.ID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			IsSharing: item.IsSharing,
		}
	}
	return out
}

type AssignmentResponse struct {
	ItemID           int64           `json:"itemId"`
	ParticipantID    int64           `json:"participantId"`
	QuantityAssigned decimal.Decimal `json:"quantityAssigned"`
	AmountAssigned   decimal.Decimal `json:"amountAssigned"`
}

type ParticipantResponse struct {
	ID             int64                    `json:"id"`
	UserID         int64                    `json:"userId"`
	AmountShare    decimal.Decimal          `json:"amountShare"`
	Subtotal       decimal.Decimal          `json:"subtotal"`
	TaxAmount      decimal.Decimal          `json:"taxAmount"`
	ServiceAmount  decimal.Decimal          `json:"serviceAmount"`
	DiscountAmount decimal.Decimal          `json:"discountAmount"`
	PaymentStatus  domain.PaymentStatusType `json:"paymentStatus"`
	PaidAt         *time.Time               `json:"paidAt,omitempty"`
	ScheduledDate  *time.Time               `json:"scheduledDate,omitempty"`
}

func newParticipantResponse(p *domain.BillParticipant) ParticipantResponse {
	return ParticipantResponse{
		ID:             p.ID,
		UserID:         p.UserID,
		AmountShare:    p.AmountShare,
		Subtotal:       p.Subtotal,
		TaxAmount:      p.TaxAmount,
		ServiceAmount:  p.ServiceAmount,
		DiscountAmount: p.DiscountAmount,
		PaymentStatus:  p.PaymentStatus,
		PaidAt:         p.PaidAt,
		ScheduledDate:  p.ScheduledDate,
	}
}

func newParticipantResponses(participants []domain.BillParticipant) []ParticipantResponse {
	out := make([]ParticipantResponse, len(participants))
	for i := range participants {
		out[i] = newParticipantResponse(&participants[i])
	}
	return out
}

type PaymentResponse struct {
	ID            int64              `json:"id"`
	ParticipantID int64              `json:"participantId"`
	Amount        decimal.Decimal    `json:"amount"`
	PaymentType   domain.PaymentType `json:"paymentType"`
	Status        string             `json:"status"`
	TransactionID string             `json:"transactionId"`
	ScheduledDate *time.Time         `json:"scheduledDate,omitempty"`
	PaidAt        time.Time          `json:"paidAt"`
}

func newPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		ParticipantID: p.ParticipantID,
		Amount:        p.Amount,
		PaymentType:   p.PaymentType,
		Status:        p.Status,
		TransactionID: p.TransactionID,
		ScheduledDate: p.ScheduledDate,
		PaidAt:        p.PaidAt,
	}
}

type SummaryResponse struct {
	PaidCount    int             `json:"paidCount"`
	PendingCount int             `json:"pendingCount"`
	FailedCount  int             `json:"failedCount"`
	Collected    decimal.Decimal `json:"collected"`
	Outstanding  decimal.Decimal `json:"outstanding"`
}

type BillViewResponse struct {
	Bill         BillResponse          `json:"bill"`
	Deadline     time.Time             `json:"deadline"`
	IsExpired    bool                  `json:"isExpired"`
	Items        []ItemResponse        `json:"items"`
	Assignments  []AssignmentResponse  `json:"assignments"`
	Participants []ParticipantResponse `json:"participants"`
	Payments     []PaymentResponse     `json:"payments"`
	Summary      SummaryResponse       `json:"paymentSummary"`
}

func newBillViewResponse(v *service.BillSettlementView) BillViewResponse {
	assignments := make([]AssignmentResponse, len(v.Assignments))
	for i, a := range v.Assignments {
		assignments[i] = AssignmentResponse{
			ItemID:           a.ItemID,
			ParticipantID:    a.ParticipantID,
			QuantityAssigned: a.QuantityAssigned,
			AmountAssigned:   a.AmountAssigned,
		}
	}
	payments := make([]PaymentResponse, len(v.Payments))
	for i := range v.Payments {
		payments[i] = newPaymentResponse(&v.Payments[i])
	}
	return BillViewResponse{
		Bill:         newBillResponse(v.Bill),
		Deadline:     v.Deadline,
		IsExpired:    v.IsExpired,
		Items:        newItemResponses(v.Items),
		Assignments:  assignments,
		Participants: newParticipantResponses(v.Participants),
		Payments:     payments,
		Summary: SummaryResponse{
			PaidCount:    v.Summary.PaidCount,
			PendingCount: v.Summary.PendingCount,
			FailedCount:  v.Summary.FailedCount,
			Collected:    v.Summary.Collected,
			Outstanding:  v.Summary.Outstanding,
		},
	}
}
