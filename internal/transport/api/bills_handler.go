package api

import (
	"context"
	"net/http"
	"time"

	"github.com/fsdevblog/billsplit/internal/billcalc"
	"github.com/fsdevblog/billsplit/internal/domain"
	"github.com/fsdevblog/billsplit/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type BillsHandler struct {
	svs BillServicer
}

func NewBillsHandler(svs BillServicer) *BillsHandler {
	return &BillsHandler{
		svs: svs,
	}
}

type BillItemParams struct {
	Name      string          `binding:"required,max_bytes=255" json:"name"`
	Price     decimal.Decimal `binding:"decimal_gte0"           json:"price"`
	Quantity  int64           `binding:"required,min=1"         json:"quantity"`
	IsSharing bool            `json:"isSharing"`
}

type AssignmentParams struct {
	ItemIndex        int             `binding:"gte=0"        json:"itemIndex"`
	QuantityAssigned decimal.Decimal `binding:"decimal_gte0" json:"quantityAssigned"`
	AmountAssigned   decimal.Decimal `binding:"decimal_gte0" json:"amountAssigned"`
}

type BreakdownParams struct {
	Subtotal decimal.Decimal `binding:"decimal_gte0" json:"subtotal"`
	Tax      decimal.Decimal `binding:"decimal_gte0" json:"taxAmount"`
	Service  decimal.Decimal `binding:"decimal_gte0" json:"serviceAmount"`
	Discount decimal.Decimal `binding:"decimal_gte0" json:"discountAmount"`
}

func (p BreakdownParams) toDomain() domain.Breakdown {
	return domain.Breakdown{Subtotal: p.Subtotal, Tax: p.Tax, Service: p.Service, Discount: p.Discount}
}

type BillParticipantParams struct {
	UserID      int64              `binding:"required,min=1" json:"userId"`
	Breakdown   *BreakdownParams   `json:"breakdown"`
	Assignments []AssignmentParams `binding:"dive" json:"assignments"`
}

type CreateBillParams struct {
	Title                 string                  `binding:"required,max_bytes=255" json:"title"`
	Currency              string                  `binding:"required,len=3"         json:"currency"`
	Items                 []BillItemParams        `binding:"required,min=1,dive"    json:"items"`
	TaxPct                decimal.Decimal         `binding:"decimal_gte0"           json:"taxPct"`
	ServicePct            decimal.Decimal         `binding:"decimal_gte0"           json:"servicePct"`
	DiscountPct           decimal.Decimal         `binding:"decimal_gte0"           json:"discountPct"`
	DiscountAmount        *decimal.Decimal        `binding:"omitempty,decimal_gte0" json:"discountAmount"`
	MaxPaymentDate        *time.Time              `json:"maxPaymentDate"`
	AllowScheduledPayment bool                    `json:"allowScheduledPayment"`
	Participants          []BillParticipantParams `binding:"dive" json:"participants"`
}

type BillDetailsResponse struct {
	Bill         BillResponse          `json:"bill"`
	Items        []ItemResponse        `json:"items"`
	Participants []ParticipantResponse `json:"participants"`
}

// Create POST RouteGroup + BillsRoute. Текущий юзер становится хостом счета.
func (h *BillsHandler) Create(c *gin.Context) {
	var params CreateBillParams
	if !bindJSON(c, &params) {
		return
	}

	args := service.CreateBillArgs{
		HostID:   getUserIDFromContext(c),
		Title:    params.Title,
		Currency: params.Currency,
		Items:    make([]service.CreateBillItemArgs, len(params.Items)),
		Fees: billcalc.FeeConfig{
			TaxPct:          params.TaxPct,
			ServicePct:      params.ServicePct,
			DiscountPct:     params.DiscountPct,
			DiscountNominal: params.DiscountAmount,
		},
		MaxPaymentDate:        params.MaxPaymentDate,
		AllowScheduledPayment: params.AllowScheduledPayment,
		Participants:          make([]service.CreateBillParticipantArgs, len(params.Participants)),
	}
	for i, item := range params.Items {
		args.Items[i] = service.CreateBillItemArgs(item)
	}
	for i, p := range params.Participants {
		participant := service.CreateBillParticipantArgs{UserID: p.UserID}
		if p.Breakdown != nil {
			breakdown := p.Breakdown.toDomain()
			participant.Breakdown = &breakdown
		}
		for _, a := range p.Assignments {
			participant.Assignments = append(participant.Assignments, service.AssignmentArgs(a))
		}
		args.Participants[i] = participant
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	details, err := h.svs.CreateBill(reqCtx, args)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, BillDetailsResponse{
		Bill:         newBillResponse(details.Bill),
		Items:        newItemResponses(details.Items),
		Participants: newParticipantResponses(details.Participants),
	})
}

type JoinBillParams struct {
	Code string `binding:"required,max_bytes=64" json:"code"`
}

// Join POST RouteGroup + JoinBillRoute. Присоединяет текущего юзера к счету по коду.
func (h *BillsHandler) Join(c *gin.Context) {
	var params JoinBillParams
	if !bindJSON(c, &params) {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	participant, err := h.svs.JoinBill(reqCtx, params.Code, getUserIDFromContext(c))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newParticipantResponse(participant))
}

// Show GET RouteGroup + BillRoute. Состояние расчетов по счету.
func (h *BillsHandler) Show(c *gin.Context) {
	billID, ok := pathID(c, "id")
	if !ok {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	view, err := h.svs.GetBillSettlementView(reqCtx, billID, getUserIDFromContext(c))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newBillViewResponse(view))
}

type ParticipantBreakdownParams struct {
	ParticipantID int64              `binding:"required,min=1" json:"participantId"`
	Assignments   []AssignmentParams `binding:"dive"           json:"assignments"`
	BreakdownParams
}

type ReassignBreakdownsParams struct {
	Breakdowns []ParticipantBreakdownParams `binding:"required,min=1,dive" json:"breakdowns"`
}

// ReassignBreakdowns PUT RouteGroup + BillBreakdownsRoute. Хост перераспределяет доли неоплативших участников.
func (h *BillsHandler) ReassignBreakdowns(c *gin.Context) {
	billID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var params ReassignBreakdownsParams
	if !bindJSON(c, &params) {
		return
	}

	breakdowns := make([]service.ParticipantBreakdownArgs, len(params.Breakdowns))
	for i, b := range params.Breakdowns {
		breakdowns[i] = service.ParticipantBreakdownArgs{
			ParticipantID: b.ParticipantID,
			Breakdown:     b.toDomain(),
		}
		for _, a := range b.Assignments {
			breakdowns[i].Assignments = append(breakdowns[i].Assignments, service.AssignmentArgs(a))
		}
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	participants, err := h.svs.ReassignBreakdowns(reqCtx, billID, getUserIDFromContext(c), breakdowns)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"participants": newParticipantResponses(participants)})
}

// RemoveParticipant DELETE RouteGroup + BillParticipantRoute.
func (h *BillsHandler) RemoveParticipant(c *gin.Context) {
	billID, ok := pathID(c, "id")
	if !ok {
		return
	}
	participantID, ok := pathID(c, "participantID")
	if !ok {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.svs.RemoveParticipant(reqCtx, billID, getUserIDFromContext(c), participantID); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.AbortWithStatus(http.StatusNoContent)
}
