package api

import (
	"context"
	"net/http"
	"time"

	"github.com/fsdevblog/billsplit/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type PaymentsHandler struct {
	svs PaymentServicer
}

func NewPaymentsHandler(svs PaymentServicer) *PaymentsHandler {
	return &PaymentsHandler{
		svs: svs,
	}
}

type PayParams struct {
	Amount        decimal.Decimal `binding:"decimal_gte0"     json:"amount"`
	Credential    string          `binding:"required,max=255" json:"credential"`
	ScheduledDate *time.Time      `json:"scheduledDate"`
}

type ReceiptResponse struct {
	Participant  ParticipantResponse `json:"participant"`
	Payment      PaymentResponse     `json:"payment"`
	PayerBalance decimal.Decimal     `json:"payerBalance"`
	Deadline     time.Time           `json:"deadline"`
}

// Pay POST RouteGroup + ParticipantPayRoute. Текущий юзер оплачивает свою долю.
func (h *PaymentsHandler) Pay(c *gin.Context) {
	participantID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var params PayParams
	if !bindJSON(c, &params) {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	receipt, err := h.svs.AttemptPayment(reqCtx, service.AttemptPaymentArgs{
		ParticipantID: participantID,
		PayerID:       getUserIDFromContext(c),
		Amount:        params.Amount,
		Credential:    params.Credential,
		ScheduledDate: params.ScheduledDate,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ReceiptResponse{
		Participant:  newParticipantResponse(receipt.Participant),
		Payment:      newPaymentResponse(receipt.Payment),
		PayerBalance: receipt.PayerBalance,
		Deadline:     receipt.Deadline,
	})
}

type ScheduleParams struct {
	Credential    string    `binding:"required,max=255" json:"credential"`
	ScheduledDate time.Time `binding:"required"         json:"scheduledDate"`
}

// Schedule POST RouteGroup + ParticipantScheduleRoute. Переводит долю в статус отложенной оплаты.
func (h *PaymentsHandler) Schedule(c *gin.Context) {
	participantID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var params ScheduleParams
	if !bindJSON(c, &params) {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	participant, err := h.svs.SchedulePayment(reqCtx, service.SchedulePaymentArgs{
		ParticipantID: participantID,
		PayerID:       getUserIDFromContext(c),
		Credential:    params.Credential,
		ScheduledDate: params.ScheduledDate,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newParticipantResponse(participant))
}
