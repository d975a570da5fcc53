package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type BalanceHandler struct {
	svs UserServicer
}

func NewBalanceHandler(svs UserServicer) *BalanceHandler {
	return &BalanceHandler{
		svs: svs,
	}
}

type BalanceResponse struct {
	AccountNumber string          `json:"accountNumber"`
	Balance       decimal.Decimal `json:"balance"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// Index GET RouteGroup + BalanceRoute. Баланс банковского счета текущего юзера.
func (b *BalanceHandler) Index(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	account, err := b.svs.Balance(reqCtx, currentUserID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, &BalanceResponse{
		AccountNumber: account.AccountNumber,
		Balance:       account.Balance,
		UpdatedAt:     account.UpdatedAt,
	})
}
