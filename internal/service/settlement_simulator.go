package service

import (
	"context"

	"github.com/fsdevblog/billsplit/internal/domain"
	"github.com/fsdevblog/billsplit/internal/repository/repoargs"
	"github.com/fsdevblog/billsplit/pkg/uow"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	instantRefPrefix   = "INST-"
	scheduledRefPrefix = "SCHD-"

	moneyPlaces = 2
)

// TransferResult итог перевода: синтетический идентификатор и баланс плательщика после списания.
type TransferResult struct {
	TransactionID string
	PayerBalance  decimal.Decimal
}

// SettlementSimulator имитирует банковский перевод между счетами юзеров.
type SettlementSimulator struct {
	accountRepo AccountRepository
	newRef      func() string
}

func NewSettlementSimulator(u uow.UOW) (*SettlementSimulator, error) {
	accountRepo, err := uow.GetRepositoryAs[AccountRepository](u, uow.RepositoryName(repoargs.AccountRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &SettlementSimulator{
		accountRepo: accountRepo,
		newRef:      uuid.NewString,
	}, nil
}

// Transfer списывает amount со счета fromUserID и зачисляет на счет toUserID внутри транзакции tx.
// Оба счета блокируются в порядке номеров. При нехватке средств возвращает domain.ErrInsufficientFunds,
// балансы не меняются. Отсутствие любого из счетов прерывает перевод целиком (domain.ErrNotFound).
// Отложенный перевод списывает средства сразу, как и мгновенный.
func (s *SettlementSimulator) Transfer(
	ctx context.Context,
	tx uow.TX,
	fromUserID, toUserID int64,
	amount decimal.Decimal,
	paymentType domain.PaymentType,
) (*TransferResult, error) {
	if amount.IsNegative() {
		return nil, domain.NewValidationError("transfer amount must not be negative")
	}
	if fromUserID == toUserID {
		return nil, domain.NewValidationError("transfer to the same account")
	}

	accountRepo, err := uow.GetAs[AccountRepository](tx, uow.RepositoryName(repoargs.AccountRepoName))
	if err != nil {
		return nil, domain.NewDatabaseError(err, "transfer")
	}

	accounts, lockErr := accountRepo.LockByUserIDs(ctx, fromUserID, toUserID)
	if lockErr != nil {
		return nil, translateRepoErr(lockErr, "locking accounts")
	}

	var from, to *domain.LedgerAccount
	for i := range accounts {
		switch accounts[i].UserID {
		case fromUserID:
			from = &accounts[i]
		case toUserID:
			to = &accounts[i]
		}
	}
	if from == nil {
		return nil, domain.NewNotFoundError("payer account not found")
	}
	if to == nil {
		return nil, domain.NewNotFoundError("payee account not found")
	}

	if from.Balance.LessThan(amount) {
		return nil, domain.NewInsufficientFundsError("insufficient funds: balance %s, required %s",
			from.Balance.StringFixed(moneyPlaces), amount.StringFixed(moneyPlaces))
	}

	payerBalance := from.Balance.Sub(amount)
	if err = accountRepo.UpdateBalance(ctx, repoargs.UpdateBalance{
		AccountNumber: from.AccountNumber,
		Balance:       payerBalance,
	}); err != nil {
		return nil, translateRepoErr(err, "debiting payer account")
	}
	if err = accountRepo.UpdateBalance(ctx, repoargs.UpdateBalance{
		AccountNumber: to.AccountNumber,
		Balance:       to.Balance.Add(amount),
	}); err != nil {
		return nil, translateRepoErr(err, "crediting payee account")
	}

	return &TransferResult{
		TransactionID: s.reference(paymentType),
		PayerBalance:  payerBalance,
	}, nil
}

// Balance возвращает счет юзера.
func (s *SettlementSimulator) Balance(ctx context.Context, userID int64) (*domain.LedgerAccount, error) {
	account, err := s.accountRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, translateRepoErr(err, "account not found")
	}
	return account, nil
}

func (s *SettlementSimulator) reference(paymentType domain.PaymentType) string {
	if paymentType == domain.PaymentTypeScheduled {
		return scheduledRefPrefix + s.newRef()
	}
	return instantRefPrefix + s.newRef()
}
