package service

import (
	"context"

	"github.com/fsdevblog/billsplit/internal/billcalc"
	"github.com/fsdevblog/billsplit/internal/domain"
	"github.com/fsdevblog/billsplit/internal/repository/repoargs"
	"github.com/fsdevblog/billsplit/pkg/uow"
	"github.com/shopspring/decimal"
)

// ParticipantLedger ведет состав участников счета и их доли. Все методы работают внутри переданной транзакции.
type ParticipantLedger struct {
	now Clock
}

func NewParticipantLedger(clock Clock) *ParticipantLedger {
	if clock == nil {
		clock = systemClock
	}
	return &ParticipantLedger{now: clock}
}

// AdmitHost добавляет хоста в счет. Хост считается рассчитавшимся с момента создания.
func (l *ParticipantLedger) AdmitHost(
	ctx context.Context,
	tx uow.TX,
	bill *domain.Bill,
	breakdown domain.Breakdown,
) (*domain.BillParticipant, error) {
	paidAt := l.now()
	return l.admit(ctx, tx, repoargs.CreateParticipant{
		BillID:        bill.ID,
		UserID:        bill.HostID,
		Breakdown:     breakdown,
		PaymentStatus: domain.PaymentStatusCompleted,
		PaidAt:        &paidAt,
	})
}

// AdmitParticipant добавляет участника в статусе pending. Повторное участие - domain.ErrConflict.
func (l *ParticipantLedger) AdmitParticipant(
	ctx context.Context,
	tx uow.TX,
	bill *domain.Bill,
	userID int64,
	breakdown domain.Breakdown,
) (*domain.BillParticipant, error) {
	return l.admit(ctx, tx, repoargs.CreateParticipant{
		BillID:        bill.ID,
		UserID:        userID,
		Breakdown:     breakdown,
		PaymentStatus: domain.PaymentStatusPending,
	})
}

func (l *ParticipantLedger) admit(
	ctx context.Context,
	tx uow.TX,
	args repoargs.CreateParticipant,
) (*domain.BillParticipant, error) {
	repo, err := uow.GetAs[ParticipantRepository](tx, uow.RepositoryName(repoargs.ParticipantRepoName))
	if err != nil {
		return nil, domain.NewDatabaseError(err, "admitting participant")
	}
	participant, createErr := repo.Create(ctx, args)
	if createErr != nil {
		return nil, translateRepoErr(createErr, "user %d cannot be admitted to bill %d", args.UserID, args.BillID)
	}
	return participant, nil
}

// Reconcile проверяет, что доли участников в сумме дают итог счета с точностью до billcalc.Epsilon.
func (l *ParticipantLedger) Reconcile(ctx context.Context, tx uow.TX, bill *domain.Bill) error {
	repo, err := uow.GetAs[ParticipantRepository](tx, uow.RepositoryName(repoargs.ParticipantRepoName))
	if err != nil {
		return domain.NewDatabaseError(err, "reconciling participants")
	}
	participants, listErr := repo.ListByBill(ctx, bill.ID)
	if listErr != nil {
		return translateRepoErr(listErr, "listing participants of bill %d", bill.ID)
	}

	sum := decimal.Zero
	for _, p := range participants {
		sum = sum.Add(p.AmountShare)
	}
	if !billcalc.WithinEpsilon(sum, bill.TotalAmount) {
		return domain.NewValidationError("participant shares sum to %s, bill total is %s (delta %s)",
			sum, bill.TotalAmount, sum.Sub(bill.TotalAmount))
	}
	return nil
}

// RecomputeEqualSplit делит счет поровну между всеми участниками. Остаток округления достается хосту,
// поэтому сумма долей в точности равна итогу счета. Сумма записи об оплате хоста обновляется вместе с долей.
// Если кто-то кроме хоста уже рассчитался, пересчет отклоняется: его оплаченная доля изменилась бы задним числом.
func (l *ParticipantLedger) RecomputeEqualSplit(
	ctx context.Context,
	tx uow.TX,
	bill *domain.Bill,
) ([]domain.BillParticipant, error) {
	repo, err := uow.GetAs[ParticipantRepository](tx, uow.RepositoryName(repoargs.ParticipantRepoName))
	if err != nil {
		return nil, domain.NewDatabaseError(err, "recomputing equal split")
	}
	participants, listErr := repo.ListByBill(ctx, bill.ID)
	if listErr != nil {
		return nil, translateRepoErr(listErr, "listing participants of bill %d", bill.ID)
	}
	if len(participants) == 0 {
		return nil, domain.NewValidationError("bill %d has no participants", bill.ID)
	}

	// хост первым: ему достается остаток округления
	ordered := make([]domain.BillParticipant, 0, len(participants))
	for _, p := range participants {
		if p.UserID == bill.HostID {
			ordered = append([]domain.BillParticipant{p}, ordered...)
			continue
		}
		if p.PaymentStatus.IsSettled() {
			return nil, domain.NewConflictError("participant %d has already paid, equal split cannot be recomputed", p.ID)
		}
		ordered = append(ordered, p)
	}

	shares, splitErr := billcalc.EqualSplit(bill.Breakdown(), len(ordered))
	if splitErr != nil {
		return nil, splitErr //nolint:wrapcheck
	}

	updates := make([]repoargs.UpdateBreakdown, len(ordered))
	for i := range ordered {
		updates[i] = repoargs.UpdateBreakdown{ID: ordered[i].ID, Breakdown: shares[i]}
		applyBreakdown(&ordered[i], shares[i])
	}
	if err = repo.UpdateBreakdowns(ctx, updates); err != nil {
		return nil, translateRepoErr(err, "updating shares of bill %d", bill.ID)
	}

	// запись об оплате хоста следует за его долей
	paymentRepo, err := uow.GetAs[PaymentRepository](tx, uow.RepositoryName(repoargs.PaymentRepoName))
	if err != nil {
		return nil, domain.NewDatabaseError(err, "recomputing equal split")
	}
	if err = paymentRepo.UpdateAmount(ctx, repoargs.UpdatePaymentAmount{
		ParticipantID: ordered[0].ID,
		Amount:        ordered[0].AmountShare,
	}); err != nil {
		return nil, translateRepoErr(err, "updating host payment of bill %d", bill.ID)
	}
	return ordered, nil
}

// completeBillIfSettled переводит счет в completed, когда в нем есть кто-то кроме хоста и рассчитались все.
// Счет из одного хоста остается активным: к нему еще присоединяются по коду. current, если задан, заменяет
// свою строку в выборке, так как его статус изменен в этой же транзакции.
func completeBillIfSettled(
	ctx context.Context,
	billRepo BillRepository,
	participantRepo ParticipantRepository,
	bill *domain.Bill,
	current *domain.BillParticipant,
) error {
	participants, err := participantRepo.ListByBill(ctx, bill.ID)
	if err != nil {
		return translateRepoErr(err, "listing participants of bill %d", bill.ID)
	}
	if len(participants) < 2 { //nolint:mnd
		return nil
	}
	for _, p := range participants {
		status := p.PaymentStatus
		if current != nil && p.ID == current.ID {
			status = current.PaymentStatus
		}
		if !status.IsSettled() {
			return nil
		}
	}
	if err = billRepo.UpdateStatus(ctx, repoargs.UpdateBillStatus{
		ID:     bill.ID,
		Status: domain.BillStatusCompleted,
	}); err != nil {
		return translateRepoErr(err, "completing bill %d", bill.ID)
	}
	bill.Status = domain.BillStatusCompleted
	return nil
}

func applyBreakdown(p *domain.BillParticipant, b domain.Breakdown) {
	p.Subtotal = b.Subtotal
	p.TaxAmount = b.Tax
	p.ServiceAmount = b.Service
	p.DiscountAmount = b.Discount
	p.AmountShare = b.Total()
}
