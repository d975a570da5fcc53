package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fsdevblog/billsplit/internal/billcalc"
	"github.com/fsdevblog/billsplit/internal/domain"
	"github.com/fsdevblog/billsplit/internal/repository/repoargs"
	"github.com/fsdevblog/billsplit/pkg/uow"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BillService struct {
	uow       uow.UOW
	ledger    *ParticipantLedger
	admission AdmissionChecker
	billRepo  BillRepository
	partRepo  ParticipantRepository
	payRepo   PaymentRepository
	now       Clock
	newCode   func() string
}

func NewBillService(u uow.UOW, ledger *ParticipantLedger, admission AdmissionChecker) (*BillService, error) {
	billRepo, err := uow.GetRepositoryAs[BillRepository](u, uow.RepositoryName(repoargs.BillRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	partRepo, err := uow.GetRepositoryAs[ParticipantRepository](u, uow.RepositoryName(repoargs.ParticipantRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	payRepo, err := uow.GetRepositoryAs[PaymentRepository](u, uow.RepositoryName(repoargs.PaymentRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &BillService{
		uow:       u,
		ledger:    ledger,
		admission: admission,
		billRepo:  billRepo,
		partRepo:  partRepo,
		payRepo:   payRepo,
		now:       ledger.now,
		newCode:   uuid.NewString,
	}, nil
}

type CreateBillItemArgs struct {
	Name      string
	Price     decimal.Decimal
	Quantity  int64
	IsSharing bool
}

type AssignmentArgs struct {
	ItemIndex        int
	QuantityAssigned decimal.Decimal
	AmountAssigned   decimal.Decimal
}

// CreateBillParticipantArgs участник нового счета. Breakdown, если задан, принимается как есть и только
// сверяется. Иначе разложение выводится из назначенных позиций.
type CreateBillParticipantArgs struct {
	UserID      int64
	Breakdown   *domain.Breakdown
	Assignments []AssignmentArgs
}

type CreateBillArgs struct {
	HostID                int64
	Title                 string
	Currency              string
	Items                 []CreateBillItemArgs
	Fees                  billcalc.FeeConfig
	MaxPaymentDate        *time.Time
	AllowScheduledPayment bool
	Participants          []CreateBillParticipantArgs
}

type BillDetails struct {
	Bill         *domain.Bill
	Items        []domain.BillItem
	Participants []domain.BillParticipant
}

// CreateBill создает счет со всеми позициями, участниками и назначениями одной транзакцией.
//
// Хост всегда участник и сразу считается рассчитавшимся. Если ни у кого нет ни разложения, ни назначений,
// счет делится поровну. Иначе разложения сверяются с итогами счета до любых записей в базу.
func (s *BillService) CreateBill(ctx context.Context, args CreateBillArgs) (*BillDetails, error) {
	now := s.now()
	plan, planErr := s.planBill(args, now)
	if planErr != nil {
		return nil, planErr
	}

	var details *BillDetails
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		billRepo, err := uow.GetAs[BillRepository](tx, uow.RepositoryName(repoargs.BillRepoName))
		if err != nil {
			return domain.NewDatabaseError(err, "creating bill")
		}
		paymentRepo, err := uow.GetAs[PaymentRepository](tx, uow.RepositoryName(repoargs.PaymentRepoName))
		if err != nil {
			return domain.NewDatabaseError(err, "creating bill")
		}

		bill, billErr := billRepo.Create(c, repoargs.CreateBill{
			Code:                  s.newCode(),
			HostID:                args.HostID,
			Title:                 args.Title,
			Currency:              strings.ToUpper(args.Currency),
			SubTotal:              plan.fees.Subtotal,
			TaxPct:                args.Fees.TaxPct,
			TaxAmount:             plan.fees.Tax,
			ServicePct:            args.Fees.ServicePct,
			ServiceAmount:         plan.fees.Service,
			DiscountPct:           args.Fees.DiscountPct,
			DiscountAmount:        plan.fees.Discount,
			TotalAmount:           plan.fees.Total(),
			MaxPaymentDate:        args.MaxPaymentDate,
			AllowScheduledPayment: args.AllowScheduledPayment,
			CreatedAt:             now,
		})
		if billErr != nil {
			return translateRepoErr(billErr, "creating bill")
		}

		itemArgs := make([]repoargs.CreateBillItem, len(args.Items))
		for i, item := range args.Items {
			itemArgs[i] = repoargs.CreateBillItem(item)
		}
		items, itemsErr := billRepo.CreateItems(c, bill.ID, itemArgs)
		if itemsErr != nil {
			return translateRepoErr(itemsErr, "creating items of bill %d", bill.ID)
		}

		participants := make([]domain.BillParticipant, len(plan.participants))
		participantIDs := make(map[int64]int64, len(plan.participants))
		for i, p := range plan.participants {
			var admitted *domain.BillParticipant
			var admitErr error
			if p.UserID == args.HostID {
				admitted, admitErr = s.ledger.AdmitHost(c, tx, bill, plan.breakdowns[i])
			} else {
				admitted, admitErr = s.ledger.AdmitParticipant(c, tx, bill, p.UserID, plan.breakdowns[i])
			}
			if admitErr != nil {
				return admitErr
			}
			participants[i] = *admitted
			participantIDs[p.UserID] = admitted.ID
		}

		assignmentArgs := make([]repoargs.CreateItemAssignment, len(plan.assignments))
		for i, a := range plan.assignments {
			assignmentArgs[i] = repoargs.CreateItemAssignment{
				ItemID:           items[a.ItemIndex].ID,
				ParticipantID:    participantIDs[a.UserID],
				QuantityAssigned: a.QuantityAssigned,
				AmountAssigned:   a.AmountAssigned,
			}
		}
		if err = billRepo.CreateAssignments(c, assignmentArgs); err != nil {
			return translateRepoErr(err, "creating assignments of bill %d", bill.ID)
		}

		// запись об оплате хоста: его доля считается внесенной при создании счета
		host := participants[0]
		if _, err = paymentRepo.Create(c, repoargs.CreatePayment{
			BillID:        bill.ID,
			ParticipantID: host.ID,
			Amount:        host.AmountShare,
			PaymentType:   domain.PaymentTypeInstant,
			Status:        domain.PaymentRecordStatusSettled,
			TransactionID: instantRefPrefix + s.newCode(),
			PaidAt:        now,
		}); err != nil {
			return translateRepoErr(err, "recording host payment of bill %d", bill.ID)
		}

		if err = s.ledger.Reconcile(c, tx, bill); err != nil {
			return err //nolint:wrapcheck
		}

		details = &BillDetails{Bill: bill, Items: items, Participants: participants}
		return nil
	})
	if txErr != nil {
		return nil, fmt.Errorf("creating bill: %w", txErr)
	}
	return details, nil
}

type billPlan struct {
	fees         billcalc.Fees
	participants []CreateBillParticipantArgs
	breakdowns   []domain.Breakdown
	assignments  []billcalc.Assignment
}

// planBill проверяет аргументы и считает суммы нового счета без обращения к базе.
// Хост в плане всегда первый.
func (s *BillService) planBill(args CreateBillArgs, now time.Time) (*billPlan, error) {
	switch {
	case strings.TrimSpace(args.Title) == "":
		return nil, domain.NewValidationError("title is required")
	case len(args.Currency) != 3: //nolint:mnd
		return nil, domain.NewValidationError("currency must be a 3-letter code")
	case len(args.Items) == 0:
		return nil, domain.NewValidationError("bill needs at least one item")
	case args.MaxPaymentDate != nil && !args.MaxPaymentDate.After(now):
		return nil, domain.NewValidationError("max payment date must be in the future")
	}

	items := make([]billcalc.Item, len(args.Items))
	subtotal := decimal.Zero
	for i, item := range args.Items {
		if item.Quantity < 1 {
			return nil, domain.NewValidationError("item #%d: quantity must be at least 1", i)
		}
		items[i] = billcalc.Item{Price: item.Price, Quantity: item.Quantity, IsSharing: item.IsSharing}
		subtotal = subtotal.Add(items[i].Value())
	}

	fees, feesErr := billcalc.ComputeFees(subtotal, args.Fees)
	if feesErr != nil {
		return nil, feesErr //nolint:wrapcheck
	}

	plan := &billPlan{fees: fees, participants: []CreateBillParticipantArgs{{UserID: args.HostID}}}
	seen := map[int64]bool{args.HostID: false}
	for _, p := range args.Participants {
		if seen[p.UserID] {
			return nil, domain.NewValidationError("user %d is listed twice", p.UserID)
		}
		seen[p.UserID] = true
		if p.UserID == args.HostID {
			plan.participants[0] = p
			continue
		}
		plan.participants = append(plan.participants, p)
	}

	itemized := false
	for _, p := range plan.participants {
		if p.Breakdown != nil || len(p.Assignments) > 0 {
			itemized = true
		}
		for _, a := range p.Assignments {
			plan.assignments = append(plan.assignments, billcalc.Assignment{
				ItemIndex:        a.ItemIndex,
				UserID:           p.UserID,
				QuantityAssigned: a.QuantityAssigned,
				AmountAssigned:   a.AmountAssigned,
			})
		}
	}

	if !itemized {
		shares, err := billcalc.EqualSplit(fees.Breakdown(), len(plan.participants))
		if err != nil {
			return nil, err //nolint:wrapcheck
		}
		plan.breakdowns = shares
		return plan, nil
	}

	subtotals, assignErr := billcalc.ReconcileAssignments(items, plan.assignments)
	if assignErr != nil {
		return nil, assignErr //nolint:wrapcheck
	}
	plan.breakdowns = make([]domain.Breakdown, len(plan.participants))
	for i, p := range plan.participants {
		if p.Breakdown != nil {
			// разложение вместе с назначениями должно описывать те же позиции
			assigned := subtotals[p.UserID]
			if len(p.Assignments) > 0 && !billcalc.WithinEpsilon(p.Breakdown.Subtotal, assigned) {
				return nil, domain.NewValidationError(
					"user %d breakdown subtotal %s does not match assigned items %s (delta %s)",
					p.UserID, p.Breakdown.Subtotal, assigned, p.Breakdown.Subtotal.Sub(assigned))
			}
			plan.breakdowns[i] = *p.Breakdown
			continue
		}
		plan.breakdowns[i] = billcalc.Allocate(fees, subtotals[p.UserID])
	}
	if err := billcalc.ReconcileBreakdowns(fees, plan.breakdowns); err != nil {
		return nil, err //nolint:wrapcheck
	}
	return plan, nil
}

// JoinBill добавляет юзера в счет по коду. Присоединиться может друг хоста или приглашенный.
// Если в счете нет назначений позиций, доли пересчитываются поровну, иначе новый участник получает
// нулевую долю до перераспределения хостом.
func (s *BillService) JoinBill(ctx context.Context, code string, userID int64) (*domain.BillParticipant, error) {
	bill, findErr := s.billRepo.FindByCode(ctx, code)
	if findErr != nil {
		return nil, fmt.Errorf("joining bill: %w", translateRepoErr(findErr, "bill `%s` not found", code))
	}
	if bill.HostID == userID {
		return nil, domain.NewConflictError("host is already a participant of bill %d", bill.ID)
	}

	allowed, admissionErr := s.admission.CanJoin(ctx, bill.HostID, userID, bill.ID)
	if admissionErr != nil {
		return nil, fmt.Errorf("joining bill: checking admission: %w", admissionErr)
	}
	if !allowed {
		return nil, domain.NewUnauthorizedError("user %d is neither invited nor a friend of the host", userID)
	}

	var participant *domain.BillParticipant
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		billRepo, err := uow.GetAs[BillRepository](tx, uow.RepositoryName(repoargs.BillRepoName))
		if err != nil {
			return domain.NewDatabaseError(err, "joining bill")
		}
		locked, lockErr := s.lockActiveBill(c, billRepo, bill.ID)
		if lockErr != nil {
			return lockErr
		}

		admitted, admitErr := s.ledger.AdmitParticipant(c, tx, locked, userID, domain.Breakdown{})
		if admitErr != nil {
			return admitErr //nolint:wrapcheck
		}
		participant = admitted

		assignments, countErr := billRepo.CountAssignments(c, locked.ID)
		if countErr != nil {
			return translateRepoErr(countErr, "counting assignments of bill %d", locked.ID)
		}
		if assignments == 0 {
			updated, splitErr := s.ledger.RecomputeEqualSplit(c, tx, locked)
			if splitErr != nil {
				return splitErr //nolint:wrapcheck
			}
			for i := range updated {
				if updated[i].ID == admitted.ID {
					participant = &updated[i]
				}
			}
		}
		return s.ledger.Reconcile(c, tx, locked) //nolint:wrapcheck
	})
	if txErr != nil {
		return nil, fmt.Errorf("joining bill: %w", txErr)
	}
	return participant, nil
}

// lockActiveBill блокирует счет и проверяет, что он принимает изменения: активен и дедлайн не истек.
func (s *BillService) lockActiveBill(ctx context.Context, billRepo BillRepository, billID int64) (*domain.Bill, error) {
	bill, err := billRepo.LockByID(ctx, billID)
	if err != nil {
		return nil, translateRepoErr(err, "bill %d not found", billID)
	}
	if bill.Status != domain.BillStatusActive {
		return nil, domain.NewConflictError("bill %d is %s", bill.ID, bill.Status)
	}
	if deadline := billcalc.EvaluateDeadline(bill, s.now()); deadline.Expired {
		return nil, domain.NewDeadlineExpiredError("payment deadline %s has passed",
			deadline.Deadline.Format(time.RFC3339))
	}
	return bill, nil
}

// lockHostedBill как lockActiveBill, но дополнительно требует, чтобы hostID был хостом счета.
func (s *BillService) lockHostedBill(
	ctx context.Context,
	tx uow.TX,
	billID, hostID int64,
) (*domain.Bill, BillRepository, error) {
	billRepo, err := uow.GetAs[BillRepository](tx, uow.RepositoryName(repoargs.BillRepoName))
	if err != nil {
		return nil, nil, domain.NewDatabaseError(err, "locking bill")
	}
	bill, lockErr := s.lockActiveBill(ctx, billRepo, billID)
	if lockErr != nil {
		return nil, nil, lockErr
	}
	if bill.HostID != hostID {
		return nil, nil, domain.NewUnauthorizedError("only the host can change bill %d", billID)
	}
	return bill, billRepo, nil
}

// ParticipantBreakdownArgs новое разложение участника. В режиме назначений Assignments заменяют все
// назначения участника (ItemIndex - порядковый номер позиции счета), а Subtotal разложения должен
// совпадать с суммой назначенных позиций. Пустые Assignments снимают с участника все позиции.
type ParticipantBreakdownArgs struct {
	ParticipantID int64
	Breakdown     domain.Breakdown
	Assignments   []AssignmentArgs
}

// ReassignBreakdowns перезаписывает разложения участников, которые еще не платили. Итоговый набор
// разложений должен сходиться с суммами счета.
//
// Счет в режиме назначений остается в нем: назначения переданных участников заменяются, и весь набор
// назначений проверяется заново. Передача назначений в счет равного деления переводит его в режим назначений.
func (s *BillService) ReassignBreakdowns(
	ctx context.Context,
	billID, hostID int64,
	breakdowns []ParticipantBreakdownArgs,
) ([]domain.BillParticipant, error) {
	if len(breakdowns) == 0 {
		return nil, domain.NewValidationError("no breakdowns given")
	}

	var result []domain.BillParticipant
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		bill, billRepo, err := s.lockHostedBill(c, tx, billID, hostID)
		if err != nil {
			return err
		}
		partRepo, err := uow.GetAs[ParticipantRepository](tx, uow.RepositoryName(repoargs.ParticipantRepoName))
		if err != nil {
			return domain.NewDatabaseError(err, "reassigning breakdowns")
		}
		participants, listErr := partRepo.ListByBill(c, bill.ID)
		if listErr != nil {
			return translateRepoErr(listErr, "listing participants of bill %d", bill.ID)
		}

		index := make(map[int64]int, len(participants))
		for i, p := range participants {
			index[p.ID] = i
		}
		updates := make([]repoargs.UpdateBreakdown, 0, len(breakdowns))
		seen := make(map[int64]bool, len(breakdowns))
		for _, b := range breakdowns {
			i, ok := index[b.ParticipantID]
			if !ok {
				return domain.NewNotFoundError("participant %d is not in bill %d", b.ParticipantID, bill.ID)
			}
			if seen[b.ParticipantID] {
				return domain.NewValidationError("participant %d is listed twice", b.ParticipantID)
			}
			seen[b.ParticipantID] = true
			status := participants[i].PaymentStatus
			if status != domain.PaymentStatusPending && status != domain.PaymentStatusScheduled {
				return domain.NewConflictError("participant %d is %s, breakdown cannot change",
					b.ParticipantID, status)
			}
			applyBreakdown(&participants[i], b.Breakdown)
			updates = append(updates, repoargs.UpdateBreakdown{ID: b.ParticipantID, Breakdown: b.Breakdown})
		}

		all := make([]domain.Breakdown, len(participants))
		for i := range participants {
			all[i] = participants[i].Breakdown()
		}
		if err = billcalc.ReconcileBreakdowns(billcalc.FeesOf(bill), all); err != nil {
			return err //nolint:wrapcheck
		}

		if err = s.replaceAssignments(c, billRepo, bill, breakdowns, seen); err != nil {
			return err
		}
		if err = partRepo.UpdateBreakdowns(c, updates); err != nil {
			return translateRepoErr(err, "updating breakdowns of bill %d", bill.ID)
		}
		if err = s.ledger.Reconcile(c, tx, bill); err != nil {
			return err //nolint:wrapcheck
		}
		result = participants
		return nil
	})
	if txErr != nil {
		return nil, fmt.Errorf("reassigning breakdowns: %w", txErr)
	}
	return result, nil
}

// replaceAssignments заменяет назначения участников из reassigned на переданные. Ничего не делает, если
// у счета нет назначений и новых не передано. Сверка идет по всему набору: назначения остальных участников
// остаются и тоже занимают количество позиций.
func (s *BillService) replaceAssignments(
	ctx context.Context,
	billRepo BillRepository,
	bill *domain.Bill,
	breakdowns []ParticipantBreakdownArgs,
	reassigned map[int64]bool,
) error {
	existing, err := billRepo.ListAssignments(ctx, bill.ID)
	if err != nil {
		return translateRepoErr(err, "listing assignments of bill %d", bill.ID)
	}
	given := 0
	for _, b := range breakdowns {
		given += len(b.Assignments)
	}
	if len(existing) == 0 && given == 0 {
		return nil
	}

	items, err := billRepo.ListItems(ctx, bill.ID)
	if err != nil {
		return translateRepoErr(err, "listing items of bill %d", bill.ID)
	}
	calcItems := make([]billcalc.Item, len(items))
	itemIndex := make(map[int64]int, len(items))
	for i, item := range items {
		calcItems[i] = billcalc.Item{Price: item.Price, Quantity: item.Quantity, IsSharing: item.IsSharing}
		itemIndex[item.ID] = i
	}

	// ключ назначения - id участника, а не юзера
	merged := make([]billcalc.Assignment, 0, len(existing)+given)
	for _, a := range existing {
		if reassigned[a.ParticipantID] {
			continue
		}
		merged = append(merged, billcalc.Assignment{
			ItemIndex:        itemIndex[a.ItemID],
			UserID:           a.ParticipantID,
			QuantityAssigned: a.QuantityAssigned,
			AmountAssigned:   a.AmountAssigned,
		})
	}
	for _, b := range breakdowns {
		for _, a := range b.Assignments {
			merged = append(merged, billcalc.Assignment{
				ItemIndex:        a.ItemIndex,
				UserID:           b.ParticipantID,
				QuantityAssigned: a.QuantityAssigned,
				AmountAssigned:   a.AmountAssigned,
			})
		}
	}
	subtotals, assignErr := billcalc.ReconcileAssignments(calcItems, merged)
	if assignErr != nil {
		return assignErr //nolint:wrapcheck
	}

	ids := make([]int64, 0, len(breakdowns))
	created := make([]repoargs.CreateItemAssignment, 0, given)
	for _, b := range breakdowns {
		assigned := subtotals[b.ParticipantID]
		if !billcalc.WithinEpsilon(b.Breakdown.Subtotal, assigned) {
			return domain.NewValidationError(
				"participant %d breakdown subtotal %s does not match assigned items %s (delta %s)",
				b.ParticipantID, b.Breakdown.Subtotal, assigned, b.Breakdown.Subtotal.Sub(assigned))
		}
		ids = append(ids, b.ParticipantID)
		for _, a := range b.Assignments {
			created = append(created, repoargs.CreateItemAssignment{
				ItemID:           items[a.ItemIndex].ID,
				ParticipantID:    b.ParticipantID,
				QuantityAssigned: a.QuantityAssigned,
				AmountAssigned:   a.AmountAssigned,
			})
		}
	}

	if err = billRepo.DeleteAssignments(ctx, ids); err != nil {
		return translateRepoErr(err, "clearing assignments of bill %d", bill.ID)
	}
	if err = billRepo.CreateAssignments(ctx, created); err != nil {
		return translateRepoErr(err, "creating assignments of bill %d", bill.ID)
	}
	return nil
}

// RemoveParticipant удаляет неоплатившего участника. В режиме равного деления доли пересчитываются.
// В режиме назначений удалить можно только участника с нулевой долей: сначала хост перераспределяет ее.
// Если остальные участники уже рассчитались, счет завершается.
func (s *BillService) RemoveParticipant(ctx context.Context, billID, hostID, participantID int64) error {
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		bill, billRepo, err := s.lockHostedBill(c, tx, billID, hostID)
		if err != nil {
			return err
		}
		partRepo, err := uow.GetAs[ParticipantRepository](tx, uow.RepositoryName(repoargs.ParticipantRepoName))
		if err != nil {
			return domain.NewDatabaseError(err, "removing participant")
		}
		participant, lockErr := partRepo.LockByID(c, participantID)
		if lockErr != nil || participant.BillID != bill.ID {
			if lockErr != nil && !errors.Is(lockErr, domain.ErrRecordNotFound) {
				return translateRepoErr(lockErr, "locking participant %d", participantID)
			}
			return domain.NewNotFoundError("participant %d is not in bill %d", participantID, bill.ID)
		}
		if participant.UserID == bill.HostID {
			return domain.NewConflictError("host cannot be removed from bill %d", bill.ID)
		}
		if participant.PaymentStatus != domain.PaymentStatusPending {
			return domain.NewConflictError("participant %d is %s and cannot be removed",
				participant.ID, participant.PaymentStatus)
		}

		assignments, countErr := billRepo.CountAssignments(c, bill.ID)
		if countErr != nil {
			return translateRepoErr(countErr, "counting assignments of bill %d", bill.ID)
		}
		if assignments > 0 && !participant.AmountShare.IsZero() {
			return domain.NewConflictError("participant %d still owes %s, reassign the share first",
				participant.ID, participant.AmountShare)
		}

		if err = partRepo.Delete(c, participant.ID); err != nil {
			return translateRepoErr(err, "removing participant %d", participant.ID)
		}
		if assignments == 0 {
			if _, err = s.ledger.RecomputeEqualSplit(c, tx, bill); err != nil {
				return err //nolint:wrapcheck
			}
		}
		if err = s.ledger.Reconcile(c, tx, bill); err != nil {
			return err //nolint:wrapcheck
		}
		// удален последний, кто еще не платил
		return completeBillIfSettled(c, billRepo, partRepo, bill, nil)
	})
	if txErr != nil {
		return fmt.Errorf("removing participant: %w", txErr)
	}
	return nil
}

type PaymentSummary struct {
	PaidCount    int
	PendingCount int
	FailedCount  int
	Collected    decimal.Decimal
	Outstanding  decimal.Decimal
}

type BillSettlementView struct {
	Bill         *domain.Bill
	Deadline     time.Time
	IsExpired    bool
	Items        []domain.BillItem
	Assignments  []domain.ItemAssignment
	Participants []domain.BillParticipant
	Payments     []domain.Payment
	Summary      PaymentSummary
}

// GetBillSettlementView собирает состояние расчетов по счету. Счет виден только его участникам.
// Дедлайн вычисляется на момент чтения.
func (s *BillService) GetBillSettlementView(ctx context.Context, billID, viewerID int64) (*BillSettlementView, error) {
	bill, err := s.billRepo.FindByID(ctx, billID)
	if err != nil {
		return nil, fmt.Errorf("bill view: %w", translateRepoErr(err, "bill %d not found", billID))
	}
	participants, err := s.partRepo.ListByBill(ctx, bill.ID)
	if err != nil {
		return nil, fmt.Errorf("bill view: %w", translateRepoErr(err, "listing participants of bill %d", billID))
	}

	visible := bill.HostID == viewerID
	for _, p := range participants {
		if p.UserID == viewerID {
			visible = true
		}
	}
	if !visible {
		return nil, domain.NewNotFoundError("bill %d not found", billID)
	}

	items, err := s.billRepo.ListItems(ctx, bill.ID)
	if err != nil {
		return nil, fmt.Errorf("bill view: %w", translateRepoErr(err, "listing items of bill %d", billID))
	}
	assignments, err := s.billRepo.ListAssignments(ctx, bill.ID)
	if err != nil {
		return nil, fmt.Errorf("bill view: %w", translateRepoErr(err, "listing assignments of bill %d", billID))
	}
	payments, err := s.payRepo.ListByBill(ctx, bill.ID)
	if err != nil {
		return nil, fmt.Errorf("bill view: %w", translateRepoErr(err, "listing payments of bill %d", billID))
	}

	deadline := billcalc.EvaluateDeadline(bill, s.now())
	return &BillSettlementView{
		Bill:         bill,
		Deadline:     deadline.Deadline,
		IsExpired:    deadline.Expired,
		Items:        items,
		Assignments:  assignments,
		Participants: participants,
		Payments:     payments,
		Summary:      summarize(participants),
	}, nil
}

func summarize(participants []domain.BillParticipant) PaymentSummary {
	summary := PaymentSummary{Collected: decimal.Zero, Outstanding: decimal.Zero}
	for _, p := range participants {
		switch {
		case p.PaymentStatus.IsSettled():
			summary.PaidCount++
			summary.Collected = summary.Collected.Add(p.AmountShare)
		case p.PaymentStatus == domain.PaymentStatusFailed:
			summary.FailedCount++
		default:
			summary.PendingCount++
			summary.Outstanding = summary.Outstanding.Add(p.AmountShare)
		}
	}
	return summary
}
