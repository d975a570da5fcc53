package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fsdevblog/billsplit/internal/billcalc"
	"github.com/fsdevblog/billsplit/internal/domain"
	"github.com/fsdevblog/billsplit/internal/repository/repoargs"
	"github.com/fsdevblog/billsplit/pkg/uow"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// InsufficientFundsPolicy определяет судьбу участника, которому не хватило средств.
type InsufficientFundsPolicy string

const (
	// PolicyKeepPending участник остается pending и может повторить оплату.
	PolicyKeepPending InsufficientFundsPolicy = "keep_pending"
	// PolicyMarkFailed участник переводится в failed, изменение фиксируется.
	PolicyMarkFailed InsufficientFundsPolicy = "mark_failed"
)

// ParseInsufficientFundsPolicy разбирает значение из конфигурации. Пустая строка - PolicyKeepPending.
func ParseInsufficientFundsPolicy(value string) (InsufficientFundsPolicy, error) {
	switch InsufficientFundsPolicy(value) {
	case "", PolicyKeepPending:
		return PolicyKeepPending, nil
	case PolicyMarkFailed:
		return PolicyMarkFailed, nil
	default:
		return "", fmt.Errorf("unknown insufficient funds policy `%s`", value)
	}
}

// Исходы попыток оплаты для метрик.
const (
	OutcomeSettled           = "settled"
	OutcomeScheduled         = "scheduled"
	OutcomeExpired           = "expired"
	OutcomeInsufficientFunds = "insufficient_funds"
	OutcomeRejected          = "rejected"
)

type PaymentService struct {
	uow       uow.UOW
	hasher    PasswordHasher
	simulator *SettlementSimulator
	policy    InsufficientFundsPolicy
	now       Clock
	publisher EventPublisher
	observer  PaymentObserver
	logger    *logrus.Entry
}

func NewPaymentService(
	u uow.UOW,
	hasher PasswordHasher,
	simulator *SettlementSimulator,
	l *logrus.Logger,
) *PaymentService {
	return &PaymentService{
		uow:       u,
		hasher:    hasher,
		simulator: simulator,
		policy:    PolicyKeepPending,
		now:       systemClock,
		logger:    l.WithField("component", "payment"),
	}
}

func (s *PaymentService) SetInsufficientFundsPolicy(policy InsufficientFundsPolicy) *PaymentService {
	s.policy = policy
	return s
}

func (s *PaymentService) SetClock(clock Clock) *PaymentService {
	s.now = clock
	return s
}

func (s *PaymentService) SetEventPublisher(publisher EventPublisher) *PaymentService {
	s.publisher = publisher
	return s
}

func (s *PaymentService) SetObserver(observer PaymentObserver) *PaymentService {
	s.observer = observer
	return s
}

type AttemptPaymentArgs struct {
	ParticipantID int64
	PayerID       int64
	Amount        decimal.Decimal
	Credential    string
	ScheduledDate *time.Time
}

type PaymentReceipt struct {
	Participant  *domain.BillParticipant
	Payment      *domain.Payment
	PayerBalance decimal.Decimal
	Deadline     time.Time
}

type SchedulePaymentArgs struct {
	ParticipantID int64
	PayerID       int64
	Credential    string
	ScheduledDate time.Time
}

// paymentScope заблокированные счет и участник вместе с репозиториями транзакции.
type paymentScope struct {
	bill            *domain.Bill
	participant     *domain.BillParticipant
	deadline        billcalc.DeadlineState
	billRepo        BillRepository
	participantRepo ParticipantRepository
}

// AttemptPayment проводит оплату доли участника. Все шаги выполняются в одной транзакции со строками счета
// и участника под блокировкой.
//
// Порядок проверок: принадлежность участника плательщику, терминальный статус, пароль плательщика, дедлайн,
// сумма, дата отложенной оплаты, перевод средств. Истечение дедлайна фиксирует статусы failed/expired и только
// после этого возвращает domain.ErrDeadlineExpired. Нехватка средств обрабатывается по InsufficientFundsPolicy.
func (s *PaymentService) AttemptPayment(ctx context.Context, args AttemptPaymentArgs) (*PaymentReceipt, error) {
	var receipt *PaymentReceipt
	var event *domain.PaymentEvent
	// ошибка, которую нужно вернуть после фиксации транзакции
	var committedErr error

	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		now := s.now()
		scope, scopeErr := s.lockScope(c, tx, args.ParticipantID, args.PayerID, args.Credential, now)
		if scopeErr != nil {
			return scopeErr
		}
		participant := scope.participant

		if scope.deadline.Expired {
			event, committedErr = s.expire(c, scope, now)
			if event == nil {
				return committedErr
			}
			return nil
		}

		if !billcalc.WithinEpsilon(args.Amount, participant.AmountShare) {
			return domain.NewValidationError("amount %s does not match participant share %s",
				args.Amount, participant.AmountShare)
		}

		if args.ScheduledDate != nil {
			if err := validateScheduledDate(scope.bill, scope.deadline, *args.ScheduledDate); err != nil {
				return err
			}
		}

		// дата из запроса, иначе сохраненная при SchedulePayment
		scheduledDate := args.ScheduledDate
		if scheduledDate == nil && participant.PaymentStatus == domain.PaymentStatusScheduled {
			scheduledDate = participant.ScheduledDate
		}
		paymentType := domain.PaymentTypeInstant
		if scheduledDate != nil {
			paymentType = domain.PaymentTypeScheduled
		}

		transfer, transferErr := s.simulator.Transfer(c, tx, args.PayerID, scope.bill.HostID, args.Amount, paymentType)
		if transferErr != nil {
			if errors.Is(transferErr, domain.ErrInsufficientFunds) && s.policy == PolicyMarkFailed {
				event, committedErr = s.markFailed(c, scope, transferErr, now)
				if event == nil {
					return committedErr
				}
				return nil
			}
			return transferErr //nolint:wrapcheck
		}

		status := domain.PaymentStatusCompleted
		switch {
		case paymentType == domain.PaymentTypeScheduled:
			status = domain.PaymentStatusCompletedScheduled
		case scope.deadline.Late():
			status = domain.PaymentStatusCompletedLate
		}

		paymentRepo, err := uow.GetAs[PaymentRepository](tx, uow.RepositoryName(repoargs.PaymentRepoName))
		if err != nil {
			return domain.NewDatabaseError(err, "attempting payment")
		}
		payment, paymentErr := paymentRepo.Create(c, repoargs.CreatePayment{
			BillID:        scope.bill.ID,
			ParticipantID: participant.ID,
			Amount:        args.Amount,
			PaymentType:   paymentType,
			Status:        domain.PaymentRecordStatusSettled,
			TransactionID: transfer.TransactionID,
			ScheduledDate: scheduledDate,
			PaidAt:        now,
		})
		if paymentErr != nil {
			return translateRepoErr(paymentErr, "recording payment of participant %d", participant.ID)
		}

		if err = scope.participantRepo.UpdateStatus(c, repoargs.UpdateParticipantStatus{
			ID:            participant.ID,
			Status:        status,
			PaidAt:        &now,
			ScheduledDate: scheduledDate,
		}); err != nil {
			return translateRepoErr(err, "updating participant %d status", participant.ID)
		}
		participant.PaymentStatus = status
		participant.PaidAt = &now
		participant.ScheduledDate = scheduledDate

		if err = completeBillIfSettled(c, scope.billRepo, scope.participantRepo, scope.bill, participant); err != nil {
			return err
		}

		receipt = &PaymentReceipt{
			Participant:  participant,
			Payment:      payment,
			PayerBalance: transfer.PayerBalance,
			Deadline:     scope.deadline.Deadline,
		}
		event = &domain.PaymentEvent{
			Type:          domain.PaymentEventSettled,
			BillID:        scope.bill.ID,
			ParticipantID: participant.ID,
			UserID:        participant.UserID,
			Status:        status,
			Amount:        args.Amount,
			TransactionID: transfer.TransactionID,
			OccurredAt:    now,
		}
		return nil
	})

	if txErr != nil {
		s.observe(outcomeOf(txErr), decimal.Zero)
		return nil, fmt.Errorf("attempting payment: %w", txErr)
	}

	s.publish(ctx, event)
	if committedErr != nil {
		s.observe(outcomeOf(committedErr), decimal.Zero)
		return nil, fmt.Errorf("attempting payment: %w", committedErr)
	}
	s.observe(OutcomeSettled, receipt.Payment.Amount)
	return receipt, nil
}

// SchedulePayment фиксирует намерение оплатить позже: pending -> scheduled. Деньги не списываются,
// дата сохраняется у участника и попадает в запись о последующей оплате.
func (s *PaymentService) SchedulePayment(
	ctx context.Context,
	args SchedulePaymentArgs,
) (*domain.BillParticipant, error) {
	var participant *domain.BillParticipant
	var event *domain.PaymentEvent
	var committedErr error

	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		now := s.now()
		scope, scopeErr := s.lockScope(c, tx, args.ParticipantID, args.PayerID, args.Credential, now)
		if scopeErr != nil {
			return scopeErr
		}

		if scope.deadline.Expired {
			event, committedErr = s.expire(c, scope, now)
			if event == nil {
				return committedErr
			}
			return nil
		}
		if scope.participant.PaymentStatus != domain.PaymentStatusPending {
			return domain.NewConflictError("participant %d payment is already %s",
				scope.participant.ID, scope.participant.PaymentStatus)
		}
		if err := validateScheduledDate(scope.bill, scope.deadline, args.ScheduledDate); err != nil {
			return err
		}

		if err := scope.participantRepo.UpdateStatus(c, repoargs.UpdateParticipantStatus{
			ID:            scope.participant.ID,
			Status:        domain.PaymentStatusScheduled,
			ScheduledDate: &args.ScheduledDate,
		}); err != nil {
			return translateRepoErr(err, "updating participant %d status", scope.participant.ID)
		}
		scope.participant.PaymentStatus = domain.PaymentStatusScheduled
		scope.participant.ScheduledDate = &args.ScheduledDate
		participant = scope.participant

		event = &domain.PaymentEvent{
			Type:          domain.PaymentEventScheduled,
			BillID:        scope.bill.ID,
			ParticipantID: participant.ID,
			UserID:        participant.UserID,
			Status:        participant.PaymentStatus,
			Amount:        participant.AmountShare,
			OccurredAt:    now,
		}
		return nil
	})

	if txErr != nil {
		s.observe(outcomeOf(txErr), decimal.Zero)
		return nil, fmt.Errorf("scheduling payment: %w", txErr)
	}

	s.publish(ctx, event)
	if committedErr != nil {
		s.observe(outcomeOf(committedErr), decimal.Zero)
		return nil, fmt.Errorf("scheduling payment: %w", committedErr)
	}
	s.observe(OutcomeScheduled, participant.AmountShare)
	return participant, nil
}

// lockScope блокирует счет и участника (в этом порядке, как и остальные операции над счетом), проверяет
// принадлежность участника плательщику, отсутствие терминального статуса и пароль плательщика.
func (s *PaymentService) lockScope(
	ctx context.Context,
	tx uow.TX,
	participantID, payerID int64,
	credential string,
	now time.Time,
) (*paymentScope, error) {
	participantRepo, err := uow.GetAs[ParticipantRepository](tx, uow.RepositoryName(repoargs.ParticipantRepoName))
	if err != nil {
		return nil, domain.NewDatabaseError(err, "locking payment scope")
	}
	billRepo, err := uow.GetAs[BillRepository](tx, uow.RepositoryName(repoargs.BillRepoName))
	if err != nil {
		return nil, domain.NewDatabaseError(err, "locking payment scope")
	}
	userRepo, err := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
	if err != nil {
		return nil, domain.NewDatabaseError(err, "locking payment scope")
	}

	notFound := domain.NewNotFoundError("participant %d not found", participantID)

	found, findErr := participantRepo.FindByID(ctx, participantID)
	if findErr != nil {
		if errors.Is(findErr, domain.ErrRecordNotFound) {
			return nil, notFound
		}
		return nil, translateRepoErr(findErr, "finding participant %d", participantID)
	}
	if found.UserID != payerID {
		return nil, notFound
	}

	bill, billErr := billRepo.LockByID(ctx, found.BillID)
	if billErr != nil {
		return nil, translateRepoErr(billErr, "bill %d not found", found.BillID)
	}
	participant, lockErr := participantRepo.LockByID(ctx, participantID)
	if lockErr != nil {
		return nil, translateRepoErr(lockErr, "participant %d not found", participantID)
	}

	switch {
	case participant.PaymentStatus.IsSettled():
		return nil, domain.NewConflictError("participant %d has already paid", participant.ID)
	case participant.PaymentStatus == domain.PaymentStatusFailed:
		return nil, domain.NewConflictError("participant %d payment has failed", participant.ID)
	}

	payer, userErr := userRepo.FindByID(ctx, payerID)
	if userErr != nil {
		return nil, translateRepoErr(userErr, "payer %d not found", payerID)
	}
	if !s.hasher.ComparePassword(credential, payer.EncryptedPassword) {
		return nil, domain.NewUnauthorizedError("invalid credential")
	}

	return &paymentScope{
		bill:            bill,
		participant:     participant,
		deadline:        billcalc.EvaluateDeadline(bill, now),
		billRepo:        billRepo,
		participantRepo: participantRepo,
	}, nil
}

// expire переводит участника в failed, а активный счет в expired. Возвращает событие и ошибку дедлайна,
// либо nil событие и ошибку хранилища, которая должна откатить транзакцию.
func (s *PaymentService) expire(
	ctx context.Context,
	scope *paymentScope,
	now time.Time,
) (*domain.PaymentEvent, error) {
	if err := scope.participantRepo.UpdateStatus(ctx, repoargs.UpdateParticipantStatus{
		ID:     scope.participant.ID,
		Status: domain.PaymentStatusFailed,
	}); err != nil {
		return nil, translateRepoErr(err, "expiring participant %d", scope.participant.ID)
	}
	if scope.bill.Status == domain.BillStatusActive {
		if err := scope.billRepo.UpdateStatus(ctx, repoargs.UpdateBillStatus{
			ID:     scope.bill.ID,
			Status: domain.BillStatusExpired,
		}); err != nil {
			return nil, translateRepoErr(err, "expiring bill %d", scope.bill.ID)
		}
	}

	event := &domain.PaymentEvent{
		Type:          domain.PaymentEventExpired,
		BillID:        scope.bill.ID,
		ParticipantID: scope.participant.ID,
		UserID:        scope.participant.UserID,
		Status:        domain.PaymentStatusFailed,
		Amount:        scope.participant.AmountShare,
		OccurredAt:    now,
	}
	return event, domain.NewDeadlineExpiredError("payment deadline %s has passed",
		scope.deadline.Deadline.Format(time.RFC3339))
}

// markFailed фиксирует failed после нехватки средств (PolicyMarkFailed).
func (s *PaymentService) markFailed(
	ctx context.Context,
	scope *paymentScope,
	cause error,
	now time.Time,
) (*domain.PaymentEvent, error) {
	if err := scope.participantRepo.UpdateStatus(ctx, repoargs.UpdateParticipantStatus{
		ID:     scope.participant.ID,
		Status: domain.PaymentStatusFailed,
	}); err != nil {
		return nil, translateRepoErr(err, "failing participant %d", scope.participant.ID)
	}
	event := &domain.PaymentEvent{
		Type:          domain.PaymentEventFailed,
		BillID:        scope.bill.ID,
		ParticipantID: scope.participant.ID,
		UserID:        scope.participant.UserID,
		Status:        domain.PaymentStatusFailed,
		Amount:        scope.participant.AmountShare,
		OccurredAt:    now,
	}
	return event, cause
}

func (s *PaymentService) publish(ctx context.Context, event *domain.PaymentEvent) {
	if s.publisher == nil || event == nil {
		return
	}
	if err := s.publisher.Publish(ctx, *event); err != nil {
		s.logger.WithError(err).
			WithField("participantID", event.ParticipantID).
			WithField("type", event.Type).
			Error("publishing payment event")
	}
}

func (s *PaymentService) observe(outcome string, amount decimal.Decimal) {
	if s.observer == nil {
		return
	}
	s.observer.ObservePayment(outcome, amount.InexactFloat64())
}

// validateScheduledDate дата отложенной оплаты должна быть в будущем и не позже дедлайна, а счет должен
// разрешать отложенную оплату.
func validateScheduledDate(bill *domain.Bill, deadline billcalc.DeadlineState, scheduledDate time.Time) error {
	switch {
	case !bill.AllowScheduledPayment:
		return domain.NewValidationError("bill %d does not allow scheduled payment", bill.ID)
	case !scheduledDate.After(deadline.Now):
		return domain.NewValidationError("scheduled date must be in the future")
	case scheduledDate.After(deadline.Deadline):
		return domain.NewValidationError("scheduled date must not be after the payment deadline %s",
			deadline.Deadline.Format(time.RFC3339))
	}
	return nil
}

func outcomeOf(err error) string {
	switch domain.KindOf(err) {
	case domain.KindDeadlineExpired:
		return OutcomeExpired
	case domain.KindInsufficientFunds:
		return OutcomeInsufficientFunds
	default:
		return OutcomeRejected
	}
}
