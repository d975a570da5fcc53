package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/fsdevblog/billsplit/internal/domain"
	"github.com/fsdevblog/billsplit/internal/repository/repoargs"
	"github.com/fsdevblog/billsplit/internal/service/mocks"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

type PaymentServiceTestSuite struct {
	suite.Suite
	repos     *repoMocks
	hasher    *mocks.MockPasswordHasher
	publisher *mocks.MockEventPublisher
	observer  *mocks.MockPaymentObserver
	service   *PaymentService

	now         time.Time
	bill        domain.Bill
	participant domain.BillParticipant
	payer       domain.User
}

func TestPaymentServiceSuite(t *testing.T) {
	suite.Run(t, new(PaymentServiceTestSuite))
}

func (s *PaymentServiceTestSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.repos = newRepoMocks(ctrl)
	s.hasher = mocks.NewMockPasswordHasher(ctrl)
	s.publisher = mocks.NewMockEventPublisher(ctrl)
	s.observer = mocks.NewMockPaymentObserver(ctrl)

	createdAt := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	s.now = createdAt.Add(2 * time.Hour)
	s.bill = domain.Bill{
		ID:          10,
		CreatedAt:   createdAt,
		HostID:      1,
		TotalAmount: dec("396000"),
		Status:      domain.BillStatusActive,
	}
	s.participant = domain.BillParticipant{
		ID:            100,
		BillID:        s.bill.ID,
		UserID:        2,
		AmountShare:   dec("198000"),
		PaymentStatus: domain.PaymentStatusPending,
	}
	s.payer = domain.User{ID: 2, Username: "payer", EncryptedPassword: "hash"}

	simulator, err := NewSettlementSimulator(s.repos.uow)
	s.Require().NoError(err)

	s.service = NewPaymentService(s.repos.uow, s.hasher, simulator, discardLogger()).
		SetClock(func() time.Time { return s.now }).
		SetEventPublisher(s.publisher).
		SetObserver(s.observer)
}

// expectScope настраивает успешное прохождение проверок принадлежности, статуса и пароля.
func (s *PaymentServiceTestSuite) expectScope() {
	found := s.participant
	locked := s.participant
	bill := s.bill
	payer := s.payer
	s.repos.participant.EXPECT().FindByID(gomock.Any(), s.participant.ID).Return(&found, nil)
	s.repos.bill.EXPECT().LockByID(gomock.Any(), s.bill.ID).Return(&bill, nil)
	s.repos.participant.EXPECT().LockByID(gomock.Any(), s.participant.ID).Return(&locked, nil)
	s.repos.user.EXPECT().FindByID(gomock.Any(), s.payer.ID).Return(&payer, nil)
	s.hasher.EXPECT().ComparePassword("pin", s.payer.EncryptedPassword).Return(true)
}

func (s *PaymentServiceTestSuite) expectAccounts(payerBalance string) {
	s.repos.account.EXPECT().LockByUserIDs(gomock.Any(), s.payer.ID, s.bill.HostID).
		Return([]domain.LedgerAccount{
			{AccountNumber: "ACC-0001", UserID: s.bill.HostID, Balance: dec("1000")},
			{AccountNumber: "ACC-0002", UserID: s.payer.ID, Balance: dec(payerBalance)},
		}, nil)
}

// expectSettlement настраивает успешный перевод и проверяет итоговый статус участника.
func (s *PaymentServiceTestSuite) expectSettlement(wantStatus domain.PaymentStatusType, wantType domain.PaymentType) {
	s.expectAccounts("500000")
	s.repos.account.EXPECT().UpdateBalance(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.UpdateBalance) error {
			switch args.AccountNumber {
			case "ACC-0002":
				s.Equal("302000", args.Balance.String())
			case "ACC-0001":
				s.Equal("199000", args.Balance.String())
			default:
				s.Failf("unexpected account", "account %s", args.AccountNumber)
			}
			return nil
		}).Times(2)

	s.repos.payment.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.CreatePayment) (*domain.Payment, error) {
			s.Equal(s.bill.ID, args.BillID)
			s.Equal(s.participant.ID, args.ParticipantID)
			s.Equal("198000", args.Amount.String())
			s.Equal(wantType, args.PaymentType)
			s.Equal(domain.PaymentRecordStatusSettled, args.Status)
			s.Equal(s.now, args.PaidAt)
			return &domain.Payment{
				ID:            1,
				BillID:        args.BillID,
				ParticipantID: args.ParticipantID,
				Amount:        args.Amount,
				PaymentType:   args.PaymentType,
				Status:        args.Status,
				TransactionID: args.TransactionID,
				ScheduledDate: args.ScheduledDate,
				PaidAt:        args.PaidAt,
			}, nil
		})

	s.repos.participant.EXPECT().UpdateStatus(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.UpdateParticipantStatus) error {
			s.Equal(s.participant.ID, args.ID)
			s.Equal(wantStatus, args.Status)
			s.Require().NotNil(args.PaidAt)
			s.Equal(s.now, *args.PaidAt)
			return nil
		})

	s.repos.participant.EXPECT().ListByBill(gomock.Any(), s.bill.ID).Return([]domain.BillParticipant{
		{ID: 99, BillID: s.bill.ID, UserID: s.bill.HostID, PaymentStatus: domain.PaymentStatusCompleted},
		s.participant,
	}, nil)
	s.repos.bill.EXPECT().UpdateStatus(gomock.Any(), repoargs.UpdateBillStatus{
		ID:     s.bill.ID,
		Status: domain.BillStatusCompleted,
	}).Return(nil)

	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, event domain.PaymentEvent) error {
			s.Equal(domain.PaymentEventSettled, event.Type)
			s.Equal(wantStatus, event.Status)
			return nil
		})
	s.observer.EXPECT().ObservePayment(OutcomeSettled, 198000.0)
}

func (s *PaymentServiceTestSuite) attemptArgs() AttemptPaymentArgs {
	return AttemptPaymentArgs{
		ParticipantID: s.participant.ID,
		PayerID:       s.payer.ID,
		Amount:        dec("198000"),
		Credential:    "pin",
	}
}

func (s *PaymentServiceTestSuite) TestAttemptPayment_Success() {
	s.expectScope()
	s.expectSettlement(domain.PaymentStatusCompleted, domain.PaymentTypeInstant)

	receipt, err := s.service.AttemptPayment(s.T().Context(), s.attemptArgs())
	s.Require().NoError(err)

	s.Equal(domain.PaymentStatusCompleted, receipt.Participant.PaymentStatus)
	s.Equal("302000", receipt.PayerBalance.String())
	s.True(strings.HasPrefix(receipt.Payment.TransactionID, instantRefPrefix))
	s.Equal(s.bill.CreatedAt.Add(24*time.Hour), receipt.Deadline)
}

func (s *PaymentServiceTestSuite) TestAttemptPayment_AlreadySettled() {
	for _, status := range []domain.PaymentStatusType{
		domain.PaymentStatusCompleted,
		domain.PaymentStatusCompletedLate,
		domain.PaymentStatusCompletedScheduled,
		domain.PaymentStatusFailed,
	} {
		s.Run(string(status), func() {
			participant := s.participant
			participant.PaymentStatus = status
			bill := s.bill
			s.repos.participant.EXPECT().FindByID(gomock.Any(), participant.ID).Return(&participant, nil)
			s.repos.bill.EXPECT().LockByID(gomock.Any(), bill.ID).Return(&bill, nil)
			s.repos.participant.EXPECT().LockByID(gomock.Any(), participant.ID).Return(&participant, nil)
			s.observer.EXPECT().ObservePayment(OutcomeRejected, 0.0)

			_, err := s.service.AttemptPayment(s.T().Context(), s.attemptArgs())
			s.Require().ErrorIs(err, domain.ErrConflict)
		})
	}
}

func (s *PaymentServiceTestSuite) TestAttemptPayment_ForeignParticipant() {
	participant := s.participant
	s.repos.participant.EXPECT().FindByID(gomock.Any(), participant.ID).Return(&participant, nil)
	s.observer.EXPECT().ObservePayment(OutcomeRejected, 0.0)

	args := s.attemptArgs()
	args.PayerID = 3
	_, err := s.service.AttemptPayment(s.T().Context(), args)
	s.Require().ErrorIs(err, domain.ErrNotFound)
}

func (s *PaymentServiceTestSuite) TestAttemptPayment_WrongCredential() {
	found := s.participant
	locked := s.participant
	bill := s.bill
	payer := s.payer
	s.repos.participant.EXPECT().FindByID(gomock.Any(), found.ID).Return(&found, nil)
	s.repos.bill.EXPECT().LockByID(gomock.Any(), bill.ID).Return(&bill, nil)
	s.repos.participant.EXPECT().LockByID(gomock.Any(), locked.ID).Return(&locked, nil)
	s.repos.user.EXPECT().FindByID(gomock.Any(), payer.ID).Return(&payer, nil)
	s.hasher.EXPECT().ComparePassword("wrong", payer.EncryptedPassword).Return(false)
	s.observer.EXPECT().ObservePayment(OutcomeRejected, 0.0)

	args := s.attemptArgs()
	args.Credential = "wrong"
	_, err := s.service.AttemptPayment(s.T().Context(), args)
	s.Require().ErrorIs(err, domain.ErrUnauthorized)
}

func (s *PaymentServiceTestSuite) TestAttemptPayment_AmountMismatch() {
	s.expectScope()
	s.observer.EXPECT().ObservePayment(OutcomeRejected, 0.0)

	args := s.attemptArgs()
	args.Amount = dec("198001.01")
	_, err := s.service.AttemptPayment(s.T().Context(), args)
	s.Require().ErrorIs(err, domain.ErrValidation)
}

func (s *PaymentServiceTestSuite) TestAttemptPayment_AmountWithinEpsilon() {
	s.expectScope()
	s.expectAccounts("500000")
	s.repos.account.EXPECT().UpdateBalance(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	s.repos.payment.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.CreatePayment) (*domain.Payment, error) {
			s.Equal("198001", args.Amount.String())
			return &domain.Payment{Amount: args.Amount, TransactionID: args.TransactionID}, nil
		})
	s.repos.participant.EXPECT().UpdateStatus(gomock.Any(), gomock.Any()).Return(nil)
	s.repos.participant.EXPECT().ListByBill(gomock.Any(), s.bill.ID).Return([]domain.BillParticipant{
		s.participant,
		{ID: 101, BillID: s.bill.ID, UserID: 3, PaymentStatus: domain.PaymentStatusPending},
	}, nil)
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)
	s.observer.EXPECT().ObservePayment(OutcomeSettled, 198001.0)

	args := s.attemptArgs()
	args.Amount = dec("198001")
	receipt, err := s.service.AttemptPayment(s.T().Context(), args)
	s.Require().NoError(err)
	s.Equal(domain.PaymentStatusCompleted, receipt.Participant.PaymentStatus)
}

func (s *PaymentServiceTestSuite) TestAttemptPayment_DeadlineBoundary() {
	deadline := s.bill.CreatedAt.Add(24 * time.Hour)

	s.Run("one millisecond before deadline succeeds", func() {
		s.now = deadline.Add(-time.Millisecond)
		s.expectScope()
		s.expectSettlement(domain.PaymentStatusCompleted, domain.PaymentTypeInstant)

		_, err := s.service.AttemptPayment(s.T().Context(), s.attemptArgs())
		s.Require().NoError(err)
	})

	s.Run("one millisecond after deadline fails and is committed", func() {
		s.now = deadline.Add(time.Millisecond)
		s.expectScope()
		s.repos.participant.EXPECT().UpdateStatus(gomock.Any(), repoargs.UpdateParticipantStatus{
			ID:     s.participant.ID,
			Status: domain.PaymentStatusFailed,
		}).Return(nil)
		s.repos.bill.EXPECT().UpdateStatus(gomock.Any(), repoargs.UpdateBillStatus{
			ID:     s.bill.ID,
			Status: domain.BillStatusExpired,
		}).Return(nil)
		s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, event domain.PaymentEvent) error {
				s.Equal(domain.PaymentEventExpired, event.Type)
				return nil
			})
		s.observer.EXPECT().ObservePayment(OutcomeExpired, 0.0)

		_, err := s.service.AttemptPayment(s.T().Context(), s.attemptArgs())
		s.Require().ErrorIs(err, domain.ErrDeadlineExpired)
	})
}

func (s *PaymentServiceTestSuite) TestAttemptPayment_CompletedLate() {
	maxPaymentDate := s.bill.CreatedAt.Add(48 * time.Hour)
	s.bill.AllowScheduledPayment = true
	s.bill.MaxPaymentDate = &maxPaymentDate
	s.now = s.bill.CreatedAt.Add(30 * time.Hour)

	s.expectScope()
	s.expectSettlement(domain.PaymentStatusCompletedLate, domain.PaymentTypeInstant)

	receipt, err := s.service.AttemptPayment(s.T().Context(), s.attemptArgs())
	s.Require().NoError(err)
	s.Equal(domain.PaymentStatusCompletedLate, receipt.Participant.PaymentStatus)
	s.Equal(maxPaymentDate, receipt.Deadline)
}

func (s *PaymentServiceTestSuite) TestAttemptPayment_Scheduled() {
	maxPaymentDate := s.bill.CreatedAt.Add(72 * time.Hour)
	s.bill.AllowScheduledPayment = true
	s.bill.MaxPaymentDate = &maxPaymentDate
	scheduledDate := s.now.Add(24 * time.Hour)

	s.expectScope()
	s.expectSettlement(domain.PaymentStatusCompletedScheduled, domain.PaymentTypeScheduled)

	args := s.attemptArgs()
	args.ScheduledDate = &scheduledDate
	receipt, err := s.service.AttemptPayment(s.T().Context(), args)
	s.Require().NoError(err)
	s.True(strings.HasPrefix(receipt.Payment.TransactionID, scheduledRefPrefix))
	s.Equal(scheduledDate, *receipt.Payment.ScheduledDate)
}

func (s *PaymentServiceTestSuite) TestAttemptPayment_InvalidScheduledDate() {
	maxPaymentDate := s.bill.CreatedAt.Add(72 * time.Hour)
	past := s.now.Add(-time.Minute)
	afterDeadline := maxPaymentDate.Add(time.Minute)

	cases := []struct {
		name          string
		allow         bool
		scheduledDate time.Time
	}{
		{name: "bill does not allow", allow: false, scheduledDate: s.now.Add(time.Hour)},
		{name: "in the past", allow: true, scheduledDate: past},
		{name: "after deadline", allow: true, scheduledDate: afterDeadline},
	}
	for _, tt := range cases {
		s.Run(tt.name, func() {
			s.bill.AllowScheduledPayment = tt.allow
			s.bill.MaxPaymentDate = &maxPaymentDate
			s.expectScope()
			s.observer.EXPECT().ObservePayment(OutcomeRejected, 0.0)

			args := s.attemptArgs()
			args.ScheduledDate = &tt.scheduledDate
			_, err := s.service.AttemptPayment(s.T().Context(), args)
			s.Require().ErrorIs(err, domain.ErrValidation)
		})
	}
}

func (s *PaymentServiceTestSuite) TestAttemptPayment_InsufficientFundsKeepPending() {
	s.expectScope()
	s.expectAccounts("100")
	s.repos.account.EXPECT().UpdateBalance(gomock.Any(), gomock.Any()).Times(0)
	s.repos.payment.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
	s.repos.participant.EXPECT().UpdateStatus(gomock.Any(), gomock.Any()).Times(0)
	s.observer.EXPECT().ObservePayment(OutcomeInsufficientFunds, 0.0)

	_, err := s.service.AttemptPayment(s.T().Context(), s.attemptArgs())
	s.Require().ErrorIs(err, domain.ErrInsufficientFunds)
}

func (s *PaymentServiceTestSuite) TestAttemptPayment_InsufficientFundsMarkFailed() {
	s.service.SetInsufficientFundsPolicy(PolicyMarkFailed)

	s.expectScope()
	s.expectAccounts("100")
	s.repos.account.EXPECT().UpdateBalance(gomock.Any(), gomock.Any()).Times(0)
	s.repos.payment.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
	s.repos.participant.EXPECT().UpdateStatus(gomock.Any(), repoargs.UpdateParticipantStatus{
		ID:     s.participant.ID,
		Status: domain.PaymentStatusFailed,
	}).Return(nil)
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, event domain.PaymentEvent) error {
			s.Equal(domain.PaymentEventFailed, event.Type)
			return nil
		})
	s.observer.EXPECT().ObservePayment(OutcomeInsufficientFunds, 0.0)

	_, err := s.service.AttemptPayment(s.T().Context(), s.attemptArgs())
	s.Require().ErrorIs(err, domain.ErrInsufficientFunds)
}

func (s *PaymentServiceTestSuite) TestAttemptPayment_MissingPayeeAccount() {
	s.expectScope()
	s.repos.account.EXPECT().LockByUserIDs(gomock.Any(), s.payer.ID, s.bill.HostID).
		Return([]domain.LedgerAccount{
			{AccountNumber: "ACC-0002", UserID: s.payer.ID, Balance: dec("500000")},
		}, nil)
	s.repos.account.EXPECT().UpdateBalance(gomock.Any(), gomock.Any()).Times(0)
	s.observer.EXPECT().ObservePayment(OutcomeRejected, 0.0)

	_, err := s.service.AttemptPayment(s.T().Context(), s.attemptArgs())
	s.Require().ErrorIs(err, domain.ErrNotFound)
}

func (s *PaymentServiceTestSuite) TestSchedulePayment() {
	maxPaymentDate := s.bill.CreatedAt.Add(72 * time.Hour)
	s.bill.AllowScheduledPayment = true
	s.bill.MaxPaymentDate = &maxPaymentDate

	scheduledDate := s.now.Add(48 * time.Hour)

	s.expectScope()
	s.repos.participant.EXPECT().UpdateStatus(gomock.Any(), repoargs.UpdateParticipantStatus{
		ID:            s.participant.ID,
		Status:        domain.PaymentStatusScheduled,
		ScheduledDate: &scheduledDate,
	}).Return(nil)
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, event domain.PaymentEvent) error {
			s.Equal(domain.PaymentEventScheduled, event.Type)
			return nil
		})
	s.observer.EXPECT().ObservePayment(OutcomeScheduled, 198000.0)
	s.repos.account.EXPECT().LockByUserIDs(gomock.Any(), gomock.Any()).Times(0)

	participant, err := s.service.SchedulePayment(s.T().Context(), SchedulePaymentArgs{
		ParticipantID: s.participant.ID,
		PayerID:       s.payer.ID,
		Credential:    "pin",
		ScheduledDate: scheduledDate,
	})
	s.Require().NoError(err)
	s.Equal(domain.PaymentStatusScheduled, participant.PaymentStatus)
	s.Equal(scheduledDate, *participant.ScheduledDate)
}

func (s *PaymentServiceTestSuite) TestAttemptPayment_FromScheduledState() {
	scheduledDate := s.now.Add(12 * time.Hour)
	s.participant.PaymentStatus = domain.PaymentStatusScheduled
	s.participant.ScheduledDate = &scheduledDate

	s.expectScope()
	s.expectSettlement(domain.PaymentStatusCompletedScheduled, domain.PaymentTypeScheduled)

	receipt, err := s.service.AttemptPayment(s.T().Context(), s.attemptArgs())
	s.Require().NoError(err)
	s.Equal(domain.PaymentStatusCompletedScheduled, receipt.Participant.PaymentStatus)
	// дата, сохраненная при SchedulePayment, попадает в запись об оплате
	s.Require().NotNil(receipt.Payment.ScheduledDate)
	s.Equal(scheduledDate, *receipt.Payment.ScheduledDate)
}

func (s *PaymentServiceTestSuite) TestAttemptPayment_ScheduledStateWithoutDate() {
	s.participant.PaymentStatus = domain.PaymentStatusScheduled

	s.expectScope()
	s.expectSettlement(domain.PaymentStatusCompleted, domain.PaymentTypeInstant)

	receipt, err := s.service.AttemptPayment(s.T().Context(), s.attemptArgs())
	s.Require().NoError(err)
	s.Nil(receipt.Payment.ScheduledDate)
}

func TestParseInsufficientFundsPolicy(t *testing.T) {
	cases := []struct {
		value   string
		want    InsufficientFundsPolicy
		wantErr bool
	}{
		{value: "", want: PolicyKeepPending},
		{value: "keep_pending", want: PolicyKeepPending},
		{value: "mark_failed", want: PolicyMarkFailed},
		{value: "drop", wantErr: true},
	}
	for _, tt := range cases {
		t.Run(tt.value, func(t *testing.T) {
			got, err := ParseInsufficientFundsPolicy(tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.value)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("got %q, %v; want %q", got, err, tt.want)
			}
		})
	}
}
