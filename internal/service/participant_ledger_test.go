package service

import (
	"context"
	"testing"
	"time"

	"github.com/fsdevblog/billsplit/internal/domain"
	"github.com/fsdevblog/billsplit/internal/repository/repoargs"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

type ParticipantLedgerTestSuite struct {
	suite.Suite
	repos  *repoMocks
	ledger *ParticipantLedger
	now    time.Time
	bill   *domain.Bill
}

func TestParticipantLedgerSuite(t *testing.T) {
	suite.Run(t, new(ParticipantLedgerTestSuite))
}

func (s *ParticipantLedgerTestSuite) SetupTest() {
	s.repos = newRepoMocks(gomock.NewController(s.T()))
	s.now = time.Date(2026, 5, 4, 18, 30, 0, 0, time.UTC)
	s.ledger = NewParticipantLedger(func() time.Time { return s.now })
	s.bill = &domain.Bill{ID: 7, HostID: 1, SubTotal: dec("100"), TotalAmount: dec("100")}
}

func (s *ParticipantLedgerTestSuite) TestAdmitHost() {
	s.repos.participant.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.CreateParticipant) (*domain.BillParticipant, error) {
			s.Equal(int64(1), args.UserID)
			s.Equal(domain.PaymentStatusCompleted, args.PaymentStatus)
			s.Require().NotNil(args.PaidAt)
			s.Equal(s.now, *args.PaidAt)
			return &domain.BillParticipant{ID: 1, UserID: args.UserID, PaymentStatus: args.PaymentStatus}, nil
		})

	host, err := s.ledger.AdmitHost(s.T().Context(), s.repos.tx, s.bill, domain.Breakdown{Subtotal: dec("100")})
	s.Require().NoError(err)
	s.Equal(domain.PaymentStatusCompleted, host.PaymentStatus)
}

func (s *ParticipantLedgerTestSuite) TestAdmitParticipant() {
	s.repos.participant.EXPECT().Create(gomock.Any(), repoargs.CreateParticipant{
		BillID:        7,
		UserID:        2,
		PaymentStatus: domain.PaymentStatusPending,
	}).Return(&domain.BillParticipant{ID: 2, UserID: 2, PaymentStatus: domain.PaymentStatusPending}, nil)
	s.repos.participant.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, domain.ErrDuplicateKey)

	participant, err := s.ledger.AdmitParticipant(s.T().Context(), s.repos.tx, s.bill, 2, domain.Breakdown{})
	s.Require().NoError(err)
	s.Equal(domain.PaymentStatusPending, participant.PaymentStatus)

	_, err = s.ledger.AdmitParticipant(s.T().Context(), s.repos.tx, s.bill, 2, domain.Breakdown{})
	s.Require().ErrorIs(err, domain.ErrConflict)
}

func (s *ParticipantLedgerTestSuite) TestReconcile() {
	cases := []struct {
		name    string
		shares  []string
		wantErr error
	}{
		{name: "exact", shares: []string{"60", "40"}},
		{name: "within epsilon", shares: []string{"60", "41"}},
		{name: "over epsilon", shares: []string{"60", "41.01"}, wantErr: domain.ErrValidation},
		{name: "under epsilon", shares: []string{"60", "38.99"}, wantErr: domain.ErrValidation},
	}
	for _, tt := range cases {
		s.Run(tt.name, func() {
			participants := make([]domain.BillParticipant, len(tt.shares))
			for i, share := range tt.shares {
				participants[i] = domain.BillParticipant{ID: int64(i + 1), AmountShare: dec(share)}
			}
			s.repos.participant.EXPECT().ListByBill(gomock.Any(), s.bill.ID).Return(participants, nil)

			err := s.ledger.Reconcile(s.T().Context(), s.repos.tx, s.bill)
			if tt.wantErr != nil {
				s.Require().ErrorIs(err, tt.wantErr)
				return
			}
			s.Require().NoError(err)
		})
	}
}

func (s *ParticipantLedgerTestSuite) TestRecomputeEqualSplit() {
	// хост в выборке не первый, но остаток округления все равно его
	s.repos.participant.EXPECT().ListByBill(gomock.Any(), s.bill.ID).Return([]domain.BillParticipant{
		{ID: 12, UserID: 2, PaymentStatus: domain.PaymentStatusPending},
		{ID: 11, UserID: 1, PaymentStatus: domain.PaymentStatusCompleted},
		{ID: 13, UserID: 3, PaymentStatus: domain.PaymentStatusScheduled},
	}, nil)
	s.repos.participant.EXPECT().UpdateBreakdowns(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args []repoargs.UpdateBreakdown) error {
			s.Require().Len(args, 3)
			s.Equal(int64(11), args[0].ID)
			s.Equal("33.34", args[0].Breakdown.Total().String())
			s.Equal("33.33", args[1].Breakdown.Total().String())
			s.Equal("33.33", args[2].Breakdown.Total().String())
			return nil
		})
	s.repos.payment.EXPECT().UpdateAmount(gomock.Any(), repoargs.UpdatePaymentAmount{
		ParticipantID: 11,
		Amount:        dec("33.34"),
	}).Return(nil)

	participants, err := s.ledger.RecomputeEqualSplit(s.T().Context(), s.repos.tx, s.bill)
	s.Require().NoError(err)
	s.Require().Len(participants, 3)
	s.Equal(int64(1), participants[0].UserID)
	s.Equal("33.34", participants[0].AmountShare.String())
}

func (s *ParticipantLedgerTestSuite) TestRecomputeEqualSplit_SettledParticipant() {
	s.repos.participant.EXPECT().ListByBill(gomock.Any(), s.bill.ID).Return([]domain.BillParticipant{
		{ID: 11, UserID: 1, PaymentStatus: domain.PaymentStatusCompleted},
		{ID: 12, UserID: 2, PaymentStatus: domain.PaymentStatusCompletedLate},
	}, nil)
	s.repos.participant.EXPECT().UpdateBreakdowns(gomock.Any(), gomock.Any()).Times(0)
	s.repos.payment.EXPECT().UpdateAmount(gomock.Any(), gomock.Any()).Times(0)

	_, err := s.ledger.RecomputeEqualSplit(s.T().Context(), s.repos.tx, s.bill)
	s.Require().ErrorIs(err, domain.ErrConflict)
}

func (s *ParticipantLedgerTestSuite) TestCompleteBillIfSettled() {
	host := domain.BillParticipant{ID: 11, UserID: 1, PaymentStatus: domain.PaymentStatusCompleted}
	cases := []struct {
		name         string
		participants []domain.BillParticipant
		wantComplete bool
	}{
		{name: "host only stays active", participants: []domain.BillParticipant{host}},
		{
			name: "pending participant",
			participants: []domain.BillParticipant{host,
				{ID: 12, UserID: 2, PaymentStatus: domain.PaymentStatusPending}},
		},
		{
			name: "everyone settled",
			participants: []domain.BillParticipant{host,
				{ID: 12, UserID: 2, PaymentStatus: domain.PaymentStatusCompletedLate}},
			wantComplete: true,
		},
	}
	for _, tt := range cases {
		s.Run(tt.name, func() {
			bill := *s.bill
			bill.Status = domain.BillStatusActive
			s.repos.participant.EXPECT().ListByBill(gomock.Any(), bill.ID).Return(tt.participants, nil)
			if tt.wantComplete {
				s.repos.bill.EXPECT().UpdateStatus(gomock.Any(), repoargs.UpdateBillStatus{
					ID:     bill.ID,
					Status: domain.BillStatusCompleted,
				}).Return(nil)
			}

			err := completeBillIfSettled(s.T().Context(), s.repos.bill, s.repos.participant, &bill, nil)
			s.Require().NoError(err)
			s.Equal(tt.wantComplete, bill.Status == domain.BillStatusCompleted)
		})
	}
}
