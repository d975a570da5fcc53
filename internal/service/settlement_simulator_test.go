package service

import (
	"testing"

	"github.com/fsdevblog/billsplit/internal/domain"
	"github.com/fsdevblog/billsplit/internal/repository/repoargs"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

type SettlementSimulatorTestSuite struct {
	suite.Suite
	repos     *repoMocks
	simulator *SettlementSimulator
	payer     domain.LedgerAccount
	payee     domain.LedgerAccount
}

func TestSettlementSimulatorSuite(t *testing.T) {
	suite.Run(t, new(SettlementSimulatorTestSuite))
}

func (s *SettlementSimulatorTestSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.repos = newRepoMocks(ctrl)

	var err error
	s.simulator, err = NewSettlementSimulator(s.repos.uow)
	s.Require().NoError(err)
	s.simulator.newRef = func() string { return "ref" }

	s.payer = domain.LedgerAccount{AccountNumber: "ACC-0002", UserID: 2, Balance: dec("500")}
	s.payee = domain.LedgerAccount{AccountNumber: "ACC-0001", UserID: 1, Balance: dec("10")}
}

func (s *SettlementSimulatorTestSuite) TestTransfer() {
	cases := []struct {
		name        string
		paymentType domain.PaymentType
		wantRef     string
	}{
		{name: "instant", paymentType: domain.PaymentTypeInstant, wantRef: "INST-ref"},
		{name: "scheduled", paymentType: domain.PaymentTypeScheduled, wantRef: "SCHD-ref"},
	}
	for _, tt := range cases {
		s.Run(tt.name, func() {
			s.repos.account.EXPECT().LockByUserIDs(gomock.Any(), int64(2), int64(1)).
				Return([]domain.LedgerAccount{s.payee, s.payer}, nil)
			gomock.InOrder(
				s.repos.account.EXPECT().UpdateBalance(gomock.Any(), repoargs.UpdateBalance{
					AccountNumber: "ACC-0002", Balance: dec("500").Sub(dec("120.5")),
				}).Return(nil),
				s.repos.account.EXPECT().UpdateBalance(gomock.Any(), repoargs.UpdateBalance{
					AccountNumber: "ACC-0001", Balance: dec("10").Add(dec("120.5")),
				}).Return(nil),
			)

			res, err := s.simulator.Transfer(s.T().Context(), s.repos.tx, 2, 1, dec("120.5"), tt.paymentType)
			s.Require().NoError(err)
			s.Equal(tt.wantRef, res.TransactionID)
			s.Equal("379.5", res.PayerBalance.String())
		})
	}
}

func (s *SettlementSimulatorTestSuite) TestTransfer_ExactBalance() {
	s.repos.account.EXPECT().LockByUserIDs(gomock.Any(), int64(2), int64(1)).
		Return([]domain.LedgerAccount{s.payee, s.payer}, nil)
	s.repos.account.EXPECT().UpdateBalance(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	res, err := s.simulator.Transfer(s.T().Context(), s.repos.tx, 2, 1, dec("500"), domain.PaymentTypeInstant)
	s.Require().NoError(err)
	s.True(res.PayerBalance.IsZero())
}

func (s *SettlementSimulatorTestSuite) TestTransfer_InsufficientFunds() {
	s.repos.account.EXPECT().LockByUserIDs(gomock.Any(), int64(2), int64(1)).
		Return([]domain.LedgerAccount{s.payee, s.payer}, nil)
	s.repos.account.EXPECT().UpdateBalance(gomock.Any(), gomock.Any()).Times(0)

	_, err := s.simulator.Transfer(s.T().Context(), s.repos.tx, 2, 1, dec("500.01"), domain.PaymentTypeInstant)
	s.Require().ErrorIs(err, domain.ErrInsufficientFunds)
}

func (s *SettlementSimulatorTestSuite) TestTransfer_MissingAccount() {
	s.Run("payer", func() {
		s.repos.account.EXPECT().LockByUserIDs(gomock.Any(), int64(2), int64(1)).
			Return([]domain.LedgerAccount{s.payee}, nil)

		_, err := s.simulator.Transfer(s.T().Context(), s.repos.tx, 2, 1, dec("1"), domain.PaymentTypeInstant)
		s.Require().ErrorIs(err, domain.ErrNotFound)
	})
	s.Run("payee", func() {
		s.repos.account.EXPECT().LockByUserIDs(gomock.Any(), int64(2), int64(1)).
			Return([]domain.LedgerAccount{s.payer}, nil)

		_, err := s.simulator.Transfer(s.T().Context(), s.repos.tx, 2, 1, dec("1"), domain.PaymentTypeInstant)
		s.Require().ErrorIs(err, domain.ErrNotFound)
	})
}

func (s *SettlementSimulatorTestSuite) TestTransfer_InvalidArgs() {
	_, err := s.simulator.Transfer(s.T().Context(), s.repos.tx, 2, 1, dec("-1"), domain.PaymentTypeInstant)
	s.Require().ErrorIs(err, domain.ErrValidation)

	_, err = s.simulator.Transfer(s.T().Context(), s.repos.tx, 2, 2, dec("1"), domain.PaymentTypeInstant)
	s.Require().ErrorIs(err, domain.ErrValidation)
}

func (s *SettlementSimulatorTestSuite) TestBalance() {
	s.repos.account.EXPECT().FindByUserID(gomock.Any(), int64(2)).Return(&s.payer, nil)
	s.repos.account.EXPECT().FindByUserID(gomock.Any(), int64(9)).Return(nil, domain.ErrRecordNotFound)

	account, err := s.simulator.Balance(s.T().Context(), 2)
	s.Require().NoError(err)
	s.Equal("ACC-0002", account.AccountNumber)

	_, err = s.simulator.Balance(s.T().Context(), 9)
	s.Require().ErrorIs(err, domain.ErrNotFound)
}
