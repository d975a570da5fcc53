package service

import (
	"context"
	"io"

	"github.com/fsdevblog/billsplit/internal/repository/repoargs"
	"github.com/fsdevblog/billsplit/internal/service/mocks"
	"github.com/fsdevblog/billsplit/pkg/uow"
	uowmocks "github.com/fsdevblog/billsplit/pkg/uow/mocks"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// repoMocks набор моков репозиториев, доступных из транзакции и вне ее.
type repoMocks struct {
	uow         *uowmocks.MockUOW
	tx          *uowmocks.MockTX
	bill        *mocks.MockBillRepository
	participant *mocks.MockParticipantRepository
	payment     *mocks.MockPaymentRepository
	account     *mocks.MockAccountRepository
	user        *mocks.MockUserRepository
}

func newRepoMocks(ctrl *gomock.Controller) *repoMocks {
	m := &repoMocks{
		uow:         uowmocks.NewMockUOW(ctrl),
		tx:          uowmocks.NewMockTX(ctrl),
		bill:        mocks.NewMockBillRepository(ctrl),
		participant: mocks.NewMockParticipantRepository(ctrl),
		payment:     mocks.NewMockPaymentRepository(ctrl),
		account:     mocks.NewMockAccountRepository(ctrl),
		user:        mocks.NewMockUserRepository(ctrl),
	}

	repos := map[repoargs.RepositoryName]uow.Repository{
		repoargs.BillRepoName:        m.bill,
		repoargs.ParticipantRepoName: m.participant,
		repoargs.PaymentRepoName:     m.payment,
		repoargs.AccountRepoName:     m.account,
		repoargs.UserRepoName:        m.user,
	}
	for name, repo := range repos {
		m.uow.EXPECT().GetRepository(uow.RepositoryName(name)).Return(repo, nil).AnyTimes()
		m.tx.EXPECT().Get(uow.RepositoryName(name)).Return(repo, nil).AnyTimes()
	}

	// мок UOW обертки: функция выполняется сразу с моком транзакции.
	m.uow.EXPECT().Do(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(ctx, m.tx)
		},
	).AnyTimes()
	return m
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
