package uow

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

type RepositoryName string
type Repository any
type RepositoryFactory func(DBTX) Repository

type UnitOfWork struct {
	conn         Conn
	txOptions    pgx.TxOptions
	repositories map[RepositoryName]RepositoryFactory
}

// NewUnitOfWork создает UnitOfWork поверх conn. Транзакции открываются с уровнем изоляции READ COMMITTED:
// сериализация конкурирующих операций обеспечивается блокировками строк (SELECT ... FOR UPDATE) в репозиториях.
func NewUnitOfWork(conn Conn) *UnitOfWork {
	return &UnitOfWork{
		conn:         conn,
		txOptions:    pgx.TxOptions{IsoLevel: pgx.ReadCommitted},
		repositories: make(map[RepositoryName]RepositoryFactory),
	}
}

// WithTxOptions переопределяет параметры открываемых транзакций.
func (u *UnitOfWork) WithTxOptions(opts pgx.TxOptions) *UnitOfWork {
	u.txOptions = opts
	return u
}

// Register регистрирует фабрику репозитория под именем name. Повторная регистрация имени
// возвращает ErrRepositoryAlreadyRegistered, nil фабрика ErrNilFactory.
func (u *UnitOfWork) Register(name RepositoryName, factory RepositoryFactory) error {
	if factory == nil {
		return repositoryError(ErrNilFactory, name)
	}
	if _, ok := u.repositories[name]; ok {
		return repositoryError(ErrRepositoryAlreadyRegistered, name)
	}
	u.repositories[name] = factory
	return nil
}

// Do выполняет функцию fn внутри транзакции. Если fn вернула ошибку, транзакция откатывается целиком.
func (u *UnitOfWork) Do(ctx context.Context, fn func(context.Context, TX) error) (err error) {
	tx, txErr := u.conn.BeginTx(ctx, u.txOptions)
	if txErr != nil {
		return txErr //nolint:wrapcheck
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			err = errors.Join(err, rollbackErr)
		}
	}()

	if transErr := fn(ctx, NewTransaction(tx, u.repositories)); transErr != nil {
		return transErr
	}
	return tx.Commit(ctx) //nolint:wrapcheck
}

// GetRepository возвращает репозиторий вне транзакции или ошибку ErrRepositoryNotRegistered.
func (u *UnitOfWork) GetRepository(name RepositoryName) (Repository, error) {
	if repoFactory, ok := u.repositories[name]; ok {
		return repoFactory(u.conn), nil
	}
	return nil, repositoryError(ErrRepositoryNotRegistered, name)
}

// GetRepositoryAs возвращает репозиторий по имени name и приводит его к типу T. Возвращает ошибки
// ErrRepositoryNotRegistered и ErrInvalidRepositoryType.
func GetRepositoryAs[T any](u UOW, name RepositoryName) (T, error) {
	var res T
	repo, err := u.GetRepository(name)
	if err != nil {
		return res, err //nolint:wrapcheck
	}
	r, ok := repo.(T)
	if !ok {
		return res, repositoryError(ErrInvalidRepositoryType, name)
	}
	return r, nil
}
