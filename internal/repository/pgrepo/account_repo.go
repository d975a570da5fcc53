package pgrepo

import (
	"context"

	"github.com/fsdevblog/billsplit/internal/domain"
	"github.com/fsdevblog/billsplit/internal/repository/repoargs"
	"github.com/fsdevblog/billsplit/pkg/uow"
	"github.com/jackc/pgx/v5"
)

const accountColumns = "account_number, user_id, balance, updated_at"

type AccountRepository struct {
	conn uow.DBTX
}

func NewAccountRepository(conn uow.DBTX) *AccountRepository {
	return &AccountRepository{conn: conn}
}

func (a *AccountRepository) FindByUserID(ctx context.Context, userID int64) (*domain.LedgerAccount, error) {
	row := a.conn.QueryRow(ctx, "SELECT "+accountColumns+" FROM bank_account WHERE user_id = $1", userID)
	account, err := scanAccount(row)
	if err != nil {
		return nil, convertErr(err, "finding account of user %d", userID)
	}
	return account, nil
}

// LockByUserIDs блокирует счета юзеров в порядке номеров счетов. Единый порядок захвата исключает
// взаимоблокировку встречных переводов. Отсутствующие счета в результат не попадают.
func (a *AccountRepository) LockByUserIDs(ctx context.Context, userIDs ...int64) ([]domain.LedgerAccount, error) {
	rows, err := a.conn.Query(ctx,
		"SELECT "+accountColumns+" FROM bank_account WHERE user_id = ANY($1) ORDER BY account_number FOR UPDATE",
		userIDs,
	)
	if err != nil {
		return nil, convertErr(err, "locking accounts of users %v", userIDs)
	}
	defer rows.Close()

	var accounts []domain.LedgerAccount
	for rows.Next() {
		account, scanErr := scanAccount(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "scanning account")
		}
		accounts = append(accounts, *account)
	}
	if rows.Err() != nil {
		return nil, convertErr(rows.Err(), "locking accounts of users %v", userIDs)
	}
	return accounts, nil
}

// UpdateBalance записывает новый баланс. Отрицательный баланс отклоняется ограничением таблицы
// (domain.ErrConstraint).
func (a *AccountRepository) UpdateBalance(ctx context.Context, args repoargs.UpdateBalance) error {
	tag, err := a.conn.Exec(ctx,
		"UPDATE bank_account SET balance = $2, updated_at = NOW() WHERE account_number = $1",
		args.AccountNumber, args.Balance,
	)
	if err != nil {
		return convertErr(err, "updating account %s balance", args.AccountNumber)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "updating account %s balance", args.AccountNumber)
	}
	return nil
}

func scanAccount(row pgx.Row) (*domain.LedgerAccount, error) {
	var account domain.LedgerAccount
	if err := row.Scan(
		&account.AccountNumber,
		&account.UserID,
		&account.Balance,
		&account.UpdatedAt,
	); err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &account, nil
}
