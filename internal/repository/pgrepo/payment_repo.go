package pgrepo

import (
	"context"

	"github.com/fsdevblog/billsplit/internal/domain"
	"github.com/fsdevblog/billsplit/internal/repository/repoargs"
	"github.com/fsdevblog/billsplit/pkg/uow"
	"github.com/jackc/pgx/v5"
)

const paymentColumns = `id, created_at, bill_id, participant_id, amount, payment_type, status, transaction_id,
	scheduled_date, paid_at`

type PaymentRepository struct {
	conn uow.DBTX
}

func NewPaymentRepository(conn uow.DBTX) *PaymentRepository {
	return &PaymentRepository{conn: conn}
}

// Create сохраняет запись об успешном переводе. На участника допускается одна запись, повтор возвращается
// как domain.ErrDuplicateKey.
func (p *PaymentRepository) Create(ctx context.Context, args repoargs.CreatePayment) (*domain.Payment, error) {
	const query = `INSERT INTO payment (bill_id, participant_id, amount, payment_type, status, transaction_id,
		scheduled_date, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + paymentColumns

	row := p.conn.QueryRow(ctx, query,
		args.BillID,
		args.ParticipantID,
		args.Amount,
		string(args.PaymentType),
		args.Status,
		args.TransactionID,
		args.ScheduledDate,
		args.PaidAt,
	)
	payment, err := scanPayment(row)
	if err != nil {
		return nil, convertErr(err, "creating payment for participant %d", args.ParticipantID)
	}
	return payment, nil
}

// UpdateAmount меняет сумму записи участника. Используется только для записи хоста, чья доля пересчитывается
// при равном делении. Переводы остальных участников не меняются.
func (p *PaymentRepository) UpdateAmount(ctx context.Context, args repoargs.UpdatePaymentAmount) error {
	tag, err := p.conn.Exec(ctx, "UPDATE payment SET amount = $2 WHERE participant_id = $1",
		args.ParticipantID, args.Amount)
	if err != nil {
		return convertErr(err, "updating payment amount of participant %d", args.ParticipantID)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "updating payment amount of participant %d", args.ParticipantID)
	}
	return nil
}

func (p *PaymentRepository) ListByBill(ctx context.Context, billID int64) ([]domain.Payment, error) {
	rows, err := p.conn.Query(ctx,
		"SELECT "+paymentColumns+" FROM payment WHERE bill_id = $1 ORDER BY paid_at, id", billID)
	if err != nil {
		return nil, convertErr(err, "listing payments of bill %d", billID)
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		payment, scanErr := scanPayment(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "scanning payment of bill %d", billID)
		}
		payments = append(payments, *payment)
	}
	if rows.Err() != nil {
		return nil, convertErr(rows.Err(), "listing payments of bill %d", billID)
	}
	return payments, nil
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var payment domain.Payment
	if err := row.Scan(
		&payment.ID,
		&payment.CreatedAt,
		&payment.BillID,
		&payment.ParticipantID,
		&payment.Amount,
		&payment.PaymentType,
		&payment.Status,
		&payment.TransactionID,
		&payment.ScheduledDate,
		&payment.PaidAt,
	); err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &payment, nil
}
