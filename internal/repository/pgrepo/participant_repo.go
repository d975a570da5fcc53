package pgrepo

import (
	"context"

	"github.com/fsdevblog/billsplit/internal/domain"
	"github.com/fsdevblog/billsplit/internal/repository/repoargs"
	"github.com/fsdevblog/billsplit/pkg/uow"
	"github.com/jackc/pgx/v5"
)

const participantColumns = `id, created_at, updated_at, bill_id, user_id, amount_share, subtotal, tax_amount,
	service_amount, discount_amount, payment_status, paid_at, scheduled_date`

type ParticipantRepository struct {
	conn uow.DBTX
}

func NewParticipantRepository(conn uow.DBTX) *ParticipantRepository {
	return &ParticipantRepository{conn: conn}
}

// Create добавляет участника в счет. amount_share вычисляется из разложения.
// Повторное участие юзера в том же счете возвращается как domain.ErrDuplicateKey.
func (p *ParticipantRepository) Create(
	ctx context.Context,
	args repoargs.CreateParticipant,
) (*domain.BillParticipant, error) {
	const query = `INSERT INTO bill_participant (bill_id, user_id, amount_share, subtotal, tax_amount,
		service_amount, discount_amount, payment_status, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + participantColumns

	row := p.conn.QueryRow(ctx, query,
		args.BillID,
		args.UserID,
		args.Breakdown.Total(),
		args.Breakdown.Subtotal,
		args.Breakdown.Tax,
		args.Breakdown.Service,
		args.Breakdown.Discount,
		string(args.PaymentStatus),
		args.PaidAt,
	)
	participant, err := scanParticipant(row)
	if err != nil {
		return nil, convertErr(err, "creating participant of bill %d for user %d", args.BillID, args.UserID)
	}
	return participant, nil
}

func (p *ParticipantRepository) FindByID(ctx context.Context, id int64) (*domain.BillParticipant, error) {
	row := p.conn.QueryRow(ctx, "SELECT "+participantColumns+" FROM bill_participant WHERE id = $1", id)
	participant, err := scanParticipant(row)
	if err != nil {
		return nil, convertErr(err, "finding participant %d", id)
	}
	return participant, nil
}

// LockByID читает участника с блокировкой строки. Две конкурирующие попытки оплаты одного участника
// выполняются строго по очереди.
func (p *ParticipantRepository) LockByID(ctx context.Context, id int64) (*domain.BillParticipant, error) {
	row := p.conn.QueryRow(ctx,
		"SELECT "+participantColumns+" FROM bill_participant WHERE id = $1 FOR UPDATE", id)
	participant, err := scanParticipant(row)
	if err != nil {
		return nil, convertErr(err, "locking participant %d", id)
	}
	return participant, nil
}

// ListByBill возвращает участников счета в порядке добавления.
func (p *ParticipantRepository) ListByBill(ctx context.Context, billID int64) ([]domain.BillParticipant, error) {
	rows, err := p.conn.Query(ctx,
		"SELECT "+participantColumns+" FROM bill_participant WHERE bill_id = $1 ORDER BY id", billID)
	if err != nil {
		return nil, convertErr(err, "listing participants of bill %d", billID)
	}
	defer rows.Close()

	var participants []domain.BillParticipant
	for rows.Next() {
		participant, scanErr := scanParticipant(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "scanning participant of bill %d", billID)
		}
		participants = append(participants, *participant)
	}
	if rows.Err() != nil {
		return nil, convertErr(rows.Err(), "listing participants of bill %d", billID)
	}
	return participants, nil
}

// UpdateBreakdowns перезаписывает разложения участников одним батчем.
func (p *ParticipantRepository) UpdateBreakdowns(
	ctx context.Context,
	args []repoargs.UpdateBreakdown,
) (err error) {
	if len(args) == 0 {
		return nil
	}

	const query = `UPDATE bill_participant SET amount_share = $2, subtotal = $3, tax_amount = $4,
		service_amount = $5, discount_amount = $6, updated_at = NOW() WHERE id = $1`

	batch := new(pgx.Batch)
	for _, a := range args {
		batch.Queue(query,
			a.ID,
			a.Breakdown.Total(),
			a.Breakdown.Subtotal,
			a.Breakdown.Tax,
			a.Breakdown.Service,
			a.Breakdown.Discount,
		)
	}

	br := p.conn.SendBatch(ctx, batch)
	defer func() {
		if closeErr := br.Close(); closeErr != nil && err == nil {
			err = convertErr(closeErr, "updating participant breakdowns")
		}
	}()

	for _, a := range args {
		tag, execErr := br.Exec()
		if execErr != nil {
			return convertErr(execErr, "updating participant %d breakdown", a.ID)
		}
		if tag.RowsAffected() == 0 {
			return convertErr(pgx.ErrNoRows, "updating participant %d breakdown", a.ID)
		}
	}
	return nil
}

func (p *ParticipantRepository) UpdateStatus(ctx context.Context, args repoargs.UpdateParticipantStatus) error {
	const query = `UPDATE bill_participant SET payment_status = $2, paid_at = $3,
		scheduled_date = COALESCE($4, scheduled_date), updated_at = NOW() WHERE id = $1`

	tag, err := p.conn.Exec(ctx, query, args.ID, string(args.Status), args.PaidAt, args.ScheduledDate)
	if err != nil {
		return convertErr(err, "updating participant %d status", args.ID)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "updating participant %d status", args.ID)
	}
	return nil
}

// Delete удаляет участника вместе с его распределениями позиций (каскад).
func (p *ParticipantRepository) Delete(ctx context.Context, id int64) error {
	tag, err := p.conn.Exec(ctx, "DELETE FROM bill_participant WHERE id = $1", id)
	if err != nil {
		return convertErr(err, "deleting participant %d", id)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "deleting participant %d", id)
	}
	return nil
}

func scanParticipant(row pgx.Row) (*domain.BillParticipant, error) {
	var participant domain.BillParticipant
	if err := row.Scan(
		&participant.ID,
		&participant.CreatedAt,
		&participant.UpdatedAt,
		&participant.BillID,
		&participant.UserID,
		&participant.AmountShare,
		&participant.Subtotal,
		&participant.TaxAmount,
		&participant.ServiceAmount,
		&participant.DiscountAmount,
		&participant.PaymentStatus,
		&participant.PaidAt,
		&participant.ScheduledDate,
	); err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &participant, nil
}
