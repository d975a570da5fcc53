package pgrepo

import (
	"context"

	"github.com/fsdevblog/billsplit/internal/domain"
	"github.com/fsdevblog/billsplit/internal/repository/repoargs"
	"github.com/fsdevblog/billsplit/pkg/uow"
	"github.com/jackc/pgx/v5"
)

const billColumns = `id, created_at, updated_at, code, host_id, title, currency, total_amount, sub_total,
	tax_pct, tax_amount, service_pct, service_amount, discount_pct, discount_amount,
	max_payment_date, allow_scheduled_payment, status`

const billItemColumns = "id, bill_id, name, price, quantity, is_sharing"

type BillRepository struct {
	conn uow.DBTX
}

func NewBillRepository(conn uow.DBTX) *BillRepository {
	return &BillRepository{conn: conn}
}

// Create создает счет в статусе active. Конфликт кода счета возвращается как domain.ErrDuplicateKey.
func (b *BillRepository) Create(ctx context.Context, args repoargs.CreateBill) (*domain.Bill, error) {
	const query = `INSERT INTO bill (code, host_id, title, currency, total_amount, sub_total, tax_pct, tax_amount,
		service_pct, service_amount, discount_pct, discount_amount, max_payment_date, allow_scheduled_payment,
		status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $16)
		RETURNING ` + billColumns

	row := b.conn.QueryRow(ctx, query,
		args.Code,
		args.HostID,
		args.Title,
		args.Currency,
		args.TotalAmount,
		args.SubTotal,
		args.TaxPct,
		args.TaxAmount,
		args.ServicePct,
		args.ServiceAmount,
		args.DiscountPct,
		args.DiscountAmount,
		args.MaxPaymentDate,
		args.AllowScheduledPayment,
		string(domain.BillStatusActive),
		args.CreatedAt,
	)
	bill, err := scanBill(row)
	if err != nil {
		return nil, convertErr(err, "creating bill")
	}
	return bill, nil
}

// CreateItems создает позиции счета одним батчем. Порядок результата совпадает с порядком args.
func (b *BillRepository) CreateItems(
	ctx context.Context,
	billID int64,
	args []repoargs.CreateBillItem,
) (items []domain.BillItem, err error) {
	if len(args) == 0 {
		return nil, nil
	}

	const query = `INSERT INTO bill_item (bill_id, name, price, quantity, is_sharing)
		VALUES ($1, $2, $3, $4, $5) RETURNING ` + billItemColumns

	batch := new(pgx.Batch)
	for _, item := range args {
		batch.Queue(query, billID, item.Name, item.Price, item.Quantity, item.IsSharing)
	}

	br := b.conn.SendBatch(ctx, batch)
	defer func() {
		if closeErr := br.Close(); closeErr != nil && err == nil {
			items, err = nil, convertErr(closeErr, "creating bill items")
		}
	}()

	items = make([]domain.BillItem, len(args))
	for i := range args {
		item, scanErr := scanBillItem(br.QueryRow())
		if scanErr != nil {
			return nil, convertErr(scanErr, "creating bill item #%d", i)
		}
		items[i] = *item
	}
	return items, nil
}

// CreateAssignments создает распределения позиций между участниками одним батчем.
// Повтор пары (позиция, участник) возвращается как domain.ErrDuplicateKey.
func (b *BillRepository) CreateAssignments(
	ctx context.Context,
	args []repoargs.CreateItemAssignment,
) (err error) {
	if len(args) == 0 {
		return nil
	}

	const query = `INSERT INTO item_assignment (item_id, participant_id, quantity_assigned, amount_assigned)
		VALUES ($1, $2, $3, $4)`

	batch := new(pgx.Batch)
	for _, a := range args {
		batch.Queue(query, a.ItemID, a.ParticipantID, a.QuantityAssigned, a.AmountAssigned)
	}

	br := b.conn.SendBatch(ctx, batch)
	defer func() {
		if closeErr := br.Close(); closeErr != nil && err == nil {
			err = convertErr(closeErr, "creating item assignments")
		}
	}()

	for i := range args {
		if _, execErr := br.Exec(); execErr != nil {
			return convertErr(execErr, "creating item assignment #%d", i)
		}
	}
	return nil
}

// DeleteAssignments удаляет все распределения позиций перечисленных участников.
func (b *BillRepository) DeleteAssignments(ctx context.Context, participantIDs []int64) error {
	if len(participantIDs) == 0 {
		return nil
	}
	if _, err := b.conn.Exec(ctx,
		"DELETE FROM item_assignment WHERE participant_id = ANY($1)", participantIDs,
	); err != nil {
		return convertErr(err, "deleting item assignments of %d participants", len(participantIDs))
	}
	return nil
}

func (b *BillRepository) FindByID(ctx context.Context, id int64) (*domain.Bill, error) {
	row := b.conn.QueryRow(ctx, "SELECT "+billColumns+" FROM bill WHERE id = $1", id)
	bill, err := scanBill(row)
	if err != nil {
		return nil, convertErr(err, "finding bill by id %d", id)
	}
	return bill, nil
}

func (b *BillRepository) FindByCode(ctx context.Context, code string) (*domain.Bill, error) {
	row := b.conn.QueryRow(ctx, "SELECT "+billColumns+" FROM bill WHERE code = $1", code)
	bill, err := scanBill(row)
	if err != nil {
		return nil, convertErr(err, "finding bill by code %s", code)
	}
	return bill, nil
}

// LockByID читает счет с блокировкой строки до конца транзакции.
func (b *BillRepository) LockByID(ctx context.Context, id int64) (*domain.Bill, error) {
	row := b.conn.QueryRow(ctx, "SELECT "+billColumns+" FROM bill WHERE id = $1 FOR UPDATE", id)
	bill, err := scanBill(row)
	if err != nil {
		return nil, convertErr(err, "locking bill %d", id)
	}
	return bill, nil
}

func (b *BillRepository) UpdateStatus(ctx context.Context, args repoargs.UpdateBillStatus) error {
	tag, err := b.conn.Exec(ctx,
		"UPDATE bill SET status = $2, updated_at = NOW() WHERE id = $1",
		args.ID, string(args.Status),
	)
	if err != nil {
		return convertErr(err, "updating bill %d status", args.ID)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(pgx.ErrNoRows, "updating bill %d status", args.ID)
	}
	return nil
}

func (b *BillRepository) ListItems(ctx context.Context, billID int64) ([]domain.BillItem, error) {
	rows, err := b.conn.Query(ctx,
		"SELECT "+billItemColumns+" FROM bill_item WHERE bill_id = $1 ORDER BY id", billID)
	if err != nil {
		return nil, convertErr(err, "listing bill %d items", billID)
	}
	defer rows.Close()

	var items []domain.BillItem
	for rows.Next() {
		item, scanErr := scanBillItem(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "scanning bill %d item", billID)
		}
		items = append(items, *item)
	}
	if rows.Err() != nil {
		return nil, convertErr(rows.Err(), "listing bill %d items", billID)
	}
	return items, nil
}

func (b *BillRepository) ListAssignments(ctx context.Context, billID int64) ([]domain.ItemAssignment, error) {
	const query = `SELECT a.id, a.item_id, a.participant_id, a.quantity_assigned, a.amount_assigned
		FROM item_assignment a
		JOIN bill_item i ON i.id = a.item_id
		WHERE i.bill_id = $1
		ORDER BY a.id`

	rows, err := b.conn.Query(ctx, query, billID)
	if err != nil {
		return nil, convertErr(err, "listing bill %d assignments", billID)
	}
	defer rows.Close()

	var assignments []domain.ItemAssignment
	for rows.Next() {
		var a domain.ItemAssignment
		if scanErr := rows.Scan(
			&a.ID,
			&a.ItemID,
			&a.ParticipantID,
			&a.QuantityAssigned,
			&a.AmountAssigned,
		); scanErr != nil {
			return nil, convertErr(scanErr, "scanning bill %d assignment", billID)
		}
		assignments = append(assignments, a)
	}
	if rows.Err() != nil {
		return nil, convertErr(rows.Err(), "listing bill %d assignments", billID)
	}
	return assignments, nil
}

// CountAssignments количество распределений позиций счета. Ноль означает режим равного деления.
func (b *BillRepository) CountAssignments(ctx context.Context, billID int64) (int64, error) {
	const query = `SELECT COUNT(*) FROM item_assignment a
		JOIN bill_item i ON i.id = a.item_id
		WHERE i.bill_id = $1`

	var count int64
	if err := b.conn.QueryRow(ctx, query, billID).Scan(&count); err != nil {
		return 0, convertErr(err, "counting bill %d assignments", billID)
	}
	return count, nil
}

func scanBill(row pgx.Row) (*domain.Bill, error) {
	var bill domain.Bill
	if err := row.Scan(
		&bill.ID,
		&bill.CreatedAt,
		&bill.UpdatedAt,
		&bill.Code,
		&bill.HostID,
		&bill.Title,
		&bill.Currency,
		&bill.TotalAmount,
		&bill.SubTotal,
		&bill.TaxPct,
		&bill.TaxAmount,
		&bill.ServicePct,
		&bill.ServiceAmount,
		&bill.DiscountPct,
		&bill.DiscountAmount,
		&bill.MaxPaymentDate,
		&bill.AllowScheduledPayment,
		&bill.Status,
	); err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &bill, nil
}

func scanBillItem(row pgx.Row) (*domain.BillItem, error) {
	var item domain.BillItem
	if err := row.Scan(
		&item.ID,
		&item.BillID,
		&item.Name,
		&item.Price,
		&item.Quantity,
		&item.IsSharing,
	); err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &item, nil
}
