package repository

import (
	"context"
	"fmt"

	"project_resident/internal/entities"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PriceRepository struct {
	db *pgxpool.Pool
}

func NewPriceRepository(db *pgxpool.Pool) *PriceRepository {
	return &PriceRepository{db: db}
}

func (r *PriceRepository) ListPriceLists(ctx context.Context, businessID int, publicOnly bool) ([]entities.PriceList, error) {
	query := "SELECT id, business_id, title, currency, is_public, created_at FROM price_lists WHERE business_id = $1"
	if publicOnly {
		query += " AND is_public"
	}
	rows, err := r.db.Query(ctx, query+" ORDER BY id", businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lists := []entities.PriceList{}
	var ids []int
	for rows.Next() {
		var l entities.PriceList
		if err := rows.Scan(&l.ID, &l.BusinessID, &l.Title, &l.Currency, &l.IsPublic, &l.CreatedAt); err != nil {
			return nil, err
		}
		l.Rows = []entities.PriceListRow{}
		lists = append(lists, l)
		ids = append(ids, l.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return lists, nil
	}

	priceRows, err := r.rows(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range lists {
		lists[i].Rows = append(lists[i].Rows, priceRows[lists[i].ID]...)
	}
	return lists, nil
}

func (r *PriceRepository) rows(ctx context.Context, listIDs []int) (map[int][]entities.PriceListRow, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, price_list_id, name, unit, price_cents, sku, position
		FROM price_list_rows WHERE price_list_id = ANY($1) ORDER BY position, id`, listIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byList := make(map[int][]entities.PriceListRow)
	for rows.Next() {
		var row entities.PriceListRow
		if err := rows.Scan(&row.ID, &row.PriceListID, &row.Name, &row.Unit, &row.PriceCents, &row.SKU, &row.Position); err != nil {
			return nil, err
		}
		byList[row.PriceListID] = append(byList[row.PriceListID], row)
	}
	return byList, rows.Err()
}

func (r *PriceRepository) GetPriceList(ctx context.Context, businessID, listID int) (*entities.PriceList, error) {
	var l entities.PriceList
	err := r.db.QueryRow(ctx, `
		SELECT id, business_id, title, currency, is_public, created_at
		FROM price_lists WHERE business_id = $1 AND id = $2`, businessID, listID,
	).Scan(&l.ID, &l.BusinessID, &l.Title, &l.Currency, &l.IsPublic, &l.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}

	priceRows, err := r.rows(ctx, []int{l.ID})
	if err != nil {
		return nil, err
	}
	l.Rows = append([]entities.PriceListRow{}, priceRows[l.ID]...)
	return &l, nil
}

func (r *PriceRepository) CreatePriceList(ctx context.Context, list *entities.PriceList) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO price_lists (business_id, title, currency, is_public)
		VALUES ($1, $2, $3, $4) RETURNING id, created_at`,
		list.BusinessID, list.Title, list.Currency, list.IsPublic,
	).Scan(&list.ID, &list.CreatedAt)
	return mapError(err)
}

func (r *PriceRepository) UpdatePriceList(ctx context.Context, list *entities.PriceList) error {
	return affected(r.db.Exec(ctx, `
		UPDATE price_lists SET title=$1, currency=$2, is_public=$3
		WHERE business_id=$4 AND id=$5`,
		list.Title, list.Currency, list.IsPublic, list.BusinessID, list.ID))
}

func (r *PriceRepository) DeletePriceList(ctx context.Context, businessID, listID int) error {
	return affected(r.db.Exec(ctx,
		"DELETE FROM price_lists WHERE business_id=$1 AND id=$2", businessID, listID))
}

// ReplaceRows swaps the full content of a price list transactionally.
func (r *PriceRepository) ReplaceRows(ctx context.Context, listID int, rows []entities.PriceListRow) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM price_list_rows WHERE price_list_id = $1", listID); err != nil {
		return fmt.Errorf("clear rows: %w", err)
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"price_list_rows"},
		[]string{"price_list_id", "name", "unit", "price_cents", "sku", "position"},
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			row := rows[i]
			return []any{listID, row.Name, row.Unit, row.PriceCents, row.SKU, i}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("copy rows: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpsertAssignment shares a list with a partner. A declined or revoked share
// goes back to PENDING; pending and active ones are left as they are.
func (r *PriceRepository) UpsertAssignment(ctx context.Context, listID, partnerID int) (*entities.PriceAssignment, error) {
	var id int
	err := r.db.QueryRow(ctx, `
		INSERT INTO price_assignments (price_list_id, business_id, status)
		VALUES ($1, $2, 'PENDING')
		ON CONFLICT (price_list_id, business_id) DO UPDATE SET
			status = CASE WHEN price_assignments.status IN ('DECLINED', 'REVOKED')
				THEN 'PENDING' ELSE price_assignments.status END,
			responded_at = CASE WHEN price_assignments.status IN ('DECLINED', 'REVOKED')
				THEN NULL ELSE price_assignments.responded_at END
		RETURNING id`, listID, partnerID).Scan(&id)
	if err != nil {
		return nil, mapError(err)
	}
	return r.GetAssignment(ctx, id)
}

const assignmentSelect = `
	SELECT pa.id, pa.price_list_id, pl.title, pl.business_id, s.name, pa.business_id, p.name,
		pa.status, pa.created_at, pa.responded_at
	FROM price_assignments pa
	JOIN price_lists pl ON pl.id = pa.price_list_id
	JOIN businesses s ON s.id = pl.business_id
	JOIN businesses p ON p.id = pa.business_id`

func scanAssignment(row pgx.Row) (*entities.PriceAssignment, error) {
	var a entities.PriceAssignment
	err := row.Scan(&a.ID, &a.PriceListID, &a.PriceListName, &a.SupplierID, &a.SupplierName,
		&a.BusinessID, &a.BusinessName, &a.Status, &a.CreatedAt, &a.RespondedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &a, nil
}

func (r *PriceRepository) GetAssignment(ctx context.Context, id int) (*entities.PriceAssignment, error) {
	return scanAssignment(r.db.QueryRow(ctx, assignmentSelect+" WHERE pa.id = $1", id))
}

func (r *PriceRepository) SetAssignmentStatus(ctx context.Context, id int, status string) error {
	return affected(r.db.Exec(ctx,
		"UPDATE price_assignments SET status=$1, responded_at=NOW() WHERE id=$2", status, id))
}

func (r *PriceRepository) listAssignments(ctx context.Context, where string, businessID int) ([]entities.PriceAssignment, error) {
	rows, err := r.db.Query(ctx, assignmentSelect+" WHERE "+where+" ORDER BY pa.created_at DESC", businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entities.PriceAssignment{}
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *PriceRepository) ListIncomingAssignments(ctx context.Context, businessID int) ([]entities.PriceAssignment, error) {
	return r.listAssignments(ctx, "pa.business_id = $1", businessID)
}

func (r *PriceRepository) ListOutgoingAssignments(ctx context.Context, businessID int) ([]entities.PriceAssignment, error) {
	return r.listAssignments(ctx, "pl.business_id = $1", businessID)
}

// ActiveSupplierRows returns every price row a buyer can see through accepted
// partner assignments.
func (r *PriceRepository) ActiveSupplierRows(ctx context.Context, buyerID int) ([]entities.SupplierRow, error) {
	rows, err := r.db.Query(ctx, `
		SELECT s.id, s.name, pl.id, pl.currency,
			r.id, r.price_list_id, r.name, r.unit, r.price_cents, r.sku, r.position
		FROM price_assignments pa
		JOIN price_lists pl ON pl.id = pa.price_list_id
		JOIN businesses s ON s.id = pl.business_id
		JOIN price_list_rows r ON r.price_list_id = pl.id
		WHERE pa.business_id = $1 AND pa.status = 'ACTIVE'
		ORDER BY s.name, s.id, r.position, r.id`, buyerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entities.SupplierRow{}
	for rows.Next() {
		var sr entities.SupplierRow
		if err := rows.Scan(&sr.SupplierID, &sr.SupplierName, &sr.PriceListID, &sr.Currency,
			&sr.Row.ID, &sr.Row.PriceListID, &sr.Row.Name, &sr.Row.Unit, &sr.Row.PriceCents,
			&sr.Row.SKU, &sr.Row.Position); err != nil {
			return nil, err
		}
		out = append(out, sr)
	}
	return out, rows.Err()
}
