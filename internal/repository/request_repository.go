package repository

import (
	"context"
	"fmt"

	"project_resident/internal/entities"

	"github.com/jackc/pgx/v5/pgxpool"
)

type RequestRepository struct {
	db *pgxpool.Pool
}

func NewRequestRepository(db *pgxpool.Pool) *RequestRepository {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) CreateRequest(ctx context.Context, req *entities.Request) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO requests (buyer_id, supplier_id, status, comment)
		VALUES ($1, $2, $3, $4) RETURNING id, created_at, updated_at`,
		req.BuyerID, req.SupplierID, req.Status, req.Comment,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return mapError(err)
	}

	for i := range req.Items {
		it := &req.Items[i]
		it.RequestID = req.ID
		err := tx.QueryRow(ctx, `
			INSERT INTO request_items (request_id, name, quantity, unit, unit_price_cents, price_list_row_id)
			VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
			req.ID, it.Name, it.Quantity, it.Unit, it.UnitPriceCents, it.PriceListRowID,
		).Scan(&it.ID)
		if err != nil {
			return fmt.Errorf("item %d insert failed: %w", i+1, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

const requestSelect = `
	SELECT rq.id, rq.buyer_id, b.name, rq.supplier_id, s.name, rq.status, rq.comment,
		COALESCE((SELECT SUM(ROUND(COALESCE(i.picked_quantity, i.quantity) * i.unit_price_cents))
			FROM request_items i WHERE i.request_id = rq.id), 0)::BIGINT,
		rq.created_at, rq.updated_at
	FROM requests rq
	JOIN businesses b ON b.id = rq.buyer_id
	JOIN businesses s ON s.id = rq.supplier_id`

func (r *RequestRepository) GetRequest(ctx context.Context, id int) (*entities.Request, error) {
	var req entities.Request
	err := r.db.QueryRow(ctx, requestSelect+" WHERE rq.id = $1", id).Scan(
		&req.ID, &req.BuyerID, &req.BuyerName, &req.SupplierID, &req.SupplierName,
		&req.Status, &req.Comment, &req.TotalCents, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, request_id, name, quantity, unit, unit_price_cents, price_list_row_id, picked_quantity
		FROM request_items WHERE request_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	req.Items = []entities.RequestItem{}
	for rows.Next() {
		var it entities.RequestItem
		if err := rows.Scan(&it.ID, &it.RequestID, &it.Name, &it.Quantity, &it.Unit,
			&it.UnitPriceCents, &it.PriceListRowID, &it.PickedQuantity); err != nil {
			return nil, err
		}
		req.Items = append(req.Items, it)
	}
	return &req, rows.Err()
}

// ListRequests returns a business's incoming (as supplier) or outgoing (as buyer) requests.
func (r *RequestRepository) ListRequests(ctx context.Context, businessID int, incoming bool) ([]entities.Request, error) {
	where := " WHERE rq.buyer_id = $1"
	if incoming {
		where = " WHERE rq.supplier_id = $1"
	}
	rows, err := r.db.Query(ctx, requestSelect+where+" ORDER BY rq.created_at DESC", businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entities.Request{}
	for rows.Next() {
		var req entities.Request
		if err := rows.Scan(&req.ID, &req.BuyerID, &req.BuyerName, &req.SupplierID, &req.SupplierName,
			&req.Status, &req.Comment, &req.TotalCents, &req.CreatedAt, &req.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

// TransitionRequest moves a request to `to` only if its status is one of `from`;
// ErrConflict means the status changed underneath the caller. Moving to a closed
// status revokes the active picker link in the same transaction.
func (r *RequestRepository) TransitionRequest(ctx context.Context, id int, from []string, to string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = affected(tx.Exec(ctx,
		"UPDATE requests SET status=$1, updated_at=NOW() WHERE id=$2 AND status = ANY($3)",
		to, id, from))
	if err == ErrNotFound {
		return ErrConflict
	}
	if err != nil {
		return err
	}

	if entities.RequestClosed(to) {
		if _, err := tx.Exec(ctx,
			"UPDATE picker_assignments SET status='REVOKED' WHERE request_id=$1 AND status='ACTIVE'",
			id); err != nil {
			return fmt.Errorf("revoke picker: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// SetPickedQuantity only touches items of a request that is still ACCEPTED.
func (r *RequestRepository) SetPickedQuantity(ctx context.Context, requestID, itemID int, qty float64) error {
	err := affected(r.db.Exec(ctx, `
		UPDATE request_items SET picked_quantity=$1
		WHERE request_id=$2 AND id=$3
			AND EXISTS (SELECT 1 FROM requests WHERE id=$2 AND status='ACCEPTED')`,
		qty, requestID, itemID))
	if err == ErrNotFound {
		var status string
		if qerr := r.db.QueryRow(ctx, "SELECT status FROM requests WHERE id=$1", requestID).Scan(&status); qerr == nil && status != entities.RequestAccepted {
			return ErrConflict
		}
	}
	return err
}

// CreatePickerAssignment revokes any active picker for the request and inserts
// the new one; the partial unique index backs the one-active rule.
func (r *RequestRepository) CreatePickerAssignment(ctx context.Context, a *entities.PickerAssignment) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		"UPDATE picker_assignments SET status='REVOKED' WHERE request_id=$1 AND status='ACTIVE'",
		a.RequestID); err != nil {
		return fmt.Errorf("revoke previous picker: %w", err)
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO picker_assignments (request_id, token, picker_name, status)
		VALUES ($1, $2, $3, $4) RETURNING id, created_at`,
		a.RequestID, a.Token, a.PickerName, a.Status,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return mapError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *RequestRepository) GetPickerAssignment(ctx context.Context, token string) (*entities.PickerAssignment, error) {
	var a entities.PickerAssignment
	err := r.db.QueryRow(ctx, `
		SELECT id, request_id, token::TEXT, picker_name, status, created_at
		FROM picker_assignments WHERE token = $1`, token,
	).Scan(&a.ID, &a.RequestID, &a.Token, &a.PickerName, &a.Status, &a.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &a, nil
}

// CompletePicking closes the assignment and marks the request PICKED.
func (r *RequestRepository) CompletePicking(ctx context.Context, assignmentID, requestID int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := affected(tx.Exec(ctx,
		"UPDATE picker_assignments SET status='DONE' WHERE id=$1 AND status='ACTIVE'",
		assignmentID)); err != nil {
		return err
	}
	if err := affected(tx.Exec(ctx,
		"UPDATE requests SET status='PICKED', updated_at=NOW() WHERE id=$1 AND status='ACCEPTED'",
		requestID)); err != nil {
		if err == ErrNotFound {
			return ErrConflict
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
