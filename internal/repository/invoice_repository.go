package repository

import (
	"context"
	"fmt"

	"project_resident/internal/entities"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type InvoiceRepository struct {
	db *pgxpool.Pool
}

func NewInvoiceRepository(db *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

func InvoiceNumber(supplierID, seq int) string {
	return fmt.Sprintf("INV-%d-%05d", supplierID, seq)
}

// CreateInvoice assigns the supplier's next sequence number. The supplier row
// is locked so concurrent invoices cannot take the same number.
func (r *InvoiceRepository) CreateInvoice(ctx context.Context, inv *entities.Invoice) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "SELECT id FROM businesses WHERE id = $1 FOR UPDATE", inv.SupplierID); err != nil {
		return fmt.Errorf("lock supplier: %w", err)
	}

	var seq int
	if err := tx.QueryRow(ctx,
		"SELECT COALESCE(MAX(seq), 0) + 1 FROM invoices WHERE supplier_id = $1",
		inv.SupplierID).Scan(&seq); err != nil {
		return fmt.Errorf("next invoice number: %w", err)
	}
	inv.Number = InvoiceNumber(inv.SupplierID, seq)

	err = tx.QueryRow(ctx, `
		INSERT INTO invoices (request_id, supplier_id, buyer_id, seq, number, total_cents, lines)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at`,
		inv.RequestID, inv.SupplierID, inv.BuyerID, seq, inv.Number, inv.TotalCents, inv.Lines,
	).Scan(&inv.ID, &inv.CreatedAt)
	if err != nil {
		return mapError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

const invoiceColumns = "id, request_id, supplier_id, buyer_id, number, total_cents, lines, created_at"

func scanInvoice(row pgx.Row) (*entities.Invoice, error) {
	var inv entities.Invoice
	err := row.Scan(&inv.ID, &inv.RequestID, &inv.SupplierID, &inv.BuyerID, &inv.Number,
		&inv.TotalCents, &inv.Lines, &inv.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &inv, nil
}

func (r *InvoiceRepository) GetInvoice(ctx context.Context, id int) (*entities.Invoice, error) {
	return scanInvoice(r.db.QueryRow(ctx, "SELECT "+invoiceColumns+" FROM invoices WHERE id = $1", id))
}

// ListInvoices returns invoices where the business is either supplier or buyer.
func (r *InvoiceRepository) ListInvoices(ctx context.Context, businessID int) ([]entities.Invoice, error) {
	rows, err := r.db.Query(ctx, "SELECT "+invoiceColumns+
		" FROM invoices WHERE supplier_id = $1 OR buyer_id = $1 ORDER BY created_at DESC", businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entities.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *inv)
	}
	return out, rows.Err()
}
