package usecases

import (
	"context"
	"errors"
	"fmt"

	"project_resident/internal/entities"
	"project_resident/internal/interfaces"
)

type InvoiceUsecase struct {
	access
	requests interfaces.RequestStore
	invoices interfaces.InvoiceStore
}

func NewInvoiceUsecase(businesses interfaces.BusinessStore, requests interfaces.RequestStore, invoices interfaces.InvoiceStore) *InvoiceUsecase {
	return &InvoiceUsecase{access: access{businesses: businesses}, requests: requests, invoices: invoices}
}

var invoiceableStates = []string{entities.RequestAccepted, entities.RequestPicked, entities.RequestCompleted}

// BuildInvoiceLines prices every item at its snapshotted unit price, using the
// picked quantity once it is known.
func BuildInvoiceLines(items []entities.RequestItem) ([]entities.InvoiceLine, int64) {
	lines := make([]entities.InvoiceLine, 0, len(items))
	var total int64
	for _, it := range items {
		qty := it.EffectiveQuantity()
		amount := lineAmount(qty, it.UnitPriceCents)
		lines = append(lines, entities.InvoiceLine{
			Name:           it.Name,
			Quantity:       qty,
			Unit:           it.Unit,
			UnitPriceCents: it.UnitPriceCents,
			AmountCents:    amount,
		})
		total += amount
	}
	return lines, total
}

// Create issues the single invoice of a request. Only the supplier may do it.
func (uc *InvoiceUsecase) Create(ctx context.Context, actor Actor, businessID, requestID int) (*entities.Invoice, error) {
	if _, err := uc.ownedBusiness(ctx, actor, businessID); err != nil {
		return nil, err
	}
	req, err := uc.requests.GetRequest(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("request %d: %w", requestID, err)
	}
	if req.SupplierID != businessID {
		if req.BuyerID == businessID {
			return nil, fmt.Errorf("%w: only the supplier can issue an invoice", ErrForbidden)
		}
		return nil, fmt.Errorf("request %d: %w", requestID, ErrNotFound)
	}

	invoiceable := false
	for _, s := range invoiceableStates {
		if req.Status == s {
			invoiceable = true
		}
	}
	if !invoiceable {
		return nil, fmt.Errorf("%w: request is %s", ErrInvalidState, req.Status)
	}

	lines, total := BuildInvoiceLines(req.Items)
	inv := &entities.Invoice{
		RequestID:  req.ID,
		SupplierID: req.SupplierID,
		BuyerID:    req.BuyerID,
		TotalCents: total,
		Lines:      lines,
	}
	if err := uc.invoices.CreateInvoice(ctx, inv); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, fmt.Errorf("%w: request %d already has an invoice", ErrConflict, requestID)
		}
		return nil, err
	}
	return inv, nil
}

func (uc *InvoiceUsecase) List(ctx context.Context, actor Actor, businessID int) ([]entities.Invoice, error) {
	if _, err := uc.ownedBusiness(ctx, actor, businessID); err != nil {
		return nil, err
	}
	return uc.invoices.ListInvoices(ctx, businessID)
}

func (uc *InvoiceUsecase) Get(ctx context.Context, actor Actor, businessID, invoiceID int) (*entities.Invoice, error) {
	if _, err := uc.ownedBusiness(ctx, actor, businessID); err != nil {
		return nil, err
	}
	inv, err := uc.invoices.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("invoice %d: %w", invoiceID, err)
	}
	if inv.SupplierID != businessID && inv.BuyerID != businessID {
		return nil, fmt.Errorf("invoice %d: %w", invoiceID, ErrNotFound)
	}
	return inv, nil
}
