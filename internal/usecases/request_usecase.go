package usecases

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"project_resident/internal/entities"
	"project_resident/internal/interfaces"

	"go.uber.org/zap"
)

const (
	DirectionOutgoing = "outgoing"
	DirectionIncoming = "incoming"
)

type RequestItemInput struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

type RequestInput struct {
	SupplierID int                `json:"supplier_id"`
	Comment    string             `json:"comment"`
	Items      []RequestItemInput `json:"items"`
}

func (in RequestInput) validate() error {
	if in.SupplierID <= 0 {
		return fmt.Errorf("%w: supplier_id is required", ErrInvalidInput)
	}
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: at least one item is required", ErrInvalidInput)
	}
	for i, it := range in.Items {
		if strings.TrimSpace(it.Name) == "" {
			return fmt.Errorf("%w: item %d has no name", ErrInvalidInput, i+1)
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: item %d quantity must be positive", ErrInvalidInput, i+1)
		}
	}
	return nil
}

// side says which party of a request the caller acts as.
type side int

const (
	asBuyer side = iota
	asSupplier
)

type RequestUsecase struct {
	access
	ownerNotifier
	businesses interfaces.BusinessStore
	prices     interfaces.PriceStore
	requests   interfaces.RequestStore
}

func NewRequestUsecase(businesses interfaces.BusinessStore, prices interfaces.PriceStore, requests interfaces.RequestStore, notifier interfaces.Notifier, log *zap.Logger) *RequestUsecase {
	return &RequestUsecase{
		access:        access{businesses: businesses},
		ownerNotifier: ownerNotifier{notifier: notifier, log: log},
		businesses:    businesses,
		prices:        prices,
		requests:      requests,
	}
}

// activePartner reports whether the supplier shares at least one list with
// the buyer through an ACTIVE assignment.
func (uc *RequestUsecase) activePartner(ctx context.Context, buyerID, supplierID int) (bool, error) {
	incoming, err := uc.prices.ListIncomingAssignments(ctx, buyerID)
	if err != nil {
		return false, err
	}
	for _, a := range incoming {
		if a.SupplierID == supplierID && a.Status == entities.AssignmentActive {
			return true, nil
		}
	}
	return false, nil
}

// Create sends a purchase request. Unit prices are snapshotted from the
// supplier's rows shared with the buyer; unmatched items carry a zero price.
func (uc *RequestUsecase) Create(ctx context.Context, actor Actor, buyerID int, in RequestInput) (*entities.Request, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	buyer, err := uc.ownedBusiness(ctx, actor, buyerID)
	if err != nil {
		return nil, err
	}
	if in.SupplierID == buyerID {
		return nil, fmt.Errorf("%w: cannot send a request to yourself", ErrInvalidInput)
	}
	supplier, err := uc.businesses.GetByID(ctx, in.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("supplier %d: %w", in.SupplierID, err)
	}

	ok, err := uc.activePartner(ctx, buyerID, supplier.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s has not shared an active price list with you", ErrForbidden, supplier.Name)
	}

	all, err := uc.prices.ActiveSupplierRows(ctx, buyerID)
	if err != nil {
		return nil, fmt.Errorf("load supplier rows: %w", err)
	}
	var rows []entities.SupplierRow
	for _, sr := range all {
		if sr.SupplierID == supplier.ID {
			rows = append(rows, sr)
		}
	}

	req := &entities.Request{
		BuyerID:      buyer.ID,
		BuyerName:    buyer.Name,
		SupplierID:   supplier.ID,
		SupplierName: supplier.Name,
		Status:       entities.RequestSent,
		Comment:      strings.TrimSpace(in.Comment),
		Items:        make([]entities.RequestItem, 0, len(in.Items)),
	}
	for _, it := range in.Items {
		item := entities.RequestItem{
			Name:     strings.TrimSpace(it.Name),
			Quantity: it.Quantity,
			Unit:     strings.TrimSpace(it.Unit),
		}
		if offers := cheapestPerSupplier(matchingRows(rows, item.Name)); len(offers) > 0 {
			rowID := offers[0].RowID
			item.UnitPriceCents = offers[0].PriceCents
			item.PriceListRowID = &rowID
			if item.Unit == "" {
				item.Unit = offers[0].Unit
			}
		}
		req.TotalCents += lineAmount(item.Quantity, item.UnitPriceCents)
		req.Items = append(req.Items, item)
	}

	if err := uc.requests.CreateRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	uc.notify(ctx, supplier, fmt.Sprintf("New purchase request #%d from %s: %d item(s).",
		req.ID, buyer.Name, len(req.Items)))
	return req, nil
}

func (uc *RequestUsecase) List(ctx context.Context, actor Actor, businessID int, direction string) ([]entities.Request, error) {
	var incoming bool
	switch direction {
	case "", DirectionOutgoing:
	case DirectionIncoming:
		incoming = true
	default:
		return nil, fmt.Errorf("%w: direction must be incoming or outgoing", ErrInvalidInput)
	}
	if _, err := uc.ownedBusiness(ctx, actor, businessID); err != nil {
		return nil, err
	}
	return uc.requests.ListRequests(ctx, businessID, incoming)
}

// load returns a request the business takes part in; requests between other
// parties are reported as not found.
func (uc *RequestUsecase) load(ctx context.Context, actor Actor, businessID, requestID int) (*entities.Request, error) {
	if _, err := uc.ownedBusiness(ctx, actor, businessID); err != nil {
		return nil, err
	}
	req, err := uc.requests.GetRequest(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("request %d: %w", requestID, err)
	}
	if req.BuyerID != businessID && req.SupplierID != businessID {
		return nil, fmt.Errorf("request %d: %w", requestID, ErrNotFound)
	}
	return req, nil
}

func (uc *RequestUsecase) Get(ctx context.Context, actor Actor, businessID, requestID int) (*entities.Request, error) {
	return uc.load(ctx, actor, businessID, requestID)
}

func (uc *RequestUsecase) transition(ctx context.Context, actor Actor, businessID, requestID int, as side, from []string, to string) (*entities.Request, error) {
	req, err := uc.load(ctx, actor, businessID, requestID)
	if err != nil {
		return nil, err
	}
	if as == asSupplier && req.SupplierID != businessID {
		return nil, fmt.Errorf("%w: only the supplier can move a request to %s", ErrForbidden, to)
	}
	if as == asBuyer && req.BuyerID != businessID {
		return nil, fmt.Errorf("%w: only the buyer can move a request to %s", ErrForbidden, to)
	}
	if !slices.Contains(from, req.Status) {
		return nil, fmt.Errorf("%w: request is %s", ErrInvalidState, req.Status)
	}

	if err := uc.requests.TransitionRequest(ctx, requestID, from, to); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, fmt.Errorf("%w: request changed concurrently", ErrInvalidState)
		}
		return nil, err
	}
	return uc.requests.GetRequest(ctx, requestID)
}

func (uc *RequestUsecase) Accept(ctx context.Context, actor Actor, businessID, requestID int) (*entities.Request, error) {
	return uc.transition(ctx, actor, businessID, requestID, asSupplier,
		[]string{entities.RequestSent}, entities.RequestAccepted)
}

func (uc *RequestUsecase) Reject(ctx context.Context, actor Actor, businessID, requestID int) (*entities.Request, error) {
	return uc.transition(ctx, actor, businessID, requestID, asSupplier,
		[]string{entities.RequestSent}, entities.RequestRejected)
}

func (uc *RequestUsecase) Cancel(ctx context.Context, actor Actor, businessID, requestID int) (*entities.Request, error) {
	return uc.transition(ctx, actor, businessID, requestID, asBuyer,
		[]string{entities.RequestSent, entities.RequestAccepted}, entities.RequestCancelled)
}

func (uc *RequestUsecase) Complete(ctx context.Context, actor Actor, businessID, requestID int) (*entities.Request, error) {
	return uc.transition(ctx, actor, businessID, requestID, asSupplier,
		[]string{entities.RequestAccepted, entities.RequestPicked}, entities.RequestCompleted)
}
