package usecases

import (
	"context"
	"fmt"
	"io"
	"strings"

	"project_resident/internal/entities"
	"project_resident/internal/interfaces"
)

const defaultCurrency = "RUB"

type PriceListInput struct {
	Title    string `json:"title"`
	Currency string `json:"currency"`
	IsPublic bool   `json:"is_public"`
}

func (in PriceListInput) normalize() (PriceListInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	if in.Title == "" {
		return in, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if in.Currency == "" {
		in.Currency = defaultCurrency
	}
	if len(in.Currency) > 10 {
		return in, fmt.Errorf("%w: currency code is too long", ErrInvalidInput)
	}
	return in, nil
}

// Assignments groups a business's shares by direction.
type Assignments struct {
	Incoming []entities.PriceAssignment `json:"incoming"`
	Outgoing []entities.PriceAssignment `json:"outgoing"`
}

type PriceUsecase struct {
	access
	businesses interfaces.BusinessStore
	prices     interfaces.PriceStore
}

func NewPriceUsecase(businesses interfaces.BusinessStore, prices interfaces.PriceStore) *PriceUsecase {
	return &PriceUsecase{access: access{businesses: businesses}, businesses: businesses, prices: prices}
}

func (uc *PriceUsecase) ListPriceLists(ctx context.Context, actor Actor, businessID int) ([]entities.PriceList, error) {
	if _, err := uc.ownedBusiness(ctx, actor, businessID); err != nil {
		return nil, err
	}
	return uc.prices.ListPriceLists(ctx, businessID, false)
}

func (uc *PriceUsecase) GetPriceList(ctx context.Context, actor Actor, businessID, listID int) (*entities.PriceList, error) {
	if _, err := uc.ownedBusiness(ctx, actor, businessID); err != nil {
		return nil, err
	}
	return uc.prices.GetPriceList(ctx, businessID, listID)
}

func (uc *PriceUsecase) CreatePriceList(ctx context.Context, actor Actor, businessID int, in PriceListInput) (*entities.PriceList, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}
	if _, err := uc.ownedBusiness(ctx, actor, businessID); err != nil {
		return nil, err
	}

	list := &entities.PriceList{
		BusinessID: businessID,
		Title:      in.Title,
		Currency:   in.Currency,
		IsPublic:   in.IsPublic,
		Rows:       []entities.PriceListRow{},
	}
	if err := uc.prices.CreatePriceList(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (uc *PriceUsecase) UpdatePriceList(ctx context.Context, actor Actor, businessID, listID int, in PriceListInput) (*entities.PriceList, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}
	if _, err := uc.ownedBusiness(ctx, actor, businessID); err != nil {
		return nil, err
	}

	list, err := uc.prices.GetPriceList(ctx, businessID, listID)
	if err != nil {
		return nil, err
	}
	list.Title, list.Currency, list.IsPublic = in.Title, in.Currency, in.IsPublic
	if err := uc.prices.UpdatePriceList(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (uc *PriceUsecase) DeletePriceList(ctx context.Context, actor Actor, businessID, listID int) error {
	if _, err := uc.ownedBusiness(ctx, actor, businessID); err != nil {
		return err
	}
	return uc.prices.DeletePriceList(ctx, businessID, listID)
}

// ReplaceRows swaps the rows of a list. Rows keep the order they are given in.
func (uc *PriceUsecase) ReplaceRows(ctx context.Context, actor Actor, businessID, listID int, rows []entities.PriceListRow) (*entities.PriceList, error) {
	if len(rows) > maxImportRows {
		return nil, fmt.Errorf("%w: more than %d rows", ErrInvalidInput, maxImportRows)
	}
	clean := make([]entities.PriceListRow, 0, len(rows))
	for i, row := range rows {
		row.Name = strings.TrimSpace(row.Name)
		row.Unit = strings.TrimSpace(row.Unit)
		row.SKU = strings.TrimSpace(row.SKU)
		if row.Name == "" {
			return nil, fmt.Errorf("%w: row %d has no name", ErrInvalidInput, i+1)
		}
		if row.PriceCents < 0 {
			return nil, fmt.Errorf("%w: row %d has a negative price", ErrInvalidInput, i+1)
		}
		row.Position = i
		clean = append(clean, row)
	}
	return uc.storeRows(ctx, actor, businessID, listID, clean)
}

// ImportCSV replaces the rows of a list with the content of a CSV file.
func (uc *PriceUsecase) ImportCSV(ctx context.Context, actor Actor, businessID, listID int, r io.Reader) (*entities.PriceList, error) {
	rows, err := ParsePriceCSV(r)
	if err != nil {
		return nil, err
	}
	return uc.storeRows(ctx, actor, businessID, listID, rows)
}

func (uc *PriceUsecase) storeRows(ctx context.Context, actor Actor, businessID, listID int, rows []entities.PriceListRow) (*entities.PriceList, error) {
	if _, err := uc.ownedBusiness(ctx, actor, businessID); err != nil {
		return nil, err
	}
	if _, err := uc.prices.GetPriceList(ctx, businessID, listID); err != nil {
		return nil, err
	}
	if err := uc.prices.ReplaceRows(ctx, listID, rows); err != nil {
		return nil, fmt.Errorf("replace rows of list %d: %w", listID, err)
	}
	return uc.prices.GetPriceList(ctx, businessID, listID)
}

// Share offers a price list to a partner business, identified by slug.
func (uc *PriceUsecase) Share(ctx context.Context, actor Actor, businessID, listID int, partnerSlug string) (*entities.PriceAssignment, error) {
	if _, err := uc.ownedBusiness(ctx, actor, businessID); err != nil {
		return nil, err
	}
	if _, err := uc.prices.GetPriceList(ctx, businessID, listID); err != nil {
		return nil, err
	}

	partner, err := uc.businesses.GetBySlug(ctx, strings.TrimSpace(partnerSlug))
	if err != nil {
		return nil, fmt.Errorf("partner %q: %w", partnerSlug, err)
	}
	if partner.ID == businessID {
		return nil, fmt.Errorf("%w: cannot share a price list with yourself", ErrInvalidInput)
	}
	return uc.prices.UpsertAssignment(ctx, listID, partner.ID)
}

// Respond lets the receiving partner accept or decline a pending share.
func (uc *PriceUsecase) Respond(ctx context.Context, actor Actor, businessID, assignmentID int, accept bool) (*entities.PriceAssignment, error) {
	if _, err := uc.ownedBusiness(ctx, actor, businessID); err != nil {
		return nil, err
	}
	a, err := uc.prices.GetAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if a.BusinessID != businessID {
		return nil, fmt.Errorf("assignment %d: %w", assignmentID, ErrNotFound)
	}
	if a.Status != entities.AssignmentPending {
		return nil, fmt.Errorf("%w: assignment is %s", ErrInvalidState, a.Status)
	}

	status := entities.AssignmentDeclined
	if accept {
		status = entities.AssignmentActive
	}
	if err := uc.prices.SetAssignmentStatus(ctx, assignmentID, status); err != nil {
		return nil, err
	}
	return uc.prices.GetAssignment(ctx, assignmentID)
}

// Revoke withdraws a pending or active share; only the supplier may do it.
func (uc *PriceUsecase) Revoke(ctx context.Context, actor Actor, businessID, assignmentID int) error {
	if _, err := uc.ownedBusiness(ctx, actor, businessID); err != nil {
		return err
	}
	a, err := uc.prices.GetAssignment(ctx, assignmentID)
	if err != nil {
		return err
	}
	if a.SupplierID != businessID {
		return fmt.Errorf("assignment %d: %w", assignmentID, ErrNotFound)
	}
	if a.Status != entities.AssignmentPending && a.Status != entities.AssignmentActive {
		return fmt.Errorf("%w: assignment is %s", ErrInvalidState, a.Status)
	}
	return uc.prices.SetAssignmentStatus(ctx, assignmentID, entities.AssignmentRevoked)
}

func (uc *PriceUsecase) ListAssignments(ctx context.Context, actor Actor, businessID int) (*Assignments, error) {
	if _, err := uc.ownedBusiness(ctx, actor, businessID); err != nil {
		return nil, err
	}
	incoming, err := uc.prices.ListIncomingAssignments(ctx, businessID)
	if err != nil {
		return nil, err
	}
	outgoing, err := uc.prices.ListOutgoingAssignments(ctx, businessID)
	if err != nil {
		return nil, err
	}
	return &Assignments{Incoming: incoming, Outgoing: outgoing}, nil
}
