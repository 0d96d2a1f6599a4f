package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"project_resident/internal/entities"

	"github.com/google/uuid"
)

// PickerView is what a picker sees when opening their link.
type PickerView struct {
	Assignment entities.PickerAssignment `json:"assignment"`
	Request    entities.Request          `json:"request"`
}

// AssignPicker hands an accepted request to a warehouse picker. The previous
// active link, if any, stops working.
func (uc *RequestUsecase) AssignPicker(ctx context.Context, actor Actor, businessID, requestID int, pickerName string) (*entities.PickerAssignment, error) {
	req, err := uc.load(ctx, actor, businessID, requestID)
	if err != nil {
		return nil, err
	}
	if req.SupplierID != businessID {
		return nil, fmt.Errorf("%w: only the supplier can assign a picker", ErrForbidden)
	}
	if req.Status != entities.RequestAccepted {
		return nil, fmt.Errorf("%w: request is %s", ErrInvalidState, req.Status)
	}

	a := &entities.PickerAssignment{
		RequestID:  requestID,
		Token:      uuid.NewString(),
		PickerName: strings.TrimSpace(pickerName),
		Status:     entities.PickerActive,
	}
	if err := uc.requests.CreatePickerAssignment(ctx, a); err != nil {
		return nil, fmt.Errorf("create picker assignment: %w", err)
	}
	return a, nil
}

// activeAssignment resolves a picker token. Malformed, finished and revoked
// tokens, and tokens of requests no longer ACCEPTED, are reported as not found.
func (uc *RequestUsecase) activeAssignment(ctx context.Context, token string) (*entities.PickerAssignment, error) {
	if _, err := uuid.Parse(token); err != nil {
		return nil, fmt.Errorf("picker token: %w", ErrNotFound)
	}
	a, err := uc.requests.GetPickerAssignment(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("picker token: %w", err)
	}
	if a.Status != entities.PickerActive {
		return nil, fmt.Errorf("picker token: %w", ErrNotFound)
	}
	return a, nil
}

// pickable loads the request behind an active token.
func (uc *RequestUsecase) pickable(ctx context.Context, token string) (*entities.PickerAssignment, *entities.Request, error) {
	a, err := uc.activeAssignment(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	req, err := uc.requests.GetRequest(ctx, a.RequestID)
	if err != nil {
		return nil, nil, err
	}
	if req.Status != entities.RequestAccepted {
		return nil, nil, fmt.Errorf("picker token: %w", ErrNotFound)
	}
	return a, req, nil
}

func (uc *RequestUsecase) PickerView(ctx context.Context, token string) (*PickerView, error) {
	a, req, err := uc.pickable(ctx, token)
	if err != nil {
		return nil, err
	}
	return &PickerView{Assignment: *a, Request: *req}, nil
}

func (uc *RequestUsecase) SetPickedQuantity(ctx context.Context, token string, itemID int, qty float64) (*entities.Request, error) {
	if qty < 0 {
		return nil, fmt.Errorf("%w: picked quantity cannot be negative", ErrInvalidInput)
	}
	a, _, err := uc.pickable(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := uc.requests.SetPickedQuantity(ctx, a.RequestID, itemID, qty); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, fmt.Errorf("%w: request is no longer accepted", ErrInvalidState)
		}
		return nil, fmt.Errorf("item %d: %w", itemID, err)
	}
	return uc.requests.GetRequest(ctx, a.RequestID)
}

// CompletePicking closes the link and moves the request to PICKED.
func (uc *RequestUsecase) CompletePicking(ctx context.Context, token string) (*entities.Request, error) {
	a, err := uc.activeAssignment(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := uc.requests.CompletePicking(ctx, a.ID, a.RequestID); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, fmt.Errorf("%w: request is no longer accepted", ErrInvalidState)
		}
		return nil, err
	}

	req, err := uc.requests.GetRequest(ctx, a.RequestID)
	if err != nil {
		return nil, err
	}
	if supplier, err := uc.businesses.GetByID(ctx, req.SupplierID); err == nil {
		name := a.PickerName
		if name == "" {
			name = "picker"
		}
		uc.notify(ctx, supplier, fmt.Sprintf("Request #%d for %s has been picked by %s.", req.ID, req.BuyerName, name))
	}
	return req, nil
}
