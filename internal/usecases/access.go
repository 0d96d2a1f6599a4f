package usecases

import (
	"context"
	"fmt"

	"project_resident/internal/entities"
	"project_resident/internal/interfaces"
)

// Actor is the authenticated caller as extracted from the bearer token.
type Actor struct {
	UserID int
	Role   string
}

func (a Actor) IsAdmin() bool {
	return a.Role == entities.RoleAdmin
}

// access resolves a business and checks that the actor may manage it.
type access struct {
	businesses interfaces.BusinessStore
}

func (a access) ownedBusiness(ctx context.Context, actor Actor, businessID int) (*entities.Business, error) {
	b, err := a.businesses.GetByID(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("business %d: %w", businessID, err)
	}
	if b.OwnerID != actor.UserID && !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return b, nil
}
