package usecases

import (
	"context"
	"fmt"

	"project_resident/internal/entities"
	"project_resident/internal/interfaces"
)

// DashboardUsecase backs the admin endpoints.
type DashboardUsecase struct {
	businesses interfaces.BusinessStore
	stats      interfaces.StatsStore
}

func NewDashboardUsecase(businesses interfaces.BusinessStore, stats interfaces.StatsStore) *DashboardUsecase {
	return &DashboardUsecase{
		businesses: businesses,
		stats:      stats,
	}
}

func requireAdmin(actor Actor) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: admin only", ErrForbidden)
	}
	return nil
}

func (u *DashboardUsecase) ListBusinesses(ctx context.Context, actor Actor) ([]entities.Business, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return u.businesses.ListAll(ctx)
}

// SetBusinessActive publishes or hides a business showcase.
func (u *DashboardUsecase) SetBusinessActive(ctx context.Context, actor Actor, businessID int, active bool) (*entities.Business, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := u.businesses.SetActive(ctx, businessID, active); err != nil {
		return nil, fmt.Errorf("business %d: %w", businessID, err)
	}
	return u.businesses.GetByID(ctx, businessID)
}

func (u *DashboardUsecase) Stats(ctx context.Context, actor Actor) (*entities.PlatformStats, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return u.stats.PlatformStats(ctx)
}
