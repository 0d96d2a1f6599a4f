package usecases

import (
	"context"
	"testing"

	"project_resident/internal/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner, shop := env.seedBusiness(t, "Shop")
	uc := NewDashboardUsecase(env.businesses, fakeStats{stats: &entities.PlatformStats{Users: 3}})

	_, err := uc.Stats(ctx, owner)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = uc.ListBusinesses(ctx, owner)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = uc.SetBusinessActive(ctx, owner, shop.ID, false)
	assert.ErrorIs(t, err, ErrForbidden)

	admin := Actor{UserID: 100, Role: entities.RoleAdmin}
	stats, err := uc.Stats(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Users)

	all, err := uc.ListBusinesses(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	hidden, err := uc.SetBusinessActive(ctx, admin, shop.ID, false)
	require.NoError(t, err)
	assert.False(t, hidden.IsActive)

	_, err = uc.SetBusinessActive(ctx, admin, 404, true)
	assert.ErrorIs(t, err, ErrNotFound)
}
