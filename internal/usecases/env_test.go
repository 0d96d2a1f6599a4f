package usecases

import (
	"context"
	"testing"
	"time"

	"project_resident/internal/entities"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEnv struct {
	users         *fakeUsers
	businesses    *fakeBusinesses
	portfolio     *fakePortfolio
	prices        *fakePrices
	requests      *fakeRequests
	invoices      *fakeInvoices
	conversations *fakeConversations
	inquiries     *fakeInquiries
	notifier      *fakeNotifier

	authUC      *AuthUsecase
	businessUC  *BusinessUsecase
	portfolioUC *PortfolioUsecase
	priceUC     *PriceUsecase
	compareUC   *ComparisonUsecase
	requestUC   *RequestUsecase
	invoiceUC   *InvoiceUsecase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	businesses := &fakeBusinesses{}
	env := &testEnv{
		users:         &fakeUsers{businesses: businesses},
		businesses:    businesses,
		portfolio:     &fakePortfolio{},
		prices:        &fakePrices{businesses: businesses},
		requests:      &fakeRequests{},
		invoices:      &fakeInvoices{},
		conversations: &fakeConversations{},
		inquiries:     &fakeInquiries{},
		notifier:      &fakeNotifier{},
	}
	log := zap.NewNop()
	env.authUC = NewAuthUsecase(env.users, businesses, "test-secret", time.Hour)
	env.businessUC = NewBusinessUsecase(businesses, env.portfolio, env.prices)
	env.portfolioUC = NewPortfolioUsecase(businesses, env.portfolio)
	env.priceUC = NewPriceUsecase(businesses, env.prices)
	env.compareUC = NewComparisonUsecase(businesses, env.prices)
	env.requestUC = NewRequestUsecase(businesses, env.prices, env.requests, env.notifier, log)
	env.invoiceUC = NewInvoiceUsecase(businesses, env.requests, env.invoices)
	return env
}

// seedBusiness creates an owner user and an active business for it.
func (e *testEnv) seedBusiness(t *testing.T, name string) (Actor, *entities.Business) {
	t.Helper()
	u := &entities.User{Email: Slugify(name) + "@example.com", Role: entities.RoleResident}
	require.NoError(t, e.users.Create(context.Background(), u))
	b := e.businesses.add(entities.Business{OwnerID: u.ID, Name: name, Slug: Slugify(name), IsActive: true})
	return Actor{UserID: u.ID, Role: entities.RoleResident}, b
}

// sharePrices gives buyer ACTIVE access to a supplier list with the given rows.
func (e *testEnv) sharePrices(t *testing.T, supplierActor Actor, supplier, buyer *entities.Business, buyerActor Actor, rows []entities.PriceListRow) *entities.PriceList {
	t.Helper()
	ctx := context.Background()
	list, err := e.priceUC.CreatePriceList(ctx, supplierActor, supplier.ID, PriceListInput{Title: supplier.Name + " prices"})
	require.NoError(t, err)
	list, err = e.priceUC.ReplaceRows(ctx, supplierActor, supplier.ID, list.ID, rows)
	require.NoError(t, err)
	a, err := e.priceUC.Share(ctx, supplierActor, supplier.ID, list.ID, buyer.Slug)
	require.NoError(t, err)
	_, err = e.priceUC.Respond(ctx, buyerActor, buyer.ID, a.ID, true)
	require.NoError(t, err)
	return list
}
