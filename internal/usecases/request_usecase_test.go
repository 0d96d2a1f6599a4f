package usecases

import (
	"context"
	"testing"

	"project_resident/internal/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tradeFixture struct {
	env           *testEnv
	buyerActor    Actor
	buyer         *entities.Business
	supplierActor Actor
	supplier      *entities.Business
}

func newTradeFixture(t *testing.T) *tradeFixture {
	t.Helper()
	env := newTestEnv(t)
	f := &tradeFixture{env: env}
	f.buyerActor, f.buyer = env.seedBusiness(t, "Buyer")
	f.supplierActor, f.supplier = env.seedBusiness(t, "Supplier")
	env.sharePrices(t, f.supplierActor, f.supplier, f.buyer, f.buyerActor, []entities.PriceListRow{
		{Name: "Sugar", Unit: "kg", PriceCents: 150},
		{Name: "Flour", Unit: "kg", PriceCents: 80},
	})
	return f
}

func (f *tradeFixture) send(t *testing.T) *entities.Request {
	t.Helper()
	req, err := f.env.requestUC.Create(context.Background(), f.buyerActor, f.buyer.ID, RequestInput{
		SupplierID: f.supplier.ID,
		Comment:    "  by Friday ",
		Items: []RequestItemInput{
			{Name: "sugar", Quantity: 10},
			{Name: "Flour", Quantity: 2, Unit: "bag"},
			{Name: "Vanilla", Quantity: 1},
		},
	})
	require.NoError(t, err)
	return req
}

func TestCreateRequestSnapshotsPrices(t *testing.T) {
	f := newTradeFixture(t)

	req := f.send(t)

	assert.Equal(t, entities.RequestSent, req.Status)
	assert.Equal(t, "by Friday", req.Comment)
	require.Len(t, req.Items, 3)
	assert.Equal(t, int64(150), req.Items[0].UnitPriceCents)
	assert.Equal(t, "kg", req.Items[0].Unit)
	require.NotNil(t, req.Items[0].PriceListRowID)
	assert.Equal(t, "bag", req.Items[1].Unit)
	assert.Equal(t, int64(0), req.Items[2].UnitPriceCents)
	assert.Nil(t, req.Items[2].PriceListRowID)
	assert.Equal(t, int64(1660), req.TotalCents)

	require.Equal(t, 1, f.env.notifier.count())
	assert.Equal(t, f.supplier.ID, f.env.notifier.sent[0].BusinessID)
}

func TestCreateRequestRequiresActivePartner(t *testing.T) {
	f := newTradeFixture(t)
	ctx := context.Background()
	_, stranger := f.env.seedBusiness(t, "Stranger")

	_, err := f.env.requestUC.Create(ctx, f.buyerActor, f.buyer.ID, RequestInput{
		SupplierID: stranger.ID,
		Items:      []RequestItemInput{{Name: "Sugar", Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.env.requestUC.Create(ctx, f.buyerActor, f.buyer.ID, RequestInput{
		SupplierID: f.supplier.ID,
		Items:      []RequestItemInput{{Name: "Sugar", Quantity: 0}},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.env.requestUC.Create(ctx, f.buyerActor, f.buyer.ID, RequestInput{SupplierID: f.supplier.ID})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNotificationFailureDoesNotFailRequest(t *testing.T) {
	f := newTradeFixture(t)
	f.env.notifier.err = errBoom

	req := f.send(t)
	assert.NotZero(t, req.ID)
}

func TestListRequestsByDirection(t *testing.T) {
	f := newTradeFixture(t)
	ctx := context.Background()
	f.send(t)

	out, err := f.env.requestUC.List(ctx, f.buyerActor, f.buyer.ID, "")
	require.NoError(t, err)
	assert.Len(t, out, 1)

	in, err := f.env.requestUC.List(ctx, f.supplierActor, f.supplier.ID, DirectionIncoming)
	require.NoError(t, err)
	assert.Len(t, in, 1)

	in, err = f.env.requestUC.List(ctx, f.buyerActor, f.buyer.ID, DirectionIncoming)
	require.NoError(t, err)
	assert.Empty(t, in)

	_, err = f.env.requestUC.List(ctx, f.buyerActor, f.buyer.ID, "sideways")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRequestTransitions(t *testing.T) {
	f := newTradeFixture(t)
	ctx := context.Background()
	uc := f.env.requestUC

	req := f.send(t)
	_, err := uc.Accept(ctx, f.buyerActor, f.buyer.ID, req.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = uc.Complete(ctx, f.supplierActor, f.supplier.ID, req.ID)
	assert.ErrorIs(t, err, ErrInvalidState)

	accepted, err := uc.Accept(ctx, f.supplierActor, f.supplier.ID, req.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.RequestAccepted, accepted.Status)

	_, err = uc.Reject(ctx, f.supplierActor, f.supplier.ID, req.ID)
	assert.ErrorIs(t, err, ErrInvalidState)

	completed, err := uc.Complete(ctx, f.supplierActor, f.supplier.ID, req.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.RequestCompleted, completed.Status)

	_, err = uc.Cancel(ctx, f.buyerActor, f.buyer.ID, req.ID)
	assert.ErrorIs(t, err, ErrInvalidState)

	second := f.send(t)
	cancelled, err := uc.Cancel(ctx, f.buyerActor, f.buyer.ID, second.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.RequestCancelled, cancelled.Status)
}

func TestRequestHiddenFromThirdParties(t *testing.T) {
	f := newTradeFixture(t)
	req := f.send(t)
	otherActor, other := f.env.seedBusiness(t, "Other")

	_, err := f.env.requestUC.Get(context.Background(), otherActor, other.ID, req.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.env.requestUC.Get(context.Background(), otherActor, f.buyer.ID, req.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestPickerFlow(t *testing.T) {
	f := newTradeFixture(t)
	ctx := context.Background()
	uc := f.env.requestUC
	req := f.send(t)

	_, err := uc.AssignPicker(ctx, f.supplierActor, f.supplier.ID, req.ID, "Ann")
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = uc.Accept(ctx, f.supplierActor, f.supplier.ID, req.ID)
	require.NoError(t, err)

	first, err := uc.AssignPicker(ctx, f.supplierActor, f.supplier.ID, req.ID, "Ann")
	require.NoError(t, err)
	second, err := uc.AssignPicker(ctx, f.supplierActor, f.supplier.ID, req.ID, "Bob")
	require.NoError(t, err)
	assert.NotEqual(t, first.Token, second.Token)
	assert.Equal(t, 1, f.env.requests.activePickers(req.ID))

	_, err = uc.PickerView(ctx, first.Token)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = uc.PickerView(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)

	view, err := uc.PickerView(ctx, second.Token)
	require.NoError(t, err)
	assert.Equal(t, req.ID, view.Request.ID)

	itemID := view.Request.Items[0].ID
	updated, err := uc.SetPickedQuantity(ctx, second.Token, itemID, 8)
	require.NoError(t, err)
	require.NotNil(t, updated.Items[0].PickedQuantity)
	assert.Equal(t, 8.0, *updated.Items[0].PickedQuantity)

	_, err = uc.SetPickedQuantity(ctx, second.Token, itemID, -1)
	assert.ErrorIs(t, err, ErrInvalidInput)

	before := f.env.notifier.count()
	picked, err := uc.CompletePicking(ctx, second.Token)
	require.NoError(t, err)
	assert.Equal(t, entities.RequestPicked, picked.Status)
	assert.Equal(t, before+1, f.env.notifier.count())

	_, err = uc.CompletePicking(ctx, second.Token)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClosingRequestRevokesPicker(t *testing.T) {
	ctx := context.Background()
	closers := map[string]func(f *tradeFixture, id int) (*entities.Request, error){
		entities.RequestCompleted: func(f *tradeFixture, id int) (*entities.Request, error) {
			return f.env.requestUC.Complete(ctx, f.supplierActor, f.supplier.ID, id)
		},
		entities.RequestCancelled: func(f *tradeFixture, id int) (*entities.Request, error) {
			return f.env.requestUC.Cancel(ctx, f.buyerActor, f.buyer.ID, id)
		},
	}
	for status, closeRequest := range closers {
		t.Run(status, func(t *testing.T) {
			f := newTradeFixture(t)
			uc := f.env.requestUC
			req := f.send(t)
			_, err := uc.Accept(ctx, f.supplierActor, f.supplier.ID, req.ID)
			require.NoError(t, err)
			picker, err := uc.AssignPicker(ctx, f.supplierActor, f.supplier.ID, req.ID, "Ann")
			require.NoError(t, err)

			closed, err := closeRequest(f, req.ID)
			require.NoError(t, err)
			assert.Equal(t, status, closed.Status)
			assert.Equal(t, 0, f.env.requests.activePickers(req.ID))

			_, err = uc.PickerView(ctx, picker.Token)
			assert.ErrorIs(t, err, ErrNotFound)
			_, err = uc.SetPickedQuantity(ctx, picker.Token, req.Items[0].ID, 1000)
			assert.ErrorIs(t, err, ErrNotFound)
			_, err = uc.CompletePicking(ctx, picker.Token)
			assert.ErrorIs(t, err, ErrNotFound)

			after, err := uc.Get(ctx, f.supplierActor, f.supplier.ID, req.ID)
			require.NoError(t, err)
			assert.Equal(t, closed.TotalCents, after.TotalCents)
			assert.Nil(t, after.Items[0].PickedQuantity)
		})
	}
}

func TestPickedQuantityOnInvoicedRequest(t *testing.T) {
	f := newTradeFixture(t)
	ctx := context.Background()
	req := f.send(t)
	_, err := f.env.requestUC.Accept(ctx, f.supplierActor, f.supplier.ID, req.ID)
	require.NoError(t, err)
	_, err = f.env.requestUC.Complete(ctx, f.supplierActor, f.supplier.ID, req.ID)
	require.NoError(t, err)
	inv, err := f.env.invoiceUC.Create(ctx, f.supplierActor, f.supplier.ID, req.ID)
	require.NoError(t, err)

	err = f.env.requests.SetPickedQuantity(ctx, req.ID, req.Items[0].ID, 1000)
	assert.ErrorIs(t, err, ErrConflict)

	after, err := f.env.requestUC.Get(ctx, f.supplierActor, f.supplier.ID, req.ID)
	require.NoError(t, err)
	assert.Equal(t, inv.TotalCents, after.TotalCents)
}

func TestInvoiceUsesPickedQuantities(t *testing.T) {
	f := newTradeFixture(t)
	ctx := context.Background()
	req := f.send(t)

	_, err := f.env.invoiceUC.Create(ctx, f.supplierActor, f.supplier.ID, req.ID)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = f.env.requestUC.Accept(ctx, f.supplierActor, f.supplier.ID, req.ID)
	require.NoError(t, err)
	require.NoError(t, f.env.requests.SetPickedQuantity(ctx, req.ID, req.Items[0].ID, 4))

	_, err = f.env.invoiceUC.Create(ctx, f.buyerActor, f.buyer.ID, req.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	inv, err := f.env.invoiceUC.Create(ctx, f.supplierActor, f.supplier.ID, req.ID)
	require.NoError(t, err)
	require.Len(t, inv.Lines, 3)
	assert.Equal(t, 4.0, inv.Lines[0].Quantity)
	assert.Equal(t, int64(600), inv.Lines[0].AmountCents)
	assert.Equal(t, int64(760), inv.TotalCents)

	_, err = f.env.invoiceUC.Create(ctx, f.supplierActor, f.supplier.ID, req.ID)
	assert.ErrorIs(t, err, ErrConflict)

	got, err := f.env.invoiceUC.Get(ctx, f.buyerActor, f.buyer.ID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, inv.Number, got.Number)

	list, err := f.env.invoiceUC.List(ctx, f.buyerActor, f.buyer.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	otherActor, other := f.env.seedBusiness(t, "Other")
	_, err = f.env.invoiceUC.Get(ctx, otherActor, other.ID, inv.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBuildInvoiceLines(t *testing.T) {
	picked := 1.5
	lines, total := BuildInvoiceLines([]entities.RequestItem{
		{Name: "Sugar", Quantity: 2, Unit: "kg", UnitPriceCents: 333, PickedQuantity: &picked},
		{Name: "Salt", Quantity: 3, UnitPriceCents: 10},
	})
	require.Len(t, lines, 2)
	assert.Equal(t, int64(500), lines[0].AmountCents)
	assert.Equal(t, int64(30), lines[1].AmountCents)
	assert.Equal(t, int64(530), total)
}
