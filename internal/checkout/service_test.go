package checkout

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmall/storefront/internal/domain"
	"github.com/bitmall/storefront/internal/pricing"
)

type fakeOrderStore struct {
	orders    []*domain.Order
	createErr error
}

func (f *fakeOrderStore) Create(_ context.Context, order *domain.Order) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.orders = append(f.orders, order)
	return nil
}

// fakeCart mimics the ledger read/clear contract of the cart service.
type fakeCart struct {
	ledger   domain.QuantityMap
	clearErr error
}

func (f *fakeCart) Ledger(_ context.Context, _ int64) (domain.QuantityMap, error) {
	return f.ledger.Copy(), nil
}

func (f *fakeCart) Clear(_ context.Context, _ int64) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	f.ledger = domain.QuantityMap{}
	return nil
}

type fakeProducts struct {
	catalog map[string]domain.Product
}

func (f *fakeProducts) GetByIDs(_ context.Context, ids []string) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := f.catalog[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeUsers struct {
	user *domain.User
}

func (f *fakeUsers) GetByID(_ context.Context, _ int64) (*domain.User, error) {
	return f.user, nil
}

type recordingNotifier struct {
	sent chan pricing.Valuation
}

func (r *recordingNotifier) OrderConfirmation(_ *domain.User, _ *domain.Order, v pricing.Valuation) error {
	r.sent <- v
	return nil
}

func catalogFixture() map[string]domain.Product {
	return map[string]domain.Product{
		"p1": {ID: "p1", Title: "Desk", ActualPrice: decimal.NewFromInt(100)},
		"p2": {ID: "p2", Title: "Lamp", ActualPrice: decimal.NewFromInt(50)},
	}
}

func TestPlaceOrderNoIdentity(t *testing.T) {
	store := &fakeOrderStore{}
	svc := NewService(store, &fakeCart{}, &fakeProducts{}, &fakeUsers{})

	_, err := svc.PlaceOrder(context.Background(), 0)
	require.ErrorIs(t, err, ErrNoIdentity)
	assert.Empty(t, store.orders)
}

func TestPlaceOrderEmptyCartRejected(t *testing.T) {
	store := &fakeOrderStore{}
	svc := NewService(store, &fakeCart{ledger: domain.QuantityMap{}}, &fakeProducts{}, &fakeUsers{})

	_, err := svc.PlaceOrder(context.Background(), 7)
	require.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, store.orders, "rejection must not write an order snapshot")
}

func TestPlaceOrderSnapshotThenClear(t *testing.T) {
	store := &fakeOrderStore{}
	cart := &fakeCart{ledger: domain.QuantityMap{"p1": 2, "p2": 1}}
	svc := NewService(store, cart, &fakeProducts{catalog: catalogFixture()}, &fakeUsers{})

	order, err := svc.PlaceOrder(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.NotEmpty(t, order.ID)
	assert.Equal(t, int64(7), order.UserID)
	assert.Equal(t, domain.QuantityMap{"p1": 2, "p2": 1}, order.CartItems)
	require.Len(t, store.orders, 1)

	// ledger reads back empty after a successful checkout
	ledger, err := cart.Ledger(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, ledger)
}

func TestPlaceOrderSnapshotIndependentOfLedger(t *testing.T) {
	store := &fakeOrderStore{}
	cart := &fakeCart{ledger: domain.QuantityMap{"p1": 2}}
	svc := NewService(store, cart, &fakeProducts{catalog: catalogFixture()}, &fakeUsers{})

	order, err := svc.PlaceOrder(context.Background(), 7)
	require.NoError(t, err)

	cart.ledger["p1"] = 42
	assert.Equal(t, int64(2), order.CartItems["p1"])
}

func TestPlaceOrderClearFailureKeepsOrder(t *testing.T) {
	store := &fakeOrderStore{}
	cart := &fakeCart{
		ledger:   domain.QuantityMap{"p1": 1},
		clearErr: errors.New("store unavailable"),
	}
	svc := NewService(store, cart, &fakeProducts{catalog: catalogFixture()}, &fakeUsers{})

	order, err := svc.PlaceOrder(context.Background(), 7)
	require.ErrorIs(t, err, ErrCartClearFailed)
	require.NotNil(t, order, "the persisted order is returned alongside the error")
	require.Len(t, store.orders, 1)
	assert.Equal(t, order.ID, store.orders[0].ID)

	// the ledger still holds its items
	assert.Equal(t, int64(1), cart.ledger["p1"])
}

func TestPlaceOrderCreateFailureClearsNothing(t *testing.T) {
	cart := &fakeCart{ledger: domain.QuantityMap{"p1": 1}}
	store := &fakeOrderStore{createErr: errors.New("write refused")}
	svc := NewService(store, cart, &fakeProducts{catalog: catalogFixture()}, &fakeUsers{})

	_, err := svc.PlaceOrder(context.Background(), 7)
	require.Error(t, err)
	assert.Equal(t, int64(1), cart.ledger["p1"], "a failed snapshot leaves the cart intact")
}

func TestPlaceOrderDispatchesConfirmation(t *testing.T) {
	notifier := &recordingNotifier{sent: make(chan pricing.Valuation, 1)}
	store := &fakeOrderStore{}
	cart := &fakeCart{ledger: domain.QuantityMap{"p1": 2, "p2": 1}}
	svc := NewService(store, cart, &fakeProducts{catalog: catalogFixture()},
		&fakeUsers{user: &domain.User{ID: 7, Email: "a@b.c"}}).
		WithNotifier(notifier, nil)

	_, err := svc.PlaceOrder(context.Background(), 7)
	require.NoError(t, err)

	v := <-notifier.sent
	assert.Equal(t, "250", v.Subtotal.String())
	assert.Equal(t, "257.5", v.Total.String())
}

func TestPreview(t *testing.T) {
	cart := &fakeCart{ledger: domain.QuantityMap{"p1": 2, "p2": 1}}
	svc := NewService(&fakeOrderStore{}, cart, &fakeProducts{catalog: catalogFixture()}, &fakeUsers{})

	v, err := svc.Preview(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "250", v.Subtotal.String())

	// previewing never mutates the ledger
	assert.Equal(t, int64(2), cart.ledger["p1"])
}
