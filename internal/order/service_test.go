package order

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmall/storefront/internal/domain"
)

type fakeRepository struct {
	orders []domain.Order
}

func (f *fakeRepository) Create(_ context.Context, order *domain.Order) error {
	f.orders = append(f.orders, *order)
	return nil
}

func (f *fakeRepository) GetByID(_ context.Context, id string) (*domain.Order, error) {
	for i := range f.orders {
		if f.orders[i].ID == id {
			return &f.orders[i], nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRepository) List(_ context.Context, filter Filter, _, _ int) ([]domain.Order, int64, error) {
	var out []domain.Order
	for _, o := range f.orders {
		if filter.UserID != 0 && o.UserID != filter.UserID {
			continue
		}
		out = append(out, o)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepository) Delete(_ context.Context, id string) error {
	kept := f.orders[:0]
	for _, o := range f.orders {
		if o.ID != id {
			kept = append(kept, o)
		}
	}
	f.orders = kept
	return nil
}

type fakeUserLookup struct {
	users []domain.User
}

func (f *fakeUserLookup) GetByIDs(_ context.Context, ids []int64) ([]domain.User, error) {
	var out []domain.User
	for _, u := range f.users {
		for _, id := range ids {
			if u.ID == id {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

type fakeProductLookup struct {
	catalog map[string]domain.Product
}

func (f *fakeProductLookup) GetByIDs(_ context.Context, ids []string) ([]domain.Product, error) {
	var out []domain.Product
	for _, id := range ids {
		if p, ok := f.catalog[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeAudit struct {
	entries []domain.AuditLog
}

func (f *fakeAudit) Record(_ context.Context, entry *domain.AuditLog) error {
	f.entries = append(f.entries, *entry)
	return nil
}

func serviceFixture() (*Service, *fakeRepository, *fakeAudit) {
	repo := &fakeRepository{orders: []domain.Order{
		{
			ID:        "ord-1",
			UserID:    7,
			CartItems: domain.QuantityMap{"p1": 2, "p2": 1},
			Timestamp: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:        "ord-2",
			UserID:    8,
			CartItems: domain.QuantityMap{"p1": 1, "gone": 4},
			Timestamp: time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC),
		},
	}}
	users := &fakeUserLookup{users: []domain.User{
		{ID: 7, Name: "Ada", Email: "ada@example.com"},
		{ID: 8, Name: "Lin", Email: "lin@example.com"},
	}}
	products := &fakeProductLookup{catalog: map[string]domain.Product{
		"p1": {ID: "p1", ActualPrice: decimal.NewFromInt(100)},
		"p2": {ID: "p2", ActualPrice: decimal.NewFromInt(50)},
	}}
	audit := &fakeAudit{}
	return NewService(repo, users, products, audit, nil), repo, audit
}

func TestListHydratesCustomerAndSubtotal(t *testing.T) {
	svc, _, _ := serviceFixture()

	views, total, err := svc.List(context.Background(), Filter{}, 1, 40)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, views, 2)

	require.NotNil(t, views[0].Customer)
	assert.Equal(t, "Ada", views[0].Customer.Name)
	// raw goods value: 2x100 + 1x50, no discount, no tax
	assert.Equal(t, "250", views[0].Subtotal.String())
}

func TestListSkipsVanishedProductsInSubtotal(t *testing.T) {
	svc, _, _ := serviceFixture()

	views, _, err := svc.List(context.Background(), Filter{UserID: 8}, 1, 40)
	require.NoError(t, err)
	require.Len(t, views, 1)

	// "gone" is absent from the catalog and simply contributes nothing
	assert.Equal(t, "100", views[0].Subtotal.String())
}

func TestListByUserFiltersOwnership(t *testing.T) {
	svc, _, _ := serviceFixture()

	views, total, err := svc.ListByUser(context.Background(), 7, 1, 40)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, views, 1)
	assert.Equal(t, "ord-1", views[0].Order.ID)
}

func TestDeleteRecordsAudit(t *testing.T) {
	svc, repo, audit := serviceFixture()

	err := svc.Delete(context.Background(), "ord-1", "admin@storefront.local", "10.0.0.1")
	require.NoError(t, err)

	_, err = repo.GetByID(context.Background(), "ord-1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.Len(t, audit.entries, 1)
	assert.Equal(t, "order_delete", audit.entries[0].Action)
	assert.Equal(t, "ord-1", audit.entries[0].Detail)
	assert.Equal(t, "admin@storefront.local", audit.entries[0].Operator)
}

func TestDeleteMissingOrder(t *testing.T) {
	svc, _, audit := serviceFixture()

	err := svc.Delete(context.Background(), "no-such", "admin@storefront.local", "10.0.0.1")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, audit.entries)
}
