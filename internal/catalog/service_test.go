package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmall/storefront/internal/domain"
)

type fakeRepository struct {
	products map[string]*domain.Product
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{products: map[string]*domain.Product{}}
}

func (f *fakeRepository) GetByID(_ context.Context, id string) (*domain.Product, error) {
	if p, ok := f.products[id]; ok {
		return p, nil
	}
	return nil, ErrNotFound
}

func (f *fakeRepository) GetByIDs(_ context.Context, ids []string) ([]domain.Product, error) {
	var out []domain.Product
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeRepository) List(_ context.Context, filter Filter, _, _ int) ([]domain.Product, int64, error) {
	var out []domain.Product
	for _, p := range f.products {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepository) Categories(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, p := range f.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out, nil
}

func (f *fakeRepository) Save(_ context.Context, p *domain.Product) error {
	f.products[p.ID] = p
	return nil
}

func (f *fakeRepository) Delete(_ context.Context, id string) error {
	delete(f.products, id)
	return nil
}

func TestIngestParsesPrices(t *testing.T) {
	svc := NewService(newFakeRepository())

	p, err := svc.Ingest(context.Background(), ProductInput{
		ID:          "p1",
		Title:       "Desk",
		Category:    "furniture",
		Price:       "129.999",
		ActualPrice: "99.90",
	})
	require.NoError(t, err)

	assert.Equal(t, "130", p.Price.String())
	assert.Equal(t, "99.9", p.ActualPrice.String())
}

func TestIngestRejectsMalformedPrice(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	cases := []ProductInput{
		{ID: "p1", Title: "Desk", Price: "abc", ActualPrice: "10"},
		{ID: "p1", Title: "Desk", Price: "10", ActualPrice: ""},
		{ID: "p1", Title: "Desk", Price: "-5", ActualPrice: "10"},
	}
	for _, in := range cases {
		_, err := svc.Ingest(context.Background(), in)
		require.Error(t, err)
	}
	assert.Empty(t, repo.products, "a rejected product never reaches the catalog")
}

func TestIngestRequiresIDAndTitle(t *testing.T) {
	svc := NewService(newFakeRepository())

	_, err := svc.Ingest(context.Background(), ProductInput{Title: "Desk", Price: "1", ActualPrice: "1"})
	require.Error(t, err)

	_, err = svc.Ingest(context.Background(), ProductInput{ID: "p1", Price: "1", ActualPrice: "1"})
	require.Error(t, err)
}

func TestImportCSVCountsRejectedRows(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	feed := strings.Join([]string{
		"id,title,description,category,price,actual_price,images",
		"p1,Desk,solid oak,furniture,129.99,99.90,a.jpg|b.jpg",
		"p2,Lamp,,lighting,broken,10.00,",
		"p3,Chair,,furniture,59.99,49.99,c.jpg",
	}, "\n")

	imported, rejected, err := svc.ImportCSV(context.Background(), strings.NewReader(feed))
	require.NoError(t, err)

	assert.Equal(t, 2, imported)
	assert.Equal(t, 1, rejected)

	p, err := repo.GetByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, domain.StringList{"a.jpg", "b.jpg"}, p.Images)

	_, err = repo.GetByID(context.Background(), "p2")
	assert.ErrorIs(t, err, ErrNotFound)
}
