package catalog

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/bitmall/storefront/internal/domain"
	"github.com/bitmall/storefront/pkg/common"
)

// ProductInput carries a product as submitted by staff or an import feed.
// Prices arrive string-encoded and are parsed strictly here; malformed input
// never reaches the catalog.
type ProductInput struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Price       string   `json:"price"`
	ActualPrice string   `json:"actual_price"`
	Images      []string `json:"images"`
}

// Service validates and ingests catalog products.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetMany(ctx context.Context, ids []string) ([]domain.Product, error) {
	return s.repo.GetByIDs(ctx, ids)
}

func (s *Service) List(ctx context.Context, filter Filter, page, pageSize int) ([]domain.Product, int64, error) {
	return s.repo.List(ctx, filter, page, pageSize)
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

// Ingest validates the input and upserts the product.
func (s *Service) Ingest(ctx context.Context, in ProductInput) (*domain.Product, error) {
	p, err := buildProduct(in)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// csvProduct is one row of a catalog import feed.
type csvProduct struct {
	ID          string `csv:"id"`
	Title       string `csv:"title"`
	Description string `csv:"description"`
	Category    string `csv:"category"`
	Price       string `csv:"price"`
	ActualPrice string `csv:"actual_price"`
	Images      string `csv:"images"` // pipe-separated
}

// ImportCSV ingests a catalog feed. Rows that fail validation are counted and
// logged, not fatal; the feed source owns the data quality.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader) (imported, rejected int, err error) {
	var rows []csvProduct
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return 0, 0, errors.Wrap(err, "parse catalog feed")
	}
	for _, row := range rows {
		in := ProductInput{
			ID:          row.ID,
			Title:       row.Title,
			Description: row.Description,
			Category:    row.Category,
			Price:       row.Price,
			ActualPrice: row.ActualPrice,
		}
		if row.Images != "" {
			in.Images = strings.Split(row.Images, "|")
		}
		if _, err := s.Ingest(ctx, in); err != nil {
			rejected++
			zap.L().Warn("catalog feed row rejected",
				zap.String("product_id", row.ID), zap.Error(err))
			continue
		}
		imported++
	}
	return imported, rejected, nil
}

func buildProduct(in ProductInput) (*domain.Product, error) {
	in.ID = strings.TrimSpace(in.ID)
	in.Title = strings.TrimSpace(in.Title)
	if in.ID == "" {
		return nil, errors.New("product id is required")
	}
	if in.Title == "" {
		return nil, errors.New("product title is required")
	}
	price, err := parsePrice(in.Price)
	if err != nil {
		return nil, errors.Wrap(err, "list price")
	}
	actual, err := parsePrice(in.ActualPrice)
	if err != nil {
		return nil, errors.Wrap(err, "actual price")
	}
	now := time.Now()
	return &domain.Product{
		ID:          in.ID,
		Title:       in.Title,
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		Price:       price,
		ActualPrice: actual,
		Images:      in.Images,
		Status:      common.ENABLED,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func parsePrice(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, errors.New("price is required")
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "malformed price %q", raw)
	}
	if d.IsNegative() {
		return decimal.Zero, errors.Errorf("negative price %q", raw)
	}
	return d.Round(2), nil
}
