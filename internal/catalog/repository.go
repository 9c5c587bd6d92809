package catalog

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/bitmall/storefront/internal/domain"
	"github.com/bitmall/storefront/pkg/common"
)

var ErrNotFound = errors.New("product not found")

// Repository handles catalog product data access.
type Repository interface {
	// GetByID retrieves a single product
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// GetByIDs retrieves the subset of products whose identifiers appear in
	// ids. Unknown identifiers are simply absent from the result; callers
	// tolerate the gap.
	GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error)

	// List retrieves enabled products with optional category and search
	// filters, paginated.
	List(ctx context.Context, filter Filter, page, pageSize int) ([]domain.Product, int64, error)

	// Categories returns the distinct category tags in use.
	Categories(ctx context.Context) ([]string, error)

	// Save upserts a product record.
	Save(ctx context.Context, p *domain.Product) error

	// Delete removes a product record.
	Delete(ctx context.Context, id string) error
}

// Filter narrows a catalog listing.
type Filter struct {
	Category string
	Query    string
}

// GormRepository is the GORM implementation of Repository.
type GormRepository struct {
	DB *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{DB: db}
}

func (r *GormRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "get product")
	}
	return &p, nil
}

func (r *GormRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}
	var products []domain.Product
	err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error
	if err != nil {
		return nil, errors.Wrap(err, "batch get products")
	}
	return products, nil
}

func (r *GormRepository) List(ctx context.Context, filter Filter, page, pageSize int) ([]domain.Product, int64, error) {
	db := r.DB.WithContext(ctx).Model(&domain.Product{}).Where("status = ?", common.ENABLED)
	if filter.Category != "" {
		db = db.Where("category = ?", filter.Category)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		if strings.EqualFold(db.Name(), "postgres") { //nolint:staticcheck
			db = db.Where("title ILIKE ?", "%"+q+"%")
		} else {
			db = db.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(q)+"%")
		}
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count products")
	}

	var products []domain.Product
	if err := db.Order("title ASC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&products).Error; err != nil {
		return nil, 0, errors.Wrap(err, "list products")
	}
	return products, total, nil
}

func (r *GormRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.DB.WithContext(ctx).Model(&domain.Product{}).
		Where("status = ?", common.ENABLED).
		Distinct("category").Order("category ASC").Pluck("category", &categories).Error
	if err != nil {
		return nil, errors.Wrap(err, "list categories")
	}
	return categories, nil
}

func (r *GormRepository) Save(ctx context.Context, p *domain.Product) error {
	return errors.Wrap(r.DB.WithContext(ctx).Save(p).Error, "save product")
}

func (r *GormRepository) Delete(ctx context.Context, id string) error {
	return errors.Wrap(r.DB.WithContext(ctx).Where("id = ?", id).Delete(&domain.Product{}).Error, "delete product")
}
