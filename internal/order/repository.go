package order

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/bitmall/storefront/internal/domain"
)

var ErrNotFound = errors.New("order not found")

// Filter narrows an order listing.
type Filter struct {
	UserID int64
	From   time.Time
	To     time.Time
}

// Repository handles order snapshot data access. Orders are written once and
// never updated; deletion is terminal.
type Repository interface {
	// Create inserts a new order snapshot
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order snapshot
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// List retrieves orders, newest first, paginated
	List(ctx context.Context, filter Filter, page, pageSize int) ([]domain.Order, int64, error)

	// Delete removes an order snapshot
	Delete(ctx context.Context, id string) error
}

// AuditStore records privileged actions.
type AuditStore interface {
	Record(ctx context.Context, entry *domain.AuditLog) error
}

// GormRepository is the GORM implementation of Repository.
type GormRepository struct {
	DB *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{DB: db}
}

func (r *GormRepository) Create(ctx context.Context, order *domain.Order) error {
	return errors.Wrap(r.DB.WithContext(ctx).Create(order).Error, "create order")
}

func (r *GormRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "get order")
	}
	return &o, nil
}

func (r *GormRepository) List(ctx context.Context, filter Filter, page, pageSize int) ([]domain.Order, int64, error) {
	db := r.DB.WithContext(ctx).Model(&domain.Order{})
	if filter.UserID != 0 {
		db = db.Where("user_id = ?", filter.UserID)
	}
	if !filter.From.IsZero() {
		db = db.Where("timestamp >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		db = db.Where("timestamp <= ?", filter.To)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count orders")
	}

	var orders []domain.Order
	if err := db.Order("timestamp DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&orders).Error; err != nil {
		return nil, 0, errors.Wrap(err, "list orders")
	}
	return orders, total, nil
}

func (r *GormRepository) Delete(ctx context.Context, id string) error {
	return errors.Wrap(r.DB.WithContext(ctx).Where("id = ?", id).Delete(&domain.Order{}).Error, "delete order")
}

// GormAuditStore writes audit entries through GORM.
type GormAuditStore struct {
	DB *gorm.DB
}

func NewGormAuditStore(db *gorm.DB) *GormAuditStore {
	return &GormAuditStore{DB: db}
}

func (s *GormAuditStore) Record(ctx context.Context, entry *domain.AuditLog) error {
	if entry.OperTime.IsZero() {
		entry.OperTime = time.Now()
	}
	return errors.Wrap(s.DB.WithContext(ctx).Create(entry).Error, "record audit entry")
}
