package account

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/bitmall/storefront/internal/domain"
)

var ErrNotFound = errors.New("user not found")

// Repository handles user document access. Map-valued fields (cart ledger,
// favorites) are written back whole via partial-field updates; there is
// deliberately no optimistic concurrency check, so concurrent writers race
// last-write-wins exactly as the store contract states.
type Repository interface {
	// GetByID retrieves a user record
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByEmail retrieves a user record by login email
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByIDs retrieves the users whose identifiers appear in ids
	GetByIDs(ctx context.Context, ids []int64) ([]domain.User, error)

	// Create inserts a new user record
	Create(ctx context.Context, user *domain.User) error

	// UpdateFields issues a partial update of the given columns
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
}

// GormRepository is the GORM implementation of Repository.
type GormRepository struct {
	DB *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{DB: db}
}

func (r *GormRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "get user")
	}
	return &user, nil
}

func (r *GormRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "get user by email")
	}
	return &user, nil
}

func (r *GormRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.User, error) {
	if len(ids) == 0 {
		return []domain.User{}, nil
	}
	var users []domain.User
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "batch get users")
	}
	return users, nil
}

func (r *GormRepository) Create(ctx context.Context, user *domain.User) error {
	return errors.Wrap(r.DB.WithContext(ctx).Create(user).Error, "create user")
}

func (r *GormRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	return errors.Wrap(
		r.DB.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(fields).Error,
		"update user fields")
}
