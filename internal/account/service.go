package account

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/bitmall/storefront/internal/domain"
	"github.com/bitmall/storefront/internal/watch"
)

// ProductLookup is the slice of the catalog the favorites view needs.
type ProductLookup interface {
	GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error)
}

// ProfileUpdate carries the editable profile fields. Screens update them
// piecemeal; empty strings leave a field untouched.
type ProfileUpdate struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Service handles profile reads, piecemeal profile updates and the favorites
// map.
type Service struct {
	repo     Repository
	products ProductLookup
	bus      *watch.Bus
}

func NewService(repo Repository, products ProductLookup, bus *watch.Bus) *Service {
	return &Service{repo: repo, products: products, bus: bus}
}

func (s *Service) Get(ctx context.Context, userID int64) (*domain.User, error) {
	return s.repo.GetByID(ctx, userID)
}

// UpdateProfile writes only the submitted fields back.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, in ProfileUpdate) (*domain.User, error) {
	fields := map[string]interface{}{}
	if v := strings.TrimSpace(in.Name); v != "" {
		fields["name"] = v
	}
	if v := strings.TrimSpace(in.Phone); v != "" {
		fields["phone"] = v
	}
	if v := strings.TrimSpace(in.Address); v != "" {
		fields["address"] = v
	}
	if len(fields) > 0 {
		if err := s.repo.UpdateFields(ctx, userID, fields); err != nil {
			return nil, err
		}
	}
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.publish(user)
	return user, nil
}

// ToggleFavorite flips the favorite flag for a product. A cleared favorite is
// removed from the map, not stored as false.
func (s *Service) ToggleFavorite(ctx context.Context, userID int64, productID string) (domain.FlagMap, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	favorites := domain.FlagMap{}
	for k, v := range user.FavoriteItems {
		favorites[k] = v
	}
	if favorites[productID] {
		delete(favorites, productID)
	} else {
		favorites[productID] = true
	}
	if err := s.repo.UpdateFields(ctx, userID, map[string]interface{}{"favorite_items": favorites}); err != nil {
		return nil, err
	}
	user.FavoriteItems = favorites
	s.publish(user)
	return favorites, nil
}

// FavoriteProducts resolves the flagged identifiers against the catalog.
// Identifiers with no catalog record are dropped from the view.
func (s *Service) FavoriteProducts(ctx context.Context, userID int64) ([]domain.Product, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := user.FavoriteItems.ActiveIDs()
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}
	products, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "load favorite products")
	}
	return products, nil
}

func (s *Service) publish(user *domain.User) {
	if s.bus != nil {
		s.bus.Publish(watch.CollectionUsers, domain.UserKey(user.ID), user)
	}
}
