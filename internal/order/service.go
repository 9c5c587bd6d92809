package order

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bitmall/storefront/internal/domain"
	"github.com/bitmall/storefront/internal/pricing"
	"github.com/bitmall/storefront/internal/watch"
	"github.com/bitmall/storefront/pkg/common"
)

// UserLookup is the slice of the user repository the listing needs.
type UserLookup interface {
	GetByIDs(ctx context.Context, ids []int64) ([]domain.User, error)
}

// ProductLookup is the slice of the catalog the subtotal recompute needs.
type ProductLookup interface {
	GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error)
}

// View is one order hydrated for display. Subtotal is the raw goods value
// recomputed from the live catalog; the listing intentionally applies neither
// discount nor tax, so it can drift from the checkout-time total when catalog
// prices move.
type View struct {
	Order    domain.Order    `json:"order"`
	Customer *domain.User    `json:"customer,omitempty"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Service lists, hydrates and deletes order snapshots.
type Service struct {
	repo     Repository
	users    UserLookup
	products ProductLookup
	audit    AuditStore
	bus      *watch.Bus
}

func NewService(repo Repository, users UserLookup, products ProductLookup, audit AuditStore, bus *watch.Bus) *Service {
	return &Service{repo: repo, users: users, products: products, audit: audit, bus: bus}
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns hydrated order views, newest first. Customer profiles and
// catalog prices are fetched in two concurrent batch lookups.
func (s *Service) List(ctx context.Context, filter Filter, page, pageSize int) ([]View, int64, error) {
	orders, total, err := s.repo.List(ctx, filter, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	views, err := s.hydrate(ctx, orders)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// ListByUser returns the caller's own orders, newest first.
func (s *Service) ListByUser(ctx context.Context, userID int64, page, pageSize int) ([]View, int64, error) {
	return s.List(ctx, Filter{UserID: userID}, page, pageSize)
}

func (s *Service) hydrate(ctx context.Context, orders []domain.Order) ([]View, error) {
	userIDs := make([]int64, 0, len(orders))
	seenUsers := map[int64]bool{}
	productIDs := make([]string, 0)
	seenProducts := map[string]bool{}
	for _, o := range orders {
		if !seenUsers[o.UserID] {
			seenUsers[o.UserID] = true
			userIDs = append(userIDs, o.UserID)
		}
		for pid := range o.CartItems {
			if !seenProducts[pid] {
				seenProducts[pid] = true
				productIDs = append(productIDs, pid)
			}
		}
	}

	var (
		users    []domain.User
		products []domain.Product
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		users, err = s.users.GetByIDs(gctx, userIDs)
		return errors.Wrap(err, "hydrate users")
	})
	g.Go(func() (err error) {
		products, err = s.products.GetByIDs(gctx, productIDs)
		return errors.Wrap(err, "hydrate products")
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	userIdx := make(map[int64]*domain.User, len(users))
	for i := range users {
		userIdx[users[i].ID] = &users[i]
	}
	catalog := domain.ProductIndex(products)

	views := make([]View, 0, len(orders))
	for _, o := range orders {
		views = append(views, View{
			Order:    o,
			Customer: userIdx[o.UserID],
			Subtotal: pricing.Subtotal(o.CartItems, catalog),
		})
	}
	return views, nil
}

// Delete removes an order snapshot. The action is terminal; nothing restores
// related state. The operator is recorded in the audit log.
func (s *Service) Delete(ctx context.Context, id string, operator, operIP string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.audit != nil {
		if err := s.audit.Record(ctx, &domain.AuditLog{
			ID:       common.UUIDint64(),
			Operator: operator,
			OperIP:   operIP,
			Action:   "order_delete",
			Detail:   id,
			OperTime: time.Now(),
		}); err != nil {
			zap.L().Warn("audit record failed", zap.String("order_id", id), zap.Error(err))
		}
	}
	if s.bus != nil {
		s.bus.PublishDelete(watch.CollectionOrders, id)
	}
	zap.L().Info("order deleted", zap.String("order_id", id), zap.String("operator", operator))
	return nil
}
