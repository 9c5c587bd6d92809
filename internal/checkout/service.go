// Package checkout freezes a cart ledger into an immutable order snapshot.
// The snapshot write and the cart-clear write are two independent store
// calls with no cross-operation transaction; the failure window between them
// is acknowledged, logged and surfaced, not repaired.
package checkout

import (
	"context"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bitmall/storefront/internal/domain"
	"github.com/bitmall/storefront/internal/pricing"
	"github.com/bitmall/storefront/internal/watch"
	"github.com/bitmall/storefront/pkg/common"
	"github.com/bitmall/storefront/pkg/metrics"
)

var (
	// ErrNoIdentity rejects checkout without an authenticated user.
	ErrNoIdentity = errors.New("no authenticated identity")
	// ErrEmptyCart rejects checkout on an empty ledger.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrCartClearFailed reports the order was written but the ledger clear
	// failed; the order stands and the ledger still holds its items.
	ErrCartClearFailed = errors.New("order placed but cart clear failed")
)

// OrderStore persists order snapshots.
type OrderStore interface {
	Create(ctx context.Context, order *domain.Order) error
}

// CartAccess reads and clears the cart ledger.
type CartAccess interface {
	Ledger(ctx context.Context, userID int64) (domain.QuantityMap, error)
	Clear(ctx context.Context, userID int64) error
}

// ProductLookup resolves the catalog subset referenced by a ledger.
type ProductLookup interface {
	GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error)
}

// UserLookup resolves the owning user for the confirmation notice.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// Notifier delivers the order confirmation. Delivery failures are logged
// only; they never affect the checkout outcome.
type Notifier interface {
	OrderConfirmation(user *domain.User, order *domain.Order, valuation pricing.Valuation) error
}

// Service runs the checkout flow.
type Service struct {
	orders   OrderStore
	carts    CartAccess
	products ProductLookup
	users    UserLookup
	notifier Notifier
	pool     *ants.Pool
	bus      *watch.Bus
}

func NewService(orders OrderStore, carts CartAccess, products ProductLookup, users UserLookup) *Service {
	return &Service{orders: orders, carts: carts, products: products, users: users}
}

// WithNotifier enables the confirmation notice, dispatched on pool.
func (s *Service) WithNotifier(n Notifier, pool *ants.Pool) *Service {
	s.notifier = n
	s.pool = pool
	return s
}

// WithBus enables change events for written orders and cleared carts.
func (s *Service) WithBus(bus *watch.Bus) *Service {
	s.bus = bus
	return s
}

// Preview values the current ledger without placing an order.
func (s *Service) Preview(ctx context.Context, userID int64) (pricing.Valuation, error) {
	if userID == 0 {
		return pricing.Valuation{}, ErrNoIdentity
	}
	ledger, err := s.carts.Ledger(ctx, userID)
	if err != nil {
		return pricing.Valuation{}, err
	}
	catalog, err := s.catalogFor(ctx, ledger)
	if err != nil {
		return pricing.Valuation{}, err
	}
	return pricing.Compute(ledger, catalog), nil
}

// PlaceOrder freezes the ledger into a new order snapshot, then clears the
// ledger. A failed clear returns ErrCartClearFailed with the order already
// persisted.
func (s *Service) PlaceOrder(ctx context.Context, userID int64) (*domain.Order, error) {
	if userID == 0 {
		return nil, ErrNoIdentity
	}
	ledger, err := s.carts.Ledger(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ledger) == 0 {
		return nil, ErrEmptyCart
	}

	order := &domain.Order{
		ID:        common.UUID(),
		UserID:    userID,
		CartItems: ledger.Copy(),
		Timestamp: time.Now(),
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, errors.Wrap(err, "write order snapshot")
	}
	metrics.IncrCounter("orders_placed", 1)
	if s.bus != nil {
		s.bus.Publish(watch.CollectionOrders, order.ID, order)
	}

	s.dispatchConfirmation(ctx, userID, order)

	if err := s.carts.Clear(ctx, userID); err != nil {
		zap.L().Error("cart clear failed after order write; ledger left non-empty",
			zap.String("order_id", order.ID),
			zap.Int64("user_id", userID),
			zap.Error(err))
		return order, ErrCartClearFailed
	}
	return order, nil
}

func (s *Service) catalogFor(ctx context.Context, ledger domain.QuantityMap) (map[string]domain.Product, error) {
	products, err := s.products.GetByIDs(ctx, ledger.ProductIDs())
	if err != nil {
		return nil, errors.Wrap(err, "load cart catalog subset")
	}
	return domain.ProductIndex(products), nil
}

func (s *Service) dispatchConfirmation(ctx context.Context, userID int64, order *domain.Order) {
	if s.notifier == nil {
		return
	}
	catalog, err := s.catalogFor(ctx, order.CartItems)
	if err != nil {
		zap.L().Warn("confirmation pricing lookup failed", zap.Error(err))
		return
	}
	valuation := pricing.Compute(order.CartItems, catalog)

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		zap.L().Warn("confirmation user lookup failed", zap.Error(err))
		return
	}

	send := func() {
		if err := s.notifier.OrderConfirmation(user, order, valuation); err != nil {
			zap.L().Warn("order confirmation delivery failed",
				zap.String("order_id", order.ID), zap.Error(err))
		}
	}
	if s.pool != nil {
		if err := s.pool.Submit(send); err != nil {
			zap.L().Warn("confirmation dispatch rejected", zap.Error(err))
		}
		return
	}
	go send()
}
