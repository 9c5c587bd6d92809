// Package api exposes the storefront REST surface over the web server's
// route tiers: public (auth, catalog browse), authenticated (cart, checkout,
// own orders, profile, favorites) and staff (catalog CRUD, all orders,
// exports, system status).
package api

import (
	"github.com/bitmall/storefront/internal/account"
	"github.com/bitmall/storefront/internal/auth"
	"github.com/bitmall/storefront/internal/cart"
	"github.com/bitmall/storefront/internal/catalog"
	"github.com/bitmall/storefront/internal/checkout"
	"github.com/bitmall/storefront/internal/order"
	"github.com/bitmall/storefront/internal/watch"
	"github.com/bitmall/storefront/internal/webserver"
)

type API struct {
	srv      *webserver.WebServer
	auth     *auth.Service
	catalog  *catalog.Service
	carts    *cart.Service
	checkout *checkout.Service
	orders   *order.Service
	accounts *account.Service
	bus      *watch.Bus
	settings SettingsStore
}

func New(
	srv *webserver.WebServer,
	authsvc *auth.Service,
	catalogsvc *catalog.Service,
	cartsvc *cart.Service,
	checkoutsvc *checkout.Service,
	ordersvc *order.Service,
	accountsvc *account.Service,
	bus *watch.Bus,
) *API {
	return &API{
		srv:      srv,
		auth:     authsvc,
		catalog:  catalogsvc,
		carts:    cartsvc,
		checkout: checkoutsvc,
		orders:   ordersvc,
		accounts: accountsvc,
		bus:      bus,
	}
}

// Register wires every route group.
func (a *API) Register() {
	a.registerAuthRoutes()
	a.registerProductRoutes()
	a.registerCartRoutes()
	a.registerCheckoutRoutes()
	a.registerOrderRoutes()
	a.registerAccountRoutes()
	a.registerBannerRoutes()
	a.registerWatchRoutes()
	a.registerStatusRoutes()
}
