package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/bitmall/storefront/internal/checkout"
	"github.com/bitmall/storefront/internal/webserver"
)

func (a *API) registerCheckoutRoutes() {
	a.srv.ApiGET("/checkout", a.previewCheckout)
	a.srv.ApiPOST("/checkout", a.placeOrder)
}

func (a *API) previewCheckout(c echo.Context) error {
	valuation, err := a.checkout.Preview(c.Request().Context(), webserver.CurrentUserID(c))
	switch {
	case errors.Is(err, checkout.ErrNoIdentity):
		return fail(c, http.StatusUnauthorized, "NO_IDENTITY", "Sign in to value the cart", nil)
	case err != nil:
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to value the cart", err.Error())
	}
	return ok(c, map[string]interface{}{
		"valuation": valuation,
		"payable":   valuation.Payable(),
	})
}

func (a *API) placeOrder(c echo.Context) error {
	order, err := a.checkout.PlaceOrder(c.Request().Context(), webserver.CurrentUserID(c))
	switch {
	case errors.Is(err, checkout.ErrNoIdentity):
		return fail(c, http.StatusUnauthorized, "NO_IDENTITY", "Sign in to place an order", nil)
	case errors.Is(err, checkout.ErrEmptyCart):
		return fail(c, http.StatusBadRequest, "EMPTY_CART", "Cart is empty", nil)
	case errors.Is(err, checkout.ErrCartClearFailed):
		// The order stands; only the ledger clear failed. The client is told
		// so it can refresh the cart rather than retry the checkout.
		return ok(c, map[string]interface{}{"order": order, "cart_cleared": false})
	case err != nil:
		return fail(c, http.StatusInternalServerError, "CHECKOUT_FAILED", "Failed to place order", err.Error())
	}
	return ok(c, map[string]interface{}{"order": order, "cart_cleared": true})
}
