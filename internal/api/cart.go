package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bitmall/storefront/internal/domain"
	"github.com/bitmall/storefront/internal/pricing"
	"github.com/bitmall/storefront/internal/webserver"
)

func (a *API) registerCartRoutes() {
	a.srv.ApiGET("/cart", a.getCart)
	a.srv.ApiPOST("/cart/:productId/increment", a.incrementCart)
	a.srv.ApiPOST("/cart/:productId/decrement", a.decrementCart)
	a.srv.ApiDELETE("/cart/:productId", a.removeFromCart)
}

// getCart returns the ledger with a fresh valuation. The valuation is
// re-derived on every call from the live catalog subset.
func (a *API) getCart(c echo.Context) error {
	userID := webserver.CurrentUserID(c)
	ctx := c.Request().Context()

	ledger, err := a.carts.Ledger(ctx, userID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load cart", err.Error())
	}
	return a.cartResponse(c, ledger)
}

func (a *API) incrementCart(c echo.Context) error {
	ledger, err := a.carts.Increment(c.Request().Context(), webserver.CurrentUserID(c), c.Param("productId"))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "CART_WRITE_FAILED", "Failed adding item to the cart", err.Error())
	}
	return a.cartResponse(c, ledger)
}

func (a *API) decrementCart(c echo.Context) error {
	ledger, err := a.carts.Decrement(c.Request().Context(), webserver.CurrentUserID(c), c.Param("productId"))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "CART_WRITE_FAILED", "Failed removing item from the cart", err.Error())
	}
	return a.cartResponse(c, ledger)
}

func (a *API) removeFromCart(c echo.Context) error {
	ledger, err := a.carts.RemoveAll(c.Request().Context(), webserver.CurrentUserID(c), c.Param("productId"))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "CART_WRITE_FAILED", "Failed removing item from the cart", err.Error())
	}
	return a.cartResponse(c, ledger)
}

func (a *API) cartResponse(c echo.Context, ledger domain.QuantityMap) error {
	products, err := a.catalog.GetMany(c.Request().Context(), ledger.ProductIDs())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load cart products", err.Error())
	}
	valuation := pricing.Compute(ledger, domain.ProductIndex(products))
	return ok(c, map[string]interface{}{
		"cart_items": ledger,
		"products":   products,
		"valuation":  valuation,
		"payable":    valuation.Payable(),
	})
}
