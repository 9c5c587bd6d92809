package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bitmall/storefront/internal/account"
	"github.com/bitmall/storefront/internal/webserver"
)

func (a *API) registerAccountRoutes() {
	a.srv.ApiGET("/profile", a.getProfile)
	a.srv.ApiPUT("/profile", a.updateProfile)
	a.srv.ApiGET("/favorites", a.listFavorites)
	a.srv.ApiPUT("/favorites/:productId", a.toggleFavorite)
}

func (a *API) getProfile(c echo.Context) error {
	user, err := a.accounts.Get(c.Request().Context(), webserver.CurrentUserID(c))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load profile", err.Error())
	}
	return ok(c, user)
}

func (a *API) updateProfile(c echo.Context) error {
	var payload account.ProfileUpdate
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse profile update", err.Error())
	}
	user, err := a.accounts.UpdateProfile(c.Request().Context(), webserver.CurrentUserID(c), payload)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to update profile", err.Error())
	}
	return ok(c, user)
}

func (a *API) listFavorites(c echo.Context) error {
	products, err := a.accounts.FavoriteProducts(c.Request().Context(), webserver.CurrentUserID(c))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load favorites", err.Error())
	}
	return ok(c, products)
}

func (a *API) toggleFavorite(c echo.Context) error {
	favorites, err := a.accounts.ToggleFavorite(c.Request().Context(), webserver.CurrentUserID(c), c.Param("productId"))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to update favorites", err.Error())
	}
	return ok(c, map[string]interface{}{"favorite_items": favorites})
}
