package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/bitmall/storefront/internal/catalog"
)

type batchLookupPayload struct {
	IDs []string `json:"ids" validate:"required,min=1"`
}

func (a *API) registerProductRoutes() {
	a.srv.PubGET("/products", a.listProducts)
	a.srv.PubGET("/products/categories", a.listCategories)
	a.srv.PubGET("/products/:id", a.getProduct)
	a.srv.PubPOST("/products/batch", a.batchProducts)

	a.srv.StaffPOST("/products", a.upsertProduct)
	a.srv.StaffPUT("/products/:id", a.upsertProduct)
	a.srv.StaffDELETE("/products/:id", a.deleteProduct)
	a.srv.StaffPOST("/products/import", a.importProducts)
}

func (a *API) listProducts(c echo.Context) error {
	page, pageSize := parsePagination(c)
	filter := catalog.Filter{
		Category: strings.TrimSpace(c.QueryParam("category")),
		Query:    strings.TrimSpace(c.QueryParam("q")),
	}
	rows, total, err := a.catalog.List(c.Request().Context(), filter, page, pageSize)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}

func (a *API) listCategories(c echo.Context) error {
	categories, err := a.catalog.Categories(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query categories", err.Error())
	}
	return ok(c, categories)
}

func (a *API) getProduct(c echo.Context) error {
	p, err := a.catalog.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
		}
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}
	return ok(c, p)
}

// batchProducts resolves a set of product identifiers. Unknown identifiers
// are silently absent from the result.
func (a *API) batchProducts(c echo.Context) error {
	var payload batchLookupPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse lookup request", err.Error())
	}
	products, err := a.catalog.GetMany(c.Request().Context(), payload.IDs)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}
	return ok(c, products)
}

func (a *API) upsertProduct(c echo.Context) error {
	var payload catalog.ProductInput
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if id := c.Param("id"); id != "" {
		payload.ID = id
	}
	p, err := a.catalog.Ingest(c.Request().Context(), payload)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_PRODUCT", err.Error(), nil)
	}
	return ok(c, p)
}

func (a *API) deleteProduct(c echo.Context) error {
	id := c.Param("id")
	if err := a.catalog.Delete(c.Request().Context(), id); err != nil {
		return fail(c, http.StatusInternalServerError, "DELETE_FAILED", "Failed to delete product", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}

// importProducts ingests a CSV catalog feed uploaded as the request body.
func (a *API) importProducts(c echo.Context) error {
	imported, rejected, err := a.catalog.ImportCSV(c.Request().Context(), c.Request().Body)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_FEED", "Unable to parse catalog feed", err.Error())
	}
	return ok(c, map[string]interface{}{"imported": imported, "rejected": rejected})
}
