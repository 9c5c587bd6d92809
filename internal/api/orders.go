package api

import (
	"net/http"
	"strings"

	"github.com/araddon/dateparse"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/bitmall/storefront/internal/order"
	"github.com/bitmall/storefront/internal/webserver"
)

func (a *API) registerOrderRoutes() {
	a.srv.ApiGET("/orders", a.listMyOrders)

	a.srv.StaffGET("/orders", a.listAllOrders)
	a.srv.StaffGET("/orders/export", a.exportOrders)
	a.srv.StaffGET("/orders/stats", a.orderStats)
	a.srv.StaffGET("/orders/:id", a.getOrder)
	a.srv.StaffDELETE("/orders/:id", a.deleteOrder)
}

func (a *API) listMyOrders(c echo.Context) error {
	page, pageSize := parsePagination(c)
	views, total, err := a.orders.ListByUser(c.Request().Context(), webserver.CurrentUserID(c), page, pageSize)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}
	return paged(c, views, total, page, pageSize)
}

func (a *API) listAllOrders(c echo.Context) error {
	page, pageSize := parsePagination(c)
	filter, err := orderFilter(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_FILTER", err.Error(), nil)
	}
	views, total, err := a.orders.List(c.Request().Context(), filter, page, pageSize)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}
	return paged(c, views, total, page, pageSize)
}

func (a *API) getOrder(c echo.Context) error {
	o, err := a.orders.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			return fail(c, http.StatusNotFound, "NOT_FOUND", "Order not found", nil)
		}
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query order", err.Error())
	}
	return ok(c, o)
}

// deleteOrder removes an order snapshot. The confirmation step lives in the
// client; the API call itself is terminal.
func (a *API) deleteOrder(c echo.Context) error {
	id := c.Param("id")
	operator := ""
	if claims := webserver.CurrentClaims(c); claims != nil {
		operator = claims.Name
	}
	err := a.orders.Delete(c.Request().Context(), id, operator, c.RealIP())
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			return fail(c, http.StatusNotFound, "NOT_FOUND", "Order not found", nil)
		}
		return fail(c, http.StatusInternalServerError, "DELETE_FAILED", "Failed to delete order", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}

func (a *API) exportOrders(c echo.Context) error {
	filter, err := orderFilter(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_FILTER", err.Error(), nil)
	}
	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="orders.csv"`)
	c.Response().WriteHeader(http.StatusOK)
	if _, err := a.orders.ExportCSV(c.Request().Context(), filter, c.Response()); err != nil {
		return err
	}
	return nil
}

func (a *API) orderStats(c echo.Context) error {
	filter, err := orderFilter(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_FILTER", err.Error(), nil)
	}
	summary, err := a.orders.Summarize(c.Request().Context(), filter)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to summarize orders", err.Error())
	}
	return ok(c, summary)
}

// orderFilter parses the optional from/to date bounds. Any common date
// layout is accepted.
func orderFilter(c echo.Context) (order.Filter, error) {
	var filter order.Filter
	if from := strings.TrimSpace(c.QueryParam("from")); from != "" {
		t, err := dateparse.ParseAny(from)
		if err != nil {
			return filter, errors.Wrapf(err, "invalid from date %q", from)
		}
		filter.From = t
	}
	if to := strings.TrimSpace(c.QueryParam("to")); to != "" {
		t, err := dateparse.ParseAny(to)
		if err != nil {
			return filter, errors.Wrapf(err, "invalid to date %q", to)
		}
		filter.To = t
	}
	return filter, nil
}
