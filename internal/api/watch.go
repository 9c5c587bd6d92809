package api

import (
	"fmt"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"

	"github.com/bitmall/storefront/internal/domain"
	"github.com/bitmall/storefront/internal/watch"
	"github.com/bitmall/storefront/internal/webserver"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func (a *API) registerWatchRoutes() {
	a.srv.ApiGET("/watch/me", a.watchMe)
	a.srv.StaffGET("/watch/orders", a.watchOrders)
}

// watchMe streams changes to the caller's own user document (cart ledger,
// favorites, profile) as server-sent events.
func (a *API) watchMe(c echo.Context) error {
	key := domain.UserKey(webserver.CurrentUserID(c))
	return a.streamWatch(c, watch.CollectionUsers, key)
}

// watchOrders streams every change in the orders collection; this backs the
// staff live all-orders view.
func (a *API) watchOrders(c echo.Context) error {
	return a.streamWatch(c, watch.CollectionOrders, "")
}

// streamWatch holds one SSE connection open for a subscription. The
// subscription lives exactly as long as the request: when the client goes
// away the context ends and the watch is canceled.
func (a *API) streamWatch(c echo.Context, collection, key string) error {
	sub, err := a.bus.Watch(collection, key)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "WATCH_FAILED", "Failed to open subscription", err.Error())
	}
	defer sub.Cancel()

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set(echo.HeaderCacheControl, "no-cache")
	resp.Header().Set(echo.HeaderConnection, "keep-alive")
	resp.WriteHeader(http.StatusOK)
	resp.Flush()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-sub.C:
			if !ok {
				return nil
			}
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(resp, "data: %s\n\n", data); err != nil {
				return nil
			}
			resp.Flush()
		}
	}
}
