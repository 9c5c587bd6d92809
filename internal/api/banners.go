package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// SettingsStore is the slice of the settings manager the banner endpoints
// need.
type SettingsStore interface {
	GetString(category, name string) string
	SetValue(category, name, value string) error
}

const (
	settingsCategorySystem = "system"
	settingsNameBanners    = "SystemBanners"
)

// WithSettings enables the settings-backed endpoints (home banners).
func (a *API) WithSettings(s SettingsStore) *API {
	a.settings = s
	return a
}

func (a *API) registerBannerRoutes() {
	if a.settings == nil {
		return
	}
	a.srv.PubGET("/banners", a.listBanners)
	a.srv.StaffPUT("/banners", a.setBanners)
}

// listBanners returns the home screen banner image references.
func (a *API) listBanners(c echo.Context) error {
	return ok(c, map[string]interface{}{"banners": a.bannerList()})
}

type bannersPayload struct {
	Banners []string `json:"banners"`
}

func (a *API) setBanners(c echo.Context) error {
	var payload bannersPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse banner list", err.Error())
	}
	cleaned := make([]string, 0, len(payload.Banners))
	for _, b := range payload.Banners {
		if b = strings.TrimSpace(b); b != "" {
			cleaned = append(cleaned, b)
		}
	}
	if err := a.settings.SetValue(settingsCategorySystem, settingsNameBanners, strings.Join(cleaned, "|")); err != nil {
		return fail(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to store banner list", err.Error())
	}
	return ok(c, map[string]interface{}{"banners": cleaned})
}

func (a *API) bannerList() []string {
	raw := a.settings.GetString(settingsCategorySystem, settingsNameBanners)
	out := []string{}
	for _, b := range strings.Split(raw, "|") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
