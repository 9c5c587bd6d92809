package api

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/host"
	"github.com/shirou/gopsutil/mem"

	"github.com/bitmall/storefront/pkg/metrics"
)

func (a *API) registerStatusRoutes() {
	a.srv.StaffGET("/status", a.systemStatus)
	a.srv.StaffGET("/metrics/:name", a.metricSeries)
}

// systemStatus reports host and process figures for the staff dashboard.
func (a *API) systemStatus(c echo.Context) error {
	status := map[string]interface{}{
		"pid":  os.Getpid(),
		"time": time.Now(),
	}
	if info, err := host.Info(); err == nil {
		status["hostname"] = info.Hostname
		status["os"] = info.OS
		status["uptime"] = info.Uptime
	}
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		status["cpu_percent"] = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		status["mem_total"] = vm.Total
		status["mem_used"] = vm.Used
		status["mem_percent"] = vm.UsedPercent
	}
	return ok(c, status)
}

// metricSeries returns the recorded data points of one metric over the last
// 24h (or ?hours=N).
func (a *API) metricSeries(c echo.Context) error {
	name := strings.TrimSpace(c.Param("name"))
	hours := int64(24)
	if h := c.QueryParam("hours"); h != "" {
		if parsed, err := time.ParseDuration(h + "h"); err == nil && parsed > 0 {
			hours = int64(parsed.Hours())
		}
	}
	end := time.Now().Unix()
	start := end - hours*3600
	points, err := metrics.Query(name, start, end)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "METRICS_ERROR", "Failed to query metric", err.Error())
	}
	return ok(c, map[string]interface{}{"metric": name, "points": points})
}
