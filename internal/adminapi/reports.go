package adminapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"

	"github.com/lymstore/storefront/internal/reports"
	"github.com/lymstore/storefront/internal/webserver"
	"github.com/lymstore/storefront/pkg/metrics"
)

func registerReportRoutes() {
	webserver.ApiGET("/admin/orders/export", exportOrders)
	webserver.ApiGET("/admin/orders/summary", ordersSummary)
	webserver.ApiGET("/admin/metrics/:name", queryMetric)
}

func exportLanguage(c echo.Context) string {
	if lang := c.QueryParam("lang"); lang != "" {
		return lang
	}
	if lang := GetAppContext(c).Config().Shop.ExportLanguage; lang != "" {
		return lang
	}
	return "es-AR"
}

// exportOrders godoc
// @Summary  Download the filtered order list as csv or xlsx
// @Tags     reports
// @Produce  octet-stream
// @Security BearerAuth
// @Param    format query string false "csv or xlsx" default(csv)
// @Router   /admin/orders/export [get]
func exportOrders(c echo.Context) error {
	format := c.QueryParam("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "xlsx" {
		return fail(c, http.StatusBadRequest, "INVALID_FORMAT", "format must be csv or xlsx", nil)
	}
	rows, err := GetAppContext(c).Orders().List(c.Request().Context(), orderFilter(c))
	if err != nil {
		return failErr(c, err)
	}

	filename := fmt.Sprintf("orders-%s.%s", time.Now().Format("20060102-150405"), format)
	resp := c.Response()
	resp.Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	if format == "csv" {
		resp.Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
		resp.WriteHeader(http.StatusOK)
		return reports.WriteCSV(resp, rows)
	}
	resp.Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	resp.WriteHeader(http.StatusOK)
	return reports.WriteXLSX(resp, rows, exportLanguage(c))
}

// ordersSummary godoc
// @Summary  Sales summary over the filtered order list
// @Tags     reports
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} reports.Summary
// @Router   /admin/orders/summary [get]
func ordersSummary(c echo.Context) error {
	rows, err := GetAppContext(c).Orders().List(c.Request().Context(), orderFilter(c))
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, reports.Summarize(rows, exportLanguage(c)))
}

// queryMetric returns the points of a metric for the last `hours` hours (default 24).
func queryMetric(c echo.Context) error {
	hours := cast.ToInt(c.QueryParam("hours"))
	if hours <= 0 {
		hours = 24
	}
	end := time.Now()
	points, err := metrics.Query(c.Param("name"), end.Add(-time.Duration(hours)*time.Hour), end)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "METRICS_ERROR", "Failed to query metric", err.Error())
	}
	return ok(c, points)
}
