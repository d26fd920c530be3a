package adminapi

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/lymstore/storefront/internal/app"
	"github.com/lymstore/storefront/internal/webserver"
)

const (
	defaultPageSize = 20
	maxPageSize     = 500
)

// Init registers every admin route on the web server.
func Init() {
	registerAuthRoutes()
	registerOrderRoutes()
	registerReportRoutes()
	registerProductRoutes()
	registerZoneRoutes()
	registerDbmsRoutes()
}

func GetAppContext(c echo.Context) app.AppContext {
	return webserver.GetAppContext(c)
}

func GetDB(c echo.Context) *gorm.DB {
	return GetAppContext(c).DB()
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// parsePagination reads page and pageSize (or perPage) with sane bounds.
func parsePagination(c echo.Context) (int, int) {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		page = 1
	}
	raw := c.QueryParam("pageSize")
	if raw == "" {
		raw = c.QueryParam("perPage")
	}
	pageSize, err := strconv.Atoi(raw)
	if err != nil || pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

func ok(c echo.Context, data interface{}) error {
	return webserver.Ok(c, data)
}

func paged(c echo.Context, data interface{}, total int64, page, pageSize int) error {
	return webserver.Paged(c, data, total, page, pageSize)
}

func fail(c echo.Context, status int, code, message string, details interface{}) error {
	return webserver.Fail(c, status, code, message, details)
}

func failErr(c echo.Context, err error) error {
	return webserver.FailError(c, err)
}

func handleValidationError(c echo.Context, err error) error {
	return webserver.HandleValidationError(c, err)
}
