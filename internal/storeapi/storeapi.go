// Package storeapi serves the public storefront endpoints: catalog reads,
// shipping quotes, the session cart and checkout.
package storeapi

import (
	"github.com/labstack/echo/v4"

	"github.com/lymstore/storefront/internal/app"
	"github.com/lymstore/storefront/internal/webserver"
)

// Init registers the public routes on the web server.
func Init() {
	registerProductRoutes()
	registerOrderRoutes()
	registerCartRoutes()
}

func appCtx(c echo.Context) app.AppContext {
	return webserver.GetAppContext(c)
}
