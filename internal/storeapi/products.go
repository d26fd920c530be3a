package storeapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"

	"github.com/lymstore/storefront/internal/catalog"
	"github.com/lymstore/storefront/internal/webserver"
)

func registerProductRoutes() {
	webserver.PubGET("/products", listProducts)
	webserver.PubGET("/products/:id", getProduct)
}

// listProducts godoc
// @Summary  List enabled products with display pricing
// @Tags     catalog
// @Produce  json
// @Param    q        query string false "name contains"
// @Param    category query string false "category label"
// @Param    sort     query string false "id, name, base_price, stock, created_at"
// @Param    order    query string false "asc or desc"
// @Success  200 {array} catalog.ProductView
// @Router   /products [get]
func listProducts(c echo.Context) error {
	rows, _, err := catalog.NewGormRepository(appCtx(c).DB()).List(c.Request().Context(), catalog.ListFilter{
		OnlyEnabled: true,
		Query:       strings.TrimSpace(c.QueryParam("q")),
		Category:    strings.TrimSpace(c.QueryParam("category")),
		Sort:        c.QueryParam("sort"),
		Order:       c.QueryParam("order"),
	})
	if err != nil {
		return webserver.FailError(c, err)
	}
	return webserver.Ok(c, catalog.NewViews(rows))
}

// getProduct godoc
// @Summary  Get one enabled product
// @Tags     catalog
// @Produce  json
// @Param    id path int true "product id"
// @Success  200 {object} catalog.ProductView
// @Failure  404 {object} webserver.ErrorResponse
// @Router   /products/{id} [get]
func getProduct(c echo.Context) error {
	id := cast.ToInt64(c.Param("id"))
	if id <= 0 {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	p, err := catalog.NewGormRepository(appCtx(c).DB()).GetByID(c.Request().Context(), id)
	if err != nil {
		return webserver.FailError(c, err)
	}
	if !p.Enabled {
		return webserver.Fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	return webserver.Ok(c, catalog.NewView(*p))
}
