package adminapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/lymstore/storefront/internal/catalog"
	"github.com/lymstore/storefront/internal/domain"
	"github.com/lymstore/storefront/internal/webserver"
)

type productPayload struct {
	Name                string               `json:"name" validate:"required,min=1,max=255"`
	ShortDescription    string               `json:"short_description" validate:"omitempty,max=512"`
	LongDescription     string               `json:"long_description"`
	Images              []string             `json:"images"`
	VideoURL            string               `json:"video_url" validate:"omitempty,max=512"`
	Category            []string             `json:"category"`
	Status              domain.ProductStatus `json:"status" validate:"omitempty,oneof=active inactive out_of_stock"`
	Enabled             *bool                `json:"enabled"`
	Stock               int                  `json:"stock" validate:"gte=0"`
	BasePrice           decimal.Decimal      `json:"base_price"`
	SalePrice           decimal.NullDecimal  `json:"sale_price"`
	CostPrice           decimal.NullDecimal  `json:"cost_price"`
	Currency            string               `json:"currency" validate:"omitempty,len=3"`
	Taxes               *decimal.Decimal     `json:"taxes"`
	MinPurchaseQuantity int                  `json:"min_purchase_quantity" validate:"gte=0"`
	MaxPurchaseQuantity *int                 `json:"max_purchase_quantity" validate:"omitempty,gte=1"`
	Weight              decimal.NullDecimal  `json:"weight"`
	Dimensions          string               `json:"dimensions" validate:"omitempty,max=64"`
	Customizable        bool                 `json:"customizable"`
	HasProductionTime   bool                 `json:"has_production_time"`
	ProductionTimeHours int                  `json:"production_time_hours" validate:"gte=0"`
	RestockTime         int                  `json:"restock_time" validate:"gte=0"`
	Featured            bool                 `json:"featured"`
}

func (p productPayload) toProduct() domain.Product {
	taxes := decimal.NewFromInt(domain.DefaultTaxRate)
	if p.Taxes != nil {
		taxes = *p.Taxes
	}
	enabled := true
	if p.Enabled != nil {
		enabled = *p.Enabled
	}
	return domain.Product{
		Name:                strings.TrimSpace(p.Name),
		ShortDescription:    strings.TrimSpace(p.ShortDescription),
		LongDescription:     p.LongDescription,
		Images:              datatypes.JSONSlice[string](p.Images),
		VideoURL:            strings.TrimSpace(p.VideoURL),
		Category:            datatypes.JSONSlice[string](p.Category),
		Status:              p.Status,
		Enabled:             enabled,
		Stock:               p.Stock,
		BasePrice:           p.BasePrice,
		SalePrice:           p.SalePrice,
		CostPrice:           p.CostPrice,
		Currency:            strings.ToUpper(p.Currency),
		Taxes:               taxes,
		MinPurchaseQuantity: p.MinPurchaseQuantity,
		MaxPurchaseQuantity: p.MaxPurchaseQuantity,
		Weight:              p.Weight,
		Dimensions:          p.Dimensions,
		Customizable:        p.Customizable,
		HasProductionTime:   p.HasProductionTime,
		ProductionTimeHours: p.ProductionTimeHours,
		RestockTime:         p.RestockTime,
		Featured:            p.Featured,
	}
}

type stockPayload struct {
	Delta int `json:"delta" validate:"required"`
}

// registerProductRoutes registers catalog management endpoints
func registerProductRoutes() {
	webserver.ApiGET("/admin/products", listProducts)
	webserver.ApiGET("/admin/products/:id", getProduct)
	webserver.ApiPOST("/admin/products", createProduct)
	webserver.ApiPUT("/admin/products/:id", updateProduct)
	webserver.ApiDELETE("/admin/products/:id", deleteProduct)
	webserver.ApiPATCH("/admin/products/:id/stock", adjustProductStock)
}

func catalogRepo(c echo.Context) *catalog.GormRepository {
	return catalog.NewGormRepository(GetDB(c))
}

func listProducts(c echo.Context) error {
	page, pageSize := parsePagination(c)
	rows, total, err := catalogRepo(c).List(c.Request().Context(), catalog.ListFilter{
		Query:    strings.TrimSpace(c.QueryParam("q")),
		Category: strings.TrimSpace(c.QueryParam("category")),
		Sort:     strings.TrimSpace(c.QueryParam("sort")),
		Order:    strings.TrimSpace(c.QueryParam("order")),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return failErr(c, err)
	}
	return paged(c, catalog.NewViews(rows), total, page, pageSize)
}

func getProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	p, err := catalogRepo(c).GetByID(c.Request().Context(), id)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, catalog.NewView(*p))
}

func bindProduct(c echo.Context) (*domain.Product, error) {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return nil, fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return nil, handleValidationError(c, err)
	}
	p := payload.toProduct()
	return &p, nil
}

func createProduct(c echo.Context) error {
	p, err := bindProduct(c)
	if p == nil {
		return err
	}
	if err := catalogRepo(c).Create(c.Request().Context(), p); err != nil {
		return failErr(c, err)
	}
	webserver.AddOprLog(c, "product_create", fmt.Sprintf("product %d %s", p.ID, p.Name))
	return c.JSON(http.StatusCreated, catalog.NewView(*p))
}

func updateProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	p, err := bindProduct(c)
	if p == nil {
		return err
	}
	p.ID = id
	repo := catalogRepo(c)
	if err := repo.Update(c.Request().Context(), p); err != nil {
		return failErr(c, err)
	}
	updated, err := repo.GetByID(c.Request().Context(), id)
	if err != nil {
		return failErr(c, err)
	}
	webserver.AddOprLog(c, "product_update", fmt.Sprintf("product %d %s", id, updated.Name))
	return ok(c, catalog.NewView(*updated))
}

func deleteProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	if err := catalogRepo(c).Delete(c.Request().Context(), id); err != nil {
		return failErr(c, err)
	}
	webserver.AddOprLog(c, "product_delete", fmt.Sprintf("product %d", id))
	return webserver.Message(c, http.StatusOK, "Product deleted")
}

func adjustProductStock(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var payload stockPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	stock, err := catalogRepo(c).AdjustStock(c.Request().Context(), id, payload.Delta)
	if err != nil {
		return failErr(c, err)
	}
	webserver.AddOprLog(c, "product_stock", fmt.Sprintf("product %d stock %+d -> %d", id, payload.Delta, stock))
	return ok(c, map[string]interface{}{"id": id, "stock": stock})
}
