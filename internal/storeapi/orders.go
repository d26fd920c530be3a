package storeapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/lymstore/storefront/internal/orders"
	"github.com/lymstore/storefront/internal/shipping"
	"github.com/lymstore/storefront/internal/webserver"
)

type PlaceOrderResponse struct {
	Message string `json:"message"`
	OrderID int64  `json:"orderId"`
}

type ShippingQuoteRequest struct {
	PostalCode string            `json:"postalCode"`
	Cart       []orders.CartLine `json:"cart" validate:"required,min=1,dive"`
	IsPickup   bool              `json:"isPickup"`
}

type ShippingQuoteResponse struct {
	ShippingCost        decimal.Decimal `json:"shippingCost"`
	MinimumDeliveryDate string          `json:"minimumDeliveryDate"`
}

func registerOrderRoutes() {
	webserver.PubPOST("/orders", placeOrder)
	webserver.PubPOST("/shipping/calculate", calculateShipping)
}

// placeOrder godoc
// @Summary  Place an order from an explicit cart
// @Tags     orders
// @Accept   json
// @Produce  json
// @Param    body body orders.PlaceOrderRequest true "cart and shipping info"
// @Success  201 {object} PlaceOrderResponse
// @Failure  400 {object} webserver.ErrorResponse
// @Failure  404 {object} webserver.ErrorResponse
// @Failure  500 {object} webserver.ErrorResponse
// @Router   /orders [post]
func placeOrder(c echo.Context) error {
	var req orders.PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse order", err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return webserver.HandleValidationError(c, err)
	}
	order, err := appCtx(c).Orders().PlaceOrder(c.Request().Context(), req)
	if err != nil {
		return webserver.FailError(c, err)
	}
	return c.JSON(http.StatusCreated, PlaceOrderResponse{Message: "Order placed successfully", OrderID: order.ID})
}

// calculateShipping godoc
// @Summary  Quote shipping cost and earliest delivery date
// @Tags     shipping
// @Accept   json
// @Produce  json
// @Param    body body ShippingQuoteRequest true "cart and destination"
// @Success  200 {object} ShippingQuoteResponse
// @Failure  400 {object} webserver.ErrorResponse
// @Failure  404 {object} webserver.ErrorResponse
// @Router   /shipping/calculate [post]
func calculateShipping(c echo.Context) error {
	var req ShippingQuoteRequest
	if err := c.Bind(&req); err != nil {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request", err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return webserver.HandleValidationError(c, err)
	}
	lines := make([]shipping.Line, 0, len(req.Cart))
	for _, l := range req.Cart {
		lines = append(lines, shipping.Line{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	quote, err := appCtx(c).Orders().Quote(c.Request().Context(), lines,
		shipping.Destination{PostalCode: req.PostalCode, Pickup: req.IsPickup})
	if err != nil {
		return webserver.FailError(c, err)
	}
	return webserver.Ok(c, ShippingQuoteResponse{
		ShippingCost:        quote.ShippingCost,
		MinimumDeliveryDate: shipping.FormatDate(quote.MinimumDeliveryDate),
	})
}
