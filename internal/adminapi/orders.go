package adminapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lymstore/storefront/internal/domain"
	"github.com/lymstore/storefront/internal/orders"
	"github.com/lymstore/storefront/internal/webserver"
)

type orderStatusPayload struct {
	OrderStatus domain.OrderStatus `json:"order_status" validate:"required"`
}

func registerOrderRoutes() {
	webserver.ApiGET("/orders", listOrders)
	webserver.ApiGET("/orders/:id", getOrder)
	webserver.ApiPATCH("/orders/:id/status", updateOrderStatus)
	webserver.ApiPUT("/orders/:id", updateOrder)
	webserver.ApiDELETE("/orders/:id", deleteOrder)
}

func orderFilter(c echo.Context) orders.ListFilter {
	return orders.ListFilter{
		OrderStatus:   domain.OrderStatus(strings.TrimSpace(c.QueryParam("order_status"))),
		PaymentStatus: domain.PaymentStatus(strings.TrimSpace(c.QueryParam("payment_status"))),
		Query:         strings.TrimSpace(c.QueryParam("q")),
	}
}

// listOrders godoc
// @Summary  List orders, newest first, with their items
// @Tags     orders
// @Produce  json
// @Security BearerAuth
// @Param    order_status   query string false "order status"
// @Param    payment_status query string false "payment status"
// @Param    q              query string false "customer name"
// @Success  200 {array} domain.Order
// @Router   /orders [get]
func listOrders(c echo.Context) error {
	rows, err := GetAppContext(c).Orders().List(c.Request().Context(), orderFilter(c))
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, rows)
}

func getOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	order, err := GetAppContext(c).Orders().Get(c.Request().Context(), id)
	if err != nil {
		return failErr(c, err)
	}
	return ok(c, order)
}

// updateOrderStatus godoc
// @Summary  Move an order to any status
// @Tags     orders
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id   path int                true "order id"
// @Param    body body orderStatusPayload true "new status"
// @Success  200 {object} webserver.MessageResponse
// @Failure  400 {object} webserver.ErrorResponse
// @Failure  404 {object} webserver.ErrorResponse
// @Router   /orders/{id}/status [patch]
func updateOrderStatus(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	var payload orderStatusPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	if err := GetAppContext(c).Orders().UpdateStatus(c.Request().Context(), id, payload.OrderStatus); err != nil {
		return failErr(c, err)
	}
	webserver.AddOprLog(c, "order_status", fmt.Sprintf("order %d -> %s", id, payload.OrderStatus))
	return webserver.Message(c, http.StatusOK, "Order status updated")
}

func updateOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	var payload orders.UpdateOrderRequest
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	if err := GetAppContext(c).Orders().UpdateFull(c.Request().Context(), id, payload); err != nil {
		return failErr(c, err)
	}
	webserver.AddOprLog(c, "order_update", fmt.Sprintf("order %d updated", id))
	return webserver.Message(c, http.StatusOK, "Order updated")
}

func deleteOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	if err := GetAppContext(c).Orders().Delete(c.Request().Context(), id); err != nil {
		return failErr(c, err)
	}
	webserver.AddOprLog(c, "order_delete", fmt.Sprintf("order %d deleted", id))
	return webserver.Message(c, http.StatusOK, "Order deleted")
}
