package storeapi

import (
	"net/http"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/lymstore/storefront/internal/cart"
	"github.com/lymstore/storefront/internal/catalog"
	"github.com/lymstore/storefront/internal/orders"
	"github.com/lymstore/storefront/internal/webserver"
	"github.com/lymstore/storefront/pkg/common"
)

const cartIDKey = "cart_id"

type addItemRequest struct {
	ProductID    int64  `json:"id" validate:"required,gt=0"`
	Quantity     int    `json:"quantity" validate:"required,gt=0"`
	CustomDetail string `json:"custom_detail" validate:"omitempty,max=2000"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

type checkoutRequest struct {
	ShippingInfo orders.ShippingInfo `json:"shippingInfo"`
}

type CartResponse struct {
	ID string `json:"id"`
	cart.Summary
}

func registerCartRoutes() {
	webserver.PubGET("/cart", getCart)
	webserver.PubDELETE("/cart", clearCart)
	webserver.PubPOST("/cart/items", addCartItem)
	webserver.PubPUT("/cart/items/:id", setCartItem)
	webserver.PubDELETE("/cart/items/:id", removeCartItem)
	webserver.PubPOST("/cart/checkout", checkoutCart)
}

// sessionCart loads the cart bound to the session cookie, creating the
// binding on first use.
func sessionCart(c echo.Context) (*cart.Cart, error) {
	sess, err := session.Get(webserver.SessionName, c)
	if sess == nil {
		return nil, err
	}
	if err != nil {
		// unreadable cookie: continue with a fresh session
		zap.L().Debug("discarding session", zap.Error(err), zap.String("namespace", "cart"))
	}
	id := cast.ToString(sess.Values[cartIDKey])
	if id == "" {
		id = common.UUIDBase58()
		sess.Values[cartIDKey] = id
		if err := sess.Save(c.Request(), c.Response()); err != nil {
			return nil, err
		}
	}
	return appCtx(c).Carts().Get(id)
}

func renderCart(c echo.Context, status int, ct *cart.Cart) error {
	products, err := catalog.NewGormRepository(appCtx(c).DB()).FindByIDs(c.Request().Context(), ct.ProductIDs())
	if err != nil {
		return webserver.FailError(c, err)
	}
	return c.JSON(status, CartResponse{ID: ct.ID, Summary: ct.Price(products)})
}

func saveCart(c echo.Context, ct *cart.Cart) error {
	if err := appCtx(c).Carts().Save(ct); err != nil {
		zap.L().Error("failed to save cart", zap.String("cart", ct.ID), zap.Error(err), zap.String("namespace", "cart"))
		return webserver.Fail(c, http.StatusInternalServerError, "CART_ERROR", "Failed to save cart", nil)
	}
	return nil
}

func cartError(c echo.Context, err error) error {
	zap.L().Error("failed to load cart", zap.Error(err), zap.String("namespace", "cart"))
	return webserver.Fail(c, http.StatusInternalServerError, "CART_ERROR", "Failed to load cart", nil)
}

// getCart godoc
// @Summary  Current session cart with prices
// @Tags     cart
// @Produce  json
// @Success  200 {object} CartResponse
// @Router   /cart [get]
func getCart(c echo.Context) error {
	ct, err := sessionCart(c)
	if err != nil {
		return cartError(c, err)
	}
	return renderCart(c, http.StatusOK, ct)
}

func clearCart(c echo.Context) error {
	ct, err := sessionCart(c)
	if err != nil {
		return cartError(c, err)
	}
	ct.Clear()
	if err := saveCart(c, ct); err != nil || c.Response().Committed {
		return err
	}
	return renderCart(c, http.StatusOK, ct)
}

// addCartItem godoc
// @Summary  Add units of a product to the session cart
// @Tags     cart
// @Accept   json
// @Produce  json
// @Param    body body addItemRequest true "product and quantity"
// @Success  200 {object} CartResponse
// @Failure  400 {object} webserver.ErrorResponse
// @Failure  404 {object} webserver.ErrorResponse
// @Router   /cart/items [post]
func addCartItem(c echo.Context) error {
	var req addItemRequest
	if err := c.Bind(&req); err != nil {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request", err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return webserver.HandleValidationError(c, err)
	}
	p, err := catalog.NewGormRepository(appCtx(c).DB()).GetByID(c.Request().Context(), req.ProductID)
	if err != nil {
		return webserver.FailError(c, err)
	}
	if !p.Enabled {
		return webserver.Fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	if req.CustomDetail != "" && !p.Customizable {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_INPUT", "Product cannot be customized", nil)
	}

	ct, err := sessionCart(c)
	if err != nil {
		return cartError(c, err)
	}
	if err := ct.Add(req.ProductID, req.Quantity, req.CustomDetail); err != nil {
		return webserver.FailError(c, err)
	}
	if err := saveCart(c, ct); err != nil || c.Response().Committed {
		return err
	}
	return renderCart(c, http.StatusOK, ct)
}

func setCartItem(c echo.Context) error {
	id := cast.ToInt64(c.Param("id"))
	var req setQuantityRequest
	if err := c.Bind(&req); err != nil {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request", err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return webserver.HandleValidationError(c, err)
	}
	ct, err := sessionCart(c)
	if err != nil {
		return cartError(c, err)
	}
	if err := ct.SetQuantity(id, req.Quantity); err != nil {
		return webserver.FailError(c, err)
	}
	if err := saveCart(c, ct); err != nil || c.Response().Committed {
		return err
	}
	return renderCart(c, http.StatusOK, ct)
}

func removeCartItem(c echo.Context) error {
	id := cast.ToInt64(c.Param("id"))
	ct, err := sessionCart(c)
	if err != nil {
		return cartError(c, err)
	}
	if !ct.Remove(id) {
		return webserver.Fail(c, http.StatusNotFound, "NOT_FOUND", "Product is not in the cart", nil)
	}
	if err := saveCart(c, ct); err != nil || c.Response().Committed {
		return err
	}
	return renderCart(c, http.StatusOK, ct)
}

// checkoutCart godoc
// @Summary  Place an order from the session cart and empty it
// @Tags     cart
// @Accept   json
// @Produce  json
// @Param    body body checkoutRequest true "shipping info"
// @Success  201 {object} PlaceOrderResponse
// @Failure  400 {object} webserver.ErrorResponse
// @Router   /cart/checkout [post]
func checkoutCart(c echo.Context) error {
	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request", err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return webserver.HandleValidationError(c, err)
	}
	ct, err := sessionCart(c)
	if err != nil {
		return cartError(c, err)
	}
	if ct.IsEmpty() {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_INPUT", "Cart is empty", nil)
	}

	lines := make([]orders.CartLine, 0, len(ct.Items))
	for _, it := range ct.Items {
		lines = append(lines, orders.CartLine{
			ProductID:    it.ProductID,
			Quantity:     it.Quantity,
			IsCustomized: it.IsCustomized,
			CustomDetail: it.CustomDetail,
		})
	}
	order, err := appCtx(c).Orders().PlaceOrder(c.Request().Context(),
		orders.PlaceOrderRequest{Cart: lines, ShippingInfo: req.ShippingInfo})
	if err != nil {
		return webserver.FailError(c, err)
	}
	if err := appCtx(c).Carts().Delete(ct.ID); err != nil {
		zap.L().Warn("order placed but cart not cleared", zap.String("cart", ct.ID), zap.Error(err),
			zap.String("namespace", "cart"))
	}
	return c.JSON(http.StatusCreated, PlaceOrderResponse{Message: "Order placed successfully", OrderID: order.ID})
}
