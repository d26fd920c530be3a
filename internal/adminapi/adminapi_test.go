package adminapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lymstore/storefront/internal/apitest"
	"github.com/lymstore/storefront/internal/dbtest"
	"github.com/lymstore/storefront/internal/domain"
	"github.com/lymstore/storefront/internal/orders"
	"github.com/lymstore/storefront/internal/webserver"
)

func newEnv(t *testing.T) (*apitest.Env, apitest.Option) {
	env := apitest.New(t, Init)
	return env, apitest.Bearer(env.AdminToken(t))
}

func placeOrder(t *testing.T, env *apitest.Env, first string) *domain.Order {
	p := dbtest.CreateProduct(t, env.DB, domain.Product{Name: "Taza " + first, Stock: 10, BasePrice: dbtest.Money("100")})
	order, err := env.App.Orders().PlaceOrder(context.Background(), orders.PlaceOrderRequest{
		Cart:         []orders.CartLine{{ProductID: p.ID, Quantity: 2}},
		ShippingInfo: orders.ShippingInfo{FirstName: first, LastName: "Paz", PickupAtStore: true},
	})
	require.NoError(t, err)
	return order
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}

func TestLogin(t *testing.T) {
	env, _ := newEnv(t)

	rec := env.Do(http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "tester", "password": "secret"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp loginResponse
	apitest.Decode(t, rec, &resp)
	require.NotEmpty(t, resp.Token)

	rec = env.Do(http.MethodGet, "/api/v1/orders", nil, apitest.Bearer(resp.Token))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.Do(http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "tester", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = env.Do(http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "nobody", "password": "secret"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = env.Do(http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "tester"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	env, _ := newEnv(t)
	for _, target := range []string{"/api/v1/orders", "/api/v1/admin/products", "/api/v1/shipping", "/api/v1/admin/orders/summary"} {
		rec := env.Do(http.MethodGet, target, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, target)
		var errResp webserver.ErrorResponse
		apitest.Decode(t, rec, &errResp)
		assert.Equal(t, "UNAUTHORIZED", errResp.Code)
	}
	rec := env.Do(http.MethodGet, "/api/v1/orders", nil, apitest.Bearer("not-a-token"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListOrdersIsIdempotent(t *testing.T) {
	env, auth := newEnv(t)
	placeOrder(t, env, "Ana")
	placeOrder(t, env, "Bruno")

	first := env.Do(http.MethodGet, "/api/v1/orders", nil, auth)
	require.Equal(t, http.StatusOK, first.Code)
	second := env.Do(http.MethodGet, "/api/v1/orders", nil, auth)
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	var rows []domain.Order
	apitest.Decode(t, first, &rows)
	require.Len(t, rows, 2)
	assert.Equal(t, "Bruno", rows[0].CustomerFirstName)
	require.Len(t, rows[0].Items, 1)
	require.NotNil(t, rows[0].Items[0].ProductName)
	assert.Equal(t, "Taza Bruno", *rows[0].Items[0].ProductName)

	rec := env.Do(http.MethodGet, "/api/v1/orders?q=ana", nil, auth)
	apitest.Decode(t, rec, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ana", rows[0].CustomerFirstName)
}

func TestOrderMutations(t *testing.T) {
	env, auth := newEnv(t)
	order := placeOrder(t, env, "Ana")
	target := "/api/v1/orders/" + id(order.ID)

	rec := env.Do(http.MethodPatch, target+"/status", map[string]string{"order_status": "en proceso"}, auth)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var msg webserver.MessageResponse
	apitest.Decode(t, rec, &msg)
	assert.NotEmpty(t, msg.Message)

	rec = env.Do(http.MethodPatch, target+"/status", map[string]string{"order_status": "perdido"}, auth)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = env.Do(http.MethodPatch, "/api/v1/orders/9999/status", map[string]string{"order_status": "entregado"}, auth)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.Do(http.MethodPut, target, map[string]string{
		"customer_firstName": "Ana María",
		"customer_lastName":  "Paz",
		"customer_email":     "ana@example.com",
		"payment_status":     "pagado",
		"shipping_status":    "despachado",
	}, auth)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.Do(http.MethodGet, target, nil, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	var got domain.Order
	apitest.Decode(t, rec, &got)
	assert.Equal(t, "Ana María", got.CustomerFirstName)
	assert.Equal(t, domain.OrderProcessing, got.OrderStatus)
	assert.Equal(t, domain.PaymentPaid, got.PaymentStatus)
	assert.Equal(t, order.TotalAmount.StringFixed(2), got.TotalAmount.StringFixed(2))

	var logs int64
	env.DB.Model(&domain.SysOprLog{}).Where("opr_name = ?", "tester").Count(&logs)
	assert.Equal(t, int64(2), logs)

	rec = env.Do(http.MethodDelete, target, nil, auth)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = env.Do(http.MethodDelete, target, nil, auth)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = env.Do(http.MethodGet, target, nil, auth)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = env.Do(http.MethodGet, "/api/v1/orders/abc", nil, auth)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductAdmin(t *testing.T) {
	env, auth := newEnv(t)

	rec := env.Do(http.MethodPost, "/api/v1/admin/products", map[string]interface{}{
		"name": "Vela", "base_price": 1000, "sale_price": 800, "stock": 3, "category": []string{"Velas"},
	}, auth)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created map[string]interface{}
	apitest.Decode(t, rec, &created)
	pid := int64(created["id"].(float64))
	assert.Equal(t, 20.0, created["discount_percentage"])
	assert.Equal(t, 968.0, created["final_price"])
	assert.Equal(t, true, created["enabled"])

	rec = env.Do(http.MethodPost, "/api/v1/admin/products", map[string]interface{}{"base_price": 10}, auth)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = env.Do(http.MethodPost, "/api/v1/admin/products", map[string]interface{}{"name": "X", "base_price": -1}, auth)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.Do(http.MethodPut, "/api/v1/admin/products/"+id(pid), map[string]interface{}{
		"name": "Vela grande", "base_price": 1200, "stock": 3, "enabled": false,
	}, auth)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated map[string]interface{}
	apitest.Decode(t, rec, &updated)
	assert.Equal(t, "Vela grande", updated["name"])
	assert.Equal(t, false, updated["enabled"])

	rec = env.Do(http.MethodGet, "/api/v1/admin/products?page=1&pageSize=10", nil, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Data  []map[string]interface{} `json:"data"`
		Total int64                    `json:"total"`
	}
	apitest.Decode(t, rec, &page)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Data, 1)

	rec = env.Do(http.MethodPatch, "/api/v1/admin/products/"+id(pid)+"/stock", map[string]int{"delta": -2}, auth)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var stock map[string]interface{}
	apitest.Decode(t, rec, &stock)
	assert.Equal(t, 1.0, stock["stock"])
	rec = env.Do(http.MethodPatch, "/api/v1/admin/products/"+id(pid)+"/stock", map[string]int{"delta": -5}, auth)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.Do(http.MethodDelete, "/api/v1/admin/products/"+id(pid), nil, auth)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = env.Do(http.MethodGet, "/api/v1/admin/products/"+id(pid), nil, auth)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestZoneAdmin(t *testing.T) {
	env, auth := newEnv(t)

	rec := env.Do(http.MethodPost, "/api/v1/shipping", map[string]interface{}{
		"zone_name": "Rosario", "postal_code_start": 2000, "postal_code_end": 2099,
		"province": "Santa Fe", "base_cost": 1800, "estimated_days": 3,
	}, auth)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var zone domain.ShippingZone
	apitest.Decode(t, rec, &zone)
	assert.True(t, zone.Active)

	rec = env.Do(http.MethodPost, "/api/v1/shipping", map[string]interface{}{
		"zone_name": "Mal", "postal_code_start": 3000, "postal_code_end": 2000, "base_cost": 10,
	}, auth)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = env.Do(http.MethodPost, "/api/v1/shipping", map[string]interface{}{
		"zone_name": "Gratis", "postal_code_start": 1, "postal_code_end": 2, "base_cost": 0,
	}, auth)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.Do(http.MethodPut, "/api/v1/shipping/"+id(zone.ID), map[string]interface{}{
		"zone_name": "Rosario", "postal_code_start": 2000, "postal_code_end": 2199,
		"base_cost": 1900, "estimated_days": 2, "active": false,
	}, auth)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	apitest.Decode(t, rec, &zone)
	assert.Equal(t, 2199, zone.PostalCodeEnd)
	assert.False(t, zone.Active)

	rec = env.Do(http.MethodGet, "/api/v1/shipping", nil, auth)
	var zones []domain.ShippingZone
	apitest.Decode(t, rec, &zones)
	assert.Len(t, zones, 1)

	rec = env.Do(http.MethodPut, "/api/v1/shipping/9999", map[string]interface{}{
		"zone_name": "X", "postal_code_start": 1, "postal_code_end": 2, "base_cost": 1,
	}, auth)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.Do(http.MethodDelete, "/api/v1/shipping/"+id(zone.ID), nil, auth)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = env.Do(http.MethodGet, "/api/v1/shipping/"+id(zone.ID), nil, auth)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderReports(t *testing.T) {
	env, auth := newEnv(t)
	placeOrder(t, env, "Ana")
	placeOrder(t, env, "Bruno")

	rec := env.Do(http.MethodGet, "/api/v1/admin/orders/export?format=csv", nil, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	assert.Len(t, lines, 3)

	rec = env.Do(http.MethodGet, "/api/v1/admin/orders/export?format=xlsx", nil, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "PK"))

	rec = env.Do(http.MethodGet, "/api/v1/admin/orders/export?format=pdf", nil, auth)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.Do(http.MethodGet, "/api/v1/admin/orders/summary", nil, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	var summary map[string]interface{}
	apitest.Decode(t, rec, &summary)
	assert.Equal(t, 2.0, summary["orders"])
	assert.Equal(t, 484.0, summary["revenue"])
	assert.Equal(t, 242.0, summary["average_ticket"])

	rec = env.Do(http.MethodGet, "/api/v1/admin/metrics/storefront_orders_placed", nil, auth)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDbmsOverview(t *testing.T) {
	env, auth := newEnv(t)
	placeOrder(t, env, "Ana")

	rec := env.Do(http.MethodGet, "/api/v1/admin/dbms/tables", nil, auth)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var tables []DBMSTableInfo
	apitest.Decode(t, rec, &tables)
	counts := map[string]int64{}
	for _, tb := range tables {
		if tb.Managed {
			counts[tb.Name] = tb.RowCount
		}
	}
	assert.Equal(t, int64(1), counts["orders"])
	assert.Equal(t, int64(1), counts["order_items"])
	assert.Equal(t, int64(1), counts["products"])
	assert.Contains(t, counts, "shipping_zones")

	rec = env.Do(http.MethodGet, "/api/v1/admin/dbms/serverinfo", nil, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	var info DBMSServerInfo
	apitest.Decode(t, rec, &info)
	assert.Equal(t, "sqlite", info.DatabaseType)
	assert.True(t, strings.HasPrefix(info.DatabaseVersion, "SQLite "))
	assert.GreaterOrEqual(t, info.TableCount, len(domain.Tables))
}
