package reports

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lymstore/storefront/internal/domain"
)

func strPtr(s string) *string { return &s }

func sampleOrders() []domain.Order {
	day := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	order := func(id int64, total string, status domain.OrderStatus, pickup bool, items ...domain.OrderItem) domain.Order {
		t := decimal.RequireFromString(total)
		return domain.Order{
			ID: id, CustomerFirstName: "Ana", CustomerLastName: "Paz", CustomerEmail: "ana@example.com",
			ShippingZip: "1414", SubtotalAmount: t, ShippingCost: decimal.Zero, Taxes: decimal.Zero,
			TotalAmount: t, Currency: "ARS", OrderStatus: status, PaymentStatus: domain.PaymentPending,
			OrderDate: day, DeliveryDate: day, PickupAtStore: pickup, Items: items,
		}
	}
	return []domain.Order{
		order(1, "100", domain.OrderPending, true,
			domain.OrderItem{Quantity: 2, ProductName: strPtr("Taza")},
			domain.OrderItem{Quantity: 1, ProductName: strPtr("Vela"), IsCustomized: true, CustomDetail: "lavanda"}),
		order(2, "300", domain.OrderDelivered, false, domain.OrderItem{Quantity: 1}),
		order(3, "200", domain.OrderDelivered, false, domain.OrderItem{Quantity: 4}),
		order(4, "999", domain.OrderCancelled, false, domain.OrderItem{Quantity: 9}),
	}
}

func TestNewRows(t *testing.T) {
	rows := NewRows(sampleOrders())
	require.Len(t, rows, 4)
	assert.Equal(t, "Ana Paz", rows[0].Customer)
	assert.Equal(t, "Taza x2; Vela x1 [lavanda]", rows[0].Items)
	assert.Equal(t, 3, rows[0].Units)
	assert.Equal(t, "100.00", rows[0].Total)
	assert.Equal(t, "2024-03-10", rows[0].DeliveryDate)
	assert.Equal(t, "(producto eliminado) x1", rows[1].Items)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleOrders()))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "id,order_date,customer,"))
	assert.Contains(t, lines[1], "Ana Paz")
	assert.Contains(t, lines[1], "100.00")
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleOrders(), "en"))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	rows := f.GetRows(sheetName)
	require.Len(t, rows, 5)
	assert.Equal(t, "ID", f.GetCellValue(sheetName, "A1"))
	assert.Equal(t, "Ana Paz", f.GetCellValue(sheetName, "C2"))
	assert.Equal(t, "999.00", f.GetCellValue(sheetName, "U5"))
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleOrders(), "en")
	assert.Equal(t, 4, s.Orders)
	assert.Equal(t, 8, s.Units)
	assert.Equal(t, "600.00", s.Revenue.StringFixed(2))
	assert.Equal(t, 200.0, s.AverageTicket)
	assert.Equal(t, 200.0, s.MedianTicket)
	assert.Equal(t, 1, s.PickupOrders)
	assert.Equal(t, 2, s.ByStatus[string(domain.OrderDelivered)])
	assert.Equal(t, 1, s.ByStatus[string(domain.OrderCancelled)])
	assert.Equal(t, 4, s.ByPayment[string(domain.PaymentPending)])
	assert.Equal(t, "600.00", s.RevenueLabel)

	empty := Summarize(nil, "es-AR")
	assert.Equal(t, 0, empty.Orders)
	assert.Zero(t, empty.AverageTicket)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "1,234,567.50", FormatAmount(NewPrinter("en"), 1234567.5))
	assert.NotPanics(t, func() { FormatAmount(NewPrinter("not a tag!"), 1) })
}
