// Package reports turns order lists into spreadsheets and sales summaries
// for the admin panel.
package reports

import (
	"fmt"
	"io"
	"strings"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/lymstore/storefront/internal/domain"
	"github.com/lymstore/storefront/internal/shipping"
)

const sheetName = "Pedidos"

// OrderRow is the flat export shape of an order.
type OrderRow struct {
	ID            int64  `csv:"id"`
	OrderDate     string `csv:"order_date"`
	Customer      string `csv:"customer"`
	DNI           string `csv:"dni"`
	Email         string `csv:"email"`
	Phone         string `csv:"phone"`
	Address       string `csv:"address"`
	City          string `csv:"city"`
	Zip           string `csv:"zip"`
	Pickup        bool   `csv:"pickup_at_store"`
	Items         string `csv:"items"`
	Units         int    `csv:"units"`
	Subtotal      string `csv:"subtotal"`
	ShippingCost  string `csv:"shipping_cost"`
	Taxes         string `csv:"taxes"`
	Total         string `csv:"total"`
	Currency      string `csv:"currency"`
	OrderStatus   string `csv:"order_status"`
	PaymentStatus string `csv:"payment_status"`
	DeliveryDate  string `csv:"delivery_date"`
}

func itemLabel(it domain.OrderItem) string {
	name := "(producto eliminado)"
	if it.ProductName != nil {
		name = *it.ProductName
	}
	label := fmt.Sprintf("%s x%d", name, it.Quantity)
	if it.IsCustomized && it.CustomDetail != "" {
		label += fmt.Sprintf(" [%s]", it.CustomDetail)
	}
	return label
}

func NewRows(orders []domain.Order) []*OrderRow {
	rows := make([]*OrderRow, 0, len(orders))
	for _, o := range orders {
		labels := make([]string, 0, len(o.Items))
		units := 0
		for _, it := range o.Items {
			labels = append(labels, itemLabel(it))
			units += it.Quantity
		}
		rows = append(rows, &OrderRow{
			ID:            o.ID,
			OrderDate:     o.OrderDate.Format("2006-01-02 15:04:05"),
			Customer:      strings.TrimSpace(o.CustomerFirstName + " " + o.CustomerLastName),
			DNI:           o.CustomerDNI,
			Email:         o.CustomerEmail,
			Phone:         o.CustomerPhone,
			Address:       o.ShippingAddress,
			City:          o.ShippingCity,
			Zip:           o.ShippingZip,
			Pickup:        o.PickupAtStore,
			Items:         strings.Join(labels, "; "),
			Units:         units,
			Subtotal:      o.SubtotalAmount.StringFixed(2),
			ShippingCost:  o.ShippingCost.StringFixed(2),
			Taxes:         o.Taxes.StringFixed(2),
			Total:         o.TotalAmount.StringFixed(2),
			Currency:      o.Currency,
			OrderStatus:   string(o.OrderStatus),
			PaymentStatus: string(o.PaymentStatus),
			DeliveryDate:  shipping.FormatDate(o.DeliveryDate),
		})
	}
	return rows
}

func WriteCSV(w io.Writer, orders []domain.Order) error {
	if err := gocsv.Marshal(NewRows(orders), w); err != nil {
		return errors.Wrap(err, "write orders csv")
	}
	return nil
}

var xlsxHeader = []string{
	"ID", "Fecha", "Cliente", "DNI", "Email", "Teléfono", "Dirección", "Ciudad", "CP",
	"Retiro en tienda", "Productos", "Unidades", "Subtotal", "Envío", "Impuestos", "Total",
	"Moneda", "Estado", "Pago", "Entrega",
}

// WriteXLSX writes one sheet with a header row and one row per order.
// Money columns are numeric cells; the Total column is also written as a
// formatted label in the given language for quick reading.
func WriteXLSX(w io.Writer, orders []domain.Order, lang string) error {
	printer := NewPrinter(lang)
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", sheetName)

	header := append(append([]string{}, xlsxHeader...), "Total ("+lang+")")
	for col, title := range header {
		f.SetCellValue(sheetName, cell(col, 1), title)
	}
	for i, o := range NewRows(orders) {
		r := i + 2
		src := orders[i]
		values := []interface{}{
			o.ID, o.OrderDate, o.Customer, o.DNI, o.Email, o.Phone, o.Address, o.City, o.Zip,
			yesNo(o.Pickup), o.Items, o.Units,
			src.SubtotalAmount.InexactFloat64(), src.ShippingCost.InexactFloat64(),
			src.Taxes.InexactFloat64(), src.TotalAmount.InexactFloat64(),
			o.Currency, o.OrderStatus, o.PaymentStatus, o.DeliveryDate,
			FormatAmount(printer, src.TotalAmount.InexactFloat64()),
		}
		for col, v := range values {
			f.SetCellValue(sheetName, cell(col, r), v)
		}
	}
	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "write orders xlsx")
	}
	return nil
}

func cell(col, row int) string {
	return fmt.Sprintf("%s%d", excelize.ToAlphaString(col), row)
}

func yesNo(v bool) string {
	if v {
		return "sí"
	}
	return "no"
}

// NewPrinter returns a number printer for a BCP 47 tag, falling back to
// Spanish when the tag cannot be parsed.
func NewPrinter(lang string) *message.Printer {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.Spanish
	}
	return message.NewPrinter(tag)
}

func FormatAmount(p *message.Printer, v float64) string {
	return p.Sprintf("%.2f", v)
}
