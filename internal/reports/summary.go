package reports

import (
	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"

	"github.com/lymstore/storefront/internal/domain"
)

type Summary struct {
	Orders        int             `json:"orders"`
	Units         int             `json:"units"`
	Revenue       decimal.Decimal `json:"revenue"`
	Shipping      decimal.Decimal `json:"shipping"`
	Taxes         decimal.Decimal `json:"taxes"`
	AverageTicket float64         `json:"average_ticket"`
	MedianTicket  float64         `json:"median_ticket"`
	P90Ticket     float64         `json:"p90_ticket"`
	PickupOrders  int             `json:"pickup_orders"`
	ByStatus      map[string]int  `json:"by_status"`
	ByPayment     map[string]int  `json:"by_payment"`
	RevenueLabel  string          `json:"revenue_label"`
}

// Summarize aggregates orders. Cancelled orders are counted by status but
// left out of revenue and ticket statistics.
func Summarize(orders []domain.Order, lang string) Summary {
	s := Summary{
		Revenue:   decimal.Zero,
		Shipping:  decimal.Zero,
		Taxes:     decimal.Zero,
		ByStatus:  map[string]int{},
		ByPayment: map[string]int{},
	}
	tickets := make(stats.Float64Data, 0, len(orders))
	for _, o := range orders {
		s.Orders++
		s.ByStatus[string(o.OrderStatus)]++
		s.ByPayment[string(o.PaymentStatus)]++
		if o.PickupAtStore {
			s.PickupOrders++
		}
		if o.OrderStatus == domain.OrderCancelled {
			continue
		}
		for _, it := range o.Items {
			s.Units += it.Quantity
		}
		s.Revenue = s.Revenue.Add(o.TotalAmount)
		s.Shipping = s.Shipping.Add(o.ShippingCost)
		s.Taxes = s.Taxes.Add(o.Taxes)
		tickets = append(tickets, o.TotalAmount.InexactFloat64())
	}
	if len(tickets) > 0 {
		s.AverageTicket = round2(tickets.Mean())
		s.MedianTicket = round2(tickets.Median())
		s.P90Ticket = round2(tickets.Percentile(90))
	}
	s.RevenueLabel = FormatAmount(NewPrinter(lang), s.Revenue.InexactFloat64())
	return s
}

func round2(v float64, err error) float64 {
	if err != nil {
		return 0
	}
	r, err := stats.Round(v, 2)
	if err != nil {
		return v
	}
	return r
}
