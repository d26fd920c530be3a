// Package cart models the shopping cart as an explicit aggregate that is
// handed to checkout, instead of state hidden in the browser.
package cart

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lymstore/storefront/internal/domain"
	"github.com/lymstore/storefront/internal/pricing"
	"github.com/lymstore/storefront/internal/shipping"
)

type Item struct {
	ProductID    int64  `json:"id"`
	Quantity     int    `json:"quantity"`
	IsCustomized bool   `json:"is_customized"`
	CustomDetail string `json:"custom_detail,omitempty"`
}

type Cart struct {
	ID        string    `json:"id"`
	Items     []Item    `json:"items"`
	UpdatedAt time.Time `json:"updated_at"`
}

func New(id string) *Cart {
	return &Cart{ID: id, Items: []Item{}, UpdatedAt: time.Now()}
}

func (c *Cart) find(productID int64) int {
	for i, it := range c.Items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) touch() {
	c.UpdatedAt = time.Now()
}

// Add puts qty units of a product in the cart, merging with an existing line.
// A non-empty customDetail marks the line as customized and replaces any previous detail.
func (c *Cart) Add(productID int64, qty int, customDetail string) error {
	if productID <= 0 {
		return domain.InvalidInput("invalid product id %d", productID)
	}
	if qty <= 0 {
		return domain.InvalidInput("quantity must be positive")
	}
	customDetail = strings.TrimSpace(customDetail)
	if i := c.find(productID); i >= 0 {
		if c.Items[i].Quantity+qty > shipping.MaxLineQuantity {
			return domain.InvalidInput("quantity cannot exceed %d", shipping.MaxLineQuantity)
		}
		c.Items[i].Quantity += qty
		if customDetail != "" {
			c.Items[i].IsCustomized = true
			c.Items[i].CustomDetail = customDetail
		}
	} else {
		if qty > shipping.MaxLineQuantity {
			return domain.InvalidInput("quantity cannot exceed %d", shipping.MaxLineQuantity)
		}
		c.Items = append(c.Items, Item{
			ProductID:    productID,
			Quantity:     qty,
			IsCustomized: customDetail != "",
			CustomDetail: customDetail,
		})
	}
	c.touch()
	return nil
}

// SetQuantity overwrites the quantity of a line; zero or less removes it.
func (c *Cart) SetQuantity(productID int64, qty int) error {
	i := c.find(productID)
	if i < 0 {
		return domain.NotFound("product %d is not in the cart", productID)
	}
	if qty > shipping.MaxLineQuantity {
		return domain.InvalidInput("quantity cannot exceed %d", shipping.MaxLineQuantity)
	}
	if qty <= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	} else {
		c.Items[i].Quantity = qty
	}
	c.touch()
	return nil
}

func (c *Cart) Remove(productID int64) bool {
	i := c.find(productID)
	if i < 0 {
		return false
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	c.touch()
	return true
}

func (c *Cart) Clear() {
	c.Items = []Item{}
	c.touch()
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) TotalItems() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) Lines() []shipping.Line {
	lines := make([]shipping.Line, 0, len(c.Items))
	for _, it := range c.Items {
		lines = append(lines, shipping.Line{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return lines
}

func (c *Cart) ProductIDs() []int64 {
	return shipping.LineIDs(c.Lines())
}

type PricedItem struct {
	Item
	Name string `json:"name"`
	pricing.LinePricing
}

// Summary is a priced snapshot of the cart. Items whose product no longer
// exists are listed in Missing and excluded from totals.
type Summary struct {
	Items      []PricedItem    `json:"items"`
	Missing    []int64         `json:"missing,omitempty"`
	TotalItems int             `json:"total_items"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Taxes      decimal.Decimal `json:"taxes"`
	Total      decimal.Decimal `json:"total"`
}

func (c *Cart) Price(products map[int64]*domain.Product) Summary {
	s := Summary{Items: []PricedItem{}}
	lines := make([]pricing.LinePricing, 0, len(c.Items))
	for _, it := range c.Items {
		p, ok := products[it.ProductID]
		if !ok {
			s.Missing = append(s.Missing, it.ProductID)
			continue
		}
		lp := pricing.ComputeLinePricing(p, it.Quantity)
		lines = append(lines, lp)
		s.Items = append(s.Items, PricedItem{Item: it, Name: p.Name, LinePricing: lp})
		s.TotalItems += it.Quantity
	}
	s.Subtotal, s.Taxes = pricing.Totals(lines)
	s.Total = s.Subtotal.Add(s.Taxes)
	return s
}
