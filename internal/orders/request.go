package orders

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lymstore/storefront/internal/domain"
	"github.com/lymstore/storefront/internal/shipping"
)

// CartLine is one line of the cart submitted at checkout.
type CartLine struct {
	ProductID    int64  `json:"id" validate:"required,gt=0"`
	Quantity     int    `json:"quantity" validate:"required,gt=0,max=999"`
	IsCustomized bool   `json:"is_customized"`
	CustomDetail string `json:"custom_detail" validate:"omitempty,max=2000"`
}

// ShippingInfo carries the customer and destination of an order.
type ShippingInfo struct {
	FirstName     string `json:"firstName" validate:"required,max=100"`
	LastName      string `json:"lastName" validate:"required,max=100"`
	DNI           string `json:"customer_dni" validate:"omitempty,max=32"`
	Email         string `json:"customer_email" validate:"omitempty,email,max=255"`
	ContactNumber string `json:"contactNumber" validate:"omitempty,max=64"`
	Address       string `json:"address" validate:"required_unless=PickupAtStore true,max=255"`
	City          string `json:"city" validate:"required_unless=PickupAtStore true,max=128"`
	Zip           string `json:"zip" validate:"required_unless=PickupAtStore true,max=16"`
	DeliveryDate  string `json:"deliveryDate"`
	PickupAtStore bool   `json:"pickupAtStore"`
	// ShippingCost is what the client displayed; the server always recomputes it
	ShippingCost *decimal.Decimal `json:"shippingCost"`
}

type PlaceOrderRequest struct {
	Cart         []CartLine   `json:"cart" validate:"required,min=1,dive"`
	ShippingInfo ShippingInfo `json:"shippingInfo"`
}

// UpdateOrderRequest overwrites the editable, non-monetary fields of an order.
// mapstructure tags name the database columns.
type UpdateOrderRequest struct {
	CustomerFirstName string               `json:"customer_firstName" mapstructure:"customer_first_name" validate:"required,max=100"`
	CustomerLastName  string               `json:"customer_lastName" mapstructure:"customer_last_name" validate:"required,max=100"`
	CustomerDNI       string               `json:"customer_dni" mapstructure:"customer_dni" validate:"omitempty,max=32"`
	CustomerEmail     string               `json:"customer_email" mapstructure:"customer_email" validate:"omitempty,email,max=255"`
	CustomerPhone     string               `json:"customer_phone" mapstructure:"customer_phone" validate:"omitempty,max=64"`
	ShippingAddress   string               `json:"shipping_address" mapstructure:"shipping_address" validate:"omitempty,max=255"`
	ShippingCity      string               `json:"shipping_city" mapstructure:"shipping_city" validate:"omitempty,max=128"`
	ShippingZip       string               `json:"shipping_zip" mapstructure:"shipping_zip" validate:"omitempty,max=16"`
	PaymentStatus     domain.PaymentStatus `json:"payment_status" mapstructure:"payment_status" validate:"required"`
	ShippingStatus    string               `json:"shipping_status" mapstructure:"shipping_status" validate:"omitempty,max=64"`
}

// ListFilter narrows the order listing.
type ListFilter struct {
	OrderStatus   domain.OrderStatus
	PaymentStatus domain.PaymentStatus
	Query         string
}

func (r PlaceOrderRequest) lines() []shipping.Line {
	lines := make([]shipping.Line, 0, len(r.Cart))
	for _, l := range r.Cart {
		lines = append(lines, shipping.Line{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return lines
}

// customizations collects per-product customization, merging repeated lines.
func (r PlaceOrderRequest) customizations() map[int64]CartLine {
	out := make(map[int64]CartLine, len(r.Cart))
	for _, l := range r.Cart {
		prev, ok := out[l.ProductID]
		if !ok {
			out[l.ProductID] = l
			continue
		}
		prev.IsCustomized = prev.IsCustomized || l.IsCustomized
		if d := strings.TrimSpace(l.CustomDetail); d != "" {
			if prev.CustomDetail != "" {
				prev.CustomDetail += "; "
			}
			prev.CustomDetail += d
		}
		out[l.ProductID] = prev
	}
	return out
}
