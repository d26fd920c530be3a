package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pendiente"
	OrderConfirmed  OrderStatus = "confirmado"
	OrderProcessing OrderStatus = "en proceso"
	OrderDelivered  OrderStatus = "entregado"
	OrderCancelled  OrderStatus = "cancelado"
)

var OrderStatuses = []OrderStatus{OrderPending, OrderConfirmed, OrderProcessing, OrderDelivered, OrderCancelled}

func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pendiente"
	PaymentPaid     PaymentStatus = "pagado"
	PaymentFailed   PaymentStatus = "fallido"
	PaymentRefunded PaymentStatus = "reembolsado"
)

var PaymentStatuses = []PaymentStatus{PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded}

func (s PaymentStatus) Valid() bool {
	for _, v := range PaymentStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// DefaultShippingStatus is assigned to every new order; shipping status is free text afterwards.
const DefaultShippingStatus = "preparando"

type Order struct {
	ID                int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerFirstName string          `gorm:"size:100;not null" json:"customer_firstName"`
	CustomerLastName  string          `gorm:"size:100;not null" json:"customer_lastName"`
	CustomerDNI       string          `gorm:"size:32" json:"customer_dni"`
	CustomerEmail     string          `gorm:"size:255" json:"customer_email"`
	CustomerPhone     string          `gorm:"size:64" json:"customer_phone"`
	ShippingAddress   string          `gorm:"size:255" json:"shipping_address"`
	ShippingCity      string          `gorm:"size:128" json:"shipping_city"`
	ShippingZip       string          `gorm:"size:16" json:"shipping_zip"`
	SubtotalAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal_amount"`
	ShippingCost      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"shipping_cost"`
	Taxes             decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"taxes"`
	TotalAmount       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Currency          string          `gorm:"size:8" json:"currency"`
	OrderStatus       OrderStatus     `gorm:"size:32;not null;index" json:"order_status"`
	PaymentStatus     PaymentStatus   `gorm:"size:32;not null;index" json:"payment_status"`
	ShippingStatus    string          `gorm:"size:64" json:"shipping_status"`
	OrderDate         time.Time       `gorm:"not null;index" json:"order_date"`
	UpdateDate        time.Time       `json:"update_date"`
	DeliveryDate      time.Time       `json:"delivery_date"`
	PickupAtStore     bool            `gorm:"not null" json:"pickup_at_store"`
	Items             []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

// TableName Specify table name
func (Order) TableName() string {
	return "orders"
}

// OrderItem is a line of an order. Prices are frozen at placement time; the
// product reference is weak and becomes null when the product is removed.
type OrderItem struct {
	ID              int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID         int64           `gorm:"not null;index" json:"order_id"`
	ProductID       *int64          `gorm:"index" json:"product_id"`
	Product         *Product        `gorm:"foreignKey:ProductID;constraint:OnDelete:SET NULL" json:"-"`
	Quantity        int             `gorm:"not null" json:"quantity"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	DiscountApplied decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"discount_applied"`
	ItemSubtotal    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"item_subtotal"`
	IsCustomized    bool            `gorm:"not null" json:"is_customized"`
	CustomDetail    string          `gorm:"type:text" json:"custom_detail"`
	// joined from products at read time
	ProductName *string `gorm:"->;-:migration" json:"productName"`
}

// TableName Specify table name
func (OrderItem) TableName() string {
	return "order_items"
}
