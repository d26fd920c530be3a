package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

func init() {
	// money is rendered as JSON numbers, the way clients already consume it
	decimal.MarshalJSONWithoutQuotes = true
}

type ProductStatus string

const (
	ProductActive     ProductStatus = "active"
	ProductInactive   ProductStatus = "inactive"
	ProductOutOfStock ProductStatus = "out_of_stock"
)

func (s ProductStatus) Valid() bool {
	switch s {
	case ProductActive, ProductInactive, ProductOutOfStock:
		return true
	}
	return false
}

const (
	DefaultCurrency = "ARS"
	DefaultTaxRate  = 21
)

// Product catalog item. Discount percentage and final price are derived at
// read time and never stored.
type Product struct {
	ID                  int64                       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name                string                      `gorm:"size:255;not null;index" json:"name"`
	ShortDescription    string                      `gorm:"size:512" json:"short_description"`
	LongDescription     string                      `gorm:"type:text" json:"long_description"`
	Images              datatypes.JSONSlice[string] `json:"images"`
	VideoURL            string                      `gorm:"size:512" json:"video_url"`
	Category            datatypes.JSONSlice[string] `json:"category"`
	Status              ProductStatus               `gorm:"size:32;index" json:"status"`
	Enabled             bool                        `gorm:"not null" json:"enabled"`
	Stock               int                         `gorm:"not null;default:0" json:"stock"`
	BasePrice           decimal.Decimal             `gorm:"type:decimal(12,2);not null" json:"base_price"`
	SalePrice           decimal.NullDecimal         `gorm:"type:decimal(12,2)" json:"sale_price"`
	CostPrice           decimal.NullDecimal         `gorm:"type:decimal(12,2)" json:"cost_price"`
	Currency            string                      `gorm:"size:8" json:"currency"`
	Taxes               decimal.Decimal             `gorm:"type:decimal(5,2);not null" json:"taxes"`
	MinPurchaseQuantity int                         `json:"min_purchase_quantity"`
	MaxPurchaseQuantity *int                        `json:"max_purchase_quantity"`
	Weight              decimal.NullDecimal         `gorm:"type:decimal(10,3)" json:"weight"`
	Dimensions          string                      `gorm:"size:64" json:"dimensions"`
	Customizable        bool                        `gorm:"not null" json:"customizable"`
	HasProductionTime   bool                        `gorm:"not null" json:"has_production_time"`
	ProductionTimeHours int                         `json:"production_time_hours"`
	RestockTime         int                         `json:"restock_time"` // days
	Featured            bool                        `gorm:"not null" json:"featured"`
	CreatedAt           time.Time                   `json:"created_at"`
	UpdatedAt           time.Time                   `json:"updated_at"`
}

// TableName Specify table name
func (Product) TableName() string {
	return "products"
}

// ApplyDefaults fills the values the storefront assumes for a freshly created product.
func (p *Product) ApplyDefaults() {
	if p.Currency == "" {
		p.Currency = DefaultCurrency
	}
	if p.Status == "" {
		p.Status = ProductActive
	}
	if p.MinPurchaseQuantity <= 0 {
		p.MinPurchaseQuantity = 1
	}
	if p.Images == nil {
		p.Images = datatypes.JSONSlice[string]{}
	}
	if p.Category == nil {
		p.Category = datatypes.JSONSlice[string]{}
	}
}
