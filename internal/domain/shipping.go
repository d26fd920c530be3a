package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShippingZone maps an inclusive numeric postal-code range to a flat shipping cost.
type ShippingZone struct {
	ID              int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	ZoneName        string          `gorm:"size:128;not null" json:"zone_name"`
	PostalCodeStart int             `gorm:"not null;index" json:"postal_code_start"`
	PostalCodeEnd   int             `gorm:"not null" json:"postal_code_end"`
	Province        string          `gorm:"size:128" json:"province"`
	BaseCost        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"base_cost"`
	CostPerKg       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"cost_per_kg"`
	EstimatedDays   int             `gorm:"not null" json:"estimated_days"`
	Carrier         string          `gorm:"size:128" json:"carrier"`
	Active          bool            `gorm:"not null;index" json:"active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// TableName Specify table name
func (ShippingZone) TableName() string {
	return "shipping_zones"
}

func (z ShippingZone) Contains(code int) bool {
	return code >= z.PostalCodeStart && code <= z.PostalCodeEnd
}

func (z ShippingZone) Width() int {
	return z.PostalCodeEnd - z.PostalCodeStart
}
