// Package dbtest opens throwaway sqlite databases migrated with the storefront schema.
package dbtest

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lymstore/storefront/internal/domain"
)

var seq atomic.Int64

// Open returns an in-memory database private to the calling test.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a single connection keeps the shared in-memory database alive and serialises writers
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(domain.Tables...))
	return db
}

// Money parses a decimal literal, failing loudly on typos in fixtures.
func Money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// CreateProduct inserts a product with sensible defaults for the fields the caller left empty.
func CreateProduct(t testing.TB, db *gorm.DB, p domain.Product) *domain.Product {
	t.Helper()
	p.ApplyDefaults()
	if p.Name == "" {
		p.Name = fmt.Sprintf("product-%d", seq.Add(1))
	}
	if p.Taxes.IsZero() {
		p.Taxes = decimal.NewFromInt(domain.DefaultTaxRate)
	}
	p.Enabled = true
	require.NoError(t, db.Create(&p).Error)
	return &p
}

// CreateZone inserts an active shipping zone.
func CreateZone(t testing.TB, db *gorm.DB, start, end int, cost string, days int) *domain.ShippingZone {
	t.Helper()
	z := domain.ShippingZone{
		ZoneName:        fmt.Sprintf("zone %d-%d", start, end),
		PostalCodeStart: start,
		PostalCodeEnd:   end,
		Province:        "Santa Fe",
		BaseCost:        Money(cost),
		EstimatedDays:   days,
		Active:          true,
	}
	require.NoError(t, db.Create(&z).Error)
	return &z
}
