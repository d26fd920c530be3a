package shipping

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lymstore/storefront/internal/catalog"
	"github.com/lymstore/storefront/internal/dbtest"
	"github.com/lymstore/storefront/internal/domain"
)

func fixedClock() time.Time {
	return time.Date(2024, time.March, 10, 15, 30, 0, 0, time.UTC)
}

func zone(id int64, start, end int, cost string, days int) domain.ShippingZone {
	return domain.ShippingZone{ID: id, PostalCodeStart: start, PostalCodeEnd: end,
		BaseCost: dbtest.Money(cost), EstimatedDays: days, Active: true}
}

func TestZoneIndexLookup(t *testing.T) {
	inactive := zone(9, 0, 99999, "1", 1)
	inactive.Active = false
	idx := NewZoneIndex([]domain.ShippingZone{
		zone(1, 4000, 4999, "500", 3),
		zone(2, 1000, 1999, "300", 1),
		zone(3, 4600, 4700, "450", 2), // narrower, nested in zone 1
		zone(4, 4600, 4700, "999", 9), // same width as 3, higher id
		inactive,
		zone(5, 7000, 6000, "1", 1), // inverted range is ignored
	})
	assert.Equal(t, 4, idx.Len())

	z, ok := idx.Lookup(4610)
	require.True(t, ok)
	assert.EqualValues(t, 3, z.ID)

	z, ok = idx.Lookup(4999)
	require.True(t, ok)
	assert.EqualValues(t, 1, z.ID)

	z, ok = idx.Lookup(1000)
	require.True(t, ok)
	assert.EqualValues(t, 2, z.ID)

	_, ok = idx.Lookup(9999)
	assert.False(t, ok)
	_, ok = idx.Lookup(6500)
	assert.False(t, ok)
}

func TestProductionDays(t *testing.T) {
	products := map[int64]*domain.Product{
		1: {ID: 1, Stock: 0, HasProductionTime: true, ProductionTimeHours: 24},
		2: {ID: 2, Stock: 5, HasProductionTime: true, ProductionTimeHours: 10},
		3: {ID: 3, Stock: 0, HasProductionTime: false, ProductionTimeHours: 48},
		4: {ID: 4, Stock: 0, HasProductionTime: true, ProductionTimeHours: math.MaxInt / 2},
	}
	days := func(lines ...Line) int {
		n, err := ProductionDays(products, lines)
		require.NoError(t, err)
		return n
	}
	assert.Equal(t, 3, days(Line{1, 3}))
	assert.Equal(t, 0, days(Line{2, 5}))
	// 2 units short * 10h = 20h -> 1 day
	assert.Equal(t, 1, days(Line{2, 7}))
	assert.Equal(t, 0, days(Line{3, 10}))
	// 24h + 20h = 44h -> 2 days
	assert.Equal(t, 2, days(Line{1, 1}, Line{2, 7}))
	assert.Equal(t, MaxProductionDays, days(Line{1, MaxProductionDays}))

	for _, lines := range [][]Line{
		{{1, MaxProductionDays + 1}},
		{{1, MaxProductionDays}, {2, 6}},
		{{4, 3}},
		{{1, math.MaxInt}},
	} {
		_, err := ProductionDays(products, lines)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), "lines %v: got %v", lines, err)
	}
}

func TestEstimateFor(t *testing.T) {
	products := map[int64]*domain.Product{
		1: {ID: 1, Stock: 0, HasProductionTime: true, ProductionTimeHours: 24},
		2: {ID: 2, Stock: 15},
	}
	zones := []domain.ShippingZone{zone(1, 4000, 4999, "500", 3)}
	now := fixedClock()

	est, err := EstimateFor(products, []Line{{1, 3}}, Destination{PostalCode: "4610"}, zones, now)
	require.NoError(t, err)
	assert.Equal(t, "500.00", est.ShippingCost.StringFixed(2))
	assert.Equal(t, 3, est.ProductionDays)
	assert.Equal(t, "2024-03-16", FormatDate(est.MinimumDeliveryDate))
	require.NotNil(t, est.Zone)

	est, err = EstimateFor(products, []Line{{1, 1}}, Destination{Pickup: true, PostalCode: "garbage"}, nil, now)
	require.NoError(t, err)
	assert.True(t, est.ShippingCost.IsZero())
	assert.Equal(t, "2024-03-11", FormatDate(est.MinimumDeliveryDate))
	assert.Nil(t, est.Zone)

	// duplicated lines are merged before production time is computed
	est, err = EstimateFor(products, []Line{{1, 1}, {1, 1}}, Destination{Pickup: true}, nil, now)
	require.NoError(t, err)
	assert.Equal(t, 2, est.ProductionDays)
}

func TestEstimateForErrors(t *testing.T) {
	products := map[int64]*domain.Product{2: {ID: 2, Stock: 15}}
	zones := []domain.ShippingZone{zone(1, 4000, 4999, "500", 3)}
	now := fixedClock()

	tests := []struct {
		name  string
		lines []Line
		dest  Destination
		want  error
	}{
		{"empty cart", nil, Destination{PostalCode: "4610"}, domain.ErrInvalidInput},
		{"zero quantity", []Line{{2, 0}}, Destination{PostalCode: "4610"}, domain.ErrInvalidInput},
		{"quantity above limit", []Line{{2, MaxLineQuantity + 1}}, Destination{Pickup: true}, domain.ErrInvalidInput},
		{"merged quantity above limit", []Line{{2, MaxLineQuantity}, {2, 1}}, Destination{Pickup: true}, domain.ErrInvalidInput},
		{"unknown product", []Line{{99, 1}}, Destination{PostalCode: "4610"}, domain.ErrInvalidInput},
		{"missing postal code", []Line{{2, 1}}, Destination{}, domain.ErrInvalidInput},
		{"non numeric postal code", []Line{{2, 1}}, Destination{PostalCode: "S2000"}, domain.ErrInvalidInput},
		{"no zone", []Line{{2, 1}}, Destination{PostalCode: "9999"}, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EstimateFor(products, tt.lines, tt.dest, zones, now)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestEstimatorWithDatabase(t *testing.T) {
	db := dbtest.Open(t)
	p := dbtest.CreateProduct(t, db, domain.Product{Name: "Vela", BasePrice: dbtest.Money("2499"), Stock: 15})
	dbtest.CreateZone(t, db, 4000, 4999, "500", 3)
	off := dbtest.CreateZone(t, db, 9000, 9999, "100", 1)
	require.NoError(t, db.Model(off).Update("active", false).Error)

	est := NewEstimator(catalog.NewGormRepository(db), NewGormZoneRepository(db), WithClock(fixedClock))
	q, err := est.Estimate(context.Background(), []Line{{p.ID, 2}}, Destination{PostalCode: " 4610 "})
	require.NoError(t, err)
	assert.Equal(t, "500.00", q.ShippingCost.StringFixed(2))
	assert.Equal(t, "2024-03-13", FormatDate(q.MinimumDeliveryDate))

	_, err = est.Estimate(context.Background(), []Line{{p.ID, 2}}, Destination{PostalCode: "9999"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestZoneRepository(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewGormZoneRepository(db)
	ctx := context.Background()

	z := &domain.ShippingZone{ZoneName: "Rosario", PostalCodeStart: 2000, PostalCodeEnd: 2999,
		Province: "Santa Fe", BaseCost: dbtest.Money("850"), EstimatedDays: 2, Active: true}
	require.NoError(t, repo.Create(ctx, z))
	require.NoError(t, repo.Create(ctx, &domain.ShippingZone{ZoneName: "CABA", PostalCodeStart: 1000,
		PostalCodeEnd: 1499, Province: "Buenos Aires", BaseCost: dbtest.Money("600")}))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "CABA", list[0].ZoneName)

	active, err := repo.ActiveZones(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	z.BaseCost = dbtest.Money("900")
	z.Active = false
	require.NoError(t, repo.Update(ctx, z))
	got, err := repo.GetByID(ctx, z.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
	assert.Equal(t, "900.00", got.BaseCost.StringFixed(2))

	err = repo.Create(ctx, &domain.ShippingZone{ZoneName: "bad", BaseCost: dbtest.Money("1"), PostalCodeStart: 10, PostalCodeEnd: 5})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	err = repo.Create(ctx, &domain.ShippingZone{ZoneName: "free"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	require.NoError(t, repo.Delete(ctx, z.ID))
	assert.True(t, errors.Is(repo.Delete(ctx, z.ID), domain.ErrNotFound))
	_, err = repo.GetByID(ctx, z.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.True(t, errors.Is(repo.Update(ctx, z), domain.ErrNotFound))
}
