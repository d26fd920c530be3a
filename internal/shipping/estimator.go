package shipping

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lymstore/storefront/internal/domain"
)

const (
	hoursPerDay = 24
	// MaxLineQuantity bounds the units of a single product in one cart.
	MaxLineQuantity = 999
	// MaxProductionDays bounds the production lead time of a single order.
	MaxProductionDays = 365
)

// Line is a product and the quantity requested of it.
type Line struct {
	ProductID int64
	Quantity  int
}

// Destination is where an order goes: a postal code, or pickup at the store.
type Destination struct {
	PostalCode string
	Pickup     bool
}

// Estimate is the shipping quote for a cart.
type Estimate struct {
	ShippingCost        decimal.Decimal
	MinimumDeliveryDate time.Time
	ProductionDays      int
	// Zone is nil for pickup
	Zone *domain.ShippingZone
}

// ProductReader loads the products a cart refers to.
type ProductReader interface {
	FindByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Product, error)
}

// ZoneReader loads the zones considered for delivery.
type ZoneReader interface {
	ActiveZones(ctx context.Context) ([]domain.ShippingZone, error)
}

type Estimator struct {
	products ProductReader
	zones    ZoneReader
	now      func() time.Time
}

type Option func(*Estimator)

// WithClock overrides the source of "today".
func WithClock(now func() time.Time) Option {
	return func(e *Estimator) {
		e.now = now
	}
}

func NewEstimator(products ProductReader, zones ZoneReader, opts ...Option) *Estimator {
	e := &Estimator{products: products, zones: zones, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Estimate quotes shipping cost and earliest delivery date for lines sent to dest.
func (e *Estimator) Estimate(ctx context.Context, lines []Line, dest Destination) (*Estimate, error) {
	if err := ValidateLines(lines); err != nil {
		return nil, err
	}
	products, err := e.products.FindByIDs(ctx, LineIDs(lines))
	if err != nil {
		return nil, err
	}
	var zones []domain.ShippingZone
	if !dest.Pickup {
		zones, err = e.zones.ActiveZones(ctx)
		if err != nil {
			return nil, err
		}
	}
	return EstimateFor(products, lines, dest, zones, e.now())
}

// EstimateFor computes the quote from already loaded products and zones.
func EstimateFor(products map[int64]*domain.Product, lines []Line, dest Destination,
	zones []domain.ShippingZone, now time.Time) (*Estimate, error) {
	if err := ValidateLines(lines); err != nil {
		return nil, err
	}
	lines = MergeLines(lines)
	if err := ValidateLines(lines); err != nil {
		return nil, err
	}
	for _, l := range lines {
		if _, ok := products[l.ProductID]; !ok {
			return nil, domain.InvalidInput("product %d not found", l.ProductID)
		}
	}
	days, err := ProductionDays(products, lines)
	if err != nil {
		return nil, err
	}
	today := startOfDay(now)

	if dest.Pickup {
		return &Estimate{
			ShippingCost:        decimal.Zero,
			MinimumDeliveryDate: today.AddDate(0, 0, days),
			ProductionDays:      days,
		}, nil
	}

	code, err := ParsePostalCode(dest.PostalCode)
	if err != nil {
		return nil, err
	}
	zone, ok := NewZoneIndex(zones).Lookup(code)
	if !ok {
		return nil, domain.NotFound("no shipping zone serves postal code %d", code)
	}
	return &Estimate{
		ShippingCost:        zone.BaseCost.Round(2),
		MinimumDeliveryDate: today.AddDate(0, 0, days+zone.EstimatedDays),
		ProductionDays:      days,
		Zone:                &zone,
	}, nil
}

// ProductionDays is the number of whole days needed to produce the units that
// stock cannot cover. Only products with production time enabled count.
// Lead times beyond MaxProductionDays are rejected as invalid input.
func ProductionDays(products map[int64]*domain.Product, lines []Line) (int, error) {
	const maxHours = MaxProductionDays * hoursPerDay
	totalHours := 0
	for _, l := range lines {
		p, ok := products[l.ProductID]
		if !ok || !p.HasProductionTime || p.ProductionTimeHours <= 0 {
			continue
		}
		toProduce := l.Quantity - p.Stock
		if toProduce <= 0 {
			continue
		}
		if toProduce > (maxHours-totalHours)/p.ProductionTimeHours {
			return 0, domain.InvalidInput("production of product %d would take more than %d days",
				p.ID, MaxProductionDays)
		}
		totalHours += toProduce * p.ProductionTimeHours
	}
	return int(math.Ceil(float64(totalHours) / hoursPerDay)), nil
}

// ParsePostalCode accepts a purely numeric postal code.
func ParsePostalCode(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, domain.InvalidInput("postal code is required for delivery")
	}
	code, err := strconv.Atoi(s)
	if err != nil || code < 0 {
		return 0, domain.InvalidInput("invalid postal code %q", s)
	}
	return code, nil
}

// ValidateLines rejects empty carts, non-positive ids and quantities outside
// 1..MaxLineQuantity.
func ValidateLines(lines []Line) error {
	if len(lines) == 0 {
		return domain.InvalidInput("cart is empty")
	}
	for _, l := range lines {
		if l.ProductID <= 0 {
			return domain.InvalidInput("invalid product id %d", l.ProductID)
		}
		if l.Quantity <= 0 {
			return domain.InvalidInput("invalid quantity %d for product %d", l.Quantity, l.ProductID)
		}
		if l.Quantity > MaxLineQuantity {
			return domain.InvalidInput("quantity for product %d cannot exceed %d", l.ProductID, MaxLineQuantity)
		}
	}
	return nil
}

// MergeLines folds repeated products into a single line, keeping first-appearance order.
func MergeLines(lines []Line) []Line {
	pos := make(map[int64]int, len(lines))
	merged := make([]Line, 0, len(lines))
	for _, l := range lines {
		if i, ok := pos[l.ProductID]; ok {
			merged[i].Quantity += l.Quantity
			continue
		}
		pos[l.ProductID] = len(merged)
		merged = append(merged, l)
	}
	return merged
}

// LineIDs returns the distinct product ids of lines in order of first appearance.
func LineIDs(lines []Line) []int64 {
	seen := make(map[int64]struct{}, len(lines))
	ids := make([]int64, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.ProductID]; ok {
			continue
		}
		seen[l.ProductID] = struct{}{}
		ids = append(ids, l.ProductID)
	}
	return ids
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// FormatDate renders a delivery date the way the API exposes it.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
