// Package orders places orders atomically and serves the admin order queries
// and mutations.
package orders

import (
	"context"
	"errors"
	"strings"
	"time"

	EventBus "github.com/asaskevich/EventBus"
	"github.com/araddon/dateparse"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lymstore/storefront/internal/catalog"
	"github.com/lymstore/storefront/internal/domain"
	"github.com/lymstore/storefront/internal/pricing"
	"github.com/lymstore/storefront/internal/shipping"
)

type Service struct {
	db       *gorm.DB
	bus      EventBus.Bus
	now      func() time.Time
	currency string
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithEventBus(bus EventBus.Bus) Option {
	return func(s *Service) {
		s.bus = bus
	}
}

func WithCurrency(currency string) Option {
	return func(s *Service) {
		if currency != "" {
			s.currency = currency
		}
	}
}

func NewService(db *gorm.DB, opts ...Option) *Service {
	s := &Service{db: db, now: time.Now, currency: domain.DefaultCurrency}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlaceOrder validates the cart, prices it, recomputes shipping, writes the
// order with its items and deducts stock, all in one transaction. Nothing is
// persisted unless every step succeeds.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*domain.Order, error) {
	lines := req.lines()
	if err := shipping.ValidateLines(lines); err != nil {
		return nil, s.reject(err)
	}
	lines = shipping.MergeLines(lines)
	if err := shipping.ValidateLines(lines); err != nil {
		return nil, s.reject(err)
	}
	info := req.ShippingInfo
	if strings.TrimSpace(info.FirstName) == "" || strings.TrimSpace(info.LastName) == "" {
		return nil, s.reject(domain.InvalidInput("customer first and last name are required"))
	}
	custom := req.customizations()
	now := s.now()

	var order domain.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products, err := catalog.NewGormRepository(tx).FindByIDs(ctx, shipping.LineIDs(lines))
		if err != nil {
			return err
		}

		priced := make([]pricing.LinePricing, 0, len(lines))
		for _, l := range lines {
			p, ok := products[l.ProductID]
			if !ok {
				return domain.InvalidInput("product %d not found", l.ProductID)
			}
			if !p.Enabled || p.Status == domain.ProductInactive {
				return domain.InvalidInput("product %d is not available", l.ProductID)
			}
			if p.MaxPurchaseQuantity != nil && l.Quantity > *p.MaxPurchaseQuantity {
				return domain.InvalidInput("at most %d units of %s can be ordered", *p.MaxPurchaseQuantity, p.Name)
			}
			if !p.HasProductionTime && l.Quantity > p.Stock {
				return domain.InsufficientStock(p.ID, p.Name, p.Stock)
			}
			priced = append(priced, pricing.ComputeLinePricing(p, l.Quantity))
		}
		subtotal, taxes := pricing.Totals(priced)

		var zones []domain.ShippingZone
		if !info.PickupAtStore {
			if zones, err = shipping.NewGormZoneRepository(tx).ActiveZones(ctx); err != nil {
				return err
			}
		}
		quote, err := shipping.EstimateFor(products, lines,
			shipping.Destination{PostalCode: info.Zip, Pickup: info.PickupAtStore}, zones, now)
		if err != nil {
			return err
		}
		if info.ShippingCost != nil && !info.ShippingCost.Round(2).Equal(quote.ShippingCost) {
			zap.L().Warn("client shipping cost differs from server quote",
				zap.String("client", info.ShippingCost.String()),
				zap.String("server", quote.ShippingCost.String()),
				zap.String("namespace", "orders"))
		}
		deliveryDate, err := s.deliveryDate(info, quote, now)
		if err != nil {
			return err
		}

		order = domain.Order{
			CustomerFirstName: strings.TrimSpace(info.FirstName),
			CustomerLastName:  strings.TrimSpace(info.LastName),
			CustomerDNI:       strings.TrimSpace(info.DNI),
			CustomerEmail:     strings.TrimSpace(info.Email),
			CustomerPhone:     strings.TrimSpace(info.ContactNumber),
			ShippingAddress:   strings.TrimSpace(info.Address),
			ShippingCity:      strings.TrimSpace(info.City),
			ShippingZip:       strings.TrimSpace(info.Zip),
			SubtotalAmount:    subtotal,
			ShippingCost:      quote.ShippingCost,
			Taxes:             taxes,
			TotalAmount:       subtotal.Add(quote.ShippingCost).Add(taxes),
			Currency:          s.currency,
			OrderStatus:       domain.OrderPending,
			PaymentStatus:     domain.PaymentPending,
			ShippingStatus:    domain.DefaultShippingStatus,
			OrderDate:         now,
			UpdateDate:        now,
			DeliveryDate:      deliveryDate,
			PickupAtStore:     info.PickupAtStore,
		}
		if err := tx.Omit(clause.Associations).Create(&order).Error; err != nil {
			return domain.DatabaseError(err, "failed to insert order")
		}

		items := make([]domain.OrderItem, 0, len(lines))
		for i, l := range lines {
			productID := l.ProductID
			c := custom[l.ProductID]
			items = append(items, domain.OrderItem{
				OrderID:         order.ID,
				ProductID:       &productID,
				Quantity:        l.Quantity,
				UnitPrice:       priced[i].UnitPrice,
				DiscountApplied: priced[i].Discount,
				ItemSubtotal:    priced[i].LineSubtotal,
				IsCustomized:    c.IsCustomized,
				CustomDetail:    strings.TrimSpace(c.CustomDetail),
			})
		}
		if err := tx.Omit(clause.Associations).Create(&items).Error; err != nil {
			return domain.DatabaseError(err, "failed to insert order items")
		}
		order.Items = items

		stock := catalog.NewGormRepository(tx)
		for _, l := range lines {
			// made-to-order units beyond stock do not consume inventory
			qty := l.Quantity
			if onHand := products[l.ProductID].Stock; qty > onHand {
				qty = onHand
			}
			if err := stock.DecrementStock(ctx, l.ProductID, qty); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if domain.KindOf(err) == "" {
			err = domain.DatabaseError(err, "order transaction failed")
		}
		return nil, s.reject(err)
	}

	zap.L().Info("order placed",
		zap.Int64("order_id", order.ID),
		zap.String("total", order.TotalAmount.StringFixed(2)),
		zap.Int("items", len(order.Items)),
		zap.String("namespace", "orders"))
	s.publish(TopicOrderPlaced, PlacedEvent{Order: order})
	return &order, nil
}

// reject logs a refused checkout and announces it on the bus.
func (s *Service) reject(err error) error {
	zap.L().Warn("order placement failed", zap.Error(err), zap.String("namespace", "orders"))
	s.publish(TopicOrderRejected, RejectedEvent{Kind: domain.KindOf(err), Message: err.Error()})
	return err
}

// deliveryDate is the quoted minimum for deliveries. Pickup orders may choose a
// later date, never an earlier one.
func (s *Service) deliveryDate(info ShippingInfo, quote *shipping.Estimate, now time.Time) (time.Time, error) {
	if !info.PickupAtStore || strings.TrimSpace(info.DeliveryDate) == "" {
		return quote.MinimumDeliveryDate, nil
	}
	requested, err := dateparse.ParseIn(strings.TrimSpace(info.DeliveryDate), now.Location())
	if err != nil {
		return time.Time{}, domain.InvalidInput("invalid delivery date %q", info.DeliveryDate)
	}
	y, m, d := requested.Date()
	requested = time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	if requested.Before(quote.MinimumDeliveryDate) {
		return time.Time{}, domain.InvalidInput("delivery date cannot be before %s",
			shipping.FormatDate(quote.MinimumDeliveryDate))
	}
	return requested, nil
}

func itemsWithProductName(db *gorm.DB) *gorm.DB {
	return db.Select("order_items.*, products.name AS product_name").
		Joins("LEFT JOIN products ON products.id = order_items.product_id").
		Order("order_items.id ASC")
}

// List returns orders newest first, each with its items and the current
// product names.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]domain.Order, error) {
	query := s.db.WithContext(ctx).Preload("Items", itemsWithProductName)
	if filter.OrderStatus != "" {
		query = query.Where("order_status = ?", filter.OrderStatus)
	}
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(customer_first_name) LIKE ? OR LOWER(customer_last_name) LIKE ?", like, like)
	}
	var rows []domain.Order
	if err := query.Order("order_date DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, domain.DatabaseError(err, "failed to query orders")
	}
	return rows, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Order, error) {
	var order domain.Order
	err := s.db.WithContext(ctx).Preload("Items", itemsWithProductName).First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFound("order %d not found", id)
	} else if err != nil {
		return nil, domain.DatabaseError(err, "failed to query order")
	}
	return &order, nil
}

// UpdateStatus sets the order status. Any status may follow any other.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	if !status.Valid() {
		return domain.InvalidInput("invalid order status %q", status)
	}
	res := s.db.WithContext(ctx).Model(&domain.Order{}).Where("id = ?", id).Updates(map[string]interface{}{
		"order_status": status,
		"update_date":  s.now(),
	})
	if res.Error != nil {
		return domain.DatabaseError(res.Error, "failed to update order status")
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("order %d not found", id)
	}
	zap.L().Info("order status changed", zap.Int64("order_id", id),
		zap.String("status", string(status)), zap.String("namespace", "orders"))
	s.publish(TopicOrderStatusChanged, StatusChangedEvent{OrderID: id, Status: status})
	return nil
}

// UpdateFull overwrites customer, destination and payment/shipping status
// fields. Monetary fields and items are never touched.
func (s *Service) UpdateFull(ctx context.Context, id int64, req UpdateOrderRequest) error {
	if !req.PaymentStatus.Valid() {
		return domain.InvalidInput("invalid payment status %q", req.PaymentStatus)
	}
	if strings.TrimSpace(req.CustomerFirstName) == "" || strings.TrimSpace(req.CustomerLastName) == "" {
		return domain.InvalidInput("customer first and last name are required")
	}
	updates := map[string]interface{}{}
	if err := mapstructure.Decode(req, &updates); err != nil {
		return domain.InvalidInput("invalid order update: %v", err)
	}
	updates["payment_status"] = string(req.PaymentStatus)
	updates["update_date"] = s.now()

	res := s.db.WithContext(ctx).Model(&domain.Order{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return domain.DatabaseError(res.Error, "failed to update order")
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("order %d not found", id)
	}
	s.publish(TopicOrderUpdated, UpdatedEvent{OrderID: id})
	return nil
}

// Delete removes an order and its items.
func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&domain.OrderItem{}).Error; err != nil {
			return domain.DatabaseError(err, "failed to delete order items")
		}
		res := tx.Delete(&domain.Order{}, id)
		if res.Error != nil {
			return domain.DatabaseError(res.Error, "failed to delete order")
		}
		if res.RowsAffected == 0 {
			return domain.NotFound("order %d not found", id)
		}
		return nil
	})
	if err != nil {
		return err
	}
	zap.L().Info("order deleted", zap.Int64("order_id", id), zap.String("namespace", "orders"))
	s.publish(TopicOrderDeleted, DeletedEvent{OrderID: id})
	return nil
}

// Quote exposes the shipping quote for a cart without placing the order.
func (s *Service) Quote(ctx context.Context, lines []shipping.Line, dest shipping.Destination) (*shipping.Estimate, error) {
	est := shipping.NewEstimator(catalog.NewGormRepository(s.db), shipping.NewGormZoneRepository(s.db),
		shipping.WithClock(s.now))
	return est.Estimate(ctx, lines, dest)
}
