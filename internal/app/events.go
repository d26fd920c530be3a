package app

import (
	"go.uber.org/zap"

	"github.com/lymstore/storefront/internal/orders"
	"github.com/lymstore/storefront/pkg/metrics"
)

func (a *Application) subscribeOrderEvents() {
	subs := map[string]interface{}{
		orders.TopicOrderPlaced:        a.onOrderPlaced,
		orders.TopicOrderRejected:      a.onOrderRejected,
		orders.TopicOrderStatusChanged: a.onOrderStatusChanged,
	}
	for topic, fn := range subs {
		if err := a.bus.Subscribe(topic, fn); err != nil {
			zap.L().Error("subscribe order events", zap.String("topic", topic), zap.Error(err))
		}
	}
}

func (a *Application) onOrderPlaced(ev orders.PlacedEvent) {
	metrics.Incr(metrics.OrdersPlaced)
	metrics.AddCounter(metrics.OrderRevenueCents, ev.Order.TotalAmount.Shift(2).IntPart())
}

func (a *Application) onOrderRejected(ev orders.RejectedEvent) {
	metrics.Incr(metrics.OrdersRejected)
	zap.L().Debug("order rejected", zap.String("kind", string(ev.Kind)), zap.String("namespace", "orders"))
}

func (a *Application) onOrderStatusChanged(orders.StatusChangedEvent) {
	metrics.Incr(metrics.OrdersStatusChanged)
}
