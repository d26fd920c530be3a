package orders

import "github.com/lymstore/storefront/internal/domain"

// Topics published on the order event bus. Handlers run synchronously after
// the originating transaction has committed.
const (
	TopicOrderPlaced        = "orders:placed"
	TopicOrderRejected      = "orders:rejected"
	TopicOrderStatusChanged = "orders:status_changed"
	TopicOrderUpdated       = "orders:updated"
	TopicOrderDeleted       = "orders:deleted"
)

type PlacedEvent struct {
	Order domain.Order
}

// RejectedEvent reports a refused checkout, whether it failed validation or
// was rolled back.
type RejectedEvent struct {
	Kind    domain.ErrorKind
	Message string
}

type StatusChangedEvent struct {
	OrderID int64
	Status  domain.OrderStatus
}

type UpdatedEvent struct {
	OrderID int64
}

type DeletedEvent struct {
	OrderID int64
}

func (s *Service) publish(topic string, event interface{}) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(topic, event)
}
