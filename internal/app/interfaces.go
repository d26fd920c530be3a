package app

import (
	EventBus "github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/lymstore/storefront/config"
	"github.com/lymstore/storefront/internal/cart"
	"github.com/lymstore/storefront/internal/orders"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// OrdersProvider provides the order service and the bus it publishes on
type OrdersProvider interface {
	Orders() *orders.Service
	Bus() EventBus.Bus
}

// CartProvider provides the server side cart store
type CartProvider interface {
	Carts() cart.Store
}

// AppContext combines all provider interfaces for full application context
// Handlers should depend on specific providers or this combined interface
type AppContext interface {
	DBProvider
	ConfigProvider
	SchedulerProvider
	OrdersProvider
	CartProvider

	MigrateDB(track bool) error
	InitDb()
	DropAll()
}
