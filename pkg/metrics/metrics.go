// Package metrics keeps a small local time series store for runtime gauges
// and business counters.
package metrics

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/nakabonne/tstorage"
	"github.com/pkg/errors"
)

const (
	OrdersPlaced        = "storefront_orders_placed"
	OrdersRejected      = "storefront_orders_rejected"
	OrdersStatusChanged = "storefront_orders_status_changed"
	OrderRevenueCents   = "storefront_order_revenue_cents"
	CartsSwept          = "storefront_carts_swept"
	SystemCPUUse        = "system_cpuuse"
	SystemMemUse        = "system_memuse"
)

type Point struct {
	Timestamp int64 `json:"timestamp"`
	Value     int64 `json:"value"`
}

var (
	mu       sync.Mutex
	storage  tstorage.Storage
	counters = map[string]int64{}
)

// InitMetrics opens the store under <workdir>/data/metrics.
func InitMetrics(workdir string) error {
	mu.Lock()
	defer mu.Unlock()
	if storage != nil {
		return nil
	}
	dir := filepath.Join(workdir, "data", "metrics")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "create metrics dir")
	}
	st, err := tstorage.NewStorage(
		tstorage.WithDataPath(dir),
		tstorage.WithTimestampPrecision(tstorage.Seconds),
		tstorage.WithPartitionDuration(time.Hour),
		tstorage.WithRetention(7*24*time.Hour),
	)
	if err != nil {
		return errors.Wrap(err, "open metrics storage")
	}
	storage = st
	counters = map[string]int64{}
	return nil
}

func insert(name string, value int64) {
	if storage == nil {
		return
	}
	_ = storage.InsertRows([]tstorage.Row{{
		Metric:    name,
		DataPoint: tstorage.DataPoint{Timestamp: time.Now().Unix(), Value: float64(value)},
	}})
}

func SetGauge(name string, value int64) {
	mu.Lock()
	defer mu.Unlock()
	insert(name, value)
}

// AddCounter increments a cumulative counter and records its new value.
func AddCounter(name string, delta int64) int64 {
	mu.Lock()
	defer mu.Unlock()
	counters[name] += delta
	insert(name, counters[name])
	return counters[name]
}

func Incr(name string) int64 {
	return AddCounter(name, 1)
}

func Counter(name string) int64 {
	mu.Lock()
	defer mu.Unlock()
	return counters[name]
}

// Query returns the points of a metric between start and end, both inclusive.
func Query(name string, start, end time.Time) ([]Point, error) {
	mu.Lock()
	st := storage
	mu.Unlock()
	if st == nil {
		return []Point{}, nil
	}
	pts, err := st.Select(name, nil, start.Unix(), end.Unix()+1)
	if errors.Is(err, tstorage.ErrNoDataPoints) {
		return []Point{}, nil
	}
	if err != nil {
		return nil, err
	}
	result := make([]Point, 0, len(pts))
	for _, p := range pts {
		result = append(result, Point{Timestamp: p.Timestamp, Value: int64(p.Value)})
	}
	return result, nil
}

func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if storage == nil {
		return nil
	}
	err := storage.Close()
	storage = nil
	return err
}
