package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsLifecycle(t *testing.T) {
	require.NoError(t, InitMetrics(t.TempDir()))
	defer Close()

	start := time.Now().Add(-time.Minute)
	SetGauge(SystemMemUse, 512)
	assert.Equal(t, int64(1), Incr(OrdersPlaced))
	assert.Equal(t, int64(3), AddCounter(OrdersPlaced, 2))
	assert.Equal(t, int64(3), Counter(OrdersPlaced))

	pts, err := Query(SystemMemUse, start, time.Now())
	require.NoError(t, err)
	require.Len(t, pts, 1)
	assert.Equal(t, int64(512), pts[0].Value)

	pts, err = Query("unknown_metric", start, time.Now())
	require.NoError(t, err)
	assert.Empty(t, pts)
}

func TestMetricsWithoutStorage(t *testing.T) {
	require.NoError(t, Close())
	SetGauge(SystemCPUUse, 10)
	pts, err := Query(SystemCPUUse, time.Now().Add(-time.Hour), time.Now())
	require.NoError(t, err)
	assert.Empty(t, pts)
}
