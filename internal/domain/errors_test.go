package domain

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKindMatching(t *testing.T) {
	err := fmt.Errorf("place order: %w", InsufficientStock(7, "Vela", 2))

	assert.True(t, errors.Is(err, ErrInsufficientStock))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, KindInsufficientStock, KindOf(err))

	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, map[string]interface{}{"product_id": int64(7), "available": 2}, e.Details)
	assert.Contains(t, e.Error(), "available: 2")
}

func TestDatabaseErrorUnwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := DatabaseError(cause, "failed to insert order")

	assert.True(t, errors.Is(err, ErrDatabase))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, ErrorKind(""), KindOf(cause))
}

func TestStatusEnums(t *testing.T) {
	assert.True(t, OrderStatus("en proceso").Valid())
	assert.False(t, OrderStatus("shipped").Valid())
	assert.True(t, PaymentRefunded.Valid())
	assert.False(t, PaymentStatus("").Valid())
	assert.True(t, ProductOutOfStock.Valid())
}
