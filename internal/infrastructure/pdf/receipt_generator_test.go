package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bazar-api/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":         "$0,00",
		"19.95":     "$19,95",
		"1234.5":    "$1.234,50",
		"1000000":   "$1.000.000,00",
		"-2500.125": "-$2.500,13",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), in)
	}
}

func TestGenerateReceipt_DevuelvePDF(t *testing.T) {
	order := &entity.Order{
		ID:        7,
		Reference: "5f1c7a52-54f1-4d7c-9b43-0e1e0a4a6c11",
		UserID:    1,
		Status:    entity.OrderStatusPending,
		Total:     decimal.RequireFromString("90.00"),
		CreatedAt: time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC),
		Items: []entity.OrderItem{
			{ProductID: 1, ProductName: "Taza", Quantity: 2, UnitPrice: decimal.RequireFromString("15.00"), Subtotal: decimal.RequireFromString("30.00")},
			{ProductID: 2, ProductName: "Lámpara", Quantity: 1, UnitPrice: decimal.RequireFromString("60.00"), Subtotal: decimal.RequireFromString("60.00")},
		},
	}
	customer := &entity.User{ID: 1, Name: "Ana", Email: "ana@example.com"}

	out, err := NewReceiptGenerator("Bazar").GenerateReceipt(context.Background(), order, customer)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateReceipt_PedidoNil(t *testing.T) {
	_, err := NewReceiptGenerator("").GenerateReceipt(context.Background(), nil, nil)
	assert.Error(t, err)
}
