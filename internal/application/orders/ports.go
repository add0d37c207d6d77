package orders

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/bazar-api/internal/domain/entity"
	"github.com/jhoicas/bazar-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Garantiza que el descuento de stock y el alta del pedido sean atómicos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		orderRepo repository.OrderRepository,
	) error) error
}

// ReceiptGenerator genera el comprobante (PDF) de un pedido.
type ReceiptGenerator interface {
	GenerateReceipt(ctx context.Context, order *entity.Order, customer *entity.User) ([]byte, error)
}

// Recorder recibe eventos de negocio para métricas.
type Recorder interface {
	OrderCreated(items int, total decimal.Decimal)
	OrderRejected(reason string)
}

type nopRecorder struct{}

func (nopRecorder) OrderCreated(int, decimal.Decimal) {}
func (nopRecorder) OrderRejected(string)              {}
