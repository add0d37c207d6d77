package orders

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/bazar-api/internal/application/dto"
	"github.com/jhoicas/bazar-api/internal/domain"
	"github.com/jhoicas/bazar-api/internal/domain/entity"
	"github.com/jhoicas/bazar-api/internal/domain/repository"
)

// Viewer identifica a quien consulta un pedido (dueño o admin).
type Viewer struct {
	UserID int64
	Role   string
}

func (v Viewer) canSee(o *entity.Order) bool {
	return v.Role == entity.RoleAdmin || o.UserID == v.UserID
}

// OrderUseCase crea y consulta pedidos. El stock se descuenta en la misma transacción que el alta.
type OrderUseCase struct {
	txRunner  TxRunner
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
	receipts  ReceiptGenerator
	recorder  Recorder
}

// NewOrderUseCase construye el caso de uso. recorder puede ser nil.
func NewOrderUseCase(
	txRunner TxRunner,
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	receipts ReceiptGenerator,
	recorder Recorder,
) *OrderUseCase {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &OrderUseCase{
		txRunner:  txRunner,
		orderRepo: orderRepo,
		userRepo:  userRepo,
		receipts:  receipts,
		recorder:  recorder,
	}
}

// Create valida las líneas, bloquea los productos (orden ascendente de ID para evitar interbloqueos),
// comprueba y descuenta stock y guarda el pedido. Líneas repetidas del mismo producto se suman.
func (uc *OrderUseCase) Create(ctx context.Context, userID int64, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	qtyByProduct := make(map[int64]int, len(in.Items))
	for _, item := range in.Items {
		if item.ProductoID <= 0 || item.Cantidad < 1 {
			return nil, domain.ErrInvalidInput
		}
		qtyByProduct[item.ProductoID] += item.Cantidad
	}
	ids := make([]int64, 0, len(qtyByProduct))
	for id := range qtyByProduct {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	now := time.Now()
	order := &entity.Order{
		Reference: uuid.New().String(),
		UserID:    userID,
		Status:    entity.OrderStatusPending,
		Total:     decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, orderRepo repository.OrderRepository) error {
		for _, id := range ids {
			qty := qtyByProduct[id]
			product, err := productRepo.GetByIDForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if product == nil {
				return fmt.Errorf("producto %d: %w", id, domain.ErrNotFound)
			}
			if product.Stock < qty {
				return fmt.Errorf("%s (disponible %d): %w", product.Name, product.Stock, domain.ErrInsufficientStock)
			}
			if err := productRepo.UpdateStock(ctx, id, product.Stock-qty); err != nil {
				return err
			}
			subtotal := product.Price.Mul(decimal.NewFromInt(int64(qty)))
			order.Items = append(order.Items, entity.OrderItem{
				ProductID:   id,
				ProductName: product.Name,
				Quantity:    qty,
				UnitPrice:   product.Price,
				Subtotal:    subtotal,
			})
			order.Total = order.Total.Add(subtotal)
		}
		return orderRepo.Create(ctx, order)
	})
	if err != nil {
		uc.recorder.OrderRejected(rejectReason(err))
		return nil, err
	}
	uc.recorder.OrderCreated(len(order.Items), order.Total)
	return ToOrderResponse(order), nil
}

// Get devuelve un pedido visible para el viewer.
func (uc *OrderUseCase) Get(ctx context.Context, id int64, viewer Viewer) (*dto.OrderResponse, error) {
	order, err := uc.load(ctx, id, viewer)
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(order), nil
}

// ListMine lista los pedidos del usuario, más recientes primero.
func (uc *OrderUseCase) ListMine(ctx context.Context, userID int64) ([]dto.OrderResponse, error) {
	list, err := uc.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, *ToOrderResponse(o))
	}
	return out, nil
}

// UpdateStatus cambia el estado. Al cancelar un pedido no cancelado se repone el stock de sus líneas.
func (uc *OrderUseCase) UpdateStatus(ctx context.Context, id int64, status string) (*dto.OrderResponse, error) {
	if !entity.ValidOrderStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	var updated *entity.Order
	err := uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, orderRepo repository.OrderRepository) error {
		order, err := orderRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Status == entity.OrderStatusCancelled && status != entity.OrderStatusCancelled {
			return domain.ErrInvalidInput // un pedido cancelado no se reabre
		}
		if status == entity.OrderStatusCancelled && order.Status != entity.OrderStatusCancelled {
			for _, item := range order.Items {
				product, err := productRepo.GetByIDForUpdate(ctx, item.ProductID)
				if err != nil {
					return err
				}
				if product == nil {
					continue // producto eliminado del catálogo
				}
				if err := productRepo.UpdateStock(ctx, item.ProductID, product.Stock+item.Quantity); err != nil {
					return err
				}
			}
		}
		if err := orderRepo.UpdateStatus(ctx, id, status); err != nil {
			return err
		}
		order.Status = status
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(updated), nil
}

// Receipt genera el comprobante PDF de un pedido visible para el viewer.
func (uc *OrderUseCase) Receipt(ctx context.Context, id int64, viewer Viewer) ([]byte, *entity.Order, error) {
	order, err := uc.load(ctx, id, viewer)
	if err != nil {
		return nil, nil, err
	}
	customer, err := uc.userRepo.GetByID(ctx, order.UserID)
	if err != nil {
		return nil, nil, err
	}
	if customer == nil {
		customer = &entity.User{ID: order.UserID}
	}
	pdf, err := uc.receipts.GenerateReceipt(ctx, order, customer)
	if err != nil {
		return nil, nil, err
	}
	return pdf, order, nil
}

func (uc *OrderUseCase) load(ctx context.Context, id int64, viewer Viewer) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if !viewer.canSee(order) {
		return nil, domain.ErrForbidden
	}
	return order, nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return "stock"
	case errors.Is(err, domain.ErrNotFound):
		return "producto"
	default:
		return "error"
	}
}

// ToOrderResponse convierte la entidad al formato de la API.
func ToOrderResponse(o *entity.Order) *dto.OrderResponse {
	if o == nil {
		return nil
	}
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.OrderItemResponse{
			ProductoID:     it.ProductID,
			Nombre:         it.ProductName,
			Cantidad:       it.Quantity,
			PrecioUnitario: it.UnitPrice,
			Subtotal:       it.Subtotal,
		})
	}
	return &dto.OrderResponse{
		ID:         o.ID,
		Referencia: o.Reference,
		UsuarioID:  o.UserID,
		Estado:     o.Status,
		Total:      o.Total,
		Items:      items,
		CreatedAt:  o.CreatedAt,
	}
}
