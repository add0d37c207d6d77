// Package memory implementa los puertos de persistencia en memoria con transacciones por snapshot.
// Sirve para levantar la API sin PostgreSQL (DB_DRIVER=memory) y como doble en los tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/bazar-api/internal/application/orders"
	"github.com/jhoicas/bazar-api/internal/domain"
	"github.com/jhoicas/bazar-api/internal/domain/entity"
	"github.com/jhoicas/bazar-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository = (*ProductRepo)(nil)
	_ repository.UserRepository    = (*UserRepo)(nil)
	_ repository.OrderRepository   = (*OrderRepo)(nil)
	_ orders.TxRunner              = (*Store)(nil)
)

type state struct {
	products    map[int64]entity.Product
	users       map[int64]entity.User
	orders      map[int64]entity.Order
	nextProduct int64
	nextUser    int64
	nextOrder   int64
	nextItem    int64
}

func (s state) clone() state {
	c := s
	c.products = make(map[int64]entity.Product, len(s.products))
	for k, v := range s.products {
		c.products[k] = v
	}
	c.users = make(map[int64]entity.User, len(s.users))
	for k, v := range s.users {
		c.users[k] = v
	}
	c.orders = make(map[int64]entity.Order, len(s.orders))
	for k, v := range s.orders {
		c.orders[k] = copyOrder(v)
	}
	return c
}

func copyOrder(o entity.Order) entity.Order {
	o.Items = append([]entity.OrderItem(nil), o.Items...)
	return o
}

// Store contiene todo el estado; un único mutex serializa operaciones y transacciones.
type Store struct {
	mu sync.Mutex
	st state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: state{
		products: map[int64]entity.Product{},
		users:    map[int64]entity.User{},
		orders:   map[int64]entity.Order{},
	}}
}

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// Orders repositorio de pedidos fuera de transacción.
func (s *Store) Orders() *OrderRepo { return &OrderRepo{s: s} }

// Run ejecuta fn con el estado bloqueado; si fn falla se restaura el snapshot previo (rollback).
func (s *Store) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	snapshot := s.st.clone()
	if err := fn(&ProductRepo{s: s, inTx: true}, &OrderRepo{s: s, inTx: true}); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

func (s *Store) lock(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// ProductRepo implementación en memoria de ProductRepository.
type ProductRepo struct {
	s    *Store
	inTx bool
}

// Create asigna ID y guarda el producto.
func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	defer r.s.lock(r.inTx)()
	r.s.st.nextProduct++
	p.ID = r.s.st.nextProduct
	r.s.st.products[p.ID] = *p
	return nil
}

// GetByID devuelve una copia o nil.
func (r *ProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	defer r.s.lock(r.inTx)()
	p, ok := r.s.st.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// GetByIDForUpdate en memoria equivale a GetByID: el bloqueo lo da la transacción.
func (r *ProductRepo) GetByIDForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

// List devuelve el catálogo ordenado por ID.
func (r *ProductRepo) List(_ context.Context) ([]*entity.Product, error) {
	defer r.s.lock(r.inTx)()
	list := make([]*entity.Product, 0, len(r.s.st.products))
	for _, p := range r.s.st.products {
		p := p
		list = append(list, &p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

// Update reemplaza el producto si existe.
func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	defer r.s.lock(r.inTx)()
	if _, ok := r.s.st.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.st.products[p.ID] = *p
	return nil
}

// UpdateStock fija el stock de un producto.
func (r *ProductRepo) UpdateStock(_ context.Context, id int64, stock int) error {
	defer r.s.lock(r.inTx)()
	p, ok := r.s.st.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Stock = stock
	r.s.st.products[id] = p
	return nil
}

// Delete elimina un producto.
func (r *ProductRepo) Delete(_ context.Context, id int64) error {
	defer r.s.lock(r.inTx)()
	delete(r.s.st.products, id)
	return nil
}

// UserRepo implementación en memoria de UserRepository.
type UserRepo struct {
	s *Store
}

// Create asigna ID; el email es único sin distinguir mayúsculas.
func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.st.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.s.st.nextUser++
	u.ID = r.s.st.nextUser
	r.s.st.users[u.ID] = *u
	return nil
}

// GetByID devuelve una copia o nil.
func (r *UserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.st.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// Update reemplaza el usuario si existe.
func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.users[u.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.st.users[u.ID] = *u
	return nil
}

// GetByEmail busca por email sin distinguir mayúsculas.
func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.st.users {
		if strings.EqualFold(u.Email, email) {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

// OrderRepo implementación en memoria de OrderRepository.
type OrderRepo struct {
	s    *Store
	inTx bool
}

// Create asigna IDs a la cabecera y a cada línea.
func (r *OrderRepo) Create(_ context.Context, o *entity.Order) error {
	defer r.s.lock(r.inTx)()
	r.s.st.nextOrder++
	o.ID = r.s.st.nextOrder
	for i := range o.Items {
		r.s.st.nextItem++
		o.Items[i].ID = r.s.st.nextItem
		o.Items[i].OrderID = o.ID
	}
	r.s.st.orders[o.ID] = copyOrder(*o)
	return nil
}

// GetByID devuelve una copia o nil.
func (r *OrderRepo) GetByID(_ context.Context, id int64) (*entity.Order, error) {
	defer r.s.lock(r.inTx)()
	o, ok := r.s.st.orders[id]
	if !ok {
		return nil, nil
	}
	c := copyOrder(o)
	return &c, nil
}

// ListByUser lista los pedidos del usuario, más recientes primero.
func (r *OrderRepo) ListByUser(_ context.Context, userID int64) ([]*entity.Order, error) {
	defer r.s.lock(r.inTx)()
	var list []*entity.Order
	for _, o := range r.s.st.orders {
		if o.UserID == userID {
			c := copyOrder(o)
			list = append(list, &c)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return list, nil
}

// UpdateStatus cambia el estado de un pedido.
func (r *OrderRepo) UpdateStatus(_ context.Context, id int64, status string) error {
	defer r.s.lock(r.inTx)()
	o, ok := r.s.st.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = status
	r.s.st.orders[id] = o
	return nil
}
