package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jhoicas/bazar-api/internal/domain"
	"github.com/jhoicas/bazar-api/internal/storefront"
)

const helpText = `Comandos:
  productos                      lista el catálogo
  json                           respuesta cruda de /productos
  login <email> <password>       inicia sesión
  registro <nombre> <email> <password>
  salir                          cierra la sesión
  agregar <id> [cantidad]        agrega al carrito
  quitar <id>                    quita una línea del carrito
  cantidad <id> <n>              cambia la cantidad (0 quita la línea)
  carrito                        muestra el carrito
  comprar                        confirma el carrito como pedido
  pedidos                        lista tus pedidos
  ayuda                          esta ayuda
  fin                            termina el programa
`

// shell interpreta los comandos de la tienda sobre un Storefront.
type shell struct {
	sf    *storefront.Storefront
	out   io.Writer
	money money
}

func newShell(sf *storefront.Storefront, out io.Writer, m money) *shell {
	return &shell{sf: sf, out: out, money: m}
}

// run lee líneas de in hasta EOF o el comando fin.
func (s *shell) run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	s.prompt()
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if quit := s.exec(ctx, scanner.Text()); quit {
			return nil
		}
		s.prompt()
	}
	return scanner.Err()
}

func (s *shell) prompt() { fmt.Fprint(s.out, "bazar> ") }

// exec ejecuta una línea; true si hay que terminar.
func (s *shell) exec(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	switch cmd {
	case "fin", "exit", "quit":
		return true
	case "ayuda", "help":
		fmt.Fprint(s.out, helpText)
	case "productos":
		s.listProducts()
	case "json":
		raw, err := s.sf.Catalog.RawProducts(ctx)
		if err != nil {
			s.alert(err)
			return false
		}
		fmt.Fprintln(s.out, raw)
	case "login":
		if len(args) != 2 {
			s.usage("login <email> <password>")
			return false
		}
		if _, err := s.sf.Session.Login(ctx, args[0], args[1]); err != nil {
			s.alert(err)
		}
	case "registro":
		if len(args) < 3 {
			s.usage("registro <nombre> <email> <password>")
			return false
		}
		n := len(args)
		nombre := strings.Join(args[:n-2], " ")
		if _, err := s.sf.Session.Register(ctx, nombre, args[n-2], args[n-1]); err != nil {
			s.alert(err)
		}
	case "salir":
		s.sf.Session.Logout()
	case "agregar":
		s.addToCart(args)
	case "quitar":
		id, ok := s.productID(args, 1, "quitar <id>")
		if ok {
			s.sf.Store.RemoveFromCart(id)
		}
	case "cantidad":
		id, ok := s.productID(args, 2, "cantidad <id> <n>")
		if !ok {
			return false
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			s.usage("cantidad <id> <n>")
			return false
		}
		if err := s.sf.Store.ChangeQuantity(id, n); err != nil {
			s.alert(err)
		}
	case "carrito":
		s.showCart()
	case "comprar":
		pedido, err := s.sf.Orders.Checkout(ctx)
		if errors.Is(err, domain.ErrInvalidInput) {
			fmt.Fprintln(s.out, "⚠️ El carrito está vacío")
			return false
		}
		if err != nil {
			s.alert(err)
			return false
		}
		fmt.Fprintf(s.out, "✅ Pedido #%d confirmado (%s) · Total %s\n", pedido.ID, pedido.Referencia, s.money.format(pedido.Total))
	case "pedidos":
		s.listOrders(ctx)
	default:
		fmt.Fprintf(s.out, "Comando desconocido %q. Escribe ayuda.\n", cmd)
	}
	return false
}

func (s *shell) listProducts() {
	products := s.sf.Store.Products()
	if len(products) == 0 {
		fmt.Fprintln(s.out, "No hay productos disponibles")
		return
	}
	for _, p := range products {
		fmt.Fprintf(s.out, "%4d  %-30s %12s  stock %d\n", p.ID, p.Nombre, s.money.format(p.Precio), p.Stock)
		if p.Descripcion != "" {
			fmt.Fprintf(s.out, "      %s\n", p.Descripcion)
		}
	}
}

func (s *shell) addToCart(args []string) {
	id, ok := s.productID(args, 1, "agregar <id> [cantidad]")
	if !ok {
		return
	}
	cantidad := 1
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			s.usage("agregar <id> [cantidad]")
			return
		}
		cantidad = n
	}
	if err := s.sf.Store.AddToCart(id, cantidad); err != nil {
		s.alert(err)
		return
	}
	fmt.Fprintln(s.out, "Producto agregado al carrito")
}

func (s *shell) showCart() {
	items := s.sf.Store.Items()
	if len(items) == 0 {
		fmt.Fprintln(s.out, "El carrito está vacío")
		return
	}
	for _, it := range items {
		fmt.Fprintf(s.out, "%4d  %-30s %3d x %10s = %12s\n",
			it.ID, it.Nombre, it.Cantidad, s.money.format(it.Precio), s.money.format(it.Subtotal()))
	}
	fmt.Fprintf(s.out, "Total (%d artículos): %s\n", s.sf.Store.ItemCount(), s.money.format(s.sf.Store.CalculateTotal()))
}

func (s *shell) listOrders(ctx context.Context) {
	list, err := s.sf.Orders.List(ctx)
	if err != nil {
		s.alert(err)
		return
	}
	if len(list) == 0 {
		fmt.Fprintln(s.out, "Todavía no tienes pedidos")
		return
	}
	for _, p := range list {
		fmt.Fprintf(s.out, "#%d  %s  %-10s %12s  %d líneas\n",
			p.ID, p.CreatedAt.Format("2006-01-02 15:04"), p.Estado, s.money.format(p.Total), len(p.Items))
	}
}

func (s *shell) productID(args []string, want int, usage string) (int64, bool) {
	if len(args) < want {
		s.usage(usage)
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		s.usage(usage)
		return 0, false
	}
	return id, true
}

func (s *shell) usage(u string) {
	fmt.Fprintf(s.out, "Uso: %s\n", u)
}

// alert ⚠️ para errores que el usuario puede corregir, ❌ para fallos.
func (s *shell) alert(err error) {
	prefix := "❌"
	if isWarning(err) {
		prefix = "⚠️"
	}
	fmt.Fprintf(s.out, "%s %s\n", prefix, capitalize(err.Error()))
}

func isWarning(err error) bool {
	var apiErr *storefront.APIError
	switch {
	case errors.Is(err, domain.ErrNotAuthenticated),
		errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrInvalidInput):
		return true
	case errors.As(err, &apiErr):
		return apiErr.Status < 500
	}
	return false
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
