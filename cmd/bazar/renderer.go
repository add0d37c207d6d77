package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/jhoicas/bazar-api/internal/storefront"
)

var _ storefront.Renderer = (*terminalRenderer)(nil)

// money formatea importes con separadores del idioma (es: 1.234,50). La parte entera se agrupa
// con x/text y los centavos salen del decimal tal cual, sin pasar por float64.
type money struct {
	p   *message.Printer
	sep string // separador decimal del idioma
}

func newMoney(tag language.Tag) money {
	p := message.NewPrinter(tag)
	// "1,5" en es, "1.5" en en: lo que queda entre los dígitos es el separador
	sample := p.Sprintf("%v", number.Decimal(1.5, number.Scale(1)))
	sep := strings.TrimSuffix(strings.TrimPrefix(sample, "1"), "5")
	if sep == "" {
		sep = "."
	}
	return money{p: p, sep: sep}
}

func (m money) format(d decimal.Decimal) string {
	d = d.Round(2)
	sign := ""
	if d.IsNegative() {
		sign, d = "-", d.Abs()
	}
	whole := d.Truncate(0)
	cents := d.Sub(whole).Shift(2).IntPart()
	return sign + "$" + m.p.Sprintf("%v", number.Decimal(whole.IntPart())) + m.sep + fmt.Sprintf("%02d", cents)
}

// terminalRenderer imprime una línea de estado por cada cambio del Store.
type terminalRenderer struct {
	mu    sync.Mutex
	out   io.Writer
	money money
	quiet bool // sin salida durante el arranque
}

func newTerminalRenderer(out io.Writer, m money) *terminalRenderer {
	return &terminalRenderer{out: out, money: m}
}

func (r *terminalRenderer) setQuiet(q bool) {
	r.mu.Lock()
	r.quiet = q
	r.mu.Unlock()
}

func (r *terminalRenderer) printf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.quiet {
		return
	}
	fmt.Fprintf(r.out, format, args...)
}

func (r *terminalRenderer) CatalogChanged(products []storefront.Product) {
	r.printf("📦 Catálogo actualizado: %d productos\n", len(products))
}

func (r *terminalRenderer) CartChanged(items []storefront.LineItem, total decimal.Decimal, count int) {
	if len(items) == 0 {
		r.printf("🛒 El carrito está vacío\n")
		return
	}
	r.printf("🛒 Carrito: %d artículos · Total %s\n", count, r.money.format(total))
}

func (r *terminalRenderer) SessionChanged(u *storefront.Usuario) {
	if u == nil {
		r.printf("👤 Sin sesión\n")
		return
	}
	r.printf("👤 Hola, %s\n", u.Nombre)
}
