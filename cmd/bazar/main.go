// Command bazar es la tienda de terminal: catálogo, carrito, sesión y pedidos contra la API Bazar.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/text/language"

	"github.com/jhoicas/bazar-api/internal/domain"
	"github.com/jhoicas/bazar-api/internal/storefront"
	"github.com/jhoicas/bazar-api/pkg/config"
	"github.com/jhoicas/bazar-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}

	// los logs van a stderr y solo desde warn para no ensuciar la consola
	level := "warn"
	if cfg.App.LogLevel == "debug" || cfg.App.LogLevel == "trace" {
		level = cfg.App.LogLevel
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: level, Output: os.Stderr})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := newMoney(language.Spanish)
	renderer := newTerminalRenderer(os.Stdout, m)
	renderer.setQuiet(true)

	sf := storefront.New(storefront.Options{
		APIBaseURL: cfg.Storefront.APIBaseURL,
		Timeout:    cfg.Storefront.Timeout,
		Storage:    storefront.NewFileStorage(cfg.Storefront.SessionFile),
		Renderer:   renderer,
		Log:        log,
	})

	// la sesión se restaura antes de aceptar comandos
	if err := sf.Session.RestoreSession(); err != nil {
		if errors.Is(err, domain.ErrSessionCorrupted) {
			fmt.Println("⚠️ La sesión guardada estaba dañada; vuelve a iniciar sesión")
		} else {
			fmt.Println("❌ No se pudo leer la sesión guardada")
		}
	}
	if err := sf.Catalog.LoadProducts(ctx); err != nil {
		fmt.Println("❌ Error al cargar productos:", err)
	}
	renderer.setQuiet(false)

	fmt.Printf("Bazar · %s\n", cfg.Storefront.APIBaseURL)
	if u := sf.Session.Usuario(); u != nil {
		fmt.Printf("👤 Hola de nuevo, %s\n", u.Nombre)
	}
	fmt.Printf("%d productos en el catálogo. Escribe ayuda para ver los comandos.\n", len(sf.Store.Products()))

	if err := newShell(sf, os.Stdout, m).run(ctx, os.Stdin); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("leer comandos")
		os.Exit(1)
	}
	fmt.Println("¡Hasta pronto!")
}
