package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInsufficientStock  = errors.New("stock insuficiente")

	// Tienda (carrito y sesión del cliente)
	ErrNotAuthenticated = errors.New("debes iniciar sesión para agregar productos al carrito")
	ErrProductNotFound  = errors.New("producto no encontrado")
	ErrInvalidQuantity  = errors.New("la cantidad debe ser al menos 1")
	ErrSessionCorrupted = errors.New("sesión guardada corrupta")
)
