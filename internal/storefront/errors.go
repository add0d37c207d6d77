package storefront

import (
	"errors"

	"github.com/jhoicas/bazar-api/internal/domain"
)

// ErrConnection fallo de transporte al hablar con la API (sin respuesta utilizable).
var ErrConnection = errors.New("No se pudo conectar con el servidor")

// ConnectionError envuelve la causa real; su mensaje es siempre el de ErrConnection.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string { return ErrConnection.Error() }

func (e *ConnectionError) Unwrap() []error { return []error{ErrConnection, e.Err} }

// APIError respuesta no exitosa de la API. Message es el del servidor o uno genérico.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

// StockError rechazo por stock. Available son las unidades que se podían pedir.
type StockError struct {
	Available int
	Message   string
}

func (e *StockError) Error() string { return e.Message }

func (e *StockError) Unwrap() error { return domain.ErrInsufficientStock }
