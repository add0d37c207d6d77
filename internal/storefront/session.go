package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jhoicas/bazar-api/internal/domain"
	"github.com/jhoicas/bazar-api/pkg/logger"
)

// Mensajes genéricos cuando el servidor no envía uno.
const (
	msgLoginFailed    = "Error al iniciar sesión"
	msgRegisterFailed = "Error al registrarse"
)

// SessionManager login, registro, restauración y cierre de sesión.
type SessionManager struct {
	store   *Store
	client  *Client
	persist *SessionStore
	log     *logger.Logger
}

// NewSessionManager construye el gestor.
func NewSessionManager(store *Store, client *Client, persist *SessionStore, log *logger.Logger) *SessionManager {
	if log == nil {
		log = logger.Nop()
	}
	return &SessionManager{store: store, client: client, persist: persist, log: log}
}

type authResponse struct {
	Token   string   `json:"token"`
	Usuario *Usuario `json:"usuario"`
}

// Login POST /auth/login. Si falla, la sesión actual no cambia.
func (m *SessionManager) Login(ctx context.Context, email, password string) (*Usuario, error) {
	body := map[string]string{"email": email, "password": password}
	return m.authenticate(ctx, "/auth/login", body, msgLoginFailed)
}

// Register POST /auth/register. Un registro exitoso deja la sesión iniciada.
func (m *SessionManager) Register(ctx context.Context, nombre, email, password string) (*Usuario, error) {
	body := map[string]string{"nombre": nombre, "email": email, "password": password}
	return m.authenticate(ctx, "/auth/register", body, msgRegisterFailed)
}

func (m *SessionManager) authenticate(ctx context.Context, path string, body any, fallback string) (*Usuario, error) {
	resp, err := m.client.do(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		m.log.Error().Err(err).Str("path", path).Msg("error de conexión")
		return nil, err
	}
	m.log.Debug().Int("status", resp.status).Str("path", path).Msg("respuesta auth")
	if !resp.ok() {
		return nil, apiError(resp, fallback)
	}
	var out authResponse
	if err := json.Unmarshal(resp.body, &out); err != nil {
		return nil, &ConnectionError{Err: err}
	}
	session := Session{Usuario: out.Usuario, Token: out.Token}
	if !session.Valid() {
		return nil, &APIError{Status: resp.status, Message: fallback}
	}
	m.save(session)
	return copyUsuario(out.Usuario), nil
}

// save fija la sesión en memoria y la persiste. Un fallo de disco no cierra la sesión en curso.
func (m *SessionManager) save(session Session) {
	m.store.SetSession(session)
	if err := m.persist.Save(session); err != nil {
		m.log.Error().Err(err).Msg("no se pudo persistir la sesión")
		return
	}
	m.log.Info().Str("usuario", session.Usuario.Nombre).Msg("sesión guardada")
}

// RestoreSession carga la sesión persistida. Sin datos no hace nada; con datos corruptos
// fuerza un Logout y devuelve un error que envuelve domain.ErrSessionCorrupted.
func (m *SessionManager) RestoreSession() error {
	session, err := m.persist.Load()
	if err != nil {
		if errors.Is(err, domain.ErrSessionCorrupted) {
			m.log.Error().Err(err).Msg("sesión corrupta, limpiando")
			m.Logout()
		}
		return err
	}
	if session == nil {
		return nil
	}
	m.store.SetSession(*session)
	m.log.Info().Str("usuario", session.Usuario.Nombre).Msg("sesión restaurada")
	return nil
}

// Logout borra la sesión en memoria y en disco. Idempotente.
func (m *SessionManager) Logout() {
	m.store.ClearSession()
	if err := m.persist.Clear(); err != nil {
		m.log.Error().Err(err).Msg("no se pudo borrar la sesión guardada")
	}
	m.log.Info().Msg("sesión cerrada")
}

// IsAuthenticated true si hay usuario y token.
func (m *SessionManager) IsAuthenticated() bool {
	return m.store.IsAuthenticated()
}

// Usuario usuario actual o nil.
func (m *SessionManager) Usuario() *Usuario {
	return m.store.Session().Usuario
}

// AuthHeaders cabeceras para la API: JSON y, con sesión, Authorization: Bearer <token>.
func (m *SessionManager) AuthHeaders() http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	if token := m.store.Token(); token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
