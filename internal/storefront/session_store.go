package storefront

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jhoicas/bazar-api/internal/domain"
)

// Claves en el Storage.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// SessionStore persiste la sesión en un Storage bajo las claves token y user.
type SessionStore struct {
	storage Storage
}

// NewSessionStore construye el adaptador.
func NewSessionStore(storage Storage) *SessionStore {
	return &SessionStore{storage: storage}
}

// Save escribe token y usuario. Si falla a mitad deshace la clave ya escrita.
func (s *SessionStore) Save(session Session) error {
	if !session.Valid() {
		return fmt.Errorf("guardar sesión: sesión incompleta")
	}
	user, err := json.Marshal(session.Usuario)
	if err != nil {
		return fmt.Errorf("serializar usuario: %w", err)
	}
	if err := s.storage.SetItem(KeyToken, session.Token); err != nil {
		return fmt.Errorf("guardar token: %w", err)
	}
	if err := s.storage.SetItem(KeyUser, string(user)); err != nil {
		_ = s.storage.RemoveItem(KeyToken)
		return fmt.Errorf("guardar usuario: %w", err)
	}
	return nil
}

// Load lee la sesión guardada. (nil, nil) si no hay ninguna de las dos claves.
// Una sola clave presente, o un usuario que no es JSON válido (o es null), devuelve un error que
// envuelve domain.ErrSessionCorrupted.
func (s *SessionStore) Load() (*Session, error) {
	token, okToken, err := s.storage.GetItem(KeyToken)
	if err != nil {
		return nil, s.readError(err)
	}
	raw, okUser, err := s.storage.GetItem(KeyUser)
	if err != nil {
		return nil, s.readError(err)
	}
	hasToken, hasUser := okToken && token != "", okUser && raw != ""
	if !hasToken && !hasUser {
		return nil, nil
	}
	if !hasToken || !hasUser {
		return nil, fmt.Errorf("%w: falta el token o el usuario", domain.ErrSessionCorrupted)
	}
	var usuario *Usuario
	if err := json.Unmarshal([]byte(raw), &usuario); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSessionCorrupted, err)
	}
	if usuario == nil {
		return nil, fmt.Errorf("%w: usuario vacío", domain.ErrSessionCorrupted)
	}
	return &Session{Usuario: usuario, Token: token}, nil
}

// Clear borra ambas claves.
func (s *SessionStore) Clear() error {
	return errors.Join(s.storage.RemoveItem(KeyToken), s.storage.RemoveItem(KeyUser))
}

func (s *SessionStore) readError(err error) error {
	var corrupt *CorruptStorageError
	if errors.As(err, &corrupt) {
		return fmt.Errorf("%w: %v", domain.ErrSessionCorrupted, err)
	}
	return fmt.Errorf("leer sesión: %w", err)
}
