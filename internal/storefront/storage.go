package storefront

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Storage almacenamiento clave/valor durable (equivalente a localStorage del navegador).
type Storage interface {
	// GetItem devuelve el valor y si existe.
	GetItem(key string) (string, bool, error)
	SetItem(key, value string) error
	// RemoveItem no falla si la clave no existe.
	RemoveItem(key string) error
}

var (
	_ Storage = (*MemoryStorage)(nil)
	_ Storage = (*FileStorage)(nil)
)

// MemoryStorage Storage en memoria; no sobrevive al proceso.
type MemoryStorage struct {
	mu    sync.Mutex
	items map[string]string
}

// NewMemoryStorage crea un almacenamiento vacío.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{items: map[string]string{}}
}

func (m *MemoryStorage) GetItem(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *MemoryStorage) SetItem(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *MemoryStorage) RemoveItem(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

// FileStorage guarda un objeto JSON {clave: valor} en un archivo 0600.
// Cada escritura reemplaza el archivo con rename, así nunca queda a medio escribir.
type FileStorage struct {
	mu   sync.Mutex
	path string
}

// NewFileStorage usa path; el directorio se crea en la primera escritura.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Path ruta del archivo.
func (f *FileStorage) Path() string { return f.path }

func (f *FileStorage) GetItem(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items, err := f.read()
	if err != nil {
		return "", false, err
	}
	v, ok := items[key]
	return v, ok, nil
}

func (f *FileStorage) SetItem(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	items, err := f.readForWrite()
	if err != nil {
		return err
	}
	items[key] = value
	return f.write(items)
}

func (f *FileStorage) RemoveItem(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	items, err := f.readForWrite()
	if err != nil {
		return err
	}
	if _, ok := items[key]; !ok {
		return nil
	}
	delete(items, key)
	return f.write(items)
}

func (f *FileStorage) read() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("leer %s: %w", f.path, err)
	}
	items := map[string]string{}
	if len(data) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, &CorruptStorageError{Path: f.path, Err: err}
	}
	return items, nil
}

// readForWrite como read, pero un archivo ilegible se descarta: la escritura lo reemplaza.
func (f *FileStorage) readForWrite() (map[string]string, error) {
	items, err := f.read()
	var corrupt *CorruptStorageError
	if errors.As(err, &corrupt) {
		return map[string]string{}, nil
	}
	return items, err
}

func (f *FileStorage) write(items map[string]string) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("crear directorio %s: %w", dir, err)
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("crear temporal: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op tras el rename
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("escribir temporal: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("reemplazar %s: %w", f.path, err)
	}
	return nil
}

// CorruptStorageError el archivo de almacenamiento no es JSON válido.
type CorruptStorageError struct {
	Path string
	Err  error
}

func (e *CorruptStorageError) Error() string {
	return fmt.Sprintf("almacenamiento %s ilegible: %v", e.Path, e.Err)
}

func (e *CorruptStorageError) Unwrap() error { return e.Err }
