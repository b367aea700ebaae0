package datastore

import (
	"context"
	"fmt"
	"sync"

	"github.com/example/cityshades/config"
)

// Supported values of STORE_DRIVER.
const (
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Backend persists one opaque document per collection.
type Backend interface {
	// Read returns the stored document, or ErrNotExist.
	Read(ctx context.Context, collection string) ([]byte, error)
	// Write replaces the stored document.
	Write(ctx context.Context, collection string, data []byte) error
	Ping(ctx context.Context) error
	Close() error
}

// OpenBackend opens the backend selected by cfg.Driver.
func OpenBackend(ctx context.Context, cfg config.StoreConfig) (Backend, error) {
	var (
		backend Backend
		err     error
	)
	switch cfg.Driver {
	case DriverFile, "":
		backend, err = NewFileBackend(cfg.DataDir)
	case DriverSQLite:
		backend, err = OpenSQLite(cfg.SQLitePath)
	case DriverPostgres:
		backend, err = OpenPostgres(ctx, cfg.DatabaseURL)
	case DriverMemory:
		backend = NewMemoryBackend()
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	return backend, nil
}

// MemoryBackend keeps documents in process memory.
type MemoryBackend struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryBackend creates an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{docs: make(map[string][]byte)}
}

func (b *MemoryBackend) Read(_ context.Context, collection string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, ok := b.docs[collection]
	if !ok {
		return nil, ErrNotExist
	}
	return append([]byte(nil), data...), nil
}

func (b *MemoryBackend) Write(_ context.Context, collection string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.docs[collection] = append([]byte(nil), data...)
	return nil
}

func (b *MemoryBackend) Ping(_ context.Context) error { return nil }

func (b *MemoryBackend) Close() error { return nil }
