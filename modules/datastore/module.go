package datastore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/example/cityshades/config"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
)

// PluginModule provides collection storage as a mono plugin module.
// Plugins start first and stop last, so the backend is open before any
// domain module loads data and stays open until they have all stopped.
type PluginModule struct {
	container types.ServiceContainer
	cfg       config.StoreConfig
	logger    types.Logger

	mu      sync.RWMutex
	backend Backend
	store   *DocumentStore
	owned   bool
}

// Compile-time interface checks.
var (
	_ mono.PluginModule          = (*PluginModule)(nil)
	_ mono.HealthCheckableModule = (*PluginModule)(nil)
	_ Store                      = (*PluginModule)(nil)
)

// NewPluginModule creates a datastore plugin that opens the backend named by
// cfg.Driver on Start.
func NewPluginModule(cfg config.StoreConfig, logger types.Logger) *PluginModule {
	return &PluginModule{
		cfg:    cfg,
		logger: logger.WithModule("datastore"),
		owned:  true,
	}
}

// NewPluginModuleWithBackend creates a datastore plugin over an already open
// backend. The plugin does not close it on Stop.
func NewPluginModuleWithBackend(backend Backend, logger types.Logger) *PluginModule {
	return &PluginModule{
		cfg:     config.StoreConfig{Driver: "external"},
		logger:  logger,
		backend: backend,
		store:   NewDocumentStore(backend, logger),
	}
}

// Name returns the module name.
func (m *PluginModule) Name() string {
	return "datastore"
}

// Start opens the configured backend.
func (m *PluginModule) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.backend != nil {
		m.logger.Info("Datastore plugin started", "driver", m.driver())
		return nil
	}

	backend, err := OpenBackend(ctx, m.cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s backend: %w", m.cfg.Driver, err)
	}
	m.backend = backend
	m.store = NewDocumentStore(backend, m.logger)

	m.logger.Info("Datastore plugin started", "driver", m.driver())
	return nil
}

// Stop closes the backend if this plugin opened it.
func (m *PluginModule) Stop(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.backend != nil && m.owned {
		if err := m.backend.Close(); err != nil {
			m.logger.Error("Failed to close backend", "error", err.Error())
			return fmt.Errorf("failed to close backend: %w", err)
		}
		m.backend = nil
		m.store = nil
	}
	m.logger.Info("Datastore plugin stopped")
	return nil
}

// SetContainer sets the service container for this plugin.
func (m *PluginModule) SetContainer(container types.ServiceContainer) {
	m.container = container
}

// Container returns the service container for this plugin.
func (m *PluginModule) Container() types.ServiceContainer {
	return m.container
}

// Port returns the Store consumers use. It may be taken before Start; calls
// made before the backend is open fail with ErrNotStarted.
func (m *PluginModule) Port() Store {
	return m
}

func (m *PluginModule) Load(ctx context.Context, collection string) ([]json.RawMessage, error) {
	m.mu.RLock()
	store := m.store
	m.mu.RUnlock()

	if store == nil {
		return nil, ErrNotStarted
	}
	return store.Load(ctx, collection)
}

func (m *PluginModule) Save(ctx context.Context, collection string, records []json.RawMessage) error {
	m.mu.RLock()
	store := m.store
	m.mu.RUnlock()

	if store == nil {
		return ErrNotStarted
	}
	return store.Save(ctx, collection, records)
}

// Health pings the backend.
func (m *PluginModule) Health(ctx context.Context) mono.HealthStatus {
	m.mu.RLock()
	backend := m.backend
	m.mu.RUnlock()

	if backend == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "backend not initialized",
		}
	}

	if err := backend.Ping(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("backend ping failed: %v", err),
		}
	}

	details := map[string]any{"driver": m.driver()}
	if fb, ok := backend.(*FileBackend); ok {
		details["data_dir"] = fb.Dir()
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: details,
	}
}

func (m *PluginModule) driver() string {
	if m.cfg.Driver == "" {
		return DriverFile
	}
	return m.cfg.Driver
}
