package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"log/slog"

	"github.com/flowform/engine/internal/logging"
	"github.com/flowform/engine/pkg/domain"
	"github.com/flowform/engine/pkg/ports"
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu     sync.Mutex
	refs   int
	unlock ports.UnlockFunc // Function to release distributed lock (if any)
}

// Manager orchestrates response access, ensuring safe concurrent operations.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store ports.ResponseStore

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker ports.DistributedLocker // Optional distributed locker
	logger *slog.Logger            // Logger for internal events (like deferred errors)
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a new session Manager with the given persistence store.
func NewManager(store ports.ResponseStore, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		locks:  make(map[string]*lockEntry),
		logger: logging.NewNop(), // Default to no-op
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(responseID) after unlocking.
func (m *Manager) acquire(responseID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[responseID]
	if !exists {
		entry = &lockEntry{}
		m.locks[responseID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(responseID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[responseID]
	if !exists {
		return // Should not happen if paired correctly
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, responseID)
	}
}

// Load retrieves an existing response from the store.
func (m *Manager) Load(ctx context.Context, responseID string) (*domain.ResponseState, error) {
	var state *domain.ResponseState
	err := m.WithLock(ctx, responseID, func(ctx context.Context) error {
		var err error
		state, err = m.store.Load(ctx, responseID)
		return err
	})
	return state, err
}

// LoadOrStart tries to load a response. If not found, it initializes a new one
// using the provided factory and persists it immediately to reserve the ID.
func (m *Manager) LoadOrStart(ctx context.Context, responseID string, start func() *domain.ResponseState) (*domain.ResponseState, error) {
	var state *domain.ResponseState
	err := m.WithLock(ctx, responseID, func(ctx context.Context) error {
		var err error
		state, err = m.store.Load(ctx, responseID)
		if err == nil {
			return nil
		}

		if !errors.Is(err, domain.ErrResponseNotFound) {
			return fmt.Errorf("failed to check response existence: %w", err)
		}

		state = start()
		if err := m.store.Save(ctx, responseID, state); err != nil {
			return fmt.Errorf("failed to initialize response: %w", err)
		}
		return nil
	})
	return state, err
}

// Save persists the response state.
func (m *Manager) Save(ctx context.Context, responseID string, state *domain.ResponseState) error {
	return m.WithLock(ctx, responseID, func(ctx context.Context) error {
		return m.store.Save(ctx, responseID, state)
	})
}

// Delete removes the response from the store.
func (m *Manager) Delete(ctx context.Context, responseID string) error {
	return m.WithLock(ctx, responseID, func(ctx context.Context) error {
		return m.store.Delete(ctx, responseID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying response store.
func (m *Manager) Store() ports.ResponseStore {
	return m.store
}

// WithLock executes a function while holding the lock for the response.
func (m *Manager) WithLock(ctx context.Context, responseID string, fn func(context.Context) error) error {
	entry := m.acquire(responseID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(responseID)
	}()

	// Distributed Locking
	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, responseID, 30*time.Second)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"response_id", responseID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
