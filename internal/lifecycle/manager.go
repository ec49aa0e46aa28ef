package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/partrace/partrace/internal/logging"
)

// DefaultShutdownTimeout bounds the whole shutdown sequence.
const DefaultShutdownTimeout = 30 * time.Second

// Manager starts registered components in registration order and stops
// them in reverse. A component's dependencies must be registered (and
// will therefore start) before it.
type Manager struct {
	mu         sync.Mutex
	components []Component
	started    []Component
	logger     *logging.Logger

	shutdownTimeout time.Duration
}

// NewManager creates a manager with the default shutdown timeout.
func NewManager() *Manager {
	return &Manager{
		logger:          logging.GetLogger("lifecycle"),
		shutdownTimeout: DefaultShutdownTimeout,
	}
}

// Register adds a component. Dependencies must already be registered so
// registration order is a valid start order.
func (m *Manager) Register(component Component, dependsOn ...Component) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if component == nil {
		return fmt.Errorf("cannot register nil component")
	}
	if component.Name() == "" {
		return fmt.Errorf("component must have a non-empty name")
	}
	for _, c := range m.components {
		if c == component {
			return fmt.Errorf("component %s is already registered", component.Name())
		}
	}
	for _, dep := range dependsOn {
		if !m.isRegistered(dep) {
			return fmt.Errorf("dependency %s of %s is not registered", dep.Name(), component.Name())
		}
	}

	m.components = append(m.components, component)
	return nil
}

func (m *Manager) isRegistered(component Component) bool {
	for _, c := range m.components {
		if c == component {
			return true
		}
	}
	return false
}

// Start starts all components in registration order. On failure the
// already-started components are stopped in reverse before returning.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.components {
		m.logger.Info("Starting component: %s", c.Name())
		if err := c.Start(ctx); err != nil {
			m.logger.Error("Component %s failed to start: %v", c.Name(), err)
			m.stopStarted()
			return fmt.Errorf("failed to start %s: %w", c.Name(), err)
		}
		m.started = append(m.started, c)
	}

	m.logger.Info("All %d components started", len(m.started))
	return nil
}

// Stop stops started components in reverse start order. Every component
// gets a Stop call even when earlier ones fail; the first error is
// returned.
func (m *Manager) Stop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.shutdownTimeout)
		defer cancel()
	}

	var firstErr error
	for i := len(m.started) - 1; i >= 0; i-- {
		c := m.started[i]
		m.logger.Info("Stopping component: %s", c.Name())
		if err := c.Stop(ctx); err != nil {
			m.logger.Error("Component %s failed to stop: %v", c.Name(), err)
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to stop %s: %w", c.Name(), err)
			}
		}
	}
	m.started = nil

	return firstErr
}

// stopStarted rolls back a partial start. Callers hold the lock.
func (m *Manager) stopStarted() {
	ctx, cancel := context.WithTimeout(context.Background(), m.shutdownTimeout)
	defer cancel()

	for i := len(m.started) - 1; i >= 0; i-- {
		if err := m.started[i].Stop(ctx); err != nil {
			m.logger.Error("Component %s failed to stop during rollback: %v", m.started[i].Name(), err)
		}
	}
	m.started = nil
}
