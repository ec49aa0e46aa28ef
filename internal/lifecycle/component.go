// Package lifecycle starts and stops long-running components in
// dependency order.
package lifecycle

import "context"

// Component is a long-running part of the server that the manager
// orchestrates: the tracing provider, the config watcher, the API server.
type Component interface {
	// Start initializes the component. Non-blocking for servers; the
	// context signals early shutdown.
	Start(ctx context.Context) error

	// Stop gracefully stops the component within the context deadline.
	Stop(ctx context.Context) error

	// Name identifies the component in logs and errors.
	Name() string
}
