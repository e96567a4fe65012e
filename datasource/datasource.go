// Package datasource implements the Data Source external interface and its
// background-producer flavours, plus the single cross-thread boundary of the core:
// ThreadSafeQueue.
package datasource

// DataSource is the external collaborator the Live Ingest Loop drains. Implementations
// may run an internal I/O loop on their own goroutine (FakeDataSource,
// WebSocketDataSource) or hand back a pre-built batch synchronously (InlineDataSource).
type DataSource interface {
	// Start begins producing batches, if this source runs a background loop.
	Start()
	// Stop signals the background loop to exit and joins it. Idempotent.
	Stop()
	// IsRunning reports whether the background loop is currently active.
	IsRunning() bool
	// Poll is non-blocking: it returns the next available batch and true, or
	// (nil, false) immediately if none is available.
	Poll() ([]byte, bool)
}
