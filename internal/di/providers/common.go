package providers

import "time"

const (
	// shutdownTimeout is the maximum time to wait for graceful shutdown of services.
	shutdownTimeout = 30 * time.Second

	// storeGCInterval is how often Badger value-log GC runs.
	storeGCInterval = 10 * time.Minute
)
