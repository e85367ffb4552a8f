// Package service hosts the simulation service and the lifecycle of its
// infrastructure: audio output, the metrics endpoint and anything else that
// owns a device, a listener or a goroutine
package service

// Service defines the lifecycle of an infrastructure subsystem
//
// Lifecycle:
//  1. Construction (via New...)
//  2. Init(args...) - configuration passed down from the hub
//  3. Start() - acquire devices, launch goroutines
//  4. [runtime operation]
//  5. Stop() - halt goroutines, release resources
type Service interface {
	// Name returns the unique identifier for this service
	Name() string

	// Dependencies returns names of services that must Init before this one
	Dependencies() []string

	// Init configures the service from hub-wide args
	// Services pick the args they understand by type and ignore the rest
	Init(args ...any) error

	// Start begins service operation
	Start() error

	// Stop halts service operation and releases resources
	// Must be idempotent
	Stop() error
}
