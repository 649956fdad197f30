package database

import (
	"context"
	"errors"
	"sync"
)

var (
	providerMu   sync.RWMutex
	storeFactory func() Store
	backendName  string
)

// ErrNotInitialized is returned by the getters before a backend is registered
var ErrNotInitialized = errors.New("storage backend not initialized")

// RegisterBackend registers the active store backend.
// This is called from the command setup to avoid import cycles with the backend packages.
func RegisterBackend(name string, factory func() Store) {
	providerMu.Lock()
	defer providerMu.Unlock()
	backendName = name
	storeFactory = factory
}

// ResetBackend clears the registered backend. Intended for tests.
func ResetBackend() {
	RegisterBackend("", nil)
}

// IsInitialized returns whether a store backend has been registered.
func IsInitialized() bool {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return storeFactory != nil
}

// BackendName returns the name of the registered backend, or "" if none.
func BackendName() string {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return backendName
}

// GetStore returns the registered store
func GetStore(ctx context.Context) (Store, error) {
	providerMu.RLock()
	defer providerMu.RUnlock()
	if storeFactory == nil {
		return nil, ErrNotInitialized
	}
	return storeFactory(), nil
}

// GetEnrollmentReader returns an EnrollmentReader from the registered backend
func GetEnrollmentReader(ctx context.Context) (EnrollmentReader, error) {
	return GetStore(ctx)
}

// GetEnrollmentWriter returns an EnrollmentWriter from the registered backend
func GetEnrollmentWriter(ctx context.Context) (EnrollmentWriter, error) {
	return GetStore(ctx)
}

// GetAttendanceReader returns an AttendanceReader from the registered backend
func GetAttendanceReader(ctx context.Context) (AttendanceReader, error) {
	return GetStore(ctx)
}

// GetAttendanceWriter returns an AttendanceWriter from the registered backend
func GetAttendanceWriter(ctx context.Context) (AttendanceWriter, error) {
	return GetStore(ctx)
}
