// Package store is the persistence boundary for heightmap documents. The
// generation pipeline depends on it only through the Store interface; once a
// heightmap is handed to Store, the store owns it.
package store

import (
	"context"
	"errors"

	"github.com/Reliefmesh/api/internal/terrain"
)

var (
	// ErrUnavailable means the backing store cannot be reached.
	ErrUnavailable = errors.New("store unavailable")
	// ErrConflict means the key already exists and overwrite was not requested.
	ErrConflict = errors.New("heightmap already exists")
	// ErrNotFound means no heightmap is stored under the key.
	ErrNotFound = errors.New("heightmap not found")
	// ErrCorrupt means the stored grid does not match its stored config.
	ErrCorrupt = errors.New("stored heightmap is corrupt")
)

// Store persists named heightmap documents.
type Store interface {
	// Store saves hm under key. Fails with ErrConflict if the key exists and
	// overwrite is false.
	Store(ctx context.Context, key string, hm *terrain.Heightmap, overwrite bool) error

	// Load returns the heightmap stored under key. Fails with ErrNotFound if
	// absent and ErrCorrupt if the stored grid dimensions don't match the
	// stored config.
	Load(ctx context.Context, key string) (*terrain.Heightmap, error)

	// List returns the keys of all stored heightmaps.
	List(ctx context.Context) ([]string, error)

	// Delete removes the heightmap stored under key. Fails with ErrNotFound
	// if absent.
	Delete(ctx context.Context, key string) error
}
