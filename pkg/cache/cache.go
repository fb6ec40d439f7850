// Package cache provides content-addressed caching for solved orderings.
//
// Solving an instance exactly can take orders of magnitude longer than
// parsing it, so the pipeline caches the optimal tour keyed by the
// instance's content hash and the solver options that produced it. A tour
// for a fixed instance and fixed options never changes, so entries are
// effectively immutable and carry a long TTL.
package cache

import (
	"context"
	"time"
)

// TTLTour is how long solved orderings are kept. Results are deterministic
// for a given instance and options, so the TTL only bounds disk usage.
const TTLTour = 30 * 24 * time.Hour

// Cache is the storage interface for cached byte payloads.
type Cache interface {
	// Get retrieves a value. The second return reports a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// TourKeyOpts captures every solver option that can change the cached
// result, so differently configured runs cache separately.
type TourKeyOpts struct {
	Timeout  time.Duration `json:"timeout"`
	MaxNodes int           `json:"max_nodes"`
}

// Keyer generates cache keys.
type Keyer interface {
	// TourKey keys a solved ordering by instance content hash and
	// solver options.
	TourKey(instanceHash string, opts TourKeyOpts) string
}

// DefaultKeyer is the standard key scheme.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// TourKey generates a key for a solved ordering.
func (k *DefaultKeyer) TourKey(instanceHash string, opts TourKeyOpts) string {
	return hashKey("tour", instanceHash, opts)
}
