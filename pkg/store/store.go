// Package store holds report snapshots for the HTTP dashboard.
//
// Snapshots are live, TTL-bound state - the dashboard polls for the latest
// run - not a durable archive of analysis history. Three backends exist:
//   - memory: in-process map for development and tests
//   - redis: shared state for multi-instance deployments
//   - mongo: document store alternative where Redis is not available
//
// All backends expire entries after the TTL passed to Set.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/gridlock-dev/gridlock/pkg/report"
)

// ErrNotFound is returned by Get when no snapshot exists under the given
// run ID, or when it has expired.
var ErrNotFound = errors.New("snapshot not found")

// DefaultTTL is how long a snapshot stays retrievable. Long enough for a
// dashboard session, short enough that stores never accumulate history.
const DefaultTTL = time.Hour

// Store is the interface for snapshot storage backends.
type Store interface {
	// Get retrieves a snapshot by run ID. Returns ErrNotFound if the
	// snapshot does not exist or has expired.
	Get(ctx context.Context, runID string) (*report.Snapshot, error)

	// Set stores a snapshot under its run ID for at most ttl.
	// A non-positive ttl falls back to DefaultTTL.
	Set(ctx context.Context, snap *report.Snapshot, ttl time.Duration) error

	// Delete removes a snapshot. Deleting a missing snapshot is not an error.
	Delete(ctx context.Context, runID string) error

	// Close releases backend connections.
	Close() error
}
