package dataset

import "context"

// Source loads one snapshot of the dataset from wherever it lives.
type Source interface {
	// Name identifies the source kind in logs and metrics.
	Name() string

	// Load fetches and decodes a snapshot.
	Load(ctx context.Context) (Snapshot, error)
}
