// Package dataset loads raw node and link records from the investor
// database exports: a JSON snapshot on disk, the relational Postgres export,
// or a snapshot object in S3. Loaders only fetch and decode; graph.Build
// stays the single validation gate.
package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/signalvc/relgraph/pkg/graph"
)

// Sentinel errors for snapshot loading.
var (
	ErrEmptySnapshot = errors.New("snapshot contains no nodes")
	ErrBadSnapshot   = errors.New("malformed snapshot")
)

// Snapshot is one decoded export of the relationship dataset. The ID tags
// every log line and metric sample produced while this data is live.
type Snapshot struct {
	ID        string       `json:"id"`
	CreatedAt time.Time    `json:"created_at"`
	Nodes     []graph.Node `json:"nodes"`
	Links     []graph.Link `json:"links"`
}

// DecodeSnapshot parses snapshot JSON. Exports written before snapshot IDs
// existed get a fresh one assigned.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}
	if len(snap.Nodes) == 0 {
		return Snapshot{}, ErrEmptySnapshot
	}
	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now().UTC()
	}
	return snap, nil
}

// Encode serializes the snapshot back to JSON.
func (s Snapshot) Encode() ([]byte, error) {
	return json.Marshal(s)
}
