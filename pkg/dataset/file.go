package dataset

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/golang/snappy"

	"github.com/signalvc/relgraph/pkg/logging"
)

// FileSource reads a snapshot from disk. Files with a .snappy suffix are
// decompressed before decoding, matching how exports over a few megabytes
// are shipped around.
type FileSource struct {
	path   string
	logger logging.Logger
}

// NewFileSource creates a file-backed snapshot source.
func NewFileSource(path string, logger logging.Logger) *FileSource {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &FileSource{path: path, logger: logger}
}

// Name identifies the source kind.
func (s *FileSource) Name() string { return "file" }

// Load reads, optionally decompresses, and decodes the snapshot file.
func (s *FileSource) Load(ctx context.Context) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}

	timer := logging.StartTimer(s.logger, "load snapshot file",
		logging.String("path", s.path))

	data, err := os.ReadFile(s.path)
	if err != nil {
		timer.EndError(err)
		return Snapshot{}, fmt.Errorf("read snapshot %s: %w", s.path, err)
	}

	if strings.HasSuffix(s.path, ".snappy") {
		data, err = snappy.Decode(nil, data)
		if err != nil {
			timer.EndError(err)
			return Snapshot{}, fmt.Errorf("decompress snapshot %s: %w", s.path, err)
		}
	}

	snap, err := DecodeSnapshot(data)
	if err != nil {
		timer.EndError(err)
		return Snapshot{}, err
	}

	timer.End(
		logging.SnapshotID(snap.ID),
		logging.Nodes(len(snap.Nodes)),
		logging.Links(len(snap.Links)))
	return snap, nil
}

// WriteFile persists a snapshot to disk, snappy-compressing when the path
// carries the .snappy suffix.
func WriteFile(path string, snap Snapshot) error {
	data, err := snap.Encode()
	if err != nil {
		return err
	}
	if strings.HasSuffix(path, ".snappy") {
		data = snappy.Encode(nil, data)
	}
	return os.WriteFile(path, data, 0o644)
}
