package dataset

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/golang/snappy"

	"github.com/signalvc/relgraph/pkg/graph"
)

const sampleJSON = `{
	"nodes": [
		{"id": "seq-cap", "name": "Sequence Capital", "type": "investor", "tier": 1, "investment_count": 40},
		{"id": "acme", "name": "Acme", "type": "company", "tier": 3, "value": 12}
	],
	"links": [
		{"source": "seq-cap", "target": "acme", "type": "investment", "strength": 0.7}
	]
}`

// TestDecodeSnapshot verifies decoding, ID assignment and the build handoff.
func TestDecodeSnapshot(t *testing.T) {
	snap, err := DecodeSnapshot([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("DecodeSnapshot failed: %v", err)
	}
	if snap.ID == "" {
		t.Error("Expected a generated snapshot ID")
	}
	if len(snap.Nodes) != 2 || len(snap.Links) != 1 {
		t.Fatalf("Decoded %d nodes, %d links", len(snap.Nodes), len(snap.Links))
	}
	if snap.Nodes[0].Type != graph.NodeInvestor {
		t.Errorf("Expected investor type, got %s", snap.Nodes[0].Type)
	}
	if snap.Links[0].Type != graph.LinkInvestment {
		t.Errorf("Expected investment link, got %s", snap.Links[0].Type)
	}

	// The snapshot feeds graph.Build unchanged.
	if _, err := graph.Build(snap.Nodes, snap.Links); err != nil {
		t.Errorf("Build on decoded snapshot failed: %v", err)
	}
}

// TestDecodeSnapshot_KeepsExistingID verifies a tagged export is not retagged.
func TestDecodeSnapshot_KeepsExistingID(t *testing.T) {
	snap, err := DecodeSnapshot([]byte(`{"id": "snap-1", "nodes": [{"id": "a", "name": "a", "type": "investor", "tier": 1}]}`))
	if err != nil {
		t.Fatalf("DecodeSnapshot failed: %v", err)
	}
	if snap.ID != "snap-1" {
		t.Errorf("Expected snap-1, got %s", snap.ID)
	}
}

// TestDecodeSnapshot_Errors verifies malformed and empty payloads.
func TestDecodeSnapshot_Errors(t *testing.T) {
	if _, err := DecodeSnapshot([]byte(`{"nodes": "nope"`)); !errors.Is(err, ErrBadSnapshot) {
		t.Errorf("Expected ErrBadSnapshot, got %v", err)
	}
	if _, err := DecodeSnapshot([]byte(`{"nodes": []}`)); !errors.Is(err, ErrEmptySnapshot) {
		t.Errorf("Expected ErrEmptySnapshot, got %v", err)
	}
	if _, err := DecodeSnapshot([]byte(`{"nodes": [{"id": "a", "type": "martian"}]}`)); err == nil {
		t.Error("Expected error for unknown node type")
	}
}

// TestFileSource verifies the plain JSON read path.
func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := os.WriteFile(path, []byte(sampleJSON), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	src := NewFileSource(path, nil)
	if src.Name() != "file" {
		t.Errorf("Expected source name file, got %s", src.Name())
	}

	snap, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(snap.Nodes) != 2 {
		t.Errorf("Expected 2 nodes, got %d", len(snap.Nodes))
	}
}

// TestFileSource_Snappy verifies the compressed round trip through WriteFile.
func TestFileSource_Snappy(t *testing.T) {
	snap, err := DecodeSnapshot([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("DecodeSnapshot failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "snapshot.json.snappy")
	if err := WriteFile(path, snap); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	loaded, err := NewFileSource(path, nil).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.ID != snap.ID {
		t.Errorf("Snapshot ID changed through the round trip: %s vs %s", loaded.ID, snap.ID)
	}
	if len(loaded.Nodes) != len(snap.Nodes) || len(loaded.Links) != len(snap.Links) {
		t.Errorf("Round trip lost records: %d/%d nodes, %d/%d links",
			len(loaded.Nodes), len(snap.Nodes), len(loaded.Links), len(snap.Links))
	}
}

// TestFileSource_Missing verifies a missing file surfaces the read error.
func TestFileSource_Missing(t *testing.T) {
	src := NewFileSource(filepath.Join(t.TempDir(), "nope.json"), nil)
	if _, err := src.Load(context.Background()); err == nil {
		t.Error("Expected error for missing file")
	}
}

// TestFileSource_CancelledContext verifies the load respects cancellation.
func TestFileSource_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := NewFileSource("irrelevant.json", nil)
	if _, err := src.Load(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

type stubS3 struct {
	body []byte
	err  error
}

func (s *stubS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(s.body))}, nil
}

// TestS3Source verifies plain and snappy object loads against a stub client.
func TestS3Source(t *testing.T) {
	src := newS3Source(&stubS3{body: []byte(sampleJSON)}, "exports", "snapshot.json", nil)
	if src.Name() != "s3" {
		t.Errorf("Expected source name s3, got %s", src.Name())
	}

	snap, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(snap.Nodes) != 2 {
		t.Errorf("Expected 2 nodes, got %d", len(snap.Nodes))
	}

	compressed := snappy.Encode(nil, []byte(sampleJSON))
	src = newS3Source(&stubS3{body: compressed}, "exports", "snapshot.json.snappy", nil)
	if _, err := src.Load(context.Background()); err != nil {
		t.Errorf("Compressed load failed: %v", err)
	}
}

// TestS3Source_Errors verifies fetch failures and corrupt payloads surface.
func TestS3Source_Errors(t *testing.T) {
	src := newS3Source(&stubS3{err: errors.New("access denied")}, "exports", "snapshot.json", nil)
	if _, err := src.Load(context.Background()); err == nil {
		t.Error("Expected fetch error")
	}

	src = newS3Source(&stubS3{body: []byte("not snappy")}, "exports", "snapshot.json.snappy", nil)
	if _, err := src.Load(context.Background()); err == nil {
		t.Error("Expected decompression error")
	}
}
