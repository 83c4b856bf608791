package dataset

import (
	"context"
	"fmt"
	"io"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/golang/snappy"

	"github.com/signalvc/relgraph/pkg/logging"
)

// s3Getter is the slice of the S3 client the source needs; tests substitute
// a stub.
type s3Getter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source loads a snapshot object from S3. Keys with a .snappy suffix are
// decompressed before decoding.
type S3Source struct {
	client s3Getter
	bucket string
	key    string
	logger logging.Logger
}

// NewS3Source resolves the default AWS credential chain for the region and
// targets one snapshot object.
func NewS3Source(ctx context.Context, bucket, key, region string, logger logging.Logger) (*S3Source, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return newS3Source(s3.NewFromConfig(cfg), bucket, key, logger), nil
}

func newS3Source(client s3Getter, bucket, key string, logger logging.Logger) *S3Source {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &S3Source{client: client, bucket: bucket, key: key, logger: logger}
}

// Name identifies the source kind.
func (s *S3Source) Name() string { return "s3" }

// Load fetches, optionally decompresses, and decodes the snapshot object.
func (s *S3Source) Load(ctx context.Context) (Snapshot, error) {
	timer := logging.StartTimer(s.logger, "load snapshot from s3",
		logging.String("bucket", s.bucket),
		logging.String("key", s.key))

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &s.key,
	})
	if err != nil {
		timer.EndError(err)
		return Snapshot{}, fmt.Errorf("get s3://%s/%s: %w", s.bucket, s.key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		timer.EndError(err)
		return Snapshot{}, fmt.Errorf("read s3://%s/%s: %w", s.bucket, s.key, err)
	}

	if strings.HasSuffix(s.key, ".snappy") {
		data, err = snappy.Decode(nil, data)
		if err != nil {
			timer.EndError(err)
			return Snapshot{}, fmt.Errorf("decompress s3://%s/%s: %w", s.bucket, s.key, err)
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
