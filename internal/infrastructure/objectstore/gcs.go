package objectstore

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	log "github.com/sirupsen/logrus"
)

// GCS stores receipts in a single bucket.
type GCS struct {
	Client     *storage.Client
	BucketName string
}

func NewGCS(ctx context.Context, bucket string) (*GCS, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("gcs client: %w", err)
	}
	return &GCS{Client: client, BucketName: bucket}, nil
}

// Put writes data under name and returns a gs:// reference. Existing objects
// are never overwritten.
func (g *GCS) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	w := g.Client.Bucket(g.BucketName).Object(name).
		If(storage.Conditions{DoesNotExist: true}).
		NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("gcs write %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("gcs close %s: %w", name, err)
	}
	log.WithFields(log.Fields{"bucket": g.BucketName, "object": name, "bytes": len(data)}).Debug("receipt stored")
	return fmt.Sprintf("gs://%s/%s", g.BucketName, name), nil
}

func (g *GCS) Close() error {
	if g == nil || g.Client == nil {
		return nil
	}
	return g.Client.Close()
}
