// Package storage uploads places snapshots to S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"places/internal/keys"
	"places/internal/models"
)

// ObjectStore is the part of *minio.Client the exporter uses.
type ObjectStore interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

// Snapshot is the exported document.
type Snapshot struct {
	Nickname   string         `json:"nickname"`
	ExportedAt time.Time      `json:"exportedAt"`
	Places     []models.Place `json:"places"`
}

// Exporter writes snapshots; it never reads them back.
type Exporter struct {
	store  ObjectStore
	bucket string
	now    func() time.Time
}

func NewExporter(opts Options) (*Exporter, error) {
	if opts.Endpoint == "" || opts.AccessKey == "" || opts.SecretKey == "" {
		return nil, fmt.Errorf("missing MinIO endpoint or credentials")
	}

	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	log.Println("Using MinIO endpoint:", opts.Endpoint)
	return NewExporterWithStore(client, opts.Bucket), nil
}

func NewExporterWithStore(store ObjectStore, bucket string) *Exporter {
	return &Exporter{store: store, bucket: bucket, now: time.Now}
}

// EnsureBucket creates the bucket when it does not exist yet.
func (e *Exporter) EnsureBucket(ctx context.Context, region string) error {
	exists, err := e.store.BucketExists(ctx, e.bucket)
	if err != nil {
		return fmt.Errorf("error checking bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := e.store.MakeBucket(ctx, e.bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return fmt.Errorf("creating bucket %s: %w", e.bucket, err)
	}
	return nil
}

// Export uploads places as the current snapshot of nickname, overwriting the
// previous one, and returns the object key.
func (e *Exporter) Export(ctx context.Context, nickname string, places []models.Place) (string, error) {
	if places == nil {
		places = []models.Place{}
	}
	data, err := json.Marshal(Snapshot{Nickname: nickname, ExportedAt: e.now().UTC(), Places: places})
	if err != nil {
		return "", fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	key := keys.Places(nickname)
	_, err = e.store.PutObject(ctx, e.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return "", fmt.Errorf("failed to store snapshot in S3: %w", err)
	}

	log.Printf("Stored %d places of '%s' in bucket '%s' with key '%s'", len(places), nickname, e.bucket, key)
	return key, nil
}
