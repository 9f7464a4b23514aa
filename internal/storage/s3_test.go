package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"places/internal/models"
)

type putCall struct {
	bucket, key, contentType string
	body                     []byte
}

type fakeStore struct {
	buckets map[string]bool
	made    []string
	puts    []putCall
	putErr  error
}

func (f *fakeStore) BucketExists(_ context.Context, bucket string) (bool, error) {
	return f.buckets[bucket], nil
}

func (f *fakeStore) MakeBucket(_ context.Context, bucket string, _ minio.MakeBucketOptions) error {
	f.made = append(f.made, bucket)
	return nil
}

func (f *fakeStore) PutObject(_ context.Context, bucket, key string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if f.putErr != nil {
		return minio.UploadInfo{}, f.putErr
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	if int64(len(body)) != size {
		return minio.UploadInfo{}, errors.New("size mismatch")
	}
	f.puts = append(f.puts, putCall{bucket: bucket, key: key, contentType: opts.ContentType, body: body})
	return minio.UploadInfo{Bucket: bucket, Key: key, Size: size}, nil
}

func TestExporter_Export(t *testing.T) {
	store := &fakeStore{}
	exporter := NewExporterWithStore(store, "places")
	exporter.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	places := []models.Place{
		{ID: "1", Name: "Paris", Latitude: 48.85, Longitude: 2.35},
		{ID: "2", Name: "Lyon", Latitude: 45.76, Longitude: 4.84},
	}
	key, err := exporter.Export(context.Background(), "Alice", places)
	require.NoError(t, err)

	assert.Equal(t, "places/alice.json", key)
	require.Len(t, store.puts, 1)
	put := store.puts[0]
	assert.Equal(t, "places", put.bucket)
	assert.Equal(t, "application/json", put.contentType)

	var got Snapshot
	require.NoError(t, json.Unmarshal(put.body, &got))
	assert.Equal(t, "Alice", got.Nickname)
	assert.Equal(t, places, got.Places)
	assert.True(t, got.ExportedAt.Equal(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)))
}

func TestExporter_ExportEmpty(t *testing.T) {
	store := &fakeStore{}
	_, err := NewExporterWithStore(store, "places").Export(context.Background(), "bob", nil)
	require.NoError(t, err)

	require.Len(t, store.puts, 1)
	assert.Contains(t, string(store.puts[0].body), `"places":[]`)
}

func TestExporter_ExportError(t *testing.T) {
	store := &fakeStore{putErr: errors.New("access denied")}
	_, err := NewExporterWithStore(store, "places").Export(context.Background(), "bob", nil)
	assert.ErrorContains(t, err, "access denied")
}

func TestExporter_EnsureBucket(t *testing.T) {
	store := &fakeStore{buckets: map[string]bool{"existing": true}}

	require.NoError(t, NewExporterWithStore(store, "existing").EnsureBucket(context.Background(), ""))
	assert.Empty(t, store.made)

	require.NoError(t, NewExporterWithStore(store, "fresh").EnsureBucket(context.Background(), "us-east-1"))
	assert.Equal(t, []string{"fresh"}, store.made)
}

func TestNewExporter_RequiresCredentials(t *testing.T) {
	_, err := NewExporter(Options{Endpoint: "localhost:9000"})
	assert.Error(t, err)
}
