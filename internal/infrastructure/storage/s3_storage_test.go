package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/printshop/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// fakeS3 answers path-style object requests from a map
type fakeS3 struct {
	mu       sync.Mutex
	objects  map[string]string
	requests []string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)

	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[r.URL.Path] = string(body)
		w.WriteHeader(http.StatusOK)
	case http.MethodHead:
		if _, ok := f.objects[r.URL.Path]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		delete(f.objects, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newFakeS3Storage(t *testing.T, prefix string) (*S3ObjectStorage, *fakeS3) {
	t.Helper()
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")

	fake := &fakeS3{objects: make(map[string]string)}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	storage, err := NewS3ObjectStorage(context.Background(), config.StorageConfig{
		Bucket:          "printshop",
		Region:          "us-east-1",
		Endpoint:        server.URL,
		AccessKeyID:     "test-key",
		SecretAccessKey: "test-secret",
		UsePathStyle:    true,
		KeyPrefix:       prefix,
	}, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	return storage, fake
}

func TestNewS3ObjectStorage_Validation(t *testing.T) {
	ctx := context.Background()

	_, err := NewS3ObjectStorage(ctx, config.StorageConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket is required")

	_, err = NewS3ObjectStorage(ctx, config.StorageConfig{Bucket: "b", AccessKeyID: "only-id"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "set together")

	storage, err := NewS3ObjectStorage(ctx, config.StorageConfig{Bucket: "b", AccessKeyID: "id", SecretAccessKey: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "b", storage.Bucket())
	assert.Equal(t, 15*time.Minute, storage.presignExpiry)
}

func TestNormalizeEndpoint(t *testing.T) {
	assert.Equal(t, "http://minio:9000", normalizeEndpoint("http://minio:9000"))
	assert.Equal(t, "https://s3.example.com", normalizeEndpoint("s3.example.com"))
}

func TestS3ObjectStorage_UploadExistsDelete(t *testing.T) {
	storage, fake := newFakeS3Storage(t, "")
	ctx := context.Background()
	key := "tenant/quote-items/item/1-art.pdf"

	require.NoError(t, storage.Upload(ctx, key, []byte("%PDF-1.7 artwork"), "application/pdf"))

	fake.mu.Lock()
	assert.Contains(t, fake.objects["/printshop/"+key], "%PDF-1.7 artwork")
	fake.mu.Unlock()

	exists, err := storage.ObjectExists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, storage.DeleteObject(ctx, key))

	exists, err = storage.ObjectExists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestS3ObjectStorage_KeyPrefix(t *testing.T) {
	storage, fake := newFakeS3Storage(t, "/uploads/")
	require.NoError(t, storage.Upload(context.Background(), "a/b.png", []byte("png"), "image/png"))

	fake.mu.Lock()
	defer fake.mu.Unlock()
	_, ok := fake.objects["/printshop/uploads/a/b.png"]
	assert.True(t, ok)
}

func TestS3ObjectStorage_GenerateDownloadURL(t *testing.T) {
	storage, _ := newFakeS3Storage(t, "")
	ctx := context.Background()

	url, expiresAt, err := storage.GenerateDownloadURL(ctx, "a/b.png", 10*time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.Contains(url, "/printshop/a/b.png"))
	assert.Contains(t, url, "X-Amz-Expires=600")
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), expiresAt, 5*time.Second)

	url, _, err = storage.GenerateDownloadURL(ctx, "a/b.png", 0)
	require.NoError(t, err)
	assert.Contains(t, url, "X-Amz-Expires=900", "falls back to the configured expiry")
}

func TestS3ObjectStorage_EmptyKey(t *testing.T) {
	storage, _ := newFakeS3Storage(t, "")
	ctx := context.Background()

	assert.ErrorIs(t, storage.Upload(ctx, "", nil, ""), ErrEmptyKey)
	assert.ErrorIs(t, storage.DeleteObject(ctx, ""), ErrEmptyKey)
	_, _, err := storage.GenerateDownloadURL(ctx, "", time.Minute)
	assert.ErrorIs(t, err, ErrEmptyKey)
	_, err = storage.ObjectExists(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyKey)
}

func TestMemoryObjectStorage(t *testing.T) {
	store := NewMemoryObjectStorage()
	ctx := context.Background()

	require.NoError(t, store.Upload(ctx, "k", []byte("data"), "text/plain"))
	obj, ok := store.Get("k")
	require.True(t, ok)
	assert.Equal(t, "data", string(obj.Data))
	assert.Equal(t, "text/plain", obj.ContentType)

	url, _, err := store.GenerateDownloadURL(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, store.BaseURL+"/k?expires="))

	require.NoError(t, store.DeleteObject(ctx, "k"))
	assert.Equal(t, 0, store.Len())
	assert.ErrorIs(t, store.Upload(ctx, "", nil, ""), ErrEmptyKey)
}
