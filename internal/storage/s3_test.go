package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeObjectStore answers path-style PUT and GET object requests
type fakeObjectStore struct {
	mu           sync.Mutex
	objects      map[string][]byte
	contentTypes map[string]string
}

func (f *fakeObjectStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[r.URL.Path] = body
		f.contentTypes[r.URL.Path] = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		data, ok := f.objects[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", f.contentTypes[r.URL.Path])
		w.Write(data)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestS3StoreAndGet(t *testing.T) {
	store := &fakeObjectStore{objects: map[string][]byte{}, contentTypes: map[string]string{}}
	server := httptest.NewServer(store)
	defer server.Close()

	ctx := context.Background()
	client, err := NewS3Client(ctx, S3Options{
		Bucket:    "gmm-runs",
		Endpoint:  server.URL,
		Region:    "us-east-1",
		AccessKey: "key",
		SecretKey: "secret",
	})
	require.NoError(t, err)

	require.NoError(t, client.StoreFile(ctx, "2025/01/01/GmmRun-x", "spectra.json", []byte(`{"rows":3}`)))

	store.mu.Lock()
	assert.Equal(t, []byte(`{"rows":3}`), store.objects["/gmm-runs/2025/01/01/GmmRun-x/spectra.json"])
	assert.Equal(t, "application/json", store.contentTypes["/gmm-runs/2025/01/01/GmmRun-x/spectra.json"])
	store.mu.Unlock()

	data, err := client.GetFile(ctx, "2025/01/01/GmmRun-x/spectra.json")
	require.NoError(t, err)
	assert.Equal(t, `{"rows":3}`, string(data))
}
