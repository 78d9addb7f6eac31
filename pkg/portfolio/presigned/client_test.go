package presigned_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-portfolio/pkg/portfolio"
	"github.com/tendant/simple-portfolio/pkg/portfolio/objectkey"
	"github.com/tendant/simple-portfolio/pkg/portfolio/presigned"
	"github.com/tendant/simple-portfolio/pkg/portfolio/storage/memory"
)

func TestClient_UploadReturnsStorageID(t *testing.T) {
	signer := presigned.New(presigned.WithSecretKey("secret"))
	keys := objectkey.NewGitLikeGenerator()

	r := chi.NewRouter()
	srv := httptest.NewServer(r)
	defer srv.Close()

	urls := presigned.NewURLBuilder(signer, srv.URL)
	store := memory.New(urls)
	presigned.NewHandlers(store, signer, keys).Mount(r)

	ref := portfolio.NewFileRef()
	up, err := store.GetUploadURL(context.Background(), keys.Key(ref.String()))
	require.NoError(t, err)
	target := &portfolio.UploadTarget{URL: up.URL, Method: up.Method, StorageID: ref, ExpiresAt: up.ExpiresAt}

	var progress atomic.Int64
	client := presigned.NewClient(presigned.WithProgress(func(n int64) { progress.Store(n) }))
	got, err := client.Upload(context.Background(), target, strings.NewReader("hello"), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, ref, got)
	assert.Equal(t, int64(5), progress.Load())

	meta, err := store.GetObjectMeta(context.Background(), keys.Key(ref.String()))
	require.NoError(t, err)
	assert.Equal(t, "text/plain", meta.ContentType)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		assert.Equal(t, "payload", string(body), "body is rewound for the retry")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	target := &portfolio.UploadTarget{URL: srv.URL, Method: http.MethodPut, StorageID: "ref-1"}
	client := presigned.NewClient(presigned.WithRetry(2, time.Millisecond))

	got, err := client.Upload(context.Background(), target, strings.NewReader("payload"), "")
	require.NoError(t, err)
	assert.Equal(t, portfolio.FileRef("ref-1"), got, "empty response keeps the issued id")
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	target := &portfolio.UploadTarget{URL: srv.URL, Method: http.MethodPut, StorageID: "ref-1"}
	client := presigned.NewClient(presigned.WithRetry(3, time.Millisecond))

	_, err := client.Upload(context.Background(), target, strings.NewReader("payload"), "")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
