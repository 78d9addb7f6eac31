package presigned_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-portfolio/pkg/portfolio"
	"github.com/tendant/simple-portfolio/pkg/portfolio/objectkey"
	"github.com/tendant/simple-portfolio/pkg/portfolio/presigned"
	"github.com/tendant/simple-portfolio/pkg/portfolio/storage/memory"
)

type fixture struct {
	router *chi.Mux
	store  *memory.Backend
	urls   *presigned.URLBuilder
	keys   objectkey.Generator
}

func newFixture(t *testing.T, secret string, opts ...presigned.HandlersOption) *fixture {
	t.Helper()
	signer := presigned.New(presigned.WithSecretKey(secret))
	urls := presigned.NewURLBuilder(signer, "")
	store := memory.New(urls)
	keys := objectkey.NewGitLikeGenerator()

	r := chi.NewRouter()
	presigned.NewHandlers(store, signer, keys, opts...).Mount(r)
	return &fixture{router: r, store: store, urls: urls, keys: keys}
}

func (f *fixture) do(method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestHandlers_UploadThenDownload(t *testing.T) {
	f := newFixture(t, "secret")
	ref := "0f8fad5b-d9cb-469f-a165-70867728950e"
	key := f.keys.Key(ref)

	up, err := f.urls.UploadURL(key)
	require.NoError(t, err)

	rec := f.do(up.Method, up.URL, strings.NewReader("png-bytes"), "image/png")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp presigned.UploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, ref, resp.StorageID)

	down, err := f.urls.DownloadURL(key)
	require.NoError(t, err)

	rec = f.do(http.MethodGet, down, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "png-bytes", rec.Body.String())
}

func TestHandlers_RejectsBadSignatures(t *testing.T) {
	f := newFixture(t, "secret")
	key := f.keys.Key("0f8fad5b-d9cb-469f-a165-70867728950e")

	up, err := f.urls.UploadURL(key)
	require.NoError(t, err)
	u, err := url.Parse(up.URL)
	require.NoError(t, err)

	t.Run("unsigned", func(t *testing.T) {
		rec := f.do(http.MethodPost, u.Path, strings.NewReader("x"), "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("upload url reused for download", func(t *testing.T) {
		rec := f.do(http.MethodGet, strings.Replace(up.URL, "/files/upload/", "/files/download/", 1), nil, "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("tampered key", func(t *testing.T) {
		other := strings.Replace(up.URL, key, f.keys.Key("1f8fad5b-d9cb-469f-a165-70867728950e"), 1)
		rec := f.do(http.MethodPost, other, strings.NewReader("x"), "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	_, err = f.store.GetObjectMeta(context.Background(), key)
	assert.ErrorIs(t, err, portfolio.ErrFileNotFound, "nothing was stored")
}

func TestHandlers_InvalidKeyAndMissingObject(t *testing.T) {
	f := newFixture(t, "")

	rec := f.do(http.MethodPost, "/files/upload/not-a-key", strings.NewReader("x"), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodGet, "/files/download/"+f.keys.Key("0f8fad5b-d9cb-469f-a165-70867728950e"), nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlers_MaxUploadBytes(t *testing.T) {
	f := newFixture(t, "", presigned.WithMaxUploadBytes(4))
	key := f.keys.Key("0f8fad5b-d9cb-469f-a165-70867728950e")

	rec := f.do(http.MethodPost, "/files/upload/"+key, bytes.NewReader([]byte("too many bytes")), "")
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
