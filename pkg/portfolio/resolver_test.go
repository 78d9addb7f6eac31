package portfolio_test

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-portfolio/pkg/portfolio"
	"github.com/tendant/simple-portfolio/pkg/portfolio/objectkey"
	"github.com/tendant/simple-portfolio/pkg/portfolio/presigned"
	memorystorage "github.com/tendant/simple-portfolio/pkg/portfolio/storage/memory"
)

// countingStore counts download URL lookups.
type countingStore struct {
	portfolio.BlobStore
	lookups atomic.Int32
	err     error
}

func (c *countingStore) GetDownloadURL(ctx context.Context, key string) (string, error) {
	c.lookups.Add(1)
	if c.err != nil {
		return "", c.err
	}
	return c.BlobStore.GetDownloadURL(ctx, key)
}

func newCountingStore() *countingStore {
	return &countingStore{BlobStore: memorystorage.New(presigned.NewURLBuilder(presigned.New(), ""))}
}

func TestResolver_ResolveURL(t *testing.T) {
	ctx := context.Background()
	store := newCountingStore()
	files := portfolio.NewResolver(store)

	assert.Nil(t, files.ResolveURL(ctx, nil))
	empty := portfolio.FileRef("")
	assert.Nil(t, files.ResolveURL(ctx, &empty))
	assert.Equal(t, int32(0), store.lookups.Load())

	missing := portfolio.NewFileRef()
	assert.Nil(t, files.ResolveURL(ctx, &missing))

	ref := portfolio.NewFileRef()
	require.NoError(t, store.Upload(ctx, files.Key(ref), strings.NewReader("x")))
	u := files.ResolveURL(ctx, &ref)
	require.NotNil(t, u)
	assert.Equal(t, "/files/download/"+files.Key(ref), *u)
}

func TestResolver_StoreErrorsDegradeToNil(t *testing.T) {
	store := newCountingStore()
	store.err = errors.New("network down")
	files := portfolio.NewResolver(store)

	ref := portfolio.NewFileRef()
	assert.Nil(t, files.ResolveURL(context.Background(), &ref))
}

func TestResolver_Cache(t *testing.T) {
	ctx := context.Background()
	store := newCountingStore()
	files := portfolio.NewResolver(store, portfolio.WithResolverCache(time.Minute))

	ref := portfolio.NewFileRef()
	require.NoError(t, store.Upload(ctx, files.Key(ref), strings.NewReader("x")))

	first := files.ResolveURL(ctx, &ref)
	second := files.ResolveURL(ctx, &ref)
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, *first, *second)
	assert.Equal(t, int32(1), store.lookups.Load())

	require.NoError(t, files.Delete(ctx, ref))
	assert.Nil(t, files.ResolveURL(ctx, &ref), "delete drops the cached url")
	assert.Equal(t, int32(2), store.lookups.Load())
}

func TestResolver_MissDoesNotPopulateCache(t *testing.T) {
	ctx := context.Background()
	store := newCountingStore()
	files := portfolio.NewResolver(store, portfolio.WithResolverCache(time.Minute))

	ref := portfolio.NewFileRef()
	assert.Nil(t, files.ResolveURL(ctx, &ref))

	require.NoError(t, store.Upload(ctx, files.Key(ref), strings.NewReader("x")))
	assert.NotNil(t, files.ResolveURL(ctx, &ref))
}

func TestResolver_BeginUpload(t *testing.T) {
	keys := objectkey.NewFlatGenerator("media")
	files := portfolio.NewResolver(newCountingStore(), portfolio.WithKeyGenerator(keys))

	target, err := files.BeginUpload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/files/upload/media/"+target.StorageID.String(), target.URL)

	ref, err := files.Ref("media/" + target.StorageID.String())
	require.NoError(t, err)
	assert.Equal(t, target.StorageID, ref)
}

func TestResolver_BeginUploadWithoutURLSupport(t *testing.T) {
	files := portfolio.NewResolver(memorystorage.New(nil))

	_, err := files.BeginUpload(context.Background())
	var serr *portfolio.StorageError
	assert.True(t, errors.As(err, &serr))
}
