package memory_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-portfolio/pkg/portfolio"
	"github.com/tendant/simple-portfolio/pkg/portfolio/repo/memory"
	"github.com/tendant/simple-portfolio/pkg/portfolio/repo/repotest"
)

func TestMemoryRepository(t *testing.T) {
	repotest.Run(t, func(t *testing.T) portfolio.Repository {
		return memory.New()
	})
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	thumb := portfolio.FileRef("thumb")
	p := &portfolio.Project{
		ID:          uuid.New(),
		Title:       "original",
		Category:    portfolio.CategoryVideo,
		ThumbnailID: &thumb,
		Tags:        []string{"a"},
	}
	require.NoError(t, repo.CreateProject(ctx, p))

	p.Title = "mutated"
	p.Tags[0] = "mutated"
	*p.ThumbnailID = "mutated"

	got, err := repo.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", got.Title)
	assert.Equal(t, []string{"a"}, got.Tags)
	assert.Equal(t, portfolio.FileRef("thumb"), *got.ThumbnailID)

	got.Tags[0] = "changed"
	again, err := repo.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, again.Tags)
}
