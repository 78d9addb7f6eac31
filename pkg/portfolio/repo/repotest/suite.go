// Package repotest holds the behavior every portfolio.Repository must share.
package repotest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-portfolio/pkg/portfolio"
)

// Factory returns an empty repository for one subtest.
type Factory func(t *testing.T) portfolio.Repository

// Run exercises a repository implementation.
func Run(t *testing.T, newRepo Factory) {
	t.Run("Profile", func(t *testing.T) { testProfile(t, newRepo(t)) })
	t.Run("Skills", func(t *testing.T) { testSkills(t, newRepo(t)) })
	t.Run("Projects", func(t *testing.T) { testProjects(t, newRepo(t)) })
	t.Run("Messages", func(t *testing.T) { testMessages(t, newRepo(t)) })
}

func str(s string) *string { return &s }

func ref(s string) *portfolio.FileRef {
	r := portfolio.FileRef(s)
	return &r
}

func testProfile(t *testing.T, repo portfolio.Repository) {
	ctx := context.Background()

	_, err := repo.GetProfile(ctx)
	assert.ErrorIs(t, err, portfolio.ErrNotFound)

	err = repo.UpsertProfile(ctx, portfolio.UpdateProfileRequest{
		Name:          "A",
		Location:      "L",
		Profession:    "P",
		Bio:           "B",
		ContactNumber: str("123"),
		SocialLinks:   &portfolio.SocialLinks{Instagram: str("@a")},
	})
	require.NoError(t, err)

	p, err := repo.GetProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A", p.Name)
	assert.Equal(t, "123", *p.ContactNumber)
	assert.Nil(t, p.FatherName)
	assert.Nil(t, p.ProfileImageID)
	require.NotNil(t, p.SocialLinks.Instagram)
	assert.Equal(t, "@a", *p.SocialLinks.Instagram)

	// Optional fields survive when omitted; social links are replaced.
	err = repo.UpsertProfile(ctx, portfolio.UpdateProfileRequest{
		Name:           "B",
		Location:       "L2",
		Profession:     "P2",
		Bio:            "B2",
		ProfileImageID: ref("img-1"),
		SocialLinks:    &portfolio.SocialLinks{Youtube: str("yt")},
	})
	require.NoError(t, err)

	p, err = repo.GetProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "B", p.Name)
	assert.Equal(t, "L2", p.Location)
	require.NotNil(t, p.ContactNumber)
	assert.Equal(t, "123", *p.ContactNumber)
	require.NotNil(t, p.ProfileImageID)
	assert.Equal(t, portfolio.FileRef("img-1"), *p.ProfileImageID)
	assert.Nil(t, p.SocialLinks.Instagram)
	require.NotNil(t, p.SocialLinks.Youtube)
	assert.Equal(t, "yt", *p.SocialLinks.Youtube)
}

func testSkills(t *testing.T, repo portfolio.Repository) {
	ctx := context.Background()

	skills, err := repo.ListSkills(ctx)
	require.NoError(t, err)
	assert.Empty(t, skills)

	names := []string{"Zeta", "Alpha", "Mid"}
	ids := make([]uuid.UUID, len(names))
	for i, name := range names {
		ids[i] = uuid.New()
		require.NoError(t, repo.CreateSkill(ctx, &portfolio.Skill{
			ID: ids[i], Name: name, Category: "C", Level: 50 + i, Icon: "x", Description: "d",
		}))
	}

	skills, err = repo.ListSkills(ctx)
	require.NoError(t, err)
	require.Len(t, skills, 3)
	for i, s := range skills {
		assert.Equal(t, names[i], s.Name)
		assert.Equal(t, ids[i], s.ID)
		assert.False(t, s.IsDefault)
	}

	require.NoError(t, repo.DeleteSkill(ctx, ids[1]))
	assert.ErrorIs(t, repo.DeleteSkill(ctx, ids[1]), portfolio.ErrNotFound)

	skills, err = repo.ListSkills(ctx)
	require.NoError(t, err)
	require.Len(t, skills, 2)
	assert.Equal(t, "Zeta", skills[0].Name)
	assert.Equal(t, "Mid", skills[1].Name)
}

func testProjects(t *testing.T, repo portfolio.Repository) {
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	add := func(title string, c portfolio.Category, featured bool, minute int) *portfolio.Project {
		p := &portfolio.Project{
			ID:          uuid.New(),
			Title:       title,
			Description: "desc",
			Category:    c,
			Tags:        []string{"b", "a"},
			Featured:    featured,
			CreatedAt:   base.Add(time.Duration(minute) * time.Minute),
		}
		require.NoError(t, repo.CreateProject(ctx, p))
		return p
	}

	v1 := add("v1", portfolio.CategoryVideo, true, 1)
	m1 := add("m1", portfolio.CategoryMusic, false, 2)
	_ = add("v2", portfolio.CategoryVideo, true, 3)

	got, err := repo.GetProject(ctx, m1.ID)
	require.NoError(t, err)
	assert.Equal(t, "m1", got.Title)
	assert.Equal(t, []string{"b", "a"}, got.Tags)
	assert.True(t, got.CreatedAt.Equal(m1.CreatedAt))

	_, err = repo.GetProject(ctx, uuid.New())
	assert.ErrorIs(t, err, portfolio.ErrNotFound)

	all, err := repo.ListProjects(ctx, portfolio.ListProjectsParams{})
	require.NoError(t, err)
	assert.Equal(t, []string{"v2", "m1", "v1"}, titles(all))

	video := portfolio.CategoryVideo
	vids, err := repo.ListProjects(ctx, portfolio.ListProjectsParams{Category: &video})
	require.NoError(t, err)
	assert.Equal(t, []string{"v2", "v1"}, titles(vids))

	graphics := portfolio.CategoryGraphics
	none, err := repo.ListProjects(ctx, portfolio.ListProjectsParams{Category: &graphics})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	featured, err := repo.ListProjects(ctx, portfolio.ListProjectsParams{FeaturedOnly: true, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"v2"}, titles(featured))

	require.NoError(t, repo.DeleteProject(ctx, v1.ID))
	assert.ErrorIs(t, repo.DeleteProject(ctx, v1.ID), portfolio.ErrNotFound)
}

func testMessages(t *testing.T, repo portfolio.Repository) {
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	ids := make([]uuid.UUID, 3)
	for i := range ids {
		ids[i] = uuid.New()
		require.NoError(t, repo.CreateMessage(ctx, &portfolio.ContactMessage{
			ID:        ids[i],
			Name:      "n",
			Email:     "e@example.com",
			Message:   "m",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	msgs, err := repo.ListMessages(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, ids[2], msgs[0].ID)
	assert.Equal(t, ids[0], msgs[2].ID)

	n, err := repo.CountUnreadMessages(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.NoError(t, repo.SetMessageRead(ctx, ids[0], true))
	assert.ErrorIs(t, repo.SetMessageRead(ctx, uuid.New(), true), portfolio.ErrNotFound)

	n, err = repo.CountUnreadMessages(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func titles(ps []*portfolio.Project) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Title
	}
	return out
}
