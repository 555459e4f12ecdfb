package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/northlight-studio/agency-api/internal/domain"
	"github.com/northlight-studio/agency-api/internal/repository"
	"github.com/northlight-studio/agency-api/internal/testutil"
)

func TestClientRepository(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewClientRepository(db)
	ctx := context.Background()

	ada := testutil.CreateTestClient(t, db, "Ada Lovelace")
	testutil.CreateTestClient(t, db, "Grace Hopper")

	t.Run("get by email ignores case and spaces", func(t *testing.T) {
		found, err := repo.GetByEmail(ctx, "  ADA.Lovelace@Example.com ")
		require.NoError(t, err)
		assert.Equal(t, ada.ID, found.ID)
	})

	t.Run("search", func(t *testing.T) {
		clients, total, err := repo.List(ctx, 1, 10, "grace", nil)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, clients, 1)
		assert.Equal(t, "Grace Hopper", clients[0].Name)
	})

	t.Run("details include contacts", func(t *testing.T) {
		contacts := repository.NewContactRepository(db)
		require.NoError(t, contacts.Create(ctx, &domain.Contact{ClientID: &ada.ID, FirstName: "Ada", LastName: "King"}))

		client, err := repo.GetWithDetails(ctx, ada.ID)
		require.NoError(t, err)
		assert.Len(t, client.Contacts, 1)
		assert.Empty(t, client.Projects)
	})
}

func TestContactRepository_ClearPrimary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewContactRepository(db)
	ctx := context.Background()
	client := testutil.CreateTestClient(t, db, "Kiln Co")

	first := &domain.Contact{ClientID: &client.ID, FirstName: "A", LastName: "One", IsPrimary: true}
	second := &domain.Contact{ClientID: &client.ID, FirstName: "B", LastName: "Two", IsPrimary: true}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	require.NoError(t, repo.ClearPrimary(ctx, client.ID, second.ID))

	reloaded, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsPrimary)

	reloaded, err = repo.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.IsPrimary)
}

func TestBlogPostRepository(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewBlogPostRepository(db)
	ctx := context.Background()

	older := time.Now().UTC().Add(-48 * time.Hour)
	newer := time.Now().UTC().Add(-time.Hour)
	posts := []*domain.BlogPost{
		{Title: "Old", Slug: "old", Content: "x", Status: domain.BlogPostStatusPublished, PublishedAt: &older},
		{Title: "New", Slug: "new", Content: "x", Status: domain.BlogPostStatusPublished, PublishedAt: &newer},
		{Title: "Draft", Slug: "draft", Content: "x", Status: domain.BlogPostStatusDraft},
	}
	for _, p := range posts {
		require.NoError(t, repo.Create(ctx, p))
	}

	published := domain.BlogPostStatusPublished
	list, total, err := repo.List(ctx, 1, 10, &published)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].Slug)

	exists, err := repo.SlugExists(ctx, "old", nil)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.SlugExists(ctx, "old", &posts[0].ID)
	require.NoError(t, err)
	assert.False(t, exists)

	found, err := repo.GetBySlug(ctx, "draft")
	require.NoError(t, err)
	assert.Equal(t, posts[2].ID, found.ID)
}

func TestPortfolioRepository_ListPublished(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewPortfolioRepository(db)
	ctx := context.Background()

	items := []*domain.PortfolioItem{
		{Title: "B", Slug: "b", Published: true, SortOrder: 2},
		{Title: "A", Slug: "a", Published: true, SortOrder: 1},
		{Title: "Star", Slug: "star", Published: true, Featured: true, SortOrder: 9},
		{Title: "Hidden", Slug: "hidden"},
	}
	for _, it := range items {
		require.NoError(t, repo.Create(ctx, it))
	}

	list, total, err := repo.List(ctx, 1, 10, true)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"star", "a", "b"}, []string{list[0].Slug, list[1].Slug, list[2].Slug})

	_, total, err = repo.List(ctx, 1, 10, false)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
}
