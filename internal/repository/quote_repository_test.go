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

func TestQuoteRepository_GetByToken(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewQuoteRepository(db)
	ctx := context.Background()

	created := testutil.CreateTestQuote(t, db, "ada@example.com", time.Now().UTC())

	found, err := repo.GetByToken(ctx, created.Token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, created.TotalPrice, found.TotalPrice)

	_, err = repo.GetByToken(ctx, "QT-MISSING-00000000")
	assert.Error(t, err)
}

func TestQuoteRepository_ListFilters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewQuoteRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	testutil.CreateTestQuote(t, db, "ada@example.com", now.Add(-2*time.Hour))
	testutil.CreateTestQuote(t, db, "grace@example.com", now.Add(-time.Hour))
	declined := testutil.CreateTestQuote(t, db, "ada@example.com", now)
	require.NoError(t, db.Model(declined).Update("status", domain.QuoteStatusDeclined).Error)

	t.Run("all quotes newest first", func(t *testing.T) {
		quotes, total, err := repo.List(ctx, 1, 10, repository.QuoteFilters{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, quotes, 3)
		assert.Equal(t, declined.ID, quotes[0].ID)
	})

	t.Run("filter by status", func(t *testing.T) {
		status := domain.QuoteStatusPending
		quotes, total, err := repo.List(ctx, 1, 10, repository.QuoteFilters{Status: &status})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, quotes, 2)
	})

	t.Run("filter by email ignores case", func(t *testing.T) {
		_, total, err := repo.List(ctx, 1, 10, repository.QuoteFilters{Email: "ADA@example.com"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})

	t.Run("filter by complexity", func(t *testing.T) {
		_, total, err := repo.List(ctx, 1, 10, repository.QuoteFilters{Complexity: "enterprise"})
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
	})

	t.Run("pagination", func(t *testing.T) {
		quotes, total, err := repo.List(ctx, 2, 2, repository.QuoteFilters{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, quotes, 1)
	})
}

func TestQuoteRepository_ExpireStale(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewQuoteRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	stale := testutil.CreateTestQuote(t, db, "old@example.com", now.Add(-40*24*time.Hour))
	fresh := testutil.CreateTestQuote(t, db, "new@example.com", now.Add(-24*time.Hour))
	accepted := testutil.CreateTestQuote(t, db, "done@example.com", now.Add(-40*24*time.Hour))
	require.NoError(t, db.Model(accepted).Update("status", domain.QuoteStatusAccepted).Error)

	n, err := repo.ExpireStale(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	reloaded, err := repo.GetByID(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.QuoteStatusExpired, reloaded.Status)

	reloaded, err = repo.GetByID(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.QuoteStatusPending, reloaded.Status)

	reloaded, err = repo.GetByID(ctx, accepted.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.QuoteStatusAccepted, reloaded.Status)

	n, err = repo.ExpireStale(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[domain.QuoteStatusExpired])
	assert.Equal(t, int64(1), counts[domain.QuoteStatusPending])
	assert.Equal(t, int64(1), counts[domain.QuoteStatusAccepted])
}

func TestQuoteRepository_MarkDecided(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewQuoteRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	client := testutil.CreateTestClient(t, db, "Ada Lovelace")
	quote := testutil.CreateTestQuote(t, db, client.Email, now)

	quote.Status = domain.QuoteStatusAccepted
	quote.AcceptedAt = &now
	quote.ClientID = &client.ID
	project := &domain.Project{
		Name:     "Landing page for Ada Lovelace",
		ClientID: client.ID,
		QuoteID:  &quote.ID,
		Status:   domain.ProjectStatusPlanning,
		Budget:   quote.TotalPrice,
	}

	require.NoError(t, repo.MarkDecided(ctx, quote, project))
	require.NotNil(t, quote.ProjectID)
	assert.Equal(t, project.ID, *quote.ProjectID)

	reloaded, err := repo.GetByID(ctx, quote.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.QuoteStatusAccepted, reloaded.Status)
	require.NotNil(t, reloaded.ProjectID)
	assert.Equal(t, project.ID, *reloaded.ProjectID)
	assert.NotNil(t, reloaded.AcceptedAt)

	t.Run("second decision is rejected and rolls back", func(t *testing.T) {
		quote.Status = domain.QuoteStatusDeclined
		second := &domain.Project{Name: "Duplicate", ClientID: client.ID, Status: domain.ProjectStatusPlanning}
		err := repo.MarkDecided(ctx, quote, second)
		assert.ErrorIs(t, err, repository.ErrQuoteNotOpen)

		var projects int64
		require.NoError(t, db.Model(&domain.Project{}).Count(&projects).Error)
		assert.Equal(t, int64(1), projects)
	})
}
