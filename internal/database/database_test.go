package database_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/northlight-studio/agency-api/internal/database"
	"github.com/northlight-studio/agency-api/internal/domain"
	"github.com/northlight-studio/agency-api/internal/testutil"
)

func TestHealthCheckWithStats(t *testing.T) {
	db := testutil.SetupTestDB(t)

	require.NoError(t, database.HealthCheck(db))
	stats, err := database.HealthCheckWithStats(db)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.MaxOpenConnections)
}

func TestAutoMigrate_QuoteRoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	created := testutil.CreateTestQuote(t, db, "ada@example.com", time.Now().UTC())

	var loaded domain.Quote
	require.NoError(t, db.First(&loaded, "token = ?", created.Token).Error)
	assert.Equal(t, created.ID, loaded.ID)
	assert.Equal(t, created.Deliverables, loaded.Deliverables)
	assert.Equal(t, created.LineItems, loaded.LineItems)
	assert.Equal(t, created.Adjustments, loaded.Adjustments)
}

func TestUniqueTokenIsTranslated(t *testing.T) {
	db := testutil.SetupTestDB(t)
	q := testutil.CreateTestQuote(t, db, "ada@example.com", time.Now().UTC())

	dup := *q
	dup.ID = uuid.Nil
	err := db.Create(&dup).Error
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
}
