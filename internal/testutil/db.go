// Package testutil holds shared fixtures for package tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/northlight-studio/agency-api/internal/database"
	"github.com/northlight-studio/agency-api/internal/domain"
	"github.com/northlight-studio/agency-api/internal/estimator"
	"github.com/northlight-studio/agency-api/internal/mapper"
)

// SetupTestDB opens an isolated in-memory SQLite database with all tables migrated
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open(sqlite.Open(dsn))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))

	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}

// CreateTestClient inserts a client with the given name; the e-mail is derived from it
func CreateTestClient(t *testing.T, db *gorm.DB, name string) *domain.Client {
	t.Helper()

	client := &domain.Client{
		Name:   name,
		Email:  strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
		Status: domain.ClientStatusActive,
		Source: domain.ClientSourceManual,
	}
	require.NoError(t, db.Create(client).Error)
	return client
}

// CreateTestQuote inserts a deterministic quote for a landing page created at createdAt
func CreateTestQuote(t *testing.T, db *gorm.DB, email string, createdAt time.Time) *domain.Quote {
	t.Helper()

	req := estimator.ProjectRequest{
		ProjectType: estimator.ProjectTypeLandingPage,
		Timeline:    estimator.TimelineOneMonth,
	}
	rec, err := estimator.AssembleRecord(
		estimator.NewToken(createdAt),
		estimator.ClientContact{Name: "Test Client", Email: email},
		req,
		estimator.EstimateDeterministic(req),
		createdAt,
	)
	require.NoError(t, err)

	quote := mapper.QuoteFromRecord(rec)
	require.NoError(t, db.Create(quote).Error)
	return quote
}
