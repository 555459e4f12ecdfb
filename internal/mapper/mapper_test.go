package mapper_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/northlight-studio/agency-api/internal/domain"
	"github.com/northlight-studio/agency-api/internal/estimator"
	"github.com/northlight-studio/agency-api/internal/mapper"
)

func TestQuoteRecordRoundTrip(t *testing.T) {
	now := time.Date(2026, 4, 2, 10, 30, 0, 0, time.UTC)
	req := estimator.ProjectRequest{
		ProjectType:  estimator.ProjectTypeEcommerce,
		Features:     []string{"payment-integration", "cms"},
		Timeline:     estimator.TimelineTwoMonths,
		BudgetRange:  "10k-20k",
		Requirements: "Sell handmade ceramics",
	}
	breakdown := estimator.EstimateDeterministic(req)
	rec, err := estimator.AssembleRecord("QT-ABC-12345678",
		estimator.ClientContact{Name: "Grace", Email: "grace@example.com", Company: "Kiln Co"},
		req, breakdown, now)
	require.NoError(t, err)

	q := mapper.QuoteFromRecord(rec)
	assert.Equal(t, domain.QuoteStatusPending, q.Status)
	assert.Equal(t, breakdown.TotalPrice, q.TotalPrice)
	assert.Equal(t, []string{"cms", "payment-integration"}, q.Features)
	assert.Equal(t, now.Add(estimator.QuoteValidity), q.ExpiresAt)

	back := mapper.ToRecord(q)
	assert.Equal(t, rec.Request, back.Request)
	assert.Equal(t, rec.Client, back.Client)
	assert.Equal(t, *breakdown, back.Breakdown)
}

func TestToQuoteDTO(t *testing.T) {
	accepted := time.Date(2026, 4, 3, 8, 0, 0, 0, time.UTC)
	q := &domain.Quote{
		Token:      "QT-1-AAAAAAAA",
		Status:     domain.QuoteStatusAccepted,
		ClientName: "Grace",
		Complexity: "moderate",
		ExpiresAt:  accepted.Add(24 * time.Hour),
		AcceptedAt: &accepted,
	}

	dto := mapper.ToQuoteDTO(q)
	assert.Equal(t, "2026-04-03T08:00:00Z", dto.AcceptedAt)
	assert.Empty(t, dto.DeclinedAt)
	assert.Equal(t, estimator.TierModerate, dto.Quote.Complexity)
	assert.NotNil(t, dto.Quote.Risks)
}

func TestParseDate(t *testing.T) {
	d, err := mapper.ParseDate("")
	assert.NoError(t, err)
	assert.Nil(t, d)

	d, err = mapper.ParseDate("2026-06-30")
	require.NoError(t, err)
	assert.Equal(t, 30, d.Day())

	_, err = mapper.ParseDate("30/06/2026")
	assert.Error(t, err)
}

func TestToProjectDTO(t *testing.T) {
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	p := &domain.Project{
		Name:      "Shop",
		Status:    domain.ProjectStatusPlanning,
		StartDate: &start,
		Client:    &domain.Client{Name: "Kiln Co"},
	}
	dto := mapper.ToProjectDTO(p)
	assert.Equal(t, "2026-01-05", dto.StartDate)
	assert.Equal(t, "Kiln Co", dto.ClientName)
	assert.Empty(t, dto.DueDate)
}
