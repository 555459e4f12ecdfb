package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/northlight-studio/agency-api/internal/auth"
	"github.com/northlight-studio/agency-api/internal/config"
	"github.com/northlight-studio/agency-api/internal/estimator"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	color.NoColor = true

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestEstimate_JSONMatchesEstimator(t *testing.T) {
	out, _, err := execute(t, "estimate", "--type", "ecommerce", "--feature", "payments,cms", "--timeline", "1-month", "--json")
	require.NoError(t, err)

	var got estimator.QuoteBreakdown
	require.NoError(t, json.Unmarshal([]byte(out), &got))

	want := estimator.EstimateDeterministic(estimator.ProjectRequest{
		ProjectType: estimator.ProjectTypeEcommerce,
		Features:    []string{"payments", "cms"},
		Timeline:    estimator.TimelineOneMonth,
	}.Normalize())

	assert.Equal(t, want.Complexity, got.Complexity)
	assert.Equal(t, want.TotalPrice, got.TotalPrice)
	assert.Equal(t, want.EstimatedHours, got.EstimatedHours)
	assert.Zero(t, got.TotalPrice%50)
}

func TestEstimate_HumanOutput(t *testing.T) {
	out, _, err := execute(t, "estimate", "--type", "landing-page")
	require.NoError(t, err)

	assert.Contains(t, out, "Estimate for a landing page")
	assert.Contains(t, out, "Complexity")
	assert.Contains(t, out, "Total")
	assert.Contains(t, out, "$")
}

func TestEstimate_UnknownType(t *testing.T) {
	_, _, err := execute(t, "estimate", "--type", "spaceship")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown project type")
}

func TestRunToken(t *testing.T) {
	authCfg := &config.AuthConfig{JWTSecret: "cli-test-secret-0123456789abcdef", JWTIssuer: "agency-api", TokenTTLHour: 1}

	cmd := newTokenCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := runToken(cmd, authCfg, &tokenOptions{subject: "ola", name: "Ola", roles: []string{"admin"}})
	require.NoError(t, err)

	token := strings.TrimSpace(stdout.String())
	user, err := auth.NewTokenIssuer(authCfg).Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "ola", user.Subject)
	assert.True(t, user.IsAdmin())
	assert.Contains(t, stderr.String(), "expires")
}

func TestRunToken_Errors(t *testing.T) {
	cmd := newTokenCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := runToken(cmd, &config.AuthConfig{JWTSecret: "s3cret"}, &tokenOptions{subject: "x", roles: []string{"root"}})
	assert.ErrorContains(t, err, `invalid role "root"`)

	err = runToken(cmd, &config.AuthConfig{}, &tokenOptions{subject: "x", roles: []string{"staff"}})
	assert.ErrorContains(t, err, "AUTH_JWTSECRET")
}
