package estimator_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/northlight-studio/agency-api/internal/estimator"
)

// fakeGenerator answers classifier and narrative prompts with canned replies
type fakeGenerator struct {
	mu             sync.Mutex
	classification string
	classifyErr    error
	prose          string
	proseErr       error
	block          bool
	calls          int
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if strings.Contains(prompt, `"complexity"`) {
		return f.classification, f.classifyErr
	}
	return f.prose, f.proseErr
}

func TestClassifyDeterministic(t *testing.T) {
	t.Run("custom enterprise web app", func(t *testing.T) {
		req := estimator.ProjectRequest{
			ProjectType:  estimator.ProjectTypeWebApp,
			Features:     []string{"payment-integration", "user-authentication"},
			Timeline:     estimator.TimelineASAP,
			Requirements: "need a custom enterprise solution",
		}

		c := estimator.ClassifyDeterministic(req)
		assert.Equal(t, estimator.TierEnterprise, c.Tier)
		assert.Equal(t, 17, c.Score)
		assert.Equal(t, 85, c.Confidence)
		assert.Equal(t, estimator.SourceDeterministic, c.Source)
		assert.NotEmpty(t, c.Reasoning)
	})

	t.Run("empty landing page is simple", func(t *testing.T) {
		c := estimator.ClassifyDeterministic(estimator.ProjectRequest{ProjectType: estimator.ProjectTypeLandingPage})
		assert.Equal(t, estimator.TierSimple, c.Tier)
		assert.Equal(t, 1, c.Score)
	})

	t.Run("unknown type and feature use defaults", func(t *testing.T) {
		c := estimator.ClassifyDeterministic(estimator.ProjectRequest{
			ProjectType: "kiosk",
			Features:    []string{"hologram"},
		})
		assert.Equal(t, 4, c.Score)
		assert.Equal(t, estimator.TierSimple, c.Tier)
	})

	t.Run("duplicate features count once", func(t *testing.T) {
		once := estimator.ClassifyDeterministic(estimator.ProjectRequest{
			ProjectType: estimator.ProjectTypeEcommerce,
			Features:    []string{"cms"},
		})
		twice := estimator.ClassifyDeterministic(estimator.ProjectRequest{
			ProjectType: estimator.ProjectTypeEcommerce,
			Features:    []string{"cms", " CMS ", "cms"},
		})
		assert.Equal(t, once.Score, twice.Score)
	})

	t.Run("thresholds", func(t *testing.T) {
		// multi-page 2 + cms 3 = 5
		c := estimator.ClassifyDeterministic(estimator.ProjectRequest{ProjectType: "multi-page", Features: []string{"cms"}})
		assert.Equal(t, estimator.TierSimple, c.Tier)

		// multi-page 2 + cms 3 + blog 2 = 7
		c = estimator.ClassifyDeterministic(estimator.ProjectRequest{ProjectType: "multi-page", Features: []string{"cms", "blog"}})
		assert.Equal(t, estimator.TierModerate, c.Tier)

		// ecommerce 4 + payment 4 + cms 3 + multi-language 3 = 14
		c = estimator.ClassifyDeterministic(estimator.ProjectRequest{
			ProjectType: "ecommerce",
			Features:    []string{"payment-integration", "cms", "multi-language"},
		})
		assert.Equal(t, estimator.TierComplex, c.Tier)
	})
}

func TestPrice_Scenarios(t *testing.T) {
	t.Run("simple landing page", func(t *testing.T) {
		req := estimator.ProjectRequest{
			ProjectType: estimator.ProjectTypeLandingPage,
			Timeline:    estimator.TimelineOneMonth,
		}
		b := estimator.EstimateDeterministic(req)

		assert.Equal(t, estimator.TierSimple, b.Complexity)
		assert.Equal(t, 20, b.EstimatedHours)
		assert.Equal(t, int64(1500), b.BasePrice)
		assert.InDelta(t, 0.05, b.AdjustmentFactor, 1e-9)
		assert.Equal(t, int64(1550), b.TotalPrice)
	})

	t.Run("rush job with seo", func(t *testing.T) {
		req := estimator.ProjectRequest{
			ProjectType: estimator.ProjectTypeMultiPage,
			Features:    []string{"seo-optimization"},
			Timeline:    estimator.TimelineASAP,
		}
		b := estimator.EstimateDeterministic(req)

		assert.Equal(t, estimator.TierSimple, b.Complexity)
		assert.Equal(t, 28, b.EstimatedHours)
		assert.Equal(t, int64(2100), b.BasePrice)
		assert.InDelta(t, 0.45, b.AdjustmentFactor, 1e-9)
		assert.Equal(t, int64(3050), b.TotalPrice)
	})
}

func TestPrice_Adjustments(t *testing.T) {
	adjustment := func(p estimator.Pricing, name string) float64 {
		for _, a := range p.Adjustments {
			if a.Name == name {
				return a.Factor
			}
		}
		t.Fatalf("adjustment %q missing", name)
		return 0
	}

	t.Run("all six are reported", func(t *testing.T) {
		p := estimator.Price(estimator.TierSimple, estimator.ProjectRequest{})
		require.Len(t, p.Adjustments, 6)
	})

	t.Run("feature density is uncapped", func(t *testing.T) {
		p := estimator.Price(estimator.TierComplex, estimator.ProjectRequest{
			Features: []string{"cms", "user-authentication", "payment-integration", "api-integration", "multi-language"},
		})
		assert.InDelta(t, 0.25, adjustment(p, estimator.AdjustmentFeatureDensity), 1e-9)
	})

	t.Run("integration from feature name or text", func(t *testing.T) {
		p := estimator.Price(estimator.TierSimple, estimator.ProjectRequest{Features: []string{"video-integration"}})
		assert.InDelta(t, 0.15, adjustment(p, estimator.AdjustmentIntegrations), 1e-9)

		p = estimator.Price(estimator.TierSimple, estimator.ProjectRequest{Requirements: "Sync orders via WEBHOOK"})
		assert.InDelta(t, 0.15, adjustment(p, estimator.AdjustmentIntegrations), 1e-9)
	})

	t.Run("custom design from feature name or text", func(t *testing.T) {
		p := estimator.Price(estimator.TierSimple, estimator.ProjectRequest{Features: []string{"custom-illustrations"}})
		assert.InDelta(t, 0.20, adjustment(p, estimator.AdjustmentCustomDesign), 1e-9)

		p = estimator.Price(estimator.TierSimple, estimator.ProjectRequest{Requirements: "strong brand identity"})
		assert.InDelta(t, 0.20, adjustment(p, estimator.AdjustmentCustomDesign), 1e-9)
	})

	t.Run("flexible timeline lowers the factor", func(t *testing.T) {
		p := estimator.Price(estimator.TierModerate, estimator.ProjectRequest{Timeline: estimator.TimelineFlexible})
		assert.InDelta(t, -0.10, adjustment(p, estimator.AdjustmentTimeline), 1e-9)
		assert.InDelta(t, -0.02, p.AdjustmentFactor, 1e-9)
	})

	t.Run("unknown timeline adds nothing", func(t *testing.T) {
		p := estimator.Price(estimator.TierSimple, estimator.ProjectRequest{Timeline: "yesterday"})
		assert.InDelta(t, 0, adjustment(p, estimator.AdjustmentTimeline), 1e-9)
	})

	t.Run("line items sum to base price", func(t *testing.T) {
		p := estimator.Price(estimator.TierComplex, estimator.ProjectRequest{
			ProjectType: estimator.ProjectTypeEcommerce,
			Features:    []string{"cms", "blog", "something-new"},
		})
		var sum int64
		for _, li := range p.LineItems {
			sum += li.Amount
		}
		assert.Equal(t, p.BasePrice, sum)
		assert.Len(t, p.LineItems, 4)
		assert.Equal(t, 80+20+12+4, p.EstimatedHours)
	})
}

func TestRoundToFifty(t *testing.T) {
	cases := map[string]int64{
		"1575":   1550,
		"3045":   3050,
		"1574.9": 1550,
		"1575.1": 1600,
		"24":     0,
		"25":     0,
		"26":     50,
		"0":      0,
		"-100":   0,
	}
	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, estimator.RoundToFifty(decimal.RequireFromString(in)))
		})
	}
}

func TestTimelineFloor(t *testing.T) {
	for _, tier := range estimator.Tiers {
		for _, tl := range append(estimator.Timelines, "unknown") {
			days := estimator.ElapsedDays(tier, tl, 0)
			assert.GreaterOrEqual(t, days, estimator.MinDays(tier), "tier %s timeline %s", tier, tl)

			days = estimator.ElapsedDays(tier, tl, estimator.BaseHours(tier))
			assert.GreaterOrEqual(t, days, estimator.MinDays(tier), "tier %s timeline %s", tier, tl)
		}
	}

	t.Run("pace scales working days", func(t *testing.T) {
		// 150h -> 25 working days
		assert.Equal(t, 25, estimator.ElapsedDays(estimator.TierEnterprise, estimator.TimelineOneMonth, 150))
		assert.Equal(t, 21, estimator.ElapsedDays(estimator.TierEnterprise, estimator.TimelineASAP, 150))
		assert.Equal(t, 38, estimator.ElapsedDays(estimator.TierEnterprise, estimator.TimelineFlexible, 150))
	})

	t.Run("rendering", func(t *testing.T) {
		assert.Equal(t, "3 days", estimator.FormatDuration(3))
		assert.Equal(t, "13 days", estimator.FormatDuration(13))
		assert.Equal(t, "2 weeks", estimator.FormatDuration(14))
		assert.Equal(t, "3 weeks", estimator.FormatDuration(15))
	})
}

func TestEstimate_Properties(t *testing.T) {
	features := []string{
		"responsive-design", "contact-form", "blog", "cms", "user-authentication",
		"payment-integration", "api-integration", "seo-optimization", "analytics",
		"social-media", "email-marketing", "multi-language", "advanced-animations",
		"custom-illustrations", "video-integration",
	}
	texts := []string{"", "custom api for enterprise scale", "simple brochure site", "needs SEO"}

	for _, pt := range estimator.ProjectTypes {
		for _, tl := range estimator.Timelines {
			for i := 0; i <= len(features); i += 3 {
				for _, text := range texts {
					req := estimator.ProjectRequest{
						ProjectType:  pt,
						Features:     features[:i],
						Timeline:     tl,
						Requirements: text,
					}
					a := estimator.EstimateDeterministic(req)
					b := estimator.EstimateDeterministic(req)

					require.Equal(t, a.TotalPrice, b.TotalPrice)
					require.Equal(t, a.EstimatedHours, b.EstimatedHours)
					require.Equal(t, a.Complexity, b.Complexity)

					assert.Zero(t, a.TotalPrice%50)
					assert.GreaterOrEqual(t, a.TotalPrice, int64(0))
					assert.GreaterOrEqual(t, a.EstimatedHours, estimator.BaseHours(a.Complexity))
					assert.GreaterOrEqual(t, a.TimelineDays, estimator.MinDays(a.Complexity))
				}
			}
		}
	}
}

func TestPrice_MonotonicInFeatures(t *testing.T) {
	base := []string{"contact-form"}
	for _, tier := range estimator.Tiers {
		before := estimator.Price(tier, estimator.ProjectRequest{ProjectType: "multi-page", Features: base, Timeline: "1-month"})
		for _, f := range []string{"blog", "cms", "payment-integration", "analytics", "custom-illustrations"} {
			after := estimator.Price(tier, estimator.ProjectRequest{
				ProjectType: "multi-page",
				Features:    append([]string{f}, base...),
				Timeline:    "1-month",
			})
			assert.GreaterOrEqual(t, after.EstimatedHours, before.EstimatedHours, "tier %s feature %s", tier, f)
			assert.GreaterOrEqual(t, after.TotalPrice, before.TotalPrice, "tier %s feature %s", tier, f)
		}
	}
}

func TestNarrative(t *testing.T) {
	t.Run("baseline deliverables and support months", func(t *testing.T) {
		d := estimator.BuildDeliverables(estimator.TierSimple, estimator.ProjectRequest{})
		require.Len(t, d, 5)
		assert.Equal(t, "1 month of post-launch support", d[4])

		d = estimator.BuildDeliverables(estimator.TierEnterprise, estimator.ProjectRequest{})
		assert.Contains(t, d, "12 months of post-launch support")
		assert.Contains(t, d, "Security hardening and review")
		assert.Contains(t, d, "Technical documentation")
	})

	t.Run("complex tier gets hardening but not enterprise extras", func(t *testing.T) {
		d := estimator.BuildDeliverables(estimator.TierComplex, estimator.ProjectRequest{})
		assert.Contains(t, d, "Automated backups")
		assert.NotContains(t, d, "Team training sessions")
	})

	t.Run("feature bundle added once", func(t *testing.T) {
		d := estimator.BuildDeliverables(estimator.TierSimple, estimator.ProjectRequest{Features: []string{"blog", "blog"}})
		count := 0
		for _, line := range d {
			if line == "Blog with categories and tags" {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})

	t.Run("risks fire in rule order", func(t *testing.T) {
		risks := estimator.BuildRisks(estimator.TierEnterprise, estimator.ProjectRequest{
			Features:     []string{"user-authentication", "payment-integration"},
			Timeline:     "asap",
			Requirements: "custom work",
		})
		require.Len(t, risks, 5)
		assert.Contains(t, risks[0], "PCI")
		assert.Contains(t, risks[1], "security review")
		assert.Contains(t, risks[2], "iteration")
		assert.Contains(t, risks[3], "Compressed timeline")
		assert.Contains(t, risks[4], "phased delivery")
	})

	t.Run("generic risk when nothing fires", func(t *testing.T) {
		risks := estimator.BuildRisks(estimator.TierSimple, estimator.ProjectRequest{Timeline: "flexible"})
		require.Len(t, risks, 1)
	})

	t.Run("ecommerce without payments is nudged", func(t *testing.T) {
		recs := estimator.BuildRecommendations(estimator.TierSimple, estimator.ProjectRequest{ProjectType: "ecommerce"})
		assert.Contains(t, recs, "Add payment integration to sell online")
	})

	t.Run("template text is personalised", func(t *testing.T) {
		b := estimator.EstimateDeterministic(estimator.ProjectRequest{ProjectType: "landing-page", ClientName: "Ada"})
		assert.True(t, strings.HasPrefix(b.QuoteText, "Hello Ada,"))
		assert.Contains(t, b.QuoteText, "1550")
		assert.NotEmpty(t, b.ProjectScope)
		assert.Equal(t, estimator.SourceDeterministic, b.NarrativeSource)
	})
}

func TestEstimator_Remote(t *testing.T) {
	req := estimator.ProjectRequest{
		ProjectType: estimator.ProjectTypeLandingPage,
		Timeline:    estimator.TimelineOneMonth,
	}

	t.Run("no generator is deterministic", func(t *testing.T) {
		e := estimator.New(zap.NewNop())
		assert.False(t, e.RemoteEnabled())
		assert.Equal(t, estimator.EstimateDeterministic(req), e.Estimate(context.Background(), req))
	})

	t.Run("valid remote replies are used", func(t *testing.T) {
		gen := &fakeGenerator{
			classification: "```json\n{\"complexity\": \"complex\", \"confidence\": 91, \"reasoning\": \"Lots going on.\"}\n```",
			prose:          `{"quoteText": "Dear client", "projectScope": "A landing page."}`,
		}
		e := estimator.New(zap.NewNop(), estimator.WithGenerator(gen))

		b := e.Estimate(context.Background(), req)
		assert.Equal(t, estimator.TierComplex, b.Complexity)
		assert.Equal(t, 91, b.Confidence)
		assert.Equal(t, estimator.SourceRemote, b.ClassifierSource)
		assert.Equal(t, 80, b.EstimatedHours)
		assert.Equal(t, "Dear client", b.QuoteText)
		assert.Equal(t, estimator.SourceRemote, b.NarrativeSource)
		assert.Equal(t, 2, gen.calls)
	})

	t.Run("missing fields use defaults", func(t *testing.T) {
		gen := &fakeGenerator{classification: `{"reasoning": "unsure"}`, proseErr: errors.New("down")}
		b := estimator.New(zap.NewNop(), estimator.WithGenerator(gen)).Estimate(context.Background(), req)
		assert.Equal(t, estimator.TierModerate, b.Complexity)
		assert.Equal(t, 75, b.Confidence)
		assert.Equal(t, estimator.SourceRemote, b.ClassifierSource)
		assert.Equal(t, estimator.SourceDeterministic, b.NarrativeSource)
	})

	t.Run("tier case and null fields are tolerated", func(t *testing.T) {
		tests := []struct {
			reply      string
			tier       estimator.ComplexityTier
			confidence int
		}{
			{`{"complexity": "Complex", "confidence": 90}`, estimator.TierComplex, 90},
			{`{"complexity": " ENTERPRISE "}`, estimator.TierEnterprise, 75},
			{`{"complexity": null}`, estimator.TierModerate, 75},
			{`{"complexity": "simple", "confidence": null, "reasoning": "small"}`, estimator.TierSimple, 75},
		}
		for _, tt := range tests {
			t.Run(tt.reply, func(t *testing.T) {
				c, err := estimator.ClassifyRemote(context.Background(), &fakeGenerator{classification: tt.reply}, req)
				require.NoError(t, err)
				assert.Equal(t, tt.tier, c.Tier)
				assert.Equal(t, tt.confidence, c.Confidence)
				assert.Equal(t, estimator.SourceRemote, c.Source)
			})
		}
	})

	t.Run("invalid tier falls back independently", func(t *testing.T) {
		gen := &fakeGenerator{
			classification: `{"complexity": "gigantic", "confidence": 50}`,
			prose:          `{"quoteText": "Hi", "projectScope": "Scope"}`,
		}
		b := estimator.New(zap.NewNop(), estimator.WithGenerator(gen)).Estimate(context.Background(), req)
		assert.Equal(t, estimator.TierSimple, b.Complexity)
		assert.Equal(t, 85, b.Confidence)
		assert.Equal(t, estimator.SourceDeterministic, b.ClassifierSource)
		assert.Equal(t, estimator.SourceRemote, b.NarrativeSource)
	})

	t.Run("out of range confidence is rejected", func(t *testing.T) {
		gen := &fakeGenerator{classification: `{"complexity": "simple", "confidence": 140}`}
		_, err := estimator.ClassifyRemote(context.Background(), gen, req)
		assert.ErrorIs(t, err, estimator.ErrMalformedReply)
	})

	t.Run("prose headings are not accepted", func(t *testing.T) {
		gen := &fakeGenerator{
			classification: "not json",
			prose:          "QUOTE:\nHello\n\nSCOPE:\nStuff",
		}
		b := estimator.New(zap.NewNop(), estimator.WithGenerator(gen)).Estimate(context.Background(), req)
		assert.Equal(t, estimator.EstimateDeterministic(req).QuoteText, b.QuoteText)
		assert.Equal(t, estimator.SourceDeterministic, b.ClassifierSource)
		assert.Equal(t, estimator.SourceDeterministic, b.NarrativeSource)
	})

	t.Run("hanging generator times out into fallback", func(t *testing.T) {
		gen := &fakeGenerator{block: true}
		e := estimator.New(zap.NewNop(),
			estimator.WithGenerator(gen),
			estimator.WithRemoteTimeout(20*time.Millisecond))

		start := time.Now()
		b := e.Estimate(context.Background(), req)
		assert.Less(t, time.Since(start), 2*time.Second)
		assert.Equal(t, int64(1550), b.TotalPrice)
		assert.Equal(t, estimator.SourceDeterministic, b.ClassifierSource)
	})
}

func TestTokenAndRecord(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("token format", func(t *testing.T) {
		tok := estimator.NewToken(now)
		parts := strings.Split(tok, "-")
		require.Len(t, parts, 3)
		assert.Equal(t, "QT", parts[0])
		assert.Len(t, parts[2], 8)
		assert.Equal(t, strings.ToUpper(tok), tok)
		assert.NotEqual(t, tok, estimator.NewToken(now))
	})

	client := estimator.ClientContact{Name: "Ada Lovelace", Email: "ada@example.com"}
	req := estimator.ProjectRequest{ProjectType: "landing-page", Timeline: "1-month"}
	breakdown := estimator.EstimateDeterministic(req)

	t.Run("expires after thirty days", func(t *testing.T) {
		rec, err := estimator.AssembleRecord("QT-1-ABCDEF12", client, req, breakdown, now)
		require.NoError(t, err)
		assert.Equal(t, now.Add(30*24*time.Hour), rec.ExpiresAt)
		assert.Equal(t, "Ada Lovelace", rec.Request.ClientName)
		assert.Equal(t, breakdown.TotalPrice, rec.Breakdown.TotalPrice)
	})

	t.Run("re-assembly differs only by token", func(t *testing.T) {
		a, err := estimator.AssembleRecord(estimator.NewToken(now), client, req, breakdown, now)
		require.NoError(t, err)
		b, err := estimator.AssembleRecord(estimator.NewToken(now), client, req, breakdown, now)
		require.NoError(t, err)

		assert.NotEqual(t, a.Token, b.Token)
		b.Token = a.Token
		assert.Equal(t, a, b)
	})

	t.Run("missing client identity is invalid", func(t *testing.T) {
		_, err := estimator.AssembleRecord("tok", estimator.ClientContact{Email: "a@b.co"}, req, breakdown, now)
		assert.ErrorIs(t, err, estimator.ErrInvalidRequest)

		_, err = estimator.AssembleRecord("tok", estimator.ClientContact{Name: "A"}, req, breakdown, now)
		assert.ErrorIs(t, err, estimator.ErrInvalidRequest)

		_, err = estimator.AssembleRecord("tok", estimator.ClientContact{Name: "A", Email: "nope"}, req, breakdown, now)
		assert.ErrorIs(t, err, estimator.ErrInvalidRequest)
	})
}
