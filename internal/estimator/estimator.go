package estimator

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/northlight-studio/agency-api/internal/metrics"
)

const defaultRemoteTimeout = 20 * time.Second

// Fallback stages used in logs and metrics
const (
	stageClassifier = "classifier"
	stageNarrative  = "narrative"
)

// Estimator produces quote breakdowns. It is safe for concurrent use.
type Estimator struct {
	generator     TextGenerator
	remoteTimeout time.Duration
	logger        *zap.Logger
}

// Option configures an Estimator
type Option func(*Estimator)

// WithGenerator enables the remote classifier and narrative strategies
func WithGenerator(gen TextGenerator) Option {
	return func(e *Estimator) {
		e.generator = gen
	}
}

// WithRemoteTimeout bounds each remote call; non-positive values keep the default
func WithRemoteTimeout(d time.Duration) Option {
	return func(e *Estimator) {
		if d > 0 {
			e.remoteTimeout = d
		}
	}
}

// New creates an Estimator. Without a generator it runs the deterministic path only.
func New(logger *zap.Logger, opts ...Option) *Estimator {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Estimator{
		remoteTimeout: defaultRemoteTimeout,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RemoteEnabled reports whether a text generator is configured
func (e *Estimator) RemoteEnabled() bool {
	return e.generator != nil
}

// Estimate classifies, prices and describes the request. It never fails: each remote
// step falls back to its deterministic counterpart independently.
func (e *Estimator) Estimate(ctx context.Context, req ProjectRequest) *QuoteBreakdown {
	req = req.Normalize()

	classification := e.classify(ctx, req)
	pricing := Price(classification.Tier, req)
	narrative := BuildNarrative(req, classification, pricing)
	e.applyRemoteProse(ctx, req, classification, pricing, &narrative)

	metrics.QuotesGenerated.WithLabelValues(
		string(classification.Tier),
		string(classification.Source),
		string(narrative.Source),
	).Inc()

	return Compose(classification, pricing, narrative)
}

// EstimateDeterministic runs the fallback path only, without any remote call
func EstimateDeterministic(req ProjectRequest) *QuoteBreakdown {
	req = req.Normalize()
	c := ClassifyDeterministic(req)
	p := Price(c.Tier, req)
	return Compose(c, p, BuildNarrative(req, c, p))
}

// Compose merges the three stage outputs into a breakdown
func Compose(c Classification, p Pricing, n Narrative) *QuoteBreakdown {
	return &QuoteBreakdown{
		Complexity:          c.Tier,
		Confidence:          c.Confidence,
		ComplexityReasoning: c.Reasoning,
		EstimatedHours:      p.EstimatedHours,
		HourlyRate:          p.HourlyRate,
		BasePrice:           p.BasePrice,
		Adjustments:         p.Adjustments,
		AdjustmentFactor:    p.AdjustmentFactor,
		TotalPrice:          p.TotalPrice,
		LineItems:           p.LineItems,
		TimelineDays:        p.TimelineDays,
		TimelineEstimate:    p.TimelineEstimate,
		Deliverables:        n.Deliverables,
		Risks:               n.Risks,
		Recommendations:     n.Recommendations,
		Assumptions:         n.Assumptions,
		Exclusions:          n.Exclusions,
		QuoteText:           n.QuoteText,
		ProjectScope:        n.ProjectScope,
		ClassifierSource:    c.Source,
		NarrativeSource:     n.Source,
	}
}

func (e *Estimator) classify(ctx context.Context, req ProjectRequest) Classification {
	if e.generator == nil {
		return ClassifyDeterministic(req)
	}

	callCtx, cancel := context.WithTimeout(ctx, e.remoteTimeout)
	defer cancel()

	c, err := ClassifyRemote(callCtx, e.generator, req)
	if err != nil {
		e.recordFallback(stageClassifier, err)
		return ClassifyDeterministic(req)
	}
	return c
}

func (e *Estimator) applyRemoteProse(ctx context.Context, req ProjectRequest, c Classification, p Pricing, n *Narrative) {
	if e.generator == nil {
		return
	}

	callCtx, cancel := context.WithTimeout(ctx, e.remoteTimeout)
	defer cancel()

	quoteText, scope, err := GenerateRemoteProse(callCtx, e.generator, req, c, p)
	if err != nil {
		e.recordFallback(stageNarrative, err)
		return
	}
	n.QuoteText = quoteText
	n.ProjectScope = scope
	n.Source = SourceRemote
}

func (e *Estimator) recordFallback(stage string, err error) {
	reason := fallbackReason(err)
	metrics.EstimatorFallbacks.WithLabelValues(stage, reason).Inc()
	e.logger.Warn("remote estimator step failed, using deterministic fallback",
		zap.String("stage", stage),
		zap.String("reason", reason),
		zap.Error(err))
}

func fallbackReason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, ErrMalformedReply):
		return "malformed"
	default:
		return "error"
	}
}
