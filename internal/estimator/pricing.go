package estimator

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Adjustment names as they appear in the breakdown
const (
	AdjustmentTimeline       = "timeline"
	AdjustmentFeatureDensity = "feature-density"
	AdjustmentIntegrations   = "integrations"
	AdjustmentCustomDesign   = "custom-design"
	AdjustmentSEO            = "seo"
	AdjustmentMaintenance    = "maintenance-reserve"
)

var (
	priceStep = decimal.NewFromInt(50)
	half      = decimal.RequireFromString("0.5")
)

// Price computes hours, rate, adjustments, total and timeline for a classified request.
// Unknown tiers, timelines and features degrade to documented defaults; it never fails.
func Price(tier ComplexityTier, req ProjectRequest) Pricing {
	req = req.Normalize()
	if !tier.IsValid() {
		tier = TierModerate
	}

	rate := HourlyRate(tier)
	baseHours := BaseHours(tier)
	hours := baseHours

	lines := []LineItem{{
		Description: fmt.Sprintf("Core %s build (%s complexity)", req.ProjectType.Label(), tier),
		Hours:       baseHours,
		Rate:        rate,
		Amount:      int64(baseHours) * rate,
	}}
	for _, f := range req.Features {
		h := FeatureHours(f)
		hours += h
		lines = append(lines, LineItem{
			Description: featureLabel(f),
			Hours:       h,
			Rate:        rate,
			Amount:      int64(h) * rate,
		})
	}

	basePrice := int64(hours) * rate
	adjustments := computeAdjustments(tier, req)

	factor := decimal.Zero
	for _, a := range adjustments {
		factor = factor.Add(a.value)
	}

	total := decimal.NewFromInt(basePrice).Mul(decimal.NewFromInt(1).Add(factor))
	days := ElapsedDays(tier, req.Timeline, hours)

	out := Pricing{
		EstimatedHours:   hours,
		HourlyRate:       rate,
		BasePrice:        basePrice,
		AdjustmentFactor: factor.InexactFloat64(),
		TotalPrice:       RoundToFifty(total),
		LineItems:        lines,
		TimelineDays:     days,
		TimelineEstimate: FormatDuration(days),
	}
	for _, a := range adjustments {
		out.Adjustments = append(out.Adjustments, Adjustment{Name: a.name, Factor: a.value.InexactFloat64()})
	}
	return out
}

type namedFraction struct {
	name  string
	value decimal.Decimal
}

func computeAdjustments(tier ComplexityTier, req ProjectRequest) []namedFraction {
	text := req.requirementsLower()

	timeline := decimal.Zero
	if v, ok := timelineAdjustment[req.Timeline]; ok {
		timeline = decimal.RequireFromString(v)
	}

	density := decimal.Zero
	step := decimal.RequireFromString(featureDensityStep)
	for _, f := range req.Features {
		if complexFeatures[f] {
			density = density.Add(step)
		}
	}

	integrations := decimal.Zero
	if anyFeatureContains(req.Features, "integration") || containsAny(text, integrationKeywords) {
		integrations = decimal.RequireFromString(integrationAdjustment)
	}

	custom := decimal.Zero
	if anyFeatureContains(req.Features, "custom", "illustration") || containsAny(text, customDesignKeywords) {
		custom = decimal.RequireFromString(customDesignAdjustment)
	}

	seo := decimal.Zero
	if req.HasFeature(FeatureSEOOptimization) || containsAny(text, seoKeywords) {
		seo = decimal.RequireFromString(seoAdjustment)
	}

	return []namedFraction{
		{AdjustmentTimeline, timeline},
		{AdjustmentFeatureDensity, density},
		{AdjustmentIntegrations, integrations},
		{AdjustmentCustomDesign, custom},
		{AdjustmentSEO, seo},
		{AdjustmentMaintenance, decimal.RequireFromString(maintenanceReserve[tier])},
	}
}

func anyFeatureContains(features []string, substrings ...string) bool {
	for _, f := range features {
		for _, s := range substrings {
			if strings.Contains(f, s) {
				return true
			}
		}
	}
	return false
}

// RoundToFifty rounds to the nearest multiple of 50 with exact ties going down, and
// clamps negative amounts to zero.
func RoundToFifty(amount decimal.Decimal) int64 {
	if !amount.IsPositive() {
		return 0
	}
	steps := amount.Div(priceStep).Sub(half).Ceil()
	if steps.IsNegative() {
		return 0
	}
	return steps.Mul(priceStep).IntPart()
}

// ElapsedDays converts hours into calendar days at the requested pace, floored by the tier minimum
func ElapsedDays(tier ComplexityTier, timeline Timeline, hours int) int {
	if hours < 0 {
		hours = 0
	}
	workingDays := (hours + workingHoursPerDay - 1) / workingHoursPerDay

	pace := decimal.NewFromInt(1)
	if v, ok := timelinePace[timeline]; ok {
		pace = decimal.RequireFromString(v)
	}
	days := int(decimal.NewFromInt(int64(workingDays)).Mul(pace).Ceil().IntPart())

	if floor := MinDays(tier); days < floor {
		days = floor
	}
	return days
}

// FormatDuration renders elapsed days as days below two weeks and whole weeks above.
// Weeks are rounded up so the text never implies fewer days than computed.
func FormatDuration(days int) string {
	if days < 14 {
		if days == 1 {
			return "1 day"
		}
		return fmt.Sprintf("%d days", days)
	}
	weeks := (days + 6) / 7
	return fmt.Sprintf("%d weeks", weeks)
}
