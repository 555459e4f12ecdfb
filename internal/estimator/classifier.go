package estimator

import (
	"fmt"
	"strings"
)

// ClassifyDeterministic scores the request with the fixed tables and maps the score to a tier.
// The request is normalized first so repeated feature tags count once.
func ClassifyDeterministic(req ProjectRequest) Classification {
	req = req.Normalize()

	base, ok := typeBaseScore[req.ProjectType]
	if !ok {
		base = defaultTypeScore
	}
	score := base
	parts := []string{fmt.Sprintf("%s base %d", projectTypeName(req.ProjectType), base)}

	featureScore := 0
	for _, f := range req.Features {
		featureScore += FeatureWeight(f)
	}
	if featureScore > 0 {
		score += featureScore
		parts = append(parts, fmt.Sprintf("%d feature(s) +%d", len(req.Features), featureScore))
	}

	text := req.requirementsLower()
	for _, rule := range classifierKeywordRules {
		if containsAny(text, rule.keywords) {
			score += rule.bonus
			parts = append(parts, fmt.Sprintf("%s +%d", rule.name, rule.bonus))
		}
	}

	tier := tierForScore(score)
	return Classification{
		Tier:       tier,
		Confidence: deterministicConfidence,
		Reasoning:  fmt.Sprintf("Score %d (%s) maps to %s.", score, strings.Join(parts, ", "), tier),
		Score:      score,
		Source:     SourceDeterministic,
	}
}

func tierForScore(score int) ComplexityTier {
	switch {
	case score <= simpleMaxScore:
		return TierSimple
	case score <= moderateMaxScore:
		return TierModerate
	case score <= complexMaxScore:
		return TierComplex
	default:
		return TierEnterprise
	}
}

func projectTypeName(p ProjectType) string {
	if p == "" {
		return "unspecified type"
	}
	return string(p)
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
