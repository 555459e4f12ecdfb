package estimator

import (
	"fmt"
	"strings"
)

var featureDeliverables = map[string][]string{
	FeatureResponsiveDesign:    {"Mobile, tablet and desktop layouts"},
	FeatureContactForm:         {"Contact form with spam protection", "Form submission e-mail notifications"},
	FeatureBlog:                {"Blog with categories and tags", "Blog post templates"},
	FeatureCMS:                 {"Content management system setup", "Editor training session for the CMS"},
	FeatureUserAuthentication:  {"User registration and login", "Password reset flow", "Account management pages"},
	FeaturePaymentIntegration:  {"Payment gateway integration", "Checkout flow", "Order confirmation e-mails"},
	FeatureAPIIntegration:      {"Third-party API integration", "Integration error handling and logging"},
	FeatureSEOOptimization:     {"Technical SEO audit", "Sitemap and structured data", "Meta tag optimization"},
	FeatureAnalytics:           {"Analytics tracking setup", "Conversion goal configuration"},
	FeatureSocialMedia:         {"Social media links and sharing", "Open Graph previews"},
	FeatureEmailMarketing:      {"Newsletter signup integration", "E-mail marketing platform connection"},
	FeatureMultiLanguage:       {"Multi-language content structure", "Language switcher"},
	FeatureAdvancedAnimations:  {"Custom animations and transitions"},
	FeatureCustomIllustrations: {"Custom illustration set"},
	FeatureVideoIntegration:    {"Video embedding and optimized playback"},
}

// BuildDeliverables lists the baseline, per-feature and tier-gated deliverables
func BuildDeliverables(tier ComplexityTier, req ProjectRequest) []string {
	req = req.Normalize()
	out := []string{
		"Fully responsive website build",
		"Cross-browser and device testing",
		"Performance optimization pass",
		"Basic on-page SEO setup",
		supportLine(tier),
	}
	for _, f := range req.Features {
		out = append(out, featureDeliverables[f]...)
	}
	if !tier.Less(TierComplex) {
		out = append(out,
			"Security hardening and review",
			"Uptime and error monitoring",
			"Automated backups",
		)
	}
	if tier == TierEnterprise {
		out = append(out,
			"Scalability and load planning",
			"Technical documentation",
			"Team training sessions",
		)
	}
	return out
}

func supportLine(tier ComplexityTier) string {
	months, ok := tierSupportMonths[tier]
	if !ok {
		months = tierSupportMonths[TierModerate]
	}
	if months == 1 {
		return "1 month of post-launch support"
	}
	return fmt.Sprintf("%d months of post-launch support", months)
}

type narrativeRule struct {
	applies func(tier ComplexityTier, req ProjectRequest, text string) bool
	line    string
}

var riskRules = []narrativeRule{
	{
		applies: func(_ ComplexityTier, req ProjectRequest, _ string) bool {
			return req.HasFeature(FeaturePaymentIntegration)
		},
		line: "Payment processing requires PCI compliance testing before launch",
	},
	{
		applies: func(_ ComplexityTier, req ProjectRequest, _ string) bool {
			return req.HasFeature(FeatureUserAuthentication)
		},
		line: "User authentication requires a dedicated security review",
	},
	{
		applies: func(_ ComplexityTier, req ProjectRequest, text string) bool {
			return req.HasFeature(FeatureAPIIntegration) || strings.Contains(text, "integration")
		},
		line: "Third-party API limits or changes may affect integration scope",
	},
	{
		applies: func(_ ComplexityTier, req ProjectRequest, _ string) bool {
			return req.HasFeature(FeatureMultiLanguage)
		},
		line: "Translated content delivery may delay launch",
	},
	{
		applies: func(_ ComplexityTier, _ ProjectRequest, text string) bool {
			return strings.Contains(text, "custom")
		},
		line: "Custom design work may need additional iteration rounds",
	},
	{
		applies: func(_ ComplexityTier, req ProjectRequest, _ string) bool {
			return req.Timeline == TimelineASAP || req.Timeline == TimelineOneWeek
		},
		line: "Compressed timeline leaves little room for scope changes",
	},
	{
		applies: func(tier ComplexityTier, _ ProjectRequest, _ string) bool {
			return tier == TierEnterprise
		},
		line: "Enterprise scope benefits from phased delivery to manage risk",
	},
	{
		applies: func(_ ComplexityTier, req ProjectRequest, _ string) bool {
			return req.HasFeature(FeatureCMS) || req.HasFeature(FeatureBlog)
		},
		line: "Launch depends on timely delivery of initial content",
	},
}

const genericRisk = "Scope changes after kickoff may affect timeline and budget"

var recommendationRules = []narrativeRule{
	{
		applies: func(_ ComplexityTier, req ProjectRequest, _ string) bool {
			return !req.HasFeature(FeatureSEOOptimization)
		},
		line: "Add SEO optimization to improve search visibility",
	},
	{
		applies: func(_ ComplexityTier, req ProjectRequest, _ string) bool {
			return !req.HasFeature(FeatureAnalytics)
		},
		line: "Add analytics to measure visitor behaviour and conversions",
	},
	{
		applies: func(tier ComplexityTier, _ ProjectRequest, _ string) bool {
			return !tier.Less(TierComplex)
		},
		line: "Start with a discovery workshop to refine requirements",
	},
	{
		applies: func(_ ComplexityTier, req ProjectRequest, _ string) bool {
			return req.ProjectType == ProjectTypeEcommerce && !req.HasFeature(FeaturePaymentIntegration)
		},
		line: "Add payment integration to sell online",
	},
	{
		applies: func(_ ComplexityTier, req ProjectRequest, _ string) bool {
			return req.Timeline == TimelineASAP
		},
		line: "Consider a phased launch with core pages first",
	},
	{
		applies: func(_ ComplexityTier, req ProjectRequest, _ string) bool {
			return req.HasFeature(FeatureBlog) && !req.HasFeature(FeatureEmailMarketing)
		},
		line: "Pair the blog with e-mail marketing to grow an audience",
	},
	{
		applies: func(tier ComplexityTier, _ ProjectRequest, _ string) bool {
			return tier == TierEnterprise
		},
		line: "Plan an ongoing maintenance retainer after launch",
	},
}

func applyRules(rules []narrativeRule, tier ComplexityTier, req ProjectRequest) []string {
	text := req.requirementsLower()
	out := []string{}
	for _, r := range rules {
		if r.applies(tier, req, text) {
			out = append(out, r.line)
		}
	}
	return out
}

// BuildRisks evaluates the risk rules in their fixed order
func BuildRisks(tier ComplexityTier, req ProjectRequest) []string {
	out := applyRules(riskRules, tier, req.Normalize())
	if len(out) == 0 {
		out = append(out, genericRisk)
	}
	return out
}

// BuildRecommendations evaluates the recommendation rules in their fixed order
func BuildRecommendations(tier ComplexityTier, req ProjectRequest) []string {
	return applyRules(recommendationRules, tier, req.Normalize())
}

// BuildAssumptions returns the baseline assumptions plus feature-triggered additions
func BuildAssumptions(req ProjectRequest) []string {
	req = req.Normalize()
	out := []string{
		"Client provides all content and brand assets",
		"Feedback is returned within 3 business days",
		"Two rounds of revisions are included per milestone",
		"Client provides hosting and domain access",
	}
	if req.HasFeature(FeaturePaymentIntegration) {
		out = append(out, "Client holds an active payment processor account")
	}
	if req.HasFeature(FeatureMultiLanguage) {
		out = append(out, "Client supplies translations for all languages")
	}
	if req.HasFeature(FeatureAPIIntegration) {
		out = append(out, "Third-party API documentation and credentials are accessible")
	}
	if req.HasFeature(FeatureCMS) {
		out = append(out, "Ongoing CMS content is managed by the client")
	}
	return out
}

// BuildExclusions returns the baseline exclusions plus feature-triggered additions
func BuildExclusions(req ProjectRequest) []string {
	req = req.Normalize()
	out := []string{
		"Ongoing content creation",
		"Third-party software licenses",
		"Hosting costs",
		"Copywriting and photography",
	}
	if !req.HasFeature(FeatureSEOOptimization) {
		out = append(out, "Advanced SEO campaigns")
	}
	if !req.HasFeature(FeatureCustomIllustrations) {
		out = append(out, "Custom illustration work")
	}
	if req.HasFeature(FeaturePaymentIntegration) {
		out = append(out, "Payment processor transaction fees")
	}
	return out
}

// TemplateQuoteText renders the deterministic quote prose
func TemplateQuoteText(req ProjectRequest, c Classification, p Pricing) string {
	req = req.Normalize()
	greeting := "Hello"
	if req.ClientName != "" {
		greeting = "Hello " + req.ClientName
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s,\n\n", greeting)
	fmt.Fprintf(&b, "Thank you for telling us about your %s. ", req.ProjectType.Label())
	fmt.Fprintf(&b, "We have assessed it as a %s project requiring about %d hours of work ", c.Tier, p.EstimatedHours)
	fmt.Fprintf(&b, "at %d per hour.\n\n", p.HourlyRate)
	fmt.Fprintf(&b, "Our estimated investment is %d, with delivery in approximately %s.", p.TotalPrice, p.TimelineEstimate)
	if len(req.Features) > 0 {
		labels := make([]string, 0, len(req.Features))
		for _, f := range req.Features {
			labels = append(labels, featureLabel(f))
		}
		fmt.Fprintf(&b, " The quote covers: %s.", strings.Join(labels, ", "))
	}
	b.WriteString("\n\nThis quote is valid for 30 days.")
	return b.String()
}

// TemplateProjectScope renders the deterministic scope summary
func TemplateProjectScope(req ProjectRequest, c Classification, p Pricing) string {
	req = req.Normalize()
	var b strings.Builder
	fmt.Fprintf(&b, "Design and build a %s (%s complexity).", req.ProjectType.Label(), c.Tier)
	if len(req.Features) > 0 {
		fmt.Fprintf(&b, " Includes %d requested feature(s): %s.", len(req.Features), strings.Join(req.Features, ", "))
	}
	if req.Requirements != "" {
		fmt.Fprintf(&b, " Client notes: %s", strings.TrimSpace(req.Requirements))
		if !strings.HasSuffix(strings.TrimSpace(req.Requirements), ".") {
			b.WriteString(".")
		}
	}
	fmt.Fprintf(&b, " Estimated effort %d hours over %s.", p.EstimatedHours, p.TimelineEstimate)
	return b.String()
}

// BuildNarrative assembles the deterministic narrative for a classified and priced request
func BuildNarrative(req ProjectRequest, c Classification, p Pricing) Narrative {
	return Narrative{
		Deliverables:    BuildDeliverables(c.Tier, req),
		Risks:           BuildRisks(c.Tier, req),
		Recommendations: BuildRecommendations(c.Tier, req),
		Assumptions:     BuildAssumptions(req),
		Exclusions:      BuildExclusions(req),
		QuoteText:       TemplateQuoteText(req, c, p),
		ProjectScope:    TemplateProjectScope(req, c, p),
		Source:          SourceDeterministic,
	}
}
