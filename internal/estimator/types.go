// Package estimator turns a project request collected by the onboarding wizard into a
// priced, justified quote breakdown.
//
// The package is pure: it owns no state and performs no I/O other than the optional
// call to a remote text generator. Every remote step has a deterministic fallback, so
// Estimate always produces a usable QuoteBreakdown.
package estimator

import (
	"sort"
	"strings"
)

// ProjectType is the kind of website the client is asking for
type ProjectType string

const (
	ProjectTypeLandingPage ProjectType = "landing-page"
	ProjectTypeMultiPage   ProjectType = "multi-page"
	ProjectTypeEcommerce   ProjectType = "ecommerce"
	ProjectTypeWebApp      ProjectType = "web-app"
	ProjectTypeRedesign    ProjectType = "redesign"
	ProjectTypeOther       ProjectType = "other"
)

// ProjectTypes lists the known project types in wizard order
var ProjectTypes = []ProjectType{
	ProjectTypeLandingPage,
	ProjectTypeMultiPage,
	ProjectTypeEcommerce,
	ProjectTypeWebApp,
	ProjectTypeRedesign,
	ProjectTypeOther,
}

// Label returns a human-readable name for the project type
func (p ProjectType) Label() string {
	switch p {
	case ProjectTypeLandingPage:
		return "landing page"
	case ProjectTypeMultiPage:
		return "multi-page website"
	case ProjectTypeEcommerce:
		return "e-commerce store"
	case ProjectTypeWebApp:
		return "web application"
	case ProjectTypeRedesign:
		return "website redesign"
	default:
		return "website"
	}
}

// Timeline is the delivery pace requested by the client
type Timeline string

const (
	TimelineASAP      Timeline = "asap"
	TimelineOneWeek   Timeline = "1-week"
	TimelineTwoWeeks  Timeline = "2-weeks"
	TimelineOneMonth  Timeline = "1-month"
	TimelineTwoMonths Timeline = "2-months"
	TimelineFlexible  Timeline = "flexible"
)

// Timelines lists the known timeline values in wizard order
var Timelines = []Timeline{
	TimelineASAP,
	TimelineOneWeek,
	TimelineTwoWeeks,
	TimelineOneMonth,
	TimelineTwoMonths,
	TimelineFlexible,
}

// ComplexityTier is the ordinal classification driving rate, base hours and minimum timeline
type ComplexityTier string

const (
	TierSimple     ComplexityTier = "simple"
	TierModerate   ComplexityTier = "moderate"
	TierComplex    ComplexityTier = "complex"
	TierEnterprise ComplexityTier = "enterprise"
)

// Tiers lists the tiers in ascending order
var Tiers = []ComplexityTier{TierSimple, TierModerate, TierComplex, TierEnterprise}

// Rank returns the position of the tier in the total order, or -1 for unknown values
func (t ComplexityTier) Rank() int {
	for i, tier := range Tiers {
		if tier == t {
			return i
		}
	}
	return -1
}

// Less reports whether t orders strictly before other
func (t ComplexityTier) Less(other ComplexityTier) bool {
	return t.Rank() < other.Rank()
}

// IsValid reports whether t is one of the four known tiers
func (t ComplexityTier) IsValid() bool {
	return t.Rank() >= 0
}

// ParseComplexityTier parses a tier name case-insensitively
func ParseComplexityTier(s string) (ComplexityTier, bool) {
	tier := ComplexityTier(strings.ToLower(strings.TrimSpace(s)))
	return tier, tier.IsValid()
}

// Source records which strategy produced a part of the breakdown
type Source string

const (
	SourceDeterministic Source = "deterministic"
	SourceRemote        Source = "remote"
)

// ProjectRequest is the transient input of one estimation call
type ProjectRequest struct {
	ProjectType  ProjectType `json:"projectType"`
	Features     []string    `json:"features"`
	Timeline     Timeline    `json:"timeline"`
	BudgetRange  string      `json:"budgetRange,omitempty"`
	Requirements string      `json:"requirements,omitempty"`
	ClientName   string      `json:"clientName,omitempty"`
}

// Normalize returns a copy with trimmed, lower-cased, de-duplicated and sorted features.
// Feature tags form a set, so each one contributes at most once to every additive rule.
func (r ProjectRequest) Normalize() ProjectRequest {
	out := r
	out.ProjectType = ProjectType(strings.ToLower(strings.TrimSpace(string(r.ProjectType))))
	out.Timeline = Timeline(strings.ToLower(strings.TrimSpace(string(r.Timeline))))
	out.ClientName = strings.TrimSpace(r.ClientName)

	seen := make(map[string]bool, len(r.Features))
	features := make([]string, 0, len(r.Features))
	for _, f := range r.Features {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		features = append(features, f)
	}
	sort.Strings(features)
	out.Features = features
	return out
}

// HasFeature reports whether the feature tag is present. Callers pass a normalized request.
func (r ProjectRequest) HasFeature(feature string) bool {
	for _, f := range r.Features {
		if f == feature {
			return true
		}
	}
	return false
}

func (r ProjectRequest) requirementsLower() string {
	return strings.ToLower(r.Requirements)
}

// Classification is the output of the complexity classifier
type Classification struct {
	Tier       ComplexityTier `json:"tier"`
	Confidence int            `json:"confidence"`
	Reasoning  string         `json:"reasoning"`
	Score      int            `json:"score,omitempty"`
	Source     Source         `json:"source"`
}

// Adjustment is one named contribution to the adjustment factor
type Adjustment struct {
	Name   string  `json:"name"`
	Factor float64 `json:"factor"`
}

// LineItem is one priced row of the quote
type LineItem struct {
	Description string `json:"description"`
	Hours       int    `json:"hours"`
	Rate        int64  `json:"rate"`
	Amount      int64  `json:"amount"`
}

// Pricing is the output of the pricing and hours engine
type Pricing struct {
	EstimatedHours   int          `json:"estimatedHours"`
	HourlyRate       int64        `json:"hourlyRate"`
	BasePrice        int64        `json:"basePrice"`
	Adjustments      []Adjustment `json:"adjustments"`
	AdjustmentFactor float64      `json:"adjustmentFactor"`
	TotalPrice       int64        `json:"totalPrice"`
	LineItems        []LineItem   `json:"lineItems"`
	TimelineDays     int          `json:"timelineDays"`
	TimelineEstimate string       `json:"timelineEstimate"`
}

// Narrative holds the generated human-readable parts of a quote
type Narrative struct {
	Deliverables    []string `json:"deliverables"`
	Risks           []string `json:"risks"`
	Recommendations []string `json:"recommendations"`
	Assumptions     []string `json:"assumptions"`
	Exclusions      []string `json:"exclusions"`
	QuoteText       string   `json:"quoteText"`
	ProjectScope    string   `json:"projectScope"`
	Source          Source   `json:"source"`
}

// QuoteBreakdown is the full, priced and justified estimate for one request
type QuoteBreakdown struct {
	Complexity          ComplexityTier `json:"complexity"`
	Confidence          int            `json:"confidence"`
	ComplexityReasoning string         `json:"complexityReasoning"`
	EstimatedHours      int            `json:"estimatedHours"`
	HourlyRate          int64          `json:"hourlyRate"`
	BasePrice           int64          `json:"basePrice"`
	Adjustments         []Adjustment   `json:"adjustments"`
	AdjustmentFactor    float64        `json:"adjustmentFactor"`
	TotalPrice          int64          `json:"totalPrice"`
	LineItems           []LineItem     `json:"lineItems"`
	TimelineDays        int            `json:"timelineDays"`
	TimelineEstimate    string         `json:"timelineEstimate"`
	Deliverables        []string       `json:"deliverables"`
	Risks               []string       `json:"risks"`
	Recommendations     []string       `json:"recommendations"`
	Assumptions         []string       `json:"assumptions"`
	Exclusions          []string       `json:"exclusions"`
	QuoteText           string         `json:"quoteText"`
	ProjectScope        string         `json:"projectScope"`
	ClassifierSource    Source         `json:"classifierSource"`
	NarrativeSource     Source         `json:"narrativeSource"`
}
