package estimator

// Catalogue of known wizard feature tags
const (
	FeatureResponsiveDesign    = "responsive-design"
	FeatureContactForm         = "contact-form"
	FeatureBlog                = "blog"
	FeatureCMS                 = "cms"
	FeatureUserAuthentication  = "user-authentication"
	FeaturePaymentIntegration  = "payment-integration"
	FeatureAPIIntegration      = "api-integration"
	FeatureSEOOptimization     = "seo-optimization"
	FeatureAnalytics           = "analytics"
	FeatureSocialMedia         = "social-media"
	FeatureEmailMarketing      = "email-marketing"
	FeatureMultiLanguage       = "multi-language"
	FeatureAdvancedAnimations  = "advanced-animations"
	FeatureCustomIllustrations = "custom-illustrations"
	FeatureVideoIntegration    = "video-integration"
)

// FeatureInfo describes one catalogue entry as shown by the wizard
type FeatureInfo struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Hours  int    `json:"hours"`
	Weight int    `json:"weight"`
}

var featureLabels = []struct {
	id    string
	label string
}{
	{FeatureResponsiveDesign, "Responsive design"},
	{FeatureContactForm, "Contact form"},
	{FeatureBlog, "Blog"},
	{FeatureCMS, "Content management system"},
	{FeatureUserAuthentication, "User accounts and login"},
	{FeaturePaymentIntegration, "Online payments"},
	{FeatureAPIIntegration, "Third-party API integration"},
	{FeatureSEOOptimization, "SEO optimization"},
	{FeatureAnalytics, "Analytics"},
	{FeatureSocialMedia, "Social media integration"},
	{FeatureEmailMarketing, "Email marketing"},
	{FeatureMultiLanguage, "Multi-language support"},
	{FeatureAdvancedAnimations, "Advanced animations"},
	{FeatureCustomIllustrations, "Custom illustrations"},
	{FeatureVideoIntegration, "Video integration"},
}

// Catalogue returns the known feature tags with their hour and score contributions
func Catalogue() []FeatureInfo {
	out := make([]FeatureInfo, 0, len(featureLabels))
	for _, f := range featureLabels {
		out = append(out, FeatureInfo{
			ID:     f.id,
			Label:  f.label,
			Hours:  featureHours[f.id],
			Weight: featureWeights[f.id],
		})
	}
	return out
}

var typeBaseScore = map[ProjectType]int{
	ProjectTypeLandingPage: 1,
	ProjectTypeMultiPage:   2,
	ProjectTypeEcommerce:   4,
	ProjectTypeWebApp:      5,
	ProjectTypeRedesign:    2,
}

const defaultTypeScore = 3

var featureWeights = map[string]int{
	FeatureResponsiveDesign:    1,
	FeatureContactForm:         1,
	FeatureBlog:                2,
	FeatureCMS:                 3,
	FeatureUserAuthentication:  3,
	FeaturePaymentIntegration:  4,
	FeatureAPIIntegration:      3,
	FeatureSEOOptimization:     2,
	FeatureAnalytics:           1,
	FeatureSocialMedia:         1,
	FeatureEmailMarketing:      2,
	FeatureMultiLanguage:       3,
	FeatureAdvancedAnimations:  2,
	FeatureCustomIllustrations: 2,
	FeatureVideoIntegration:    2,
}

const defaultFeatureWeight = 1

// keywordRule adds bonus to the classifier score when any keyword appears in the requirements
type keywordRule struct {
	name     string
	keywords []string
	bonus    int
}

var classifierKeywordRules = []keywordRule{
	{name: "custom work", keywords: []string{"custom", "unique", "bespoke"}, bonus: 2},
	{name: "integrations", keywords: []string{"integration", "api", "integrate"}, bonus: 2},
	{name: "complexity language", keywords: []string{"complex", "advanced", "sophisticated"}, bonus: 2},
	{name: "enterprise scale", keywords: []string{"enterprise", "scalab", "scale", "high traffic"}, bonus: 3},
}

// score thresholds, inclusive upper bounds
const (
	simpleMaxScore   = 5
	moderateMaxScore = 10
	complexMaxScore  = 15
)

const deterministicConfidence = 85

var tierBaseHours = map[ComplexityTier]int{
	TierSimple:     20,
	TierModerate:   40,
	TierComplex:    80,
	TierEnterprise: 150,
}

var featureHours = map[string]int{
	FeatureResponsiveDesign:    8,
	FeatureContactForm:         4,
	FeatureBlog:                12,
	FeatureCMS:                 20,
	FeatureUserAuthentication:  16,
	FeaturePaymentIntegration:  24,
	FeatureAPIIntegration:      16,
	FeatureSEOOptimization:     8,
	FeatureAnalytics:           4,
	FeatureSocialMedia:         6,
	FeatureEmailMarketing:      12,
	FeatureMultiLanguage:       16,
	FeatureAdvancedAnimations:  12,
	FeatureCustomIllustrations: 16,
	FeatureVideoIntegration:    8,
}

const defaultFeatureHours = 4

var tierHourlyRate = map[ComplexityTier]int64{
	TierSimple:     75,
	TierModerate:   85,
	TierComplex:    95,
	TierEnterprise: 110,
}

// adjustment fractions are kept as strings and parsed into decimals once
var timelineAdjustment = map[Timeline]string{
	TimelineASAP:      "0.30",
	TimelineOneWeek:   "0.20",
	TimelineTwoWeeks:  "0.10",
	TimelineOneMonth:  "0",
	TimelineTwoMonths: "-0.05",
	TimelineFlexible:  "-0.10",
}

var complexFeatures = map[string]bool{
	FeatureCMS:                true,
	FeatureUserAuthentication: true,
	FeaturePaymentIntegration: true,
	FeatureAPIIntegration:     true,
	FeatureMultiLanguage:      true,
}

const (
	featureDensityStep     = "0.05"
	integrationAdjustment  = "0.15"
	customDesignAdjustment = "0.20"
	seoAdjustment          = "0.10"
)

var integrationKeywords = []string{"api", "integration", "third-party", "external", "webhook"}

var customDesignKeywords = []string{"custom", "unique", "brand", "illustration", "animation"}

var seoKeywords = []string{"seo", "search"}

var maintenanceReserve = map[ComplexityTier]string{
	TierSimple:     "0.05",
	TierModerate:   "0.08",
	TierComplex:    "0.12",
	TierEnterprise: "0.15",
}

// timeline pacing
const workingHoursPerDay = 6

var timelinePace = map[Timeline]string{
	TimelineASAP:      "0.5",
	TimelineOneWeek:   "0.6",
	TimelineTwoWeeks:  "0.75",
	TimelineOneMonth:  "1",
	TimelineTwoMonths: "1.25",
	TimelineFlexible:  "1.5",
}

var tierMinDays = map[ComplexityTier]int{
	TierSimple:     3,
	TierModerate:   7,
	TierComplex:    14,
	TierEnterprise: 21,
}

var tierSupportMonths = map[ComplexityTier]int{
	TierSimple:     1,
	TierModerate:   3,
	TierComplex:    6,
	TierEnterprise: 12,
}

// MinDays returns the minimum elapsed days for the tier
func MinDays(tier ComplexityTier) int {
	if d, ok := tierMinDays[tier]; ok {
		return d
	}
	return tierMinDays[TierModerate]
}

// BaseHours returns the hour floor for the tier
func BaseHours(tier ComplexityTier) int {
	if h, ok := tierBaseHours[tier]; ok {
		return h
	}
	return tierBaseHours[TierModerate]
}

// HourlyRate returns the rate charged for the tier
func HourlyRate(tier ComplexityTier) int64 {
	if r, ok := tierHourlyRate[tier]; ok {
		return r
	}
	return tierHourlyRate[TierModerate]
}

// FeatureHours returns the additional hours a feature tag adds
func FeatureHours(feature string) int {
	if h, ok := featureHours[feature]; ok {
		return h
	}
	return defaultFeatureHours
}

// FeatureWeight returns the classifier score contribution of a feature tag
func FeatureWeight(feature string) int {
	if w, ok := featureWeights[feature]; ok {
		return w
	}
	return defaultFeatureWeight
}

func featureLabel(feature string) string {
	for _, f := range featureLabels {
		if f.id == feature {
			return f.label
		}
	}
	return feature
}
