package estimator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// TextGenerator is the remote text-generation collaborator.
// Implementations return the raw model reply for a prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

var (
	// ErrMalformedReply is returned when a remote reply is not valid JSON or fails its schema
	ErrMalformedReply = errors.New("malformed remote reply")
)

const (
	defaultRemoteTier       = TierModerate
	defaultRemoteConfidence = 75
)

const classificationSchema = `{
  "type": "object",
  "properties": {
    "complexity": {"type": ["string", "null"], "enum": ["simple", "moderate", "complex", "enterprise", null]},
    "confidence": {"type": ["number", "null"], "minimum": 0, "maximum": 100},
    "reasoning": {"type": "string"}
  }
}`

const narrativeSchema = `{
  "type": "object",
  "required": ["quoteText", "projectScope"],
  "properties": {
    "quoteText": {"type": "string", "minLength": 1},
    "projectScope": {"type": "string", "minLength": 1}
  }
}`

var (
	classificationSchemaLoader = gojsonschema.NewStringLoader(classificationSchema)
	narrativeSchemaLoader      = gojsonschema.NewStringLoader(narrativeSchema)
)

// ClassifyRemote asks the generator for a tier and validates the strict JSON reply.
// Missing complexity defaults to moderate and missing confidence to 75.
func ClassifyRemote(ctx context.Context, gen TextGenerator, req ProjectRequest) (Classification, error) {
	req = req.Normalize()
	reply, err := gen.Generate(ctx, classificationPrompt(req))
	if err != nil {
		return Classification{}, err
	}

	var parsed struct {
		Complexity *string  `json:"complexity"`
		Confidence *float64 `json:"confidence"`
		Reasoning  string   `json:"reasoning"`
	}
	if err := decodeStrict(reply, classificationSchemaLoader, &parsed, normalizeTierField); err != nil {
		return Classification{}, err
	}

	out := Classification{
		Tier:       defaultRemoteTier,
		Confidence: defaultRemoteConfidence,
		Reasoning:  strings.TrimSpace(parsed.Reasoning),
		Source:     SourceRemote,
	}
	if parsed.Complexity != nil {
		tier, ok := ParseComplexityTier(*parsed.Complexity)
		if !ok {
			return Classification{}, fmt.Errorf("%w: unknown complexity %q", ErrMalformedReply, *parsed.Complexity)
		}
		out.Tier = tier
	}
	if parsed.Confidence != nil {
		out.Confidence = int(*parsed.Confidence + 0.5)
	}
	if out.Reasoning == "" {
		out.Reasoning = fmt.Sprintf("Assessed as %s by the remote reviewer.", out.Tier)
	}
	return out, nil
}

// GenerateRemoteProse asks the generator for the quote text and scope as strict JSON
func GenerateRemoteProse(ctx context.Context, gen TextGenerator, req ProjectRequest, c Classification, p Pricing) (quoteText, projectScope string, err error) {
	req = req.Normalize()
	reply, err := gen.Generate(ctx, narrativePrompt(req, c, p))
	if err != nil {
		return "", "", err
	}

	var parsed struct {
		QuoteText    string `json:"quoteText"`
		ProjectScope string `json:"projectScope"`
	}
	if err := decodeStrict(reply, narrativeSchemaLoader, &parsed, nil); err != nil {
		return "", "", err
	}
	quoteText = strings.TrimSpace(parsed.QuoteText)
	projectScope = strings.TrimSpace(parsed.ProjectScope)
	if quoteText == "" || projectScope == "" {
		return "", "", fmt.Errorf("%w: blank prose", ErrMalformedReply)
	}
	return quoteText, projectScope, nil
}

// decodeStrict strips an optional markdown code fence, lets prepare tidy the decoded
// object, validates it against the schema and decodes it into out.
func decodeStrict(reply string, schema gojsonschema.JSONLoader, out interface{}, prepare func(map[string]interface{})) error {
	body := stripCodeFence(reply)

	var doc interface{}
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	if obj, ok := doc.(map[string]interface{}); ok && prepare != nil {
		prepare(obj)
	}

	result, err := gojsonschema.Validate(schema, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("%w: %s", ErrMalformedReply, strings.Join(errs, "; "))
	}

	normalized, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	if err := json.Unmarshal(normalized, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	return nil
}

// normalizeTierField folds the tier name the way ParseComplexityTier does, so "Complex" passes the enum
func normalizeTierField(obj map[string]interface{}) {
	if v, ok := obj["complexity"].(string); ok {
		tier, _ := ParseComplexityTier(v)
		obj["complexity"] = string(tier)
	}
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func classificationPrompt(req ProjectRequest) string {
	var b strings.Builder
	b.WriteString("You are a senior estimator at a web development agency. ")
	b.WriteString("Classify the complexity of the following website project.\n\n")
	writeRequest(&b, req)
	b.WriteString("\nRespond with ONLY a JSON object, no prose and no markdown, in exactly this shape:\n")
	b.WriteString(`{"complexity": "simple|moderate|complex|enterprise", "confidence": 0-100, "reasoning": "one or two sentences"}`)
	return b.String()
}

func narrativePrompt(req ProjectRequest, c Classification, p Pricing) string {
	var b strings.Builder
	b.WriteString("You are writing a friendly, professional quote for a web development agency client.\n\n")
	writeRequest(&b, req)
	fmt.Fprintf(&b, "Complexity: %s\n", c.Tier)
	fmt.Fprintf(&b, "Estimated hours: %d\n", p.EstimatedHours)
	fmt.Fprintf(&b, "Total price: %d\n", p.TotalPrice)
	fmt.Fprintf(&b, "Timeline: %s\n", p.TimelineEstimate)
	b.WriteString("\nDo not change any number above. Respond with ONLY a JSON object in exactly this shape:\n")
	b.WriteString(`{"quoteText": "a short personalised cover letter", "projectScope": "a one paragraph scope summary"}`)
	return b.String()
}

func writeRequest(b *strings.Builder, req ProjectRequest) {
	fmt.Fprintf(b, "Project type: %s\n", projectTypeName(req.ProjectType))
	if len(req.Features) > 0 {
		fmt.Fprintf(b, "Features: %s\n", strings.Join(req.Features, ", "))
	} else {
		b.WriteString("Features: none specified\n")
	}
	if req.Timeline != "" {
		fmt.Fprintf(b, "Requested timeline: %s\n", req.Timeline)
	}
	if req.BudgetRange != "" {
		fmt.Fprintf(b, "Budget range: %s\n", req.BudgetRange)
	}
	if req.ClientName != "" {
		fmt.Fprintf(b, "Client: %s\n", req.ClientName)
	}
	if strings.TrimSpace(req.Requirements) != "" {
		fmt.Fprintf(b, "Requirements: %s\n", strings.TrimSpace(req.Requirements))
	}
}
