package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/northlight-studio/agency-api/internal/estimator"
)

type estimateOptions struct {
	projectType  string
	features     []string
	timeline     string
	budget       string
	requirements string
	asJSON       bool
}

func newEstimateCmd() *cobra.Command {
	opts := &estimateOptions{}

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Run the deterministic estimator for a project",
		Long: `Estimate prices a project offline with the same tables the API uses,
without calling the remote model. Useful for checking pricing changes.`,
		Example: `  agencyctl estimate --type ecommerce --feature payments --feature cms --timeline 1-month
  agencyctl estimate --type landing-page --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEstimate(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.projectType, "type", "t", string(estimator.ProjectTypeLandingPage), "Project type ("+joinTypes()+")")
	cmd.Flags().StringSliceVarP(&opts.features, "feature", "f", nil, "Feature tag, repeatable or comma separated")
	cmd.Flags().StringVar(&opts.timeline, "timeline", string(estimator.TimelineFlexible), "Requested timeline")
	cmd.Flags().StringVar(&opts.budget, "budget", "", "Budget range as given by the client")
	cmd.Flags().StringVarP(&opts.requirements, "requirements", "r", "", "Free-text requirements")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the breakdown as JSON")

	return cmd
}

func joinTypes() string {
	names := make([]string, len(estimator.ProjectTypes))
	for i, t := range estimator.ProjectTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

func runEstimate(cmd *cobra.Command, opts *estimateOptions) error {
	req := estimator.ProjectRequest{
		ProjectType:  estimator.ProjectType(opts.projectType),
		Features:     opts.features,
		Timeline:     estimator.Timeline(opts.timeline),
		BudgetRange:  opts.budget,
		Requirements: opts.requirements,
	}.Normalize()

	known := false
	for _, t := range estimator.ProjectTypes {
		if t == req.ProjectType {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown project type %q (expected one of %s)", opts.projectType, joinTypes())
	}

	breakdown := estimator.EstimateDeterministic(req)

	out := cmd.OutOrStdout()
	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(breakdown)
	}

	printBreakdown(out, req, breakdown)
	return nil
}
