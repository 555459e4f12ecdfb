package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/northlight-studio/agency-api/internal/estimator"
	"github.com/northlight-studio/agency-api/internal/notify"
)

var (
	titleColor   = color.New(color.FgMagenta, color.Bold)
	labelColor   = color.New(color.FgCyan)
	moneyColor   = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed, color.Bold)
)

var tierColors = map[estimator.ComplexityTier]*color.Color{
	estimator.TierSimple:     color.New(color.FgGreen),
	estimator.TierModerate:   color.New(color.FgCyan),
	estimator.TierComplex:    color.New(color.FgYellow),
	estimator.TierEnterprise: color.New(color.FgRed),
}

func separator(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("─", 60))
}

func field(w io.Writer, label, format string, args ...interface{}) {
	labelColor.Fprintf(w, "%-18s", label)
	fmt.Fprintf(w, format+"\n", args...)
}

func bulletList(w io.Writer, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintln(w)
	titleColor.Fprintln(w, heading)
	for _, item := range items {
		fmt.Fprintf(w, "  • %s\n", item)
	}
}

// printBreakdown renders a quote breakdown for a terminal
func printBreakdown(w io.Writer, req estimator.ProjectRequest, b *estimator.QuoteBreakdown) {
	titleColor.Fprintf(w, "Estimate for a %s\n", req.ProjectType.Label())
	separator(w)

	tc, ok := tierColors[b.Complexity]
	if !ok {
		tc = color.New(color.Reset)
	}
	labelColor.Fprintf(w, "%-18s", "Complexity")
	tc.Fprintf(w, "%s", b.Complexity)
	fmt.Fprintf(w, " (%d%% confidence)\n", b.Confidence)
	field(w, "Reasoning", "%s", b.ComplexityReasoning)
	field(w, "Hours", "%d at %s/h", b.EstimatedHours, notify.FormatMoney(b.HourlyRate))
	field(w, "Base price", "%s", notify.FormatMoney(b.BasePrice))
	field(w, "Adjustment", "×%.2f", b.AdjustmentFactor)
	for _, adj := range b.Adjustments {
		fmt.Fprintf(w, "  %-16s %+.0f%%\n", adj.Name, adj.Factor*100)
	}
	field(w, "Timeline", "%s (%d days)", b.TimelineEstimate, b.TimelineDays)

	fmt.Fprintln(w)
	titleColor.Fprintln(w, "Line items")
	for _, item := range b.LineItems {
		fmt.Fprintf(w, "  %-36s %4dh  %10s\n", item.Description, item.Hours, notify.FormatMoney(item.Amount))
	}
	separator(w)
	labelColor.Fprintf(w, "%-18s", "Total")
	moneyColor.Fprintln(w, notify.FormatMoney(b.TotalPrice))

	bulletList(w, "Deliverables", b.Deliverables)
	bulletList(w, "Risks", b.Risks)
	bulletList(w, "Recommendations", b.Recommendations)
	bulletList(w, "Assumptions", b.Assumptions)
	bulletList(w, "Exclusions", b.Exclusions)
}
