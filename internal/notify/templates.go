package notify

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strconv"
	"strings"
	texttemplate "text/template"

	"github.com/northlight-studio/agency-api/internal/estimator"
)

const (
	KindClientQuote = "client_quote"
	KindAdminAlert  = "admin_alert"
)

var funcs = map[string]interface{}{
	"money": FormatMoney,
	"date":  func(r *estimator.Record) string { return r.ExpiresAt.Format("2 January 2006") },
}

const quoteText = `{{.Record.Breakdown.QuoteText}}

Summary
  Complexity: {{.Record.Breakdown.Complexity}}
  Estimated effort: {{.Record.Breakdown.EstimatedHours}} hours
  Timeline: {{.Record.Breakdown.TimelineEstimate}}
  Total: {{money .Record.Breakdown.TotalPrice}}

Deliverables
{{range .Record.Breakdown.Deliverables}}  - {{.}}
{{end}}
View, accept or decline your quote: {{.PortalURL}}
This quote is valid until {{date .Record}}.
Reference: {{.Record.Token}}
`

const quoteHTML = `<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #1f2933;">
<p>{{.Record.Breakdown.QuoteText}}</p>
<table cellpadding="4">
<tr><td>Complexity</td><td>{{.Record.Breakdown.Complexity}}</td></tr>
<tr><td>Estimated effort</td><td>{{.Record.Breakdown.EstimatedHours}} hours</td></tr>
<tr><td>Timeline</td><td>{{.Record.Breakdown.TimelineEstimate}}</td></tr>
<tr><td><strong>Total</strong></td><td><strong>{{money .Record.Breakdown.TotalPrice}}</strong></td></tr>
</table>
<h3>Deliverables</h3>
<ul>{{range .Record.Breakdown.Deliverables}}<li>{{.}}</li>{{end}}</ul>
<p><a href="{{.PortalURL}}">View, accept or decline your quote</a></p>
<p style="font-size: 12px;">Valid until {{date .Record}}. Reference {{.Record.Token}}.</p>
</body>
</html>
`

const alertText = `New quote {{.Record.Token}}

Client: {{.Record.Client.Name}} <{{.Record.Client.Email}}>{{with .Record.Client.Company}} ({{.}}){{end}}
{{with .Record.Client.Phone}}Phone: {{.}}
{{end}}Project type: {{.Record.Request.ProjectType}}
Features: {{join .Record.Request.Features}}
Timeline: {{.Record.Request.Timeline}}
Budget: {{.Record.Request.BudgetRange}}

Complexity: {{.Record.Breakdown.Complexity}} ({{.Record.Breakdown.Confidence}}% confidence, {{.Record.Breakdown.ClassifierSource}})
Hours: {{.Record.Breakdown.EstimatedHours}} at {{money .Record.Breakdown.HourlyRate}}/h
Total: {{money .Record.Breakdown.TotalPrice}}

Requirements:
{{.Record.Request.Requirements}}

{{.AdminURL}}
`

var (
	quoteTextTmpl = texttemplate.Must(texttemplate.New("quote.txt").Funcs(funcs).Parse(quoteText))
	quoteHTMLTmpl = htmltemplate.Must(htmltemplate.New("quote.html").Funcs(funcs).Parse(quoteHTML))
	alertTextTmpl = texttemplate.Must(texttemplate.New("alert.txt").Funcs(funcs).Funcs(map[string]interface{}{
		"join": func(s []string) string {
			if len(s) == 0 {
				return "none"
			}
			return strings.Join(s, ", ")
		},
	}).Parse(alertText))
)

type templateData struct {
	Record    *estimator.Record
	PortalURL string
	AdminURL  string
}

// QuoteEmail renders the message sent to the client after a quote is created
func QuoteEmail(rec *estimator.Record, portalURL string) (Message, error) {
	data := templateData{Record: rec, PortalURL: portalURL}

	var text, html bytes.Buffer
	if err := quoteTextTmpl.Execute(&text, data); err != nil {
		return Message{}, fmt.Errorf("failed to render quote text: %w", err)
	}
	if err := quoteHTMLTmpl.Execute(&html, data); err != nil {
		return Message{}, fmt.Errorf("failed to render quote html: %w", err)
	}

	return Message{
		To:      rec.Client.Email,
		ToName:  rec.Client.Name,
		Subject: fmt.Sprintf("Your project quote %s", rec.Token),
		Text:    text.String(),
		HTML:    html.String(),
		Kind:    KindClientQuote,
	}, nil
}

// AdminQuoteAlert renders the internal alert for a new quote
func AdminQuoteAlert(rec *estimator.Record, adminEmail, adminURL string) (Message, error) {
	var text bytes.Buffer
	if err := alertTextTmpl.Execute(&text, templateData{Record: rec, AdminURL: adminURL}); err != nil {
		return Message{}, fmt.Errorf("failed to render admin alert: %w", err)
	}

	return Message{
		To: adminEmail,
		Subject: fmt.Sprintf("New %s quote from %s: %s",
			rec.Breakdown.Complexity, rec.Client.Name, FormatMoney(rec.Breakdown.TotalPrice)),
		Text: text.String(),
		Kind: KindAdminAlert,
	}, nil
}

// FormatMoney renders whole currency units with thousands separators, e.g. $12,350
func FormatMoney(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + "$" + b.String()
}
