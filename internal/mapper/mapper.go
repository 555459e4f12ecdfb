package mapper

import (
	"time"

	"github.com/northlight-studio/agency-api/internal/domain"
	"github.com/northlight-studio/agency-api/internal/estimator"
)

const (
	timestampLayout = "2006-01-02T15:04:05Z"
	dateLayout      = "2006-01-02"
)

func formatTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

// ParseDate parses an optional YYYY-MM-DD string
func ParseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// ToClientDTO converts Client to ClientDTO
func ToClientDTO(client *domain.Client) domain.ClientDTO {
	return domain.ClientDTO{
		ID:        client.ID,
		Name:      client.Name,
		Company:   client.Company,
		Email:     client.Email,
		Phone:     client.Phone,
		Website:   client.Website,
		Status:    client.Status,
		Source:    client.Source,
		Notes:     client.Notes,
		CreatedAt: formatTime(client.CreatedAt),
		UpdatedAt: formatTime(client.UpdatedAt),
	}
}

// ToContactDTO converts Contact to ContactDTO
func ToContactDTO(contact *domain.Contact) domain.ContactDTO {
	return domain.ContactDTO{
		ID:        contact.ID,
		ClientID:  contact.ClientID,
		FirstName: contact.FirstName,
		LastName:  contact.LastName,
		FullName:  contact.FullName(),
		Email:     contact.Email,
		Phone:     contact.Phone,
		Title:     contact.Title,
		IsPrimary: contact.IsPrimary,
		Notes:     contact.Notes,
		CreatedAt: formatTime(contact.CreatedAt),
		UpdatedAt: formatTime(contact.UpdatedAt),
	}
}

// ToProjectDTO converts Project to ProjectDTO
func ToProjectDTO(project *domain.Project) domain.ProjectDTO {
	dto := domain.ProjectDTO{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		ClientID:    project.ClientID,
		QuoteID:     project.QuoteID,
		Status:      project.Status,
		Budget:      project.Budget,
		StartDate:   formatOptionalDate(project.StartDate),
		DueDate:     formatOptionalDate(project.DueDate),
		CompletedAt: formatOptionalTime(project.CompletedAt),
		CreatedAt:   formatTime(project.CreatedAt),
		UpdatedAt:   formatTime(project.UpdatedAt),
	}
	if project.Client != nil {
		dto.ClientName = project.Client.Name
	}
	return dto
}

// QuoteFromRecord flattens an assembled estimator record into the quote row
func QuoteFromRecord(rec *estimator.Record) *domain.Quote {
	b := rec.Breakdown
	return &domain.Quote{
		BaseModel: domain.BaseModel{
			CreatedAt: rec.CreatedAt,
			UpdatedAt: rec.CreatedAt,
		},
		Token:               rec.Token,
		ClientName:          rec.Client.Name,
		ClientEmail:         rec.Client.Email,
		ClientPhone:         rec.Client.Phone,
		ClientCompany:       rec.Client.Company,
		ProjectType:         string(rec.Request.ProjectType),
		Features:            nonNil(rec.Request.Features),
		Timeline:            string(rec.Request.Timeline),
		BudgetRange:         rec.Request.BudgetRange,
		Requirements:        rec.Request.Requirements,
		Complexity:          string(b.Complexity),
		Confidence:          b.Confidence,
		ComplexityReasoning: b.ComplexityReasoning,
		EstimatedHours:      b.EstimatedHours,
		HourlyRate:          b.HourlyRate,
		BasePrice:           b.BasePrice,
		AdjustmentFactor:    b.AdjustmentFactor,
		Adjustments:         b.Adjustments,
		TotalPrice:          b.TotalPrice,
		TimelineEstimate:    b.TimelineEstimate,
		TimelineDays:        b.TimelineDays,
		LineItems:           b.LineItems,
		Deliverables:        nonNil(b.Deliverables),
		Risks:               nonNil(b.Risks),
		Recommendations:     nonNil(b.Recommendations),
		Assumptions:         nonNil(b.Assumptions),
		Exclusions:          nonNil(b.Exclusions),
		QuoteText:           b.QuoteText,
		ProjectScope:        b.ProjectScope,
		ClassifierSource:    string(b.ClassifierSource),
		NarrativeSource:     string(b.NarrativeSource),
		Status:              domain.QuoteStatusPending,
		ExpiresAt:           rec.ExpiresAt,
	}
}

// ToBreakdown rebuilds the estimator breakdown stored on a quote row
func ToBreakdown(q *domain.Quote) estimator.QuoteBreakdown {
	return estimator.QuoteBreakdown{
		Complexity:          estimator.ComplexityTier(q.Complexity),
		Confidence:          q.Confidence,
		ComplexityReasoning: q.ComplexityReasoning,
		EstimatedHours:      q.EstimatedHours,
		HourlyRate:          q.HourlyRate,
		BasePrice:           q.BasePrice,
		Adjustments:         q.Adjustments,
		AdjustmentFactor:    q.AdjustmentFactor,
		TotalPrice:          q.TotalPrice,
		LineItems:           q.LineItems,
		TimelineDays:        q.TimelineDays,
		TimelineEstimate:    q.TimelineEstimate,
		Deliverables:        nonNil(q.Deliverables),
		Risks:               nonNil(q.Risks),
		Recommendations:     nonNil(q.Recommendations),
		Assumptions:         nonNil(q.Assumptions),
		Exclusions:          nonNil(q.Exclusions),
		QuoteText:           q.QuoteText,
		ProjectScope:        q.ProjectScope,
		ClassifierSource:    estimator.Source(q.ClassifierSource),
		NarrativeSource:     estimator.Source(q.NarrativeSource),
	}
}

// ToRecord rebuilds the estimator record stored on a quote row
func ToRecord(q *domain.Quote) *estimator.Record {
	return &estimator.Record{
		Token: q.Token,
		Client: estimator.ClientContact{
			Name:    q.ClientName,
			Email:   q.ClientEmail,
			Phone:   q.ClientPhone,
			Company: q.ClientCompany,
		},
		Request: estimator.ProjectRequest{
			ProjectType:  estimator.ProjectType(q.ProjectType),
			Features:     nonNil(q.Features),
			Timeline:     estimator.Timeline(q.Timeline),
			BudgetRange:  q.BudgetRange,
			Requirements: q.Requirements,
			ClientName:   q.ClientName,
		},
		Breakdown: ToBreakdown(q),
		CreatedAt: q.CreatedAt,
		ExpiresAt: q.ExpiresAt,
	}
}

// ToQuoteDTO converts Quote to QuoteDTO
func ToQuoteDTO(q *domain.Quote) domain.QuoteDTO {
	rec := ToRecord(q)
	return domain.QuoteDTO{
		ID:         q.ID,
		Token:      q.Token,
		Status:     q.Status,
		ClientID:   q.ClientID,
		ProjectID:  q.ProjectID,
		Client:     rec.Client,
		Request:    rec.Request,
		Quote:      rec.Breakdown,
		CreatedAt:  formatTime(q.CreatedAt),
		ExpiresAt:  formatTime(q.ExpiresAt),
		AcceptedAt: formatOptionalTime(q.AcceptedAt),
		DeclinedAt: formatOptionalTime(q.DeclinedAt),

		DeclineReason: q.DeclineReason,
	}
}

// ToQuoteSummaryDTO converts Quote to its list representation
func ToQuoteSummaryDTO(q *domain.Quote) domain.QuoteSummaryDTO {
	return domain.QuoteSummaryDTO{
		ID:               q.ID,
		Token:            q.Token,
		Status:           q.Status,
		ClientName:       q.ClientName,
		ClientEmail:      q.ClientEmail,
		ProjectType:      q.ProjectType,
		Complexity:       q.Complexity,
		TotalPrice:       q.TotalPrice,
		TimelineEstimate: q.TimelineEstimate,
		CreatedAt:        formatTime(q.CreatedAt),
		ExpiresAt:        formatTime(q.ExpiresAt),
	}
}

// ToBlogPostDTO converts BlogPost to BlogPostDTO
func ToBlogPostDTO(post *domain.BlogPost) domain.BlogPostDTO {
	return domain.BlogPostDTO{
		ID:          post.ID,
		Title:       post.Title,
		Slug:        post.Slug,
		Excerpt:     post.Excerpt,
		Content:     post.Content,
		Author:      post.Author,
		Tags:        nonNil(post.Tags),
		CoverImage:  post.CoverImage,
		Status:      post.Status,
		PublishedAt: formatOptionalTime(post.PublishedAt),
		CreatedAt:   formatTime(post.CreatedAt),
		UpdatedAt:   formatTime(post.UpdatedAt),
	}
}

// ToPortfolioItemDTO converts PortfolioItem to PortfolioItemDTO
func ToPortfolioItemDTO(item *domain.PortfolioItem) domain.PortfolioItemDTO {
	return domain.PortfolioItemDTO{
		ID:            item.ID,
		Title:         item.Title,
		Slug:          item.Slug,
		Summary:       item.Summary,
		Description:   item.Description,
		ClientName:    item.ClientName,
		ProjectURL:    item.ProjectURL,
		Technologies:  nonNil(item.Technologies),
		CoverImageKey: item.CoverImageKey,
		Featured:      item.Featured,
		Published:     item.Published,
		SortOrder:     item.SortOrder,
		CreatedAt:     formatTime(item.CreatedAt),
		UpdatedAt:     formatTime(item.UpdatedAt),
	}
}
