package domain

import (
	"github.com/google/uuid"

	"github.com/northlight-studio/agency-api/internal/estimator"
)

// Response DTOs. Timestamps are ISO 8601 strings.

type ClientDTO struct {
	ID        uuid.UUID    `json:"id"`
	Name      string       `json:"name"`
	Company   string       `json:"company,omitempty"`
	Email     string       `json:"email"`
	Phone     string       `json:"phone,omitempty"`
	Website   string       `json:"website,omitempty"`
	Status    ClientStatus `json:"status"`
	Source    ClientSource `json:"source"`
	Notes     string       `json:"notes,omitempty"`
	CreatedAt string       `json:"createdAt"`
	UpdatedAt string       `json:"updatedAt"`
}

// ClientWithDetailsDTO includes the client with its contacts, projects and quotes
type ClientWithDetailsDTO struct {
	ClientDTO
	Contacts []ContactDTO      `json:"contacts"`
	Projects []ProjectDTO      `json:"projects"`
	Quotes   []QuoteSummaryDTO `json:"quotes"`
}

type ContactDTO struct {
	ID        uuid.UUID  `json:"id"`
	ClientID  *uuid.UUID `json:"clientId,omitempty"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	FullName  string     `json:"fullName"`
	Email     string     `json:"email,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	Title     string     `json:"title,omitempty"`
	IsPrimary bool       `json:"isPrimary"`
	Notes     string     `json:"notes,omitempty"`
	CreatedAt string     `json:"createdAt"`
	UpdatedAt string     `json:"updatedAt"`
}

type ProjectDTO struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	ClientID    uuid.UUID     `json:"clientId"`
	ClientName  string        `json:"clientName,omitempty"`
	QuoteID     *uuid.UUID    `json:"quoteId,omitempty"`
	Status      ProjectStatus `json:"status"`
	Budget      int64         `json:"budget"`
	StartDate   string        `json:"startDate,omitempty"`
	DueDate     string        `json:"dueDate,omitempty"`
	CompletedAt string        `json:"completedAt,omitempty"`
	CreatedAt   string        `json:"createdAt"`
	UpdatedAt   string        `json:"updatedAt"`
}

// QuoteDTO is the full quote as shown to staff and, via the portal, to the client
type QuoteDTO struct {
	ID        uuid.UUID   `json:"id"`
	Token     string      `json:"token"`
	Status    QuoteStatus `json:"status"`
	ClientID  *uuid.UUID  `json:"clientId,omitempty"`
	ProjectID *uuid.UUID  `json:"projectId,omitempty"`

	Client  estimator.ClientContact  `json:"client"`
	Request estimator.ProjectRequest `json:"request"`
	Quote   estimator.QuoteBreakdown `json:"breakdown"`

	CreatedAt  string `json:"createdAt"`
	ExpiresAt  string `json:"expiresAt"`
	AcceptedAt string `json:"acceptedAt,omitempty"`
	DeclinedAt string `json:"declinedAt,omitempty"`

	DeclineReason string `json:"declineReason,omitempty"`
}

// QuoteSummaryDTO is the list view of a quote
type QuoteSummaryDTO struct {
	ID               uuid.UUID   `json:"id"`
	Token            string      `json:"token"`
	Status           QuoteStatus `json:"status"`
	ClientName       string      `json:"clientName"`
	ClientEmail      string      `json:"clientEmail"`
	ProjectType      string      `json:"projectType"`
	Complexity       string      `json:"complexity"`
	TotalPrice       int64       `json:"totalPrice"`
	TimelineEstimate string      `json:"timelineEstimate"`
	CreatedAt        string      `json:"createdAt"`
	ExpiresAt        string      `json:"expiresAt"`
}

type BlogPostDTO struct {
	ID          uuid.UUID      `json:"id"`
	Title       string         `json:"title"`
	Slug        string         `json:"slug"`
	Excerpt     string         `json:"excerpt,omitempty"`
	Content     string         `json:"content"`
	Author      string         `json:"author,omitempty"`
	Tags        []string       `json:"tags"`
	CoverImage  string         `json:"coverImage,omitempty"`
	Status      BlogPostStatus `json:"status"`
	PublishedAt string         `json:"publishedAt,omitempty"`
	CreatedAt   string         `json:"createdAt"`
	UpdatedAt   string         `json:"updatedAt"`
}

type PortfolioItemDTO struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Summary       string    `json:"summary,omitempty"`
	Description   string    `json:"description,omitempty"`
	ClientName    string    `json:"clientName,omitempty"`
	ProjectURL    string    `json:"projectUrl,omitempty"`
	Technologies  []string  `json:"technologies"`
	CoverImageKey string    `json:"coverImageKey,omitempty"`
	Featured      bool      `json:"featured"`
	Published     bool      `json:"published"`
	SortOrder     int       `json:"sortOrder"`
	CreatedAt     string    `json:"createdAt"`
	UpdatedAt     string    `json:"updatedAt"`
}

// CatalogueDTO lists the options offered by the onboarding wizard
type CatalogueDTO struct {
	ProjectTypes []estimator.ProjectType `json:"projectTypes"`
	Timelines    []estimator.Timeline    `json:"timelines"`
	Features     []estimator.FeatureInfo `json:"features"`
}

// PaginatedResponse wraps a page of results
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// Request DTOs

// CreateQuoteRequest is the onboarding wizard submission
type CreateQuoteRequest struct {
	Name         string   `json:"name" validate:"required,max=200"`
	Email        string   `json:"email" validate:"required,email,max=255"`
	Phone        string   `json:"phone,omitempty" validate:"max=50"`
	Company      string   `json:"company,omitempty" validate:"max=200"`
	ProjectType  string   `json:"projectType" validate:"required,max=50"`
	Features     []string `json:"features,omitempty" validate:"max=50,dive,max=100"`
	Timeline     string   `json:"timeline,omitempty" validate:"max=50"`
	BudgetRange  string   `json:"budgetRange,omitempty" validate:"max=100"`
	Requirements string   `json:"requirements,omitempty" validate:"max=5000"`
}

// ProjectRequest converts the wizard submission into estimator input
func (r *CreateQuoteRequest) ProjectRequest() estimator.ProjectRequest {
	return estimator.ProjectRequest{
		ProjectType:  estimator.ProjectType(r.ProjectType),
		Features:     r.Features,
		Timeline:     estimator.Timeline(r.Timeline),
		BudgetRange:  r.BudgetRange,
		Requirements: r.Requirements,
		ClientName:   r.Name,
	}
}

// Contact returns the client contact part of the submission
func (r *CreateQuoteRequest) Contact() estimator.ClientContact {
	return estimator.ClientContact{Name: r.Name, Email: r.Email, Phone: r.Phone, Company: r.Company}
}

// PreviewQuoteRequest runs the estimator without persisting anything
type PreviewQuoteRequest struct {
	ProjectType  string   `json:"projectType" validate:"required,max=50"`
	Features     []string `json:"features,omitempty" validate:"max=50,dive,max=100"`
	Timeline     string   `json:"timeline,omitempty" validate:"max=50"`
	BudgetRange  string   `json:"budgetRange,omitempty" validate:"max=100"`
	Requirements string   `json:"requirements,omitempty" validate:"max=5000"`
	ClientName   string   `json:"clientName,omitempty" validate:"max=200"`
}

// ProjectRequest converts the preview request into estimator input
func (r *PreviewQuoteRequest) ProjectRequest() estimator.ProjectRequest {
	return estimator.ProjectRequest{
		ProjectType:  estimator.ProjectType(r.ProjectType),
		Features:     r.Features,
		Timeline:     estimator.Timeline(r.Timeline),
		BudgetRange:  r.BudgetRange,
		Requirements: r.Requirements,
		ClientName:   r.ClientName,
	}
}

// DeclineQuoteRequest carries the optional reason a client gives
type DeclineQuoteRequest struct {
	Reason string `json:"reason,omitempty" validate:"max=1000"`
}

type CreateClientRequest struct {
	Name    string       `json:"name" validate:"required,max=200"`
	Company string       `json:"company,omitempty" validate:"max=200"`
	Email   string       `json:"email" validate:"required,email,max=255"`
	Phone   string       `json:"phone,omitempty" validate:"max=50"`
	Website string       `json:"website,omitempty" validate:"omitempty,url,max=500"`
	Status  ClientStatus `json:"status,omitempty"`
	Source  ClientSource `json:"source,omitempty"`
	Notes   string       `json:"notes,omitempty"`
}

type UpdateClientRequest struct {
	Name    string       `json:"name" validate:"required,max=200"`
	Company string       `json:"company,omitempty" validate:"max=200"`
	Email   string       `json:"email" validate:"required,email,max=255"`
	Phone   string       `json:"phone,omitempty" validate:"max=50"`
	Website string       `json:"website,omitempty" validate:"omitempty,url,max=500"`
	Status  ClientStatus `json:"status" validate:"required"`
	Notes   string       `json:"notes,omitempty"`
}

type CreateContactRequest struct {
	ClientID  *uuid.UUID `json:"clientId,omitempty"`
	FirstName string     `json:"firstName" validate:"required,max=100"`
	LastName  string     `json:"lastName" validate:"required,max=100"`
	Email     string     `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Phone     string     `json:"phone,omitempty" validate:"max=50"`
	Title     string     `json:"title,omitempty" validate:"max=100"`
	IsPrimary bool       `json:"isPrimary"`
	Notes     string     `json:"notes,omitempty"`
}

type UpdateContactRequest struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Email     string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Phone     string `json:"phone,omitempty" validate:"max=50"`
	Title     string `json:"title,omitempty" validate:"max=100"`
	IsPrimary bool   `json:"isPrimary"`
	Notes     string `json:"notes,omitempty"`
}

type CreateProjectRequest struct {
	Name        string     `json:"name" validate:"required,max=200"`
	Description string     `json:"description,omitempty"`
	ClientID    uuid.UUID  `json:"clientId" validate:"required"`
	QuoteID     *uuid.UUID `json:"quoteId,omitempty"`
	Budget      int64      `json:"budget" validate:"gte=0"`
	StartDate   string     `json:"startDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DueDate     string     `json:"dueDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type UpdateProjectRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description,omitempty"`
	Budget      int64  `json:"budget" validate:"gte=0"`
	StartDate   string `json:"startDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DueDate     string `json:"dueDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type UpdateProjectStatusRequest struct {
	Status ProjectStatus `json:"status" validate:"required"`
}

type CreateBlogPostRequest struct {
	Title      string   `json:"title" validate:"required,max=200"`
	Slug       string   `json:"slug,omitempty" validate:"max=220"`
	Excerpt    string   `json:"excerpt,omitempty" validate:"max=500"`
	Content    string   `json:"content" validate:"required"`
	Author     string   `json:"author,omitempty" validate:"max=200"`
	Tags       []string `json:"tags,omitempty" validate:"max=20,dive,max=50"`
	CoverImage string   `json:"coverImage,omitempty" validate:"max=500"`
	Publish    bool     `json:"publish"`
}

type UpdateBlogPostRequest struct {
	Title      string   `json:"title" validate:"required,max=200"`
	Excerpt    string   `json:"excerpt,omitempty" validate:"max=500"`
	Content    string   `json:"content" validate:"required"`
	Author     string   `json:"author,omitempty" validate:"max=200"`
	Tags       []string `json:"tags,omitempty" validate:"max=20,dive,max=50"`
	CoverImage string   `json:"coverImage,omitempty" validate:"max=500"`
}

type CreatePortfolioItemRequest struct {
	Title        string   `json:"title" validate:"required,max=200"`
	Slug         string   `json:"slug,omitempty" validate:"max=220"`
	Summary      string   `json:"summary,omitempty" validate:"max=500"`
	Description  string   `json:"description,omitempty"`
	ClientName   string   `json:"clientName,omitempty" validate:"max=200"`
	ProjectURL   string   `json:"projectUrl,omitempty" validate:"omitempty,url,max=500"`
	Technologies []string `json:"technologies,omitempty" validate:"max=30,dive,max=50"`
	Featured     bool     `json:"featured"`
	Published    bool     `json:"published"`
	SortOrder    int      `json:"sortOrder"`
}

type UpdatePortfolioItemRequest struct {
	Title        string   `json:"title" validate:"required,max=200"`
	Summary      string   `json:"summary,omitempty" validate:"max=500"`
	Description  string   `json:"description,omitempty"`
	ClientName   string   `json:"clientName,omitempty" validate:"max=200"`
	ProjectURL   string   `json:"projectUrl,omitempty" validate:"omitempty,url,max=500"`
	Technologies []string `json:"technologies,omitempty" validate:"max=30,dive,max=50"`
	Featured     bool     `json:"featured"`
	Published    bool     `json:"published"`
	SortOrder    int      `json:"sortOrder"`
}

// IssueTokenRequest asks for a staff bearer token
type IssueTokenRequest struct {
	Subject string   `json:"subject" validate:"required,max=100"`
	Name    string   `json:"name" validate:"required,max=200"`
	Email   string   `json:"email" validate:"required,email"`
	Roles   []string `json:"roles" validate:"required,min=1,dive,oneof=admin staff"`
}

// TokenResponse carries an issued staff token
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ExpiresAt   string `json:"expiresAt"`
}
