package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/northlight-studio/agency-api/internal/estimator"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns an ID when none was set
func (b *BaseModel) BeforeCreate(_ *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// ClientStatus represents the lifecycle of a client
type ClientStatus string

const (
	ClientStatusLead     ClientStatus = "lead"
	ClientStatusActive   ClientStatus = "active"
	ClientStatusInactive ClientStatus = "inactive"
	ClientStatusArchived ClientStatus = "archived"
)

// IsValid checks if the ClientStatus is a valid enum value
func (s ClientStatus) IsValid() bool {
	switch s {
	case ClientStatusLead, ClientStatusActive, ClientStatusInactive, ClientStatusArchived:
		return true
	}
	return false
}

// ClientSource records how the client found the agency
type ClientSource string

const (
	ClientSourceWizard   ClientSource = "wizard"
	ClientSourceManual   ClientSource = "manual"
	ClientSourceReferral ClientSource = "referral"
)

// Client is a person or organization the agency works with
type Client struct {
	BaseModel
	Name     string       `gorm:"type:varchar(200);not null;index"`
	Company  string       `gorm:"type:varchar(200)"`
	Email    string       `gorm:"type:varchar(255);not null;uniqueIndex"`
	Phone    string       `gorm:"type:varchar(50)"`
	Website  string       `gorm:"type:varchar(500)"`
	Status   ClientStatus `gorm:"type:varchar(50);not null;default:'lead';index"`
	Source   ClientSource `gorm:"type:varchar(50);not null;default:'manual'"`
	Notes    string       `gorm:"type:text"`
	Contacts []Contact    `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE"`
	Projects []Project    `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE"`
}

// Contact is an individual person at a client
type Contact struct {
	BaseModel
	ClientID  *uuid.UUID `gorm:"type:uuid;index;column:client_id"`
	Client    *Client    `gorm:"foreignKey:ClientID"`
	FirstName string     `gorm:"type:varchar(100);not null;column:first_name"`
	LastName  string     `gorm:"type:varchar(100);not null;column:last_name"`
	Email     string     `gorm:"type:varchar(255);index"`
	Phone     string     `gorm:"type:varchar(50)"`
	Title     string     `gorm:"type:varchar(100)"`
	IsPrimary bool       `gorm:"not null;default:false;column:is_primary"`
	Notes     string     `gorm:"type:text"`
}

// FullName returns the contact's full name
func (c *Contact) FullName() string {
	return c.FirstName + " " + c.LastName
}

// ProjectStatus represents the delivery state of a project
type ProjectStatus string

const (
	ProjectStatusPlanning   ProjectStatus = "planning"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusReview     ProjectStatus = "review"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusOnHold     ProjectStatus = "on_hold"
	ProjectStatusCancelled  ProjectStatus = "cancelled"
)

var projectTransitions = map[ProjectStatus][]ProjectStatus{
	ProjectStatusPlanning:   {ProjectStatusInProgress, ProjectStatusOnHold, ProjectStatusCancelled},
	ProjectStatusInProgress: {ProjectStatusReview, ProjectStatusOnHold, ProjectStatusCancelled},
	ProjectStatusReview:     {ProjectStatusInProgress, ProjectStatusCompleted, ProjectStatusOnHold, ProjectStatusCancelled},
	ProjectStatusOnHold:     {ProjectStatusPlanning, ProjectStatusInProgress, ProjectStatusCancelled},
}

// IsValid checks if the ProjectStatus is a valid enum value
func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectStatusPlanning, ProjectStatusInProgress, ProjectStatusReview,
		ProjectStatusCompleted, ProjectStatusOnHold, ProjectStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether a project may move from s to next
func (s ProjectStatus) CanTransitionTo(next ProjectStatus) bool {
	for _, allowed := range projectTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Project is paid work for a client, usually created from an accepted quote
type Project struct {
	BaseModel
	Name        string        `gorm:"type:varchar(200);not null;index"`
	Description string        `gorm:"type:text"`
	ClientID    uuid.UUID     `gorm:"type:uuid;not null;index"`
	Client      *Client       `gorm:"foreignKey:ClientID"`
	QuoteID     *uuid.UUID    `gorm:"type:uuid;index"`
	Status      ProjectStatus `gorm:"type:varchar(50);not null;default:'planning';index"`
	Budget      int64         `gorm:"not null;default:0"`
	StartDate   *time.Time
	DueDate     *time.Time
	CompletedAt *time.Time
}

// QuoteStatus represents the client-facing state of a quote
type QuoteStatus string

const (
	QuoteStatusPending  QuoteStatus = "pending"
	QuoteStatusSent     QuoteStatus = "sent"
	QuoteStatusAccepted QuoteStatus = "accepted"
	QuoteStatusDeclined QuoteStatus = "declined"
	QuoteStatusExpired  QuoteStatus = "expired"
)

// IsOpen reports whether the client can still act on the quote
func (s QuoteStatus) IsOpen() bool {
	return s == QuoteStatusPending || s == QuoteStatusSent
}

// IsValid checks if the QuoteStatus is a valid enum value
func (s QuoteStatus) IsValid() bool {
	switch s {
	case QuoteStatusPending, QuoteStatusSent, QuoteStatusAccepted, QuoteStatusDeclined, QuoteStatusExpired:
		return true
	}
	return false
}

// Quote is the single persisted shape of an estimate, keyed by its public token
type Quote struct {
	BaseModel
	Token     string     `gorm:"type:varchar(64);not null;uniqueIndex"`
	ClientID  *uuid.UUID `gorm:"type:uuid;index"`
	Client    *Client    `gorm:"foreignKey:ClientID"`
	ProjectID *uuid.UUID `gorm:"type:uuid;index"`

	ClientName    string `gorm:"type:varchar(200);not null"`
	ClientEmail   string `gorm:"type:varchar(255);not null;index"`
	ClientPhone   string `gorm:"type:varchar(50)"`
	ClientCompany string `gorm:"type:varchar(200)"`

	ProjectType  string   `gorm:"type:varchar(50);not null"`
	Features     []string `gorm:"type:jsonb;serializer:json"`
	Timeline     string   `gorm:"type:varchar(50)"`
	BudgetRange  string   `gorm:"type:varchar(100)"`
	Requirements string   `gorm:"type:text"`

	Complexity          string                 `gorm:"type:varchar(20);not null;index"`
	Confidence          int                    `gorm:"not null"`
	ComplexityReasoning string                 `gorm:"type:text"`
	EstimatedHours      int                    `gorm:"not null"`
	HourlyRate          int64                  `gorm:"not null"`
	BasePrice           int64                  `gorm:"not null"`
	AdjustmentFactor    float64                `gorm:"type:decimal(6,4);not null"`
	Adjustments         []estimator.Adjustment `gorm:"type:jsonb;serializer:json"`
	TotalPrice          int64                  `gorm:"not null"`
	TimelineEstimate    string                 `gorm:"type:varchar(50)"`
	TimelineDays        int                    `gorm:"not null;default:0"`
	LineItems           []estimator.LineItem   `gorm:"type:jsonb;serializer:json"`
	Deliverables        []string               `gorm:"type:jsonb;serializer:json"`
	Risks               []string               `gorm:"type:jsonb;serializer:json"`
	Recommendations     []string               `gorm:"type:jsonb;serializer:json"`
	Assumptions         []string               `gorm:"type:jsonb;serializer:json"`
	Exclusions          []string               `gorm:"type:jsonb;serializer:json"`
	QuoteText           string                 `gorm:"type:text"`
	ProjectScope        string                 `gorm:"type:text"`
	ClassifierSource    string                 `gorm:"type:varchar(20)"`
	NarrativeSource     string                 `gorm:"type:varchar(20)"`

	Status     QuoteStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	ExpiresAt  time.Time   `gorm:"not null;index"`
	AcceptedAt *time.Time
	DeclinedAt *time.Time

	// DeclineReason is the optional note a client leaves when declining
	DeclineReason string `gorm:"type:text"`
}

// IsExpiredAt reports whether the quote validity has passed at the given time
func (q *Quote) IsExpiredAt(now time.Time) bool {
	return q.Status == QuoteStatusExpired || !now.Before(q.ExpiresAt)
}

// BlogPostStatus represents the publication state of a post
type BlogPostStatus string

const (
	BlogPostStatusDraft     BlogPostStatus = "draft"
	BlogPostStatusPublished BlogPostStatus = "published"
)

// BlogPost is an article on the marketing site
type BlogPost struct {
	BaseModel
	Title       string         `gorm:"type:varchar(200);not null"`
	Slug        string         `gorm:"type:varchar(220);not null;uniqueIndex"`
	Excerpt     string         `gorm:"type:varchar(500)"`
	Content     string         `gorm:"type:text;not null"`
	Author      string         `gorm:"type:varchar(200)"`
	Tags        []string       `gorm:"type:jsonb;serializer:json"`
	CoverImage  string         `gorm:"type:varchar(500)"`
	Status      BlogPostStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	PublishedAt *time.Time     `gorm:"index"`
}

// PortfolioItem is a showcased piece of past work
type PortfolioItem struct {
	BaseModel
	Title         string   `gorm:"type:varchar(200);not null"`
	Slug          string   `gorm:"type:varchar(220);not null;uniqueIndex"`
	Summary       string   `gorm:"type:varchar(500)"`
	Description   string   `gorm:"type:text"`
	ClientName    string   `gorm:"type:varchar(200)"`
	ProjectURL    string   `gorm:"type:varchar(500)"`
	Technologies  []string `gorm:"type:jsonb;serializer:json"`
	CoverImageKey string   `gorm:"type:varchar(500)"`
	Featured      bool     `gorm:"not null;default:false"`
	Published     bool     `gorm:"not null;default:false;index"`
	SortOrder     int      `gorm:"not null;default:0"`
}

// TableName overrides the default pluralisation
func (PortfolioItem) TableName() string {
	return "portfolio_items"
}
