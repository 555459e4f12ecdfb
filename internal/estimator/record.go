package estimator

import (
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidRequest is the single signal for input the estimator cannot default around
var ErrInvalidRequest = errors.New("invalid quote request")

// QuoteValidity is how long an assembled quote stays open
const QuoteValidity = 30 * 24 * time.Hour

const tokenPrefix = "QT"

// NewToken returns an opaque quote token combining a millisecond timestamp and a short random
// suffix. It is unique with overwhelming probability but not unguessable; collisions surface
// as a uniqueness violation in storage.
func NewToken(now time.Time) string {
	id := uuid.New()
	suffix := strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
	return fmt.Sprintf("%s-%s-%s", tokenPrefix, strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36)), suffix)
}

// ClientContact identifies who asked for the quote
type ClientContact struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company,omitempty"`
}

// Record is the persisted shape of one quote
type Record struct {
	Token     string         `json:"token"`
	Client    ClientContact  `json:"client"`
	Request   ProjectRequest `json:"request"`
	Breakdown QuoteBreakdown `json:"breakdown"`
	CreatedAt time.Time      `json:"createdAt"`
	ExpiresAt time.Time      `json:"expiresAt"`
}

// AssembleRecord merges the request and its breakdown into a record. It computes nothing
// beyond the expiry timestamp and only rejects a request without client name or e-mail.
func AssembleRecord(token string, client ClientContact, req ProjectRequest, breakdown *QuoteBreakdown, createdAt time.Time) (*Record, error) {
	client.Name = strings.TrimSpace(client.Name)
	client.Email = strings.TrimSpace(client.Email)
	client.Phone = strings.TrimSpace(client.Phone)
	client.Company = strings.TrimSpace(client.Company)

	if client.Name == "" {
		return nil, fmt.Errorf("%w: client name is required", ErrInvalidRequest)
	}
	if client.Email == "" {
		return nil, fmt.Errorf("%w: client email is required", ErrInvalidRequest)
	}
	if _, err := mail.ParseAddress(client.Email); err != nil {
		return nil, fmt.Errorf("%w: client email is not valid", ErrInvalidRequest)
	}
	if breakdown == nil {
		return nil, fmt.Errorf("%w: missing breakdown", ErrInvalidRequest)
	}
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("%w: missing token", ErrInvalidRequest)
	}

	req = req.Normalize()
	if req.ClientName == "" {
		req.ClientName = client.Name
	}

	return &Record{
		Token:     token,
		Client:    client,
		Request:   req,
		Breakdown: *breakdown,
		CreatedAt: createdAt,
		ExpiresAt: createdAt.Add(QuoteValidity),
	}, nil
}
