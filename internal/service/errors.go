package service

import (
	"errors"
	"fmt"
)

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when there's a conflict (e.g., duplicate)
	ErrConflict = errors.New("resource conflict")
)

// Resource specific errors. Each wraps one of the common errors so handlers can map them generically.
var (
	ErrQuoteNotFound         = fmt.Errorf("%w: quote", ErrNotFound)
	ErrClientNotFound        = fmt.Errorf("%w: client", ErrNotFound)
	ErrContactNotFound       = fmt.Errorf("%w: contact", ErrNotFound)
	ErrProjectNotFound       = fmt.Errorf("%w: project", ErrNotFound)
	ErrBlogPostNotFound      = fmt.Errorf("%w: blog post", ErrNotFound)
	ErrPortfolioItemNotFound = fmt.Errorf("%w: portfolio item", ErrNotFound)

	ErrClientEmailTaken = fmt.Errorf("%w: a client with this email already exists", ErrConflict)
	ErrSlugTaken        = fmt.Errorf("%w: slug already in use", ErrConflict)

	ErrUnsupportedMedia = fmt.Errorf("%w: unsupported image type", ErrInvalidInput)
)

// Quote lifecycle errors
var (
	// ErrQuoteExpired is returned when a client acts on a quote past its validity
	ErrQuoteExpired = errors.New("quote has expired")

	// ErrQuoteAlreadyDecided is returned when a quote was already accepted or declined
	ErrQuoteAlreadyDecided = errors.New("quote has already been accepted or declined")

	// ErrInvalidStatusTransition is returned for a project status change the workflow does not allow
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)
