package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates the resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates authentication failed or missing
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the user lacks permission for this action
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidURL indicates the URL could not be parsed or uses an
	// unsupported scheme
	ErrInvalidURL = errors.New("invalid url")

	// ErrBlockedURL indicates the URL resolves to a private, loopback,
	// or otherwise non-routable address and must not be fetched
	ErrBlockedURL = errors.New("blocked url")

	// ErrDuplicateSource indicates the user already ingested this URL
	ErrDuplicateSource = errors.New("duplicate source url")

	// ErrQuotaExceeded indicates the document quota is exhausted
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrRateLimited indicates too many crawl jobs in the trailing window
	ErrRateLimited = errors.New("rate limited")

	// ErrPlanDenied indicates the billing plan does not allow imports
	ErrPlanDenied = errors.New("plan does not allow imports")

	// ErrMissingCredentials indicates no embedding credentials are
	// configured for the user or the deployment
	ErrMissingCredentials = errors.New("missing embedding credentials")

	// ErrTokenExpired indicates the auth token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid indicates the auth token is malformed or invalid
	ErrTokenInvalid = errors.New("token invalid")

	// ErrInvalidProvider indicates an unknown embedding provider was specified
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrServiceUnavailable indicates the embedding service could not be reached
	ErrServiceUnavailable = errors.New("service unavailable")
)
