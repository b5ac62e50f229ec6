package model

import (
	"errors"
	"fmt"
)

var (
	ErrNoConnectedAccount   = errors.New("no connected account")
	ErrNoRefreshToken       = errors.New("no refresh token available")
	ErrMediaRequired        = errors.New("posts require at least one media url")
	ErrNotImplemented       = errors.New("publishing not implemented")
	ErrInvalidState         = errors.New("invalid oauth state parameter")
	ErrPlatformMismatch     = errors.New("oauth state platform mismatch")
	ErrPostNotFound         = errors.New("post not found")
	ErrPostAlreadyPublished = errors.New("post is already published")
	ErrAccountNotFound      = errors.New("social account not found")
)

// TokenExchangeError carries the platform's raw error body from a failed
// authorization_code grant.
type TokenExchangeError struct {
	Platform Platform
	Body     string
	Err      error
}

func (e *TokenExchangeError) Error() string {
	return fmt.Sprintf("%s token exchange failed: %s", e.Platform, e.Body)
}

func (e *TokenExchangeError) Unwrap() error { return e.Err }

// RefreshFailedError carries the platform's raw error body from a failed
// refresh_token grant.
type RefreshFailedError struct {
	Platform Platform
	Body     string
	Err      error
}

func (e *RefreshFailedError) Error() string {
	return fmt.Sprintf("%s token refresh failed: %s", e.Platform, e.Body)
}

func (e *RefreshFailedError) Unwrap() error { return e.Err }

// ProfileFetchError carries the platform's raw error body from a failed
// profile lookup.
type ProfileFetchError struct {
	Platform Platform
	Status   int
	Body     string
}

func (e *ProfileFetchError) Error() string {
	return fmt.Sprintf("%s profile fetch failed (%d): %s", e.Platform, e.Status, e.Body)
}

// PlatformAPIError is a non-2xx response from a platform publish endpoint,
// kept verbatim for the audit trail.
type PlatformAPIError struct {
	Platform Platform
	Status   int
	Body     string
}

func (e *PlatformAPIError) Error() string {
	return fmt.Sprintf("%s API error (%d): %s", e.Platform, e.Status, e.Body)
}
