package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"unicode/utf8"

	"google.golang.org/genai"
)

var (
	// ErrConfiguration reports a missing key or unknown provider; no call is made.
	ErrConfiguration = errors.New("ai configuration error")
	// ErrMessageGenerationFailed wraps the cause of a failed recruiter message.
	ErrMessageGenerationFailed = errors.New("message generation failed")
)

type ErrorKind string

const (
	KindAuth      ErrorKind = "auth"
	KindRateLimit ErrorKind = "rate_limit"
	KindOther     ErrorKind = "other"
)

type ProviderError struct {
	Kind       ErrorKind
	Provider   ProviderName
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s provider error (%s, status %d): %v", e.Provider, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s provider error (%s): %v", e.Provider, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// KindOf reports the provider error kind carried by err, if any.
func KindOf(err error) (ErrorKind, bool) {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind, true
	}
	return "", false
}

func kindFromStatus(status int) ErrorKind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindAuth
	case http.StatusTooManyRequests:
		return KindRateLimit
	default:
		return KindOther
	}
}

func newStatusError(provider ProviderName, status int, body string) *ProviderError {
	return &ProviderError{
		Kind:       kindFromStatus(status),
		Provider:   provider,
		StatusCode: status,
		Err:        fmt.Errorf("request failed: %s", truncateForLog(body, 200)),
	}
}

// classify turns any backend failure into a *ProviderError.
func classify(provider ProviderName, err error) error {
	if err == nil {
		return nil
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		if pe.Provider == "" {
			pe.Provider = provider
		}
		return pe
	}
	if errors.Is(err, ErrConfiguration) {
		return err
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &ProviderError{Kind: kindFromStatus(apiErr.Code), Provider: provider, StatusCode: apiErr.Code, Err: err}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return &ProviderError{Kind: kindFromStatus(apiErrPtr.Code), Provider: provider, StatusCode: apiErrPtr.Code, Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &ProviderError{Kind: KindOther, Provider: provider, Err: fmt.Errorf("timeout: %w", err)}
	}
	return &ProviderError{Kind: KindOther, Provider: provider, Err: err}
}

func truncateForLog(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + "..."
}
