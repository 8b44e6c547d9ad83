package repository

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const redacted = "REDACTED"

// ErrFetch matches every *FetchError via errors.Is.
var ErrFetch = errors.New("rate fetch failed")

type Kind string

const (
	KindTransport     Kind = "transport"
	KindHTTPStatus    Kind = "http_status"
	KindMalformedBody Kind = "malformed_body"
	KindApplication   Kind = "application"
)

// FetchError classifies a failed provider call.
type FetchError struct {
	Provider   string
	Kind       Kind
	StatusCode int
	// Code is the provider's own error code, set for KindApplication.
	Code string
	Err  error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case KindTransport:
		return fmt.Sprintf("%s: request failed: %v", e.Provider, e.Err)
	case KindHTTPStatus:
		return fmt.Sprintf("%s: API returned non-OK status: %d", e.Provider, e.StatusCode)
	case KindMalformedBody:
		return fmt.Sprintf("%s: malformed response body: %v", e.Provider, e.Err)
	case KindApplication:
		return fmt.Sprintf("%s: API reported failure: %s", e.Provider, e.Code)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func (e *FetchError) Is(target error) bool {
	return target == ErrFetch
}

// KindOf returns the classification of err, or "" when err is not a FetchError.
func KindOf(err error) Kind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

// redactURL masks every occurrence of secret in the URL of a *url.Error.
// Request URLs embed the credential, and both http.NewRequest and
// http.Client.Do report failures as *url.Error.
func redactURL(err error, secret string) error {
	ue, ok := err.(*url.Error)
	if !ok || secret == "" {
		return err
	}
	masked := ue.URL
	for _, form := range []string{secret, url.QueryEscape(secret), url.PathEscape(secret)} {
		masked = strings.ReplaceAll(masked, form, redacted)
	}
	return &url.Error{Op: ue.Op, URL: masked, Err: ue.Err}
}
