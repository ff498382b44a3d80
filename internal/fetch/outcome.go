// Package fetch implements the resilient request layer: normalized request
// signatures, a bounded-TTL cache, and a retrying fetcher that routes every
// upstream call through the security policy guard.
package fetch

import (
	"errors"
	"net/http"
)

var (
	// ErrMissingCredential marks an adapter that cannot call its upstream
	// because no API key is configured. The fallback orchestrator treats
	// this as a deterministic trigger for the secondary source.
	ErrMissingCredential = errors.New("missing credential")

	// ErrRetriesExhausted wraps the last retryable failure once the attempt
	// budget is spent.
	ErrRetriesExhausted = errors.New("retries exhausted")

	// ErrPolicyDenied wraps a security guard denial.
	ErrPolicyDenied = errors.New("request denied by policy")
)

// Class tags a fetch outcome. Only ClassRetryable triggers another attempt.
type Class int

const (
	ClassSuccess Class = iota
	ClassRetryable
	ClassFatal
)

// String returns the class name for logging.
func (c Class) String() string {
	switch c {
	case ClassSuccess:
		return "success"
	case ClassRetryable:
		return "retryable_failure"
	case ClassFatal:
		return "fatal_failure"
	default:
		return "unknown"
	}
}

// Outcome is the tagged result of a fetch or a single producer attempt.
type Outcome struct {
	Class   Class
	Payload []byte
	Reason  string
	Err     error
}

// Success builds a successful outcome carrying the raw payload.
func Success(payload []byte) Outcome {
	return Outcome{Class: ClassSuccess, Payload: payload}
}

// Retryable builds a transient failure outcome.
func Retryable(reason string, err error) Outcome {
	return Outcome{Class: ClassRetryable, Reason: reason, Err: err}
}

// Fatal builds a definitive failure outcome.
func Fatal(reason string, err error) Outcome {
	return Outcome{Class: ClassFatal, Reason: reason, Err: err}
}

// ClassifyStatus maps an HTTP status code onto the outcome taxonomy:
// rate-limiting and 5xx responses are transient, all other non-2xx
// responses are definitive.
func ClassifyStatus(status int) Class {
	switch {
	case status >= 200 && status < 300:
		return ClassSuccess
	case status == http.StatusTooManyRequests || status >= 500:
		return ClassRetryable
	default:
		return ClassFatal
	}
}
