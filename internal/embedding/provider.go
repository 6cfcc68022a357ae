// Package embedding converts text into fixed-dimension vectors for
// similarity retrieval. Two interchangeable providers exist: an in-process
// hashing model and the remote Gemini embeddings API. The variant is
// selected once at startup; callers depend only on the Provider interface.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/googleapi"

	"document-chat-platform/internal/ai"
)

// Provider converts text into fixed-dimension numeric vectors.
type Provider interface {
	Name() string
	Dimension() int
	EmbedOne(ctx context.Context, text string) ([]float32, error)
	EmbedMany(ctx context.Context, texts []string) ([][]float32, error)
}

// Reason classifies why the embedding provider is unavailable. It drives
// user-facing messaging on the upload path.
type Reason string

const (
	ReasonQuota       Reason = "quota"
	ReasonRateLimit   Reason = "rate_limit"
	ReasonUnreachable Reason = "unreachable"
)

// Unavailable is the typed failure for an unreachable, rate-limited or
// over-quota provider. Providers never return zero-vectors on failure.
type Unavailable struct {
	Reason Reason
	Err    error
}

func (e *Unavailable) Error() string {
	return fmt.Sprintf("embedding provider unavailable (%s): %v", e.Reason, e.Err)
}

func (e *Unavailable) Unwrap() error { return e.Err }

// AsUnavailable reports whether err carries an Unavailable failure.
func AsUnavailable(err error) (*Unavailable, bool) {
	var u *Unavailable
	if errors.As(err, &u) {
		return u, true
	}
	return nil, false
}

// classify wraps a provider error as Unavailable with a reason taken from
// the provider's structured error where one exists. The googleapi status
// code is authoritative; the message is only consulted to separate quota
// exhaustion from transient rate limiting, both of which Google reports
// as HTTP 429.
func classify(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 429 && strings.Contains(strings.ToLower(apiErr.Message), "quota"):
			return &Unavailable{Reason: ReasonQuota, Err: err}
		case apiErr.Code == 429:
			return &Unavailable{Reason: ReasonRateLimit, Err: err}
		case apiErr.Code >= 500:
			return &Unavailable{Reason: ReasonUnreachable, Err: err}
		}
	}
	if errors.Is(err, ai.ErrModelUnavailable) {
		return &Unavailable{Reason: ReasonUnreachable, Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	return &Unavailable{Reason: ReasonUnreachable, Err: err}
}
