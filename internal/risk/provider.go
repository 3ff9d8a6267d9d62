// Package risk integrates external bot-likelihood scoring services behind
// a single Provider interface. The vendor is selected by configuration at
// startup, never at call time.
package risk

import (
	"context"
	"errors"
	"fmt"
)

// ErrAssessmentFailed reports that the scoring service rejected the
// request or was unreachable. Callers surface it as a generic server
// error, never retried in place.
var ErrAssessmentFailed = errors.New("risk: assessment failed")

// Provider scores a client-supplied risk token for a given action label
// (e.g. "LOGIN"). Scores range from 0.0 (likely abusive) to 1.0 (likely
// legitimate).
type Provider interface {
	Assess(ctx context.Context, token, action string) (float64, error)
}

// Config selects and parameterizes one provider implementation.
type Config struct {
	Vendor      string  // "recaptcha" or "static"
	ProjectID   string  // recaptcha: Google Cloud project id
	SiteKey     string  // recaptcha: site key the client tokens belong to
	APIKey      string  // recaptcha: API key for the assessment endpoint
	StaticScore float64 // static: fixed score, dev and test only
}

// NewProvider builds the configured vendor implementation.
func NewProvider(cfg Config) (Provider, error) {
	switch cfg.Vendor {
	case "recaptcha":
		return NewRecaptchaProvider(cfg.ProjectID, cfg.SiteKey, cfg.APIKey), nil
	case "static":
		return StaticProvider{Score: cfg.StaticScore}, nil
	default:
		return nil, fmt.Errorf("risk: unknown provider vendor %q", cfg.Vendor)
	}
}

// StaticProvider returns a fixed score regardless of input. Useful for
// development environments without a scoring account.
type StaticProvider struct {
	Score float64
}

func (p StaticProvider) Assess(_ context.Context, _, _ string) (float64, error) {
	return p.Score, nil
}
