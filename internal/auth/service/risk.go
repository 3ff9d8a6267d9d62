package service

import (
	"context"
	"fmt"

	"github.com/mcitys/mcitys-api/internal/auth/domain"
	"github.com/mcitys/mcitys-api/internal/risk"
)

// Default risk score thresholds. Scores run from 0.0 (almost certainly
// automated) to 1.0 (almost certainly human).
const (
	DefaultBlockBelow = 0.3
	DefaultAllowFrom  = 0.7
)

// RiskEvaluator turns a raw assessment score into a verdict: block the
// attempt outright, demand an MFA step up, or let it straight through.
type RiskEvaluator struct {
	Provider   risk.Provider
	BlockBelow float64
	AllowFrom  float64
}

func (e *RiskEvaluator) thresholds() (blockBelow, allowFrom float64) {
	blockBelow, allowFrom = e.BlockBelow, e.AllowFrom
	if blockBelow <= 0 {
		blockBelow = DefaultBlockBelow
	}
	if allowFrom <= 0 {
		allowFrom = DefaultAllowFrom
	}
	return blockBelow, allowFrom
}

// Evaluate assesses the client-supplied risk token for the given action
// and classifies the resulting score.
func (e *RiskEvaluator) Evaluate(ctx context.Context, token, action string) (domain.RiskVerdict, error) {
	score, err := e.Provider.Assess(ctx, token, action)
	if err != nil {
		return domain.RiskVerdict{}, fmt.Errorf("assess risk: %w", err)
	}

	blockBelow, allowFrom := e.thresholds()
	verdict := domain.RiskVerdict{Score: score}
	switch {
	case score < blockBelow:
		verdict.Action = domain.RiskActionBlock
	case score < allowFrom:
		verdict.Action = domain.RiskActionMFARequired
		verdict.Allowed = true
	default:
		verdict.Action = domain.RiskActionNone
		verdict.Allowed = true
	}
	return verdict, nil
}
