package risk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newAssessmentServer(t *testing.T, handler http.HandlerFunc) *RecaptchaProvider {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p := NewRecaptchaProvider("test-project", "site-key", "api-key")
	p.endpoint = srv.URL
	return p
}

func TestRecaptchaAssess(t *testing.T) {
	t.Run("returns the risk analysis score", func(t *testing.T) {
		p := newAssessmentServer(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Contains(t, r.URL.Path, "/v1/projects/test-project/assessments")

			var req assessmentRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Equal(t, "client-token", req.Event.Token)
			require.Equal(t, "LOGIN", req.Event.ExpectedAction)

			var resp assessmentResponse
			resp.RiskAnalysis.Score = 0.9
			resp.TokenProperties.Valid = true
			resp.TokenProperties.Action = "LOGIN"
			_ = json.NewEncoder(w).Encode(resp)
		})

		score, err := p.Assess(context.Background(), "client-token", "LOGIN")
		require.NoError(t, err)
		require.InDelta(t, 0.9, score, 1e-9)
	})

	t.Run("invalid token scores zero without error", func(t *testing.T) {
		p := newAssessmentServer(t, func(w http.ResponseWriter, r *http.Request) {
			var resp assessmentResponse
			resp.RiskAnalysis.Score = 0.8
			resp.TokenProperties.Valid = false
			_ = json.NewEncoder(w).Encode(resp)
		})

		score, err := p.Assess(context.Background(), "stale-token", "LOGIN")
		require.NoError(t, err)
		require.Zero(t, score)
	})

	t.Run("action mismatch scores zero", func(t *testing.T) {
		p := newAssessmentServer(t, func(w http.ResponseWriter, r *http.Request) {
			var resp assessmentResponse
			resp.RiskAnalysis.Score = 0.8
			resp.TokenProperties.Valid = true
			resp.TokenProperties.Action = "CHECKOUT"
			_ = json.NewEncoder(w).Encode(resp)
		})

		score, err := p.Assess(context.Background(), "token", "LOGIN")
		require.NoError(t, err)
		require.Zero(t, score)
	})

	t.Run("upstream failure surfaces ErrAssessmentFailed", func(t *testing.T) {
		p := newAssessmentServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := p.Assess(context.Background(), "token", "LOGIN")
		require.ErrorIs(t, err, ErrAssessmentFailed)
	})
}

func TestNewProvider(t *testing.T) {
	t.Parallel()

	p, err := NewProvider(Config{Vendor: "static", StaticScore: 0.5})
	require.NoError(t, err)

	score, err := p.Assess(context.Background(), "anything", "LOGIN")
	require.NoError(t, err)
	require.InDelta(t, 0.5, score, 1e-9)

	_, err = NewProvider(Config{Vendor: "akismet"})
	require.Error(t, err)
}
