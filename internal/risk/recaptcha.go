package risk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultEndpoint = "https://recaptchaenterprise.googleapis.com"

// RecaptchaProvider scores tokens through the reCAPTCHA Enterprise
// assessment API.
type RecaptchaProvider struct {
	projectID string
	siteKey   string
	apiKey    string
	endpoint  string
	client    *http.Client
}

func NewRecaptchaProvider(projectID, siteKey, apiKey string) *RecaptchaProvider {
	return &RecaptchaProvider{
		projectID: projectID,
		siteKey:   siteKey,
		apiKey:    apiKey,
		endpoint:  defaultEndpoint,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

type assessmentRequest struct {
	Event struct {
		Token          string `json:"token"`
		SiteKey        string `json:"siteKey"`
		ExpectedAction string `json:"expectedAction"`
	} `json:"event"`
}

type assessmentResponse struct {
	RiskAnalysis struct {
		Score float64 `json:"score"`
	} `json:"riskAnalysis"`
	TokenProperties struct {
		Valid  bool   `json:"valid"`
		Action string `json:"action"`
	} `json:"tokenProperties"`
}

// Assess submits the token for assessment and returns the risk score.
// An invalid or replayed token scores 0.0 rather than erroring, so the
// caller's BLOCK branch handles it like any other low score.
func (p *RecaptchaProvider) Assess(ctx context.Context, token, action string) (float64, error) {
	var reqBody assessmentRequest
	reqBody.Event.Token = token
	reqBody.Event.SiteKey = p.siteKey
	reqBody.Event.ExpectedAction = action

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return 0, fmt.Errorf("%w: encode request: %v", ErrAssessmentFailed, err)
	}

	url := fmt.Sprintf("%s/v1/projects/%s/assessments?key=%s", p.endpoint, p.projectID, p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("%w: build request: %v", ErrAssessmentFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrAssessmentFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: assessment endpoint returned %d", ErrAssessmentFailed, resp.StatusCode)
	}

	var result assessmentResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("%w: decode response: %v", ErrAssessmentFailed, err)
	}

	if !result.TokenProperties.Valid || result.TokenProperties.Action != action {
		return 0, nil
	}

	return result.RiskAnalysis.Score, nil
}
