package domain

// RiskAction is the step the authentication flow must take based on the
// external risk score.
type RiskAction string

const (
	// RiskActionNone lets the login proceed to direct token issuance.
	RiskActionNone RiskAction = "NONE"
	// RiskActionMFARequired forces a second-factor challenge.
	RiskActionMFARequired RiskAction = "MFA_REQUIRED"
	// RiskActionBlock rejects the attempt with a generic credential error,
	// indistinguishable from a wrong password.
	RiskActionBlock RiskAction = "BLOCK"
)

// RiskVerdict is the classified outcome of a risk assessment.
type RiskVerdict struct {
	Score   float64
	Action  RiskAction
	Allowed bool
}
