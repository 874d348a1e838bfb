package domain

// Outcome is the result of an authentication attempt. Bad credentials never
// say whether the identifier existed.
type Outcome int

const (
	OutcomeBadCredentials Outcome = iota
	OutcomeAuthenticated
	OutcomeAccountLocked
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAuthenticated:
		return "AUTHENTICATED"
	case OutcomeAccountLocked:
		return "ACCOUNT_LOCKED"
	default:
		return "REJECTED_BAD_CREDENTIALS"
	}
}
