package domain

import "time"

// OTPPurpose tags what a one-time code authorizes.
type OTPPurpose string

const (
	OTPPurposeRegistration  OTPPurpose = "registration"
	OTPPurposeLogin         OTPPurpose = "login"
	OTPPurposePasswordReset OTPPurpose = "password_reset"
)

// ValidOTPPurpose reports whether p is a known purpose tag.
func ValidOTPPurpose(p OTPPurpose) bool {
	switch p {
	case OTPPurposeRegistration, OTPPurposeLogin, OTPPurposePasswordReset:
		return true
	}
	return false
}

// OTPRecord is a transient one-time code keyed by (email, purpose).
// At most one live record exists per key; issuing replaces prior codes.
type OTPRecord struct {
	ID        string
	Email     string
	Purpose   OTPPurpose
	Code      string
	ExpiresAt time.Time
	CreatedAt time.Time
}
