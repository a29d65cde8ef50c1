package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// OTPLength is the fixed width of generated one-time codes.
const OTPLength = 6

// GenerateOTP returns a random six digit numeric code.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
