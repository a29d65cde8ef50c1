package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/member-portal/pkg/util"
)

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("secret-pass", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "secret-pass", hash)

	assert.NoError(t, ComparePassword(hash, "secret-pass"))
	assert.Error(t, ComparePassword(hash, "wrong-pass"))
}

func TestValidatePasswordLength(t *testing.T) {
	assert.Error(t, ValidatePassword("short", false))
	assert.NoError(t, ValidatePassword("longenough", false))
}

func TestValidatePasswordStrict(t *testing.T) {
	cases := []struct {
		password string
		ok       bool
	}{
		{"Aa1!aaaa", true},
		{"alllower1!", false},
		{"ALLUPPER1!", false},
		{"NoDigits!", false},
		{"NoSpecial1", false},
	}
	for _, tc := range cases {
		err := ValidatePassword(tc.password, true)
		if tc.ok {
			assert.NoError(t, err, tc.password)
			continue
		}
		require.Error(t, err, tc.password)
		var derr *apperrors.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "VALIDATION_FAILED", derr.Code)
	}
}
