package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/spec-kit/member-portal/internal/domain"
)

func TestNewOTPSendLimiterDisabled(t *testing.T) {
	limiter := NewOTPSendLimiter(nil, 0, time.Minute, zap.NewNop())
	assert.Nil(t, limiter)
}

func TestAllowNilLimiterFailsOpen(t *testing.T) {
	var limiter *OTPSendLimiter
	assert.True(t, limiter.Allow(context.Background(), "x@y.com", domain.OTPPurposeLogin))
}

func TestAllowNilClientFailsOpen(t *testing.T) {
	limiter := NewOTPSendLimiter(nil, 5, time.Minute, zap.NewNop())
	assert.True(t, limiter.Allow(context.Background(), "x@y.com", domain.OTPPurposeLogin))
}
