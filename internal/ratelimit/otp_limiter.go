package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/member-portal/internal/domain"
)

// OTPSendLimiter throttles one-time code issuance per (email, purpose).
// Counters live in Redis so the budget survives process restarts. When Redis
// is unreachable the limiter fails open: delivery matters more than the
// throttle on an OTP path.
type OTPSendLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	logger *zap.Logger
}

// NewOTPSendLimiter builds a limiter allowing limit sends per window.
func NewOTPSendLimiter(client *redis.Client, limit int, window time.Duration, logger *zap.Logger) *OTPSendLimiter {
	if limit <= 0 {
		return nil
	}
	return &OTPSendLimiter{client: client, limit: limit, window: window, logger: logger}
}

// Allow reports whether another code may be sent to email for purpose.
func (l *OTPSendLimiter) Allow(ctx context.Context, email string, purpose domain.OTPPurpose) bool {
	if l == nil || l.client == nil {
		return true
	}

	key := fmt.Sprintf("otp_sends:%s:%s", purpose, email)
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		l.logger.Warn("otp throttle unavailable, failing open", zap.Error(err))
		return true
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			l.logger.Warn("otp throttle expire failed", zap.Error(err))
		}
	}
	return count <= int64(l.limit)
}
