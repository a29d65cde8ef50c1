package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/member-portal/internal/auth"
	"github.com/spec-kit/member-portal/internal/config"
	"github.com/spec-kit/member-portal/internal/domain"
	"github.com/spec-kit/member-portal/internal/events"
	"github.com/spec-kit/member-portal/internal/repository"
	apperrors "github.com/spec-kit/member-portal/pkg/util"
)

// SendLimiter throttles one-time code issuance.
type SendLimiter interface {
	Allow(ctx context.Context, email string, purpose domain.OTPPurpose) bool
}

// AuthService coordinates registration, login, OTP and password flows.
type AuthService struct {
	members    repository.MemberRepository
	otps       repository.OTPRepository
	notifier   Notifier
	limiter    SendLimiter
	dispatcher events.Dispatcher
	tokenMgr   *auth.TokenManager
	logger     *zap.Logger
	bcryptCost int
	strictPwd  bool
	otpCfg     config.OTPConfig
	now        func() time.Time
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	MemberRepo repository.MemberRepository
	OTPRepo    repository.OTPRepository
	Notifier   Notifier
	Limiter    SendLimiter
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		members:    deps.MemberRepo,
		otps:       deps.OTPRepo,
		notifier:   deps.Notifier,
		limiter:    deps.Limiter,
		dispatcher: deps.Dispatcher,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTLMinutes),
		logger:     deps.Logger,
		bcryptCost: cfg.Auth.BcryptCost,
		strictPwd:  cfg.Auth.StrictPasswordMode,
		otpCfg:     cfg.OTP,
		now:        time.Now,
	}
}

// RegisterInput carries the registration payload.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Password  string
	Gender    string
	Birthdate string
	Branch    string
	Position  string
}

// Session pairs a signed token with its expiry.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// NormalizeEmail lowercases and trims an identity email.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an unverified member and dispatches a registration code.
// The member record persists even when the code cannot be delivered; that
// partial success is surfaced as NOTIFICATION_FAILED so the caller can resend.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.Member, error) {
	email := NormalizeEmail(input.Email)
	if input.FirstName == "" || input.LastName == "" || email == "" || input.Phone == "" {
		return nil, apperrors.NewValidationError("first name, last name, email and phone are required", nil)
	}
	if !strings.Contains(email, "@") {
		return nil, apperrors.NewValidationError("invalid email address", nil)
	}
	if err := auth.ValidatePassword(input.Password, s.strictPwd); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	member := &domain.Member{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        email,
		Phone:        strings.TrimSpace(input.Phone),
		PasswordHash: hash,
		Gender:       input.Gender,
		Birthdate:    input.Birthdate,
		Branch:       input.Branch,
		Position:     input.Position,
	}
	if err := s.members.Create(ctx, member); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.NewDuplicateIdentity("email or phone number already registered")
		}
		return nil, apperrors.NewStoreUnavailable(err)
	}

	s.publish(events.EventMemberRegistered, email, events.MemberRegisteredPayload{
		MemberID: member.DisplayMemberID(),
		Branch:   member.Branch,
	})

	if err := s.issueOTP(ctx, email, domain.OTPPurposeRegistration); err != nil {
		return member, err
	}
	return member, nil
}

// CheckEmail reports whether an email is already claimed. Used by the signup
// form; deliberately an existence oracle, scoped to registration UX.
func (s *AuthService) CheckEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.members.GetByEmail(ctx, NormalizeEmail(email))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	return false, apperrors.NewStoreUnavailable(err)
}

// Login authenticates a member with email and password and mints a session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Member, *Session, error) {
	member, err := s.members.GetByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, apperrors.NewInvalidCredentials()
	}
	if err != nil {
		return nil, nil, apperrors.NewStoreUnavailable(err)
	}
	if member.IsDeleted {
		return nil, nil, apperrors.NewAccountDeleted()
	}
	if !member.IsVerified {
		return nil, nil, apperrors.NewEmailNotVerified()
	}
	if err := auth.ComparePassword(member.PasswordHash, password); err != nil {
		return nil, nil, apperrors.NewInvalidCredentials()
	}

	now := s.now()
	if err := s.members.UpdateLastLogin(ctx, member.ID, now); err != nil {
		return nil, nil, apperrors.NewStoreUnavailable(err)
	}
	member.LastLoginAt = &now

	session, err := s.newSession(member.ID, domain.SubjectTypeMember)
	if err != nil {
		return nil, nil, err
	}
	return member, session, nil
}

// RequestLoginOTP issues a login-purpose code for passwordless sign-in.
func (s *AuthService) RequestLoginOTP(ctx context.Context, email string) error {
	member, err := s.lookupMember(ctx, email)
	if err != nil {
		return err
	}
	if member.IsDeleted {
		return apperrors.NewAccountDeleted()
	}
	if !member.IsVerified {
		return apperrors.NewEmailNotVerified()
	}
	return s.issueOTP(ctx, member.Email, domain.OTPPurposeLogin)
}

// VerifyResult reports the outcome of an OTP check. Member and Session are
// populated only for login-purpose verification.
type VerifyResult struct {
	Member  *domain.Member
	Session *Session
}

// VerifyOTP checks a code against the ledger. Wrong and expired codes are
// indistinguishable to the caller.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string, purpose domain.OTPPurpose) (*VerifyResult, error) {
	email = NormalizeEmail(email)
	if email == "" || code == "" {
		return nil, apperrors.NewValidationError("email and code are required", nil)
	}
	if !domain.ValidOTPPurpose(purpose) {
		return nil, apperrors.NewValidationError("unknown code purpose", nil)
	}

	if _, err := s.otps.GetLive(ctx, email, code, purpose, s.now()); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInvalidOrExpiredCode()
		}
		return nil, apperrors.NewStoreUnavailable(err)
	}

	switch purpose {
	case domain.OTPPurposeRegistration:
		if err := s.members.SetVerified(ctx, email); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewInvalidOrExpiredCode()
			}
			return nil, apperrors.NewStoreUnavailable(err)
		}
		if err := s.otps.Delete(ctx, email, purpose); err != nil {
			return nil, apperrors.NewStoreUnavailable(err)
		}
		s.publish(events.EventMemberVerified, email, nil)
		return &VerifyResult{}, nil

	case domain.OTPPurposeLogin:
		member, err := s.members.GetByEmail(ctx, email)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInvalidOrExpiredCode()
		}
		if err != nil {
			return nil, apperrors.NewStoreUnavailable(err)
		}
		if member.IsDeleted {
			return nil, apperrors.NewAccountDeleted()
		}
		// A login code must never mint a session for an unverified account,
		// no matter how the code was issued.
		if !member.IsVerified {
			return nil, apperrors.NewEmailNotVerified()
		}
		now := s.now()
		if err := s.members.UpdateLastLogin(ctx, member.ID, now); err != nil {
			return nil, apperrors.NewStoreUnavailable(err)
		}
		member.LastLoginAt = &now
		if err := s.otps.Delete(ctx, email, purpose); err != nil {
			return nil, apperrors.NewStoreUnavailable(err)
		}
		session, err := s.newSession(member.ID, domain.SubjectTypeMember)
		if err != nil {
			return nil, err
		}
		return &VerifyResult{Member: member, Session: session}, nil

	default:
		// password_reset: the check is advisory for the UI. The code stays
		// live; ConfirmPasswordReset re-validates it at update time.
		return &VerifyResult{}, nil
	}
}

// ResendOTP replaces any live code for (email, purpose) with a fresh one.
// Only registration and login codes can be resent here; reset codes reissue
// through RequestPasswordReset, which never discloses whether the email exists.
func (s *AuthService) ResendOTP(ctx context.Context, email string, purpose domain.OTPPurpose) error {
	switch purpose {
	case domain.OTPPurposeRegistration, domain.OTPPurposeLogin:
	default:
		return apperrors.NewValidationError("codes of this type cannot be resent", nil)
	}
	member, err := s.lookupMember(ctx, email)
	if err != nil {
		return err
	}
	if member.IsDeleted {
		return apperrors.NewAccountDeleted()
	}
	if purpose == domain.OTPPurposeRegistration && member.IsVerified {
		return apperrors.NewAlreadyVerified()
	}
	if purpose == domain.OTPPurposeLogin && !member.IsVerified {
		return apperrors.NewEmailNotVerified()
	}
	return s.issueOTP(ctx, member.Email, purpose)
}

// RequestPasswordReset issues a reset code when the email is known. Unknown
// identities succeed silently; this endpoint never discloses existence, so
// even delivery failures are logged rather than surfaced.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	member, err := s.members.GetByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return apperrors.NewStoreUnavailable(err)
	}
	if member.IsDeleted {
		return nil
	}
	if err := s.issueOTP(ctx, member.Email, domain.OTPPurposePasswordReset); err != nil {
		s.logger.Warn("password reset code not delivered", zap.String("email", member.Email), zap.Error(err))
	}
	return nil
}

// ConfirmPasswordReset re-validates the reset code at the moment of update
// and replaces the stored hash. A prior VerifyOTP call is not trusted.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, email, code, newPassword string) error {
	email = NormalizeEmail(email)
	if err := auth.ValidatePassword(newPassword, s.strictPwd); err != nil {
		return err
	}

	if _, err := s.otps.GetLive(ctx, email, code, domain.OTPPurposePasswordReset, s.now()); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewInvalidOrExpiredCode()
		}
		return apperrors.NewStoreUnavailable(err)
	}

	member, err := s.members.GetByEmail(ctx, email)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewInvalidOrExpiredCode()
	}
	if err != nil {
		return apperrors.NewStoreUnavailable(err)
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := s.members.UpdatePassword(ctx, member.ID, hash); err != nil {
		return apperrors.NewStoreUnavailable(err)
	}
	if err := s.otps.Delete(ctx, email, domain.OTPPurposePasswordReset); err != nil {
		return apperrors.NewStoreUnavailable(err)
	}
	return nil
}

// ChangePassword verifies the current password before updating to a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, memberID, currentPassword, newPassword string) error {
	member, err := s.members.GetByID(ctx, memberID)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("member", nil)
	}
	if err != nil {
		return apperrors.NewStoreUnavailable(err)
	}
	if err := auth.ComparePassword(member.PasswordHash, currentPassword); err != nil {
		return apperrors.NewInvalidCredentials()
	}
	if err := auth.ValidatePassword(newPassword, s.strictPwd); err != nil {
		return err
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := s.members.UpdatePassword(ctx, member.ID, hash); err != nil {
		return apperrors.NewStoreUnavailable(err)
	}
	return nil
}

// DeleteAccount soft-deletes after re-proving ownership with the password.
// The identity stays claimed; only an admin can restore the record.
func (s *AuthService) DeleteAccount(ctx context.Context, memberID, password string) error {
	member, err := s.members.GetByID(ctx, memberID)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("member", nil)
	}
	if err != nil {
		return apperrors.NewStoreUnavailable(err)
	}
	if member.IsDeleted {
		return apperrors.NewAlreadyDeleted()
	}
	if err := auth.ComparePassword(member.PasswordHash, password); err != nil {
		return apperrors.NewInvalidCredentials()
	}

	now := s.now()
	member.IsDeleted = true
	member.DeletedAt = &now
	if err := s.members.Update(ctx, member); err != nil {
		return apperrors.NewStoreUnavailable(err)
	}

	s.publish(events.EventMemberDeleted, member.Email, events.MemberDeletedPayload{
		MemberID: member.DisplayMemberID(),
	})
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) lookupMember(ctx context.Context, email string) (*domain.Member, error) {
	member, err := s.members.GetByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound("member", nil)
	}
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}
	return member, nil
}

func (s *AuthService) issueOTP(ctx context.Context, email string, purpose domain.OTPPurpose) error {
	if s.limiter != nil && !s.limiter.Allow(ctx, email, purpose) {
		return apperrors.NewRateLimited("too many codes requested, try again later")
	}

	code, err := auth.GenerateOTP()
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	ttl := s.otpTTL(purpose)
	record := &domain.OTPRecord{
		Email:     email,
		Purpose:   purpose,
		Code:      code,
		ExpiresAt: s.now().Add(ttl),
	}
	if err := s.otps.Upsert(ctx, record); err != nil {
		return apperrors.NewStoreUnavailable(err)
	}
	if err := s.notifier.SendOTP(ctx, email, code, purpose, ttl); err != nil {
		return apperrors.NewNotificationFailed(err)
	}
	return nil
}

func (s *AuthService) otpTTL(purpose domain.OTPPurpose) time.Duration {
	switch purpose {
	case domain.OTPPurposeRegistration:
		return s.otpCfg.RegistrationTTL()
	case domain.OTPPurposeLogin:
		return s.otpCfg.LoginTTL()
	default:
		return s.otpCfg.ResetTTL()
	}
}

func (s *AuthService) newSession(subjectID string, subject domain.SubjectType) (*Session, error) {
	token, exp, err := s.tokenMgr.GenerateToken(subjectID, subject)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &Session{Token: token, ExpiresAt: exp}, nil
}

func (s *AuthService) publish(eventType events.EventType, email string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(context.Background(), events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Email:     email,
		Timestamp: s.now(),
		Payload:   payload,
	})
}
