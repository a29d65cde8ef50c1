package dto

import (
	"time"

	"github.com/spec-kit/member-portal/internal/domain"
)

// RegisterRequest payload for new members.
type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phoneNumber"`
	Password  string `json:"password"`
	Gender    string `json:"gender"`
	Birthdate string `json:"birthdate"`
	Branch    string `json:"branch"`
	Position  string `json:"position"`
}

// LoginRequest payload for password login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// EmailRequest payload for endpoints keyed by email only.
type EmailRequest struct {
	Email string `json:"email"`
}

// OTPRequest payload for code verification and resends.
type OTPRequest struct {
	Email   string `json:"email"`
	Code    string `json:"otp"`
	Purpose string `json:"type"`
}

// ResetPasswordRequest payload for the final reset step.
type ResetPasswordRequest struct {
	Email       string `json:"email"`
	Code        string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

// ChangePasswordRequest payload for authenticated password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// DeleteAccountRequest payload re-proving ownership before soft delete.
type DeleteAccountRequest struct {
	Password string `json:"password"`
}

// UpdateProfileRequest carries partial profile updates. Gender and birthdate
// may appear in the payload but are never applied.
type UpdateProfileRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Phone     *string `json:"phoneNumber"`
	Branch    *string `json:"branch"`
	Position  *string `json:"position"`
	Gender    *string `json:"gender"`
	Birthdate *string `json:"birthdate"`
}

// SessionResponse standard response for authenticated logins.
type SessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// MemberView is the sanitized member representation; the password hash never
// leaves the service.
type MemberView struct {
	ID          string     `json:"id"`
	MemberID    string     `json:"memberId"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	FullName    string     `json:"fullName"`
	Email       string     `json:"email"`
	Phone       string     `json:"phoneNumber"`
	Gender      string     `json:"gender"`
	Birthdate   string     `json:"birthdate"`
	Branch      string     `json:"branch"`
	Position    string     `json:"position"`
	IsVerified  bool       `json:"isVerified"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// NewMemberView builds the sanitized view.
func NewMemberView(m *domain.Member) MemberView {
	return MemberView{
		ID:          m.ID,
		MemberID:    m.DisplayMemberID(),
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		FullName:    m.FullName(),
		Email:       m.Email,
		Phone:       m.Phone,
		Gender:      m.Gender,
		Birthdate:   m.Birthdate,
		Branch:      m.Branch,
		Position:    m.Position,
		IsVerified:  m.IsVerified,
		LastLoginAt: m.LastLoginAt,
		CreatedAt:   m.CreatedAt,
	}
}
