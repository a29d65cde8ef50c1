package dto

import (
	"time"

	"github.com/spec-kit/member-portal/internal/domain"
)

// AdminLoginRequest payload for console login.
type AdminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminMemberView is a member row in the console listing, carrying the
// derived status.
type AdminMemberView struct {
	MemberView
	Status domain.MemberStatus `json:"status"`
}

// MemberListResponse bundles listing rows with aggregate stats.
type MemberListResponse struct {
	Members []AdminMemberView  `json:"members"`
	Stats   domain.MemberStats `json:"stats"`
}

// AdminView is the sanitized admin representation.
type AdminView struct {
	ID        string           `json:"id"`
	Email     string           `json:"email"`
	Role      domain.AdminRole `json:"role"`
	CreatedAt time.Time        `json:"createdAt"`
}

// NewAdminView builds the sanitized view.
func NewAdminView(a *domain.Admin) AdminView {
	return AdminView{ID: a.ID, Email: a.Email, Role: a.Role, CreatedAt: a.CreatedAt}
}
