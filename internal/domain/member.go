package domain

import (
	"strings"
	"time"
)

// MemberStatus is derived at read time from lifecycle fields, never persisted.
type MemberStatus string

const (
	MemberStatusActive      MemberStatus = "active"
	MemberStatusInactive    MemberStatus = "inactive"
	MemberStatusDeactivated MemberStatus = "deactivated"
)

// InactivityWindow is how long a member may go without logging in before
// being derived as inactive.
const InactivityWindow = 7 * 24 * time.Hour

// Member is the domain model for registered church members.
type Member struct {
	ID           string
	MemberID     string
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	PasswordHash string
	Gender       string
	Birthdate    string
	Branch       string
	Position     string
	IsVerified   bool
	IsDeleted    bool
	LastLoginAt  *time.Time
	DeletedAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName joins first and last name for display purposes.
func (m *Member) FullName() string {
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

// DisplayMemberID returns the stored member ID, or a deterministic fallback
// derived from the record's storage identifier.
func (m *Member) DisplayMemberID() string {
	if m.MemberID != "" {
		return m.MemberID
	}
	return DeriveMemberID(m.ID)
}

// DeriveMemberID builds a stable synthetic member ID from a storage UUID.
func DeriveMemberID(id string) string {
	cleaned := strings.ReplaceAll(id, "-", "")
	if len(cleaned) > 6 {
		cleaned = cleaned[len(cleaned)-6:]
	}
	return "FW-" + strings.ToUpper(cleaned)
}

// DeriveStatus computes the member status from lifecycle fields.
// Deactivated dominates inactive, inactive dominates active.
func DeriveStatus(isDeleted bool, lastLoginAt *time.Time, now time.Time) MemberStatus {
	if isDeleted {
		return MemberStatusDeactivated
	}
	if lastLoginAt == nil || now.Sub(*lastLoginAt) > InactivityWindow {
		return MemberStatusInactive
	}
	return MemberStatusActive
}

// MemberStats aggregates counts for the admin console. Total reflects the
// search/branch-matched population before any status filter is applied.
type MemberStats struct {
	Total        int `json:"total"`
	Active       int `json:"active"`
	Inactive     int `json:"inactive"`
	Deactivated  int `json:"deactivated"`
	NewThisMonth int `json:"newThisMonth"`
}

// SameCalendarMonth reports whether t falls in the same calendar month and
// year as now. Comparison is in now's location (server-local).
func SameCalendarMonth(t, now time.Time) bool {
	t = t.In(now.Location())
	return t.Year() == now.Year() && t.Month() == now.Month()
}
