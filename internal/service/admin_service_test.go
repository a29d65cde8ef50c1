package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/member-portal/internal/auth"
	"github.com/spec-kit/member-portal/internal/config"
	"github.com/spec-kit/member-portal/internal/domain"
)

type adminFixture struct {
	svc     *AdminService
	admins  *fakeAdminRepo
	members *fakeMemberRepo
	otps    *fakeOTPRepo
	clock   *time.Time
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()

	admins := newFakeAdminRepo()
	members := newFakeMemberRepo()
	otps := newFakeOTPRepo()

	cfg := config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.SessionTTLMinutes = 60

	svc := NewAdminService(cfg, AdminDependencies{
		AdminRepo:  admins,
		MemberRepo: members,
		OTPRepo:    otps,
	})

	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	return &adminFixture{svc: svc, admins: admins, members: members, otps: otps, clock: &now}
}

// seedMember inserts a member directly with the given lifecycle shape.
func (f *adminFixture) seedMember(t *testing.T, email, branch string, deleted bool, lastLogin *time.Time, createdAt time.Time) *domain.Member {
	t.Helper()
	member := &domain.Member{
		FirstName:    "Test",
		LastName:     "Member",
		Email:        email,
		Phone:        "+233" + email,
		PasswordHash: "x",
		Branch:       branch,
		IsVerified:   true,
	}
	require.NoError(t, f.members.Create(context.Background(), member))
	stored := f.members.byID[member.ID]
	stored.IsDeleted = deleted
	stored.LastLoginAt = lastLogin
	stored.CreatedAt = createdAt
	return member
}

func (f *adminFixture) ptr(d time.Duration) *time.Time {
	at := f.clock.Add(d)
	return &at
}

func TestAdminLogin(t *testing.T) {
	f := newAdminFixture(t)

	hash, err := auth.HashPassword("consolepass", 4)
	require.NoError(t, err)
	require.NoError(t, f.admins.Create(context.Background(), &domain.Admin{
		Email:        "admin@faithly.local",
		PasswordHash: hash,
		Role:         domain.AdminRoleAdmin,
	}))

	admin, session, err := f.svc.Login(context.Background(), "admin@faithly.local", "consolepass")
	require.NoError(t, err)
	assert.Equal(t, domain.AdminRoleAdmin, admin.Role)
	assert.NotEmpty(t, session.Token)

	_, _, errUnknown := f.svc.Login(context.Background(), "ghost@faithly.local", "consolepass")
	_, _, errWrong := f.svc.Login(context.Background(), "admin@faithly.local", "nope-nope")
	assert.Equal(t, "INVALID_CREDENTIALS", domainCode(t, errUnknown))
	assert.Equal(t, "INVALID_CREDENTIALS", domainCode(t, errWrong))
}

func TestListMembersDerivedStatus(t *testing.T) {
	f := newAdminFixture(t)
	monthAgo := f.clock.AddDate(0, -1, 0)

	f.seedMember(t, "active@x.com", "Accra", false, f.ptr(-time.Hour), monthAgo)
	f.seedMember(t, "stale@x.com", "Accra", false, f.ptr(-8*24*time.Hour), monthAgo)
	f.seedMember(t, "never@x.com", "Kumasi", false, nil, monthAgo)
	// Deleted and stale: deactivated must dominate inactive.
	f.seedMember(t, "gone@x.com", "Accra", true, f.ptr(-30*24*time.Hour), monthAgo)

	entries, stats, err := f.svc.ListMembers(context.Background(), MemberListFilters{})
	require.NoError(t, err)

	statusByEmail := map[string]domain.MemberStatus{}
	for _, entry := range entries {
		statusByEmail[entry.Member.Email] = entry.Status
	}
	assert.Equal(t, domain.MemberStatusActive, statusByEmail["active@x.com"])
	assert.Equal(t, domain.MemberStatusInactive, statusByEmail["stale@x.com"])
	assert.Equal(t, domain.MemberStatusInactive, statusByEmail["never@x.com"])
	assert.Equal(t, domain.MemberStatusDeactivated, statusByEmail["gone@x.com"])

	assert.Equal(t, domain.MemberStats{Total: 4, Active: 1, Inactive: 2, Deactivated: 1}, stats)
}

func TestListMembersStatusFilterAfterDerivation(t *testing.T) {
	f := newAdminFixture(t)
	monthAgo := f.clock.AddDate(0, -1, 0)

	f.seedMember(t, "active@x.com", "Accra", false, f.ptr(-time.Hour), monthAgo)
	f.seedMember(t, "stale@x.com", "Accra", false, nil, monthAgo)
	f.seedMember(t, "gone@x.com", "Accra", true, nil, monthAgo)

	inactive := domain.MemberStatusInactive
	entries, stats, err := f.svc.ListMembers(context.Background(), MemberListFilters{Status: &inactive})
	require.NoError(t, err)

	// Only truly inactive members return; the deleted-and-stale one does not.
	require.Len(t, entries, 1)
	assert.Equal(t, "stale@x.com", entries[0].Member.Email)

	// Stats reflect the pre-status-filter population.
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Inactive)
	assert.Equal(t, 1, stats.Deactivated)
}

func TestListMembersBranchAndSearchBoundStats(t *testing.T) {
	f := newAdminFixture(t)
	monthAgo := f.clock.AddDate(0, -1, 0)

	f.seedMember(t, "a@x.com", "Accra", false, f.ptr(-time.Hour), monthAgo)
	f.seedMember(t, "b@x.com", "Accra", false, nil, monthAgo)
	f.seedMember(t, "c@x.com", "Kumasi", false, nil, monthAgo)

	branch := "Accra"
	active := domain.MemberStatusActive
	entries, stats, err := f.svc.ListMembers(context.Background(), MemberListFilters{Branch: &branch, Status: &active})
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, "a@x.com", entries[0].Member.Email)
	// Total counts the branch-matched set, not the status-filtered one.
	assert.Equal(t, 2, stats.Total)
}

func TestListMembersNewThisMonth(t *testing.T) {
	f := newAdminFixture(t)

	f.seedMember(t, "new@x.com", "Accra", false, nil, f.clock.AddDate(0, 0, -3))
	f.seedMember(t, "old@x.com", "Accra", false, nil, f.clock.AddDate(0, -2, 0))
	// Same month, previous year.
	f.seedMember(t, "lastyear@x.com", "Accra", false, nil, f.clock.AddDate(-1, 0, 0))

	_, stats, err := f.svc.ListMembers(context.Background(), MemberListFilters{})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.NewThisMonth)
}

func TestListMembersSearchByDerivedMemberID(t *testing.T) {
	f := newAdminFixture(t)
	member := f.seedMember(t, "a@x.com", "Accra", false, nil, *f.clock)
	f.seedMember(t, "b@x.com", "Accra", false, nil, *f.clock)

	search := domain.DeriveMemberID(member.ID)
	entries, stats, err := f.svc.ListMembers(context.Background(), MemberListFilters{Search: &search})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a@x.com", entries[0].Member.Email)
	assert.Equal(t, 1, stats.Total)
}

func TestListBranches(t *testing.T) {
	f := newAdminFixture(t)
	f.seedMember(t, "a@x.com", "Accra", false, nil, *f.clock)
	f.seedMember(t, "b@x.com", "Accra", false, nil, *f.clock)
	f.seedMember(t, "c@x.com", "Kumasi", false, nil, *f.clock)
	f.seedMember(t, "d@x.com", "", false, nil, *f.clock)

	branches, err := f.svc.ListBranches(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Accra", "Kumasi"}, branches)
}

func TestPermanentDeleteCascadesToOTPs(t *testing.T) {
	f := newAdminFixture(t)
	f.seedMember(t, "gone@x.com", "Accra", false, nil, *f.clock)
	require.NoError(t, f.otps.Upsert(context.Background(), &domain.OTPRecord{
		Email:     "gone@x.com",
		Purpose:   domain.OTPPurposeRegistration,
		Code:      "123456",
		ExpiresAt: f.clock.Add(time.Hour),
	}))

	require.NoError(t, f.svc.PermanentDeleteMember(context.Background(), "gone@x.com"))

	_, err := f.members.GetByEmail(context.Background(), "gone@x.com")
	assert.Error(t, err)
	assert.Nil(t, f.otps.live("gone@x.com", domain.OTPPurposeRegistration))

	err = f.svc.PermanentDeleteMember(context.Background(), "gone@x.com")
	assert.Equal(t, "NOT_FOUND", domainCode(t, err))
}

func TestRestoreMember(t *testing.T) {
	f := newAdminFixture(t)
	f.seedMember(t, "back@x.com", "Accra", true, nil, *f.clock)

	member, err := f.svc.RestoreMember(context.Background(), "back@x.com")
	require.NoError(t, err)
	assert.False(t, member.IsDeleted)
	assert.Nil(t, member.DeletedAt)

	_, err = f.svc.RestoreMember(context.Background(), "back@x.com")
	assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))
}
