package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/spec-kit/member-portal/internal/domain"
	"github.com/spec-kit/member-portal/internal/repository"
)

func zapNop() *zap.Logger {
	return zap.NewNop()
}

// fakeMemberRepo is an in-memory MemberRepository enforcing the same
// uniqueness rules as the Postgres indexes.
type fakeMemberRepo struct {
	byID   map[string]*domain.Member
	nextID int
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{byID: map[string]*domain.Member{}}
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505"}
}

func (f *fakeMemberRepo) Create(_ context.Context, member *domain.Member) error {
	for _, existing := range f.byID {
		if existing.Email == member.Email || existing.Phone == member.Phone {
			return uniqueViolation()
		}
	}
	f.nextID++
	member.ID = fmt.Sprintf("0000000000000000000000000000%04d", f.nextID)
	member.CreatedAt = time.Now()
	member.UpdatedAt = member.CreatedAt
	clone := *member
	f.byID[member.ID] = &clone
	return nil
}

func (f *fakeMemberRepo) Update(_ context.Context, member *domain.Member) error {
	stored, ok := f.byID[member.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	for id, other := range f.byID {
		if id != member.ID && other.Phone == member.Phone {
			return uniqueViolation()
		}
	}
	// Gender and birthdate are not part of the UPDATE statement.
	gender, birthdate := stored.Gender, stored.Birthdate
	clone := *member
	clone.Gender = gender
	clone.Birthdate = birthdate
	f.byID[member.ID] = &clone
	return nil
}

func (f *fakeMemberRepo) UpdatePassword(_ context.Context, id, hash string) error {
	stored, ok := f.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.PasswordHash = hash
	return nil
}

func (f *fakeMemberRepo) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	stored, ok := f.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.LastLoginAt = &at
	return nil
}

func (f *fakeMemberRepo) SetVerified(_ context.Context, email string) error {
	for _, member := range f.byID {
		if member.Email == email {
			member.IsVerified = true
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeMemberRepo) GetByID(_ context.Context, id string) (*domain.Member, error) {
	stored, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *stored
	return &clone, nil
}

func (f *fakeMemberRepo) GetByEmail(_ context.Context, email string) (*domain.Member, error) {
	for _, member := range f.byID {
		if member.Email == email {
			clone := *member
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeMemberRepo) ListWithFilter(_ context.Context, filter repository.MemberFilter) ([]domain.Member, error) {
	members := []domain.Member{}
	for _, member := range f.byID {
		if filter.Branch != nil && member.Branch != *filter.Branch {
			continue
		}
		if filter.Search != nil && !fakeSearchMatch(member, *filter.Search) {
			continue
		}
		members = append(members, *member)
	}
	return members, nil
}

func fakeSearchMatch(m *domain.Member, term string) bool {
	for _, candidate := range []string{m.FullName(), m.Email, m.DisplayMemberID()} {
		if containsFold(candidate, term) {
			return true
		}
	}
	return false
}

func (f *fakeMemberRepo) DistinctBranches(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	branches := []string{}
	for _, member := range f.byID {
		if member.Branch == "" || seen[member.Branch] {
			continue
		}
		seen[member.Branch] = true
		branches = append(branches, member.Branch)
	}
	return branches, nil
}

func (f *fakeMemberRepo) HardDelete(_ context.Context, email string) error {
	for id, member := range f.byID {
		if member.Email == email {
			delete(f.byID, id)
			return nil
		}
	}
	return pgx.ErrNoRows
}

// fakeOTPRepo is an in-memory OTP ledger keyed by (email, purpose).
type fakeOTPRepo struct {
	records map[string]*domain.OTPRecord
}

func newFakeOTPRepo() *fakeOTPRepo {
	return &fakeOTPRepo{records: map[string]*domain.OTPRecord{}}
}

func otpKey(email string, purpose domain.OTPPurpose) string {
	return email + "|" + string(purpose)
}

func (f *fakeOTPRepo) Upsert(_ context.Context, record *domain.OTPRecord) error {
	clone := *record
	f.records[otpKey(record.Email, record.Purpose)] = &clone
	return nil
}

func (f *fakeOTPRepo) GetLive(_ context.Context, email, code string, purpose domain.OTPPurpose, now time.Time) (*domain.OTPRecord, error) {
	record, ok := f.records[otpKey(email, purpose)]
	if !ok || record.Code != code || !record.ExpiresAt.After(now) {
		return nil, pgx.ErrNoRows
	}
	clone := *record
	return &clone, nil
}

func (f *fakeOTPRepo) Delete(_ context.Context, email string, purpose domain.OTPPurpose) error {
	delete(f.records, otpKey(email, purpose))
	return nil
}

func (f *fakeOTPRepo) DeleteAllForEmail(_ context.Context, email string) error {
	for key, record := range f.records {
		if record.Email == email {
			delete(f.records, key)
		}
	}
	return nil
}

func (f *fakeOTPRepo) live(email string, purpose domain.OTPPurpose) *domain.OTPRecord {
	return f.records[otpKey(email, purpose)]
}

// fakeAdminRepo is an in-memory AdminRepository.
type fakeAdminRepo struct {
	byID map[string]*domain.Admin
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{byID: map[string]*domain.Admin{}}
}

func (f *fakeAdminRepo) Create(_ context.Context, admin *domain.Admin) error {
	admin.ID = fmt.Sprintf("admin-%d", len(f.byID)+1)
	admin.CreatedAt = time.Now()
	clone := *admin
	f.byID[admin.ID] = &clone
	return nil
}

func (f *fakeAdminRepo) GetByID(_ context.Context, id string) (*domain.Admin, error) {
	admin, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *admin
	return &clone, nil
}

func (f *fakeAdminRepo) GetByEmail(_ context.Context, email string) (*domain.Admin, error) {
	for _, admin := range f.byID {
		if admin.Email == email {
			clone := *admin
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

// fakeNotifier records dispatched codes and can be told to fail.
type fakeNotifier struct {
	sends   []sentOTP
	failErr error
}

type sentOTP struct {
	Email   string
	Code    string
	Purpose domain.OTPPurpose
}

func (f *fakeNotifier) SendOTP(_ context.Context, email, code string, purpose domain.OTPPurpose, _ time.Duration) error {
	if f.failErr != nil {
		return f.failErr
	}
	f.sends = append(f.sends, sentOTP{Email: email, Code: code, Purpose: purpose})
	return nil
}

func (f *fakeNotifier) lastCode() string {
	if len(f.sends) == 0 {
		return ""
	}
	return f.sends[len(f.sends)-1].Code
}

// fakeLimiter denies once armed.
type fakeLimiter struct {
	deny bool
}

func (f *fakeLimiter) Allow(context.Context, string, domain.OTPPurpose) bool {
	return !f.deny
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
