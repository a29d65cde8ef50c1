package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/member-portal/internal/auth"
	"github.com/spec-kit/member-portal/internal/config"
	"github.com/spec-kit/member-portal/internal/domain"
	"github.com/spec-kit/member-portal/internal/events"
	"github.com/spec-kit/member-portal/internal/repository"
	apperrors "github.com/spec-kit/member-portal/pkg/util"
)

// AdminService backs the administrative console.
type AdminService struct {
	admins     repository.AdminRepository
	members    repository.MemberRepository
	otps       repository.OTPRepository
	dispatcher events.Dispatcher
	tokenMgr   *auth.TokenManager
	now        func() time.Time
}

// AdminDependencies encapsulates collaborators for the admin service.
type AdminDependencies struct {
	AdminRepo  repository.AdminRepository
	MemberRepo repository.MemberRepository
	OTPRepo    repository.OTPRepository
	Dispatcher events.Dispatcher
}

// NewAdminService builds the service.
func NewAdminService(cfg config.Config, deps AdminDependencies) *AdminService {
	return &AdminService{
		admins:     deps.AdminRepo,
		members:    deps.MemberRepo,
		otps:       deps.OTPRepo,
		dispatcher: deps.Dispatcher,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTLMinutes),
		now:        time.Now,
	}
}

// Login authenticates a console administrator.
func (s *AdminService) Login(ctx context.Context, email, password string) (*domain.Admin, *Session, error) {
	admin, err := s.admins.GetByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, apperrors.NewInvalidCredentials()
	}
	if err != nil {
		return nil, nil, apperrors.NewStoreUnavailable(err)
	}
	if err := auth.ComparePassword(admin.PasswordHash, password); err != nil {
		return nil, nil, apperrors.NewInvalidCredentials()
	}

	token, exp, err := s.tokenMgr.GenerateToken(admin.ID, domain.SubjectTypeAdmin)
	if err != nil {
		return nil, nil, apperrors.NewInternalError(err)
	}
	return admin, &Session{Token: token, ExpiresAt: exp}, nil
}

// MemberListFilters define admin console query parameters.
type MemberListFilters struct {
	Search *string
	Status *domain.MemberStatus
	Branch *string
}

// MemberEntry pairs a member with its derived status.
type MemberEntry struct {
	Member domain.Member
	Status domain.MemberStatus
}

// ListMembers returns the filtered member list plus aggregate stats.
// Status is derived for the whole search/branch-matched set first; stats
// therefore reflect the pre-status-filter population, and only then is the
// status filter applied to the returned entries.
func (s *AdminService) ListMembers(ctx context.Context, filters MemberListFilters) ([]MemberEntry, domain.MemberStats, error) {
	members, err := s.members.ListWithFilter(ctx, repository.MemberFilter{
		Search: filters.Search,
		Branch: filters.Branch,
	})
	if err != nil {
		return nil, domain.MemberStats{}, apperrors.NewStoreUnavailable(err)
	}

	now := s.now()
	stats := domain.MemberStats{Total: len(members)}
	entries := make([]MemberEntry, 0, len(members))

	for _, member := range members {
		status := domain.DeriveStatus(member.IsDeleted, member.LastLoginAt, now)
		switch status {
		case domain.MemberStatusActive:
			stats.Active++
		case domain.MemberStatusInactive:
			stats.Inactive++
		case domain.MemberStatusDeactivated:
			stats.Deactivated++
		}
		if domain.SameCalendarMonth(member.CreatedAt, now) {
			stats.NewThisMonth++
		}
		if filters.Status != nil && status != *filters.Status {
			continue
		}
		entries = append(entries, MemberEntry{Member: member, Status: status})
	}
	return entries, stats, nil
}

// ListBranches returns deduplicated non-empty branch values.
func (s *AdminService) ListBranches(ctx context.Context) ([]string, error) {
	branches, err := s.members.DistinctBranches(ctx)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}
	return branches, nil
}

// PermanentDeleteMember physically removes the member and every OTP record
// for the identity. Irreversible; reachable only through an admin session.
func (s *AdminService) PermanentDeleteMember(ctx context.Context, email string) error {
	email = NormalizeEmail(email)
	member, err := s.members.GetByEmail(ctx, email)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("member", nil)
	}
	if err != nil {
		return apperrors.NewStoreUnavailable(err)
	}

	if err := s.members.HardDelete(ctx, email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("member", nil)
		}
		return apperrors.NewStoreUnavailable(err)
	}
	if err := s.otps.DeleteAllForEmail(ctx, email); err != nil {
		return apperrors.NewStoreUnavailable(err)
	}

	s.publish(events.EventMemberPurged, email, events.MemberDeletedPayload{
		MemberID: member.DisplayMemberID(),
		Hard:     true,
	})
	return nil
}

// RestoreMember reverses a self-service soft delete.
func (s *AdminService) RestoreMember(ctx context.Context, email string) (*domain.Member, error) {
	email = NormalizeEmail(email)
	member, err := s.members.GetByEmail(ctx, email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound("member", nil)
	}
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}
	if !member.IsDeleted {
		return nil, apperrors.NewValidationError("member is not deleted", nil)
	}

	member.IsDeleted = false
	member.DeletedAt = nil
	if err := s.members.Update(ctx, member); err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}

	s.publish(events.EventMemberRestored, email, nil)
	return member, nil
}

func (s *AdminService) publish(eventType events.EventType, email string, payload interface{}) {
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
