package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/member-portal/internal/domain"
	"github.com/spec-kit/member-portal/internal/repository"
	apperrors "github.com/spec-kit/member-portal/pkg/util"
)

// ProfileService exposes member self-service reads and updates.
type ProfileService struct {
	members repository.MemberRepository
}

// NewProfileService builds the service.
func NewProfileService(members repository.MemberRepository) *ProfileService {
	return &ProfileService{members: members}
}

// UpdateProfileInput carries partial profile updates. Only whitelisted fields
// are applied; gender and birthdate submissions are ignored, not rejected,
// since demographic data is fixed at registration.
type UpdateProfileInput struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Branch    *string
	Position  *string
}

// Get returns the member record for the authenticated owner.
func (s *ProfileService) Get(ctx context.Context, memberID string) (*domain.Member, error) {
	member, err := s.members.GetByID(ctx, memberID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound("member", nil)
	}
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}
	return member, nil
}

// Update applies whitelisted fields and returns the post-update record.
func (s *ProfileService) Update(ctx context.Context, memberID string, input UpdateProfileInput) (*domain.Member, error) {
	member, err := s.Get(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if member.IsDeleted {
		return nil, apperrors.NewAccountDeleted()
	}

	if input.FirstName != nil && strings.TrimSpace(*input.FirstName) != "" {
		member.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil && strings.TrimSpace(*input.LastName) != "" {
		member.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Phone != nil && strings.TrimSpace(*input.Phone) != "" {
		member.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Branch != nil {
		member.Branch = strings.TrimSpace(*input.Branch)
	}
	if input.Position != nil {
		member.Position = strings.TrimSpace(*input.Position)
	}

	if err := s.members.Update(ctx, member); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.NewDuplicateIdentity("phone number already registered")
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("member", nil)
		}
		return nil, apperrors.NewStoreUnavailable(err)
	}
	return member, nil
}
