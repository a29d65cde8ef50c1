package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/member-portal/internal/domain"
)

func str(s string) *string { return &s }

func seedProfileMember(t *testing.T, repo *fakeMemberRepo, email string) *domain.Member {
	t.Helper()
	member := &domain.Member{
		FirstName:    "Ama",
		LastName:     "Mensah",
		Email:        email,
		Phone:        "+233200000001",
		PasswordHash: "x",
		Gender:       "female",
		Birthdate:    "1990-04-12",
		Branch:       "Accra",
		Position:     "Usher",
		IsVerified:   true,
	}
	require.NoError(t, repo.Create(context.Background(), member))
	return member
}

func TestProfileGet(t *testing.T) {
	repo := newFakeMemberRepo()
	svc := NewProfileService(repo)
	member := seedProfileMember(t, repo, "ama@x.com")

	got, err := svc.Get(context.Background(), member.ID)
	require.NoError(t, err)
	assert.Equal(t, "ama@x.com", got.Email)

	_, err = svc.Get(context.Background(), "missing-id")
	assert.Equal(t, "NOT_FOUND", domainCode(t, err))
}

func TestProfileUpdateWhitelistedFields(t *testing.T) {
	repo := newFakeMemberRepo()
	svc := NewProfileService(repo)
	member := seedProfileMember(t, repo, "ama@x.com")

	updated, err := svc.Update(context.Background(), member.ID, UpdateProfileInput{
		FirstName: str("  Akosua "),
		Phone:     str("+233200000099"),
		Branch:    str("Kumasi"),
		Position:  str("Deacon"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Akosua", updated.FirstName)
	assert.Equal(t, "Mensah", updated.LastName)
	assert.Equal(t, "+233200000099", updated.Phone)
	assert.Equal(t, "Kumasi", updated.Branch)
	assert.Equal(t, "Deacon", updated.Position)
}

func TestProfileUpdateIgnoresBlankNames(t *testing.T) {
	repo := newFakeMemberRepo()
	svc := NewProfileService(repo)
	member := seedProfileMember(t, repo, "ama@x.com")

	updated, err := svc.Update(context.Background(), member.ID, UpdateProfileInput{
		FirstName: str("   "),
		LastName:  str(""),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ama", updated.FirstName)
	assert.Equal(t, "Mensah", updated.LastName)
}

func TestProfileUpdateCannotChangeDemographics(t *testing.T) {
	repo := newFakeMemberRepo()
	svc := NewProfileService(repo)
	member := seedProfileMember(t, repo, "ama@x.com")

	_, err := svc.Update(context.Background(), member.ID, UpdateProfileInput{
		FirstName: str("Akosua"),
	})
	require.NoError(t, err)

	stored, err := svc.Get(context.Background(), member.ID)
	require.NoError(t, err)
	assert.Equal(t, "female", stored.Gender)
	assert.Equal(t, "1990-04-12", stored.Birthdate)
}

func TestProfileUpdateDuplicatePhone(t *testing.T) {
	repo := newFakeMemberRepo()
	svc := NewProfileService(repo)

	other := seedProfileMember(t, repo, "other@x.com")
	other.Phone = "+233200000050"
	require.NoError(t, repo.Update(context.Background(), other))

	member := &domain.Member{
		FirstName: "Kofi", LastName: "Owusu",
		Email: "kofi@x.com", Phone: "+233200000051",
		PasswordHash: "x", IsVerified: true,
	}
	require.NoError(t, repo.Create(context.Background(), member))

	_, err := svc.Update(context.Background(), member.ID, UpdateProfileInput{
		Phone: str("+233200000050"),
	})
	assert.Equal(t, "DUPLICATE_IDENTITY", domainCode(t, err))
}

func TestProfileUpdateDeletedAccount(t *testing.T) {
	repo := newFakeMemberRepo()
	svc := NewProfileService(repo)
	member := seedProfileMember(t, repo, "ama@x.com")
	repo.byID[member.ID].IsDeleted = true

	_, err := svc.Update(context.Background(), member.ID, UpdateProfileInput{
		FirstName: str("Akosua"),
	})
	assert.Equal(t, "ACCOUNT_DELETED", domainCode(t, err))
}
