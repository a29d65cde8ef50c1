package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/member-portal/internal/domain"
)

func TestMemberListResponseShape(t *testing.T) {
	member := &domain.Member{
		ID:        "550e8400-e29b-41d4-a716-446655440000",
		FirstName: "Ama",
		LastName:  "Mensah",
		Email:     "ama@x.com",
		CreatedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}

	payload, err := json.Marshal(MemberListResponse{
		Members: []AdminMemberView{{
			MemberView: NewMemberView(member),
			Status:     domain.MemberStatusInactive,
		}},
		Stats: domain.MemberStats{Total: 1, Inactive: 1},
	})
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Contains(t, decoded, "members")
	assert.Contains(t, decoded, "stats")

	// The password hash must never appear in a console listing.
	assert.NotContains(t, string(payload), "password")
	assert.Contains(t, string(payload), `"status":"inactive"`)
}
