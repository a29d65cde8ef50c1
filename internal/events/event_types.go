package events

import (
	"time"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventMemberRegistered EventType = "member_registered"
	EventMemberVerified   EventType = "member_verified"
	EventMemberDeleted    EventType = "member_deleted"
	EventMemberRestored   EventType = "member_restored"
	EventMemberPurged     EventType = "member_purged"
)

// Event represents a member lifecycle event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Email     string      `json:"email"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// MemberRegisteredPayload payload.
type MemberRegisteredPayload struct {
	MemberID string `json:"member_id"`
	Branch   string `json:"branch"`
}

// MemberDeletedPayload payload.
type MemberDeletedPayload struct {
	MemberID string `json:"member_id"`
	Hard     bool   `json:"hard"`
}
