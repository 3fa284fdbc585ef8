package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	// EventMemberChanged signals that a membership record changed and its
	// Discord roles should be re-reconciled.
	EventMemberChanged EventType = "member_changed"
)

// Event represents a unit of deferred sync work.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	MemberID  string    `json:"member_id"`
	Timestamp time.Time `json:"timestamp"`
}
