package domain

import (
	"time"
)

// Role distinguishes who authored a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one conversational turn with the coach. Immutable once created
// except for the action-tracking fields, which transition monotonically:
// unset -> set -> completed.
type Message struct {
	ID      string `json:"id"`
	Role    Role   `json:"role"`
	Content string `json:"content"` // Display text with structured payloads stripped

	// WorkoutPlan is set when the assistant proposed a plan in this turn.
	WorkoutPlan *WorkoutPlan `json:"workoutPlan,omitempty"`
	// PendingAction is set when the assistant proposed a mutation in this turn.
	PendingAction *PendingAction `json:"pendingAction,omitempty"`

	ActionCompleted bool `json:"actionCompleted"`
	ActionSuccess   bool `json:"actionSuccess"`

	CreatedAt time.Time `json:"createdAt"`
}
