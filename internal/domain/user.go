package domain

import (
	"time"
)

// User represents an account in the system. Every user owns their own
// exercise library, workout history, and coach conversation.
type User struct {
	ID           string    `bson:"-" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`    // Should be unique
	PasswordHash string    `bson:"passwordHash" json:"-"` // Never expose this via JSON

	// CoachMemory is the free-text profile memory the AI coach maintains
	// about this user. Append-only, one bullet per line.
	CoachMemory string `bson:"coachMemory,omitempty" json:"coachMemory,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
