package domain

import (
	"time"
)

// DefaultMuscleGroup is used when the coach creates an exercise it cannot
// categorize from the conversation alone.
const DefaultMuscleGroup = "Other"

// Exercise represents a single exercise definition in the user's library.
type Exercise struct {
	ID          string `bson:"-" json:"id"`
	OwnerID     string `bson:"-" json:"ownerId"` // User who owns this exercise
	Name        string `bson:"name" json:"name"`
	MuscleGroup string `bson:"muscleGroup,omitempty" json:"muscleGroup,omitempty"` // e.g., "Chest", "Legs", "Back"
	Description string `bson:"description,omitempty" json:"description,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
