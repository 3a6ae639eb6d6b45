package domain

import (
	"fmt"
	"strings"
	"time"
)

// TempIDPrefix marks a locally created workout whose remote counterpart has
// not resolved yet. See NewTempWorkoutID.
const TempIDPrefix = "temp-"

// Workout represents a single workout session, scheduled or completed.
// IDs are opaque strings: either a durable remote ID or a temporary
// placeholder generated by the optimistic store.
type Workout struct {
	ID            string            `bson:"-" json:"id"`
	OwnerID       string            `bson:"-" json:"ownerId"`
	Name          string            `bson:"name" json:"name"`
	ScheduledDate time.Time         `bson:"scheduledDate" json:"scheduledDate"`
	Color         string            `bson:"color,omitempty" json:"color,omitempty"` // Display color, e.g. "#FF6B35"
	Notes         string            `bson:"notes,omitempty" json:"notes,omitempty"`
	Exercises     []WorkoutExercise `bson:"exercises,omitempty" json:"exercises,omitempty"`
	CreatedAt     time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time         `bson:"updatedAt" json:"updatedAt"`
}

// WorkoutExercise is one exercise slot within a workout, carrying its sets.
type WorkoutExercise struct {
	ExerciseID string       `bson:"exerciseId" json:"exerciseId"`
	Name       string       `bson:"name" json:"name"` // Denormalized for display without a library lookup
	Notes      string       `bson:"notes,omitempty" json:"notes,omitempty"` // e.g. tempo/rest prescription
	Sets       []WorkoutSet `bson:"sets,omitempty" json:"sets,omitempty"`
}

// WorkoutSet is a single set of an exercise within a workout.
type WorkoutSet struct {
	Reps      int     `bson:"reps" json:"reps"`
	Weight    float64 `bson:"weight,omitempty" json:"weight,omitempty"`
	Completed bool    `bson:"completed" json:"completed"`
}

// WorkoutUpdate carries the mutable workout fields for a partial update.
// Nil pointers mean "leave unchanged".
type WorkoutUpdate struct {
	Name          *string    `json:"name,omitempty"`
	ScheduledDate *time.Time `json:"scheduledDate,omitempty"`
	Color         *string    `json:"color,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
}

// IsZero reports whether the update would change nothing.
func (u WorkoutUpdate) IsZero() bool {
	return u.Name == nil && u.ScheduledDate == nil && u.Color == nil && u.Notes == nil
}

// NewTempWorkoutID returns a placeholder workout ID. The monotonic timestamp
// keeps IDs unique within a process without coordination.
func NewTempWorkoutID(now time.Time) string {
	return fmt.Sprintf("%s%d", TempIDPrefix, now.UnixNano())
}

// IsTempWorkoutID reports whether id is a placeholder from the optimistic store.
func IsTempWorkoutID(id string) bool {
	return strings.HasPrefix(id, TempIDPrefix)
}
