package repository

import (
	"alcyxob/fitness-coach/internal/domain"
	"context"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrInvalidID    = RepositoryError("invalid id")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (string, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// AppendCoachMemory adds one bullet line to the user's coach memory.
	// Append-only; existing lines are never rewritten.
	AppendCoachMemory(ctx context.Context, userID, note string) error
}

// ExerciseRepository defines the interface for interacting with the
// per-user exercise library.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (string, error)
	GetByID(ctx context.Context, id string) (*domain.Exercise, error)
	GetByOwnerID(ctx context.Context, ownerID string) ([]domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	Delete(ctx context.Context, id, ownerID string) error // Ensure user owns the exercise
}

// WorkoutRepository defines the interface for interacting with workout data.
// This is the durable side of the optimistic store: every mutation here is a
// remote write the local cache reconciles against.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (string, error)
	GetByID(ctx context.Context, id string) (*domain.Workout, error)
	GetByOwnerID(ctx context.Context, ownerID string) ([]domain.Workout, error)
	Update(ctx context.Context, id, ownerID string, fields domain.WorkoutUpdate) error
	Delete(ctx context.Context, id, ownerID string) error
	AddExercises(ctx context.Context, workoutID, ownerID string, exercises []domain.WorkoutExercise) error
	RemoveExercise(ctx context.Context, workoutID, ownerID, exerciseID string) error
}
