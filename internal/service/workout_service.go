package service

import (
	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/repository"
	"context"
	"errors"
)

// --- Error Definitions ---
var (
	ErrWorkoutNotFound = errors.New("workout not found")
)

// WorkoutService backs the workout CRUD screens. The coach pipeline does
// not call this directly; it goes through the optimistic cache instead.
type WorkoutService interface {
	CreateWorkout(ctx context.Context, ownerID string, workout domain.Workout) (*domain.Workout, error)
	GetWorkoutByID(ctx context.Context, ownerID, workoutID string) (*domain.Workout, error)
	GetWorkoutsByOwner(ctx context.Context, ownerID string) ([]domain.Workout, error)
	UpdateWorkout(ctx context.Context, ownerID, workoutID string, fields domain.WorkoutUpdate) (*domain.Workout, error)
	DeleteWorkout(ctx context.Context, ownerID, workoutID string) error
}

// workoutService implements the WorkoutService interface.
type workoutService struct {
	workoutRepo repository.WorkoutRepository
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(workoutRepo repository.WorkoutRepository) WorkoutService {
	return &workoutService{workoutRepo: workoutRepo}
}

// CreateWorkout inserts a workout for the user.
func (s *workoutService) CreateWorkout(ctx context.Context, ownerID string, workout domain.Workout) (*domain.Workout, error) {
	if workout.Name == "" {
		return nil, ErrValidationFailed
	}
	workout.OwnerID = ownerID

	workoutID, err := s.workoutRepo.Create(ctx, &workout)
	if err != nil {
		return nil, err
	}
	workout.ID = workoutID
	return &workout, nil
}

// GetWorkoutByID retrieves one workout, ensuring ownership.
func (s *workoutService) GetWorkoutByID(ctx context.Context, ownerID, workoutID string) (*domain.Workout, error) {
	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	if workout.OwnerID != ownerID {
		return nil, ErrWorkoutNotFound
	}
	return workout, nil
}

// GetWorkoutsByOwner retrieves the user's workout list sorted by date.
func (s *workoutService) GetWorkoutsByOwner(ctx context.Context, ownerID string) ([]domain.Workout, error) {
	if ownerID == "" {
		return nil, errors.New("owner ID cannot be empty")
	}
	return s.workoutRepo.GetByOwnerID(ctx, ownerID)
}

// UpdateWorkout applies a partial update, ensuring ownership.
func (s *workoutService) UpdateWorkout(ctx context.Context, ownerID, workoutID string, fields domain.WorkoutUpdate) (*domain.Workout, error) {
	if fields.IsZero() {
		return nil, ErrValidationFailed
	}
	if err := s.workoutRepo.Update(ctx, workoutID, ownerID, fields); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	return s.workoutRepo.GetByID(ctx, workoutID)
}

// DeleteWorkout removes a workout, ensuring ownership.
func (s *workoutService) DeleteWorkout(ctx context.Context, ownerID, workoutID string) error {
	err := s.workoutRepo.Delete(ctx, workoutID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWorkoutNotFound
		}
		return err
	}
	return nil
}
