package service

import (
	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/repository"
	"context"
	"errors"
	"strings"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound     = errors.New("exercise not found")
	ErrExerciseAccessDenied = errors.New("access denied to modify or delete this exercise")
	ErrValidationFailed     = errors.New("validation failed")
)

// ExerciseService manages the per-user exercise library.
type ExerciseService interface {
	CreateExercise(ctx context.Context, ownerID, name, muscleGroup, description string) (*domain.Exercise, error)
	GetExerciseByID(ctx context.Context, exerciseID string) (*domain.Exercise, error)
	GetExercisesByOwner(ctx context.Context, ownerID string) ([]domain.Exercise, error)
	UpdateExercise(ctx context.Context, ownerID, exerciseID, name, muscleGroup, description string) (*domain.Exercise, error)
	DeleteExercise(ctx context.Context, ownerID, exerciseID string) error

	// FindByName resolves an exercise by name within one user's library:
	// case-insensitive exact match first, then substring match. Returns
	// (nil, nil) when nothing matches.
	FindByName(ctx context.Context, ownerID, query string) (*domain.Exercise, error)
}

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
	}
}

// CreateExercise handles the creation of a new exercise.
func (s *exerciseService) CreateExercise(ctx context.Context, ownerID, name, muscleGroup, description string) (*domain.Exercise, error) {
	if name == "" {
		return nil, ErrValidationFailed
	}
	if ownerID == "" {
		return nil, errors.New("owner ID is required to create an exercise")
	}
	if muscleGroup == "" {
		muscleGroup = domain.DefaultMuscleGroup
	}

	exercise := &domain.Exercise{
		OwnerID:     ownerID,
		Name:        name,
		MuscleGroup: muscleGroup,
		Description: description,
	}

	exerciseID, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		return nil, err
	}
	exercise.ID = exerciseID
	return exercise, nil
}

// GetExerciseByID retrieves a single exercise.
func (s *exerciseService) GetExerciseByID(ctx context.Context, exerciseID string) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}

// GetExercisesByOwner retrieves all exercises in a user's library.
func (s *exerciseService) GetExercisesByOwner(ctx context.Context, ownerID string) ([]domain.Exercise, error) {
	if ownerID == "" {
		return nil, errors.New("owner ID cannot be empty")
	}
	return s.exerciseRepo.GetByOwnerID(ctx, ownerID)
}

// UpdateExercise handles updating an existing exercise, ensuring ownership.
func (s *exerciseService) UpdateExercise(ctx context.Context, ownerID, exerciseID, name, muscleGroup, description string) (*domain.Exercise, error) {
	if name == "" {
		return nil, ErrValidationFailed
	}

	existing, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	if existing.OwnerID != ownerID {
		return nil, ErrExerciseAccessDenied
	}

	existing.Name = name
	existing.MuscleGroup = muscleGroup
	existing.Description = description

	if err := s.exerciseRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return existing, nil
}

// DeleteExercise handles deleting an exercise. The repository filter
// enforces ownership at the DB level.
func (s *exerciseService) DeleteExercise(ctx context.Context, ownerID, exerciseID string) error {
	err := s.exerciseRepo.Delete(ctx, exerciseID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}
	return nil
}

// FindByName resolves an exercise reference from conversational text.
// Matching is deliberately forgiving: "bench press" should find
// "Bench Press", and "press" should still find something usable.
func (s *exerciseService) FindByName(ctx context.Context, ownerID, query string) (*domain.Exercise, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	exercises, err := s.exerciseRepo.GetByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	lower := strings.ToLower(query)
	for i := range exercises {
		if strings.ToLower(exercises[i].Name) == lower {
			return &exercises[i], nil
		}
	}
	for i := range exercises {
		if strings.Contains(strings.ToLower(exercises[i].Name), lower) {
			return &exercises[i], nil
		}
	}
	return nil, nil
}
