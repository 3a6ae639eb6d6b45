package service_test

import (
	"context"
	"fmt"
	"testing"

	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/repository"
	"alcyxob/fitness-coach/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExerciseRepo is an in-memory repository.ExerciseRepository.
type fakeExerciseRepo struct {
	exercises []domain.Exercise
	nextID    int
}

func (f *fakeExerciseRepo) Create(_ context.Context, exercise *domain.Exercise) (string, error) {
	f.nextID++
	id := fmt.Sprintf("ex-%d", f.nextID)
	e := *exercise
	e.ID = id
	f.exercises = append(f.exercises, e)
	return id, nil
}

func (f *fakeExerciseRepo) GetByID(_ context.Context, id string) (*domain.Exercise, error) {
	for i := range f.exercises {
		if f.exercises[i].ID == id {
			e := f.exercises[i]
			return &e, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeExerciseRepo) GetByOwnerID(_ context.Context, ownerID string) ([]domain.Exercise, error) {
	var out []domain.Exercise
	for _, e := range f.exercises {
		if e.OwnerID == ownerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeExerciseRepo) Update(_ context.Context, exercise *domain.Exercise) error {
	for i := range f.exercises {
		if f.exercises[i].ID == exercise.ID {
			f.exercises[i] = *exercise
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeExerciseRepo) Delete(_ context.Context, id, ownerID string) error {
	for i := range f.exercises {
		if f.exercises[i].ID == id && f.exercises[i].OwnerID == ownerID {
			f.exercises = append(f.exercises[:i], f.exercises[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func seededExerciseService(t *testing.T) (service.ExerciseService, *fakeExerciseRepo) {
	t.Helper()
	repo := &fakeExerciseRepo{}
	svc := service.NewExerciseService(repo)
	for _, name := range []string{"Bench Press", "Overhead Press", "Barbell Squat"} {
		_, err := svc.CreateExercise(context.Background(), "user-1", name, "Strength", "")
		require.NoError(t, err)
	}
	return svc, repo
}

func TestExerciseService_CreateDefaultsMuscleGroup(t *testing.T) {
	repo := &fakeExerciseRepo{}
	svc := service.NewExerciseService(repo)

	ex, err := svc.CreateExercise(context.Background(), "user-1", "Plank", "", "")

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultMuscleGroup, ex.MuscleGroup)
	assert.NotEmpty(t, ex.ID)
}

func TestExerciseService_CreateRequiresName(t *testing.T) {
	svc := service.NewExerciseService(&fakeExerciseRepo{})

	_, err := svc.CreateExercise(context.Background(), "user-1", "", "Legs", "")

	assert.ErrorIs(t, err, service.ErrValidationFailed)
}

func TestExerciseService_FindByNameExactBeforeSubstring(t *testing.T) {
	svc, _ := seededExerciseService(t)

	// "press" alone matches two entries by substring; the first wins.
	found, err := svc.FindByName(context.Background(), "user-1", "press")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Bench Press", found.Name)

	// An exact (case-insensitive) match beats substring order.
	found, err = svc.FindByName(context.Background(), "user-1", "overhead press")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Overhead Press", found.Name)
}

func TestExerciseService_FindByNameMissReturnsNilNil(t *testing.T) {
	svc, _ := seededExerciseService(t)

	found, err := svc.FindByName(context.Background(), "user-1", "Deadlift")

	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestExerciseService_FindByNameScopedToOwner(t *testing.T) {
	svc, _ := seededExerciseService(t)

	found, err := svc.FindByName(context.Background(), "someone-else", "Bench Press")

	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestExerciseService_UpdateOwnershipEnforced(t *testing.T) {
	svc, repo := seededExerciseService(t)

	_, err := svc.UpdateExercise(context.Background(), "someone-else", repo.exercises[0].ID, "Stolen", "Legs", "")

	assert.ErrorIs(t, err, service.ErrExerciseAccessDenied)
}

func TestExerciseService_DeleteUnknown(t *testing.T) {
	svc, _ := seededExerciseService(t)

	err := svc.DeleteExercise(context.Background(), "user-1", "missing")

	assert.ErrorIs(t, err, service.ErrExerciseNotFound)
}
