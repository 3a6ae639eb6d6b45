package store

import (
	"context"

	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/repository"
)

// repositoryRemote adapts a WorkoutRepository to the RemoteWorkouts
// contract of the cache.
type repositoryRemote struct {
	workouts repository.WorkoutRepository
}

// NewRepositoryRemote wraps a workout repository as the remote side of a
// WorkoutCache.
func NewRepositoryRemote(workouts repository.WorkoutRepository) RemoteWorkouts {
	return repositoryRemote{workouts: workouts}
}

func (r repositoryRemote) CreateWorkout(ctx context.Context, workout domain.Workout) (*domain.Workout, error) {
	id, err := r.workouts.Create(ctx, &workout)
	if err != nil {
		return nil, err
	}
	// Fetch the durable record so DB-populated fields come back with it.
	return r.workouts.GetByID(ctx, id)
}

func (r repositoryRemote) DeleteWorkout(ctx context.Context, id, ownerID string) error {
	return r.workouts.Delete(ctx, id, ownerID)
}

func (r repositoryRemote) ListWorkouts(ctx context.Context, ownerID string) ([]domain.Workout, error) {
	return r.workouts.GetByOwnerID(ctx, ownerID)
}
