package coach

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"alcyxob/fitness-coach/internal/domain"
)

// Store is the remote data-store contract the executor drives. Workout
// create/delete implementations are expected to route through the
// optimistic cache so local state leads the remote write.
type Store interface {
	CreateWorkout(ctx context.Context, workout domain.Workout) (*domain.Workout, error)
	UpdateWorkout(ctx context.Context, workoutID string, fields domain.WorkoutUpdate) error
	DeleteWorkout(ctx context.Context, workoutID string) error
	AddExercisesToWorkout(ctx context.Context, workoutID string, exercises []domain.WorkoutExercise) error
	RemoveExerciseFromWorkout(ctx context.Context, workoutID, exerciseID string) error

	CreateExercise(ctx context.Context, name, muscleGroup, description string) (*domain.Exercise, error)
	// FindExerciseByName matches case-insensitively, exact before substring.
	// Returns (nil, nil) when nothing matches.
	FindExerciseByName(ctx context.Context, query string) (*domain.Exercise, error)

	// Refresh reloads the local workout list from the remote store.
	Refresh(ctx context.Context) error
}

// Executor realizes confirmed pending actions as sequences of remote calls.
// Remote calls within one action run sequentially; later steps depend on
// IDs produced by earlier steps.
type Executor struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithExecutorLogger sets the logger.
func WithExecutorLogger(logger *slog.Logger) ExecutorOption {
	return func(e *Executor) {
		e.logger = logger
	}
}

// WithExecutorClock overrides the clock used for default workout dates.
func WithExecutorClock(now func() time.Time) ExecutorOption {
	return func(e *Executor) {
		e.now = now
	}
}

// NewExecutor creates an executor over the given store.
func NewExecutor(store Store, opts ...ExecutorOption) *Executor {
	e := &Executor{
		store:  store,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute performs a confirmed action. It returns success or failure as a
// unit; after any branch the local workout list is refreshed. Remote
// mutation failures are never retried here.
func (e *Executor) Execute(ctx context.Context, action *domain.PendingAction) error {
	if err := action.Validate(); err != nil {
		return err
	}

	var execErr error
	switch action.Type {
	case domain.ActionDelete:
		execErr = e.executeDelete(ctx, action.Delete)
	case domain.ActionUpdate:
		execErr = e.store.UpdateWorkout(ctx, action.Update.WorkoutID, action.Update.Fields)
	case domain.ActionLogWorkout:
		execErr = e.executeLogWorkout(ctx, action.LogWorkout)
	case domain.ActionAddExercise:
		execErr = e.executeAddExercise(ctx, action.AddExercise)
	case domain.ActionRemoveExercise:
		execErr = e.executeRemoveExercise(ctx, action.RemoveExercise)
	}

	if err := e.store.Refresh(ctx); err != nil {
		// The mutation outcome stands; a stale list corrects itself on the
		// next refresh.
		e.logger.Warn("workout list refresh failed after action", "error", err)
	}
	return execErr
}

// executeDelete deletes each workout in turn. Best-effort bulk delete: a
// failure on one does not abort the rest.
func (e *Executor) executeDelete(ctx context.Context, action *domain.DeleteAction) error {
	var errs []error
	for _, id := range action.WorkoutIDs {
		if err := e.store.DeleteWorkout(ctx, id); err != nil {
			e.logger.Warn("workout delete failed", "workout_id", id, "error", err)
			errs = append(errs, fmt.Errorf("delete %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

func (e *Executor) executeLogWorkout(ctx context.Context, action *domain.LogWorkoutAction) error {
	exercises := make([]domain.WorkoutExercise, 0, len(action.Exercises))
	for _, ex := range action.Exercises {
		resolved, err := ResolveExercise(ctx, e.store, ex.Name)
		if err != nil {
			return err
		}
		// A logged workout records history: one completed set per exercise
		// carrying the given weight and reps.
		exercises = append(exercises, domain.WorkoutExercise{
			ExerciseID: resolved.ID,
			Name:       resolved.Name,
			Sets: []domain.WorkoutSet{
				{Reps: ex.Reps, Weight: ex.Weight, Completed: true},
			},
		})
	}

	date := e.now()
	if action.Date != nil {
		date = *action.Date
	}

	_, err := e.store.CreateWorkout(ctx, domain.Workout{
		Name:          action.WorkoutName,
		ScheduledDate: date,
		Exercises:     exercises,
	})
	return err
}

func (e *Executor) executeAddExercise(ctx context.Context, action *domain.AddExerciseAction) error {
	exercises := make([]domain.WorkoutExercise, 0, len(action.Exercises))
	for _, ex := range action.Exercises {
		resolved, err := ResolveExercise(ctx, e.store, ex.Name)
		if err != nil {
			return err
		}
		exercises = append(exercises, domain.WorkoutExercise{
			ExerciseID: resolved.ID,
			Name:       resolved.Name,
			Sets:       plannedSets(ex),
		})
	}
	return e.store.AddExercisesToWorkout(ctx, action.WorkoutID, exercises)
}

// executeRemoveExercise detaches an exercise by name. An unresolvable name
// is a no-op, not an error.
func (e *Executor) executeRemoveExercise(ctx context.Context, action *domain.RemoveExerciseAction) error {
	found, err := e.store.FindExerciseByName(ctx, action.ExerciseName)
	if err != nil {
		return err
	}
	if found == nil {
		e.logger.Debug("remove_exercise: no matching exercise, nothing to do",
			"name", action.ExerciseName)
		return nil
	}
	return e.store.RemoveExerciseFromWorkout(ctx, action.WorkoutID, found.ID)
}

// ResolveExercise maps an exercise name to a library entry: case-insensitive
// exact match, then substring match, else a newly created record with the
// default muscle group. Never an unresolved-reference error.
func ResolveExercise(ctx context.Context, s Store, name string) (*domain.Exercise, error) {
	found, err := s.FindExerciseByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if found != nil {
		return found, nil
	}
	return s.CreateExercise(ctx, name, domain.DefaultMuscleGroup, "")
}

// plannedSets expands a prescription into not-yet-completed sets.
func plannedSets(ex domain.ActionExercise) []domain.WorkoutSet {
	count := ex.Sets
	if count < 1 {
		count = 1
	}
	sets := make([]domain.WorkoutSet, count)
	for i := range sets {
		sets[i] = domain.WorkoutSet{Reps: ex.Reps, Weight: ex.Weight, Completed: false}
	}
	return sets
}
