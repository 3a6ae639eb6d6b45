package coach_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"alcyxob/fitness-coach/internal/coach"
	"alcyxob/fitness-coach/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory coach.Store recording every call.
type fakeStore struct {
	exercises []domain.Exercise
	workouts  []domain.Workout

	created      []domain.Workout
	updated      map[string]domain.WorkoutUpdate
	deleted      []string
	added        map[string][]domain.WorkoutExercise
	removed      map[string][]string
	refreshed    int
	deleteErrors map[string]error
	nextID       int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		updated:      make(map[string]domain.WorkoutUpdate),
		added:        make(map[string][]domain.WorkoutExercise),
		removed:      make(map[string][]string),
		deleteErrors: make(map[string]error),
	}
}

func (f *fakeStore) CreateWorkout(_ context.Context, workout domain.Workout) (*domain.Workout, error) {
	f.nextID++
	workout.ID = workoutID(f.nextID)
	f.created = append(f.created, workout)
	f.workouts = append(f.workouts, workout)
	return &workout, nil
}

func (f *fakeStore) UpdateWorkout(_ context.Context, workoutID string, fields domain.WorkoutUpdate) error {
	f.updated[workoutID] = fields
	return nil
}

func (f *fakeStore) DeleteWorkout(_ context.Context, workoutID string) error {
	if err := f.deleteErrors[workoutID]; err != nil {
		return err
	}
	f.deleted = append(f.deleted, workoutID)
	return nil
}

func (f *fakeStore) AddExercisesToWorkout(_ context.Context, workoutID string, exercises []domain.WorkoutExercise) error {
	f.added[workoutID] = append(f.added[workoutID], exercises...)
	return nil
}

func (f *fakeStore) RemoveExerciseFromWorkout(_ context.Context, workoutID, exerciseID string) error {
	f.removed[workoutID] = append(f.removed[workoutID], exerciseID)
	return nil
}

func (f *fakeStore) CreateExercise(_ context.Context, name, muscleGroup, description string) (*domain.Exercise, error) {
	f.nextID++
	ex := domain.Exercise{ID: workoutID(f.nextID), Name: name, MuscleGroup: muscleGroup, Description: description}
	f.exercises = append(f.exercises, ex)
	return &ex, nil
}

func (f *fakeStore) FindExerciseByName(_ context.Context, query string) (*domain.Exercise, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	for i := range f.exercises {
		if strings.ToLower(f.exercises[i].Name) == q {
			return &f.exercises[i], nil
		}
	}
	for i := range f.exercises {
		if strings.Contains(strings.ToLower(f.exercises[i].Name), q) {
			return &f.exercises[i], nil
		}
	}
	return nil, nil
}

func (f *fakeStore) Refresh(_ context.Context) error {
	f.refreshed++
	return nil
}

func workoutID(n int) string {
	return "id-" + string(rune('a'+n-1))
}

func TestExecutor_DeleteBestEffort(t *testing.T) {
	store := newFakeStore()
	store.deleteErrors["w2"] = errors.New("gone already")
	exec := coach.NewExecutor(store)

	action := &domain.PendingAction{
		Type: domain.ActionDelete,
		Delete: &domain.DeleteAction{
			WorkoutIDs:   []string{"w1", "w2", "w3"},
			WorkoutNames: []string{"A", "B", "C"},
		},
	}

	err := exec.Execute(context.Background(), action)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "w2")
	// The failure on w2 did not stop w3.
	assert.Equal(t, []string{"w1", "w3"}, store.deleted)
	assert.Equal(t, 1, store.refreshed)
}

func TestExecutor_Update(t *testing.T) {
	store := newFakeStore()
	exec := coach.NewExecutor(store)
	name := "Pull Day"

	err := exec.Execute(context.Background(), &domain.PendingAction{
		Type:   domain.ActionUpdate,
		Update: &domain.UpdateAction{WorkoutID: "w1", Fields: domain.WorkoutUpdate{Name: &name}},
	})

	require.NoError(t, err)
	require.Contains(t, store.updated, "w1")
	assert.Equal(t, "Pull Day", *store.updated["w1"].Name)
	assert.Equal(t, 1, store.refreshed)
}

func TestExecutor_LogWorkoutCreatesCompletedSets(t *testing.T) {
	store := newFakeStore()
	store.exercises = []domain.Exercise{{ID: "e1", Name: "Barbell Squat", MuscleGroup: "Legs"}}
	fixed := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	exec := coach.NewExecutor(store, coach.WithExecutorClock(func() time.Time { return fixed }))

	err := exec.Execute(context.Background(), &domain.PendingAction{
		Type: domain.ActionLogWorkout,
		LogWorkout: &domain.LogWorkoutAction{
			WorkoutName: "Morning Legs",
			Exercises: []domain.ActionExercise{
				{Name: "squat", Sets: 3, Reps: 5, Weight: 100},
				{Name: "Walking Lunge", Reps: 12, Weight: 20},
			},
		},
	})

	require.NoError(t, err)
	require.Len(t, store.created, 1)
	logged := store.created[0]
	assert.Equal(t, "Morning Legs", logged.Name)
	assert.Equal(t, fixed, logged.ScheduledDate)
	require.Len(t, logged.Exercises, 2)

	// "squat" resolved to the existing library entry by substring match.
	assert.Equal(t, "e1", logged.Exercises[0].ExerciseID)
	assert.Equal(t, "Barbell Squat", logged.Exercises[0].Name)
	require.Len(t, logged.Exercises[0].Sets, 1)
	assert.True(t, logged.Exercises[0].Sets[0].Completed)
	assert.Equal(t, 5, logged.Exercises[0].Sets[0].Reps)
	assert.Equal(t, 100.0, logged.Exercises[0].Sets[0].Weight)

	// "Walking Lunge" had no match and was created with the default group.
	require.Len(t, store.exercises, 2)
	assert.Equal(t, "Walking Lunge", store.exercises[1].Name)
	assert.Equal(t, domain.DefaultMuscleGroup, store.exercises[1].MuscleGroup)
	assert.Equal(t, store.exercises[1].ID, logged.Exercises[1].ExerciseID)
}

func TestExecutor_LogWorkoutUsesExplicitDate(t *testing.T) {
	store := newFakeStore()
	exec := coach.NewExecutor(store)
	date := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	err := exec.Execute(context.Background(), &domain.PendingAction{
		Type: domain.ActionLogWorkout,
		LogWorkout: &domain.LogWorkoutAction{
			WorkoutName: "Back Day",
			Date:        &date,
		},
	})

	require.NoError(t, err)
	require.Len(t, store.created, 1)
	assert.Equal(t, date, store.created[0].ScheduledDate)
}

func TestExecutor_AddExercisePlannedSetsNotCompleted(t *testing.T) {
	store := newFakeStore()
	exec := coach.NewExecutor(store)

	err := exec.Execute(context.Background(), &domain.PendingAction{
		Type: domain.ActionAddExercise,
		AddExercise: &domain.AddExerciseAction{
			WorkoutID: "w1",
			Exercises: []domain.ActionExercise{
				{Name: "Bench Press", Sets: 4, Reps: 8, Weight: 80},
				{Name: "Push Up", Reps: 15},
			},
		},
	})

	require.NoError(t, err)
	added := store.added["w1"]
	require.Len(t, added, 2)
	require.Len(t, added[0].Sets, 4)
	for _, set := range added[0].Sets {
		assert.False(t, set.Completed)
		assert.Equal(t, 8, set.Reps)
		assert.Equal(t, 80.0, set.Weight)
	}
	// A zero sets count still yields a single planned set.
	require.Len(t, added[1].Sets, 1)
}

func TestExecutor_RemoveExerciseNoMatchIsNoOp(t *testing.T) {
	store := newFakeStore()
	exec := coach.NewExecutor(store)

	err := exec.Execute(context.Background(), &domain.PendingAction{
		Type: domain.ActionRemoveExercise,
		RemoveExercise: &domain.RemoveExerciseAction{
			WorkoutID:    "w1",
			ExerciseName: "Nordic Curl",
		},
	})

	require.NoError(t, err)
	assert.Empty(t, store.removed)
	assert.Equal(t, 1, store.refreshed)
}

func TestExecutor_RemoveExerciseByName(t *testing.T) {
	store := newFakeStore()
	store.exercises = []domain.Exercise{{ID: "e9", Name: "Lat Pulldown"}}
	exec := coach.NewExecutor(store)

	err := exec.Execute(context.Background(), &domain.PendingAction{
		Type: domain.ActionRemoveExercise,
		RemoveExercise: &domain.RemoveExerciseAction{
			WorkoutID:    "w1",
			ExerciseName: "lat pulldown",
		},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"e9"}, store.removed["w1"])
}

func TestExecutor_InvalidActionRejected(t *testing.T) {
	store := newFakeStore()
	exec := coach.NewExecutor(store)

	err := exec.Execute(context.Background(), &domain.PendingAction{Type: domain.ActionDelete})

	assert.ErrorIs(t, err, domain.ErrInvalidAction)
	assert.Zero(t, store.refreshed)
}
