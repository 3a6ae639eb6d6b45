package store_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRemote is an in-memory store.RemoteWorkouts with injectable failures
// and hooks for observing the cache mid-call.
type fakeRemote struct {
	workouts  []domain.Workout
	createErr error
	deleteErr error
	listErr   error
	nextID    int

	// onCreate runs inside CreateWorkout, before the result is returned.
	onCreate func(given domain.Workout)
}

func (f *fakeRemote) CreateWorkout(_ context.Context, workout domain.Workout) (*domain.Workout, error) {
	if f.onCreate != nil {
		f.onCreate(workout)
	}
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	workout.ID = fmt.Sprintf("db-%d", f.nextID)
	f.workouts = append(f.workouts, workout)
	return &workout, nil
}

func (f *fakeRemote) DeleteWorkout(_ context.Context, id, _ string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	kept := f.workouts[:0]
	for _, w := range f.workouts {
		if w.ID != id {
			kept = append(kept, w)
		}
	}
	f.workouts = kept
	return nil
}

func (f *fakeRemote) ListWorkouts(_ context.Context, _ string) ([]domain.Workout, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.Workout, len(f.workouts))
	copy(out, f.workouts)
	return out, nil
}

func day(d int) time.Time {
	return time.Date(2026, 9, d, 0, 0, 0, 0, time.UTC)
}

func TestWorkoutCache_CreateResolvesTempID(t *testing.T) {
	remote := &fakeRemote{}
	cache := store.NewWorkoutCache("user-1", remote)

	var seenDuringCall []domain.Workout
	remote.onCreate = func(given domain.Workout) {
		assert.True(t, domain.IsTempWorkoutID(given.ID))
		seenDuringCall = cache.List()
	}

	created, err := cache.Create(context.Background(), domain.Workout{Name: "Leg Day", ScheduledDate: day(3)})

	require.NoError(t, err)
	assert.Equal(t, "db-1", created.ID)
	assert.Equal(t, "user-1", created.OwnerID)

	// The placeholder was visible while the remote call was in flight.
	require.Len(t, seenDuringCall, 1)
	assert.True(t, domain.IsTempWorkoutID(seenDuringCall[0].ID))

	// After resolution only the durable record remains.
	list := cache.List()
	require.Len(t, list, 1)
	assert.Equal(t, "db-1", list[0].ID)
}

func TestWorkoutCache_CreateFailureRemovesPlaceholder(t *testing.T) {
	remote := &fakeRemote{createErr: errors.New("remote down")}
	cache := store.NewWorkoutCache("user-1", remote)

	_, err := cache.Create(context.Background(), domain.Workout{Name: "Push Day"})

	require.Error(t, err)
	assert.Empty(t, cache.List())
}

func TestWorkoutCache_TempIDsAreUnique(t *testing.T) {
	clock := day(1)
	remote := &fakeRemote{}
	cache := store.NewWorkoutCache("user-1", remote, store.WithClock(func() time.Time {
		clock = clock.Add(time.Nanosecond)
		return clock
	}))

	var ids []string
	remote.onCreate = func(given domain.Workout) {
		ids = append(ids, given.ID)
	}
	for i := 0; i < 3; i++ {
		_, err := cache.Create(context.Background(), domain.Workout{Name: "W"})
		require.NoError(t, err)
	}

	require.Len(t, ids, 3)
	assert.NotEqual(t, ids[0], ids[1])
	assert.NotEqual(t, ids[1], ids[2])
	for _, id := range ids {
		assert.True(t, strings.HasPrefix(id, domain.TempIDPrefix))
	}
}

func TestWorkoutCache_DeleteRemovesLocally(t *testing.T) {
	remote := &fakeRemote{workouts: []domain.Workout{
		{ID: "a", Name: "One", ScheduledDate: day(1)},
		{ID: "b", Name: "Two", ScheduledDate: day(2)},
	}}
	cache := store.NewWorkoutCache("user-1", remote)
	require.NoError(t, cache.Refresh(context.Background()))

	require.NoError(t, cache.Delete(context.Background(), "a"))

	list := cache.List()
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].ID)
	require.Len(t, remote.workouts, 1)
}

func TestWorkoutCache_DeleteFailureRestoresSnapshotOrder(t *testing.T) {
	remote := &fakeRemote{workouts: []domain.Workout{
		{ID: "a", Name: "One", ScheduledDate: day(1)},
		{ID: "b", Name: "Two", ScheduledDate: day(2)},
		{ID: "c", Name: "Three", ScheduledDate: day(3)},
	}}
	cache := store.NewWorkoutCache("user-1", remote)
	require.NoError(t, cache.Refresh(context.Background()))

	remote.deleteErr = errors.New("remote down")
	err := cache.Delete(context.Background(), "b")

	require.Error(t, err)
	list := cache.List()
	require.Len(t, list, 3)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "b", list[1].ID)
	assert.Equal(t, "c", list[2].ID)
}

func TestWorkoutCache_RefreshCarriesTempRecords(t *testing.T) {
	remote := &fakeRemote{workouts: []domain.Workout{
		{ID: "a", Name: "Durable", ScheduledDate: day(2)},
	}}
	cache := store.NewWorkoutCache("user-1", remote)

	// Simulate an unresolved create: the remote call observes the list while
	// a concurrent refresh would run, so go through a blocked create instead.
	remote.onCreate = func(domain.Workout) {
		require.NoError(t, cache.Refresh(context.Background()))
	}
	_, err := cache.Create(context.Background(), domain.Workout{Name: "In Flight", ScheduledDate: day(1)})
	require.NoError(t, err)

	list := cache.List()
	require.Len(t, list, 2)
	assert.Equal(t, "In Flight", list[0].Name)
	assert.Equal(t, "Durable", list[1].Name)
	for _, w := range list {
		assert.False(t, domain.IsTempWorkoutID(w.ID), "all records resolved after create returns")
	}
}

func TestWorkoutCache_ListIsSortedByDate(t *testing.T) {
	remote := &fakeRemote{workouts: []domain.Workout{
		{ID: "late", ScheduledDate: day(20)},
		{ID: "early", ScheduledDate: day(5)},
		{ID: "mid", ScheduledDate: day(10)},
	}}
	cache := store.NewWorkoutCache("user-1", remote)
	require.NoError(t, cache.Refresh(context.Background()))

	list := cache.List()
	require.Len(t, list, 3)
	assert.Equal(t, []string{"early", "mid", "late"}, []string{list[0].ID, list[1].ID, list[2].ID})
}

func TestWorkoutCache_ListReturnsCopy(t *testing.T) {
	remote := &fakeRemote{workouts: []domain.Workout{{ID: "a", Name: "One"}}}
	cache := store.NewWorkoutCache("user-1", remote)
	require.NoError(t, cache.Refresh(context.Background()))

	list := cache.List()
	list[0].Name = "Mutated"

	again := cache.List()
	assert.Equal(t, "One", again[0].Name)
}
