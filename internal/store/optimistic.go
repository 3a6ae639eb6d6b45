// Package store implements the optimistic workout cache: the local list of
// a user's workouts, mutated ahead of the remote write and reconciled or
// rolled back once the remote result is known.
package store

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"alcyxob/fitness-coach/internal/domain"
)

// RemoteWorkouts is the durable side the cache reconciles against.
type RemoteWorkouts interface {
	CreateWorkout(ctx context.Context, workout domain.Workout) (*domain.Workout, error)
	DeleteWorkout(ctx context.Context, id, ownerID string) error
	ListWorkouts(ctx context.Context, ownerID string) ([]domain.Workout, error)
}

// WorkoutCache holds one user's workout list. All mutations go through
// Create, Delete, and Refresh; the mutex keeps each mutation atomic with
// respect to observation, which is all the concurrency model requires.
//
// Invariant: every cached record is either a durable record matching the
// remote store, or a temp-ID record for a create that has not resolved yet.
type WorkoutCache struct {
	mu       sync.Mutex
	ownerID  string
	remote   RemoteWorkouts
	workouts []domain.Workout
	logger   *slog.Logger

	// now is a test seam for temp ID generation.
	now func() time.Time
}

// CacheOption configures a WorkoutCache.
type CacheOption func(*WorkoutCache)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) CacheOption {
	return func(c *WorkoutCache) {
		c.logger = logger
	}
}

// WithClock overrides the clock used for temp IDs.
func WithClock(now func() time.Time) CacheOption {
	return func(c *WorkoutCache) {
		c.now = now
	}
}

// NewWorkoutCache creates an empty cache for one user. Call Refresh to
// populate it.
func NewWorkoutCache(ownerID string, remote RemoteWorkouts, opts ...CacheOption) *WorkoutCache {
	c := &WorkoutCache{
		ownerID: ownerID,
		remote:  remote,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List returns a copy of the current workout list, sorted by scheduled date.
func (c *WorkoutCache) List() []domain.Workout {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Workout, len(c.workouts))
	copy(out, c.workouts)
	return out
}

// Get returns the cached workout with the given ID, if present.
func (c *WorkoutCache) Get(id string) (domain.Workout, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, w := range c.workouts {
		if w.ID == id {
			return w, true
		}
	}
	return domain.Workout{}, false
}

// Create inserts a temp-ID placeholder into the local list, performs the
// remote create, and reconciles: on success the placeholder is replaced in
// place by the durable record, on failure it is removed entirely. The local
// list never retains a record whose remote counterpart does not exist.
func (c *WorkoutCache) Create(ctx context.Context, workout domain.Workout) (*domain.Workout, error) {
	workout.OwnerID = c.ownerID
	workout.ID = domain.NewTempWorkoutID(c.now())

	c.mu.Lock()
	c.workouts = append(c.workouts, workout)
	sortByDate(c.workouts)
	c.mu.Unlock()

	durable, err := c.remote.CreateWorkout(ctx, workout)
	if err != nil {
		c.removeByID(workout.ID)
		c.logger.Warn("remote create failed, placeholder removed",
			"owner_id", c.ownerID,
			"temp_id", workout.ID,
			"error", err)
		return nil, err
	}

	c.mu.Lock()
	replaced := false
	for i := range c.workouts {
		if c.workouts[i].ID == workout.ID {
			c.workouts[i] = *durable
			replaced = true
			break
		}
	}
	if !replaced {
		// A refresh raced the resolve; the durable record is already (or
		// will be) in the list, but inserting is safe either way.
		c.workouts = append(c.workouts, *durable)
	}
	sortByDate(c.workouts)
	c.mu.Unlock()

	return durable, nil
}

// Delete removes the workout from the local list immediately and performs
// the remote delete. On failure, the pre-removal snapshot of the whole list
// is restored; interim changes are reverted wholesale, not merged.
func (c *WorkoutCache) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	snapshot := make([]domain.Workout, len(c.workouts))
	copy(snapshot, c.workouts)

	kept := c.workouts[:0]
	for _, w := range c.workouts {
		if w.ID != id {
			kept = append(kept, w)
		}
	}
	c.workouts = kept
	c.mu.Unlock()

	if err := c.remote.DeleteWorkout(ctx, id, c.ownerID); err != nil {
		c.mu.Lock()
		c.workouts = snapshot
		c.mu.Unlock()
		c.logger.Warn("remote delete failed, list restored",
			"owner_id", c.ownerID,
			"workout_id", id,
			"error", err)
		return err
	}
	return nil
}

// Refresh reloads the list from the remote store. Unresolved temp records
// are carried over; everything durable is replaced by the remote truth.
func (c *WorkoutCache) Refresh(ctx context.Context) error {
	fetched, err := c.remote.ListWorkouts(ctx, c.ownerID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, w := range c.workouts {
		if domain.IsTempWorkoutID(w.ID) {
			fetched = append(fetched, w)
		}
	}
	sortByDate(fetched)
	c.workouts = fetched
	return nil
}

func (c *WorkoutCache) removeByID(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.workouts[:0]
	for _, w := range c.workouts {
		if w.ID != id {
			kept = append(kept, w)
		}
	}
	c.workouts = kept
}

func sortByDate(workouts []domain.Workout) {
	sort.SliceStable(workouts, func(i, j int) bool {
		return workouts[i].ScheduledDate.Before(workouts[j].ScheduledDate)
	})
}
