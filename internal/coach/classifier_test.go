package coach_test

import (
	"testing"
	"time"

	"alcyxob/fitness-coach/internal/coach"
	"alcyxob/fitness-coach/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func knownWorkouts() []domain.Workout {
	return []domain.Workout{
		{ID: "w1", Name: "Leg Day"},
		{ID: "w2", Name: "Push Day"},
	}
}

func TestClassifyAll_DeleteResolvesNames(t *testing.T) {
	payload := `{"action":"delete","workout_ids":["w1","w2","missing"]}`

	effects := coach.ClassifyAll([]string{payload}, knownWorkouts())

	require.NotNil(t, effects.Action)
	require.Equal(t, domain.ActionDelete, effects.Action.Type)
	require.NotNil(t, effects.Action.Delete)
	assert.Equal(t, []string{"w1", "w2", "missing"}, effects.Action.Delete.WorkoutIDs)
	assert.Equal(t, []string{"Leg Day", "Push Day", coach.UnknownWorkoutLabel}, effects.Action.Delete.WorkoutNames)
	require.NoError(t, effects.Action.Validate())
}

func TestClassifyAll_MalformedJSONDropped(t *testing.T) {
	effects := coach.ClassifyAll([]string{`{"action":"delete","workout_ids":`}, knownWorkouts())

	assert.True(t, effects.Empty())
}

func TestClassifyAll_UnknownActionDropped(t *testing.T) {
	effects := coach.ClassifyAll([]string{`{"action":"teleport_workout","workout_id":"w1"}`}, knownWorkouts())

	assert.True(t, effects.Empty())
}

func TestClassifyAll_FirstValidActionWins(t *testing.T) {
	payloads := []string{
		`{"action":"delete","workout_ids":["w1"]}`,
		`{"action":"update","workout_id":"w2","fields":{"name":"Pull Day"}}`,
	}

	effects := coach.ClassifyAll(payloads, knownWorkouts())

	require.NotNil(t, effects.Action)
	assert.Equal(t, domain.ActionDelete, effects.Action.Type)
}

func TestClassifyAll_UpdateFields(t *testing.T) {
	payload := `{"action":"update","workout_id":"w1","fields":{"name":"Heavy Legs","scheduled_date":"2026-09-07","notes":"deload"}}`

	effects := coach.ClassifyAll([]string{payload}, knownWorkouts())

	require.NotNil(t, effects.Action)
	require.NotNil(t, effects.Action.Update)
	update := effects.Action.Update
	assert.Equal(t, "w1", update.WorkoutID)
	require.NotNil(t, update.Fields.Name)
	assert.Equal(t, "Heavy Legs", *update.Fields.Name)
	require.NotNil(t, update.Fields.ScheduledDate)
	assert.Equal(t, time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC), *update.Fields.ScheduledDate)
	require.NotNil(t, update.Fields.Notes)
	assert.Equal(t, "deload", *update.Fields.Notes)
	assert.Nil(t, update.Fields.Color)
}

func TestClassifyAll_UpdateWithNoFieldsDropped(t *testing.T) {
	effects := coach.ClassifyAll([]string{`{"action":"update","workout_id":"w1","fields":{}}`}, knownWorkouts())

	assert.Nil(t, effects.Action)
}

func TestClassifyAll_LogWorkoutBadDateFallsBackToNil(t *testing.T) {
	payload := `{"action":"log_workout","workout_name":"Leg Day","date":"yesterday","exercises":[{"name":"Squat","sets":3,"reps":5,"weight":100}]}`

	effects := coach.ClassifyAll([]string{payload}, knownWorkouts())

	require.NotNil(t, effects.Action)
	require.NotNil(t, effects.Action.LogWorkout)
	assert.Nil(t, effects.Action.LogWorkout.Date)
	require.Len(t, effects.Action.LogWorkout.Exercises, 1)
	assert.Equal(t, "Squat", effects.Action.LogWorkout.Exercises[0].Name)
}

func TestClassifyAll_BarePlan(t *testing.T) {
	payload := `{"plan_name":"Strength Base","summary":"4 weeks of heavy compounds","workouts":[{"name":"Day A","day_of_week":"Monday","exercises":[{"name":"Squat","sets":5,"reps":5}]}]}`

	effects := coach.ClassifyAll([]string{payload}, knownWorkouts())

	require.NotNil(t, effects.Plan)
	assert.Equal(t, "Strength Base", effects.Plan.Name)
	assert.Equal(t, domain.DefaultPlanWeeks, effects.Plan.EffectiveWeeks())
	require.Len(t, effects.Plan.Workouts, 1)
	assert.Equal(t, "Day A", effects.Plan.Workouts[0].Name)
}

func TestClassifyAll_ProposePlanWrapper(t *testing.T) {
	payload := `{"action":"PROPOSE_PLAN","plan":{"plan_name":"Hypertrophy Block","weeks":6,"workouts":[{"name":"Upper","day_of_week":"Tuesday"}]}}`

	effects := coach.ClassifyAll([]string{payload}, knownWorkouts())

	require.NotNil(t, effects.Plan)
	assert.Equal(t, "Hypertrophy Block", effects.Plan.Name)
	assert.Equal(t, 6, effects.Plan.EffectiveWeeks())
}

func TestClassifyAll_ImmediateEffectsAccumulate(t *testing.T) {
	payloads := []string{
		`{"action":"update_memory","memory":"Prefers training before work"}`,
		`{"action":"create_exercise","exercises":[{"name":"Cable Fly","muscle_group":"Chest"},{"name":"Face Pull"}]}`,
	}

	effects := coach.ClassifyAll(payloads, knownWorkouts())

	assert.Equal(t, []string{"Prefers training before work"}, effects.MemoryNotes)
	require.Len(t, effects.NewExercises, 2)
	assert.Equal(t, "Chest", effects.NewExercises[0].MuscleGroup)
	assert.Equal(t, domain.DefaultMuscleGroup, effects.NewExercises[1].MuscleGroup)
}

func TestClassifyAll_ActionAndPlanCoexist(t *testing.T) {
	payloads := []string{
		`{"action":"remove_exercise","workout_id":"w2","exercise_name":"Dips"}`,
		`{"plan_name":"Extra","workouts":[{"name":"Day B"}]}`,
	}

	effects := coach.ClassifyAll(payloads, knownWorkouts())

	require.NotNil(t, effects.Action)
	assert.Equal(t, domain.ActionRemoveExercise, effects.Action.Type)
	require.NotNil(t, effects.Plan)
	assert.Equal(t, "Extra", effects.Plan.Name)
}
