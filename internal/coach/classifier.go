package coach

import (
	"encoding/json"
	"strings"
	"time"

	"alcyxob/fitness-coach/internal/domain"
)

// UnknownWorkoutLabel stands in for a workout ID the classifier cannot
// resolve against the known workout list. Resolution never fails a turn.
const UnknownWorkoutLabel = "Unknown workout"

// Effects is everything classification extracted from one response: at most
// one plan proposal, at most one pending action (first valid match wins for
// both), plus the immediate, confirmation-free effects.
type Effects struct {
	Plan   *domain.WorkoutPlan
	Action *domain.PendingAction

	// MemoryNotes are update_memory texts to merge into the user's
	// persisted coach memory.
	MemoryNotes []string

	// NewExercises are create_exercise definitions to add to the library.
	NewExercises []domain.Exercise
}

// Empty reports whether classification produced nothing at all.
func (e Effects) Empty() bool {
	return e.Plan == nil && e.Action == nil && len(e.MemoryNotes) == 0 && len(e.NewExercises) == 0
}

// payloadEnvelope is the superset of fields a structured payload may carry.
// The action discriminator selects which subset is meaningful.
type payloadEnvelope struct {
	Action string `json:"action"`

	// Plan shapes: either a bare plan (workouts at top level) or a
	// PROPOSE_PLAN wrapper with a plan object.
	Plan     *domain.WorkoutPlan     `json:"plan"`
	PlanName string                  `json:"plan_name"`
	Summary  string                  `json:"summary"`
	Weeks    int                     `json:"weeks"`
	Workouts []domain.PlannedWorkout `json:"workouts"`

	// Action payload fields.
	WorkoutIDs   []string          `json:"workout_ids"`
	WorkoutID    string            `json:"workout_id"`
	Fields       *updateFields     `json:"fields"`
	WorkoutName  string            `json:"workout_name"`
	Date         string            `json:"date"`
	Exercises    []payloadExercise `json:"exercises"`
	ExerciseName string            `json:"exercise_name"`
	Memory       string            `json:"memory"`
}

type updateFields struct {
	Name          *string `json:"name"`
	ScheduledDate *string `json:"scheduled_date"`
	Color         *string `json:"color"`
	Notes         *string `json:"notes"`
}

type payloadExercise struct {
	Name        string  `json:"name"`
	Sets        int     `json:"sets"`
	Reps        int     `json:"reps"`
	Weight      float64 `json:"weight"`
	MuscleGroup string  `json:"muscle_group"`
	Description string  `json:"description"`
}

// ClassifyAll classifies each payload independently and merges the results.
// Malformed and unknown payloads are dropped silently; a bad payload must
// never fail the turn. First valid plan and first valid action win.
func ClassifyAll(payloads []string, known []domain.Workout) Effects {
	var effects Effects
	for _, payload := range payloads {
		classifyPayload(payload, known, &effects)
	}
	return effects
}

func classifyPayload(payload string, known []domain.Workout, effects *Effects) {
	var env payloadEnvelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		return
	}

	switch env.Action {
	case "":
		// No discriminator but a workouts list: a bare plan proposal.
		if len(env.Workouts) > 0 && effects.Plan == nil {
			effects.Plan = &domain.WorkoutPlan{
				Name:     env.PlanName,
				Summary:  env.Summary,
				Weeks:    env.Weeks,
				Workouts: env.Workouts,
			}
		}

	case "PROPOSE_PLAN":
		if env.Plan != nil && len(env.Plan.Workouts) > 0 && effects.Plan == nil {
			effects.Plan = env.Plan
		}

	case "update_memory":
		if note := strings.TrimSpace(env.Memory); note != "" {
			effects.MemoryNotes = append(effects.MemoryNotes, note)
		}

	case "create_exercise":
		for _, ex := range env.Exercises {
			if ex.Name == "" {
				continue
			}
			group := ex.MuscleGroup
			if group == "" {
				group = domain.DefaultMuscleGroup
			}
			effects.NewExercises = append(effects.NewExercises, domain.Exercise{
				Name:        ex.Name,
				MuscleGroup: group,
				Description: ex.Description,
			})
		}

	case "delete":
		if len(env.WorkoutIDs) == 0 || effects.Action != nil {
			return
		}
		names := make([]string, len(env.WorkoutIDs))
		for i, id := range env.WorkoutIDs {
			names[i] = resolveWorkoutName(id, known)
		}
		effects.Action = &domain.PendingAction{
			Type:   domain.ActionDelete,
			Delete: &domain.DeleteAction{WorkoutIDs: env.WorkoutIDs, WorkoutNames: names},
		}

	case "update":
		if env.WorkoutID == "" || env.Fields == nil || effects.Action != nil {
			return
		}
		fields := env.Fields.toDomain()
		if fields.IsZero() {
			return
		}
		effects.Action = &domain.PendingAction{
			Type:   domain.ActionUpdate,
			Update: &domain.UpdateAction{WorkoutID: env.WorkoutID, Fields: fields},
		}

	case "log_workout":
		if env.WorkoutName == "" || effects.Action != nil {
			return
		}
		effects.Action = &domain.PendingAction{
			Type: domain.ActionLogWorkout,
			LogWorkout: &domain.LogWorkoutAction{
				WorkoutName: env.WorkoutName,
				Date:        parseDate(env.Date),
				Exercises:   toActionExercises(env.Exercises),
			},
		}

	case "add_exercise":
		if env.WorkoutID == "" || len(env.Exercises) == 0 || effects.Action != nil {
			return
		}
		effects.Action = &domain.PendingAction{
			Type: domain.ActionAddExercise,
			AddExercise: &domain.AddExerciseAction{
				WorkoutID: env.WorkoutID,
				Exercises: toActionExercises(env.Exercises),
			},
		}

	case "remove_exercise":
		if env.WorkoutID == "" || env.ExerciseName == "" || effects.Action != nil {
			return
		}
		effects.Action = &domain.PendingAction{
			Type: domain.ActionRemoveExercise,
			RemoveExercise: &domain.RemoveExerciseAction{
				WorkoutID:    env.WorkoutID,
				ExerciseName: env.ExerciseName,
			},
		}

	default:
		// Unknown discriminator: drop without error.
	}
}

func resolveWorkoutName(id string, known []domain.Workout) string {
	for _, w := range known {
		if w.ID == id {
			return w.Name
		}
	}
	return UnknownWorkoutLabel
}

func toActionExercises(in []payloadExercise) []domain.ActionExercise {
	out := make([]domain.ActionExercise, 0, len(in))
	for _, ex := range in {
		if ex.Name == "" {
			continue
		}
		out = append(out, domain.ActionExercise{
			Name:   ex.Name,
			Sets:   ex.Sets,
			Reps:   ex.Reps,
			Weight: ex.Weight,
		})
	}
	return out
}

func (f *updateFields) toDomain() domain.WorkoutUpdate {
	update := domain.WorkoutUpdate{
		Name:  f.Name,
		Color: f.Color,
		Notes: f.Notes,
	}
	if f.ScheduledDate != nil {
		if date := parseDate(*f.ScheduledDate); date != nil {
			update.ScheduledDate = date
		}
	}
	return update
}

// parseDate accepts the date shapes the model tends to emit. Unparseable
// dates resolve to nil (callers default to today) rather than an error.
func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
