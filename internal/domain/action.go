package domain

import (
	"errors"
	"time"
)

// ActionType enumerates the mutation intents that require user confirmation
// before execution. Additive, low-risk effects (new exercise definitions,
// memory notes) are not actions; they execute at classification time.
type ActionType string

const (
	ActionDelete         ActionType = "delete"
	ActionUpdate         ActionType = "update"
	ActionLogWorkout     ActionType = "log_workout"
	ActionAddExercise    ActionType = "add_exercise"
	ActionRemoveExercise ActionType = "remove_exercise"
)

// ErrInvalidAction is returned when a PendingAction does not carry exactly
// the payload its type demands.
var ErrInvalidAction = errors.New("pending action payload does not match its type")

// PendingAction is a classified, not-yet-executed mutation intent. Exactly
// one payload field is non-nil, the one matching Type; Validate enforces
// this so downstream code can switch exhaustively instead of field-sniffing.
type PendingAction struct {
	Type ActionType `json:"type"`

	Delete         *DeleteAction         `json:"delete,omitempty"`
	Update         *UpdateAction         `json:"update,omitempty"`
	LogWorkout     *LogWorkoutAction     `json:"logWorkout,omitempty"`
	AddExercise    *AddExerciseAction    `json:"addExercise,omitempty"`
	RemoveExercise *RemoveExerciseAction `json:"removeExercise,omitempty"`
}

// DeleteAction removes one or more workouts.
type DeleteAction struct {
	WorkoutIDs []string `json:"workoutIds"`
	// WorkoutNames are resolved display names, index-aligned with WorkoutIDs.
	// Unknown IDs resolve to a placeholder label, never an error.
	WorkoutNames []string `json:"workoutNames"`
}

// UpdateAction changes fields of one workout.
type UpdateAction struct {
	WorkoutID string        `json:"workoutId"`
	Fields    WorkoutUpdate `json:"fields"`
}

// LogWorkoutAction records a workout as already completed.
type LogWorkoutAction struct {
	WorkoutName string           `json:"workoutName"`
	Date        *time.Time       `json:"date,omitempty"` // Defaults to today at execution
	Exercises   []ActionExercise `json:"exercises"`
}

// AddExerciseAction attaches exercises (not yet completed) to an existing workout.
type AddExerciseAction struct {
	WorkoutID string           `json:"workoutId"`
	Exercises []ActionExercise `json:"exercises"`
}

// RemoveExerciseAction detaches one exercise from a workout by name.
type RemoveExerciseAction struct {
	WorkoutID    string `json:"workoutId"`
	ExerciseName string `json:"exerciseName"`
}

// ActionExercise is an exercise reference inside an action payload. Named,
// not ID'd: the executor resolves names to library entries, creating them
// when nothing matches.
type ActionExercise struct {
	Name   string  `json:"name"`
	Sets   int     `json:"sets"`
	Reps   int     `json:"reps"`
	Weight float64 `json:"weight,omitempty"`
}

// Validate checks the exactly-one-payload invariant.
func (a *PendingAction) Validate() error {
	set := 0
	if a.Delete != nil {
		set++
	}
	if a.Update != nil {
		set++
	}
	if a.LogWorkout != nil {
		set++
	}
	if a.AddExercise != nil {
		set++
	}
	if a.RemoveExercise != nil {
		set++
	}
	if set != 1 {
		return ErrInvalidAction
	}
	switch a.Type {
	case ActionDelete:
		if a.Delete == nil {
			return ErrInvalidAction
		}
	case ActionUpdate:
		if a.Update == nil {
			return ErrInvalidAction
		}
	case ActionLogWorkout:
		if a.LogWorkout == nil {
			return ErrInvalidAction
		}
	case ActionAddExercise:
		if a.AddExercise == nil {
			return ErrInvalidAction
		}
	case ActionRemoveExercise:
		if a.RemoveExercise == nil {
			return ErrInvalidAction
		}
	default:
		return ErrInvalidAction
	}
	return nil
}
