package domain

// DefaultPlanWeeks bounds how many times the weekly template is repeated
// when the plan does not say.
const DefaultPlanWeeks = 4

// WorkoutPlan is a multi-week schedule proposed by the coach. It is a
// proposal only: nothing is written to the store until the user accepts it.
type WorkoutPlan struct {
	Name     string           `json:"plan_name"`
	Summary  string           `json:"summary,omitempty"`
	Weeks    int              `json:"weeks,omitempty"`
	Workouts []PlannedWorkout `json:"workouts"`
}

// PlannedWorkout is one workout slot in the weekly template of a plan.
type PlannedWorkout struct {
	Name      string            `json:"name"`
	DayOfWeek string            `json:"day_of_week,omitempty"` // Label, e.g. "Monday"
	Color     string            `json:"color,omitempty"`
	Exercises []PlannedExercise `json:"exercises"`
}

// PlannedExercise is an exercise prescription within a planned workout.
type PlannedExercise struct {
	Name   string  `json:"name"`
	Sets   int     `json:"sets"`
	Reps   int     `json:"reps"`
	Weight float64 `json:"weight,omitempty"`
	Tempo  string  `json:"tempo,omitempty"`
	Rest   string  `json:"rest,omitempty"`
	Notes  string  `json:"notes,omitempty"`
}

// EffectiveWeeks returns the number of weekly repetitions to materialize.
func (p *WorkoutPlan) EffectiveWeeks() int {
	if p.Weeks < 1 {
		return DefaultPlanWeeks
	}
	return p.Weeks
}
