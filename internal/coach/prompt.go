package coach

import (
	"fmt"
	"strings"
	"time"

	"alcyxob/fitness-coach/internal/domain"
)

// basePrompt is the coaching persona plus the structured-payload contract
// for data mutations. Payloads ride inside ```action fences so the
// segmenter can strip them from the display text.
const basePrompt = `You are a knowledgeable, encouraging personal fitness coach inside a workout tracking app.
Answer in plain conversational text. When the user asks you to change their data, reply with a short
confirmation sentence AND exactly one structured payload inside a fenced block tagged "action".

Payload shapes (JSON object, one per block):
- {"action":"delete","workout_ids":["<id>", ...]}
- {"action":"update","workout_id":"<id>","fields":{"name"?,"scheduled_date"?,"color"?,"notes"?}}
- {"action":"log_workout","workout_name":"...","date":"YYYY-MM-DD"?,"exercises":[{"name","sets","reps","weight"?}]}
- {"action":"add_exercise","workout_id":"<id>","exercises":[{"name","sets","reps","weight"?}]}
- {"action":"remove_exercise","workout_id":"<id>","exercise_name":"..."}
- {"action":"create_exercise","exercises":[{"name","muscle_group"?,"description"?}]}
- {"action":"update_memory","memory":"one short fact about the user worth remembering"}

Never invent workout IDs; only use IDs from the workout list below. Destructive changes are
confirmed by the user before they run, so do not ask for confirmation yourself.`

// planPrompt extends the contract with the multi-week plan proposal shape.
const planPrompt = `

When the user asks for a training plan or program, propose one as a payload inside a fenced block:
{"action":"PROPOSE_PLAN","plan":{"plan_name":"...","summary":"...","weeks":4,
 "workouts":[{"name":"...","day_of_week":"Monday","color":"#4A90D9",
   "exercises":[{"name":"...","sets":3,"reps":10,"weight"?,"tempo"?,"rest"?,"notes"?}]}]}}
The workouts array is one week's template; "weeks" is how often it repeats.`

// planKeywords selects the plan portion of the prompt. The heuristic is an
// external collaborator as far as the pipeline is concerned; this default
// keeps prompts small when no plan is being discussed.
var planKeywords = []string{"plan", "program", "programme", "routine", "schedule", "split"}

// PromptContext is everything the prompt assembly needs about the user.
type PromptContext struct {
	Memory   string
	Workouts []domain.Workout
	Now      time.Time
}

// PromptSelector chooses the system prompt to send for a given user message.
type PromptSelector interface {
	Select(userText string, pctx PromptContext) string
}

// KeywordSelector is the default PromptSelector: the base contract always,
// the plan contract only when the message sounds like a plan request.
type KeywordSelector struct{}

// Select implements PromptSelector.
func (KeywordSelector) Select(userText string, pctx PromptContext) string {
	prompt := basePrompt
	lower := strings.ToLower(userText)
	for _, kw := range planKeywords {
		if strings.Contains(lower, kw) {
			prompt += planPrompt
			break
		}
	}
	return prompt + userContext(pctx)
}

// userContext renders the per-user tail of the system prompt: today's date,
// persisted memory, and the current workout list with real IDs.
func userContext(pctx PromptContext) string {
	var b strings.Builder

	fmt.Fprintf(&b, "\n\nToday's date: %s.", pctx.Now.Format("2006-01-02"))

	if pctx.Memory != "" {
		b.WriteString("\n\nWhat you know about this user:\n")
		b.WriteString(pctx.Memory)
	}

	if len(pctx.Workouts) > 0 {
		b.WriteString("\n\nThe user's workouts (id | name | date):\n")
		for _, w := range pctx.Workouts {
			fmt.Fprintf(&b, "- %s | %s | %s\n", w.ID, w.Name, w.ScheduledDate.Format("2006-01-02"))
		}
	} else {
		b.WriteString("\n\nThe user has no workouts yet.")
	}

	return b.String()
}
