package coach_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"alcyxob/fitness-coach/internal/coach"
	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGenerator returns a canned response and records the request.
type fakeGenerator struct {
	response string
	err      error
	lastReq  llm.GenerateRequest
}

func (f *fakeGenerator) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &llm.GenerateResponse{Text: f.response, FinishReason: "STOP"}, nil
}

func promptContext() coach.PromptContext {
	return coach.PromptContext{
		Now: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
		Workouts: []domain.Workout{
			{ID: "w1", Name: "Leg Day", ScheduledDate: time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC)},
		},
	}
}

func TestRunTurn_ProseAndAction(t *testing.T) {
	gen := &fakeGenerator{
		response: "Sure! I'll delete Leg Day for you.\n```action\n{\"action\":\"delete\",\"workout_ids\":[\"w1\"]}\n```",
	}
	orch := coach.NewOrchestrator(gen)

	result, err := orch.RunTurn(context.Background(), nil, "delete leg day", promptContext())

	require.NoError(t, err)
	assert.Equal(t, "Sure! I'll delete Leg Day for you.", result.Display)
	assert.False(t, result.Truncated)
	require.NotNil(t, result.Effects.Action)
	assert.Equal(t, domain.ActionDelete, result.Effects.Action.Type)
	assert.Equal(t, []string{"Leg Day"}, result.Effects.Action.Delete.WorkoutNames)
}

func TestRunTurn_HistoryRolesMapped(t *testing.T) {
	gen := &fakeGenerator{response: "Sounds good."}
	orch := coach.NewOrchestrator(gen)
	history := []domain.Message{
		{Role: domain.RoleUser, Content: "hello"},
		{Role: domain.RoleAssistant, Content: "hi there"},
	}

	_, err := orch.RunTurn(context.Background(), history, "next question", promptContext())

	require.NoError(t, err)
	require.Len(t, gen.lastReq.Turns, 3)
	assert.Equal(t, llm.TurnRoleUser, gen.lastReq.Turns[0].Role)
	assert.Equal(t, llm.TurnRoleModel, gen.lastReq.Turns[1].Role)
	assert.Equal(t, llm.TurnRoleUser, gen.lastReq.Turns[2].Role)
	assert.Equal(t, "next question", gen.lastReq.Turns[2].Text)
}

func TestRunTurn_SystemPromptCarriesWorkoutIDs(t *testing.T) {
	gen := &fakeGenerator{response: "ok"}
	orch := coach.NewOrchestrator(gen)

	_, err := orch.RunTurn(context.Background(), nil, "hi", promptContext())

	require.NoError(t, err)
	assert.Contains(t, gen.lastReq.SystemInstruction, "w1 | Leg Day | 2026-09-03")
	assert.Contains(t, gen.lastReq.SystemInstruction, "2026-09-01")
}

func TestRunTurn_PlanKeywordExtendsPrompt(t *testing.T) {
	gen := &fakeGenerator{response: "ok"}
	orch := coach.NewOrchestrator(gen)

	_, err := orch.RunTurn(context.Background(), nil, "build me a 4 week program", promptContext())
	require.NoError(t, err)
	assert.Contains(t, gen.lastReq.SystemInstruction, "PROPOSE_PLAN")

	_, err = orch.RunTurn(context.Background(), nil, "how was my squat form", promptContext())
	require.NoError(t, err)
	assert.NotContains(t, gen.lastReq.SystemInstruction, "PROPOSE_PLAN")
}

func TestRunTurn_TruncatedPayloadWarnsWhenNothingValid(t *testing.T) {
	gen := &fakeGenerator{
		response: "Here is your plan:\n```json\n{\"plan_name\":\"Base\",\"workouts\":[{\"na",
	}
	orch := coach.NewOrchestrator(gen)

	result, err := orch.RunTurn(context.Background(), nil, "make a plan", promptContext())

	require.NoError(t, err)
	assert.True(t, result.Truncated)
	assert.True(t, result.Effects.Empty())
	assert.Contains(t, result.Display, "Here is your plan:")
	assert.Contains(t, result.Display, coach.TruncationWarning)
	assert.NotContains(t, result.Display, "```")
}

func TestRunTurn_TruncatedButValidPayloadDoesNotWarn(t *testing.T) {
	gen := &fakeGenerator{
		response: "Deleting now.\n```action\n{\"action\":\"delete\",\"workout_ids\":[\"w1\"]}\n```\n```json\n{\"cut",
	}
	orch := coach.NewOrchestrator(gen)

	result, err := orch.RunTurn(context.Background(), nil, "delete it", promptContext())

	require.NoError(t, err)
	assert.True(t, result.Truncated)
	require.NotNil(t, result.Effects.Action)
	assert.NotContains(t, result.Display, coach.TruncationWarning)
}

func TestRunTurn_GenerateErrorPropagates(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("api down")}
	orch := coach.NewOrchestrator(gen)

	_, err := orch.RunTurn(context.Background(), nil, "hi", promptContext())

	assert.Error(t, err)
}
