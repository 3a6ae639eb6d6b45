package coach

import (
	"context"
	"log/slog"

	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/llm"
)

// Generator is the external generative-language API surface the
// orchestrator depends on.
type Generator interface {
	Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error)
}

// TurnResult is what one completed round trip produced: the display text and
// the classified effects, already filtered and validated.
type TurnResult struct {
	Display   string
	Effects   Effects
	Truncated bool
}

// Orchestrator composes outbound generate requests from conversation state
// and turns raw responses into TurnResults via the segmenter and classifier.
type Orchestrator struct {
	gen      Generator
	selector PromptSelector
	logger   *slog.Logger
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithSelector overrides the default prompt selector.
func WithSelector(s PromptSelector) OrchestratorOption {
	return func(o *Orchestrator) {
		o.selector = s
	}
}

// WithOrchestratorLogger sets the logger.
func WithOrchestratorLogger(logger *slog.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// NewOrchestrator creates an orchestrator over the given generator.
func NewOrchestrator(gen Generator, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		gen:      gen,
		selector: KeywordSelector{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// RunTurn sends the conversation (ending with userText) to the generative
// API and processes the complete response body. The generate call is the
// only suspend point; everything after it is pure segmentation and
// classification.
func (o *Orchestrator) RunTurn(ctx context.Context, history []domain.Message, userText string, pctx PromptContext) (*TurnResult, error) {
	turns := make([]llm.Turn, 0, len(history)+1)
	for _, m := range history {
		role := llm.TurnRoleUser
		if m.Role == domain.RoleAssistant {
			role = llm.TurnRoleModel
		}
		turns = append(turns, llm.Turn{Role: role, Text: m.Content})
	}
	turns = append(turns, llm.Turn{Role: llm.TurnRoleUser, Text: userText})

	resp, err := o.gen.Generate(ctx, llm.GenerateRequest{
		SystemInstruction: o.selector.Select(userText, pctx),
		Turns:             turns,
	})
	if err != nil {
		return nil, err
	}

	seg := Segment(resp.Text)
	effects := ClassifyAll(seg.Payloads, pctx.Workouts)

	display := seg.Display
	if seg.Truncated && effects.Empty() {
		// A truncated payload with nothing valid next to it degrades
		// loudly: silence here would look like the coach simply ignored
		// the request.
		if display != "" {
			display += "\n\n"
		}
		display += TruncationWarning
	}

	o.logger.Debug("coach turn processed",
		"payloads", len(seg.Payloads),
		"truncated", seg.Truncated,
		"has_plan", effects.Plan != nil,
		"has_action", effects.Action != nil)

	return &TurnResult{
		Display:   display,
		Effects:   effects,
		Truncated: seg.Truncated,
	}, nil
}
