package coach

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"alcyxob/fitness-coach/internal/domain"
)

// CancelledSuffix is appended to a message's display text when its pending
// action is cancelled.
const CancelledSuffix = "\n\n(Action cancelled.)"

var (
	// ErrTurnInFlight rejects overlapping orchestration calls for the same
	// conversation. One outstanding generate request at a time.
	ErrTurnInFlight = errors.New("a coach request is already in flight for this conversation")

	// ErrNoSuchMessage is returned for an unknown message ID.
	ErrNoSuchMessage = errors.New("no such message in this conversation")

	// ErrNoPendingAction is returned when a message has no action to
	// confirm or cancel.
	ErrNoPendingAction = errors.New("message carries no pending action")
)

// Conversation is one user's session-scoped message history with the coach.
// Messages are append-only: no error path ever deletes one. Each message
// with a pending action owns a confirmation Tracker.
type Conversation struct {
	mu       sync.Mutex
	inFlight bool
	messages []*domain.Message
	trackers map[string]*Tracker // keyed by message ID
}

// NewConversation returns an empty conversation.
func NewConversation() *Conversation {
	return &Conversation{
		trackers: make(map[string]*Tracker),
	}
}

// Begin claims the single in-flight slot. Callers must End after the turn
// resolves, success or not.
func (c *Conversation) Begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight {
		return ErrTurnInFlight
	}
	c.inFlight = true
	return nil
}

// End releases the in-flight slot.
func (c *Conversation) End() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false
}

// AppendUser appends a user message and returns it.
func (c *Conversation) AppendUser(content string) *domain.Message {
	msg := &domain.Message{
		ID:        uuid.New().String(),
		Role:      domain.RoleUser,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	c.mu.Lock()
	c.messages = append(c.messages, msg)
	c.mu.Unlock()
	return msg
}

// AppendAssistant appends an assistant message. When the message carries a
// pending action, a Tracker is created for it in the Pending state.
func (c *Conversation) AppendAssistant(content string, plan *domain.WorkoutPlan, action *domain.PendingAction) *domain.Message {
	msg := &domain.Message{
		ID:            uuid.New().String(),
		Role:          domain.RoleAssistant,
		Content:       content,
		WorkoutPlan:   plan,
		PendingAction: action,
		CreatedAt:     time.Now().UTC(),
	}
	c.mu.Lock()
	c.messages = append(c.messages, msg)
	if action != nil {
		c.trackers[msg.ID] = NewTracker()
	}
	c.mu.Unlock()
	return msg
}

// Messages returns a snapshot of the conversation, oldest first.
func (c *Conversation) Messages() []domain.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Message, len(c.messages))
	for i, m := range c.messages {
		out[i] = *m
	}
	return out
}

// PendingAction returns the message and tracker for a message that carries
// a pending action.
func (c *Conversation) PendingAction(messageID string) (*domain.Message, *Tracker, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	msg := c.findLocked(messageID)
	if msg == nil {
		return nil, nil, ErrNoSuchMessage
	}
	tracker, ok := c.trackers[messageID]
	if !ok || msg.PendingAction == nil {
		return nil, nil, ErrNoPendingAction
	}
	return msg, tracker, nil
}

// Plan returns the message carrying a proposed workout plan.
func (c *Conversation) Plan(messageID string) (*domain.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	msg := c.findLocked(messageID)
	if msg == nil {
		return nil, ErrNoSuchMessage
	}
	if msg.WorkoutPlan == nil {
		return nil, ErrNoSuchMessage
	}
	return msg, nil
}

// MarkActionResult records the execution outcome on the owning message.
// ActionCompleted transitions monotonically; it is never unset.
func (c *Conversation) MarkActionResult(messageID string, success bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if msg := c.findLocked(messageID); msg != nil {
		msg.ActionCompleted = true
		msg.ActionSuccess = success
	}
}

// MarkActionCancelled records cancellation by appending the fixed suffix to
// the display text.
func (c *Conversation) MarkActionCancelled(messageID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if msg := c.findLocked(messageID); msg != nil {
		msg.Content += CancelledSuffix
		msg.ActionCompleted = true
	}
}

func (c *Conversation) findLocked(messageID string) *domain.Message {
	for _, m := range c.messages {
		if m.ID == messageID {
			return m
		}
	}
	return nil
}
