package api

import (
	"alcyxob/fitness-coach/internal/coach"
	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/service"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CoachHandler holds the coach service dependency.
type CoachHandler struct {
	coachService service.CoachService
}

// NewCoachHandler creates a new CoachHandler.
func NewCoachHandler(coachService service.CoachService) *CoachHandler {
	return &CoachHandler{coachService: coachService}
}

// --- DTOs ---

// SendMessageRequest defines the expected JSON for a coach message.
type SendMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

// MessageResponse is the DTO for one conversation message.
type MessageResponse struct {
	ID              string                `json:"id"`
	Role            domain.Role           `json:"role"`
	Content         string                `json:"content"`
	WorkoutPlan     *domain.WorkoutPlan   `json:"workoutPlan,omitempty"`
	PendingAction   *domain.PendingAction `json:"pendingAction,omitempty"`
	ActionCompleted bool                  `json:"actionCompleted"`
	ActionSuccess   bool                  `json:"actionSuccess"`
	CreatedAt       time.Time             `json:"createdAt"`
}

// ActionResultResponse carries the message state after a confirmation,
// plus a one-line failure notice when execution failed.
type ActionResultResponse struct {
	Message MessageResponse `json:"message"`
	Error   string          `json:"error,omitempty"`
}

// MapMessageToResponse converts a domain.Message to MessageResponse DTO.
func MapMessageToResponse(m *domain.Message) MessageResponse {
	if m == nil {
		return MessageResponse{}
	}
	return MessageResponse{
		ID:              m.ID,
		Role:            m.Role,
		Content:         m.Content,
		WorkoutPlan:     m.WorkoutPlan,
		PendingAction:   m.PendingAction,
		ActionCompleted: m.ActionCompleted,
		ActionSuccess:   m.ActionSuccess,
		CreatedAt:       m.CreatedAt,
	}
}

// --- Handler Methods ---

// SendMessage handles POST /coach/messages.
func (h *CoachHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	msg, err := h.coachService.SendMessage(c.Request.Context(), userID, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, coach.ErrTurnInFlight):
			abortWithError(c, http.StatusConflict, "A coach reply is still being generated")
		case errors.Is(err, service.ErrValidationFailed):
			abortWithError(c, http.StatusBadRequest, "Message text cannot be empty")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to process message")
		}
		return
	}

	c.JSON(http.StatusOK, MapMessageToResponse(msg))
}

// GetConversation handles GET /coach/messages.
func (h *CoachHandler) GetConversation(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	messages, err := h.coachService.Conversation(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load conversation")
		return
	}

	responses := make([]MessageResponse, len(messages))
	for i := range messages {
		responses[i] = MapMessageToResponse(&messages[i])
	}
	c.JSON(http.StatusOK, responses)
}

// ConfirmAction handles POST /coach/messages/:id/confirm.
func (h *CoachHandler) ConfirmAction(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	result, err := h.coachService.ConfirmAction(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		handleActionError(c, err)
		return
	}

	c.JSON(http.StatusOK, ActionResultResponse{
		Message: MapMessageToResponse(result.Message),
		Error:   result.ExecError,
	})
}

// CancelAction handles POST /coach/messages/:id/cancel.
func (h *CoachHandler) CancelAction(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	msg, err := h.coachService.CancelAction(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		handleActionError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapMessageToResponse(msg))
}

// AcceptPlan handles POST /coach/messages/:id/accept-plan.
func (h *CoachHandler) AcceptPlan(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	created, err := h.coachService.AcceptPlan(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, coach.ErrNoSuchMessage) {
			abortWithError(c, http.StatusNotFound, "No plan proposal on that message")
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to create plan workouts")
		return
	}

	c.JSON(http.StatusCreated, MapWorkoutsToResponse(created))
}

func handleActionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, coach.ErrNoSuchMessage), errors.Is(err, coach.ErrNoPendingAction):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, coach.ErrInvalidTransition):
		abortWithError(c, http.StatusConflict, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Failed to process action")
	}
}
