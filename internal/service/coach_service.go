package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"alcyxob/fitness-coach/internal/coach"
	"alcyxob/fitness-coach/internal/domain"
	"alcyxob/fitness-coach/internal/repository"
	"alcyxob/fitness-coach/internal/store"
)

// CoachUnavailableNotice is the assistant message shown when the generate
// API cannot be reached. The conversation stays usable.
const CoachUnavailableNotice = "Sorry, I couldn't reach the coaching service just now. Please try again in a moment."

// ActionResult is the outcome of confirming a pending action. ExecError is
// a one-line failure notice when execution failed; the message itself
// carries the completed/success flags.
type ActionResult struct {
	Message   *domain.Message
	ExecError string
}

// CoachService drives the AI coach conversation for each user.
type CoachService interface {
	SendMessage(ctx context.Context, userID, text string) (*domain.Message, error)
	ConfirmAction(ctx context.Context, userID, messageID string) (*ActionResult, error)
	CancelAction(ctx context.Context, userID, messageID string) (*domain.Message, error)
	AcceptPlan(ctx context.Context, userID, messageID string) ([]domain.Workout, error)
	Conversation(ctx context.Context, userID string) ([]domain.Message, error)
}

// coachService implements CoachService. Conversations are session-scoped:
// they live in memory for the process lifetime and are never persisted.
type coachService struct {
	orch        *coach.Orchestrator
	userRepo    repository.UserRepository
	workoutRepo repository.WorkoutRepository
	exercises   ExerciseService
	logger      *slog.Logger

	mu       sync.Mutex
	sessions map[string]*coachSession
}

// coachSession is one user's conversation plus their optimistic workout
// cache and the executor bound to both.
type coachSession struct {
	conv  *coach.Conversation
	cache *store.WorkoutCache
	store coach.Store
	exec  *coach.Executor
}

// NewCoachService creates the coach service.
func NewCoachService(
	orch *coach.Orchestrator,
	userRepo repository.UserRepository,
	workoutRepo repository.WorkoutRepository,
	exercises ExerciseService,
	logger *slog.Logger,
) CoachService {
	if logger == nil {
		logger = slog.Default()
	}
	return &coachService{
		orch:        orch,
		userRepo:    userRepo,
		workoutRepo: workoutRepo,
		exercises:   exercises,
		logger:      logger,
		sessions:    make(map[string]*coachSession),
	}
}

// session returns (creating if needed) the user's session.
func (s *coachService) session(userID string) *coachSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[userID]; ok {
		return sess
	}

	cache := store.NewWorkoutCache(userID, store.NewRepositoryRemote(s.workoutRepo),
		store.WithLogger(s.logger))
	st := &userStore{
		ownerID:   userID,
		cache:     cache,
		workouts:  s.workoutRepo,
		exercises: s.exercises,
	}
	sess := &coachSession{
		conv:  coach.NewConversation(),
		cache: cache,
		store: st,
		exec:  coach.NewExecutor(st, coach.WithExecutorLogger(s.logger)),
	}
	s.sessions[userID] = sess
	return sess
}

// SendMessage runs one conversation turn: append the user message, call the
// generative API, process the response, apply immediate effects, and append
// the assistant message. A transport failure becomes a normal assistant
// message so the conversation is never corrupted.
func (s *coachService) SendMessage(ctx context.Context, userID, text string) (*domain.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrValidationFailed
	}

	sess := s.session(userID)
	if err := sess.conv.Begin(); err != nil {
		return nil, err
	}
	defer sess.conv.End()

	// The prompt wants the current list; the classifier wants it too, for
	// resolving workout names in delete confirmations.
	if err := sess.cache.Refresh(ctx); err != nil {
		s.logger.Warn("workout cache refresh failed before turn", "user_id", userID, "error", err)
	}

	memory := ""
	if user, err := s.userRepo.GetByID(ctx, userID); err == nil {
		memory = user.CoachMemory
	} else {
		s.logger.Warn("could not load coach memory", "user_id", userID, "error", err)
	}

	history := sess.conv.Messages()
	sess.conv.AppendUser(text)

	pctx := coach.PromptContext{
		Memory:   memory,
		Workouts: sess.cache.List(),
		Now:      time.Now(),
	}

	result, err := s.orch.RunTurn(ctx, history, text, pctx)
	if err != nil {
		s.logger.Warn("coach turn failed", "user_id", userID, "error", err)
		return sess.conv.AppendAssistant(CoachUnavailableNotice, nil, nil), nil
	}

	s.applyImmediateEffects(ctx, userID, sess, result.Effects)

	return sess.conv.AppendAssistant(result.Display, result.Effects.Plan, result.Effects.Action), nil
}

// applyImmediateEffects runs the confirmation-free effects of a turn:
// memory notes and new exercise definitions. Both are additive, so a
// failure is logged rather than failing the turn.
func (s *coachService) applyImmediateEffects(ctx context.Context, userID string, sess *coachSession, effects coach.Effects) {
	for _, note := range effects.MemoryNotes {
		if err := s.userRepo.AppendCoachMemory(ctx, userID, note); err != nil {
			s.logger.Warn("coach memory append failed", "user_id", userID, "error", err)
		}
	}
	for _, ex := range effects.NewExercises {
		if _, err := s.exercises.CreateExercise(ctx, userID, ex.Name, ex.MuscleGroup, ex.Description); err != nil {
			s.logger.Warn("coach exercise create failed", "user_id", userID, "name", ex.Name, "error", err)
		}
	}
}

// ConfirmAction confirms and executes a message's pending action. A repeat
// call after completion is a no-op returning the current message state.
func (s *coachService) ConfirmAction(ctx context.Context, userID, messageID string) (*ActionResult, error) {
	sess := s.session(userID)
	msg, tracker, err := sess.conv.PendingAction(messageID)
	if err != nil {
		return nil, err
	}

	switch tracker.State() {
	case coach.StateSucceeded, coach.StateFailed:
		// Already executed; idempotent no-op.
		current := *msg
		return &ActionResult{Message: &current}, nil
	}

	if err := tracker.Confirm(); err != nil {
		return nil, err
	}

	execErr := sess.exec.Execute(ctx, msg.PendingAction)
	if terr := tracker.Complete(execErr == nil); terr != nil {
		s.logger.Error("action tracker in impossible state", "message_id", messageID, "error", terr)
	}
	sess.conv.MarkActionResult(messageID, execErr == nil)

	result := &ActionResult{}
	if execErr != nil {
		s.logger.Warn("action execution failed", "user_id", userID, "message_id", messageID, "error", execErr)
		result.ExecError = fmt.Sprintf("The requested change could not be completed: %v", execErr)
	}

	updated := *msg
	updated.ActionCompleted = true
	updated.ActionSuccess = execErr == nil
	result.Message = &updated
	return result, nil
}

// CancelAction cancels a pending action. Terminal: the action can never be
// confirmed afterwards.
func (s *coachService) CancelAction(ctx context.Context, userID, messageID string) (*domain.Message, error) {
	sess := s.session(userID)
	msg, tracker, err := sess.conv.PendingAction(messageID)
	if err != nil {
		return nil, err
	}
	if err := tracker.Cancel(); err != nil {
		return nil, err
	}
	sess.conv.MarkActionCancelled(messageID)

	cancelled := *msg
	return &cancelled, nil
}

// AcceptPlan materializes a proposed plan: the weekly template is repeated
// for the plan's effective number of weeks, each workout dated to its
// day-of-week. Exercise names resolve through the library, creating
// missing entries.
func (s *coachService) AcceptPlan(ctx context.Context, userID, messageID string) ([]domain.Workout, error) {
	sess := s.session(userID)
	msg, err := sess.conv.Plan(messageID)
	if err != nil {
		return nil, err
	}
	plan := msg.WorkoutPlan

	var created []domain.Workout
	now := time.Now()
	for week := 0; week < plan.EffectiveWeeks(); week++ {
		for _, pw := range plan.Workouts {
			date := nextDayOfWeek(now, pw.DayOfWeek).AddDate(0, 0, 7*week)

			exercises := make([]domain.WorkoutExercise, 0, len(pw.Exercises))
			for _, pe := range pw.Exercises {
				resolved, rerr := coach.ResolveExercise(ctx, sess.store, pe.Name)
				if rerr != nil {
					return created, rerr
				}
				exercises = append(exercises, domain.WorkoutExercise{
					ExerciseID: resolved.ID,
					Name:       resolved.Name,
					Notes:      prescriptionNotes(pe),
					Sets:       plannedWorkoutSets(pe),
				})
			}

			workout, cerr := sess.store.CreateWorkout(ctx, domain.Workout{
				Name:          pw.Name,
				ScheduledDate: date,
				Color:         pw.Color,
				Exercises:     exercises,
			})
			if cerr != nil {
				return created, cerr
			}
			created = append(created, *workout)
		}
	}

	sess.conv.MarkActionResult(messageID, true)
	return created, nil
}

// Conversation returns the user's message history, oldest first.
func (s *coachService) Conversation(ctx context.Context, userID string) ([]domain.Message, error) {
	return s.session(userID).conv.Messages(), nil
}

// --- plan materialization helpers ---

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// nextDayOfWeek returns the next occurrence of the labeled weekday, today
// included. Unknown labels fall back to today.
func nextDayOfWeek(from time.Time, label string) time.Time {
	target, ok := weekdays[strings.ToLower(strings.TrimSpace(label))]
	if !ok {
		return from
	}
	offset := (int(target) - int(from.Weekday()) + 7) % 7
	return from.AddDate(0, 0, offset)
}

func prescriptionNotes(pe domain.PlannedExercise) string {
	var parts []string
	if pe.Tempo != "" {
		parts = append(parts, "tempo "+pe.Tempo)
	}
	if pe.Rest != "" {
		parts = append(parts, "rest "+pe.Rest)
	}
	if pe.Notes != "" {
		parts = append(parts, pe.Notes)
	}
	return strings.Join(parts, ", ")
}

func plannedWorkoutSets(pe domain.PlannedExercise) []domain.WorkoutSet {
	count := pe.Sets
	if count < 1 {
		count = 1
	}
	sets := make([]domain.WorkoutSet, count)
	for i := range sets {
		sets[i] = domain.WorkoutSet{Reps: pe.Reps, Weight: pe.Weight}
	}
	return sets
}

// --- coach.Store implementation over one user's cache and repositories ---

// userStore routes workout create/delete through the optimistic cache and
// everything else to the repositories, scoped to one owner.
type userStore struct {
	ownerID   string
	cache     *store.WorkoutCache
	workouts  repository.WorkoutRepository
	exercises ExerciseService
}

func (u *userStore) CreateWorkout(ctx context.Context, workout domain.Workout) (*domain.Workout, error) {
	return u.cache.Create(ctx, workout)
}

func (u *userStore) DeleteWorkout(ctx context.Context, workoutID string) error {
	return u.cache.Delete(ctx, workoutID)
}

func (u *userStore) UpdateWorkout(ctx context.Context, workoutID string, fields domain.WorkoutUpdate) error {
	err := u.workouts.Update(ctx, workoutID, u.ownerID, fields)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrWorkoutNotFound
	}
	return err
}

func (u *userStore) AddExercisesToWorkout(ctx context.Context, workoutID string, exercises []domain.WorkoutExercise) error {
	err := u.workouts.AddExercises(ctx, workoutID, u.ownerID, exercises)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrWorkoutNotFound
	}
	return err
}

func (u *userStore) RemoveExerciseFromWorkout(ctx context.Context, workoutID, exerciseID string) error {
	err := u.workouts.RemoveExercise(ctx, workoutID, u.ownerID, exerciseID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrWorkoutNotFound
	}
	return err
}

func (u *userStore) CreateExercise(ctx context.Context, name, muscleGroup, description string) (*domain.Exercise, error) {
	return u.exercises.CreateExercise(ctx, u.ownerID, name, muscleGroup, description)
}

func (u *userStore) FindExerciseByName(ctx context.Context, query string) (*domain.Exercise, error) {
	return u.exercises.FindByName(ctx, u.ownerID, query)
}

func (u *userStore) Refresh(ctx context.Context) error {
	return u.cache.Refresh(ctx)
}
