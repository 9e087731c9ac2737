package sessions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/workouttracker/internal/apperr"
	"github.com/2beens/workouttracker/internal/auth"
	"github.com/2beens/workouttracker/internal/telemetry/metrics"
	"github.com/2beens/workouttracker/internal/telemetry/tracing"
	"github.com/2beens/workouttracker/internal/workouts"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=sessions_test

type sessionsRepo interface {
	Get(ctx context.Context, id uuid.UUID) (*Session, error)
	ListByWorkout(ctx context.Context, workoutID uuid.UUID) ([]*Session, error)
	Previous(ctx context.Context, workoutID uuid.UUID, onlyFinished bool) (*Session, error)
	Create(ctx context.Context, id, workoutID uuid.UUID) (*Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Finish(ctx context.Context, id uuid.UUID, at time.Time) error
	UpsertSet(ctx context.Context, set ExerciseSet) (*ExerciseSet, bool, error)
}

// workoutsProvider resolves a workout owned by the caller, failing with
// NotFound for missing and foreign workouts alike.
type workoutsProvider interface {
	GetWorkout(ctx context.Context, id uuid.UUID) (*workouts.Workout, error)
}

type Service struct {
	repo           sessionsRepo
	workouts       workoutsProvider
	metricsManager *metrics.Manager
	now            func() time.Time
}

func NewService(repo sessionsRepo, workouts workoutsProvider, metricsManager *metrics.Manager) *Service {
	return &Service{
		repo:           repo,
		workouts:       workouts,
		metricsManager: metricsManager,
		now:            time.Now,
	}
}

func (s *Service) StartSession(ctx context.Context, workoutID uuid.UUID) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.sessions.start")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", workoutID.String()))

	if _, err := s.workouts.GetWorkout(ctx, workoutID); err != nil {
		return nil, err
	}

	session, err := s.repo.Create(ctx, uuid.New(), workoutID)
	if err != nil {
		return nil, err
	}

	s.metricsManager.CounterSessionsStarted.Inc()
	log.Debugf("session [%s] started for workout [%s]", session.ID, workoutID)
	return session, nil
}

func (s *Service) GetSession(ctx context.Context, id uuid.UUID) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.sessions.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("session.id", id.String()))

	return s.ownedSession(ctx, id)
}

func (s *Service) ListSessions(ctx context.Context, workoutID uuid.UUID) (_ []*Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.sessions.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", workoutID.String()))

	if _, err := s.workouts.GetWorkout(ctx, workoutID); err != nil {
		return nil, err
	}

	return s.repo.ListByWorkout(ctx, workoutID)
}

// GetPreviousSession returns nil without error when there is no previous
// session.
func (s *Service) GetPreviousSession(ctx context.Context, workoutID uuid.UUID, onlyFinished bool) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.sessions.previous")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", workoutID.String()))
	span.SetAttributes(attribute.Bool("only-finished", onlyFinished))

	if _, err := s.workouts.GetWorkout(ctx, workoutID); err != nil {
		return nil, err
	}

	return s.repo.Previous(ctx, workoutID, onlyFinished)
}

func (s *Service) DeleteSession(ctx context.Context, id uuid.UUID) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.sessions.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("session.id", id.String()))

	if _, err := s.ownedSession(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	log.Debugf("session [%s] deleted", id)
	return nil
}

func (s *Service) FinishSession(ctx context.Context, id uuid.UUID) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.sessions.finish")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("session.id", id.String()))

	session, err := s.ownedSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Finished() {
		return nil, ErrSessionFinished
	}

	finishedAt := s.now()
	if err := s.repo.Finish(ctx, id, finishedAt); err != nil {
		return nil, err
	}

	s.metricsManager.CounterSessionsFinished.Inc()
	session.FinishedAt = &finishedAt
	return session, nil
}

// LogSet records the set for its slot, overwriting a previous log of the
// same (session, exercise, set number).
func (s *Service) LogSet(ctx context.Context, input LogSetInput) (_ *ExerciseSet, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.sessions.logset")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("session.id", input.SessionID.String()))
	span.SetAttributes(attribute.String("exercise.id", input.ExerciseID.String()))
	span.SetAttributes(attribute.Int("set.number", input.SetNumber))

	if err := input.Validate(); err != nil {
		return nil, err
	}

	session, err := s.ownedSession(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	if session.Finished() {
		return nil, ErrSessionFinished
	}
	exercise := session.Workout.Exercise(input.ExerciseID)
	if exercise == nil {
		return nil, ErrExerciseNotInWorkout
	}

	set, inserted, err := s.repo.UpsertSet(ctx, ExerciseSet{
		ID:         uuid.New(),
		SessionID:  input.SessionID,
		ExerciseID: input.ExerciseID,
		SetNumber:  input.SetNumber,
		Weight:     input.Weight,
		Reps:       input.Reps,
		Difficulty: input.Difficulty,
	})
	if err != nil {
		return nil, err
	}
	set.Exercise = exercise

	action := "updated"
	if inserted {
		action = "inserted"
	}
	s.metricsManager.CounterSetsLogged.With(prometheus.Labels{"action": action}).Inc()
	log.Tracef("set %d of [%s] in session [%s] %s", set.SetNumber, exercise.Name, set.SessionID, action)

	return set, nil
}

func (s *Service) Summary(ctx context.Context, id uuid.UUID) (_ *Summary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.sessions.summary")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("session.id", id.String()))

	session, err := s.ownedSession(ctx, id)
	if err != nil {
		return nil, err
	}

	summary := Summarize(session)
	return &summary, nil
}

// ownedSession loads the session and checks the caller owns its workout.
func (s *Service) ownedSession(ctx context.Context, id uuid.UUID) (*Session, error) {
	userID, err := auth.UserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	session, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !session.OwnedBy(userID) {
		return nil, apperr.ErrAccessDenied
	}
	return session, nil
}
