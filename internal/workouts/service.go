package workouts

import (
	"context"
	"errors"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/workouttracker/internal/apperr"
	"github.com/2beens/workouttracker/internal/auth"
	"github.com/2beens/workouttracker/internal/telemetry/metrics"
	"github.com/2beens/workouttracker/internal/telemetry/tracing"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=workouts_test

type workoutsRepo interface {
	Add(ctx context.Context, w Workout) (*Workout, error)
	List(ctx context.Context, userID uuid.UUID) ([]Workout, error)
	Get(ctx context.Context, id uuid.UUID) (*Workout, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo           workoutsRepo
	metricsManager *metrics.Manager
}

func NewService(repo workoutsRepo, metricsManager *metrics.Manager) *Service {
	return &Service{
		repo:           repo,
		metricsManager: metricsManager,
	}
}

func (s *Service) CreateWorkout(ctx context.Context, input CreateWorkoutInput) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	userID, err := auth.UserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	w := Workout{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      input.Name,
		Exercises: make([]WorkoutExercise, 0, len(input.Exercises)),
	}
	for i, e := range input.Exercises {
		w.Exercises = append(w.Exercises, WorkoutExercise{
			ID:            uuid.New(),
			WorkoutID:     w.ID,
			Name:          e.Name,
			OrderIndex:    i,
			TargetSets:    e.TargetSets,
			TargetRepsMin: e.TargetRepsMin,
			TargetRepsMax: e.TargetRepsMax,
		})
	}
	span.SetAttributes(attribute.String("workout.id", w.ID.String()))

	created, err := s.repo.Add(ctx, w)
	if err != nil {
		return nil, err
	}

	s.metricsManager.CounterWorkoutsCreated.Inc()
	log.Debugf("workout [%s] created by [%s] with %d exercises", created.ID, userID, len(created.Exercises))
	return created, nil
}

func (s *Service) ListWorkouts(ctx context.Context) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	userID, err := auth.UserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	return s.repo.List(ctx, userID)
}

// GetWorkout hides workouts of other users behind NotFound.
func (s *Service) GetWorkout(ctx context.Context, id uuid.UUID) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", id.String()))

	userID, err := auth.UserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	w, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if w.UserID != userID {
		return nil, ErrWorkoutNotFound
	}
	return w, nil
}

// OwnedWorkout loads a workout and checks the caller owns it. Unlike
// GetWorkout, a foreign workout yields AccessDenied.
func (s *Service) OwnedWorkout(ctx context.Context, id uuid.UUID) (*Workout, error) {
	userID, err := auth.UserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	w, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if w.UserID != userID {
		return nil, apperr.ErrAccessDenied
	}
	return w, nil
}

func (s *Service) DeleteWorkout(ctx context.Context, id uuid.UUID) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", id.String()))

	if _, err := s.OwnedWorkout(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			// deleted concurrently
			return ErrWorkoutNotFound
		}
		return err
	}

	log.Debugf("workout [%s] deleted", id)
	return nil
}
