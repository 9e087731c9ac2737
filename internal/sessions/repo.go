package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/workouttracker/internal/apperr"
	"github.com/2beens/workouttracker/internal/telemetry/tracing"
	"github.com/2beens/workouttracker/internal/workouts"
	"github.com/2beens/workouttracker/pkg"
)

var (
	ErrSessionNotFound      = apperr.NotFound("session")
	ErrSessionFinished      = apperr.Conflict("session already finished")
	ErrExerciseNotInWorkout = apperr.NewValidationError("exerciseId", "exercise does not belong to the session's workout")
	errUnexpectedState      = errors.New("unexpected session state")
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// find is the single accessor behind all session reads. It returns sessions
// newest first, each with its template and sets attached.
func (r *Repo) find(ctx context.Context, filter Filter) (_ []*Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.find")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	if filter.SessionID.Valid {
		span.SetAttributes(attribute.String("session.id", filter.SessionID.UUID.String()))
	}
	if filter.WorkoutID.Valid {
		span.SetAttributes(attribute.String("workout.id", filter.WorkoutID.UUID.String()))
	}
	span.SetAttributes(attribute.Bool("only-finished", filter.OnlyFinished))
	span.SetAttributes(attribute.Int("limit", filter.Limit))
	span.SetAttributes(attribute.Int("offset", filter.Offset))

	var limit *int
	if filter.Limit > 0 {
		limit = &filter.Limit
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT id, seq, workout_id, created_at, finished_at
			FROM workout_session
			WHERE ($1::uuid IS NULL OR id = $1)
				AND ($2::uuid IS NULL OR workout_id = $2)
				AND ($3::boolean IS FALSE OR finished_at IS NOT NULL)
			ORDER BY created_at DESC, seq DESC
			LIMIT $4 OFFSET $5;`,
		filter.SessionID, filter.WorkoutID, filter.OnlyFinished, limit, filter.Offset,
	)
	if err != nil {
		return nil, err
	}
	dbSessions, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (dbSession, error) {
		var s dbSession
		err := row.Scan(&s.ID, &s.Seq, &s.WorkoutID, &s.CreatedAt, &s.FinishedAt)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("collect sessions: %w", err)
	}
	if len(dbSessions) == 0 {
		return []*Session{}, nil
	}

	sessionIDs := make([]uuid.UUID, 0, len(dbSessions))
	workoutIDs := make([]uuid.UUID, 0, 1)
	seenWorkouts := make(map[uuid.UUID]bool)
	for _, s := range dbSessions {
		sessionIDs = append(sessionIDs, s.ID)
		if !seenWorkouts[s.WorkoutID] {
			seenWorkouts[s.WorkoutID] = true
			workoutIDs = append(workoutIDs, s.WorkoutID)
		}
	}

	templates, err := workouts.LoadWorkouts(ctx, r.db, workoutIDs)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	rows, err = r.db.Query(
		ctx,
		`SELECT id, session_id, exercise_id, set_number, weight, reps, difficulty, created_at
			FROM exercise_set
			WHERE session_id = ANY($1)
			ORDER BY session_id, set_number;`,
		sessionIDs,
	)
	if err != nil {
		return nil, err
	}
	dbSets, err := pgx.CollectRows(rows, scanExerciseSet)
	if err != nil {
		return nil, fmt.Errorf("collect sets: %w", err)
	}

	setsBySession := make(map[uuid.UUID][]dbExerciseSet, len(dbSessions))
	for _, s := range dbSets {
		setsBySession[s.SessionID] = append(setsBySession[s.SessionID], s)
	}

	sessions := make([]*Session, 0, len(dbSessions))
	for _, s := range dbSessions {
		template := cloneWorkout(templates[s.WorkoutID])
		sessions = append(sessions, s.toSession(template, setsBySession[s.ID]))
	}

	span.SetAttributes(attribute.Int("sessions", len(sessions)))
	return sessions, nil
}

func scanExerciseSet(row pgx.CollectableRow) (dbExerciseSet, error) {
	var s dbExerciseSet
	err := row.Scan(
		&s.ID, &s.SessionID, &s.ExerciseID, &s.SetNumber,
		&s.Weight, &s.Reps, &s.Difficulty, &s.CreatedAt,
	)
	return s, err
}

// cloneWorkout gives every session its own template snapshot.
func cloneWorkout(w *workouts.Workout) *workouts.Workout {
	if w == nil {
		return nil
	}
	c := *w
	c.Exercises = append([]workouts.WorkoutExercise(nil), w.Exercises...)
	return &c
}

func (r *Repo) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	sessions, err := r.find(ctx, Filter{
		SessionID: uuid.NullUUID{UUID: id, Valid: true},
	})
	if err != nil {
		return nil, err
	}
	if len(sessions) != 1 {
		return nil, ErrSessionNotFound
	}
	return sessions[0], nil
}

func (r *Repo) ListByWorkout(ctx context.Context, workoutID uuid.UUID) ([]*Session, error) {
	return r.find(ctx, Filter{
		WorkoutID: uuid.NullUUID{UUID: workoutID, Valid: true},
	})
}

// Previous returns the session to compare the current one against, or nil.
// By default that is the session right before the most recent one. With
// onlyFinished it is the latest finished session, since the current session
// is still open while it is being tracked.
func (r *Repo) Previous(ctx context.Context, workoutID uuid.UUID, onlyFinished bool) (*Session, error) {
	filter := Filter{
		WorkoutID: uuid.NullUUID{UUID: workoutID, Valid: true},
		Limit:     1,
		Offset:    1,
	}
	if onlyFinished {
		filter.OnlyFinished = true
		filter.Offset = 0
	}

	sessions, err := r.find(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, nil
	}
	return sessions[0], nil
}

func (r *Repo) Create(ctx context.Context, id, workoutID uuid.UUID) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("session.id", id.String()))
	span.SetAttributes(attribute.String("workout.id", workoutID.String()))

	if _, err := r.db.Exec(
		ctx,
		`INSERT INTO workout_session (id, workout_id) VALUES ($1, $2);`,
		id, workoutID,
	); err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return nil, workouts.ErrWorkoutNotFound
		}
		return nil, fmt.Errorf("insert session: %w", err)
	}

	return r.Get(ctx, id)
}

func (r *Repo) Delete(ctx context.Context, id uuid.UUID) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("session.id", id.String()))

	tag, err := r.db.Exec(ctx, `DELETE FROM workout_session WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// Finish stamps finished_at. Finishing twice yields ErrSessionFinished.
func (r *Repo) Finish(ctx context.Context, id uuid.UUID, at time.Time) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.finish")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("session.id", id.String()))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE workout_session SET finished_at = $2 WHERE id = $1 AND finished_at IS NULL;`,
		id, at,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var finished bool
	if err := r.db.QueryRow(
		ctx,
		`SELECT finished_at IS NOT NULL FROM workout_session WHERE id = $1;`,
		id,
	).Scan(&finished); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrSessionNotFound
		}
		return err
	}
	if finished {
		return ErrSessionFinished
	}
	return errUnexpectedState
}

// UpsertSet writes the set for its (session, exercise, set number) slot in a
// single statement. An existing set in that slot is overwritten. Nothing is
// written when the session is finished or the exercise is not part of the
// session's workout. inserted is false when an existing set was updated.
func (r *Repo) UpsertSet(ctx context.Context, set ExerciseSet) (_ *ExerciseSet, inserted bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.upsertset")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("session.id", set.SessionID.String()))
	span.SetAttributes(attribute.String("exercise.id", set.ExerciseID.String()))
	span.SetAttributes(attribute.Int("set.number", set.SetNumber))

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO exercise_set (id, session_id, exercise_id, set_number, weight, reps, difficulty)
			SELECT $1, s.id, e.id, $4, $5, $6, $7
			FROM workout_session s
			JOIN workout_exercise e ON e.workout_id = s.workout_id AND e.id = $3
			WHERE s.id = $2 AND s.finished_at IS NULL
		ON CONFLICT (session_id, exercise_id, set_number) DO UPDATE
			SET weight = EXCLUDED.weight, reps = EXCLUDED.reps, difficulty = EXCLUDED.difficulty
		RETURNING id, created_at, (xmax = 0);`,
		set.ID, set.SessionID, set.ExerciseID, set.SetNumber, set.Weight, set.Reps, set.Difficulty,
	).Scan(&set.ID, &set.CreatedAt, &inserted)
	if err == nil {
		span.SetAttributes(attribute.Bool("inserted", inserted))
		return &set, inserted, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		if pkg.IsCheckViolationError(err) {
			return nil, false, apperr.NewValidationError("", "set values out of range")
		}
		return nil, false, fmt.Errorf("upsert set: %w", err)
	}

	// nothing written, find out why
	var finished, exerciseInWorkout bool
	if err := r.db.QueryRow(
		ctx,
		`SELECT s.finished_at IS NOT NULL,
				EXISTS (SELECT 1 FROM workout_exercise e WHERE e.workout_id = s.workout_id AND e.id = $2)
			FROM workout_session s
			WHERE s.id = $1;`,
		set.SessionID, set.ExerciseID,
	).Scan(&finished, &exerciseInWorkout); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, ErrSessionNotFound
		}
		return nil, false, fmt.Errorf("check session: %w", err)
	}

	switch {
	case finished:
		return nil, false, ErrSessionFinished
	case !exerciseInWorkout:
		return nil, false, ErrExerciseNotInWorkout
	default:
		return nil, false, errUnexpectedState
	}
}
