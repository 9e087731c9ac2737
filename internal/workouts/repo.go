package workouts

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/workouttracker/internal/apperr"
	"github.com/2beens/workouttracker/internal/telemetry/tracing"
	"github.com/2beens/workouttracker/pkg"
)

var ErrWorkoutNotFound = apperr.NotFound("workout")

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Add stores the workout and its exercises in one transaction. The order
// index of each exercise is its position in w.Exercises.
func (r *Repo) Add(ctx context.Context, w Workout) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", w.ID.String()))
	span.SetAttributes(attribute.Int("exercises", len(w.Exercises)))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err := tx.QueryRow(
		ctx,
		`INSERT INTO workout (id, user_id, name) VALUES ($1, $2, $3) RETURNING created_at;`,
		w.ID, w.UserID, w.Name,
	).Scan(&w.CreatedAt); err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return nil, apperr.NotFound("user")
		}
		return nil, fmt.Errorf("insert workout: %w", err)
	}

	batch := &pgx.Batch{}
	for i := range w.Exercises {
		e := &w.Exercises[i]
		e.WorkoutID = w.ID
		e.OrderIndex = i
		batch.Queue(
			`INSERT INTO workout_exercise
				(id, workout_id, name, order_index, target_sets, target_reps_min, target_reps_max)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING created_at;`,
			e.ID, e.WorkoutID, e.Name, e.OrderIndex, e.TargetSets, e.TargetRepsMin, e.TargetRepsMax,
		).QueryRow(func(row pgx.Row) error {
			return row.Scan(&e.CreatedAt)
		})
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		if pkg.IsCheckViolationError(err) {
			return nil, apperr.NewValidationError("exercises", "invalid exercise targets")
		}
		return nil, fmt.Errorf("insert exercises: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return &w, nil
}

// List returns the user's workouts, newest first.
func (r *Repo) List(ctx context.Context, userID uuid.UUID) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID.String()))

	rows, err := r.db.Query(
		ctx,
		`SELECT id FROM workout WHERE user_id = $1 ORDER BY created_at DESC, id;`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("collect workout ids: %w", err)
	}

	loaded, err := LoadWorkouts(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}

	workouts := make([]Workout, 0, len(ids))
	for _, id := range ids {
		if w, ok := loaded[id]; ok {
			workouts = append(workouts, *w)
		}
	}

	span.SetAttributes(attribute.Int("workouts", len(workouts)))
	return workouts, nil
}

func (r *Repo) Get(ctx context.Context, id uuid.UUID) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", id.String()))

	loaded, err := LoadWorkouts(ctx, r.db, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}

	w, ok := loaded[id]
	if !ok {
		return nil, ErrWorkoutNotFound
	}
	return w, nil
}

// Delete removes the workout. Exercises, sessions and sets go with it.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", id.String()))

	tag, err := r.db.Exec(ctx, `DELETE FROM workout WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrWorkoutNotFound
	}
	return nil
}

// LoadWorkouts loads the given workouts with their exercises, keyed by
// workout id. Missing ids are absent from the result.
func LoadWorkouts(ctx context.Context, q Querier, ids []uuid.UUID) (_ map[uuid.UUID]*Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.load")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("ids", len(ids)))

	result := make(map[uuid.UUID]*Workout, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	rows, err := q.Query(
		ctx,
		`SELECT id, user_id, name, created_at FROM workout WHERE id = ANY($1);`,
		ids,
	)
	if err != nil {
		return nil, err
	}
	dbWorkouts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (dbWorkout, error) {
		var w dbWorkout
		err := row.Scan(&w.ID, &w.UserID, &w.Name, &w.CreatedAt)
		return w, err
	})
	if err != nil {
		return nil, fmt.Errorf("collect workouts: %w", err)
	}
	if len(dbWorkouts) == 0 {
		return result, nil
	}

	rows, err = q.Query(
		ctx,
		`SELECT id, workout_id, name, order_index, target_sets, target_reps_min, target_reps_max, created_at
			FROM workout_exercise
			WHERE workout_id = ANY($1)
			ORDER BY workout_id, order_index;`,
		ids,
	)
	if err != nil {
		return nil, err
	}
	dbExercises, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (dbWorkoutExercise, error) {
		var e dbWorkoutExercise
		err := row.Scan(
			&e.ID, &e.WorkoutID, &e.Name, &e.OrderIndex,
			&e.TargetSets, &e.TargetRepsMin, &e.TargetRepsMax, &e.CreatedAt,
		)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("collect exercises: %w", err)
	}

	byWorkout := make(map[uuid.UUID][]dbWorkoutExercise, len(dbWorkouts))
	for _, e := range dbExercises {
		byWorkout[e.WorkoutID] = append(byWorkout[e.WorkoutID], e)
	}
	for _, w := range dbWorkouts {
		workout := w.toWorkout(byWorkout[w.ID])
		result[w.ID] = &workout
	}

	return result, nil
}
