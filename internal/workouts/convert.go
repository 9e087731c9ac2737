package workouts

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// dbWorkout and dbWorkoutExercise mirror the workout and workout_exercise rows.
type dbWorkout struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	CreatedAt time.Time
}

type dbWorkoutExercise struct {
	ID            uuid.UUID
	WorkoutID     uuid.UUID
	Name          string
	OrderIndex    int
	TargetSets    int
	TargetRepsMin int
	TargetRepsMax int
	CreatedAt     time.Time
}

func (e dbWorkoutExercise) toExercise() WorkoutExercise {
	return WorkoutExercise{
		ID:            e.ID,
		WorkoutID:     e.WorkoutID,
		Name:          e.Name,
		OrderIndex:    e.OrderIndex,
		TargetSets:    e.TargetSets,
		TargetRepsMin: e.TargetRepsMin,
		TargetRepsMax: e.TargetRepsMax,
		CreatedAt:     e.CreatedAt,
	}
}

// toWorkout never leaves Exercises nil, and keeps them in template order.
func (w dbWorkout) toWorkout(exercises []dbWorkoutExercise) Workout {
	workout := Workout{
		ID:        w.ID,
		UserID:    w.UserID,
		Name:      w.Name,
		CreatedAt: w.CreatedAt,
		Exercises: make([]WorkoutExercise, 0, len(exercises)),
	}
	for _, e := range exercises {
		workout.Exercises = append(workout.Exercises, e.toExercise())
	}
	sort.SliceStable(workout.Exercises, func(i, j int) bool {
		return workout.Exercises[i].OrderIndex < workout.Exercises[j].OrderIndex
	})
	return workout
}
