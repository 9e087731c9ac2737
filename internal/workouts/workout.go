package workouts

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/2beens/workouttracker/internal/apperr"
)

const (
	MaxTargetSets = 10
	MinTargetReps = 1
	MaxTargetReps = 100
)

type Workout struct {
	ID        uuid.UUID         `json:"id"`
	UserID    uuid.UUID         `json:"userId"`
	Name      string            `json:"name"`
	CreatedAt time.Time         `json:"createdAt"`
	Exercises []WorkoutExercise `json:"exercises"`
}

type WorkoutExercise struct {
	ID            uuid.UUID `json:"id"`
	WorkoutID     uuid.UUID `json:"workoutId"`
	Name          string    `json:"name"`
	OrderIndex    int       `json:"orderIndex"`
	TargetSets    int       `json:"targetSets"`
	TargetRepsMin int       `json:"targetRepsMin"`
	TargetRepsMax int       `json:"targetRepsMax"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Exercise returns the exercise with the given id, or nil.
func (w *Workout) Exercise(id uuid.UUID) *WorkoutExercise {
	for i := range w.Exercises {
		if w.Exercises[i].ID == id {
			return &w.Exercises[i]
		}
	}
	return nil
}

// TotalTargetSets sums the target sets of all exercises.
func (w *Workout) TotalTargetSets() int {
	total := 0
	for _, e := range w.Exercises {
		total += e.TargetSets
	}
	return total
}

type CreateExerciseInput struct {
	Name          string `json:"name"`
	TargetSets    int    `json:"targetSets"`
	TargetRepsMin int    `json:"targetRepsMin"`
	TargetRepsMax int    `json:"targetRepsMax"`
}

type CreateWorkoutInput struct {
	Name      string                `json:"name"`
	Exercises []CreateExerciseInput `json:"exercises"`
}

// Validate trims names in place and checks the template constraints.
func (in *CreateWorkoutInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return apperr.NewValidationError("name", "must not be empty")
	}
	if len(in.Exercises) == 0 {
		return apperr.NewValidationError("exercises", "at least one exercise is required")
	}

	for i := range in.Exercises {
		e := &in.Exercises[i]
		e.Name = strings.TrimSpace(e.Name)
		if e.Name == "" {
			return apperr.NewValidationError(exerciseField(i, "name"), "must not be empty")
		}
		if e.TargetSets < 1 || e.TargetSets > MaxTargetSets {
			return apperr.NewValidationError(exerciseField(i, "targetSets"), "must be between 1 and %d", MaxTargetSets)
		}
		if e.TargetRepsMin < MinTargetReps || e.TargetRepsMin > MaxTargetReps {
			return apperr.NewValidationError(exerciseField(i, "targetRepsMin"), "must be between %d and %d", MinTargetReps, MaxTargetReps)
		}
		if e.TargetRepsMax < MinTargetReps || e.TargetRepsMax > MaxTargetReps {
			return apperr.NewValidationError(exerciseField(i, "targetRepsMax"), "must be between %d and %d", MinTargetReps, MaxTargetReps)
		}
		if e.TargetRepsMin > e.TargetRepsMax {
			return apperr.NewValidationError(exerciseField(i, "targetRepsMin"), "must not be greater than targetRepsMax")
		}
	}

	return nil
}

func exerciseField(i int, name string) string {
	return "exercises[" + strconv.Itoa(i) + "]." + name
}
