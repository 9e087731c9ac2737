package sessions

import (
	"time"

	"github.com/google/uuid"

	"github.com/2beens/workouttracker/internal/apperr"
	"github.com/2beens/workouttracker/internal/workouts"
)

const MaxDifficulty = 5

// Session is one performance of a workout. Workout holds the template
// snapshot, Sets the logged sets in exercise then set number order.
type Session struct {
	ID         uuid.UUID         `json:"id"`
	WorkoutID  uuid.UUID         `json:"workoutId"`
	CreatedAt  time.Time         `json:"createdAt"`
	FinishedAt *time.Time        `json:"finishedAt"`
	Workout    *workouts.Workout `json:"workout"`
	Sets       []ExerciseSet     `json:"sets"`
}

func (s *Session) Finished() bool {
	return s.FinishedAt != nil
}

// OwnedBy reports whether the parent workout belongs to userID.
func (s *Session) OwnedBy(userID uuid.UUID) bool {
	return s.Workout != nil && s.Workout.UserID == userID
}

// ExerciseSets returns the sets logged for one exercise.
func (s *Session) ExerciseSets(exerciseID uuid.UUID) []ExerciseSet {
	return setsOf(s.Sets, exerciseID)
}

type ExerciseSet struct {
	ID         uuid.UUID                 `json:"id"`
	SessionID  uuid.UUID                 `json:"sessionId"`
	ExerciseID uuid.UUID                 `json:"exerciseId"`
	SetNumber  int                       `json:"setNumber"`
	Weight     float64                   `json:"weight"`
	Reps       int                       `json:"reps"`
	Difficulty int                       `json:"difficulty"`
	CreatedAt  time.Time                 `json:"createdAt"`
	Exercise   *workouts.WorkoutExercise `json:"exercise,omitempty"`
}

type LogSetInput struct {
	SessionID  uuid.UUID `json:"-"`
	ExerciseID uuid.UUID `json:"exerciseId"`
	SetNumber  int       `json:"setNumber"`
	Weight     float64   `json:"weight"`
	Reps       int       `json:"reps"`
	Difficulty int       `json:"difficulty"`
}

func (in LogSetInput) Validate() error {
	if in.ExerciseID == uuid.Nil {
		return apperr.NewValidationError("exerciseId", "must not be empty")
	}
	if in.SetNumber < 1 {
		return apperr.NewValidationError("setNumber", "must be at least 1")
	}
	if in.Weight < 0 {
		return apperr.NewValidationError("weight", "must not be negative")
	}
	if in.Reps < 0 {
		return apperr.NewValidationError("reps", "must not be negative")
	}
	if in.Difficulty < 0 || in.Difficulty > MaxDifficulty {
		return apperr.NewValidationError("difficulty", "must be between 0 and %d", MaxDifficulty)
	}
	return nil
}

// Filter selects sessions for Repo.find. Zero values mean no constraint.
type Filter struct {
	SessionID    uuid.NullUUID
	WorkoutID    uuid.NullUUID
	OnlyFinished bool
	Limit        int
	Offset       int
}

func setsOf(sets []ExerciseSet, exerciseID uuid.UUID) []ExerciseSet {
	var result []ExerciseSet
	for _, s := range sets {
		if s.ExerciseID == exerciseID {
			result = append(result, s)
		}
	}
	return result
}
