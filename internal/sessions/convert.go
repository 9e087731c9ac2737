package sessions

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/2beens/workouttracker/internal/workouts"
)

type dbSession struct {
	ID         uuid.UUID
	Seq        int64
	WorkoutID  uuid.UUID
	CreatedAt  time.Time
	FinishedAt *time.Time
}

type dbExerciseSet struct {
	ID         uuid.UUID
	SessionID  uuid.UUID
	ExerciseID uuid.UUID
	SetNumber  int
	Weight     float64
	Reps       int
	Difficulty int
	CreatedAt  time.Time
}

func (s dbExerciseSet) toExerciseSet(exercise *workouts.WorkoutExercise) ExerciseSet {
	return ExerciseSet{
		ID:         s.ID,
		SessionID:  s.SessionID,
		ExerciseID: s.ExerciseID,
		SetNumber:  s.SetNumber,
		Weight:     s.Weight,
		Reps:       s.Reps,
		Difficulty: s.Difficulty,
		CreatedAt:  s.CreatedAt,
		Exercise:   exercise,
	}
}

// toSession joins the session row with its template and sets. Each set
// gets its own copy of the exercise it references.
func (s dbSession) toSession(template *workouts.Workout, sets []dbExerciseSet) *Session {
	session := &Session{
		ID:         s.ID,
		WorkoutID:  s.WorkoutID,
		CreatedAt:  s.CreatedAt,
		FinishedAt: s.FinishedAt,
		Workout:    template,
		Sets:       make([]ExerciseSet, 0, len(sets)),
	}

	order := make(map[uuid.UUID]int)
	exercises := make(map[uuid.UUID]workouts.WorkoutExercise)
	if template != nil {
		for _, e := range template.Exercises {
			order[e.ID] = e.OrderIndex
			exercises[e.ID] = e
		}
	}

	for _, set := range sets {
		var exercise *workouts.WorkoutExercise
		if e, ok := exercises[set.ExerciseID]; ok {
			exercise = &e
		}
		session.Sets = append(session.Sets, set.toExerciseSet(exercise))
	}

	sortSets(session.Sets, order)
	return session
}

func sortSets(sets []ExerciseSet, order map[uuid.UUID]int) {
	sort.SliceStable(sets, func(i, j int) bool {
		oi, oj := order[sets[i].ExerciseID], order[sets[j].ExerciseID]
		if oi != oj {
			return oi < oj
		}
		return sets[i].SetNumber < sets[j].SetNumber
	})
}
