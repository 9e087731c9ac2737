package sessions

import (
	"math"
	"strconv"

	"github.com/google/uuid"
)

const noDifficulty = "-"

type ExerciseSummary struct {
	ExerciseID            uuid.UUID `json:"exerciseId"`
	Name                  string    `json:"name"`
	TargetSets            int       `json:"targetSets"`
	LoggedSets            int       `json:"loggedSets"`
	Volume                float64   `json:"volume"`
	Reps                  int       `json:"reps"`
	AverageDifficulty     *float64  `json:"averageDifficulty"`
	AverageDifficultyText string    `json:"averageDifficultyText"`
}

type Summary struct {
	SessionID   uuid.UUID         `json:"sessionId"`
	Finished    bool              `json:"finished"`
	Progress    int               `json:"progress"`
	LoggedSets  int               `json:"loggedSets"`
	TargetSets  int               `json:"targetSets"`
	TotalVolume float64           `json:"totalVolume"`
	Exercises   []ExerciseSummary `json:"exercises"`
}

// ExerciseVolume is the sum of weight times reps over the exercise's sets.
func ExerciseVolume(sets []ExerciseSet, exerciseID uuid.UUID) float64 {
	volume := 0.0
	for _, s := range setsOf(sets, exerciseID) {
		volume += s.Weight * float64(s.Reps)
	}
	return volume
}

func ExerciseReps(sets []ExerciseSet, exerciseID uuid.UUID) int {
	reps := 0
	for _, s := range setsOf(sets, exerciseID) {
		reps += s.Reps
	}
	return reps
}

// AverageDifficulty is the mean difficulty rounded to one decimal. ok is
// false when the exercise has no sets.
func AverageDifficulty(sets []ExerciseSet, exerciseID uuid.UUID) (avg float64, ok bool) {
	exerciseSets := setsOf(sets, exerciseID)
	if len(exerciseSets) == 0 {
		return 0, false
	}

	total := 0
	for _, s := range exerciseSets {
		total += s.Difficulty
	}
	avg = float64(total) / float64(len(exerciseSets))
	return math.Round(avg*10) / 10, true
}

// FormatAverageDifficulty renders the average with one decimal, or "-".
func FormatAverageDifficulty(avg float64, ok bool) string {
	if !ok {
		return noDifficulty
	}
	return strconv.FormatFloat(avg, 'f', 1, 64)
}

// Progress is the share of target sets logged, as a whole percentage.
// Sets logged beyond the target are allowed, the result stays within 0..100.
func Progress(session *Session) int {
	if session == nil || session.Workout == nil {
		return 0
	}
	target := session.Workout.TotalTargetSets()
	if target == 0 {
		return 0
	}

	progress := int(math.Round(float64(len(session.Sets)) / float64(target) * 100))
	return min(progress, 100)
}

func Summarize(session *Session) Summary {
	summary := Summary{
		SessionID:  session.ID,
		Finished:   session.Finished(),
		Progress:   Progress(session),
		LoggedSets: len(session.Sets),
		Exercises:  []ExerciseSummary{},
	}
	if session.Workout == nil {
		return summary
	}

	summary.TargetSets = session.Workout.TotalTargetSets()
	for _, e := range session.Workout.Exercises {
		es := ExerciseSummary{
			ExerciseID: e.ID,
			Name:       e.Name,
			TargetSets: e.TargetSets,
			LoggedSets: len(session.ExerciseSets(e.ID)),
			Volume:     ExerciseVolume(session.Sets, e.ID),
			Reps:       ExerciseReps(session.Sets, e.ID),
		}
		avg, ok := AverageDifficulty(session.Sets, e.ID)
		if ok {
			es.AverageDifficulty = &avg
		}
		es.AverageDifficultyText = FormatAverageDifficulty(avg, ok)

		summary.TotalVolume += es.Volume
		summary.Exercises = append(summary.Exercises, es)
	}

	return summary
}
