package tracker

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/workouttracker/internal/sessions"
	"github.com/2beens/workouttracker/internal/workouts"
)

var ErrNoExercises = errors.New("session workout has no exercises")

//go:generate mockgen -source=$GOFILE -destination=tracker_mocks_test.go -package=tracker_test

// SetLogger persists one set. Client implements it against the HTTP API.
type SetLogger interface {
	LogSet(ctx context.Context, input sessions.LogSetInput) (*sessions.ExerciseSet, error)
}

// State is the position of the tracker.
type State struct {
	ExerciseIndex int
	ExerciseID    uuid.UUID
	SetNumber     int
}

// Tracker walks through the exercises and sets of one session. Navigation
// is local and never waits for LogCurrentSet, which holds no lock while the
// set is being sent.
type Tracker struct {
	mu sync.Mutex

	session   *sessions.Session
	previous  *sessions.Session
	exercises []workouts.WorkoutExercise

	current    int
	setNumbers []int

	logger SetLogger
	drafts DraftStore
}

// New starts at the first exercise, set 1. previous may be nil.
func New(session, previous *sessions.Session, logger SetLogger, drafts DraftStore) (*Tracker, error) {
	if session == nil || session.Workout == nil || len(session.Workout.Exercises) == 0 {
		return nil, ErrNoExercises
	}
	if logger == nil {
		return nil, errors.New("set logger is nil")
	}
	if drafts == nil {
		drafts = NewMemoryDrafts(0)
	}

	exercises := append([]workouts.WorkoutExercise(nil), session.Workout.Exercises...)
	setNumbers := make([]int, len(exercises))
	for i := range setNumbers {
		setNumbers[i] = 1
	}

	return &Tracker{
		session:    session,
		previous:   previous,
		exercises:  exercises,
		setNumbers: setNumbers,
		logger:     logger,
		drafts:     drafts,
	}, nil
}

func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state()
}

func (t *Tracker) state() State {
	return State{
		ExerciseIndex: t.current,
		ExerciseID:    t.exercises[t.current].ID,
		SetNumber:     t.setNumbers[t.current],
	}
}

func (t *Tracker) CurrentExercise() workouts.WorkoutExercise {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.exercises[t.current]
}

// AdvanceSet moves to the next set of the current exercise. It is a no-op on
// the last target set.
func (t *Tracker) AdvanceSet() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.advanceSet()
}

func (t *Tracker) advanceSet() bool {
	if t.setNumbers[t.current] < t.exercises[t.current].TargetSets {
		t.setNumbers[t.current]++
		return true
	}
	return false
}

func (t *Tracker) RetreatSet() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.setNumbers[t.current] > 1 {
		t.setNumbers[t.current]--
	}
}

// AdvanceExercise moves to the next exercise in template order, keeping the
// set position of each exercise.
func (t *Tracker) AdvanceExercise() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.advanceExercise()
}

func (t *Tracker) advanceExercise() bool {
	if t.current < len(t.exercises)-1 {
		t.current++
		return true
	}
	return false
}

func (t *Tracker) RetreatExercise() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current > 0 {
		t.current--
	}
}

// SaveDraft keeps unsent input for the current slot.
func (t *Tracker) SaveDraft(draft Draft) error {
	t.mu.Lock()
	key := t.draftKey(t.state())
	t.mu.Unlock()
	return t.drafts.Set(key, draft)
}

// CurrentDraft returns the saved input for the current slot, if any.
func (t *Tracker) CurrentDraft() (Draft, bool) {
	t.mu.Lock()
	key := t.draftKey(t.state())
	t.mu.Unlock()
	return t.drafts.Get(key)
}

func (t *Tracker) draftKey(s State) string {
	return DraftKey(t.session.ID, s.ExerciseID, s.SetNumber)
}

// LogCurrentSet sends the set for the current slot. On success the slot's
// draft is cleared and the tracker moves on to the next set, or to the next
// exercise once the target sets are done. It only moves if the user did not
// navigate away while the set was being sent. On failure nothing changes and
// the call can be retried with the same input.
func (t *Tracker) LogCurrentSet(ctx context.Context, weight float64, reps, difficulty int) (*sessions.ExerciseSet, error) {
	t.mu.Lock()
	slot := t.state()
	t.mu.Unlock()

	set, err := t.logger.LogSet(ctx, sessions.LogSetInput{
		SessionID:  t.session.ID,
		ExerciseID: slot.ExerciseID,
		SetNumber:  slot.SetNumber,
		Weight:     weight,
		Reps:       reps,
		Difficulty: difficulty,
	})
	if err != nil {
		return nil, err
	}

	t.drafts.Clear(t.draftKey(slot))

	t.mu.Lock()
	defer t.mu.Unlock()

	t.recordSet(*set)
	if t.state() != slot {
		log.Tracef("tracker moved during log of set %d, staying put", slot.SetNumber)
		return set, nil
	}
	if !t.advanceSet() {
		t.advanceExercise()
	}
	return set, nil
}

// recordSet replaces the set of the same slot in the local session copy, or
// appends it.
func (t *Tracker) recordSet(set sessions.ExerciseSet) {
	for i, s := range t.session.Sets {
		if s.ExerciseID == set.ExerciseID && s.SetNumber == set.SetNumber {
			t.session.Sets[i] = set
			return
		}
	}
	t.session.Sets = append(t.session.Sets, set)
}

// CurrentSets returns the sets logged for the current exercise in this session.
func (t *Tracker) CurrentSets() []sessions.ExerciseSet {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.session.ExerciseSets(t.exercises[t.current].ID)
}

// PreviousSets returns what was logged for the current exercise in the
// previous session, for comparison.
func (t *Tracker) PreviousSets() []sessions.ExerciseSet {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.previous == nil {
		return nil
	}
	return t.previous.ExerciseSets(t.exercises[t.current].ID)
}

func (t *Tracker) Progress() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return sessions.Progress(t.session)
}
