package workouts

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/workouttracker/internal/apperr"
	"github.com/2beens/workouttracker/internal/telemetry/tracing"
	"github.com/2beens/workouttracker/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=workouts_test

type workoutsService interface {
	CreateWorkout(ctx context.Context, input CreateWorkoutInput) (*Workout, error)
	ListWorkouts(ctx context.Context) ([]Workout, error)
	GetWorkout(ctx context.Context, id uuid.UUID) (*Workout, error)
	DeleteWorkout(ctx context.Context, id uuid.UUID) error
}

type DeleteWorkoutResponse struct {
	DeletedID uuid.UUID `json:"deletedId"`
}

type Handler struct {
	service workoutsService
}

func NewHandler(service workoutsService) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("", h.HandleList).Methods("GET", "OPTIONS").Name("list-workouts")
	router.HandleFunc("", h.HandleCreate).Methods("POST", "OPTIONS").Name("create-workout")
	router.HandleFunc("/{id}", h.HandleGet).Methods("GET", "OPTIONS").Name("get-workout")
	router.HandleFunc("/{id}", h.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-workout")
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.create")
	defer span.End()

	if r.Header.Get("Content-Type") != pkg.ContentType.JSON {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var input CreateWorkoutInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Tracef("create workout, unmarshal json params: %s", err)
		http.Error(w, "create workout failed", http.StatusBadRequest)
		return
	}

	workout, err := h.service.CreateWorkout(ctx, input)
	if err != nil {
		writeServiceError(w, "create workout", err)
		return
	}

	pkg.WriteJSON(w, http.StatusCreated, workout)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.list")
	defer span.End()

	workouts, err := h.service.ListWorkouts(ctx)
	if err != nil {
		writeServiceError(w, "list workouts", err)
		return
	}
	if workouts == nil {
		workouts = []Workout{}
	}

	pkg.WriteJSON(w, http.StatusOK, workouts)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.get")
	defer span.End()

	id, ok := PathID(w, r)
	if !ok {
		return
	}

	workout, err := h.service.GetWorkout(ctx, id)
	if err != nil {
		writeServiceError(w, "get workout", err)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, workout)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.delete")
	defer span.End()

	id, ok := PathID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteWorkout(ctx, id); err != nil {
		writeServiceError(w, "delete workout", err)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, DeleteWorkoutResponse{DeletedID: id})
}

// PathID parses the {id} route variable. On failure it writes a 400 and
// returns false.
func PathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idStr := mux.Vars(r)["id"]
	if idStr == "" {
		apperr.WriteError(w, apperr.NewValidationError("id", "must not be empty"))
		return uuid.Nil, false
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		apperr.WriteError(w, apperr.NewValidationError("id", "invalid id"))
		return uuid.Nil, false
	}
	return id, true
}

func writeServiceError(w http.ResponseWriter, op string, err error) {
	if apperr.HTTPStatus(err) == http.StatusInternalServerError {
		log.Errorf("%s: %s", op, err)
	}
	apperr.WriteError(w, err)
}
