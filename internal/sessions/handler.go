package sessions

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/workouttracker/internal/apperr"
	"github.com/2beens/workouttracker/internal/telemetry/tracing"
	"github.com/2beens/workouttracker/internal/workouts"
	"github.com/2beens/workouttracker/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=sessions_test

type sessionsService interface {
	StartSession(ctx context.Context, workoutID uuid.UUID) (*Session, error)
	GetSession(ctx context.Context, id uuid.UUID) (*Session, error)
	ListSessions(ctx context.Context, workoutID uuid.UUID) ([]*Session, error)
	GetPreviousSession(ctx context.Context, workoutID uuid.UUID, onlyFinished bool) (*Session, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
	FinishSession(ctx context.Context, id uuid.UUID) (*Session, error)
	LogSet(ctx context.Context, input LogSetInput) (*ExerciseSet, error)
	Summary(ctx context.Context, id uuid.UUID) (*Summary, error)
}

type DeleteSessionResponse struct {
	DeletedID uuid.UUID `json:"deletedId"`
}

type Handler struct {
	service sessionsService
}

func NewHandler(service sessionsService) *Handler {
	return &Handler{
		service: service,
	}
}

// SetupRoutes registers the per workout routes on workoutsRouter (mounted
// at /workouts) and the per session routes on sessionsRouter (/sessions).
func (h *Handler) SetupRoutes(workoutsRouter, sessionsRouter *mux.Router) {
	workoutsRouter.HandleFunc("/{id}/sessions", h.HandleStart).Methods("POST", "OPTIONS").Name("start-session")
	workoutsRouter.HandleFunc("/{id}/sessions", h.HandleList).Methods("GET", "OPTIONS").Name("list-sessions")
	workoutsRouter.HandleFunc("/{id}/sessions/previous", h.HandlePrevious).Methods("GET", "OPTIONS").Name("previous-session")

	sessionsRouter.HandleFunc("/{id}", h.HandleGet).Methods("GET", "OPTIONS").Name("get-session")
	sessionsRouter.HandleFunc("/{id}", h.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-session")
	sessionsRouter.HandleFunc("/{id}/finish", h.HandleFinish).Methods("POST", "OPTIONS").Name("finish-session")
	sessionsRouter.HandleFunc("/{id}/sets", h.HandleLogSet).Methods("POST", "OPTIONS").Name("log-set")
	sessionsRouter.HandleFunc("/{id}/summary", h.HandleSummary).Methods("GET", "OPTIONS").Name("session-summary")
}

func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.start")
	defer span.End()

	workoutID, ok := workouts.PathID(w, r)
	if !ok {
		return
	}

	session, err := h.service.StartSession(ctx, workoutID)
	if err != nil {
		writeServiceError(w, "start session", err)
		return
	}

	pkg.WriteJSON(w, http.StatusCreated, session)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.list")
	defer span.End()

	workoutID, ok := workouts.PathID(w, r)
	if !ok {
		return
	}

	sessions, err := h.service.ListSessions(ctx, workoutID)
	if err != nil {
		writeServiceError(w, "list sessions", err)
		return
	}
	if sessions == nil {
		sessions = []*Session{}
	}

	pkg.WriteJSON(w, http.StatusOK, sessions)
}

// HandlePrevious answers with JSON null when there is no previous session.
func (h *Handler) HandlePrevious(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.previous")
	defer span.End()

	workoutID, ok := workouts.PathID(w, r)
	if !ok {
		return
	}

	onlyFinished := false
	if v := r.URL.Query().Get("onlyFinished"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			apperr.WriteError(w, apperr.NewValidationError("onlyFinished", "must be a boolean"))
			return
		}
		onlyFinished = parsed
	}

	session, err := h.service.GetPreviousSession(ctx, workoutID, onlyFinished)
	if err != nil {
		writeServiceError(w, "previous session", err)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, session)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.get")
	defer span.End()

	id, ok := workouts.PathID(w, r)
	if !ok {
		return
	}

	session, err := h.service.GetSession(ctx, id)
	if err != nil {
		writeServiceError(w, "get session", err)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, session)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.delete")
	defer span.End()

	id, ok := workouts.PathID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteSession(ctx, id); err != nil {
		writeServiceError(w, "delete session", err)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, DeleteSessionResponse{DeletedID: id})
}

func (h *Handler) HandleFinish(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.finish")
	defer span.End()

	id, ok := workouts.PathID(w, r)
	if !ok {
		return
	}

	session, err := h.service.FinishSession(ctx, id)
	if err != nil {
		writeServiceError(w, "finish session", err)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, session)
}

func (h *Handler) HandleLogSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.logset")
	defer span.End()

	id, ok := workouts.PathID(w, r)
	if !ok {
		return
	}

	if r.Header.Get("Content-Type") != pkg.ContentType.JSON {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var input LogSetInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Tracef("log set, unmarshal json params: %s", err)
		http.Error(w, "log set failed", http.StatusBadRequest)
		return
	}
	input.SessionID = id

	set, err := h.service.LogSet(ctx, input)
	if err != nil {
		writeServiceError(w, "log set", err)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, set)
}

func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sessions.summary")
	defer span.End()

	id, ok := workouts.PathID(w, r)
	if !ok {
		return
	}

	summary, err := h.service.Summary(ctx, id)
	if err != nil {
		writeServiceError(w, "session summary", err)
		return
	}

	pkg.WriteJSON(w, http.StatusOK, summary)
}

func writeServiceError(w http.ResponseWriter, op string, err error) {
	if apperr.HTTPStatus(err) == http.StatusInternalServerError {
		log.Errorf("%s: %s", op, err)
	}
	apperr.WriteError(w, err)
}
