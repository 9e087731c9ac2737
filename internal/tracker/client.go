package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/2beens/workouttracker/internal/apperr"
	"github.com/2beens/workouttracker/internal/auth"
	"github.com/2beens/workouttracker/internal/sessions"
	"github.com/2beens/workouttracker/internal/telemetry/tracing"
	"github.com/2beens/workouttracker/pkg"
)

// APIError is a non 2xx answer of the service. It unwraps to the matching
// apperr sentinel, so errors.Is works across the wire.
type APIError struct {
	StatusCode int
	Message    string
	Field      string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("workout tracker api [%d]: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return apperr.ErrNotAuthenticated
	case http.StatusForbidden:
		return apperr.ErrAccessDenied
	case http.StatusNotFound:
		return apperr.ErrNotFound
	case http.StatusConflict:
		return apperr.ErrConflict
	case http.StatusBadRequest:
		msg := e.Message
		if e.Field != "" {
			msg = strings.TrimPrefix(msg, e.Field+": ")
		}
		return &apperr.ValidationError{Field: e.Field, Message: msg}
	default:
		return nil
	}
}

// Client talks to the workout tracker HTTP API on behalf of one logged in user.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient uses a traced client with a 10s timeout when httpClient is nil.
func NewClient(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   10 * time.Second,
		}
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		httpClient: httpClient,
	}
}

func (c *Client) LogSet(ctx context.Context, input sessions.LogSetInput) (_ *sessions.ExerciseSet, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "trackerClient.logSet")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var set sessions.ExerciseSet
	if err := c.do(ctx, http.MethodPost, "/sessions/"+input.SessionID.String()+"/sets", input, &set); err != nil {
		return nil, err
	}
	return &set, nil
}

func (c *Client) GetSession(ctx context.Context, id uuid.UUID) (_ *sessions.Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "trackerClient.getSession")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var session sessions.Session
	if err := c.do(ctx, http.MethodGet, "/sessions/"+id.String(), nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// GetPreviousSession returns nil when the workout has no previous session.
func (c *Client) GetPreviousSession(ctx context.Context, workoutID uuid.UUID) (_ *sessions.Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "trackerClient.getPreviousSession")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var session *sessions.Session
	if err := c.do(ctx, http.MethodGet, "/workouts/"+workoutID.String()+"/sessions/previous", nil, &session); err != nil {
		return nil, err
	}
	return session, nil
}

// Load fetches the session and the one before it and builds a Tracker that
// logs through c.
func (c *Client) Load(ctx context.Context, sessionID uuid.UUID, drafts DraftStore) (*Tracker, error) {
	session, err := c.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	previous, err := c.GetPreviousSession(ctx, session.WorkoutID)
	if err != nil {
		return nil, fmt.Errorf("get previous session: %w", err)
	}
	if previous != nil && previous.ID == session.ID {
		previous = nil
	}

	return New(session, previous, c, drafts)
}

func (c *Client) do(ctx context.Context, method, path string, reqBody, respBody any) error {
	var body io.Reader
	if reqBody != nil {
		reqBytes, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(reqBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", pkg.ContentType.JSON)
	}
	req.Header.Set(auth.TokenHeader, c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errResp struct {
			Error string `json:"error"`
			Field string `json:"field"`
		}
		if err := json.Unmarshal(respBytes, &errResp); err == nil && errResp.Error != "" {
			apiErr.Message = errResp.Error
			apiErr.Field = errResp.Field
		} else {
			apiErr.Message = strings.TrimSpace(string(respBytes))
		}
		log.Debugf("%s %s: %s", method, path, apiErr)
		return apiErr
	}

	if err := json.Unmarshal(respBytes, respBody); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

var _ SetLogger = (*Client)(nil)

// IsRetryable reports whether a failed log may succeed when retried as is.
func IsRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500 || apiErr.StatusCode == http.StatusTooManyRequests
	}
	return err != nil
}
