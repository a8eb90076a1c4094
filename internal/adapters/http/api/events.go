// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/okian/prr/internal/domain/model"
	"github.com/okian/prr/pkg/metrics"
)

// EventDependencies defines the interface for event ingestion.
type EventDependencies interface {
	SeenAndRecord(ctx context.Context, id string) bool
	Unrecord(ctx context.Context, id string)
	EnqueueActivity(ctx context.Context, e model.ActivityEvent) bool
}

// EventsHandler handles activity event ingestion.
type EventsHandler struct {
	deps EventDependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps EventDependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

// eventRequest is the POST /v1/ingest/events body. Attrs carries the
// kind-specific columns; the repository validates them on write.
type eventRequest struct {
	EventID    string         `json:"event_id"`
	EmployeeID int64          `json:"employee_id"`
	Kind       string         `json:"kind"`
	Date       string         `json:"date"`
	Attrs      map[string]any `json:"attrs"`
}

func (e *eventRequest) validate() error {
	switch {
	case e.EmployeeID <= 0:
		return errors.New("missing employee_id")
	case strings.TrimSpace(e.Kind) == "":
		return errors.New("missing kind")
	case strings.TrimSpace(e.Date) == "":
		return errors.New("missing date")
	}
	if !model.RecordKind(e.Kind).Valid() {
		return errors.New("unknown kind")
	}
	if _, err := time.Parse("2006-01-02", e.Date); err != nil {
		return errors.New("invalid date; must be YYYY-MM-DD")
	}
	if e.EventID == "" {
		e.EventID = uuid.New().String()
	}
	return nil
}

type ackResponse struct {
	Status    string `json:"status"`
	EventID   string `json:"event_id"`
	Duplicate bool   `json:"duplicate"`
}

// HandlePostEvent handles POST /v1/ingest/events requests.
func (h *EventsHandler) HandlePostEvent(w http.ResponseWriter, r *http.Request) {
	const op = "api.ingest_event"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		metrics.RecordEventRejected()
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	// Idempotency check - mark as seen first.
	if h.deps.SeenAndRecord(r.Context(), req.EventID) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", EventID: req.EventID, Duplicate: true})
		return
	}

	e := model.ActivityEvent{
		EventID:    req.EventID,
		EmployeeID: req.EmployeeID,
		Kind:       model.RecordKind(req.Kind),
		Date:       req.Date,
		Attrs:      req.Attrs,
	}
	if ok := h.deps.EnqueueActivity(r.Context(), e); !ok {
		// Roll back the seen mark so the event can be retried.
		h.deps.Unrecord(r.Context(), req.EventID)
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", EventID: req.EventID, Duplicate: false})
}
