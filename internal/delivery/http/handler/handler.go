package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/user/page-sentinel/internal/delivery/http/request"
	"github.com/user/page-sentinel/internal/delivery/http/response"
	"github.com/user/page-sentinel/internal/repository"
	"github.com/user/page-sentinel/internal/usecase"
)

// Pinger is implemented by backing stores that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	agent     *usecase.Agent
	snapshots repository.SnapshotRepository
	logger    *zap.Logger
}

// NewHandler creates the HTTP handler for agent. snapshots may be nil.
func NewHandler(agent *usecase.Agent, snapshots repository.SnapshotRepository, logger *zap.Logger) *Handler {
	return &Handler{
		agent:     agent,
		snapshots: snapshots,
		logger:    logger,
	}
}

// HandleMessage answers a host message. Results and rejections are both
// written with status 200; only a malformed body is a client error.
func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	var req request.MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	replies := make(chan interface{}, 1)
	h.agent.Router.Serve(r.Context(), req.ToUsecase(), func(v interface{}) {
		replies <- v
	})

	select {
	case resp := <-replies:
		h.writeJSON(w, http.StatusOK, resp)
	case <-r.Context().Done():
		h.logger.Warn("client went away before reply", zap.String("action", req.Action))
	}
}

func (h *Handler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	var req request.EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ev := req.ToEvent()
	task, err := h.agent.Dispatcher.Dispatch(r.Context(), ev)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidEvent):
			h.writeJSONError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, usecase.ErrTargetNotFound):
			h.writeJSONError(w, err.Error(), http.StatusNotFound)
		default:
			h.logger.Error("failed to dispatch event", zap.String("type", req.Type), zap.Error(err))
			h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	resp := response.EventResponse{
		Dispatched:       true,
		DefaultPrevented: ev.DefaultPrevented(),
	}
	if task != nil {
		resp.Action = task.Action
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// HandleContextMenu returns the last right-clicked element on the page.
func (h *Handler) HandleContextMenu(w http.ResponseWriter, r *http.Request) {
	if h.snapshots == nil {
		h.writeJSONError(w, "Context menu snapshots are disabled", http.StatusNotFound)
		return
	}

	snapshot, err := h.snapshots.Latest(r.Context(), h.agent.PageURL())
	if err != nil {
		if errors.Is(err, repository.ErrSnapshotNotFound) {
			h.writeJSONError(w, "No context menu snapshot for this page", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to read context menu snapshot", zap.Error(err))
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, snapshot)
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	resp := response.HealthResponse{
		Status:   "ok",
		Page:     h.agent.PageURL(),
		Scanning: h.agent.Session.Scanning(),
	}

	// the snapshot store is optional, so an unhealthy one only degrades
	if p, ok := h.snapshots.(Pinger); ok {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp.Checks = map[string]string{"redis": "healthy"}
		if err := p.Ping(ctx); err != nil {
			h.logger.Error("health check failed for redis", zap.Error(err))
			resp.Checks["redis"] = "unhealthy"
			resp.Status = "degraded"
		}
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
