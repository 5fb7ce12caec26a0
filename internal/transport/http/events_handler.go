package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/light-bringer/feliz-storefront/internal/app/storefront/queries/list_events"
)

// Event represents an analytics outbox row in the HTTP response.
type Event struct {
	EventID     string          `json:"event_id"`
	EventType   string          `json:"event_type"`
	CartID      string          `json:"cart_id,omitempty"`
	Payload     json.RawMessage `json:"payload"`
	Status      string          `json:"status"`
	Attempts    int64           `json:"attempts"`
	LastError   string          `json:"last_error,omitempty"`
	CreatedAt   string          `json:"created_at"`
	PublishedAt *string         `json:"published_at,omitempty"`
}

// ListEventsResponse represents the HTTP response for listing events.
type ListEventsResponse struct {
	Events     []Event `json:"events"`
	TotalCount int64   `json:"total_count"`
}

// ListEvents handles GET /api/v1/events.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &list_events.Request{}

	if eventType := query.Get("event_type"); eventType != "" {
		req.EventType = &eventType
	}
	if cartID := query.Get("cart_id"); cartID != "" {
		req.CartID = &cartID
	}
	if status := query.Get("status"); status != "" {
		req.Status = &status
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			req.Limit = limit
		}
	}

	rows, total, err := h.deps.ListEvents.Execute(r.Context(), req)
	if err != nil {
		h.logger.Error("Failed to list events",
			zap.String("request_id", RequestID(r.Context())),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, &errorResponse{Error: "failed to fetch events"})
		return
	}

	events := make([]Event, 0, len(rows))
	for _, row := range rows {
		event := Event{
			EventID:   row.EventID,
			EventType: row.EventType,
			CartID:    row.CartID.StringVal,
			Payload:   json.RawMessage("null"),
			Status:    row.Status,
			Attempts:  row.Attempts,
			LastError: row.LastError.StringVal,
			CreatedAt: row.CreatedAt.Format(time.RFC3339),
		}
		if row.Payload.Valid {
			if raw, err := json.Marshal(row.Payload.Value); err == nil {
				event.Payload = raw
			}
		}
		if row.PublishedAt.Valid {
			publishedAt := row.PublishedAt.Time.Format(time.RFC3339)
			event.PublishedAt = &publishedAt
		}
		events = append(events, event)
	}

	writeJSON(w, http.StatusOK, &ListEventsResponse{
		Events:     events,
		TotalCount: total,
	})
}
