package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/ayusman/emojidraw/internal/shape"
	"github.com/ayusman/emojidraw/internal/store"
)

// DefaultListLimit caps GET /api/attempts when no limit is given.
const DefaultListLimit = 50

// AttemptHandler handles HTTP requests for stored attempts.
type AttemptHandler struct {
	store *store.Store
}

// NewAttemptHandler creates a new AttemptHandler with the given store.
func NewAttemptHandler(s *store.Store) *AttemptHandler {
	return &AttemptHandler{store: s}
}

type attemptResponse struct {
	ID          string      `json:"id"`
	Label       shape.Label `json:"label"`
	Source      string      `json:"source"`
	Center      Point       `json:"center"`
	Area        float64     `json:"area"`
	Circularity float64     `json:"circularity"`
	AspectRatio float64     `json:"aspect_ratio"`
	Corners     int         `json:"corners"`
	Solidity    float64     `json:"solidity"`
	DeepDefects int         `json:"deep_defects"`
	Points      int         `json:"points"`
	Path        []Point     `json:"path,omitempty"`
	CreatedAt   string      `json:"created_at"`
}

type listAttemptsResponse struct {
	Attempts []attemptResponse `json:"attempts"`
}

type statsResponse struct {
	Total  int            `json:"total"`
	Labels map[string]int `json:"labels"`
}

func toAttemptResponse(a *store.Attempt) attemptResponse {
	resp := attemptResponse{
		ID:          a.ID,
		Label:       a.Label,
		Source:      string(a.Source),
		Center:      Point{X: a.Center.X, Y: a.Center.Y},
		Area:        a.Area,
		Circularity: a.Circularity,
		AspectRatio: a.AspectRatio,
		Corners:     a.Corners,
		Solidity:    a.Solidity,
		DeepDefects: a.DeepDefects,
		Points:      a.Points,
		CreatedAt:   a.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	for _, p := range a.Path {
		resp.Path = append(resp.Path, Point{X: p.X, Y: p.Y})
	}
	return resp
}

// ServeHTTP routes /api/attempts, /api/attempts/stats and /api/attempts/{id}.
func (h *AttemptHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/attempts")
	path = strings.TrimPrefix(path, "/")

	switch {
	case path == "":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.list(w, r)
	case path == "stats":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.stats(w, r)
	default:
		switch r.Method {
		case http.MethodGet:
			h.get(w, r, path)
		case http.MethodDelete:
			h.delete(w, r, path)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// list handles GET /api/attempts?limit=n, newest first.
func (h *AttemptHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := DefaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	attempts, err := h.store.Attempts().List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list attempts")
		return
	}

	response := listAttemptsResponse{
		Attempts: make([]attemptResponse, 0, len(attempts)),
	}
	for _, a := range attempts {
		response.Attempts = append(response.Attempts, toAttemptResponse(a))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/attempts/{id}, including the stroke path.
func (h *AttemptHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	a, err := h.store.Attempts().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Attempt not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get attempt")
		return
	}

	writeJSON(w, http.StatusOK, toAttemptResponse(a))
}

// delete handles DELETE /api/attempts/{id}.
func (h *AttemptHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Attempts().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Attempt not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete attempt")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// stats handles GET /api/attempts/stats with a count per label.
func (h *AttemptHandler) stats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.store.Attempts().CountByLabel()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to count attempts")
		return
	}

	response := statsResponse{Labels: make(map[string]int, len(counts))}
	for label, n := range counts {
		response.Labels[label.String()] = n
		response.Total += n
	}

	writeJSON(w, http.StatusOK, response)
}
