package api

import "net/http"

// Clearer queues a canvas clear on the live session.
type Clearer interface {
	RequestClear()
}

// CanvasHandler handles POST /api/canvas/clear.
type CanvasHandler struct {
	clearer Clearer
}

// NewCanvasHandler creates a CanvasHandler.
func NewCanvasHandler(c Clearer) *CanvasHandler {
	return &CanvasHandler{clearer: c}
}

// ServeHTTP queues the clear and answers 202; the frame loop applies it.
func (h *CanvasHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.clearer.RequestClear()
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}
