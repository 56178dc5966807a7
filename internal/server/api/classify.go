package api

import (
	"io"
	"net/http"

	"gocv.io/x/gocv"

	"github.com/ayusman/emojidraw/internal/logger"
	"github.com/ayusman/emojidraw/internal/shape"
	"github.com/ayusman/emojidraw/internal/store"
)

// DefaultMaxUploadBytes bounds the size of a posted canvas image.
const DefaultMaxUploadBytes = 10 << 20

// Notifier receives every classification made through the API.
type Notifier interface {
	Broadcast(v interface{})
}

// ClassifyHandler classifies canvas images posted as PNG or JPEG.
type ClassifyHandler struct {
	detector *shape.Detector
	store    *store.Store
	notifier Notifier
	maxBytes int64
}

// NewClassifyHandler creates a ClassifyHandler. The store and notifier may
// be nil; attempts are then neither recorded nor broadcast.
func NewClassifyHandler(d *shape.Detector, s *store.Store, n Notifier, maxBytes int64) *ClassifyHandler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &ClassifyHandler{detector: d, store: s, notifier: n, maxBytes: maxBytes}
}

// ServeHTTP handles POST /api/classify.
func (h *ClassifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "Canvas image too large")
		return
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "Empty request body")
		return
	}

	img, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Body is not a PNG or JPEG image")
		return
	}
	defer img.Close()

	if img.Empty() {
		writeError(w, http.StatusBadRequest, "Body is not a PNG or JPEG image")
		return
	}

	result := h.detector.Detect(img)

	var id string
	if h.store != nil {
		a := store.NewAttempt(store.SourceUpload, result, nil)
		if err := h.store.Attempts().Create(a); err != nil {
			logger.WithError(err).Warn("failed to record attempt")
		} else {
			id = a.ID
		}
	}

	response := NewResult(id, store.SourceUpload, result, 0)
	if h.notifier != nil {
		h.notifier.Broadcast(response)
	}

	writeJSON(w, http.StatusOK, response)
}
