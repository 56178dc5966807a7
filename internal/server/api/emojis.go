package api

import (
	"net/http"
	"strings"

	"github.com/ayusman/emojidraw/internal/emoji"
)

// EmojiHandler serves the emoji catalog and thumbnails.
type EmojiHandler struct {
	library *emoji.Library
}

// NewEmojiHandler creates an EmojiHandler. A nil library serves the catalog
// without artwork.
func NewEmojiHandler(lib *emoji.Library) *EmojiHandler {
	return &EmojiHandler{library: lib}
}

type emojiResponse struct {
	emoji.Emoji
	Image bool `json:"image"`
}

type listEmojisResponse struct {
	Emojis []emojiResponse `json:"emojis"`
}

// ServeHTTP routes /api/emojis and /api/emojis/{key}.
func (h *EmojiHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	key := strings.TrimPrefix(r.URL.Path, "/api/emojis")
	key = strings.TrimPrefix(key, "/")
	key = strings.TrimSuffix(key, ".png")

	if key == "" {
		h.list(w)
		return
	}
	h.image(w, key)
}

func (h *EmojiHandler) list(w http.ResponseWriter) {
	catalog := emoji.Catalog()
	response := listEmojisResponse{Emojis: make([]emojiResponse, 0, len(catalog))}
	for _, e := range catalog {
		loaded := false
		if h.library != nil {
			_, loaded = h.library.Image(e.Key)
		}
		response.Emojis = append(response.Emojis, emojiResponse{Emoji: e, Image: loaded})
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *EmojiHandler) image(w http.ResponseWriter, key string) {
	if _, ok := emoji.ByKey(key); !ok {
		writeError(w, http.StatusNotFound, "Emoji not found")
		return
	}
	if h.library == nil {
		writeError(w, http.StatusNotFound, "Emoji image not loaded")
		return
	}

	data, err := h.library.PNG(key)
	if err != nil {
		writeError(w, http.StatusNotFound, "Emoji image not loaded")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
