package imagesize

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/inamate/annotator/internal/typeid"
)

const maxUploadSize = 32 << 20 // 32MB

// BoundsResponse is returned from the bounds endpoint. ImageID is a fresh
// id the client can open an editing session with.
type BoundsResponse struct {
	ImageID string `json:"imageId"`
	Size
}

// Bounds handles POST /api/images/bounds. The image is either the raw
// request body or the "file" field of a multipart form.
func Bounds(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	var src io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file too large (max 32MB)"})
			return
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing file field"})
			return
		}
		defer file.Close()
		src = file
	}

	size, err := Decode(src)
	if err != nil {
		if errors.Is(err, ErrUnknownFormat) {
			writeJSON(w, http.StatusUnsupportedMediaType, map[string]string{"error": "unsupported image format"})
			return
		}
		slog.Warn("read image header failed", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid image"})
		return
	}

	writeJSON(w, http.StatusOK, BoundsResponse{ImageID: typeid.NewImageID(), Size: size})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
