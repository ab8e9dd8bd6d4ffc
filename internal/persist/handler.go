package persist

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/inamate/annotator/internal/typeid"
)

type Loader interface {
	Latest(ctx context.Context, imageID string) (Snapshot, error)
}

type Handler struct {
	snapshots Loader
}

func NewHandler(snapshots Loader) *Handler {
	return &Handler{snapshots: snapshots}
}

// Latest serves the newest snapshot of the image named by the imageId
// route variable.
func (h *Handler) Latest(w http.ResponseWriter, r *http.Request) {
	imageID := mux.Vars(r)["imageId"]
	if err := typeid.Validate(imageID, typeid.PrefixImage); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid image id"})
		return
	}

	snap, err := h.snapshots.Latest(r.Context(), imageID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		default:
			slog.Error("load snapshot failed", "image", imageID, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		}
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
