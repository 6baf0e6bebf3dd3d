package rest

import (
	"context"
	"log/slog"
	"net/http"
	"sort"

	"github.com/heartmarshall/impact-hub-backend/internal/domain"
	"github.com/heartmarshall/impact-hub-backend/internal/vectorindex"
)

// IndexController is the admin surface of one vector index.
type IndexController interface {
	Collection() string
	Rebuild(ctx context.Context) error
	Stats() vectorindex.Stats
}

// AdminHandler serves /admin endpoints. Routes are wrapped in
// middleware.RequireModerator by the router.
type AdminHandler struct {
	indexes map[string]IndexController
	log     *slog.Logger
}

// NewAdminHandler creates an AdminHandler over the given indexes.
func NewAdminHandler(logger *slog.Logger, indexes ...IndexController) *AdminHandler {
	byName := make(map[string]IndexController, len(indexes))
	for _, ix := range indexes {
		byName[ix.Collection()] = ix
	}
	return &AdminHandler{indexes: byName, log: logger.With("handler", "admin")}
}

// IndexStats handles GET /admin/index.
func (h *AdminHandler) IndexStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.stats())
}

// RebuildIndex handles POST /admin/index/{collection}/rebuild.
func (h *AdminHandler) RebuildIndex(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("collection")
	ix, ok := h.indexes[name]
	if !ok {
		handleError(w, r, h.log, domain.ErrNotFound)
		return
	}

	if err := ix.Rebuild(r.Context()); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	h.log.InfoContext(r.Context(), "index rebuilt",
		slog.String("collection", name),
		slog.Int("entries", ix.Stats().Entries),
	)
	writeJSON(w, http.StatusOK, ix.Stats())
}

func (h *AdminHandler) stats() []vectorindex.Stats {
	out := make([]vectorindex.Stats, 0, len(h.indexes))
	for _, ix := range h.indexes {
		out = append(out, ix.Stats())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Collection < out[j].Collection })
	return out
}
