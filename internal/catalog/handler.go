package catalog

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trophydesk/trophydesk/internal/platform/httpx"
)

// Handler exposes the factory catalog to the presentation layer.
type Handler struct {
	logger *slog.Logger
	cache  *Cache
}

// NewHandler builds a catalog Handler.
func NewHandler(logger *slog.Logger, cache *Cache) *Handler {
	return &Handler{logger: logger, cache: cache}
}

// MountRoutes registers catalog routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/factories", h.listFactories)
}

func (h *Handler) listFactories(w http.ResponseWriter, r *http.Request) {
	factories, err := h.cache.List(r.Context())
	if err != nil {
		h.logger.Error("list factories", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"factories": factories})
}
