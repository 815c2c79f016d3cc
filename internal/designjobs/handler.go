package designjobs

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/trophydesk/trophydesk/internal/platform/httpx"
)

// Handler exposes the design queue as a JSON API.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds a design jobs Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
	}
}

// MountRoutes registers design job routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{id}", h.show)
	r.Post("/{id}/assign", h.assign)
	r.Post("/{id}/start", h.start)
	r.Post("/{id}/complete", h.complete)
	r.Post("/{id}/forward-procurement", h.forward)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	filters := ListFilters{
		Status:   Status(r.URL.Query().Get("status")),
		Designer: r.URL.Query().Get("designer"),
		Limit:    limit,
		Offset:   offset,
	}
	if filters.Status != "" && !filters.Status.Valid() {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "unknown status filter")
		return
	}
	items, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.respondError(w, r, "list design jobs", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"design_jobs": items, "total": total})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	j, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, r, "get design job", err)
		return
	}
	httpx.JSON(w, http.StatusOK, j)
}

func (h *Handler) assign(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	var req AssignRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	j, err := h.service.Assign(r.Context(), id, req.Designer)
	if err != nil {
		h.respondError(w, r, "assign design job", err)
		return
	}
	httpx.JSON(w, http.StatusOK, j)
}

func (h *Handler) start(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	j, err := h.service.Start(r.Context(), id)
	if err != nil {
		h.respondError(w, r, "start design job", err)
		return
	}
	httpx.JSON(w, http.StatusOK, j)
}

func (h *Handler) complete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	var req CompleteRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	j, err := h.service.Complete(r.Context(), id, req.ArtworkRef)
	if err != nil {
		h.respondError(w, r, "complete design job", err)
		return
	}
	httpx.JSON(w, http.StatusOK, j)
}

func (h *Handler) forward(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	j, quotationID, err := h.service.ForwardToProcurement(r.Context(), id)
	if err != nil {
		h.respondError(w, r, "forward design job", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"design_job": j, "quotation_id": quotationID})
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid design job id")
		return 0, false
	}
	return id, true
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, action string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrValidation):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, ErrInvalidState):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Invalid State", err.Error())
	default:
		h.logger.Error(action, slog.Any("error", err), slog.String("path", r.URL.Path))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
