package orders

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/trophydesk/trophydesk/internal/platform/httpx"
)

// Handler exposes order intake as a JSON API.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds an orders Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
	}
}

// MountRoutes registers order routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.show)
	r.Post("/{id}/submit", h.submit)
	r.Post("/{id}/forward-design", h.forwardDesign)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	filters := ListFilters{
		Status:      OrderStatus(r.URL.Query().Get("status")),
		SalesPerson: r.URL.Query().Get("sales_person"),
		Search:      r.URL.Query().Get("search"),
		Limit:       limit,
		Offset:      offset,
	}
	if filters.Status != "" && !filters.Status.Valid() {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "unknown status filter")
		return
	}
	items, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.respondError(w, r, "list orders", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"orders": items, "total": total})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	o, err := h.service.Create(r.Context(), CreateInput{
		JobName:         req.JobName,
		CustomerID:      req.CustomerID,
		SalesPerson:     req.SalesPerson,
		ProductType:     ProductType(req.ProductType),
		ProductCategory: ProductCategory(req.ProductCategory),
		Material:        req.Material,
		Size:            req.Size,
		Thickness:       req.Thickness,
		Colors:          req.Colors,
		FrontDetails:    req.FrontDetails,
		BackDetails:     req.BackDetails,
		LanyardSize:     req.LanyardSize,
		LanyardPatterns: req.LanyardPatterns,
		CustomerBudget:  req.CustomerBudget,
		Quantity:        req.Quantity,
		EventDate:       req.EventDate,
		AttachmentRef:   req.AttachmentRef,
		Draft:           req.Draft,
	})
	if err != nil {
		h.respondError(w, r, "create order", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, o)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	o, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, r, "get order", err)
		return
	}
	httpx.JSON(w, http.StatusOK, o)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	o, err := h.service.Submit(r.Context(), id)
	if err != nil {
		h.respondError(w, r, "submit order", err)
		return
	}
	httpx.JSON(w, http.StatusOK, o)
}

func (h *Handler) forwardDesign(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	o, jobID, err := h.service.ForwardToDesign(r.Context(), id)
	if err != nil {
		h.respondError(w, r, "forward order to design", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"order": o, "design_job_id": jobID})
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid order id")
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
