package quotation

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/trophydesk/trophydesk/internal/platform/httpx"
	"github.com/trophydesk/trophydesk/internal/quotation/export"
)

// Handler exposes the quotation workflow as a JSON API.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	exporter *export.Exporter
	validate *validator.Validate
}

// NewHandler builds a quotation Handler.
func NewHandler(logger *slog.Logger, service *Service, exporter *export.Exporter) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		exporter: exporter,
		validate: validator.New(),
	}
}

// MountRoutes registers quotation routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.show)

	r.Post("/{id}/accept", h.accept)
	r.Post("/{id}/reject", h.reject)
	r.Post("/{id}/cancel", h.cancel)
	r.Post("/{id}/resubmit", h.resubmit)

	r.Get("/{id}/session", h.session)
	r.Post("/{id}/session/entries", h.addEntry)
	r.Delete("/{id}/session/entries/{entryID}", h.removeEntry)
	r.Patch("/{id}/session/entries/{entryID}", h.updateEntry)
	r.Post("/{id}/session/entries/{entryID}/evidence", h.attachEvidence)
	r.Post("/{id}/session/entries/{entryID}/winner", h.selectWinner)
	r.Patch("/{id}/session/header", h.updateHeader)

	r.Post("/{id}/approve", h.approve)
	r.Post("/{id}/send-price", h.sendPrice)
	r.Post("/{id}/customer-confirm", h.confirmCustomer)
	r.Post("/{id}/order-production", h.orderProduction)
	r.Post("/{id}/production-step", h.advanceStep)
	r.Post("/{id}/complete", h.complete)

	r.Get("/{id}/comparison/export.csv", h.exportCSV)
	r.Get("/{id}/comparison/export.xlsx", h.exportExcel)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	filters := ListFilters{
		Status:      Status(r.URL.Query().Get("status")),
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
		h.respondError(w, r, "list quotations", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"quotations": items, "total": total})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateQuotationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	q, err := h.service.Create(r.Context(), CreateInput{
		JobName:          req.JobName,
		CustomerName:     req.CustomerName,
		SalesPerson:      req.SalesPerson,
		ProductType:      ProductType(req.ProductType),
		Material:         req.Material,
		Size:             req.Size,
		Thickness:        req.Thickness,
		Colors:           req.Colors,
		FrontDetails:     req.FrontDetails,
		BackDetails:      req.BackDetails,
		LanyardSize:      req.LanyardSize,
		LanyardPatterns:  req.LanyardPatterns,
		CustomerBudget:   req.CustomerBudget,
		Quantity:         req.Quantity,
		EventDate:        req.EventDate,
		PreferredFactory: req.PreferredFactory,
	})
	if err != nil {
		h.respondError(w, r, "create quotation", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, q)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	q, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, r, "get quotation", err)
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

func (h *Handler) accept(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "accept job", func(id int64) (*Quotation, error) {
		return h.service.AcceptJob(r.Context(), id)
	})
}

func (h *Handler) reject(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	var req ReasonRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	q, err := h.service.RejectJob(r.Context(), id, req.Reason)
	if err != nil {
		h.respondError(w, r, "reject job", err)
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	var req ReasonRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	q, err := h.service.CancelJob(r.Context(), id, req.Reason)
	if err != nil {
		h.respondError(w, r, "cancel job", err)
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

func (h *Handler) resubmit(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "resubmit job", func(id int64) (*Quotation, error) {
		return h.service.ResubmitJob(r.Context(), id)
	})
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	sess, err := h.service.Session(r.Context(), id)
	if err != nil {
		h.respondError(w, r, "get session", err)
		return
	}
	httpx.JSON(w, http.StatusOK, sess)
}

func (h *Handler) addEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	var req AddEntryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	entry, err := h.service.AddFactoryEntry(r.Context(), id, req.FactoryCode)
	if err != nil {
		h.respondError(w, r, "add factory entry", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, entry)
}

func (h *Handler) removeEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	if err := h.service.RemoveFactoryEntry(r.Context(), id, chi.URLParam(r, "entryID")); err != nil {
		h.respondError(w, r, "remove factory entry", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) updateEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	var req UpdateEntryFieldRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if err := h.service.UpdateEntryField(r.Context(), id, chi.URLParam(r, "entryID"), req.Field, req.Value); err != nil {
		h.respondError(w, r, "update entry field", err)
		return
	}
	sess, err := h.service.Session(r.Context(), id)
	if err != nil {
		h.respondError(w, r, "get session", err)
		return
	}
	httpx.JSON(w, http.StatusOK, sess)
}

func (h *Handler) updateHeader(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	var req UpdateHeaderFieldRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if err := h.service.UpdateGlobalHeader(r.Context(), id, req.Field, req.Value); err != nil {
		h.respondError(w, r, "update global header", err)
		return
	}
	sess, err := h.service.Session(r.Context(), id)
	if err != nil {
		h.respondError(w, r, "get session", err)
		return
	}
	httpx.JSON(w, http.StatusOK, sess)
}

func (h *Handler) attachEvidence(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	var req AttachEvidenceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if err := h.service.AttachEvidence(r.Context(), id, chi.URLParam(r, "entryID"), req.FileRef); err != nil {
		h.respondError(w, r, "attach evidence", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) selectWinner(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	if err := h.service.SelectWinner(r.Context(), id, chi.URLParam(r, "entryID")); err != nil {
		h.respondError(w, r, "select winner", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "approve with winner", func(id int64) (*Quotation, error) {
		return h.service.ApproveWithWinner(r.Context(), id)
	})
}

func (h *Handler) sendPrice(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "send price to sales", func(id int64) (*Quotation, error) {
		return h.service.SendPriceToSales(r.Context(), id)
	})
}

func (h *Handler) confirmCustomer(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "confirm customer", func(id int64) (*Quotation, error) {
		return h.service.ConfirmCustomer(r.Context(), id)
	})
}

func (h *Handler) orderProduction(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "order production", func(id int64) (*Quotation, error) {
		return h.service.OrderProduction(r.Context(), id)
	})
}

func (h *Handler) advanceStep(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	var req AdvanceStepRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	q, err := h.service.AdvanceProductionStep(r.Context(), id, ProductionStep(req.Step))
	if err != nil {
		h.respondError(w, r, "advance production step", err)
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

func (h *Handler) complete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "complete quotation", func(id int64) (*Quotation, error) {
		return h.service.CompleteWithoutProduction(r.Context(), id)
	})
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	q, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, r, "get quotation", err)
		return
	}
	sess, err := h.service.Session(r.Context(), id)
	if err != nil {
		h.respondError(w, r, "get session", err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="comparison-`+q.JobCode+`.csv"`)
	if err := h.exporter.WriteComparisonCSV(r.Context(), w, toExportComparison(q, sess)); err != nil {
		h.logger.Error("export comparison csv", slog.Any("error", err))
	}
}

func (h *Handler) exportExcel(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	q, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, r, "get quotation", err)
		return
	}
	sess, err := h.service.Session(r.Context(), id)
	if err != nil {
		h.respondError(w, r, "get session", err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="comparison-`+q.JobCode+`.xlsx"`)
	if err := h.exporter.WriteComparisonExcel(r.Context(), w, toExportComparison(q, sess)); err != nil {
		h.logger.Error("export comparison xlsx", slog.Any("error", err))
	}
}

func toExportComparison(q *Quotation, sess *Session) export.Comparison {
	rows := make([]export.Row, 0, len(sess.Entries))
	for _, entry := range sess.Entries {
		rows = append(rows, export.Row{
			FactoryLabel:             entry.FactoryLabel,
			UnitCost:                 entry.UnitCost,
			MoldCost:                 entry.MoldCost,
			MoldCostAdditionalTHB:    entry.MoldCostAdditionalTHB,
			TotalCostPerUnit:         entry.TotalCostPerUnit,
			TotalSellingPricePerUnit: entry.TotalSellingPricePerUnit,
			TotalProfit:              entry.TotalProfit,
			IsWinner:                 entry.IsWinner,
		})
	}
	return export.Comparison{
		JobCode:      q.JobCode,
		JobName:      q.JobName,
		CustomerName: q.CustomerName,
		Quantity:     sess.Header.Quantity,
		ExchangeRate: sess.Header.ExchangeRate,
		VATPercent:   sess.Header.VATPercent,
		ShippingRMB:  sess.Header.ShippingCostRMB,
		Rows:         rows,
	}
}

type transitionFunc func(id int64) (*Quotation, error)

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, action string, fn transitionFunc) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	q, err := fn(id)
	if err != nil {
		h.respondError(w, r, action, err)
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid quotation id")
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
