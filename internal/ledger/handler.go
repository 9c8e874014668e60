package ledger

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/jewisonj/Purina-Tracker/internal/platform/httpx"
)

// Handler wires the ledger's HTTP endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a ledger handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers product and inventory routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/products", h.listProducts)
	r.Put("/products/{materialNo}/markup", h.updateMarkup)
	r.Put("/products/{materialNo}/reorder", h.updateReorder)
	r.Post("/inventory/adjust", h.adjust)
	r.Post("/inventory/bulk-adjust", h.bulkAdjust)
	r.Get("/inventory/log", h.listLog)
	r.Get("/inventory/low-stock", h.listLowStock)
}

type markupUpdateRequest struct {
	MarkupPct float64 `json:"markup_pct" validate:"gte=0"`
}

type reorderUpdateRequest struct {
	ReorderPoint int `json:"reorder_point" validate:"gte=0"`
}

type adjustmentRequest struct {
	MaterialNo string `json:"material_no" validate:"required"`
	ChangeType string `json:"change_type" validate:"required,oneof=sale restock adjustment"`
	Quantity   int    `json:"quantity"`
	Notes      string `json:"notes"`
}

type bulkAdjustmentRequest struct {
	Adjustments []adjustmentRequest `json:"adjustments" validate:"required,min=1,dive"`
}

type bulkAdjustResponse struct {
	Results []Product          `json:"results"`
	Error   *bulkFailureDetail `json:"error,omitempty"`
}

type bulkFailureDetail struct {
	MaterialNo string `json:"material_no"`
	Completed  int    `json:"completed"`
	Reason     string `json:"reason"`
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		h.respondError(w, "list products", err)
		return
	}
	httpx.JSON(w, http.StatusOK, products)
}

func (h *Handler) updateMarkup(w http.ResponseWriter, r *http.Request) {
	var req markupUpdateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	product, err := h.service.UpdateMarkup(r.Context(), chi.URLParam(r, "materialNo"), req.MarkupPct)
	if err != nil {
		h.respondError(w, "update markup", err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) updateReorder(w http.ResponseWriter, r *http.Request) {
	var req reorderUpdateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	product, err := h.service.UpdateReorderPoint(r.Context(), chi.URLParam(r, "materialNo"), req.ReorderPoint)
	if err != nil {
		h.respondError(w, "update reorder point", err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) adjust(w http.ResponseWriter, r *http.Request) {
	var req adjustmentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	product, err := h.service.AdjustQuantity(r.Context(), req.MaterialNo, ChangeType(req.ChangeType), req.Quantity, req.Notes, actorName(r))
	if err != nil {
		h.respondError(w, "adjust inventory", err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) bulkAdjust(w http.ResponseWriter, r *http.Request) {
	var req bulkAdjustmentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	adjustments := make([]Adjustment, 0, len(req.Adjustments))
	for _, a := range req.Adjustments {
		adjustments = append(adjustments, Adjustment{
			MaterialNo: a.MaterialNo,
			ChangeType: ChangeType(a.ChangeType),
			Quantity:   a.Quantity,
			Notes:      a.Notes,
		})
	}
	results, err := h.service.BulkAdjust(r.Context(), adjustments, actorName(r))
	if err != nil {
		var bulkErr *BulkError
		if errors.As(err, &bulkErr) {
			// Partial apply: earlier adjustments stand, so the caller gets
			// both the results and the failing item's identity.
			httpx.JSON(w, statusForError(err), bulkAdjustResponse{
				Results: results,
				Error: &bulkFailureDetail{
					MaterialNo: bulkErr.MaterialNo,
					Completed:  bulkErr.Completed,
					Reason:     bulkErr.Err.Error(),
				},
			})
			return
		}
		h.respondError(w, "bulk adjust", err)
		return
	}
	httpx.JSON(w, http.StatusOK, bulkAdjustResponse{Results: results})
}

func (h *Handler) listLog(w http.ResponseWriter, r *http.Request) {
	limit := defaultLogLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "limit must be an integer")
			return
		}
		limit = n
	}
	entries, err := h.service.ListLog(r.Context(), limit)
	if err != nil {
		h.respondError(w, "list log", err)
		return
	}
	httpx.JSON(w, http.StatusOK, entries)
}

func (h *Handler) listLowStock(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListLowStock(r.Context())
	if err != nil {
		h.respondError(w, "list low stock", err)
		return
	}
	httpx.JSON(w, http.StatusOK, products)
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(op+" failed", slog.Any("error", err))
		httpx.Problem(w, status, "Internal Error", "")
		return
	}
	httpx.Problem(w, status, http.StatusText(status), err.Error())
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidChangeType):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// actorName labels audit entries with the request origin. All requests come
// through the web app today.
func actorName(*http.Request) string {
	return "web"
}
