package invoices

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jewisonj/Purina-Tracker/internal/platform/httpx"
)

// Handler wires the invoice endpoint.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs an invoice handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers invoice routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/invoices", h.file)
}

type fileResponse struct {
	Message       string `json:"message"`
	InvoiceNumber string `json:"invoice_number"`
}

func (h *Handler) file(w http.ResponseWriter, r *http.Request) {
	var inv Invoice
	if err := httpx.DecodeJSON(r, &inv); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}
	number, err := h.service.File(r.Context(), inv)
	if errors.Is(err, ErrInvalidInvoice) {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", err.Error())
		return
	}
	if err != nil {
		h.logger.Error("file invoice failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, fileResponse{
		Message:       "Invoice filed successfully",
		InvoiceNumber: number,
	})
}
