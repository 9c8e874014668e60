package pricelist

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jewisonj/Purina-Tracker/internal/platform/httpx"
)

// Feeds are small (a few hundred rows), keep uploads bounded anyway.
const maxUploadBytes = 10 << 20

// ArchiveQueue queues an accepted feed for archival off the request path.
type ArchiveQueue interface {
	EnqueueArchive(ctx context.Context, batchID, importedAt string, rows [][]string) error
}

// Handler wires the price-list HTTP endpoints.
type Handler struct {
	logger   *slog.Logger
	importer *Importer
	store    Store
	archive  ArchiveQueue
}

// NewHandler constructs a price-list handler. archive may be nil when no
// queue is configured; imports then skip archival.
func NewHandler(logger *slog.Logger, importer *Importer, store Store, archive ArchiveQueue) *Handler {
	return &Handler{logger: logger, importer: importer, store: store, archive: archive}
}

// MountRoutes registers price-list routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/pricelist/import", h.importFeed)
	r.Get("/pricelist/archive", h.archiveContents)
}

type importResponse struct {
	Updated     int      `json:"updated"`
	NewProducts []string `json:"new_products"`
	Message     string   `json:"message"`
}

type archiveResponse struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

func (h *Handler) importFeed(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "expected multipart upload")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "file field missing")
		return
	}
	defer file.Close()

	records, err := ParseCSV(file)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", err.Error())
		return
	}
	wanted := FilterWanted(records)

	report, err := h.importer.Import(r.Context(), wanted)
	if err != nil {
		h.logger.Error("price list import failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	if h.archive != nil {
		batchID := uuid.NewString()
		rows := make([][]string, 0, len(wanted))
		for _, rec := range wanted {
			rows = append(rows, rec.Raw)
		}
		importedAt := time.Now().UTC().Format("2006-01-02 15:04:05")
		if err := h.archive.EnqueueArchive(r.Context(), batchID, importedAt, rows); err != nil {
			// Archival is informational; the import already succeeded.
			h.logger.Warn("enqueue price list archive failed",
				slog.String("batch_id", batchID),
				slog.Any("error", err))
		}
	}

	httpx.JSON(w, http.StatusOK, importResponse{
		Updated:     report.Updated,
		NewProducts: report.NewProducts,
		Message: fmt.Sprintf("Updated %d existing products, added %d new products.",
			report.Updated, len(report.NewProducts)),
	})
}

func (h *Handler) archiveContents(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.ReadAllRows(r.Context(), TabArchive)
	if err != nil {
		h.logger.Error("read price list archive failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	resp := archiveResponse{Headers: []string{}, Rows: [][]string{}}
	if len(rows) > 0 {
		resp.Headers = rows[0]
		resp.Rows = rows[1:]
	}
	httpx.JSON(w, http.StatusOK, resp)
}
