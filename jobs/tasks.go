// Package jobs defines the background tasks the tracker runs off the request
// path: archiving imported price-list feeds and scanning for low stock.
package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/jewisonj/Purina-Tracker/internal/ledger"
	"github.com/jewisonj/Purina-Tracker/internal/pricelist"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypePriceListArchive appends an accepted feed to the archive tab.
	TaskTypePriceListArchive = "pricelist:archive"
	// TaskTypeLowStockScan reports products at or below their reorder point.
	TaskTypeLowStockScan = "inventory:low_stock_scan"
)

// PriceListArchivePayload carries the raw rows of an accepted feed.
type PriceListArchivePayload struct {
	BatchID    string     `json:"batch_id"`
	ImportedAt string     `json:"imported_at"`
	Rows       [][]string `json:"rows"`
}

// NewPriceListArchiveTask constructs an Asynq task.
func NewPriceListArchiveTask(payload PriceListArchivePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypePriceListArchive, data), nil
}

// NewLowStockScanTask constructs the periodic low-stock scan task.
func NewLowStockScanTask() *asynq.Task {
	return asynq.NewTask(TaskTypeLowStockScan, nil)
}

// ArchiveStore is the slice of the tabular store the archive task needs.
type ArchiveStore interface {
	AppendRow(ctx context.Context, tab string, values []any) error
}

// Handlers processes tracker tasks.
type Handlers struct {
	logger *slog.Logger
	store  ArchiveStore
	ledger *ledger.Service
}

// NewHandlers constructs task handlers.
func NewHandlers(logger *slog.Logger, store ArchiveStore, ledgerSvc *ledger.Service) *Handlers {
	return &Handlers{logger: logger, store: store, ledger: ledgerSvc}
}

// HandlePriceListArchive appends the raw feed rows to the archive tab, one
// row per feed line, prefixed with the import batch ID and timestamp.
func (h *Handlers) HandlePriceListArchive(ctx context.Context, t *asynq.Task) error {
	var payload PriceListArchivePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	for _, row := range payload.Rows {
		values := make([]any, 0, len(row)+2)
		values = append(values, payload.BatchID, payload.ImportedAt)
		for _, cell := range row {
			values = append(values, cell)
		}
		if err := h.store.AppendRow(ctx, pricelist.TabArchive, values); err != nil {
			return err
		}
	}
	h.logger.Info("price list feed archived",
		slog.String("batch_id", payload.BatchID),
		slog.Int("rows", len(payload.Rows)))
	return nil
}

// HandleLowStockScan logs every product at or below its reorder point so the
// operator sees reorder candidates in the morning without opening the sheet.
func (h *Handlers) HandleLowStockScan(ctx context.Context, t *asynq.Task) error {
	low, err := h.ledger.ListLowStock(ctx)
	if err != nil {
		return err
	}
	for _, p := range low {
		h.logger.Warn("product at or below reorder point",
			slog.String("material_no", p.MaterialNo),
			slog.String("product", p.ProductName),
			slog.Int("qty_on_hand", p.QtyOnHand),
			slog.Int("reorder_point", p.ReorderPoint))
	}
	h.logger.Info("low stock scan complete", slog.Int("low_stock", len(low)))
	return nil
}
