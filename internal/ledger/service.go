// Package ledger is the stateful core of the tracker: it maps spreadsheet
// rows to typed product records, serves reads through a TTL-bounded snapshot
// cache, and applies every stock mutation against a fresh read of the sheet
// with an append-only audit trail.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jewisonj/Purina-Tracker/internal/platform/sheets"
	"github.com/jewisonj/Purina-Tracker/internal/pricing"
)

// MaxLogEntries caps a log listing regardless of the requested limit.
const MaxLogEntries = 500

const defaultLogLimit = 100

// Store is the tabular backing-store contract the ledger consumes.
type Store interface {
	ReadAllRows(ctx context.Context, tab string) ([][]string, error)
	AppendRow(ctx context.Context, tab string, values []any) error
	BatchWriteRanges(ctx context.Context, tab string, writes []sheets.RangeWrite) error
}

// Service owns the product snapshot cache and coordinates all reads and
// mutations of the Inventory and Inventory Log tabs.
type Service struct {
	store  Store
	logger *slog.Logger
	cache  *productCache
	flight singleflight.Group
	keys   *keyedMutex
	now    func() time.Time
}

// ServiceConfig groups optional settings.
type ServiceConfig struct {
	CacheTTL time.Duration
	// Clock overrides time.Now for deterministic tests.
	Clock func() time.Time
}

// NewService builds a Service over the given store.
func NewService(store Store, logger *slog.Logger, cfg ServiceConfig) *Service {
	now := cfg.Clock
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  store,
		logger: logger,
		cache:  newProductCache(cfg.CacheTTL, now),
		keys:   newKeyedMutex(),
		now:    now,
	}
}

// ListProducts returns every product row, in sheet order. Results come from
// the snapshot cache when it is fresh; concurrent cache misses share a
// single remote read.
func (s *Service) ListProducts(ctx context.Context) ([]Product, error) {
	if products, ok := s.cache.Get(); ok {
		return products, nil
	}
	ch := s.flight.DoChan("products", func() (any, error) {
		products, err := s.fetchProducts(ctx)
		if err != nil {
			return nil, err
		}
		s.cache.Set(products)
		return products, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]Product), nil
	}
}

func (s *Service) fetchProducts(ctx context.Context) ([]Product, error) {
	rows, err := s.store.ReadAllRows(ctx, TabInventory)
	if err != nil {
		return nil, err
	}
	products := make([]Product, 0, len(rows))
	for i, row := range dataRows(rows) {
		rowNum := i + 2
		if cellAt(row, ColMaterialNo) == "" {
			// Blank-key rows are separators, not products.
			continue
		}
		p, err := parseProductRow(rowNum, row)
		if err != nil {
			s.logger.Warn("skipping malformed inventory row",
				slog.Int("row", rowNum),
				slog.Any("error", err))
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

// FindByKey returns the product with the given material number from the
// current snapshot.
func (s *Service) FindByKey(ctx context.Context, materialNo string) (Product, error) {
	products, err := s.ListProducts(ctx)
	if err != nil {
		return Product{}, err
	}
	for _, p := range products {
		if p.MaterialNo == materialNo {
			return p, nil
		}
	}
	return Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, materialNo)
}

// UpdateMarkup sets a product's markup fraction, recomputes both retail
// prices from the currently stored cost, and returns the refreshed record.
func (s *Service) UpdateMarkup(ctx context.Context, materialNo string, markup float64) (Product, error) {
	rowNum, row, err := s.findRow(ctx, materialNo)
	if err != nil {
		return Product{}, err
	}
	cost, err := parseFloatCell(cellAt(row, ColPurinaCost), 0)
	if err != nil {
		cost = 0
	}
	preTax := pricing.PreTax(cost, markup)
	withTax := pricing.WithTax(preTax, pricing.DefaultTaxRate)

	writes := []sheets.RangeWrite{
		{A1: sheets.A1(ColMarkupPct+1, rowNum), Rows: [][]any{{markup, preTax, withTax}}},
		{A1: sheets.A1(ColLastUpdated+1, rowNum), Rows: [][]any{{s.timestamp()}}},
	}
	if err := s.store.BatchWriteRanges(ctx, TabInventory, writes); err != nil {
		return Product{}, err
	}
	s.cache.Invalidate()
	return s.FindByKey(ctx, materialNo)
}

// UpdateReorderPoint sets a product's reorder point.
func (s *Service) UpdateReorderPoint(ctx context.Context, materialNo string, reorderPoint int) (Product, error) {
	rowNum, _, err := s.findRow(ctx, materialNo)
	if err != nil {
		return Product{}, err
	}
	writes := []sheets.RangeWrite{
		{A1: sheets.A1(ColReorderPoint+1, rowNum), Rows: [][]any{{reorderPoint}}},
		{A1: sheets.A1(ColLastUpdated+1, rowNum), Rows: [][]any{{s.timestamp()}}},
	}
	if err := s.store.BatchWriteRanges(ctx, TabInventory, writes); err != nil {
		return Product{}, err
	}
	s.cache.Invalidate()
	return s.FindByKey(ctx, materialNo)
}

// AdjustQuantity applies a signed quantity change to one product and appends
// an audit log entry. The on-hand quantity is re-read from the sheet under a
// per-key lock, never taken from the cache, and is clamped at zero on
// underflow. The log entry records the requested delta even when execution
// was clamped.
func (s *Service) AdjustQuantity(ctx context.Context, materialNo string, changeType ChangeType, quantity int, notes, changedBy string) (Product, error) {
	if !changeType.Valid() {
		return Product{}, fmt.Errorf("%w: %q", ErrInvalidChangeType, changeType)
	}
	unlock := s.keys.Lock(materialNo)
	defer unlock()

	rowNum, row, err := s.findRow(ctx, materialNo)
	if err != nil {
		return Product{}, err
	}
	previous, err := parseIntCell(cellAt(row, ColQtyOnHand), 0)
	if err != nil {
		previous = 0
	}
	newQty := previous + quantity
	if newQty < 0 {
		newQty = 0
	}

	writes := []sheets.RangeWrite{
		{A1: sheets.A1(ColQtyOnHand+1, rowNum), Rows: [][]any{{newQty}}},
		{A1: sheets.A1(ColLastUpdated+1, rowNum), Rows: [][]any{{s.timestamp()}}},
	}
	if err := s.store.BatchWriteRanges(ctx, TabInventory, writes); err != nil {
		return Product{}, err
	}

	entry := LogEntry{
		Timestamp:   s.now().UTC().Format(logTimeFormat),
		ProductName: cellAt(row, ColProductName),
		MaterialNo:  materialNo,
		ChangeType:  changeType,
		QtyChanged:  quantity,
		PreviousQty: previous,
		NewQty:      newQty,
		ChangedBy:   changedBy,
		Notes:       notes,
	}
	if err := s.store.AppendRow(ctx, TabLog, logRow(entry)); err != nil {
		return Product{}, err
	}

	s.cache.Invalidate()
	return s.FindByKey(ctx, materialNo)
}

// BulkAdjust applies adjustments sequentially in input order. It is not
// atomic: on failure the earlier adjustments stand, later ones are not
// attempted, and the returned BulkError names the failing key and the count
// of completed items.
func (s *Service) BulkAdjust(ctx context.Context, adjustments []Adjustment, changedBy string) ([]Product, error) {
	results := make([]Product, 0, len(adjustments))
	for i, adj := range adjustments {
		p, err := s.AdjustQuantity(ctx, adj.MaterialNo, adj.ChangeType, adj.Quantity, adj.Notes, changedBy)
		if err != nil {
			return results, &BulkError{MaterialNo: adj.MaterialNo, Completed: i, Err: err}
		}
		results = append(results, p)
	}
	return results, nil
}

// ListLowStock returns products at or below their reorder point, in the same
// order as ListProducts.
func (s *Service) ListLowStock(ctx context.Context) ([]Product, error) {
	products, err := s.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	low := make([]Product, 0)
	for _, p := range products {
		if p.LowStock() {
			low = append(low, p)
		}
	}
	return low, nil
}

// ListLog returns the most recent log entries, newest first. The limit is
// capped at MaxLogEntries.
func (s *Service) ListLog(ctx context.Context, limit int) ([]LogEntry, error) {
	if limit <= 0 {
		limit = defaultLogLimit
	}
	if limit > MaxLogEntries {
		limit = MaxLogEntries
	}
	rows, err := s.store.ReadAllRows(ctx, TabLog)
	if err != nil {
		return nil, err
	}
	entries := make([]LogEntry, 0, len(rows))
	for i, row := range dataRows(rows) {
		if cellAt(row, logColTimestamp) == "" {
			continue
		}
		e, err := parseLogRow(row)
		if err != nil {
			s.logger.Warn("skipping malformed log row",
				slog.Int("row", i+2),
				slog.Any("error", err))
			continue
		}
		entries = append(entries, e)
	}
	// Storage order is append order, oldest first.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// InvalidateCache drops the product snapshot. Collaborators that write to
// the inventory tab outside this service (the price-list importer) call this
// after their writes.
func (s *Service) InvalidateCache() {
	s.cache.Invalidate()
}

// findRow locates a product row by material number against a fresh read of
// the sheet, bypassing the cache. Mutations must not act on cached state.
func (s *Service) findRow(ctx context.Context, materialNo string) (int, []string, error) {
	if materialNo == "" {
		// Never match the blank separator rows.
		return 0, nil, fmt.Errorf("%w: empty material number", ErrProductNotFound)
	}
	rows, err := s.store.ReadAllRows(ctx, TabInventory)
	if err != nil {
		return 0, nil, err
	}
	for i, row := range dataRows(rows) {
		if cellAt(row, ColMaterialNo) == materialNo {
			return i + 2, row, nil
		}
	}
	return 0, nil, fmt.Errorf("%w: %s", ErrProductNotFound, materialNo)
}

func (s *Service) timestamp() string {
	return s.now().UTC().Format(productTimeFormat)
}

// dataRows strips the header row.
func dataRows(rows [][]string) [][]string {
	if len(rows) <= 1 {
		return nil
	}
	return rows[1:]
}
