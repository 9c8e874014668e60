package pricelist

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jewisonj/Purina-Tracker/internal/ledger"
	"github.com/jewisonj/Purina-Tracker/internal/platform/sheets"
	"github.com/jewisonj/Purina-Tracker/internal/pricing"
)

// TabArchive holds raw imported feeds, informational only.
const TabArchive = "Price List Archive"

// Store is the tabular backing-store contract the importer consumes.
type Store interface {
	ReadAllRows(ctx context.Context, tab string) ([][]string, error)
	WriteRange(ctx context.Context, tab, topLeft string, rows [][]any) error
	AppendRow(ctx context.Context, tab string, values []any) error
}

// CacheInvalidator lets the importer drop the ledger's product snapshot
// after writing to the inventory tab behind its back.
type CacheInvalidator interface {
	InvalidateCache()
}

// Report summarises one merge import.
type Report struct {
	Updated     int      `json:"updated"`
	NewProducts []string `json:"new_products"`
}

// Importer merges price-list records into the inventory tab.
type Importer struct {
	store  Store
	ledger CacheInvalidator
	logger *slog.Logger
}

// NewImporter constructs an Importer.
func NewImporter(store Store, ledger CacheInvalidator, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{store: store, ledger: ledger, logger: logger}
}

// Import applies records against the inventory tab. Matching is exact key
// equality. An existing product only gets its costs overwritten; quantity,
// markup and notes are left alone. Unmatched records become new rows with
// default markup, zero stock and derived prices.
func (im *Importer) Import(ctx context.Context, records []Record) (Report, error) {
	rows, err := im.store.ReadAllRows(ctx, ledger.TabInventory)
	if err != nil {
		return Report{}, err
	}
	rowByKey := make(map[string]int, len(rows))
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) > 0 && row[ledger.ColMaterialNo] != "" {
			rowByKey[row[ledger.ColMaterialNo]] = i + 1
		}
	}

	report := Report{NewProducts: []string{}}
	for _, rec := range records {
		if rec.MaterialNo == "" {
			continue
		}
		if rowNum, ok := rowByKey[rec.MaterialNo]; ok {
			topLeft := sheets.A1(ledger.ColPurinaCost+1, rowNum)
			costs := [][]any{{rec.SinglePrice, rec.PalletPrice}}
			if err := im.store.WriteRange(ctx, ledger.TabInventory, topLeft, costs); err != nil {
				return report, fmt.Errorf("pricelist: update costs for %s: %w", rec.MaterialNo, err)
			}
			report.Updated++
			continue
		}

		preTax := pricing.PreTax(rec.SinglePrice, pricing.DefaultMarkup)
		product := ledger.Product{
			MaterialNo:    rec.MaterialNo,
			FormulaCode:   rec.FormulaCode,
			ProductName:   rec.ProductName,
			ProductForm:   rec.ProductForm,
			UnitWeight:    rec.UnitWeight,
			PurinaCost:    rec.SinglePrice,
			PalletCost:    rec.PalletPrice,
			MarkupPct:     pricing.DefaultMarkup,
			RetailPreTax:  preTax,
			RetailWithTax: pricing.WithTax(preTax, pricing.DefaultTaxRate),
			QtyOnHand:     0,
			ReorderPoint:  5,
		}
		if err := im.store.AppendRow(ctx, ledger.TabInventory, ledger.ProductRow(product)); err != nil {
			return report, fmt.Errorf("pricelist: append %s: %w", rec.MaterialNo, err)
		}
		report.NewProducts = append(report.NewProducts, rec.ProductName)
	}

	if im.ledger != nil {
		im.ledger.InvalidateCache()
	}
	im.logger.Info("price list imported",
		slog.Int("updated", report.Updated),
		slog.Int("new", len(report.NewProducts)))
	return report, nil
}
