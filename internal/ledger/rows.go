package ledger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jewisonj/Purina-Tracker/internal/pricing"
)

// Tab names in the backing spreadsheet.
const (
	TabInventory = "Inventory"
	TabLog       = "Inventory Log"
)

// Inventory tab column indices, 0-based. The sheet layout is positional;
// every row<->record translation in the codebase goes through this file.
const (
	ColMaterialNo = iota
	ColFormulaCode
	ColProductName
	ColProductForm
	ColUnitWeight
	ColPurinaCost
	ColPalletCost
	ColMarkupPct
	ColRetailPreTax
	ColRetailWithTax
	ColQtyOnHand
	ColReorderPoint
	ColLastUpdated
	ColNotes

	inventoryColumns
)

// Inventory Log tab column indices, 0-based.
const (
	logColTimestamp = iota
	logColProductName
	logColMaterialNo
	logColChangeType
	logColQtyChanged
	logColPreviousQty
	logColNewQty
	logColChangedBy
	logColNotes

	logColumns
)

const (
	productTimeFormat = "2006-01-02 15:04"
	logTimeFormat     = "2006-01-02 15:04:05"
	defaultReorder    = 5
)

// parseProductRow maps one raw sheet row to a Product. rowNum is the 1-based
// sheet row. An error means the row is malformed and should be skipped; the
// tab is hand-edited, so this is routine, not fatal.
func parseProductRow(rowNum int, row []string) (Product, error) {
	cost, err := parseFloatCell(cellAt(row, ColPurinaCost), 0)
	if err != nil {
		return Product{}, fmt.Errorf("cost: %w", err)
	}
	pallet, err := parseFloatCell(cellAt(row, ColPalletCost), 0)
	if err != nil {
		return Product{}, fmt.Errorf("pallet cost: %w", err)
	}
	markup, err := parseFloatCell(cellAt(row, ColMarkupPct), pricing.DefaultMarkup)
	if err != nil {
		return Product{}, fmt.Errorf("markup: %w", err)
	}
	preTax, err := parseFloatCell(cellAt(row, ColRetailPreTax), 0)
	if err != nil {
		return Product{}, fmt.Errorf("pre-tax price: %w", err)
	}
	withTax, err := parseFloatCell(cellAt(row, ColRetailWithTax), 0)
	if err != nil {
		return Product{}, fmt.Errorf("with-tax price: %w", err)
	}
	qty, err := parseIntCell(cellAt(row, ColQtyOnHand), 0)
	if err != nil {
		return Product{}, fmt.Errorf("quantity: %w", err)
	}
	reorder, err := parseIntCell(cellAt(row, ColReorderPoint), defaultReorder)
	if err != nil {
		return Product{}, fmt.Errorf("reorder point: %w", err)
	}

	// Stored derived prices win when present; external writers may have
	// computed them. Zero or blank means derive from cost and markup.
	if preTax == 0 {
		preTax = pricing.PreTax(cost, markup)
	}
	if withTax == 0 {
		withTax = pricing.WithTax(preTax, pricing.DefaultTaxRate)
	}

	return Product{
		RowNumber:     rowNum,
		MaterialNo:    cellAt(row, ColMaterialNo),
		FormulaCode:   cellAt(row, ColFormulaCode),
		ProductName:   cellAt(row, ColProductName),
		ProductForm:   cellAt(row, ColProductForm),
		UnitWeight:    cellAt(row, ColUnitWeight),
		PurinaCost:    cost,
		PalletCost:    pallet,
		MarkupPct:     markup,
		RetailPreTax:  preTax,
		RetailWithTax: withTax,
		QtyOnHand:     qty,
		ReorderPoint:  reorder,
		LastUpdated:   cellAt(row, ColLastUpdated),
		Notes:         cellAt(row, ColNotes),
	}, nil
}

// ProductRow serializes a Product to the positional Inventory row layout for
// appends. RowNumber is a location, not a column, and is not written.
func ProductRow(p Product) []any {
	row := make([]any, inventoryColumns)
	row[ColMaterialNo] = p.MaterialNo
	row[ColFormulaCode] = p.FormulaCode
	row[ColProductName] = p.ProductName
	row[ColProductForm] = p.ProductForm
	row[ColUnitWeight] = p.UnitWeight
	row[ColPurinaCost] = p.PurinaCost
	row[ColPalletCost] = p.PalletCost
	row[ColMarkupPct] = p.MarkupPct
	row[ColRetailPreTax] = p.RetailPreTax
	row[ColRetailWithTax] = p.RetailWithTax
	row[ColQtyOnHand] = p.QtyOnHand
	row[ColReorderPoint] = p.ReorderPoint
	row[ColLastUpdated] = p.LastUpdated
	row[ColNotes] = p.Notes
	return row
}

func parseLogRow(row []string) (LogEntry, error) {
	qty, err := parseIntCell(cellAt(row, logColQtyChanged), 0)
	if err != nil {
		return LogEntry{}, fmt.Errorf("qty changed: %w", err)
	}
	prev, err := parseIntCell(cellAt(row, logColPreviousQty), 0)
	if err != nil {
		return LogEntry{}, fmt.Errorf("previous qty: %w", err)
	}
	next, err := parseIntCell(cellAt(row, logColNewQty), 0)
	if err != nil {
		return LogEntry{}, fmt.Errorf("new qty: %w", err)
	}
	return LogEntry{
		Timestamp:   cellAt(row, logColTimestamp),
		ProductName: cellAt(row, logColProductName),
		MaterialNo:  cellAt(row, logColMaterialNo),
		ChangeType:  ChangeType(cellAt(row, logColChangeType)),
		QtyChanged:  qty,
		PreviousQty: prev,
		NewQty:      next,
		ChangedBy:   cellAt(row, logColChangedBy),
		Notes:       cellAt(row, logColNotes),
	}, nil
}

func logRow(e LogEntry) []any {
	row := make([]any, logColumns)
	row[logColTimestamp] = e.Timestamp
	row[logColProductName] = e.ProductName
	row[logColMaterialNo] = e.MaterialNo
	row[logColChangeType] = string(e.ChangeType)
	row[logColQtyChanged] = e.QtyChanged
	row[logColPreviousQty] = e.PreviousQty
	row[logColNewQty] = e.NewQty
	row[logColChangedBy] = e.ChangedBy
	row[logColNotes] = e.Notes
	return row
}

// cellAt tolerates short rows; the sheet trims trailing empty cells.
func cellAt(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

func parseFloatCell(s string, def float64) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	return strconv.ParseFloat(s, 64)
}

// parseIntCell accepts "12" and "12.0"; hand-entered quantities show up both
// ways.
func parseIntCell(s string, def int) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}
