package ledger

import (
	"errors"
	"fmt"
)

// ChangeType classifies an inventory movement for the audit log.
type ChangeType string

const (
	// ChangeTypeSale records stock leaving through a sale.
	ChangeTypeSale ChangeType = "sale"
	// ChangeTypeRestock records stock arriving from the supplier.
	ChangeTypeRestock ChangeType = "restock"
	// ChangeTypeAdjustment records a manual correction (counts, damage).
	ChangeTypeAdjustment ChangeType = "adjustment"
)

// Valid reports whether t is one of the known change types.
func (t ChangeType) Valid() bool {
	switch t {
	case ChangeTypeSale, ChangeTypeRestock, ChangeTypeAdjustment:
		return true
	}
	return false
}

// Product is one stock-keeping unit, one row of the Inventory tab.
type Product struct {
	RowNumber     int     `json:"row_number"` // 1-based sheet row, used for write targeting only
	MaterialNo    string  `json:"material_no"`
	FormulaCode   string  `json:"formula_code"`
	ProductName   string  `json:"product_name"`
	ProductForm   string  `json:"product_form"`
	UnitWeight    string  `json:"unit_weight"`
	PurinaCost    float64 `json:"purina_cost"`
	PalletCost    float64 `json:"pallet_cost"`
	MarkupPct     float64 `json:"markup_pct"`
	RetailPreTax  float64 `json:"retail_pre_tax"`
	RetailWithTax float64 `json:"retail_with_tax"`
	QtyOnHand     int     `json:"qty_on_hand"`
	ReorderPoint  int     `json:"reorder_point"`
	LastUpdated   string  `json:"last_updated"`
	Notes         string  `json:"notes"`
}

// LowStock reports whether the product sits at or below its reorder point.
func (p Product) LowStock() bool {
	return p.QtyOnHand <= p.ReorderPoint
}

// LogEntry is one immutable row of the Inventory Log tab.
type LogEntry struct {
	Timestamp   string     `json:"timestamp"`
	ProductName string     `json:"product_name"`
	MaterialNo  string     `json:"material_no"`
	ChangeType  ChangeType `json:"change_type"`
	QtyChanged  int        `json:"qty_changed"`
	PreviousQty int        `json:"previous_qty"`
	NewQty      int        `json:"new_qty"`
	ChangedBy   string     `json:"changed_by"`
	Notes       string     `json:"notes"`
}

// Adjustment is one requested quantity change.
type Adjustment struct {
	MaterialNo string
	ChangeType ChangeType
	Quantity   int
	Notes      string
}

// ErrProductNotFound indicates the material number matched no inventory row.
var ErrProductNotFound = errors.New("ledger: product not found")

// ErrInvalidChangeType indicates an unknown change type.
var ErrInvalidChangeType = errors.New("ledger: invalid change type")

// BulkError reports a bulk adjustment that failed partway through. Earlier
// adjustments remain applied; Completed counts them.
type BulkError struct {
	MaterialNo string
	Completed  int
	Err        error
}

func (e *BulkError) Error() string {
	return fmt.Sprintf("ledger: bulk adjust stopped at %q after %d applied: %v", e.MaterialNo, e.Completed, e.Err)
}

func (e *BulkError) Unwrap() error { return e.Err }
