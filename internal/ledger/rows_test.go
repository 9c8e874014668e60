package ledger

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseProductRowDefaults(t *testing.T) {
	// Short row: markup, reorder and the derived prices are all absent.
	p, err := parseProductRow(2, []string{"P1", "F100", "Horse Feed", "Pellet", "50 lb", "10.00"})
	require.NoError(t, err)
	require.Equal(t, "P1", p.MaterialNo)
	require.InDelta(t, 0.25, p.MarkupPct, 1e-9)
	require.Equal(t, 0, p.QtyOnHand)
	require.Equal(t, 5, p.ReorderPoint)
	require.InDelta(t, 12.50, p.RetailPreTax, 1e-9)
}

func TestParseProductRowAcceptsFractionalQuantityCells(t *testing.T) {
	row := []string{"P1", "", "", "", "", "10", "", "0.25", "", "", "3.0", "5.0", "", ""}
	p, err := parseProductRow(2, row)
	require.NoError(t, err)
	require.Equal(t, 3, p.QtyOnHand)
	require.Equal(t, 5, p.ReorderPoint)
}

func TestParseProductRowMalformed(t *testing.T) {
	_, err := parseProductRow(2, []string{"P1", "", "", "", "", "ten dollars"})
	require.Error(t, err)

	_, err = parseProductRow(2, []string{"P1", "", "", "", "", "10", "", "0.25", "", "", "many", "5", "", ""})
	require.Error(t, err)
}

func TestProductRowRoundTrip(t *testing.T) {
	p := Product{
		MaterialNo:    "P9",
		FormulaCode:   "F9",
		ProductName:   "Test Feed",
		ProductForm:   "Pellet",
		UnitWeight:    "50 lb",
		PurinaCost:    10.40,
		PalletCost:    416.00,
		MarkupPct:     0.25,
		RetailPreTax:  13.00,
		RetailWithTax: 13.75,
		QtyOnHand:     7,
		ReorderPoint:  5,
	}
	row := ProductRow(p)
	require.Len(t, row, 14)

	cells := make([]string, len(row))
	for i, v := range row {
		cells[i] = stringCell(v)
	}
	parsed, err := parseProductRow(3, cells)
	require.NoError(t, err)
	parsed.RowNumber = 0
	require.Equal(t, p, parsed)
}

func TestParseLogRow(t *testing.T) {
	e, err := parseLogRow([]string{"2026-03-01 12:00:00", "Horse Feed", "P1", "sale", "-3", "10", "7", "web", "register"})
	require.NoError(t, err)
	require.Equal(t, ChangeTypeSale, e.ChangeType)
	require.Equal(t, -3, e.QtyChanged)
	require.Equal(t, 10, e.PreviousQty)
	require.Equal(t, 7, e.NewQty)

	_, err = parseLogRow([]string{"2026-03-01 12:00:00", "Horse Feed", "P1", "sale", "three"})
	require.Error(t, err)
}

func stringCell(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
