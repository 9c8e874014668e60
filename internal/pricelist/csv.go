// Package pricelist reconciles supplier price-list feeds against the
// inventory ledger: matching products get fresh costs, unknown ones are
// appended with computed defaults.
package pricelist

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Record is one parsed price-list line.
type Record struct {
	MaterialNo  string
	FormulaCode string
	ProductName string
	ProductForm string
	UnitWeight  string
	Category    string
	SinglePrice float64
	PalletPrice float64
	// Raw keeps the original cells for the archive tab.
	Raw []string
}

// Supplier CSV header names.
const (
	headerMaterialNo  = "Material No"
	headerFormulaCode = "Formula Code"
	headerProductName = "Product Name"
	headerProductForm = "Product Form"
	headerUnitWeight  = "Individual Unit Wt."
	headerCategory    = "Price List Category"
	headerSinglePrice = "Single Unit List Price"
	headerPalletPrice = "Full Pallet List Price"
)

// ParseCSV reads a supplier price-list CSV. The export tool emits UTF-8 with
// a BOM, which the decoder strips.
func ParseCSV(r io.Reader) ([]Record, error) {
	decoded := transform.NewReader(r, unicode.UTF8BOM.NewDecoder())
	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("pricelist: read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	if _, ok := index[headerMaterialNo]; !ok {
		return nil, fmt.Errorf("pricelist: column %q missing", headerMaterialNo)
	}

	var records []Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("pricelist: read row: %w", err)
		}
		field := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		records = append(records, Record{
			MaterialNo:  field(headerMaterialNo),
			FormulaCode: field(headerFormulaCode),
			ProductName: field(headerProductName),
			ProductForm: field(headerProductForm),
			UnitWeight:  field(headerUnitWeight),
			Category:    field(headerCategory),
			SinglePrice: parsePrice(field(headerSinglePrice)),
			PalletPrice: parsePrice(field(headerPalletPrice)),
			Raw:         append([]string(nil), row...),
		})
	}
	return records, nil
}

// FilterWanted keeps the categories the store actually stocks: all HORSE
// products plus the CA ALL STOCK line from ALL PURPOSE.
func FilterWanted(records []Record) []Record {
	wanted := make([]Record, 0, len(records))
	for _, rec := range records {
		category := strings.ToUpper(rec.Category)
		isHorse := strings.Contains(category, "HORSE")
		isAllStock := strings.Contains(category, "ALL PURPOSE") &&
			strings.Contains(strings.ToUpper(rec.ProductName), "CA ALL STOCK")
		if isHorse || isAllStock {
			wanted = append(wanted, rec)
		}
	}
	return wanted
}

// parsePrice tolerates blanks and junk; the feed leaves prices empty for
// discontinued lines.
func parsePrice(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0
	}
	return v
}
