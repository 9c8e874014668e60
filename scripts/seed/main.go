// Seeds the spreadsheet tabs from a supplier price-list CSV: the Inventory
// tab gets the filtered product catalogue with default markup and reorder
// point, the Inventory Log tab gets its header row, and the Price List
// Archive tab gets the full raw CSV.
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"github.com/joho/godotenv"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/jewisonj/Purina-Tracker/internal/ledger"
	"github.com/jewisonj/Purina-Tracker/internal/platform/sheets"
	"github.com/jewisonj/Purina-Tracker/internal/pricelist"
	"github.com/jewisonj/Purina-Tracker/internal/pricing"
)

const (
	defaultMarkup  = pricing.DefaultMarkup
	defaultReorder = 5
	archiveChunk   = 200
)

var inventoryHeaders = []any{
	"Material No", "Formula Code", "Product Name", "Product Form",
	"Unit Weight", "Purina Cost", "Pallet Cost", "Markup %",
	"Retail Pre-Tax", "Retail w/ Tax", "Qty On Hand",
	"Reorder Point", "Last Updated", "Notes",
}

var logHeaders = []any{
	"Timestamp", "Product Name", "Material No", "Change Type",
	"Qty Changed", "Previous Qty", "New Qty", "Changed By", "Notes",
}

func main() {
	_ = godotenv.Load()

	csvPath := "PriceList.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}

	sheetID := os.Getenv("SHEET_ID")
	if sheetID == "" {
		log.Fatal("SHEET_ID must be set")
	}
	credentials := getenv("GOOGLE_CREDENTIALS", "credentials.json")

	ctx := context.Background()
	store, err := sheets.NewClient(ctx, sheetID, credentials)
	if err != nil {
		log.Fatalf("connect spreadsheet: %v", err)
	}

	fmt.Println("→ Loading price-list CSV...")
	file, err := os.Open(csvPath)
	if err != nil {
		log.Fatalf("open csv: %v", err)
	}
	records, err := pricelist.ParseCSV(file)
	file.Close()
	if err != nil {
		log.Fatalf("parse csv: %v", err)
	}
	wanted := pricelist.FilterWanted(records)
	sort.Slice(wanted, func(i, j int) bool {
		return wanted[i].ProductName < wanted[j].ProductName
	})
	fmt.Printf("  %d of %d rows kept\n", len(wanted), len(records))

	fmt.Println("→ Seeding inventory tab...")
	if err := seedInventory(ctx, store, wanted); err != nil {
		log.Fatalf("seed inventory: %v", err)
	}

	fmt.Println("→ Seeding inventory log tab...")
	if err := store.WriteRange(ctx, ledger.TabLog, "A1", [][]any{logHeaders}); err != nil {
		log.Fatalf("seed inventory log: %v", err)
	}

	fmt.Println("→ Seeding price-list archive tab...")
	if err := seedArchive(ctx, store, csvPath); err != nil {
		log.Fatalf("seed archive: %v", err)
	}

	fmt.Println("Done. Set quantities via the web app after the first physical count.")
}

func seedInventory(ctx context.Context, store *sheets.Client, records []pricelist.Record) error {
	rows := [][]any{inventoryHeaders}
	for _, rec := range records {
		if rec.MaterialNo == "" {
			continue
		}
		preTax := pricing.PreTax(rec.SinglePrice, defaultMarkup)
		rows = append(rows, ledger.ProductRow(ledger.Product{
			MaterialNo:    rec.MaterialNo,
			FormulaCode:   rec.FormulaCode,
			ProductName:   rec.ProductName,
			ProductForm:   rec.ProductForm,
			UnitWeight:    rec.UnitWeight,
			PurinaCost:    rec.SinglePrice,
			PalletCost:    rec.PalletPrice,
			MarkupPct:     defaultMarkup,
			RetailPreTax:  preTax,
			RetailWithTax: pricing.WithTax(preTax, pricing.DefaultTaxRate),
			ReorderPoint:  defaultReorder,
		}))
	}
	return store.WriteRange(ctx, ledger.TabInventory, "A1", rows)
}

// seedArchive dumps the raw CSV, header included, into the archive tab.
func seedArchive(ctx context.Context, store *sheets.Client, csvPath string) error {
	file, err := os.Open(csvPath)
	if err != nil {
		return err
	}
	defer file.Close()

	reader := csv.NewReader(transform.NewReader(file, unicode.UTF8BOM.NewDecoder()))
	reader.FieldsPerRecord = -1

	var rows [][]any
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		cells := make([]any, len(record))
		for i, cell := range record {
			cells[i] = cell
		}
		rows = append(rows, cells)
	}
	for i := 0; i < len(rows); i += archiveChunk {
		end := i + archiveChunk
		if end > len(rows) {
			end = len(rows)
		}
		topLeft := fmt.Sprintf("A%d", i+1)
		if err := store.WriteRange(ctx, pricelist.TabArchive, topLeft, rows[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
