package pricelist

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jewisonj/Purina-Tracker/internal/ledger"
)

type fakeStore struct {
	mu     sync.Mutex
	tabs   map[string][][]string
	writes []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{tabs: make(map[string][][]string)}
}

func (f *fakeStore) ReadAllRows(_ context.Context, tab string) ([][]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	src := f.tabs[tab]
	out := make([][]string, len(src))
	for i, row := range src {
		out[i] = append([]string(nil), row...)
	}
	return out, nil
}

func (f *fakeStore) WriteRange(_ context.Context, tab, topLeft string, rows [][]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, fmt.Sprintf("%s!%s=%v", tab, topLeft, rows))
	// Only F<row> cost writes occur in these tests.
	var rowNum int
	_, err := fmt.Sscanf(topLeft, "F%d", &rowNum)
	if err != nil {
		return fmt.Errorf("unexpected range %q", topLeft)
	}
	for j, v := range rows[0] {
		f.tabs[tab][rowNum-1][ledger.ColPurinaCost+j] = fmt.Sprint(v)
	}
	return nil
}

func (f *fakeStore) AppendRow(_ context.Context, tab string, values []any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	row := make([]string, len(values))
	for i, v := range values {
		row[i] = fmt.Sprint(v)
	}
	f.tabs[tab] = append(f.tabs[tab], row)
	return nil
}

type fakeInvalidator struct{ calls int }

func (f *fakeInvalidator) InvalidateCache() { f.calls++ }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedInventory() *fakeStore {
	store := newFakeStore()
	store.tabs[ledger.TabInventory] = [][]string{
		{"Material No", "Formula Code", "Product Name", "Product Form", "Unit Weight", "Purina Cost", "Pallet Cost", "Markup %", "Retail Pre-Tax", "Retail w/ Tax", "Qty On Hand", "Reorder Point", "Last Updated", "Notes"},
		{"K100", "F100", "Horse Feed", "Pellet", "50 lb", "10.00", "400.00", "0.3", "13.00", "13.75", "6", "5", "", "count verified"},
	}
	return store
}

func TestImportUpdatesExistingCostsOnly(t *testing.T) {
	store := seedInventory()
	inv := &fakeInvalidator{}
	im := NewImporter(store, inv, testLogger())

	report, err := im.Import(context.Background(), []Record{
		{MaterialNo: "K100", ProductName: "Horse Feed", SinglePrice: 12.00, PalletPrice: 480.00},
	})
	require.NoError(t, err)
	require.Equal(t, 1, report.Updated)
	require.Empty(t, report.NewProducts)

	row := store.tabs[ledger.TabInventory][1]
	require.Equal(t, "12", row[ledger.ColPurinaCost])
	require.Equal(t, "480", row[ledger.ColPalletCost])
	// quantity, markup and notes untouched
	require.Equal(t, "6", row[ledger.ColQtyOnHand])
	require.Equal(t, "0.3", row[ledger.ColMarkupPct])
	require.Equal(t, "count verified", row[ledger.ColNotes])
	require.Equal(t, 1, inv.calls)
}

func TestImportAppendsUnknownProductsWithDefaults(t *testing.T) {
	store := seedInventory()
	im := NewImporter(store, &fakeInvalidator{}, testLogger())

	report, err := im.Import(context.Background(), []Record{
		{MaterialNo: "K200", ProductName: "New Feed", FormulaCode: "F200", SinglePrice: 10.00, PalletPrice: 380.00},
	})
	require.NoError(t, err)
	require.Equal(t, 0, report.Updated)
	require.Equal(t, []string{"New Feed"}, report.NewProducts)

	rows := store.tabs[ledger.TabInventory]
	require.Len(t, rows, 3)
	added := rows[2]
	require.Equal(t, "K200", added[ledger.ColMaterialNo])
	require.Equal(t, "0.25", added[ledger.ColMarkupPct])
	require.Equal(t, "0", added[ledger.ColQtyOnHand])
	require.Equal(t, "5", added[ledger.ColReorderPoint])
	// 10.00 * 1.25 = 12.50, 12.50 * 1.055 = 13.1875 → 13.25
	require.Equal(t, "12.5", added[ledger.ColRetailPreTax])
	require.Equal(t, "13.25", added[ledger.ColRetailWithTax])
}

func TestImportSkipsBlankKeys(t *testing.T) {
	store := seedInventory()
	im := NewImporter(store, &fakeInvalidator{}, testLogger())

	report, err := im.Import(context.Background(), []Record{
		{MaterialNo: "", ProductName: "Nameless"},
	})
	require.NoError(t, err)
	require.Equal(t, 0, report.Updated)
	require.Empty(t, report.NewProducts)
	require.Len(t, store.tabs[ledger.TabInventory], 2)
}

func TestImportMatchingIsExact(t *testing.T) {
	store := seedInventory()
	im := NewImporter(store, &fakeInvalidator{}, testLogger())

	report, err := im.Import(context.Background(), []Record{
		{MaterialNo: "k100", ProductName: "Horse Feed Lowercase", SinglePrice: 9.00},
	})
	require.NoError(t, err)
	require.Equal(t, 0, report.Updated, "matching must be case-sensitive exact equality")
	require.Equal(t, []string{"Horse Feed Lowercase"}, report.NewProducts)
}

func TestParseCSVStripsBOMAndFiltersCategories(t *testing.T) {
	csv := "\ufeffMaterial No,Formula Code,Product Name,Product Form,Individual Unit Wt.,Price List Category,Single Unit List Price,Full Pallet List Price\n" +
		"K100,F100,Strategy GX,Pellet,50 lb,HORSE FEED,12.00,480.00\n" +
		"K300,F300,CA All Stock 12,Pellet,50 lb,ALL PURPOSE,9.50,\n" +
		"K400,F400,Cattle Cube,Cube,50 lb,CATTLE,8.00,300.00\n"

	records, err := ParseCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, "K100", records[0].MaterialNo, "BOM must not corrupt the first header")
	require.InDelta(t, 12.00, records[0].SinglePrice, 1e-9)
	require.InDelta(t, 0, records[1].PalletPrice, 1e-9)

	wanted := FilterWanted(records)
	require.Len(t, wanted, 2)
	require.Equal(t, "K100", wanted[0].MaterialNo)
	require.Equal(t, "K300", wanted[1].MaterialNo)
}

func TestParseCSVMissingKeyColumn(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("Product Name,Price\nFeed,10\n"))
	require.Error(t, err)
}
