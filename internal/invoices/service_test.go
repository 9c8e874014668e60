package invoices

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	rows [][]any
}

func (f *fakeStore) AppendRow(_ context.Context, tab string, values []any) error {
	if tab != TabInvoices {
		return fmt.Errorf("unexpected tab %q", tab)
	}
	f.rows = append(f.rows, values)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFileInvoice(t *testing.T) {
	store := &fakeStore{}
	clock := func() time.Time { return time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC) }
	svc := NewService(store, testLogger(), clock)

	number, err := svc.File(context.Background(), Invoice{
		CustomerName: "  Jane Rider ",
		InvoiceDate:  "2026-03-01",
		Items: []Item{
			{ProductName: "Horse Feed", MaterialNo: "P1", Qty: 2, UnitPrice: 13.25, Extended: 26.50},
			{Qty: 1},
		},
		Total: 39.75,
		Paid:  true,
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(number, "INV-"))
	require.Len(t, number, 12)

	require.Len(t, store.rows, 1)
	row := store.rows[0]
	require.Equal(t, number, row[0])
	require.Equal(t, "2026-03-01", row[1])
	require.Equal(t, "Jane Rider", row[2])
	require.Equal(t, "Horse Feed x2; ? x1", row[3])
	require.Equal(t, 39.75, row[4])
	require.Equal(t, "yes", row[5])
	require.Equal(t, "2026-03-01 10:30", row[6])
}

func TestFileInvoiceValidation(t *testing.T) {
	svc := NewService(&fakeStore{}, testLogger(), nil)

	_, err := svc.File(context.Background(), Invoice{CustomerName: "", Items: []Item{{Qty: 1}}})
	require.ErrorIs(t, err, ErrInvalidInvoice)

	_, err = svc.File(context.Background(), Invoice{CustomerName: "Jane"})
	require.ErrorIs(t, err, ErrInvalidInvoice)
}
