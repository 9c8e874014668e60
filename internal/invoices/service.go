// Package invoices files customer invoices as rows of the Invoices tab.
// PDF copies live outside this service; only the ledger row is kept here.
package invoices

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TabInvoices is the spreadsheet tab holding filed invoices.
const TabInvoices = "Invoices"

// ErrInvalidInvoice indicates a missing customer name or empty item list.
var ErrInvalidInvoice = errors.New("invoices: customer name and at least one item required")

// Store is the slice of the tabular store this service needs.
type Store interface {
	AppendRow(ctx context.Context, tab string, values []any) error
}

// Item is one invoice line.
type Item struct {
	ProductName string  `json:"product_name"`
	MaterialNo  string  `json:"material_no"`
	Qty         int     `json:"qty"`
	UnitPrice   float64 `json:"unit_price"`
	Extended    float64 `json:"extended"`
}

// Invoice is a filing request.
type Invoice struct {
	CustomerName string  `json:"customer_name"`
	InvoiceDate  string  `json:"invoice_date"`
	Items        []Item  `json:"items"`
	Total        float64 `json:"total"`
	Paid         bool    `json:"paid"`
}

// Service appends invoice rows.
type Service struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs a Service.
func NewService(store Store, logger *slog.Logger, clock func() time.Time) *Service {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger, now: clock}
}

// File appends the invoice to the Invoices tab and returns its number.
func (s *Service) File(ctx context.Context, inv Invoice) (string, error) {
	if strings.TrimSpace(inv.CustomerName) == "" || len(inv.Items) == 0 {
		return "", ErrInvalidInvoice
	}
	number := "INV-" + strings.ToUpper(uuid.NewString()[:8])
	summary := itemsSummary(inv.Items)
	filedAt := s.now().UTC().Format("2006-01-02 15:04")

	paid := "no"
	if inv.Paid {
		paid = "yes"
	}
	row := []any{number, inv.InvoiceDate, strings.TrimSpace(inv.CustomerName), summary, inv.Total, paid, filedAt}
	if err := s.store.AppendRow(ctx, TabInvoices, row); err != nil {
		return "", fmt.Errorf("invoices: file %s: %w", number, err)
	}
	s.logger.Info("invoice filed",
		slog.String("invoice", number),
		slog.String("customer", inv.CustomerName),
		slog.Float64("total", inv.Total))
	return number, nil
}

func itemsSummary(items []Item) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		name := it.ProductName
		if name == "" {
			name = "?"
		}
		parts = append(parts, fmt.Sprintf("%s x%d", name, it.Qty))
	}
	return strings.Join(parts, "; ")
}
