// Package sheets wraps the Google Sheets v4 API behind the small tabular
// store surface the tracker needs: read a whole tab, write cells and ranges,
// append rows.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	sheetsv4 "google.golang.org/api/sheets/v4"
)

// ErrConfigMissing indicates the spreadsheet ID or service-account
// credentials were not configured.
var ErrConfigMissing = errors.New("sheets: spreadsheet id or credentials not configured")

// Client issues requests against the tabs of a single spreadsheet.
type Client struct {
	svc           *sheetsv4.Service
	spreadsheetID string
}

// RangeWrite addresses one value range for a batch write. A1 is the top-left
// cell in A1 notation, without the tab prefix.
type RangeWrite struct {
	A1   string
	Rows [][]any
}

// NewClient builds a Sheets client for the given spreadsheet. Credentials may
// be an inline service-account JSON document or a path to one.
func NewClient(ctx context.Context, spreadsheetID, credentials string) (*Client, error) {
	if spreadsheetID == "" || strings.TrimSpace(credentials) == "" {
		return nil, ErrConfigMissing
	}
	svc, err := sheetsv4.NewService(ctx, clientOptions(credentials)...)
	if err != nil {
		return nil, fmt.Errorf("sheets: build service: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID}, nil
}

func clientOptions(credentials string) []option.ClientOption {
	creds := strings.TrimSpace(credentials)
	if strings.HasPrefix(creds, "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	}
	return []option.ClientOption{option.WithCredentialsFile(creds)}
}

// ReadAllRows returns every row of the named tab as formatted strings,
// header row included.
func (c *Client) ReadAllRows(ctx context.Context, tab string) ([][]string, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rangeRef(tab, "A:ZZ")).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets: read %s: %w", tab, err)
	}
	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			row[i] = cellString(cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteCell sets a single cell. Row and column are 1-based.
func (c *Client) WriteCell(ctx context.Context, tab string, row, col int, value any) error {
	return c.WriteRange(ctx, tab, A1(col, row), [][]any{{value}})
}

// WriteRange overwrites a rectangular region starting at topLeft (A1
// notation without the tab prefix).
func (c *Client) WriteRange(ctx context.Context, tab, topLeft string, rows [][]any) error {
	vr := &sheetsv4.ValueRange{Values: rows}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rangeRef(tab, topLeft), vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sheets: write %s!%s: %w", tab, topLeft, err)
	}
	return nil
}

// AppendRow appends one row after the last data row of the tab.
func (c *Client) AppendRow(ctx context.Context, tab string, values []any) error {
	vr := &sheetsv4.ValueRange{Values: [][]any{values}}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rangeRef(tab, "A1"), vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sheets: append to %s: %w", tab, err)
	}
	return nil
}

// BatchWriteRanges applies several range writes to the tab in one request.
func (c *Client) BatchWriteRanges(ctx context.Context, tab string, writes []RangeWrite) error {
	if len(writes) == 0 {
		return nil
	}
	data := make([]*sheetsv4.ValueRange, 0, len(writes))
	for _, w := range writes {
		data = append(data, &sheetsv4.ValueRange{Range: rangeRef(tab, w.A1), Values: w.Rows})
	}
	req := &sheetsv4.BatchUpdateValuesRequest{
		ValueInputOption: "USER_ENTERED",
		Data:             data,
	}
	_, err := c.svc.Spreadsheets.Values.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sheets: batch write %s: %w", tab, err)
	}
	return nil
}

func cellString(cell any) string {
	switch v := cell.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// Tab names may contain spaces, so the A1 reference always quotes them.
func rangeRef(tab, a1 string) string {
	return fmt.Sprintf("'%s'!%s", tab, a1)
}
