package sheet

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// GoogleSheet is the sheets/v4 implementation of Worksheet.
type GoogleSheet struct {
	srv           *sheets.Service
	spreadsheetID string
	worksheet     string
}

func NewGoogleSheet(ctx context.Context, client *http.Client, spreadsheetID, worksheet string) (*GoogleSheet, error) {
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &GoogleSheet{
		srv:           srv,
		spreadsheetID: spreadsheetID,
		worksheet:     worksheet,
	}, nil
}

// Ping reads the header row to verify the spreadsheet is reachable and
// the worksheet exists.
func (g *GoogleSheet) Ping(ctx context.Context) error {
	_, err := g.Headers(ctx)
	return err
}

func (g *GoogleSheet) Headers(ctx context.Context) ([]string, error) {
	rng := fmt.Sprintf("%s!1:1", g.worksheet)
	resp, err := g.srv.Spreadsheets.Values.Get(g.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read header row: %w", err)
	}
	if len(resp.Values) == 0 {
		return nil, nil
	}
	return toStrings(resp.Values[0]), nil
}

func (g *GoogleSheet) Rows(ctx context.Context) ([][]string, error) {
	resp, err := g.srv.Spreadsheets.Values.Get(g.spreadsheetID, g.worksheet).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read worksheet: %w", err)
	}
	if len(resp.Values) <= 1 {
		return nil, nil
	}
	rows := make([][]string, 0, len(resp.Values)-1)
	for _, raw := range resp.Values[1:] {
		rows = append(rows, toStrings(raw))
	}
	return rows, nil
}

func (g *GoogleSheet) AppendRow(ctx context.Context, values []string) error {
	vr := &sheets.ValueRange{Values: [][]interface{}{toAnys(values)}}
	_, err := g.srv.Spreadsheets.Values.Append(g.spreadsheetID, g.worksheet, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append row: %w", err)
	}
	return nil
}

func (g *GoogleSheet) UpdateCells(ctx context.Context, updates []CellUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	data := make([]*sheets.ValueRange, 0, len(updates))
	for _, u := range updates {
		a1 := fmt.Sprintf("%s!%s%d", g.worksheet, ColumnLetter(u.Col), u.Row)
		data = append(data, &sheets.ValueRange{
			Range:  a1,
			Values: [][]interface{}{{u.Value}},
		})
	}
	req := &sheets.BatchUpdateValuesRequest{
		ValueInputOption: "USER_ENTERED",
		Data:             data,
	}
	_, err := g.srv.Spreadsheets.Values.BatchUpdate(g.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update cells: %w", err)
	}
	return nil
}

func toStrings(raw []interface{}) []string {
	out := make([]string, len(raw))
	for i, v := range raw {
		out[i] = fmt.Sprint(v)
	}
	return out
}

func toAnys(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
