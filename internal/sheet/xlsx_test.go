package sheet

import (
	"context"
	"path/filepath"
	"testing"
)

func TestXLSXSheet(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "applications.xlsx")

	ws, err := NewXLSXSheet(path, "Applications")
	if err != nil {
		t.Fatal(err)
	}

	t.Run("fresh workbook is empty", func(t *testing.T) {
		headers, err := ws.Headers(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(headers) != 0 {
			t.Errorf("expected no headers, got %v", headers)
		}
	})

	// Row 1 is the header row; AppendRow fills the next free row.
	if err := ws.AppendRow(ctx, []string{"Company", "Status", "Notes"}); err != nil {
		t.Fatal(err)
	}
	if err := ws.AppendRow(ctx, []string{"Stripe", "Applied", ""}); err != nil {
		t.Fatal(err)
	}
	if err := ws.AppendRow(ctx, []string{"Vercel", "Interview Scheduled", "onsite"}); err != nil {
		t.Fatal(err)
	}

	t.Run("headers and rows round-trip", func(t *testing.T) {
		headers, err := ws.Headers(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(headers) != 3 || headers[0] != "Company" {
			t.Fatalf("headers = %v", headers)
		}

		rows, err := ws.Rows(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(rows) != 2 {
			t.Fatalf("rows = %v", rows)
		}
		if rows[0][0] != "Stripe" || rows[1][0] != "Vercel" {
			t.Errorf("rows = %v", rows)
		}
	})

	t.Run("update cells", func(t *testing.T) {
		err := ws.UpdateCells(ctx, []CellUpdate{
			{Row: 2, Col: 2, Value: "Rejected"},
			{Row: 3, Col: 3, Value: "onsite moved"},
		})
		if err != nil {
			t.Fatal(err)
		}

		rows, err := ws.Rows(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if rows[0][1] != "Rejected" {
			t.Errorf("rows[0][1] = %q, want Rejected", rows[0][1])
		}
		if rows[1][2] != "onsite moved" {
			t.Errorf("rows[1][2] = %q, want %q", rows[1][2], "onsite moved")
		}
	})

	t.Run("canceled context is honored", func(t *testing.T) {
		canceled, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := ws.Headers(canceled); err != context.Canceled {
			t.Errorf("Headers err = %v, want context.Canceled", err)
		}
		if _, err := ws.Rows(canceled); err != context.Canceled {
			t.Errorf("Rows err = %v, want context.Canceled", err)
		}
		if err := ws.AppendRow(canceled, []string{"x"}); err != context.Canceled {
			t.Errorf("AppendRow err = %v, want context.Canceled", err)
		}
		err := ws.UpdateCells(canceled, []CellUpdate{{Row: 2, Col: 1, Value: "x"}})
		if err != context.Canceled {
			t.Errorf("UpdateCells err = %v, want context.Canceled", err)
		}
	})

	t.Run("reopen existing workbook", func(t *testing.T) {
		again, err := NewXLSXSheet(path, "Applications")
		if err != nil {
			t.Fatal(err)
		}
		rows, err := again.Rows(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(rows) != 2 {
			t.Errorf("rows after reopen = %v", rows)
		}
	})
}
