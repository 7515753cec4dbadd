package services

import "testing"

func TestFindCompanyRow(t *testing.T) {
	rows := [][]string{
		{"Vercel Inc.", "Frontend Engineer"},
		{"Databricks", "Data Engineer"},
		{"Stripe", "Backend Engineer"},
		{"vercel", "Design Engineer"},
	}
	m := NewMatcherService()

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"exact match", "Databricks", 1},
		{"case-insensitive exact", "stripe", 2},
		{"whole-cell beats earlier substring", "Vercel", 3},
		{"substring match", "Vercel Inc", 0},
		{"no match", "Anthropic", -1},
		{"empty query", "", -1},
		{"whitespace query", "   ", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.FindCompanyRow(rows, 0, tt.query)
			if got != tt.want {
				t.Errorf("FindCompanyRow(%q) = %d, want %d", tt.query, got, tt.want)
			}
		})
	}

	t.Run("short rows are skipped", func(t *testing.T) {
		short := [][]string{
			{},
			{"only-col-0"},
			{"x", "y", "Acme"},
		}
		if got := m.FindCompanyRow(short, 2, "Acme"); got != 2 {
			t.Errorf("expected row 2, got %d", got)
		}
	})

	t.Run("negative column", func(t *testing.T) {
		if got := m.FindCompanyRow(rows, -1, "Stripe"); got != -1 {
			t.Errorf("expected -1, got %d", got)
		}
	})
}
