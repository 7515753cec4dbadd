package sheet

import "testing"

func TestColumnLetter(t *testing.T) {
	tests := []struct {
		col  int
		want string
	}{
		{1, "A"},
		{2, "B"},
		{26, "Z"},
		{27, "AA"},
		{52, "AZ"},
		{53, "BA"},
		{702, "ZZ"},
		{703, "AAA"},
	}
	for _, tt := range tests {
		if got := ColumnLetter(tt.col); got != tt.want {
			t.Errorf("ColumnLetter(%d) = %q, want %q", tt.col, got, tt.want)
		}
	}
}
