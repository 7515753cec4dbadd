package sheet

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/xuri/excelize/v2"
)

// XLSXSheet is a local-workbook implementation of Worksheet backed by an
// .xlsx file. It opens the file per operation so the on-disk workbook is
// always current; a mutex serializes writers.
type XLSXSheet struct {
	path      string
	worksheet string
	mu        sync.Mutex
}

// NewXLSXSheet opens (or creates) the workbook at path and makes sure the
// named worksheet exists.
func NewXLSXSheet(path, worksheet string) (*XLSXSheet, error) {
	x := &XLSXSheet{path: path, worksheet: worksheet}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		f := excelize.NewFile()
		defer f.Close()
		if err := f.SetSheetName("Sheet1", worksheet); err != nil {
			return nil, fmt.Errorf("name worksheet: %w", err)
		}
		if err := f.SaveAs(path); err != nil {
			return nil, fmt.Errorf("create workbook %q: %w", path, err)
		}
		return x, nil
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %q: %w", path, err)
	}
	defer f.Close()

	idx, err := f.GetSheetIndex(worksheet)
	if err != nil {
		return nil, err
	}
	if idx == -1 {
		if _, err := f.NewSheet(worksheet); err != nil {
			return nil, fmt.Errorf("add worksheet %q: %w", worksheet, err)
		}
		if err := f.Save(); err != nil {
			return nil, fmt.Errorf("save workbook: %w", err)
		}
	}
	return x, nil
}

func (x *XLSXSheet) Headers(ctx context.Context) ([]string, error) {
	rows, err := x.allRows(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (x *XLSXSheet) Rows(ctx context.Context) ([][]string, error) {
	rows, err := x.allRows(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) <= 1 {
		return nil, nil
	}
	return rows[1:], nil
}

func (x *XLSXSheet) AppendRow(ctx context.Context, values []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	x.mu.Lock()
	defer x.mu.Unlock()

	f, err := excelize.OpenFile(x.path)
	if err != nil {
		return fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	existing, err := f.GetRows(x.worksheet)
	if err != nil {
		return fmt.Errorf("read worksheet: %w", err)
	}
	rowNum := len(existing) + 1

	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(x.worksheet, cell, v); err != nil {
			return fmt.Errorf("write cell %s: %w", cell, err)
		}
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func (x *XLSXSheet) UpdateCells(ctx context.Context, updates []CellUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	x.mu.Lock()
	defer x.mu.Unlock()

	f, err := excelize.OpenFile(x.path)
	if err != nil {
		return fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	for _, u := range updates {
		cell, err := excelize.CoordinatesToCellName(u.Col, u.Row)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(x.worksheet, cell, u.Value); err != nil {
			return fmt.Errorf("write cell %s: %w", cell, err)
		}
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func (x *XLSXSheet) allRows(ctx context.Context) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	x.mu.Lock()
	defer x.mu.Unlock()

	f, err := excelize.OpenFile(x.path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(x.worksheet)
	if err != nil {
		return nil, fmt.Errorf("read worksheet: %w", err)
	}
	return rows, nil
}
