package mirror

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/dmitrijs2005/blogmirror/internal/filex"
)

// DefaultPath is the workbook file name used when none is configured.
const DefaultPath = "data_log.xlsx"

const defaultSheet = "Sheet1"

// ExcelSink stores the tables as worksheets of one .xlsx file. Every Store
// rewrites the file through a temp file and a rename, so readers see either
// the old or the new workbook. Several processes sharing the file are not
// supported.
type ExcelSink struct {
	path string
}

// OpenExcelSink makes sure path holds a workbook with every mirror sheet and
// header. A missing file is created; missing sheets are added to an existing
// one without touching the others. Missing parent directories are created.
func OpenExcelSink(path string) (*ExcelSink, error) {
	abs, err := filex.EnsureParentDir(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	path = abs
	s := &ExcelSink{path: path}

	f, err := excelize.OpenFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, s.Store(context.Background(), NewTables())
	}
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	existing := make(map[string]bool)
	for _, name := range f.GetSheetList() {
		existing[name] = true
	}

	changed := false
	for _, table := range AllTables {
		if existing[string(table)] {
			continue
		}
		if _, err := f.NewSheet(string(table)); err != nil {
			return nil, fmt.Errorf("add sheet %s: %w", table, err)
		}
		if err := writeHeader(f, table); err != nil {
			return nil, err
		}
		changed = true
	}
	if !changed {
		return s, nil
	}

	if err := s.save(f); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *ExcelSink) Path() string { return s.path }

// Load reads every mirror sheet. Cells are matched to columns by the header
// row; a missing sheet reads as an empty table.
func (s *ExcelSink) Load(ctx context.Context) (*Tables, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", s.path, err)
	}
	defer f.Close()

	t := NewTables()
	sheets := make(map[string]bool)
	for _, name := range f.GetSheetList() {
		sheets[name] = true
	}

	for _, table := range AllTables {
		if !sheets[string(table)] {
			continue
		}
		rows, err := f.GetRows(string(table))
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", table, err)
		}
		if len(rows) == 0 {
			continue
		}

		header := rows[0]
		for _, cells := range rows[1:] {
			row := make(Row, len(header))
			empty := true
			for i, name := range header {
				if i < len(cells) {
					row[name] = cells[i]
					if cells[i] != "" {
						empty = false
					}
				} else {
					row[name] = ""
				}
			}
			if !empty {
				t.put(table, row)
			}
		}
	}

	return t, nil
}

func (s *ExcelSink) Store(ctx context.Context, t *Tables) error {
	f, err := encodeWorkbook(t)
	if err != nil {
		return err
	}
	defer f.Close()
	return s.save(f)
}

// Snapshot returns the bytes of the file as last stored.
func (s *ExcelSink) Snapshot(ctx context.Context) ([]byte, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read workbook %s: %w", s.path, err)
	}
	return b, nil
}

func (s *ExcelSink) save(f *excelize.File) error {
	dir, base := filepath.Split(s.path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp workbook: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := f.WriteTo(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("write workbook: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync workbook: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close workbook: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace workbook: %w", err)
	}
	return nil
}

// encodeWorkbook renders t as a fresh workbook with one sheet per table.
func encodeWorkbook(t *Tables) (*excelize.File, error) {
	f := excelize.NewFile()

	for _, table := range AllTables {
		if _, err := f.NewSheet(string(table)); err != nil {
			f.Close()
			return nil, fmt.Errorf("add sheet %s: %w", table, err)
		}
		if err := writeHeader(f, table); err != nil {
			f.Close()
			return nil, err
		}

		cols := columns[table]
		for i, r := range t.rows[table] {
			values := make([]any, len(cols))
			for j, c := range cols {
				values[j] = r[c]
			}
			cell, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				f.Close()
				return nil, err
			}
			if err := f.SetSheetRow(string(table), cell, &values); err != nil {
				f.Close()
				return nil, fmt.Errorf("write %s row %d: %w", table, i+1, err)
			}
		}
	}

	if idx, err := f.GetSheetIndex(string(AllTables[0])); err == nil {
		f.SetActiveSheet(idx)
	}
	if err := f.DeleteSheet(defaultSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	return f, nil
}

func writeHeader(f *excelize.File, table Table) error {
	cols := columns[table]
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	if err := f.SetSheetRow(string(table), "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", table, err)
	}
	return nil
}
