// Package loader reads candidate rows from CSV and writes the selected
// rows back out. Header aliases are applied before columns are looked up,
// so exports using Q_value/duration_sec load the same as priorityScore/execTime.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"tsched/catalog"
	"tsched/config"
	"tsched/scheduler"

	"github.com/spf13/afero"
)

// Table is a parsed CSV file. Rows and Entries share indices.
type Table struct {
	Header  []string
	Rows    [][]string
	Entries []catalog.Entry
	idCol   int
}

// Read parses CSV from r.
func Read(r io.Reader, cols config.Columns, aliases map[string]string) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty csv: no header")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if alias, ok := aliases[h]; ok {
			h = alias
		}
		header[i] = h
	}

	index := func(name string) int {
		for i, h := range header {
			if h == name {
				return i
			}
		}
		return -1
	}

	idCol, costCol, valueCol := index(cols.ID), index(cols.Cost), index(cols.Value)
	nameCol := index(cols.Name)
	for name, col := range map[string]int{cols.ID: idCol, cols.Cost: costCol, cols.Value: valueCol} {
		if col < 0 {
			return nil, fmt.Errorf("missing column %q in header %v", name, header)
		}
	}

	t := &Table{Header: header, idCol: idCol}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading line %d: %w", line, err)
		}

		cost, err := strconv.ParseFloat(strings.TrimSpace(rec[costCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: column %s: %w", line, cols.Cost, err)
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(rec[valueCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: column %s: %w", line, cols.Value, err)
		}

		e := catalog.Entry{
			ID:    strings.TrimSpace(rec[idCol]),
			Cost:  cost,
			Value: value,
		}
		if nameCol >= 0 {
			e.Name = rec[nameCol]
		} else {
			e.Name = e.ID
		}

		t.Rows = append(t.Rows, rec)
		t.Entries = append(t.Entries, e)
	}

	return t, nil
}

// ReadFile parses the CSV file at path.
func ReadFile(fs afero.Fs, path string, cols config.Columns, aliases map[string]string) (*Table, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	t, err := Read(f, cols, aliases)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return t, nil
}

// WriteSelected writes the header and the rows chosen by s, in catalog
// order, with every original column kept.
func WriteSelected(w io.Writer, t *Table, s *scheduler.Schedule) error {
	selected := make(map[string]bool, s.Count)
	for _, c := range s.Selected {
		selected[c.ID] = true
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	for _, rec := range t.Rows {
		if selected[strings.TrimSpace(rec[t.idCol])] {
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()

	return cw.Error()
}

// WriteSelectedFile writes the selection to path, creating its directory.
func WriteSelectedFile(fs afero.Fs, path string, t *Table, s *scheduler.Schedule) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	if err := WriteSelected(f, t, s); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return f.Close()
}
