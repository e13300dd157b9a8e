// Package table holds a delimited dataset in memory. Rows are addressed by
// position, cells by column name, and the first column of the file is kept
// as the row index.
package table

import (
	"fmt"
	"slices"
)

type Table struct {
	// IndexName is the header of the index column, usually empty
	IndexName string
	Columns   []string
	Index     []string

	rows    [][]string
	columns map[string]int
}

// New creates an empty table with the given columns
func New(indexName string, columns []string) (*Table, error) {
	t := &Table{
		IndexName: indexName,
		columns:   make(map[string]int, len(columns)),
	}
	for _, column := range columns {
		if _, ok := t.columns[column]; ok {
			return nil, fmt.Errorf("duplicate column %q", column)
		}
		t.columns[column] = len(t.Columns)
		t.Columns = append(t.Columns, column)
	}
	return t, nil
}

// Append adds a row. values must have one value per column.
func (t *Table) Append(index string, values []string) error {
	if len(values) != len(t.Columns) {
		return fmt.Errorf("row %s has %d values, want %d", index, len(values), len(t.Columns))
	}
	t.Index = append(t.Index, index)
	t.rows = append(t.rows, slices.Clone(values))
	return nil
}

func (t *Table) Len() int {
	return len(t.rows)
}

func (t *Table) Has(column string) bool {
	_, ok := t.columns[column]
	return ok
}

// Get returns the value of a cell, or "" when the column does not exist
func (t *Table) Get(row int, column string) string {
	i, ok := t.columns[column]
	if !ok {
		return ""
	}
	return t.rows[row][i]
}

// Set writes a cell. A new column is added on first write, empty for the other rows.
func (t *Table) Set(row int, column string, value string) {
	i, ok := t.columns[column]
	if !ok {
		i = t.addColumn(column)
	}
	t.rows[row][i] = value
}

// Column returns a copy of all values of a column
func (t *Table) Column(column string) []string {
	values := make([]string, t.Len())
	for row := range t.rows {
		values[row] = t.Get(row, column)
	}
	return values
}

// Row returns a copy of a row in column order
func (t *Table) Row(row int) []string {
	return slices.Clone(t.rows[row])
}

func (t *Table) addColumn(column string) int {
	i := len(t.Columns)
	t.columns[column] = i
	t.Columns = append(t.Columns, column)
	for row := range t.rows {
		t.rows[row] = append(t.rows[row], "")
	}
	return i
}
