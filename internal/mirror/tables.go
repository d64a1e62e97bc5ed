// Package mirror keeps a redundant, append-mostly copy of users, logins and
// comments in a spreadsheet workbook.
//
// The primary store stays authoritative. Mirror writes happen after the
// primary mutation succeeded and their failures never undo it.
package mirror

import "strconv"

// Table names double as worksheet names.
type Table string

const (
	Users        Table = "Users"
	LoginHistory Table = "LoginHistory"
	Comments     Table = "Comments"
)

// AllTables lists the tables in workbook order.
var AllTables = []Table{Users, LoginHistory, Comments}

// IDColumn is the mirror-local sequence, OwnerColumn the primary user id.
const (
	IDColumn    = "id"
	OwnerColumn = "user_id"
)

var columns = map[Table][]string{
	Users:        {IDColumn, OwnerColumn, "username", "email", "created_at"},
	LoginHistory: {IDColumn, OwnerColumn, "login_time"},
	Comments:     {IDColumn, "comment_id", "post_id", OwnerColumn, "content", "create_date"},
}

// Columns returns the header of t, or nil for an unknown table.
func Columns(t Table) []string {
	cols := columns[t]
	if cols == nil {
		return nil
	}
	return append([]string(nil), cols...)
}

// Row maps column names to cell text. On append, keys outside the table
// header are dropped and missing columns become empty cells.
type Row map[string]string

// Tables is an in-memory copy of the whole workbook.
type Tables struct {
	rows map[Table][]Row
}

func NewTables() *Tables {
	return &Tables{rows: make(map[Table][]Row)}
}

// Rows returns a copy of the rows of t in stored order.
func (t *Tables) Rows(table Table) []Row {
	src := t.rows[table]
	out := make([]Row, 0, len(src))
	for _, r := range src {
		out = append(out, r.clone())
	}
	return out
}

// NextID is one past the largest id in table, or 1 when it is empty.
// Rows with unparsable ids are ignored.
func (t *Tables) NextID(table Table) int64 {
	var max int64
	for _, r := range t.rows[table] {
		if id, err := strconv.ParseInt(r[IDColumn], 10, 64); err == nil && id > max {
			max = id
		}
	}
	return max + 1
}

// Append stores row under the next id and returns that id.
func (t *Tables) Append(table Table, row Row) int64 {
	id := t.NextID(table)

	stored := make(Row, len(columns[table]))
	for _, c := range columns[table] {
		stored[c] = row[c]
	}
	stored[IDColumn] = strconv.FormatInt(id, 10)

	t.rows[table] = append(t.rows[table], stored)
	return id
}

// RemoveWhere drops the rows of table matching pred and reports how many
// went away.
func (t *Tables) RemoveWhere(table Table, pred func(Row) bool) int {
	src := t.rows[table]
	kept := src[:0]
	for _, r := range src {
		if !pred(r) {
			kept = append(kept, r)
		}
	}
	removed := len(src) - len(kept)
	t.rows[table] = kept
	return removed
}

// put appends a row read back from storage as is.
func (t *Tables) put(table Table, row Row) {
	t.rows[table] = append(t.rows[table], row)
}

func (t *Tables) clone() *Tables {
	c := NewTables()
	for table := range t.rows {
		c.rows[table] = t.Rows(table)
	}
	return c
}

func (r Row) clone() Row {
	c := make(Row, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}
