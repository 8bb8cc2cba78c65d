package dataset

import (
	"fmt"
	"strconv"
	"time"
)

// Kind is the coarse type tag attached to every column at construction.
// Check logic switches on this tag instead of inspecting runtime types.
type Kind string

const (
	KindString   Kind = "string"
	KindInteger  Kind = "integer"
	KindFloat    Kind = "float"
	KindDatetime Kind = "datetime"
	KindBoolean  Kind = "boolean"
)

// ParseKind maps a config-supplied type name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindString, KindInteger, KindFloat, KindDatetime, KindBoolean:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown column kind %q", s)
}

// Cell is one nullable value. The column Kind decides which field is live.
type Cell struct {
	Null  bool
	Str   string
	Int   int64
	Float float64
	Bool  bool
	Time  time.Time
}

func Null() Cell            { return Cell{Null: true} }
func String(s string) Cell  { return Cell{Str: s} }
func Int(v int64) Cell      { return Cell{Int: v} }
func Float(f float64) Cell  { return Cell{Float: f} }
func Bool(b bool) Cell      { return Cell{Bool: b} }
func Time(t time.Time) Cell { return Cell{Time: t} }

// Column is an ordered, named sequence of cells sharing one Kind.
type Column struct {
	Name  string
	Kind  Kind
	Cells []Cell
}

func NewColumn(name string, kind Kind, cells ...Cell) Column {
	return Column{Name: name, Kind: kind, Cells: cells}
}

// Convenience builders for fully non-null columns.

func Strings(name string, vals ...string) Column {
	cells := make([]Cell, len(vals))
	for i, v := range vals {
		cells[i] = String(v)
	}
	return Column{Name: name, Kind: KindString, Cells: cells}
}

func Ints(name string, vals ...int64) Column {
	cells := make([]Cell, len(vals))
	for i, v := range vals {
		cells[i] = Int(v)
	}
	return Column{Name: name, Kind: KindInteger, Cells: cells}
}

func Floats(name string, vals ...float64) Column {
	cells := make([]Cell, len(vals))
	for i, v := range vals {
		cells[i] = Float(v)
	}
	return Column{Name: name, Kind: KindFloat, Cells: cells}
}

func Bools(name string, vals ...bool) Column {
	cells := make([]Cell, len(vals))
	for i, v := range vals {
		cells[i] = Bool(v)
	}
	return Column{Name: name, Kind: KindBoolean, Cells: cells}
}

func Times(name string, vals ...time.Time) Column {
	cells := make([]Cell, len(vals))
	for i, v := range vals {
		cells[i] = Time(v)
	}
	return Column{Name: name, Kind: KindDatetime, Cells: cells}
}

func (c Column) Len() int {
	return len(c.Cells)
}

// Number returns the numeric view of row i for integer and float columns.
// The second return is false for null cells and non-numeric kinds.
func (c Column) Number(i int) (float64, bool) {
	cell := c.Cells[i]
	if cell.Null {
		return 0, false
	}
	switch c.Kind {
	case KindInteger:
		return float64(cell.Int), true
	case KindFloat:
		return cell.Float, true
	}
	return 0, false
}

// Render returns the display form of row i, "null" for null cells.
func (c Column) Render(i int) string {
	cell := c.Cells[i]
	if cell.Null {
		return "null"
	}
	switch c.Kind {
	case KindInteger:
		return strconv.FormatInt(cell.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(cell.Float, 'g', -1, 64)
	case KindBoolean:
		return strconv.FormatBool(cell.Bool)
	case KindDatetime:
		return cell.Time.UTC().Format(time.RFC3339)
	}
	return cell.Str
}

// Key renders row i to a canonical string for set membership and duplicate
// counting. Null cells share a reserved key distinct from any rendered value.
func (c Column) Key(i int) string {
	if c.Cells[i].Null {
		return "\x00null"
	}
	return c.Render(i)
}

// Dataset is an ordered sequence of named, equal-length columns. Checks
// treat it as immutable; nothing mutates a Dataset after construction.
type Dataset struct {
	cols   []Column
	byName map[string]int
}

// New validates that column names are unique and all lengths match.
func New(cols ...Column) (*Dataset, error) {
	byName := make(map[string]int, len(cols))
	for i, col := range cols {
		if col.Name == "" {
			return nil, fmt.Errorf("column %d has no name", i)
		}
		if _, ok := byName[col.Name]; ok {
			return nil, fmt.Errorf("duplicate column name %q", col.Name)
		}
		if col.Len() != cols[0].Len() {
			return nil, fmt.Errorf("column %q has %d rows, want %d", col.Name, col.Len(), cols[0].Len())
		}
		byName[col.Name] = i
	}
	return &Dataset{cols: cols, byName: byName}, nil
}

func (d *Dataset) RowCount() int {
	if len(d.cols) == 0 {
		return 0
	}
	return d.cols[0].Len()
}

// ColumnNames returns the column names in declaration order.
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.cols))
	for i, col := range d.cols {
		names[i] = col.Name
	}
	return names
}

func (d *Dataset) Column(name string) (Column, bool) {
	i, ok := d.byName[name]
	if !ok {
		return Column{}, false
	}
	return d.cols[i], true
}

func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.byName[name]
	return ok
}

// Columns returns the columns in declaration order.
func (d *Dataset) Columns() []Column {
	return d.cols
}
