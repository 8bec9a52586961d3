package models

import (
	"math"
	"sort"
	"strconv"

	"github.com/pkg/errors"
)

type ValueKind uint8

const (
	Missing ValueKind = iota
	Number
	Text
)

// Value is one dataset cell.
type Value struct {
	Kind ValueKind
	Num  float64
	Str  string
}

func MissingValue() Value {
	return Value{Kind: Missing}
}

// NumberValue never produces a NaN cell: NaN is stored as Missing.
func NumberValue(f float64) Value {
	if math.IsNaN(f) {
		return MissingValue()
	}
	return Value{Kind: Number, Num: f}
}

func TextValue(s string) Value {
	return Value{Kind: Text, Str: s}
}

func (v Value) IsMissing() bool {
	return v.Kind == Missing
}

// String renders the cell the way it is written back to CSV.
func (v Value) String() string {
	switch v.Kind {
	case Number:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case Text:
		return v.Str
	default:
		return ""
	}
}

// ColumnKind is the declared type of a column.
type ColumnKind uint8

const (
	KindFloat ColumnKind = iota
	KindInt
	KindIndicator
	KindBool
	KindText
)

// DType returns the type name reported in readiness reports.
func (k ColumnKind) DType() string {
	switch k {
	case KindInt:
		return "int64"
	case KindIndicator:
		return "uint8"
	case KindBool:
		return "bool"
	case KindText:
		return "object"
	default:
		return "float64"
	}
}

func (k ColumnKind) IsNumeric() bool {
	return k == KindFloat || k == KindInt || k == KindIndicator
}

func (k ColumnKind) IsCategorical() bool {
	return k == KindText
}

type Column struct {
	Name   string
	Kind   ColumnKind
	Values []Value
}

func NewColumn(name string, kind ColumnKind, values []Value) *Column {
	return &Column{Name: name, Kind: kind, Values: values}
}

// NewNumericColumn builds a float64 column, NaN entries become missing.
func NewNumericColumn(name string, values []float64) *Column {
	cells := make([]Value, len(values))
	for i, f := range values {
		cells[i] = NumberValue(f)
	}
	return &Column{Name: name, Kind: KindFloat, Values: cells}
}

// NewTextColumn builds an object column, empty strings become missing.
func NewTextColumn(name string, values []string) *Column {
	cells := make([]Value, len(values))
	for i, s := range values {
		if s == "" {
			cells[i] = MissingValue()
		} else {
			cells[i] = TextValue(s)
		}
	}
	return &Column{Name: name, Kind: KindText, Values: cells}
}

func (c *Column) Len() int {
	return len(c.Values)
}

// Numbers returns the non-missing numeric cells in row order.
func (c *Column) Numbers() []float64 {
	numbers := make([]float64, 0, len(c.Values))
	for _, v := range c.Values {
		if v.Kind == Number {
			numbers = append(numbers, v.Num)
		}
	}
	return numbers
}

func (c *Column) MissingCount() int {
	count := 0
	for _, v := range c.Values {
		if v.IsMissing() {
			count++
		}
	}
	return count
}

// Distinct returns the sorted distinct non-missing values rendered as strings.
func (c *Column) Distinct() []string {
	seen := make(map[string]struct{})
	for _, v := range c.Values {
		if v.IsMissing() {
			continue
		}
		seen[v.String()] = struct{}{}
	}
	distinct := make([]string, 0, len(seen))
	for s := range seen {
		distinct = append(distinct, s)
	}
	sort.Strings(distinct)
	return distinct
}

func (c *Column) Clone() *Column {
	values := make([]Value, len(c.Values))
	copy(values, c.Values)
	return &Column{Name: c.Name, Kind: c.Kind, Values: values}
}

// Dataset is an ordered set of equally long, uniquely named columns.
type Dataset struct {
	columns []*Column
	rows    int
}

func NewDataset(columns ...*Column) (*Dataset, error) {
	d := &Dataset{}
	for _, c := range columns {
		if err := d.SetColumn(c); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// MustDataset is NewDataset for fixtures.
func MustDataset(columns ...*Column) *Dataset {
	d, err := NewDataset(columns...)
	if err != nil {
		panic(err)
	}
	return d
}

func (d *Dataset) Len() int {
	return d.rows
}

func (d *Dataset) Width() int {
	return len(d.columns)
}

func (d *Dataset) Columns() []*Column {
	return d.columns
}

func (d *Dataset) Names() []string {
	names := make([]string, len(d.columns))
	for i, c := range d.columns {
		names[i] = c.Name
	}
	return names
}

func (d *Dataset) Column(name string) (*Column, bool) {
	i := d.indexOf(name)
	if i < 0 {
		return nil, false
	}
	return d.columns[i], true
}

func (d *Dataset) Has(name string) bool {
	return d.indexOf(name) >= 0
}

func (d *Dataset) indexOf(name string) int {
	for i, c := range d.columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// NumericColumns lists numeric column names in dataset order.
func (d *Dataset) NumericColumns() []string {
	names := make([]string, 0)
	for _, c := range d.columns {
		if c.Kind.IsNumeric() {
			names = append(names, c.Name)
		}
	}
	return names
}

// CategoricalColumns lists object column names in dataset order.
func (d *Dataset) CategoricalColumns() []string {
	names := make([]string, 0)
	for _, c := range d.columns {
		if c.Kind.IsCategorical() {
			names = append(names, c.Name)
		}
	}
	return names
}

// SetColumn replaces the column with the same name in place or appends a new one.
func (d *Dataset) SetColumn(c *Column) error {
	if len(d.columns) > 0 && c.Len() != d.rows {
		return errors.Errorf("column %q has %d rows, dataset has %d", c.Name, c.Len(), d.rows)
	}
	if len(d.columns) == 0 {
		d.rows = c.Len()
	}
	if i := d.indexOf(c.Name); i >= 0 {
		d.columns[i] = c
		return nil
	}
	d.columns = append(d.columns, c)
	return nil
}

// Drop removes the named columns, unknown names are ignored.
func (d *Dataset) Drop(names ...string) {
	if len(names) == 0 {
		return
	}
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		drop[n] = struct{}{}
	}
	kept := d.columns[:0]
	for _, c := range d.columns {
		if _, ok := drop[c.Name]; !ok {
			kept = append(kept, c)
		}
	}
	d.columns = kept
}

// FilterRows keeps the rows whose flag is true; remaining rows are renumbered contiguously.
func (d *Dataset) FilterRows(keep []bool) error {
	if len(keep) != d.rows {
		return errors.Errorf("row mask has %d entries, dataset has %d rows", len(keep), d.rows)
	}
	kept := 0
	for _, k := range keep {
		if k {
			kept++
		}
	}
	for _, c := range d.columns {
		values := make([]Value, 0, kept)
		for i, v := range c.Values {
			if keep[i] {
				values = append(values, v)
			}
		}
		c.Values = values
	}
	d.rows = kept
	return nil
}

func (d *Dataset) Clone() *Dataset {
	clone := &Dataset{rows: d.rows, columns: make([]*Column, len(d.columns))}
	for i, c := range d.columns {
		clone.columns[i] = c.Clone()
	}
	return clone
}

// Record is one row keyed by column name, ready for JSON encoding.
type Record map[string]interface{}

// Records renders rows [0, limit) as records; limit < 0 means all rows.
func (d *Dataset) Records(limit int) []Record {
	n := d.rows
	if limit >= 0 && limit < n {
		n = limit
	}
	records := make([]Record, n)
	for i := 0; i < n; i++ {
		record := make(Record, len(d.columns))
		for _, c := range d.columns {
			record[c.Name] = cellInterface(c.Kind, c.Values[i])
		}
		records[i] = record
	}
	return records
}

func cellInterface(kind ColumnKind, v Value) interface{} {
	switch v.Kind {
	case Missing:
		return nil
	case Text:
		return v.Str
	}
	switch kind {
	case KindInt, KindIndicator:
		return int64(v.Num)
	case KindBool:
		return v.Num != 0
	default:
		return v.Num
	}
}
