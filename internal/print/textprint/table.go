// Package textprint renders values as human-readable text tables.
//
// Columns are the exported fields of the value type, named after their
// `text` struct tag. Fields tagged `text:"-"` are omitted.
package textprint

import (
	"io"
	"reflect"
	"slices"
	"text/tabwriter"

	"github.com/stealthrocket/sysgen/internal/stream"
)

type TableOption[T any] func(*tableWriter[T])

// Header enables or disables the first line naming the columns.
func Header[T any](enable bool) TableOption[T] {
	return func(t *tableWriter[T]) { t.header = enable }
}

// List restricts the output to the first column.
func List[T any](enable bool) TableOption[T] {
	return func(t *tableWriter[T]) { t.list = enable }
}

func OrderBy[T any](f func(T, T) int) TableOption[T] {
	return func(t *tableWriter[T]) { t.orderBy = f }
}

// NewTableWriter returns a writer buffering values and printing them as a
// table to w when closed.
func NewTableWriter[T any](w io.Writer, opts ...TableOption[T]) stream.WriteCloser[T] {
	t := &tableWriter[T]{
		output: w,
		header: true,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

type tableWriter[T any] struct {
	output  io.Writer
	values  []T
	header  bool
	list    bool
	orderBy func(T, T) int
}

func (t *tableWriter[T]) Write(values []T) (int, error) {
	t.values = append(t.values, values...)
	return len(values), nil
}

func (t *tableWriter[T]) Close() error {
	if t.orderBy != nil {
		slices.SortStableFunc(t.values, t.orderBy)
	}

	valueOf := func(values []T, index int) reflect.Value {
		return reflect.ValueOf(&values[index]).Elem()
	}
	valueType := reflect.TypeOf((*T)(nil)).Elem()
	if valueType.Kind() == reflect.Pointer {
		valueType = valueType.Elem()
		valueOf = func(values []T, index int) reflect.Value {
			return reflect.ValueOf(values[index]).Elem()
		}
	}

	columns, encoders := tableColumns(valueType)
	if t.list && len(columns) > 1 {
		columns, encoders = columns[:1], encoders[:1]
	}

	tw := tabwriter.NewWriter(t.output, 0, 4, 2, ' ', 0)
	if t.header {
		for i, name := range columns {
			if i != 0 {
				name = "\t" + name
			}
			if _, err := io.WriteString(tw, name); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(tw, "\n"); err != nil {
			return err
		}
	}

	for n := range t.values {
		v := valueOf(t.values, n)
		for i, enc := range encoders {
			if i != 0 {
				if _, err := io.WriteString(tw, "\t"); err != nil {
					return err
				}
			}
			if err := enc(tw, v); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(tw, "\n"); err != nil {
			return err
		}
	}

	return tw.Flush()
}

func tableColumns(t reflect.Type) (columns []string, encoders []encodeFunc) {
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("text"); ok {
			name = tag
		}
		if name == "-" {
			continue
		}
		columns = append(columns, name)
		encoders = append(encoders, encodeFuncOfStructField(f.Type, f.Index))
	}
	return columns, encoders
}
