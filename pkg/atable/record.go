package atable

import (
	"fmt"
	"reflect"
)

// Row is implemented by records that know how to lay themselves out as a
// table row. It takes precedence over struct reflection.
type Row interface {
	TableRow() []any
}

// Header is implemented by records that supply their own column names.
type Header interface {
	TableHeader() []string
}

// tagName is the struct tag consulted when expanding records. `table:"-"`
// skips a field and `table:"name"` renames its header column.
const tagName = "table"

var (
	headerType = reflect.TypeOf((*Header)(nil)).Elem()
	rowType    = reflect.TypeOf((*Row)(nil)).Elem()
)

// expandRow turns a single structured record into its field values. Any
// other input is returned as is.
func expandRow(cols []any) []any {
	if len(cols) != 1 {
		return cols
	}
	if r, ok := cols[0].(Row); ok {
		return r.TableRow()
	}
	rv, ok := structValue(cols[0])
	if !ok {
		return cols
	}
	rt := rv.Type()
	values := make([]any, 0, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		if _, skip := fieldName(rt.Field(i)); skip {
			continue
		}
		values = append(values, rv.Field(i).Interface())
	}
	return values
}

// expandHeader turns a single record value, record pointer or record type
// into its column names. Any other input is returned as is.
func expandHeader(cols []any) []any {
	if len(cols) != 1 {
		return cols
	}
	if h, ok := cols[0].(Header); ok {
		return stringsToAny(h.TableHeader())
	}

	var rt reflect.Type
	if t, ok := cols[0].(reflect.Type); ok {
		rt = t
	} else if cols[0] != nil {
		rt = reflect.TypeOf(cols[0])
	}
	if rt == nil {
		return cols
	}
	if h, ok := zeroHeader(rt); ok {
		return stringsToAny(h.TableHeader())
	}
	// A record that only lays out its row names its columns by that row, so
	// header and rows always have the same column count.
	if r, ok := cols[0].(Row); ok {
		return r.TableRow()
	}
	if r, ok := zeroRow(rt); ok {
		return r.TableRow()
	}
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt.Kind() != reflect.Struct {
		return cols
	}
	names := make([]any, 0, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		name, skip := fieldName(rt.Field(i))
		if skip {
			continue
		}
		names = append(names, name)
	}
	return names
}

// zeroHeader returns a zero record of type rt when the record (or a pointer
// to it) implements Header.
func zeroHeader(rt reflect.Type) (Header, bool) {
	switch {
	case rt.Kind() == reflect.Pointer && rt.Implements(headerType):
		h, ok := reflect.New(rt.Elem()).Interface().(Header)
		return h, ok
	case rt.Implements(headerType):
		h, ok := reflect.Zero(rt).Interface().(Header)
		return h, ok
	case reflect.PointerTo(rt).Implements(headerType):
		h, ok := reflect.New(rt).Interface().(Header)
		return h, ok
	}
	return nil, false
}

// zeroRow is zeroHeader for Row.
func zeroRow(rt reflect.Type) (Row, bool) {
	switch {
	case rt.Kind() == reflect.Pointer && rt.Implements(rowType):
		r, ok := reflect.New(rt.Elem()).Interface().(Row)
		return r, ok
	case rt.Implements(rowType):
		r, ok := reflect.Zero(rt).Interface().(Row)
		return r, ok
	case reflect.PointerTo(rt).Implements(rowType):
		r, ok := reflect.New(rt).Interface().(Row)
		return r, ok
	}
	return nil, false
}

func structValue(v any) (reflect.Value, bool) {
	if v == nil {
		return reflect.Value{}, false
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return reflect.Value{}, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}
	return rv, true
}

func fieldName(f reflect.StructField) (string, bool) {
	if !f.IsExported() {
		return "", true
	}
	tag := f.Tag.Get(tagName)
	switch tag {
	case "-":
		return "", true
	case "":
		return f.Name, false
	default:
		return tag, false
	}
}

func stringsToAny(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

func stringify(cols []any) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = fmt.Sprint(c)
	}
	return out
}
