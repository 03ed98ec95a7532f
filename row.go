package griddle

import "github.com/griddledb/griddle-go/wire"

type (
	RowField struct {
		Name  string
		Value wire.FieldValue
	}

	// Row is one assembled record: name lookup plus iteration in the order
	// the columns were requested. Deliberately not a Go map so iteration
	// order stays explicit. The zero value is an empty row.
	Row struct {
		fields []RowField
		index  map[string]int
	}
)

// Set appends the field, or replaces its value in place if the name already
// exists.
func (r *Row) Set(name string, v wire.FieldValue) {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	if i, exists := r.index[name]; exists {
		r.fields[i].Value = v
		return
	}
	r.index[name] = len(r.fields)
	r.fields = append(r.fields, RowField{Name: name, Value: v})
}

func (r *Row) Get(name string) (wire.FieldValue, bool) {
	i, exists := r.index[name]
	if !exists {
		return wire.FieldValue{}, false
	}
	return r.fields[i].Value, true
}

// Fields returns the row's fields in request order. The slice is the row's
// own backing array; callers must not modify it.
func (r *Row) Fields() []RowField {
	return r.fields
}

func (r *Row) Len() int {
	return len(r.fields)
}

// Names returns the column names in request order.
func (r *Row) Names() []string {
	names := make([]string, len(r.fields))
	for i, f := range r.fields {
		names[i] = f.Name
	}
	return names
}

// MakeRow builds a wire row for writes from name/value pairs.
func MakeRow(fields ...RowField) wire.Row {
	m := make(map[string]wire.FieldValue, len(fields))
	for _, f := range fields {
		m[f.Name] = f.Value
	}
	return wire.Row{Fields: m}
}

// Field pairs a name and value for MakeRow.
func Field(name string, v wire.FieldValue) RowField {
	return RowField{Name: name, Value: v}
}

// MakePartition builds an ordered partition from its fields.
func MakePartition(fields ...wire.PartitionField) []wire.PartitionField {
	return fields
}
