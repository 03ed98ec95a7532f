package schema_accumulator

import (
	"fmt"
	"sort"
	"time"

	"github.com/griddledb/griddle-go/wire"
)

type (
	// SchemaAccumulator infers a GriddleDB schema from untyped rows, e.g.
	// decoded JSON, so a table can be created without hand-writing column
	// metadata. Feed it rows, then ask for the schema.
	SchemaAccumulator struct {
		columns map[string]wire.ColumnMeta
	}
)

func NewSchemaAccumulator() SchemaAccumulator {
	return SchemaAccumulator{
		columns: make(map[string]wire.ColumnMeta),
	}
}

// WriteRow accumulates the schema. Nil values contribute nothing; a column
// seen as both int64 and float64 across rows is promoted to float64.
func (sa *SchemaAccumulator) WriteRow(row map[string]any) error {
	for key, val := range row {
		if val == nil {
			continue
		}
		meta, ok := metaForValue(val)
		if !ok {
			return fmt.Errorf("column %s has untypeable value %T", key, val)
		}
		existing, exists := sa.columns[key]
		if !exists {
			sa.columns[key] = meta
			continue
		}
		merged, err := mergeMeta(existing, meta)
		if err != nil {
			return fmt.Errorf("error merging types for column %s: %w", key, err)
		}
		sa.columns[key] = merged
	}
	return nil
}

func metaForValue(val any) (wire.ColumnMeta, bool) {
	switch v := val.(type) {
	case string:
		return wire.ColumnMeta{DType: wire.DataTypeString}, true
	case bool:
		return wire.ColumnMeta{DType: wire.DataTypeBool}, true
	case int, int32, int64:
		return wire.ColumnMeta{DType: wire.DataTypeInt64}, true
	case float32:
		return wire.ColumnMeta{DType: wire.DataTypeFloat32}, true
	case float64:
		return wire.ColumnMeta{DType: wire.DataTypeFloat64}, true
	case []byte:
		return wire.ColumnMeta{DType: wire.DataTypeBytes}, true
	case time.Time:
		return wire.ColumnMeta{DType: wire.DataTypeTimestampMicros}, true
	case []any:
		for _, elem := range v {
			if elem == nil {
				continue
			}
			inner, ok := metaForValue(elem)
			if !ok {
				return wire.ColumnMeta{}, false
			}
			inner.NestedListDepth++
			return inner, true
		}
		// all elements nil, can't tell the element type yet
		return wire.ColumnMeta{}, false
	}
	return wire.ColumnMeta{}, false
}

func mergeMeta(a, b wire.ColumnMeta) (wire.ColumnMeta, error) {
	if a == b {
		return a, nil
	}
	if a.NestedListDepth != b.NestedListDepth {
		return wire.ColumnMeta{}, fmt.Errorf("list depth %d conflicts with %d", a.NestedListDepth, b.NestedListDepth)
	}
	// JSON numbers can't tell ints from floats, promote
	if isNumeric(a.DType) && isNumeric(b.DType) {
		return wire.ColumnMeta{DType: wire.DataTypeFloat64, NestedListDepth: a.NestedListDepth}, nil
	}
	return wire.ColumnMeta{}, fmt.Errorf("dtype %s conflicts with %s", a.DType, b.DType)
}

func isNumeric(d wire.DataType) bool {
	return d == wire.DataTypeInt64 || d == wire.DataTypeFloat32 || d == wire.DataTypeFloat64
}

func (sa *SchemaAccumulator) GetColumnNames() []string {
	var cols []string
	for name := range sa.columns {
		cols = append(cols, name)
	}
	sort.Strings(cols)
	return cols
}

// GetSchema returns the accumulated columns as a schema ready for
// CreateTableRequest. Partitioning is the caller's to fill in.
func (sa *SchemaAccumulator) GetSchema() wire.Schema {
	columns := make(map[string]wire.ColumnMeta, len(sa.columns))
	for name, meta := range sa.columns {
		columns[name] = meta
	}
	return wire.Schema{Columns: columns}
}
