package codec

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/griddledb/griddle-go/wire"
)

// EncodePage encodes values into one page. Servers do the same on write
// flushes; the client uses it for fixtures and round-trip tests.
func EncodePage(values []wire.FieldValue, meta wire.ColumnMeta) ([]byte, error) {
	if len(values) == 0 {
		return nil, nil
	}
	tag, ok := dtypeTag(meta.DType)
	if !ok {
		return nil, fmt.Errorf("unencodable dtype %q", meta.DType)
	}
	buf := []byte{tag}
	var err error
	for i, v := range values {
		buf, err = appendValue(buf, v, meta.DType, meta.NestedListDepth)
		if err != nil {
			return nil, fmt.Errorf("error encoding value %d: %w", i, err)
		}
	}
	return buf, nil
}

func appendValue(buf []byte, v wire.FieldValue, dtype wire.DataType, depth uint8) ([]byte, error) {
	if v.IsNull() {
		return append(buf, nullMarker), nil
	}
	buf = append(buf, presentMarker)
	if depth > 0 {
		if !v.IsList() {
			return nil, fmt.Errorf("expected a list value at nesting depth %d", depth)
		}
		buf = binary.AppendUvarint(buf, uint64(len(v.ListVal)))
		var err error
		for _, elem := range v.ListVal {
			buf, err = appendValue(buf, elem, dtype, depth-1)
			if err != nil {
				return nil, err
			}
		}
		return buf, nil
	}
	return appendScalar(buf, v, dtype)
}

func appendScalar(buf []byte, v wire.FieldValue, dtype wire.DataType) ([]byte, error) {
	switch dtype {
	case wire.DataTypeInt64:
		if v.Int64Val == nil {
			return nil, fmt.Errorf("value is not an int64")
		}
		return binary.BigEndian.AppendUint64(buf, uint64(*v.Int64Val)), nil
	case wire.DataTypeTimestampMicros:
		if v.TimestampVal == nil {
			return nil, fmt.Errorf("value is not a timestamp")
		}
		return binary.BigEndian.AppendUint64(buf, uint64(v.TimestampVal.UnixMicro())), nil
	case wire.DataTypeFloat32:
		if v.Float32Val == nil {
			return nil, fmt.Errorf("value is not a float32")
		}
		return binary.BigEndian.AppendUint32(buf, math.Float32bits(*v.Float32Val)), nil
	case wire.DataTypeFloat64:
		if v.Float64Val == nil {
			return nil, fmt.Errorf("value is not a float64")
		}
		return binary.BigEndian.AppendUint64(buf, math.Float64bits(*v.Float64Val)), nil
	case wire.DataTypeBool:
		if v.BoolVal == nil {
			return nil, fmt.Errorf("value is not a bool")
		}
		if *v.BoolVal {
			return append(buf, 1), nil
		}
		return append(buf, 0), nil
	case wire.DataTypeString:
		if v.StringVal == nil {
			return nil, fmt.Errorf("value is not a string")
		}
		buf = binary.AppendUvarint(buf, uint64(len(*v.StringVal)))
		return append(buf, *v.StringVal...), nil
	case wire.DataTypeBytes:
		if v.BytesVal == nil {
			return nil, fmt.Errorf("value is not bytes")
		}
		buf = binary.AppendUvarint(buf, uint64(len(v.BytesVal)))
		return append(buf, v.BytesVal...), nil
	default:
		return nil, fmt.Errorf("unencodable dtype %q", dtype)
	}
}
