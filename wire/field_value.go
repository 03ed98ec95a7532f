package wire

import "time"

type (
	// FieldValue is one decoded value for one column of one logical row.
	// At most one of the value fields is set; all unset means null.
	FieldValue struct {
		Int64Val     *int64       `json:"int64Val,omitempty"`
		StringVal    *string      `json:"stringVal,omitempty"`
		Float32Val   *float32     `json:"float32Val,omitempty"`
		Float64Val   *float64     `json:"float64Val,omitempty"`
		BoolVal      *bool        `json:"boolVal,omitempty"`
		BytesVal     []byte       `json:"bytesVal,omitempty"`
		TimestampVal *time.Time   `json:"timestampVal,omitempty"`
		// ListVal non-nil but empty means an empty list, nil means not a list
		ListVal []FieldValue `json:"listVal,omitempty"`
	}

	PartitionFieldValue struct {
		Int64Val     *int64     `json:"int64Val,omitempty"`
		StringVal    *string    `json:"stringVal,omitempty"`
		BoolVal      *bool      `json:"boolVal,omitempty"`
		TimestampVal *time.Time `json:"timestampVal,omitempty"`
	}

	// Row is the wire shape of a row for writes, keyed by column name.
	// Decoded reads use the client's ordered row type instead.
	Row struct {
		Fields map[string]FieldValue `json:"fields"`
	}
)

func (fv FieldValue) IsNull() bool {
	return fv.Int64Val == nil && fv.StringVal == nil && fv.Float32Val == nil &&
		fv.Float64Val == nil && fv.BoolVal == nil && fv.BytesVal == nil &&
		fv.TimestampVal == nil && fv.ListVal == nil
}

func (fv FieldValue) IsList() bool {
	return fv.ListVal != nil
}

func Int64Value(x int64) FieldValue {
	return FieldValue{Int64Val: &x}
}

func StringValue(s string) FieldValue {
	return FieldValue{StringVal: &s}
}

func Float32Value(x float32) FieldValue {
	return FieldValue{Float32Val: &x}
}

func Float64Value(x float64) FieldValue {
	return FieldValue{Float64Val: &x}
}

func BoolValue(b bool) FieldValue {
	return FieldValue{BoolVal: &b}
}

func BytesValue(b []byte) FieldValue {
	if b == nil {
		b = []byte{}
	}
	return FieldValue{BytesVal: b}
}

func TimestampValue(t time.Time) FieldValue {
	return FieldValue{TimestampVal: &t}
}

func ListValue(vals ...FieldValue) FieldValue {
	if vals == nil {
		vals = []FieldValue{}
	}
	return FieldValue{ListVal: vals}
}

func NullValue() FieldValue {
	return FieldValue{}
}

func PartitionInt64(key string, x int64) PartitionField {
	return PartitionField{Key: key, Value: PartitionFieldValue{Int64Val: &x}}
}

func PartitionString(key, s string) PartitionField {
	return PartitionField{Key: key, Value: PartitionFieldValue{StringVal: &s}}
}

func PartitionBool(key string, b bool) PartitionField {
	return PartitionField{Key: key, Value: PartitionFieldValue{BoolVal: &b}}
}

func PartitionTimestamp(key string, t time.Time) PartitionField {
	return PartitionField{Key: key, Value: PartitionFieldValue{TimestampVal: &t}}
}
