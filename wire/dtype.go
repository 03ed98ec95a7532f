package wire

type (
	// DataType is the declared value type of a column.
	DataType string

	// PartitionDataType is the declared type of a partition dimension.
	PartitionDataType string
)

const (
	DataTypeInt64           DataType = "INT64"
	DataTypeString          DataType = "STRING"
	DataTypeFloat32         DataType = "FLOAT32"
	DataTypeFloat64         DataType = "FLOAT64"
	DataTypeBytes           DataType = "BYTES"
	DataTypeBool            DataType = "BOOL"
	DataTypeTimestampMicros DataType = "TIMESTAMP_MICROS"
)

const (
	PartitionDataTypeInt64     PartitionDataType = "INT64"
	PartitionDataTypeString    PartitionDataType = "STRING"
	PartitionDataTypeBool      PartitionDataType = "BOOL"
	PartitionDataTypeTimestamp PartitionDataType = "TIMESTAMP"
)

func (d DataType) Valid() bool {
	switch d {
	case DataTypeInt64, DataTypeString, DataTypeFloat32, DataTypeFloat64,
		DataTypeBytes, DataTypeBool, DataTypeTimestampMicros:
		return true
	}
	return false
}

func (d PartitionDataType) Valid() bool {
	switch d {
	case PartitionDataTypeInt64, PartitionDataTypeString, PartitionDataTypeBool, PartitionDataTypeTimestamp:
		return true
	}
	return false
}
