package wire

type (
	// ColumnMeta declares a column's value type. Values may be lists nested
	// NestedListDepth levels deep.
	ColumnMeta struct {
		DType           DataType `json:"dtype" validate:"required"`
		NestedListDepth uint8    `json:"nestedListDepth"`
	}

	PartitionMeta struct {
		DType PartitionDataType `json:"dtype" validate:"required"`
	}

	Schema struct {
		Partitioning map[string]PartitionMeta `json:"partitioning"`
		Columns      map[string]ColumnMeta    `json:"columns"`
	}

	SchemaMode string
)

const (
	SchemaModeFailIfExists  SchemaMode = "FAIL_IF_EXISTS"
	SchemaModeOkIfExact     SchemaMode = "OK_IF_EXACT"
	SchemaModeAddNewColumns SchemaMode = "ADD_NEW_COLUMNS"
)

type (
	CreateTableRequest struct {
		TableName string     `json:"tableName" validate:"required"`
		Schema    Schema     `json:"schema"`
		Mode      SchemaMode `json:"mode,omitempty"`
	}

	CreateTableResponse struct {
		AlreadyExists bool     `json:"alreadyExists"`
		ColumnsAdded  []string `json:"columnsAdded,omitempty"`
	}

	AlterTableRequest struct {
		TableName  string                `json:"tableName" validate:"required"`
		NewColumns map[string]ColumnMeta `json:"newColumns" validate:"required,min=1"`
	}

	AlterTableResponse struct{}

	DropTableRequest struct {
		TableName string `json:"tableName" validate:"required"`
	}

	DropTableResponse struct{}

	GetSchemaRequest struct {
		TableName string `json:"tableName" validate:"required"`
	}

	GetSchemaResponse struct {
		Schema Schema `json:"schema"`
	}

	ListTablesRequest struct{}

	TableInfo struct {
		TableName string `json:"tableName"`
	}

	ListTablesResponse struct {
		Tables []TableInfo `json:"tables"`
	}

	SegmentMetadata struct {
		RowCount int64 `json:"rowCount"`
	}

	Segment struct {
		SegmentID string           `json:"segmentId"`
		Partition []PartitionField `json:"partition"`
		Metadata  *SegmentMetadata `json:"metadata,omitempty"`
	}

	ListSegmentsRequest struct {
		TableName       string           `json:"tableName" validate:"required"`
		PartitionFilter []PartitionField `json:"partitionFilter,omitempty"`
		IncludeMetadata bool             `json:"includeMetadata,omitempty"`
	}

	ListSegmentsResponse struct {
		Segments []Segment `json:"segments"`
	}

	WriteToPartitionRequest struct {
		TableName string           `json:"tableName" validate:"required"`
		Partition []PartitionField `json:"partition"`
		Rows      []Row            `json:"rows" validate:"required,min=1,max=256"`
	}

	WriteToPartitionResponse struct {
		RowCount int64 `json:"rowCount"`
	}

	DeleteFromSegmentRequest struct {
		TableName string           `json:"tableName" validate:"required"`
		Partition []PartitionField `json:"partition"`
		SegmentID string           `json:"segmentId" validate:"required"`
		RowIDs    []uint32         `json:"rowIds" validate:"required,min=1"`
	}

	DeleteFromSegmentResponse struct {
		DeletedCount int64 `json:"deletedCount"`
	}

	ReadSegmentDeletionsRequest struct {
		TableName     string           `json:"tableName" validate:"required"`
		Partition     []PartitionField `json:"partition"`
		SegmentID     string           `json:"segmentId" validate:"required"`
		CorrelationID string           `json:"correlationId" validate:"required"`
	}

	// ReadSegmentDeletionsResponse's Data arrives as raw bytes after the JSON
	// header document, never inside it.
	ReadSegmentDeletionsResponse struct {
		Data []byte `json:"-"`
	}

	ReadSegmentColumnRequest struct {
		TableName         string           `json:"tableName" validate:"required"`
		Partition         []PartitionField `json:"partition"`
		SegmentID         string           `json:"segmentId" validate:"required"`
		ColumnName        string           `json:"columnName" validate:"required"`
		CorrelationID     string           `json:"correlationId" validate:"required"`
		ContinuationToken string           `json:"continuationToken,omitempty"`
	}

	// ReadSegmentColumnResponse is one page of a column read.
	// An empty ContinuationToken means the column is exhausted.
	// An empty Codec means Data is plain page encoding; otherwise Data must be
	// decompressed with the named codec first.
	// ImplicitNullsCount rows of trailing nulls follow this page's encoded
	// values without occupying any bytes.
	ReadSegmentColumnResponse struct {
		ContinuationToken  string `json:"continuationToken,omitempty"`
		Codec              string `json:"codec,omitempty"`
		ImplicitNullsCount uint32 `json:"implicitNullsCount,omitempty"`
		Data               []byte `json:"-"`
	}
)
