package transport

import (
	"context"
	"fmt"

	"github.com/griddledb/griddle-go/wire"
)

type (
	// Gateway performs unary request/response calls against a GriddleDB
	// server. Calls are stateless and independent; pagination state lives
	// entirely in the request/response tokens.
	Gateway interface {
		CreateTable(ctx context.Context, req wire.CreateTableRequest) (wire.CreateTableResponse, error)
		AlterTable(ctx context.Context, req wire.AlterTableRequest) (wire.AlterTableResponse, error)
		DropTable(ctx context.Context, req wire.DropTableRequest) (wire.DropTableResponse, error)
		GetSchema(ctx context.Context, req wire.GetSchemaRequest) (wire.GetSchemaResponse, error)
		ListTables(ctx context.Context, req wire.ListTablesRequest) (wire.ListTablesResponse, error)
		ListSegments(ctx context.Context, req wire.ListSegmentsRequest) (wire.ListSegmentsResponse, error)
		WriteToPartition(ctx context.Context, req wire.WriteToPartitionRequest) (wire.WriteToPartitionResponse, error)
		DeleteFromSegment(ctx context.Context, req wire.DeleteFromSegmentRequest) (wire.DeleteFromSegmentResponse, error)
		ReadSegmentDeletions(ctx context.Context, req wire.ReadSegmentDeletionsRequest) (wire.ReadSegmentDeletionsResponse, error)
		ReadSegmentColumn(ctx context.Context, req wire.ReadSegmentColumnRequest) (wire.ReadSegmentColumnResponse, error)
	}
)

// TransportError is a network-level failure. Reads are idempotent for a
// given continuation token, so these may be retried.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error in %s: %s", e.Op, e.Err.Error())
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServerError is a non-retryable RPC rejection (bad request, missing table,
// etc), carrying the server's status and message.
type ServerError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server rejected %s with status %d: %s", e.Op, e.StatusCode, e.Message)
}

func (e *ServerError) IsPermanent() bool {
	return true
}
