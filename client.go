// Package griddle is the Go client for GriddleDB.
//
// It supports the entire GriddleDB API. Since reads return raw byte data in
// the server's page encoding, Client additionally offers higher-level
// functionality for decoding whole segments into a meaningful representation.
package griddle

import (
	"context"
	"time"

	"github.com/griddledb/griddle-go/transport"
	"github.com/griddledb/griddle-go/utils"
	"github.com/griddledb/griddle-go/wire"
)

type Client struct {
	// Gateway makes all low-level calls. Swap it out for a fake in tests
	// or a custom transport.
	Gateway transport.Gateway

	// Retry policy for transient transport failures during reads.
	// Decode failures and server rejections are never retried.
	ReadMaxTries       int
	ReadBackoffInitial time.Duration
	ReadBackoffMax     time.Duration
}

func NewClient(gw transport.Gateway) *Client {
	return &Client{
		Gateway:            gw,
		ReadMaxTries:       int(utils.READ_MAX_TRIES),
		ReadBackoffInitial: time.Millisecond * time.Duration(utils.READ_BACKOFF_INITIAL_MS),
		ReadBackoffMax:     time.Millisecond * time.Duration(utils.READ_BACKOFF_MAX_MS),
	}
}

// Connect returns a client speaking h2c to the given address, e.g.
// "http://localhost:3841". An empty address falls back to GRIDDLE_ADDR.
func Connect(addr string) *Client {
	if addr == "" {
		addr = utils.GRIDDLE_ADDR
	}
	return NewClient(transport.NewHTTPGateway(addr))
}

// CreateTable creates a table, asserts one exists, or declaratively adds
// columns, depending on req.Mode.
func (c *Client) CreateTable(ctx context.Context, req wire.CreateTableRequest) (wire.CreateTableResponse, error) {
	return c.Gateway.CreateTable(ctx, req)
}

// AlterTable alters a table, e.g. by adding columns.
func (c *Client) AlterTable(ctx context.Context, req wire.AlterTableRequest) (wire.AlterTableResponse, error) {
	return c.Gateway.AlterTable(ctx, req)
}

// DropTable drops a table, deleting all its data.
func (c *Client) DropTable(ctx context.Context, req wire.DropTableRequest) (wire.DropTableResponse, error) {
	return c.Gateway.DropTable(ctx, req)
}

// GetSchema returns the table's schema.
func (c *Client) GetSchema(ctx context.Context, req wire.GetSchemaRequest) (wire.GetSchemaResponse, error) {
	return c.Gateway.GetSchema(ctx, req)
}

// ListTables lists all tables.
func (c *Client) ListTables(ctx context.Context, req wire.ListTablesRequest) (wire.ListTablesResponse, error) {
	return c.Gateway.ListTables(ctx, req)
}

// ListSegments lists the table's segments, optionally subject to a partition
// filter. Typically used before decoding segments for a bulk read.
func (c *Client) ListSegments(ctx context.Context, req wire.ListSegmentsRequest) (wire.ListSegmentsResponse, error) {
	return c.Gateway.ListSegments(ctx, req)
}

// WriteToPartition writes rows to a partition of a table. Up to 256 rows fit
// in one request.
func (c *Client) WriteToPartition(ctx context.Context, req wire.WriteToPartitionRequest) (wire.WriteToPartitionResponse, error) {
	return c.Gateway.WriteToPartition(ctx, req)
}

// DeleteFromSegment deletes rows from a segment by row ID.
func (c *Client) DeleteFromSegment(ctx context.Context, req wire.DeleteFromSegmentRequest) (wire.DeleteFromSegmentResponse, error) {
	return c.Gateway.DeleteFromSegment(ctx, req)
}
