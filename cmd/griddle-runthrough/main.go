package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"time"

	griddle "github.com/griddledb/griddle-go"
	"github.com/griddledb/griddle-go/gologger"
	"github.com/griddledb/griddle-go/transport"
	"github.com/griddledb/griddle-go/utils"
	"github.com/griddledb/griddle-go/wire"
	"golang.org/x/sync/errgroup"
)

var logger = gologger.NewLogger()

const (
	tableName   = "client_runthrough_table"
	nPartitions = 3
)

func main() {
	logger.Debug().Msg("starting griddle client runthrough")

	client := griddle.Connect(utils.GRIDDLE_ADDR)
	ctx := context.Background()

	// Drop table (if it exists)
	_, err := client.DropTable(ctx, wire.DropTableRequest{TableName: tableName})
	if err != nil {
		var se *transport.ServerError
		if !errors.As(err, &se) || se.StatusCode != http.StatusNotFound {
			logger.Error().Err(err).Msg("error dropping table")
			os.Exit(1)
		}
	} else {
		logger.Info().Msg("dropped existing table")
	}

	// Create a table
	createResp, err := client.CreateTable(ctx, wire.CreateTableRequest{
		TableName: tableName,
		Schema: wire.Schema{
			Partitioning: map[string]wire.PartitionMeta{
				"pk": {DType: wire.PartitionDataTypeInt64},
			},
			Columns: map[string]wire.ColumnMeta{
				"id": {DType: wire.DataTypeString},
				"i":  {DType: wire.DataTypeInt64},
				"s":  {DType: wire.DataTypeString, NestedListDepth: 1},
			},
		},
		Mode: wire.SchemaModeFailIfExists,
	})
	if err != nil {
		logger.Error().Err(err).Msg("error creating table")
		os.Exit(1)
	}
	logger.Info().Interface("resp", createResp).Msg("created table")

	schemaResp, err := client.GetSchema(ctx, wire.GetSchemaRequest{TableName: tableName})
	if err != nil {
		logger.Error().Err(err).Msg("error getting schema")
		os.Exit(1)
	}
	logger.Info().Interface("schema", schemaResp.Schema).Msg("got schema")

	// Write rows, a batch per partition at a time
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(16)
	for batch := 0; batch < 100; batch++ {
		g.Go(func() error {
			rows := make([]wire.Row, 0, 50)
			for i := 0; i < 50; i++ {
				rows = append(rows, griddle.MakeRow(
					griddle.Field("id", wire.StringValue(utils.GenKSortedID("row_"))),
					griddle.Field("i", wire.Int64Value(rand.Int63())),
					griddle.Field("s", wire.ListValue(wire.StringValue("item 0"), wire.StringValue("item 1"))),
				))
			}
			_, err := client.WriteToPartition(gctx, wire.WriteToPartitionRequest{
				TableName: tableName,
				Partition: griddle.MakePartition(wire.PartitionInt64("pk", rand.Int63n(nPartitions))),
				Rows:      rows,
			})
			return err
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("error writing rows")
		os.Exit(1)
	}
	logger.Info().Msg("wrote rows")

	// List segments
	listResp, err := client.ListSegments(ctx, wire.ListSegmentsRequest{
		TableName:       tableName,
		IncludeMetadata: true,
	})
	if err != nil {
		logger.Error().Err(err).Msg("error listing segments")
		os.Exit(1)
	}
	logger.Info().Int("segments", len(listResp.Segments)).Msg("listed segments")
	if len(listResp.Segments) == 0 {
		logger.Error().Msg("no segments to read")
		os.Exit(1)
	}

	segment := listResp.Segments[0]
	key := griddle.SegmentKey{
		TableName: tableName,
		Partition: segment.Partition,
		SegmentID: segment.SegmentID,
	}

	// Delete a few rows, then decode the whole segment
	_, err = client.DeleteFromSegment(ctx, wire.DeleteFromSegmentRequest{
		TableName: tableName,
		Partition: segment.Partition,
		SegmentID: segment.SegmentID,
		RowIDs:    []uint32{0, 1, 2},
	})
	if err != nil {
		logger.Error().Err(err).Msg("error deleting from segment")
		os.Exit(1)
	}

	s := time.Now()
	rows, err := client.DecodeSegment(ctx, key, []griddle.ColumnDescriptor{
		{Name: "id", Meta: wire.ColumnMeta{DType: wire.DataTypeString}},
		{Name: "i", Meta: wire.ColumnMeta{DType: wire.DataTypeInt64}},
		{Name: "s", Meta: wire.ColumnMeta{DType: wire.DataTypeString, NestedListDepth: 1}},
	})
	if err != nil {
		logger.Error().Err(err).Msg("error decoding segment")
		os.Exit(1)
	}
	logger.Info().Int("rows", len(rows)).Str("duration", time.Since(s).String()).Str("segment", key.String()).Msg("decoded segment")

	for i := 0; i < len(rows) && i < 3; i++ {
		for _, f := range rows[i].Fields() {
			fmt.Printf("row %d %s: %+v\n", i, f.Name, f.Value)
		}
	}
}
