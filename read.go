package griddle

import (
	"context"
	"errors"
	"fmt"

	"github.com/UltimateTournament/backoff/v4"
	"github.com/griddledb/griddle-go/codec"
	"github.com/griddledb/griddle-go/transport"
	"github.com/griddledb/griddle-go/utils"
	"github.com/griddledb/griddle-go/wire"
	"golang.org/x/sync/errgroup"
)

// readState tracks a single column's pagination loop.
type readState int

const (
	readStart readState = iota
	readFetching
	readDone
	readFailed
)

// DecodeIsDeleted reads and decodes the segment's deletion mask.
//
// Typically you'll want the higher-level DecodeSegment instead.
func (c *Client) DecodeIsDeleted(ctx context.Context, key SegmentKey, correlationID string) ([]bool, error) {
	resp, err := readWithRetry(ctx, c, func() (wire.ReadSegmentDeletionsResponse, error) {
		return c.Gateway.ReadSegmentDeletions(ctx, wire.ReadSegmentDeletionsRequest{
			TableName:     key.TableName,
			Partition:     key.Partition,
			SegmentID:     key.SegmentID,
			CorrelationID: correlationID,
		})
	})
	if err != nil {
		return nil, err
	}
	isDeleted, err := codec.DecompressDeletions(resp.Data)
	if err != nil {
		return nil, fmt.Errorf("error decoding deletion mask for segment %s: %w", key, err)
	}
	return isDeleted, nil
}

// DecodeSegmentColumn materializes the complete value sequence for one
// column of one segment, following continuation tokens until the server
// reports exhaustion. The result is all-or-nothing: any failure discards
// partial accumulation, since a cut-off column would corrupt row alignment.
//
// Typically you'll want the higher-level DecodeSegment instead.
func (c *Client) DecodeSegmentColumn(
	ctx context.Context,
	key SegmentKey,
	columnName string,
	meta wire.ColumnMeta,
	isDeleted []bool,
	correlationID string,
) ([]wire.FieldValue, error) {
	var (
		token   string
		stored  []wire.FieldValue
		readErr error
	)
	state := readStart
	for {
		switch state {
		case readStart, readFetching:
			resp, err := c.readColumnPage(ctx, wire.ReadSegmentColumnRequest{
				TableName:         key.TableName,
				Partition:         key.Partition,
				SegmentID:         key.SegmentID,
				ColumnName:        columnName,
				CorrelationID:     correlationID,
				ContinuationToken: token,
			})
			if err != nil {
				readErr = err
				state = readFailed
				continue
			}
			pageBytes, err := codec.DecompressPage(resp.Data, resp.Codec)
			if err != nil {
				readErr = fmt.Errorf("error decompressing page for column %s of segment %s: %w", columnName, key, err)
				state = readFailed
				continue
			}
			pageValues, err := codec.DecodePage(pageBytes, meta)
			if err != nil {
				readErr = fmt.Errorf("error decoding page for column %s of segment %s: %w", columnName, key, err)
				state = readFailed
				continue
			}
			stored = append(stored, pageValues...)
			for i := uint32(0); i < resp.ImplicitNullsCount; i++ {
				stored = append(stored, wire.NullValue())
			}
			token = resp.ContinuationToken
			if token == "" {
				state = readDone
			} else {
				state = readFetching
			}
		case readDone:
			// drop rows flagged in the deletion mask, by stored row order
			res := make([]wire.FieldValue, 0, len(stored))
			for i, v := range stored {
				if i >= len(isDeleted) || !isDeleted[i] {
					res = append(res, v)
				}
			}
			return res, nil
		case readFailed:
			return nil, readErr
		}
	}
}

// DecodeColumn is the single-column convenience path: it fetches the
// deletion mask itself and returns the column's values with no row wrapping.
func (c *Client) DecodeColumn(ctx context.Context, key SegmentKey, col ColumnDescriptor) ([]wire.FieldValue, error) {
	correlationID := NewCorrelationID()
	isDeleted, err := c.DecodeIsDeleted(ctx, key, correlationID)
	if err != nil {
		return nil, err
	}
	return c.DecodeSegmentColumn(ctx, key, col.Name, col.Meta, isDeleted, correlationID)
}

// DecodeSegment reads every requested column of the segment concurrently and
// zips the aligned value sequences into rows. Field iteration order follows
// the descriptor order; lookup is by column name. If the columns decode to
// unequal lengths the whole read fails with a RowAlignmentError rather than
// returning truncated rows.
func (c *Client) DecodeSegment(ctx context.Context, key SegmentKey, columns []ColumnDescriptor) ([]Row, error) {
	if len(columns) == 0 {
		return nil, ErrNoColumns
	}

	correlationID := NewCorrelationID()

	isDeleted, err := c.DecodeIsDeleted(ctx, key, correlationID)
	if err != nil {
		return nil, err
	}

	// per-column reads have no data dependency on each other
	results := make([][]wire.FieldValue, len(columns))
	g, gctx := errgroup.WithContext(ctx)
	for i, col := range columns {
		i, col := i, col
		g.Go(func() error {
			values, err := c.DecodeSegmentColumn(gctx, key, col.Name, col.Meta, isDeleted, correlationID)
			if err != nil {
				return err
			}
			results[i] = values
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	n := len(results[0])
	aligned := true
	lengths := make(map[string]int, len(columns))
	for i, col := range columns {
		lengths[col.Name] = len(results[i])
		if len(results[i]) != n {
			aligned = false
		}
	}
	if !aligned {
		return nil, &RowAlignmentError{Key: key, Lengths: lengths}
	}

	rows := make([]Row, n)
	for i := 0; i < n; i++ {
		for j, col := range columns {
			rows[i].Set(col.Name, results[j][i])
		}
	}
	return rows, nil
}

// readColumnPage issues one page read, retrying transient transport failures
// at the same continuation token.
func (c *Client) readColumnPage(ctx context.Context, req wire.ReadSegmentColumnRequest) (wire.ReadSegmentColumnResponse, error) {
	return readWithRetry(ctx, c, func() (wire.ReadSegmentColumnResponse, error) {
		return c.Gateway.ReadSegmentColumn(ctx, req)
	})
}

func readWithRetry[T any](ctx context.Context, c *Client, call func() (T, error)) (T, error) {
	maxTries := c.ReadMaxTries
	if maxTries < 1 {
		maxTries = 1
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = c.ReadBackoffInitial
	eb.MaxInterval = c.ReadBackoffMax
	eb.MaxElapsedTime = 0
	bo := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(maxTries-1)), ctx)

	var resp T
	err := backoff.Retry(func() error {
		r, err := call()
		if err != nil {
			var te *transport.TransportError
			if errors.As(err, &te) && !utils.IsPermanent(err) {
				// idempotent for a given token, safe to retry
				return err
			}
			return backoff.Permanent(err)
		}
		resp = r
		return nil
	}, bo)
	return resp, err
}
