package griddle

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/griddledb/griddle-go/codec"
	"github.com/griddledb/griddle-go/transport"
	"github.com/griddledb/griddle-go/wire"
)

type (
	fakePage struct {
		Data               []byte
		Codec              string
		ImplicitNullsCount uint32
		NextToken          string
	}

	fakeGateway struct {
		transport.Gateway

		pages     map[string][]fakePage
		deletions []byte

		// faults is the number of transport failures to inject per column
		// before calls start succeeding
		faults map[string]int

		calls          map[string]int
		correlationIDs map[string]bool
	}
)

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		pages:          make(map[string][]fakePage),
		faults:         make(map[string]int),
		calls:          make(map[string]int),
		correlationIDs: make(map[string]bool),
	}
}

// setColumn encodes values into server-determined page splits for one column.
func (f *fakeGateway) setColumn(t *testing.T, name string, meta wire.ColumnMeta, values []wire.FieldValue, pageSizes []int) {
	t.Helper()
	total := 0
	for _, n := range pageSizes {
		total += n
	}
	if total != len(values) {
		t.Fatalf("page sizes sum to %d, want %d", total, len(values))
	}
	var pages []fakePage
	offset := 0
	for i, n := range pageSizes {
		data, err := codec.EncodePage(values[offset:offset+n], meta)
		if err != nil {
			t.Fatal(err)
		}
		offset += n
		next := ""
		if i < len(pageSizes)-1 {
			next = fmt.Sprintf("%s-t%d", name, i+1)
		}
		pages = append(pages, fakePage{Data: data, NextToken: next})
	}
	f.pages[name] = pages
}

func (f *fakeGateway) ReadSegmentDeletions(ctx context.Context, req wire.ReadSegmentDeletionsRequest) (wire.ReadSegmentDeletionsResponse, error) {
	f.correlationIDs[req.CorrelationID] = true
	return wire.ReadSegmentDeletionsResponse{Data: f.deletions}, nil
}

func (f *fakeGateway) ReadSegmentColumn(ctx context.Context, req wire.ReadSegmentColumnRequest) (wire.ReadSegmentColumnResponse, error) {
	f.correlationIDs[req.CorrelationID] = true
	f.calls[req.ColumnName]++

	if f.faults[req.ColumnName] > 0 {
		f.faults[req.ColumnName]--
		return wire.ReadSegmentColumnResponse{}, &transport.TransportError{Op: "read_segment_column", Err: errors.New("connection reset")}
	}

	pages := f.pages[req.ColumnName]
	if len(pages) == 0 {
		return wire.ReadSegmentColumnResponse{}, &transport.ServerError{Op: "read_segment_column", StatusCode: 404, Message: "no such column"}
	}
	idx := 0
	if req.ContinuationToken != "" {
		idx = -1
		for i, p := range pages {
			if p.NextToken == req.ContinuationToken {
				idx = i + 1
				break
			}
		}
		if idx < 0 || idx >= len(pages) {
			return wire.ReadSegmentColumnResponse{}, &transport.ServerError{Op: "read_segment_column", StatusCode: 400, Message: "bad continuation token"}
		}
	}
	p := pages[idx]
	return wire.ReadSegmentColumnResponse{
		ContinuationToken:  p.NextToken,
		Codec:              p.Codec,
		ImplicitNullsCount: p.ImplicitNullsCount,
		Data:               p.Data,
	}, nil
}

func newTestClient(gw transport.Gateway) *Client {
	c := NewClient(gw)
	c.ReadBackoffInitial = time.Millisecond
	c.ReadBackoffMax = time.Millisecond * 2
	return c
}

var testKey = SegmentKey{
	TableName: "events",
	Partition: []wire.PartitionField{wire.PartitionInt64("pk", 7)},
	SegmentID: "seg_0",
}

func int64Values(xs ...int64) []wire.FieldValue {
	values := make([]wire.FieldValue, len(xs))
	for i, x := range xs {
		values[i] = wire.Int64Value(x)
	}
	return values
}

func TestDecodeSegmentColumnPagination(t *testing.T) {
	meta := wire.ColumnMeta{DType: wire.DataTypeInt64}
	values := int64Values(11, 12, 13, 14, 15)

	gw := newFakeGateway()
	// server-chosen splits, including an empty middle page
	gw.setColumn(t, "age", meta, values, []int{2, 0, 3})

	c := newTestClient(gw)
	got, err := c.DecodeColumn(context.Background(), testKey, ColumnDescriptor{Name: "age", Meta: meta})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, values) {
		t.Fatalf("got %+v, want %+v", got, values)
	}
	if gw.calls["age"] != 3 {
		t.Fatalf("made %d read calls, want 3", gw.calls["age"])
	}
}

func TestDecodeSegmentColumnIdempotent(t *testing.T) {
	meta := wire.ColumnMeta{DType: wire.DataTypeInt64}
	values := int64Values(1, 2, 3)

	gw := newFakeGateway()
	gw.setColumn(t, "age", meta, values, []int{1, 2})

	c := newTestClient(gw)
	first, err := c.DecodeColumn(context.Background(), testKey, ColumnDescriptor{Name: "age", Meta: meta})
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.DecodeColumn(context.Background(), testKey, ColumnDescriptor{Name: "age", Meta: meta})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated decode differs: %+v vs %+v", first, second)
	}
}

func TestDecodeSegmentColumnTransientFaultRetried(t *testing.T) {
	meta := wire.ColumnMeta{DType: wire.DataTypeInt64}
	values := int64Values(5, 6)

	gw := newFakeGateway()
	gw.setColumn(t, "age", meta, values, []int{2})
	gw.faults["age"] = 2

	c := newTestClient(gw)
	got, err := c.DecodeColumn(context.Background(), testKey, ColumnDescriptor{Name: "age", Meta: meta})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, values) {
		t.Fatalf("got %+v, want %+v", got, values)
	}
	if gw.calls["age"] != 3 {
		t.Fatalf("made %d read calls, want 2 faulted + 1 success", gw.calls["age"])
	}
}

func TestDecodeSegmentColumnTransportFailureSurfaced(t *testing.T) {
	meta := wire.ColumnMeta{DType: wire.DataTypeInt64}
	gw := newFakeGateway()
	gw.setColumn(t, "age", meta, int64Values(5), []int{1})
	gw.faults["age"] = 100

	c := newTestClient(gw)
	c.ReadMaxTries = 3
	_, err := c.DecodeColumn(context.Background(), testKey, ColumnDescriptor{Name: "age", Meta: meta})
	var te *transport.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("got %v, want a transport error", err)
	}
	if gw.calls["age"] != 3 {
		t.Fatalf("made %d read calls, want exactly ReadMaxTries", gw.calls["age"])
	}
}

func TestDecodeSegmentColumnDecodeErrorNotRetried(t *testing.T) {
	meta := wire.ColumnMeta{DType: wire.DataTypeInt64}
	data, err := codec.EncodePage(int64Values(42), meta)
	if err != nil {
		t.Fatal(err)
	}

	gw := newFakeGateway()
	// truncate mid-value
	gw.pages["age"] = []fakePage{{Data: data[:len(data)-1]}}

	c := newTestClient(gw)
	_, err = c.DecodeColumn(context.Background(), testKey, ColumnDescriptor{Name: "age", Meta: meta})
	var de *codec.DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("got %v, want a decode error", err)
	}
	if gw.calls["age"] != 1 {
		t.Fatalf("made %d read calls, want 1 (decode errors must not retry)", gw.calls["age"])
	}
}

func TestDecodeSegmentColumnServerRejectionNotRetried(t *testing.T) {
	gw := newFakeGateway()
	c := newTestClient(gw)
	_, err := c.DecodeColumn(context.Background(), testKey, ColumnDescriptor{Name: "ghost", Meta: wire.ColumnMeta{DType: wire.DataTypeInt64}})
	var se *transport.ServerError
	if !errors.As(err, &se) {
		t.Fatalf("got %v, want a server error", err)
	}
	if gw.calls["ghost"] != 1 {
		t.Fatalf("made %d read calls, want 1 (server rejections must not retry)", gw.calls["ghost"])
	}
}

func TestDecodeSegmentColumnTypeMismatch(t *testing.T) {
	gw := newFakeGateway()
	gw.setColumn(t, "age", wire.ColumnMeta{DType: wire.DataTypeInt64}, int64Values(1), []int{1})

	c := newTestClient(gw)
	_, err := c.DecodeColumn(context.Background(), testKey, ColumnDescriptor{Name: "age", Meta: wire.ColumnMeta{DType: wire.DataTypeString}})
	var tme *codec.TypeMismatchError
	if !errors.As(err, &tme) {
		t.Fatalf("got %v, want a type mismatch error", err)
	}
	if tme.Declared != wire.DataTypeString || tme.Encoded != wire.DataTypeInt64 {
		t.Fatalf("mismatch cites %s vs %s", tme.Declared, tme.Encoded)
	}
}

func TestDecodeSegmentColumnImplicitNulls(t *testing.T) {
	meta := wire.ColumnMeta{DType: wire.DataTypeInt64}
	data, err := codec.EncodePage(int64Values(1, 2), meta)
	if err != nil {
		t.Fatal(err)
	}

	gw := newFakeGateway()
	gw.pages["age"] = []fakePage{{Data: data, ImplicitNullsCount: 3}}

	c := newTestClient(gw)
	got, err := c.DecodeColumn(context.Background(), testKey, ColumnDescriptor{Name: "age", Meta: meta})
	if err != nil {
		t.Fatal(err)
	}
	want := []wire.FieldValue{wire.Int64Value(1), wire.Int64Value(2), wire.NullValue(), wire.NullValue(), wire.NullValue()}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestDecodeSegmentColumnCompressedPage(t *testing.T) {
	meta := wire.ColumnMeta{DType: wire.DataTypeString}
	values := []wire.FieldValue{wire.StringValue("hello"), wire.NullValue(), wire.StringValue("world")}
	data, err := codec.EncodePage(values, meta)
	if err != nil {
		t.Fatal(err)
	}

	gw := newFakeGateway()
	gw.pages["name"] = []fakePage{{Data: codec.CompressPage(data), Codec: codec.CodecZstd}}

	c := newTestClient(gw)
	got, err := c.DecodeColumn(context.Background(), testKey, ColumnDescriptor{Name: "name", Meta: meta})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, values) {
		t.Fatalf("got %+v, want %+v", got, values)
	}
}

func TestDecodeSegmentColumnDeletionsApplied(t *testing.T) {
	meta := wire.ColumnMeta{DType: wire.DataTypeInt64}
	gw := newFakeGateway()
	gw.setColumn(t, "age", meta, int64Values(1, 2, 3, 4, 5), []int{3, 2})
	gw.deletions = codec.CompressDeletions([]bool{false, true, false, true, false})

	c := newTestClient(gw)
	got, err := c.DecodeColumn(context.Background(), testKey, ColumnDescriptor{Name: "age", Meta: meta})
	if err != nil {
		t.Fatal(err)
	}
	want := int64Values(1, 3, 5)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestDecodeSegment(t *testing.T) {
	ageMeta := wire.ColumnMeta{DType: wire.DataTypeInt64}
	nameMeta := wire.ColumnMeta{DType: wire.DataTypeString}
	names := []wire.FieldValue{
		wire.StringValue("ana"), wire.StringValue("bob"), wire.StringValue("cy"),
		wire.NullValue(), wire.StringValue("eve"),
	}

	gw := newFakeGateway()
	gw.setColumn(t, "age", ageMeta, int64Values(31, 32, 33, 34, 35), []int{2, 3})
	gw.setColumn(t, "name", nameMeta, names, []int{5})

	c := newTestClient(gw)
	rows, err := c.DecodeSegment(context.Background(), testKey, []ColumnDescriptor{
		{Name: "age", Meta: ageMeta},
		{Name: "name", Meta: nameMeta},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 5 {
		t.Fatalf("got %d rows, want 5", len(rows))
	}
	for i := range rows {
		if !reflect.DeepEqual(rows[i].Names(), []string{"age", "name"}) {
			t.Fatalf("row %d has fields %v, want [age name]", i, rows[i].Names())
		}
	}
	age, ok := rows[2].Get("age")
	if !ok || *age.Int64Val != 33 {
		t.Fatalf("row 2 age = %+v", age)
	}
	name, ok := rows[3].Get("name")
	if !ok || !name.IsNull() {
		t.Fatalf("row 3 name = %+v, want null", name)
	}
	// all reads of the segment must share one correlation ID
	if len(gw.correlationIDs) != 1 {
		t.Fatalf("saw %d correlation IDs, want 1", len(gw.correlationIDs))
	}
}

func TestDecodeSegmentRowAlignment(t *testing.T) {
	ageMeta := wire.ColumnMeta{DType: wire.DataTypeInt64}
	nameMeta := wire.ColumnMeta{DType: wire.DataTypeString}

	gw := newFakeGateway()
	gw.setColumn(t, "age", ageMeta, int64Values(1, 2, 3, 4, 5), []int{5})
	gw.setColumn(t, "name", nameMeta, []wire.FieldValue{
		wire.StringValue("a"), wire.StringValue("b"), wire.StringValue("c"), wire.StringValue("d"),
	}, []int{4})

	c := newTestClient(gw)
	rows, err := c.DecodeSegment(context.Background(), testKey, []ColumnDescriptor{
		{Name: "age", Meta: ageMeta},
		{Name: "name", Meta: nameMeta},
	})
	var rae *RowAlignmentError
	if !errors.As(err, &rae) {
		t.Fatalf("got %v, want a row alignment error", err)
	}
	if rows != nil {
		t.Fatal("got partial rows alongside alignment error")
	}
	if rae.Lengths["age"] != 5 || rae.Lengths["name"] != 4 {
		t.Fatalf("alignment error cites %v, want age=5 name=4", rae.Lengths)
	}
}

// cancelingGateway cancels the whole read when the "slow" column is first
// requested, then fails that call once the context dies.
type cancelingGateway struct {
	*fakeGateway
	cancel context.CancelFunc
}

func (g *cancelingGateway) ReadSegmentColumn(ctx context.Context, req wire.ReadSegmentColumnRequest) (wire.ReadSegmentColumnResponse, error) {
	if req.ColumnName == "slow" {
		g.cancel()
		<-ctx.Done()
		return wire.ReadSegmentColumnResponse{}, &transport.TransportError{Op: "read_segment_column", Err: ctx.Err()}
	}
	return g.fakeGateway.ReadSegmentColumn(ctx, req)
}

func TestDecodeSegmentCancellation(t *testing.T) {
	meta := wire.ColumnMeta{DType: wire.DataTypeInt64}
	fg := newFakeGateway()
	fg.setColumn(t, "age", meta, int64Values(1, 2, 3), []int{3})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c := newTestClient(&cancelingGateway{fakeGateway: fg, cancel: cancel})

	rows, err := c.DecodeSegment(ctx, testKey, []ColumnDescriptor{
		{Name: "age", Meta: meta},
		{Name: "slow", Meta: meta},
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want cancellation", err)
	}
	if rows != nil {
		t.Fatal("got partial rows from a cancelled read")
	}
}

func TestDecodeSegmentNoColumns(t *testing.T) {
	c := newTestClient(newFakeGateway())
	_, err := c.DecodeSegment(context.Background(), testKey, nil)
	if !errors.Is(err, ErrNoColumns) {
		t.Fatalf("got %v, want ErrNoColumns", err)
	}
}
