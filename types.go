package griddle

import (
	"github.com/google/uuid"
	"github.com/griddledb/griddle-go/wire"
)

type (
	// SegmentKey fully specifies one segment: table name, ordered partition
	// fields, and segment ID.
	SegmentKey struct {
		TableName string
		Partition []wire.PartitionField
		SegmentID string
	}

	// ColumnDescriptor names one column to read together with its declared
	// type, as obtained from GetSchema.
	ColumnDescriptor struct {
		Name string
		Meta wire.ColumnMeta
	}
)

func (k SegmentKey) String() string {
	s := k.TableName
	if len(k.Partition) > 0 {
		s += "/" + wire.PartitionPath(k.Partition)
	}
	return s + "/" + k.SegmentID
}

// NewCorrelationID generates a correlation ID for read requests.
//
// All column and deletion reads of a single segment at a point in time must
// share one correlation ID, or the server may serve them from inconsistent
// snapshots. Reuse across segments or across widely separated points in time
// can cause errors or inconsistent data, so generate a fresh one per segment
// read.
func NewCorrelationID() string {
	return uuid.NewString()
}
