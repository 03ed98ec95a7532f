package griddle

import (
	"fmt"
	"sort"
	"strings"

	"github.com/griddledb/griddle-go/utils"
)

var ErrNoColumns = utils.PermError("unable to decode segment with no columns specified")

// RowAlignmentError means the segment's columns decoded to unequal lengths,
// so rows cannot be assembled. This indicates server-side inconsistency and
// is never retried.
type RowAlignmentError struct {
	Key     SegmentKey
	Lengths map[string]int
}

func (e *RowAlignmentError) Error() string {
	names := make([]string, 0, len(e.Lengths))
	for name := range e.Lengths {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%d", name, e.Lengths[name]))
	}
	return fmt.Sprintf("columns of segment %s decoded to unequal lengths: %s", e.Key, strings.Join(parts, ", "))
}

func (e *RowAlignmentError) IsPermanent() bool {
	return true
}
