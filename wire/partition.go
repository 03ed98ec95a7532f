package wire

import (
	"strconv"
	"strings"
	"time"
)

// PartitionField is one partition dimension. An ordered slice of these
// identifies a physical partition.
type PartitionField struct {
	Key   string              `json:"key" validate:"required"`
	Value PartitionFieldValue `json:"value"`
}

// Render returns the value's canonical string form, used in partition paths
// and error messages.
func (v PartitionFieldValue) Render() string {
	switch {
	case v.Int64Val != nil:
		return strconv.FormatInt(*v.Int64Val, 10)
	case v.StringVal != nil:
		return *v.StringVal
	case v.BoolVal != nil:
		return strconv.FormatBool(*v.BoolVal)
	case v.TimestampVal != nil:
		return v.TimestampVal.UTC().Format(time.RFC3339)
	}
	return ""
}

// PartitionPath joins partition fields into the "k=v/k2=v2" form shared with
// the server's directory layout.
func PartitionPath(fields []PartitionField) string {
	var finalParts []string
	for _, f := range fields {
		finalParts = append(finalParts, f.Key+"="+f.Value.Render())
	}
	return strings.Join(finalParts, "/")
}
