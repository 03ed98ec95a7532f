// Package codec implements the column page encoding shared with the server.
//
// A non-empty page is one dtype tag byte followed by encoded values. Every
// value starts with a marker byte (null or present); present lists carry a
// uvarint element count and recurse, present scalars carry a fixed-width or
// length-prefixed payload. An empty page is a zero-length buffer.
package codec

import (
	"fmt"

	"github.com/griddledb/griddle-go/wire"
	"github.com/klauspost/compress/zstd"
)

const (
	nullMarker    byte = 253
	presentMarker byte = 255

	// CodecZstd is the only page codec servers currently emit.
	CodecZstd = "zstd"
)

var (
	zstdDecoder, _ = zstd.NewReader(nil)
	zstdEncoder, _ = zstd.NewWriter(nil)
)

func dtypeTag(d wire.DataType) (byte, bool) {
	switch d {
	case wire.DataTypeInt64:
		return 1, true
	case wire.DataTypeString:
		return 2, true
	case wire.DataTypeFloat32:
		return 3, true
	case wire.DataTypeFloat64:
		return 4, true
	case wire.DataTypeBytes:
		return 5, true
	case wire.DataTypeBool:
		return 6, true
	case wire.DataTypeTimestampMicros:
		return 7, true
	}
	return 0, false
}

func tagDType(b byte) (wire.DataType, bool) {
	switch b {
	case 1:
		return wire.DataTypeInt64, true
	case 2:
		return wire.DataTypeString, true
	case 3:
		return wire.DataTypeFloat32, true
	case 4:
		return wire.DataTypeFloat64, true
	case 5:
		return wire.DataTypeBytes, true
	case 6:
		return wire.DataTypeBool, true
	case 7:
		return wire.DataTypeTimestampMicros, true
	}
	return "", false
}

// DecompressPage undoes the page codec named by a read response. An empty
// codec name means the data is already plain page encoding.
func DecompressPage(data []byte, codecName string) ([]byte, error) {
	switch codecName {
	case "":
		return data, nil
	case CodecZstd:
		out, err := zstdDecoder.DecodeAll(data, nil)
		if err != nil {
			return nil, decodeErrf("error in zstd decompress: %s", err.Error())
		}
		return out, nil
	default:
		return nil, decodeErrf("unknown page codec %q", codecName)
	}
}

// CompressPage applies the zstd page codec. The client only decompresses;
// this exists for server-parity fixtures and tests.
func CompressPage(data []byte) []byte {
	return zstdEncoder.EncodeAll(data, nil)
}

type DecodeError struct {
	Msg string
}

func (e *DecodeError) Error() string {
	return "corrupt column page: " + e.Msg
}

func (e *DecodeError) IsPermanent() bool {
	return true
}

func decodeErrf(format string, args ...any) *DecodeError {
	return &DecodeError{Msg: fmt.Sprintf(format, args...)}
}

// TypeMismatchError means the page's dtype tag disagrees with the caller's
// column descriptor, i.e. the caller's schema metadata is wrong.
type TypeMismatchError struct {
	Declared wire.DataType
	Encoded  wire.DataType
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("column page encoded as %s but descriptor declares %s", e.Encoded, e.Declared)
}

func (e *TypeMismatchError) IsPermanent() bool {
	return true
}
