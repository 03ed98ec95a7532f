package codec

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/griddledb/griddle-go/wire"
)

// DecodePage decodes one page of column data into ordered field values.
// Decoding is pure: same bytes and descriptor always yield the same values.
func DecodePage(data []byte, meta wire.ColumnMeta) ([]wire.FieldValue, error) {
	if len(data) == 0 {
		return nil, nil
	}

	r := &pageReader{buf: data}
	tag, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	encoded, ok := tagDType(tag)
	if !ok {
		return nil, decodeErrf("unknown dtype tag %d", tag)
	}
	if encoded != meta.DType {
		return nil, &TypeMismatchError{Declared: meta.DType, Encoded: encoded}
	}

	var values []wire.FieldValue
	for r.remaining() > 0 {
		v, err := r.decodeValue(meta.DType, meta.NestedListDepth)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

type pageReader struct {
	buf []byte
	pos int
}

func (r *pageReader) remaining() int {
	return len(r.buf) - r.pos
}

func (r *pageReader) ReadByte() (byte, error) {
	if r.pos >= len(r.buf) {
		return 0, decodeErrf("buffer ended mid-value at byte %d", r.pos)
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

func (r *pageReader) readN(n int) ([]byte, error) {
	if r.remaining() < n {
		return nil, decodeErrf("buffer ended mid-value, wanted %d bytes at byte %d with %d left", n, r.pos, r.remaining())
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *pageReader) readUvarint() (uint64, error) {
	n, err := binary.ReadUvarint(r)
	if err != nil {
		if _, ok := err.(*DecodeError); ok {
			return 0, err
		}
		return 0, decodeErrf("bad uvarint at byte %d: %s", r.pos, err.Error())
	}
	return n, nil
}

func (r *pageReader) decodeValue(dtype wire.DataType, depth uint8) (wire.FieldValue, error) {
	marker, err := r.ReadByte()
	if err != nil {
		return wire.FieldValue{}, err
	}
	switch marker {
	case nullMarker:
		return wire.NullValue(), nil
	case presentMarker:
		if depth > 0 {
			return r.decodeList(dtype, depth)
		}
		return r.decodeScalar(dtype)
	default:
		return wire.FieldValue{}, decodeErrf("unknown value marker %d at byte %d", marker, r.pos-1)
	}
}

func (r *pageReader) decodeList(dtype wire.DataType, depth uint8) (wire.FieldValue, error) {
	n, err := r.readUvarint()
	if err != nil {
		return wire.FieldValue{}, err
	}
	// every element costs at least its marker byte
	if n > uint64(r.remaining()) {
		return wire.FieldValue{}, decodeErrf("list of %d elements exceeds %d remaining bytes", n, r.remaining())
	}
	vals := make([]wire.FieldValue, 0, n)
	for i := uint64(0); i < n; i++ {
		v, err := r.decodeValue(dtype, depth-1)
		if err != nil {
			return wire.FieldValue{}, err
		}
		vals = append(vals, v)
	}
	return wire.FieldValue{ListVal: vals}, nil
}

func (r *pageReader) decodeScalar(dtype wire.DataType) (wire.FieldValue, error) {
	switch dtype {
	case wire.DataTypeInt64:
		b, err := r.readN(8)
		if err != nil {
			return wire.FieldValue{}, err
		}
		return wire.Int64Value(int64(binary.BigEndian.Uint64(b))), nil
	case wire.DataTypeTimestampMicros:
		b, err := r.readN(8)
		if err != nil {
			return wire.FieldValue{}, err
		}
		micros := int64(binary.BigEndian.Uint64(b))
		return wire.TimestampValue(time.UnixMicro(micros)), nil
	case wire.DataTypeFloat32:
		b, err := r.readN(4)
		if err != nil {
			return wire.FieldValue{}, err
		}
		return wire.Float32Value(math.Float32frombits(binary.BigEndian.Uint32(b))), nil
	case wire.DataTypeFloat64:
		b, err := r.readN(8)
		if err != nil {
			return wire.FieldValue{}, err
		}
		return wire.Float64Value(math.Float64frombits(binary.BigEndian.Uint64(b))), nil
	case wire.DataTypeBool:
		b, err := r.ReadByte()
		if err != nil {
			return wire.FieldValue{}, err
		}
		switch b {
		case 0:
			return wire.BoolValue(false), nil
		case 1:
			return wire.BoolValue(true), nil
		default:
			return wire.FieldValue{}, decodeErrf("bad bool byte %d at byte %d", b, r.pos-1)
		}
	case wire.DataTypeString:
		b, err := r.readVarBytes()
		if err != nil {
			return wire.FieldValue{}, err
		}
		return wire.StringValue(string(b)), nil
	case wire.DataTypeBytes:
		b, err := r.readVarBytes()
		if err != nil {
			return wire.FieldValue{}, err
		}
		out := make([]byte, len(b))
		copy(out, b)
		return wire.BytesValue(out), nil
	default:
		return wire.FieldValue{}, decodeErrf("undecodable dtype %s", dtype)
	}
}

func (r *pageReader) readVarBytes() ([]byte, error) {
	n, err := r.readUvarint()
	if err != nil {
		return nil, err
	}
	if n > uint64(r.remaining()) {
		return nil, decodeErrf("value of %d bytes exceeds %d remaining bytes", n, r.remaining())
	}
	return r.readN(int(n))
}
