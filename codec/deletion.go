package codec

import "encoding/binary"

// Deletion masks are a uvarint row count followed by bit-packed bools,
// zstd-compressed. An empty input means no rows were ever deleted.

func CompressDeletions(isDeleted []bool) []byte {
	if len(isDeleted) == 0 {
		return nil
	}
	raw := binary.AppendUvarint(nil, uint64(len(isDeleted)))
	bits := make([]byte, (len(isDeleted)+7)/8)
	for i, d := range isDeleted {
		if d {
			bits[i/8] |= 1 << (i % 8)
		}
	}
	return CompressPage(append(raw, bits...))
}

func DecompressDeletions(data []byte) ([]bool, error) {
	if len(data) == 0 {
		return nil, nil
	}
	raw, err := zstdDecoder.DecodeAll(data, nil)
	if err != nil {
		return nil, decodeErrf("error in zstd decompress of deletion mask: %s", err.Error())
	}
	n, read := binary.Uvarint(raw)
	if read <= 0 {
		return nil, decodeErrf("bad deletion mask row count")
	}
	bits := raw[read:]
	// bound n first so (n+7)/8 cannot wrap for counts near 2^64
	if n > uint64(len(bits))*8 || uint64(len(bits)) != (n+7)/8 {
		return nil, decodeErrf("deletion mask has %d mask bytes for %d rows", len(bits), n)
	}
	isDeleted := make([]bool, n)
	for i := range isDeleted {
		isDeleted[i] = bits[i/8]&(1<<(i%8)) != 0
	}
	return isDeleted, nil
}
