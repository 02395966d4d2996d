package lichao

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/pierrec/lz4/v4"
)

// Sentinel errors for snapshot decompression.
var (
	errCompressedTooShort     = errors.New("lichao: compressed snapshot too short")
	errCompressedSizeMismatch = errors.New("lichao: compressed snapshot size mismatch")
)

// sizePrefixLen is the byte size of the uncompressed-length prefix.
const sizePrefixLen = 8

// CompressSnapshot compresses a snapshot produced by MarshalBinary with
// LZ4 block compression, prefixed with the uncompressed length. Returns
// nil when the data does not compress; line logs with repeated or
// clustered coefficients compress well, adversarially random ones may not.
func CompressSnapshot(data []byte) []byte {
	buf := make([]byte, sizePrefixLen+lz4.CompressBlockBound(len(data)))
	binary.BigEndian.PutUint64(buf[:sizePrefixLen], uint64(len(data)))

	written, err := lz4.CompressBlock(data, buf[sizePrefixLen:], nil)
	if err != nil || written == 0 {
		return nil
	}

	return buf[:sizePrefixLen+written]
}

// DecompressSnapshot restores a snapshot previously compressed with
// CompressSnapshot.
func DecompressSnapshot(data []byte) ([]byte, error) {
	if len(data) < sizePrefixLen {
		return nil, errCompressedTooShort
	}

	size := binary.BigEndian.Uint64(data[:sizePrefixLen])

	out := make([]byte, size)

	read, err := lz4.UncompressBlock(data[sizePrefixLen:], out)
	if err != nil {
		return nil, fmt.Errorf("lichao: decompress snapshot: %w", err)
	}

	if uint64(read) != size {
		return nil, errCompressedSizeMismatch
	}

	return out, nil
}
