package lichao

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Sentinel errors for binary deserialization.
var (
	errSnapshotTooShort    = errors.New("lichao: snapshot data too short")
	errSnapshotBadMagic    = errors.New("lichao: snapshot magic mismatch")
	errSnapshotBadVersion  = errors.New("lichao: unsupported snapshot version")
	errSnapshotKind        = errors.New("lichao: snapshot numeric kind does not match tree type")
	errSnapshotLenMismatch = errors.New("lichao: snapshot data length mismatch")
)

const (
	// snapshotMagic identifies a serialized tree ("LCT" + version 1).
	snapshotMagic = uint32(0x4C435431)

	// snapshotHeaderSize is the byte size of the serialized header
	// (magic + kind + direction + reserved + lo + hi + count).
	snapshotHeaderSize = 32

	// lineRecordSize is the byte size of one serialized line
	// (slope word + intercept word).
	lineRecordSize = 16

	// wordSize is the byte size of a single 64-bit word.
	wordSize = 8
)

// Numeric kind tags stored in the snapshot header.
const (
	kindInt64 byte = iota
	kindFloat64
)

// MarshalBinary encodes the tree into a binary snapshot of its current
// state: the domain, direction, and the insertion log.
// Layout: [magic u32][kind u8][direction u8][reserved u16][lo i64][hi i64]
// [count u64][slope u64, intercept u64]... with all fields big-endian.
// Integer coefficients are stored as raw two's complement, floats as
// IEEE-754 bit patterns.
func (t *Tree[N]) MarshalBinary() ([]byte, error) {
	buf := make([]byte, snapshotHeaderSize+len(t.lines)*lineRecordSize)

	binary.BigEndian.PutUint32(buf[0:4], snapshotMagic)
	buf[4] = numericKind[N]()
	buf[5] = byte(t.dir)
	binary.BigEndian.PutUint64(buf[8:16], uint64(t.lo))
	binary.BigEndian.PutUint64(buf[16:24], uint64(t.hi))
	binary.BigEndian.PutUint64(buf[24:snapshotHeaderSize], uint64(len(t.lines)))

	for i, line := range t.lines {
		off := snapshotHeaderSize + i*lineRecordSize
		binary.BigEndian.PutUint64(buf[off:off+wordSize], toWord(line.Slope))
		binary.BigEndian.PutUint64(buf[off+wordSize:off+lineRecordSize], toWord(line.Intercept))
	}

	return buf, nil
}

// UnmarshalBinary decodes a snapshot produced by MarshalBinary and
// replaces the receiver's state with it. The tree is rebuilt by replaying
// the insertion log in its recorded order, though any order would yield
// the same envelope.
func (t *Tree[N]) UnmarshalBinary(data []byte) error {
	if len(data) < snapshotHeaderSize {
		return errSnapshotTooShort
	}

	if binary.BigEndian.Uint32(data[0:4]) != snapshotMagic {
		if binary.BigEndian.Uint32(data[0:4])&0xFFFFFF00 == snapshotMagic&0xFFFFFF00 {
			return errSnapshotBadVersion
		}

		return errSnapshotBadMagic
	}

	if data[4] != numericKind[N]() {
		return errSnapshotKind
	}

	dir := Direction(data[5])

	better, err := comparator[N](dir)
	if err != nil {
		return err
	}

	lo := int64(binary.BigEndian.Uint64(data[8:16]))
	hi := int64(binary.BigEndian.Uint64(data[16:24]))

	if lo >= hi {
		return fmt.Errorf("%w: [%d, %d)", ErrInvalidDomain, lo, hi)
	}

	count := binary.BigEndian.Uint64(data[24:snapshotHeaderSize])
	payload := uint64(len(data) - snapshotHeaderSize)

	// Compare by division: multiplying an attacker-controlled count by the
	// record size could wrap and sail past this check.
	if payload%lineRecordSize != 0 || count != payload/lineRecordSize {
		return errSnapshotLenMismatch
	}

	restored := Tree[N]{
		lo:     lo,
		hi:     hi,
		dir:    dir,
		better: better,
	}

	for i := uint64(0); i < count; i++ {
		off := snapshotHeaderSize + int(i)*lineRecordSize
		slope := fromWord[N](binary.BigEndian.Uint64(data[off : off+wordSize]))
		intercept := fromWord[N](binary.BigEndian.Uint64(data[off+wordSize : off+lineRecordSize]))

		restored.Insert(slope, intercept)
	}

	*t = restored

	return nil
}

// numericKind returns the header tag for the tree's numeric type.
func numericKind[N Number]() byte {
	var zero N
	if _, ok := any(zero).(int64); ok {
		return kindInt64
	}

	return kindFloat64
}

// toWord converts a coefficient to its 64-bit wire representation.
func toWord[N Number](v N) uint64 {
	if i, ok := any(v).(int64); ok {
		return uint64(i)
	}

	return math.Float64bits(any(v).(float64))
}

// fromWord is the inverse of toWord.
func fromWord[N Number](w uint64) N {
	var zero N
	if _, ok := any(zero).(int64); ok {
		return N(int64(w))
	}

	return N(math.Float64frombits(w))
}
