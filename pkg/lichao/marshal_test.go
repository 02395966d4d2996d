package lichao_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/lichao/pkg/lichao"
)

// Snapshot layout constants mirrored for corruption tests.
const (
	snapshotHeaderLen  = 32
	snapshotRecordLen  = 16
	snapshotKindOffset = 4
	snapshotDirOffset  = 5
)

// buildInt64Tree returns a populated tree for round-trip tests.
func buildInt64Tree(t *testing.T) *lichao.Tree[int64] {
	t.Helper()

	tree, err := lichao.New[int64](-50, 50, lichao.Min)
	require.NoError(t, err)

	tree.InsertAll([]lichao.Line[int64]{
		{Slope: 0, Intercept: 5},
		{Slope: 1, Intercept: 0},
		{Slope: -3, Intercept: 40},
		{Slope: 7, Intercept: -100},
	})

	return tree
}

// TestMarshalRoundTrip_Int64 verifies a snapshot restores domain,
// direction, and every query result.
func TestMarshalRoundTrip_Int64(t *testing.T) {
	t.Parallel()

	tree := buildInt64Tree(t)

	data, err := tree.MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, data, snapshotHeaderLen+tree.Len()*snapshotRecordLen)

	var restored lichao.Tree[int64]

	require.NoError(t, restored.UnmarshalBinary(data))

	lo, hi := restored.Bounds()
	assert.Equal(t, int64(-50), lo)
	assert.Equal(t, int64(50), hi)
	assert.Equal(t, lichao.Min, restored.Direction())
	assert.Equal(t, tree.Len(), restored.Len())

	for pt := lo; pt < hi; pt++ {
		want, wantOK, wantErr := tree.Query(pt)
		got, gotOK, gotErr := restored.Query(pt)

		require.NoError(t, wantErr)
		require.NoError(t, gotErr)
		assert.Equal(t, wantOK, gotOK)
		assert.Equal(t, want, got, "restored envelope diverged at %d", pt)
	}
}

// TestMarshalRoundTrip_Float64 verifies the float instantiation round-trips
// bit-exactly.
func TestMarshalRoundTrip_Float64(t *testing.T) {
	t.Parallel()

	tree, err := lichao.New[float64](0, 16, lichao.Max)
	require.NoError(t, err)

	tree.Insert(0.125, -3.5)
	tree.Insert(-2.25, 10.0)

	data, err := tree.MarshalBinary()
	require.NoError(t, err)

	var restored lichao.Tree[float64]

	require.NoError(t, restored.UnmarshalBinary(data))
	assert.Equal(t, lichao.Max, restored.Direction())

	for pt := int64(0); pt < 16; pt++ {
		want, _, _ := tree.Query(pt)
		got, ok, queryErr := restored.Query(pt)
		require.NoError(t, queryErr)
		require.True(t, ok)
		assert.Equal(t, want, got, "restored envelope diverged at %d", pt)
	}
}

// TestMarshalRoundTrip_EmptyTree verifies an empty tree stays empty after
// a round trip.
func TestMarshalRoundTrip_EmptyTree(t *testing.T) {
	t.Parallel()

	tree, err := lichao.New[int64](0, 4, lichao.Min)
	require.NoError(t, err)

	data, err := tree.MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, data, snapshotHeaderLen)

	var restored lichao.Tree[int64]

	require.NoError(t, restored.UnmarshalBinary(data))

	_, ok, queryErr := restored.Query(0)
	require.NoError(t, queryErr)
	assert.False(t, ok)
}

// TestUnmarshal_TooShort verifies rejection of truncated headers.
func TestUnmarshal_TooShort(t *testing.T) {
	t.Parallel()

	var restored lichao.Tree[int64]

	err := restored.UnmarshalBinary(make([]byte, snapshotHeaderLen-1))
	require.Error(t, err)
}

// TestUnmarshal_BadMagic verifies rejection of foreign data.
func TestUnmarshal_BadMagic(t *testing.T) {
	t.Parallel()

	tree := buildInt64Tree(t)

	data, err := tree.MarshalBinary()
	require.NoError(t, err)

	data[0] ^= 0xFF

	var restored lichao.Tree[int64]

	require.Error(t, restored.UnmarshalBinary(data))
}

// TestUnmarshal_KindMismatch verifies an int64 snapshot cannot load into
// a float64 tree.
func TestUnmarshal_KindMismatch(t *testing.T) {
	t.Parallel()

	tree := buildInt64Tree(t)

	data, err := tree.MarshalBinary()
	require.NoError(t, err)

	var restored lichao.Tree[float64]

	require.Error(t, restored.UnmarshalBinary(data))
}

// TestUnmarshal_BadDirection verifies rejection of corrupted direction
// bytes.
func TestUnmarshal_BadDirection(t *testing.T) {
	t.Parallel()

	tree := buildInt64Tree(t)

	data, err := tree.MarshalBinary()
	require.NoError(t, err)

	data[snapshotDirOffset] = 0xEE

	var restored lichao.Tree[int64]

	require.ErrorIs(t, restored.UnmarshalBinary(data), lichao.ErrInvalidDirection)
}

// TestUnmarshal_TruncatedRecords verifies rejection when the payload does
// not match the declared line count.
func TestUnmarshal_TruncatedRecords(t *testing.T) {
	t.Parallel()

	tree := buildInt64Tree(t)

	data, err := tree.MarshalBinary()
	require.NoError(t, err)

	var restored lichao.Tree[int64]

	require.Error(t, restored.UnmarshalBinary(data[:len(data)-1]))
}

// TestUnmarshal_OversizedCount verifies a header declaring an absurd line
// count is rejected instead of reading past the payload. The chosen count
// makes count*recordSize wrap to zero in 64-bit arithmetic.
func TestUnmarshal_OversizedCount(t *testing.T) {
	t.Parallel()

	tree, err := lichao.New[int64](0, 4, lichao.Min)
	require.NoError(t, err)

	data, err := tree.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, data, snapshotHeaderLen)

	binary.BigEndian.PutUint64(data[24:32], 1<<60)

	var restored lichao.Tree[int64]

	require.Error(t, restored.UnmarshalBinary(data))
}

// TestUnmarshal_BadDomain verifies rejection of headers with an inverted
// domain.
func TestUnmarshal_BadDomain(t *testing.T) {
	t.Parallel()

	tree := buildInt64Tree(t)

	data, err := tree.MarshalBinary()
	require.NoError(t, err)

	// Swap the lo and hi header fields.
	swapped := make([]byte, len(data))
	copy(swapped, data)
	copy(swapped[8:16], data[16:24])
	copy(swapped[16:24], data[8:16])

	var restored lichao.Tree[int64]

	require.ErrorIs(t, restored.UnmarshalBinary(swapped), lichao.ErrInvalidDomain)
}
