package pulse

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatchSize(t *testing.T) {
	cases := []struct {
		length, group uint32
		expected      uint32
	}{
		{1280, 8, 160},
		{257, 256, 2},
		{256, 256, 1},
		{1, 64, 1},
		{0, 8, 0},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expected, DispatchSize(tc.length, tc.group), "DispatchSize(%d, %d)", tc.length, tc.group)
	}
}

func TestDispatchSizeNearMaximum(t *testing.T) {
	t.Run("uint8", func(t *testing.T) {
		assert.Equal(t, uint8(32), DispatchSize[uint8](250, 8))
		assert.Equal(t, uint8(255), DispatchSize[uint8](255, 1))
	})

	t.Run("uint32", func(t *testing.T) {
		assert.Equal(t, uint32(536870912), DispatchSize[uint32](math.MaxUint32, 8))
	})

	t.Run("uint64", func(t *testing.T) {
		assert.Equal(t, uint64(3), DispatchSize[uint64](1<<33+1, 1<<32))
		assert.Equal(t, uint64(1<<61), DispatchSize[uint64](math.MaxUint64, 8))
	})
}

func TestTileOffsets(t *testing.T) {
	offsets := TileOffsets(300, 600, 256, 256)

	assert.Equal(t, uint32(6), TileCount(300, 600, 256))
	assert.Len(t, offsets, 6*256)

	origin := func(idx int) (uint32, uint32) {
		return binary.LittleEndian.Uint32(offsets[idx*256:]), binary.LittleEndian.Uint32(offsets[idx*256+4:])
	}

	x, y := origin(0)
	assert.Equal(t, [2]uint32{0, 0}, [2]uint32{x, y})

	x, y = origin(1)
	assert.Equal(t, [2]uint32{256, 0}, [2]uint32{x, y})

	x, y = origin(5)
	assert.Equal(t, [2]uint32{256, 512}, [2]uint32{x, y})
}

func TestTileOffsetsSmallAlignment(t *testing.T) {
	// origins never overlap, even if the alignment is smaller than an origin
	offsets := TileOffsets(16, 16, 8, 4)
	assert.Len(t, offsets, 4*8)
}
