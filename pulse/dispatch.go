package pulse

import (
	"encoding/binary"

	"golang.org/x/exp/constraints"
)

// DispatchSize returns the number of workgroups of the given size needed
// to cover length invocations.
func DispatchSize[T constraints.Unsigned](length, group T) T {
	count := length / group
	if length%group != 0 {
		count++
	}

	return count
}

// TileOffsets returns the packed (x, y) origins of all tiles covering a
// width x height image. Every origin starts at a multiple of align bytes,
// so the result can be bound using dynamic offsets of i*align.
func TileOffsets(width, height, tile, align uint32) []byte {
	// two u32 values per origin
	stride := max(align, 8)

	tilesX := DispatchSize(width, tile)
	tilesY := DispatchSize(height, tile)

	buf := make([]byte, int(tilesX*tilesY*stride))

	var idx uint32
	for y := range tilesY {
		for x := range tilesX {
			binary.LittleEndian.PutUint32(buf[idx*stride:], x*tile)
			binary.LittleEndian.PutUint32(buf[idx*stride+4:], y*tile)
			idx++
		}
	}

	return buf
}

// TileCount returns the number of tiles TileOffsets produces.
func TileCount(width, height, tile uint32) uint32 {
	return DispatchSize(width, tile) * DispatchSize(height, tile)
}
