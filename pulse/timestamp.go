package pulse

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
)

const timestampSize = 8

// TimestampQuery measures the gpu time spent in a single pass. Timestamps
// are assumed to tick in nanoseconds.
type TimestampQuery struct {
	device *wgpu.Device

	querySet *wgpu.QuerySet
	resolve  *wgpu.Buffer
	readback *wgpu.Buffer
}

func NewTimestampQuery(ctx *Context) (*TimestampQuery, error) {
	if !ctx.HasFeature(wgpu.FeatureNameTimestampQuery) {
		return nil, fmt.Errorf("timestamp query: %w", ErrUnsupported)
	}

	dev := ctx.Device()

	querySet, err := dev.CreateQuerySet(&wgpu.QuerySetDescriptor{
		Label: "Timestamps",
		Type:  wgpu.QueryTypeTimestamp,
		Count: 2,
	})

	if err != nil {
		return nil, fmt.Errorf("create query set: %w", err)
	}

	resolve, err := dev.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Timestamps.Resolve",
		Usage: wgpu.BufferUsageQueryResolve | wgpu.BufferUsageCopySrc,
		Size:  2 * timestampSize,
	})

	if err != nil {
		querySet.Release()
		return nil, fmt.Errorf("create resolve buffer: %w", err)
	}

	readback, err := dev.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Timestamps.Readback",
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
		Size:  2 * timestampSize,
	})

	if err != nil {
		resolve.Release()
		querySet.Release()
		return nil, fmt.Errorf("create readback buffer: %w", err)
	}

	return &TimestampQuery{
		device:   dev,
		querySet: querySet,
		resolve:  resolve,
		readback: readback,
	}, nil
}

// TimestampEncoder is the part of wgpu.CommandEncoder used to measure a pass
type TimestampEncoder interface {
	WriteTimestamp(querySet *wgpu.QuerySet, queryIndex uint32) error
	ResolveQuerySet(querySet *wgpu.QuerySet, firstQuery, queryCount uint32, destination *wgpu.Buffer, destinationOffset uint64) error
	CopyBufferToBuffer(source *wgpu.Buffer, sourceOffset uint64, destination *wgpu.Buffer, destinationOffset uint64, size uint64) error
}

// Measure writes a timestamp before and after the passes recorded by record
// and resolves both into the readback buffer.
func (q *TimestampQuery) Measure(encoder TimestampEncoder, record func() error) error {
	if err := encoder.WriteTimestamp(q.querySet, 0); err != nil {
		return fmt.Errorf("write begin timestamp: %w", err)
	}

	if err := record(); err != nil {
		return err
	}

	if err := encoder.WriteTimestamp(q.querySet, 1); err != nil {
		return fmt.Errorf("write end timestamp: %w", err)
	}

	return q.Resolve(encoder)
}

// Resolve records copying the timestamps into the readback buffer. Call it
// after the end timestamp was written, on the same encoder.
func (q *TimestampQuery) Resolve(encoder TimestampEncoder) error {
	if err := encoder.ResolveQuerySet(q.querySet, 0, 2, q.resolve, 0); err != nil {
		return fmt.Errorf("resolve query set: %w", err)
	}

	if err := encoder.CopyBufferToBuffer(q.resolve, 0, q.readback, 0, 2*timestampSize); err != nil {
		return fmt.Errorf("copy timestamps: %w", err)
	}

	return nil
}

// Read blocks until the resolved timestamps are available and returns the time between them.
func (q *TimestampQuery) Read() (time.Duration, error) {
	data, err := readMapped(q.device, q.readback, 2*timestampSize)
	if err != nil {
		return 0, fmt.Errorf("read timestamps: %w", err)
	}

	start := binary.LittleEndian.Uint64(data[0:])
	end := binary.LittleEndian.Uint64(data[timestampSize:])

	if end < start {
		return 0, nil
	}

	return time.Duration(end - start), nil
}

func (q *TimestampQuery) Release() {
	q.readback.Release()
	q.resolve.Release()
	q.querySet.Release()
}
