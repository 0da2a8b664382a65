package pulse

import (
	"errors"
	"fmt"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingEncoder struct {
	calls []string

	// fails the call with this name
	failOn string
}

func (e *recordingEncoder) record(call string) error {
	e.calls = append(e.calls, call)

	if call == e.failOn {
		return errors.New("encoder failed")
	}

	return nil
}

func (e *recordingEncoder) WriteTimestamp(_ *wgpu.QuerySet, queryIndex uint32) error {
	return e.record(fmt.Sprintf("timestamp %d", queryIndex))
}

func (e *recordingEncoder) ResolveQuerySet(_ *wgpu.QuerySet, firstQuery, queryCount uint32, _ *wgpu.Buffer, _ uint64) error {
	return e.record(fmt.Sprintf("resolve %d+%d", firstQuery, queryCount))
}

func (e *recordingEncoder) CopyBufferToBuffer(_ *wgpu.Buffer, _ uint64, _ *wgpu.Buffer, _ uint64, size uint64) error {
	return e.record(fmt.Sprintf("copy %d", size))
}

func newTestTimestampQuery() *TimestampQuery {
	return &TimestampQuery{
		querySet: new(wgpu.QuerySet),
		resolve:  new(wgpu.Buffer),
		readback: new(wgpu.Buffer),
	}
}

func TestTimestampQueryMeasure(t *testing.T) {
	query := newTestTimestampQuery()

	t.Run("order", func(t *testing.T) {
		encoder := &recordingEncoder{}

		err := query.Measure(encoder, func() error {
			return encoder.record("pass")
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"timestamp 0", "pass", "timestamp 1", "resolve 0+2", "copy 16"}, encoder.calls)
	})

	t.Run("pass fails", func(t *testing.T) {
		encoder := &recordingEncoder{failOn: "pass"}

		err := query.Measure(encoder, func() error {
			return encoder.record("pass")
		})

		require.Error(t, err)
		assert.Equal(t, []string{"timestamp 0", "pass"}, encoder.calls)
	})

	t.Run("resolve fails", func(t *testing.T) {
		encoder := &recordingEncoder{failOn: "resolve 0+2"}

		err := query.Measure(encoder, func() error { return nil })

		assert.ErrorContains(t, err, "resolve query set")
		assert.Equal(t, []string{"timestamp 0", "timestamp 1", "resolve 0+2"}, encoder.calls)
	})
}
