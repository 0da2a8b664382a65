package pulse_test

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/oliverbestmann/selis/pulse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampQueryUnsupported(t *testing.T) {
	ctx, _ := newTestContext(t, 800, 600)

	require.False(t, ctx.HasFeature(wgpu.FeatureNameTimestampQuery))

	query, err := pulse.NewTimestampQuery(ctx)
	assert.ErrorIs(t, err, pulse.ErrUnsupported)
	assert.Nil(t, query)
}
