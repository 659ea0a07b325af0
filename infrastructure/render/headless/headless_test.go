package headless

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genealogy3d/application/ports"
	"genealogy3d/pkg/geom"
	"genealogy3d/pkg/input"
)

func TestSurfaceRecordsPrimitives(t *testing.T) {
	s := NewSurface(800, 600)

	sphere := s.AddSphere(ports.Sphere{Radius: 1})
	line := s.AddLine(ports.Line{Visible: true})
	proxy := s.AddProxy(ports.Proxy{Radius: 0.35})
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 1, s.VisibleLines())

	s.SetVisible(line, false)
	s.SetVisible(proxy, true)
	assert.Equal(t, 0, s.VisibleLines())
	assert.False(t, s.Primitives(KindProxy)[0].Visible)

	s.Remove(sphere)
	assert.Empty(t, s.Primitives(KindSphere))

	require.NoError(t, s.Release())
	assert.True(t, s.Released())
	assert.Equal(t, 0, s.Len())
}

func TestSetViewportDispatchesResize(t *testing.T) {
	s := NewSurface(800, 600)
	var got geom.Viewport
	s.Input().OnResize(func(ev input.ResizeEvent) { got = ev.Viewport })

	vp := geom.Viewport{Left: 10, Top: 20, Width: 300, Height: 200}
	s.SetViewport(vp)

	assert.Equal(t, vp, got)
	assert.Equal(t, vp, s.Viewport())
}

func TestRunStopsAfterTicks(t *testing.T) {
	var n int
	err := Run(context.Background(), func(time.Duration) error {
		n++
		return nil
	}, Config{TPS: 1000, Ticks: 3})

	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestRunPropagatesStepError(t *testing.T) {
	boom := errors.New("boom")
	err := Run(context.Background(), func(time.Duration) error { return boom }, Config{TPS: 1000})
	assert.ErrorIs(t, err, boom)
}

func TestRunHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Run(ctx, nil, Config{TPS: 10})
	assert.ErrorIs(t, err, context.Canceled)
}
