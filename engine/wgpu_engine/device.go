package wgpu_engine

import (
	"fmt"
	"log/slog"

	"honnef.co/go/runes/renderer"
	"honnef.co/go/wgpu"
)

// NewHeadless requests an adapter and device without a surface. Failure to
// find either is reported as renderer.ErrRenderContextUnavailable.
func NewHeadless(logger *slog.Logger) (*Engine, error) {
	instance := wgpu.CreateInstance(wgpu.InstanceDescriptor{})
	defer instance.Release()
	adapter, err := instance.RequestAdapter(wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: requesting adapter: %w", renderer.ErrRenderContextUnavailable, err)
	}
	defer adapter.Release()
	dev, err := adapter.RequestDevice(nil)
	if err != nil {
		return nil, fmt.Errorf("%w: requesting device: %w", renderer.ErrRenderContextUnavailable, err)
	}
	eng := New(dev, dev.Queue(), logger)
	eng.ownsDevice = true
	return eng, nil
}
