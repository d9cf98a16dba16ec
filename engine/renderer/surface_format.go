package renderer

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// PresentMode is the configured presentation preference. PresentModeAuto takes the first mode
// the surface reports.
type PresentMode int

const (
	// PresentModeAuto uses the first supported mode.
	PresentModeAuto PresentMode = iota

	// PresentModeVSync waits for the next vertical blank before presenting. Eliminates tearing.
	PresentModeVSync

	// PresentModeVSyncRelaxed is VSync that presents immediately when a frame is late.
	PresentModeVSyncRelaxed

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	PresentModeUncapped

	// PresentModeMailbox replaces the queued frame instead of waiting.
	PresentModeMailbox
)

// ParsePresentMode converts a config value to a PresentMode.
//
// Parameters:
//   - s: one of "", "fifo", "fifo-relaxed", "immediate", "mailbox"
//
// Returns:
//   - PresentMode: the parsed preference
//   - error: an error for unknown names
func ParsePresentMode(s string) (PresentMode, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return PresentModeAuto, nil
	case "fifo", "vsync":
		return PresentModeVSync, nil
	case "fifo-relaxed":
		return PresentModeVSyncRelaxed, nil
	case "immediate", "uncapped":
		return PresentModeUncapped, nil
	case "mailbox":
		return PresentModeMailbox, nil
	default:
		return PresentModeAuto, fmt.Errorf("renderer: unknown present mode %q", s)
	}
}

func (m PresentMode) toWGPU() (wgpu.PresentMode, bool) {
	switch m {
	case PresentModeVSync:
		return wgpu.PresentModeFifo, true
	case PresentModeVSyncRelaxed:
		return wgpu.PresentModeFifoRelaxed, true
	case PresentModeUncapped:
		return wgpu.PresentModeImmediate, true
	case PresentModeMailbox:
		return wgpu.PresentModeMailbox, true
	default:
		return 0, false
	}
}

// IsSRGB reports whether f stores color in the sRGB transfer encoding.
func IsSRGB(f wgpu.TextureFormat) bool {
	switch f {
	case wgpu.TextureFormatRGBA8UnormSrgb, wgpu.TextureFormatBGRA8UnormSrgb:
		return true
	}
	return strings.Contains(strings.ToLower(f.String()), "srgb")
}

// SelectFormat returns the first sRGB format in formats, or the first entry when none is sRGB.
//
// Parameters:
//   - formats: the formats in the order the surface reports them
//
// Returns:
//   - wgpu.TextureFormat: the chosen format
//   - bool: false if formats is empty
func SelectFormat(formats []wgpu.TextureFormat) (wgpu.TextureFormat, bool) {
	if len(formats) == 0 {
		return 0, false
	}
	if i := slices.IndexFunc(formats, IsSRGB); i >= 0 {
		return formats[i], true
	}
	return formats[0], true
}

// SelectPresentMode returns the preferred mode when the surface supports it, otherwise the
// first supported mode. An empty list yields FIFO, which every surface must support.
//
// Parameters:
//   - modes: the present modes in the order the surface reports them
//   - preferred: the configured preference
//
// Returns:
//   - wgpu.PresentMode: the chosen mode
func SelectPresentMode(modes []wgpu.PresentMode, preferred PresentMode) wgpu.PresentMode {
	if want, ok := preferred.toWGPU(); ok && slices.Contains(modes, want) {
		return want
	}
	if len(modes) == 0 {
		return wgpu.PresentModeFifo
	}
	return modes[0]
}

// selectAlphaMode returns the first supported alpha mode.
func selectAlphaMode(modes []wgpu.CompositeAlphaMode) wgpu.CompositeAlphaMode {
	if len(modes) == 0 {
		return wgpu.CompositeAlphaModeAuto
	}
	return modes[0]
}
