package audio

import (
	"github.com/lixenwraith/coaster/parameter"
	"github.com/lixenwraith/coaster/vmath"
)

// Viewport is the camera the listener hears through
// X and Y are the top-left corner in projected world units, Width and Height are screen pixels
type Viewport struct {
	X, Y          int32
	Width, Height int32
	// Zoom halves the screen scale per step, 0 is closest
	Zoom uint8
}

// Project maps a world position onto the isometric screen plane
func Project(p vmath.Vec3) (int32, int32) {
	return p.Y - p.X, (p.X+p.Y)/2 - p.Z
}

func (v Viewport) extent() (int32, int32) {
	return v.Width << v.Zoom, v.Height << v.Zoom
}

// Audible reports whether a projected point lies inside the view widened by a quarter on every side
func (v Viewport) Audible(sx, sy int32) bool {
	w, h := v.extent()
	mx, my := w/4, h/4
	return sx > v.X-mx && sy > v.Y-my && sx <= v.X+w+mx && sy <= v.Y+h+my
}

// Pan returns the horizontal and vertical pan of a projected point
// 0 is the view center, ±0x800 the edges
func (v Viewport) Pan(sx, sy int32) (int32, int32) {
	return pan((sx-v.X)>>v.Zoom, v.Width), pan((sy-v.Y)>>v.Zoom, v.Height)
}

func pan(offset, size int32) int32 {
	if size < parameter.SoundMinScreenExtent {
		size = parameter.SoundMinScreenExtent
	}
	return int32(((int64(offset)<<16)/int64(size) - parameter.SoundPanCenter) >> parameter.SoundPanShift)
}

// ZoomAdjust is the attenuation applied to every channel at the viewport zoom
func (v Viewport) ZoomAdjust() int32 {
	switch {
	case v.Zoom == 0:
		return 0
	case v.Zoom == 1:
		return parameter.SoundZoomAdjustNear
	}
	return parameter.SoundZoomAdjustFar
}

// edgeVolume fades a source out as its pan leaves the visible area, 255 is full volume
func edgeVolume(p int32) int32 {
	p = vmath.Abs(p)
	if p > parameter.SoundEdgeClamp {
		p = parameter.SoundEdgeClamp
	}
	p -= parameter.SoundEdgeStart
	if p <= 0 {
		return 255
	}
	return vmath.Clamp(-(p-parameter.SoundEdgeFalloff)/4, 0, 255)
}
