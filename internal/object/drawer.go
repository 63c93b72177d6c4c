package object

import "sentra/internal/collab"

// Drawer is the closed set of graphics-object drawer kinds. A drawer
// renders a single layer's worth of pixels from its own kind-specific
// state plus the object's Params; this package never allocates or
// decodes pixels itself — Surface handles come from collab.Surface.
type Drawer interface {
	isDrawer()
	// PixelWidth and PixelHeight report the drawer's natural size, used for
	// origin/scale math; a drawer with no surface yet reports 0, 0.
	PixelWidth() int
	PixelHeight() int
}

// FileSurface draws a single static image loaded from a named asset.
type FileSurface struct {
	Surface collab.Surface
}

func (FileSurface) isDrawer() {}
func (f FileSurface) PixelWidth() int {
	if f.Surface == nil {
		return 0
	}
	return f.Surface.Width()
}
func (f FileSurface) PixelHeight() int {
	if f.Surface == nil {
		return 0
	}
	return f.Surface.Height()
}

// AnimationSurface draws one frame of a sprite sheet selected by
// PatternNumber, stepped by an attached Animator.
type AnimationSurface struct {
	Frames    []collab.Surface
	FrameTime []int // ms per frame, parallel to Frames
}

func (AnimationSurface) isDrawer() {}
func (a AnimationSurface) PixelWidth() int {
	if len(a.Frames) == 0 || a.Frames[0] == nil {
		return 0
	}
	return a.Frames[0].Width()
}
func (a AnimationSurface) PixelHeight() int {
	if len(a.Frames) == 0 || a.Frames[0] == nil {
		return 0
	}
	return a.Frames[0].Height()
}

// ColourFilter renders a flat, filled rectangle of a solid colour — used
// for screen fades/flashes rather than any surface.
type ColourFilter struct {
	Colour RGBA
	Width  int
	Height int
}

func (ColourFilter) isDrawer()       {}
func (c ColourFilter) PixelWidth() int  { return c.Width }
func (c ColourFilter) PixelHeight() int { return c.Height }

// TextDrawer renders a literal string using the object's font parameters
// rather than a decoded surface.
type TextDrawer struct {
	Text     string
	FontSize int
	Colour   RGB
}

func (TextDrawer) isDrawer()       {}
func (t TextDrawer) PixelWidth() int  { return len([]rune(t.Text)) * t.FontSize }
func (t TextDrawer) PixelHeight() int { return t.FontSize }

// DigitDrawer renders a fixed-width numeric counter from Params.DigitValue,
// zero-padded to DigitDigits when Params.DigitZeroPad is set — the scoreboard
// / counter object type.
type DigitDrawer struct {
	GlyphWidth, GlyphHeight int
}

func (DigitDrawer) isDrawer()       {}
func (d DigitDrawer) PixelWidth() int  { return d.GlyphWidth }
func (d DigitDrawer) PixelHeight() int { return d.GlyphHeight }

// DriftDrawer renders a field of particles ("drift" objects: falling
// petals/snow) whose positions are derived from the attached Animator's
// current frame index the same way an AnimationSurface's are.
type DriftDrawer struct {
	Particle         collab.Surface
	Count            int
	Area             Rect
	DriftSpeedPxPerS int
	FrameTime        []int // ms per frame, parallel to the particle's own sprite frames
}

func (DriftDrawer) isDrawer() {}
func (d DriftDrawer) PixelWidth() int {
	if d.Particle == nil {
		return 0
	}
	return d.Particle.Width()
}
func (d DriftDrawer) PixelHeight() int {
	if d.Particle == nil {
		return 0
	}
	return d.Particle.Height()
}

// ParentLayer owns a full set of child objects that inherit the parent's
// propagated parameters. Children are addressed
// by a plain index within Children, not by object number — the layer that
// owns this drawer is what maps (parent-index, child-index) to it.
type ParentLayer struct {
	Children []Object
}

func (ParentLayer) isDrawer()       {}
func (p ParentLayer) PixelWidth() int  { return 0 }
func (p ParentLayer) PixelHeight() int { return 0 }
