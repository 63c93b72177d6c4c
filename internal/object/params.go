// Package object implements the graphics-object parameter set, drawer
// variants, mutators, animator, and the two-layer object table.
package object

// Repeats is the number of per-repetition adjustment slots a parameter set
// carries (position offsets and alphas), the RealLive
// convention for objects like trains of repeated sprites.
const Repeats = 8

// Rect is an axis-aligned pixel rectangle; a zero-width/height rect means
// "no region" for the clipping fields.
type Rect struct {
	X, Y, Width, Height int
}

func (r Rect) empty() bool { return r.Width == 0 && r.Height == 0 }

// Intersect returns the overlap of r and o; empty if they do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	if r.empty() {
		return o
	}
	if o.empty() {
		return r
	}
	x0, y0 := max(r.X, o.X), max(r.Y, o.Y)
	x1, y1 := min(r.X+r.Width, o.X+o.Width), min(r.Y+r.Height, o.Y+o.Height)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// RGB is a neutral-gated tint colour; {0,0,0} is the neutral value that
// causes a child to inherit the parent's instead of overriding it.
type RGB struct{ R, G, B uint8 }

func (c RGB) neutral() bool { return c == RGB{} }

// RGBA is a neutral-gated blend colour; zero alpha is neutral.
type RGBA struct{ R, G, B, A uint8 }

func (c RGBA) neutral() bool { return c.A == 0 }

// CompositeMode selects the blend operator a drawer applies.
type CompositeMode int

const (
	CompositeNormal CompositeMode = iota
	CompositeAdditive
	CompositeSubtractive
)

// Params is the flat parameter record every graphics object carries —
// scalar and tuple fields accessed uniformly by the operation adapters that
// wire opcodes to them ("Move" writes both x and y, "AdjustX" writes a
// single repno slot, TintColour's components are addressed individually).
type Params struct {
	Visible bool

	PositionX, PositionY                 int
	AdjustmentOffsetsX, AdjustmentOffsetsY [Repeats]int
	AdjustmentVertical                    int

	OriginX, OriginY                     int
	RepetitionOriginX, RepetitionOriginY int
	WidthPercent, HeightPercent          int
	RotationDiv10                        int

	PatternNumber int

	AlphaSource     int
	AdjustmentAlphas [Repeats]int

	ClippingRegion         Rect
	OwnSpaceClippingRegion Rect

	CompositeMode        CompositeMode
	MonochromeTransform  bool
	InvertTransform      bool
	TintColour           RGB
	BlendColour          RGBA
	LightLevel           int

	ZOrder, ZLayer, ZDepth int

	WipeCopy bool

	TextSurfaceText string
	DigitValue      int
	DigitDigits     int
	DigitZeroPad    bool

	IsButton        bool
	ButtonGroup     int
	ButtonNumber    int
	ButtonAction    int
	ButtonOverrides [3]int // (pattern, alpha?, ...) action-specific, per BTNOBJ.ACTION
}

// NewParams returns the scale/alpha-neutral default state every fresh
// object starts at: fully opaque, unscaled, unrotated.
func NewParams() Params {
	return Params{
		Visible:         true,
		WidthPercent:    100,
		HeightPercent:   100,
		AlphaSource:     255,
		AdjustmentAlphas: [Repeats]int{255, 255, 255, 255, 255, 255, 255, 255},
	}
}

// Reset restores neutral default state in place, used by wipe-copy
// promotion to clear a foreground slot.
func (p *Params) Reset() { *p = NewParams() }

// ComposeChild computes the effective parameters a drawer should use when
// rendering a child given its parent's params, applying these propagation
// rules: visibility/alpha multiply, position/offsets/vertical
// add, clip regions intersect; composite/monochrome/invert/tint/blend/light
// are inherited only when the child's own value is neutral; pattern,
// origins, scale, rotation, and display order never propagate.
func ComposeChild(parent, child Params) Params {
	out := child

	out.Visible = parent.Visible && child.Visible
	out.AlphaSource = scaleAlpha(parent.AlphaSource, child.AlphaSource)
	for i := range out.AdjustmentAlphas {
		out.AdjustmentAlphas[i] = scaleAlpha(parent.AdjustmentAlphas[i], child.AdjustmentAlphas[i])
	}

	out.PositionX = parent.PositionX + child.PositionX
	out.PositionY = parent.PositionY + child.PositionY
	for i := range out.AdjustmentOffsetsX {
		out.AdjustmentOffsetsX[i] = parent.AdjustmentOffsetsX[i] + child.AdjustmentOffsetsX[i]
		out.AdjustmentOffsetsY[i] = parent.AdjustmentOffsetsY[i] + child.AdjustmentOffsetsY[i]
	}
	out.AdjustmentVertical = parent.AdjustmentVertical + child.AdjustmentVertical

	out.ClippingRegion = parent.ClippingRegion.Intersect(child.ClippingRegion)
	out.OwnSpaceClippingRegion = parent.OwnSpaceClippingRegion.Intersect(child.OwnSpaceClippingRegion)

	if child.CompositeMode == CompositeNormal {
		out.CompositeMode = parent.CompositeMode
	}
	if !child.MonochromeTransform {
		out.MonochromeTransform = parent.MonochromeTransform
	}
	if !child.InvertTransform {
		out.InvertTransform = parent.InvertTransform
	}
	if child.TintColour.neutral() {
		out.TintColour = parent.TintColour
	}
	if child.BlendColour.neutral() {
		out.BlendColour = parent.BlendColour
	}
	if child.LightLevel == 0 {
		out.LightLevel = parent.LightLevel
	}

	return out
}

// scaleAlpha composes two 0-255 alpha sources multiplicatively, rounding to
// the nearest integer (128 x 128 -> ~64).
func scaleAlpha(parent, child int) int {
	return (parent*child + 127) / 255
}
