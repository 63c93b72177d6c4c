package object

import "testing"

func TestComposeChildAlphaPropagation(t *testing.T) {
	parent := NewParams()
	parent.AlphaSource = 128
	child := NewParams()
	child.AlphaSource = 128

	out := ComposeChild(parent, child)
	if out.AlphaSource < 63 || out.AlphaSource > 65 {
		t.Fatalf("AlphaSource = %d, want ~64", out.AlphaSource)
	}
}

func TestComposeChildPositionAdditive(t *testing.T) {
	parent := NewParams()
	parent.PositionX, parent.PositionY = 10, 20
	child := NewParams()
	child.PositionX, child.PositionY = 1, 2

	out := ComposeChild(parent, child)
	if out.PositionX != 11 || out.PositionY != 22 {
		t.Fatalf("position = (%d,%d), want (11,22)", out.PositionX, out.PositionY)
	}
}

func TestComposeChildNeutralTintInheritsParent(t *testing.T) {
	parent := NewParams()
	parent.TintColour = RGB{R: 200}
	child := NewParams() // neutral (zero) tint

	out := ComposeChild(parent, child)
	if out.TintColour != parent.TintColour {
		t.Fatalf("TintColour = %+v, want inherited %+v", out.TintColour, parent.TintColour)
	}
}

func TestComposeChildNonNeutralTintOverridesParent(t *testing.T) {
	parent := NewParams()
	parent.TintColour = RGB{R: 200}
	child := NewParams()
	child.TintColour = RGB{B: 50}

	out := ComposeChild(parent, child)
	if out.TintColour != child.TintColour {
		t.Fatalf("TintColour = %+v, want child's own %+v", out.TintColour, child.TintColour)
	}
}

func TestComposeChildPatternDoesNotPropagate(t *testing.T) {
	parent := NewParams()
	parent.PatternNumber = 7
	child := NewParams()
	child.PatternNumber = 0

	out := ComposeChild(parent, child)
	if out.PatternNumber != 0 {
		t.Fatalf("PatternNumber = %d, want 0 (child's own, no propagation)", out.PatternNumber)
	}
}

func TestComposeChildClipIntersects(t *testing.T) {
	parent := NewParams()
	parent.ClippingRegion = Rect{X: 0, Y: 0, Width: 100, Height: 100}
	child := NewParams()
	child.ClippingRegion = Rect{X: 50, Y: 50, Width: 100, Height: 100}

	out := ComposeChild(parent, child)
	want := Rect{X: 50, Y: 50, Width: 50, Height: 50}
	if out.ClippingRegion != want {
		t.Fatalf("ClippingRegion = %+v, want %+v", out.ClippingRegion, want)
	}
}

func TestWipeCopyPromotion(t *testing.T) {
	fg := NewLayer(Foreground, 10)
	bg := NewLayer(Background, 10)

	fgObj, _ := fg.Get(5)
	fgObj.Params.WipeCopy = false
	fgObj.Params.PositionX = 999

	bgObj, _ := bg.Get(5)
	bgObj.Params.PositionX = 42
	bgObj.Params.WipeCopy = true

	WipeCopy(fg, bg)

	got, _ := fg.Get(5)
	if got.Params.PositionX != 42 {
		t.Fatalf("fg[5].PositionX = %d, want 42 (promoted from bg)", got.Params.PositionX)
	}
	if len(bg.Occupied()) != 0 {
		t.Fatal("background slot should be emptied after promotion")
	}
}

func TestWipeCopyPreservesFlaggedForeground(t *testing.T) {
	fg := NewLayer(Foreground, 10)
	obj, _ := fg.Get(3)
	obj.Params.WipeCopy = true
	obj.Params.PositionX = 7

	WipeCopy(fg, NewLayer(Background, 10))

	got, _ := fg.Get(3)
	if got.Params.PositionX != 7 {
		t.Fatal("wipe_copy=true object should survive promotion untouched")
	}
}

func TestInterpolateLinear(t *testing.T) {
	got := Interpolate(0, 5, 10, 100, Linear)
	if got != 50 {
		t.Fatalf("Linear = %v, want 50", got)
	}
}

func TestInterpolateLogEaseOut(t *testing.T) {
	got := Interpolate(0, 5, 10, 100, LogEaseOut)
	if got < 58.4 || got > 58.6 {
		t.Fatalf("LogEaseOut = %v, want ~58.496", got)
	}
}

func TestInterpolateClampsOutsideRange(t *testing.T) {
	if got := Interpolate(0, -5, 10, 100, Linear); got != 0 {
		t.Fatalf("below start = %v, want 0", got)
	}
	if got := Interpolate(0, 15, 10, 100, Linear); got != 100 {
		t.Fatalf("above end = %v, want 100", got)
	}
}

func TestAnimatorLoopWrapsFrameIndex(t *testing.T) {
	a := &Animator{Playing: true, After: AfterLoop}
	frameTimes := []int{50, 50, 50, 50, 50}
	a.Execute(200, frameTimes)
	if a.FrameIndex != 4 {
		t.Fatalf("FrameIndex = %d, want 4 (200/50 mod 5)", a.FrameIndex)
	}
}

func TestAnimatorStopHoldsLastFrame(t *testing.T) {
	a := &Animator{Playing: true, After: AfterStop}
	frameTimes := []int{50, 50}
	a.Execute(200, frameTimes)
	if a.FrameIndex != len(frameTimes)-1 {
		t.Fatalf("FrameIndex = %d, want %d (held at last frame)", a.FrameIndex, len(frameTimes)-1)
	}
	if a.Playing {
		t.Fatal("AfterStop animator should stop playing once its total duration elapses")
	}
}

func TestOneIntMutatorInterpolatesThenCompletes(t *testing.T) {
	var got int
	m := &OneIntMutator{
		NameV: "alpha", RepnoV: -1,
		CreatedMs: 0, DurationMs: 100, DelayMs: 0,
		CurveV: Linear, Start: 0, End: 100,
		Setter: func(v int) { got = v },
	}
	if done := m.Step(50); done {
		t.Fatal("should not be done halfway through duration")
	}
	if got != 50 {
		t.Fatalf("interpolated value at t=50 = %d, want 50", got)
	}
	if done := m.Step(101); !done {
		t.Fatal("expected completion once creation+delay+duration has elapsed")
	}
}

func TestObjectEndMutationSnapsToEndValue(t *testing.T) {
	var got int
	obj := &Object{Params: NewParams()}
	obj.AddMutator(&OneIntMutator{
		NameV: "alpha", RepnoV: -1, DurationMs: 1000, Start: 0, End: 100,
		Setter: func(v int) { got = v },
	})
	obj.EndMutation(-1, "alpha")
	if got != 100 {
		t.Fatalf("value after EndMutation = %d, want 100 (snapped to End)", got)
	}
	if len(obj.Mutators) != 0 {
		t.Fatal("matched mutator should be removed after EndMutation")
	}
}
