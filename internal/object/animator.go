package object

// AfterAction selects what an Animator does once it reaches its last frame.
type AfterAction int

const (
	AfterStop AfterAction = iota
	AfterLoop
	AfterClear
)

// Animator drives an AnimationSurface or DriftDrawer's frame index forward
// against a frame-time table, grounded on gan.cpp's animation stepping.
type Animator struct {
	Playing     bool
	Paused      bool
	StartTimeMs int64
	FrameIndex  int
	After       AfterAction

	// cleared is set once an AfterClear animation has finished; the owning
	// object's drawer should be dropped once this is observed.
	cleared bool
}

// Execute advances FrameIndex for elapsed = nowMs - StartTimeMs against
// frameTimeMs (one entry per frame, all frames assumed present). It is a
// no-op if not playing, paused, or given an empty frame-time table.
func (a *Animator) Execute(nowMs int64, frameTimeMs []int) {
	if !a.Playing || a.Paused || len(frameTimeMs) == 0 {
		return
	}
	total := 0
	for _, t := range frameTimeMs {
		total += t
	}
	if total <= 0 {
		return
	}
	elapsed := int(nowMs - a.StartTimeMs)
	if elapsed < 0 {
		elapsed = 0
	}

	switch a.After {
	case AfterLoop:
		a.FrameIndex = frameAtElapsed(elapsed%total, frameTimeMs)
	case AfterStop:
		if elapsed >= total {
			a.FrameIndex = len(frameTimeMs) - 1
			a.Playing = false
			return
		}
		a.FrameIndex = frameAtElapsed(elapsed, frameTimeMs)
	case AfterClear:
		if elapsed >= total {
			a.FrameIndex = len(frameTimeMs) - 1
			a.Playing = false
			a.cleared = true
			return
		}
		a.FrameIndex = frameAtElapsed(elapsed, frameTimeMs)
	}
}

// Cleared reports whether an AfterClear animation has finished and the
// owning drawer should be dropped.
func (a *Animator) Cleared() bool { return a.cleared }

// frameAtElapsed finds which frame elapsedMs falls into, given a
// frame-time-per-frame table, assuming elapsedMs < sum(frameTimeMs).
func frameAtElapsed(elapsedMs int, frameTimeMs []int) int {
	acc := 0
	for i, t := range frameTimeMs {
		acc += t
		if elapsedMs < acc {
			return i
		}
	}
	return len(frameTimeMs) - 1
}
