// Package longop implements the cooperative long-operation patterns: waits,
// text pauses, typewriter text output, textual and graphical selection,
// button-object selection, and the after-long-op decorator. Every type
// here implements machine.LongOp (Name + Step) and, where the pattern
// intercepts input, event.Listener (OnEvent).
package longop

import (
	"sentra/internal/event"
	"sentra/internal/machine"
)

// Wait completes on the earliest of: a deadline, a caller-supplied
// predicate, or (if enabled) a mouse click / Ctrl press.
type Wait struct {
	hasDeadline  bool
	deadline     int64
	predicate    func() bool
	breakOnClick bool
	breakOnCtrl  bool

	clicked     bool
	clickResult int32
	ctrlHit     bool
}

// NewWait returns a Wait with no completion condition set; configure it
// with the With* methods before pushing it.
func NewWait() *Wait { return &Wait{} }

func (w *Wait) WithDeadline(tick int64) *Wait {
	w.hasDeadline, w.deadline = true, tick
	return w
}

func (w *Wait) WithPredicate(p func() bool) *Wait {
	w.predicate = p
	return w
}

func (w *Wait) BreakOnClick() *Wait {
	w.breakOnClick = true
	return w
}

func (w *Wait) BreakOnCtrl() *Wait {
	w.breakOnCtrl = true
	return w
}

func (w *Wait) Name() string { return "Wait" }

func (w *Wait) Step(ctx machine.Context) (bool, error) {
	if w.clicked {
		ctx.SetStoreRegister(w.clickResult)
		return true, nil
	}
	if w.ctrlHit {
		return true, nil
	}
	if w.hasDeadline && ctx.EventTick() >= w.deadline {
		return true, nil
	}
	if w.predicate != nil && w.predicate() {
		return true, nil
	}
	return false, nil
}

// OnEvent implements event.Listener. Wait only reacts to the conditions it
// was configured to break on.
func (w *Wait) OnEvent(ev event.Event) bool {
	if w.breakOnCtrl && ev.Kind == event.KeyDown && ev.Code == event.KeyCodeCtrl {
		w.ctrlHit = true
		return true
	}
	if w.breakOnClick && ev.Kind == event.MouseUp {
		switch ev.Button {
		case event.ButtonLeft:
			w.clicked, w.clickResult = true, 1
			return true
		case event.ButtonRight:
			w.clicked, w.clickResult = true, -1
			return true
		}
	}
	return false
}

var (
	_ event.Listener = (*Wait)(nil)
)
