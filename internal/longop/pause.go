package longop

import (
	"sentra/internal/event"
	"sentra/internal/machine"
)

// autoModeMouseSuppressMillis is how long auto-mode advancement is
// suppressed after the mouse last moved, so a moving pointer over a
// button doesn't get skipped past.
const autoModeMouseSuppressMillis = 2000

// Pause completes on any advance input (mouse click or Ctrl), or — in
// auto mode — once the current page's character count has had its
// computed auto-advance time elapse, unless the mouse moved recently.
type Pause struct {
	advanceHit bool
	ctrlHit    bool

	hasDeadline bool
	deadline    int64
}

func NewPause() *Pause { return &Pause{} }

func (p *Pause) Name() string { return "Pause" }

func (p *Pause) Step(ctx machine.Context) (bool, error) {
	if p.advanceHit || p.ctrlHit {
		return true, nil
	}
	text := ctx.TextSystem()
	if text == nil || !text.AutoMode() {
		return false, nil
	}
	if !p.hasDeadline {
		chars := 0
		if page := text.GetCurrentPage(); page != nil {
			chars = page.NumberOfCharsOnPage()
		}
		p.deadline = ctx.EventTick() + int64(text.GetAutoTime(chars))
		p.hasDeadline = true
	}
	if ctx.EventTick() < p.deadline {
		return false, nil
	}
	input := ctx.InputSnapshot()
	if input.MouseMoved && ctx.EventTick() < input.LastMoveTick+autoModeMouseSuppressMillis {
		return false, nil
	}
	return true, nil
}

func (p *Pause) OnEvent(ev event.Event) bool {
	switch ev.Kind {
	case event.KeyDown:
		if ev.Code == event.KeyCodeCtrl {
			p.ctrlHit = true
			return true
		}
	case event.MouseUp:
		p.advanceHit = true
		return true
	}
	return false
}

var _ event.Listener = (*Pause)(nil)
