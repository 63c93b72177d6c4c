package longop

import (
	"sentra/internal/event"
	"sentra/internal/machine"
)

const (
	nameBracketOpen  = '【'
	nameBracketClose = '】'
)

// textUnit is one emission step: either a single display character or a
// bracketed name emitted atomically, per textout_long_operation.cpp's
// handling of the "\x3010 name \x3011" escape.
type textUnit struct {
	isName bool
	ch     string // single character, when !isName
	name   string // bracketed name, when isName
}

// TextOut emits a scenario's text run onto the current text page at
// message_speed milliseconds per character, or greedily under any
// fast-forward condition. On page overflow it pushes a Pause wrapped in an
// AfterLongOp that starts a fresh page once the reader advances past it.
type TextOut struct {
	units []textUnit
	pos   int

	nextCharDeadline int64
	hasDeadline      bool
}

// NewTextOut splits text into display units, recognizing name brackets.
func NewTextOut(text string) *TextOut {
	return &TextOut{units: splitTextUnits(text)}
}

func splitTextUnits(text string) []textUnit {
	runes := []rune(text)
	var units []textUnit
	for i := 0; i < len(runes); {
		if runes[i] == nameBracketOpen {
			j := i + 1
			for j < len(runes) && runes[j] != nameBracketClose {
				j++
			}
			units = append(units, textUnit{isName: true, name: string(runes[i+1 : j])})
			if j < len(runes) {
				i = j + 1
			} else {
				i = j
			}
			continue
		}
		units = append(units, textUnit{ch: string(runes[i])})
		i++
	}
	return units
}

func (t *TextOut) Name() string { return "TextOut" }

func (t *TextOut) Step(ctx machine.Context) (bool, error) {
	text := ctx.TextSystem()
	if text == nil {
		return true, nil
	}

	greedy := ctx.ShouldFastForward()
	for t.pos < len(t.units) {
		page := text.GetCurrentPage()
		if page != nil && page.IsFull() {
			ctx.PushLongOp(NewAfterLongOp(NewPause(), func(machine.Context) {
				text.Snapshot()
				text.NewPageOnWindow(0)
			}))
			return false, nil
		}
		if !greedy && t.hasDeadline && ctx.EventTick() < t.nextCharDeadline {
			return false, nil
		}

		unit := t.units[t.pos]
		var next string
		if t.pos+1 < len(t.units) && !t.units[t.pos+1].isName {
			next = t.units[t.pos+1].ch
		}
		if page != nil {
			if unit.isName {
				page.Name(unit.name, next)
			} else {
				page.Character(unit.ch, next)
			}
		}
		t.pos++

		if greedy {
			t.hasDeadline = false
			continue
		}
		t.nextCharDeadline = ctx.EventTick() + int64(text.MessageSpeed())
		t.hasDeadline = true
	}
	return true, nil
}

// OnEvent never consumes input. A held Ctrl fast-forwards this text run
// through ShouldFastForward, which reads the Ctrl state the machine
// latches in Dispatch, when TextSystem.CtrlKeySkip is on.
func (t *TextOut) OnEvent(ev event.Event) bool { return false }

var _ event.Listener = (*TextOut)(nil)
