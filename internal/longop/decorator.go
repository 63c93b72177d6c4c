package longop

import (
	"sentra/internal/event"
	"sentra/internal/machine"
)

// AfterLongOp wraps an inner long operation so Finally runs exactly once,
// the tick the inner operation reports Done — used, e.g., to snapshot the
// text page and start a new one when TextOut's Pause completes.
type AfterLongOp struct {
	Inner   machine.LongOp
	Finally func(ctx machine.Context)

	ran bool
}

func NewAfterLongOp(inner machine.LongOp, finally func(ctx machine.Context)) *AfterLongOp {
	return &AfterLongOp{Inner: inner, Finally: finally}
}

func (d *AfterLongOp) Name() string { return "AfterLongOp(" + d.Inner.Name() + ")" }

func (d *AfterLongOp) Step(ctx machine.Context) (bool, error) {
	done, err := d.Inner.Step(ctx)
	if err != nil {
		return false, err
	}
	if done && !d.ran {
		d.ran = true
		if d.Finally != nil {
			d.Finally(ctx)
		}
	}
	return done, nil
}

// OnEvent forwards to the inner long operation if it listens for events.
func (d *AfterLongOp) OnEvent(ev event.Event) bool {
	if l, ok := d.Inner.(event.Listener); ok {
		return l.OnEvent(ev)
	}
	return false
}

var _ event.Listener = (*AfterLongOp)(nil)
