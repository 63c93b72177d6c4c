package longop

import (
	"sentra/internal/collab"
	"sentra/internal/event"
	"sentra/internal/machine"
)

// Option is one entry of a textual select statement, carrying the
// shown/enabled/colour flags a #SELECT condition can set, grounded on
// select_long_operation.cpp's Option struct.
type Option struct {
	Text        string
	Shown       bool
	Enabled     bool
	UseColour   bool
	ColourIndex int
}

// SelectText presents a set of textual choices and waits for the host
// presentation layer to report the chosen index via SelectByIndex — the
// text window itself (hover highlighting, click hit-testing against
// rendered glyphs) lives entirely outside this module.
type SelectText struct {
	options  []Option
	resolved bool
	result   int32
}

func NewSelectText(options []Option) *SelectText {
	return &SelectText{options: options}
}

func (s *SelectText) Name() string { return "SelectText" }

// Options returns the choice set for the presentation layer to render.
func (s *SelectText) Options() []Option { return s.options }

// SelectByIndex records the reader's choice; it is a no-op once already
// resolved, and ignores indices for hidden options.
func (s *SelectText) SelectByIndex(n int) {
	if s.resolved || n < 0 || n >= len(s.options) || !s.options[n].Shown {
		return
	}
	s.resolved = true
	s.result = int32(n)
}

// SelectByText resolves to the first shown option whose text matches str,
// reporting whether a match was found.
func (s *SelectText) SelectByText(str string) bool {
	for i, o := range s.options {
		if o.Shown && o.Text == str {
			s.SelectByIndex(i)
			return true
		}
	}
	return false
}

func (s *SelectText) Step(ctx machine.Context) (bool, error) {
	if s.resolved {
		ctx.SetStoreRegister(s.result)
		return true, nil
	}
	ctx.SuppressAdvance()
	return false, nil
}

// SelectGraphical presents a fixed-size grid of buttons laid out from the
// #SELBTN.<n> configuration rows and resolves on the first left-click that
// lands inside a button's rect, per select_long_operation.cpp's graphical
// variant.
type SelectGraphical struct {
	cfg   collab.Config
	count int

	resolved bool
	result   int32
}

func NewSelectGraphical(cfg collab.Config, count int) *SelectGraphical {
	return &SelectGraphical{cfg: cfg, count: count}
}

func (s *SelectGraphical) Name() string { return "SelectGraphical" }

func (s *SelectGraphical) Step(ctx machine.Context) (bool, error) {
	if s.resolved {
		ctx.SetStoreRegister(s.result)
		return true, nil
	}
	ctx.SuppressAdvance()
	return false, nil
}

func (s *SelectGraphical) OnEvent(ev event.Event) bool {
	if s.resolved || ev.Kind != event.MouseUp || ev.Button != event.ButtonLeft {
		return false
	}
	for n := 0; n < s.count; n++ {
		entry, ok := s.cfg.Selbtn(n)
		if !ok {
			continue
		}
		if hitTest(entry, ev.Pos) {
			s.resolved = true
			s.result = int32(n)
			return true
		}
	}
	return false
}

func hitTest(entry collab.SelbtnEntry, p event.Point) bool {
	return p.X >= entry.X && p.X < entry.X+entry.Width &&
		p.Y >= entry.Y && p.Y < entry.Y+entry.Height
}

var (
	_ event.Listener = (*SelectGraphical)(nil)
)
