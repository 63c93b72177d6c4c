package longop

import (
	"sentra/internal/event"
	"sentra/internal/machine"
)

// Button is the minimal surface a graphics-object button must expose to
// ButtonObjectSelect: its hit rect, its assigned button number, and the
// override state it can be pushed into for hover/press/click feedback.
// buttonadapter.go adapts internal/object's button-flagged objects to it;
// any other type with these methods satisfies it structurally.
type Button interface {
	Number() int
	Contains(p event.Point) bool
	SetOverride(state ButtonOverride)
	ClearOverride()
}

// ButtonOverride mirrors the BTNOBJ.ACTION override states
// (button_object_select_long_operation.cpp's "NORMAL"/"HIT"/"PUSH").
type ButtonOverride int

const (
	OverrideNormal ButtonOverride = iota
	OverrideHover
	OverridePressed
)

// ButtonObjectSelect runs a modal hover/press/click loop over a group of
// graphics-object buttons: left-click-release on the hovered button returns
// its number, right-click-release returns -1 if the group is cancelable.
type ButtonObjectSelect struct {
	buttons    []Button
	cancelable bool

	hovering Button
	pressed  Button

	hasResult bool
	result    int32
}

func NewButtonObjectSelect(buttons []Button, cancelable bool) *ButtonObjectSelect {
	for _, b := range buttons {
		b.SetOverride(OverrideNormal)
	}
	return &ButtonObjectSelect{buttons: buttons, cancelable: cancelable}
}

func (b *ButtonObjectSelect) Name() string { return "ButtonObjectSelect" }

func (b *ButtonObjectSelect) Step(ctx machine.Context) (bool, error) {
	if b.hasResult {
		ctx.SetStoreRegister(b.result)
		for _, btn := range b.buttons {
			btn.ClearOverride()
		}
		return true, nil
	}
	ctx.SuppressAdvance()
	return false, nil
}

func (b *ButtonObjectSelect) OnEvent(ev event.Event) bool {
	switch ev.Kind {
	case event.MouseMotion:
		b.updateHover(ev.Pos)
		return false
	case event.MouseDown:
		if ev.Button == event.ButtonLeft {
			b.pressed = b.hovering
			if b.pressed != nil {
				b.pressed.SetOverride(OverridePressed)
			}
			return true
		}
	case event.MouseUp:
		switch ev.Button {
		case event.ButtonLeft:
			if b.hovering != nil && b.hovering == b.pressed {
				b.hasResult = true
				b.result = int32(b.hovering.Number())
			}
			return true
		case event.ButtonRight:
			if b.cancelable {
				b.hasResult = true
				b.result = -1
				return true
			}
		}
	}
	return false
}

func (b *ButtonObjectSelect) updateHover(p event.Point) {
	var hovering Button
	for _, btn := range b.buttons {
		if btn.Contains(p) {
			hovering = btn
		}
	}
	if hovering == b.hovering {
		return
	}
	if b.hovering != nil {
		b.hovering.SetOverride(OverrideNormal)
		if b.hovering == b.pressed {
			b.pressed = nil
		}
	}
	if hovering != nil {
		hovering.SetOverride(OverrideHover)
	}
	b.hovering = hovering
}

var _ event.Listener = (*ButtonObjectSelect)(nil)
