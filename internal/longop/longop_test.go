package longop

import (
	"testing"

	"sentra/internal/callstack"
	"sentra/internal/collab"
	"sentra/internal/event"
	"sentra/internal/machine"
	"sentra/internal/memory"
	"sentra/internal/opreg"
)

// --- fakes shared by this package's tests ---

type fakePage struct {
	chars      []string
	names      []string
	full       bool
}

func (p *fakePage) NumberOfCharsOnPage() int { return len(p.chars) }
func (p *fakePage) InRubyGloss() bool        { return false }
func (p *fakePage) IsFull() bool             { return p.full }
func (p *fakePage) Character(ch, rest string) bool {
	p.chars = append(p.chars, ch)
	return true
}
func (p *fakePage) Name(name, nextChar string) { p.names = append(p.names, name) }
func (p *fakePage) FontSize() int              { return 24 }
func (p *fakePage) FontColour() uint32         { return 0 }
func (p *fakePage) HardBreak()                 {}
func (p *fakePage) ResetIndentation()          {}
func (p *fakePage) SetInsertionPointX(x int)   {}
func (p *fakePage) SetInsertionPointY(y int)   {}

type fakeText struct {
	page                 *fakePage
	autoMode             bool
	autoTimeMs           int
	speedMs              int
	messageNoWait        bool
	scriptMessageNoWait  bool
	ctrlKeySkip          bool
	snapshotted          bool
	newPageCalls         int
	inSelectionMode      bool
}

func newFakeText() *fakeText {
	return &fakeText{page: &fakePage{}, speedMs: 10}
}

func (t *fakeText) GetCurrentPage() collab.TextPage  { return t.page }
func (t *fakeText) GetAutoTime(chars int) int        { return t.autoTimeMs }
func (t *fakeText) SetKidokuRead(read bool)          {}
func (t *fakeText) SetInPauseState(v bool)           {}
func (t *fakeText) SetInSelectionMode(v bool)        { t.inSelectionMode = v }
func (t *fakeText) Snapshot()                        { t.snapshotted = true }
func (t *fakeText) NewPageOnWindow(n int)             { t.newPageCalls++; t.page = &fakePage{} }
func (t *fakeText) HideAllTextWindows()               {}
func (t *fakeText) MessageSpeed() int                 { return t.speedMs }
func (t *fakeText) SetMessageSpeed(ms int)             { t.speedMs = ms }
func (t *fakeText) MessageNoWait() bool               { return t.messageNoWait }
func (t *fakeText) ScriptMessageNoWait() bool         { return t.scriptMessageNoWait }
func (t *fakeText) CtrlKeySkip() bool                 { return t.ctrlKeySkip }
func (t *fakeText) AutoMode() bool                    { return t.autoMode }

type fakeConfig struct {
	selbtn map[int]collab.SelbtnEntry
}

func (c *fakeConfig) IntBankSize(bank int) int         { return 0 }
func (c *fakeConfig) StrBankSize(bank int) int         { return 0 }
func (c *fakeConfig) IntBankIDs() []int                { return nil }
func (c *fakeConfig) StrBankIDs() []int                { return nil }
func (c *fakeConfig) SeenStart() int                   { return 0 }
func (c *fakeConfig) SeenMenu() int                    { return 0 }
func (c *fakeConfig) CancelcallMod() int               { return 0 }
func (c *fakeConfig) Cancelcall() int                  { return 0 }
func (c *fakeConfig) DLL(n int) (string, bool)         { return "", false }
func (c *fakeConfig) WindowAttr() [8]int               { return [8]int{} }
func (c *fakeConfig) InitMessageSpeed() int            { return 10 }
func (c *fakeConfig) MessageKeyWaitUse() bool          { return false }
func (c *fakeConfig) MessageKeyWaitTime() int          { return 0 }
func (c *fakeConfig) SavepointMessage() bool           { return false }
func (c *fakeConfig) SavepointSeentop() bool           { return false }
func (c *fakeConfig) SavepointSelcom() bool            { return false }
func (c *fakeConfig) ObjectMax() int                   { return 0 }
func (c *fakeConfig) Object(n int) (string, bool)      { return "", false }
func (c *fakeConfig) Shake(n int) ([]int, bool)        { return nil, false }
func (c *fakeConfig) ColorTable() []uint32             { return nil }
func (c *fakeConfig) ButtonObjAction() int             { return 0 }
func (c *fakeConfig) Selbtn(n int) (collab.SelbtnEntry, bool) {
	e, ok := c.selbtn[n]
	return e, ok
}

func newTestMachine(t *testing.T, text collab.TextSystem, cfg collab.Config) *machine.Machine {
	t.Helper()
	banks := memory.NewBanks()
	stack := callstack.New()
	stack.Push(callstack.NewFrame(callstack.Location{}, callstack.Root, 4, 4))
	reg := opreg.NewRegistry()
	return machine.New(banks, stack, reg, nil, text, cfg, nil)
}

// --- Wait ---

func TestWaitCompletesOnDeadline(t *testing.T) {
	m := newTestMachine(t, nil, nil)
	w := NewWait().WithDeadline(100)
	m.SetEventTick(50)
	if done, err := w.Step(m); err != nil || done {
		t.Fatalf("Step at tick 50 = %v, %v; want false, nil", done, err)
	}
	m.SetEventTick(100)
	if done, err := w.Step(m); err != nil || !done {
		t.Fatalf("Step at tick 100 = %v, %v; want true, nil", done, err)
	}
}

func TestWaitBreaksOnClick(t *testing.T) {
	m := newTestMachine(t, nil, nil)
	w := NewWait().BreakOnClick()
	if !w.OnEvent(event.Event{Kind: event.MouseUp, Button: event.ButtonLeft}) {
		t.Fatal("expected left click to be consumed")
	}
	done, err := w.Step(m)
	if err != nil || !done {
		t.Fatalf("Step = %v, %v; want true, nil", done, err)
	}
	if got := m.StoreRegister(); got != 1 {
		t.Fatalf("store register = %d, want 1", got)
	}
}

func TestWaitBreaksOnCtrl(t *testing.T) {
	w := NewWait().BreakOnCtrl()
	if !w.OnEvent(event.Event{Kind: event.KeyDown, Code: event.KeyCodeCtrl}) {
		t.Fatal("expected ctrl keydown to be consumed")
	}
	m := newTestMachine(t, nil, nil)
	if done, _ := w.Step(m); !done {
		t.Fatal("expected Wait to complete after ctrl hit")
	}
}

func TestWaitIgnoresUnconfiguredBreaks(t *testing.T) {
	w := NewWait()
	if w.OnEvent(event.Event{Kind: event.MouseUp, Button: event.ButtonLeft}) {
		t.Fatal("Wait with no break conditions should never consume")
	}
}

// --- Pause ---

func TestPauseCompletesOnAdvanceClick(t *testing.T) {
	m := newTestMachine(t, newFakeText(), nil)
	p := NewPause()
	if !p.OnEvent(event.Event{Kind: event.MouseUp, Button: event.ButtonLeft}) {
		t.Fatal("expected mouse up to be consumed")
	}
	if done, err := p.Step(m); err != nil || !done {
		t.Fatalf("Step = %v, %v; want true, nil", done, err)
	}
}

func TestPauseWaitsWithoutAdvanceOrAutoMode(t *testing.T) {
	m := newTestMachine(t, newFakeText(), nil)
	p := NewPause()
	if done, err := p.Step(m); err != nil || done {
		t.Fatalf("Step = %v, %v; want false, nil (no auto mode, no advance yet)", done, err)
	}
}

func TestPauseAutoModeWaitsForDeadlineAndMouseSuppression(t *testing.T) {
	text := newFakeText()
	text.autoMode = true
	text.autoTimeMs = 100
	text.page.chars = []string{"a", "b"}
	m := newTestMachine(t, text, nil)
	p := NewPause()

	m.SetEventTick(0)
	if done, _ := p.Step(m); done {
		t.Fatal("should not complete before auto-time deadline")
	}
	m.SetEventTick(100)
	if done, _ := p.Step(m); !done {
		t.Fatal("expected completion once deadline passes with no recent mouse motion")
	}
}

func TestPauseAutoModeSuppressedByRecentMouseMotion(t *testing.T) {
	text := newFakeText()
	text.autoMode = true
	text.autoTimeMs = 100
	m := newTestMachine(t, text, nil)
	p := NewPause()

	m.SetEventTick(0)
	if done, _ := p.Step(m); done {
		t.Fatal("should not complete before auto-time deadline")
	}
	m.Dispatch(event.Event{Kind: event.MouseMotion, Pos: event.Point{X: 1, Y: 1}})
	m.SetEventTick(100)
	if done, _ := p.Step(m); done {
		t.Fatal("auto-advance should be suppressed for 2000ms after mouse motion")
	}
	m.SetEventTick(2101)
	if done, _ := p.Step(m); !done {
		t.Fatal("expected completion once suppression window elapses")
	}
}

// --- TextOut ---

func TestTextOutEmitsOneCharPerTick(t *testing.T) {
	text := newFakeText()
	text.speedMs = 10
	m := newTestMachine(t, text, nil)
	op := NewTextOut("ab")

	m.SetEventTick(0)
	if done, err := op.Step(m); err != nil || done {
		t.Fatalf("Step 1 = %v, %v", done, err)
	}
	if len(text.page.chars) != 1 {
		t.Fatalf("chars emitted = %d, want 1", len(text.page.chars))
	}
	if done, _ := op.Step(m); done {
		t.Fatal("should not advance before message_speed elapses")
	}
	m.SetEventTick(10)
	if done, err := op.Step(m); err != nil || !done {
		t.Fatalf("Step 2 = %v, %v", done, err)
	}
	if len(text.page.chars) != 2 {
		t.Fatalf("chars emitted = %d, want 2", len(text.page.chars))
	}
}

func TestTextOutGreedyUnderFastForward(t *testing.T) {
	text := newFakeText()
	m := newTestMachine(t, text, nil)
	m.SetFastForward(true)
	op := NewTextOut("hello")
	done, err := op.Step(m)
	if err != nil || !done {
		t.Fatalf("Step = %v, %v; want true, nil", done, err)
	}
	if len(text.page.chars) != 5 {
		t.Fatalf("chars emitted = %d, want 5", len(text.page.chars))
	}
}

func TestTextOutNameBracketEmittedAtomically(t *testing.T) {
	text := newFakeText()
	m := newTestMachine(t, text, nil)
	m.SetFastForward(true)
	op := NewTextOut("【Alice】hi")
	if done, err := op.Step(m); err != nil || !done {
		t.Fatalf("Step = %v, %v", done, err)
	}
	if len(text.page.names) != 1 || text.page.names[0] != "Alice" {
		t.Fatalf("names = %v, want [Alice]", text.page.names)
	}
	if len(text.page.chars) != 2 {
		t.Fatalf("chars = %v, want 2 (h, i)", text.page.chars)
	}
}

func TestTextOutPageOverflowPushesPause(t *testing.T) {
	text := newFakeText()
	text.page.full = true
	m := newTestMachine(t, text, nil)
	op := NewTextOut("x")
	before := m.Stack.Size()
	if done, err := op.Step(m); err != nil || done {
		t.Fatalf("Step = %v, %v; want false, nil", done, err)
	}
	if m.Stack.Size() != before+1 {
		t.Fatalf("stack size = %d, want %d (Pause pushed)", m.Stack.Size(), before+1)
	}
}

// --- SelectText ---

func TestSelectTextResolvesOnSelectByIndex(t *testing.T) {
	m := newTestMachine(t, nil, nil)
	s := NewSelectText([]Option{{Text: "yes", Shown: true}, {Text: "no", Shown: true}})
	if done, _ := s.Step(m); done {
		t.Fatal("should not complete before a choice is made")
	}
	s.SelectByIndex(1)
	done, err := s.Step(m)
	if err != nil || !done {
		t.Fatalf("Step = %v, %v; want true, nil", done, err)
	}
	if got := m.StoreRegister(); got != 1 {
		t.Fatalf("store register = %d, want 1", got)
	}
}

func TestSelectTextIgnoresHiddenOption(t *testing.T) {
	s := NewSelectText([]Option{{Text: "hidden", Shown: false}})
	s.SelectByIndex(0)
	m := newTestMachine(t, nil, nil)
	if done, _ := s.Step(m); done {
		t.Fatal("hidden option must not resolve the selection")
	}
}

func TestSelectTextByText(t *testing.T) {
	s := NewSelectText([]Option{{Text: "a", Shown: true}, {Text: "b", Shown: true}})
	if !s.SelectByText("b") {
		t.Fatal("expected match for \"b\"")
	}
	m := newTestMachine(t, nil, nil)
	done, _ := s.Step(m)
	if !done || m.StoreRegister() != 1 {
		t.Fatalf("done=%v store=%d, want true, 1", done, m.StoreRegister())
	}
}

// --- SelectGraphical ---

func TestSelectGraphicalResolvesOnClickInsideButton(t *testing.T) {
	cfg := &fakeConfig{selbtn: map[int]collab.SelbtnEntry{
		0: {X: 0, Y: 0, Width: 10, Height: 10},
		1: {X: 20, Y: 20, Width: 10, Height: 10},
	}}
	s := NewSelectGraphical(cfg, 2)
	if !s.OnEvent(event.Event{Kind: event.MouseUp, Button: event.ButtonLeft, Pos: event.Point{X: 25, Y: 25}}) {
		t.Fatal("expected click inside button 1 to be consumed")
	}
	m := newTestMachine(t, nil, nil)
	done, _ := s.Step(m)
	if !done || m.StoreRegister() != 1 {
		t.Fatalf("done=%v store=%d, want true, 1", done, m.StoreRegister())
	}
}

func TestSelectGraphicalIgnoresClickOutsideAllButtons(t *testing.T) {
	cfg := &fakeConfig{selbtn: map[int]collab.SelbtnEntry{0: {X: 0, Y: 0, Width: 10, Height: 10}}}
	s := NewSelectGraphical(cfg, 1)
	if s.OnEvent(event.Event{Kind: event.MouseUp, Button: event.ButtonLeft, Pos: event.Point{X: 50, Y: 50}}) {
		t.Fatal("click outside every button must not be consumed")
	}
}

// --- ButtonObjectSelect ---

type fakeButton struct {
	num    int
	rect   event.Point // top-left
	size   int
	state  ButtonOverride
	cleared bool
}

func (b *fakeButton) Number() int { return b.num }
func (b *fakeButton) Contains(p event.Point) bool {
	return p.X >= b.rect.X && p.X < b.rect.X+b.size && p.Y >= b.rect.Y && p.Y < b.rect.Y+b.size
}
func (b *fakeButton) SetOverride(state ButtonOverride) { b.state = state }
func (b *fakeButton) ClearOverride()                   { b.cleared = true }

func TestButtonObjectSelectClickReturnsNumber(t *testing.T) {
	b0 := &fakeButton{num: 0, rect: event.Point{X: 0, Y: 0}, size: 10}
	b1 := &fakeButton{num: 1, rect: event.Point{X: 20, Y: 20}, size: 10}
	sel := NewButtonObjectSelect([]Button{b0, b1}, false)

	sel.OnEvent(event.Event{Kind: event.MouseMotion, Pos: event.Point{X: 25, Y: 25}})
	if b1.state != OverrideHover {
		t.Fatalf("b1 state = %v, want OverrideHover", b1.state)
	}
	sel.OnEvent(event.Event{Kind: event.MouseDown, Button: event.ButtonLeft})
	if b1.state != OverridePressed {
		t.Fatalf("b1 state = %v, want OverridePressed", b1.state)
	}
	sel.OnEvent(event.Event{Kind: event.MouseUp, Button: event.ButtonLeft})

	m := newTestMachine(t, nil, nil)
	done, _ := sel.Step(m)
	if !done || m.StoreRegister() != 1 {
		t.Fatalf("done=%v store=%d, want true, 1", done, m.StoreRegister())
	}
	if !b1.cleared {
		t.Fatal("expected button override cleared once resolved")
	}
}

func TestButtonObjectSelectRightClickCancelsWhenCancelable(t *testing.T) {
	b0 := &fakeButton{num: 0, rect: event.Point{X: 0, Y: 0}, size: 10}
	sel := NewButtonObjectSelect([]Button{b0}, true)
	sel.OnEvent(event.Event{Kind: event.MouseUp, Button: event.ButtonRight})
	m := newTestMachine(t, nil, nil)
	done, _ := sel.Step(m)
	if !done || m.StoreRegister() != -1 {
		t.Fatalf("done=%v store=%d, want true, -1", done, m.StoreRegister())
	}
}

func TestButtonObjectSelectRightClickIgnoredWhenNotCancelable(t *testing.T) {
	b0 := &fakeButton{num: 0, rect: event.Point{X: 0, Y: 0}, size: 10}
	sel := NewButtonObjectSelect([]Button{b0}, false)
	sel.OnEvent(event.Event{Kind: event.MouseUp, Button: event.ButtonRight})
	m := newTestMachine(t, nil, nil)
	if done, _ := sel.Step(m); done {
		t.Fatal("non-cancelable group must not resolve on right click")
	}
}

// --- AfterLongOp ---

func TestAfterLongOpRunsFinallyOnceOnCompletion(t *testing.T) {
	w := NewWait().WithDeadline(10)
	calls := 0
	d := NewAfterLongOp(w, func(machine.Context) { calls++ })
	m := newTestMachine(t, nil, nil)
	m.SetEventTick(0)
	if done, _ := d.Step(m); done {
		t.Fatal("should not complete before inner op completes")
	}
	m.SetEventTick(10)
	if done, _ := d.Step(m); !done {
		t.Fatal("expected completion once inner Wait completes")
	}
	if calls != 1 {
		t.Fatalf("Finally called %d times, want 1", calls)
	}
	if done, _ := d.Step(m); !done {
		t.Fatal("decorator should remain done")
	}
	if calls != 1 {
		t.Fatalf("Finally called %d times after second Step, want still 1", calls)
	}
}
