package event

import "testing"

type recordingListener struct {
	consume bool
	got     []Event
}

func (r *recordingListener) OnEvent(ev Event) bool {
	r.got = append(r.got, ev)
	return r.consume
}

func TestDispatchStopsAtFirstConsumer(t *testing.T) {
	a := &recordingListener{consume: true}
	b := &recordingListener{consume: true}
	d := Dispatcher{}
	result := d.Dispatch(Event{Kind: MouseDown, Button: ButtonLeft}, []Listener{a, b})
	if result.Kind != None {
		t.Fatalf("result kind = %v, want None", result.Kind)
	}
	if len(a.got) != 1 {
		t.Fatalf("listener a got %d events, want 1", len(a.got))
	}
	if len(b.got) != 0 {
		t.Fatal("listener b should never have been reached")
	}
}

func TestDispatchPassesThroughUnconsumed(t *testing.T) {
	a := &recordingListener{consume: false}
	b := &recordingListener{consume: false}
	d := Dispatcher{}
	ev := Event{Kind: KeyDown, Code: KeyCodeShift}
	result := d.Dispatch(ev, []Listener{a, b})
	if result.Kind != KeyDown {
		t.Fatalf("result kind = %v, want KeyDown", result.Kind)
	}
	if len(a.got) != 1 || len(b.got) != 1 {
		t.Fatal("both listeners should have observed the event")
	}
}

func TestInputStateButtonLatch(t *testing.T) {
	var s InputState
	s.Apply(Event{Kind: MouseDown, Button: ButtonLeft}, 100)
	if s.LeftButton != StatePressed {
		t.Fatalf("LeftButton = %v, want StatePressed", s.LeftButton)
	}
	s.Apply(Event{Kind: MouseUp, Button: ButtonLeft}, 101)
	if s.LeftButton != StatePressedAndReleased {
		t.Fatalf("LeftButton = %v, want StatePressedAndReleased", s.LeftButton)
	}
	s.FlushMouseClicks()
	if s.LeftButton != StateUp || s.RightButton != StateUp {
		t.Fatal("FlushMouseClicks should zero both button states")
	}
}

func TestInputStateMouseMotionLatchesPositionAndTick(t *testing.T) {
	var s InputState
	s.Apply(Event{Kind: MouseMotion, Pos: Point{X: 5, Y: 9}}, 42)
	if s.MousePos != (Point{X: 5, Y: 9}) {
		t.Fatalf("MousePos = %+v, want {5 9}", s.MousePos)
	}
	if s.LastMoveTick != 42 {
		t.Fatalf("LastMoveTick = %d, want 42", s.LastMoveTick)
	}
}

func TestInputStateCtrlShiftLatch(t *testing.T) {
	var s InputState
	s.Apply(Event{Kind: KeyDown, Code: KeyCodeCtrl}, 0)
	if !s.CtrlPressed {
		t.Fatal("expected CtrlPressed after KeyDown(Ctrl)")
	}
	s.Apply(Event{Kind: KeyUp, Code: KeyCodeCtrl}, 0)
	if s.CtrlPressed {
		t.Fatal("expected CtrlPressed cleared after KeyUp(Ctrl)")
	}
}
