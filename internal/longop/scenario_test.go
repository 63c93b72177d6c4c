package longop

import (
	"testing"

	"sentra/internal/machine"
)

// TestScenarioS3TextOutTimingWithoutFastForward runs TextOut("ab") at
// message-speed 5ms without fast-forward. The first character is free (it
// emits on the operation's first tick, same as TestTextOutEmitsOneCharPerTick
// elsewhere in this package); every subsequent character then costs one
// full message-speed interval, so the second (final) character of a
// two-character run emits, and the operation reports done, one interval
// later.
func TestScenarioS3TextOutTimingWithoutFastForward(t *testing.T) {
	text := newFakeText()
	text.speedMs = 5
	m := newTestMachine(t, text, nil)
	op := NewTextOut("ab")

	m.SetEventTick(0)
	if done, err := op.Step(m); err != nil || done {
		t.Fatalf("Step at tick 0 = %v, %v; want false, nil", done, err)
	}
	if len(text.page.chars) != 1 {
		t.Fatalf("chars at tick 0 = %d, want 1 (first character is free)", len(text.page.chars))
	}

	if done, err := op.Step(m); err != nil || done {
		t.Fatalf("Step before deadline = %v, %v; want false, nil", done, err)
	}
	if len(text.page.chars) != 1 {
		t.Fatalf("chars before tick 5 = %d, want 1", len(text.page.chars))
	}

	m.SetEventTick(5)
	if done, err := op.Step(m); err != nil || !done {
		t.Fatalf("Step at tick 5 = %v, %v; want true, nil", done, err)
	}
	if len(text.page.chars) != 2 {
		t.Fatalf("chars at tick 5 = %d, want 2", len(text.page.chars))
	}
}

// fakeVoiceChannel is a playback handle a finally-callback can stop, used
// to verify a Pause completion clears any playing voice.
type fakeVoiceChannel struct{ stopped bool }

func (c *fakeVoiceChannel) IsPlaying() bool { return !c.stopped }
func (c *fakeVoiceChannel) Stop()           { c.stopped = true }

// TestScenarioS4PauseAutoModeClearsVoiceOnCompletion pushes a Pause in
// auto-mode with 2 characters on the page (GetAutoTime(2) = 100) wrapped so
// that completion stops any playing voice; with no events arriving, the
// pause does not complete before tick 100 and clears the voice once it does.
func TestScenarioS4PauseAutoModeClearsVoiceOnCompletion(t *testing.T) {
	text := newFakeText()
	text.autoMode = true
	text.autoTimeMs = 100
	text.page.chars = []string{"a", "b"}
	m := newTestMachine(t, text, nil)

	voice := &fakeVoiceChannel{}
	op := NewAfterLongOp(NewPause(), func(m machine.Context) {
		voice.Stop()
	})

	m.SetEventTick(0)
	if done, err := op.Step(m); err != nil || done {
		t.Fatalf("Step at tick 0 = %v, %v; want false, nil", done, err)
	}
	if voice.stopped {
		t.Fatal("voice must still be playing before the pause completes")
	}

	m.SetEventTick(100)
	if done, err := op.Step(m); err != nil || !done {
		t.Fatalf("Step at tick 100 = %v, %v; want true, nil", done, err)
	}
	if !voice.stopped {
		t.Fatal("expected the pause's completion to stop the playing voice")
	}
}
