package object

import "testing"

// driftFrameTime is a 4-frame, 50ms-per-frame table shared by both cases
// below, giving a 200ms total that lines up exactly with the elapsed time
// each test drives the animator to.
func driftFrameTime() []int { return []int{50, 50, 50, 50} }

// TestScenarioS5DriftObjectFrameIndexAdvancementLoop puts a drift object at
// fg[1] with animator.playing=true and checks that after 200ms its frame
// index equals (200/frame_time) mod total_frames under AfterLoop.
func TestScenarioS5DriftObjectFrameIndexAdvancementLoop(t *testing.T) {
	fg := NewLayer(Foreground, DefaultObjectCeiling)
	obj, err := fg.Get(1)
	if err != nil {
		t.Fatalf("Get(1): %v", err)
	}
	frames := driftFrameTime()
	obj.Drawer = DriftDrawer{Count: 16, FrameTime: frames}
	obj.Animator = Animator{Playing: true, After: AfterLoop}

	fg.Execute(200)

	want := (200 / 50) % len(frames)
	if obj.Animator.FrameIndex != want {
		t.Fatalf("FrameIndex = %d, want %d", obj.Animator.FrameIndex, want)
	}
	if !obj.Animator.Playing {
		t.Fatal("a looping animator must still be playing after wrapping")
	}
}

// TestScenarioS5DriftObjectFrameIndexAdvancementStop mirrors the Loop case
// but with AfterStop: once elapsed time reaches the total frame-time sum,
// the frame index holds at total_frames-1 and playback stops.
func TestScenarioS5DriftObjectFrameIndexAdvancementStop(t *testing.T) {
	fg := NewLayer(Foreground, DefaultObjectCeiling)
	obj, err := fg.Get(1)
	if err != nil {
		t.Fatalf("Get(1): %v", err)
	}
	frames := driftFrameTime()
	obj.Drawer = DriftDrawer{Count: 16, FrameTime: frames}
	obj.Animator = Animator{Playing: true, After: AfterStop}

	fg.Execute(200)

	if obj.Animator.FrameIndex != len(frames)-1 {
		t.Fatalf("FrameIndex = %d, want %d (total_frames - 1)", obj.Animator.FrameIndex, len(frames)-1)
	}
	if obj.Animator.Playing {
		t.Fatal("an AfterStop animator must stop once it reaches its last frame")
	}
}
