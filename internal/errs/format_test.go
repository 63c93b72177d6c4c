package errs

import "testing"

func TestExcerptCaretColumns(t *testing.T) {
	got := Excerpt("a+b-c", 1, 2, 5)
	want := "a+b-c\n  ^^^"
	if got != want {
		t.Fatalf("Excerpt() = %q, want %q", got, want)
	}
}

func TestKindOf(t *testing.T) {
	err := New(BadIndex, "index %d out of range", 7)
	kind, ok := KindOf(err)
	if !ok || kind != BadIndex {
		t.Fatalf("KindOf() = %v, %v, want BadIndex, true", kind, ok)
	}
}

func TestWrapUnwraps(t *testing.T) {
	cause := New(IOError, "disk full")
	err := Wrap(CorruptedSave, cause, "while loading slot 3")
	if err.Unwrap() != cause {
		t.Fatalf("Unwrap() did not return the wrapped cause")
	}
}
