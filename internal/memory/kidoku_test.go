package memory

import "testing"

func TestKidokuRoundTrip(t *testing.T) {
	table := NewKidokuTable()
	table.Record(3, 42)
	table.Record(3, 7)
	table.Record(9, 1)

	if !table.HasBeenRead(3, 42) {
		t.Fatal("expected (3, 42) to be recorded")
	}
	if table.HasBeenRead(3, 100) {
		t.Fatal("did not expect (3, 100) to be recorded")
	}

	entries := table.Entries()
	restored := NewKidokuTable()
	restored.LoadEntries(entries)

	for _, e := range entries {
		if !restored.HasBeenRead(e.Scenario, e.Kidoku) {
			t.Fatalf("restored table missing (%d, %d)", e.Scenario, e.Kidoku)
		}
	}
	if len(restored.Entries()) != len(entries) {
		t.Fatalf("restored table has %d entries, want %d", len(restored.Entries()), len(entries))
	}
}
