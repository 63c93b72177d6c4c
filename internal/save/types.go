// Package save implements the two-scope persistence protocol: a global
// scope (memory that survives scene resets, one file per game registry)
// and numbered local save slots, both gzip-compressed. A Manager also
// satisfies machine.SavepointSink, snapshotting the real call-stack frames
// into a serializable mirror whenever the driver takes a kidoku-triggered
// savepoint, and tracks a capped log of textual graphics commands used to
// rebuild the live object stack on load instead of serializing it.
package save

import (
	"time"

	"github.com/google/uuid"

	"sentra/internal/memory"
)

// SchemaVersion is bumped whenever GlobalScope or LocalSave's shape
// changes incompatibly.
const SchemaVersion = 1

// MaxGraphicsStackEntries bounds the replay log to the most recent
// stack-building graphics commands.
const MaxGraphicsStackEntries = 127

// Header carries the human-visible identity of one save slot.
type Header struct {
	ID        uuid.UUID
	Title     string
	CreatedAt time.Time
	Subtitle  string
}

// SerializedFrame is a flat, serializable mirror of one callstack.Frame —
// location, kind, and the frame's own L/K storage. Long-operation frames
// are never captured here; they cannot be serialized generically, which
// is exactly why the live stack is rebuilt by graphics-stack replay
// instead of being stored directly.
type SerializedFrame struct {
	Scenario int
	Offset   int
	Kind     int
	Ints     []int32
	Strs     []string
}

// MachineState is the captured-at-savepoint slice of machine.Machine: the
// current line and a serializable mirror of the real call-stack frames.
type MachineState struct {
	Line               int
	SavepointCallStack []SerializedFrame
}

// GlobalScope is the persistence-scope record written to
// <save_dir>/global.sav.gz.
type GlobalScope struct {
	SchemaVersion int
	GlobalInts    map[int][]int32
	GlobalStrs    map[int][]string
	Kidoku        []memory.Entry
}

// LocalSave is the persistence-scope record written to one
// <save_dir>/save###.sav.gz slot file.
type LocalSave struct {
	SchemaVersion int
	Header        Header
	LocalInts     map[int][]int32
	LocalStrs     map[int][]string
	Machine       MachineState

	// GraphicsStack is the replay log: a bounded sequence of textual
	// commands (e.g. "LOAD 3 bg.g00", "MOVE 3 100 200") that, replayed in
	// order against a fresh object table, rebuild the state the live
	// graphics stack held at save time.
	GraphicsStack []string
}
