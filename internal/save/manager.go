package save

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"sentra/internal/callstack"
	"sentra/internal/errs"
	"sentra/internal/machine"
	"sentra/internal/memory"
)

// Manager owns one game's save directory. It satisfies
// machine.SavepointSink.
type Manager struct {
	baseDir       string
	graphicsStack []string
	lastSavepoint *MachineState
}

// NewManager builds a Manager rooted at dir (conventionally
// $HOME/.rlvm/<sanitized REGNAME>/, a concern owned by internal/registry).
func NewManager(dir string) *Manager {
	return &Manager{baseDir: dir}
}

func (m *Manager) slotPath(slot int) string {
	return filepath.Join(m.baseDir, fmt.Sprintf("save%03d.sav.gz", slot))
}

func (m *Manager) globalPath() string {
	return filepath.Join(m.baseDir, "global.sav.gz")
}

// AppendGraphicsCommand records one stack-building graphics command to the
// replay log, evicting the oldest entry once the log exceeds
// MaxGraphicsStackEntries.
func (m *Manager) AppendGraphicsCommand(cmd string) {
	m.graphicsStack = append(m.graphicsStack, cmd)
	if over := len(m.graphicsStack) - MaxGraphicsStackEntries; over > 0 {
		m.graphicsStack = m.graphicsStack[over:]
	}
}

// GraphicsStack returns a copy of the current replay log.
func (m *Manager) GraphicsStack() []string {
	return append([]string(nil), m.graphicsStack...)
}

// TakeSavepoint satisfies machine.SavepointSink: it snapshots the current
// line and every real call-stack frame (long-operation frames are skipped,
// since they carry no serializable state) into the buffer the next Save
// call will persist.
func (m *Manager) TakeSavepoint(mach *machine.Machine) error {
	frames := mach.Stack.Frames()
	snap := make([]SerializedFrame, 0, len(frames))
	// Frames() returns top-to-bottom; store root-to-top for readability.
	for i := len(frames) - 1; i >= 0; i-- {
		f := frames[i]
		if f.Kind == callstack.LongOp {
			continue
		}
		sf := SerializedFrame{Scenario: f.Location.Scenario, Offset: f.Location.Offset, Kind: int(f.Kind)}
		if f.Ints != nil {
			sf.Ints = make([]int32, f.Ints.Size())
			for idx := range sf.Ints {
				v, _ := f.Ints.Read(idx)
				sf.Ints[idx] = v
			}
		}
		if f.Strs != nil {
			sf.Strs = make([]string, f.Strs.Size())
			for idx := range sf.Strs {
				v, _ := f.Strs.Read(idx)
				sf.Strs[idx] = v
			}
		}
		snap = append(snap, sf)
	}
	m.lastSavepoint = &MachineState{Line: mach.Line(), SavepointCallStack: snap}
	return nil
}

// SaveGlobal writes the global persistence scope: global memory banks and
// the kidoku table.
func (m *Manager) SaveGlobal(mach *machine.Machine) error {
	g := GlobalScope{
		SchemaVersion: SchemaVersion,
		GlobalInts:    snapshotInts(mach.Banks.GlobalInts),
		GlobalStrs:    snapshotStrs(mach.Banks.GlobalStrs),
		Kidoku:        mach.Banks.Kidoku.Entries(),
	}
	if err := os.MkdirAll(m.baseDir, 0o755); err != nil {
		return errs.Wrap(errs.IOError, err, "creating save directory %s", m.baseDir)
	}
	if err := writeCompressed(m.globalPath(), &g); err != nil {
		return errs.Wrap(errs.IOError, err, "writing global save to %s", m.globalPath())
	}
	return nil
}

// LoadGlobal restores the global persistence scope onto mach. A corrupt or
// unreadable global file quarantines the save directory and surfaces
// CorruptedSave.
func (m *Manager) LoadGlobal(mach *machine.Machine) error {
	var g GlobalScope
	if err := readCompressed(m.globalPath(), &g); err != nil {
		return m.failLoad(err, "global save")
	}
	restoreInts(mach.Banks.GlobalInts, g.GlobalInts)
	restoreStrs(mach.Banks.GlobalStrs, g.GlobalStrs)
	mach.Banks.Kidoku.LoadEntries(g.Kidoku)
	return nil
}

// Save writes slot with the machine's local memory, the most recent
// savepoint (taken automatically if none has been captured yet), and the
// current graphics-stack replay log.
func (m *Manager) Save(slot int, mach *machine.Machine, title, subtitle string) error {
	if m.lastSavepoint == nil {
		if err := m.TakeSavepoint(mach); err != nil {
			return err
		}
	}
	local := LocalSave{
		SchemaVersion: SchemaVersion,
		Header: Header{
			ID:        uuid.New(),
			Title:     title,
			CreatedAt: time.Now(),
			Subtitle:  subtitle,
		},
		LocalInts:     snapshotInts(mach.Banks.LocalInts),
		LocalStrs:     snapshotStrs(mach.Banks.LocalStrs),
		Machine:       *m.lastSavepoint,
		GraphicsStack: m.GraphicsStack(),
	}
	if err := os.MkdirAll(m.baseDir, 0o755); err != nil {
		return errs.Wrap(errs.IOError, err, "creating save directory %s", m.baseDir)
	}
	if err := writeCompressed(m.slotPath(slot), &local); err != nil {
		return errs.Wrap(errs.IOError, err, "writing save slot %d", slot)
	}
	return nil
}

// Load reads slot, returning its decoded record. Restoring it onto a live
// machine is the caller's job: clear the live stack, call LoadGlobal,
// then apply LocalSave's banks via ApplyLocalMemory and replay
// GraphicsStack against a fresh object table.
func (m *Manager) Load(slot int) (*LocalSave, error) {
	var local LocalSave
	if err := readCompressed(m.slotPath(slot), &local); err != nil {
		return nil, m.failLoad(err, fmt.Sprintf("save slot %d", slot))
	}
	return &local, nil
}

// ApplyLocalMemory restores a loaded LocalSave's banks onto mach, leaving
// call-stack and graphics-stack replay to the caller.
func ApplyLocalMemory(mach *machine.Machine, local *LocalSave) {
	restoreInts(mach.Banks.LocalInts, local.LocalInts)
	restoreStrs(mach.Banks.LocalStrs, local.LocalStrs)
}

// RebuildCallStack pushes one fresh real frame per SerializedFrame onto
// stack, in root-to-top order, restoring each frame's L/K contents. It
// never reconstructs long-operation frames — those are produced instead by
// replaying the graphics stack and any other collaborator-driven state.
func RebuildCallStack(stack *callstack.Stack, frames []SerializedFrame) {
	for _, sf := range frames {
		frame := callstack.NewFrame(
			callstack.Location{Scenario: sf.Scenario, Offset: sf.Offset},
			callstack.Kind(sf.Kind),
			len(sf.Ints),
			len(sf.Strs),
		)
		for i, v := range sf.Ints {
			_ = frame.Ints.Write(i, v)
		}
		for i, v := range sf.Strs {
			_ = frame.Strs.Write(i, v)
		}
		stack.Push(frame)
	}
}

// failLoad quarantines the save directory (moving it aside to
// <dir>.old_corrupted_data to preserve forensic state) and wraps cause as
// CorruptedSave.
func (m *Manager) failLoad(cause error, what string) error {
	if qerr := os.Rename(m.baseDir, m.baseDir+".old_corrupted_data"); qerr != nil && !os.IsNotExist(qerr) {
		return errs.Wrap(errs.IOError, qerr, "quarantining corrupted save directory %s", m.baseDir)
	}
	return errs.Wrap(errs.CorruptedSave, cause, "%s failed to load", what)
}

func writeCompressed(path string, v any) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "save-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	gz := gzip.NewWriter(tmp)
	if err := gob.NewEncoder(gz).Encode(v); err != nil {
		tmp.Close()
		return err
	}
	if err := gz.Close(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

func readCompressed(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	gz, err := gzip.NewReader(f)
	if err != nil {
		return err
	}
	defer gz.Close()
	return gob.NewDecoder(gz).Decode(v)
}

func snapshotInts(banks map[int]*memory.IntBank) map[int][]int32 {
	out := make(map[int][]int32, len(banks))
	for id, b := range banks {
		vals := make([]int32, b.Size())
		for i := range vals {
			v, _ := b.Read(i)
			vals[i] = v
		}
		out[id] = vals
	}
	return out
}

func snapshotStrs(banks map[int]*memory.StrBank) map[int][]string {
	out := make(map[int][]string, len(banks))
	for id, b := range banks {
		vals := make([]string, b.Size())
		for i := range vals {
			v, _ := b.Read(i)
			vals[i] = v
		}
		out[id] = vals
	}
	return out
}

func restoreInts(banks map[int]*memory.IntBank, data map[int][]int32) {
	for id, vals := range data {
		b, ok := banks[id]
		if !ok {
			b = memory.NewIntBank(len(vals))
			banks[id] = b
		}
		for i, v := range vals {
			if i < b.Size() {
				_ = b.Write(i, v)
			}
		}
	}
}

func restoreStrs(banks map[int]*memory.StrBank, data map[int][]string) {
	for id, vals := range data {
		b, ok := banks[id]
		if !ok {
			b = memory.NewStrBank(len(vals))
			banks[id] = b
		}
		for i, v := range vals {
			if i < b.Size() {
				_ = b.Write(i, v)
			}
		}
	}
}

var _ machine.SavepointSink = (*Manager)(nil)
