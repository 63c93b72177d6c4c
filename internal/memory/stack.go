package memory

import "sentra/internal/errs"

// FrameStorage is satisfied by a call-stack frame: it exposes the per-frame
// int/string banks that back the L/K stack banks. Defined here rather than
// in internal/callstack so that package does not need to import memory's
// stack-bank adapter, avoiding an import cycle — memory only depends on
// this small structural interface, never on callstack itself.
type FrameStorage interface {
	IntBank() *IntBank
	StrBank() *StrBank
}

// StackProvider locates the topmost "real" (non-long-operation) call frame.
// internal/callstack.Stack implements this.
type StackProvider interface {
	TopRealFrameStorage() (FrameStorage, bool)
}

// StackBank adapts reads/writes of the virtual L (ints) / K (strings) banks
// to whatever frame is currently topmost-real on the call stack: on each
// access it asks the call stack for its topmost real frame and delegates
// to that frame's storage.
type StackBank struct {
	provider StackProvider
}

func NewStackBank(provider StackProvider) *StackBank {
	return &StackBank{provider: provider}
}

// SetProvider allows the adapter to be constructed before the call stack
// that will back it exists, and wired together afterward.
func (s *StackBank) SetProvider(p StackProvider) { s.provider = p }

func (s *StackBank) ReadInt(index int) (int32, error) {
	fs, ok := s.provider.TopRealFrameStorage()
	if !ok {
		return 0, nil // "empty-readable as zero ... when no real frame exists"
	}
	return fs.IntBank().Read(index)
}

func (s *StackBank) WriteInt(index int, value int32) error {
	fs, ok := s.provider.TopRealFrameStorage()
	if !ok {
		return errs.New(errs.NoStackFrame, "write to stack int bank with no real call frame")
	}
	return fs.IntBank().Write(index, value)
}

func (s *StackBank) ReadStr(index int) (string, error) {
	fs, ok := s.provider.TopRealFrameStorage()
	if !ok {
		return "", nil
	}
	return fs.StrBank().Read(index)
}

func (s *StackBank) WriteStr(index int, value string) error {
	fs, ok := s.provider.TopRealFrameStorage()
	if !ok {
		return errs.New(errs.NoStackFrame, "write to stack str bank with no real call frame")
	}
	return fs.StrBank().Write(index, value)
}
