package memory

import "sentra/internal/errs"

// StackBankID addresses the virtual L (int) / K (str) stack banks — a
// reserved bank id that never collides with a configured global/local
// bank, since those are always non-negative.
const StackBankID = -1

// SizeConfig is the minimal seed the memory model needs from the
// configuration collaborator: LoadFrom(config) sizes the banks from it.
// Defined locally so this package stays collaborator-agnostic; internal/collab.Config satisfies it structurally.
type SizeConfig interface {
	IntBankSize(bank int) int
	StrBankSize(bank int) int
	IntBankIDs() []int
	StrBankIDs() []int
}

// Sub identifies a subtree PartialReset can swap wholesale.
type Sub int

const (
	SubGlobalInts Sub = iota
	SubGlobalStrs
	SubLocalInts
	SubLocalStrs
	SubStackBanks
	SubKidokuTable
	SubNames
)

// Banks is the complete memory model: global partition (survives reset,
// persisted outside save slots), local partition (included in save
// slots), and the two virtual stack banks L/K.
type Banks struct {
	GlobalInts map[int]*IntBank
	GlobalStrs map[int]*StrBank
	LocalInts  map[int]*IntBank
	LocalStrs  map[int]*StrBank

	StackInts *StackBank
	StackStrs *StackBank

	Kidoku *KidokuTable

	// Names holds human-readable labels recorded against memory cells by
	// scripted "set name" operations (e.g. character name banks); kept as
	// a flat map rather than a dedicated bank type since it has no
	// bit-width or fixed-size semantics.
	Names map[string]string
}

// NewBanks builds an empty memory model. The stack banks are wired to a
// StackProvider separately (see StackBank.SetProvider) once the call stack
// that will back them exists.
func NewBanks() *Banks {
	return &Banks{
		GlobalInts: make(map[int]*IntBank),
		GlobalStrs: make(map[int]*StrBank),
		LocalInts:  make(map[int]*IntBank),
		LocalStrs:  make(map[int]*StrBank),
		StackInts:  &StackBank{},
		StackStrs:  &StackBank{},
		Kidoku:     NewKidokuTable(),
		Names:      make(map[string]string),
	}
}

// LoadFrom seeds bank sizes from the configuration collaborator. Existing
// contents for banks not named by cfg are left untouched.
func (b *Banks) LoadFrom(cfg SizeConfig) {
	for _, id := range cfg.IntBankIDs() {
		b.GlobalInts[id] = NewIntBank(cfg.IntBankSize(id))
		b.LocalInts[id] = NewIntBank(cfg.IntBankSize(id))
	}
	for _, id := range cfg.StrBankIDs() {
		b.GlobalStrs[id] = NewStrBank(cfg.StrBankSize(id))
		b.LocalStrs[id] = NewStrBank(cfg.StrBankSize(id))
	}
}

// PartialReset swaps one subtree wholesale.
func (b *Banks) PartialReset(sub Sub) {
	switch sub {
	case SubGlobalInts:
		for id, bank := range b.GlobalInts {
			b.GlobalInts[id] = NewIntBank(bank.Size())
		}
	case SubGlobalStrs:
		for id, bank := range b.GlobalStrs {
			b.GlobalStrs[id] = NewStrBank(bank.Size())
		}
	case SubLocalInts:
		for id, bank := range b.LocalInts {
			b.LocalInts[id] = NewIntBank(bank.Size())
		}
	case SubLocalStrs:
		for id, bank := range b.LocalStrs {
			b.LocalStrs[id] = NewStrBank(bank.Size())
		}
	case SubStackBanks:
		// The stack banks hold no state of their own; clearing them means
		// re-pointing at the same provider with nothing to forget, so this
		// is a no-op beyond documenting intent at call sites.
	case SubKidokuTable:
		b.Kidoku = NewKidokuTable()
	case SubNames:
		b.Names = make(map[string]string)
	}
}

// ReadInt resolves bank to the stack bank (StackBankID), a local bank, or
// a global bank, in that preference order, and reads index from it. An
// unrecognized bank id fails with BadIndex, same as an out-of-range index
// within a recognized bank.
func (b *Banks) ReadInt(bank, index int) (int32, error) {
	if bank == StackBankID {
		return b.StackInts.ReadInt(index)
	}
	if ib, ok := b.LocalInts[bank]; ok {
		return ib.Read(index)
	}
	if ib, ok := b.GlobalInts[bank]; ok {
		return ib.Read(index)
	}
	return 0, errs.New(errs.BadIndex, "unknown integer bank %d", bank)
}

func (b *Banks) WriteInt(bank, index int, value int32) error {
	if bank == StackBankID {
		return b.StackInts.WriteInt(index, value)
	}
	if ib, ok := b.LocalInts[bank]; ok {
		return ib.Write(index, value)
	}
	if ib, ok := b.GlobalInts[bank]; ok {
		return ib.Write(index, value)
	}
	return errs.New(errs.BadIndex, "unknown integer bank %d", bank)
}

func (b *Banks) ReadStr(bank, index int) (string, error) {
	if bank == StackBankID {
		return b.StackStrs.ReadStr(index)
	}
	if sb, ok := b.LocalStrs[bank]; ok {
		return sb.Read(index)
	}
	if sb, ok := b.GlobalStrs[bank]; ok {
		return sb.Read(index)
	}
	return "", errs.New(errs.BadIndex, "unknown string bank %d", bank)
}

func (b *Banks) WriteStr(bank, index int, value string) error {
	if bank == StackBankID {
		return b.StackStrs.WriteStr(index, value)
	}
	if sb, ok := b.LocalStrs[bank]; ok {
		return sb.Write(index, value)
	}
	if sb, ok := b.GlobalStrs[bank]; ok {
		return sb.Write(index, value)
	}
	return errs.New(errs.BadIndex, "unknown string bank %d", bank)
}

// ReadIntWidth and WriteIntWidth apply a bit-width view to an integer
// bank; the stack banks have no bit-width views since they hold one cell
// per recursion frame rather than packed flags.
func (b *Banks) ReadIntWidth(bank, width, index int) (int32, error) {
	if ib, ok := b.LocalInts[bank]; ok {
		return ib.ReadWidth(width, index)
	}
	if ib, ok := b.GlobalInts[bank]; ok {
		return ib.ReadWidth(width, index)
	}
	return 0, errs.New(errs.BadIndex, "unknown integer bank %d", bank)
}

func (b *Banks) WriteIntWidth(bank, width, index int, value int32) error {
	if ib, ok := b.LocalInts[bank]; ok {
		return ib.WriteWidth(width, index, value)
	}
	if ib, ok := b.GlobalInts[bank]; ok {
		return ib.WriteWidth(width, index, value)
	}
	return errs.New(errs.BadIndex, "unknown integer bank %d", bank)
}
