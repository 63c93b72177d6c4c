// Package collab defines the named-interface contracts to every
// collaborator the core treats as external: the bytecode archive, the
// INI configuration, and the text/graphics/audio presentation layer. No
// implementation lives here — only the contracts, each a callback-shaped
// seam rather than a concrete loader.
package collab

import "sentra/internal/bytecode"

// Scriptor consumes the bytecode archive read-only.
type Scriptor interface {
	Load(scenario int, offset int) (bytecode.Location, error)
	LoadEntry(scenario, entry int) (bytecode.Location, error)
	HasNext(loc bytecode.Location) bool
	Next(loc bytecode.Location) (bytecode.Location, error)
	ResolveInstruction(loc bytecode.Location) (bytecode.Instruction, error)
	GetScenarioConfig(scenario int) (bytecode.ScenarioConfig, error)
}

// Config exposes the INI-derived configuration keys the core consumes,
// typed rather than stringly — the INI parser itself stays external. It
// also satisfies memory.SizeConfig structurally.
type Config interface {
	IntBankSize(bank int) int
	StrBankSize(bank int) int
	IntBankIDs() []int
	StrBankIDs() []int

	SeenStart() int
	SeenMenu() int
	CancelcallMod() int
	Cancelcall() int
	DLL(n int) (string, bool)
	WindowAttr() [8]int
	InitMessageSpeed() int
	MessageKeyWaitUse() bool
	MessageKeyWaitTime() int
	SavepointMessage() bool
	SavepointSeentop() bool
	SavepointSelcom() bool
	ObjectMax() int
	Object(n int) (string, bool)
	Shake(n int) ([]int, bool)
	ColorTable() []uint32
	Selbtn(n int) (SelbtnEntry, bool)
	ButtonObjAction() int
}

// SelbtnEntry is one #SELBTN.<n> configuration row — a graphical-select
// button layout slot.
type SelbtnEntry struct {
	X, Y, Width, Height int
	NormalPattern       int
	HoverPattern        int
	PressedPattern      int
	DisabledPattern     int
}

// TextPage is the current page of a text window.
type TextPage interface {
	NumberOfCharsOnPage() int
	InRubyGloss() bool
	IsFull() bool
	Character(ch, rest string) bool
	Name(name, nextChar string)
	FontSize() int
	FontColour() uint32
	HardBreak()
	ResetIndentation()
	SetInsertionPointX(x int)
	SetInsertionPointY(y int)
}

// TextSystem is the text collaborator contract.
type TextSystem interface {
	GetCurrentPage() TextPage
	GetAutoTime(chars int) int
	SetKidokuRead(read bool)
	SetInPauseState(v bool)
	SetInSelectionMode(v bool)
	Snapshot()
	NewPageOnWindow(n int)
	HideAllTextWindows()

	MessageSpeed() int
	SetMessageSpeed(ms int)
	MessageNoWait() bool
	ScriptMessageNoWait() bool
	CtrlKeySkip() bool
	AutoMode() bool
}

// Surface is an opaque, already-decoded drawable handle — the concrete
// pixel data and decoder live entirely outside this module.
type Surface interface {
	Width() int
	Height() int
}

// AudioChannel is a playback handle a long operation can poll/stop; actual
// mixing happens on the collaborator's own thread.
type AudioChannel interface {
	IsPlaying() bool
	Stop()
}
