package object

import "math"

// Curve is the closed set of interpolation curves a Mutator can apply:
// Linear, two log-based eases, and an Identity curve for mutators that
// snap directly to their target value with no easing.
type Curve int

const (
	Linear Curve = iota
	LogEaseOut
	LogEaseIn
	Identity
)

// Interpolate returns the value amount*progress(current) for range
// [start,end]: Linear is proportional, LogEaseOut/LogEaseIn apply a
// log2-based ease computed from the distance to the near/far endpoint
// respectively, and values outside [start,end] clamp to the
// corresponding endpoint.
func Interpolate(start, current, end, amount float64, curve Curve) float64 {
	if current <= start {
		return 0
	}
	if current >= end {
		return amount
	}

	span := end - start
	switch curve {
	case Linear:
		return amount * (current - start) / span
	case LogEaseOut:
		return amount * math.Log(1+(current-start)/span) / math.Log(2)
	case LogEaseIn:
		return amount * math.Log(1+(end-current)/span) / math.Log(2)
	case Identity:
		return amount
	default:
		return amount * (current - start) / span
	}
}

// Mutator is an in-progress parameter animation attached to an object,
// evaluated once per tick in insertion order.
type Mutator interface {
	Repno() int
	Name() string
	// Step advances the mutator for the given tick (milliseconds on the
	// clock its creation time is measured on) and reports whether it has
	// completed; a completed mutator is auto-removed by its owning object.
	Step(nowMs int64) bool
	// Matches reports whether this mutator is the one EndObjectMutation and
	// family should snap to its end value.
	Matches(repno int, name string) bool
	SetToEnd()
	Clone() Mutator
}

// OneIntMutator animates a single int field via setter, over [start,end]
// along curve: the setter only starts firing once creation+delay has
// elapsed, and the mutator reports done once creation+delay+duration has.
type OneIntMutator struct {
	RepnoV     int
	NameV      string
	CreatedMs  int64
	DurationMs int64
	DelayMs    int64
	CurveV     Curve
	Start, End int

	Setter func(v int)
}

func (m *OneIntMutator) Repno() int  { return m.RepnoV }
func (m *OneIntMutator) Name() string { return m.NameV }

func (m *OneIntMutator) Matches(repno int, name string) bool {
	return m.RepnoV == repno && m.NameV == name
}

func (m *OneIntMutator) Step(nowMs int64) bool {
	elapsed := nowMs - m.CreatedMs
	if elapsed > m.DelayMs {
		m.apply(elapsed)
	}
	return elapsed > m.DelayMs+m.DurationMs
}

func (m *OneIntMutator) apply(elapsed int64) {
	if m.DurationMs <= 0 {
		m.Setter(m.End)
		return
	}
	amount := float64(m.End - m.Start)
	progress := Interpolate(0, float64(elapsed-m.DelayMs), float64(m.DurationMs), amount, m.CurveV)
	m.Setter(m.Start + int(progress+0.5))
}

func (m *OneIntMutator) SetToEnd() { m.Setter(m.End) }

func (m *OneIntMutator) Clone() Mutator {
	cp := *m
	return &cp
}
