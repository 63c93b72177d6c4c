package object

import "sentra/internal/errs"

// LayerKind selects between the two object layers an object can live in.
type LayerKind int

const (
	Foreground LayerKind = iota
	Background
)

// DefaultObjectCeiling is the object-number ceiling NewLayer uses when
// given a ceiling of zero or less. This package does not read OBJECT_MAX
// from collab.Config; a different ceiling is passed to NewLayer.
const DefaultObjectCeiling = 256

// Layer is a lazily-allocated, object-number-indexed array of graphics
// objects — foreground or background. Slots start unset and are
// materialized by the first Get or Set on them.
type Layer struct {
	Kind    LayerKind
	Ceiling int
	slots   map[int]*Object
}

// NewLayer builds an empty layer with the given object-number ceiling.
func NewLayer(kind LayerKind, ceiling int) *Layer {
	if ceiling <= 0 {
		ceiling = DefaultObjectCeiling
	}
	return &Layer{Kind: kind, Ceiling: ceiling, slots: make(map[int]*Object)}
}

// Get returns the object at n. An unset slot is filled with a fresh object
// (NewParams defaults, nil Drawer), which is stored and returned; this is
// not an error.
func (l *Layer) Get(n int) (*Object, error) {
	if n < 0 || n >= l.Ceiling {
		return nil, errs.New(errs.BadIndex, "object number %d out of range [0,%d)", n, l.Ceiling)
	}
	obj, ok := l.slots[n]
	if !ok {
		obj = &Object{Params: NewParams()}
		l.slots[n] = obj
	}
	return obj, nil
}

// Set overwrites the object at n wholesale.
func (l *Layer) Set(n int, obj Object) error {
	if n < 0 || n >= l.Ceiling {
		return errs.New(errs.BadIndex, "object number %d out of range [0,%d)", n, l.Ceiling)
	}
	l.slots[n] = &obj
	return nil
}

// Clear empties the slot at n back to unset.
func (l *Layer) Clear(n int) { delete(l.slots, n) }

// Occupied returns the object numbers with a materialized slot, in
// ascending order.
func (l *Layer) Occupied() []int {
	out := make([]int, 0, len(l.slots))
	for n := range l.slots {
		out = append(out, n)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// Execute ticks every occupied slot's animator and mutators.
func (l *Layer) Execute(nowMs int64) {
	for _, obj := range l.slots {
		obj.Execute(nowMs)
	}
}

// WipeCopy performs scene-transition promotion: every
// foreground object whose WipeCopy flag is clear is reset to neutral
// parameters with its drawer freed, then each background object moves into
// the corresponding foreground slot (the background layer ends up empty).
func WipeCopy(fg, bg *Layer) {
	for _, obj := range fg.slots {
		if !obj.Params.WipeCopy {
			obj.Params.Reset()
			obj.Drawer = nil
			obj.Animator = Animator{}
			obj.Mutators = nil
		}
	}
	for n, obj := range bg.slots {
		fg.slots[n] = obj
		delete(bg.slots, n)
	}
}
