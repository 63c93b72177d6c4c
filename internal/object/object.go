package object

// Object is one graphics-object slot: its parameter set, drawer, optional
// animator, and any in-flight mutators.
type Object struct {
	Params   Params
	Drawer   Drawer
	Animator Animator
	Mutators []Mutator
}

// FrameTimeMs returns the frame-time table for this object's drawer, or nil
// if it has none to animate against.
func (o *Object) FrameTimeMs() []int {
	switch d := o.Drawer.(type) {
	case AnimationSurface:
		return d.FrameTime
	case DriftDrawer:
		return d.FrameTime
	default:
		return nil
	}
}

// Execute advances this object's animator and steps every attached
// mutator in insertion order, removing the ones that complete.
func (o *Object) Execute(nowMs int64) {
	o.Animator.Execute(nowMs, o.FrameTimeMs())
	if o.Animator.Cleared() {
		o.Drawer = nil
	}

	if len(o.Mutators) == 0 {
		return
	}
	live := o.Mutators[:0]
	for _, m := range o.Mutators {
		if !m.Step(nowMs) {
			live = append(live, m)
		}
	}
	o.Mutators = live
}

// AddMutator attaches a new mutator, appended after any already running for
// this object — mutators evaluate in insertion order.
func (o *Object) AddMutator(m Mutator) {
	o.Mutators = append(o.Mutators, m)
}

// EndMutation snaps and removes every mutator matching (repno, name).
func (o *Object) EndMutation(repno int, name string) {
	live := o.Mutators[:0]
	for _, m := range o.Mutators {
		if m.Matches(repno, name) {
			m.SetToEnd()
			continue
		}
		live = append(live, m)
	}
	o.Mutators = live
}

// Clone deep-copies this object, including its mutators — used by
// ParentLayer composition and save/restore's graphics-stack replay.
func (o Object) Clone() Object {
	cp := o
	cp.Mutators = nil
	for _, m := range o.Mutators {
		cp.Mutators = append(cp.Mutators, m.Clone())
	}
	if p, ok := o.Drawer.(ParentLayer); ok {
		children := make([]Object, len(p.Children))
		for i, c := range p.Children {
			children[i] = c.Clone()
		}
		cp.Drawer = ParentLayer{Children: children}
	}
	return cp
}
