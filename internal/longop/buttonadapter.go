package longop

import (
	"sentra/internal/event"
	"sentra/internal/object"
)

// ObjectButton adapts a graphics object flagged as a button
// (object.Params.IsButton) to the Button interface ButtonObjectSelect
// needs, grounded on button_object_select_long_operation.cpp's use of
// GraphicsObject's button fields and DstRect hit-testing. Rect is the
// object's already-computed on-screen destination rect; computing that
// from Params/Drawer is the renderer's job, not this package's.
type ObjectButton struct {
	Obj  *object.Object
	Rect object.Rect
}

func (b *ObjectButton) Number() int { return b.Obj.Params.ButtonNumber }

func (b *ObjectButton) Contains(p event.Point) bool {
	return p.X >= b.Rect.X && p.X < b.Rect.X+b.Rect.Width &&
		p.Y >= b.Rect.Y && p.Y < b.Rect.Y+b.Rect.Height
}

// button override pattern slots, matching BTNOBJ.ACTION's
// (normal, hit, push) index convention.
const (
	btnPatternNormal = 0
	btnPatternHover  = 1
	btnPatternPushed = 2
)

func (b *ObjectButton) SetOverride(state ButtonOverride) {
	switch state {
	case OverrideNormal:
		b.Obj.Params.ButtonOverrides[btnPatternNormal] = b.Obj.Params.PatternNumber
	case OverrideHover:
		b.Obj.Params.ButtonOverrides[btnPatternHover] = b.Obj.Params.PatternNumber
	case OverridePressed:
		b.Obj.Params.ButtonOverrides[btnPatternPushed] = b.Obj.Params.PatternNumber
	}
}

func (b *ObjectButton) ClearOverride() {
	b.Obj.Params.ButtonOverrides = [3]int{}
}

// ButtonsInGroup collects every button-flagged object in objs (top-level
// foreground slots plus, for ParentLayer drawers, their children) whose
// ButtonGroup matches group, pairing each with its screen rect from rects
// (keyed by object number, or by parent*1000+child for a child button —
// the same addressing ButtonObjectSelectLongOperation uses).
func ButtonsInGroup(objs map[int]*object.Object, rects map[int]object.Rect, group int) []Button {
	var out []Button
	for n, obj := range objs {
		if obj.Params.IsButton && obj.Params.ButtonGroup == group {
			out = append(out, &ObjectButton{Obj: obj, Rect: rects[n]})
		}
		if parent, ok := obj.Drawer.(object.ParentLayer); ok {
			for ci := range parent.Children {
				child := &parent.Children[ci]
				if child.Params.IsButton && child.Params.ButtonGroup == group {
					out = append(out, &ObjectButton{Obj: child, Rect: rects[n*1000+ci]})
				}
			}
		}
	}
	return out
}
