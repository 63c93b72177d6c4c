// Package audio implements the PCM sample-buffer value type handed across
// the collaborator boundary: a small tagged variant over seven fixed
// sample formats with slicing, appending, and format-checked concatenation.
// It holds no playback or decode logic of its own — mixing and device I/O
// belong entirely to the audio collaborator outside this module.
package audio

import "sentra/internal/errs"

// Format is the closed set of PCM sample encodings a Buffer can hold.
type Format int

const (
	FormatU8 Format = iota
	FormatS8
	FormatS16
	FormatS32
	FormatS64
	FormatFloat
	FormatDouble
)

// Spec describes the PCM stream shape a Buffer's samples conform to.
type Spec struct {
	SampleRate   int
	Format       Format
	ChannelCount int
}

// bytesPerSample returns the storage width of one sample in the given
// format.
func bytesPerSample(f Format) int {
	switch f {
	case FormatU8, FormatS8:
		return 1
	case FormatS16:
		return 2
	case FormatS32, FormatFloat:
		return 4
	case FormatS64, FormatDouble:
		return 8
	default:
		return 0
	}
}

// Buffer is a tagged PCM sample buffer: exactly one of the typed slices
// below is populated, selected by Spec.Format.
type Buffer struct {
	Spec Spec

	u8  []uint8
	s8  []int8
	s16 []int16
	s32 []int32
	s64 []int64
	f32 []float32
	f64 []float64
}

// NewBuffer constructs an empty buffer for the given spec, with its
// backing slice initialized according to spec.Format.
func NewBuffer(spec Spec) *Buffer {
	b := &Buffer{Spec: spec}
	b.Clear()
	return b
}

// Clear resets the buffer's backing storage to empty, keeping Spec.
func (b *Buffer) Clear() {
	switch b.Spec.Format {
	case FormatU8:
		b.u8 = []uint8{}
	case FormatS8:
		b.s8 = []int8{}
	case FormatS16:
		b.s16 = []int16{}
	case FormatS32:
		b.s32 = []int32{}
	case FormatS64:
		b.s64 = []int64{}
	case FormatFloat:
		b.f32 = []float32{}
	case FormatDouble:
		b.f64 = []float64{}
	}
}

// SampleCount returns the number of samples currently stored.
func (b *Buffer) SampleCount() int {
	switch b.Spec.Format {
	case FormatU8:
		return len(b.u8)
	case FormatS8:
		return len(b.s8)
	case FormatS16:
		return len(b.s16)
	case FormatS32:
		return len(b.s32)
	case FormatS64:
		return len(b.s64)
	case FormatFloat:
		return len(b.f32)
	case FormatDouble:
		return len(b.f64)
	default:
		return 0
	}
}

// ByteLength returns SampleCount() * the byte width of one sample in this
// buffer's format, or 0 for an empty buffer.
func (b *Buffer) ByteLength() int {
	n := b.SampleCount()
	if n == 0 {
		return 0
	}
	return n * bytesPerSample(b.Spec.Format)
}

// resolveIndex converts a possibly-negative Slice bound to an absolute
// index relative to the buffer's current length, following the
// Python/NumPy convention: negative values count back from the end.
func resolveIndex(v, length int) int {
	if v < 0 {
		return length + v
	}
	return v
}

// Slice returns the samples at indices [from, to) stepping by step,
// following the Python/NumPy slicing convention: from/to are resolved
// against the current length when negative, and step=0 means "+1 if
// from<to else -1". from must resolve within [0, length) and to within
// [0, length], or Slice fails with BadIndex.
func (b *Buffer) Slice(from, to, step int) (*Buffer, error) {
	n := b.SampleCount()
	from = resolveIndex(from, n)
	to = resolveIndex(to, n)

	if from < 0 || from >= n || to < 0 || to > n {
		return nil, errs.New(errs.BadIndex, "audio slice [%d:%d] out of range for %d samples", from, to, n)
	}

	if step == 0 {
		if from < to {
			step = 1
		} else {
			step = -1
		}
	}

	out := NewBuffer(b.Spec)
	switch b.Spec.Format {
	case FormatU8:
		for i := from; (step > 0 && i < to) || (step < 0 && i > to); i += step {
			out.u8 = append(out.u8, b.u8[i])
		}
	case FormatS8:
		for i := from; (step > 0 && i < to) || (step < 0 && i > to); i += step {
			out.s8 = append(out.s8, b.s8[i])
		}
	case FormatS16:
		for i := from; (step > 0 && i < to) || (step < 0 && i > to); i += step {
			out.s16 = append(out.s16, b.s16[i])
		}
	case FormatS32:
		for i := from; (step > 0 && i < to) || (step < 0 && i > to); i += step {
			out.s32 = append(out.s32, b.s32[i])
		}
	case FormatS64:
		for i := from; (step > 0 && i < to) || (step < 0 && i > to); i += step {
			out.s64 = append(out.s64, b.s64[i])
		}
	case FormatFloat:
		for i := from; (step > 0 && i < to) || (step < 0 && i > to); i += step {
			out.f32 = append(out.f32, b.f32[i])
		}
	case FormatDouble:
		for i := from; (step > 0 && i < to) || (step < 0 && i > to); i += step {
			out.f64 = append(out.f64, b.f64[i])
		}
	}
	return out, nil
}

// sameShape reports whether a and b share a Spec and an underlying sample
// type (the two checks the original Concat performs separately before
// deciding any buffers are compatible).
func sameShape(a, b *Buffer) bool {
	return a.Spec == b.Spec
}

// Concat appends the samples of every buffer in bufs (in order) onto a
// freshly allocated buffer sharing the first one's Spec. All buffers must
// share an identical Spec; Concat fails with BadFormat at the first
// mismatch. Concat requires at least one buffer.
func Concat(bufs ...*Buffer) (*Buffer, error) {
	if len(bufs) == 0 {
		return nil, errs.New(errs.BadFormat, "Concat requires at least one buffer")
	}
	first := bufs[0]
	for i, b := range bufs[1:] {
		if !sameShape(first, b) {
			return nil, errs.New(errs.BadFormat, "Concat: buffer %d has a different spec than buffer 0", i+1)
		}
	}

	out := NewBuffer(first.Spec)
	for _, b := range bufs {
		switch first.Spec.Format {
		case FormatU8:
			out.u8 = append(out.u8, b.u8...)
		case FormatS8:
			out.s8 = append(out.s8, b.s8...)
		case FormatS16:
			out.s16 = append(out.s16, b.s16...)
		case FormatS32:
			out.s32 = append(out.s32, b.s32...)
		case FormatS64:
			out.s64 = append(out.s64, b.s64...)
		case FormatFloat:
			out.f32 = append(out.f32, b.f32...)
		case FormatDouble:
			out.f64 = append(out.f64, b.f64...)
		}
	}
	return out, nil
}

// Append extends b in place with rhs's samples. An empty b simply adopts
// rhs's contents; an empty rhs leaves b untouched; otherwise Append
// delegates to Concat and fails with BadFormat on a spec mismatch.
func (b *Buffer) Append(rhs *Buffer) error {
	if b.SampleCount() == 0 {
		*b = *rhs
		return nil
	}
	if rhs.SampleCount() == 0 {
		return nil
	}
	merged, err := Concat(b, rhs)
	if err != nil {
		return err
	}
	*b = *merged
	return nil
}

// SetU8/SetS8/... load a buffer's backing slice directly, setting Spec.Format
// to match. Used by collaborators handing decoded PCM data across the
// boundary and by tests constructing fixtures.

func (b *Buffer) SetU8(spec Spec, data []uint8) {
	spec.Format = FormatU8
	b.Spec = spec
	b.u8 = data
}

func (b *Buffer) SetS8(spec Spec, data []int8) {
	spec.Format = FormatS8
	b.Spec = spec
	b.s8 = data
}

func (b *Buffer) SetS16(spec Spec, data []int16) {
	spec.Format = FormatS16
	b.Spec = spec
	b.s16 = data
}

func (b *Buffer) SetS32(spec Spec, data []int32) {
	spec.Format = FormatS32
	b.Spec = spec
	b.s32 = data
}

func (b *Buffer) SetS64(spec Spec, data []int64) {
	spec.Format = FormatS64
	b.Spec = spec
	b.s64 = data
}

func (b *Buffer) SetFloat(spec Spec, data []float32) {
	spec.Format = FormatFloat
	b.Spec = spec
	b.f32 = data
}

func (b *Buffer) SetDouble(spec Spec, data []float64) {
	spec.Format = FormatDouble
	b.Spec = spec
	b.f64 = data
}

// U8/S8/S16/S32/S64/Float/Double expose the underlying typed slice for
// read access; only the slice matching Spec.Format holds the buffer's
// samples. The Set methods do not clear the slices of other formats.

func (b *Buffer) U8() []uint8      { return b.u8 }
func (b *Buffer) S8() []int8       { return b.s8 }
func (b *Buffer) S16() []int16     { return b.s16 }
func (b *Buffer) S32() []int32     { return b.s32 }
func (b *Buffer) S64() []int64     { return b.s64 }
func (b *Buffer) Float() []float32 { return b.f32 }
func (b *Buffer) Double() []float64 { return b.f64 }
