package pact

import "fmt"

type Layout int

const (
	RowMajor Layout = iota
	ColumnMajor
)

func (l Layout) String() string {
	switch l {
	case RowMajor:
		return "row-major"
	case ColumnMajor:
		return "column-major"
	default:
		return "unknown"
	}
}

// View is a bounds-checked multi-dimensional window over a flat float64
// buffer. The layout decides which index varies fastest.
type View struct {
	Name   string
	Shape  []int
	Layout Layout
	Data   []float64
}

func NewView(name string, data []float64, layout Layout, shape ...int) (View, error) {
	size := 1
	for _, d := range shape {
		if d < 0 {
			return View{}, &ArrayError{Name: name, Reason: fmt.Sprintf("negative dimension in shape %v", shape)}
		}
		size *= d
	}
	if len(data) < size {
		return View{}, &SizeError{Name: name, Want: size, Got: len(data)}
	}
	return View{Name: name, Shape: shape, Layout: layout, Data: data[:size]}, nil
}

// Offset returns the flat position of idx.
func (v View) Offset(idx ...int) (int, error) {
	if len(idx) != len(v.Shape) {
		return 0, &ArrayError{Name: v.Name, Reason: fmt.Sprintf("rank %d indexed with %d coordinates", len(v.Shape), len(idx))}
	}
	offset := 0
	stride := 1
	for k := range idx {
		dim := k
		if v.Layout == RowMajor {
			dim = len(idx) - 1 - k
		}
		if idx[dim] < 0 || idx[dim] >= v.Shape[dim] {
			return 0, &IndexError{Table: v.Name, Position: dim, Value: idx[dim], Limit: v.Shape[dim]}
		}
		offset += idx[dim] * stride
		stride *= v.Shape[dim]
	}
	return offset, nil
}

func (v View) At(idx ...int) (float64, error) {
	offset, err := v.Offset(idx...)
	if err != nil {
		return 0, err
	}
	return v.Data[offset], nil
}

// Row returns the contiguous run of the last (row-major) or first
// (column-major) dimension starting at the given leading coordinates.
func (v View) Row(lead ...int) ([]float64, error) {
	if len(lead) != len(v.Shape)-1 {
		return nil, &ArrayError{Name: v.Name, Reason: fmt.Sprintf("row of rank %d needs %d coordinates", len(v.Shape), len(v.Shape)-1)}
	}
	idx := make([]int, len(v.Shape))
	n := 0
	if v.Layout == RowMajor {
		copy(idx, lead)
		n = v.Shape[len(v.Shape)-1]
	} else {
		copy(idx[1:], lead)
		n = v.Shape[0]
	}
	start, err := v.Offset(idx...)
	if err != nil {
		return nil, err
	}
	return v.Data[start : start+n], nil
}

// RawTrace is the per-call scratch buffer of unpacked samples, laid out
// [firing][channel][sample].
type RawTrace struct {
	firings  int
	channels int
	samples  int
	data     []float64
}

func NewRawTrace(firings, channels, samples int) *RawTrace {
	return &RawTrace{
		firings:  firings,
		channels: channels,
		samples:  samples,
		data:     make([]float64, firings*channels*samples),
	}
}

// Trace returns the samples of one (firing, channel) pair. It panics on
// out-of-range coordinates like any slice access.
func (r *RawTrace) Trace(firing, channel int) []float64 {
	if firing < 0 || firing >= r.firings || channel < 0 || channel >= r.channels {
		panic(fmt.Sprintf("raw trace index (%d, %d) out of range (%d, %d)", firing, channel, r.firings, r.channels))
	}
	start := (firing*r.channels + channel) * r.samples
	return r.data[start : start+r.samples]
}

func (r *RawTrace) Reset() {
	clear(r.data)
}
