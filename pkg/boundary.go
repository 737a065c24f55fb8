package pact

import (
	"fmt"

	"golang.org/x/exp/slices"
)

type DType int

const (
	Float64 DType = iota
	Uint32
	Uint64
)

func (d DType) String() string {
	switch d {
	case Float64:
		return "float64"
	case Uint32:
		return "uint32"
	case Uint64:
		return "uint64"
	default:
		return "unknown"
	}
}

func (d DType) IsFloat() bool {
	return d == Float64
}

func (d DType) IsUnsigned() bool {
	return d == Uint32 || d == Uint64
}

type Order int

const (
	FortranOrder Order = iota
	COrder
)

func (o Order) String() string {
	if o == FortranOrder {
		return "Fortran"
	}
	return "C"
}

// Array is a host-environment array handed to the boundary layer: element
// type, memory order, shape and a contiguous backing slice ([]float64,
// []uint32 or []uint64 matching DType).
type Array struct {
	DType DType
	Order Order
	Shape []int
	Data  any
}

// NewFortranArray wraps a []float64, []uint32 or []uint64 as a Fortran-order
// array.
func NewFortranArray(data any, shape ...int) *Array {
	a := &Array{Order: FortranOrder, Shape: shape, Data: data}
	switch data.(type) {
	case []uint32:
		a.DType = Uint32
	case []uint64:
		a.DType = Uint64
	default:
		a.DType = Float64
	}
	return a
}

func (a *Array) Size() int {
	size := 1
	for _, d := range a.Shape {
		size *= d
	}
	return size
}

func (a *Array) Float64s() []float64 {
	data, _ := a.Data.([]float64)
	return data
}

func (a *Array) Uint32s() []uint32 {
	data, _ := a.Data.([]uint32)
	return data
}

func (a *Array) Uint64s() []uint64 {
	data, _ := a.Data.([]uint64)
	return data
}

func (a *Array) dataLen() int {
	switch data := a.Data.(type) {
	case []float64:
		return len(data)
	case []uint32:
		return len(data)
	case []uint64:
		return len(data)
	}
	return -1
}

type arraySpec struct {
	name     string
	float    bool
	unsigned bool
	rank     int
	shape    []int // nil entries are not checked
}

func (s arraySpec) check(a *Array) error {
	if a == nil {
		return &ArrayError{Name: s.name, Reason: "missing"}
	}
	if s.float && !a.DType.IsFloat() {
		return &ArrayError{Name: s.name, Reason: fmt.Sprintf("element type %v is not floating point", a.DType)}
	}
	if s.unsigned && !a.DType.IsUnsigned() {
		return &ArrayError{Name: s.name, Reason: fmt.Sprintf("element type %v is not unsigned", a.DType)}
	}
	if a.Order != FortranOrder {
		return &ArrayError{Name: s.name, Reason: fmt.Sprintf("%v order, want Fortran", a.Order)}
	}
	if len(a.Shape) != s.rank {
		return &ArrayError{Name: s.name, Reason: fmt.Sprintf("rank %d, want %d", len(a.Shape), s.rank)}
	}
	for _, d := range a.Shape {
		if d < 0 {
			return &ArrayError{Name: s.name, Reason: fmt.Sprintf("negative dimension in shape %v", a.Shape)}
		}
	}
	if s.shape != nil && !slices.Equal(a.Shape, s.shape) {
		return &ArrayError{Name: s.name, Reason: fmt.Sprintf("shape %v, want %v", a.Shape, s.shape)}
	}
	n := a.dataLen()
	if n < 0 {
		return &ArrayError{Name: s.name, Reason: fmt.Sprintf("unsupported backing %T", a.Data)}
	}
	if n != a.Size() {
		return &ArrayError{Name: s.name, Reason: fmt.Sprintf("backing holds %d elements, shape %v needs %d", n, a.Shape, a.Size())}
	}
	return nil
}

// ReconLoop checks the host arrays and runs BackProject into a freshly
// zeroed Fortran [nPixelX, nPixelY] image. paData is [nTimeSamples, nSteps],
// idxAll and angularWeight are [nPixelX, nPixelY, nSteps]. Any rejected input
// returns an error, never an empty result.
func ReconLoop(paData, idxAll, angularWeight *Array, nPixelX, nPixelY, nSteps int) (*Array, error) {
	if err := (ReconParams{NPixelX: nPixelX, NPixelY: nPixelY, NSteps: nSteps}).validate(); err != nil {
		return nil, err
	}
	if err := (arraySpec{name: "pa_data", float: true, rank: 2}).check(paData); err != nil {
		return nil, err
	}
	if paData.Shape[1] < nSteps {
		return nil, &ArrayError{Name: "pa_data", Reason: fmt.Sprintf("%d columns for %d steps", paData.Shape[1], nSteps)}
	}
	tableShape := []int{nPixelX, nPixelY, nSteps}
	if err := (arraySpec{name: "idxAll", unsigned: true, rank: 3, shape: tableShape}).check(idxAll); err != nil {
		return nil, err
	}
	if err := (arraySpec{name: "angularWeight", float: true, rank: 3, shape: tableShape}).check(angularWeight); err != nil {
		return nil, err
	}

	idx := idxAll.Uint64s()
	if idxAll.DType == Uint32 {
		idx = make([]uint64, idxAll.Size())
		for k, v := range idxAll.Uint32s() {
			idx[k] = uint64(v)
		}
	}

	p := ReconParams{
		NPixelX:      nPixelX,
		NPixelY:      nPixelY,
		NSteps:       nSteps,
		NTimeSamples: paData.Shape[0],
	}
	img := NewFortranArray(make([]float64, p.ImageSize()), nPixelX, nPixelY)
	if err := BackProject(paData.Float64s(), idx, angularWeight.Float64s(), p, img.Float64s()); err != nil {
		return nil, err
	}
	return img, nil
}

// DaqLoop checks the host arrays and runs Demux. Each board is a Fortran
// [2*DataBlockSize, GroupsPerFiring*TotFirings*numExperiments] uint32 matrix,
// one column per word group. The outputs are Fortran [DataBlockSize, NumElements]
// and [DataBlockSize, NumElements*numExperiments] matrices, so each column
// is one output trace.
func DaqLoop(board1, board2, chanMap *Array, numExperiments int, p DemuxParams) (chndata, chndataAll *Array, err error) {
	p.NumExperiments = numExperiments
	if err := p.validate(); err != nil {
		return nil, nil, err
	}
	boardShape := []int{GroupWords(p.DataBlockSize), GroupsPerFiring * p.TotFirings * numExperiments}
	boards := [NumBoards][]uint32{}
	for b, board := range []*Array{board1, board2} {
		layout := arraySpec{name: fmt.Sprintf("packDataBoard%d", b+1), unsigned: true, rank: 2, shape: boardShape}
		if err := layout.check(board); err != nil {
			return nil, nil, err
		}
		if board.DType != Uint32 {
			return nil, nil, &ArrayError{Name: layout.name, Reason: fmt.Sprintf("element type %v, want uint32", board.DType)}
		}
		boards[b] = board.Uint32s()
	}
	if err := (arraySpec{name: "ChanMap", float: true, rank: 2}).check(chanMap); err != nil {
		return nil, nil, err
	}
	m, err := ChannelMapFromFloats(chanMap.Float64s())
	if err != nil {
		return nil, nil, err
	}

	chndata = NewFortranArray(make([]float64, p.ChndataSize()), p.DataBlockSize, p.NumElements)
	chndataAll = NewFortranArray(make([]float64, p.ChndataAllSize()), p.DataBlockSize, p.NumElements*numExperiments)
	if err := Demux(boards, m, p, chndata.Float64s(), chndataAll.Float64s()); err != nil {
		return nil, nil, err
	}
	return chndata, chndataAll, nil
}
