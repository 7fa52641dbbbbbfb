package hough

import (
	"math"
)

// Accumulator is a dense N-dimensional vote grid stored as one flat slice.
//
// Cells are laid out row-major over Dims: for a 2D space index (i, j) maps to
// i*Dims[1]+j, for a 3D space (i, j, k) maps to (i*Dims[1]+j)*Dims[2]+k.
type Accumulator struct {
	dims  []int
	Cells []int32 // len = product of dims
}

func newAccumulator(dims ...int) *Accumulator {
	n := 1
	for _, d := range dims {
		n *= d
	}
	return &Accumulator{
		dims:  append([]int(nil), dims...),
		Cells: make([]int32, n),
	}
}

// Dims returns a copy of the accumulator's shape.
func (a *Accumulator) Dims() []int {
	return append([]int(nil), a.dims...)
}

// At2 returns the vote count of cell (i, j) of a 2D accumulator. Out of range
// indices read as zero.
func (a *Accumulator) At2(i, j int) int {
	if len(a.dims) != 2 || i < 0 || j < 0 || i >= a.dims[0] || j >= a.dims[1] {
		return 0
	}
	return int(a.Cells[i*a.dims[1]+j])
}

// At3 returns the vote count of cell (i, j, k) of a 3D accumulator. Out of
// range indices read as zero.
func (a *Accumulator) At3(i, j, k int) int {
	if len(a.dims) != 3 || i < 0 || j < 0 || k < 0 ||
		i >= a.dims[0] || j >= a.dims[1] || k >= a.dims[2] {
		return 0
	}
	return int(a.Cells[(i*a.dims[1]+j)*a.dims[2]+k])
}

// Total returns the sum of all cells.
func (a *Accumulator) Total() int64 {
	var sum int64
	for _, c := range a.Cells {
		sum += int64(c)
	}
	return sum
}

// Max returns the largest cell value, or 0 for an empty accumulator.
func (a *Accumulator) Max() int {
	var m int32
	for _, c := range a.Cells {
		if c > m {
			m = c
		}
	}
	return int(m)
}

// Reset zeroes every cell so the accumulator can be voted into again.
func (a *Accumulator) Reset() {
	clear(a.Cells)
}

// TrigCache holds sin and cos sampled at multiples of Step, optionally scaled
// by a radius: Sin[t] == Scale·sin(t·Step) and Cos[t] == Scale·cos(t·Step).
// It is built once per transform and read-only afterwards.
type TrigCache struct {
	Step  float64
	Scale float64
	Sin   []float64
	Cos   []float64
}

// NewTrigCache samples steps angles evenly over [0, turn): π for line spaces,
// 2π for circle spaces.
func NewTrigCache(steps int, turn, scale float64) *TrigCache {
	c := &TrigCache{
		Step:  turn / float64(steps),
		Scale: scale,
		Sin:   make([]float64, steps),
		Cos:   make([]float64, steps),
	}
	for t := 0; t < steps; t++ {
		s, co := math.Sincos(float64(t) * turn / float64(steps))
		c.Sin[t] = scale * s
		c.Cos[t] = scale * co
	}
	return c
}

// Len returns the number of sampled angles.
func (c *TrigCache) Len() int {
	return len(c.Sin)
}
