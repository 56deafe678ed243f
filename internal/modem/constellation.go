package modem

import (
	"fmt"
	"math"
)

// Constellation holds the points of one modulation, indexed by codeword.
type Constellation struct {
	Mod     Modulation
	points  []complex128
	minimum float64 // early-exit radius for Demap
}

// NewConstellation builds the point table for mod.
func NewConstellation(mod Modulation) *Constellation {
	info := mod.info()
	c := &Constellation{
		Mod:     mod,
		points:  make([]complex128, mod.Volume()),
		minimum: info.minimum,
	}
	switch info.family {
	case keyed:
		c.generateKeyed(info)
	case quadrature:
		c.generateQAM(info)
	}
	return c
}

func gray(v int) int {
	return v ^ (v >> 1)
}

// generateKeyed places point i at angle phase + 2*i*step. PSK tables
// are Gray coded so angular neighbours differ in one bit.
func (c *Constellation) generateKeyed(info modInfo) {
	for i := range c.points {
		idx := i
		if info.gray {
			idx = gray(i)
		}
		amp := 1.0
		if info.amplitudes {
			amp = float64(i)
		}
		arg := info.phase + float64(i)*info.angleStep*2
		c.points[idx] = complex(amp*math.Cos(arg), amp*math.Sin(arg))
	}
}

// generateQAM walks the grid column by column, reversing direction on
// every column, so consecutive sequence numbers are grid neighbours. The
// sequence number is Gray coded into the codeword.
func (c *Constellation) generateQAM(info modInfo) {
	b := info.bound
	norm := info.minimum
	corner := func(i, q int) bool {
		return (i == -b || i == b) && (q == -b || q == b)
	}

	index := 0
	up := 1
	for i := -b; i <= b; i += 2 {
		q, qEnd, qStep := -b*up, b*up, 2*up
		for {
			if !info.skipCorners || !corner(i, q) {
				c.points[gray(index)] = complex(float64(i)*norm, float64(q)*norm)
				index++
			}
			q += qStep
			if abs(q) > abs(qEnd) {
				break
			}
		}
		up = -up
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Volume returns the number of points.
func (c *Constellation) Volume() int {
	return len(c.points)
}

// Minimum returns the early-exit radius used by Demap.
func (c *Constellation) Minimum() float64 {
	return c.minimum
}

// Point returns the point for a codeword.
func (c *Constellation) Point(code uint64) complex128 {
	if code >= uint64(len(c.points)) {
		panic(fmt.Sprintf("modem: codeword %d out of range for %s", code, c.Mod.Name()))
	}
	return c.points[code]
}

// Points returns a copy of the table.
func (c *Constellation) Points() []complex128 {
	out := make([]complex128, len(c.points))
	copy(out, c.points)
	return out
}

// Demap returns the codeword of the nearest point. Index 0 seeds the
// search; any later point closer than the early-exit radius is taken
// immediately. Ties keep the earlier index.
func (c *Constellation) Demap(symbol complex128) uint64 {
	minIdx := 0
	minDist := distance(symbol, c.points[0])
	for i := 1; i < len(c.points); i++ {
		d := distance(symbol, c.points[i])
		if d < c.minimum {
			return uint64(i)
		}
		if d < minDist {
			minDist = d
			minIdx = i
		}
	}
	return uint64(minIdx)
}

func distance(a, b complex128) float64 {
	dr := real(a) - real(b)
	di := imag(a) - imag(b)
	return math.Sqrt(dr*dr + di*di)
}
