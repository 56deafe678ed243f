package modem

import (
	"fmt"
	"math"
)

// Modulation identifies a constellation.
type Modulation int

const (
	ASK Modulation = iota + 1
	FSK
	BPSK
	QPSK
	PSK8
	PSK16
	PSK32
	PSK64
	PSK256
	PSK1024
	PSK4096
	QAM16
	QAM32
	QAM64
	QAM256
	QAM1024
	QAM4096
)

type family int

const (
	keyed family = iota // points on a circle, optionally amplitude-scaled
	quadrature          // serpentine rectangular grid
)

type modInfo struct {
	name        string
	description string
	bits        int
	family      family

	// keyed
	angleStep  float64
	phase      float64
	gray       bool
	amplitudes bool // scale point i by i
	minimum    float64

	// quadrature
	bound       int
	skipCorners bool
}

func psk(m int) modInfo {
	step := math.Pi / float64(m)
	return modInfo{
		name:        fmt.Sprintf("%dpsk", m),
		description: fmt.Sprintf("%d-phase shift keying", m),
		bits:        bitsFor(m),
		angleStep:   step,
		gray:        true,
		minimum:     math.Sin(step),
	}
}

func qam(m, bound int) modInfo {
	return modInfo{
		name:        fmt.Sprintf("%dqam", m),
		description: fmt.Sprintf("%d-quadrature-amplitude modulation", m),
		bits:        bitsFor(m),
		family:      quadrature,
		bound:       bound,
		skipCorners: (bound+1)*(bound+1) != m,
		minimum:     1 / (float64(bound) * math.Sqrt2),
	}
}

func bitsFor(m int) int {
	n := 0
	for 1<<n < m {
		n++
	}
	return n
}

var modTable = map[Modulation]modInfo{
	ASK: {
		name:        "ask",
		description: "Amplitude-shift keying",
		bits:        1,
		amplitudes:  true,
		minimum:     0.5,
	},
	FSK: {
		name:        "fsk",
		description: "Frequency-shift keying",
		bits:        1,
		angleStep:   math.Pi / 4,
		minimum:     math.Sin(math.Pi / 4),
	},
	BPSK: {
		name:        "bpsk",
		description: "Binary phase-shift keying",
		bits:        1,
		angleStep:   math.Pi / 2,
		minimum:     math.Sin(math.Pi / 2),
	},
	QPSK: {
		name:        "qpsk",
		description: "Quadrature phase-shift keying",
		bits:        2,
		angleStep:   math.Pi / 4,
		phase:       math.Pi / 4,
		gray:        true,
		minimum:     math.Sin(math.Pi / 4),
	},
	PSK8:    psk(8),
	PSK16:   psk(16),
	PSK32:   psk(32),
	PSK64:   psk(64),
	PSK256:  psk(256),
	PSK1024: psk(1024),
	PSK4096: psk(4096),
	QAM16:   qam(16, 3),
	QAM32:   qam(32, 5),
	QAM64:   qam(64, 7),
	QAM256:  qam(256, 15),
	QAM1024: qam(1024, 31),
	QAM4096: qam(4096, 63),
}

// Modulations lists every modulation in declaration order.
func Modulations() []Modulation {
	out := make([]Modulation, 0, len(modTable))
	for m := ASK; m <= QAM4096; m++ {
		out = append(out, m)
	}
	return out
}

func (m Modulation) info() modInfo {
	info, ok := modTable[m]
	if !ok {
		panic(fmt.Sprintf("modem: unknown modulation %d", int(m)))
	}
	return info
}

// Valid reports whether m is one of the defined modulations.
func (m Modulation) Valid() bool {
	_, ok := modTable[m]
	return ok
}

// String returns the human-readable modulation name.
func (m Modulation) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
	return m.info().description
}

// Name returns the short identifier used on the command line.
func (m Modulation) Name() string {
	return m.info().name
}

// BitsPerSymbol returns the number of bits carried by one constellation point.
func (m Modulation) BitsPerSymbol() int {
	return m.info().bits
}

// Volume returns the number of constellation points.
func (m Modulation) Volume() int {
	return 1 << m.BitsPerSymbol()
}

// ParseModulation maps a short identifier, matched exactly, back to its modulation.
func ParseModulation(name string) (Modulation, error) {
	for m, info := range modTable {
		if info.name == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown modulation %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (m Modulation) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("unknown modulation %d", int(m))
	}
	return []byte(m.Name()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Modulation) UnmarshalText(text []byte) error {
	v, err := ParseModulation(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
