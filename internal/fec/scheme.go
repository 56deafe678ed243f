package fec

import "fmt"

// Scheme identifies a forward error correction code.
type Scheme int

const (
	None      Scheme = iota + 1 // pass-through
	Hamming74                   // Hamming (7, 4), corrects 1 error
	Cyclic85                    // cyclic (8, 5), corrects 1 error
	BCH1557                     // BCH (15, 5), corrects 3 errors
	BCH1575                     // BCH (15, 7), corrects 2 errors
)

type schemeInfo struct {
	name        string
	description string
	input       int    // uncoded bits per block, 0 = same as source
	output      int    // coded bits per block, 0 = same as source
	radius      int    // guaranteed correctable errors per block
	generator   string // generator polynomial, highest power first
	testMessage string // any valid codeword, used to build the syndrome table
}

var schemeTable = map[Scheme]schemeInfo{
	None: {
		name:        "none",
		description: "No FEC",
	},
	Hamming74: {
		name:        "hamming74",
		description: "Hamming code (7, 4)",
		input:       4,
		output:      7,
		radius:      1,
	},
	Cyclic85: {
		name:        "cyclic85",
		description: "Cyclic code (8, 5)",
		input:       5,
		output:      8,
		radius:      1,
		generator:   "1011",
		testMessage: "10101101",
	},
	BCH1557: {
		name:        "bch1557",
		description: "BCH code (15, 5, 7)",
		input:       5,
		output:      15,
		radius:      3,
		generator:   "10100110111",
		testMessage: "101011001000111",
	},
	BCH1575: {
		name:        "bch1575",
		description: "BCH code (15, 7, 5)",
		input:       7,
		output:      15,
		radius:      2,
		generator:   "111010001",
		testMessage: "101010111100101",
	},
}

// Schemes lists every scheme in declaration order.
func Schemes() []Scheme {
	return []Scheme{None, Hamming74, Cyclic85, BCH1557, BCH1575}
}

func (s Scheme) info() schemeInfo {
	info, ok := schemeTable[s]
	if !ok {
		panic(fmt.Sprintf("fec: unknown scheme %d", int(s)))
	}
	return info
}

// Valid reports whether s is one of the defined schemes.
func (s Scheme) Valid() bool {
	_, ok := schemeTable[s]
	return ok
}

// String returns the human-readable scheme description.
func (s Scheme) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
	return s.info().description
}

// Name returns the short identifier used on the command line.
func (s Scheme) Name() string {
	return s.info().name
}

// InputSize returns the uncoded block size in bits (0 for None).
func (s Scheme) InputSize() int {
	return s.info().input
}

// OutputSize returns the coded block size in bits (0 for None).
func (s Scheme) OutputSize() int {
	return s.info().output
}

// Radius returns the number of bit errors per block the code always corrects.
func (s Scheme) Radius() int {
	return s.info().radius
}

// ParseScheme maps a short identifier, matched exactly, back to its scheme.
func ParseScheme(name string) (Scheme, error) {
	for _, s := range Schemes() {
		if s.info().name == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown fec scheme %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Scheme) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("unknown fec scheme %d", int(s))
	}
	return []byte(s.Name()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Scheme) UnmarshalText(text []byte) error {
	v, err := ParseScheme(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
