package sim

import (
	"fmt"
	"math"
)

// ErrorKind selects the reported error rate.
type ErrorKind int

const (
	BER ErrorKind = iota + 1 // bit error rate
	SER                      // symbol (block) error rate
)

var errorKinds = map[ErrorKind]struct{ name, description string }{
	BER: {"ber", "Bit error rate"},
	SER: {"ser", "Symbol error rate"},
}

// Valid reports whether k is a defined error kind.
func (k ErrorKind) Valid() bool {
	_, ok := errorKinds[k]
	return ok
}

func (k ErrorKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
	return errorKinds[k].description
}

// Name returns the short identifier used on the command line.
func (k ErrorKind) Name() string {
	if !k.Valid() {
		panic(fmt.Sprintf("sim: unknown error kind %d", int(k)))
	}
	return errorKinds[k].name
}

// ParseErrorKind maps a short identifier, matched exactly, back to its kind.
func ParseErrorKind(name string) (ErrorKind, error) {
	for k, v := range errorKinds {
		if v.name == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown error type %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (k ErrorKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("unknown error type %d", int(k))
	}
	return []byte(k.Name()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ErrorKind) UnmarshalText(text []byte) error {
	v, err := ParseErrorKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Units is the scale in which h² values are given.
type Units int

const (
	Decibels Units = iota + 1
	Times          // linear
)

var unitNames = map[Units]struct{ name, description string }{
	Decibels: {"dbs", "decibels"},
	Times:    {"times", "times"},
}

// Valid reports whether u is a defined unit.
func (u Units) Valid() bool {
	_, ok := unitNames[u]
	return ok
}

func (u Units) String() string {
	if !u.Valid() {
		return fmt.Sprintf("Unknown(%d)", int(u))
	}
	return unitNames[u].description
}

// Name returns the short identifier used on the command line.
func (u Units) Name() string {
	if !u.Valid() {
		panic(fmt.Sprintf("sim: unknown units %d", int(u)))
	}
	return unitNames[u].name
}

// ParseUnits maps a short identifier, matched exactly, back to its units.
func ParseUnits(name string) (Units, error) {
	for u, v := range unitNames {
		if v.name == name {
			return u, nil
		}
	}
	return 0, fmt.Errorf("unknown units %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (u Units) MarshalText() ([]byte, error) {
	if !u.Valid() {
		return nil, fmt.Errorf("unknown units %d", int(u))
	}
	return []byte(u.Name()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *Units) UnmarshalText(text []byte) error {
	v, err := ParseUnits(string(text))
	if err != nil {
		return err
	}
	*u = v
	return nil
}

// Linear converts a value in these units to a linear ratio.
func (u Units) Linear(v float64) float64 {
	switch u {
	case Decibels:
		return DecibelsToLinear(v)
	case Times:
		return v
	}
	panic(fmt.Sprintf("sim: unknown units %d", int(u)))
}

// DecibelsToLinear returns 10^(db/10).
func DecibelsToLinear(db float64) float64 {
	return math.Pow(10, db/10)
}
