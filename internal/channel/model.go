// Package channel distorts modulated points with AWGN or flat Rayleigh
// fading followed by zero-forcing equalisation.
package channel

import "fmt"

// Model identifies a channel model.
type Model int

const (
	AWGN Model = iota + 1
	Rayleigh
)

var models = map[Model]struct{ name, description string }{
	AWGN:     {"awgn", "Additive white Gaussian noise"},
	Rayleigh: {"rayleigh", "Rayleigh"},
}

// Models lists every channel model.
func Models() []Model {
	return []Model{AWGN, Rayleigh}
}

// Valid reports whether m is a defined model.
func (m Model) Valid() bool {
	_, ok := models[m]
	return ok
}

func (m Model) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
	return models[m].description
}

// Name returns the short identifier used on the command line.
func (m Model) Name() string {
	if !m.Valid() {
		panic(fmt.Sprintf("channel: unknown model %d", int(m)))
	}
	return models[m].name
}

// ParseModel maps a short identifier, matched exactly, back to its model.
func ParseModel(name string) (Model, error) {
	for m, v := range models {
		if v.name == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown channel model %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (m Model) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("unknown channel model %d", int(m))
	}
	return []byte(m.Name()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Model) UnmarshalText(text []byte) error {
	v, err := ParseModel(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
