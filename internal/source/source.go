// Package source produces the transmitted bit sequence.
package source

import (
	"context"
	"fmt"

	"github.com/jeongseonghan/bersim/internal/block"
	"github.com/jeongseonghan/bersim/internal/modem"
	"github.com/jeongseonghan/bersim/internal/parallel"
	"github.com/jeongseonghan/bersim/internal/random"
)

// Kind selects how the sequence is produced.
type Kind int

const (
	Random     Kind = iota + 1 // uniform random bits
	Predefined                 // every codeword of the modulation in order, repeated
)

var kinds = map[Kind]struct{ name, description string }{
	Random:     {"random", "Random bits sequence"},
	Predefined: {"predefined", "Predefined bits sequence"},
}

// Kinds lists every source kind.
func Kinds() []Kind {
	return []Kind{Random, Predefined}
}

// Valid reports whether k is a defined kind.
func (k Kind) Valid() bool {
	_, ok := kinds[k]
	return ok
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
	return kinds[k].description
}

// Name returns the short identifier used on the command line.
func (k Kind) Name() string {
	if !k.Valid() {
		panic(fmt.Sprintf("source: unknown kind %d", int(k)))
	}
	return kinds[k].name
}

// ParseKind maps a short identifier, matched exactly, back to its kind.
func ParseKind(name string) (Kind, error) {
	for k, v := range kinds {
		if v.name == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown source %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("unknown source %d", int(k))
	}
	return []byte(k.Name()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	v, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

const wordBits = 64

// Generate returns a single block of length bits. mod is only consulted
// by Predefined. A length of 0 yields nil.
func Generate(ctx context.Context, kind Kind, mod modem.Modulation, length int, pool *random.Pool) (*block.Block, error) {
	if !kind.Valid() {
		panic(fmt.Sprintf("source: unknown kind %d", int(kind)))
	}
	if length <= 0 {
		return nil, nil
	}
	out := block.New(length)

	var err error
	switch kind {
	case Random:
		err = fillRandom(ctx, out, pool)
	case Predefined:
		fillPredefined(out, mod)
	}
	if err != nil {
		return nil, fmt.Errorf("generate %s source: %w", kind.Name(), err)
	}
	return out, nil
}

// fillRandom writes one 64-bit draw per word, most significant bit first.
// A trailing partial word keeps the most significant bits of its draw.
func fillRandom(ctx context.Context, out *block.Block, pool *random.Pool) error {
	n := out.Len()
	words := (n + wordBits - 1) / wordBits
	return parallel.For(ctx, pool.Workers(), words, func(w, lo, hi int) {
		g := pool.Worker(w)
		word := block.New(wordBits)
		for i := lo; i < hi; i++ {
			word.SetUint64(g.Uint64())
			off := i * wordBits
			block.Copy(out, off, word, 0, min(wordBits, n-off))
		}
	})
}

// fillPredefined writes codewords 0, 1, 2, ... of the modulation's
// symbol width, wrapping at its volume.
func fillPredefined(out *block.Block, mod modem.Modulation) {
	width := mod.BitsPerSymbol()
	volume := uint64(mod.Volume())
	symbol := block.New(width)
	var code uint64
	for off := 0; off < out.Len(); off += width {
		symbol.SetUint64(code)
		block.Copy(out, off, symbol, 0, min(width, out.Len()-off))
		code++
		if code >= volume {
			code = 0
		}
	}
}
