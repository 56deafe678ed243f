// Package sim runs the source, FEC, modulation, channel and decode chain
// for a range of channel gains and measures the residual error rate.
package sim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/jeongseonghan/bersim/internal/block"
	"github.com/jeongseonghan/bersim/internal/channel"
	"github.com/jeongseonghan/bersim/internal/fec"
	"github.com/jeongseonghan/bersim/internal/modem"
	"github.com/jeongseonghan/bersim/internal/random"
	"github.com/jeongseonghan/bersim/internal/source"
)

// ErrNoData is returned when a pipeline stage produces no output.
var ErrNoData = errors.New("no data")

// DefaultIterations is the number of source bits per point.
const DefaultIterations = 200000

// Config selects the chain to simulate.
type Config struct {
	Source     source.Kind      `json:"source"`
	FEC        fec.Scheme       `json:"fec"`
	Modulation modem.Modulation `json:"modulation"`
	Channel    channel.Model    `json:"channel"`
	Error      ErrorKind        `json:"error"`
	Units      Units            `json:"units"`
	Iterations int              `json:"iterations"`
}

// Validate checks that every selector is defined and Iterations is positive.
func (c Config) Validate() error {
	switch {
	case !c.Source.Valid():
		return fmt.Errorf("source: unknown value %d", int(c.Source))
	case !c.FEC.Valid():
		return fmt.Errorf("fec: unknown value %d", int(c.FEC))
	case !c.Modulation.Valid():
		return fmt.Errorf("modulation: unknown value %d", int(c.Modulation))
	case !c.Channel.Valid():
		return fmt.Errorf("channel: unknown value %d", int(c.Channel))
	case !c.Error.Valid():
		return fmt.Errorf("error: unknown value %d", int(c.Error))
	case !c.Units.Valid():
		return fmt.Errorf("units: unknown value %d", int(c.Units))
	case c.Iterations <= 0:
		return fmt.Errorf("iterations: must be positive, got %d", c.Iterations)
	}
	return nil
}

// Result is the outcome of one h² point.
type Result struct {
	RunID       string        `json:"run_id"`
	HSquare     float64       `json:"hsquare"`        // as given, in the configured units
	Linear      float64       `json:"hsquare_linear"` // value passed to the channel
	Rate        float64       `json:"rate"`           // BER or SER, per Config.Error
	BER         float64       `json:"ber"`
	SER         float64       `json:"ser"`
	Bits        int64         `json:"bits"`
	WrongBits   int64         `json:"wrong_bits"`
	Blocks      int64         `json:"blocks"`
	WrongBlocks int64         `json:"wrong_blocks"`
	SNR         float64       `json:"snr_db"` // measured at the channel output
	Checksum    uint32        `json:"source_crc32"`
	Duration    time.Duration `json:"duration_ns"`
}

// Options tune a Simulator without changing what it computes.
type Options struct {
	Workers int
	Seed    uint64
	Metrics Metrics
}

// Simulator owns the precomputed tables and the random pool. Run and
// Sweep must not be called concurrently: the pool generators are
// stateful.
type Simulator struct {
	cfg     Config
	workers int
	runID   string
	pool    *random.Pool
	codec   *fec.Codec
	tables  *modem.Tables
	metrics Metrics
}

// New validates cfg and builds the syndrome and constellation tables.
func New(ctx context.Context, cfg Config, opts Options) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	workers := max(opts.Workers, 1)
	metrics := opts.Metrics
	if metrics == nil {
		metrics = NopMetrics{}
	}

	codec, err := fec.NewCodec(ctx, workers)
	if err != nil {
		return nil, err
	}
	tables, err := modem.NewTables(ctx, workers)
	if err != nil {
		return nil, err
	}

	return &Simulator{
		cfg:     cfg,
		workers: workers,
		runID:   uuid.New().String(),
		pool:    random.NewPool(workers, opts.Seed),
		codec:   codec,
		tables:  tables,
		metrics: metrics,
	}, nil
}

// Config returns the simulated chain.
func (s *Simulator) Config() Config { return s.cfg }

// RunID identifies this simulator's results.
func (s *Simulator) RunID() string { return s.runID }

// Seed returns the random pool seed.
func (s *Simulator) Seed() uint64 { return s.pool.Seed() }

// Codec returns the shared FEC codec.
func (s *Simulator) Codec() *fec.Codec { return s.codec }

// Tables returns the shared constellation tables.
func (s *Simulator) Tables() *modem.Tables { return s.tables }

// Pool returns the random generator pool.
func (s *Simulator) Pool() *random.Pool { return s.pool }

// errorCount recovers the integer count behind rate = wrong/n.
func errorCount(rate float64, n int) int64 {
	return int64(math.Round(rate * float64(n)))
}

func noData(stage string, n int) error {
	if n == 0 {
		return fmt.Errorf("%s: %w", stage, ErrNoData)
	}
	return nil
}

// Run simulates a single point. hsquare is in the configured units.
func (s *Simulator) Run(ctx context.Context, hsquare float64) (Result, error) {
	started := time.Now()
	cfg := s.cfg
	linear := cfg.Units.Linear(hsquare)

	var stages [][]*block.Block
	defer func() {
		for _, st := range stages {
			block.ReleaseAll(st)
		}
	}()
	keep := func(blocks []*block.Block) []*block.Block {
		stages = append(stages, blocks)
		return blocks
	}
	rechunk := func(stage string, blocks []*block.Block, size int) ([]*block.Block, error) {
		out, err := block.ParallelRechunk(ctx, s.workers, blocks, size)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", stage, err)
		}
		keep(out)
		if err := noData(stage, len(out)); err != nil {
			return nil, err
		}
		return out, nil
	}

	src, err := source.Generate(ctx, cfg.Source, cfg.Modulation, cfg.Iterations, s.pool)
	if err != nil {
		return Result{}, err
	}
	if src == nil {
		return Result{}, noData("source", 0)
	}
	keep([]*block.Block{src})
	length := src.Len()

	srcBlocks, err := rechunk("split source", []*block.Block{src}, cfg.FEC.InputSize())
	if err != nil {
		return Result{}, err
	}

	encoded, err := s.codec.Encode(ctx, srcBlocks, cfg.FEC)
	if err != nil {
		return Result{}, err
	}
	keep(encoded)
	if err := noData("encode", len(encoded)); err != nil {
		return Result{}, err
	}

	premodulated, err := rechunk("split symbols", encoded, cfg.Modulation.BitsPerSymbol())
	if err != nil {
		return Result{}, err
	}

	points, err := s.tables.Modulate(ctx, premodulated, cfg.Modulation)
	if err != nil {
		return Result{}, err
	}
	if err := noData("modulate", len(points)); err != nil {
		return Result{}, err
	}

	noised, err := channel.AddNoise(ctx, points, cfg.Channel, linear, s.pool)
	if err != nil {
		return Result{}, err
	}
	if err := noData("channel", len(noised)); err != nil {
		return Result{}, err
	}

	demodulated, err := s.tables.Demodulate(ctx, noised, cfg.Modulation)
	if err != nil {
		return Result{}, err
	}
	keep(demodulated)
	if err := noData("demodulate", len(demodulated)); err != nil {
		return Result{}, err
	}

	codeSize := cfg.FEC.OutputSize()
	if cfg.FEC == fec.None {
		codeSize = length
	}
	predecoded, err := rechunk("split codewords", demodulated, codeSize)
	if err != nil {
		return Result{}, err
	}

	decoded, err := s.codec.Decode(ctx, predecoded, cfg.FEC)
	if err != nil {
		return Result{}, err
	}
	keep(decoded)
	if err := noData("decode", len(decoded)); err != nil {
		return Result{}, err
	}

	target, err := rechunk("join", decoded, length)
	if err != nil {
		return Result{}, err
	}

	ber, err := BitErrorRate(ctx, s.workers, src, target[0], length)
	if err != nil {
		return Result{}, fmt.Errorf("count bit errors: %w", err)
	}

	// Without FEC the comparable symbols are the modulation symbols;
	// otherwise they are the FEC data blocks.
	symOriginal, symRecovered := srcBlocks, decoded
	if cfg.FEC == fec.None {
		symOriginal, symRecovered = premodulated, demodulated
	}
	blocks := len(symOriginal)
	ser, err := SymbolErrorRate(ctx, s.workers, symOriginal, symRecovered, blocks)
	if err != nil {
		return Result{}, fmt.Errorf("count symbol errors: %w", err)
	}

	r := Result{
		RunID:       s.runID,
		HSquare:     hsquare,
		Linear:      linear,
		BER:         ber,
		SER:         ser,
		Bits:        int64(length),
		WrongBits:   errorCount(ber, length),
		Blocks:      int64(blocks),
		WrongBlocks: errorCount(ser, blocks),
		SNR:         channel.EstimateSNR(points, noised),
		Checksum:    fec.Checksum([]*block.Block{src}),
	}
	r.Rate = r.BER
	if cfg.Error == SER {
		r.Rate = r.SER
	}
	r.Duration = time.Since(started)

	s.metrics.ObservePoint(cfg, r)
	return r, nil
}
