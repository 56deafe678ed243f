// Package selftest checks the random generator, every FEC codec and every
// modulator against their expected noiseless behaviour.
package selftest

import (
	"context"
	"fmt"
	"io"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/jeongseonghan/bersim/internal/block"
	"github.com/jeongseonghan/bersim/internal/fec"
	"github.com/jeongseonghan/bersim/internal/modem"
	"github.com/jeongseonghan/bersim/internal/random"
	"github.com/jeongseonghan/bersim/internal/sim"
	"github.com/jeongseonghan/bersim/internal/source"
)

const (
	// RNGSamples is the number of draws per distribution check.
	RNGSamples = 1000000
	// SourceLength is the number of bits pushed through each codec and modulator.
	SourceLength = 30
)

// Stage is the bit sequence seen after one step of a round trip, rendered
// as space-separated blocks.
type Stage struct {
	Name     string `json:"name"`
	Sequence string `json:"sequence"`
}

// Check is one self-test measurement.
type Check struct {
	Group     string  `json:"group"`
	Name      string  `json:"name"`
	Metric    string  `json:"metric"`
	Got       float64 `json:"got"`
	Want      float64 `json:"want"`
	Tolerance float64 `json:"tolerance"`
	Passed    bool    `json:"passed"`
	Stages    []Stage `json:"stages,omitempty"`
}

// Report collects every check.
type Report struct {
	Checks []Check `json:"checks"`
	Passed int     `json:"passed"`
	Failed int     `json:"failed"`
}

// OK reports whether every check passed.
func (r *Report) OK() bool { return r.Failed == 0 }

func (r *Report) add(group, name, metric string, got, want, tolerance float64, stages ...Stage) {
	c := Check{
		Stages:    stages,
		Group:     group,
		Name:      name,
		Metric:    metric,
		Got:       got,
		Want:      want,
		Tolerance: tolerance,
		Passed:    math.Abs(got-want) <= tolerance,
	}
	if c.Passed {
		r.Passed++
	} else {
		r.Failed++
	}
	r.Checks = append(r.Checks, c)
}

// Suite runs the checks against shared tables.
type Suite struct {
	Codec   *fec.Codec
	Tables  *modem.Tables
	Pool    *random.Pool
	Workers int
}

// Run executes every check. Only context cancellation or a pipeline stage
// with no output is reported as an error; failed checks are in the Report.
func (s Suite) Run(ctx context.Context) (Report, error) {
	var r Report

	uniform, gauss := s.sampleRNG()
	r.add("RNG", "uniform distribution", "average", stat.Mean(uniform, nil), 0.5, 0.05)
	r.add("RNG", "Gaussian distribution", "average", stat.Mean(gauss, nil), 0, 0.05)
	r.add("RNG", "Gaussian distribution", "deviation", stat.StdDev(gauss, nil), 1, 0.05)

	for _, scheme := range fec.Schemes() {
		ber, stages, err := s.codecBER(ctx, scheme)
		if err != nil {
			return r, fmt.Errorf("fec %s: %w", scheme.Name(), err)
		}
		r.add("FEC", scheme.String(), "BER", ber, 0, 0, stages...)
	}

	for _, mod := range modem.Modulations() {
		ber, stages, err := s.modulatorBER(ctx, mod)
		if err != nil {
			return r, fmt.Errorf("modulator %s: %w", mod.Name(), err)
		}
		r.add("Modulator", mod.String(), "BER", ber, 0, 0, stages...)
	}
	return r, nil
}

func (s Suite) sampleRNG() (uniform, gauss []float64) {
	g := s.Pool.Worker(0)
	uniform = make([]float64, RNGSamples)
	gauss = make([]float64, RNGSamples)
	for i := range uniform {
		uniform[i] = g.Uniform()
	}
	for i := range gauss {
		gauss[i] = g.Gauss()
	}
	return uniform, gauss
}

func (s Suite) sourceBits(ctx context.Context) (*block.Block, error) {
	src, err := source.Generate(ctx, source.Random, modem.QPSK, SourceLength, s.Pool)
	if err != nil {
		return nil, err
	}
	if src == nil {
		return nil, fmt.Errorf("source: %w", sim.ErrNoData)
	}
	return src, nil
}

func stage(name string, blocks ...*block.Block) Stage {
	return Stage{Name: name, Sequence: block.Join(blocks)}
}

func (s Suite) codecBER(ctx context.Context, scheme fec.Scheme) (float64, []Stage, error) {
	src, err := s.sourceBits(ctx)
	if err != nil {
		return 0, nil, err
	}
	blocks := block.Rechunk([]*block.Block{src}, scheme.InputSize())
	encoded, err := s.Codec.Encode(ctx, blocks, scheme)
	if err != nil {
		return 0, nil, err
	}
	decoded, err := s.Codec.Decode(ctx, encoded, scheme)
	if err != nil {
		return 0, nil, err
	}
	target := block.Rechunk(decoded, src.Len())
	if len(target) == 0 {
		return 0, nil, fmt.Errorf("join: %w", sim.ErrNoData)
	}
	stages := []Stage{
		stage("Generated", src),
		stage("Broken-out", blocks...),
		stage("Encoded", encoded...),
		stage("Decoded", decoded...),
		stage("Joint", target...),
	}
	ber, err := sim.BitErrorRate(ctx, s.Workers, src, target[0], src.Len())
	return ber, stages, err
}

func (s Suite) modulatorBER(ctx context.Context, mod modem.Modulation) (float64, []Stage, error) {
	src, err := s.sourceBits(ctx)
	if err != nil {
		return 0, nil, err
	}
	blocks := block.Rechunk([]*block.Block{src}, mod.BitsPerSymbol())
	points, err := s.Tables.Modulate(ctx, blocks, mod)
	if err != nil {
		return 0, nil, err
	}
	demodulated, err := s.Tables.Demodulate(ctx, points, mod)
	if err != nil {
		return 0, nil, err
	}
	target := block.Rechunk(demodulated, src.Len())
	if len(target) == 0 {
		return 0, nil, fmt.Errorf("join: %w", sim.ErrNoData)
	}
	stages := []Stage{
		stage("Generated", src),
		stage("Broken-out", blocks...),
		stage("Demodulated", demodulated...),
		stage("Joint", target...),
	}
	ber, err := sim.BitErrorRate(ctx, s.Workers, src, target[0], src.Len())
	return ber, stages, err
}

// Print writes each check with the stage sequences it recorded, then a
// totals line.
func (r *Report) Print(w io.Writer) {
	group := ""
	for _, c := range r.Checks {
		if c.Group != group {
			group = c.Group
			fmt.Fprintf(w, "Performing %s test…\n", group)
		}
		if len(c.Stages) > 0 {
			fmt.Fprintf(w, "\t%s\n", c.Name)
			for _, st := range c.Stages {
				fmt.Fprintf(w, "\t\t%s sequence: %s\n", st.Name, st.Sequence)
			}
		}
		mark := "✓"
		if !c.Passed {
			mark = "✗"
		}
		fmt.Fprintf(w, "\t[%s %s, %s, %s] got: %f, should be: %f\n", mark, c.Group, c.Name, c.Metric, c.Got, c.Want)
	}
	fmt.Fprintf(w, "Tests: %d, passed: %d, failed: %d\n", len(r.Checks), r.Passed, r.Failed)
}
