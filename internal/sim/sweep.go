package sim

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Sweep is an inclusive range of h² values in the configured units.
type Sweep struct {
	Start float64 `json:"start" yaml:"start"`
	End   float64 `json:"end" yaml:"end"`
	Step  float64 `json:"step" yaml:"step"`
}

// DefaultSweep covers 0 to 15 dB in half-decibel steps.
var DefaultSweep = Sweep{Start: 0, End: 15, Step: 0.5}

// Validate requires finite bounds and a positive step.
func (sw Sweep) Validate() error {
	for _, v := range []float64{sw.Start, sw.End, sw.Step} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("sweep bounds must be finite, got [%g, %g] step %g", sw.Start, sw.End, sw.Step)
		}
	}
	if sw.Step <= 0 {
		return fmt.Errorf("sweep step must be positive, got %g", sw.Step)
	}
	return nil
}

// Values lists start, start+step, ... up to and including end. Values are
// computed as start+i*step so rounding does not accumulate; end counts as
// reached when within a millionth of a step.
func (sw Sweep) Values() []float64 {
	if sw.Step <= 0 || sw.End < sw.Start {
		return nil
	}
	n := int(math.Floor((sw.End-sw.Start)/sw.Step+1e-6)) + 1
	out := make([]float64, n)
	for i := range out {
		out[i] = sw.Start + float64(i)*sw.Step
	}
	return out
}

// Sweep runs every point of sw in order and hands each result to fn, if
// fn is non-nil. An error from fn stops the sweep.
func (s *Simulator) Sweep(ctx context.Context, sw Sweep, fn func(Result) error) ([]Result, error) {
	if err := sw.Validate(); err != nil {
		return nil, err
	}
	var results []Result
	for _, h := range sw.Values() {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		r, err := s.Run(ctx, h)
		if err != nil {
			return results, fmt.Errorf("h²=%g: %w", h, err)
		}
		results = append(results, r)
		if fn != nil {
			if err := fn(r); err != nil {
				return results, err
			}
		}
	}
	return results, nil
}

// Summary aggregates a sweep.
type Summary struct {
	Points      int      `json:"points"`
	MeanRate    float64  `json:"mean_rate"`
	MinRate     float64  `json:"min_rate"`
	MaxRate     float64  `json:"max_rate"`
	MeanSNR     float64  `json:"mean_snr_db"`
	Bits        int64    `json:"bits"`
	WrongBits   int64    `json:"wrong_bits"`
	OverallBER  float64  `json:"overall_ber"`
	ErrorFreeAt *float64 `json:"error_free_at,omitempty"` // lowest h² with a zero rate
}

// Summarize reduces results to a Summary.
func Summarize(results []Result) Summary {
	sum := Summary{Points: len(results)}
	if len(results) == 0 {
		return sum
	}
	rates := make([]float64, len(results))
	snrs := make([]float64, len(results))
	for i, r := range results {
		rates[i] = r.Rate
		snrs[i] = r.SNR
		sum.Bits += r.Bits
		sum.WrongBits += r.WrongBits
		if r.Rate == 0 && sum.ErrorFreeAt == nil {
			h := r.HSquare
			sum.ErrorFreeAt = &h
		}
	}
	sum.MeanRate = stat.Mean(rates, nil)
	sum.MinRate = floats.Min(rates)
	sum.MaxRate = floats.Max(rates)
	sum.MeanSNR = stat.Mean(snrs, nil)
	if sum.Bits > 0 {
		sum.OverallBER = float64(sum.WrongBits) / float64(sum.Bits)
	}
	return sum
}
