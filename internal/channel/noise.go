package channel

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jeongseonghan/bersim/internal/parallel"
	"github.com/jeongseonghan/bersim/internal/random"
)

// ErrInvalidGain is returned for a non-positive or non-finite h².
var ErrInvalidGain = errors.New("channel gain must be positive and finite")

// Per-axis standard deviation of the Rayleigh fading gain.
var sigmaFading = math.Sqrt(0.5)

// AddNoise returns a distorted copy of points. hsquare is the linear
// signal-to-noise parameter; the noise variance per axis is 1/(2*hsquare).
//
// Points are split into one contiguous range per pool worker and each
// range draws from that worker's generator, so the output depends only on
// the pool seed and worker count.
func AddNoise(ctx context.Context, points []complex128, model Model, hsquare float64, pool *random.Pool) ([]complex128, error) {
	if !model.Valid() {
		panic(fmt.Sprintf("channel: unknown model %d", int(model)))
	}
	if !(hsquare > 0) || math.IsInf(hsquare, 1) {
		return nil, fmt.Errorf("add noise: h²=%g: %w", hsquare, ErrInvalidGain)
	}
	if len(points) == 0 {
		return nil, nil
	}
	sigma := math.Sqrt(1 / (2 * hsquare))

	out := make([]complex128, len(points))
	err := parallel.For(ctx, pool.Workers(), len(points), func(w, lo, hi int) {
		g := pool.Worker(w)
		for i := lo; i < hi; i++ {
			switch model {
			case AWGN:
				out[i] = awgn(points[i], sigma, g)
			case Rayleigh:
				out[i] = rayleigh(points[i], sigma, g)
			}
		}
	})
	if err != nil {
		return nil, fmt.Errorf("add %s noise: %w", model.Name(), err)
	}
	return out, nil
}

func awgn(x complex128, sigma float64, g *random.Generator) complex128 {
	nr := sigma * g.Gauss()
	ni := sigma * g.Gauss()
	return x + complex(nr, ni)
}

func rayleigh(x complex128, sigma float64, g *random.Generator) complex128 {
	hr := sigmaFading * g.Gauss()
	hi := sigmaFading * g.Gauss()
	nr := sigma * g.Gauss()
	ni := sigma * g.Gauss()

	h := complex(hr, hi)
	y := h*x + complex(nr, ni)
	return ZeroForce(y, h)
}
