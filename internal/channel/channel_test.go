package channel

import (
	"context"
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/jeongseonghan/bersim/internal/random"
)

func unitPoints(n int) []complex128 {
	pts := make([]complex128, n)
	for i := range pts {
		pts[i] = cmplx.Rect(1, float64(i)*math.Pi/4)
	}
	return pts
}

func TestModel_Names(t *testing.T) {
	for _, m := range Models() {
		parsed, err := ParseModel(m.Name())
		if err != nil || parsed != m {
			t.Errorf("ParseModel(%q) = %v, %v", m.Name(), parsed, err)
		}
	}
	if AWGN.String() != "Additive white Gaussian noise" || Rayleigh.String() != "Rayleigh" {
		t.Errorf("unexpected descriptions %q, %q", AWGN, Rayleigh)
	}
	for _, name := range []string{"rician", "AWGN", " awgn"} {
		if _, err := ParseModel(name); err == nil {
			t.Errorf("ParseModel(%q): expected error", name)
		}
	}
}

func TestAddNoise_HighGainIsTransparent(t *testing.T) {
	in := unitPoints(1000)
	for _, m := range Models() {
		out, err := AddNoise(context.Background(), in, m, 1e12, random.NewPool(4, 5))
		if err != nil {
			t.Fatalf("%s: %v", m.Name(), err)
		}
		if len(out) != len(in) {
			t.Fatalf("%s: %d points, expected %d", m.Name(), len(out), len(in))
		}
		for i := range in {
			if cmplx.Abs(out[i]-in[i]) > 1e-2 {
				t.Fatalf("%s: point %d moved from %v to %v", m.Name(), i, in[i], out[i])
			}
		}
	}
}

func TestAddNoise_AWGNVariance(t *testing.T) {
	const n = 200000
	in := make([]complex128, n)
	out, err := AddNoise(context.Background(), in, AWGN, 2, random.NewPool(4, 77))
	if err != nil {
		t.Fatalf("AddNoise: %v", err)
	}
	var sr, si float64
	for _, p := range out {
		sr += real(p) * real(p)
		si += imag(p) * imag(p)
	}
	// 1/(2*h²) = 0.25 per axis.
	for _, v := range []float64{sr / n, si / n} {
		if math.Abs(v-0.25) > 0.01 {
			t.Errorf("per-axis variance %f, expected 0.25", v)
		}
	}
}

func TestAddNoise_Deterministic(t *testing.T) {
	in := unitPoints(500)
	ctx := context.Background()
	a, err := AddNoise(ctx, in, Rayleigh, 3, random.NewPool(3, 42))
	if err != nil {
		t.Fatal(err)
	}
	b, err := AddNoise(ctx, in, Rayleigh, 3, random.NewPool(3, 42))
	if err != nil {
		t.Fatal(err)
	}
	c, err := AddNoise(ctx, in, Rayleigh, 3, random.NewPool(3, 43))
	if err != nil {
		t.Fatal(err)
	}
	same := true
	for i := range in {
		if a[i] != b[i] {
			t.Fatalf("point %d differs between identical seeds", i)
		}
		if a[i] != c[i] {
			same = false
		}
	}
	if same {
		t.Error("different seeds produced identical noise")
	}
}

// Each point consumes the worker's Gaussian draws in a fixed order: AWGN
// takes n_R then n_I; Rayleigh takes h_R, h_I (deviation sqrt(1/2)) and
// then n_R, n_I.
func TestAddNoise_DrawOrder(t *testing.T) {
	const seed, hsquare = 2024, 4.0
	in := unitPoints(64)
	sigma := math.Sqrt(1 / (2 * hsquare))
	sigmaH := math.Sqrt(0.5)

	tests := []struct {
		model Model
		want  func(x complex128, g *random.Generator) complex128
	}{
		{AWGN, func(x complex128, g *random.Generator) complex128 {
			nr := sigma * g.Gauss()
			ni := sigma * g.Gauss()
			return x + complex(nr, ni)
		}},
		{Rayleigh, func(x complex128, g *random.Generator) complex128 {
			h := complex(sigmaH*g.Gauss(), sigmaH*g.Gauss())
			n := complex(sigma*g.Gauss(), sigma*g.Gauss())
			return (h*x + n) / h
		}},
	}
	for _, tt := range tests {
		t.Run(tt.model.Name(), func(t *testing.T) {
			out, err := AddNoise(context.Background(), in, tt.model, hsquare, random.NewPool(1, seed))
			if err != nil {
				t.Fatalf("AddNoise: %v", err)
			}
			ref := random.NewPool(1, seed).Worker(0)
			for i, x := range in {
				want := tt.want(x, ref)
				if cmplx.Abs(out[i]-want) > 1e-9*(1+cmplx.Abs(want)) {
					t.Fatalf("point %d: got %v, expected %v", i, out[i], want)
				}
			}
		})
	}
}

func TestAddNoise_InvalidGain(t *testing.T) {
	pool := random.NewPool(1, 1)
	for _, h := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := AddNoise(context.Background(), unitPoints(4), AWGN, h, pool)
		if !errors.Is(err, ErrInvalidGain) {
			t.Errorf("h²=%g: err %v, expected ErrInvalidGain", h, err)
		}
	}
}

func TestAddNoise_Empty(t *testing.T) {
	out, err := AddNoise(context.Background(), nil, AWGN, 1, random.NewPool(2, 1))
	if err != nil || out != nil {
		t.Errorf("AddNoise(nil) = %v, %v", out, err)
	}
}

func TestZeroForce(t *testing.T) {
	tests := []struct{ x, h complex128 }{
		{complex(1, 0), complex(0.3, -0.7)},
		{complex(-0.5, 0.5), complex(-1.2, 0.1)},
		{complex(0, -1), complex(2, 2)},
	}
	for _, tt := range tests {
		if got := ZeroForce(tt.h*tt.x, tt.h); cmplx.Abs(got-tt.x) > 1e-12 {
			t.Errorf("ZeroForce(h*%v, %v) = %v", tt.x, tt.h, got)
		}
	}
	if got := ZeroForce(complex(1, 2), 0); !cmplx.IsNaN(got) && !cmplx.IsInf(got) {
		t.Errorf("zero gain: %v, expected a non-finite result", got)
	}
}

func TestEstimateSNR(t *testing.T) {
	sent := []complex128{1, -1, 1, -1}
	if got := EstimateSNR(sent, sent); got != maxSNR {
		t.Errorf("noise-free SNR %f, expected %f", got, maxSNR)
	}
	// Error power 0.01 against signal power 1 per point: 20 dB.
	rx := []complex128{1.1, -0.9, 0.9, -1.1}
	if got := EstimateSNR(sent, rx); math.Abs(got-20) > 1e-9 {
		t.Errorf("SNR %f, expected 20", got)
	}
	if got := EstimateSNR(nil, nil); got != 0 {
		t.Errorf("empty SNR %f, expected 0", got)
	}
}
