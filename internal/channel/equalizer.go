package channel

import "math"

// maxSNR caps EstimateSNR when the received points are noise-free.
const maxSNR = 60.0

// ZeroForce undoes a known flat channel gain: y * conj(h) / |h|². A zero
// gain is divided through like any other and yields non-finite parts.
func ZeroForce(y, h complex128) complex128 {
	hPow := real(h)*real(h) + imag(h)*imag(h)
	re := real(y)*real(h) + imag(y)*imag(h)
	im := imag(y)*real(h) - real(y)*imag(h)
	return complex(re/hPow, im/hPow)
}

// EstimateSNR measures the signal-to-noise ratio in dB between sent and
// received points: total signal power over total error power. Only the
// common prefix of both slices is used.
func EstimateSNR(sent, received []complex128) float64 {
	n := min(len(sent), len(received))
	var signal, noise float64
	for i := 0; i < n; i++ {
		s := sent[i]
		e := received[i] - s
		signal += real(s)*real(s) + imag(s)*imag(s)
		noise += real(e)*real(e) + imag(e)*imag(e)
	}
	if noise <= 0 || signal <= 0 {
		if signal > 0 {
			return maxSNR
		}
		return 0
	}
	return math.Min(10*math.Log10(signal/noise), maxSNR)
}
