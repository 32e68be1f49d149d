package analysis

import (
	"math"
	"math/cmplx"
)

// fft computes the in-place radix-2 Cooley-Tukey transform of x.
// len(x) must be a power of two.
func fft(x []complex128) {
	n := len(x)
	if n <= 1 {
		return
	}

	for i, j := 1, 0; i < n; i++ {
		bit := n >> 1
		for ; j&bit != 0; bit >>= 1 {
			j ^= bit
		}
		j |= bit
		if i < j {
			x[i], x[j] = x[j], x[i]
		}
	}

	for length := 2; length <= n; length <<= 1 {
		root := cmplx.Exp(complex(0, -2*math.Pi/float64(length)))
		for start := 0; start < n; start += length {
			w := complex(1, 0)
			half := length / 2
			for k := start; k < start+half; k++ {
				u := x[k]
				v := x[k+half] * w
				x[k] = u + v
				x[k+half] = u - v
				w *= root
			}
		}
	}
}

// dctII returns the first count orthonormal DCT-II coefficients of x.
// Only the leading coefficients are needed for cepstral means, so the naive
// O(count*n) evaluation stays cheap.
func dctII(x []float64, count int) []float64 {
	out := make([]float64, count)
	n := len(x)
	if n == 0 || count == 0 {
		return out
	}
	scale0 := math.Sqrt(1 / float64(n))
	scale := math.Sqrt(2 / float64(n))
	for k := 0; k < count; k++ {
		var sum float64
		for i, v := range x {
			sum += v * math.Cos(math.Pi*float64(2*i+1)*float64(k)/(2*float64(n)))
		}
		if k == 0 {
			out[k] = sum * scale0
		} else {
			out[k] = sum * scale
		}
	}
	return out
}

// hannWindow returns the n-point Hann window.
func hannWindow(n int) []float64 {
	window := make([]float64, n)
	if n == 1 {
		window[0] = 1
		return window
	}
	for i := range window {
		window[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	return window
}
