package analytics

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"tabinsight/internal/numeric"
)

// Coefficients of Royston's AS R94 approximation
var (
	swC1 = []float64{0, 0.221157, -0.147981, -2.071190, 4.434685, -2.706056}
	swC2 = []float64{0, 0.042981, -0.293762, -1.752461, 5.682633, -3.582633}
	swC3 = []float64{0.5440, -0.39978, 0.025054, -6.714e-4}
	swC4 = []float64{1.3822, -0.77857, 0.062767, -0.0020322}
	swC5 = []float64{-1.5861, -0.31082, -0.083751, 0.0038915}
	swC6 = []float64{-0.4803, -0.082676, 0.0030302}
	swG  = []float64{-2.273, 0.459}
)

// poly evaluates c[0] + c[1]x + c[2]x² + ...
func poly(c []float64, x float64) float64 {
	out := 0.0
	for i := len(c) - 1; i >= 0; i-- {
		out = out*x + c[i]
	}
	return out
}

// ShapiroWilk returns the W statistic and p-value for the sample using
// Royston's algorithm. It needs at least three values; a constant sample
// reports W = 1 and p = 1.
func ShapiroWilk(xs []float64) (w, p float64) {
	n := len(xs)
	if n < 3 {
		return math.NaN(), math.NaN()
	}
	x := numeric.Sorted(xs)
	if x[n-1]-x[0] < 1e-19 {
		return 1, 1
	}

	a := swCoefficients(n)

	var mean float64
	for _, v := range x {
		mean += v
	}
	mean /= float64(n)

	var num, ssq float64
	for i := 0; i < n/2; i++ {
		num += a[i] * (x[n-1-i] - x[i])
	}
	for _, v := range x {
		ssq += (v - mean) * (v - mean)
	}
	w = math.Min(num*num/ssq, 1)

	if n == 3 {
		const sixOverPi = 1.90985931710274
		const asinSqrt34 = 1.04719755119660
		p = sixOverPi * (math.Asin(math.Sqrt(w)) - asinSqrt34)
		return w, math.Max(p, 0)
	}

	an := float64(n)
	y := math.Log(1 - w)
	var m, s float64
	if n <= 11 {
		gamma := poly(swG, an)
		if y >= gamma {
			return w, 1e-99
		}
		y = -math.Log(gamma - y)
		m = poly(swC3, an)
		s = math.Exp(poly(swC4, an))
	} else {
		lx := math.Log(an)
		m = poly(swC5, lx)
		s = math.Exp(poly(swC6, lx))
	}
	return w, distuv.UnitNormal.Survival((y - m) / s)
}

// swCoefficients returns the first n/2 weights of the W statistic. The
// remaining weights are their negated mirror images.
func swCoefficients(n int) []float64 {
	half := n / 2
	a := make([]float64, half)
	if n == 3 {
		a[0] = math.Sqrt(0.5)
		return a
	}

	an := float64(n)
	m := make([]float64, half)
	var summ2 float64
	for i := range m {
		m[i] = distuv.UnitNormal.Quantile((float64(i+1) - 0.375) / (an + 0.25))
		summ2 += m[i] * m[i]
	}
	summ2 *= 2
	ssumm2 := math.Sqrt(summ2)
	rsn := 1 / math.Sqrt(an)

	a1 := poly(swC1, rsn) - m[0]/ssumm2
	first := 1
	var fac float64
	if n > 5 {
		a2 := -m[1]/ssumm2 + poly(swC2, rsn)
		fac = math.Sqrt((summ2 - 2*m[0]*m[0] - 2*m[1]*m[1]) / (1 - 2*a1*a1 - 2*a2*a2))
		a[1] = a2
		first = 2
	} else {
		fac = math.Sqrt((summ2 - 2*m[0]*m[0]) / (1 - 2*a1*a1))
	}
	a[0] = a1
	for i := first; i < half; i++ {
		a[i] = -m[i] / fac
	}
	return a
}
