package ml

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// R2 is the coefficient of determination. A constant actual series scores
// 1 when predicted exactly and 0 otherwise.
func R2(actual, predicted []float64) float64 {
	mean := stat.Mean(actual, nil)
	var ssRes, ssTot float64
	for i, a := range actual {
		ssRes += (a - predicted[i]) * (a - predicted[i])
		ssTot += (a - mean) * (a - mean)
	}
	if ssTot == 0 {
		if ssRes == 0 {
			return 1
		}
		return 0
	}
	return 1 - ssRes/ssTot
}

// MSE is the mean squared error
func MSE(actual, predicted []float64) float64 {
	var sum float64
	for i, a := range actual {
		sum += (a - predicted[i]) * (a - predicted[i])
	}
	return sum / float64(len(actual))
}

// MAPE is the mean of |(actual-predicted)/(actual+eps)|
func MAPE(actual, predicted []float64, eps float64) float64 {
	var sum float64
	for i, a := range actual {
		sum += math.Abs((a - predicted[i]) / (a + eps))
	}
	return sum / float64(len(actual))
}

// TrendCorrelation is the Pearson correlation of the two series, 0 when
// either is constant
func TrendCorrelation(actual, predicted []float64) float64 {
	if len(actual) < 2 || stat.Variance(actual, nil) == 0 || stat.Variance(predicted, nil) == 0 {
		return 0
	}
	r := stat.Correlation(actual, predicted, nil)
	if math.IsNaN(r) {
		return 0
	}
	return r
}
