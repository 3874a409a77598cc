package modeling

import (
	"math"
	"math/rand"
)

// R2 is the coefficient of determination of predictions against actuals.
func R2(actual, predicted []float64) float64 {
	mean := 0.0
	for _, v := range actual {
		mean += v
	}
	mean /= float64(len(actual))

	var ssRes, ssTot float64
	for i, v := range actual {
		ssRes += (v - predicted[i]) * (v - predicted[i])
		ssTot += (v - mean) * (v - mean)
	}
	if ssTot == 0 {
		if ssRes == 0 {
			return 1
		}
		return 0
	}
	return 1 - ssRes/ssTot
}

// RMSE is the root mean squared error.
func RMSE(actual, predicted []float64) float64 {
	var s float64
	for i, v := range actual {
		d := v - predicted[i]
		s += d * d
	}
	return math.Sqrt(s / float64(len(actual)))
}

// MAE is the mean absolute error.
func MAE(actual, predicted []float64) float64 {
	var s float64
	for i, v := range actual {
		s += math.Abs(v - predicted[i])
	}
	return s / float64(len(actual))
}

// Silhouette computes the mean silhouette coefficient over all samples.
// O(n²); the per-account datasets this service trains on are small.
func Silhouette(x [][]float64, labels []int) float64 {
	n := len(x)
	if n == 0 {
		return 0
	}
	clusterSizes := map[int]int{}
	for _, l := range labels {
		clusterSizes[l]++
	}
	if len(clusterSizes) < 2 {
		return 0
	}

	var total float64
	var counted int
	for i := 0; i < n; i++ {
		own := labels[i]
		if clusterSizes[own] <= 1 {
			continue // silhouette of a singleton is defined as 0
		}
		sums := map[int]float64{}
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			sums[labels[j]] += math.Sqrt(sqDist(x[i], x[j]))
		}
		a := sums[own] / float64(clusterSizes[own]-1)
		b := math.Inf(1)
		for l, s := range sums {
			if l == own {
				continue
			}
			if m := s / float64(clusterSizes[l]); m < b {
				b = m
			}
		}
		if math.Max(a, b) > 0 {
			total += (b - a) / math.Max(a, b)
		}
		counted++
	}
	if counted == 0 {
		return 0
	}
	return total / float64(counted)
}

// TrainTestSplit shuffles indices 0..n-1 with the given seed and splits them
// so that roughly testSize of the samples land in the test set. Both halves
// are guaranteed non-empty for n >= 2.
func TrainTestSplit(n int, testSize float64, seed int64) (train, test []int) {
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	nTest := int(math.Round(float64(n) * testSize))
	if nTest < 1 {
		nTest = 1
	}
	if nTest >= n {
		nTest = n - 1
	}
	return perm[nTest:], perm[:nTest]
}
