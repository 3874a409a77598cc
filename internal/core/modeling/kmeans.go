package modeling

import (
	"math"
	"math/rand"
)

const kmeansMaxIterations = 100

// KMeansModel holds fitted cluster centroids.
type KMeansModel struct {
	Centroids [][]float64
}

// Assign returns the index of the centroid nearest to row.
func (m *KMeansModel) Assign(row []float64) int {
	best, bestDist := 0, math.Inf(1)
	for i, c := range m.Centroids {
		if d := sqDist(row, c); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// AssignAll labels every row with its nearest centroid.
func (m *KMeansModel) AssignAll(x [][]float64) []int {
	labels := make([]int, len(x))
	for i, row := range x {
		labels[i] = m.Assign(row)
	}
	return labels
}

// FitKMeans runs Lloyd's algorithm with k-means++ seeding. The seed makes the
// fit deterministic for a given dataset.
func FitKMeans(x [][]float64, k int, seed int64) (*KMeansModel, []int, error) {
	if k < 1 || len(x) < k {
		return nil, nil, ErrDimensionMismatch
	}
	rng := rand.New(rand.NewSource(seed))
	model := &KMeansModel{Centroids: seedCentroids(x, k, rng)}

	labels := model.AssignAll(x)
	for iter := 0; iter < kmeansMaxIterations; iter++ {
		recenter(model.Centroids, x, labels)
		next := model.AssignAll(x)
		if equalLabels(labels, next) {
			break
		}
		labels = next
	}
	return model, labels, nil
}

// seedCentroids implements k-means++: each next centroid is sampled with
// probability proportional to its squared distance from the nearest chosen one.
func seedCentroids(x [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, cloneRow(x[rng.Intn(len(x))]))

	dists := make([]float64, len(x))
	for len(centroids) < k {
		var total float64
		for i, row := range x {
			d := math.Inf(1)
			for _, c := range centroids {
				if sd := sqDist(row, c); sd < d {
					d = sd
				}
			}
			dists[i] = d
			total += d
		}
		if total == 0 {
			// All remaining points coincide with a centroid; pick uniformly.
			centroids = append(centroids, cloneRow(x[rng.Intn(len(x))]))
			continue
		}
		target := rng.Float64() * total
		var acc float64
		idx := len(x) - 1
		for i, d := range dists {
			acc += d
			if acc >= target {
				idx = i
				break
			}
		}
		centroids = append(centroids, cloneRow(x[idx]))
	}
	return centroids
}

func recenter(centroids [][]float64, x [][]float64, labels []int) {
	dim := len(x[0])
	counts := make([]int, len(centroids))
	sums := make([][]float64, len(centroids))
	for i := range sums {
		sums[i] = make([]float64, dim)
	}
	for i, row := range x {
		l := labels[i]
		counts[l]++
		for j, v := range row {
			sums[l][j] += v
		}
	}
	for i := range centroids {
		if counts[i] == 0 {
			continue // empty cluster keeps its old centroid
		}
		for j := range centroids[i] {
			centroids[i][j] = sums[i][j] / float64(counts[i])
		}
	}
}

func sqDist(a, b []float64) float64 {
	var s float64
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}

func cloneRow(row []float64) []float64 {
	out := make([]float64, len(row))
	copy(out, row)
	return out
}

func equalLabels(a, b []int) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
