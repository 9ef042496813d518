//go:build !darwin

package vectormath

// On non-darwin platforms there is no vDSP to bind to, so the
// accelerated path is simply the portable one.

func dotAndMagnitudesImpl(a, b []float32) (dot, magA, magB float32) {
	return portableDotAndMagnitudes(a, b)
}

func cosineBatchImpl(query []float32, candidates [][]float32, out []float32) {
	portableCosineBatch(query, candidates, out)
}
