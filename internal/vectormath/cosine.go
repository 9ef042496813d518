// Package vectormath implements the similarity scoring used by the
// in-memory vector index (spec §4.H). Cosine similarity is the only
// operation the index needs, so the package exposes exactly that, plus
// the magnitude helper the scorer shares with the embedding normalizer.
//
// On darwin/amd64 and darwin/arm64, CosineBatch binds into the
// Accelerate framework's vDSP routines via purego (see accelerate_darwin.go)
// to get vectorized dot products and magnitudes without cgo. Everywhere
// else, and if the Accelerate bind fails for any reason, it falls back to
// a portable multi-accumulator loop that the Go compiler auto-vectorizes
// reasonably well on amd64/arm64.
package vectormath

import "math"

// Cosine returns the cosine similarity of a and b. Per spec §4.H, if
// either vector has zero magnitude the result is 0 rather than NaN.
func Cosine(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	dot, magA, magB := dotAndMagnitudes(a, b)
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (magA * magB)
}

// CosineBatch scores query against every row in candidates, writing into
// out (which must have len(candidates) capacity). On the darwin Accelerate
// path it computes the query's magnitude once per batch rather than once
// per candidate; the fallback just loops Cosine.
func CosineBatch(query []float32, candidates [][]float32, out []float32) {
	if cap(out) < len(candidates) {
		out = make([]float32, len(candidates))
	}
	out = out[:len(candidates)]
	cosineBatchImpl(query, candidates, out)
}

// dotAndMagnitudes computes the dot product and the (non-squared)
// Euclidean magnitudes of a and b in one pass, deferring to the
// architecture-specific accelerated implementation when available.
func dotAndMagnitudes(a, b []float32) (dot, magA, magB float32) {
	return dotAndMagnitudesImpl(a, b)
}

// portableDotAndMagnitudes is the pure-Go fallback: four independent
// accumulators break the dependency chain so the compiler can pipeline
// the multiply-adds instead of serializing on a single running sum.
func portableDotAndMagnitudes(a, b []float32) (dot, magA, magB float32) {
	var dot0, dot1, dot2, dot3 float32
	var a0, a1, a2, a3 float32
	var b0, b1, b2, b3 float32

	n := len(a)
	i := 0
	for ; i+4 <= n; i += 4 {
		dot0 += a[i] * b[i]
		dot1 += a[i+1] * b[i+1]
		dot2 += a[i+2] * b[i+2]
		dot3 += a[i+3] * b[i+3]

		a0 += a[i] * a[i]
		a1 += a[i+1] * a[i+1]
		a2 += a[i+2] * a[i+2]
		a3 += a[i+3] * a[i+3]

		b0 += b[i] * b[i]
		b1 += b[i+1] * b[i+1]
		b2 += b[i+2] * b[i+2]
		b3 += b[i+3] * b[i+3]
	}
	for ; i < n; i++ {
		dot0 += a[i] * b[i]
		a0 += a[i] * a[i]
		b0 += b[i] * b[i]
	}

	dot = dot0 + dot1 + dot2 + dot3
	magA = float32(math.Sqrt(float64(a0 + a1 + a2 + a3)))
	magB = float32(math.Sqrt(float64(b0 + b1 + b2 + b3)))
	return dot, magA, magB
}

func portableCosineBatch(query []float32, candidates [][]float32, out []float32) {
	for i, c := range candidates {
		out[i] = Cosine(query, c)
	}
}

// Magnitude returns the Euclidean norm of v, used by embedding providers
// that need to L2-normalize raw model output (spec §4.A).
func Magnitude(v []float32) float32 {
	var sum float32
	for _, x := range v {
		sum += x * x
	}
	return float32(math.Sqrt(float64(sum)))
}

// Normalize scales v to unit length in place. A zero vector is left
// unchanged rather than dividing by zero.
func Normalize(v []float32) {
	mag := Magnitude(v)
	if mag == 0 {
		return
	}
	for i := range v {
		v[i] /= mag
	}
}
