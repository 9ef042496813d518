//go:build darwin

package vectormath

import (
	"math"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

// vDSP_dotpr and vDSP_svesq are bound lazily the first time this package
// is used on darwin. If the bind fails (missing framework, unexpected
// symbol layout), accelerateOK stays false forever and every call falls
// back to the portable loop; the failure stays local instead of exiting
// the process.
var (
	accelerateOnce sync.Once
	accelerateOK   bool

	// void vDSP_dotpr(const float *A, vDSP_Stride IA, const float *B,
	//                 vDSP_Stride IB, float *C, vDSP_Length N)
	vDSPDotpr func(a unsafe.Pointer, strideA int, b unsafe.Pointer, strideB int, result unsafe.Pointer, n uint32)

	// void vDSP_svesq(const float *A, vDSP_Stride I, float *C, vDSP_Length N)
	vDSPSvesq func(a unsafe.Pointer, stride int, result unsafe.Pointer, n uint32)
)

const accelerateLibPath = "/System/Library/Frameworks/Accelerate.framework/Accelerate"

func loadAccelerate() {
	lib, err := purego.Dlopen(accelerateLibPath, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return
	}

	defer func() {
		// RegisterLibFunc panics on an unresolved symbol; treat that as
		// "accelerate unavailable" rather than crashing the process.
		if r := recover(); r != nil {
			accelerateOK = false
		}
	}()

	purego.RegisterLibFunc(&vDSPDotpr, lib, "vDSP_dotpr")
	purego.RegisterLibFunc(&vDSPSvesq, lib, "vDSP_svesq")
	accelerateOK = true
}

func dotAndMagnitudesImpl(a, b []float32) (dot, magA, magB float32) {
	accelerateOnce.Do(loadAccelerate)
	if !accelerateOK || len(a) == 0 {
		return portableDotAndMagnitudes(a, b)
	}

	n := uint32(len(a))
	var dotOut, sqA, sqB float32

	vDSPDotpr(unsafe.Pointer(&a[0]), 1, unsafe.Pointer(&b[0]), 1, unsafe.Pointer(&dotOut), n)
	vDSPSvesq(unsafe.Pointer(&a[0]), 1, unsafe.Pointer(&sqA), n)
	vDSPSvesq(unsafe.Pointer(&b[0]), 1, unsafe.Pointer(&sqB), n)

	return dotOut, float32(math.Sqrt(float64(sqA))), float32(math.Sqrt(float64(sqB)))
}

func cosineBatchImpl(query []float32, candidates [][]float32, out []float32) {
	accelerateOnce.Do(loadAccelerate)
	if !accelerateOK {
		portableCosineBatch(query, candidates, out)
		return
	}
	// Each candidate still needs its own dot/magnitude pair; vDSP has no
	// single call for "one query against many rows", so the batching win
	// here is purely in avoiding Cosine's re-derivation of queryMag on
	// every candidate.
	_, queryMag, _ := dotAndMagnitudesImpl(query, query)
	for i, c := range candidates {
		dot, _, magC := dotAndMagnitudesImpl(query, c)
		if queryMag == 0 || magC == 0 {
			out[i] = 0
			continue
		}
		out[i] = dot / (queryMag * magC)
	}
}
