package diffusion_test

import (
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/cellprop/diffusion"
)

// benchmarkPropagate runs the full loop on a synthetic ring-with-self-loops
// graph of n cells. It resets the timer before the loop and fails on
// unexpected errors.
func benchmarkPropagate(b *testing.B, n, iterations int) {
	rng := rand.New(rand.NewSource(7)) // fixed seed for reproducible inputs

	graph := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		graph.Set(i, i, 1)
		graph.Set(i, (i+1)%n, 0.5)
		graph.Set(i, (i+n-1)%n, 0.5)
	}

	initial := mat.NewDense(n, 2, nil)
	scores := make([]float64, n)
	for i := 0; i < n; i++ {
		p := 0.05 + 0.9*rng.Float64()
		initial.Set(i, 0, p)
		initial.Set(i, 1, 1-p)
		scores[i] = p - (1 - p)
		if scores[i] < 0 {
			scores[i] = -scores[i]
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := diffusion.Propagate(graph, initial, scores, 0.5, iterations); err != nil {
			b.Fatalf("Propagate failed: %v", err)
		}
	}
}

// BenchmarkPropagate_Small benchmarks 100 cells over a 20-iteration budget.
func BenchmarkPropagate_Small(b *testing.B) {
	benchmarkPropagate(b, 100, 20)
}

// BenchmarkPropagate_Medium benchmarks 500 cells over a 20-iteration budget.
func BenchmarkPropagate_Medium(b *testing.B) {
	benchmarkPropagate(b, 500, 20)
}

// BenchmarkPropagate_LongBudget benchmarks 100 cells with a 100-iteration
// budget to expose the early-stop savings.
func BenchmarkPropagate_LongBudget(b *testing.B) {
	benchmarkPropagate(b, 100, 100)
}
