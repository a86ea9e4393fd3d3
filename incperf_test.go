package incperf

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, p *IncPerf) int64 {
	t.Helper()
	val, err := p.Run()
	require.NoError(t, err)
	return val
}

func TestRunZeroWorkers(t *testing.T) {
	p := &IncPerf{NumWorkers: 0, NumIterations: 1000, Variant: VariantMutex}
	assert.Equal(t, int64(0), run(t, p))
}

func TestRunZeroIterations(t *testing.T) {
	p := &IncPerf{NumWorkers: 5, NumIterations: 0, Variant: VariantAtomic}
	assert.Equal(t, int64(0), run(t, p))
}

func TestRunSingleWorker(t *testing.T) {
	p := &IncPerf{NumWorkers: 1, NumIterations: 1000, Variant: VariantMutex}
	assert.Equal(t, int64(1000), run(t, p))
}

func TestRunExactness(t *testing.T) {
	cases := []struct {
		workers    int
		iterations int
	}{
		{1, 1},
		{2, 500},
		{8, 2500},
		{32, 1000},
	}
	for _, variant := range []string{VariantMutex, VariantAtomic} {
		for _, tc := range cases {
			name := fmt.Sprintf("%s/%dx%d", variant, tc.workers, tc.iterations)
			t.Run(name, func(t *testing.T) {
				p := &IncPerf{
					NumWorkers:    tc.workers,
					NumIterations: tc.iterations,
					Variant:       variant,
				}
				assert.Equal(t, p.Expected(), run(t, p))
			})
		}
	}
}

// The regression target: 100 workers fighting over one counter, repeated
// so an interleaving that loses an update would eventually show.
func TestRunHighContention(t *testing.T) {
	iterations := 100000
	runs := 20
	if testing.Short() {
		iterations = 1000
		runs = 5
	}
	for _, variant := range []string{VariantMutex, VariantAtomic} {
		t.Run(variant, func(t *testing.T) {
			expected := int64(100) * int64(iterations)
			for i := 0; i < runs; i++ {
				p := &IncPerf{
					NumWorkers:    100,
					NumIterations: iterations,
					Variant:       variant,
				}
				require.Equal(t, expected, run(t, p), "run %d lost updates", i)
			}
		})
	}
}

func TestRunVariantEquivalence(t *testing.T) {
	mutex := &IncPerf{NumWorkers: 16, NumIterations: 5000, Variant: VariantMutex}
	atomic := &IncPerf{NumWorkers: 16, NumIterations: 5000, Variant: VariantAtomic}
	assert.Equal(t, run(t, mutex), run(t, atomic))
}

func TestRunWithPreIncrementedCounter(t *testing.T) {
	c := NewAtomicCounter(7)
	p := &IncPerf{NumWorkers: 4, NumIterations: 100, Variant: VariantAtomic}
	assert.Equal(t, int64(7+4*100), p.RunWith(c))
}

func TestRunRepeatsOnFreshCounters(t *testing.T) {
	p := &IncPerf{NumWorkers: 4, NumIterations: 250, Variant: VariantMutex, NumRuns: 3}
	// Each run starts from zero, so the reported value never accumulates.
	assert.Equal(t, int64(1000), run(t, p))
}

func TestRunPaced(t *testing.T) {
	p := &IncPerf{
		NumWorkers:    2,
		NumIterations: 50,
		Variant:       VariantAtomic,
		Rate:          100000,
	}
	assert.Equal(t, int64(100), run(t, p))
}

func TestRunSimulateWork(t *testing.T) {
	p := &IncPerf{
		NumWorkers:    8,
		NumIterations: 1000,
		Variant:       VariantMutex,
		SimulateWork:  true,
	}
	assert.Equal(t, int64(8000), run(t, p))
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		p    IncPerf
	}{
		{"negative workers", IncPerf{NumWorkers: -1, Variant: VariantMutex}},
		{"negative iterations", IncPerf{NumIterations: -1, Variant: VariantMutex}},
		{"negative rate", IncPerf{Rate: -5, Variant: VariantMutex}},
		{"unknown variant", IncPerf{Variant: "seqlock"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.p.Validate())
			_, err := tc.p.Run()
			assert.Error(t, err)
		})
	}
}

func TestRunTalliesMatchCounter(t *testing.T) {
	p := &IncPerf{NumWorkers: 10, NumIterations: 25000, Variant: VariantAtomic}
	val := run(t, p)
	assert.Equal(t, val, p.tallies.Total())
	for i := 0; i < 10; i++ {
		n, ok := p.tallies.Get(i)
		require.True(t, ok)
		assert.Equal(t, int64(25000), n)
	}
}
