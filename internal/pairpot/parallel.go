package pairpot

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// minParallelAtoms is the particle count below which Parallel evaluates
// serially.
const minParallelAtoms = 32

// Parallel splits the outer pair loop of a Potential across goroutines.
// Worker w handles rows i with i%workers == w and accumulates into a private
// gradient; the partial results are summed in worker order, so repeated calls
// return identical results but differ from serial evaluation by rounding.
type Parallel struct {
	pot     *Potential
	workers int

	mu    sync.Mutex
	pools map[int]*BufferPool
}

// NewParallel wraps p. workers <= 0 selects runtime.NumCPU.
func NewParallel(p *Potential, workers int) *Parallel {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Parallel{
		pot:     p,
		workers: workers,
		pools:   make(map[int]*BufferPool),
	}
}

func (pp *Parallel) Workers() int          { return pp.workers }
func (pp *Parallel) Potential() *Potential { return pp.pot }

func (pp *Parallel) pool(size int) *BufferPool {
	pp.mu.Lock()
	defer pp.mu.Unlock()

	bp, ok := pp.pools[size]
	if !ok {
		bp = NewBufferPool(size)
		pp.pools[size] = bp
	}
	return bp
}

func (pp *Parallel) serial(natoms int) bool {
	return pp.workers <= 1 || natoms < minParallelAtoms
}

func (pp *Parallel) Energy(ctx context.Context, x []float64) (float64, error) {
	p := pp.pot
	natoms, err := p.numAtoms("parallel_energy", x)
	if err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if pp.serial(natoms) {
		return p.accumulateEnergy(x, natoms, 0, natoms, 1), nil
	}

	partial := make([]float64, pp.workers)
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < pp.workers; w++ {
		w := w // per-iteration copy (pre-Go 1.22 loop semantics)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			partial[w] = p.accumulateEnergy(x, natoms, w, natoms, pp.workers)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	e := 0.0
	for _, v := range partial {
		e += v
	}
	return e, nil
}

// EnergyGradient zeroes grad and fills it with the gradient at x.
func (pp *Parallel) EnergyGradient(ctx context.Context, x, grad []float64) (float64, error) {
	p := pp.pot
	natoms, err := p.numAtoms("parallel_energy_gradient", x)
	if err != nil {
		return 0, err
	}
	if err := p.checkGradient("parallel_energy_gradient", x, grad); err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	clear(grad)
	if pp.serial(natoms) {
		return p.accumulateGradient(x, grad, natoms, 0, natoms, 1), nil
	}

	bp := pp.pool(len(x))
	local := make([][]float64, pp.workers)
	for w := range local {
		local[w] = bp.Get()
	}
	defer func() {
		for _, buf := range local {
			bp.Put(buf)
		}
	}()

	partial := make([]float64, pp.workers)
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < pp.workers; w++ {
		w := w // per-iteration copy (pre-Go 1.22 loop semantics)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			partial[w] = p.accumulateGradient(x, local[w], natoms, w, natoms, pp.workers)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	e := 0.0
	for w := 0; w < pp.workers; w++ {
		e += partial[w]
		for k, v := range local[w] {
			grad[k] += v
		}
	}
	return e, nil
}
