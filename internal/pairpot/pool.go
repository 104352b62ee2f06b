package pairpot

import "sync"

// BufferPool recycles zeroed float64 buffers of a fixed length.
type BufferPool struct {
	pool sync.Pool
	size int
}

func NewBufferPool(size int) *BufferPool {
	return &BufferPool{
		size: size,
		pool: sync.Pool{
			New: func() interface{} {
				return make([]float64, size)
			},
		},
	}
}

func (b *BufferPool) Size() int { return b.size }

// Get returns a zeroed buffer of length Size.
func (b *BufferPool) Get() []float64 {
	return b.pool.Get().([]float64)
}

// Put zeroes buf and returns it to the pool. Buffers of the wrong length are
// dropped.
func (b *BufferPool) Put(buf []float64) {
	if len(buf) == b.size {
		clear(buf)
		b.pool.Put(buf)
	}
}
