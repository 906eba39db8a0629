package core

import (
	"bytes"
	"sync"
)

// GenericPool is a generic wrapper around sync.Pool
type GenericPool[T any] struct {
	pool sync.Pool
}

// NewGenericPool creates a new GenericPool with a function to create new items.
func NewGenericPool[T any](newItem func() T) *GenericPool[T] {
	return &GenericPool[T]{
		pool: sync.Pool{
			New: func() interface{} {
				return newItem()
			},
		},
	}
}

func (p *GenericPool[T]) Get() T {
	return p.pool.Get().(T)
}

func (p *GenericPool[T]) Put(item T) {
	p.pool.Put(item)
}

// DefaultReadBufferSize covers a typical lotheader; lotpacks grow the buffer.
const DefaultReadBufferSize = 64 * 1024

// BufferPool recycles whole-file read buffers across a batch. Decoders copy
// what they keep, so a buffer can go back as soon as its file is verified.
type BufferPool struct {
	pool        *GenericPool[*bytes.Buffer]
	maxRetained int
}

// NewBufferPool returns a pool of buffers with initialCapacity bytes
// preallocated. Buffers that grew beyond maxRetained are dropped on Put;
// maxRetained <= 0 keeps everything.
func NewBufferPool(initialCapacity, maxRetained int) *BufferPool {
	return &BufferPool{
		pool: NewGenericPool(func() *bytes.Buffer {
			return bytes.NewBuffer(make([]byte, 0, initialCapacity))
		}),
		maxRetained: maxRetained,
	}
}

// Get returns an empty buffer.
func (p *BufferPool) Get() *bytes.Buffer {
	b := p.pool.Get()
	b.Reset()
	return b
}

func (p *BufferPool) Put(b *bytes.Buffer) {
	if b == nil || (p.maxRetained > 0 && b.Cap() > p.maxRetained) {
		return
	}
	p.pool.Put(b)
}
