// Package pool keeps reusable byte buffers for metadata blocks and raw data
// runs.
package pool

import "sync"

// Default and maximum retained sizes of the pooled buffers.
const (
	MetaBufferDefaultSize  = 1024 * 4        // 4KiB, typical metadata block
	MetaBufferMaxThreshold = 1024 * 256      // 256KiB
	RunBufferDefaultSize   = 1024 * 64       // 64KiB, one raw data run
	RunBufferMaxThreshold  = 1024 * 1024 * 8 // 8MiB
)

// ByteBuffer is a reusable byte slice.
type ByteBuffer struct {
	B []byte
}

// NewByteBuffer creates an empty buffer with the given capacity.
func NewByteBuffer(capacity int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, capacity)}
}

// Bytes returns the buffer content.
func (bb *ByteBuffer) Bytes() []byte { return bb.B }

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int { return len(bb.B) }

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int { return cap(bb.B) }

// Reset empties the buffer and keeps its memory.
func (bb *ByteBuffer) Reset() { bb.B = bb.B[:0] }

// Resize sets the length of the buffer to n, reallocating when the capacity is short.
// The content is not preserved across a reallocation.
func (bb *ByteBuffer) Resize(n int) []byte {
	if cap(bb.B) < n {
		bb.B = make([]byte, n)
	}

	bb.B = bb.B[:n]

	return bb.B
}

// ByteBufferPool is a sync.Pool of ByteBuffers. Buffers that grew beyond
// maxThreshold are dropped on Put instead of being retained.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a pool whose new buffers have defaultSize
// capacity. A maxThreshold of zero retains every buffer.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves an empty buffer.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns bb to the pool. bb must not be used afterwards.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var (
	metaPool = NewByteBufferPool(MetaBufferDefaultSize, MetaBufferMaxThreshold)
	runPool  = NewByteBufferPool(RunBufferDefaultSize, RunBufferMaxThreshold)
)

// GetMetaBuffer retrieves a buffer sized for segment metadata blocks.
func GetMetaBuffer() *ByteBuffer {
	return metaPool.Get()
}

// PutMetaBuffer returns a buffer obtained from GetMetaBuffer.
func PutMetaBuffer(bb *ByteBuffer) {
	metaPool.Put(bb)
}

// GetRunBuffer retrieves a buffer sized for raw data reads.
func GetRunBuffer() *ByteBuffer {
	return runPool.Get()
}

// PutRunBuffer returns a buffer obtained from GetRunBuffer.
func PutRunBuffer(bb *ByteBuffer) {
	runPool.Put(bb)
}
