package pool

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errWriteFailed = errors.New("write failed")

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errWriteFailed }

type failingReader struct {
	data []byte
}

func (r *failingReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, errWriteFailed
	}
	n := copy(p, r.data)
	r.data = r.data[n:]

	return n, nil
}

func TestNewByteBuffer(t *testing.T) {
	bb := NewByteBuffer(1024)

	require.NotNil(t, bb.B)
	assert.Equal(t, 0, bb.Len())
	assert.Equal(t, 1024, bb.Cap())
}

func TestByteBuffer_WriteAndReset(t *testing.T) {
	bb := NewByteBuffer(16)

	n, err := bb.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, []byte("hello"), bb.Bytes())

	capBefore := bb.Cap()
	bb.Reset()
	assert.Equal(t, 0, bb.Len())
	assert.Equal(t, capBefore, bb.Cap(), "Reset should preserve capacity")
}

func TestByteBuffer_Grow(t *testing.T) {
	t.Run("sufficient capacity", func(t *testing.T) {
		bb := NewByteBuffer(100)
		bb.Grow(50)
		assert.Equal(t, 100, bb.Cap())
	})

	t.Run("small buffer grows by default size", func(t *testing.T) {
		bb := NewByteBuffer(10)
		bb.B = append(bb.B, make([]byte, 10)...)
		bb.Grow(1)
		assert.Equal(t, 10+FileBufferDefaultSize, bb.Cap())
	})

	t.Run("large buffer grows by a quarter", func(t *testing.T) {
		size := 8 * FileBufferDefaultSize
		bb := NewByteBuffer(size)
		bb.B = bb.B[:size]
		bb.Grow(1)
		assert.Equal(t, size+size/4, bb.Cap())
	})

	t.Run("at least required bytes", func(t *testing.T) {
		bb := NewByteBuffer(0)
		bb.Grow(3 * FileBufferDefaultSize)
		assert.Equal(t, 3*FileBufferDefaultSize, bb.Cap())
	})

	t.Run("preserves data", func(t *testing.T) {
		bb := NewByteBuffer(4)
		_, _ = bb.Write([]byte("data"))
		bb.Grow(100)
		assert.Equal(t, []byte("data"), bb.Bytes())
	})
}

func TestByteBuffer_ReadFrom(t *testing.T) {
	payload := bytes.Repeat([]byte("feelgood"), 2000)

	bb := NewByteBuffer(8)
	_, _ = bb.Write([]byte("prefix"))
	n, err := bb.ReadFrom(bytes.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), n)
	assert.Equal(t, append([]byte("prefix"), payload...), bb.Bytes())

	bb.Reset()
	n, err = bb.ReadFrom(strings.NewReader(""))
	require.NoError(t, err)
	assert.Zero(t, n)

	bb.Reset()
	n, err = bb.ReadFrom(&failingReader{data: []byte("abc")})
	require.ErrorIs(t, err, errWriteFailed)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, []byte("abc"), bb.Bytes())
}

func TestByteBuffer_WriteTo(t *testing.T) {
	bb := NewByteBuffer(16)
	_, _ = bb.Write([]byte("line\n"))

	var out bytes.Buffer
	n, err := bb.WriteTo(&out)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	assert.Equal(t, "line\n", out.String())

	_, err = bb.WriteTo(failingWriter{})
	require.ErrorIs(t, err, errWriteFailed)

	var _ io.WriterTo = bb
	var _ io.ReaderFrom = bb
}

func TestByteBufferPool_Reuse(t *testing.T) {
	p := NewByteBufferPool(64, 0)

	bb := p.Get()
	require.NotNil(t, bb)
	assert.Equal(t, 64, bb.Cap())
	_, _ = bb.Write([]byte("stale"))
	p.Put(bb)

	again := p.Get()
	assert.Equal(t, 0, again.Len(), "pooled buffers come back empty")

	p.Put(nil)
}

func TestByteBufferPool_MaxThreshold(t *testing.T) {
	p := NewByteBufferPool(16, 32)

	bb := p.Get()
	bb.Grow(1024)
	p.Put(bb)

	for range 10 {
		got := p.Get()
		assert.LessOrEqual(t, got.Cap(), 32, "oversized buffers are not retained")
	}
}

func TestDefaultPools(t *testing.T) {
	fb := GetFileBuffer()
	assert.Equal(t, FileBufferDefaultSize, fb.Cap())
	PutFileBuffer(fb)

	lb := GetLineBuffer()
	assert.GreaterOrEqual(t, lb.Cap(), LineBufferDefaultSize)
	assert.LessOrEqual(t, lb.Cap(), LineBufferMaxThreshold)
	PutLineBuffer(lb)
}

func TestPool_ConcurrentAccess(t *testing.T) {
	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				bb := GetLineBuffer()
				_, _ = bb.Write([]byte{byte(i)})
				assert.Equal(t, []byte{byte(i)}, bb.Bytes())
				PutLineBuffer(bb)
			}
		}()
	}
	wg.Wait()
}
