package sink

import (
	"fmt"
	"sync"

	"github.com/arloliu/feelgood/compress"
	"github.com/arloliu/feelgood/format"
)

// Compressed compresses every file before passing it to the wrapped sink
// and appends the algorithm's extension to its name.
type Compressed struct {
	next  Sink
	codec compress.Codec
	ext   string

	mu    sync.Mutex
	stats compress.CompressionStats
}

var (
	_ Sink    = (*Compressed)(nil)
	_ Renamer = (*Compressed)(nil)
)

// NewCompressed wraps next with the built-in codec for compressionType.
// CompressionNone returns a pass-through wrapper with no extension.
func NewCompressed(next Sink, compressionType format.CompressionType) (*Compressed, error) {
	codec, err := compress.GetCodec(compressionType)
	if err != nil {
		return nil, err
	}

	return &Compressed{
		next:  next,
		codec: codec,
		ext:   compressionType.Extension(),
		stats: compress.CompressionStats{Algorithm: compressionType},
	}, nil
}

// Write compresses data and writes it as name plus the codec extension.
func (c *Compressed) Write(name string, data []byte) error {
	out, err := c.codec.Compress(data)
	if err != nil {
		return fmt.Errorf("compress %q: %w", name, err)
	}

	c.mu.Lock()
	c.stats.Add(len(data), len(out))
	c.mu.Unlock()

	return c.next.Write(name+c.ext, out)
}

// StoredName returns name plus the codec extension, as renamed by any wrapped
// sink that also renames.
func (c *Compressed) StoredName(name string) string {
	return StoredName(c.next, name+c.ext)
}

// Stats returns the accumulated compression statistics.
func (c *Compressed) Stats() compress.CompressionStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.stats
}
