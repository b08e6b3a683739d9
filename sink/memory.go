package sink

import (
	"slices"
	"sync"
	"sync/atomic"
)

// Memory keeps written files in memory. It is safe for concurrent use.
type Memory struct {
	mu    sync.RWMutex
	files map[string][]byte
	order []string
}

var _ Sink = (*Memory)(nil)

// NewMemory creates an empty Memory sink.
func NewMemory() *Memory {
	return &Memory{files: make(map[string][]byte)}
}

// Write stores a copy of data under name.
func (m *Memory) Write(name string, data []byte) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.files[name]; !exists {
		m.order = append(m.order, name)
	}
	m.files[name] = slices.Clone(data)

	return nil
}

// Get returns the data stored under name.
func (m *Memory) Get(name string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.files[name]

	return data, ok
}

// Names returns the stored names in first-write order.
func (m *Memory) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Clone(m.order)
}

// Len returns the number of stored files.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.files)
}

// Discard drops every file and only counts them. It is safe for concurrent use.
type Discard struct {
	files atomic.Uint64
	bytes atomic.Uint64
}

var _ Sink = (*Discard)(nil)

// Write counts data and drops it.
func (d *Discard) Write(_ string, data []byte) error {
	d.files.Add(1)
	d.bytes.Add(uint64(len(data)))

	return nil
}

// Files returns the number of files written.
func (d *Discard) Files() uint64 {
	return d.files.Load()
}

// Bytes returns the number of bytes written.
func (d *Discard) Bytes() uint64 {
	return d.bytes.Load()
}
