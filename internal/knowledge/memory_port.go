package knowledge

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryPort is an in-process Port used by tests and by hosts that want
// a purely ephemeral store. It round-trips through JSON so encoding
// behaves exactly like the durable backends.
type MemoryPort struct {
	mu        sync.Mutex
	blob      []byte
	saveCount int

	// FailLoad/FailSave make the port misbehave on demand in tests
	FailLoad error
	FailSave error
}

// NewMemoryPort creates an empty in-memory port
func NewMemoryPort() *MemoryPort {
	return &MemoryPort{}
}

// Load decodes the last saved blob
func (p *MemoryPort) Load(ctx context.Context) (*Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.FailLoad != nil {
		return nil, p.FailLoad
	}
	if p.blob == nil {
		return nil, nil
	}

	var snap Snapshot
	if err := json.Unmarshal(p.blob, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Save encodes and keeps the snapshot
func (p *MemoryPort) Save(ctx context.Context, snap *Snapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.FailSave != nil {
		return p.FailSave
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	p.blob = data
	p.saveCount++
	return nil
}

// SaveCount reports how many saves succeeded
func (p *MemoryPort) SaveCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.saveCount
}

// SetBlob seeds the port with raw bytes, valid or not
func (p *MemoryPort) SetBlob(blob []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.blob = blob
}

// Close is a no-op
func (p *MemoryPort) Close() error {
	return nil
}
