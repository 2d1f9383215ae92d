package messaging

import (
	"sync"
)

// MemoryPublisher is an in-memory Publisher used in tests and when no AMQP
// broker is configured. Records are retained for inspection.
type MemoryPublisher struct {
	mu        sync.Mutex
	connected bool
	records   map[string]interface{}
	order     []string
}

// NewMemoryPublisher creates a new in-memory publisher
func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{
		records: make(map[string]interface{}),
	}
}

// Connect marks the publisher as connected
func (p *MemoryPublisher) Connect() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.connected = true
	return nil
}

// Disconnect marks the publisher as disconnected
func (p *MemoryPublisher) Disconnect() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.connected = false
}

// IsConnected reports the connection flag
func (p *MemoryPublisher) IsConnected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connected
}

// PublishRecord stores the record keyed by job ID
func (p *MemoryPublisher) PublishRecord(jobID string, record interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.records[jobID]; !exists {
		p.order = append(p.order, jobID)
	}
	p.records[jobID] = record
	return nil
}

// Record returns the stored record for a job ID
func (p *MemoryPublisher) Record(jobID string) (interface{}, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	record, ok := p.records[jobID]
	return record, ok
}

// JobIDs returns the published job IDs in publish order
func (p *MemoryPublisher) JobIDs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	ids := make([]string, len(p.order))
	copy(ids, p.order)
	return ids
}
