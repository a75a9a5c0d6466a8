package store

import "sync"

type key struct {
	typ  RecordType
	slot int
}

// Memory is a volatile Store.
type Memory struct {
	mu      sync.Mutex
	records map[key][]byte
}

func NewMemory() *Memory {
	return &Memory{records: make(map[key][]byte)}
}

func (m *Memory) Write(data []byte, typ RecordType, slot int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[key{typ, slot}] = append([]byte{}, data...)
	return nil
}

func (m *Memory) Read(typ RecordType, slot int) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.records[key{typ, slot}]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte{}, data...), nil
}

// Len reports how many slots hold a blob.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

var _ Store = (*Memory)(nil)
