package persistence

import (
	"context"
	"strings"
	"sync"
)

// MemoryKV — хранилище в памяти. Используется в тестах и при запуске без
// внешних зависимостей.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}

	out := make([]byte, len(b))
	copy(out, b)

	return out, nil
}

func (m *MemoryKV) List(_ context.Context, prefix string) (map[string][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string][]byte)

	for key, b := range m.data {
		if !strings.HasPrefix(key, prefix) {
			continue
		}

		v := make([]byte, len(b))
		copy(v, b)
		out[key] = v
	}

	return out, nil
}

func (m *MemoryKV) Put(_ context.Context, pairs map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, b := range pairs {
		v := make([]byte, len(b))
		copy(v, b)
		m.data[key] = v
	}

	return nil
}
