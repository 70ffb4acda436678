package likes

import (
	"path"
	"sync"
)

// KeyValueStore is synchronous string storage. Get reports absence with a
// false second value rather than an error.
type KeyValueStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

// Scanner is implemented by stores that can list keys matching a glob
// pattern where '*' matches any run of characters.
type Scanner interface {
	Scan(pattern string) (map[string]string, error)
}

// MemoryStore is a process-local KeyValueStore. Its contents are lost on
// restart; the register falls back to it when persistent storage fails.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryStore) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Scan matches with path.Match, so '*' does not cross a '/'. Register keys
// never contain one.
func (m *MemoryStore) Scan(pattern string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string)
	for k, v := range m.data {
		ok, err := path.Match(pattern, k)
		if err != nil {
			return nil, err
		}
		if ok {
			out[k] = v
		}
	}
	return out, nil
}
