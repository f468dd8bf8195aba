package storage

import (
	"context"
	"sort"
	"sync"
)

// Memory keeps saved objects in a map. It is safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	objects map[string]Stored
}

// Stored is an object held by Memory.
type Stored struct {
	Data        []byte
	ContentType string
	Options     map[string]string
}

// NewMemory returns an empty in-memory storage.
func NewMemory() *Memory {
	return &Memory{objects: make(map[string]Stored)}
}

// Save stores a copy of data and returns "mem://<key>.<ext>".
func (m *Memory) Save(ctx context.Context, data []byte, key, format string, opts map[string]string) (string, error) {
	obj, err := Prepare(key, format, opts)
	if err != nil {
		return "", err
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	m.mu.Lock()
	m.objects[obj.Name] = Stored{Data: cp, ContentType: obj.ContentType, Options: opts}
	m.mu.Unlock()
	return "mem://" + obj.Name, nil
}

// Get returns the object saved under name (key plus extension).
func (m *Memory) Get(name string) (Stored, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.objects[name]
	return s, ok
}

// Names returns the stored object names, sorted.
func (m *Memory) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.objects))
	for k := range m.objects {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
