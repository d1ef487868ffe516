package objectstore

import (
	"context"
	"fmt"
	"sync"
)

// Memory keeps objects in process. Used when no bucket is configured and in tests.
type Memory struct {
	mu      sync.Mutex
	objects map[string]Object
}

type Object struct {
	ContentType string
	Data        []byte
}

func NewMemory() *Memory { return &Memory{objects: map[string]Object{}} }

func (m *Memory) Put(_ context.Context, name, contentType string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[name]; ok {
		return "", fmt.Errorf("object %s already exists", name)
	}
	m.objects[name] = Object{ContentType: contentType, Data: append([]byte(nil), data...)}
	return "mem://" + name, nil
}

func (m *Memory) Get(name string) (Object, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.objects[name]
	return o, ok
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
