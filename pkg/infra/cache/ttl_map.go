package cache

import (
	"sync"
	"time"
)

// TTLEntry represents an entry in TTLMap
type TTLEntry struct {
	Value     interface{}
	ExpiresAt time.Time
}

// TTLMap is a thread-safe map with TTL for each entry
type TTLMap struct {
	Data map[string]*TTLEntry
	Mu   sync.RWMutex
	TTL  time.Duration
}

func NewTTLMap(ttl time.Duration) *TTLMap {
	return &TTLMap{
		Data: make(map[string]*TTLEntry),
		TTL:  ttl,
	}
}

// Get retrieves a value from the TTLMap if it hasn't expired
func (m *TTLMap) Get(key string) (interface{}, bool) {
	m.Mu.RLock()
	entry, exists := m.Data[key]
	if !exists {
		m.Mu.RUnlock()
		return nil, false
	}
	isExpired := time.Now().After(entry.ExpiresAt)
	value := entry.Value
	m.Mu.RUnlock()

	if isExpired {
		m.Mu.Lock()
		if current, ok := m.Data[key]; ok && time.Now().After(current.ExpiresAt) {
			delete(m.Data, key)
		}
		m.Mu.Unlock()
		return nil, false
	}

	return value, true
}

func (m *TTLMap) Set(key string, value interface{}) {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	m.Data[key] = &TTLEntry{
		Value:     value,
		ExpiresAt: time.Now().Add(m.TTL),
	}
}

// SetIfAbsent stores value only when key is missing or expired and reports
// whether it did.
func (m *TTLMap) SetIfAbsent(key string, value interface{}) bool {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	now := time.Now()
	if entry, ok := m.Data[key]; ok && now.Before(entry.ExpiresAt) {
		return false
	}
	m.Data[key] = &TTLEntry{
		Value:     value,
		ExpiresAt: now.Add(m.TTL),
	}
	return true
}

func (m *TTLMap) Delete(key string) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	delete(m.Data, key)
}

// Purge drops expired entries and returns how many were removed.
func (m *TTLMap) Purge() int {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	now := time.Now()
	removed := 0
	for key, entry := range m.Data {
		if now.After(entry.ExpiresAt) {
			delete(m.Data, key)
			removed++
		}
	}
	return removed
}

func (m *TTLMap) Clear() {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	m.Data = make(map[string]*TTLEntry)
}
