package util

import "sync"

// GenericMap is a concurrent safe map with generic key and value types.
type GenericMap[K comparable, V any] struct {
	m sync.Map
}

// NewGenericMap creates a new instance of GenericMap.
func NewGenericMap[K comparable, V any]() *GenericMap[K, V] {
	return &GenericMap[K, V]{}
}

// Load returns the value stored in the map for a key.
// The ok result indicates whether value was found in the map.
func (m *GenericMap[K, V]) Load(key K) (value V, ok bool) {
	v, loaded := m.m.Load(key)
	if !loaded {
		var zero V
		return zero, false
	}
	return v.(V), true
}

// Store sets the value for a key.
func (m *GenericMap[K, V]) Store(key K, value V) {
	m.m.Store(key, value)
}

// Delete deletes the value for a key.
func (m *GenericMap[K, V]) Delete(key K) {
	m.m.Delete(key)
}

func (m *GenericMap[K, V]) Range(f func(key K, value V) bool) {
	m.m.Range(func(k, v any) bool {
		return f(k.(K), v.(V))
	})
}

// Keys returns every key currently stored, in no particular order.
func (m *GenericMap[K, V]) Keys() []K {
	var keys []K
	m.m.Range(func(k, _ any) bool {
		keys = append(keys, k.(K))
		return true
	})
	return keys
}

// Retain deletes every entry whose key is rejected by keep.
func (m *GenericMap[K, V]) Retain(keep func(key K) bool) {
	m.m.Range(func(k, _ any) bool {
		if !keep(k.(K)) {
			m.m.Delete(k)
		}
		return true
	})
}
