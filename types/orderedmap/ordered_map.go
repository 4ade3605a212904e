package orderedmap

// Insertion-ordered map used for the spec table so that iteration (usage
// rendering, the defaulting pass) follows declaration order.
// NOTE: don't rely on the existence of this package in the future if some
// standard or popular implementation emerges.

import (
	"container/list"
)

type pair[K comparable, V any] struct {
	key   K
	value V
}

// OrderedMap stores key/value pairs and iterates them in insertion order.
// Overwriting an existing key keeps its original position.
type OrderedMap[K comparable, V any] struct {
	store map[K]*list.Element
	order *list.List
}

// New creates an empty OrderedMap
func New[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{
		store: map[K]*list.Element{},
		order: list.New(),
	}
}

// Set stores value under key. Returns true when the key was newly added,
// false when an existing value was overwritten.
func (m *OrderedMap[K, V]) Set(key K, value V) bool {
	if el, found := m.store[key]; found {
		el.Value = pair[K, V]{key: key, value: value}

		return false
	}

	m.store[key] = m.order.PushBack(pair[K, V]{key: key, value: value})

	return true
}

// Get returns the value stored under key and whether it was found
func (m *OrderedMap[K, V]) Get(key K) (V, bool) {
	if el, found := m.store[key]; found {
		return el.Value.(pair[K, V]).value, true
	}

	var zero V

	return zero, false
}

// Has returns true when key is present
func (m *OrderedMap[K, V]) Has(key K) bool {
	_, found := m.store[key]

	return found
}

// Delete removes key and returns true when it was present
func (m *OrderedMap[K, V]) Delete(key K) bool {
	el, found := m.store[key]
	if !found {
		return false
	}

	m.order.Remove(el)
	delete(m.store, key)

	return true
}

// Count returns the number of stored pairs
func (m *OrderedMap[K, V]) Count() int {
	return len(m.store)
}

// Keys returns all keys in insertion order
func (m *OrderedMap[K, V]) Keys() []K {
	keys := make([]K, 0, len(m.store))
	for e := m.Front(); e != nil; e = e.Next() {
		keys = append(keys, e.Key())
	}

	return keys
}

// Entry is a cursor over an OrderedMap obtained from Front
type Entry[K comparable, V any] struct {
	el *list.Element
}

// Front returns a cursor on the first inserted pair or nil when empty
func (m *OrderedMap[K, V]) Front() *Entry[K, V] {
	if el := m.order.Front(); el != nil {
		return &Entry[K, V]{el: el}
	}

	return nil
}

// Next advances the cursor, returning nil past the last pair
func (e *Entry[K, V]) Next() *Entry[K, V] {
	if next := e.el.Next(); next != nil {
		return &Entry[K, V]{el: next}
	}

	return nil
}

// Key returns the key under the cursor
func (e *Entry[K, V]) Key() K {
	return e.el.Value.(pair[K, V]).key
}

// Value returns the value under the cursor
func (e *Entry[K, V]) Value() V {
	return e.el.Value.(pair[K, V]).value
}
