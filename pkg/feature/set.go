package feature

// Set is an insertion-ordered collection whose membership is decided by a
// key projection instead of full-value equality. Two values with the same
// projected key are the same member even when their other fields differ.
type Set[K comparable, V any] struct {
	key   func(V) K
	index map[K]int
	items []V
}

// NewSet creates an empty set that identifies members by key.
func NewSet[K comparable, V any](key func(V) K) *Set[K, V] {
	return &Set[K, V]{key: key, index: make(map[K]int)}
}

// Add inserts v unless a member with the same key exists. The existing
// member is kept. It reports whether v was inserted.
func (s *Set[K, V]) Add(v V) bool {
	k := s.key(v)
	if _, ok := s.index[k]; ok {
		return false
	}
	s.index[k] = len(s.items)
	s.items = append(s.items, v)
	return true
}

// Replace inserts v, replacing any member with the same key in place. It
// reports whether a member was replaced.
func (s *Set[K, V]) Replace(v V) bool {
	k := s.key(v)
	if i, ok := s.index[k]; ok {
		s.items[i] = v
		return true
	}
	s.index[k] = len(s.items)
	s.items = append(s.items, v)
	return false
}

// Get returns the member stored under k.
func (s *Set[K, V]) Get(k K) (V, bool) {
	if i, ok := s.index[k]; ok {
		return s.items[i], true
	}
	var zero V
	return zero, false
}

// Contains reports whether a member with v's key exists.
func (s *Set[K, V]) Contains(v V) bool {
	_, ok := s.index[s.key(v)]
	return ok
}

// Has reports whether a member is stored under k.
func (s *Set[K, V]) Has(k K) bool {
	_, ok := s.index[k]
	return ok
}

// Len returns the number of members.
func (s *Set[K, V]) Len() int {
	return len(s.items)
}

// Values returns a copy of the members in insertion order.
func (s *Set[K, V]) Values() []V {
	out := make([]V, len(s.items))
	copy(out, s.items)
	return out
}
