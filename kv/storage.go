package kv

import (
	"github.com/indigo-web/utils/strcomp"
)

type Pair struct {
	Key, Value string
}

// Storage is an associative structure for storing (string, string) pairs. It acts as a map but
// uses linear search instead, which proves to be more efficient on relatively low amount of
// entries, which is always the case for echo messages.
//
// Keys are kept exactly as they were added, so serializing the storage reproduces them
// byte-for-byte. Lookups are case-insensitive.
type Storage struct {
	pairs []Pair
}

func New() *Storage {
	return new(Storage)
}

// NewPrealloc returns an instance of Storage with pre-allocated underlying storage.
func NewPrealloc(n int) *Storage {
	return &Storage{
		pairs: make([]Pair, 0, n),
	}
}

// Add adds a new pair of key and value.
func (s *Storage) Add(key, value string) *Storage {
	s.pairs = append(s.pairs, Pair{
		Key:   key,
		Value: value,
	})
	return s
}

// Set replaces the value of the first entry with the key, dropping all the others. If there's
// no such entry, it is added.
func (s *Storage) Set(key, value string) *Storage {
	set := false
	pairs := s.pairs[:0]

	for _, pair := range s.pairs {
		if !strcomp.EqualFold(pair.Key, key) {
			pairs = append(pairs, pair)
			continue
		}

		if !set {
			pairs = append(pairs, Pair{Key: pair.Key, Value: value})
			set = true
		}
	}

	s.pairs = pairs
	if !set {
		s.Add(key, value)
	}

	return s
}

// Value returns the first value, corresponding to the key. Otherwise, empty string is returned
func (s *Storage) Value(key string) string {
	value, _ := s.Get(key)
	return value
}

// Get returns a value and a bool, indicating whether the value was found. If it wasn't, it'll
// be an empty string.
func (s *Storage) Get(key string) (value string, found bool) {
	for _, pair := range s.pairs {
		if strcomp.EqualFold(key, pair.Key) {
			return pair.Value, true
		}
	}

	return "", false
}

// Has indicates, whether there's an entry of the key.
func (s *Storage) Has(key string) bool {
	_, found := s.Get(key)
	return found
}

// Len returns a number of stored pairs.
func (s *Storage) Len() int {
	return len(s.pairs)
}

// Expose exposes the underlying pairs slice.
func (s *Storage) Expose() []Pair {
	return s.pairs
}

// Clone creates a deep copy, which may be used later or stored somewhere safely. Values
// backed by reusable parser buffers must be cloned before they outlive the message.
func (s *Storage) Clone() *Storage {
	pairs := make([]Pair, len(s.pairs))
	for i, pair := range s.pairs {
		pairs[i] = Pair{Key: clone(pair.Key), Value: clone(pair.Value)}
	}

	return &Storage{pairs: pairs}
}

// Clear all the entries. However, all the allocated space won't be freed.
func (s *Storage) Clear() *Storage {
	s.pairs = s.pairs[:0]
	return s
}

func clone(str string) string {
	return string([]byte(str))
}
