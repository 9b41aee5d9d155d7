package layers

import "sync"

// Store memoizes parsed layers by file path. The hosting page re-runs
// the whole render on every user interaction while the itinerary file
// is static, so one parse per session is enough. The memo is unbounded
// and has no expiry; Invalidate drops an entry after the file changes.
type Store struct {
	// OnLookup, when set, observes every Layer call with whether it
	// was served from the memo.
	OnLookup func(hit bool)

	read func(string) (*Layer, error)

	mu     sync.Mutex
	layers map[string]*Layer
}

// NewStore creates an empty layer store backed by Read.
func NewStore() *Store {
	return &Store{
		read:   Read,
		layers: make(map[string]*Layer),
	}
}

// Layer returns the parsed layer for path, reading the file only on
// the first call for a given path.
func (s *Store) Layer(path string) (*Layer, error) {
	s.mu.Lock()
	layer, ok := s.layers[path]
	s.mu.Unlock()

	if s.OnLookup != nil {
		s.OnLookup(ok)
	}
	if ok {
		return layer, nil
	}

	layer, err := s.read(path)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.layers[path] = layer
	s.mu.Unlock()
	return layer, nil
}

// Invalidate forgets the memoized layer for path, forcing a re-read on
// the next call.
func (s *Store) Invalidate(path string) {
	s.mu.Lock()
	delete(s.layers, path)
	s.mu.Unlock()
}
