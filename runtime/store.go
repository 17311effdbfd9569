package wsruntime

import (
	"sort"

	"github.com/puzpuzpuz/xsync"
)

// Store is the global variable namespace shared by every rule of one emulator.
// Variables are created on first reference holding Default and live as long as
// the store. Reads from host goroutines are safe while a tick runs.
type Store struct {
	mu   xsync.RBMutex
	vars map[string]Value
}

func NewStore() *Store {
	return &Store{
		vars: map[string]Value{},
	}
}

func (s *Store) Get(name string) Value {
	t := s.mu.RLock()
	v, ok := s.vars[name]
	s.mu.RUnlock(t)
	if ok {
		return v
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.vars[name]; ok {
		return v
	}
	s.vars[name] = Default
	return Default
}

func (s *Store) Set(name string, v Value) {
	s.mu.Lock()
	s.vars[name] = v
	s.mu.Unlock()
}

// Update replaces the value of name with fn applied to its current value.
func (s *Store) Update(name string, fn func(Value) Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.vars[name]
	if !ok {
		cur = Default
	}
	s.vars[name] = fn(cur)
}

func (s *Store) Has(name string) bool {
	t := s.mu.RLock()
	defer s.mu.RUnlock(t)
	_, ok := s.vars[name]
	return ok
}

func (s *Store) Names() []string {
	t := s.mu.RLock()
	names := make([]string, 0, len(s.vars))
	for k := range s.vars {
		names = append(names, k)
	}
	s.mu.RUnlock(t)
	sort.Strings(names)
	return names
}

func (s *Store) Snapshot() map[string]Value {
	t := s.mu.RLock()
	defer s.mu.RUnlock(t)
	cp := make(map[string]Value, len(s.vars))
	for k, v := range s.vars {
		cp[k] = v
	}
	return cp
}

// Replace swaps the whole namespace, used when loading a snapshot.
func (s *Store) Replace(vars map[string]Value) {
	cp := make(map[string]Value, len(vars))
	for k, v := range vars {
		cp[k] = v
	}
	s.mu.Lock()
	s.vars = cp
	s.mu.Unlock()
}
