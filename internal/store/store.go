// Package store holds the live in-memory map of person records. Reads
// operate on cloned snapshots; writes serialize under a single lock so a
// person's traits, semantic memory, and profile vector always move together.
package store

import (
	"sort"
	"sync"

	"github.com/hyperjump/musubi/internal/models"
)

// Store is the engine's single logical in-memory person store. There is no
// ambient global; callers pass the store handle into every engine call.
type Store struct {
	mu     sync.RWMutex
	people map[string]*models.Person
}

// New creates an empty store.
func New() *Store {
	return &Store{people: make(map[string]*models.Person)}
}

// Init seeds the store from persisted records, replacing any contents.
func (s *Store) Init(people []*models.Person) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.people = make(map[string]*models.Person, len(people))
	for _, p := range people {
		s.people[p.ID] = p.Clone()
	}
}

// Get returns a copy of the person, or false if unknown.
func (s *Store) Get(id string) (*models.Person, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.people[id]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// Put stores a copy of the person, creating or replacing.
func (s *Store) Put(p *models.Person) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.people[p.ID] = p.Clone()
}

// Has reports whether id is known.
func (s *Store) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.people[id]
	return ok
}

// Len returns the number of people in the store.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.people)
}

// Snapshot returns copies of all people sorted by id. Mutating the result
// never affects the store.
func (s *Store) Snapshot() []*models.Person {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Person, 0, len(s.people))
	for _, p := range s.people {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Vectors returns all ids and their current profile vectors in id-sorted
// order, so scan-the-world consumers (clustering, projection) see a stable
// input order.
func (s *Store) Vectors() ([]string, [][]float32) {
	people := s.Snapshot()
	ids := make([]string, len(people))
	vecs := make([][]float32, len(people))
	for i, p := range people {
		ids[i] = p.ID
		vecs[i] = p.Vector
	}
	return ids, vecs
}
