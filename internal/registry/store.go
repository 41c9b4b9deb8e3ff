package registry

import (
	"errors"
	"fmt"
	"sync"
)

// Capacity is the fixed number of slots in a Store.
const Capacity = 16

var (
	ErrCapacityExceeded  = errors.New("capacity exceeded")
	ErrDuplicateUserName = errors.New("duplicate username")
	ErrDuplicateID       = errors.New("duplicate id")
	ErrEmptyStore        = errors.New("store is empty")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrOutOfRange        = errors.New("out of range")
	ErrNotFound          = errors.New("not found")
)

// Store is a bounded, insertion-ordered set of Person records.
//
// Invariants:
// - slots[0:count] are occupied, slots[count:] are zero.
// - no two occupied slots share an ID or a UserName.
// - count never exceeds Capacity.
//
// Lookups are linear scans; with 16 slots an index would cost more than it saves.
// Every method holds mu, so a failed call never leaves partial state behind.
type Store struct {
	mu    sync.Mutex
	slots [Capacity]Person
	count int
}

// NewStore returns an empty store.
func NewStore() *Store { return &Store{} }

// NewSeededStore returns a store holding people in the given order.
// Each record goes through the same checks as Add.
func NewSeededStore(people []Person) (*Store, error) {
	if len(people) > Capacity {
		return nil, fmt.Errorf("%w: %d records for %d slots", ErrCapacityExceeded, len(people), Capacity)
	}
	s := NewStore()
	for i, p := range people {
		if err := s.Add(p); err != nil {
			return nil, fmt.Errorf("seed record %d: %w", i, err)
		}
	}
	return s, nil
}

// Add appends p after the most recently added record.
func (s *Store) Add(p Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.count == Capacity {
		return ErrCapacityExceeded
	}
	if p.UserName == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidArgument)
	}
	if p.ID < 0 {
		return fmt.Errorf("%w: id %d", ErrOutOfRange, p.ID)
	}
	for _, o := range s.slots[:s.count] {
		if o.UserName == p.UserName {
			return fmt.Errorf("%w: %q", ErrDuplicateUserName, p.UserName)
		}
	}
	for _, o := range s.slots[:s.count] {
		if o.ID == p.ID {
			return fmt.Errorf("%w: %d", ErrDuplicateID, p.ID)
		}
	}

	s.slots[s.count] = p
	s.count++
	return nil
}

// Remove pops the most recently added record and returns it.
func (s *Store) Remove() (Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.count == 0 {
		return Person{}, ErrEmptyStore
	}
	s.count--
	p := s.slots[s.count]
	s.slots[s.count] = Person{}
	return p, nil
}

// FindByID returns the record with the given id.
func (s *Store) FindByID(id int) (Person, error) {
	if id < 0 {
		return Person{}, fmt.Errorf("%w: id %d", ErrOutOfRange, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.slots[:s.count] {
		if p.ID == id {
			return p, nil
		}
	}
	return Person{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
}

// FindByUsername returns the record whose UserName matches exactly.
func (s *Store) FindByUsername(userName string) (Person, error) {
	if userName == "" {
		return Person{}, fmt.Errorf("%w: username is required", ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.slots[:s.count] {
		if p.UserName == userName {
			return p, nil
		}
	}
	return Person{}, fmt.Errorf("%w: username %q", ErrNotFound, userName)
}

// Count returns the number of occupied slots.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

func (s *Store) Capacity() int { return Capacity }

// List returns a copy of the occupied slots in insertion order.
func (s *Store) List() []Person {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Person, s.count)
	copy(out, s.slots[:s.count])
	return out
}
