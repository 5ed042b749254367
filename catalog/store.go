package catalog

import (
	"sync/atomic"
)

// Store holds the current snapshot. Readers never block; a load replaces
// the snapshot as a whole.
type Store struct {
	current atomic.Pointer[Snapshot]
	hero    *Hero
}

func NewStore() *Store {
	s := &Store{hero: NewHero()}
	s.current.Store(Empty())
	return s
}

// Current returns the installed snapshot, never nil
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Loaded reports whether any load has completed
func (s *Store) Loaded() bool {
	return s.Current().JobID != ""
}

// Swap installs next and restarts the hero rotation over its featured set.
// The previous snapshot is returned.
func (s *Store) Swap(next *Snapshot) *Snapshot {
	s.hero.Reset(len(next.Featured))
	return s.current.Swap(next)
}

// View returns the current snapshot with hero positions computed for its
// featured set
func (s *Store) View() (*Snapshot, HeroState) {
	snap := s.Current()
	return snap, s.hero.StateFor(len(snap.Featured))
}

// Hero returns the rotation state machine for the current featured set
func (s *Store) Hero() *Hero {
	return s.hero
}
