package catalog

import (
	"context"
	"sync"
	"time"
)

// Position is where a featured card sits in the hero stack
type Position string

const (
	PositionCenter Position = "center"
	PositionRight  Position = "right"
	PositionLeft   Position = "left"
)

// HeroState names the featured index shown at each position; -1 means empty
type HeroState struct {
	Center int `json:"center"`
	Right  int `json:"right"`
	Left   int `json:"left"`
}

// PositionOf returns the position of featured card i, or "" if it is not shown
func (s HeroState) PositionOf(i int) Position {
	switch i {
	case s.Center:
		return PositionCenter
	case s.Right:
		return PositionRight
	case s.Left:
		return PositionLeft
	}
	return ""
}

// Hero rotates the featured cards through center, right and left.
// Each step moves the card on the right into the center.
type Hero struct {
	mu     sync.Mutex
	count  int
	center int
}

func NewHero() *Hero {
	return &Hero{}
}

// Reset starts over with count featured cards, card 0 in the center
func (h *Hero) Reset(count int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count = count
	h.center = 0
}

// Advance rotates one step
func (h *Hero) Advance() HeroState {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.count > 0 {
		h.center = (h.center + 1) % h.count
	}
	return h.stateLocked()
}

// State returns the current positions
func (h *Hero) State() HeroState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stateLocked()
}

// StateFor returns the current positions laid over count featured cards.
// Readers pass the featured count of the snapshot they render, so the
// positions always fit that snapshot even while a reload resets the rotation.
func (h *Hero) StateFor(count int) HeroState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return positions(h.center, count)
}

func (h *Hero) stateLocked() HeroState {
	return positions(h.center, h.count)
}

func positions(center, count int) HeroState {
	state := HeroState{Center: -1, Right: -1, Left: -1}
	if count <= 0 {
		return state
	}
	center %= count
	state.Center = center
	if count > 1 {
		state.Right = (center + 1) % count
	}
	if count > 2 {
		state.Left = (center + 2) % count
	}
	return state
}

// Run advances the rotation every interval until ctx is done
func (h *Hero) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.Advance()
		}
	}
}
