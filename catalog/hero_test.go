package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestHero_RotationSequence(t *testing.T) {
	h := NewHero()
	h.Reset(3)

	assert.Equal(t, HeroState{Center: 0, Right: 1, Left: 2}, h.State())
	assert.Equal(t, HeroState{Center: 1, Right: 2, Left: 0}, h.Advance())
	assert.Equal(t, HeroState{Center: 2, Right: 0, Left: 1}, h.Advance())
	assert.Equal(t, HeroState{Center: 0, Right: 1, Left: 2}, h.Advance())
}

func TestHero_FewerCards(t *testing.T) {
	h := NewHero()

	assert.Equal(t, HeroState{Center: -1, Right: -1, Left: -1}, h.Advance(), "no cards")

	h.Reset(1)
	assert.Equal(t, HeroState{Center: 0, Right: -1, Left: -1}, h.Advance())

	h.Reset(2)
	assert.Equal(t, HeroState{Center: 1, Right: 0, Left: -1}, h.Advance())
}

func TestHeroState_PositionOf(t *testing.T) {
	state := HeroState{Center: 2, Right: 0, Left: 1}

	assert.Equal(t, PositionCenter, state.PositionOf(2))
	assert.Equal(t, PositionRight, state.PositionOf(0))
	assert.Equal(t, PositionLeft, state.PositionOf(1))
	assert.Equal(t, Position(""), state.PositionOf(3))
}

func TestHero_RunStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	h := NewHero()
	h.Reset(3)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return h.State().Center != 0 }, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestHero_StateFor(t *testing.T) {
	h := NewHero()
	h.Reset(3)
	h.Advance()
	h.Advance()

	assert.Equal(t, HeroState{Center: 2, Right: 0, Left: 1}, h.StateFor(3))
	assert.Equal(t, HeroState{Center: 0, Right: 1, Left: -1}, h.StateFor(2))
	assert.Equal(t, HeroState{Center: 0, Right: -1, Left: -1}, h.StateFor(1))
	assert.Equal(t, HeroState{Center: -1, Right: -1, Left: -1}, h.StateFor(0))
}
