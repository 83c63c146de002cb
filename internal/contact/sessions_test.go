package contact

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustGet(t *testing.T, s *Sessions, visitorID string) *Controller {
	t.Helper()
	ctrl, err := s.Get(visitorID)
	require.NoError(t, err)
	return ctrl
}

func TestSessionsGet(t *testing.T) {
	s := NewSessions(Options{Relay: &fakeRelay{}}, time.Hour, 0)
	defer s.closeAll()

	a := mustGet(t, s, "a")
	assert.Same(t, a, mustGet(t, s, "a"))
	assert.NotSame(t, a, mustGet(t, s, "b"))
	assert.Equal(t, 2, s.Len())
}

func TestSessionsLookup(t *testing.T) {
	s := NewSessions(Options{Relay: &fakeRelay{}}, time.Hour, 0)
	defer s.closeAll()

	_, ok := s.Lookup("a")
	assert.False(t, ok)
	assert.Zero(t, s.Len(), "lookup must not create a session")

	a := mustGet(t, s, "a")
	got, ok := s.Lookup("a")
	require.True(t, ok)
	assert.Same(t, a, got)
}

func TestSessionsAreIndependent(t *testing.T) {
	relay := &fakeRelay{err: assert.AnError}
	s := NewSessions(Options{Relay: relay, ResetAfter: time.Minute}, time.Hour, 0)
	defer s.closeAll()

	require.Error(t, mustGet(t, s, "a").Submit(context.Background(), ada))

	assert.Equal(t, StatusError, mustGet(t, s, "a").Snapshot().Status)
	assert.Equal(t, StatusIdle, mustGet(t, s, "b").Snapshot().Status)
}

func TestSessionsSweep(t *testing.T) {
	now := time.Date(2024, 8, 1, 12, 0, 0, 0, time.UTC)
	s := NewSessions(Options{Relay: &fakeRelay{}, ResetAfter: time.Minute}, 30*time.Minute, 0)
	s.now = func() time.Time { return now }
	defer s.closeAll()

	old := mustGet(t, s, "old")
	require.NoError(t, old.Submit(context.Background(), ada))
	assert.True(t, old.Pending())

	now = now.Add(20 * time.Minute)
	mustGet(t, s, "fresh")

	now = now.Add(15 * time.Minute)
	assert.Equal(t, 1, s.Sweep())
	assert.Equal(t, 1, s.Len())
	assert.False(t, old.Pending(), "evicted controller must stop its timer")

	assert.NotSame(t, old, mustGet(t, s, "old"))
}

func TestSessionsLimit(t *testing.T) {
	now := time.Date(2024, 8, 1, 12, 0, 0, 0, time.UTC)
	s := NewSessions(Options{Relay: &fakeRelay{}, ResetAfter: time.Minute}, time.Hour, 2)
	s.now = func() time.Time { return now }
	defer s.closeAll()

	a := mustGet(t, s, "a")
	require.NoError(t, a.Submit(context.Background(), ada))
	now = now.Add(time.Second)
	mustGet(t, s, "b")
	now = now.Add(time.Second)
	mustGet(t, s, "a") // a is now the most recently seen

	now = now.Add(time.Second)
	mustGet(t, s, "c")
	assert.Equal(t, 2, s.Len())
	_, ok := s.Lookup("b")
	assert.False(t, ok, "least recently seen visitor is displaced")
	_, ok = s.Lookup("a")
	assert.True(t, ok)
	assert.True(t, a.Pending())
}

func TestSessionsLimitAllSending(t *testing.T) {
	relay := &fakeRelay{release: make(chan struct{})}
	s := NewSessions(Options{Relay: relay, ResetAfter: time.Minute}, time.Hour, 1)
	defer s.closeAll()

	a := mustGet(t, s, "a")
	done := make(chan error, 1)
	go func() { done <- a.Submit(context.Background(), ada) }()
	require.Eventually(t, func() bool {
		return a.Snapshot().Sending()
	}, time.Second, time.Millisecond)

	_, err := s.Get("b")
	assert.ErrorIs(t, err, ErrTooManySessions)
	assert.Equal(t, 1, s.Len())

	close(relay.release)
	require.NoError(t, <-done)
}

func TestSessionsRun(t *testing.T) {
	s := NewSessions(Options{Relay: &fakeRelay{}}, time.Hour, 0)
	c := mustGet(t, s, "a")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, time.Millisecond) }()

	cancel()
	require.NoError(t, <-done)
	assert.Zero(t, s.Len())
	assert.ErrorIs(t, c.Submit(context.Background(), ada), ErrClosed)
}
