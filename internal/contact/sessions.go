package contact

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultSessionLimit caps the registry when no limit is configured.
const DefaultSessionLimit = 10000

// ErrTooManySessions is returned by Get when the registry is full and every
// session in it has a submission in flight.
var ErrTooManySessions = errors.New("contact: too many sessions")

// Sessions hands out one Controller per visitor and forgets visitors that
// have been quiet for longer than the TTL. At most limit controllers are
// kept; a new visitor past the limit displaces the least recently seen
// idle one.
type Sessions struct {
	opts  Options
	ttl   time.Duration
	limit int
	now   func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	ctrl     *Controller
	lastSeen time.Time
}

func NewSessions(opts Options, ttl time.Duration, limit int) *Sessions {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if limit <= 0 {
		limit = DefaultSessionLimit
	}
	return &Sessions{
		opts:     opts,
		ttl:      ttl,
		limit:    limit,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

// Lookup returns the controller for visitorID if the visitor already has
// one. It never creates a session.
func (s *Sessions) Lookup(visitorID string) (*Controller, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[visitorID]
	if !ok {
		return nil, false
	}
	sess.lastSeen = s.now()
	return sess.ctrl, true
}

// Get returns the controller for visitorID, creating it on first use.
func (s *Sessions) Get(visitorID string) (*Controller, error) {
	s.mu.Lock()
	sess, ok := s.sessions[visitorID]
	if ok {
		sess.lastSeen = s.now()
		s.mu.Unlock()
		return sess.ctrl, nil
	}

	var evicted *Controller
	if len(s.sessions) >= s.limit {
		evicted = s.evictOldestLocked()
		if evicted == nil {
			s.mu.Unlock()
			return nil, ErrTooManySessions
		}
	}

	opts := s.opts
	opts.Logger = s.opts.Logger.With(zap.String("visitor", visitorID))
	sess = &session{ctrl: NewController(opts), lastSeen: s.now()}
	s.sessions[visitorID] = sess
	s.mu.Unlock()

	if evicted != nil {
		evicted.Close()
	}
	return sess.ctrl, nil
}

// evictOldestLocked removes the least recently seen session that is not
// sending and returns its controller, or nil when every session is busy.
func (s *Sessions) evictOldestLocked() *Controller {
	var (
		oldestID string
		oldest   *session
	)
	for id, sess := range s.sessions {
		if sess.ctrl.Snapshot().Sending() {
			continue
		}
		if oldest == nil || sess.lastSeen.Before(oldest.lastSeen) {
			oldestID, oldest = id, sess
		}
	}
	if oldest == nil {
		return nil
	}
	delete(s.sessions, oldestID)
	return oldest.ctrl
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than the TTL and returns how many
// were removed. Sessions with a submission in flight are kept.
func (s *Sessions) Sweep() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	var expired []*Controller
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) && sess.ctrl.Snapshot().Status != StatusSending {
			expired = append(expired, sess.ctrl)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, ctrl := range expired {
		ctrl.Close()
	}
	return len(expired)
}

// Run sweeps every interval until ctx is done, then closes every
// remaining controller.
func (s *Sessions) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.closeAll()
			return nil
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.opts.Logger.Debug("Swept idle contact sessions", zap.Int("count", n))
			}
		}
	}
}

func (s *Sessions) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		sess.ctrl.Close()
		delete(s.sessions, id)
	}
}
