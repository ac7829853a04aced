package respond

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Registry is the server-side home for in-flight respondent sessions. The
// registry lock guards only the map; each session carries its own lock, so
// the sweeper can inspect sessions while requests drive them. Abandoned
// sessions are discarded by the sweeper once they sit idle past the TTL.
type Registry struct {
	log *zap.Logger
	ttl time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(log *zap.Logger, ttl time.Duration) *Registry {
	return &Registry{
		log:      log,
		ttl:      ttl,
		sessions: make(map[string]*Session),
	}
}

// Put registers a session under its id.
func (r *Registry) Put(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID()] = s
}

// Get returns the session with the given id and marks it as active.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if ok {
		s.Touch()
	}
	return s, ok
}

// Remove discards a session, typically right after a successful submission.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Len reports the number of in-flight sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// StartSweeper runs the idle-session sweep in a goroutine.
func (r *Registry) StartSweeper(interval time.Duration) {
	r.log.Info("Starting respondent session sweeper",
		zap.Duration("interval", interval),
		zap.Duration("ttl", r.ttl))
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			<-ticker.C
			r.sweep()
		}
	}()
}

func (r *Registry) sweep() {
	cutoff := time.Now().Add(-r.ttl)

	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.sessions {
		if s.IdleSince().Before(cutoff) {
			delete(r.sessions, id)
			r.log.Debug("Evicted abandoned respondent session",
				zap.String("session_id", id),
				zap.Stringer("state", s.State()))
		}
	}
}
