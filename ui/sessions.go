package ui

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hannaerdza/titanic-visualization/internal/dashboard"
	"github.com/hannaerdza/titanic-visualization/internal/metrics"
)

const (
	sessionCookie = "titanic_session"
	storeKey      = "dashboard_store"
)

type session struct {
	store    *dashboard.Store
	lastSeen time.Time
}

// SessionRegistry maps browser sessions to their dashboard state
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*session
	newStore func() *dashboard.Store
	ttl      time.Duration
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewSessionRegistry creates an empty registry. Sessions idle for longer than ttl are dropped by Sweep.
func NewSessionRegistry(newStore func() *dashboard.Store, ttl time.Duration, m *metrics.Metrics) *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*session),
		newStore: newStore,
		ttl:      ttl,
		metrics:  m,
		now:      time.Now,
	}
}

// Get returns the store for id, creating a new session when id is unknown or malformed.
// The returned id is the one the caller should keep using.
func (r *SessionRegistry) Get(id string) (string, *dashboard.Store) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := uuid.Parse(id); err == nil {
		if sess, ok := r.sessions[id]; ok {
			sess.lastSeen = r.now()
			return id, sess.store
		}
	}

	id = uuid.NewString()
	sess := &session{store: r.newStore(), lastSeen: r.now()}
	r.sessions[id] = sess
	r.metrics.SetSessions(len(r.sessions))
	return id, sess.store
}

// Len returns the number of live sessions
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops idle sessions and returns how many were removed
func (r *SessionRegistry) Sweep() int {
	if r.ttl <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.ttl)
	removed := 0
	for id, sess := range r.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	r.metrics.SetSessions(len(r.sessions))
	return removed
}

// Run sweeps every interval until ctx is done
func (r *SessionRegistry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// sessionMiddleware attaches the caller's dashboard store to the request
func (s *Server) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, _ := c.Cookie(sessionCookie)
		id, store := s.sessions.Get(cookie)
		if id != cookie {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookie, id, 0, "/", "", false, true)
		}
		c.Set(storeKey, store)
		c.Next()
	}
}

func storeFrom(c *gin.Context) *dashboard.Store {
	return c.MustGet(storeKey).(*dashboard.Store)
}
