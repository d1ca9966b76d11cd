package battle

import (
	"sync"
	"time"

	"github.com/hunterjsb/pokebot/internal/janitor"
)

// Session is a registered battle. Callers hold the session lock while
// touching its Manager so turns for one battle never interleave.
type Session struct {
	mu sync.Mutex
	*Manager

	// ID is unique within the registry
	ID uint64

	// Discord message carrying the battle scene
	ChannelID string
	MessageID string

	lastActive time.Time
}

func (s *Session) Lock() {
	s.mu.Lock()
	s.lastActive = time.Now()
}

func (s *Session) Unlock() { s.mu.Unlock() }

// Registry tracks the one active battle each user may have.
// It is safe for concurrent use and evicts idle battles via a janitor.
type Registry struct {
	mu      sync.RWMutex
	battles map[string]*Session

	nextID      uint64
	idleTimeout time.Duration
	onExpire    func(*Session)

	janitor janitor.Janitor
}

// NewRegistry creates a Registry. If idleTimeout <= 0, battles idle for
// five minutes are swept.
func NewRegistry(idleTimeout time.Duration) *Registry {
	if idleTimeout <= 0 {
		idleTimeout = 5 * time.Minute
	}
	return &Registry{
		battles:     make(map[string]*Session),
		idleTimeout: idleTimeout,
	}
}

// OnExpire sets a callback run for each battle removed by the janitor
func (r *Registry) OnExpire(fn func(*Session)) {
	r.mu.Lock()
	r.onExpire = fn
	r.mu.Unlock()
}

// Start registers m for its user. It fails with ErrAlreadyBattling when the
// user already has a battle.
func (r *Registry) Start(m *Manager) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.battles[m.UserID]; ok {
		return nil, ErrAlreadyBattling
	}
	r.nextID++
	s := &Session{Manager: m, ID: r.nextID, lastActive: time.Now()}
	r.battles[m.UserID] = s
	return s, nil
}

// Active reports whether a user has a registered battle
func (r *Registry) Active(userID string) bool {
	_, ok := r.Get(userID)
	return ok
}

// Get returns the user's battle
func (r *Registry) Get(userID string) (*Session, bool) {
	r.mu.RLock()
	s, ok := r.battles[userID]
	r.mu.RUnlock()
	return s, ok
}

// Lookup returns the user's battle if it is the one with the given ID.
// It fails with ErrBattleNotFound otherwise.
func (r *Registry) Lookup(userID string, id uint64) (*Session, error) {
	s, ok := r.Get(userID)
	if !ok || s.ID != id {
		return nil, ErrBattleNotFound
	}
	return s, nil
}

// Remove unregisters s. A newer battle registered for the same user is left alone.
func (r *Registry) Remove(s *Session) {
	if s == nil {
		return
	}
	r.mu.Lock()
	if cur, ok := r.battles[s.UserID]; ok && cur == s {
		delete(r.battles, s.UserID)
	}
	r.mu.Unlock()
}

// Finish clears whatever battle a user has, stuck or not.
// It reports whether there was one.
func (r *Registry) Finish(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.battles[userID]; !ok {
		return false
	}
	delete(r.battles, userID)
	return true
}

// Len returns the number of registered battles
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.battles)
}

// PurgeIdle removes battles that have not been touched within the idle
// timeout and returns them.
func (r *Registry) PurgeIdle() []*Session {
	now := time.Now()

	var expired []*Session
	r.mu.Lock()
	for userID, s := range r.battles {
		// A battle mid-turn is not idle
		if !s.mu.TryLock() {
			continue
		}
		idle := now.Sub(s.lastActive) > r.idleTimeout
		s.mu.Unlock()
		if idle {
			delete(r.battles, userID)
			expired = append(expired, s)
		}
	}
	hook := r.onExpire
	r.mu.Unlock()

	if hook != nil {
		for _, s := range expired {
			hook(s)
		}
	}
	return expired
}

// StartJanitor purges idle battles every interval until the returned
// function is called. If interval <= 0, a default of one minute is used.
func (r *Registry) StartJanitor(interval time.Duration) func() {
	if interval <= 0 {
		interval = time.Minute
	}
	return r.janitor.Start(interval, func() { r.PurgeIdle() })
}
