package workflow

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nekogravitycat/hotel-booking-backend/internal/auth"
	"github.com/nekogravitycat/hotel-booking-backend/internal/availability"
	"github.com/nekogravitycat/hotel-booking-backend/internal/booking"
	"github.com/nekogravitycat/hotel-booking-backend/internal/notify"
	"github.com/nekogravitycat/hotel-booking-backend/internal/selection"
)

const defaultInboxLimit = 20

type Config struct {
	Searcher availability.Searcher
	Bookings booking.Service
	// Today returns the current hotel date with the time of day zeroed.
	Today  func() time.Time
	TTL    time.Duration
	Logger *zap.Logger
}

// Registry holds the open sessions in memory. Sessions idle for longer than
// the TTL are treated as gone.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	searcher availability.Searcher
	bookings booking.Service
	today    func() time.Time
	ttl      time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

func NewRegistry(cfg Config) *Registry {
	today := cfg.Today
	if today == nil {
		today = availability.TodayIn(time.UTC)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Registry{
		sessions: make(map[string]*Session),
		searcher: cfg.Searcher,
		bookings: cfg.Bookings,
		today:    today,
		ttl:      cfg.TTL,
		logger:   logger,
		now:      time.Now,
	}
}

// Create opens a session. A logged-in caller owns it immediately.
func (r *Registry) Create(p auth.Principal) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		store:     availability.NewStore(r.searcher, r.today),
		selection: selection.NewManager(),
		inbox:     notify.NewInbox(defaultInboxLimit, r.logger),
		bookings:  r.bookings,
		logger:    r.logger,
		now:       r.now,
		lastSeen:  r.now(),
	}
	if p.IsLogged {
		s.ownerID = p.UserID
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	r.logger.Debug("session created", zap.String("session_id", s.ID))
	return s
}

// Get returns the open session with the given id.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	if r.expired(s, r.now()) {
		r.remove(id, s)
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Close closes and forgets the session on behalf of p.
func (r *Registry) Close(id string, p auth.Principal) error {
	s, err := r.Get(id)
	if err != nil {
		return err
	}
	if err := s.checkOwner(p); err != nil {
		return err
	}
	r.remove(id, s)
	return nil
}

// Sweep closes every session idle for longer than the TTL and returns how
// many were removed.
func (r *Registry) Sweep() int {
	now := r.now()

	r.mu.RLock()
	var stale []*Session
	for _, s := range r.sessions {
		if r.expired(s, now) {
			stale = append(stale, s)
		}
	}
	r.mu.RUnlock()

	for _, s := range stale {
		r.remove(s.ID, s)
	}
	return len(stale)
}

// RunSweeper sweeps on every tick until ctx is done.
func (r *Registry) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("session sweeper stopped")
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.logger.Info("expired sessions removed", zap.Int("count", n))
			}
		}
	}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *Registry) expired(s *Session, now time.Time) bool {
	return r.ttl > 0 && now.Sub(s.idleSince()) > r.ttl
}

func (r *Registry) remove(id string, s *Session) {
	s.Close()

	r.mu.Lock()
	if r.sessions[id] == s {
		delete(r.sessions, id)
	}
	r.mu.Unlock()
}
