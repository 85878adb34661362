// Package session keeps scan sessions between the scan, the review edits
// and the confirm call. Sessions expire after a TTL; nothing is persisted.
package session

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/agentstation/scorecard/pkg/constants"
	"github.com/agentstation/scorecard/pkg/errors"
	"github.com/agentstation/scorecard/pkg/scan"
)

// Store is a TTL cache of scan sessions keyed by scan ID.
type Store struct {
	mu    sync.Mutex // Guards locks
	locks map[string]*idLock
	cache *gocache.Cache
	ttl   time.Duration
}

// idLock serializes read-modify-write sequences on one session. It is
// dropped from the store once nobody holds or waits for it.
type idLock struct {
	mu   sync.Mutex
	refs int
}

// lock acquires the lock of one session and returns its release.
func (s *Store) lock(id string) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &idLock{}
		s.locks[id] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		if l.refs--; l.refs == 0 {
			delete(s.locks, id)
		}
		s.mu.Unlock()
	}
}

// Option configures a Store.
type Option func(*options)

type options struct {
	cleanup   time.Duration
	onEvicted func(id string)
}

// WithCleanupInterval sets how often expired sessions are purged.
func WithCleanupInterval(d time.Duration) Option {
	return func(o *options) {
		o.cleanup = d
	}
}

// WithEvictionHook is called with the scan ID of every session that leaves
// the store, whether it expired or was deleted.
func WithEvictionHook(fn func(id string)) Option {
	return func(o *options) {
		o.onEvicted = fn
	}
}

// New creates a store. A zero ttl uses the default.
func New(ttl time.Duration, opts ...Option) *Store {
	if ttl <= 0 {
		ttl = constants.SessionTTL
	}
	o := options{cleanup: constants.SessionCleanupInterval}
	for _, opt := range opts {
		opt(&o)
	}
	c := gocache.New(ttl, o.cleanup)
	if o.onEvicted != nil {
		c.OnEvicted(func(id string, _ any) { o.onEvicted(id) })
	}
	return &Store{locks: make(map[string]*idLock), cache: c, ttl: ttl}
}

// TTL returns the session lifetime.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Put stores a new session.
func (s *Store) Put(sess *scan.Session) error {
	if sess == nil || sess.ID == "" {
		return errors.NewValidationError("session", nil, "session ID is required")
	}
	if err := s.cache.Add(sess.ID, sess, gocache.DefaultExpiration); err != nil {
		return errors.WrapResource("create", "session", sess.ID, errors.ErrAlreadyExists)
	}
	return nil
}

// Get returns a live session.
func (s *Store) Get(id string) (*scan.Session, error) {
	v, ok := s.cache.Get(id)
	if !ok {
		return nil, errors.NewNotFoundError("scan", id)
	}
	return v.(*scan.Session), nil
}

// Update replaces a live session with the result of fn and restarts its TTL.
// fn runs while the session is locked, so concurrent updates to one session
// apply in order. Updates to different sessions do not wait on each other.
func (s *Store) Update(id string, fn func(*scan.Session) (*scan.Session, error)) (*scan.Session, error) {
	defer s.lock(id)()

	cur, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	next, err := fn(cur)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Replace(id, next, gocache.DefaultExpiration); err != nil {
		return nil, errors.NewNotFoundError("scan", id)
	}
	return next, nil
}

// Take removes and returns a session. Only one caller can take a session.
func (s *Store) Take(id string) (*scan.Session, error) {
	defer s.lock(id)()

	sess, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	s.cache.Delete(id)
	return sess, nil
}

// Restore puts back a session taken by Take, for when the follow-up failed.
func (s *Store) Restore(sess *scan.Session) {
	defer s.lock(sess.ID)()
	s.cache.Set(sess.ID, sess, gocache.DefaultExpiration)
}

// Delete removes a session. It reports whether the session existed.
func (s *Store) Delete(id string) bool {
	defer s.lock(id)()

	if _, ok := s.cache.Get(id); !ok {
		return false
	}
	s.cache.Delete(id)
	return true
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	return s.cache.ItemCount()
}

// Stats describes the store.
type Stats struct {
	Sessions int           `json:"sessions"`
	TTL      time.Duration `json:"ttl"`
}

// Stats returns current statistics.
func (s *Store) Stats() Stats {
	return Stats{Sessions: s.cache.ItemCount(), TTL: s.ttl}
}

// Close flushes all sessions.
func (s *Store) Close() {
	s.cache.Flush()
}
