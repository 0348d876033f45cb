package conversation

import (
	"sync"

	"github.com/msalvatierra/bodegabot/internal/model"
)

// Session is one sender's in-flight dialog: the current step plus whatever
// the flow has captured so far. Sessions live only in process memory; a
// restart forgets them.
type Session struct {
	Sender string
	Step   Step
	Fields map[string]string

	// Product caches the row the flow last looked up so later steps do
	// not re-read the table.
	Product *model.Product
}

func newSession(sender string, step Step) *Session {
	return &Session{Sender: sender, Step: step, Fields: map[string]string{}}
}

// SessionStore is the concurrency-safe session map. Distinct senders never
// block each other; LockSender serializes messages from one sender so two
// near-simultaneous texts cannot race the same session or sheet rows.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: map[string]*Session{},
		locks:    map[string]*sync.Mutex{},
	}
}

func (s *SessionStore) Get(sender string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sender]
	return sess, ok
}

func (s *SessionStore) Put(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.Sender] = sess
}

func (s *SessionStore) Remove(sender string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sender)
}

// LockSender acquires the per-sender mutex and returns the release func.
func (s *SessionStore) LockSender(sender string) func() {
	s.lockMu.Lock()
	l, ok := s.locks[sender]
	if !ok {
		l = &sync.Mutex{}
		s.locks[sender] = l
	}
	s.lockMu.Unlock()

	l.Lock()
	return l.Unlock
}
