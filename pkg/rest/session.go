package rest

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/batchsight/batchsight/pkg/annotation"
	"github.com/batchsight/batchsight/pkg/predictor"
)

// Session binds one submitted source buffer to its predictor. The
// predictor core is single-threaded by contract; the session mutex
// serializes HTTP-delivered events so the core sees one at a time.
type Session struct {
	ID        string
	Buffer    *annotation.Buffer
	Predictor *predictor.Predictor

	mu sync.Mutex
}

// Do runs fn with exclusive access to the session.
func (s *Session) Do(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

// SessionStore holds the active prediction sessions.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*Session)}
}

// Create starts a session over the given source text.
func (st *SessionStore) Create(source string) *Session {
	buffer := annotation.NewBuffer(source)
	session := &Session{
		ID:        uuid.New().String(),
		Buffer:    buffer,
		Predictor: predictor.New(buffer),
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[session.ID] = session
	return session
}

func (st *SessionStore) Get(id string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	session, ok := st.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s not found", id)
	}
	return session, nil
}

func (st *SessionStore) Remove(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return fmt.Errorf("session %s not found", id)
	}
	delete(st.sessions, id)
	return nil
}
