package handlers

import (
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/hoanghai1803/adcraft/internal/models"
)

// SessionCookie names the cookie carrying the session id.
const SessionCookie = "adcraft_session"

// maxSessions bounds the in-memory form states; the oldest is evicted first.
const maxSessions = 1000

// Sessions keeps one FormState per browser session in memory. Entries are
// lost on restart.
type Sessions struct {
	mu     sync.Mutex
	states map[string]*models.FormState
	order  []string
}

// NewSessions creates an empty session registry.
func NewSessions() *Sessions {
	return &Sessions{states: make(map[string]*models.FormState)}
}

// ID returns the caller's session id, issuing a new cookie when the request
// carries none or an invalid one.
func (s *Sessions) ID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// Get returns a copy of the form state for id. Unknown ids get the zero
// state.
func (s *Sessions) Get(id string) models.FormState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.states[id]; ok {
		return *st
	}
	return models.FormState{}
}

// Update applies fn to the form state for id and returns the result.
func (s *Sessions) Update(id string, fn func(*models.FormState)) models.FormState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.states[id]
	if !ok {
		if len(s.order) >= maxSessions {
			delete(s.states, s.order[0])
			s.order = s.order[1:]
		}
		st = &models.FormState{}
		s.states[id] = st
		s.order = append(s.order, id)
	}
	fn(st)
	return *st
}

// GetSession handles GET /api/session. It returns the caller's form state.
func GetSession(sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := sessions.ID(w, r)
		writeJSON(w, http.StatusOK, sessions.Get(id))
	}
}
