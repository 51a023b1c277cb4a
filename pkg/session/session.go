package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/harunnryd/callpanel/pkg/auth"
	"github.com/harunnryd/callpanel/pkg/callrequest"
	"github.com/harunnryd/callpanel/pkg/errorsx"
	"github.com/harunnryd/callpanel/pkg/resolver"
)

// ErrNoSession is returned for unknown, logged-out and expired tokens.
var ErrNoSession = errorsx.Wrap(errors.New("not logged in"), errorsx.ReasonAuth)

// DefaultForm is the form a fresh session starts with.
func DefaultForm() callrequest.Form {
	return callrequest.Form{
		Temperature: 0.7,
		Toggles: callrequest.Toggles{
			AllowInterruptions: true,
			MinSilenceDuration: 0.5,
		},
	}
}

// Session is one operator's selection and form. All access goes through its
// lock, so each edit is applied as a single transition.
type Session struct {
	Token string
	User  string

	mu       sync.Mutex
	resolver *resolver.Resolver
	state    resolver.State
	form     callrequest.Form
	expires  time.Time
}

// Snapshot returns copies of the current selection and form.
func (s *Session) Snapshot() (resolver.State, callrequest.Form) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.form
}

// Apply runs one resolver transition. The session keeps its previous state
// when the transition fails.
func (s *Session) Apply(ev resolver.Event) (resolver.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := s.resolver.Apply(s.state, ev)
	if err != nil {
		return s.state, err
	}
	s.state = next
	return next, nil
}

// UpdateForm edits the free-form fields under the session lock.
func (s *Session) UpdateForm(fn func(f *callrequest.Form)) callrequest.Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.form)
	return s.form
}

// Manager owns live sessions. Sessions expire after ttl without access.
type Manager struct {
	users    *auth.Users
	resolver *resolver.Resolver
	ttl      time.Duration
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(users *auth.Users, r *resolver.Resolver, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Manager{
		users:    users,
		resolver: r,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Login checks credentials and starts a session with the initial selection.
func (m *Manager) Login(username, password string) (*Session, error) {
	if err := m.users.Authenticate(username, password); err != nil {
		return nil, err
	}
	s := &Session{
		Token:    uuid.NewString(),
		User:     username,
		resolver: m.resolver,
		state:    m.resolver.Initial(),
		form:     DefaultForm(),
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked()
	s.expires = m.now().Add(m.ttl)
	m.sessions[s.Token] = s
	return s, nil
}

// Get returns the live session for token and extends its lifetime.
func (m *Manager) Get(token string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok {
		return nil, ErrNoSession
	}
	now := m.now()
	if !now.Before(s.expires) {
		delete(m.sessions, token)
		return nil, ErrNoSession
	}
	s.expires = now.Add(m.ttl)
	return s, nil
}

// Logout drops the session; unknown tokens are ignored.
func (m *Manager) Logout(token string) {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
}

// Len reports live sessions, expired ones included until swept.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) sweepLocked() {
	now := m.now()
	for token, s := range m.sessions {
		if !now.Before(s.expires) {
			delete(m.sessions, token)
		}
	}
}
