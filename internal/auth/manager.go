// Package auth gates the admin dashboard. Admission is decided by a fixed
// credential pair and recorded in a browser cookie; a remote session with
// the data service is best-effort enrichment on top of it.
package auth

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/sessions"
	"github.com/rs/zerolog"

	"wedding-site/internal/dataclient"
)

const (
	adminUsername = "admin"
	adminPassword = "Admin2025!"

	// Service account used for the best-effort remote sign-in.
	serviceEmail    = "admin@wedding.local"
	servicePassword = "Admin2025!"

	sessionName = "wedding_admin"
	flagKey     = "admin_authenticated"
)

// State of the admin session. The local flag is authoritative: a remote
// session alone never grants access.
type State int

const (
	StateLoggedOut State = iota
	StateLocalOnly
	StateLocalAndRemote
)

func (s State) String() string {
	switch s {
	case StateLocalOnly:
		return "local-only"
	case StateLocalAndRemote:
		return "local-and-remote"
	default:
		return "logged-out"
	}
}

// Manager holds the admin session state and drives its transitions.
type Manager struct {
	client *dataclient.Client
	store  sessions.Store
	log    zerolog.Logger

	mu          sync.Mutex
	state       State
	user        *dataclient.User
	unsubscribe func()
}

// NewManager creates the manager and subscribes to remote auth changes for
// its lifetime. Call Close to unsubscribe.
func NewManager(client *dataclient.Client, store sessions.Store, log zerolog.Logger) *Manager {
	m := &Manager{
		client: client,
		store:  store,
		log:    log,
		state:  StateLoggedOut,
	}
	if session, ok := client.Auth().Session(); ok {
		m.user = &session.User
	}
	m.unsubscribe = client.Auth().OnAuthStateChange(m.handleAuthChange)
	return m
}

// Close removes the auth change subscription.
func (m *Manager) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Login succeeds only for the fixed admin credential pair. On a match a
// remote sign-in with the service account is attempted; its failure is
// logged, never surfaced, and the local flag is set regardless.
func (m *Manager) Login(ctx context.Context, w http.ResponseWriter, r *http.Request, username, password string) bool {
	if username != adminUsername || password != adminPassword {
		return false
	}

	remote := true
	if _, err := m.client.Auth().SignInWithPassword(ctx, serviceEmail, servicePassword); err != nil {
		remote = false
		m.log.Warn().Err(err).Msg("remote admin sign in failed, using local auth")
	}

	session, _ := m.store.Get(r, sessionName)
	session.Values[flagKey] = "true"
	if err := session.Save(r, w); err != nil {
		m.log.Error().Err(err).Msg("saving admin session cookie")
	}

	m.mu.Lock()
	if remote {
		m.state = StateLocalAndRemote
	} else {
		m.state = StateLocalOnly
	}
	m.mu.Unlock()
	return true
}

// Logout attempts the remote sign-out and clears the local flag and state
// regardless of the remote outcome. It always succeeds from the caller's
// perspective.
func (m *Manager) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if err := m.client.Auth().SignOut(ctx); err != nil {
		m.log.Warn().Err(err).Msg("remote sign out failed")
	}

	session, _ := m.store.Get(r, sessionName)
	delete(session.Values, flagKey)
	session.Options.MaxAge = -1
	if err := session.Save(r, w); err != nil {
		m.log.Error().Err(err).Msg("clearing admin session cookie")
	}

	m.mu.Lock()
	m.state = StateLoggedOut
	m.user = nil
	m.mu.Unlock()
}

// IsAuthenticated reports whether the request carries the durable local
// flag. Absence or any value other than the literal "true" means no.
func (m *Manager) IsAuthenticated(r *http.Request) bool {
	session, err := m.store.Get(r, sessionName)
	if err != nil {
		return false
	}
	flag, ok := session.Values[flagKey].(string)
	return ok && flag == "true"
}

// State returns the current session state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// User returns the remote profile when a remote session exists.
func (m *Manager) User() (*dataclient.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil, false
	}
	return m.user, true
}

func (m *Manager) handleAuthChange(event string, session *dataclient.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch event {
	case dataclient.EventSignedIn:
		m.user = &session.User
		if m.state != StateLoggedOut {
			m.state = StateLocalAndRemote
		}
	case dataclient.EventSignedOut:
		// Losing the remote session does not log the admin out; only
		// Logout clears the local flag.
		m.user = nil
		if m.state == StateLocalAndRemote {
			m.state = StateLocalOnly
		}
	}
}
