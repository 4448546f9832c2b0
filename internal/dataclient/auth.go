package dataclient

import (
	"context"
	"net/http"
	"sync"
)

// Auth state change events delivered to subscribers.
const (
	EventSignedIn  = "SIGNED_IN"
	EventSignedOut = "SIGNED_OUT"
)

// User is the profile attached to a remote session.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is an authenticated session with the data service.
type Session struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	User        User   `json:"user"`
}

// Auth is the authentication sub-API of the data service. It keeps the
// current session and notifies subscribers on state changes, the same
// local event semantics the hosted client library provides.
type Auth struct {
	c *Client

	mu        sync.Mutex
	session   *Session
	listeners map[int]func(event string, session *Session)
	nextID    int
}

func newAuth(c *Client) *Auth {
	return &Auth{
		c:         c,
		listeners: make(map[int]func(string, *Session)),
	}
}

// SignInWithPassword establishes a session with email/password credentials.
func (a *Auth) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	var session Session
	url := a.c.baseURL + "/auth/v1/token?grant_type=password"
	if err := a.c.do(ctx, http.MethodPost, url, nil, body, &session); err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.session = &session
	a.mu.Unlock()
	a.notify(EventSignedIn, &session)
	return &session, nil
}

// SignOut ends the remote session. The local session is cleared and
// subscribers notified even when the remote call fails.
func (a *Auth) SignOut(ctx context.Context) error {
	url := a.c.baseURL + "/auth/v1/logout"
	err := a.c.do(ctx, http.MethodPost, url, nil, nil, nil)

	a.mu.Lock()
	a.session = nil
	a.mu.Unlock()
	a.notify(EventSignedOut, nil)
	return err
}

// Session returns the current session, if any.
func (a *Auth) Session() (*Session, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return nil, false
	}
	return a.session, true
}

// OnAuthStateChange subscribes fn to sign-in/sign-out events. The returned
// function removes the subscription.
func (a *Auth) OnAuthStateChange(fn func(event string, session *Session)) func() {
	a.mu.Lock()
	id := a.nextID
	a.nextID++
	a.listeners[id] = fn
	a.mu.Unlock()

	return func() {
		a.mu.Lock()
		delete(a.listeners, id)
		a.mu.Unlock()
	}
}

func (a *Auth) notify(event string, session *Session) {
	a.mu.Lock()
	fns := make([]func(string, *Session), 0, len(a.listeners))
	for _, fn := range a.listeners {
		fns = append(fns, fn)
	}
	a.mu.Unlock()

	for _, fn := range fns {
		fn(event, session)
	}
}
