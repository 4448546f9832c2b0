package dataclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func newAuthTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/v1/token", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("grant_type") != "password" {
			http.Error(w, `{"message":"unsupported grant"}`, http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{
			"access_token": "session-token",
			"token_type": "bearer",
			"expires_in": 3600,
			"user": {"id": "u-1", "email": "admin@wedding.local"}
		}`))
	})
	mux.HandleFunc("POST /auth/v1/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /rest/v1/web_content", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer session-token" {
			http.Error(w, `{"message":"expected session token, got `+got+`"}`, http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSignInStoresSessionAndNotifies(t *testing.T) {
	srv := newAuthTestServer(t)
	c := New(srv.URL, "anon", zerolog.Nop())

	var events []string
	c.Auth().OnAuthStateChange(func(event string, session *Session) {
		events = append(events, event)
	})

	session, err := c.Auth().SignInWithPassword(context.Background(), "admin@wedding.local", "pw")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if session.AccessToken != "session-token" || session.User.Email != "admin@wedding.local" {
		t.Fatalf("unexpected session: %+v", session)
	}
	if _, ok := c.Auth().Session(); !ok {
		t.Fatalf("session not stored")
	}
	if len(events) != 1 || events[0] != EventSignedIn {
		t.Fatalf("events = %v", events)
	}

	// Later queries carry the session token instead of the anon key.
	var rows []map[string]any
	if err := c.From("web_content").Get(context.Background(), &rows); err != nil {
		t.Fatalf("query after sign-in: %v", err)
	}
}

func TestSignOutClearsSessionEvenWhenRemoteFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/v1/logout" {
			http.Error(w, `{"message":"boom"}`, http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{
			"access_token": "session-token", "token_type": "bearer",
			"expires_in": 3600, "user": {"id": "u-1", "email": "a@b.c"}
		}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "anon", zerolog.Nop())
	if _, err := c.Auth().SignInWithPassword(context.Background(), "a@b.c", "pw"); err != nil {
		t.Fatalf("sign in: %v", err)
	}

	var events []string
	c.Auth().OnAuthStateChange(func(event string, session *Session) {
		events = append(events, event)
	})

	if err := c.Auth().SignOut(context.Background()); err == nil {
		t.Fatalf("expected remote error to be returned")
	}
	if _, ok := c.Auth().Session(); ok {
		t.Fatalf("session should be cleared despite remote failure")
	}
	if len(events) != 1 || events[0] != EventSignedOut {
		t.Fatalf("events = %v", events)
	}
}

func TestUnsubscribeStopsEvents(t *testing.T) {
	srv := newAuthTestServer(t)
	c := New(srv.URL, "anon", zerolog.Nop())

	calls := 0
	unsubscribe := c.Auth().OnAuthStateChange(func(string, *Session) { calls++ })
	unsubscribe()

	if _, err := c.Auth().SignInWithPassword(context.Background(), "admin@wedding.local", "pw"); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if calls != 0 {
		t.Fatalf("unsubscribed listener still called %d times", calls)
	}
}
