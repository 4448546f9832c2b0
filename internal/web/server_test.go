package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/rs/zerolog"

	"wedding-site/internal/admin"
	"wedding-site/internal/auth"
	"wedding-site/internal/content"
	"wedding-site/internal/dataclient"
	"wedding-site/internal/datasvc"
	"wedding-site/internal/rsvp"
)

type testStack struct {
	server *Server
	client *dataclient.Client
}

// newTestStack wires the full site against a fresh emulator. When down is
// true the data service URL points at a closed listener instead.
func newTestStack(t *testing.T, down bool) *testStack {
	t.Helper()

	var serviceURL string
	if down {
		ts := httptest.NewServer(http.NotFoundHandler())
		serviceURL = ts.URL
		ts.Close()
	} else {
		store, err := datasvc.New(filepath.Join(t.TempDir(), "test.db"), "test-secret", zerolog.Nop())
		if err != nil {
			t.Fatalf("start emulator: %v", err)
		}
		ts := httptest.NewServer(store.Router())
		t.Cleanup(ts.Close)
		serviceURL = ts.URL
	}

	client := dataclient.New(serviceURL, "anon", zerolog.Nop())
	manager := auth.NewManager(client, sessions.NewCookieStore([]byte("test-secret")), zerolog.Nop())
	t.Cleanup(manager.Close)

	srv, err := New(Config{
		Log:     zerolog.Nop(),
		Auth:    manager,
		Content: content.NewLoader(client, zerolog.Nop()),
		RSVP:    rsvp.NewService(client, zerolog.Nop()),
		Admin:   admin.NewService(client, zerolog.Nop()),
	})
	if err != nil {
		t.Fatalf("configure server: %v", err)
	}
	return &testStack{server: srv, client: client}
}

func (ts *testStack) get(path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	ts.server.Router().ServeHTTP(rec, req)
	return rec
}

func (ts *testStack) postForm(path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	ts.server.Router().ServeHTTP(rec, req)
	return rec
}

// login authenticates and returns the session cookies to replay.
func (ts *testStack) login(t *testing.T) []*http.Cookie {
	t.Helper()
	rec := ts.postForm("/login", url.Values{
		"username": {"admin"},
		"password": {"Admin2025!"},
	}, nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("login status = %d, body: %s", rec.Code, rec.Body.String())
	}
	var cookies []*http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge >= 0 {
			cookies = append(cookies, c)
		}
	}
	return cookies
}

func TestAdminRoutesRedirectAnonymousVisitors(t *testing.T) {
	ts := newTestStack(t, false)
	rec := ts.get("/admin", nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Fatalf("location = %q", loc)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ts := newTestStack(t, false)
	rec := ts.postForm("/login", url.Values{
		"username": {"admin"},
		"password": {"wrong"},
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid username or password") {
		t.Fatalf("error banner missing")
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("failed login set a cookie")
	}
}

func TestLoginFlowOpensDashboard(t *testing.T) {
	ts := newTestStack(t, false)
	cookies := ts.login(t)

	rec := ts.get("/admin", cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Admin Dashboard") {
		t.Fatalf("dashboard not rendered")
	}
}

func TestLoginSucceedsWithDataServiceDown(t *testing.T) {
	ts := newTestStack(t, true)
	cookies := ts.login(t)
	if rec := ts.get("/admin", cookies); rec.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d with service down", rec.Code)
	}
}

func TestLogoutClosesDashboardAccess(t *testing.T) {
	ts := newTestStack(t, false)
	cookies := ts.login(t)

	rec := ts.postForm("/logout", nil, cookies)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Fatalf("logout response: %d %q", rec.Code, rec.Header().Get("Location"))
	}

	var after []*http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge >= 0 {
			after = append(after, c)
		}
	}
	if rec := ts.get("/admin", after); rec.Code != http.StatusSeeOther {
		t.Fatalf("admin reachable after logout: %d", rec.Code)
	}
}

func TestHomeRendersDefaultsWhenServiceDown(t *testing.T) {
	ts := newTestStack(t, true)
	rec := ts.get("/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Aibek", "Our Love Story", "Wedding Details", "Thank You"} {
		if !strings.Contains(body, want) {
			t.Fatalf("default content %q missing", want)
		}
	}
}

func TestHomeRendersStoredOverrides(t *testing.T) {
	ts := newTestStack(t, false)
	payload := []map[string]any{{
		"section": "hero", "key": "coupleNames", "value": "Dana & Timur", "type": "text",
	}}
	if err := ts.client.From("web_content").Insert(context.Background(), payload, nil); err != nil {
		t.Fatalf("seed override: %v", err)
	}

	body := ts.get("/", nil).Body.String()
	if !strings.Contains(body, "Dana &amp; Timur") {
		t.Fatalf("override not rendered")
	}
	if strings.Contains(body, "Aibek") {
		t.Fatalf("default shown despite override")
	}
}

func TestRSVPSubmissionStoresAndConfirms(t *testing.T) {
	ts := newTestStack(t, false)
	rec := ts.postForm("/rsvp", url.Values{
		"guest_name":       {"Aliya Nurgazina"},
		"email":            {"aliya@example.com"},
		"attendance":       {"yes"},
		"number_of_guests": {"2"},
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Submit Another RSVP") {
		t.Fatalf("confirmation page not rendered")
	}

	var rows []map[string]any
	if err := ts.client.From("rsvp_responses").Get(context.Background(), &rows); err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(rows) != 1 || rows[0]["guest_name"] != "Aliya Nurgazina" {
		t.Fatalf("response not stored: %v", rows)
	}
}

func TestRSVPFailureKeepsFormPopulated(t *testing.T) {
	ts := newTestStack(t, true)
	rec := ts.postForm("/rsvp", url.Values{
		"guest_name": {"Aliya Nurgazina"},
		"email":      {"aliya@example.com"},
		"attendance": {"yes"},
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Aliya Nurgazina") {
		t.Fatalf("form values lost on failure")
	}
	if !strings.Contains(body, "aliya@example.com") {
		t.Fatalf("email lost on failure")
	}
}

func TestContentCreateAndDeleteThroughDashboard(t *testing.T) {
	ts := newTestStack(t, false)
	cookies := ts.login(t)

	rec := ts.postForm("/admin/content", url.Values{
		"section": {"hero"},
		"key":     {"subtitle"},
		"value":   {"We are getting married"},
		"type":    {"text"},
	}, cookies)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("create status = %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); strings.Contains(loc, "err=") {
		t.Fatalf("create redirected with error: %q", loc)
	}

	var rows []map[string]any
	if err := ts.client.From("web_content").Eq("key", "subtitle").Get(context.Background(), &rows); err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %v", rows)
	}
	id := rows[0]["id"].(string)

	rec = ts.postForm("/admin/content/"+id+"/delete", nil, cookies)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rows = nil
	_ = ts.client.From("web_content").Eq("id", id).Get(context.Background(), &rows)
	if len(rows) != 0 {
		t.Fatalf("row survived delete: %v", rows)
	}
}

func TestContentCreateValidationErrorSurfacesInRedirect(t *testing.T) {
	ts := newTestStack(t, false)
	cookies := ts.login(t)

	rec := ts.postForm("/admin/content", url.Values{
		"section": {"hero"},
		"key":     {""},
		"value":   {"v"},
	}, cookies)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Header().Get("Location"), "err=") {
		t.Fatalf("validation error not carried: %q", rec.Header().Get("Location"))
	}
}

func TestSettingsSaveIsANoOp(t *testing.T) {
	ts := newTestStack(t, false)
	cookies := ts.login(t)

	rec := ts.postForm("/admin/settings", url.Values{
		"couple_names": {"Dana & Timur"},
		"wedding_date": {"2026-09-12"},
	}, cookies)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("settings create status = %d", rec.Code)
	}

	var rows []map[string]any
	if err := ts.client.From("wedding_settings").Get(context.Background(), &rows); err != nil {
		t.Fatalf("read settings: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("settings rows = %v", rows)
	}
	id := rows[0]["id"].(string)

	// Saving an edited settings row only exits edit mode today.
	rec = ts.postForm("/admin/settings/"+id, url.Values{
		"couple_names": {"Someone Else"},
	}, cookies)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("settings save status = %d", rec.Code)
	}

	rows = nil
	_ = ts.client.From("wedding_settings").Get(context.Background(), &rows)
	if rows[0]["couple_names"] != "Dana & Timur" {
		t.Fatalf("settings changed by the save stub: %v", rows[0])
	}
}

func TestDashboardRunsDiagnosticsOnFirstLoadOnly(t *testing.T) {
	ts := newTestStack(t, false)
	cookies := ts.login(t)

	body := ts.get("/admin?diag=1", cookies).Body.String()
	if !strings.Contains(body, "CONNECTION_TEST") {
		t.Fatalf("first load did not run diagnostics")
	}

	before := len(ts.server.admin.Logs().Recent(50))
	ts.get("/admin?diag=1", cookies)
	after := len(ts.server.admin.Logs().Recent(50))
	// Subsequent loads add only the three list fetches, no new probe runs.
	if after-before > 3 {
		t.Fatalf("diagnostics re-ran on later load: %d new entries", after-before)
	}
}

func TestManualDiagnosticsTrigger(t *testing.T) {
	ts := newTestStack(t, false)
	cookies := ts.login(t)

	rec := ts.postForm("/admin/diagnostics", nil, cookies)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); !strings.Contains(loc, "diag=1") {
		t.Fatalf("redirect does not open the panel: %q", loc)
	}
	status := ts.server.admin.LastStatus()
	if !status.Connection || !status.Operations.Delete {
		t.Fatalf("probe results not recorded: %+v", status)
	}
}

func TestUploadDisabledWithoutObjectStorage(t *testing.T) {
	ts := newTestStack(t, false)
	cookies := ts.login(t)

	rec := ts.postForm("/admin/upload", nil, cookies)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Header().Get("Location"), "err=") {
		t.Fatalf("disabled upload did not surface an error: %q", rec.Header().Get("Location"))
	}
}

func TestUnknownPathsRedirectHome(t *testing.T) {
	ts := newTestStack(t, false)
	rec := ts.get("/nope", nil)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Fatalf("response: %d %q", rec.Code, rec.Header().Get("Location"))
	}
}
