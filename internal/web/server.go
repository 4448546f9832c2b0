// Package web serves the public wedding site, the login page and the
// guarded admin dashboard.
package web

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"wedding-site/internal/admin"
	"wedding-site/internal/auth"
	"wedding-site/internal/content"
	"wedding-site/internal/rsvp"
	"wedding-site/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var errUploadsDisabled = errors.New("gallery uploads are not configured")

// Config wires the server's dependencies.
type Config struct {
	Log      zerolog.Logger
	Auth     *auth.Manager
	Content  *content.Loader
	RSVP     *rsvp.Service
	Admin    *admin.Service
	Uploader *admin.Uploader // nil when object storage is not configured
}

// Server exposes the site routes.
type Server struct {
	log      zerolog.Logger
	sessions *auth.Manager
	loader   *content.Loader
	rsvps    *rsvp.Service
	admin    *admin.Service
	uploader *admin.Uploader
	tmpl     *template.Template
	router   chi.Router

	// diagnostics run once automatically on first dashboard load, then
	// only on manual trigger.
	diagnosed atomic.Bool
}

// New parses the templates and configures the routes.
func New(cfg Config) (*Server, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"glyph": func(name string) string {
			return content.IconFor(name).Glyph()
		},
		"formatValue": formatValue,
		"clock": func(t time.Time) string {
			return t.Format("15:04:05")
		},
		"stamp": func(t time.Time) string {
			return t.Format("2006-01-02 15:04")
		},
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	s := &Server{
		log:      cfg.Log,
		sessions: cfg.Auth,
		loader:   cfg.Content,
		rsvps:    cfg.RSVP,
		admin:    cfg.Admin,
		uploader: cfg.Uploader,
		tmpl:     tmpl,
	}
	s.routes()
	return s, nil
}

// Router returns the configured handler.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleHome)
	r.Get("/login", s.handleLoginPage)
	r.With(httprate.Limit(
		20,
		1*time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP, httprate.KeyByEndpoint),
	)).Post("/login", s.handleLogin)
	r.Post("/logout", s.handleLogout)
	r.Post("/rsvp", s.handleRSVP)

	r.Route("/admin", func(r chi.Router) {
		r.Use(auth.RequireAdmin(s.sessions))
		r.Use(httprate.Limit(
			20,
			1*time.Minute,
			httprate.WithKeyFuncs(httprate.KeyByIP, httprate.KeyByEndpoint),
		))
		r.Get("/", s.handleDashboard)
		r.Post("/content", s.handleContentCreate)
		r.Post("/content/{id}", s.handleContentUpdate)
		r.Post("/content/{id}/delete", s.handleContentDelete)
		r.Post("/settings", s.handleSettingsCreate)
		r.Post("/settings/{id}", s.handleSettingsSave)
		r.Post("/upload", s.handleUpload)
		r.Post("/diagnostics", s.handleDiagnostics)
	})

	// Any other path goes back to the public site.
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
	})
	s.router = r
}

type rsvpView struct {
	Error string
	Form  rsvp.Submission
}

type homeData struct {
	Hero     map[string]any
	Story    map[string]any
	Details  map[string]any
	Gallery  map[string]any
	ThankYou map[string]any
	RSVP     rsvpView
}

// loadHome fetches the five content-backed sections concurrently; each
// falls back to its defaults independently on fetch failure.
func (s *Server) loadHome(ctx context.Context) *homeData {
	data := &homeData{
		RSVP: rsvpView{Form: rsvp.Submission{Attendance: models.AttendanceYes, NumberOfGuests: 1}},
	}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { data.Hero = s.loader.LoadSection(ctx, content.SectionHero); return nil })
	g.Go(func() error { data.Story = s.loader.LoadSection(ctx, content.SectionOurStory); return nil })
	g.Go(func() error { data.Details = s.loader.LoadSection(ctx, content.SectionWeddingDetails); return nil })
	g.Go(func() error { data.Gallery = s.loader.LoadSection(ctx, content.SectionPhotoGallery); return nil })
	g.Go(func() error { data.ThankYou = s.loader.LoadSection(ctx, content.SectionThankYou); return nil })
	_ = g.Wait()
	return data
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.render(w, "home.html", s.loadHome(r.Context()))
}

func (s *Server) handleRSVP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	guests, err := strconv.Atoi(r.FormValue("number_of_guests"))
	if err != nil || guests < 1 {
		guests = 1
	}
	sub := rsvp.Submission{
		GuestName:           r.FormValue("guest_name"),
		Email:               r.FormValue("email"),
		Phone:               r.FormValue("phone"),
		Attendance:          r.FormValue("attendance"),
		NumberOfGuests:      guests,
		DietaryRestrictions: r.FormValue("dietary_restrictions"),
		Message:             r.FormValue("message"),
	}

	if err := s.rsvps.Submit(r.Context(), sub); err != nil {
		// Leave the form populated for retry with the error inline.
		data := s.loadHome(r.Context())
		data.RSVP = rsvpView{Error: err.Error(), Form: sub}
		s.render(w, "home.html", data)
		return
	}
	s.render(w, "rsvp_success.html", nil)
}

type loginData struct {
	Error string
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, "login.html", loginData{})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, "login.html", loginData{Error: "An error occurred during login"})
		return
	}
	ok := s.sessions.Login(r.Context(), w, r, r.FormValue("username"), r.FormValue("password"))
	if !ok {
		s.render(w, "login.html", loginData{Error: "Invalid username or password"})
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.Logout(r.Context(), w, r)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

type dashboardData struct {
	Tab             string
	EditID          string
	Alert           string
	ShowDiagnostics bool
	UploadEnabled   bool
	Content         []models.WebContent
	Settings        []models.WeddingSettings
	Roles           []models.UserRole
	Status          admin.DatabaseStatus
	Logs            []admin.LogEntry
	SessionState    string
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	data := &dashboardData{
		Tab:             q.Get("tab"),
		EditID:          q.Get("edit"),
		Alert:           q.Get("err"),
		ShowDiagnostics: q.Get("diag") == "1",
		UploadEnabled:   s.uploader != nil,
		SessionState:    s.sessions.State().String(),
	}
	if data.Tab == "" {
		data.Tab = "web_content"
	}

	// The three list fetches run concurrently; the page renders once all
	// are done. List failures are log-only and leave the tab empty.
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		if rows, err := s.admin.ListContent(ctx); err == nil {
			data.Content = rows
		}
		return nil
	})
	g.Go(func() error {
		if rows, err := s.admin.ListSettings(ctx); err == nil {
			data.Settings = rows
		}
		return nil
	})
	g.Go(func() error {
		if rows, err := s.admin.ListRoles(ctx); err == nil {
			data.Roles = rows
		}
		return nil
	})
	_ = g.Wait()

	if s.diagnosed.CompareAndSwap(false, true) {
		s.admin.RunDiagnostics(r.Context())
	}
	data.Status = s.admin.LastStatus()
	data.Logs = s.admin.Logs().Recent(10)

	s.render(w, "admin.html", data)
}

func (s *Server) handleContentCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.redirectDashboard(w, r, "web_content", "", err)
		return
	}
	_, err := s.admin.CreateContent(
		r.Context(),
		r.FormValue("section"),
		r.FormValue("key"),
		r.FormValue("value"),
		r.FormValue("type"),
	)
	s.redirectDashboard(w, r, "web_content", "", err)
}

func (s *Server) handleContentUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		s.redirectDashboard(w, r, "web_content", id, err)
		return
	}
	err := s.admin.UpdateContent(
		r.Context(),
		id,
		r.FormValue("section"),
		r.FormValue("key"),
		r.FormValue("value"),
		r.FormValue("type"),
	)
	// A failed save leaves edit mode open; success exits it.
	editID := ""
	if err != nil {
		editID = id
	}
	s.redirectDashboard(w, r, "web_content", editID, err)
}

func (s *Server) handleContentDelete(w http.ResponseWriter, r *http.Request) {
	err := s.admin.DeleteContent(r.Context(), chi.URLParam(r, "id"))
	s.redirectDashboard(w, r, "web_content", "", err)
}

func (s *Server) handleSettingsCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.redirectDashboard(w, r, "wedding_settings", "", err)
		return
	}
	err := s.admin.CreateSettings(r.Context(), models.WeddingSettings{
		CoupleNames:       r.FormValue("couple_names"),
		WeddingDate:       r.FormValue("wedding_date"),
		CeremonyLocation:  r.FormValue("ceremony_location"),
		ReceptionLocation: r.FormValue("reception_location"),
		Hashtag:           r.FormValue("hashtag"),
	})
	s.redirectDashboard(w, r, "wedding_settings", "", err)
}

func (s *Server) handleSettingsSave(w http.ResponseWriter, r *http.Request) {
	// TODO: wire the settings update call. Saving a settings row currently
	// only exits edit mode; no request is issued to the store.
	s.redirectDashboard(w, r, "wedding_settings", "", nil)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if s.uploader == nil {
		s.redirectDashboard(w, r, "web_content", "", errUploadsDisabled)
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		s.redirectDashboard(w, r, "web_content", "", err)
		return
	}
	defer file.Close()

	photoURL, err := s.uploader.UploadGalleryPhoto(r.Context(), file, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		s.redirectDashboard(w, r, "web_content", "", err)
		return
	}
	key := "photo_" + uuid.New().String()[:8]
	_, err = s.admin.CreateContent(r.Context(), content.SectionPhotoGallery, key, photoURL, models.TypeImage)
	s.redirectDashboard(w, r, "web_content", "", err)
}

func (s *Server) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	s.admin.RunDiagnostics(r.Context())
	http.Redirect(w, r, "/admin?diag=1", http.StatusSeeOther)
}

func (s *Server) redirectDashboard(w http.ResponseWriter, r *http.Request, tab, editID string, err error) {
	target := "/admin?tab=" + url.QueryEscape(tab)
	if editID != "" {
		target += "&edit=" + url.QueryEscape(editID)
	}
	if err != nil {
		target += "&err=" + url.QueryEscape(err.Error())
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		s.log.Error().Err(err).Str("template", name).Msg("rendering template")
	}
}

// formatValue pretty-prints json-typed values for display, leaving
// everything else (and malformed json) untouched.
func formatValue(value, contentType string) string {
	if contentType == models.TypeJSON {
		var buf bytes.Buffer
		if err := json.Indent(&buf, []byte(value), "", "  "); err == nil {
			return buf.String()
		}
	}
	return value
}

func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}
