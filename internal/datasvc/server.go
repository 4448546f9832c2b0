// Package datasvc emulates the hosted data service for local development
// and tests: the same table-scoped REST query surface and auth endpoints
// the production project exposes, backed by SQLite.
package datasvc

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"wedding-site/models"
)

// Account every fresh emulator database is seeded with.
const (
	SeedEmail    = "admin@wedding.local"
	SeedPassword = "Admin2025!"
)

var columnPattern = regexp.MustCompile(`^[a-z_]+$`)

// ServiceUser backs the auth endpoints. Not exposed through the table API.
type ServiceUser struct {
	ID           string `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
}

// Server is the emulator.
type Server struct {
	db        *gorm.DB
	jwtSecret []byte
	log       zerolog.Logger
	router    chi.Router
}

// New opens (or creates) the database, migrates the tables and seeds the
// service account.
func New(dbPath, jwtSecret string, log zerolog.Logger) (*Server, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(
		&models.WebContent{},
		&models.WeddingSettings{},
		&models.UserRole{},
		&models.RSVPResponse{},
		&ServiceUser{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	s := &Server{
		db:        db,
		jwtSecret: []byte(jwtSecret),
		log:       log,
	}
	if err := s.seed(); err != nil {
		return nil, err
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
	r.Route("/rest/v1/{table}", func(r chi.Router) {
		r.Get("/", s.handleSelect)
		r.Post("/", s.handleInsert)
		r.Patch("/", s.handleUpdate)
		r.Delete("/", s.handleDelete)
	})
	r.Post("/auth/v1/token", s.handleToken)
	r.Post("/auth/v1/logout", s.handleLogout)
	r.Get("/auth/v1/user", s.handleUser)
	s.router = r
}

func (s *Server) seed() error {
	var count int64
	if err := s.db.Model(&ServiceUser{}).Where("email = ?", SeedEmail).Count(&count).Error; err != nil {
		return fmt.Errorf("seed lookup: %w", err)
	}
	if count > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}
	user := ServiceUser{
		ID:           uuid.New().String(),
		Email:        SeedEmail,
		PasswordHash: string(hash),
	}
	if err := s.db.Create(&user).Error; err != nil {
		return fmt.Errorf("seed service account: %w", err)
	}
	s.log.Info().Str("email", SeedEmail).Msg("seeded service account")
	return nil
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	dest, err := newSlice(table)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	query := r.URL.Query()

	sel := query.Get("select")
	if sel == "count" {
		var n int64
		tx, err := s.scope(table, query)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := tx.Count(&n).Error; err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, []map[string]any{{"count": n}})
		return
	}

	tx, err := s.scope(table, query)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if order, err := orderClause(query.Get("order")); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	} else if order != "" {
		tx = tx.Order(order)
	}
	if limit := query.Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		tx = tx.Limit(n)
	}
	if err := tx.Find(dest).Error; err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	rows, err := toMaps(dest)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, project(rows, sel))
}

func (s *Server) handleInsert(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	if _, err := newSlice(table); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	var incoming []map[string]any
	if len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, &incoming); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	} else {
		var one map[string]any
		if err := json.Unmarshal(raw, &one); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		incoming = append(incoming, one)
	}

	created := make([]map[string]any, 0, len(incoming))
	for _, fields := range incoming {
		row, err := newRow(table, fields)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := s.db.Create(row).Error; err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		m, err := toMap(row)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		created = append(created, m)
	}

	if strings.Contains(r.Header.Get("Prefer"), "return=representation") {
		writeJSON(w, http.StatusCreated, created)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	query := r.URL.Query()

	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	normalizeTimestamps(fields)

	tx, err := s.scope(table, query)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := tx.Updates(fields).Error; err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if strings.Contains(r.Header.Get("Prefer"), "return=representation") {
		dest, _ := newSlice(table)
		tx, _ := s.scope(table, query)
		if err := tx.Find(dest).Error; err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		rows, err := toMaps(dest)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, rows)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	row, err := emptyRow(table)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	tx, err := s.scope(table, r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := tx.Delete(row).Error; err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// scope returns a query on the table's model with all eq filters applied.
func (s *Server) scope(table string, query map[string][]string) (*gorm.DB, error) {
	row, err := emptyRow(table)
	if err != nil {
		return nil, err
	}
	tx := s.db.Model(row)
	for column, values := range query {
		switch column {
		case "select", "order", "limit":
			continue
		}
		if !columnPattern.MatchString(column) {
			return nil, fmt.Errorf("invalid column %q", column)
		}
		if len(values) == 0 || !strings.HasPrefix(values[0], "eq.") {
			return nil, fmt.Errorf("unsupported filter on %q", column)
		}
		tx = tx.Where(map[string]any{column: strings.TrimPrefix(values[0], "eq.")})
	}
	return tx, nil
}

func newSlice(table string) (any, error) {
	switch table {
	case "web_content":
		return &[]models.WebContent{}, nil
	case "wedding_settings":
		return &[]models.WeddingSettings{}, nil
	case "user_roles":
		return &[]models.UserRole{}, nil
	case "rsvp_responses":
		return &[]models.RSVPResponse{}, nil
	}
	return nil, fmt.Errorf("unknown table %q", table)
}

func emptyRow(table string) (any, error) {
	switch table {
	case "web_content":
		return &models.WebContent{}, nil
	case "wedding_settings":
		return &models.WeddingSettings{}, nil
	case "user_roles":
		return &models.UserRole{}, nil
	case "rsvp_responses":
		return &models.RSVPResponse{}, nil
	}
	return nil, fmt.Errorf("unknown table %q", table)
}

// newRow builds a typed row from the incoming JSON fields, stamping id and
// timestamps the way the hosted service would.
func newRow(table string, fields map[string]any) (any, error) {
	row, err := emptyRow(table)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode row: %w", err)
	}
	if err := json.Unmarshal(data, row); err != nil {
		return nil, fmt.Errorf("invalid row for %s: %v", table, err)
	}

	now := time.Now().UTC()
	switch v := row.(type) {
	case *models.WebContent:
		if v.ID == "" {
			v.ID = uuid.New().String()
		}
		v.CreatedAt, v.UpdatedAt = now, now
	case *models.WeddingSettings:
		if v.ID == "" {
			v.ID = uuid.New().String()
		}
		v.CreatedAt, v.UpdatedAt = now, now
	case *models.UserRole:
		if v.ID == "" {
			v.ID = uuid.New().String()
		}
		v.CreatedAt, v.UpdatedAt = now, now
	case *models.RSVPResponse:
		if v.ID == "" {
			v.ID = uuid.New().String()
		}
		v.CreatedAt = now
	}
	return row, nil
}

// normalizeTimestamps converts RFC3339 timestamp strings in an update
// payload to time values SQLite can store in a datetime column.
func normalizeTimestamps(fields map[string]any) {
	for _, column := range []string{"created_at", "updated_at"} {
		if raw, ok := fields[column].(string); ok {
			if t, err := time.Parse(time.RFC3339, raw); err == nil {
				fields[column] = t
			}
		}
	}
}

func orderClause(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	parts := strings.Split(raw, ",")
	clauses := make([]string, 0, len(parts))
	for _, part := range parts {
		column, dir, _ := strings.Cut(part, ".")
		if !columnPattern.MatchString(column) {
			return "", fmt.Errorf("invalid order column %q", column)
		}
		switch dir {
		case "asc", "desc":
		case "":
			dir = "asc"
		default:
			return "", fmt.Errorf("invalid order direction %q", dir)
		}
		clauses = append(clauses, fmt.Sprintf("%s %s", column, dir))
	}
	return strings.Join(clauses, ", "), nil
}

func toMaps(dest any) ([]map[string]any, error) {
	data, err := json.Marshal(dest)
	if err != nil {
		return nil, err
	}
	var rows []map[string]any
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []map[string]any{}
	}
	return rows, nil
}

func toMap(row any) (map[string]any, error) {
	data, err := json.Marshal(row)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// project keeps only the selected columns, mirroring the hosted service's
// column projection.
func project(rows []map[string]any, sel string) []map[string]any {
	if sel == "" || sel == "*" {
		return rows
	}
	cols := strings.Split(sel, ",")
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		projected := make(map[string]any, len(cols))
		for _, col := range cols {
			col = strings.TrimSpace(col)
			if v, ok := row[col]; ok {
				projected[col] = v
			}
		}
		out = append(out, projected)
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
