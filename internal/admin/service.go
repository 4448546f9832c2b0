// Package admin implements the dashboard's content management: CRUD over
// the hosted store's tables plus the connectivity diagnostics probe.
package admin

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"wedding-site/internal/dataclient"
	"wedding-site/models"
)

// ErrMissingFields is returned when a create is attempted with empty
// mandatory fields. No network call is issued in that case.
var ErrMissingFields = errors.New("please fill in all required fields")

// Service runs the dashboard's data operations against the hosted store.
type Service struct {
	client *dataclient.Client
	log    zerolog.Logger
	apiLog *APILog

	mu         sync.Mutex
	lastStatus DatabaseStatus
}

func NewService(client *dataclient.Client, log zerolog.Logger) *Service {
	return &Service{
		client: client,
		log:    log,
		apiLog: NewAPILog(),
	}
}

// Logs returns the bounded call log shown in the diagnostics panel.
func (s *Service) Logs() *APILog {
	return s.apiLog
}

// ListContent fetches all content rows ordered by section then key.
func (s *Service) ListContent(ctx context.Context) ([]models.WebContent, error) {
	var rows []models.WebContent
	err := s.client.From("web_content").
		Select("*").
		Order("section", true).
		Order("key", true).
		Get(ctx, &rows)
	if err != nil {
		s.record("FETCH", "web_content", err)
		return nil, err
	}
	s.apiLog.Add("FETCH", "web_content", StatusSuccess, fmt.Sprintf("Fetched %d records", len(rows)))
	return rows, nil
}

// CreateContent inserts a new content row. Section, key and value are
// mandatory and checked before any call is made.
func (s *Service) CreateContent(ctx context.Context, section, key, value, contentType string) (*models.WebContent, error) {
	if section == "" || key == "" || value == "" {
		return nil, ErrMissingFields
	}
	if contentType == "" {
		contentType = models.TypeText
	}

	payload := []map[string]any{{
		"section": section,
		"key":     key,
		"value":   value,
		"type":    contentType,
	}}
	var created []models.WebContent
	if err := s.client.From("web_content").Insert(ctx, payload, &created); err != nil {
		s.record("CREATE", "web_content", err)
		return nil, err
	}
	s.apiLog.Add("CREATE", "web_content", StatusSuccess, "Create successful")
	if len(created) == 0 {
		return nil, fmt.Errorf("no row returned for insert")
	}
	return &created[0], nil
}

// UpdateContent pushes the staged section/key/value/type of one row along
// with a fresh updated_at timestamp.
func (s *Service) UpdateContent(ctx context.Context, id, section, key, value, contentType string) error {
	fields := map[string]any{
		"section":    section,
		"key":        key,
		"value":      value,
		"type":       contentType,
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	}
	var updated []models.WebContent
	err := s.client.From("web_content").Eq("id", id).Update(ctx, fields, &updated)
	if err != nil {
		s.record("UPDATE", "web_content", err)
		return err
	}
	s.apiLog.Add("UPDATE", "web_content", StatusSuccess, "Update successful")
	return nil
}

// DeleteContent removes one content row by id.
func (s *Service) DeleteContent(ctx context.Context, id string) error {
	if err := s.client.From("web_content").Eq("id", id).Delete(ctx); err != nil {
		s.record("DELETE", "web_content", err)
		return err
	}
	s.apiLog.Add("DELETE", "web_content", StatusSuccess, "Delete successful")
	return nil
}

// ListSettings fetches all wedding settings rows, newest first. Multiple
// rows may exist; the dashboard treats them as a list, not a singleton.
func (s *Service) ListSettings(ctx context.Context) ([]models.WeddingSettings, error) {
	var rows []models.WeddingSettings
	err := s.client.From("wedding_settings").
		Select("*").
		Order("created_at", false).
		Get(ctx, &rows)
	if err != nil {
		s.record("FETCH", "wedding_settings", err)
		return nil, err
	}
	s.apiLog.Add("FETCH", "wedding_settings", StatusSuccess, fmt.Sprintf("Fetched %d records", len(rows)))
	return rows, nil
}

// CreateSettings inserts a new settings row. Couple names and wedding date
// are mandatory.
func (s *Service) CreateSettings(ctx context.Context, ws models.WeddingSettings) error {
	if ws.CoupleNames == "" || ws.WeddingDate == "" {
		return ErrMissingFields
	}

	payload := []map[string]any{{
		"couple_names":       ws.CoupleNames,
		"wedding_date":       ws.WeddingDate,
		"ceremony_location":  ws.CeremonyLocation,
		"reception_location": ws.ReceptionLocation,
		"hashtag":            ws.Hashtag,
	}}
	var created []models.WeddingSettings
	if err := s.client.From("wedding_settings").Insert(ctx, payload, &created); err != nil {
		s.record("CREATE", "wedding_settings", err)
		return err
	}
	s.apiLog.Add("CREATE", "wedding_settings", StatusSuccess, "Create successful")
	return nil
}

// ListRoles fetches all user role rows, newest first. Roles are read-only
// in this application.
func (s *Service) ListRoles(ctx context.Context) ([]models.UserRole, error) {
	var rows []models.UserRole
	err := s.client.From("user_roles").
		Select("*").
		Order("created_at", false).
		Get(ctx, &rows)
	if err != nil {
		s.record("FETCH", "user_roles", err)
		return nil, err
	}
	s.apiLog.Add("FETCH", "user_roles", StatusSuccess, fmt.Sprintf("Fetched %d records", len(rows)))
	return rows, nil
}

func (s *Service) record(operation, table string, err error) {
	s.apiLog.Add(operation, table, StatusError, err.Error())
	s.log.Error().Err(err).Str("operation", operation).Str("table", table).Msg("admin data operation failed")
}
