// Package rsvp records visitor RSVP responses. Responses are write-only
// from this application: inserted once, never read back.
package rsvp

import (
	"context"

	"github.com/rs/zerolog"

	"wedding-site/internal/dataclient"
)

// Submission is the form payload inserted into rsvp_responses. Validation
// stays at the form level (name, email and attendance are required fields);
// nothing else is checked before sending.
type Submission struct {
	GuestName           string `json:"guest_name"`
	Email               string `json:"email"`
	Phone               string `json:"phone,omitempty"`
	Attendance          string `json:"attendance"`
	NumberOfGuests      int    `json:"number_of_guests"`
	DietaryRestrictions string `json:"dietary_restrictions,omitempty"`
	Message             string `json:"message,omitempty"`
}

type Service struct {
	client *dataclient.Client
	log    zerolog.Logger
}

func NewService(client *dataclient.Client, log zerolog.Logger) *Service {
	return &Service{client: client, log: log}
}

// Submit inserts one response row. No deduplication, no rate limiting; a
// failure is terminal for the attempt and the caller re-offers the form.
func (s *Service) Submit(ctx context.Context, sub Submission) error {
	err := s.client.From("rsvp_responses").Insert(ctx, []Submission{sub}, nil)
	if err != nil {
		s.log.Error().Err(err).Str("guest", sub.GuestName).Msg("submitting rsvp")
		return err
	}
	s.log.Info().Str("guest", sub.GuestName).Str("attendance", sub.Attendance).Msg("rsvp received")
	return nil
}
