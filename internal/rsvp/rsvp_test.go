package rsvp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"wedding-site/internal/dataclient"
	"wedding-site/internal/datasvc"
)

func TestSubmitStoresResponse(t *testing.T) {
	store, err := datasvc.New(filepath.Join(t.TempDir(), "test.db"), "test-secret", zerolog.Nop())
	if err != nil {
		t.Fatalf("start emulator: %v", err)
	}
	ts := httptest.NewServer(store.Router())
	defer ts.Close()

	client := dataclient.New(ts.URL, "anon", zerolog.Nop())
	s := NewService(client, zerolog.Nop())

	sub := Submission{
		GuestName:           "Aliya Nurgazina",
		Email:               "aliya@example.com",
		Attendance:          "yes",
		NumberOfGuests:      2,
		DietaryRestrictions: "vegetarian",
		Message:             "So excited for you both!",
	}
	if err := s.Submit(context.Background(), sub); err != nil {
		t.Fatalf("submit: %v", err)
	}

	var rows []map[string]any
	if err := client.From("rsvp_responses").Get(context.Background(), &rows); err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %v", rows)
	}
	if rows[0]["guest_name"] != "Aliya Nurgazina" || rows[0]["attendance"] != "yes" {
		t.Fatalf("stored row wrong: %v", rows[0])
	}
	if rows[0]["number_of_guests"] != float64(2) {
		t.Fatalf("number_of_guests = %v", rows[0]["number_of_guests"])
	}
}

func TestSubmitSurfacesServiceErrors(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	s := NewService(dataclient.New(url, "anon", zerolog.Nop()), zerolog.Nop())
	err := s.Submit(context.Background(), Submission{
		GuestName: "Aliya", Email: "a@b.c", Attendance: "no",
	})
	if err == nil {
		t.Fatalf("expected error when the service is unreachable")
	}
}
