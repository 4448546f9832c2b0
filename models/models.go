package models

import (
	"time"
)

// Content value types stored in the type column of web_content.
const (
	TypeText  = "text"
	TypeImage = "image"
	TypeJSON  = "json"
)

// Attendance answers accepted on an RSVP.
const (
	AttendanceYes   = "yes"
	AttendanceNo    = "no"
	AttendanceMaybe = "maybe"
)

// WebContent is a single (section, key) -> value override for one page
// section. The value is interpreted as JSON when Type is "json".
type WebContent struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Section   string    `json:"section" gorm:"index;not null"`
	Key       string    `json:"key" gorm:"not null"`
	Value     string    `json:"value" gorm:"not null"`
	Type      string    `json:"type" gorm:"not null;default:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type WeddingSettings struct {
	ID                string    `json:"id" gorm:"primaryKey"`
	CoupleNames       string    `json:"couple_names"`
	WeddingDate       string    `json:"wedding_date"`
	CeremonyLocation  string    `json:"ceremony_location"`
	ReceptionLocation string    `json:"reception_location"`
	Hashtag           string    `json:"hashtag"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// UserRole is read-only from this application; rows are managed out of band.
type UserRole struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"not null"`
	Role      string    `json:"role" gorm:"not null;default:user"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RSVPResponse is write-only from this application: created by visitors,
// never read back.
type RSVPResponse struct {
	ID                  string    `json:"id,omitempty" gorm:"primaryKey"`
	GuestName           string    `json:"guest_name" gorm:"not null"`
	Email               string    `json:"email" gorm:"not null"`
	Phone               string    `json:"phone,omitempty"`
	Attendance          string    `json:"attendance" gorm:"not null"`
	NumberOfGuests      int       `json:"number_of_guests"`
	DietaryRestrictions string    `json:"dietary_restrictions,omitempty"`
	Message             string    `json:"message,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}
