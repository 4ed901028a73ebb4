package domain

import (
	"strings"
	"unicode/utf8"
)

// Field limits for a Report.
const (
	MaxNameLength        = 49
	MaxDescriptionLength = 199
	NationalIDLength     = 11
)

// Report is one disaster-incident record: who reported it, what happened, and where.
type Report struct {
	Name        string  `json:"name"`
	NationalID  string  `json:"national_id"`
	Description string  `json:"description"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// NewReport validates every field and returns the assembled Report.
// The first failing field is reported as a *ValidationError.
func NewReport(name, nationalID, description string, lat, lon float64) (Report, error) {
	if err := validateText("name", name, MaxNameLength); err != nil {
		return Report{}, err
	}
	if !IsValidNationalID(nationalID) {
		return Report{}, &ValidationError{Field: "national_id", Reason: "must be exactly 11 digits"}
	}
	if err := validateText("description", description, MaxDescriptionLength); err != nil {
		return Report{}, err
	}
	if !IsValidLatitude(lat) {
		return Report{}, &ValidationError{Field: "latitude", Reason: "must be between -90 and 90"}
	}
	if !IsValidLongitude(lon) {
		return Report{}, &ValidationError{Field: "longitude", Reason: "must be between -180 and 180"}
	}

	return Report{
		Name:        name,
		NationalID:  nationalID,
		Description: description,
		Latitude:    lat,
		Longitude:   lon,
	}, nil
}

// IsValidNationalID reports whether s is exactly 11 ASCII digits.
// Check digits are not verified.
func IsValidNationalID(s string) bool {
	if len(s) != NationalIDLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// IsValidLatitude reports whether v is within [-90, 90].
func IsValidLatitude(v float64) bool {
	return v >= -90.0 && v <= 90.0
}

// IsValidLongitude reports whether v is within [-180, 180].
func IsValidLongitude(v float64) bool {
	return v >= -180.0 && v <= 180.0
}

// validateText rejects empty values, values longer than maxLen characters,
// and values containing a line break, which the data file cannot hold.
func validateText(field, value string, maxLen int) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Reason: "must not be empty"}
	}
	if n := utf8.RuneCountInString(value); n > maxLen {
		return &ValidationError{Field: field, Reason: "too long", Limit: maxLen}
	}
	if strings.ContainsAny(value, "\r\n") {
		return &ValidationError{Field: field, Reason: "must be a single line"}
	}
	return nil
}
