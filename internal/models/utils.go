package models

import (
	"net/url"

	"github.com/google/uuid"
)

// NewRecordID generates a unique ID for a saved itinerary or history entry
func NewRecordID() string {
	return uuid.NewString()
}

// IsValidBookingURL checks that a booking URL is a syntactically valid
// absolute URL. Relative URLs and bare hostnames are rejected; the parser
// drops the field entirely rather than storing an invalid value.
func IsValidBookingURL(rawURL string) bool {
	if rawURL == "" {
		return false
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	return parsed.IsAbs() && parsed.Host != ""
}
