package models

import "time"

// DateInputs captures the request parameters for one date plan generation.
// The planner passes these through opaquely; only the prompt builder and the
// query engine's facet filter ever look inside.
type DateInputs struct {
	Location     string `json:"location"`
	Date         string `json:"date"`
	TimeOfDay    string `json:"timeOfDay"`
	Interests    string `json:"interests"`
	Personality  string `json:"personality"`
	Budget       string `json:"budget"`
	LoveLanguage string `json:"loveLanguage"`
}

// Activity represents one bookable unit within a date itinerary
type Activity struct {
	Title          string `json:"title"`
	Time           string `json:"time"`
	Location       string `json:"location"`
	Description    string `json:"description"`
	Considerations string `json:"considerations"`
	Weather        string `json:"weather"`
	Travel         string `json:"travel"`
	Cost           string `json:"cost"`
	BookingURL     string `json:"bookingUrl,omitempty"`
}

// DateItinerary is the result of one generation request. ID and SavedAt are
// empty until the itinerary is first saved; SavedAt never changes afterwards.
type DateItinerary struct {
	ID         string      `json:"id,omitempty"`
	Title      string      `json:"title"`
	Activities []Activity  `json:"activities"`
	TotalCost  string      `json:"totalCost"`
	SavedAt    *time.Time  `json:"savedAt,omitempty"`
	Inputs     *DateInputs `json:"inputs,omitempty"`
}

// SearchHistoryEntry records one generation request. DateItineraryID and
// DateTitle are cleared when the referenced itinerary is deleted.
type SearchHistoryEntry struct {
	ID              string    `json:"id"`
	Location        string    `json:"location"`
	Date            string    `json:"date"`
	TimeOfDay       string    `json:"timeOfDay"`
	SearchedAt      time.Time `json:"searchedAt"`
	DateItineraryID string    `json:"dateItineraryId,omitempty"`
	DateTitle       string    `json:"dateTitle,omitempty"`
}

// Fallback values applied to activity fields that are missing from the
// generated text. Every activity field except the booking URL is guaranteed
// non-empty after parsing.
const (
	DefaultActivityTitle  = "Untitled Activity"
	DefaultActivityTime   = "Time TBD"
	DefaultLocation       = "Location TBD"
	DefaultDescription    = "No description available"
	DefaultConsiderations = "No special considerations"
	DefaultWeather        = "Weather information not available"
	DefaultTravel         = "Travel information not available"
	DefaultCost           = "Price not available"
	DefaultTotalCost      = "Total cost not available"
)

// TimeOfDayAll is the facet sentinel meaning "no time-of-day filter"
const TimeOfDayAll = "all"

// MaxHistoryItems caps the search history collection; the oldest entries are
// evicted once the cap is exceeded.
const MaxHistoryItems = 10
