package services

import (
	"fmt"
	"strings"

	"date-night-planner/internal/models"
)

// ParseReason is a stable reason code for a structural parse failure
type ParseReason string

const (
	ParseReasonMissingTitle ParseReason = "missing_title"
	ParseReasonNoActivities ParseReason = "no_activities"
)

// ParseError reports a structural failure while parsing generated text.
// Field-level defects (bad booking URL, missing activity fields) are
// normalized with defaults instead and never reach the caller.
type ParseError struct {
	Reason  ParseReason
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse failed (%s): %s", e.Reason, e.Message)
}

// Section markers emitted by the generation prompt
const (
	activityMarker  = "Activity"
	totalCostMarker = "Total Cost:"
)

// ItineraryParser assembles a validated DateItinerary from raw generated text
type ItineraryParser struct{}

// NewItineraryParser creates a new itinerary parser
func NewItineraryParser() *ItineraryParser {
	return &ItineraryParser{}
}

// Parse converts a raw generated text block into a DateItinerary. The first
// section must carry a "Title:" line; every "Activity" section opens a new
// activity record that collects key/value lines until the next marker. A
// parse succeeds only if at least one activity was found; every activity
// field except the booking URL is backfilled with a default when missing.
func (p *ItineraryParser) Parse(rawText string) (*models.DateItinerary, error) {
	sections := ExtractSections(rawText)

	if len(sections) == 0 {
		return nil, &ParseError{
			Reason:  ParseReasonMissingTitle,
			Message: "could not parse date title",
		}
	}

	title := ""
	for _, line := range sections[0].Lines {
		if line.Key == "Title" && line.Value != "" {
			title = line.Value
			break
		}
	}
	if title == "" {
		return nil, &ParseError{
			Reason:  ParseReasonMissingTitle,
			Message: "could not parse date title",
		}
	}

	var activities []models.Activity
	var current map[string]string
	totalCost := ""

	// Small two-state walk: outside an activity, key/value lines are dropped;
	// inside, they accumulate until the next Activity or Total Cost marker.
	for _, section := range sections[1:] {
		switch {
		case section.HasPrefix(activityMarker):
			if len(current) > 0 {
				activities = append(activities, buildActivity(current))
			}
			current = make(map[string]string)
			collectActivityFields(current, section.Lines)

		case section.HasPrefix(totalCostMarker):
			if len(section.Lines) > 0 {
				totalCost = section.Lines[0].Value
			}
			if len(current) > 0 {
				activities = append(activities, buildActivity(current))
			}
			current = nil

		default:
			if current != nil {
				collectActivityFields(current, section.Lines)
			}
		}
	}

	if len(current) > 0 {
		activities = append(activities, buildActivity(current))
	}

	if len(activities) == 0 {
		return nil, &ParseError{
			Reason:  ParseReasonNoActivities,
			Message: "no activities found in the response",
		}
	}

	if totalCost == "" {
		totalCost = models.DefaultTotalCost
	}

	return &models.DateItinerary{
		Title:      title,
		Activities: activities,
		TotalCost:  totalCost,
	}, nil
}

// collectActivityFields copies recognized key/value lines into the
// in-progress activity. Unrecognized keys are dropped silently; a booking URL
// that fails validation is treated as absent rather than failing the parse.
func collectActivityFields(fields map[string]string, lines []FieldLine) {
	for _, line := range lines {
		if line.Value == "" {
			continue
		}

		key := strings.ToLower(line.Key)
		switch key {
		case "title", "time", "location", "description", "considerations", "weather", "travel", "cost":
			fields[key] = line.Value
		case "bookingurl":
			if models.IsValidBookingURL(line.Value) {
				fields[key] = line.Value
			}
		}
	}
}

// buildActivity turns collected fields into an Activity, filling every
// missing field with its fallback value
func buildActivity(fields map[string]string) models.Activity {
	return models.Activity{
		Title:          fieldOrDefault(fields, "title", models.DefaultActivityTitle),
		Time:           fieldOrDefault(fields, "time", models.DefaultActivityTime),
		Location:       fieldOrDefault(fields, "location", models.DefaultLocation),
		Description:    fieldOrDefault(fields, "description", models.DefaultDescription),
		Considerations: fieldOrDefault(fields, "considerations", models.DefaultConsiderations),
		Weather:        fieldOrDefault(fields, "weather", models.DefaultWeather),
		Travel:         fieldOrDefault(fields, "travel", models.DefaultTravel),
		Cost:           fieldOrDefault(fields, "cost", models.DefaultCost),
		BookingURL:     fields["bookingurl"],
	}
}

func fieldOrDefault(fields map[string]string, key, fallback string) string {
	if value := fields[key]; value != "" {
		return value
	}
	return fallback
}
