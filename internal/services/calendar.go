package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"date-night-planner/internal/models"
)

// CalendarService exports a saved itinerary as an ICS document, one event per
// activity
type CalendarService struct{}

// NewCalendarService creates a new calendar service
func NewCalendarService() *CalendarService {
	return &CalendarService{}
}

var activityTimePattern = regexp.MustCompile(`(?i)(\d{1,2}):?(\d{2})?\s*(am|pm)?`)

// BuildCalendar renders the itinerary as an ICS calendar string. Activity
// times are parsed leniently from their display text ("7:30 PM", "19:00");
// an unparseable time pins the event to the start of the date. Events default
// to one hour.
func (cs *CalendarService) BuildCalendar(itinerary models.DateItinerary) (string, error) {
	if len(itinerary.Activities) == 0 {
		return "", fmt.Errorf("itinerary has no activities to export")
	}

	baseDate := ""
	if itinerary.Inputs != nil {
		baseDate = itinerary.Inputs.Date
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)

	for i, activity := range itinerary.Activities {
		start := parseActivityTime(activity.Time, baseDate)
		end := start.Add(time.Hour)

		uid := itinerary.ID
		if uid == "" {
			uid = models.NewRecordID()
		}

		event := cal.AddEvent(fmt.Sprintf("%s-%d@date-night-planner", uid, i))
		event.SetCreatedTime(time.Now())
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(activity.Title)
		event.SetLocation(activity.Location)
		event.SetDescription(buildEventDescription(activity))
		if activity.BookingURL != "" {
			event.SetURL(activity.BookingURL)
		}
	}

	return cal.Serialize(), nil
}

// buildEventDescription composes the event body from the activity's advisory
// fields, mirroring what the itinerary view shows
func buildEventDescription(activity models.Activity) string {
	return fmt.Sprintf("%s\n\nConsiderations: %s\n\nWeather: %s\n\nTravel: %s\n\nCost: %s",
		activity.Description,
		activity.Considerations,
		activity.Weather,
		activity.Travel,
		activity.Cost,
	)
}

// parseActivityTime extracts a clock time from free-form display text and
// anchors it on the itinerary's date. Missing pieces fall back to the date at
// midnight, or today when the date itself is unparseable.
func parseActivityTime(timeStr, dateStr string) time.Time {
	base := parseBaseDate(dateStr)

	match := activityTimePattern.FindStringSubmatch(timeStr)
	if match == nil {
		return base
	}

	hours, _ := strconv.Atoi(match[1])
	minutes := 0
	if match[2] != "" {
		minutes, _ = strconv.Atoi(match[2])
	}

	period := strings.ToLower(match[3])
	if period == "pm" && hours < 12 {
		hours += 12
	}
	if period == "am" && hours == 12 {
		hours = 0
	}

	if hours > 23 || minutes > 59 {
		return base
	}

	return time.Date(base.Year(), base.Month(), base.Day(), hours, minutes, 0, 0, base.Location())
}

func parseBaseDate(dateStr string) time.Time {
	layouts := []string{"2006-01-02", "January 2, 2006", "01/02/2006"}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, dateStr); err == nil {
			return parsed
		}
	}

	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
}
