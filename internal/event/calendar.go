package event

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ===========================
// 📅 Calendar Export Helpers

// startEnd resolves the UTC start and end timestamps for an event.
// All-day events default to midnight; end matches start (point-in-time event).
func startEnd(e *Event) (time.Time, time.Time) {
	start := time.Date(e.EventDate.Year(), e.EventDate.Month(), e.EventDate.Day(), 0, 0, 0, 0, time.UTC)
	if e.EventTime != nil {
		start = time.Date(e.EventDate.Year(), e.EventDate.Month(), e.EventDate.Day(),
			e.EventTime.Hour(), e.EventTime.Minute(), 0, 0, time.UTC)
	}
	return start, start
}

func calFormat(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

func icsEscape(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	return s
}

// GoogleCalendarURL builds a prefilled Google Calendar template link for the event
func GoogleCalendarURL(e *Event) string {
	start, end := startEnd(e)

	params := url.Values{}
	params.Set("action", "TEMPLATE")
	params.Set("text", e.Title)
	params.Set("dates", calFormat(start)+"/"+calFormat(end))
	params.Set("details", e.Description)
	params.Set("location", e.Location)

	return "https://calendar.google.com/calendar/render?" + params.Encode()
}

// BuildICS renders the event as an iCalendar document
func BuildICS(e *Event) string {
	start, end := startEnd(e)

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Event Planner//EN",
		"BEGIN:VEVENT",
		fmt.Sprintf("UID:%d@event-planner", e.ID),
		"DTSTAMP:" + calFormat(start),
		"DTSTART:" + calFormat(start),
		"DTEND:" + calFormat(end),
		"SUMMARY:" + icsEscape(e.Title),
		"DESCRIPTION:" + icsEscape(e.Description),
		"LOCATION:" + icsEscape(e.Location),
		"END:VEVENT",
		"END:VCALENDAR",
	}

	return strings.Join(lines, "\r\n")
}

// ICSFilename builds a safe download filename from the event title
func ICSFilename(e *Event) string {
	title := strings.TrimSpace(e.Title)
	if title == "" {
		title = "event"
	}
	return strings.Join(strings.Fields(title), "_") + ".ics"
}
