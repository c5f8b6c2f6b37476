package event

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func calendarFixture() *Event {
	evTime := time.Date(0, 1, 1, 19, 30, 0, 0, time.UTC)
	return &Event{
		ID:          42,
		Title:       "Birthday Dinner",
		Description: "Cake, then karaoke",
		EventDate:   time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC),
		EventTime:   &evTime,
		Location:    "42 Elm St, Springfield",
	}
}

func TestBuildICS(t *testing.T) {
	ics := BuildICS(calendarFixture())

	lines := strings.Split(ics, "\r\n")
	assert.Equal(t, "BEGIN:VCALENDAR", lines[0])
	assert.Equal(t, "END:VCALENDAR", lines[len(lines)-1])
	assert.Contains(t, lines, "PRODID:-//Event Planner//EN")
	assert.Contains(t, lines, "UID:42@event-planner")
	assert.Contains(t, lines, "DTSTART:20261003T193000Z")
	assert.Contains(t, lines, "DTEND:20261003T193000Z")

	// Commas in free text are escaped per RFC 5545
	assert.Contains(t, ics, "SUMMARY:Birthday Dinner")
	assert.Contains(t, ics, "DESCRIPTION:Cake\\, then karaoke")
	assert.Contains(t, ics, "LOCATION:42 Elm St\\, Springfield")
}

func TestBuildICSAllDayDefaultsToMidnight(t *testing.T) {
	ev := calendarFixture()
	ev.EventTime = nil

	ics := BuildICS(ev)
	assert.Contains(t, ics, "DTSTART:20261003T000000Z")
}

func TestGoogleCalendarURL(t *testing.T) {
	u := GoogleCalendarURL(calendarFixture())

	require.True(t, strings.HasPrefix(u, "https://calendar.google.com/calendar/render?"))
	assert.Contains(t, u, "action=TEMPLATE")
	assert.Contains(t, u, "dates=20261003T193000Z%2F20261003T193000Z")
	assert.Contains(t, u, "text=Birthday+Dinner")
}

func TestICSFilename(t *testing.T) {
	assert.Equal(t, "Birthday_Dinner.ics", ICSFilename(calendarFixture()))
	assert.Equal(t, "event.ics", ICSFilename(&Event{Title: "   "}))
}
