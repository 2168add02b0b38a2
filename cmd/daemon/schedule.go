package main

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/scmhub/calendar"
)

// Schedule decides when the daily scan fires: once per NYSE trading day at
// a fixed wall-clock time, deduplicated through a state file so restarts
// within the same day never rerun.
type Schedule struct {
	hour      int
	minute    int
	location  *time.Location
	nyse      *calendar.Calendar
	stateFile string
}

func NewSchedule(hour, minute int, timezone, stateFile string) *Schedule {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}
	return &Schedule{
		hour:      hour,
		minute:    minute,
		location:  loc,
		nyse:      calendar.XNYS(),
		stateFile: stateFile,
	}
}

// Due reports whether a scan should fire at now: a trading day, the
// scheduled minute, and not already scanned that day. The returned date is
// now's calendar date in the schedule's timezone.
func (s *Schedule) Due(now time.Time) (string, bool) {
	local := now.In(s.location)
	date := local.Format("2006-01-02")

	if s.doneOn(date) {
		return date, false
	}
	if !s.isTradingDay(date) {
		return date, false
	}
	if local.Hour() != s.hour || local.Minute() != s.minute {
		return date, false
	}
	return date, true
}

// MarkDone records the date so Due stays false for the rest of that day.
func (s *Schedule) MarkDone(date string) error {
	dir := filepath.Dir(s.stateFile)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}
	return os.WriteFile(s.stateFile, []byte(date+"\n"), 0600)
}

// Location returns the schedule's timezone location.
func (s *Schedule) Location() *time.Location {
	return s.location
}

func (s *Schedule) doneOn(date string) bool {
	data, err := os.ReadFile(s.stateFile)
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(data)) == date
}

// isTradingDay checks the date against the NYSE calendar (weekends and
// exchange holidays excluded). Parsed as noon to sidestep DST boundaries.
func (s *Schedule) isTradingDay(date string) bool {
	t, err := time.ParseInLocation("2006-01-02 15:04:05", date+" 12:00:00", s.location)
	if err != nil {
		return false
	}
	return s.nyse.IsBusinessDay(t)
}
