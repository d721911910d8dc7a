package model

import (
	"errors"
	"time"
)

var ErrUnknownFaith = errors.New("model: unknown faith")

// Faith selects one of the built-in daily prayer schedules.
type Faith string

const (
	FaithChristian Faith = "christian"
	FaithMuslim    Faith = "muslim"
	FaithHindu     Faith = "hindu"
)

// PrayerSlot is one entry of a fixed daily prayer schedule.
type PrayerSlot struct {
	Title  string
	Hour   int
	Minute int
}

var christianPrayers = []PrayerSlot{
	{Title: "Morning Devotion", Hour: 6, Minute: 0},
	{Title: "Midday Prayer", Hour: 12, Minute: 0},
	{Title: "Evening Devotion", Hour: 18, Minute: 0},
}

var muslimPrayers = []PrayerSlot{
	{Title: "Fajr", Hour: 5, Minute: 0},
	{Title: "Dhuhr", Hour: 12, Minute: 30},
	{Title: "Asr", Hour: 15, Minute: 45},
	{Title: "Maghrib", Hour: 18, Minute: 15},
	{Title: "Isha", Hour: 19, Minute: 45},
}

var hinduPrayers = []PrayerSlot{
	{Title: "Sunrise", Hour: 6, Minute: 0},
	{Title: "Sunset", Hour: 18, Minute: 0},
}

// PrayerSchedule returns the slots for a faith.
func PrayerSchedule(f Faith) ([]PrayerSlot, error) {
	switch f {
	case FaithChristian:
		return christianPrayers, nil
	case FaithMuslim:
		return muslimPrayers, nil
	case FaithHindu:
		return hinduPrayers, nil
	default:
		return nil, ErrUnknownFaith
	}
}

// At anchors the slot's time-of-day on the given day.
func (p PrayerSlot) At(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, p.Hour, p.Minute, 0, 0, day.Location())
}
