package calendar

import "time"

// Time units of the traditional reckoning. A day starts at 6 pm of the
// preceding civil evening and is divided into 24 hours of 1080 parts.
const (
	PartsPerHour = 1080
	PartsPerDay  = 24 * PartsPerHour

	// lunation is the mean synodic month: 29 days, 12 hours, 793 parts.
	lunation = 29*PartsPerDay + 12*PartsPerHour + 793

	// moladEpoch is the molad of Tishri AM 1 (BaHaRaD): day 1 (a Monday),
	// 5 hours and 204 parts, counted from the start of elapsed day 0.
	moladEpoch = 1*PartsPerDay + 5*PartsPerHour + 204
)

// Molad is the instant of a mean new moon, counted in parts from the
// start of elapsed day 0 of the Hebrew calendar.
type Molad struct {
	parts int64
}

// MoladOfTishri returns the molad that precedes Tishri 1 of the year.
func MoladOfTishri(year int) Molad {
	return Molad{parts: moladEpoch + monthsElapsed(year)*lunation}
}

// Parts returns the raw part count since the epoch.
func (m Molad) Parts() int64 {
	return m.parts
}

// Day returns the elapsed day number the molad falls on. Elapsed day 1 is
// Tishri 1 AM 1 and day numbers modulo 7 give the weekday (0 = Sunday).
func (m Molad) Day() int {
	return int(m.parts / PartsPerDay)
}

// PartsOfDay returns the parts elapsed since 6 pm on the evening that
// starts the molad's day, in [0, PartsPerDay).
func (m Molad) PartsOfDay() int {
	return int(m.parts % PartsPerDay)
}

// Weekday returns the day of the week the molad falls on.
func (m Molad) Weekday() time.Weekday {
	return time.Weekday(mod(m.Day(), 7))
}

// Hours returns the whole hours since 6 pm.
func (m Molad) Hours() int {
	return m.PartsOfDay() / PartsPerHour
}

// Minutes returns the whole minutes past the hour (18 parts per minute).
func (m Molad) Minutes() int {
	return (m.PartsOfDay() % PartsPerHour) / 18
}

// Chalakim returns the parts remaining after whole minutes, in [0, 18).
func (m Molad) Chalakim() int {
	return (m.PartsOfDay() % PartsPerHour) % 18
}
