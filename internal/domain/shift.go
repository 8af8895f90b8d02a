package domain

import "fmt"

// Shift is a named time-of-day work period scoped to a date and center.
type Shift string

const (
	ShiftMorning   Shift = "morning"
	ShiftAfternoon Shift = "afternoon"
	ShiftEvening   Shift = "evening"
	ShiftNight     Shift = "night"
)

// ParseShift validates a shift name coming from the edge.
func ParseShift(s string) (Shift, error) {
	switch Shift(s) {
	case ShiftMorning, ShiftAfternoon, ShiftEvening, ShiftNight:
		return Shift(s), nil
	default:
		return "", fmt.Errorf("unknown shift %q", s)
	}
}

// Valid reports whether s is one of the known shift names.
func (s Shift) Valid() bool {
	_, err := ParseShift(string(s))
	return err == nil
}
