package models

import "time"

// Person is a registered person record.
// The name is stored verbatim as entered; normalization is only a
// comparison key and never rewrites the stored value.
type Person struct {
	ID   string // Unique identifier (uuid)
	Name string // Display name, at least two tokens, letters/spaces/hyphens
}

// Meeting is a scheduled meeting record.
// Timestamps are naive minute-precision values carried in UTC; no
// timezone handling is applied anywhere in the system.
type Meeting struct {
	ID           string    // Unique identifier (uuid), doubles as the iCalendar UID
	Start        time.Time // Start of the meeting, strictly before End
	End          time.Time // End of the meeting
	Participants []string  // Display names; not required to reference Person records
}
