// Package storage defines the persistence contract consumed by the
// registry, scheduler and interchange codec. Implementations own the
// canonical Person and Meeting records; callers hand over transient
// extracted values and never mutate stored ones.
package storage

import (
	"context"
	"errors"
	"time"

	"meetcal/internal/models"
)

// ErrNotFound is returned when a lookup matches no record.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists is returned when an insert collides with a stored
// record of the same identity.
var ErrAlreadyExists = errors.New("record already exists")

// Store persists persons and meetings.
type Store interface {
	// ListPersonNames returns the display names of all stored persons.
	ListPersonNames(ctx context.Context) ([]string, error)
	// InsertPerson stores a new person record verbatim.
	InsertPerson(ctx context.Context, person models.Person) error
	// FindMeetingByInterval returns the meeting whose start and end
	// both match exactly, or ErrNotFound.
	FindMeetingByInterval(ctx context.Context, start, end time.Time) (models.Meeting, error)
	// InsertMeeting stores a new meeting record. Returns
	// ErrAlreadyExists when a meeting with the same exact interval is
	// already stored.
	InsertMeeting(ctx context.Context, meeting models.Meeting) error
	// ListMeetingsInRange returns meetings fully inside the range:
	// start >= rangeStart and end <= rangeEnd.
	ListMeetingsInRange(ctx context.Context, rangeStart, rangeEnd time.Time) ([]models.Meeting, error)
	// ListMeetings returns every stored meeting.
	ListMeetings(ctx context.Context) ([]models.Meeting, error)
	// Close releases the underlying handle.
	Close() error
}
