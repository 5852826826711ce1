// Package scheduler validates extracted meeting requests and commits
// them to the store.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"meetcal/internal/extract"
	"meetcal/internal/models"
	"meetcal/internal/storage"
)

// DateTimeLayout is the only timestamp format accepted anywhere in the
// system: minute precision, naive local time.
const DateTimeLayout = "2006-01-02 15:04"

var (
	// ErrInvalidInterval is returned when start is not strictly before end.
	ErrInvalidInterval = errors.New("start time must be before end time")
	// ErrDuplicateInterval is returned when a meeting with the same
	// exact start and end is already stored. Overlapping intervals that
	// are not identical are allowed on purpose.
	ErrDuplicateInterval = errors.New("meeting already exists with the same start and end time")
	// ErrDateFormat is returned when command text does not yield two
	// well-formed timestamps.
	ErrDateFormat = errors.New("invalid date format, use YYYY-MM-DD HH:MM")
)

// ValidDateTime reports whether text parses exactly as DateTimeLayout.
func ValidDateTime(text string) bool {
	_, err := time.Parse(DateTimeLayout, text)
	return err == nil
}

// ParseDateTime parses a timestamp in DateTimeLayout. The result is in
// UTC, which stands in for naive local time throughout.
func ParseDateTime(text string) (time.Time, error) {
	return time.Parse(DateTimeLayout, text)
}

// Scheduler commits meeting requests against the store.
type Scheduler struct {
	logger *slog.Logger
	store  storage.Store
}

// New creates a Scheduler backed by the given store.
func New(logger *slog.Logger, store storage.Store) *Scheduler {
	return &Scheduler{logger: logger, store: store}
}

// Schedule validates an interval and inserts the meeting if no meeting
// with the identical interval exists. The three outcomes are distinct:
// ErrInvalidInterval, ErrDuplicateInterval, or nil on insert. Nothing
// is written on either rejection.
func (s *Scheduler) Schedule(ctx context.Context, start, end time.Time, participants []string) error {
	if !start.Before(end) {
		s.logger.Info("Meeting rejected, start is not before end.", "start", start, "end", end)
		return ErrInvalidInterval
	}

	_, err := s.store.FindMeetingByInterval(ctx, start, end)
	switch {
	case err == nil:
		s.logger.Info("Meeting rejected, identical interval exists.", "start", start, "end", end)
		return ErrDuplicateInterval
	case !errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("look up meeting interval: %w", err)
	}

	meeting := models.Meeting{
		ID:           uuid.New().String(),
		Start:        start,
		End:          end,
		Participants: participants,
	}
	if err := s.store.InsertMeeting(ctx, meeting); err != nil {
		return fmt.Errorf("insert meeting: %w", err)
	}
	s.logger.Info("Meeting scheduled.", "start", start, "end", end, "participants", participants)
	return nil
}

// ScheduleFromText extracts a meeting request from free-form command
// text and schedules it. Extraction misses and malformed timestamps
// both surface as ErrDateFormat before Schedule is reached.
func (s *Scheduler) ScheduleFromText(ctx context.Context, command string) error {
	startText, endText, participants, ok := extract.ScheduleRequest(command)
	if !ok {
		return ErrDateFormat
	}
	if !ValidDateTime(startText) || !ValidDateTime(endText) {
		return ErrDateFormat
	}

	start, err := ParseDateTime(startText)
	if err != nil {
		return ErrDateFormat
	}
	end, err := ParseDateTime(endText)
	if err != nil {
		return ErrDateFormat
	}
	return s.Schedule(ctx, start, end, participants)
}

// MeetingsFromText extracts a time interval from command text and
// returns the meetings fully contained in it.
func (s *Scheduler) MeetingsFromText(ctx context.Context, command string) ([]models.Meeting, error) {
	startText, endText, ok := extract.DateTimeRange(command)
	if !ok {
		return nil, ErrDateFormat
	}
	if !ValidDateTime(startText) || !ValidDateTime(endText) {
		return nil, ErrDateFormat
	}

	start, _ := ParseDateTime(startText)
	end, _ := ParseDateTime(endText)
	meetings, err := s.store.ListMeetingsInRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("list meetings in range: %w", err)
	}
	return meetings, nil
}
