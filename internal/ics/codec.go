// Package ics exchanges stored meetings with iCalendar files.
package ics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"meetcal/internal/models"
	"meetcal/internal/storage"
)

// Extension is the canonical interchange file extension.
const Extension = ".ics"

// summaryLabel is the fixed SUMMARY written on every exported event.
const summaryLabel = "Meeting"

// ErrBadExtension is returned for import paths that do not end in .ics.
var ErrBadExtension = errors.New("invalid file format, expected a .ics file")

// ImportResult counts the outcomes of one import run.
type ImportResult struct {
	Imported int // events inserted as new meetings
	Skipped  int // events whose exact interval was already stored
}

// Codec serializes the meeting store to iCalendar and back.
type Codec struct {
	logger *slog.Logger
	store  storage.Store
}

// New creates a Codec backed by the given store.
func New(logger *slog.Logger, store storage.Store) *Codec {
	return &Codec{logger: logger, store: store}
}

// Export writes every stored meeting as one VEVENT into a single
// iCalendar document on w and returns the number of events written.
// The DESCRIPTION field carries the participants in the same
// ", "-joined form the store uses, so import reproduces the list
// exactly.
func (c *Codec) Export(ctx context.Context, w io.Writer) (int, error) {
	meetings, err := c.store.ListMeetings(ctx)
	if err != nil {
		return 0, fmt.Errorf("list meetings: %w", err)
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//meetcal//EN")
	for _, meeting := range meetings {
		cal.Children = append(cal.Children, toVEvent(meeting))
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return 0, fmt.Errorf("encode calendar: %w", err)
	}
	c.logger.Info("Exported meetings.", "count", len(meetings))
	return len(meetings), nil
}

// ExportFile writes the calendar document to path as a single file.
func (c *Codec) ExportFile(ctx context.Context, path string) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create export file: %w", err)
	}
	count, err := c.Export(ctx, f)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		return count, fmt.Errorf("close export file: %w", closeErr)
	}
	return count, err
}

// Import reads an iCalendar file and inserts each event as a meeting,
// applying the same exact-interval duplicate check as the scheduler:
// an event whose start and end match a stored meeting is skipped,
// never merged or overwritten. The path must end in .ics; that and an
// unreadable file are user errors, not fatal ones.
func (c *Codec) Import(ctx context.Context, path string) (ImportResult, error) {
	if !strings.HasSuffix(path, Extension) {
		return ImportResult{}, ErrBadExtension
	}

	f, err := os.Open(path)
	if err != nil {
		return ImportResult{}, fmt.Errorf("open interchange file: %w", err)
	}
	defer f.Close()

	cal, err := ical.NewDecoder(f).Decode()
	if err != nil {
		return ImportResult{}, fmt.Errorf("decode calendar: %w", err)
	}

	var result ImportResult
	for _, event := range cal.Events() {
		start, err := event.DateTimeStart(time.UTC)
		if err != nil {
			return result, fmt.Errorf("read event start: %w", err)
		}
		end, err := event.DateTimeEnd(time.UTC)
		if err != nil {
			return result, fmt.Errorf("read event end: %w", err)
		}
		description, err := event.Props.Text(ical.PropDescription)
		if err != nil {
			return result, fmt.Errorf("read event description: %w", err)
		}

		_, err = c.store.FindMeetingByInterval(ctx, start, end)
		switch {
		case err == nil:
			c.logger.Info("Meeting already exists, skipping import.", "start", start, "end", end)
			result.Skipped++
			continue
		case !errors.Is(err, storage.ErrNotFound):
			return result, fmt.Errorf("look up meeting interval: %w", err)
		}

		meeting := models.Meeting{
			ID:           uuid.New().String(),
			Start:        start,
			End:          end,
			Participants: splitParticipants(description),
		}
		if err := c.store.InsertMeeting(ctx, meeting); err != nil {
			return result, fmt.Errorf("insert imported meeting: %w", err)
		}
		c.logger.Info("Imported meeting.", "start", start, "end", end)
		result.Imported++
	}
	return result, nil
}

// toVEvent converts a meeting record to a VEVENT component.
func toVEvent(meeting models.Meeting) *ical.Component {
	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, meeting.ID)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	ve.Props.SetText(ical.PropSummary, summaryLabel)
	ve.Props.SetDateTime(ical.PropDateTimeStart, meeting.Start.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeEnd, meeting.End.UTC())
	ve.Props.SetText(ical.PropDescription, strings.Join(meeting.Participants, ", "))
	return ve
}

func splitParticipants(description string) []string {
	if description == "" {
		return nil
	}
	return strings.Split(description, ", ")
}
