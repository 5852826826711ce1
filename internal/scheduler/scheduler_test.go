package scheduler

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetcal/internal/storage/sqlite"
)

func newTestScheduler(t *testing.T) (*Scheduler, *sqlite.Store) {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "meetcal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(logger, store), store
}

func TestValidDateTime(t *testing.T) {
	assert.True(t, ValidDateTime("2020-11-20 14:00"))
	assert.False(t, ValidDateTime("2020-11-20"))
	assert.False(t, ValidDateTime("2020-13-20 14:00"))
	assert.False(t, ValidDateTime("20-11-2020 14:00"))
	assert.False(t, ValidDateTime(""))
}

func TestScheduleInsertRoundTrip(t *testing.T) {
	sched, store := newTestScheduler(t)
	ctx := context.Background()
	start := time.Date(2020, time.November, 20, 14, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)

	require.NoError(t, sched.Schedule(ctx, start, end, []string{"Ion Popescu", "Ana Maria"}))

	got, err := store.FindMeetingByInterval(ctx, start, end)
	require.NoError(t, err)
	assert.True(t, got.Start.Equal(start))
	assert.True(t, got.End.Equal(end))
	assert.Equal(t, []string{"Ion Popescu", "Ana Maria"}, got.Participants)
}

func TestScheduleRejectsDuplicateInterval(t *testing.T) {
	sched, store := newTestScheduler(t)
	ctx := context.Background()
	start := time.Date(2020, time.November, 20, 14, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)

	require.NoError(t, sched.Schedule(ctx, start, end, []string{"Ion Popescu"}))
	// Different participants do not matter, the interval is the identity.
	assert.ErrorIs(t, sched.Schedule(ctx, start, end, []string{"Ana Maria"}), ErrDuplicateInterval)

	meetings, err := store.ListMeetings(ctx)
	require.NoError(t, err)
	require.Len(t, meetings, 1)
	assert.Equal(t, []string{"Ion Popescu"}, meetings[0].Participants)
}

func TestScheduleAllowsOverlappingIntervals(t *testing.T) {
	sched, store := newTestScheduler(t)
	ctx := context.Background()
	start := time.Date(2020, time.November, 20, 14, 0, 0, 0, time.UTC)

	require.NoError(t, sched.Schedule(ctx, start, start.Add(time.Hour), []string{"Ion Popescu"}))
	require.NoError(t, sched.Schedule(ctx, start.Add(30*time.Minute), start.Add(90*time.Minute), []string{"Ana Maria"}))

	meetings, err := store.ListMeetings(ctx)
	require.NoError(t, err)
	assert.Len(t, meetings, 2)
}

func TestScheduleRejectsBadInterval(t *testing.T) {
	sched, store := newTestScheduler(t)
	ctx := context.Background()
	start := time.Date(2020, time.November, 20, 14, 0, 0, 0, time.UTC)

	assert.ErrorIs(t, sched.Schedule(ctx, start, start, []string{"Ion Popescu"}), ErrInvalidInterval)
	assert.ErrorIs(t, sched.Schedule(ctx, start.Add(time.Hour), start, []string{"Ion Popescu"}), ErrInvalidInterval)

	meetings, err := store.ListMeetings(ctx)
	require.NoError(t, err)
	assert.Empty(t, meetings, "rejections must not write to the store")
}

func TestScheduleFromText(t *testing.T) {
	sched, store := newTestScheduler(t)
	ctx := context.Background()

	command := "add meeting from 2020-11-20 14:00 to 2020-11-20 14:30 with Ion Popescu, Ana Maria"
	require.NoError(t, sched.ScheduleFromText(ctx, command))

	start, _ := ParseDateTime("2020-11-20 14:00")
	end, _ := ParseDateTime("2020-11-20 14:30")
	got, err := store.FindMeetingByInterval(ctx, start, end)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ion Popescu", "Ana Maria"}, got.Participants)
}

func TestScheduleFromTextRejectsMissingTimestamps(t *testing.T) {
	sched, _ := newTestScheduler(t)
	err := sched.ScheduleFromText(context.Background(), "add meeting with Ion Popescu, Ana Maria")
	assert.ErrorIs(t, err, ErrDateFormat)
}

func TestMeetingsFromText(t *testing.T) {
	sched, _ := newTestScheduler(t)
	ctx := context.Background()

	require.NoError(t, sched.ScheduleFromText(ctx, "add meeting 2020-11-20 14:00 to 2020-11-20 14:30 with Ion Popescu, Ana Maria"))

	meetings, err := sched.MeetingsFromText(ctx, "list meetings between 2020-11-20 08:00 and 2020-11-20 23:59")
	require.NoError(t, err)
	require.Len(t, meetings, 1)

	meetings, err = sched.MeetingsFromText(ctx, "list meetings between 2020-11-21 08:00 and 2020-11-21 23:59")
	require.NoError(t, err)
	assert.Empty(t, meetings)

	_, err = sched.MeetingsFromText(ctx, "list meetings tomorrow")
	assert.ErrorIs(t, err, ErrDateFormat)
}
