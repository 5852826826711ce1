package command

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetcal/internal/ics"
	"meetcal/internal/registry"
	"meetcal/internal/scheduler"
	"meetcal/internal/storage/sqlite"
)

type testSession struct {
	interp *Interpreter
	out    *bytes.Buffer
}

func newTestSession(t *testing.T) *testSession {
	t.Helper()
	dir := t.TempDir()
	store, err := sqlite.Open(filepath.Join(dir, "meetcal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	out := &bytes.Buffer{}
	interp := New(
		logger,
		registry.New(logger, store),
		scheduler.New(logger, store),
		ics.New(logger, store),
		filepath.Join(dir, "meetings.ics"),
		out,
	)
	return &testSession{interp: interp, out: out}
}

func (s *testSession) run(t *testing.T, line string) string {
	t.Helper()
	s.out.Reset()
	s.interp.Process(context.Background(), line)
	return s.out.String()
}

func TestProcessAddPerson(t *testing.T) {
	s := newTestSession(t)

	assert.Contains(t, s.run(t, "add person Ana Maria"), "Added Ana Maria")
	assert.Contains(t, s.run(t, "add person maria ana"), "equivalent to an existing name")
	assert.Contains(t, s.run(t, "add person O"), "Invalid name")
}

func TestProcessAddMeeting(t *testing.T) {
	s := newTestSession(t)

	line := "add meeting from 2020-11-20 14:00 to 2020-11-20 14:30 with Ion Popescu, Ana Maria"
	assert.Contains(t, s.run(t, line), "Meeting scheduled successfully")
	assert.Contains(t, s.run(t, line), "Meeting already exists")
	assert.Contains(t, s.run(t, "add meeting with Ion Popescu, Ana Maria"), "date format entered is invalid")
	assert.Contains(t,
		s.run(t, "add meeting from 2020-11-20 15:00 to 2020-11-20 14:00 with Ion Popescu, Ana Maria"),
		"Start time should be before end time")
}

func TestProcessListMeetings(t *testing.T) {
	s := newTestSession(t)

	s.run(t, "add meeting from 2020-11-20 14:00 to 2020-11-20 14:30 with Ion Popescu, Ana Maria")

	listed := s.run(t, "list meetings in interval 2020-11-20 08:00 to 2020-11-20 23:59")
	assert.Contains(t, listed, "2020-11-20 14:00")
	assert.Contains(t, listed, "Ion Popescu, Ana Maria")

	assert.Contains(t,
		s.run(t, "list meetings in interval 2020-11-21 08:00 to 2020-11-21 23:59"),
		"No meetings found in the specified interval")
	assert.Contains(t, s.run(t, "list meetings today"), "date format entered is invalid")
}

func TestProcessExportImport(t *testing.T) {
	s := newTestSession(t)

	s.run(t, "add meeting from 2020-11-20 14:00 to 2020-11-20 14:30 with Ion Popescu, Ana Maria")
	exported := s.run(t, "export meetings")
	assert.Contains(t, exported, "Exported 1 meetings")

	// Importing the exported file into the same store adds nothing.
	imported := s.run(t, "import meetings from "+s.interp.exportPath)
	assert.Contains(t, imported, "Imported 0 meetings")
	assert.Contains(t, imported, "1 already present")
}

func TestProcessImportErrors(t *testing.T) {
	s := newTestSession(t)

	assert.Contains(t, s.run(t, "import meetings from meetings.txt"), "Invalid file format")
	assert.Contains(t, s.run(t, "import meetings"), "Usage: import meetings from")
	assert.Contains(t, s.run(t, "import meetings from missing.ics"), "An error occurred")
}

func TestProcessInvalidCommand(t *testing.T) {
	s := newTestSession(t)
	assert.Contains(t, s.run(t, "do something else"), "Invalid command")
}
