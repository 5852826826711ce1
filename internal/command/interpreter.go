// Package command maps keyword-prefixed input lines to scheduler,
// registry and interchange operations. User mistakes are printed, never
// returned; the interpreter keeps the session alive no matter what a
// line contains.
package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"

	"meetcal/internal/extract"
	"meetcal/internal/ics"
	"meetcal/internal/models"
	"meetcal/internal/registry"
	"meetcal/internal/scheduler"
)

// Interpreter routes one line of input to the matching operation.
type Interpreter struct {
	logger     *slog.Logger
	registry   *registry.Registry
	scheduler  *scheduler.Scheduler
	codec      *ics.Codec
	exportPath string
	out        io.Writer
}

// New creates an Interpreter writing user-facing output to out.
// Exports always go to exportPath.
func New(logger *slog.Logger, reg *registry.Registry, sched *scheduler.Scheduler, codec *ics.Codec, exportPath string, out io.Writer) *Interpreter {
	return &Interpreter{
		logger:     logger,
		registry:   reg,
		scheduler:  sched,
		codec:      codec,
		exportPath: exportPath,
		out:        out,
	}
}

// Process dispatches a single command line by keyword prefix,
// case-insensitively. Every outcome, including errors, is reported as
// a message on the output writer.
func (i *Interpreter) Process(ctx context.Context, line string) {
	lowered := strings.ToLower(line)
	switch {
	case strings.HasPrefix(lowered, "add person"):
		i.addPerson(ctx, line)
	case strings.HasPrefix(lowered, "add meeting"):
		i.addMeeting(ctx, line)
	case strings.HasPrefix(lowered, "list meetings"):
		i.listMeetings(ctx, line)
	case strings.HasPrefix(lowered, "export meetings"):
		i.exportMeetings(ctx)
	case strings.HasPrefix(lowered, "import meetings"):
		i.importMeetings(ctx, line)
	default:
		i.failure("Invalid command")
	}
}

func (i *Interpreter) addPerson(ctx context.Context, line string) {
	name, ok := extract.PersonName(line)
	if !ok {
		i.failure("Invalid name")
		return
	}

	err := i.registry.AddPerson(ctx, name)
	var dup *registry.DuplicateError
	switch {
	case errors.As(err, &dup):
		i.failure("%s is equivalent to an existing name: %s. Not added", dup.Name, dup.Existing)
	case errors.Is(err, registry.ErrInvalidName):
		i.failure("Invalid name")
	case err != nil:
		i.reportError("add person", err)
	default:
		i.success("Added %s", name)
	}
}

func (i *Interpreter) addMeeting(ctx context.Context, line string) {
	err := i.scheduler.ScheduleFromText(ctx, line)
	switch {
	case errors.Is(err, scheduler.ErrDateFormat):
		i.failure("The date format entered is invalid. Please use the format YYYY-MM-DD HH:MM")
	case errors.Is(err, scheduler.ErrInvalidInterval):
		i.failure("Start time should be before end time")
	case errors.Is(err, scheduler.ErrDuplicateInterval):
		i.failure("Meeting already exists with the same start and end time")
	case err != nil:
		i.reportError("add meeting", err)
	default:
		i.success("Meeting scheduled successfully")
	}
}

func (i *Interpreter) listMeetings(ctx context.Context, line string) {
	meetings, err := i.scheduler.MeetingsFromText(ctx, line)
	switch {
	case errors.Is(err, scheduler.ErrDateFormat):
		i.failure("The date format entered is invalid. Please use the format YYYY-MM-DD HH:MM")
		return
	case err != nil:
		i.reportError("list meetings", err)
		return
	}
	if len(meetings) == 0 {
		i.failure("No meetings found in the specified interval")
		return
	}

	table := tablewriter.NewWriter(i.out)
	table.SetHeader([]string{"Start", "End", "Participants"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.AppendBulk(lo.Map(meetings, func(meeting models.Meeting, _ int) []string {
		return []string{
			meeting.Start.Format(scheduler.DateTimeLayout),
			meeting.End.Format(scheduler.DateTimeLayout),
			strings.Join(meeting.Participants, ", "),
		}
	}))
	table.Render()
}

func (i *Interpreter) exportMeetings(ctx context.Context) {
	count, err := i.codec.ExportFile(ctx, i.exportPath)
	if err != nil {
		i.reportError("export meetings", err)
		return
	}
	i.success("Exported %d meetings to %s", count, i.exportPath)
}

func (i *Interpreter) importMeetings(ctx context.Context, line string) {
	idx := strings.Index(strings.ToLower(line), " from ")
	if idx == -1 {
		i.failure("Usage: import meetings from <file.ics>")
		return
	}
	path := strings.TrimSpace(line[idx+len(" from "):])
	if path == "" {
		i.failure("Usage: import meetings from <file.ics>")
		return
	}

	result, err := i.codec.Import(ctx, path)
	switch {
	case errors.Is(err, ics.ErrBadExtension):
		i.failure("Invalid file format. Please provide a file with the %s extension", ics.Extension)
	case err != nil:
		i.reportError("import meetings", err)
	default:
		i.success("Imported %d meetings from %s (%d already present)", result.Imported, path, result.Skipped)
	}
}

func (i *Interpreter) success(format string, args ...any) {
	fmt.Fprintln(i.out, color.Success.Sprintf(format, args...))
}

func (i *Interpreter) failure(format string, args ...any) {
	fmt.Fprintln(i.out, color.Warn.Sprintf(format, args...))
}

func (i *Interpreter) reportError(operation string, err error) {
	i.logger.Error("Command failed", "operation", operation, "error", err)
	fmt.Fprintln(i.out, color.Danger.Sprintf("An error occurred: %v", err))
}
