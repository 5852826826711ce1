// Package extract pulls structured scheduling data out of free-form
// command text. It is pattern matching, not language understanding: a
// date-time is any YYYY-MM-DD HH:MM substring and a participant is any
// short run of capitalized words. The participant recognizer is a
// heuristic with known false positives on other capitalized words
// (sentence starts, place names); callers depend on that exact
// behavior, so do not tighten it.
package extract

import (
	"regexp"
	"strings"

	"meetcal/internal/names"
)

var (
	dateTimePattern    = regexp.MustCompile(`\d{4}-\d{2}-\d{2} \d{2}:\d{2}`)
	participantPattern = regexp.MustCompile(`\b(?:[A-Z][a-z]* ){1,3}[A-Z][a-z]*\b`)
)

// DateTimeRange returns the first two date-time substrings found in
// text, in order of appearance, as (start, end). ok is false when
// fewer than two are present. The values are raw text; the caller
// validates format and ordering.
func DateTimeRange(text string) (start, end string, ok bool) {
	matches := dateTimePattern.FindAllString(text, -1)
	if len(matches) < 2 {
		return "", "", false
	}
	return matches[0], matches[1], true
}

// Participants scans a text segment for candidate full names (runs of
// capitalized words) and joins them with ", ".
func Participants(segment string) string {
	return strings.Join(participantPattern.FindAllString(segment, -1), ", ")
}

// PersonName reads a name out of a two-keyword command line: the line
// is split on single spaces and everything from the third token onward
// is the name. ok is false when the name fails validation.
func PersonName(command string) (string, bool) {
	parts := strings.Split(command, " ")
	if len(parts) < 3 {
		return "", false
	}
	name := strings.Join(parts[2:], " ")
	if !names.IsValid(name) {
		return "", false
	}
	return name, true
}

// ScheduleRequest extracts a full (start, end, participants) triple
// from command text. Participants are searched only in the segment
// between the first occurrence of the end timestamp text and its next
// occurrence, if any. When that segment yields a single candidate (no
// comma in the joined string), the whole command is re-read as a
// two-keyword single-name command instead. Any failure returns zero
// values with ok false, never a partial result.
func ScheduleRequest(text string) (start, end string, participants []string, ok bool) {
	start, end, ok = DateTimeRange(text)
	if !ok {
		return "", "", nil, false
	}

	segment := strings.TrimSpace(strings.Split(text, end)[1])
	joined := Participants(segment)

	if strings.Contains(joined, ",") {
		return start, end, strings.Split(joined, ", "), true
	}
	if name, valid := PersonName(text); valid {
		return start, end, []string{name}, true
	}
	return "", "", nil, false
}
