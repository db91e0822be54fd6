package model

import (
	"regexp"
	"slices"
	"strings"
	"unicode"

	"github.com/samber/lo"
)

// SessionKind is the room requirement derived from a course's free-text type
type SessionKind int

const (
	// Unclassified types never cause a room mismatch
	Unclassified SessionKind = iota
	LectureKind
	LabKind
)

func (kind SessionKind) String() string {
	switch kind {
	case LectureKind:
		return "lecture"
	case LabKind:
		return "lab"
	default:
		return "unclassified"
	}
}

// ClassifySessionKind matches the "lab" and "lecture" prefixes of courseType, ignoring case
func ClassifySessionKind(courseType string) SessionKind {
	normalized := strings.ToLower(strings.TrimSpace(courseType))
	if strings.HasPrefix(normalized, "lab") {
		return LabKind
	} else if strings.HasPrefix(normalized, "lecture") {
		return LectureKind
	}
	return Unclassified
}

// IsLabRoom reports whether roomType starts with "lab", ignoring case
func IsLabRoom(roomType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(roomType)), "lab")
}

// hasLabComponent decides whether a course splits into a lecture and a lab session. Matching is case-sensitive.
func hasLabComponent(courseType string) bool {
	return strings.Contains(courseType, "Lab")
}

// parseQualifiedCourses accepts a comma separated string or a list of course ids
func parseQualifiedCourses(value any) []string {
	var courses []string
	switch typed := value.(type) {
	case string:
		courses = strings.Split(typed, ",")
	case []string:
		courses = typed
	case []any:
		courses = lo.FilterMap(typed, func(item any, _ int) (string, bool) {
			course, ok := item.(string)
			return course, ok
		})
	default:
		return nil
	}

	courses = lo.Compact(lo.Map(courses, func(course string, _ int) string { return strings.TrimSpace(course) }))
	if len(courses) == 0 {
		return nil
	}
	return lo.Uniq(courses)
}

var notOnExpression = regexp.MustCompile(`(?i)\bnot\s+on\b`)

var weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// parseUnavailableDays extracts the days listed after "Not on" (e.g. "Not on Monday, Friday") up to the next ';', '.' or line break.
// Tokens are returned as written so that they compare against the timeslot's Day value.
func parseUnavailableDays(preferredSlots string) []string {
	var days []string
	for _, location := range notOnExpression.FindAllStringIndex(preferredSlots, -1) {
		segment := preferredSlots[location[1]:]
		if end := strings.IndexAny(segment, ";.\n"); end >= 0 {
			segment = segment[:end]
		}

		tokens := strings.FieldsFunc(segment, func(r rune) bool { return !unicode.IsLetter(r) })
		for _, token := range tokens {
			if strings.EqualFold(token, "and") || strings.EqualFold(token, "or") {
				continue
			}
			days = append(days, token)
		}
	}
	if len(days) == 0 {
		return nil
	}
	return lo.Uniq(days)
}

// unavailableOn compares days ignoring case and accepts three letter abbreviations of weekday names
func unavailableOn(unavailableDays []string, day string) bool {
	day = strings.TrimSpace(day)
	return slices.ContainsFunc(unavailableDays, func(unavailable string) bool {
		return strings.EqualFold(unavailable, day) || strings.EqualFold(expandWeekday(unavailable), expandWeekday(day))
	})
}

func expandWeekday(day string) string {
	if len(day) != 3 {
		return day
	}
	if weekday, ok := lo.Find(weekdays, func(weekday string) bool { return strings.EqualFold(weekday[:3], day) }); ok {
		return weekday
	}
	return day
}
