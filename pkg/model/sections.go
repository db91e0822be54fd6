package model

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/samber/lo"
)

var sectionSeparators = []string{"-", "_", ":"}

var leadingAlphanumeric = regexp.MustCompile(`^([A-Za-z0-9]+)`)

// normalizeSections turns section rows into sections bound to a course. When there are fewer sections than courses,
// one section per course is synthesized instead. When rows carry no CourseID the course is inferred from the layout.
func normalizeSections(courses []Course, rows []sectionRow, hasCourseColumn bool) ([]Section, error) {
	if len(rows) < len(courses) {
		return synthesizeSections(courses), nil
	}

	sections := make([]Section, 0, len(rows))
	for _, row := range rows {
		required, err := parseRequiredSessions(row.SectionID, row.RequiredLectures)
		if err != nil {
			return nil, err
		}
		sections = append(sections, Section{
			Id:               row.SectionID,
			CourseId:         row.CourseID,
			RequiredSessions: required,
		})
	}

	if !hasCourseColumn {
		inferred, err := inferSectionCourses(courses, sections)
		if err != nil {
			return nil, err
		}
		for i := range sections {
			sections[i].CourseId = inferred[i]
		}
	}

	return sections, nil
}

// synthesizeSections derives "<level>/<slot>" ids: level is the hundreds digit of a course code ending in three digits
// (CSC221 yields 2), slot cycles through 1..10
func synthesizeSections(courses []Course) []Section {
	return lo.Map(courses, func(course Course, i int) Section {
		level := 1
		if len(course.Id) >= 4 && isDigits(course.Id[len(course.Id)-3:]) {
			level = int(course.Id[len(course.Id)-3] - '0')
		}

		required := uint64(1)
		if hasLabComponent(course.Type) {
			required = 2
		}

		return Section{
			Id:               fmt.Sprintf("%d/%d", level, i%10+1),
			CourseId:         course.Id,
			RequiredSessions: required,
		}
	})
}

// inferSectionCourses tries, in order: equal contiguous chunks per course, the section id's leading token, round-robin
func inferSectionCourses(courses []Course, sections []Section) ([]string, error) {
	courseIds := lo.Map(courses, func(course Course, _ int) string { return course.Id })

	//** Contiguous chunks
	if len(courseIds) > 0 && len(sections)%len(courseIds) == 0 {
		chunk := len(sections) / len(courseIds)
		inferred := lo.Times(len(sections), func(i int) string { return courseIds[i/chunk] })
		if lo.EveryBy(inferred, func(courseId string) bool { return courseId != "" }) {
			return inferred, nil
		}
	}

	//** Leading token
	known := lo.SliceToMap(courseIds, func(courseId string) (string, bool) { return courseId, true })
	inferred := lo.Map(sections, func(section Section, _ int) string {
		for _, separator := range sectionSeparators {
			if candidate, _, found := strings.Cut(section.Id, separator); found && known[candidate] {
				return candidate
			}
		}
		if match := leadingAlphanumeric.FindStringSubmatch(section.Id); match != nil && known[match[1]] {
			return match[1]
		}
		return ""
	})
	if lo.EveryBy(inferred, func(courseId string) bool { return courseId != "" }) {
		return inferred, nil
	}

	//** Round-robin
	if len(courseIds) == 0 {
		return nil, configurationErrorf("no courses available to assign to sections")
	}
	return lo.Times(len(sections), func(i int) string { return courseIds[i%len(courseIds)] }), nil
}

func isDigits(text string) bool {
	return text != "" && strings.Trim(text, "0123456789") == ""
}
