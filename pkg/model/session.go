package model

import (
	"fmt"

	"github.com/samber/lo"
)

// SessionVariable is one teaching session of a section that needs a timeslot, a room and an instructor
type SessionVariable struct {
	CourseId   string
	SectionId  string
	Label      string
	CourseType string
	Kind       SessionKind
}

func (variable SessionVariable) Id() string {
	return fmt.Sprintf("%v::%v::%v", variable.CourseId, variable.SectionId, variable.Label)
}

// enumerateSessions yields one variable per required session of every section, in section order
func enumerateSessions(input ModelInput) []SessionVariable {
	courseTypes := lo.SliceToMap(input.Courses, func(course Course) (string, string) {
		return course.Id, course.Type
	})

	variables := make([]SessionVariable, 0, len(input.Sections))
	for _, section := range input.Sections {
		courseType, ok := courseTypes[section.CourseId]
		if !ok {
			courseType = "Lecture"
		}

		for session := range section.RequiredSessions {
			variables = append(variables, SessionVariable{
				CourseId:   section.CourseId,
				SectionId:  section.Id,
				Label:      sessionLabel(courseType, session, section.RequiredSessions),
				CourseType: courseType,
				Kind:       ClassifySessionKind(courseType),
			})
		}
	}
	return variables
}

// sessionLabel names the session-th (0-based) of required sessions
func sessionLabel(courseType string, session, required uint64) string {
	if required == 1 {
		return "Lecture"
	}
	if hasLabComponent(courseType) {
		switch session {
		case 0:
			return "Lecture"
		case 1:
			return "Lab"
		}
	}
	return fmt.Sprintf("Session%d", session+1)
}
