package model

import (
	"github.com/samber/lo"
)

type predicateEvaluatorStandard struct {
	qualifications []map[string]bool // Qualified courses per instructor, nil when unrestricted
	availability   [][]bool          // Availability matrix indexed by instructor and timeslot
	labRooms       []bool
}

func newPredicateEvaluator(modelInput ModelInput) predicateEvaluator {
	evaluator := predicateEvaluatorStandard{
		qualifications: make([]map[string]bool, len(modelInput.Instructors)),
		availability:   make([][]bool, len(modelInput.Instructors)),
		labRooms: lo.Map(modelInput.Rooms, func(room Room, _ int) bool {
			return IsLabRoom(room.Type)
		}),
	}

	for instructor, value := range modelInput.Instructors {
		if len(value.QualifiedCourses) > 0 {
			evaluator.qualifications[instructor] = lo.SliceToMap(value.QualifiedCourses, func(course string) (string, bool) {
				return course, true
			})
		}

		evaluator.availability[instructor] = lo.Map(modelInput.Timeslots, func(timeslot Timeslot, _ int) bool {
			return !unavailableOn(value.UnavailableDays, timeslot.Day)
		})
	}

	return &evaluator
}

func (evaluator *predicateEvaluatorStandard) Qualified(instructor uint64, courseId string) bool {
	qualifications := evaluator.qualifications[instructor]
	return qualifications == nil || qualifications[courseId]
}

func (evaluator *predicateEvaluatorStandard) Available(instructor, timeslot uint64) bool {
	return evaluator.availability[instructor][timeslot]
}

func (evaluator *predicateEvaluatorStandard) RoomSuits(kind SessionKind, room uint64) bool {
	switch kind {
	case LabKind:
		return evaluator.labRooms[room]
	case LectureKind:
		return !evaluator.labRooms[room]
	default:
		return true
	}
}
