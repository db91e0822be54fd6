package model

// predicateEvaluator answers the per-candidate questions the domain builder asks. Instructors, timeslots and rooms are
// referred to by their index in the ModelInput tables.
type predicateEvaluator interface {
	// Checks whether the instructor may teach the course (an empty qualification list qualifies for everything)
	Qualified(instructor uint64, courseId string) bool

	// Checks whether the instructor has not ruled out the timeslot's day
	Available(instructor, timeslot uint64) bool

	// Checks whether the room's type suits a session of the given kind
	RoomSuits(kind SessionKind, room uint64) bool
}
