package model

import (
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"
)

var zapNop = zap.NewNop()

var testDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

func lectureRooms(count int) []Room {
	rooms := make([]Room, count)
	for i := range rooms {
		rooms[i] = Room{Id: fmt.Sprintf("R%d", i+1), Type: "Lecture"}
	}
	return rooms
}

func instructors(count int) []Instructor {
	result := make([]Instructor, count)
	for i := range result {
		id := fmt.Sprintf("I%d", i+1)
		result[i] = Instructor{Id: id, Name: "Instructor " + id}
	}
	return result
}

func timeslots(count int) []Timeslot {
	result := make([]Timeslot, count)
	for i := range result {
		result[i] = Timeslot{
			Day:       testDays[i%len(testDays)],
			StartTime: fmt.Sprintf("%02d:00", 8+i/len(testDays)),
			EndTime:   fmt.Sprintf("%02d:50", 8+i/len(testDays)),
		}
	}
	return result
}

// generateModelInput creates lecture-only instances with unrestricted instructors. At most half of the
// timeslot-room-instructor capacity is requested, so every instance is satisfiable.
func generateModelInput(random *rand.Rand) ModelInput {
	totalTimeslots := random.IntN(4) + 1
	totalRooms := random.IntN(3) + 1
	totalInstructors := random.IntN(3) + 1
	capacity := totalTimeslots * min(totalRooms, totalInstructors)

	input := ModelInput{
		Rooms:       lectureRooms(totalRooms),
		Instructors: instructors(totalInstructors),
		Timeslots:   timeslots(totalTimeslots),
	}

	sessions := random.IntN(max(capacity/2, 1)) + 1
	for i := 0; sessions > 0; i++ {
		courseId := fmt.Sprintf("CSC%d", 100+i)
		input.Courses = append(input.Courses, Course{Id: courseId, Type: "Lecture", Name: "Course " + courseId})

		required := uint64(min(sessions, random.IntN(2)+1))
		input.Sections = append(input.Sections, Section{Id: "1/1", CourseId: courseId, RequiredSessions: required})
		sessions -= int(required)
	}
	return input
}

// domainsOf builds the strict domains of input, indexed like its session variables
func domainsOf(input ModelInput) ([]SessionVariable, []Domain, []DomainStats) {
	variables := enumerateSessions(input)
	domains, stats := newDomainBuilder(input).BuildAll(variables, false)
	return variables, domains, stats
}

func conflictFree(solution []Candidate) bool {
	for i := range solution {
		for j := i + 1; j < len(solution); j++ {
			if conflicting(solution[i], solution[j]) {
				return false
			}
		}
	}
	return true
}
