package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport(t *testing.T) {
	t.Run("Search-time conflict still lists the smallest domains", func(t *testing.T) {
		//** Arrange
		input := ModelInput{
			Courses:     []Course{{Id: "CSC111", Type: "Lecture"}},
			Instructors: instructors(1),
			Rooms:       lectureRooms(2),
			Timeslots:   timeslots(1),
			Sections: []Section{
				{Id: "1/1", CourseId: "CSC111", RequiredSessions: 1},
				{Id: "1/2", CourseId: "CSC111", RequiredSessions: 1},
			},
		}
		variables, domains, stats := domainsOf(input)

		//** Act
		report := newReport(variables, domains, stats)

		//** Assert
		assert.Equal(t, 2, report.Variables)
		assert.Empty(t, report.EmptyDomains)
		require.Len(t, report.SmallestDomains, 2)
		assert.Equal(t, "CSC111::1/1::Lecture", report.SmallestDomains[0].Variable)
		assert.Equal(t, 2, report.SmallestDomains[0].Size)
		assert.Len(t, report.SmallestDomains[0].Samples, 2)
		assert.Equal(t, []CapacityShortfall{{Resource: "timeslot-instructor", Matched: 1, Required: 2}}, report.Shortfalls)

		text := report.String()
		assert.Contains(t, text, "No valid timetable found. variables=2, zero_domain_count=0")
		assert.Contains(t, text, "Smallest domain sizes (var:size): CSC111::1/1::Lecture:2, CSC111::1/2::Lecture:2")
		assert.Contains(t, text, "Capacity shortfall: at most 1 of 2 sessions can hold a distinct timeslot-instructor pair")
		assert.NotContains(t, text, "Variables with empty domain")
	})

	t.Run("Empty domains carry their histogram and fallbacks", func(t *testing.T) {
		//** Arrange
		variables := []SessionVariable{
			{CourseId: "CSC111", SectionId: "1/1", Label: "Lecture"},
			{CourseId: "CSC221", SectionId: "1/1", Label: "Lab"},
		}
		slot := timeslots(1)[0]
		domains := []Domain{{}, {{Timeslot: slot, Room: "R1", Instructor: "I1"}}}
		stats := []DomainStats{
			{Rejections: map[RejectionReason]uint64{UnqualifiedInstructor: 4, RoomTypeMismatch: 2}},
			{Rejections: map[RejectionReason]uint64{RoomTypeMismatch: 1}, Fallbacks: []Tier{AllowRoomMismatch}},
		}

		//** Act
		report := newReport(variables, domains, stats)
		report.PermissiveOutcome = permissiveFailure
		text := report.String()

		//** Assert
		require.Len(t, report.EmptyDomains, 1)
		assert.Equal(t, "CSC111::1/1::Lecture", report.EmptyDomains[0].Variable)
		assert.Empty(t, report.Shortfalls)
		assert.Contains(t, text, "zero_domain_count=1")
		assert.Contains(t, text, "Variables with empty domain (first 20): CSC111::1/1::Lecture")
		assert.Contains(t, text, "  CSC111::1/1::Lecture rejection_reasons: unqualified_instructor=4, room_type_mismatch=2")
		assert.Contains(t, text, "  CSC221::1/1::Lab: allow_room_type_mismatch")
		assert.Contains(t, text, "\n\n"+permissiveFailure)
	})

	t.Run("Listings are bounded", func(t *testing.T) {
		//** Arrange
		slot := timeslots(1)[0]
		variables := make([]SessionVariable, 30)
		domains := make([]Domain, 30)
		stats := make([]DomainStats, 30)
		for i := range variables {
			variables[i] = SessionVariable{CourseId: fmt.Sprintf("C%02d", i), SectionId: "1/1", Label: "Lecture"}
			for j := range 30 - i {
				domains[i] = append(domains[i], Candidate{Timeslot: slot, Room: fmt.Sprintf("R%d", j), Instructor: "I1"})
			}
		}

		//** Act
		report := newReport(variables, domains, stats)

		//** Assert
		require.Len(t, report.SmallestDomains, 20)
		assert.Equal(t, "C29::1/1::Lecture", report.SmallestDomains[0].Variable)
		assert.Equal(t, 1, report.SmallestDomains[0].Size)
		for i, value := range report.SmallestDomains {
			if i < 10 {
				assert.Len(t, value.Samples, min(value.Size, 5))
			} else {
				assert.Empty(t, value.Samples)
			}
		}
		assert.Equal(t, []CapacityShortfall{{Resource: "timeslot-instructor", Matched: 1, Required: 30}}, report.Shortfalls)
	})
}
