package model

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func TestEnumerateSessions(t *testing.T) {
	input := ModelInput{
		Courses: []Course{
			{Id: "CSC111", Type: "Lecture"},
			{Id: "CSC221", Type: "Lecture+Lab"},
			{Id: "MAT201", Type: "Lecture"},
			{Id: "PHY101", Type: "Lab"},
		},
		Sections: []Section{
			{Id: "1/1", CourseId: "CSC111", RequiredSessions: 1},
			{Id: "2/1", CourseId: "CSC221", RequiredSessions: 2},
			{Id: "2/2", CourseId: "MAT201", RequiredSessions: 3},
			{Id: "1/4", CourseId: "PHY101", RequiredSessions: 3},
			{Id: "9/9", CourseId: "UNKNOWN", RequiredSessions: 1},
		},
	}
	ids := func(variables []SessionVariable) []string {
		return lo.Map(variables, func(variable SessionVariable, _ int) string { return variable.Id() })
	}

	t.Run("Correct flow", func(t *testing.T) {
		//** Act
		variables := enumerateSessions(input)

		//** Assert
		assert.Equal(t, []string{
			"CSC111::1/1::Lecture",
			"CSC221::2/1::Lecture",
			"CSC221::2/1::Lab",
			"MAT201::2/2::Session1",
			"MAT201::2/2::Session2",
			"MAT201::2/2::Session3",
			"PHY101::1/4::Lecture",
			"PHY101::1/4::Lab",
			"PHY101::1/4::Session3",
			"UNKNOWN::9/9::Lecture",
		}, ids(variables))
	})

	t.Run("Unknown course defaults to a lecture", func(t *testing.T) {
		variables := enumerateSessions(input)

		unknown := variables[len(variables)-1]
		assert.Equal(t, "Lecture", unknown.CourseType)
		assert.Equal(t, LectureKind, unknown.Kind)
	})

	t.Run("Identities are stable across runs", func(t *testing.T) {
		first := ids(enumerateSessions(input))
		for range 10 {
			assert.Equal(t, first, ids(enumerateSessions(input)))
		}
	})

	t.Run("Identities are unique", func(t *testing.T) {
		variables := ids(enumerateSessions(input))
		assert.Len(t, lo.Uniq(variables), len(variables))
	})
}
