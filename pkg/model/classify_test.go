package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifySessionKind(t *testing.T) {
	testCases := []struct {
		courseType string
		kind       SessionKind
	}{
		{"Lab", LabKind},
		{"lab", LabKind},
		{"Laboratory", LabKind},
		{"  LAB session", LabKind},
		{"Lecture", LectureKind},
		{"lecture+Lab", LectureKind},
		{"LectureLab", LectureKind},
		{"Seminar", Unclassified},
		{"", Unclassified},
		{"Practical Lab", Unclassified},
	}

	for _, testCase := range testCases {
		assert.Equal(t, testCase.kind, ClassifySessionKind(testCase.courseType), "type %q", testCase.courseType)
	}
}

func TestIsLabRoom(t *testing.T) {
	assert.True(t, IsLabRoom("Lab"))
	assert.True(t, IsLabRoom("laboratory"))
	assert.False(t, IsLabRoom("Lecture"))
	assert.False(t, IsLabRoom("Computer Lab"))
	assert.False(t, IsLabRoom(""))
}

func TestHasLabComponent(t *testing.T) {
	assert.True(t, hasLabComponent("Lecture+Lab"))
	assert.True(t, hasLabComponent("Lab"))
	assert.False(t, hasLabComponent("lab"))
	assert.False(t, hasLabComponent("Lecture"))
}

func TestParseQualifiedCourses(t *testing.T) {
	t.Run("Comma separated", func(t *testing.T) {
		assert.Equal(t, []string{"CSC111", "MAT201"}, parseQualifiedCourses(" CSC111, MAT201 ,,CSC111"))
	})

	t.Run("List", func(t *testing.T) {
		assert.Equal(t, []string{"CSC111", "MAT201"}, parseQualifiedCourses([]any{"CSC111", 7, "MAT201"}))
	})

	t.Run("Blank or missing", func(t *testing.T) {
		assert.Empty(t, parseQualifiedCourses(""))
		assert.Empty(t, parseQualifiedCourses(nil))
		assert.Empty(t, parseQualifiedCourses(12))
	})
}

func TestParseUnavailableDays(t *testing.T) {
	testCases := []struct {
		preferredSlots string
		days           []string
	}{
		{"Not on Monday", []string{"Monday"}},
		{"not on monday, Friday", []string{"monday", "Friday"}},
		{"Not on Tuesday and Thursday. Prefers mornings on Friday", []string{"Tuesday", "Thursday"}},
		{"Mornings; Not on Wed", []string{"Wed"}},
		{"Not on Monday; not on Friday", []string{"Monday", "Friday"}},
		{"Friday afternoons", nil},
		{"Nothing on Monday", nil},
		{"", nil},
	}

	for _, testCase := range testCases {
		assert.Equal(t, testCase.days, parseUnavailableDays(testCase.preferredSlots), "preferred slots %q", testCase.preferredSlots)
	}
}

func TestUnavailableOn(t *testing.T) {
	assert.True(t, unavailableOn([]string{"Monday"}, "Monday"))
	assert.True(t, unavailableOn([]string{"monday"}, "Monday "))
	assert.True(t, unavailableOn([]string{"Wed"}, "Wednesday"))
	assert.True(t, unavailableOn([]string{"Wednesday"}, "WED"))
	assert.False(t, unavailableOn([]string{"Monday"}, "Tuesday"))
	assert.False(t, unavailableOn(nil, "Monday"))
}
