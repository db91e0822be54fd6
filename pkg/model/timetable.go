package model

import (
	"encoding/csv"
	"io"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Row is one scheduled session of the timetable
type Row struct {
	CourseId       string `json:"courseId"`
	CourseName     string `json:"courseName"`
	SectionId      string `json:"sectionId"`
	Session        string `json:"session"`
	Day            string `json:"day"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	RoomId         string `json:"roomId"`
	InstructorId   string `json:"instructorId"`
	InstructorName string `json:"instructorName"`
}

type Timetable struct {
	RunId      string `json:"runId"`
	Rows       []Row  `json:"rows"`
	Permissive bool   `json:"permissive"` // Built with every constraint relaxed
	Advisory   string `json:"advisory,omitempty"`
}

var csvHeader = []string{"CourseID", "CourseName", "SectionID", "Session", "Day", "StartTime", "EndTime", "Room", "Instructor"}

// project turns a solution (indexed like variables) into timetable rows
func project(runId string, input ModelInput, variables []SessionVariable, solution []Candidate) Timetable {
	courseNames := make(map[string]string, len(input.Courses))
	for _, course := range input.Courses {
		if course.Name != "" {
			courseNames[course.Id] = course.Name
		}
	}
	instructorNames := lo.SliceToMap(input.Instructors, func(instructor Instructor) (string, string) {
		return instructor.Id, instructor.Name
	})

	rows := lo.Map(lo.Zip2(variables, solution), func(pair lo.Tuple2[SessionVariable, Candidate], _ int) Row {
		variable, candidate := pair.A, pair.B
		return Row{
			CourseId:       variable.CourseId,
			CourseName:     lo.ValueOr(courseNames, variable.CourseId, variable.CourseId),
			SectionId:      variable.SectionId,
			Session:        variable.Label,
			Day:            candidate.Timeslot.Day,
			StartTime:      candidate.Timeslot.StartTime,
			EndTime:        candidate.Timeslot.EndTime,
			RoomId:         candidate.Room,
			InstructorId:   candidate.Instructor,
			InstructorName: lo.ValueOr(instructorNames, candidate.Instructor, candidate.Instructor),
		}
	})

	return Timetable{RunId: runId, Rows: rows}
}

// SortByDay orders rows by weekday (unknown days last, alphabetically) and then by start time
func (timetable *Timetable) SortByDay() {
	dayIndex := func(day string) int {
		index := slices.IndexFunc(weekdays, func(weekday string) bool { return strings.EqualFold(weekday, expandWeekday(day)) })
		if index == -1 {
			return len(weekdays)
		}
		return index
	}

	slices.SortStableFunc(timetable.Rows, func(row1, row2 Row) int {
		if dayComparison := dayIndex(row1.Day) - dayIndex(row2.Day); dayComparison != 0 {
			return dayComparison
		}
		if dayComparison := strings.Compare(row1.Day, row2.Day); dayComparison != 0 {
			return dayComparison
		}
		return strings.Compare(row1.StartTime, row2.StartTime)
	})
}

// Records renders the header followed by one record per row
func (timetable Timetable) Records() [][]string {
	records := make([][]string, 0, len(timetable.Rows)+1)
	records = append(records, csvHeader)
	for _, row := range timetable.Rows {
		records = append(records, []string{
			row.CourseId,
			row.CourseName,
			row.SectionId,
			row.Session,
			row.Day,
			row.StartTime,
			row.EndTime,
			row.RoomId,
			row.InstructorName,
		})
	}
	return records
}

func (timetable Timetable) WriteCsv(writer io.Writer) error {
	csvWriter := csv.NewWriter(writer)
	if err := csvWriter.WriteAll(timetable.Records()); err != nil {
		return err
	}
	return csvWriter.Error()
}
