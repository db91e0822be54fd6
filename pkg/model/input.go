package model

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

// Table is a parsed tabular input: its header and one map per row keyed by column name
type Table struct {
	Columns []string
	Rows    []map[string]any
}

type RawModelInput struct {
	Courses     Table
	Instructors Table
	Rooms       Table
	Timeslots   Table
	Sections    Table
}

type Course struct {
	Id   string
	Type string
	Name string
}

type Instructor struct {
	Id               string
	Name             string
	QualifiedCourses []string // Empty means the instructor is qualified for every course
	UnavailableDays  []string
}

type Room struct {
	Id   string
	Type string
}

// Timeslot is compared by value: two timeslots conflict if and only if the three fields are equal
type Timeslot struct {
	Day       string
	StartTime string
	EndTime   string
}

type Section struct {
	Id               string
	CourseId         string
	RequiredSessions uint64
}

type ModelInput struct {
	Courses     []Course
	Instructors []Instructor
	Rooms       []Room
	Timeslots   []Timeslot
	Sections    []Section
}

type courseRow struct {
	CourseID   string `mapstructure:"CourseID" validate:"required"`
	Type       string `mapstructure:"Type" validate:"required"`
	CourseName string `mapstructure:"CourseName"`
}

type instructorRow struct {
	InstructorID     string `mapstructure:"InstructorID"`
	Name             string `mapstructure:"Name"`
	QualifiedCourses any    `mapstructure:"QualifiedCourses"`
	PreferredSlots   string `mapstructure:"PreferredSlots"`
}

type roomRow struct {
	RoomID string `mapstructure:"RoomID" validate:"required"`
	Type   string `mapstructure:"Type" validate:"required"`
}

type timeslotRow struct {
	Day       string `mapstructure:"Day" validate:"required"`
	StartTime string `mapstructure:"StartTime" validate:"required"`
	EndTime   string `mapstructure:"EndTime" validate:"required"`
}

type sectionRow struct {
	SectionID        string `mapstructure:"SectionID" validate:"required"`
	CourseID         string `mapstructure:"CourseID"`
	RequiredLectures string `mapstructure:"RequiredLectures"`
}

var tableNames = []string{"courses", "instructors", "rooms", "timeslots", "sections"}

var validate = validator.New()

// InputFromCsvDirectory loads "<name>/<name>.csv" (falling back to "<name>.csv") for every table under directory
func InputFromCsvDirectory(directory string) (ModelInput, error) {
	tables := make(map[string]Table, len(tableNames))
	for _, name := range tableNames {
		candidates := []string{
			filepath.Join(directory, name, name+".csv"),
			filepath.Join(directory, name+".csv"),
		}

		found := false
		for _, candidate := range candidates {
			file, err := os.Open(candidate)
			if errors.Is(err, os.ErrNotExist) {
				continue
			} else if err != nil {
				return ModelInput{}, fmt.Errorf("cannot open %v: %w", candidate, err)
			}

			table, err := TableFromCsv(file)
			file.Close()
			if err != nil {
				return ModelInput{}, fmt.Errorf("cannot parse %v: %w", candidate, err)
			}
			tables[name] = table
			found = true
			break
		}

		if !found {
			return ModelInput{}, configurationErrorf("missing required upload: %v (tried %v)", name, strings.Join(candidates, " and "))
		}
	}

	return ProcessRawInput(RawModelInput{
		Courses:     tables["courses"],
		Instructors: tables["instructors"],
		Rooms:       tables["rooms"],
		Timeslots:   tables["timeslots"],
		Sections:    tables["sections"],
	})
}

// TableFromCsv reads a header line followed by records; short records are padded with empty cells
func TableFromCsv(reader io.Reader) (Table, error) {
	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = -1
	csvReader.TrimLeadingSpace = true

	records, err := csvReader.ReadAll()
	if err != nil {
		return Table{}, err
	}
	if len(records) == 0 {
		return Table{Columns: []string{}}, nil
	}

	columns := lo.Map(records[0], func(column string, i int) string {
		if i == 0 {
			column = strings.TrimPrefix(column, "\ufeff")
		}
		return strings.TrimSpace(column)
	})

	rows := make([]map[string]any, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]any, len(columns))
		for i, column := range columns {
			if i < len(record) {
				row[column] = strings.TrimSpace(record[i])
			} else {
				row[column] = ""
			}
		}
		rows = append(rows, row)
	}

	return Table{Columns: columns, Rows: rows}, nil
}

// InputFromJson reads an object holding one array of row objects per table (e.g. {"courses": [...], ...})
func InputFromJson(file string) (ModelInput, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return ModelInput{}, err
	}

	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return ModelInput{}, err
	}

	var rawJson struct {
		Courses     []map[string]any
		Instructors []map[string]any
		Rooms       []map[string]any
		Timeslots   []map[string]any
		Sections    []map[string]any
	}
	if err := mapstructure.Decode(inputJson, &rawJson); err != nil {
		return ModelInput{}, fmt.Errorf("invalid input layout: %w", err)
	}

	return ProcessRawInput(RawModelInput{
		Courses:     tableFromRows(rawJson.Courses),
		Instructors: tableFromRows(rawJson.Instructors),
		Rooms:       tableFromRows(rawJson.Rooms),
		Timeslots:   tableFromRows(rawJson.Timeslots),
		Sections:    tableFromRows(rawJson.Sections),
	})
}

// A JSON table declares no header, so its columns are the union of its rows' keys (nil when it has no rows)
func tableFromRows(rows []map[string]any) Table {
	if len(rows) == 0 {
		return Table{}
	}
	columns := lo.Uniq(lo.FlatMap(rows, func(row map[string]any, _ int) []string {
		keys := lo.Keys(row)
		slices.Sort(keys)
		return keys
	}))
	return Table{Columns: columns, Rows: rows}
}

// ProcessRawInput validates the raw tables and normalizes them into a ModelInput
func ProcessRawInput(rawInput RawModelInput) (ModelInput, error) {
	//** Validate columns
	requiredColumns := []struct {
		name    string
		table   Table
		columns []string
	}{
		{"courses", rawInput.Courses, []string{"CourseID", "Type"}},
		{"rooms", rawInput.Rooms, []string{"RoomID", "Type"}},
		{"timeslots", rawInput.Timeslots, []string{"Day", "StartTime", "EndTime"}},
		{"sections", rawInput.Sections, []string{"SectionID"}},
	}
	for _, required := range requiredColumns {
		if missing := missingColumns(required.table, required.columns); len(missing) > 0 {
			return ModelInput{}, configurationErrorf("%v.csv must contain %v", required.name, strings.Join(missing, ", "))
		}
	}
	if declaresColumns(rawInput.Instructors) && !hasColumn(rawInput.Instructors, "InstructorID") && !hasColumn(rawInput.Instructors, "Name") {
		return ModelInput{}, configurationErrorf("instructors.csv must contain InstructorID or Name")
	}

	//** Decode rows
	courseRows, err := decodeRows[courseRow]("courses", rawInput.Courses)
	if err != nil {
		return ModelInput{}, err
	}
	instructorRows, err := decodeRows[instructorRow]("instructors", rawInput.Instructors)
	if err != nil {
		return ModelInput{}, err
	}
	roomRows, err := decodeRows[roomRow]("rooms", rawInput.Rooms)
	if err != nil {
		return ModelInput{}, err
	}
	timeslotRows, err := decodeRows[timeslotRow]("timeslots", rawInput.Timeslots)
	if err != nil {
		return ModelInput{}, err
	}
	sectionRows, err := decodeRows[sectionRow]("sections", rawInput.Sections)
	if err != nil {
		return ModelInput{}, err
	}

	//** Build tables
	input := ModelInput{
		Courses: lo.Map(courseRows, func(row courseRow, _ int) Course {
			return Course{Id: row.CourseID, Type: row.Type, Name: row.CourseName}
		}),
		Rooms: lo.Map(roomRows, func(row roomRow, _ int) Room {
			return Room{Id: row.RoomID, Type: row.Type}
		}),
		Timeslots: lo.Map(timeslotRows, func(row timeslotRow, _ int) Timeslot {
			return Timeslot{Day: row.Day, StartTime: row.StartTime, EndTime: row.EndTime}
		}),
	}

	identifiedById := hasColumn(rawInput.Instructors, "InstructorID")
	for i, row := range instructorRows {
		instructor := Instructor{
			Id:               row.Name,
			Name:             row.Name,
			QualifiedCourses: parseQualifiedCourses(row.QualifiedCourses),
			UnavailableDays:  parseUnavailableDays(row.PreferredSlots),
		}
		if identifiedById {
			instructor.Id = row.InstructorID
		}
		if instructor.Name == "" {
			instructor.Name = instructor.Id
		}
		if instructor.Id == "" {
			return ModelInput{}, configurationErrorf("instructors row %v has no identity (InstructorID or Name)", i+1)
		}
		input.Instructors = append(input.Instructors, instructor)
	}

	input.Sections, err = normalizeSections(input.Courses, sectionRows, hasColumn(rawInput.Sections, "CourseID"))
	if err != nil {
		return ModelInput{}, err
	}

	if err := checkModelInput(input); err != nil {
		return ModelInput{}, err
	}
	return input, nil
}

// checkModelInput reports the fatal configuration errors that must stop a run before any search starts
func checkModelInput(input ModelInput) error {
	if len(input.Timeslots) == 0 {
		return configurationErrorf("timeslots.csv contains no rows")
	} else if len(input.Rooms) == 0 {
		return configurationErrorf("rooms.csv contains no rows")
	} else if len(input.Instructors) == 0 {
		return configurationErrorf("instructors.csv contains no rows")
	}

	for _, section := range input.Sections {
		if section.RequiredSessions == 0 {
			return configurationErrorf("section %v must require at least one session", section.Id)
		}
	}
	return nil
}

func decodeRows[T any](tableName string, table Table) ([]T, error) {
	rows := make([]T, 0, len(table.Rows))
	for i, raw := range table.Rows {
		var row T
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &row,
		})
		if err != nil {
			return nil, err
		}
		if err := decoder.Decode(raw); err != nil {
			return nil, configurationErrorf("%v row %v is malformed: %v", tableName, i+1, err)
		}
		if err := validate.Struct(row); err != nil {
			var validationErrors validator.ValidationErrors
			if errors.As(err, &validationErrors) {
				fields := lo.Map(validationErrors, func(fieldError validator.FieldError, _ int) string { return fieldError.Field() })
				return nil, configurationErrorf("%v row %v is missing required values: %v", tableName, i+1, strings.Join(fields, ", "))
			}
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRequiredSessions(sectionId, value string) (uint64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 1, nil
	}
	// Spreadsheets tend to export integers as "2.0"
	value = strings.TrimSuffix(value, ".0")
	required, err := strconv.ParseUint(value, 10, 64)
	if err != nil || required == 0 {
		return 0, configurationErrorf("section %v has an invalid RequiredLectures value %q", sectionId, value)
	}
	return required, nil
}

func declaresColumns(table Table) bool {
	return table.Columns != nil
}

func hasColumn(table Table, column string) bool {
	return slices.Contains(table.Columns, column)
}

func missingColumns(table Table, columns []string) []string {
	if !declaresColumns(table) {
		return nil
	}
	return lo.Filter(columns, func(column string, _ int) bool { return !hasColumn(table, column) })
}
