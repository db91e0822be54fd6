package model

import (
	"fmt"

	"github.com/limaJavier/coursetable/pkg/sat"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	permissiveAdvisory = "strict generation failed; permissive generation succeeded"
	permissiveFailure  = "Attempted permissive generation (ignore qualifications and room-type) but it also failed."
)

// generate runs the strict search and, when it finds nothing, a single permissive one
func generate(modelInput ModelInput, searcher searcher, logger *zap.Logger) (Timetable, error) {
	if err := checkModelInput(modelInput); err != nil {
		return Timetable{}, err
	}

	runId := uuid.NewString()
	logger = logger.With(zap.String("run_id", runId))

	//** Enumerate sessions and build domains
	variables := enumerateSessions(modelInput)
	builder := newDomainBuilder(modelInput)
	domains, stats := builder.BuildAll(variables, false)

	relaxed := lo.CountBy(stats, func(value DomainStats) bool { return len(value.Fallbacks) > 0 })
	logger.Info("domains built",
		zap.Int("variables", len(variables)),
		zap.Int("relaxed", relaxed),
	)

	//** Strict search
	solution, err := searcher.Search(domains)
	if err != nil {
		return Timetable{}, fmt.Errorf("strict search failed: %w", err)
	} else if solution != nil {
		logger.Info("timetable generated", zap.Int("sessions", len(solution)))
		return project(runId, modelInput, variables, solution), nil
	}

	report := newReport(variables, domains, stats)
	logger.Warn("strict generation failed",
		zap.Int("empty_domains", len(report.EmptyDomains)),
		zap.Int("shortfalls", len(report.Shortfalls)),
	)

	//** Permissive search
	solution, err = searchPermissive(builder, variables, searcher)
	if err != nil {
		logger.Error("permissive generation raised an error", zap.Error(err))
		report.PermissiveOutcome = fmt.Sprintf("Attempted permissive generation and it raised an error: %v", err)
		return Timetable{}, &SearchExhaustedError{Report: report}
	} else if solution == nil {
		logger.Warn("permissive generation failed")
		report.PermissiveOutcome = permissiveFailure
		return Timetable{}, &SearchExhaustedError{Report: report}
	}

	logger.Warn(permissiveAdvisory)
	timetable := project(runId, modelInput, variables, solution)
	timetable.Permissive = true
	timetable.Advisory = permissiveAdvisory
	return timetable, nil
}

// searchPermissive rebuilds every domain at the permissive tier and searches again. Panics are returned as errors.
func searchPermissive(builder *domainBuilder, variables []SessionVariable, searcher searcher) (solution []Candidate, err error) {
	defer func() {
		if r := recover(); r != nil {
			solution, err = nil, fmt.Errorf("%v", r)
		}
	}()

	domains, _ := builder.BuildAll(variables, true)
	return searcher.Search(domains)
}

// verify checks that the timetable schedules every session exactly once, only with candidates the session's domain
// holds (its permissive domain for a permissive timetable), and never twice in a timeslot with the same room or
// instructor
func verify(timetable Timetable, modelInput ModelInput) bool {
	variables := enumerateSessions(modelInput)
	builder := newDomainBuilder(modelInput)

	//** Coverage
	expected := lo.CountValues(lo.Map(variables, func(variable SessionVariable, _ int) string { return variable.Id() }))
	derived := lo.CountValues(lo.Map(timetable.Rows, func(row Row, _ int) string {
		return SessionVariable{CourseId: row.CourseId, SectionId: row.SectionId, Label: row.Session}.Id()
	}))
	if len(expected) != len(derived) {
		return false
	}
	for id, count := range expected {
		if derived[id] != count {
			return false
		}
	}

	//** Domain membership
	domains := make(map[string]map[Candidate]bool)
	for _, variable := range variables {
		if _, ok := domains[variable.Id()]; ok {
			continue
		}
		domain, _ := builder.Build(variable, timetable.Permissive)
		domains[variable.Id()] = lo.SliceToMap(domain, func(candidate Candidate) (Candidate, bool) { return candidate, true })
	}

	//** Exclusivity
	roomAssistance := make(map[timeslotRoom]bool)
	instructorAssistance := make(map[timeslotInstructor]bool)

	for _, row := range timetable.Rows {
		id := SessionVariable{CourseId: row.CourseId, SectionId: row.SectionId, Label: row.Session}.Id()
		candidate := Candidate{
			Timeslot:   Timeslot{Day: row.Day, StartTime: row.StartTime, EndTime: row.EndTime},
			Room:       row.RoomId,
			Instructor: row.InstructorId,
		}

		if !domains[id][candidate] ||
			roomAssistance[candidate.roomKey()] ||
			instructorAssistance[candidate.instructorKey()] {
			return false
		}

		roomAssistance[candidate.roomKey()] = true             // Store room assistance
		instructorAssistance[candidate.instructorKey()] = true // Store instructor assistance
	}
	return true
}

func buildSat(variables uint64, constraints []func(state constraintState) [][]int64, state constraintState) sat.SAT {
	satInstance := sat.SAT{
		Variables: variables,
		Clauses:   [][]int64{},
	}

	constraintsChannel := make(chan [][]int64) // Channel to collect constraints

	// Execute constraints functions on different goroutines to improve performance
	for _, constraint := range constraints {
		go func(constraint func(state constraintState) [][]int64) {
			constraintsChannel <- constraint(state)
		}(constraint)
	}

	// Collect generated constraints
	for range constraints {
		satInstance.Clauses = append(satInstance.Clauses, <-constraintsChannel...)
	}

	return satInstance
}
