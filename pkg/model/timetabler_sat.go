package model

import (
	"log"

	"github.com/limaJavier/coursetable/pkg/sat"

	"go.uber.org/zap"
)

type satTimetabler struct {
	solver sat.SATSolver
	logger *zap.Logger
}

// NewSatTimetabler encodes the candidate domains into CNF and hands them to solver. The search is complete: when it
// reports no timetable, none exists for the built domains.
func NewSatTimetabler(solver sat.SATSolver, logger *zap.Logger) Timetabler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &satTimetabler{
		solver: solver,
		logger: logger.Named("sat"),
	}
}

func (timetabler *satTimetabler) Build(modelInput ModelInput) (Timetable, error) {
	return generate(modelInput, &satSearcher{solver: timetabler.solver, logger: timetabler.logger}, timetabler.logger)
}

func (timetabler *satTimetabler) Verify(timetable Timetable, modelInput ModelInput) bool {
	return verify(timetable, modelInput)
}

type satSearcher struct {
	solver sat.SATSolver
	logger *zap.Logger
}

func (searcher *satSearcher) Search(domains []Domain) ([]Candidate, error) {
	//** Build SAT instance
	state, variables := newConstraintState(domains)

	// Constraints functions
	constraints := []func(state constraintState) [][]int64{
		completenessConstraints,
		roomUsageConstraints,
		instructorUsageConstraints,
		roomExclusionConstraints,
		instructorExclusionConstraints,
	}

	satInstance := buildSat(variables, constraints, state)
	searcher.logger.Debug("sat instance built",
		zap.Uint64("variables", satInstance.Variables),
		zap.Int("clauses", len(satInstance.Clauses)),
	)

	//** Solve SAT instance
	solution, err := searcher.solver.Solve(satInstance)
	if err != nil {
		return nil, err
	} else if solution == nil { // Return nil if the SAT instance is not satisfiable
		return nil, nil
	}

	//** Decode the first selected candidate of every variable
	assignment := make([]Candidate, len(domains))
	for variable, domain := range domains {
		selected := false
		for candidate := range domain {
			index := state.indexer.Index(uint64(variable), uint64(candidate))
			if solution[index-1] > 0 {
				assignment[variable] = domain[candidate]
				selected = true
				break
			}
		}
		if !selected {
			log.Panicf("variable %v has no selected candidate in a satisfying model", variable)
		}
	}

	return assignment, nil
}
