package sat

import (
	"fmt"

	"github.com/crillab/gophersat/solver"
	"github.com/samber/lo"
)

type gophersatSolver struct{}

// NewGophersatSolver returns an in-process CDCL solver, so no external executable is required
func NewGophersatSolver() SATSolver {
	return &gophersatSolver{}
}

func (s *gophersatSolver) Solve(sat SAT) (solution SATSolution, err error) {
	// gophersat panics on malformed clauses (e.g. a zero literal), report them as errors instead
	defer func() {
		if r := recover(); r != nil {
			solution, err = nil, fmt.Errorf("gophersat rejected the instance: %v", r)
		}
	}()

	if len(sat.Clauses) == 0 {
		return lo.Map(make([]int64, sat.Variables), func(_ int64, i int) int64 { return -int64(i + 1) }), nil
	}

	clauses := lo.Map(sat.Clauses, func(clause []int64, _ int) []int {
		return lo.Map(clause, func(literal int64, _ int) int { return int(literal) })
	})

	problem := solver.ParseSlice(clauses)
	if problem.Status == solver.Unsat {
		return nil, nil
	}

	engine := solver.New(problem)
	if engine.Solve() != solver.Sat {
		return nil, nil
	}

	// Variables that never occur in a clause are absent from the model, they're set to false
	model := engine.Model()
	solution = make(SATSolution, sat.Variables)
	for i := range sat.Variables {
		literal := int64(i + 1)
		if int(i) < len(model) && model[i] {
			solution[i] = literal
		} else {
			solution[i] = -literal
		}
	}
	return solution, nil
}
