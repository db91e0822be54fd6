package model

import (
	"math/rand/v2"

	"go.uber.org/zap"
)

type backtrackingTimetabler struct {
	seed   uint64
	logger *zap.Logger
}

// NewBacktrackingTimetabler searches with forward-checking backtracking. A zero seed draws a random one on every
// Build, any other seed makes builds reproducible.
func NewBacktrackingTimetabler(seed uint64, logger *zap.Logger) Timetabler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &backtrackingTimetabler{
		seed:   seed,
		logger: logger.Named("backtracking"),
	}
}

func (timetabler *backtrackingTimetabler) Build(modelInput ModelInput) (Timetable, error) {
	var random *rand.Rand
	if timetabler.seed != 0 {
		random = rand.New(rand.NewPCG(timetabler.seed, timetabler.seed))
	}
	return generate(modelInput, newBacktrackingSolver(random), timetabler.logger)
}

func (timetabler *backtrackingTimetabler) Verify(timetable Timetable, modelInput ModelInput) bool {
	return verify(timetable, modelInput)
}
