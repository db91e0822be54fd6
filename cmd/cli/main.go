package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/limaJavier/coursetable/pkg/config"
	"github.com/limaJavier/coursetable/pkg/logger"
	"github.com/limaJavier/coursetable/pkg/model"
	"github.com/limaJavier/coursetable/pkg/sat"

	"go.uber.org/zap"
)

// Exit codes
const (
	exitFailure    = 1
	exitSolved     = 10
	exitUnverified = 15
	exitNoSolution = 20
)

var timetablers = map[string]func(cfg *config.Config, logger *zap.Logger) model.Timetabler{
	config.StrategyBacktracking: func(cfg *config.Config, logger *zap.Logger) model.Timetabler {
		return model.NewBacktrackingTimetabler(cfg.Solver.Seed, logger)
	},
	config.StrategySat: func(_ *config.Config, logger *zap.Logger) model.Timetabler {
		return model.NewSatTimetabler(sat.NewGophersatSolver(), logger)
	},
}

func main() {
	// Define arguments
	configPathPtr := flag.String("config", "", "Path to a configuration file (json, yaml or env); TIMETABLE_* environment variables are read regardless")
	directoryPtr := flag.String("dir", "", "Directory holding courses, instructors, rooms, timeslots and sections CSV files (either <name>.csv or <name>/<name>.csv)")
	filePathPtr := flag.String("file", "", "Path to a JSON input file with one array of rows per table")
	outFilePathPtr := flag.String("out", "", "Path to the file where the output will be written; if empty, it'll be written into the Standard Output")
	strategyPtr := flag.String("strategy", config.StrategyBacktracking, `Strategy to build the timetable. Allowed values are:
- "backtracking" (forward-checking search with randomized value order, the default) and
- "sat" (CNF encoding solved in-process by gophersat)`)
	formatPtr := flag.String("format", config.FormatCsv, `Output format: "csv" (the default) or "json"`)
	seedPtr := flag.Uint64("seed", 0, "Seed of the backtracking value order; 0 draws a random one")
	timeoutPtr := flag.Duration("timeout", 0, "Deadline for the whole generation (e.g. 30s); 0 means none")
	flag.Parse()

	cfg, err := config.Load(*configPathPtr)
	if err != nil {
		log.Fatalf("cannot load configuration: %v", err)
	}

	// Explicit flags take precedence over the configuration
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "strategy":
			cfg.Solver.Strategy = strings.ToLower(*strategyPtr)
		case "format":
			cfg.Output.Format = strings.ToLower(*formatPtr)
		case "seed":
			cfg.Solver.Seed = *seedPtr
		case "timeout":
			cfg.Solver.Timeout = *timeoutPtr
		}
	})

	// Validate arguments
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	} else if (*directoryPtr == "") == (*filePathPtr == "") {
		log.Fatal("exactly one of -dir or -file must be specified")
	}

	appLogger, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("cannot build logger: %v", err)
	}
	exit := func(code int) {
		_ = appLogger.Sync()
		os.Exit(code)
	}

	// Extract input
	var input model.ModelInput
	if *directoryPtr != "" {
		input, err = model.InputFromCsvDirectory(*directoryPtr)
	} else {
		input, err = model.InputFromJson(*filePathPtr)
	}
	if err != nil {
		appLogger.Error("cannot load input", zap.Error(err))
		exit(exitFailure)
	}

	// Build timetable
	timetabler := timetablers[cfg.Solver.Strategy](cfg, appLogger)
	timetable, err := buildWithDeadline(timetabler, input, cfg.Solver.Timeout)

	var configurationError *model.ConfigurationError
	var exhaustedError *model.SearchExhaustedError
	if errors.As(err, &configurationError) {
		appLogger.Error("invalid input", zap.Error(err))
		exit(exitFailure)
	} else if errors.As(err, &exhaustedError) {
		fmt.Fprintln(os.Stderr, exhaustedError.Report.String())
		exit(exitNoSolution)
	} else if errors.Is(err, context.DeadlineExceeded) {
		appLogger.Warn("generation abandoned", zap.Duration("timeout", cfg.Solver.Timeout))
		exit(exitNoSolution)
	} else if err != nil {
		appLogger.Error("an error occurred during timetable construction", zap.Error(err))
		exit(exitFailure)
	}

	// Verify timetable correctness
	if !timetabler.Verify(timetable, input) {
		appLogger.Error("generated timetable failed verification", zap.String("run_id", timetable.RunId))
		exit(exitUnverified)
	}

	if timetable.Permissive {
		appLogger.Warn(timetable.Advisory, zap.String("run_id", timetable.RunId))
	}
	timetable.SortByDay()

	// Verify outfile is empty, if so then write the results to the Standard Output
	writer := os.Stdout
	if *outFilePathPtr != "" {
		writer, err = os.Create(*outFilePathPtr)
		if err != nil {
			appLogger.Error("cannot create the output file", zap.Error(err))
			exit(exitFailure)
		}
	}

	err = write(writer, timetable, cfg.Output.Format)
	if writer != os.Stdout {
		err = errors.Join(err, writer.Close())
	}
	if err != nil {
		appLogger.Error("an error occurred while writing the output", zap.Error(err))
		exit(exitFailure)
	}

	appLogger.Info("timetable written", zap.String("run_id", timetable.RunId), zap.Int("sessions", len(timetable.Rows)))
	exit(exitSolved)
}

// buildWithDeadline abandons the generation once timeout elapses; the search itself has no cancellation points
func buildWithDeadline(timetabler model.Timetabler, input model.ModelInput, timeout time.Duration) (model.Timetable, error) {
	if timeout == 0 {
		return timetabler.Build(input)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	type result struct {
		timetable model.Timetable
		err       error
	}
	results := make(chan result, 1)
	go func() {
		timetable, err := timetabler.Build(input)
		results <- result{timetable, err}
	}()

	select {
	case built := <-results:
		return built.timetable, built.err
	case <-ctx.Done():
		return model.Timetable{}, ctx.Err()
	}
}

func write(writer io.Writer, timetable model.Timetable, format string) error {
	switch format {
	case config.FormatJson:
		encoder := json.NewEncoder(writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(timetable)
	default:
		return timetable.WriteCsv(writer)
	}
}
