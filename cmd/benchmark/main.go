package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/limaJavier/coursetable/pkg/model"
	"github.com/limaJavier/coursetable/pkg/sat"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	MB float32 = 1024 * 1024
)

type StrategyType int

const (
	backtracking StrategyType = iota
	satStrategy
)

type ResultType int

const (
	solved ResultType = iota
	permissive
	unsatisfiable
	timeout
	invalid
)

var (
	strategyTypes = map[StrategyType]string{
		backtracking: "backtracking",
		satStrategy:  "sat",
	}
	resultTypes = map[ResultType]string{
		solved:        "solved",
		permissive:    "permissive",
		unsatisfiable: "unsatisfiable",
		timeout:       "timeout",
		invalid:       "invalid",
	}
)

type TestMetadata struct {
	Name        string
	Satisfiable bool
	Courses     int
	Instructors int
	Rooms       int
	Timeslots   int
	Sections    int
	Sessions    int
	input       model.ModelInput
}

type BenchmarkResult struct {
	Strategy StrategyType
	Test     TestMetadata
	Duration int64
	Memory   float32
	Result   ResultType
}

func main() {
	satisfiableDirectoryPtr := flag.String("satisfiable", "test/satisfiable", "Directory of instances expected to be solved under the strict tier")
	unsatisfiableDirectoryPtr := flag.String("unsatisfiable", "test/unsatisfiable", "Directory of instances expected to fail under the strict tier")
	outFilePathPtr := flag.String("out", "benchmark_results.csv", "Path of the CSV report")
	timeoutPtr := flag.Duration("timeout", time.Minute, "Deadline of every run")
	seedPtr := flag.Uint64("seed", 1, "Seed of the backtracking value order")
	flag.Parse()

	tests := getTests(map[string]bool{*satisfiableDirectoryPtr: true, *unsatisfiableDirectoryPtr: false})
	strategies := getStrategies()
	results := make([]BenchmarkResult, 0, len(tests)*len(strategies))

	for _, test := range tests {
		for _, strategy := range strategies {
			fmt.Printf("Benchmarking test \"%v\" with strategy \"%v\"\n", test.Name, strategyTypes[strategy])

			duration, memory, result := measure(newTimetabler(strategy, *seedPtr), test.input, *timeoutPtr)

			results = append(results, BenchmarkResult{
				Strategy: strategy,
				Test:     test,
				Duration: duration,
				Memory:   memory,
				Result:   result,
			})
		}
	}

	file, err := os.Create(*outFilePathPtr)
	if err != nil {
		log.Fatalf("cannot create CSV file: %v", err)
	}
	defer file.Close()

	if err := toCsv(file, results); err != nil {
		log.Panicf("cannot write CSV file: %v", err)
	}
}

// getTests loads every instance below the given directories. An instance is either a JSON file or a directory of CSV tables.
func getTests(directories map[string]bool) []TestMetadata {
	tests := make([]TestMetadata, 0)
	for directory, satisfiable := range directories {
		entries, err := os.ReadDir(directory)
		if errors.Is(err, os.ErrNotExist) {
			continue
		} else if err != nil {
			log.Fatalf("cannot read directory: %v", err)
		}

		for _, entry := range entries {
			path := filepath.Join(directory, entry.Name())

			var input model.ModelInput
			if entry.IsDir() {
				input, err = model.InputFromCsvDirectory(path)
			} else if strings.EqualFold(filepath.Ext(path), ".json") {
				input, err = model.InputFromJson(path)
			} else {
				continue
			}
			if err != nil {
				log.Fatalf("cannot parse instance \"%v\": %v", path, err)
			}

			tests = append(tests, newTestMetadata(path, satisfiable, input))
		}
	}

	return tests
}

func newTestMetadata(name string, satisfiable bool, input model.ModelInput) TestMetadata {
	return TestMetadata{
		Name:        name,
		Satisfiable: satisfiable,
		Courses:     len(input.Courses),
		Instructors: len(input.Instructors),
		Rooms:       len(input.Rooms),
		Timeslots:   len(input.Timeslots),
		Sections:    len(input.Sections),
		Sessions: int(lo.SumBy(input.Sections, func(section model.Section) uint64 {
			return section.RequiredSessions
		})),
		input: input,
	}
}

func getStrategies() []StrategyType {
	return []StrategyType{backtracking, satStrategy}
}

func newTimetabler(strategy StrategyType, seed uint64) model.Timetabler {
	switch strategy {
	case satStrategy:
		return model.NewSatTimetabler(sat.NewGophersatSolver(), zap.NewNop())
	default:
		return model.NewBacktrackingTimetabler(seed, zap.NewNop())
	}
}

// measure runs one generation in-process; a run past the deadline keeps its goroutine until the search returns
func measure(timetabler model.Timetabler, input model.ModelInput, deadline time.Duration) (duration int64, memory float32, result ResultType) {
	var before runtime.MemStats
	runtime.ReadMemStats(&before)

	ctx, cancel := context.WithTimeout(context.Background(), deadline)
	defer cancel()

	type outcome struct {
		timetable model.Timetable
		err       error
	}
	outcomes := make(chan outcome, 1)
	start := time.Now()
	go func() {
		timetable, err := timetabler.Build(input)
		outcomes <- outcome{timetable, err}
	}()

	select {
	case built := <-outcomes:
		duration = time.Since(start).Milliseconds()
		result = classify(timetabler, input, built.timetable, built.err)
	case <-ctx.Done():
		duration = time.Since(start).Milliseconds()
		result = timeout
	}

	var after runtime.MemStats
	runtime.ReadMemStats(&after)
	memory = float32(after.TotalAlloc-before.TotalAlloc) / MB

	return duration, memory, result
}

func classify(timetabler model.Timetabler, input model.ModelInput, timetable model.Timetable, err error) ResultType {
	var exhaustedError *model.SearchExhaustedError
	if errors.As(err, &exhaustedError) {
		return unsatisfiable
	} else if err != nil {
		log.Fatalf("an error occurred during the generation: %v", err)
	}

	if !timetabler.Verify(timetable, input) {
		return invalid
	} else if timetable.Permissive {
		return permissive
	}
	return solved
}

func toCsv(writer io.Writer, results []BenchmarkResult) error {
	csvWriter := csv.NewWriter(writer)

	header := []string{"Strategy", "Test", "Satisfiable", "Courses", "Instructors", "Rooms", "Timeslots", "Sections", "Sessions", "Duration(ms)", "Allocated(MB)", "Result"}
	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("cannot write CSV header: %v", err)
	}

	for _, result := range results {
		record := []string{
			strategyTypes[result.Strategy],
			result.Test.Name,
			fmt.Sprintf("%v", result.Test.Satisfiable),
			fmt.Sprintf("%d", result.Test.Courses),
			fmt.Sprintf("%d", result.Test.Instructors),
			fmt.Sprintf("%d", result.Test.Rooms),
			fmt.Sprintf("%d", result.Test.Timeslots),
			fmt.Sprintf("%d", result.Test.Sections),
			fmt.Sprintf("%d", result.Test.Sessions),
			fmt.Sprintf("%d", result.Duration),
			fmt.Sprintf("%.1f", result.Memory),
			resultTypes[result.Result],
		}
		if err := csvWriter.Write(record); err != nil {
			return fmt.Errorf("cannot write CSV record: %v", err)
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}
