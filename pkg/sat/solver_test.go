package sat

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const satisfiableDIMACS = `c pigeons fit
p cnf 4 5
1 2 0
3 4 0
-1 -3 0
-2 -4 0
-1 -2 0
`

const unsatisfiableDIMACS = `c two pigeons, one hole
p cnf 2 3
1 0
2 0
-1 -2 0
`

func TestGophersat(t *testing.T) {
	solver := NewGophersatSolver()

	t.Run("Satisfiable instances", func(t *testing.T) {
		//** Arrange
		instance, err := ParseDIMACS(strings.NewReader(satisfiableDIMACS))
		require.NoError(t, err)

		//** Act
		solution, err := solver.Solve(instance)

		//** Assert
		require.NoError(t, err)
		assert.Len(t, solution, 4)
		assert.True(t, AssertSATSolution(instance, solution))
	})

	t.Run("Unsatisfiable instances", func(t *testing.T) {
		//** Arrange
		instance, err := ParseDIMACS(strings.NewReader(unsatisfiableDIMACS))
		require.NoError(t, err)

		//** Act
		solution, err := solver.Solve(instance)

		//** Assert
		assert.NoError(t, err)
		assert.Nil(t, solution)
	})

	t.Run("Empty clause", func(t *testing.T) {
		solution, err := solver.Solve(SAT{Variables: 2, Clauses: [][]int64{{1, 2}, {}}})

		assert.NoError(t, err)
		assert.Nil(t, solution)
	})

	t.Run("No clauses", func(t *testing.T) {
		solution, err := solver.Solve(SAT{Variables: 3})

		assert.NoError(t, err)
		assert.Equal(t, SATSolution{-1, -2, -3}, solution)
	})

	t.Run("Random instances", func(t *testing.T) {
		random := rand.New(rand.NewPCG(7, 11))
		for range 25 {
			//** Arrange
			literals := uint64(random.IntN(40) + 1)
			clauses := random.IntN(80) + 1
			instance := generateSATInstance(random, literals, clauses)

			//** Act
			solution, err := solver.Solve(instance)

			//** Assert
			require.NoError(t, err)
			if solution != nil {
				assert.True(t, AssertSATSolution(instance, solution))
			}
		}
	})
}

func TestParseDIMACS(t *testing.T) {
	t.Run("Correct flow", func(t *testing.T) {
		instance, err := ParseDIMACS(strings.NewReader(satisfiableDIMACS))

		require.NoError(t, err)
		assert.Equal(t, uint64(4), instance.Variables)
		assert.Equal(t, [][]int64{{1, 2}, {3, 4}, {-1, -3}, {-2, -4}, {-1, -2}}, instance.Clauses)
	})

	t.Run("Round trip through DIMACS", func(t *testing.T) {
		instance := SAT{Variables: 3, Clauses: [][]int64{{1, -2}, {3}}}

		parsed, err := ParseDIMACS(strings.NewReader(instance.ToDIMACS()))

		require.NoError(t, err)
		assert.Equal(t, instance, parsed)
	})

	t.Run("Invalid literal", func(t *testing.T) {
		_, err := ParseDIMACS(strings.NewReader("p cnf 1 1\n1 x 0\n"))

		assert.Error(t, err)
	})

	t.Run("Invalid problem line", func(t *testing.T) {
		_, err := ParseDIMACS(strings.NewReader("p cnf 1\n"))

		assert.Error(t, err)
	})
}

func TestAssertSATSolution(t *testing.T) {
	instance := SAT{Variables: 2, Clauses: [][]int64{{1, 2}, {-1}}}

	assert.True(t, AssertSATSolution(instance, SATSolution{-1, 2}))
	assert.False(t, AssertSATSolution(instance, SATSolution{1, 2}))
	assert.False(t, AssertSATSolution(instance, SATSolution{-1, -2}))
	assert.False(t, AssertSATSolution(instance, SATSolution{-1, 1, 2}))
}

func generateSATInstance(random *rand.Rand, literals uint64, clauses int) SAT {
	satInstance := SAT{
		Variables: literals,
		Clauses:   make([][]int64, clauses),
	}

	for i := range clauses {
		satInstance.Clauses[i] = make([]int64, 0, literals)
		for j := range literals {
			if random.Float32() < 0.1 {
				var sign int64 = 1
				if random.Float32() < 0.5 {
					sign = -1
				}
				satInstance.Clauses[i] = append(satInstance.Clauses[i], sign*(1+int64(j)))
			}
		}

		if len(satInstance.Clauses[i]) == 0 {
			var sign int64 = 1
			if random.Float32() < 0.5 {
				sign = -1
			}
			satInstance.Clauses[i] = append(satInstance.Clauses[i], sign*(1+random.Int64N(int64(literals))))
		}
	}

	return satInstance
}
