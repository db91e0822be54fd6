package model

import (
	"math/rand/v2"
	"slices"
)

// searcher finds one assignment of candidates (indexed like domains) with no two candidates sharing a timeslot and
// either a room or an instructor. A nil assignment with a nil error means there is none.
type searcher interface {
	Search(domains []Domain) ([]Candidate, error)
}

type backtrackingSolver struct {
	random *rand.Rand
}

// newBacktrackingSolver shuffles candidate values with random; a nil source is seeded randomly
func newBacktrackingSolver(random *rand.Rand) *backtrackingSolver {
	if random == nil {
		random = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &backtrackingSolver{random: random}
}

// frame is one level of the search: the variable being assigned, its shuffled values and the domains narrowed by the
// value currently tried
type frame struct {
	variable int
	values   []Candidate
	next     int
	trying   bool
	narrowed map[int]Domain
}

type searchState struct {
	working    []Domain // Working domains, narrowed by forward checking
	assignment []Candidate
	assigned   []bool
	count      int
}

// Search runs a forward-checking backtracking search with minimum-remaining-values ordering. The given domains are
// never modified.
func (solver *backtrackingSolver) Search(domains []Domain) ([]Candidate, error) {
	state := searchState{
		working:    slices.Clone(domains),
		assignment: make([]Candidate, len(domains)),
		assigned:   make([]bool, len(domains)),
	}

	stack := make([]*frame, 0, len(domains))
	descend := true
	for {
		if descend {
			if state.count == len(domains) {
				return state.assignment, nil
			}

			variable := state.selectVariable()
			values := slices.Clone(state.working[variable])
			solver.random.Shuffle(len(values), func(i, j int) {
				values[i], values[j] = values[j], values[i]
			})
			stack = append(stack, &frame{variable: variable, values: values})
		}

		top := stack[len(stack)-1]
		state.undo(top)
		descend = state.advance(top)
		if !descend {
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return nil, nil
			}
		}
	}
}

// selectVariable returns the unassigned variable with the smallest working domain, the lowest index on ties
func (state *searchState) selectVariable() int {
	selected := -1
	for variable, domain := range state.working {
		if state.assigned[variable] {
			continue
		}
		if selected == -1 || len(domain) < len(state.working[selected]) {
			selected = variable
		}
	}
	return selected
}

// advance tries the frame's remaining values and reports whether one was assigned without emptying any domain
func (state *searchState) advance(top *frame) bool {
	for top.next < len(top.values) {
		value := top.values[top.next]
		top.next++

		if !state.consistent(value) {
			continue
		}

		state.assign(top.variable, value)
		narrowed, ok := state.forwardCheck(top.variable, value)
		if !ok {
			state.restore(narrowed)
			state.unassign(top.variable)
			continue
		}

		top.trying = true
		top.narrowed = narrowed
		return true
	}
	return false
}

// undo reverts the value the frame is currently trying, if any
func (state *searchState) undo(top *frame) {
	if !top.trying {
		return
	}
	state.restore(top.narrowed)
	state.unassign(top.variable)
	top.trying = false
	top.narrowed = nil
}

func (state *searchState) consistent(value Candidate) bool {
	for variable, assigned := range state.assignment {
		if state.assigned[variable] && conflicting(assigned, value) {
			return false
		}
	}
	return true
}

// forwardCheck removes the candidates conflicting with value from every unassigned domain. It returns the original
// domains of the variables it narrowed and false as soon as a domain becomes empty.
func (state *searchState) forwardCheck(variable int, value Candidate) (map[int]Domain, bool) {
	narrowed := make(map[int]Domain)
	for other, domain := range state.working {
		if other == variable || state.assigned[other] {
			continue
		}

		remaining := make(Domain, 0, len(domain))
		for _, candidate := range domain {
			if !conflicting(candidate, value) {
				remaining = append(remaining, candidate)
			}
		}

		if len(remaining) == 0 {
			return narrowed, false
		}
		if len(remaining) < len(domain) {
			narrowed[other] = domain
			state.working[other] = remaining
		}
	}
	return narrowed, true
}

func (state *searchState) restore(narrowed map[int]Domain) {
	for variable, domain := range narrowed {
		state.working[variable] = domain
	}
}

func (state *searchState) assign(variable int, value Candidate) {
	state.assignment[variable] = value
	state.assigned[variable] = true
	state.count++
}

func (state *searchState) unassign(variable int) {
	state.assignment[variable] = Candidate{}
	state.assigned[variable] = false
	state.count--
}

// conflicting reports whether two candidates share a timeslot together with a room or an instructor
func conflicting(candidate1, candidate2 Candidate) bool {
	return candidate1.Timeslot == candidate2.Timeslot &&
		(candidate1.Room == candidate2.Room || candidate1.Instructor == candidate2.Instructor)
}
