package model

// constraintState holds what the clause generators read. Literals 1..indexer.Size() select a candidate of a variable;
// the remaining ones mark a (timeslot, room) or (timeslot, instructor) pair as used by a variable.
type constraintState struct {
	domains            []Domain
	indexer            indexer
	roomLiterals       []map[timeslotRoom]int64
	instructorLiterals []map[timeslotInstructor]int64
}

// newConstraintState allocates the pair literals after the candidate literals and returns the total literal count
func newConstraintState(domains []Domain) (constraintState, uint64) {
	state := constraintState{
		domains:            domains,
		indexer:            newIndexer(domains),
		roomLiterals:       make([]map[timeslotRoom]int64, len(domains)),
		instructorLiterals: make([]map[timeslotInstructor]int64, len(domains)),
	}

	next := int64(state.indexer.Size()) + 1
	for variable, domain := range domains {
		state.roomLiterals[variable] = make(map[timeslotRoom]int64)
		state.instructorLiterals[variable] = make(map[timeslotInstructor]int64)

		for _, candidate := range domain {
			if _, ok := state.roomLiterals[variable][candidate.roomKey()]; !ok {
				state.roomLiterals[variable][candidate.roomKey()] = next
				next++
			}
			if _, ok := state.instructorLiterals[variable][candidate.instructorKey()]; !ok {
				state.instructorLiterals[variable][candidate.instructorKey()] = next
				next++
			}
		}
	}

	return state, uint64(next - 1)
}

// Every variable takes at least one candidate. An empty domain yields an empty clause.
func completenessConstraints(state constraintState) [][]int64 {
	clauses := make([][]int64, 0, len(state.domains))
	for variable, domain := range state.domains {
		clause := make([]int64, 0, len(domain))
		for candidate := range domain {
			clause = append(clause, int64(state.indexer.Index(uint64(variable), uint64(candidate))))
		}
		clauses = append(clauses, clause)
	}
	return clauses
}

// Taking a candidate uses its (timeslot, room) pair
func roomUsageConstraints(state constraintState) [][]int64 {
	clauses := make([][]int64, 0)
	for variable, domain := range state.domains {
		for candidate, value := range domain {
			index := int64(state.indexer.Index(uint64(variable), uint64(candidate)))
			clauses = append(clauses, []int64{-index, state.roomLiterals[variable][value.roomKey()]})
		}
	}
	return clauses
}

// Taking a candidate uses its (timeslot, instructor) pair
func instructorUsageConstraints(state constraintState) [][]int64 {
	clauses := make([][]int64, 0)
	for variable, domain := range state.domains {
		for candidate, value := range domain {
			index := int64(state.indexer.Index(uint64(variable), uint64(candidate)))
			clauses = append(clauses, []int64{-index, state.instructorLiterals[variable][value.instructorKey()]})
		}
	}
	return clauses
}

// No two variables use the same (timeslot, room) pair
func roomExclusionConstraints(state constraintState) [][]int64 {
	return exclusionClauses(state.domains, state.roomLiterals, Candidate.roomKey)
}

// No two variables use the same (timeslot, instructor) pair
func instructorExclusionConstraints(state constraintState) [][]int64 {
	return exclusionClauses(state.domains, state.instructorLiterals, Candidate.instructorKey)
}

func exclusionClauses[K comparable](domains []Domain, literals []map[K]int64, key func(Candidate) K) [][]int64 {
	// Pair literals grouped by pair, in variable order
	users := make(map[K][]int64)
	order := make([]K, 0)
	for variable, domain := range domains {
		seen := make(map[K]bool)
		for _, candidate := range domain {
			pair := key(candidate)
			if seen[pair] {
				continue
			}
			seen[pair] = true

			if _, ok := users[pair]; !ok {
				order = append(order, pair)
			}
			users[pair] = append(users[pair], literals[variable][pair])
		}
	}

	clauses := make([][]int64, 0)
	for _, pair := range order {
		pairLiterals := users[pair]
		for i := range len(pairLiterals) - 1 {
			for j := i + 1; j < len(pairLiterals); j++ {
				clauses = append(clauses, []int64{-pairLiterals[i], -pairLiterals[j]})
			}
		}
	}
	return clauses
}
