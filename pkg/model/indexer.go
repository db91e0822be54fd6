package model

// indexer interface is design to give a unique SAT literal to a (variable, candidate) pair and vice versa
type indexer interface {
	// Returns a unique index (starting at 1) to the candidate-th value of variable's domain
	Index(variable, candidate uint64) uint64
	// Returns the variable and candidate from a unique index
	Attributes(index uint64) (variable uint64, candidate uint64)
	// Returns the number of indexed pairs
	Size() uint64
}

func newIndexer(domains []Domain) indexer {
	offsets := make([]uint64, len(domains)+1)
	for variable, domain := range domains {
		offsets[variable+1] = offsets[variable] + uint64(len(domain))
	}
	return &indexerImplementation{offsets: offsets}
}
