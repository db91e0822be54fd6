package model

import (
	"log"
	"sort"
)

type indexerImplementation struct {
	offsets []uint64 // offsets[v] is the number of candidates of the variables before v
}

func (indexer *indexerImplementation) Index(variable, candidate uint64) uint64 {
	if candidate >= indexer.offsets[variable+1]-indexer.offsets[variable] {
		log.Panicf("candidate %v is out of the domain of variable %v", candidate, variable)
	}
	return indexer.offsets[variable] + candidate + 1
}

func (indexer *indexerImplementation) Attributes(index uint64) (variable, candidate uint64) {
	if index == 0 || index > indexer.Size() {
		log.Panicf("index %v is out of range", index)
	}
	index = index - 1

	// First variable whose range ends after index
	variable = uint64(sort.Search(len(indexer.offsets)-1, func(i int) bool {
		return indexer.offsets[i+1] > index
	}))
	candidate = index - indexer.offsets[variable]

	return variable, candidate
}

func (indexer *indexerImplementation) Size() uint64 {
	return indexer.offsets[len(indexer.offsets)-1]
}
