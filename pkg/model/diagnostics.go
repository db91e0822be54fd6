package model

import (
	"fmt"
	"slices"
	"strings"

	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/samber/lo"
)

const (
	smallestDomainsListed   = 20
	smallestDomainsDetailed = 10
	emptyDomainsListed      = 20
	emptyDomainsDetailed    = 10
	samplesPerDomain        = 5
)

// Report describes why a search found no timetable
type Report struct {
	Variables       int
	EmptyDomains    []VariableStats // Variables whose built domain is empty
	SmallestDomains []VariableStats // Up to twenty variables, smallest domains first
	Shortfalls      []CapacityShortfall

	// Outcome of the permissive retry, empty until one is attempted
	PermissiveOutcome string
}

type VariableStats struct {
	Variable string
	Size     int
	Samples  []Candidate // Up to five candidates, filled for the ten smallest domains only
	Stats    DomainStats

	index int
}

// CapacityShortfall proves infeasibility: a maximum matching of variables against distinct resource pairs of their
// domains leaves some variable unmatched
type CapacityShortfall struct {
	Resource string
	Matched  int
	Required int
}

func newReport(variables []SessionVariable, domains []Domain, stats []DomainStats) *Report {
	report := &Report{Variables: len(variables)}

	all := lo.Map(variables, func(variable SessionVariable, i int) VariableStats {
		return VariableStats{Variable: variable.Id(), Size: len(domains[i]), Stats: stats[i], index: i}
	})

	report.EmptyDomains = lo.Filter(all, func(value VariableStats, _ int) bool { return value.Size == 0 })

	slices.SortStableFunc(all, func(value1, value2 VariableStats) int { return value1.Size - value2.Size })
	smallest := all[:min(len(all), smallestDomainsListed)]
	for i := range smallest[:min(len(smallest), smallestDomainsDetailed)] {
		domain := domains[smallest[i].index]
		smallest[i].Samples = slices.Clone(domain[:min(len(domain), samplesPerDomain)])
	}
	report.SmallestDomains = smallest

	report.Shortfalls = capacityShortfalls(domains)
	return report
}

// capacityShortfalls matches variables against the (timeslot, room) and (timeslot, instructor) pairs available in
// their domains; each pair can host a single session. Variables with empty domains are left out.
func capacityShortfalls(domains []Domain) []CapacityShortfall {
	resources := []struct {
		name string
		key  func(candidate Candidate) any
	}{
		{"timeslot-room", func(candidate Candidate) any { return candidate.roomKey() }},
		{"timeslot-instructor", func(candidate Candidate) any { return candidate.instructorKey() }},
	}

	shortfalls := make([]CapacityShortfall, 0)
	for _, resource := range resources {
		matched, required, err := largestMatching(domains, resource.key)
		if err != nil {
			continue
		}
		if matched < required {
			shortfalls = append(shortfalls, CapacityShortfall{Resource: resource.name, Matched: matched, Required: required})
		}
	}
	return shortfalls
}

func largestMatching(domains []Domain, key func(candidate Candidate) any) (matched int, required int, err error) {
	relationships := make(map[int]map[any]bool)
	keys := make([]any, 0)
	seen := make(map[any]bool)

	variables := make([]any, 0, len(domains))
	for variable, domain := range domains {
		if len(domain) == 0 {
			continue
		}
		variables = append(variables, variable)
		relationships[variable] = make(map[any]bool)
		for _, candidate := range domain {
			resource := key(candidate)
			relationships[variable][resource] = true
			if !seen[resource] {
				seen[resource] = true
				keys = append(keys, resource)
			}
		}
	}

	if len(variables) == 0 {
		return 0, 0, nil
	}

	neighbors := func(variable any, resource any) (bool, error) {
		return relationships[variable.(int)][resource], nil
	}

	graph, err := bipartitegraph.NewBipartiteGraph(variables, keys, neighbors)
	if err != nil {
		return 0, 0, err
	}
	return len(graph.LargestMatching()), len(variables), nil
}

func (candidate Candidate) String() string {
	return fmt.Sprintf("{%v %v-%v room=%v instructor=%v}",
		candidate.Timeslot.Day, candidate.Timeslot.StartTime, candidate.Timeslot.EndTime, candidate.Room, candidate.Instructor)
}

func (report *Report) String() string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "No valid timetable found. variables=%v, zero_domain_count=%v", report.Variables, len(report.EmptyDomains))

	if len(report.EmptyDomains) > 0 {
		names := lo.Map(report.EmptyDomains[:min(len(report.EmptyDomains), emptyDomainsListed)], func(value VariableStats, _ int) string {
			return value.Variable
		})
		fmt.Fprintf(&builder, "\nVariables with empty domain (first %v): %v", emptyDomainsListed, strings.Join(names, ", "))

		for _, value := range report.EmptyDomains[:min(len(report.EmptyDomains), emptyDomainsDetailed)] {
			if histogram := formatRejections(value.Stats.Rejections); histogram != "" {
				fmt.Fprintf(&builder, "\n  %v rejection_reasons: %v", value.Variable, histogram)
			}
			if fallbacks := value.Stats.FallbackNames(); len(fallbacks) > 0 {
				fmt.Fprintf(&builder, "\n  %v fallbacks_used: %v", value.Variable, strings.Join(fallbacks, ", "))
			}
		}
	}

	sizes := lo.Map(report.SmallestDomains, func(value VariableStats, _ int) string {
		return fmt.Sprintf("%v:%v", value.Variable, value.Size)
	})
	fmt.Fprintf(&builder, "\nSmallest domain sizes (var:size): %v", strings.Join(sizes, ", "))

	detailed := report.SmallestDomains[:min(len(report.SmallestDomains), smallestDomainsDetailed)]
	builder.WriteString("\nSample domains (up to 5 values each) for smallest-domain vars:")
	for _, value := range detailed {
		samples := lo.Map(value.Samples, func(candidate Candidate, _ int) string { return candidate.String() })
		fmt.Fprintf(&builder, "\n  %v -> [%v]", value.Variable, strings.Join(samples, ", "))
	}

	builder.WriteString("\nFallbacks used (smallest-domain vars):")
	for _, value := range detailed {
		if fallbacks := value.Stats.FallbackNames(); len(fallbacks) > 0 {
			fmt.Fprintf(&builder, "\n  %v: %v", value.Variable, strings.Join(fallbacks, ", "))
		}
	}

	for _, shortfall := range report.Shortfalls {
		fmt.Fprintf(&builder, "\nCapacity shortfall: at most %v of %v sessions can hold a distinct %v pair", shortfall.Matched, shortfall.Required, shortfall.Resource)
	}

	if report.PermissiveOutcome != "" {
		fmt.Fprintf(&builder, "\n\n%v", report.PermissiveOutcome)
	}

	return builder.String()
}

func formatRejections(rejections map[RejectionReason]uint64) string {
	counted := lo.Filter(rejectionReasons, func(reason RejectionReason, _ int) bool { return rejections[reason] > 0 })
	return strings.Join(lo.Map(counted, func(reason RejectionReason, _ int) string {
		return fmt.Sprintf("%v=%v", reason, rejections[reason])
	}), ", ")
}
