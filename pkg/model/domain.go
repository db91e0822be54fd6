package model

import (
	"github.com/samber/lo"
)

// Tier is a relaxation level of the domain constraints; higher tiers accept more candidates
type Tier int

const (
	Strict            Tier = iota // Rejects unqualified, unavailable and room-mismatched candidates
	AllowUnqualified              // Accepts unqualified and unavailable instructors
	AllowRoomMismatch             // Accepts room-type mismatches
	Permissive                    // Accepts everything
)

var tiers = []Tier{Strict, AllowUnqualified, AllowRoomMismatch, Permissive}

func (tier Tier) String() string {
	switch tier {
	case Strict:
		return "strict"
	case AllowUnqualified:
		return "allow_unqualified_instructor"
	case AllowRoomMismatch:
		return "allow_room_type_mismatch"
	case Permissive:
		return "allow_unqualified_and_room_mismatch"
	default:
		return "unknown"
	}
}

func (tier Tier) allowsUnqualified() bool {
	return tier == AllowUnqualified || tier == Permissive
}

func (tier Tier) allowsRoomMismatch() bool {
	return tier == AllowRoomMismatch || tier == Permissive
}

type RejectionReason int

const (
	UnqualifiedInstructor RejectionReason = iota
	InstructorUnavailable
	RoomTypeMismatch
)

var rejectionReasons = []RejectionReason{UnqualifiedInstructor, InstructorUnavailable, RoomTypeMismatch}

func (reason RejectionReason) String() string {
	switch reason {
	case UnqualifiedInstructor:
		return "unqualified_instructor"
	case InstructorUnavailable:
		return "instructor_unavailable"
	case RoomTypeMismatch:
		return "room_type_mismatch"
	default:
		return "unknown"
	}
}

// Candidate is one possible value of a session variable
type Candidate struct {
	Timeslot   Timeslot
	Room       string
	Instructor string
}

type Domain []Candidate

// Two sessions in the same timeslot can share neither a room nor an instructor
type timeslotRoom struct {
	timeslot Timeslot
	room     string
}

type timeslotInstructor struct {
	timeslot   Timeslot
	instructor string
}

func (candidate Candidate) roomKey() timeslotRoom {
	return timeslotRoom{candidate.Timeslot, candidate.Room}
}

func (candidate Candidate) instructorKey() timeslotInstructor {
	return timeslotInstructor{candidate.Timeslot, candidate.Instructor}
}

// DomainStats is the bookkeeping of one variable's domain construction
type DomainStats struct {
	Rejections map[RejectionReason]uint64 // Counted while building the strict tier only
	Fallbacks  []Tier                     // Relaxed tiers that produced the domain, in the order applied
	Forced     bool                       // The domain was built permissively from the start
}

// FallbackNames renders the fallback history, naming a forced permissive build "force_permissive_initial"
func (stats DomainStats) FallbackNames() []string {
	return lo.Map(stats.Fallbacks, func(tier Tier, i int) string {
		if stats.Forced && i == 0 {
			return "force_permissive_initial"
		}
		return tier.String()
	})
}

type domainBuilder struct {
	input     ModelInput
	evaluator predicateEvaluator
}

func newDomainBuilder(input ModelInput) *domainBuilder {
	return &domainBuilder{
		input:     input,
		evaluator: newPredicateEvaluator(input),
	}
}

// Build tries the tiers in order until one yields candidates. With forcePermissive it builds the permissive tier directly.
func (builder *domainBuilder) Build(variable SessionVariable, forcePermissive bool) (Domain, DomainStats) {
	stats := DomainStats{Rejections: make(map[RejectionReason]uint64)}

	if forcePermissive {
		domain := builder.candidates(variable, Permissive, nil)
		if len(domain) > 0 {
			stats.Fallbacks = append(stats.Fallbacks, Permissive)
			stats.Forced = true
		}
		return domain, stats
	}

	domain := builder.candidates(variable, Strict, stats.Rejections)
	for _, tier := range tiers[1:] {
		if len(domain) > 0 {
			break
		}
		domain = builder.candidates(variable, tier, nil)
		if len(domain) > 0 {
			stats.Fallbacks = append(stats.Fallbacks, tier)
		}
	}
	return domain, stats
}

// BuildAll builds every variable's domain; domains and stats are indexed like variables
func (builder *domainBuilder) BuildAll(variables []SessionVariable, forcePermissive bool) ([]Domain, []DomainStats) {
	domains := make([]Domain, len(variables))
	stats := make([]DomainStats, len(variables))
	for i, variable := range variables {
		domains[i], stats[i] = builder.Build(variable, forcePermissive)
	}
	return domains, stats
}

// candidates enumerates timeslot, room and instructor in this nesting order. Each rejected combination is counted once
// in rejections (when given) under the first reason that applies.
func (builder *domainBuilder) candidates(variable SessionVariable, tier Tier, rejections map[RejectionReason]uint64) Domain {
	reject := func(reason RejectionReason) {
		if rejections != nil {
			rejections[reason]++
		}
	}

	domain := make(Domain, 0)
	for timeslot, timeslotValue := range builder.input.Timeslots {
		for room, roomValue := range builder.input.Rooms {
			roomSuits := builder.evaluator.RoomSuits(variable.Kind, uint64(room))

			for instructor, instructorValue := range builder.input.Instructors {
				if !tier.allowsUnqualified() && !builder.evaluator.Qualified(uint64(instructor), variable.CourseId) {
					reject(UnqualifiedInstructor)
					continue
				}
				if !tier.allowsUnqualified() && !builder.evaluator.Available(uint64(instructor), uint64(timeslot)) {
					reject(InstructorUnavailable)
					continue
				}
				if !tier.allowsRoomMismatch() && !roomSuits {
					reject(RoomTypeMismatch)
					continue
				}

				domain = append(domain, Candidate{
					Timeslot:   timeslotValue,
					Room:       roomValue.Id,
					Instructor: instructorValue.Id,
				})
			}
		}
	}
	return domain
}
