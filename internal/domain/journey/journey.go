// Package journey derives which products are unlocked and which one is
// recommended next from the current contract state. The derivation is a pure
// function; the Journey entity itself is owned and persisted by the panel.
package journey

import (
	"sort"

	"github.com/guidepost/panel/internal/domain/contract"
)

// Product ids tracked by the panel.
const (
	ProductCareNeeds            = "care_needs"
	ProductFinancialAssessment  = "financial_assessment"
	ProductAppointmentScheduler = "appointment_scheduler"
)

// Phase is the coarse journey phase surfaced to hubs.
type Phase string

const (
	PhaseGettingStarted Phase = "getting_started"
	PhaseInProgress     Phase = "in_progress"
	PhaseComplete       Phase = "complete"
)

// Product describes one step of the guided journey. Prerequisite names the
// product whose contract must reach complete before this one unlocks; empty
// means the product is the entry point and is always unlocked.
type Product struct {
	ID           string
	StepOrder    int
	Route        string
	DisplayName  string
	Prerequisite string
}

// Registry is the fixed product catalog, in step order.
var Registry = []Product{
	{
		ID:          ProductCareNeeds,
		StepOrder:   1,
		Route:       "/care-needs",
		DisplayName: "Care Needs Questionnaire",
	},
	{
		ID:           ProductFinancialAssessment,
		StepOrder:    2,
		Route:        "/financial-assessment",
		DisplayName:  "Financial Assessment",
		Prerequisite: ProductCareNeeds,
	},
	{
		ID:           ProductAppointmentScheduler,
		StepOrder:    3,
		Route:        "/schedule",
		DisplayName:  "Advisor Appointment",
		Prerequisite: ProductFinancialAssessment,
	},
}

// Lookup returns the registry entry for a product id.
func Lookup(id string) (Product, bool) {
	for _, p := range Registry {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// Known reports whether id names a tracked product.
func Known(id string) bool {
	_, ok := Lookup(id)
	return ok
}

// Journey is the derived unlock/completion state for one session.
// Completed is always a subset of Unlocked; Unlocked only grows.
type Journey struct {
	Completed       map[string]bool `json:"completed_products"`
	Unlocked        map[string]bool `json:"unlocked_products"`
	RecommendedNext string          `json:"recommended_next"`
}

// New returns a fresh journey with only the entry-point product unlocked.
func New() Journey {
	j := Journey{
		Completed: make(map[string]bool),
		Unlocked:  make(map[string]bool),
	}
	for _, p := range Registry {
		if p.Prerequisite == "" {
			j.Unlocked[p.ID] = true
		}
	}
	j.RecommendedNext = recommendNext(j)
	return j
}

// Clone returns a deep copy so readers cannot mutate panel-owned maps.
func (j Journey) Clone() Journey {
	out := Journey{
		Completed:       make(map[string]bool, len(j.Completed)),
		Unlocked:        make(map[string]bool, len(j.Unlocked)),
		RecommendedNext: j.RecommendedNext,
	}
	for id := range j.Completed {
		out.Completed[id] = true
	}
	for id := range j.Unlocked {
		out.Unlocked[id] = true
	}
	return out
}

// Repair restores the completed-subset-of-unlocked invariant by unioning
// completed into unlocked. Silently fixing is cheaper than breaking
// navigation for a live user, so this never reports an error.
func (j *Journey) Repair() {
	for id := range j.Completed {
		j.Unlocked[id] = true
	}
}

// UnlockedList returns the unlocked product ids sorted by step order.
func (j Journey) UnlockedList() []string {
	ids := make([]string, 0, len(j.Unlocked))
	for id := range j.Unlocked {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(a, b int) bool {
		pa, _ := Lookup(ids[a])
		pb, _ := Lookup(ids[b])
		return pa.StepOrder < pb.StepOrder
	})
	return ids
}

// Phase reports the coarse journey phase. A product counts as done when it
// was explicitly marked complete or its produced contract reached complete.
func (j Journey) Phase(statuses ContractStatuses) Phase {
	done := 0
	for _, p := range Registry {
		if j.done(p.ID, statuses) {
			done++
		}
	}
	switch done {
	case 0:
		return PhaseGettingStarted
	case len(Registry):
		return PhaseComplete
	default:
		return PhaseInProgress
	}
}

func (j Journey) done(id string, statuses ContractStatuses) bool {
	return j.Completed[id] || statuses[id] == contract.StatusComplete
}

// ContractStatuses is the slice of contract state the state machine reads:
// the status of each product's produced contract, keyed by product id.
type ContractStatuses map[string]contract.Status

// Recompute applies the unlock rules to prev and returns the next journey.
// Unlock rules, in order: the entry point is always unlocked; a product
// unlocks the instant its prerequisite's contract reaches complete; unlocks
// already present in prev are never removed. RecommendedNext is the
// lowest-step product whose prerequisite is satisfied and which is not yet
// completed, or empty when everything is done.
func Recompute(prev Journey, statuses ContractStatuses) Journey {
	next := prev.Clone()

	for _, p := range Registry {
		if p.Prerequisite == "" {
			next.Unlocked[p.ID] = true
			continue
		}
		if statuses[p.Prerequisite] == contract.StatusComplete {
			next.Unlocked[p.ID] = true
		}
	}

	next.Repair()
	next.RecommendedNext = recommendNextWith(next, statuses)
	return next
}

func recommendNext(j Journey) string {
	return recommendNextWith(j, nil)
}

// recommendNextWith walks the registry in step order and returns the first
// product that is not done and whose prerequisite is satisfied. Force
// unlocks deliberately do not influence the recommendation.
func recommendNextWith(j Journey, statuses ContractStatuses) string {
	for _, p := range Registry {
		if j.done(p.ID, statuses) {
			continue
		}
		if p.Prerequisite == "" || statuses[p.Prerequisite] == contract.StatusComplete {
			return p.ID
		}
	}
	return ""
}
