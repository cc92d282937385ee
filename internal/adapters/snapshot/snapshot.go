// Package snapshot persists the panel's state between requests. A snapshot
// is one flat record per session key holding the three contracts plus the
// journey; backends are interchangeable blob stores.
package snapshot

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/guidepost/panel/internal/domain/contract"
	"github.com/guidepost/panel/internal/domain/journey"
)

// Snapshot is the serialized form of the contract store.
type Snapshot struct {
	CareRecommendation contract.CareRecommendation `json:"care_recommendation"`
	FinancialProfile   contract.FinancialProfile   `json:"financial_profile"`
	AdvisorAppointment contract.AdvisorAppointment `json:"advisor_appointment"`
	Journey            journey.Journey             `json:"journey"`
	SavedAt            time.Time                   `json:"saved_at"`
}

// Encode serializes a snapshot for storage.
func Encode(s *Snapshot) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Decode deserializes a stored snapshot. Unreadable data maps to ErrCorrupt,
// which callers treat as "no snapshot present". Older snapshots missing
// newer fields come back with documented defaults rather than failing.
func Decode(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	s.normalize()
	return &s, nil
}

// normalize fills defaults for fields absent from older schema versions.
func (s *Snapshot) normalize() {
	if s.CareRecommendation.SchemaVersion == "" {
		s.CareRecommendation.SchemaVersion = contract.SchemaVersion
	}
	if s.CareRecommendation.Status == "" {
		s.CareRecommendation.Status = contract.StatusNew
	}
	if s.CareRecommendation.NextStep == (contract.NextStep{}) && s.CareRecommendation.Status == contract.StatusNew {
		s.CareRecommendation.NextStep = contract.NewCareRecommendation(s.SavedAt).NextStep
	}
	if s.FinancialProfile.SchemaVersion == "" {
		s.FinancialProfile.SchemaVersion = contract.SchemaVersion
	}
	if s.FinancialProfile.Status == "" {
		s.FinancialProfile.Status = contract.StatusNew
	}
	if s.AdvisorAppointment.SchemaVersion == "" {
		s.AdvisorAppointment.SchemaVersion = contract.SchemaVersion
	}
	if s.AdvisorAppointment.Status == "" {
		s.AdvisorAppointment.Status = contract.StatusNew
	}
	if s.Journey.Completed == nil {
		s.Journey.Completed = make(map[string]bool)
	}
	if s.Journey.Unlocked == nil {
		s.Journey.Unlocked = make(map[string]bool)
		for _, p := range journey.Registry {
			if p.Prerequisite == "" {
				s.Journey.Unlocked[p.ID] = true
			}
		}
	}
	s.Journey.Repair()
}
