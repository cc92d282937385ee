// Package contract contains the versioned data contracts shared between
// products. Contracts are replace-only records: a producing product publishes
// a complete value and readers receive copies, never the live structure.
package contract

import "time"

// SchemaVersion is stamped on every contract written by this build. Older
// snapshots carrying earlier versions deserialize with documented defaults.
const SchemaVersion = "1.2"

// Tier is the care-level category produced by the care-recommendation product.
type Tier string

const (
	TierUnset          Tier = ""
	TierIndependent    Tier = "independent"
	TierInHome         Tier = "in_home"
	TierAssistedLiving Tier = "assisted_living"
	TierMemoryCare     Tier = "memory_care"
)

// Valid reports whether t is one of the known tiers. The unset tier is valid
// only on a contract that has not been published yet.
func (t Tier) Valid() bool {
	switch t {
	case TierIndependent, TierInHome, TierAssistedLiving, TierMemoryCare:
		return true
	}
	return false
}

// Status is the lifecycle state of a contract.
type Status string

const (
	StatusNew         Status = "new"
	StatusInProgress  Status = "in_progress"
	StatusComplete    Status = "complete"
	StatusNeedsUpdate Status = "needs_update"
)

// Published reports whether the contract has ever been written by its
// producing product. A status of "new" means the default placeholder only.
func (s Status) Published() bool {
	return s != StatusNew && s != ""
}

// FlagTone classifies the severity of an advisory flag.
type FlagTone string

const (
	ToneInfo     FlagTone = "info"
	ToneWarning  FlagTone = "warning"
	ToneCritical FlagTone = "critical"
)

// AppointmentType is the modality of an advisor appointment.
type AppointmentType string

const (
	AppointmentPhone    AppointmentType = "phone"
	AppointmentVideo    AppointmentType = "video"
	AppointmentInPerson AppointmentType = "in_person"
)

// Flag is an advisory raised by the recommendation engine, ordered by
// priority within a recommendation.
type Flag struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	Description string   `json:"description"`
	Tone        FlagTone `json:"tone"`
	Priority    int      `json:"priority"`
	CTA         string   `json:"cta,omitempty"`
}

// TierScore is one entry of the ranked tier list, highest score first.
type TierScore struct {
	Tier  Tier    `json:"tier"`
	Score float64 `json:"score"`
}

// NextStep points the user at the suggested downstream product.
type NextStep struct {
	Product string `json:"product"`
	Route   string `json:"route"`
	Reason  string `json:"reason"`
}

// CareRecommendation is published by the care-needs questionnaire once
// scoring completes. Until then the store holds the default value returned
// by NewCareRecommendation.
type CareRecommendation struct {
	Tier          Tier        `json:"tier"`
	TierScore     float64     `json:"tier_score"`
	TierRankings  []TierScore `json:"tier_rankings"`
	Confidence    float64     `json:"confidence"`
	Flags         []Flag      `json:"flags"`
	Rationale     []string    `json:"rationale"`
	NextStep      NextStep    `json:"next_step"`
	GeneratedAt   time.Time   `json:"generated_at"`
	SchemaVersion string      `json:"schema_version"`
	Status        Status      `json:"status"`
}

// FinancialProfile is published by the financial-assessment product. It may
// read CareRecommendation.Tier as an input but never mutates it.
type FinancialProfile struct {
	EstimatedMonthlyCost float64   `json:"estimated_monthly_cost"`
	CoveragePercentage   float64   `json:"coverage_percentage"`
	GapAmount            float64   `json:"gap_amount"`
	RunwayMonths         int       `json:"runway_months"`
	Confidence           float64   `json:"confidence"`
	GeneratedAt          time.Time `json:"generated_at"`
	SchemaVersion        string    `json:"schema_version"`
	Status               Status    `json:"status"`
}

// AdvisorAppointment is published by the scheduler. The prep fields are the
// one documented partial-update path: an optional prep step mutates them
// incrementally after the initial publish, through UpdatePrepProgress only.
type AdvisorAppointment struct {
	Scheduled      bool            `json:"scheduled"`
	Date           string          `json:"date"`
	Time           string          `json:"time"`
	Type           AppointmentType `json:"type"`
	ConfirmationID string          `json:"confirmation_id"`

	PrepSectionsComplete []string `json:"prep_sections_complete"`
	PrepProgress         int      `json:"prep_progress"`

	GeneratedAt   time.Time `json:"generated_at"`
	SchemaVersion string    `json:"schema_version"`
	Status        Status    `json:"status"`
}

// NewCareRecommendation returns the default placeholder created at store
// initialization: status new, all scoring fields zero, and NextStep pointing
// back at the producing product so a fresh session has somewhere to start.
func NewCareRecommendation(now time.Time) CareRecommendation {
	return CareRecommendation{
		NextStep: NextStep{
			Product: "care_needs",
			Route:   "/care-needs",
			Reason:  "Answer the care questionnaire to get a recommendation.",
		},
		GeneratedAt:   now,
		SchemaVersion: SchemaVersion,
		Status:        StatusNew,
	}
}

// NewFinancialProfile returns the default placeholder.
func NewFinancialProfile(now time.Time) FinancialProfile {
	return FinancialProfile{
		GeneratedAt:   now,
		SchemaVersion: SchemaVersion,
		Status:        StatusNew,
	}
}

// NewAdvisorAppointment returns the default placeholder.
func NewAdvisorAppointment(now time.Time) AdvisorAppointment {
	return AdvisorAppointment{
		GeneratedAt:   now,
		SchemaVersion: SchemaVersion,
		Status:        StatusNew,
	}
}

// Clone returns a deep copy so callers cannot mutate store-owned slices.
func (c CareRecommendation) Clone() CareRecommendation {
	out := c
	if c.TierRankings != nil {
		out.TierRankings = append([]TierScore(nil), c.TierRankings...)
	}
	if c.Flags != nil {
		out.Flags = append([]Flag(nil), c.Flags...)
	}
	if c.Rationale != nil {
		out.Rationale = append([]string(nil), c.Rationale...)
	}
	return out
}

// Clone returns a copy. FinancialProfile holds no reference types but the
// method keeps the read path uniform across contracts.
func (p FinancialProfile) Clone() FinancialProfile {
	return p
}

// Clone returns a deep copy.
func (a AdvisorAppointment) Clone() AdvisorAppointment {
	out := a
	if a.PrepSectionsComplete != nil {
		out.PrepSectionsComplete = append([]string(nil), a.PrepSectionsComplete...)
	}
	return out
}
