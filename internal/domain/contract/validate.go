package contract

import (
	"errors"
	"fmt"
)

// Sentinel kinds for contract validation. Callers use errors.Is to surface
// these as recoverable form errors; a contract failing validation is never
// written, not even partially.
var (
	ErrMissingTier       = errors.New("recommendation tier is required")
	ErrInvalidTier       = errors.New("unknown recommendation tier")
	ErrInvalidConfidence = errors.New("confidence must be between 0 and 1")
	ErrInvalidStatus     = errors.New("invalid contract status")
	ErrInvalidRunway     = errors.New("runway months must not be negative")
	ErrMissingSchedule   = errors.New("appointment date and time are required")
	ErrInvalidType       = errors.New("unknown appointment type")
	ErrInvalidProgress   = errors.New("prep progress must be between 0 and 100")
	ErrEmptySection      = errors.New("prep section id must not be empty")
)

func validStatus(s Status) bool {
	switch s {
	case StatusNew, StatusInProgress, StatusComplete, StatusNeedsUpdate:
		return true
	}
	return false
}

// Validate checks a recommendation about to be published. Published values
// must carry a known tier and a confidence fraction; the default new-status
// placeholder never goes through this path.
func (c CareRecommendation) Validate() error {
	if !validStatus(c.Status) || c.Status == StatusNew {
		return fmt.Errorf("care recommendation: %w: %q", ErrInvalidStatus, c.Status)
	}
	if c.Tier == TierUnset {
		return fmt.Errorf("care recommendation: %w", ErrMissingTier)
	}
	if !c.Tier.Valid() {
		return fmt.Errorf("care recommendation: %w: %q", ErrInvalidTier, c.Tier)
	}
	if c.Confidence < 0 || c.Confidence > 1 {
		return fmt.Errorf("care recommendation: %w: %v", ErrInvalidConfidence, c.Confidence)
	}
	for _, r := range c.TierRankings {
		if !r.Tier.Valid() {
			return fmt.Errorf("care recommendation rankings: %w: %q", ErrInvalidTier, r.Tier)
		}
	}
	return nil
}

// Validate checks a financial profile about to be published.
func (p FinancialProfile) Validate() error {
	if !validStatus(p.Status) || p.Status == StatusNew {
		return fmt.Errorf("financial profile: %w: %q", ErrInvalidStatus, p.Status)
	}
	if p.Confidence < 0 || p.Confidence > 1 {
		return fmt.Errorf("financial profile: %w: %v", ErrInvalidConfidence, p.Confidence)
	}
	if p.RunwayMonths < 0 {
		return fmt.Errorf("financial profile: %w: %d", ErrInvalidRunway, p.RunwayMonths)
	}
	return nil
}

// Validate checks an appointment about to be published. Prep fields are not
// validated here; they only change through the dedicated partial update.
func (a AdvisorAppointment) Validate() error {
	if !validStatus(a.Status) || a.Status == StatusNew {
		return fmt.Errorf("advisor appointment: %w: %q", ErrInvalidStatus, a.Status)
	}
	if a.Scheduled {
		if a.Date == "" || a.Time == "" {
			return fmt.Errorf("advisor appointment: %w", ErrMissingSchedule)
		}
		switch a.Type {
		case AppointmentPhone, AppointmentVideo, AppointmentInPerson:
		default:
			return fmt.Errorf("advisor appointment: %w: %q", ErrInvalidType, a.Type)
		}
	}
	return nil
}

// ValidatePrepUpdate checks the arguments of the partial prep update.
func ValidatePrepUpdate(sections []string, progress int) error {
	if progress < 0 || progress > 100 {
		return fmt.Errorf("prep update: %w: %d", ErrInvalidProgress, progress)
	}
	for _, s := range sections {
		if s == "" {
			return fmt.Errorf("prep update: %w", ErrEmptySection)
		}
	}
	return nil
}
