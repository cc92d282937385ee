package panel

import (
	"context"
	"fmt"
	"strings"

	"github.com/guidepost/panel/internal/domain/contract"
	"github.com/guidepost/panel/internal/domain/journey"
)

// SummaryStatusLocked marks a product the user cannot open yet.
const SummaryStatusLocked = "locked"

// Summary is the tile-sized view of one product that hubs render.
type Summary struct {
	ProductID   string `json:"product_id"`
	Status      string `json:"status"`
	Headline    string `json:"headline"`
	ProgressPct int    `json:"progress_pct"`
	Route       string `json:"route"`
}

// GetProductSummary builds the hub tile for a product. Locked products
// report the locked status with zero progress; unlocked ones reflect their
// contract's status and a headline derived from the published value.
func (p *Panel) GetProductSummary(ctx context.Context, productID string) (Summary, error) {
	p.ensureInit(ctx)
	p.mu.RLock()
	defer p.mu.RUnlock()

	prod, ok := journey.Lookup(productID)
	if !ok {
		return Summary{}, ErrUnknownProduct
	}

	s := Summary{
		ProductID: prod.ID,
		Route:     prod.Route,
	}
	if !p.jrny.Unlocked[prod.ID] {
		s.Status = SummaryStatusLocked
		s.Headline = fmt.Sprintf("Complete %s to unlock", prerequisiteName(prod))
		return s, nil
	}

	switch prod.ID {
	case journey.ProductCareNeeds:
		s.Status = string(p.rec.Status)
		s.ProgressPct = pct(p.rec.Confidence)
		s.Headline = recommendationHeadline(p.rec)
	case journey.ProductFinancialAssessment:
		s.Status = string(p.fin.Status)
		s.ProgressPct = pct(p.fin.Confidence)
		s.Headline = financialHeadline(p.fin)
	case journey.ProductAppointmentScheduler:
		s.Status = string(p.appt.Status)
		s.ProgressPct = p.appt.PrepProgress
		s.Headline = appointmentHeadline(p.appt)
	}
	return s, nil
}

func prerequisiteName(prod journey.Product) string {
	if pre, ok := journey.Lookup(prod.Prerequisite); ok {
		return pre.DisplayName
	}
	return "the previous step"
}

func pct(confidence float64) int {
	switch {
	case confidence <= 0:
		return 0
	case confidence >= 1:
		return 100
	default:
		return int(confidence * 100)
	}
}

func recommendationHeadline(rec contract.CareRecommendation) string {
	if !rec.Status.Published() || rec.Tier == contract.TierUnset {
		return "Tell us about your care needs"
	}
	label := strings.ReplaceAll(string(rec.Tier), "_", " ")
	return fmt.Sprintf("Recommended: %s care", label)
}

func financialHeadline(fin contract.FinancialProfile) string {
	if !fin.Status.Published() {
		return "Estimate what care will cost"
	}
	if fin.GapAmount > 0 {
		return fmt.Sprintf("Monthly gap of $%.0f to plan for", fin.GapAmount)
	}
	return fmt.Sprintf("Coverage at %.0f%% of estimated cost", fin.CoveragePercentage)
}

func appointmentHeadline(appt contract.AdvisorAppointment) string {
	if !appt.Status.Published() || !appt.Scheduled {
		return "Talk to an advisor"
	}
	return fmt.Sprintf("%s appointment on %s at %s", appt.Type, appt.Date, appt.Time)
}
