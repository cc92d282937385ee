package panel

import (
	"context"

	"github.com/guidepost/panel/internal/domain/contract"
	"github.com/guidepost/panel/internal/domain/eventlog"
	"github.com/guidepost/panel/internal/domain/journey"
)

// ensureInit lazily initializes the panel on first read. Read methods take
// the read lock afterwards; restore-on-first-touch needs the write lock.
func (p *Panel) ensureInit(ctx context.Context) {
	p.mu.RLock()
	ready := p.initialized
	p.mu.RUnlock()
	if ready {
		return
	}
	p.mu.Lock()
	_, _ = p.initLocked(ctx)
	p.mu.Unlock()
}

// GetCareRecommendation returns a copy of the published recommendation, or
// ok=false while the contract is still the default new-status placeholder.
// A half-populated value is never returned.
func (p *Panel) GetCareRecommendation(ctx context.Context) (contract.CareRecommendation, bool) {
	p.ensureInit(ctx)
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.rec.Status.Published() {
		return contract.CareRecommendation{}, false
	}
	return p.rec.Clone(), true
}

// GetFinancialProfile returns a copy of the published profile, or ok=false.
func (p *Panel) GetFinancialProfile(ctx context.Context) (contract.FinancialProfile, bool) {
	p.ensureInit(ctx)
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.fin.Status.Published() {
		return contract.FinancialProfile{}, false
	}
	return p.fin.Clone(), true
}

// GetAdvisorAppointment returns a copy of the published appointment, or
// ok=false.
func (p *Panel) GetAdvisorAppointment(ctx context.Context) (contract.AdvisorAppointment, bool) {
	p.ensureInit(ctx)
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.appt.Status.Published() {
		return contract.AdvisorAppointment{}, false
	}
	return p.appt.Clone(), true
}

// GetUnlockedProducts returns the unlocked product ids in step order.
func (p *Panel) GetUnlockedProducts(ctx context.Context) []string {
	p.ensureInit(ctx)
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.jrny.UnlockedList()
}

// IsProductUnlocked reports whether a product is accessible.
func (p *Panel) IsProductUnlocked(ctx context.Context, productID string) bool {
	p.ensureInit(ctx)
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.jrny.Unlocked[productID]
}

// GetRecommendedNextProduct returns the product the user should do next,
// or empty when everything is complete.
func (p *Panel) GetRecommendedNextProduct(ctx context.Context) string {
	p.ensureInit(ctx)
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.jrny.RecommendedNext
}

// GetJourneyPhase returns the coarse phase for hub rendering.
func (p *Panel) GetJourneyPhase(ctx context.Context) journey.Phase {
	p.ensureInit(ctx)
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.jrny.Phase(p.statusesLocked())
}

// GetJourney returns a copy of the full journey entity.
func (p *Panel) GetJourney(ctx context.Context) journey.Journey {
	p.ensureInit(ctx)
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.jrny.Clone()
}

// Events returns the audit log, oldest first.
func (p *Panel) Events(ctx context.Context) []eventlog.Event {
	p.ensureInit(ctx)
	return p.log.Events()
}
