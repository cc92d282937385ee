// Package panel implements the intelligence panel: the single authoritative
// store for the cross-product contracts, the journey state, the event log,
// and the bus notifications derived from every mutation. One Panel exists
// per user session; sessions never share state.
package panel

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/guidepost/panel/internal/adapters/snapshot"
	"github.com/guidepost/panel/internal/bus"
	"github.com/guidepost/panel/internal/domain/contract"
	"github.com/guidepost/panel/internal/domain/eventlog"
	"github.com/guidepost/panel/internal/domain/journey"
	"github.com/guidepost/panel/pkg/logger"
	"github.com/guidepost/panel/pkg/metrics"
)

// InitOutcome is the explicit result of Initialize. The save decision after
// initialization branches on this tag, never on whether a snapshot happens
// to be on disk at save time: restoring and creating defaults are mutually
// exclusive outcomes of one call's own control flow.
type InitOutcome int

const (
	// InitAlready means the panel was initialized earlier in this process.
	InitAlready InitOutcome = iota
	// InitCreated means fresh defaults were created and persisted.
	InitCreated
	// InitRestored means a prior snapshot was restored; nothing was saved.
	InitRestored
)

// String returns the outcome name for logs.
func (o InitOutcome) String() string {
	switch o {
	case InitCreated:
		return "created"
	case InitRestored:
		return "restored"
	default:
		return "already_initialized"
	}
}

// Panel is the contract store. All cross-product reads and writes go through
// it; no other component holds a writable reference to the contracts or the
// journey. Methods are safe for concurrent use, although within one session
// callers are expected to run one operation at a time.
type Panel struct {
	mu sync.RWMutex

	rec  contract.CareRecommendation
	fin  contract.FinancialProfile
	appt contract.AdvisorAppointment
	jrny journey.Journey

	log   *eventlog.Log
	bus   *bus.Bus
	store snapshot.Store

	sessionKey  string
	initialized bool
	now         func() time.Time
	logger      logger.Logger
}

// New constructs an uninitialized panel. Callers normally let the first
// operation initialize it, or call Initialize explicitly.
func New(opts ...Option) *Panel {
	p := &Panel{
		store:      snapshot.NewMemoryStore(),
		sessionKey: "default",
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.Get()
	}
	if p.bus == nil {
		p.bus = bus.New(bus.WithLogger(p.logger))
	}
	if p.log == nil {
		p.log = eventlog.New()
	}
	return p
}

// Bus returns the panel's event bus for listener registration.
func (p *Panel) Bus() *bus.Bus {
	return p.bus
}

// SessionKey returns the session this panel persists under.
func (p *Panel) SessionKey() string {
	return p.sessionKey
}

// Initialize is idempotent. On first call it restores the prior snapshot if
// one exists, otherwise creates all entities in their default state and
// persists that default snapshot. A successful restore never triggers a
// save: saving here would overwrite the restored, possibly advanced state
// with defaults computed before the restore was observed.
func (p *Panel) Initialize(ctx context.Context) (InitOutcome, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.initLocked(ctx)
}

func (p *Panel) initLocked(ctx context.Context) (InitOutcome, error) {
	if p.initialized {
		return InitAlready, nil
	}

	snap, err := p.store.Load(ctx, p.sessionKey)
	if err == nil {
		p.rec = snap.CareRecommendation
		p.fin = snap.FinancialProfile
		p.appt = snap.AdvisorAppointment
		p.jrny = snap.Journey
		p.jrny.Repair()
		p.initialized = true
		metrics.RecordSnapshotRestore()
		p.logger.Debug(ctx, "session restored from snapshot",
			logger.String("session", p.sessionKey),
		)
		return InitRestored, nil
	}

	now := p.now()
	p.rec = contract.NewCareRecommendation(now)
	p.fin = contract.NewFinancialProfile(now)
	p.appt = contract.NewAdvisorAppointment(now)
	p.jrny = journey.New()
	p.initialized = true
	metrics.RecordSnapshotCreate()

	switch {
	case errors.Is(err, snapshot.ErrNotFound):
		// Fresh session: persist the defaults immediately so the next
		// request restores instead of re-creating.
		p.persistLocked(ctx)
	case errors.Is(err, snapshot.ErrCorrupt):
		metrics.RecordSnapshotCorrupt()
		p.logger.Warn(ctx, "discarding unreadable snapshot",
			logger.String("session", p.sessionKey),
			logger.Error(err),
		)
		p.persistLocked(ctx)
	default:
		// Transient load failure. Run on defaults but do not save: the
		// stored snapshot may still be good and must not be clobbered.
		p.logger.Error(ctx, "snapshot load failed; running on defaults",
			logger.String("session", p.sessionKey),
			logger.Error(err),
		)
	}
	return InitCreated, nil
}

// persistLocked serializes current state to the snapshot store. Failures are
// absorbed: persistence problems degrade durability, never availability.
// Must be called with p.mu held.
func (p *Panel) persistLocked(ctx context.Context) {
	snap := &snapshot.Snapshot{
		CareRecommendation: p.rec.Clone(),
		FinancialProfile:   p.fin.Clone(),
		AdvisorAppointment: p.appt.Clone(),
		Journey:            p.jrny.Clone(),
		SavedAt:            p.now(),
	}

	start := time.Now()
	if err := p.store.Save(ctx, p.sessionKey, snap); err != nil {
		metrics.RecordSnapshotFailure()
		p.logger.Error(ctx, "snapshot save failed",
			logger.String("session", p.sessionKey),
			logger.Error(err),
		)
		return
	}
	metrics.RecordSnapshotSave()
	metrics.RecordSnapshotSaveLatency(float64(time.Since(start).Nanoseconds()) / 1e6)
}

// statusesLocked maps each product to the status of the contract it
// produces. Input to the journey state machine.
func (p *Panel) statusesLocked() journey.ContractStatuses {
	return journey.ContractStatuses{
		journey.ProductCareNeeds:            p.rec.Status,
		journey.ProductFinancialAssessment:  p.fin.Status,
		journey.ProductAppointmentScheduler: p.appt.Status,
	}
}

// afterMutationLocked runs the fixed post-write pipeline: append the event,
// recompute the journey (recording any new unlocks), notify the bus, and
// save. Every step runs even when an earlier one fails; only validation,
// which happens before the write, can reject a mutation.
func (p *Panel) afterMutationLocked(ctx context.Context, eventType string, payload map[string]any) {
	now := p.now()
	p.log.Append(eventType, now, payload)

	before := p.jrny
	p.jrny = journey.Recompute(p.jrny, p.statusesLocked())
	for _, id := range p.jrny.UnlockedList() {
		if before.Unlocked[id] {
			continue
		}
		unlockPayload := map[string]any{"product_id": id, "status": "unlocked"}
		p.log.Append(eventlog.TypeJourneyUnlocked, now, unlockPayload)
		p.bus.Emit(ctx, eventlog.TypeJourneyUnlocked, unlockPayload)
		metrics.RecordProductUnlock(id)
	}

	p.bus.Emit(ctx, eventType, payload)
	metrics.UpdateEventLogSize(p.log.Len())
	p.persistLocked(ctx)
}

// PublishCareRecommendation replaces the care recommendation wholesale.
// Partial patches do not exist: the scoring engine always publishes a
// complete value.
func (p *Panel) PublishCareRecommendation(ctx context.Context, rec contract.CareRecommendation) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := p.initLocked(ctx); err != nil {
		return err
	}

	p.stampRec(&rec)
	if err := rec.Validate(); err != nil {
		metrics.RecordPublishError(journey.ProductCareNeeds)
		return err
	}

	p.rec = rec.Clone()
	metrics.RecordContractPublish(journey.ProductCareNeeds)
	metrics.UpdateContractConfidence(journey.ProductCareNeeds, rec.Confidence)
	p.afterMutationLocked(ctx, eventlog.TypeRecommendationUpdated, map[string]any{
		"product_id": journey.ProductCareNeeds,
		"status":     string(rec.Status),
		"tier":       string(rec.Tier),
	})
	return nil
}

// PublishFinancialProfile replaces the financial profile wholesale.
func (p *Panel) PublishFinancialProfile(ctx context.Context, fin contract.FinancialProfile) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := p.initLocked(ctx); err != nil {
		return err
	}

	p.stampFin(&fin)
	if err := fin.Validate(); err != nil {
		metrics.RecordPublishError(journey.ProductFinancialAssessment)
		return err
	}

	p.fin = fin.Clone()
	metrics.RecordContractPublish(journey.ProductFinancialAssessment)
	metrics.UpdateContractConfidence(journey.ProductFinancialAssessment, fin.Confidence)
	p.afterMutationLocked(ctx, eventlog.TypeFinancialUpdated, map[string]any{
		"product_id": journey.ProductFinancialAssessment,
		"status":     string(fin.Status),
	})
	return nil
}

// PublishAppointment replaces the appointment wholesale. A missing
// confirmation id gets a fresh one; prep fields are carried over from the
// stored value so a re-publish never silently resets prep progress.
func (p *Panel) PublishAppointment(ctx context.Context, appt contract.AdvisorAppointment) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := p.initLocked(ctx); err != nil {
		return err
	}

	p.stampAppt(&appt)
	if err := appt.Validate(); err != nil {
		metrics.RecordPublishError(journey.ProductAppointmentScheduler)
		return err
	}
	if appt.ConfirmationID == "" {
		appt.ConfirmationID = uuid.NewString()
	}
	if appt.PrepSectionsComplete == nil && appt.PrepProgress == 0 {
		appt.PrepSectionsComplete = append([]string(nil), p.appt.PrepSectionsComplete...)
		appt.PrepProgress = p.appt.PrepProgress
	}

	p.appt = appt.Clone()
	metrics.RecordContractPublish(journey.ProductAppointmentScheduler)
	p.afterMutationLocked(ctx, eventlog.TypeAppointmentUpdated, map[string]any{
		"product_id":      journey.ProductAppointmentScheduler,
		"status":          string(appt.Status),
		"confirmation_id": appt.ConfirmationID,
	})
	return nil
}

// UpdatePrepProgress is the one documented partial update: it mutates only
// the appointment's prep-tracking fields. Scheduling fields, including the
// Scheduled flag, are untouched.
func (p *Panel) UpdatePrepProgress(ctx context.Context, sections []string, progress int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := p.initLocked(ctx); err != nil {
		return err
	}

	if err := contract.ValidatePrepUpdate(sections, progress); err != nil {
		metrics.RecordPublishError(journey.ProductAppointmentScheduler)
		return err
	}

	p.appt.PrepSectionsComplete = append([]string(nil), sections...)
	p.appt.PrepProgress = progress
	p.appt.GeneratedAt = p.now()
	metrics.RecordPrepUpdate()
	p.afterMutationLocked(ctx, eventlog.TypeAppointmentUpdated, map[string]any{
		"product_id":    journey.ProductAppointmentScheduler,
		"status":        string(p.appt.Status),
		"prep_progress": progress,
	})
	return nil
}

// MarkProductComplete records that the user finished a product. Idempotent.
// Unlocking downstream products is the state machine's job, driven by
// contract status; completion marking alone never unlocks anything beyond
// the invariant repair. That repair runs inside the post-write pipeline so
// completing a still-locked product emits its unlock like any other.
func (p *Panel) MarkProductComplete(ctx context.Context, productID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := p.initLocked(ctx); err != nil {
		return err
	}
	if !journey.Known(productID) {
		return ErrUnknownProduct
	}
	if p.jrny.Completed[productID] {
		return nil
	}

	p.jrny.Completed[productID] = true
	metrics.RecordProductCompletion(productID)
	p.afterMutationLocked(ctx, eventlog.TypeProductCompleted, map[string]any{
		"product_id": productID,
		"status":     "completed",
	})
	return nil
}

// ForceUnlock grants direct access to a product regardless of prerequisites.
// Idempotent, strictly additive, and deliberately invisible to the
// recommended-next derivation.
func (p *Panel) ForceUnlock(ctx context.Context, productID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := p.initLocked(ctx); err != nil {
		return err
	}
	if !journey.Known(productID) {
		return ErrUnknownProduct
	}
	if p.jrny.Unlocked[productID] {
		return nil
	}

	p.jrny.Unlocked[productID] = true
	metrics.RecordForceUnlock()
	metrics.RecordProductUnlock(productID)

	payload := map[string]any{"product_id": productID, "status": "unlocked", "forced": true}
	p.log.Append(eventlog.TypeJourneyUnlocked, p.now(), payload)
	p.bus.Emit(ctx, eventlog.TypeJourneyUnlocked, payload)
	p.persistLocked(ctx)
	return nil
}

// stampRec fills the versioning fields producers commonly omit.
func (p *Panel) stampRec(rec *contract.CareRecommendation) {
	if rec.GeneratedAt.IsZero() {
		rec.GeneratedAt = p.now()
	}
	if rec.SchemaVersion == "" {
		rec.SchemaVersion = contract.SchemaVersion
	}
}

func (p *Panel) stampFin(fin *contract.FinancialProfile) {
	if fin.GeneratedAt.IsZero() {
		fin.GeneratedAt = p.now()
	}
	if fin.SchemaVersion == "" {
		fin.SchemaVersion = contract.SchemaVersion
	}
}

func (p *Panel) stampAppt(appt *contract.AdvisorAppointment) {
	if appt.GeneratedAt.IsZero() {
		appt.GeneratedAt = p.now()
	}
	if appt.SchemaVersion == "" {
		appt.SchemaVersion = contract.SchemaVersion
	}
}
