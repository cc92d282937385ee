// Package seeder drives a complete guided journey against a running panel
// instance over HTTP. It exists for smoke testing and demos: publish a
// recommendation, a financial profile, and an appointment, update prep
// progress, and print the journey after each step.
package seeder

import (
	"context"
	"fmt"
	"time"
)

// Config carries the seeder settings.
type Config struct {
	BaseURL    string
	SessionKey string
	Timeout    time.Duration
	Verbose    bool
}

// Run executes the full journey scenario.
func Run(ctx context.Context, cfg *Config) error {
	c := newClient(cfg.BaseURL, cfg.SessionKey, cfg.Timeout)

	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"publish care recommendation", c.publishRecommendation},
		{"mark care needs complete", func(ctx context.Context) error {
			return c.post(ctx, "/products/care_needs/complete", nil)
		}},
		{"publish financial profile", c.publishFinancialProfile},
		{"mark financial assessment complete", func(ctx context.Context) error {
			return c.post(ctx, "/products/financial_assessment/complete", nil)
		}},
		{"publish advisor appointment", c.publishAppointment},
		{"update prep progress (personal)", func(ctx context.Context) error {
			return c.post(ctx, "/appointment/prep", map[string]any{
				"sections_complete": []string{"personal"},
				"progress":          25,
			})
		}},
		{"update prep progress (personal, financial)", func(ctx context.Context) error {
			return c.post(ctx, "/appointment/prep", map[string]any{
				"sections_complete": []string{"personal", "financial"},
				"progress":          50,
			})
		}},
		{"mark appointment scheduler complete", func(ctx context.Context) error {
			return c.post(ctx, "/products/appointment_scheduler/complete", nil)
		}},
	}

	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
		j, err := c.journey(ctx)
		if err != nil {
			return fmt.Errorf("read journey after %s: %w", step.name, err)
		}
		fmt.Printf("%-45s phase=%-16s next=%-22s unlocked=%v\n",
			step.name, j.Phase, orDash(j.RecommendedNext), j.UnlockedProducts)
		if cfg.Verbose {
			if err := c.printSummaries(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func (c *client) publishRecommendation(ctx context.Context) error {
	return c.post(ctx, "/recommendation", map[string]any{
		"tier":       "assisted_living",
		"tier_score": 72.5,
		"tier_rankings": []map[string]any{
			{"tier": "assisted_living", "score": 72.5},
			{"tier": "in_home", "score": 55.0},
			{"tier": "independent", "score": 31.0},
			{"tier": "memory_care", "score": 18.5},
		},
		"confidence": 0.85,
		"flags": []map[string]any{
			{"id": "fall_risk", "label": "Fall risk", "tone": "warning", "priority": 10},
		},
		"rationale": []string{
			"Daily living support needed for 3+ activities",
			"No overnight supervision available at home",
		},
		"next_step": map[string]any{
			"product": "financial_assessment",
			"route":   "/financial-assessment",
			"reason":  "See what assisted living costs near you",
		},
		"status": "complete",
	})
}

func (c *client) publishFinancialProfile(ctx context.Context) error {
	return c.post(ctx, "/financial-profile", map[string]any{
		"estimated_monthly_cost": 5400.0,
		"coverage_percentage":    62.0,
		"gap_amount":             2052.0,
		"runway_months":          28,
		"confidence":             0.9,
		"status":                 "complete",
	})
}

func (c *client) publishAppointment(ctx context.Context) error {
	return c.post(ctx, "/appointment", map[string]any{
		"scheduled": true,
		"date":      time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
		"time":      "10:30",
		"type":      "video",
		"status":    "complete",
	})
}

func (c *client) printSummaries(ctx context.Context) error {
	for _, id := range []string{"care_needs", "financial_assessment", "appointment_scheduler"} {
		s, err := c.summary(ctx, id)
		if err != nil {
			return fmt.Errorf("summary %s: %w", id, err)
		}
		fmt.Printf("  %-22s %-12s %3d%%  %s\n", id, s.Status, s.ProgressPct, s.Headline)
	}
	return nil
}
