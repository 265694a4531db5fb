// Package models defines the core domain entities: draws, prize tiers, guesses, and reconciliations.
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// PrizeTier is one payout bracket of a draw. ShareAmount is in cents.
type PrizeTier struct {
	Name        string `json:"name"`
	ShareAmount int64  `json:"share_amount"`
	ShareCount  int64  `json:"share_count"`
}

// DrawRecord is a single drawing's published numbers and prize tiers.
type DrawRecord struct {
	ID               string      `json:"id"`
	BrandName        string      `json:"brand_name"`
	CloseTime        int64       `json:"close_time"` // epoch milliseconds
	PrimaryNumbers   []string    `json:"primary_numbers"`
	SecondaryNumbers []string    `json:"secondary_numbers"`
	PrizeTiers       []PrizeTier `json:"prize_tiers"`
}

// Validate checks draw field constraints.
func (d *DrawRecord) Validate() error {
	if d.ID == "" {
		return errors.New("draw ID must not be empty")
	}
	if len(d.PrimaryNumbers) == 0 {
		return errors.New("draw must have at least one primary number")
	}
	if d.CloseTime < 0 {
		return errors.New("close time must not be negative")
	}
	seen := make(map[string]bool, len(d.PrizeTiers))
	for _, tier := range d.PrizeTiers {
		if seen[tier.Name] {
			return fmt.Errorf("duplicate prize tier %q", tier.Name)
		}
		seen[tier.Name] = true
		if tier.ShareAmount < 0 {
			return fmt.Errorf("prize tier %q has negative share amount", tier.Name)
		}
	}
	return nil
}

// BiggestPrizeTier returns the tier with the largest per-share payout.
// Ties go to the tier published first. ok is false when the draw has no tiers.
func (d *DrawRecord) BiggestPrizeTier() (tier PrizeTier, ok bool) {
	for i, t := range d.PrizeTiers {
		if i == 0 || t.ShareAmount > tier.ShareAmount {
			tier = t
		}
	}
	return tier, len(d.PrizeTiers) > 0
}

// ClosedAt returns CloseTime as a time in loc.
func (d *DrawRecord) ClosedAt(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.UnixMilli(d.CloseTime).In(loc)
}

// Week returns the ISO year and week the draw closed in.
func (d *DrawRecord) Week(loc *time.Location) (year, week int) {
	return d.ClosedAt(loc).ISOWeek()
}

// Weekday returns the weekday part of the brand name, e.g. "TI" for "TI-EJACKPOT".
func (d *DrawRecord) Weekday() string {
	weekday, _, _ := strings.Cut(d.BrandName, "-")
	return weekday
}
