package commission

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// BonusTier is a (requiredDeals, bonusAmount) incentive threshold. Tiers are
// configured per deployment and read-only input to the evaluator.
type BonusTier struct {
	RequiredDeals int
	BonusAmount   decimal.Decimal
}

// TierStatus is a tier annotated with whether the actor has reached it.
type TierStatus struct {
	Tier     BonusTier
	Achieved bool
}

// Progress is an actor's standing against the bonus ladder for one week.
type Progress struct {
	WeekStart      time.Time
	WeekEnd        time.Time
	ApprovedDeals  int64
	CurrentTier    *BonusTier
	NextTier       *BonusTier
	DealsRemaining int
	AllTiers       []TierStatus
}

// EvaluateTiers computes tier standing for the given approved-deal count.
// Tiers are evaluated in ascending requiredDeals order regardless of input
// order. CurrentTier is the highest achieved tier, NextTier the lowest
// unachieved one.
func EvaluateTiers(tiers []BonusTier, approvedDeals int64) Progress {
	sorted := make([]BonusTier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].RequiredDeals < sorted[j].RequiredDeals
	})

	progress := Progress{
		ApprovedDeals: approvedDeals,
		AllTiers:      make([]TierStatus, 0, len(sorted)),
	}

	for i := range sorted {
		tier := sorted[i]
		achieved := int64(tier.RequiredDeals) <= approvedDeals
		progress.AllTiers = append(progress.AllTiers, TierStatus{Tier: tier, Achieved: achieved})
		if achieved {
			progress.CurrentTier = &sorted[i]
		} else if progress.NextTier == nil {
			progress.NextTier = &sorted[i]
			progress.DealsRemaining = tier.RequiredDeals - int(approvedDeals)
		}
	}

	return progress
}

// WeekWindow returns the Monday 00:00:00 to Sunday 23:59:59 window
// containing now, in now's location.
func WeekWindow(now time.Time) (time.Time, time.Time) {
	daysSinceMonday := (int(now.Weekday()) + 6) % 7
	year, month, day := now.AddDate(0, 0, -daysSinceMonday).Date()
	weekStart := time.Date(year, month, day, 0, 0, 0, 0, now.Location())
	weekEnd := weekStart.AddDate(0, 0, 7).Add(-time.Second)
	return weekStart, weekEnd
}
