package rate

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// RateType enum
type RateType string

const (
	RateTypeHourly   RateType = "hourly"
	RateTypePerVisit RateType = "per_visit"
)

var RateTypeValues = []string{
	string(RateTypeHourly),
	string(RateTypePerVisit),
}

// EmployeeRate - one rate assignment for one employee. Rates are append-only:
// a pay change is a new row with a later effective date, never a mutation.
type EmployeeRate struct {
	ID            string
	EmployeeID    string
	RateType      RateType
	Amount        decimal.Decimal
	EffectiveDate time.Time
	LocationID    *string
	ClientID      *string
	CreatedAt     time.Time
}

// Snapshot is an immutable copy of a rate's type and amount, frozen into a
// timesheet at generation time so later rate changes never reprice history.
type Snapshot struct {
	Type   RateType        `json:"type"`
	Amount decimal.Decimal `json:"amount"`
}

// Scope narrows rate resolution to a location and/or client.
type Scope struct {
	LocationID *string
	ClientID   *string
}

// Scoped reports whether the rate is restricted to a location or client.
func (r EmployeeRate) Scoped() bool {
	return r.LocationID != nil || r.ClientID != nil
}

// MatchesScope reports whether a scoped rate applies under the given scope.
// Every restriction the rate carries must match the supplied scope.
func (r EmployeeRate) MatchesScope(scope Scope) bool {
	if r.LocationID != nil {
		if scope.LocationID == nil || *scope.LocationID != *r.LocationID {
			return false
		}
	}
	if r.ClientID != nil {
		if scope.ClientID == nil || *scope.ClientID != *r.ClientID {
			return false
		}
	}
	return true
}

// PickEffective selects the rate in force from candidates already filtered to
// effectiveDate <= the target date. A scoped match beats any global rate
// regardless of recency; within a partition the latest effective date wins,
// with created_at then id as deterministic tie-breaks.
func PickEffective(candidates []EmployeeRate, scope Scope) *EmployeeRate {
	var scoped, global []EmployeeRate
	for _, c := range candidates {
		if c.Scoped() {
			if c.MatchesScope(scope) {
				scoped = append(scoped, c)
			}
			continue
		}
		global = append(global, c)
	}

	pool := scoped
	if len(pool) == 0 {
		pool = global
	}
	if len(pool) == 0 {
		return nil
	}

	sort.SliceStable(pool, func(i, j int) bool {
		if !pool[i].EffectiveDate.Equal(pool[j].EffectiveDate) {
			return pool[i].EffectiveDate.After(pool[j].EffectiveDate)
		}
		if !pool[i].CreatedAt.Equal(pool[j].CreatedAt) {
			return pool[i].CreatedAt.After(pool[j].CreatedAt)
		}
		return pool[i].ID > pool[j].ID
	})

	picked := pool[0]
	return &picked
}

// SnapshotOf freezes the payable part of a rate.
func SnapshotOf(r EmployeeRate) Snapshot {
	return Snapshot{Type: r.RateType, Amount: r.Amount}
}
