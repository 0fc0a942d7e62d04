package pricing

import (
	"fmt"
	"sort"
)

// Tier grants Percent discount to partners whose cumulative sales reach Threshold.
type Tier struct {
	Threshold int64 `json:"threshold"`
	Percent   int   `json:"percent"`
}

// Table is an ordered set of tiers, ascending by Threshold, starting at 0.
// Each tier covers the half-open interval [Threshold, next.Threshold).
type Table []Tier

// DefaultTable is the partner discount schedule.
var DefaultTable = Table{
	{Threshold: 0, Percent: 0},
	{Threshold: 10_000, Percent: 5},
	{Threshold: 50_000, Percent: 10},
	{Threshold: 300_000, Percent: 15},
}

// NewTable validates tiers and returns them as a Table sorted by Threshold.
func NewTable(tiers []Tier) (Table, error) {
	if len(tiers) == 0 {
		return nil, fmt.Errorf("discount table: at least one tier is required")
	}

	table := make(Table, len(tiers))
	copy(table, tiers)
	sort.Slice(table, func(i, j int) bool { return table[i].Threshold < table[j].Threshold })

	if table[0].Threshold != 0 {
		return nil, fmt.Errorf("discount table: first tier must start at 0, got %d", table[0].Threshold)
	}
	for i, tier := range table {
		if tier.Percent < 0 || tier.Percent > 100 {
			return nil, fmt.Errorf("discount table: percent %d out of range", tier.Percent)
		}
		if i == 0 {
			continue
		}
		prev := table[i-1]
		if tier.Threshold == prev.Threshold {
			return nil, fmt.Errorf("discount table: duplicate threshold %d", tier.Threshold)
		}
		if tier.Percent < prev.Percent {
			return nil, fmt.Errorf("discount table: percent decreases at threshold %d", tier.Threshold)
		}
	}

	return table, nil
}

// Resolve maps cumulative sales to a discount percentage. Negative input is treated as 0.
func (t Table) Resolve(cumulativeSales int64) int {
	return t.tierFor(cumulativeSales).Percent
}

// Progress describes where a sales figure sits in the table.
type Progress struct {
	Current Tier `json:"current"`
	// Next is nil once the top tier has been reached.
	Next      *Tier `json:"next,omitempty"`
	Remaining int64 `json:"remaining"`
}

// Progress reports the current tier, the next one and how many units are missing to reach it.
func (t Table) Progress(cumulativeSales int64) Progress {
	if len(t) == 0 {
		return Progress{}
	}
	if cumulativeSales < 0 {
		cumulativeSales = 0
	}
	idx := t.index(cumulativeSales)
	p := Progress{Current: t[idx]}
	if idx+1 < len(t) {
		next := t[idx+1]
		p.Next = &next
		p.Remaining = next.Threshold - cumulativeSales
	}
	return p
}

func (t Table) tierFor(cumulativeSales int64) Tier {
	if len(t) == 0 {
		return Tier{}
	}
	return t[t.index(cumulativeSales)]
}

// index returns the position of the last tier whose threshold is <= sales.
func (t Table) index(cumulativeSales int64) int {
	// First tier with Threshold > sales; the one before it applies.
	i := sort.Search(len(t), func(i int) bool { return t[i].Threshold > cumulativeSales })
	if i == 0 {
		return 0
	}
	return i - 1
}

// ResolveDiscount maps cumulative sales to a discount percentage using DefaultTable.
func ResolveDiscount(cumulativeSales int64) int {
	return DefaultTable.Resolve(cumulativeSales)
}
