package pricing

import (
	"testing"
)

func TestResolveDiscount_Boundaries(t *testing.T) {
	cases := []struct {
		sales int64
		want  int
	}{
		{0, 0},
		{1, 0},
		{9_999, 0},
		{10_000, 5},
		{49_999, 5},
		{50_000, 10},
		{299_999, 10},
		{300_000, 15},
		{1 << 40, 15},
	}

	for _, tc := range cases {
		if got := ResolveDiscount(tc.sales); got != tc.want {
			t.Fatalf("ResolveDiscount(%d) = %d, want %d", tc.sales, got, tc.want)
		}
	}
}

func TestResolveDiscount_NegativeTreatedAsZero(t *testing.T) {
	if got := ResolveDiscount(-5); got != 0 {
		t.Fatalf("ResolveDiscount(-5) = %d, want 0", got)
	}
}

func TestResolveDiscount_MonotonicNonDecreasing(t *testing.T) {
	prev := ResolveDiscount(0)
	for sales := int64(0); sales <= 400_000; sales += 250 {
		got := ResolveDiscount(sales)
		if got < prev {
			t.Fatalf("discount decreased at %d: %d < %d", sales, got, prev)
		}
		prev = got
	}
}

func TestProgress_ReportsNextTier(t *testing.T) {
	p := DefaultTable.Progress(42_000)
	if p.Current.Percent != 5 {
		t.Fatalf("current percent = %d, want 5", p.Current.Percent)
	}
	if p.Next == nil || p.Next.Threshold != 50_000 {
		t.Fatalf("next = %+v, want threshold 50000", p.Next)
	}
	if p.Remaining != 8_000 {
		t.Fatalf("remaining = %d, want 8000", p.Remaining)
	}

	top := DefaultTable.Progress(500_000)
	if top.Next != nil || top.Remaining != 0 {
		t.Fatalf("top tier should have no next tier: %+v", top)
	}
}

func TestNewTable_SortsAndValidates(t *testing.T) {
	table, err := NewTable([]Tier{{Threshold: 100, Percent: 3}, {Threshold: 0, Percent: 0}})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	if table.Resolve(99) != 0 || table.Resolve(100) != 3 {
		t.Fatalf("unexpected resolution for custom table %+v", table)
	}

	invalid := [][]Tier{
		nil,
		{{Threshold: 10, Percent: 0}},
		{{Threshold: 0, Percent: 0}, {Threshold: 0, Percent: 5}},
		{{Threshold: 0, Percent: 10}, {Threshold: 5, Percent: 5}},
		{{Threshold: 0, Percent: 101}},
	}
	for i, tiers := range invalid {
		if _, err := NewTable(tiers); err == nil {
			t.Fatalf("case %d: expected error for %+v", i, tiers)
		}
	}
}

func TestEmptyTable_ResolvesToZero(t *testing.T) {
	var empty Table
	if got := empty.Resolve(123); got != 0 {
		t.Fatalf("Resolve(123) = %d, want 0", got)
	}
	p := empty.Progress(123)
	if p.Next != nil || p.Remaining != 0 || p.Current != (Tier{}) {
		t.Fatalf("Progress(123) = %+v, want zero value", p)
	}
}
