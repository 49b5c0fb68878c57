package engine

import (
	"slices"
	"testing"

	"github.com/Asdafers/healerguide/internal/ability"
)

func TestPriorityScore_AllCombinations(t *testing.T) {
	weights := map[ability.DamageTier]int{
		ability.TierCritical: 4,
		ability.TierHigh:     3,
		ability.TierModerate: 2,
		ability.TierMechanic: 1,
	}
	for _, a := range allRecords() {
		want := weights[a.DamageTier]
		if a.IsKeyMechanic {
			want += 10
		}
		if got := PriorityScore(a); got != want {
			t.Errorf("%s key=%v: score = %d, want %d", a.DamageTier, a.IsKeyMechanic, got, want)
		}
	}
}

func TestPriorityScore_Examples(t *testing.T) {
	high := ability.Record{DamageTier: ability.TierHigh, IsKeyMechanic: true}
	if got := PriorityScore(high); got != 13 {
		t.Errorf("high key = %d, want 13", got)
	}
	crit := ability.Record{DamageTier: ability.TierCritical, IsKeyMechanic: true}
	if got := PriorityScore(crit); got != 14 {
		t.Errorf("critical key = %d, want 14", got)
	}
}

func TestComparePriority_KeyMechanicBeatsAnyTier(t *testing.T) {
	keyedMechanic := ability.Record{DamageTier: ability.TierMechanic, IsKeyMechanic: true, DisplayOrder: 99}
	for _, tier := range ability.AllDamageTiers() {
		other := ability.Record{DamageTier: tier, DisplayOrder: 0}
		if ComparePriority(keyedMechanic, other) >= 0 {
			t.Errorf("key mechanic should rank before non-key %s", tier)
		}
		if ComparePriority(other, keyedMechanic) <= 0 {
			t.Errorf("comparator not antisymmetric for %s", tier)
		}
	}
}

func TestComparePriority_Equal(t *testing.T) {
	a := ability.Record{DamageTier: ability.TierHigh, DisplayOrder: 3}
	if ComparePriority(a, a) != 0 {
		t.Error("expected equal records to compare as 0")
	}
}

func TestSortByPriority_FilteredSubset(t *testing.T) {
	all := []ability.Record{
		{Name: "a", DamageTier: ability.TierModerate, IsKeyMechanic: true, DisplayOrder: 4},
		{Name: "b", DamageTier: ability.TierCritical, DisplayOrder: 1},
		{Name: "c", DamageTier: ability.TierCritical, IsKeyMechanic: true, DisplayOrder: 3},
		{Name: "d", DamageTier: ability.TierModerate, IsKeyMechanic: true, DisplayOrder: 2},
	}
	sorted := SortByPriority(KeyMechanics(all))

	var names []string
	for _, a := range sorted {
		names = append(names, a.Name)
	}
	if !slices.Equal(names, []string{"c", "d", "a"}) {
		t.Errorf("got order %v, want [c d a]", names)
	}
	if all[0].Name != "a" {
		t.Error("SortByPriority modified its input")
	}
}

func TestKeyMechanics(t *testing.T) {
	all := []ability.Record{
		{Name: "a", IsKeyMechanic: true},
		{Name: "b"},
		{Name: "c", IsKeyMechanic: true},
	}
	var names []string
	for _, a := range KeyMechanics(all) {
		names = append(names, a.Name)
	}
	if !slices.Equal(names, []string{"a", "c"}) {
		t.Errorf("got %v, want [a c]", names)
	}

	none := KeyMechanics([]ability.Record{{Name: "b"}})
	if none == nil || len(none) != 0 {
		t.Errorf("expected empty, non-nil slice, got %#v", none)
	}
}

func TestDisplayHintFor(t *testing.T) {
	tests := []struct {
		a    ability.Record
		want DisplayHint
	}{
		{ability.Record{DamageTier: ability.TierMechanic, IsKeyMechanic: true}, HintHighlight},
		{ability.Record{DamageTier: ability.TierCritical}, HintEmphasize},
		{ability.Record{DamageTier: ability.TierMechanic}, HintMuted},
		{ability.Record{DamageTier: ability.TierHigh}, HintStandard},
		{ability.Record{DamageTier: ability.TierModerate}, HintStandard},
	}
	for _, tc := range tests {
		if got := DisplayHintFor(tc.a); got != tc.want {
			t.Errorf("DisplayHintFor(%s, key=%v) = %s, want %s", tc.a.DamageTier, tc.a.IsKeyMechanic, got, tc.want)
		}
	}
}
