package engine

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Asdafers/healerguide/internal/ability"
)

// --- Analyze ---

func TestAnalyze_EmptySet(t *testing.T) {
	e := New(Options{})
	for _, in := range [][]ability.Record{nil, {}} {
		_, err := e.Analyze(in)
		if !errors.Is(err, ErrEmptySet) {
			t.Fatalf("expected ErrEmptySet, got %v", err)
		}
	}
	if ErrEmptySet.Error() != "no abilities available for this encounter" {
		t.Errorf("unexpected message %q", ErrEmptySet.Error())
	}
}

func TestAnalyze_OneOfEachTier(t *testing.T) {
	abilities := []ability.Record{
		rec("Nova", ability.TypeDamage, ability.TargetGroup, ability.TierCritical),
		rec("Pulse", ability.TypeDamage, ability.TargetGroup, ability.TierHigh),
		rec("Swirl", ability.TypeDamage, ability.TargetLocation, ability.TierModerate),
		rec("Web", ability.TypeMechanic, ability.TargetRandomPlayer, ability.TierMechanic),
	}
	got, err := New(Options{}).Analyze(abilities)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[ability.DamageTier]int{
		ability.TierCritical: 1,
		ability.TierHigh:     1,
		ability.TierModerate: 1,
		ability.TierMechanic: 1,
	}
	if diff := cmp.Diff(want, got.Distribution); diff != "" {
		t.Errorf("distribution mismatch (-want +got):\n%s", diff)
	}
	if got.TotalAbilities != 4 {
		t.Errorf("total = %d, want 4", got.TotalAbilities)
	}
	if got.HealingLoad != HealingLoadHeavy {
		t.Errorf("healing load = %s, want heavy", got.HealingLoad)
	}
}

func TestAnalyze_DistributionIncludesEmptyTiers(t *testing.T) {
	got, err := New(Options{}).Analyze([]ability.Record{
		rec("Swirl", ability.TypeDamage, ability.TargetLocation, ability.TierModerate),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Distribution) != 4 {
		t.Fatalf("expected all 4 tiers present, got %v", got.Distribution)
	}
	if got.Distribution[ability.TierCritical] != 0 || got.Distribution[ability.TierModerate] != 1 {
		t.Errorf("unexpected distribution %v", got.Distribution)
	}
}

func TestHealingLoad(t *testing.T) {
	tests := []struct {
		name                               string
		critical, high, moderate, mechanic int
		want                               HealingLoad
	}{
		{"two criticals", 2, 0, 0, 0, HealingLoadBurst},
		{"one critical", 1, 0, 0, 5, HealingLoadHeavy},
		{"three highs", 0, 3, 0, 0, HealingLoadHeavy},
		{"two highs", 0, 2, 0, 0, HealingLoadModerate},
		{"one high", 0, 1, 0, 0, HealingLoadModerate},
		{"three moderates", 0, 0, 3, 0, HealingLoadModerate},
		{"two moderates", 0, 0, 2, 4, HealingLoadLight},
		{"mechanics only", 0, 0, 0, 3, HealingLoadLight},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var abilities []ability.Record
			add := func(n int, tier ability.DamageTier) {
				for i := 0; i < n; i++ {
					abilities = append(abilities, rec("A", ability.TypeDamage, ability.TargetGroup, tier))
				}
			}
			add(tc.critical, ability.TierCritical)
			add(tc.high, ability.TierHigh)
			add(tc.moderate, ability.TierModerate)
			add(tc.mechanic, ability.TierMechanic)

			got, err := New(Options{}).Analyze(abilities)
			if err != nil {
				t.Fatal(err)
			}
			if got.HealingLoad != tc.want {
				t.Errorf("healing load = %s, want %s", got.HealingLoad, tc.want)
			}
		})
	}
}

func TestAnalyze_CooldownRecommendations(t *testing.T) {
	nova := rec("Nova", ability.TypeDamage, ability.TargetGroup, ability.TierCritical)
	nova.CooldownSeconds = ability.Cooldown(45)
	nova.HealerAction = "Ramp shields before the cast"
	pulse := rec("Pulse", ability.TypeDamage, ability.TargetGroup, ability.TierHigh)
	pulse.CooldownSeconds = ability.Cooldown(20)
	noCD := rec("Smash", ability.TypeDamage, ability.TargetTank, ability.TierHigh)
	moderate := rec("Swirl", ability.TypeDamage, ability.TargetLocation, ability.TierModerate)
	moderate.CooldownSeconds = ability.Cooldown(10)

	got, err := New(Options{}).Analyze([]ability.Record{nova, pulse, noCD, moderate})
	if err != nil {
		t.Fatal(err)
	}
	recs := got.CooldownRecommendations
	if len(recs) != 2 {
		t.Fatalf("expected 2 recommendations, got %d: %+v", len(recs), recs)
	}
	if recs[0].CooldownName != "Major defensive cooldown" || recs[1].CooldownName != "Healing cooldown" {
		t.Errorf("unexpected cooldown names: %q, %q", recs[0].CooldownName, recs[1].CooldownName)
	}
	if recs[0].SuggestedTiming != "every 45s" {
		t.Errorf("timing = %q, want %q", recs[0].SuggestedTiming, "every 45s")
	}
	if diff := cmp.Diff([]string{nova.ID}, recs[0].TargetAbilityIDs); diff != "" {
		t.Errorf("target ids mismatch:\n%s", diff)
	}
	if !strings.Contains(recs[0].Rationale, nova.HealerAction) {
		t.Errorf("rationale %q does not reference the healer action", recs[0].Rationale)
	}
}

func TestAnalyze_TimingsAndAverage(t *testing.T) {
	a := rec("Slow", ability.TypeDamage, ability.TargetGroup, ability.TierModerate)
	a.CooldownSeconds = ability.Cooldown(30)
	a.DisplayOrder = 1
	b := rec("Fast", ability.TypeDamage, ability.TargetGroup, ability.TierHigh)
	b.CooldownSeconds = ability.Cooldown(12)
	b.DisplayOrder = 2
	c := rec("None", ability.TypeMechanic, ability.TargetGroup, ability.TierMechanic)
	c.IsKeyMechanic = true

	got, err := New(Options{}).Analyze([]ability.Record{a, b, c})
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Timings) != 2 {
		t.Fatalf("expected 2 timings, got %d", len(got.Timings))
	}
	if got.Timings[0].Name != "Fast" || got.Timings[1].Name != "Slow" {
		t.Errorf("timings not sorted by cooldown: %+v", got.Timings)
	}
	if got.AverageCooldownSeconds == nil || *got.AverageCooldownSeconds != 21 {
		t.Errorf("average cooldown = %v, want 21", got.AverageCooldownSeconds)
	}
	if got.KeyMechanicCount != 1 {
		t.Errorf("key mechanic count = %d, want 1", got.KeyMechanicCount)
	}
}

func TestAnalyze_TimingsTieBreakOnDisplayOrder(t *testing.T) {
	late := rec("Late", ability.TypeDamage, ability.TargetGroup, ability.TierModerate)
	late.ID = ""
	late.CooldownSeconds = ability.Cooldown(30)
	late.DisplayOrder = 5
	early := rec("Early", ability.TypeDamage, ability.TargetGroup, ability.TierModerate)
	early.ID = ""
	early.CooldownSeconds = ability.Cooldown(30)
	early.DisplayOrder = 2
	fast := rec("Fast", ability.TypeDamage, ability.TargetGroup, ability.TierHigh)
	fast.ID = ""
	fast.CooldownSeconds = ability.Cooldown(10)
	fast.DisplayOrder = 9

	got, err := New(Options{}).Analyze([]ability.Record{late, early, fast})
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, tm := range got.Timings {
		names = append(names, tm.Name)
	}
	if want := []string{"Fast", "Early", "Late"}; !slices.Equal(names, want) {
		t.Errorf("timings order = %v, want %v", names, want)
	}
}

func TestAnalyze_NoCooldowns(t *testing.T) {
	got, err := New(Options{}).Analyze([]ability.Record{
		rec("Web", ability.TypeMechanic, ability.TargetGroup, ability.TierMechanic),
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.AverageCooldownSeconds != nil {
		t.Errorf("expected nil average, got %v", *got.AverageCooldownSeconds)
	}
	if got.Timings == nil || got.CooldownRecommendations == nil {
		t.Error("expected empty, non-nil slices")
	}
}

// --- PrioritizeForHealer ---

func TestPrioritizeForHealer_Scenario(t *testing.T) {
	shrill := rec("Alerting Shrill", ability.TypeDamage, ability.TargetGroup, ability.TierCritical)
	shrill.IsKeyMechanic = true
	shrill.CooldownSeconds = ability.Cooldown(45)
	shrill.DisplayOrder = 9
	nova := rec("Nova", ability.TypeDamage, ability.TargetGroup, ability.TierCritical)
	nova.DisplayOrder = 1
	web := rec("Web", ability.TypeMechanic, ability.TargetGroup, ability.TierMechanic)
	web.IsKeyMechanic = true
	web.DisplayOrder = 3

	got := New(Options{}).PrioritizeForHealer([]ability.Record{nova, web, shrill})
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	order := []string{got[0].Ability.Name, got[1].Ability.Name, got[2].Ability.Name}
	want := []string{"Alerting Shrill", "Web", "Nova"}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if got[0].Priority != 14 || got[1].Priority != 11 || got[2].Priority != 4 {
		t.Errorf("priorities = %d, %d, %d", got[0].Priority, got[1].Priority, got[2].Priority)
	}
	if got[0].DisplayHint != HintHighlight || got[2].DisplayHint != HintEmphasize {
		t.Errorf("hints = %s, %s", got[0].DisplayHint, got[2].DisplayHint)
	}
	if got[0].Classification.Complexity != ComplexityExtreme {
		t.Errorf("expected embedded classification, got %+v", got[0].Classification)
	}
	if got[0].Reasoning != "critical damage tier (4) + key mechanic (10)" {
		t.Errorf("reasoning = %q", got[0].Reasoning)
	}
}

func TestPrioritizeForHealer_TieBreakByDisplayOrder(t *testing.T) {
	first := rec("First", ability.TypeDamage, ability.TargetGroup, ability.TierHigh)
	first.DisplayOrder = 5
	second := rec("Second", ability.TypeDamage, ability.TargetTank, ability.TierHigh)
	second.DisplayOrder = 2

	got := New(Options{}).PrioritizeForHealer([]ability.Record{first, second})
	if got[0].Ability.DisplayOrder != 2 {
		t.Errorf("expected displayOrder 2 first, got %d", got[0].Ability.DisplayOrder)
	}
}

func TestPrioritizeForHealer_Empty(t *testing.T) {
	got := New(Options{}).PrioritizeForHealer(nil)
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", got)
	}
}

func TestPrioritizeForHealer_DoesNotReorderInput(t *testing.T) {
	in := []ability.Record{
		rec("Low", ability.TypeMechanic, ability.TargetGroup, ability.TierMechanic),
		rec("High", ability.TypeDamage, ability.TargetGroup, ability.TierCritical),
	}
	New(Options{}).PrioritizeForHealer(in)
	if in[0].Name != "Low" {
		t.Error("input slice was reordered")
	}
}
