package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Asdafers/healerguide/internal/ability"
	"github.com/Asdafers/healerguide/internal/engine"
)

func sampleEncounter() (ability.Encounter, []ability.Record) {
	enc := ability.Encounter{ID: "avanoxx", DungeonID: "ara-kara", Name: "Avanoxx", Order: 1}
	abilities := []ability.Record{
		{
			ID: "voracious-bite", EncounterID: "avanoxx", Name: "Voracious Bite",
			Type: ability.TypeDamage, Target: ability.TargetTank, DamageTier: ability.TierHigh,
			HealerAction: "Spot heal the tank", CriticalInsight: "Stacks a bleed",
			DisplayOrder: 1,
		},
		{
			ID: "alerting-shrill", EncounterID: "avanoxx", Name: "Alerting Shrill",
			Type: ability.TypeDamage, Target: ability.TargetGroup, DamageTier: ability.TierCritical,
			HealerAction: "Pre-shield the group", CriticalInsight: "Lethal if not topped",
			CooldownSeconds: ability.Cooldown(45), DisplayOrder: 2, IsKeyMechanic: true,
		},
		{
			ID: "void-orb", EncounterID: "avanoxx", Name: "Void Orb",
			Type: ability.TypeDamage, Target: ability.TargetRandomPlayer, DamageTier: ability.TierCritical,
			CriticalInsight: "One-shots without a defensive",
			DisplayOrder:    3,
		},
	}
	return enc, abilities
}

func TestBuildReports_PriorityOrder(t *testing.T) {
	_, abilities := sampleEncounter()
	reports := BuildReports(engine.New(engine.Options{}), abilities)

	require.Len(t, reports, 3)
	var ids []string
	for _, r := range reports {
		ids = append(ids, r.Ability.ID)
	}
	assert.Equal(t, []string{"alerting-shrill", "void-orb", "voracious-bite"}, ids)

	shrill := reports[0]
	assert.Equal(t, 14, shrill.Priority)
	assert.Equal(t, engine.HintHighlight, shrill.DisplayHint)
	assert.Equal(t, engine.UrgencyImmediate, shrill.Classification.Urgency)
	assert.Equal(t, engine.ComplexityExtreme, shrill.Classification.Complexity)
	assert.True(t, shrill.Validation.IsValid)
	assert.Empty(t, shrill.Validation.Issues)
	assert.Len(t, shrill.Actions, len(engine.RecommendedActions(ability.TierCritical)))

	orb := reports[1]
	assert.False(t, orb.Validation.IsValid)
	assert.Equal(t, engine.HintEmphasize, orb.DisplayHint)
}

func TestBuildDocument_EmptyEncounter(t *testing.T) {
	enc, _ := sampleEncounter()
	doc := BuildDocument(engine.New(engine.Options{}), enc, nil)
	assert.Nil(t, doc.Analysis)
	assert.Empty(t, doc.Abilities)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, doc))
	assert.Contains(t, buf.String(), "No abilities available for this encounter.")
}

func TestWriteJSON_Lossless(t *testing.T) {
	enc, abilities := sampleEncounter()
	doc := BuildDocument(engine.New(engine.Options{}), enc, abilities)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, doc))

	out := buf.String()
	assert.Contains(t, out, `"urgency": "immediate"`)
	assert.Contains(t, out, `"damage_tier": "critical"`)

	var back Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	if diff := cmp.Diff(doc, back); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteCSV(t *testing.T) {
	_, abilities := sampleEncounter()
	reports := BuildReports(engine.New(engine.Options{}), abilities)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, reports))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, csvHeader, rows[0])

	col := func(row []string, name string) string {
		for i, h := range csvHeader {
			if h == name {
				return row[i]
			}
		}
		t.Fatalf("no column %q", name)
		return ""
	}

	shrill := rows[1]
	assert.Equal(t, "alerting-shrill", col(shrill, "id"))
	assert.Equal(t, "45", col(shrill, "cooldown_seconds"))
	assert.Equal(t, "true", col(shrill, "key_mechanic"))
	assert.Equal(t, "14", col(shrill, "priority"))
	assert.Equal(t, "0", col(shrill, "issue_count"))
	assert.Equal(t, "", col(shrill, "issues"))

	orb := rows[2]
	assert.Equal(t, "", col(orb, "cooldown_seconds"))
	assert.Equal(t, "false", col(orb, "valid"))
	assert.Equal(t, "3", col(orb, "issue_count"))
	assert.Equal(t, "error:healerAction;warning:cooldown;info:isKeyMechanic", col(orb, "issues"))
}

func TestWriteText(t *testing.T) {
	enc, abilities := sampleEncounter()
	doc := BuildDocument(engine.New(engine.Options{}), enc, abilities)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, doc))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "Encounter: Avanoxx\n"))
	assert.Contains(t, out, "Healing load: ")
	assert.Contains(t, out, "Average cooldown: 45.0s")
	assert.Contains(t, out, "1. Alerting Shrill [Critical]")
	assert.Contains(t, out, "Prepare: React instantly.")
	assert.Contains(t, out, "! error: Healer action is required")
	assert.Less(t, strings.Index(out, "Alerting Shrill"), strings.Index(out, "Voracious Bite"))
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"json", "csv", "text", "markdown"} {
		f, err := ParseFormat(s)
		require.NoError(t, err)
		assert.Equal(t, Format(s), f)
	}
	f, err := ParseFormat("md")
	require.NoError(t, err)
	assert.Equal(t, FormatMarkdown, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestWriteMarkdown(t *testing.T) {
	enc, abilities := sampleEncounter()
	doc := BuildDocument(engine.New(engine.Options{}), enc, abilities)

	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, doc))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "# Avanoxx\n"))
	assert.Contains(t, out, "## Damage profile")
	assert.Contains(t, out, "| Critical | 2 |")
	assert.Contains(t, out, "### Alerting Shrill ★")
	assert.Contains(t, out, "**Do:** Pre-shield the group")
	assert.Contains(t, out, "> **error** Healer action is required")
	assert.NotContains(t, out, "### Voracious Bite ★")
	assert.Less(t, strings.Index(out, "### Alerting Shrill"), strings.Index(out, "### Voracious Bite"))
}

func TestWriteMarkdown_MultilineTextStaysInParagraph(t *testing.T) {
	enc, abilities := sampleEncounter()
	abilities[1].HealerAction = "Pre-shield the group.\nSave a cooldown."
	doc := BuildDocument(engine.New(engine.Options{}), enc, abilities)

	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, doc))
	assert.Contains(t, buf.String(), "**Do:** Pre-shield the group. Save a cooldown.\n")
}

func TestWriteMarkdown_EmptyEncounter(t *testing.T) {
	doc := BuildDocument(engine.New(engine.Options{}), ability.Encounter{Name: "Empty Hall"}, nil)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatMarkdown, doc))
	assert.Equal(t, "# Empty Hall\n\n_No abilities available for this encounter._\n", buf.String())
}

func TestMdEscape(t *testing.T) {
	assert.Equal(t, `Anub'zekt \*enraged\* \| \_phase\_ 2`, mdEscape("Anub'zekt *enraged* | _phase_ 2"))
	assert.Equal(t, "Dispel the target. Then spread out.", mdEscape("Dispel the target.\r\n  Then spread out.\n"))
}

func TestWrite_Dispatch(t *testing.T) {
	enc, abilities := sampleEncounter()
	doc := BuildDocument(engine.New(engine.Options{}), enc, abilities)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, doc))
	assert.True(t, strings.HasPrefix(buf.String(), "id,name,type"))

	assert.Error(t, Write(&buf, Format("xml"), doc))
}
