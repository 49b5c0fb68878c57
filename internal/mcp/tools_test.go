package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Asdafers/healerguide/internal/ability"
	"github.com/Asdafers/healerguide/internal/engine"
	"github.com/Asdafers/healerguide/internal/store"
)

func testPack() ability.Pack {
	return ability.Pack{
		Dungeons: []ability.Dungeon{{ID: "ara-kara", Name: "Ara-Kara, City of Echoes"}},
		Encounters: []ability.Encounter{
			{ID: "avanoxx", DungeonID: "ara-kara", Name: "Avanoxx", Order: 1},
			{ID: "empty", DungeonID: "ara-kara", Name: "Empty Hall", Order: 2},
		},
		Abilities: []ability.Record{
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
				ID: "web-burst", EncounterID: "avanoxx", Name: "Web Burst",
				Type: ability.TypeMovement, Target: ability.TargetLocation, DamageTier: ability.TierModerate,
				CriticalInsight: "Avoidable", DisplayOrder: 3,
			},
		},
	}
}

// newTestServer creates a Server backed by an in-memory store holding testPack.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	db, err := store.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.ImportContent(context.Background(), testPack())
	require.NoError(t, err)

	return NewServer(db, engine.New(engine.Options{}), zap.NewNop(), "test")
}

// callTool invokes the named tool handler and returns the typed result.
func callTool(s *Server, name string, args string) (any, error) {
	tool, ok := s.lookup(name)
	if !ok {
		return nil, errors.New("tool not found: " + name)
	}
	return tool.Handler(context.Background(), json.RawMessage(args))
}

func TestAddTools_Registered(t *testing.T) {
	s := newEmptyServer()
	var names []string
	for _, tool := range s.tools {
		names = append(names, tool.Name)
		assert.True(t, json.Valid(tool.InputSchema), "schema for %s", tool.Name)
	}
	assert.Equal(t, []string{
		"classify_ability",
		"validate_ability",
		"recommended_actions",
		"analyze_encounter",
		"prioritize_encounter",
		"search_abilities",
	}, names)
}

func TestClassifyAbility(t *testing.T) {
	s := newTestServer(t)
	got, err := callTool(s, "classify_ability", `{"id":"alerting-shrill"}`)
	require.NoError(t, err)

	res := got.(ClassifyResult)
	assert.Equal(t, "Alerting Shrill", res.Ability.Name)
	assert.Equal(t, engine.UrgencyImmediate, res.Classification.Urgency)
	assert.Equal(t, engine.ImpactCritical, res.Classification.Impact)
	assert.Equal(t, 14, res.Priority)
	assert.Equal(t, engine.HintHighlight, res.DisplayHint)
}

func TestClassifyAbility_Errors(t *testing.T) {
	s := newTestServer(t)

	_, err := callTool(s, "classify_ability", `{}`)
	assert.EqualError(t, err, "id is required")

	_, err = callTool(s, "classify_ability", `{"id":"missing"}`)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = callTool(s, "classify_ability", `[1]`)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "invalid arguments"))
}

func TestValidateAbility(t *testing.T) {
	s := newTestServer(t)
	got, err := callTool(s, "validate_ability", `{"id":"web-burst"}`)
	require.NoError(t, err)

	res := got.(ValidateResult)
	assert.Equal(t, "web-burst", res.AbilityID)
	assert.False(t, res.IsValid)
	assert.Equal(t, 1, res.Count(engine.SeverityError))
	assert.Equal(t, 1, res.Count(engine.SeverityInfo))

	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"ability_id":"web-burst","is_valid":false`)
}

func TestRecommendedActions(t *testing.T) {
	s := newEmptyServer()
	got, err := callTool(s, "recommended_actions", `{"damage_tier":"Critical"}`)
	require.NoError(t, err)

	res := got.(ActionsResult)
	assert.Equal(t, ability.TierCritical, res.DamageTier)
	assert.Equal(t, engine.RecommendedActions(ability.TierCritical), res.Actions)

	_, err = callTool(s, "recommended_actions", `{"damage_tier":"lethal"}`)
	assert.ErrorIs(t, err, ability.ErrUnknownValue)
}

func TestAnalyzeEncounter(t *testing.T) {
	s := newTestServer(t)
	got, err := callTool(s, "analyze_encounter", `{"encounter_id":"avanoxx"}`)
	require.NoError(t, err)

	res := got.(engine.DamageAnalysis)
	assert.Equal(t, 3, res.TotalAbilities)
	assert.Equal(t, 1, res.Distribution[ability.TierCritical])
	assert.Equal(t, 1, res.KeyMechanicCount)

	_, err = callTool(s, "analyze_encounter", `{"encounter_id":"empty"}`)
	require.ErrorIs(t, err, engine.ErrEmptySet)
	assert.Contains(t, err.Error(), "no abilities available for this encounter")
}

func TestPrioritizeEncounter(t *testing.T) {
	s := newTestServer(t)

	got, err := callTool(s, "prioritize_encounter", `{"encounter_id":"avanoxx"}`)
	require.NoError(t, err)
	res := got.(PrioritizeResult)
	require.Len(t, res.Abilities, 3)
	assert.Equal(t, "alerting-shrill", res.Abilities[0].Ability.ID)
	assert.Equal(t, "voracious-bite", res.Abilities[1].Ability.ID)

	got, err = callTool(s, "prioritize_encounter", `{"encounter_id":"avanoxx","key_only":true}`)
	require.NoError(t, err)
	assert.Len(t, got.(PrioritizeResult).Abilities, 1)

	got, err = callTool(s, "prioritize_encounter", `{"encounter_id":"avanoxx","limit":2}`)
	require.NoError(t, err)
	assert.Len(t, got.(PrioritizeResult).Abilities, 2)
}

func TestSearchAbilities(t *testing.T) {
	s := newTestServer(t)

	got, err := callTool(s, "search_abilities", `{"query":"TANK"}`)
	require.NoError(t, err)
	res := got.(SearchResult)
	require.Len(t, res.Abilities, 1)
	assert.Equal(t, "voracious-bite", res.Abilities[0].ID)

	got, err = callTool(s, "search_abilities", `{"query":"e","limit":1}`)
	require.NoError(t, err)
	assert.Len(t, got.(SearchResult).Abilities, 1)

	_, err = callTool(s, "search_abilities", `{"query":"  "}`)
	assert.EqualError(t, err, "query is required")
}

func TestRun_ToolCallOverStdio(t *testing.T) {
	s := newTestServer(t)
	c := startServer(t, s)

	resp := c.call(`{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"classify_ability","arguments":{"id":"voracious-bite"}}}`)

	var parsed struct {
		Result toolsCallResult `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(resp), &parsed))
	require.False(t, parsed.Result.IsError, resp)
	require.Len(t, parsed.Result.Content, 1)

	var res ClassifyResult
	require.NoError(t, json.Unmarshal([]byte(parsed.Result.Content[0].Text), &res))
	assert.Equal(t, engine.UrgencyHigh, res.Classification.Urgency)
	assert.Equal(t, ability.TierHigh, res.Ability.DamageTier)
}
