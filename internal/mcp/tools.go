package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Asdafers/healerguide/internal/ability"
	"github.com/Asdafers/healerguide/internal/engine"
)

// ClassifyResult pairs an ability with its classification.
type ClassifyResult struct {
	Ability        ability.Record        `json:"ability"`
	Classification engine.Classification `json:"classification"`
	Priority       int                   `json:"priority"`
	DisplayHint    engine.DisplayHint    `json:"display_hint"`
}

// ValidateResult is the validation outcome for one ability.
type ValidateResult struct {
	AbilityID string `json:"ability_id"`
	engine.ValidationResult
}

// ActionsResult is the response plan for a damage tier.
type ActionsResult struct {
	DamageTier ability.DamageTier         `json:"damage_tier"`
	Actions    []engine.RecommendedAction `json:"actions"`
}

// PrioritizeResult is the ranked ability list for an encounter.
type PrioritizeResult struct {
	EncounterID string                      `json:"encounter_id"`
	Abilities   []engine.PrioritizedAbility `json:"abilities"`
}

// SearchResult lists abilities matching a query.
type SearchResult struct {
	Query     string           `json:"query"`
	Abilities []ability.Record `json:"abilities"`
}

// defaultSearchLimit caps search_abilities when no limit is given.
const defaultSearchLimit = 20

var (
	idSchema        = json.RawMessage(`{"type":"object","properties":{"id":{"type":"string","description":"Ability ID"}},"required":["id"],"additionalProperties":false}`)
	tierSchema      = json.RawMessage(`{"type":"object","properties":{"damage_tier":{"type":"string","enum":["critical","high","moderate","mechanic"]}},"required":["damage_tier"],"additionalProperties":false}`)
	encounterSchema = json.RawMessage(`{"type":"object","properties":{"encounter_id":{"type":"string","description":"Encounter ID"}},"required":["encounter_id"],"additionalProperties":false}`)
	rankSchema      = json.RawMessage(`{"type":"object","properties":{"encounter_id":{"type":"string","description":"Encounter ID"},"key_only":{"type":"boolean","description":"Only key mechanics"},"limit":{"type":"integer","description":"Maximum abilities to return (0 = all)"}},"required":["encounter_id"],"additionalProperties":false}`)
	searchSchema    = json.RawMessage(`{"type":"object","properties":{"query":{"type":"string"},"limit":{"type":"integer","description":"Maximum results (default 20)"}},"required":["query"],"additionalProperties":false}`)
)

// addTools registers all MCP tool handlers on s.
func addTools(s *Server) {
	s.registerTool(toolDef{
		Name:        "classify_ability",
		Description: "Urgency, complexity, impact and preparation text for one ability.",
		InputSchema: idSchema,
		Handler:     s.handleClassifyAbility,
	})
	s.registerTool(toolDef{
		Name:        "validate_ability",
		Description: "Content-completeness and healer-relevance issues for one ability.",
		InputSchema: idSchema,
		Handler:     s.handleValidateAbility,
	})
	s.registerTool(toolDef{
		Name:        "recommended_actions",
		Description: "Ordered healer response plan for a damage tier.",
		InputSchema: tierSchema,
		Handler:     s.handleRecommendedActions,
	})
	s.registerTool(toolDef{
		Name:        "analyze_encounter",
		Description: "Damage distribution, healing load and cooldown plan for an encounter.",
		InputSchema: encounterSchema,
		Handler:     s.handleAnalyzeEncounter,
	})
	s.registerTool(toolDef{
		Name:        "prioritize_encounter",
		Description: "Encounter abilities in healer priority order.",
		InputSchema: rankSchema,
		Handler:     s.handlePrioritizeEncounter,
	})
	s.registerTool(toolDef{
		Name:        "search_abilities",
		Description: "Abilities whose name, healer action or insight contains the query.",
		InputSchema: searchSchema,
		Handler:     s.handleSearchAbilities,
	})
}

// decodeArgs unmarshals tool arguments into v.
func decodeArgs(args json.RawMessage, v any) error {
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

func (s *Server) handleClassifyAbility(ctx context.Context, args json.RawMessage) (any, error) {
	var p struct {
		ID string `json:"id"`
	}
	if err := decodeArgs(args, &p); err != nil {
		return nil, err
	}
	if err := required("id", p.ID); err != nil {
		return nil, err
	}
	a, err := s.source.FetchAbilityByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return ClassifyResult{
		Ability:        a,
		Classification: s.engine.Classify(a),
		Priority:       engine.PriorityScore(a),
		DisplayHint:    engine.DisplayHintFor(a),
	}, nil
}

func (s *Server) handleValidateAbility(ctx context.Context, args json.RawMessage) (any, error) {
	var p struct {
		ID string `json:"id"`
	}
	if err := decodeArgs(args, &p); err != nil {
		return nil, err
	}
	if err := required("id", p.ID); err != nil {
		return nil, err
	}
	a, err := s.source.FetchAbilityByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return ValidateResult{AbilityID: a.ID, ValidationResult: s.engine.Validate(a)}, nil
}

func (s *Server) handleRecommendedActions(_ context.Context, args json.RawMessage) (any, error) {
	var p struct {
		DamageTier string `json:"damage_tier"`
	}
	if err := decodeArgs(args, &p); err != nil {
		return nil, err
	}
	tier, err := ability.ParseDamageTier(p.DamageTier)
	if err != nil {
		return nil, err
	}
	return ActionsResult{DamageTier: tier, Actions: engine.RecommendedActions(tier)}, nil
}

func (s *Server) handleAnalyzeEncounter(ctx context.Context, args json.RawMessage) (any, error) {
	var p struct {
		EncounterID string `json:"encounter_id"`
	}
	if err := decodeArgs(args, &p); err != nil {
		return nil, err
	}
	if err := required("encounter_id", p.EncounterID); err != nil {
		return nil, err
	}
	abilities, err := s.source.FetchAbilitiesForEncounter(ctx, p.EncounterID)
	if err != nil {
		return nil, err
	}
	analysis, err := s.engine.Analyze(abilities)
	if errors.Is(err, engine.ErrEmptySet) {
		return nil, fmt.Errorf("encounter %s: %w", p.EncounterID, err)
	}
	return analysis, err
}

func (s *Server) handlePrioritizeEncounter(ctx context.Context, args json.RawMessage) (any, error) {
	var p struct {
		EncounterID string `json:"encounter_id"`
		KeyOnly     bool   `json:"key_only"`
		Limit       int    `json:"limit"`
	}
	if err := decodeArgs(args, &p); err != nil {
		return nil, err
	}
	if err := required("encounter_id", p.EncounterID); err != nil {
		return nil, err
	}
	abilities, err := s.source.FetchAbilitiesForEncounter(ctx, p.EncounterID)
	if err != nil {
		return nil, err
	}
	if p.KeyOnly {
		abilities = engine.KeyMechanics(abilities)
	}
	ranked := s.engine.PrioritizeForHealer(abilities)
	if p.Limit > 0 && len(ranked) > p.Limit {
		ranked = ranked[:p.Limit]
	}
	return PrioritizeResult{EncounterID: p.EncounterID, Abilities: ranked}, nil
}

func (s *Server) handleSearchAbilities(ctx context.Context, args json.RawMessage) (any, error) {
	var p struct {
		Query string `json:"query"`
		Limit int    `json:"limit"`
	}
	if err := decodeArgs(args, &p); err != nil {
		return nil, err
	}
	if err := required("query", p.Query); err != nil {
		return nil, err
	}
	limit := p.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	found, err := s.source.SearchAbilities(ctx, p.Query)
	if err != nil {
		return nil, err
	}
	if len(found) > limit {
		found = found[:limit]
	}
	return SearchResult{Query: p.Query, Abilities: found}, nil
}
