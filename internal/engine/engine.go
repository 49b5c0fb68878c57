package engine

import (
	"sort"
	"strings"
)

// Options configures an Engine.
type Options struct {
	// KnownCritical lists ability names that always demand an immediate
	// response, regardless of their recorded damage tier.
	KnownCritical []string
}

// Engine runs the classification rules. The zero value is usable and has an
// empty known-critical table.
type Engine struct {
	knownCritical map[string]struct{}
}

// New creates an Engine. The known-critical table is copied, so later changes
// to opts have no effect.
func New(opts Options) *Engine {
	e := &Engine{knownCritical: make(map[string]struct{}, len(opts.KnownCritical))}
	for _, name := range opts.KnownCritical {
		key := normalizeName(name)
		if key == "" {
			continue
		}
		e.knownCritical[key] = struct{}{}
	}
	return e
}

// IsKnownCritical reports whether name is in the known-critical table.
// Matching ignores case and surrounding whitespace.
func (e *Engine) IsKnownCritical(name string) bool {
	if e == nil {
		return false
	}
	_, ok := e.knownCritical[normalizeName(name)]
	return ok
}

// KnownCritical returns the normalized known-critical names, sorted.
func (e *Engine) KnownCritical() []string {
	if e == nil {
		return nil
	}
	names := make([]string, 0, len(e.knownCritical))
	for name := range e.knownCritical {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// containsFold reports whether substr occurs in s, ignoring case.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
