// Package watcher follows content files, re-validating every ability on each
// pass and emitting alerts when the content's health changes.
package watcher

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Asdafers/healerguide/internal/content"
	"github.com/Asdafers/healerguide/internal/engine"
)

// settleDelay is how long Run waits after the last file event before checking.
const settleDelay = 250 * time.Millisecond

// Level grades an alert.
type Level string

const (
	LevelInfo     Level = "info"
	LevelWarning  Level = "warning"
	LevelCritical Level = "critical"
)

// Alert represents a notable event detected by the watcher.
type Alert struct {
	Level   Level     `json:"level"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// AbilityStatus is the validation summary of one ability in a snapshot.
type AbilityStatus struct {
	Name        string
	EncounterID string
	Errors      int
	Warnings    int
}

// ContentState captures a point-in-time snapshot of the watched content.
type ContentState struct {
	Timestamp  time.Time
	Files      int
	LoadError  string
	Encounters map[string]int           // encounter ID -> ability count
	Abilities  map[string]AbilityStatus // ability ID -> status
}

// TotalErrors sums validation errors across every ability.
func (s *ContentState) TotalErrors() int {
	n := 0
	for _, a := range s.Abilities {
		n += a.Errors
	}
	return n
}

// TotalWarnings sums validation warnings across every ability.
func (s *ContentState) TotalWarnings() int {
	n := 0
	for _, a := range s.Abilities {
		n += a.Warnings
	}
	return n
}

// Watcher re-reads content at a regular interval and emits alerts when
// notable changes are detected.
type Watcher struct {
	paths         []string
	interval      time.Duration
	engine        *engine.Engine
	log           *zap.Logger
	previous      *ContentState
	alertFn       func(Alert)     // callback for emitting alerts
	lastAlertKeys map[string]bool // dedup: suppress repeated identical alerts
}

// New creates a Watcher over the given content files or directories.
func New(paths []string, interval time.Duration, eng *engine.Engine, log *zap.Logger, alertFn func(Alert)) *Watcher {
	if log == nil {
		log = zap.NewNop()
	}
	if eng == nil {
		eng = &engine.Engine{}
	}
	return &Watcher{
		paths:         paths,
		interval:      interval,
		engine:        eng,
		log:           log,
		alertFn:       alertFn,
		lastAlertKeys: make(map[string]bool),
	}
}

// Run takes an initial snapshot, then checks at every interval and shortly
// after any content file changes on disk. A load failure in the initial
// snapshot is reported as an alert rather than stopping the loop, so fixing
// the file clears it. When file notifications are unavailable Run falls back
// to polling alone. Blocks until ctx is cancelled and returns ctx.Err().
func (w *Watcher) Run(ctx context.Context) error {
	initial := w.Snapshot(ctx)
	w.previous = initial
	if initial.LoadError != "" {
		w.emit([]Alert{loadFailed(initial)})
	}
	w.log.Info("watching content",
		zap.Strings("paths", w.paths),
		zap.Int("files", initial.Files),
		zap.Int("abilities", len(initial.Abilities)),
		zap.Duration("interval", w.interval))

	var (
		events <-chan fsnotify.Event
		errs   <-chan error
	)
	fsw, err := newFileWatcher(w.paths)
	if err != nil {
		w.log.Warn("file notifications unavailable, polling only", zap.Error(err))
	} else {
		defer fsw.Close()
		events, errs = fsw.Events, fsw.Errors
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Editors emit bursts of events per save; one check runs once they settle.
	settle := time.NewTimer(settleDelay)
	settle.Stop()
	defer settle.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.emit(w.Check(ctx))
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if isContentEvent(ev) {
				w.log.Debug("content changed", zap.String("file", ev.Name), zap.Stringer("op", ev.Op))
				settle.Reset(settleDelay)
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			w.log.Warn("file notification error", zap.Error(err))
		case <-settle.C:
			w.emit(w.Check(ctx))
		}
	}
}

func (w *Watcher) emit(alerts []Alert) {
	for _, a := range alerts {
		if w.alertFn != nil {
			w.alertFn(a)
		}
	}
}

// Check performs a single check cycle: takes a new snapshot, compares against
// the previous state, updates the previous state, and returns any alerts.
// Identical alerts are suppressed until the underlying data changes.
func (w *Watcher) Check(ctx context.Context) []Alert {
	curr := w.Snapshot(ctx)

	// A failed load says nothing about the abilities, so the last good view
	// carries forward and only the failure itself is reported.
	if curr.LoadError != "" && w.previous != nil {
		curr.Encounters = w.previous.Encounters
		curr.Abilities = w.previous.Abilities
	}

	var raw []Alert
	if w.previous != nil {
		raw = Compare(w.previous, curr)
	}

	currentKeys := make(map[string]bool, len(raw))
	var alerts []Alert
	for _, a := range raw {
		key := string(a.Level) + ":" + a.Title + ":" + a.Message
		currentKeys[key] = true
		if !w.lastAlertKeys[key] {
			alerts = append(alerts, a)
		}
	}
	w.lastAlertKeys = currentKeys

	w.log.Debug("content check",
		zap.Int("abilities", len(curr.Abilities)),
		zap.Int("errors", curr.TotalErrors()),
		zap.Int("warnings", curr.TotalWarnings()),
		zap.Int("alerts", len(alerts)))

	w.previous = curr
	return alerts
}

// Snapshot loads the content and validates every ability. Load failures are
// recorded on the state, never returned.
func (w *Watcher) Snapshot(ctx context.Context) *ContentState {
	state := &ContentState{
		Timestamp:  time.Now(),
		Encounters: make(map[string]int),
		Abilities:  make(map[string]AbilityStatus),
	}

	files, err := content.Files(w.paths...)
	if err != nil {
		state.LoadError = fmt.Sprintf("listing content: %v", err)
		return state
	}
	state.Files = len(files)

	pack, err := content.LoadPaths(ctx, w.paths...)
	if err != nil {
		state.LoadError = err.Error()
		return state
	}

	for _, e := range pack.Encounters {
		state.Encounters[e.ID] = 0
	}
	for _, a := range pack.Abilities {
		state.Encounters[a.EncounterID]++
		result := w.engine.Validate(a)
		state.Abilities[a.ID] = AbilityStatus{
			Name:        a.Name,
			EncounterID: a.EncounterID,
			Errors:      result.Count(engine.SeverityError),
			Warnings:    result.Count(engine.SeverityWarning),
		}
	}
	return state
}
