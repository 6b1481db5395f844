// Package wizard implements the multi-step wizard controller. A Session owns
// all session state: the current index into the visible step list, the
// completed set, the per-step validity map, the adopted draft id and the
// submitted flag. Step views read the form data store directly but never
// navigate or persist on their own.
package wizard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/atriumhq/atrium/pkg/formdata"
	"github.com/atriumhq/atrium/pkg/gateway"
	"github.com/atriumhq/atrium/pkg/models"
	"github.com/atriumhq/atrium/pkg/steps"
)

// SaveResult reports the outcome of one persistence attempt. A failed save
// never blocks navigation, so callers surface Message out-of-band instead of
// treating the result as an error.
type SaveResult struct {
	Success bool
	Message string
	DraftID string
}

// SectionSummary is one review-stage group: the fields a single step owns,
// with the step's current index for edit links.
type SectionSummary struct {
	StepID      string
	DisplayName string
	StepIndex   int
	Fields      []SummaryField
}

// SummaryField is one field value in a review section.
type SummaryField struct {
	Key   string
	Value any
}

// Config wires a session. Type, Registry, Store and Gateway are required.
type Config struct {
	Type     models.DraftType
	Registry *steps.Registry
	Store    *formdata.Store
	Gateway  gateway.Gateway
	Logger   *slog.Logger

	// OnSaveResult, when set, is invoked after every persistence attempt
	// with its outcome. Used by UIs to show a "saving draft" indicator.
	OnSaveResult func(SaveResult)
}

// Session drives one wizard run. All exported methods are safe for concurrent
// use, though a browser session typically calls them from a single goroutine.
type Session struct {
	mu        sync.Mutex
	cfg       Config
	current   int
	completed map[int]struct{}
	validity  map[int]bool
	draftID   string
	submitted bool
}

// New creates a session starting at the first step with an empty state.
func New(cfg Config) (*Session, error) {
	if !cfg.Type.Valid() {
		return nil, fmt.Errorf("invalid draft type %q", cfg.Type)
	}

	if cfg.Registry == nil || cfg.Store == nil || cfg.Gateway == nil {
		return nil, fmt.Errorf("registry, store and gateway are required")
	}

	if cfg.Registry.DraftType() != cfg.Type {
		return nil, fmt.Errorf("registry is for draft type %q, session wants %q",
			cfg.Registry.DraftType(), cfg.Type)
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Session{
		cfg:       cfg,
		completed: make(map[int]struct{}),
		validity:  make(map[int]bool),
	}, nil
}

// Hydrate loads a persisted draft into the session for resumed editing. It is
// the one blocking persistence path: the store must be populated before any
// step is consulted, so a failure here is a hard error and callers must not
// render steps over it.
func (s *Session) Hydrate(ctx context.Context, draftID string) error {
	draft, err := s.cfg.Gateway.Get(ctx, draftID)
	if err != nil {
		return fmt.Errorf("failed to hydrate draft %s: %w", draftID, err)
	}

	if draft.Type != s.cfg.Type {
		return fmt.Errorf("draft %s is of type %q, session expects %q",
			draftID, draft.Type, s.cfg.Type)
	}

	if !draft.Editable() {
		return fmt.Errorf("draft %s is already published", draftID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg.Store.Merge(draft.Data)
	s.draftID = draft.ID
	s.current = 0
	s.submitted = false

	s.cfg.Logger.InfoContext(ctx, "Hydrated draft session",
		"draft_id", draft.ID, "draft_type", draft.Type, "fields", len(draft.Data))

	return nil
}

// SaveAndContinue merges the step payload into the store, persists a snapshot
// best-effort and advances to the next visible step. Persistence failures are
// reported through the returned SaveResult but never gate navigation; the
// draft id is adopted only from the first successful create.
func (s *Session) SaveAndContinue(ctx context.Context, payload models.FormData) SaveResult {
	s.cfg.Store.Merge(payload)
	snapshot := s.cfg.Store.Snapshot()

	result := s.persist(ctx, snapshot, models.DraftStatusDraft)

	s.mu.Lock()
	s.completed[s.current] = struct{}{}

	if last := s.cfg.Registry.Count(snapshot) - 1; s.current < last {
		s.current++
	}
	s.mu.Unlock()

	s.report(result)

	return result
}

// persist upserts the snapshot: create-then-update when the session has no
// draft id yet, plain update otherwise.
func (s *Session) persist(ctx context.Context, snapshot models.FormData, status models.DraftStatus) SaveResult {
	s.mu.Lock()
	draftID := s.draftID
	s.mu.Unlock()

	if draftID == "" {
		created, err := s.cfg.Gateway.Create(ctx, s.cfg.Type)
		if err != nil {
			s.cfg.Logger.WarnContext(ctx, "Draft create failed", "error", err)

			return SaveResult{Message: "Could not save draft, your progress is kept locally"}
		}

		s.mu.Lock()
		// A concurrent save may have won the race; the first assigned id
		// is the only one the session ever uses.
		if s.draftID == "" {
			s.draftID = created
		}
		draftID = s.draftID
		s.mu.Unlock()
	}

	if err := s.cfg.Gateway.Update(ctx, draftID, snapshot, status); err != nil {
		s.cfg.Logger.WarnContext(ctx, "Draft update failed",
			"draft_id", draftID, "error", err)

		return SaveResult{
			Message: "Could not save draft, your progress is kept locally",
			DraftID: draftID,
		}
	}

	return SaveResult{Success: true, DraftID: draftID}
}

func (s *Session) report(result SaveResult) {
	if s.cfg.OnSaveResult != nil {
		s.cfg.OnSaveResult(result)
	}
}

// PreviousStep moves back one step, floored at the first. No persistence.
func (s *Session) PreviousStep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current > 0 {
		s.current--
	}
}

// GoToStep jumps to a visible step index, used by review-stage edit links.
// Out-of-range indexes are ignored.
func (s *Session) GoToStep(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= s.cfg.Registry.Count(s.cfg.Store.Snapshot()) {
		return
	}

	s.current = index
}

// GoToStepID jumps to a step by its stable id, resolving the id to its
// current visible index at the moment of navigation. Hidden or unknown steps
// are ignored.
func (s *Session) GoToStepID(id string) {
	index := s.cfg.Registry.IndexByID(id, s.cfg.Store.Snapshot())
	if index < 0 {
		return
	}

	s.GoToStep(index)
}

// Reset returns the session to a pristine state: empty store, first step, no
// completion or validity history, no draft id. The draft on the server, if
// one was created, is left alone.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg.Store.Reset()
	s.current = 0
	s.completed = make(map[int]struct{})
	s.validity = make(map[int]bool)
	s.draftID = ""
	s.submitted = false
}

// Publish merges the final payload, persists it and, only when that save
// succeeded and a draft id exists, asks the gateway to publish. Success is
// terminal; failure leaves the session alive and editable. Publish never
// auto-advances.
func (s *Session) Publish(ctx context.Context, payload models.FormData) SaveResult {
	s.cfg.Store.Merge(payload)
	snapshot := s.cfg.Store.Snapshot()

	result := s.persist(ctx, snapshot, models.DraftStatusDraft)
	if !result.Success || result.DraftID == "" {
		if result.Message == "" {
			result.Message = "Could not submit, please try again"
		}

		s.report(result)

		return result
	}

	if err := s.cfg.Gateway.Publish(ctx, result.DraftID); err != nil {
		s.cfg.Logger.WarnContext(ctx, "Draft publish failed",
			"draft_id", result.DraftID, "error", err)

		result = SaveResult{
			Message: "Could not submit, please try again",
			DraftID: result.DraftID,
		}
		s.report(result)

		return result
	}

	s.mu.Lock()
	s.submitted = true
	s.mu.Unlock()

	s.cfg.Logger.InfoContext(ctx, "Draft submitted", "draft_id", result.DraftID)
	s.report(result)

	return result
}

// UpdateStepValidation records the validity of a step's fields. Validity only
// drives the continue affordance; it is never re-checked inside
// SaveAndContinue. Invalid steps disable the button, they do not reject the
// call.
func (s *Session) UpdateStepValidation(index int, valid bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.validity[index] = valid
}

// CanContinue reports whether the current step's fields are valid. Steps with
// no recorded validity default to continuable, matching steps without inputs.
func (s *Session) CanContinue() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	valid, ok := s.validity[s.current]

	return !ok || valid
}

// CurrentStep returns the current index into the visible step list.
func (s *Session) CurrentStep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.current
}

// CurrentDefinition resolves the current step definition against the live
// form data, or nil when branching shrank the visible list below the index.
func (s *Session) CurrentDefinition() *steps.Definition {
	s.mu.Lock()
	current := s.current
	s.mu.Unlock()

	return s.cfg.Registry.StepAt(current, s.cfg.Store.Snapshot())
}

// TotalSteps returns the number of currently visible steps.
func (s *Session) TotalSteps() int {
	return s.cfg.Registry.Count(s.cfg.Store.Snapshot())
}

// Completed reports whether the step at index was saved at least once.
func (s *Session) Completed(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.completed[index]

	return ok
}

// DraftID returns the adopted draft id, or "" before the first successful
// create.
func (s *Session) DraftID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.draftID
}

// Submitted reports whether the session reached the terminal submitted state.
func (s *Session) Submitted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.submitted
}

// Summary groups the store contents by owning step for the review stage.
// Only visible steps with at least one populated field produce a section, and
// each section carries the step's current index so edit links stay correct
// when branching has shifted the sequence.
func (s *Session) Summary() []SectionSummary {
	snapshot := s.cfg.Store.Snapshot()
	visible := s.cfg.Registry.Visible(snapshot)

	sections := make([]SectionSummary, 0, len(visible))

	for i, def := range visible {
		if len(def.Fields) == 0 {
			continue
		}

		fields := make([]SummaryField, 0, len(def.Fields))

		for _, key := range def.Fields {
			if value, ok := snapshot[key]; ok {
				fields = append(fields, SummaryField{Key: key, Value: value})
			}
		}

		if len(fields) == 0 {
			continue
		}

		sections = append(sections, SectionSummary{
			StepID:      def.ID,
			DisplayName: def.DisplayName,
			StepIndex:   i,
			Fields:      fields,
		})
	}

	return sections
}
