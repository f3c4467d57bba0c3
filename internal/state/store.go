// Package state owns the canonical Portfolio for the session. Every
// form interaction and enrichment merge goes through this store; the
// preview renderer and the export pipeline read consistent snapshots
// from it. Each mutation autosaves to the persistence adapter, except
// when the portfolio is entirely empty — persisting a blank first
// render would clobber a meaningful snapshot from a prior session.
package state

import (
	"strings"
	"sync"

	"go.uber.org/zap"

	"folio/internal/types"
)

// Saver persists portfolio snapshots. Autosave is best effort: a
// failed save is logged, never surfaced to the mutation caller.
type Saver interface {
	SaveSnapshot(types.Portfolio) error
}

// Project fields addressable by UpdateProject.
const (
	FieldName         = "name"
	FieldTechnologies = "technologies"
	FieldDescription  = "description"
)

// Store serializes all portfolio mutations. Operations are applied in
// the order callers issue them; out-of-bounds indices are silently
// absorbed and never corrupt state.
type Store struct {
	mu      sync.Mutex
	p       types.Portfolio
	persist Saver
	log     *zap.Logger
}

// Partial is a set of top-level field replacements for Update. Nil
// fields are left untouched; non-nil fields replace wholesale.
type Partial struct {
	Name     *string
	Title    *string
	About    *string
	Skills   *[]string
	Projects *[]types.Project
}

// New creates an empty store.
func New(persist Saver, logger *zap.Logger) *Store {
	return NewFromSnapshot(nil, persist, logger)
}

// NewFromSnapshot creates a store seeded from a loaded snapshot, or
// empty when snap is nil (first visit).
func NewFromSnapshot(snap *types.Portfolio, persist Saver, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{persist: persist, log: logger}
	if snap != nil {
		s.p = snap.Clone()
		s.p.Generating = false
	}
	return s
}

// Snapshot returns a deep copy of the current portfolio.
func (s *Store) Snapshot() types.Portfolio {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.Clone()
}

// Update shallow-merges the given fields into the portfolio.
func (s *Store) Update(u Partial) {
	s.apply(func(p *types.Portfolio) {
		if u.Name != nil {
			p.Name = *u.Name
		}
		if u.Title != nil {
			p.Title = *u.Title
		}
		if u.About != nil {
			p.About = *u.About
		}
		if u.Skills != nil {
			p.Skills = append([]string(nil), (*u.Skills)...)
		}
		if u.Projects != nil {
			projects := make([]types.Project, len(*u.Projects))
			for i, pr := range *u.Projects {
				projects[i] = pr.Clone()
			}
			p.Projects = projects
		}
	})
}

// AddSkill appends the trimmed skill. Empty input and exact duplicates
// are no-ops, so the list stays set-like while preserving insertion
// order.
func (s *Store) AddSkill(skill string) {
	skill = strings.TrimSpace(skill)
	if skill == "" {
		return
	}
	s.apply(func(p *types.Portfolio) {
		for _, existing := range p.Skills {
			if existing == skill {
				return
			}
		}
		p.Skills = append(p.Skills, skill)
	})
}

// RemoveSkill removes an exact match if present.
func (s *Store) RemoveSkill(skill string) {
	s.apply(func(p *types.Portfolio) {
		for i, existing := range p.Skills {
			if existing == skill {
				p.Skills = append(p.Skills[:i], p.Skills[i+1:]...)
				return
			}
		}
	})
}

// AddProject parses the draft and appends a new project. A draft with
// an empty or whitespace-only name is rejected as a no-op; clearing
// the draft inputs afterwards is the caller's job.
func (s *Store) AddProject(draft types.ProjectDraft) {
	name := strings.TrimSpace(draft.Name)
	if name == "" {
		return
	}
	s.apply(func(p *types.Portfolio) {
		p.Projects = append(p.Projects, types.Project{
			Name:         name,
			Technologies: types.ParseTechnologies(draft.Technologies),
			Description:  strings.TrimSpace(draft.Description),
		})
	})
}

// RemoveProject removes the project at index; out of bounds is a no-op.
func (s *Store) RemoveProject(index int) {
	s.apply(func(p *types.Portfolio) {
		if index < 0 || index >= len(p.Projects) {
			return
		}
		p.Projects = append(p.Projects[:index], p.Projects[index+1:]...)
	})
}

// UpdateProject replaces one field of the project at index. Out of
// bounds and unknown field names are no-ops. A technologies update is
// the one structured edit that re-derives the list from raw input.
func (s *Store) UpdateProject(index int, field, value string) {
	s.apply(func(p *types.Portfolio) {
		if index < 0 || index >= len(p.Projects) {
			return
		}
		switch field {
		case FieldName:
			p.Projects[index].Name = value
		case FieldTechnologies:
			p.Projects[index].Technologies = types.ParseTechnologies(value)
		case FieldDescription:
			p.Projects[index].Description = value
		default:
			s.log.Debug("ignoring unknown project field", zap.String("field", field))
		}
	})
}

// Apply runs an arbitrary mutation under the store lock, then
// autosaves. It exists for multi-field merges that must land
// atomically, such as applying an enrichment result.
func (s *Store) Apply(mutate func(*types.Portfolio)) {
	s.apply(mutate)
}

// SetGenerating flips the transient in-flight flag. It does not
// trigger autosave: the flag is never part of a snapshot.
func (s *Store) SetGenerating(v bool) {
	s.mu.Lock()
	s.p.Generating = v
	s.mu.Unlock()
}

// Generating reports whether an enrichment round trip is in flight.
func (s *Store) Generating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.Generating
}

// TrySetGenerating flips the flag from false to true in one critical
// section, reporting whether this caller won it. Concurrent claimants
// see false without a window where both can proceed.
func (s *Store) TrySetGenerating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.p.Generating {
		return false
	}
	s.p.Generating = true
	return true
}

// Reset discards the in-memory portfolio when the user navigates back
// to the landing screen. The durable snapshot is deliberately left in
// place for the next session.
func (s *Store) Reset() {
	s.mu.Lock()
	s.p = types.Portfolio{}
	s.mu.Unlock()
}

func (s *Store) apply(mutate func(*types.Portfolio)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mutate(&s.p)

	if s.persist == nil || s.p.Empty() {
		return
	}
	if err := s.persist.SaveSnapshot(s.p.Clone()); err != nil {
		s.log.Warn("autosave failed", zap.Error(err))
	}
}
