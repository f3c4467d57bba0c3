// Package types defines the portfolio data model shared by the editing
// state store, the preview renderer, the enrichment client, and the
// export pipeline. A single Portfolio value is the source of truth for
// everything the engine does.
package types

import "strings"

// Portfolio is the root entity: one per active session.
//
// Generating is a transient in-flight marker for the enrichment round
// trip. It is never persisted; the json tag drops it from snapshots and
// from every outbound request.
type Portfolio struct {
	Name     string    `json:"name"`
	Title    string    `json:"title"`
	Skills   []string  `json:"skills"`
	Projects []Project `json:"projects"`
	About    string    `json:"about"`

	Generating bool `json:"-"`
}

// Project is a named work item owned by its Portfolio. Technologies is
// structured data: it is derived once from the raw comma-separated
// input via ParseTechnologies and only mutated through structured edits
// afterwards.
type Project struct {
	Name         string   `json:"name"`
	Technologies []string `json:"technologies"`
	Description  string   `json:"description"`
}

// ProjectDraft is raw form input for a new project. Technologies is the
// not-yet-parsed comma-separated string.
type ProjectDraft struct {
	Name         string
	Technologies string
	Description  string
}

// ParseTechnologies splits a comma-separated technology string, trims
// each fragment, and drops empty ones. "Go, , Rust ," yields
// ["Go", "Rust"].
func ParseTechnologies(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Clone returns a deep copy, so readers can hold a snapshot while the
// store keeps mutating the canonical value.
func (p Portfolio) Clone() Portfolio {
	out := p
	if p.Skills != nil {
		out.Skills = append([]string(nil), p.Skills...)
	}
	if p.Projects != nil {
		out.Projects = make([]Project, len(p.Projects))
		for i, pr := range p.Projects {
			out.Projects[i] = pr.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the project.
func (p Project) Clone() Project {
	out := p
	if p.Technologies != nil {
		out.Technologies = append([]string(nil), p.Technologies...)
	}
	return out
}

// Empty reports whether the portfolio has no identifying content at
// all. An empty portfolio must never be autosaved: on first mount the
// in-memory state is blank before the stored snapshot is applied, and
// persisting it would clobber real data from a prior session.
func (p Portfolio) Empty() bool {
	return p.Name == "" && p.Title == "" && len(p.Skills) == 0 && len(p.Projects) == 0
}

// ExportBaseName derives the artifact file stem from the portfolio
// name: "<name>-portfolio", falling back to "portfolio" when the name
// is blank. Filesystem sanitization is the writer's concern.
func (p Portfolio) ExportBaseName() string {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = "portfolio"
	}
	return name + "-portfolio"
}
