// Package enrich builds enrichment requests from portfolio state,
// runs them against a Generator, and merges the results back without
// losing user-authored data. The generator is an opaque collaborator:
// a remote endpoint or a direct Gemini call, selected at wiring time.
package enrich

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"folio/internal/bus"
	"folio/internal/state"
	"folio/internal/types"
)

// Sentinel errors callers can branch on.
var (
	// ErrMissingIdentity rejects a request before any network
	// attempt when name or title is empty.
	ErrMissingIdentity = errors.New("enrich: name and title are required")
	// ErrBusy rejects a request while another round trip is in
	// flight. At most one may be outstanding.
	ErrBusy = errors.New("enrich: generation already in progress")
)

const (
	msgMissingIdentity = "Please enter your name and title first"
	msgGenerateFailed  = "Failed to generate descriptions. Please try again."
)

// Request is the outbound enrichment payload. Projects carry only
// name and technologies — descriptions are what the generator
// produces, so sending them would bias the result.
type Request struct {
	Name     string       `json:"name"`
	Title    string       `json:"title"`
	Skills   []string     `json:"skills"`
	Projects []ProjectRef `json:"projects"`
}

// ProjectRef is the reduced project view in a Request.
type ProjectRef struct {
	Name         string   `json:"name"`
	Technologies []string `json:"technologies"`
}

// Result is the generator's answer. Both fields are optional;
// ProjectDescriptions aligns by position with the request's projects
// and may be shorter than it.
type Result struct {
	About               string   `json:"about,omitempty"`
	ProjectDescriptions []string `json:"projectDescriptions,omitempty"`
}

// Generator produces enrichment text for a request.
type Generator interface {
	Generate(ctx context.Context, req Request) (Result, error)
}

// Client coordinates one enrichment round trip at a time against the
// state store.
type Client struct {
	state *state.Store
	bus   *bus.Bus
	gen   Generator
	log   *zap.Logger
}

// NewClient wires an enrichment client.
func NewClient(st *state.Store, b *bus.Bus, gen Generator, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{state: st, bus: b, gen: gen, log: logger}
}

// BuildRequest reduces a portfolio to the outbound payload.
func BuildRequest(p types.Portfolio) Request {
	req := Request{
		Name:     p.Name,
		Title:    p.Title,
		Skills:   append([]string(nil), p.Skills...),
		Projects: make([]ProjectRef, len(p.Projects)),
	}
	for i, pr := range p.Projects {
		req.Projects[i] = ProjectRef{
			Name:         pr.Name,
			Technologies: append([]string(nil), pr.Technologies...),
		}
	}
	return req
}

// Merge applies a result to the portfolio in place. The about text
// replaces only when the response supplies one; each project keeps its
// own description unless the response has a non-empty entry at that
// position. A response shorter than the project list leaves the tail
// untouched.
func Merge(p *types.Portfolio, res Result) {
	if res.About != "" {
		p.About = res.About
	}
	for i := range p.Projects {
		if i < len(res.ProjectDescriptions) && res.ProjectDescriptions[i] != "" {
			p.Projects[i].Description = res.ProjectDescriptions[i]
		}
	}
}

// Request runs one enrichment round trip: validate, call the
// generator, merge. The transient generation flag is held for the
// duration and cleared on every exit path. Failures notify the user
// and leave the portfolio untouched.
func (c *Client) Request(ctx context.Context) error {
	snap := c.state.Snapshot()
	if snap.Name == "" || snap.Title == "" {
		c.bus.PublishToast(msgMissingIdentity, bus.ToastError)
		return ErrMissingIdentity
	}
	if !c.state.TrySetGenerating() {
		return ErrBusy
	}
	defer c.state.SetGenerating(false)

	res, err := c.gen.Generate(ctx, BuildRequest(snap))
	if err != nil {
		c.log.Warn("enrichment generation failed", zap.Error(err))
		c.bus.PublishToast(msgGenerateFailed, bus.ToastError)
		return fmt.Errorf("enrich: %w", err)
	}

	c.state.Apply(func(p *types.Portfolio) {
		Merge(p, res)
	})
	return nil
}
