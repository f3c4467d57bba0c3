package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"folio/internal/bus"
	"folio/internal/state"
	"folio/internal/types"
)

type fakeGenerator struct {
	res   Result
	err   error
	calls int
	last  Request
}

func (f *fakeGenerator) Generate(_ context.Context, req Request) (Result, error) {
	f.calls++
	f.last = req
	return f.res, f.err
}

func seededStore(t *testing.T, p types.Portfolio) *state.Store {
	t.Helper()
	return state.NewFromSnapshot(&p, nil, zap.NewNop())
}

func collectToasts(b *bus.Bus) *[]bus.Toast {
	var toasts []bus.Toast
	b.SubscribeToast(func(n bus.Toast) { toasts = append(toasts, n) })
	return &toasts
}

func TestRequestRejectsMissingTitle(t *testing.T) {
	st := seededStore(t, types.Portfolio{Name: "Ada"})
	b := bus.New()
	toasts := collectToasts(b)
	gen := &fakeGenerator{}
	c := NewClient(st, b, gen, zap.NewNop())

	err := c.Request(context.Background())

	assert.ErrorIs(t, err, ErrMissingIdentity)
	assert.Zero(t, gen.calls, "no network attempt on validation failure")
	require.Len(t, *toasts, 1, "exactly one error notification")
	assert.Equal(t, bus.ToastError, (*toasts)[0].Type)
	assert.False(t, st.Generating())
}

func TestRequestRejectsWhileBusy(t *testing.T) {
	st := seededStore(t, types.Portfolio{Name: "Ada", Title: "Engineer"})
	st.SetGenerating(true)
	gen := &fakeGenerator{}
	c := NewClient(st, bus.New(), gen, zap.NewNop())

	assert.ErrorIs(t, c.Request(context.Background()), ErrBusy)
	assert.Zero(t, gen.calls)
	assert.True(t, st.Generating(), "the in-flight round trip keeps its flag")
}

// blockingGenerator parks inside Generate until released, so a test
// can overlap a second request with an in-flight one.
type blockingGenerator struct {
	entered chan struct{}
	release chan struct{}
	calls   atomic.Int32
}

func (g *blockingGenerator) Generate(ctx context.Context, _ Request) (Result, error) {
	g.calls.Add(1)
	close(g.entered)
	select {
	case <-g.release:
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
	return Result{About: "done"}, nil
}

func TestRequestConcurrentOverlapSingleRoundTrip(t *testing.T) {
	st := seededStore(t, types.Portfolio{Name: "Ada", Title: "Engineer"})
	gen := &blockingGenerator{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	c := NewClient(st, bus.New(), gen, zap.NewNop())

	done := make(chan error, 1)
	go func() { done <- c.Request(context.Background()) }()

	<-gen.entered
	assert.ErrorIs(t, c.Request(context.Background()), ErrBusy)

	close(gen.release)
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), gen.calls.Load(), "only the winner reaches the generator")
	assert.Equal(t, "done", st.Snapshot().About)
	assert.False(t, st.Generating())
}

func TestRequestBuildsReducedPayload(t *testing.T) {
	st := seededStore(t, types.Portfolio{
		Name:   "Ada",
		Title:  "Engineer",
		Skills: []string{"Go"},
		Projects: []types.Project{
			{Name: "Engine", Technologies: []string{"Go", "SQL"}, Description: "secret"},
		},
	})
	gen := &fakeGenerator{}
	c := NewClient(st, bus.New(), gen, zap.NewNop())

	require.NoError(t, c.Request(context.Background()))

	want := Request{
		Name:     "Ada",
		Title:    "Engineer",
		Skills:   []string{"Go"},
		Projects: []ProjectRef{{Name: "Engine", Technologies: []string{"Go", "SQL"}}},
	}
	if diff := cmp.Diff(want, gen.last); diff != "" {
		t.Errorf("request mismatch (-want +got):\n%s", diff)
	}

	raw, err := json.Marshal(gen.last)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret", "descriptions never leave the engine")
}

func TestRequestFailureNotifiesAndPreservesState(t *testing.T) {
	before := types.Portfolio{Name: "Ada", Title: "Engineer", About: "original"}
	st := seededStore(t, before)
	b := bus.New()
	toasts := collectToasts(b)
	c := NewClient(st, b, &fakeGenerator{err: errors.New("boom")}, zap.NewNop())

	err := c.Request(context.Background())

	require.Error(t, err)
	require.Len(t, *toasts, 1)
	assert.Equal(t, bus.ToastError, (*toasts)[0].Type)
	assert.False(t, st.Generating(), "flag cleared on the failure path")
	assert.Equal(t, "original", st.Snapshot().About, "no field mutated on failure")
}

func TestRequestSuccessClearsFlagAndMerges(t *testing.T) {
	st := seededStore(t, types.Portfolio{
		Name:     "Ada",
		Title:    "Engineer",
		Projects: []types.Project{{Name: "P1"}},
	})
	gen := &fakeGenerator{res: Result{About: "generated", ProjectDescriptions: []string{"desc"}}}
	c := NewClient(st, bus.New(), gen, zap.NewNop())

	require.NoError(t, c.Request(context.Background()))

	snap := st.Snapshot()
	assert.False(t, st.Generating())
	assert.Equal(t, "generated", snap.About)
	assert.Equal(t, "desc", snap.Projects[0].Description)
}

func TestMergePartialDescriptions(t *testing.T) {
	p := types.Portfolio{Projects: []types.Project{
		{Name: "P1", Description: "A"},
		{Name: "P2", Description: "B"},
	}}

	Merge(&p, Result{ProjectDescriptions: []string{"X"}})

	assert.Equal(t, "X", p.Projects[0].Description)
	assert.Equal(t, "B", p.Projects[1].Description, "tail projects keep their descriptions")
}

func TestMergeEmptyEntryKeepsExisting(t *testing.T) {
	p := types.Portfolio{Projects: []types.Project{
		{Name: "P1", Description: "A"},
		{Name: "P2", Description: "B"},
	}}

	Merge(&p, Result{ProjectDescriptions: []string{"", "Y"}})

	assert.Equal(t, "A", p.Projects[0].Description, "empty response entry does not clear")
	assert.Equal(t, "Y", p.Projects[1].Description)
}

func TestMergeAbsentAboutKeepsPrior(t *testing.T) {
	p := types.Portfolio{About: "prior"}
	Merge(&p, Result{})
	assert.Equal(t, "prior", p.About)

	Merge(&p, Result{About: "fresh"})
	assert.Equal(t, "fresh", p.About)
}

func TestHTTPGenerator(t *testing.T) {
	var gotPath string
	var gotReq Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(Result{About: "hi", ProjectDescriptions: []string{"d"}})
	}))
	defer srv.Close()

	g := NewHTTPGenerator(srv.URL)
	res, err := g.Generate(context.Background(), Request{Name: "Ada", Title: "Engineer"})

	require.NoError(t, err)
	assert.Equal(t, "/api/ai/generate", gotPath)
	assert.Equal(t, "Ada", gotReq.Name)
	assert.Equal(t, "hi", res.About)
	assert.Equal(t, []string{"d"}, res.ProjectDescriptions)
}

func TestHTTPGeneratorRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no API key configured", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewHTTPGenerator(srv.URL).Generate(context.Background(), Request{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}
