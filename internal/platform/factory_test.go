package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/showcase/pkg/adapters/memory"
	"github.com/aretw0/showcase/pkg/core"
	"github.com/aretw0/showcase/pkg/render"
)

const projectsJSON = `[
  {"title": "Notebook", "description": "Markdown vault", "tags": ["go", "cli"], "date": "2024-03-01"},
  {"title": "Rustle", "tags": ["rust"], "date": "2023"},
  {"title": "Gopher tools", "tags": ["go"], "date": "2022-01-05"}
]`

func writeSite(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func memoryPage(t *testing.T, opts ...Option) *Page {
	t.Helper()
	coll := core.NewCollection([]core.Record{
		{Title: "Notebook", Description: "Markdown vault", Tags: []string{"go", "cli"}, Date: "2024-03-01"},
		{Title: "Rustle", Tags: []string{"rust"}, Date: "2023"},
	})
	opts = append([]Option{WithAdapter("memory"), WithCollection(coll)}, opts...)
	p, err := New(context.Background(), "", "projects", opts...)
	require.NoError(t, err)
	return p
}

func TestNew_MemoryAdapter(t *testing.T) {
	ctx := context.Background()
	p := memoryPage(t)
	assert.Nil(t, p.Loader)

	v := p.Open(ctx)
	assert.Equal(t, 2, v.Total)
	assert.Len(t, v.Items, 2)

	p.Controller.ToggleFacet(ctx, "rust")
	frag, err := p.Fragment.Fragment(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tag=rust", frag)
	assert.Equal(t, "Rustle", p.Controller.Results()[0].Title)
}

func TestNew_UnknownAdapter(t *testing.T) {
	_, err := New(context.Background(), "", "projects", WithAdapter("sqlite"))
	assert.ErrorContains(t, err, "unknown adapter")
}

func TestNew_FSAdapterNeedsRoot(t *testing.T) {
	_, err := New(context.Background(), "", "projects")
	assert.Error(t, err)
}

func TestNew_FSAdapter(t *testing.T) {
	ctx := context.Background()
	root := writeSite(t, map[string]string{
		"data/projects.json": projectsJSON,
	})

	p, err := New(ctx, root, "projects")
	require.NoError(t, err)
	require.NotNil(t, p.Loader)

	v := p.Open(ctx)
	assert.Equal(t, 3, v.Total)
	assert.Equal(t, "Notebook", v.Items[0].Record.Title)
	assert.Equal(t, []string{"cli", "go", "rust"}, []string(p.Controller.Index()))

	p.Controller.ToggleFacet(ctx, "go")
	p.Controller.SetSort(ctx, core.SortTitle)

	data, err := os.ReadFile(filepath.Join(root, ".showcase", "projects.location"))
	require.NoError(t, err)
	assert.Equal(t, "sort=title&tag=go\n", string(data))
	assert.FileExists(t, filepath.Join(root, ".showcase", "state.json"))

	// A second page over the same site restores the state.
	again, err := New(ctx, root, "projects")
	require.NoError(t, err)
	again.Open(ctx)
	assert.Equal(t, core.ViewState{Facets: []string{"go"}, Sort: core.SortTitle}, again.Controller.Get())

	titles := []string{}
	for _, r := range again.Controller.Results() {
		titles = append(titles, r.Title)
	}
	assert.Equal(t, []string{"Gopher tools", "Notebook"}, titles)
}

func TestNew_FSAdapterSiteConfig(t *testing.T) {
	ctx := context.Background()
	root := writeSite(t, map[string]string{
		"content/projects.json": projectsJSON,
		"showcase.yaml": `
pattern: "content/*.json"
state_dir: .state
language: en
catalogs:
  projects:
    search: [title]
`,
	})

	p, err := New(ctx, root, "projects")
	require.NoError(t, err)
	p.Open(ctx)
	assert.Equal(t, 3, p.Controller.View().Total)

	// Descriptions are not searched for this catalog.
	p.Controller.SetQuery(ctx, "markdown")
	assert.Empty(t, p.Controller.Results())

	p.Controller.SetQuery(ctx, "gopher")
	assert.Len(t, p.Controller.Results(), 1)
	assert.FileExists(t, filepath.Join(root, ".state", "projects.location"))
}

func TestNew_InvalidSiteConfig(t *testing.T) {
	root := writeSite(t, map[string]string{
		"showcase.yaml": "language: \"not a language!\"\n",
	})
	_, err := New(context.Background(), root, "projects")
	assert.ErrorContains(t, err, "invalid language")
}

func TestNew_BrokenFileIsSkipped(t *testing.T) {
	ctx := context.Background()
	var reported []error
	root := writeSite(t, map[string]string{
		"data/projects.json": projectsJSON,
		"data/broken.json":   "{not json",
	})

	p, err := New(ctx, root, "projects", WithErrorHandler(func(err error) {
		reported = append(reported, err)
	}))
	require.NoError(t, err)
	assert.Equal(t, 3, p.Controller.View().Total)
	require.Len(t, reported, 1)
	assert.ErrorContains(t, reported[0], "data/broken.json")
}

func TestNew_InjectedStores(t *testing.T) {
	ctx := context.Background()
	root := writeSite(t, map[string]string{
		"data/projects.json": projectsJSON,
	})
	loc := memory.NewLocation("#tag=rust")
	store := memory.NewStore()

	p, err := New(ctx, root, "projects", WithFragmentStore(loc), WithDurableStore(store))
	require.NoError(t, err)
	p.Open(ctx)
	assert.Equal(t, []string{"rust"}, p.Controller.Get().Facets)

	p.Controller.SetQuery(ctx, "rus")
	assert.Equal(t, 1, store.Len())
	assert.NoFileExists(t, filepath.Join(root, ".showcase", "projects.location"))
}

func TestPage_Reload(t *testing.T) {
	ctx := context.Background()
	root := writeSite(t, map[string]string{
		"data/projects.json": projectsJSON,
	})
	p, err := New(ctx, root, "projects")
	require.NoError(t, err)
	p.Open(ctx)
	p.Controller.ToggleFacet(ctx, "rust")

	require.NoError(t, os.WriteFile(filepath.Join(root, "data", "more.yaml"),
		[]byte("- title: Extra\n  tags: [yaml]\n"), 0644))
	require.NoError(t, p.Reload(ctx))

	v := p.Controller.View()
	assert.Equal(t, 4, v.Total)
	assert.Equal(t, []string{"rust"}, v.ActiveFacets())

	assert.Error(t, memoryPage(t).Reload(ctx))
}

func TestPage_Print(t *testing.T) {
	ctx := context.Background()
	p := memoryPage(t, WithMarker(render.DefaultTextMarker))
	p.Open(ctx)
	p.Controller.SetQuery(ctx, "vault")

	var text bytes.Buffer
	require.NoError(t, p.Print(&text, FormatText))
	assert.Equal(t, "facets: [ ] cli [ ] go [ ] rust\n"+
		"1 of 2 results\n"+
		"- Notebook (2024-03-01) #go #cli\n"+
		"  Markdown [vault]\n", text.String())

	var out bytes.Buffer
	require.NoError(t, p.Print(&out, FormatJSON))
	var doc render.JSONView
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, "vault", doc.Query)
	assert.Equal(t, 1, doc.Count)
	assert.Equal(t, "Markdown [vault]", doc.Items[0].DescriptionHTML)

	assert.Error(t, p.Print(&out, "xml"))
}

func TestPage_Bind(t *testing.T) {
	ctx := context.Background()
	p := memoryPage(t)
	p.Open(ctx)

	b := p.Bind(ctx)
	defer b.Close()
	b.Input("r")
	b.Input("ru")
	b.Input("rust")
	b.Flush()

	assert.Equal(t, "rust", p.Controller.Get().Query)
	assert.Len(t, p.Controller.Results(), 1)
}

func TestPage_Introspect(t *testing.T) {
	p := memoryPage(t)
	p.Open(context.Background())

	states := p.Introspect()
	assert.Contains(t, states, "controller")
	assert.Contains(t, states, "persist")
	assert.Contains(t, states, "memory-store")
	assert.Contains(t, states, "memory-location")
	assert.NotContains(t, states, "loader")
}

type fullStore struct{}

func (fullStore) Get(context.Context, string) ([]byte, error) { return nil, core.ErrNotFound }
func (fullStore) Put(context.Context, string, []byte) error   { return errors.New("disk full") }

func TestPage_DegradedPersistLoggedOnce(t *testing.T) {
	ctx := context.Background()
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	p := memoryPage(t, WithLogger(logger), WithDurableStore(fullStore{}))
	p.Open(ctx)
	p.Controller.SetQuery(ctx, "rust")

	assert.Equal(t, "rust", p.Controller.Get().Query)
	assert.Equal(t, 1, strings.Count(logs.String(), "disk full"), logs.String())
}
