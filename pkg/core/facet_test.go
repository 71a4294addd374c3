package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestBuildFacetIndex(t *testing.T) {
	c := NewCollection([]Record{
		{Title: "Budget Manager", Tags: []string{"Rust", "CLI"}},
		{Title: "Portfolio Site", Tags: []string{"HTML", "CSS", "CLI"}},
		{Title: "Untagged"},
	})

	idx := BuildFacetIndex(c, DefaultSchema(), nil)
	assert.Equal(t, FacetIndex{"CLI", "CSS", "HTML", "Rust"}, idx)
	assert.True(t, idx.Contains("Rust"))
	assert.False(t, idx.Contains("rust"))
}

func TestBuildFacetIndex_Collation(t *testing.T) {
	c := NewCollection([]Record{
		{Tags: []string{"zebra", "Éclair", "apple", "Banana"}},
	})
	idx := BuildFacetIndex(c, Schema{}, NewCollator(language.English))
	assert.Equal(t, FacetIndex{"apple", "Banana", "Éclair", "zebra"}, idx)
}

func TestBuildFacetIndex_Empty(t *testing.T) {
	idx := BuildFacetIndex(NewCollection(nil), DefaultSchema(), nil)
	assert.Empty(t, idx)
}

func TestFieldSchema(t *testing.T) {
	c := NewCollection([]Record{
		{Title: "Algorithms", Fields: map[string]string{"type": "course", "code": "CS201"}},
		{Title: "Hackathon Winner", Fields: map[string]string{"type": "award"}},
		{Title: "No type"},
	})
	schema := FieldSchema([]string{"title", "code"}, "type")

	assert.Equal(t, FacetIndex{"award", "course"}, BuildFacetIndex(c, schema, nil))

	p := NewPipeline(schema, nil)
	got := p.Apply(c, ViewState{Query: "cs2"})
	assert.Len(t, got, 1)
	assert.Equal(t, "Algorithms", got[0].Title)

	got = p.Apply(c, ViewState{Facets: []string{"award"}})
	assert.Len(t, got, 1)
	assert.Equal(t, "Hackathon Winner", got[0].Title)
}

func TestFacetCounts(t *testing.T) {
	c := NewCollection([]Record{
		{Title: "Budget Manager", Tags: []string{"Rust", "CLI", "Rust"}},
		{Title: "Portfolio Site", Tags: []string{"HTML", "CLI"}},
		{Title: "Untagged"},
	})
	assert.Equal(t, map[string]int{"Rust": 1, "CLI": 2, "HTML": 1}, FacetCounts(c, Schema{}))
}
