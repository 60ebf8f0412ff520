package recipe

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListing_Discriminates(t *testing.T) {
	s := FromSummary(Summary{ID: "1", Name: "Soup", Source: SourcePublicAPI})
	_, full := s.Recipe()
	assert.False(t, full)
	assert.Equal(t, KindSummary, s.Kind())

	f := FromRecipe(Recipe{Summary: Summary{ID: "2", Name: "Stew"}, Instructions: ""})
	r, full := f.Recipe()
	assert.True(t, full)
	assert.Equal(t, "Stew", r.Name)
	assert.Equal(t, "2", f.ID())
}

func TestListing_JSON(t *testing.T) {
	full := FromRecipe(Recipe{
		Summary:      Summary{ID: "2", Name: "Stew", Source: SourceUserSubmitted},
		Instructions: "Simmer.",
		Ingredients:  []Ingredient{{Name: "beef", Measure: "1kg"}},
	})
	data, err := json.Marshal(full)
	require.NoError(t, err)

	var obj map[string]any
	require.NoError(t, json.Unmarshal(data, &obj))
	assert.Equal(t, "full", obj["kind"])
	assert.Equal(t, "Stew", obj["name"])
	assert.Equal(t, "Simmer.", obj["instructions"])

	var back Listing
	require.NoError(t, json.Unmarshal(data, &back))
	r, ok := back.Recipe()
	require.True(t, ok)
	assert.Equal(t, "beef", r.Ingredients[0].Name)

	summary := FromSummary(Summary{ID: "1", Name: "Soup"})
	data, err = json.Marshal(summary)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "instructions")
	assert.Contains(t, string(data), `"kind":"summary"`)

	require.NoError(t, json.Unmarshal([]byte(`{"id":"3","name":"Pie","instructions":"Bake."}`), &back))
	assert.Equal(t, KindFull, back.Kind())
}

func TestParseModeAndSource(t *testing.T) {
	m, ok := ParseMode("")
	assert.True(t, ok)
	assert.Equal(t, ModeDish, m)

	m, ok = ParseMode("Ingredient")
	assert.True(t, ok)
	assert.Equal(t, ModeIngredient, m)

	_, ok = ParseMode("cuisine")
	assert.False(t, ok)

	s, ok := ParseSource("TheMealDB")
	assert.True(t, ok)
	assert.Equal(t, SourcePublicAPI, s)

	s, ok = ParseSource("user")
	assert.True(t, ok)
	assert.Equal(t, SourceUserSubmitted, s)
}
