package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"recipe-finder/internal/app"
	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/infrastructure/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mealJSON = `{"idMeal":"52772","strMeal":"Teriyaki Chicken Casserole","strCategory":"Chicken",` +
	`"strInstructions":"Bake.","strIngredient1":"soy sauce","strMeasure1":"3/4 cup"}`

func newTestServer(t *testing.T) (*httptest.Server, *app.Services) {
	t.Helper()
	mealdb := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/search.php" && r.URL.Query().Get("s") == "teriyaki":
			_, _ = w.Write([]byte(`{"meals":[` + mealJSON + `]}`))
		default:
			_, _ = w.Write([]byte(`{"meals":null}`))
		}
	}))
	t.Cleanup(mealdb.Close)

	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	cfg.MealDB.BaseURL = mealdb.URL

	db, err := database.OpenMemory(t.Name())
	require.NoError(t, err)

	svcs, err := app.New(context.Background(), cfg, app.WithDB(db))
	require.NoError(t, err)

	srv := httptest.NewServer(SetupRouter(svcs))
	t.Cleanup(func() {
		srv.Close()
		_ = svcs.Close()
	})
	return srv, svcs
}

func TestRouter_HealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, path := range []string{"/health", "/ready", "/live"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestRouter_SearchAndMetrics(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/recipes/search?q=teriyaki")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	var body struct {
		Recipes []map[string]any `json:"recipes"`
		Source  string           `json:"source"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "PublicAPI", body.Source)
	require.Len(t, body.Recipes, 1)

	metrics, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer metrics.Body.Close()
	var sb bytes.Buffer
	_, err = sb.ReadFrom(metrics.Body)
	require.NoError(t, err)
	assert.Contains(t, sb.String(), "recipe_finder_search_requests_total")
	assert.Contains(t, sb.String(), `route="/api/v1/recipes/search"`)
}

func TestRouter_ContactDeduplicated(t *testing.T) {
	srv, svcs := newTestServer(t)

	send := func() int {
		resp, err := http.Post(srv.URL+"/api/v1/contact", "application/json",
			strings.NewReader(`{"email":"ada@example.com","message":"Hello"}`))
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusOK, send())
	assert.Equal(t, http.StatusTooManyRequests, send())

	var count int64
	require.NoError(t, svcs.DB.Table("contact_messages").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRouter_DetailsNullForGenerated(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/recipes/ai-tart?source=GeneratedAI")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body, "recipe")
	assert.Nil(t, body["recipe"])
}
