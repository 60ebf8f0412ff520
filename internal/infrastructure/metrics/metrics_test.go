package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveSearch(t *testing.T) {
	m := New()
	m.ObserveSearch("dish", "PublicAPI", 200*time.Millisecond, nil)
	m.ObserveSearch("dish", "PublicAPI", time.Second, nil)
	m.ObserveSearch("dish", "", time.Second, errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.searchesTotal.WithLabelValues("dish", "PublicAPI", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.searchesTotal.WithLabelValues("dish", "", "error")))
}

func TestObserveGovernorAndFallback(t *testing.T) {
	m := New()
	m.ObserveGovernorDecision("cooldown")
	m.ObserveGovernorDecision("cooldown")
	m.ObserveFallback(true)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.governorDecisions.WithLabelValues("cooldown")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fallbackRaces.WithLabelValues("true")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.fallbackRaces.WithLabelValues("false")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveHTTP(http.MethodGet, "/api/v1/recipes/search", http.StatusOK)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "recipe_finder_http_requests_total"))
	assert.True(t, strings.Contains(body, "go_goroutines"))
}
