package app

import (
	"context"
	"testing"

	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/infrastructure/database"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("REDIS_ENABLED", "false")
	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	return cfg
}

func TestNew_WithoutAI(t *testing.T) {
	db, err := database.OpenMemory(t.Name())
	require.NoError(t, err)

	svcs, err := New(context.Background(), testConfig(t), WithDB(db))
	require.NoError(t, err)
	defer svcs.Close()

	assert.False(t, svcs.Governor.Enabled())
	assert.NotNil(t, svcs.Search)
	assert.NotNil(t, svcs.Submitter)
	assert.Contains(t, svcs.Checks, "database")
	assert.NotContains(t, svcs.Checks, "redis")
	assert.NoError(t, svcs.Checks["database"](context.Background()))

	// AI 停用時建議與圖片回傳空字串
	assert.Empty(t, svcs.Suggestions.Suggest(context.Background(), "chicken"))
	assert.Empty(t, svcs.Images.Generate(context.Background(), "Lemon Tart"))
}

func TestNew_WithOpenRouterKey(t *testing.T) {
	db, err := database.OpenMemory(t.Name())
	require.NoError(t, err)

	cfg := testConfig(t)
	cfg.OpenRouter.Enabled = true
	cfg.OpenRouter.APIKey = "sk-or-test"

	svcs, err := New(context.Background(), cfg, WithDB(db))
	require.NoError(t, err)
	defer svcs.Close()

	assert.True(t, svcs.Governor.Enabled())
}

func TestNew_RedisCache(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	db, err := database.OpenMemory(t.Name())
	require.NoError(t, err)

	cfg := testConfig(t)
	cfg.Redis.Enabled = true
	cfg.Redis.Addr = mr.Addr()

	svcs, err := New(context.Background(), cfg, WithDB(db))
	require.NoError(t, err)

	require.Contains(t, svcs.Checks, "redis")
	assert.NoError(t, svcs.Checks["redis"](context.Background()))
	assert.NoError(t, svcs.Close())
}

func TestNew_RedisUnavailable(t *testing.T) {
	db, err := database.OpenMemory(t.Name())
	require.NoError(t, err)

	cfg := testConfig(t)
	cfg.Redis.Enabled = true
	cfg.Redis.Addr = "127.0.0.1:1"

	_, err = New(context.Background(), cfg, WithDB(db))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis")
}

func TestClose_ReverseOrder(t *testing.T) {
	s := &Services{}
	var order []int
	s.AddCloser(func() error { order = append(order, 1); return nil })
	s.AddCloser(func() error { order = append(order, 2); return nil })

	require.NoError(t, s.Close())
	assert.Equal(t, []int{2, 1}, order)

	// 第二次呼叫不重複釋放
	require.NoError(t, s.Close())
	assert.Equal(t, []int{2, 1}, order)
}
