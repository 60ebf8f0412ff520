package cache

import (
	"context"
	"encoding/json"
	"errors"

	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/pkg/common"

	"go.uber.org/zap"
)

// Store 位元組快取，未命中回傳 common.ErrCacheMiss
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// RecipeCache 食譜明細快取，錯誤只記錄不回傳
type RecipeCache struct {
	store Store
}

// NewRecipeCache store 為 nil 時所有操作都是 no-op
func NewRecipeCache(store Store) *RecipeCache {
	return &RecipeCache{store: store}
}

func detailKey(id string) string {
	return "detail:" + id
}

// Get 取得明細，未命中或失敗回傳 false
func (c *RecipeCache) Get(ctx context.Context, id string) (*recipe.Recipe, bool) {
	if c == nil || c.store == nil {
		return nil, false
	}

	data, err := c.store.Get(ctx, detailKey(id))
	if err != nil {
		if !errors.Is(err, common.ErrCacheMiss) {
			common.LogWarn("讀取快取失敗", zap.String("id", id), zap.Error(err))
		}
		return nil, false
	}

	var r recipe.Recipe
	if err := json.Unmarshal(data, &r); err != nil {
		common.LogWarn("快取內容無法解析", zap.String("id", id), zap.Error(err))
		return nil, false
	}
	return &r, true
}

// Set 寫入明細
func (c *RecipeCache) Set(ctx context.Context, r *recipe.Recipe) {
	if c == nil || c.store == nil || r == nil {
		return
	}

	data, err := json.Marshal(r)
	if err != nil {
		common.LogWarn("快取序列化失敗", zap.String("id", r.ID), zap.Error(err))
		return
	}
	if err := c.store.Set(ctx, detailKey(r.ID), data); err != nil {
		common.LogWarn("寫入快取失敗", zap.String("id", r.ID), zap.Error(err))
	}
}
