package search

import (
	"context"

	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/pkg/common"

	"golang.org/x/sync/errgroup"
)

// DefaultTrendingCount 熱門食譜的隨機抽取次數
const DefaultTrendingCount = 8

// Trending 並行抽取隨機食譜，依 ID 去重；單次失敗只少一筆
func (s *Service) Trending(ctx context.Context) ([]recipe.Recipe, error) {
	if s.trendingCount <= 0 {
		return []recipe.Recipe{}, nil
	}

	draws := make([]*recipe.Recipe, s.trendingCount)
	var g errgroup.Group
	for i := range draws {
		i := i
		g.Go(func() error {
			draws[i] = s.public.Random(ctx)
			return nil
		})
	}
	_ = g.Wait()

	// 請求已取消時不回傳殘缺的列表
	if err := ctx.Err(); err != nil {
		return nil, common.ErrTrendingFailed.Wrap(err)
	}

	return dedupeByID(draws), nil
}

func dedupeByID(draws []*recipe.Recipe) []recipe.Recipe {
	seen := make(map[string]struct{}, len(draws))
	out := make([]recipe.Recipe, 0, len(draws))
	for _, r := range draws {
		if r == nil {
			continue
		}
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, *r)
	}
	return out
}
