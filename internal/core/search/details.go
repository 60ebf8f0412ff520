package search

import (
	"context"

	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/pkg/common"

	"go.uber.org/zap"
)

// Details 查詢公開 API 食譜的完整資料
// AI 與投稿食譜在列表時已是完整資料，回傳 nil；找不到也回傳 nil
func (s *Service) Details(ctx context.Context, id string, source recipe.Source) (*recipe.Recipe, error) {
	if source != recipe.SourcePublicAPI {
		common.LogWarn("非公開 API 食譜不需要查詢詳細資料",
			zap.String("id", id),
			zap.String("source", string(source)),
		)
		return nil, nil
	}

	if s.details != nil {
		if r, ok := s.details.Get(ctx, id); ok {
			return r, nil
		}
	}

	r, err := s.public.LookupByID(ctx, id)
	if err != nil {
		common.LogError("查詢食譜詳細資料失敗", zap.String("id", id), zap.Error(err))
		return nil, common.ErrDetailsUnavailable.Wrap(err)
	}
	if r == nil {
		return nil, nil
	}

	if s.details != nil {
		s.details.Set(ctx, r)
	}
	return r, nil
}
