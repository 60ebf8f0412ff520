package imagegen

import (
	"context"
	"fmt"
	"strings"
	"time"

	"recipe-finder/internal/core/ai/openrouter"
	"recipe-finder/internal/pkg/common"

	"go.uber.org/zap"
)

// Generator 依菜名生成圖片，失敗一律回傳空字串
type Generator struct {
	images openrouter.ImageGenerator
}

// New 創建圖片生成器，images 為 nil 時永遠回傳空字串
func New(images openrouter.ImageGenerator) *Generator {
	return &Generator{images: images}
}

// Prompt 圖片提示詞
func Prompt(dishName string) string {
	return fmt.Sprintf("A delicious, professionally photographed %s, centered on a plate, ready to eat.", strings.TrimSpace(dishName))
}

// Generate 回傳圖片 URL，錯誤只記錄不回傳
func (g *Generator) Generate(ctx context.Context, dishName string) string {
	if g.images == nil || strings.TrimSpace(dishName) == "" {
		return ""
	}

	start := time.Now()
	url, err := g.images.GenerateImage(ctx, Prompt(dishName))
	if err != nil {
		common.LogWarn("圖片生成失敗",
			zap.String("dish", dishName),
			zap.Duration("耗時", time.Since(start)),
			zap.Error(err),
		)
		return ""
	}
	return url
}
