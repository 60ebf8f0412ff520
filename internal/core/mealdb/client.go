package mealdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Client TheMealDB 公開 API 客戶端
type Client struct {
	client *resty.Client
}

type mealsResponse struct {
	Meals []recipe.Meal `json:"meals"`
}

// NewClient 創建 TheMealDB 客戶端
func NewClient(cfg config.MealDBConfig) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	return &Client{client: client}
}

// fetch 呼叫端點並回傳 meals，meals 為 null 時回傳空切片
func (c *Client) fetch(ctx context.Context, endpoint string, params map[string]string) ([]recipe.Meal, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to TheMealDB: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("TheMealDB returned status %d", resp.StatusCode())
	}

	var result mealsResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse TheMealDB response: %w", err)
	}
	return result.Meals, nil
}

// fetchSoft 失敗時記錄並回傳空結果
func (c *Client) fetchSoft(ctx context.Context, endpoint string, params map[string]string) []recipe.Meal {
	meals, err := c.fetch(ctx, endpoint, params)
	if err != nil {
		common.LogWarn("TheMealDB 請求失敗",
			zap.String("endpoint", endpoint),
			zap.Error(err),
		)
		return nil
	}
	return meals
}

// SearchByName 依名稱搜尋完整食譜，失敗回傳空結果
func (c *Client) SearchByName(ctx context.Context, name string) []recipe.Recipe {
	meals := c.fetchSoft(ctx, "/search.php", map[string]string{"s": name})
	recipes := make([]recipe.Recipe, 0, len(meals))
	for _, meal := range meals {
		recipes = append(recipes, recipe.NormalizeMeal(meal))
	}
	return recipes
}

// FilterByIngredient 依單一食材篩選，只有精簡資料，失敗回傳空結果
func (c *Client) FilterByIngredient(ctx context.Context, ingredient string) []recipe.Summary {
	meals := c.fetchSoft(ctx, "/filter.php", map[string]string{"i": ingredient})
	summaries := make([]recipe.Summary, 0, len(meals))
	for _, meal := range meals {
		summaries = append(summaries, recipe.NormalizeMealSummary(meal))
	}
	return summaries
}

// Random 隨機取一筆，失敗或無資料回傳 nil
func (c *Client) Random(ctx context.Context) *recipe.Recipe {
	meals := c.fetchSoft(ctx, "/random.php", nil)
	if len(meals) == 0 {
		return nil
	}
	r := recipe.NormalizeMeal(meals[0])
	return &r
}

// LookupByID 依 ID 查詢完整食譜
// 找不到回傳 (nil, nil)，傳輸失敗回傳錯誤
func (c *Client) LookupByID(ctx context.Context, id string) (*recipe.Recipe, error) {
	meals, err := c.fetch(ctx, "/lookup.php", map[string]string{"i": id})
	if err != nil {
		return nil, err
	}
	if len(meals) == 0 {
		return nil, nil
	}
	r := recipe.NormalizeMeal(meals[0])
	return &r, nil
}
