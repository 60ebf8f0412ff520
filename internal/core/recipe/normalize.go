package recipe

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// MealIngredientSlots TheMealDB 每筆固定 20 組食材欄位
	MealIngredientSlots = 20

	GeneratedIDPrefix = "gemini-"
	GeneratedImageURL = "/food.png"
	GeneratedCategory = "AI Creation"
	GeneratedArea     = "Unknown"
)

var nonAlnumRun = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeMeal 將 TheMealDB 資料轉為完整食譜
// 20 組欄位全部掃過，空白食材略過（結果是壓縮後的順序，不保留原索引）
func NormalizeMeal(meal Meal) Recipe {
	ingredients := make([]Ingredient, 0, MealIngredientSlots)
	for i := 1; i <= MealIngredientSlots; i++ {
		name := meal.Extra[fmt.Sprintf("strIngredient%d", i)]
		if strings.TrimSpace(name) == "" {
			continue
		}
		ingredients = append(ingredients, Ingredient{
			Name:    name,
			Measure: meal.Extra[fmt.Sprintf("strMeasure%d", i)],
		})
	}

	var tags []string
	if meal.StrTags != "" {
		for _, tag := range strings.Split(meal.StrTags, ",") {
			tags = append(tags, strings.TrimSpace(tag))
		}
	}

	return Recipe{
		Summary: Summary{
			ID:       meal.IDMeal,
			Name:     meal.StrMeal,
			ImageURL: meal.StrMealThumb,
			Source:   SourcePublicAPI,
			Category: meal.StrCategory,
		},
		Instructions: meal.StrInstructions,
		Ingredients:  ingredients,
		Area:         meal.StrArea,
		Tags:         tags,
		YoutubeURL:   meal.StrYoutube,
	}
}

// NormalizeMealSummary filter.php 只回傳 id/名稱/縮圖
func NormalizeMealSummary(meal Meal) Summary {
	return Summary{
		ID:       meal.IDMeal,
		Name:     meal.StrMeal,
		ImageURL: meal.StrMealThumb,
		Source:   SourcePublicAPI,
	}
}

// GeneratedID 由名稱推導 AI 食譜 ID，相同名稱會得到相同 ID
func GeneratedID(name string) string {
	return GeneratedIDPrefix + nonAlnumRun.ReplaceAllString(strings.ToLower(name), "-")
}

// NormalizeGenerated 將 AI 產生的食譜轉為完整食譜
func NormalizeGenerated(gen GeneratedRecipe) Recipe {
	category := GeneratedCategory
	if gen.StrCategory != nil {
		category = *gen.StrCategory
	}
	area := GeneratedArea
	if gen.StrArea != nil {
		area = *gen.StrArea
	}

	var tags []string
	if gen.StrTags != nil {
		tags = splitTags(*gen.StrTags)
	}

	ingredients := make([]Ingredient, len(gen.Ingredients))
	copy(ingredients, gen.Ingredients)

	return Recipe{
		Summary: Summary{
			ID:       GeneratedID(gen.StrMeal),
			Name:     gen.StrMeal,
			ImageURL: GeneratedImageURL,
			Source:   SourceGeneratedAI,
			Category: category,
		},
		Instructions: gen.StrInstructions,
		Ingredients:  ingredients,
		Area:         area,
		Tags:         tags,
	}
}

// NormalizeUserRecord 將資料庫文件（未定型別）轉為完整食譜
// 必填字串非字串時為空字串，選填字串空白時視為沒有
func NormalizeUserRecord(record map[string]any, id string) Recipe {
	if record == nil {
		record = map[string]any{}
	}

	r := Recipe{
		Summary: Summary{
			ID:       id,
			Name:     stringOrEmpty(record["name"]),
			ImageURL: stringOrEmpty(record["imageUrl"]),
			Source:   SourceUserSubmitted,
			Category: stringOrAbsent(record["category"]),
		},
		Instructions: stringOrEmpty(record["instructions"]),
		Ingredients:  normalizeIngredients(record["ingredients"]),
		Area:         stringOrAbsent(record["area"]),
		Tags:         normalizeTags(record["tags"]),
		Description:  stringOrAbsent(record["description"]),
	}

	authorName := stringOrEmpty(record["authorName"])
	authorID := stringOrEmpty(record["authorId"])
	if authorName != "" || authorID != "" {
		r.Author = &Author{ID: authorID, Name: authorName}
	}
	return r
}

func stringOrEmpty(v any) string {
	s, _ := v.(string)
	return s
}

func stringOrAbsent(v any) string {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return ""
	}
	return s
}

func normalizeIngredients(v any) []Ingredient {
	var items []any
	switch list := v.(type) {
	case []any:
		items = list
	case []map[string]any:
		for _, m := range list {
			items = append(items, m)
		}
	case []Ingredient:
		for _, ing := range list {
			items = append(items, map[string]any{"name": ing.Name, "measure": ing.Measure})
		}
	default:
		return []Ingredient{}
	}

	out := make([]Ingredient, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name := stringOrEmpty(m["name"])
		if name == "" {
			continue
		}
		out = append(out, Ingredient{Name: name, Measure: stringOrEmpty(m["measure"])})
	}
	return out
}

func normalizeTags(v any) []string {
	switch tags := v.(type) {
	case []string:
		out := make([]string, 0, len(tags))
		for _, tag := range tags {
			if strings.TrimSpace(tag) != "" {
				out = append(out, tag)
			}
		}
		return out
	case []any:
		out := make([]string, 0, len(tags))
		for _, item := range tags {
			if tag, ok := item.(string); ok && strings.TrimSpace(tag) != "" {
				out = append(out, tag)
			}
		}
		return out
	case string:
		return splitTags(tags)
	}
	return []string{}
}

// splitTags 逗號分隔，去空白並丟棄空項目
func splitTags(s string) []string {
	out := []string{}
	for _, tag := range strings.Split(s, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
