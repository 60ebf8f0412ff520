package recipe

import (
	"encoding/json"
	"strings"
)

// Source 食譜來源
type Source string

const (
	SourcePublicAPI     Source = "PublicAPI"
	SourceGeneratedAI   Source = "GeneratedAI"
	SourceUserSubmitted Source = "UserSubmitted"
	// SourceCombined 只用於搜尋結果的來源標籤
	SourceCombined Source = "Combined"
)

// ParseSource 解析來源字串，大小寫不敏感
func ParseSource(s string) (Source, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "publicapi", "themealdb", "mealdb":
		return SourcePublicAPI, true
	case "generatedai", "gemini", "ai":
		return SourceGeneratedAI, true
	case "usersubmitted", "user":
		return SourceUserSubmitted, true
	}
	return "", false
}

// Mode 搜尋模式
type Mode string

const (
	ModeDish       Mode = "dish"
	ModeIngredient Mode = "ingredient"
)

// ParseMode 解析搜尋模式，空字串視為 dish
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dish":
		return ModeDish, true
	case "ingredient":
		return ModeIngredient, true
	}
	return "", false
}

// Ingredient 食材與份量，順序有意義
type Ingredient struct {
	Name    string `json:"name"`
	Measure string `json:"measure"`
}

// Author 使用者投稿的作者
type Author struct {
	ID   string `json:"authorId"`
	Name string `json:"authorName"`
}

// Summary 列表用的精簡食譜
type Summary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
	Source   Source `json:"source"`
	Category string `json:"category,omitempty"`
}

// Recipe 完整食譜
type Recipe struct {
	Summary
	Instructions string       `json:"instructions"`
	Ingredients  []Ingredient `json:"ingredients"`
	Area         string       `json:"area,omitempty"`
	Tags         []string     `json:"tags,omitempty"`
	Description  string       `json:"description,omitempty"`
	YoutubeURL   string       `json:"youtubeUrl,omitempty"`
	Author       *Author      `json:"author,omitempty"`
}

// Steps 以換行切分步驟，略過空行
func (r *Recipe) Steps() []string {
	var steps []string
	for _, line := range strings.Split(r.Instructions, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			steps = append(steps, line)
		}
	}
	return steps
}

// Kind Listing 的種類
type Kind string

const (
	KindSummary Kind = "summary"
	KindFull    Kind = "full"
)

// Listing 搜尋結果的一筆，summary 或 full 二選一，建構時決定
type Listing struct {
	kind    Kind
	summary Summary
	full    *Recipe
}

// FromSummary 建立精簡結果
func FromSummary(s Summary) Listing {
	return Listing{kind: KindSummary, summary: s}
}

// FromRecipe 建立完整結果
func FromRecipe(r Recipe) Listing {
	return Listing{kind: KindFull, summary: r.Summary, full: &r}
}

// Kind 回傳種類
func (l Listing) Kind() Kind { return l.kind }

// Summary 兩種結果都有的欄位
func (l Listing) Summary() Summary { return l.summary }

// Recipe 完整食譜，summary 時回傳 false
func (l Listing) Recipe() (*Recipe, bool) {
	return l.full, l.kind == KindFull
}

// ID 食譜 ID
func (l Listing) ID() string { return l.summary.ID }

// Name 食譜名稱
func (l Listing) Name() string { return l.summary.Name }

// Source 食譜來源
func (l Listing) Source() Source { return l.summary.Source }

type listingJSON struct {
	Kind Kind `json:"kind"`
	*Recipe
}

type summaryJSON struct {
	Kind Kind `json:"kind"`
	Summary
}

// MarshalJSON 攤平成單一物件並加上 kind
func (l Listing) MarshalJSON() ([]byte, error) {
	if l.kind == KindFull && l.full != nil {
		return json.Marshal(listingJSON{Kind: KindFull, Recipe: l.full})
	}
	return json.Marshal(summaryJSON{Kind: KindSummary, Summary: l.summary})
}

// UnmarshalJSON 依 kind 還原，沒有 kind 時以 instructions 是否存在判斷（舊資料）
func (l *Listing) UnmarshalJSON(data []byte) error {
	var probe struct {
		Kind         Kind    `json:"kind"`
		Instructions *string `json:"instructions"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	full := probe.Kind == KindFull || (probe.Kind == "" && probe.Instructions != nil)
	if full {
		var r Recipe
		if err := json.Unmarshal(data, &r); err != nil {
			return err
		}
		*l = FromRecipe(r)
		return nil
	}
	var s Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*l = FromSummary(s)
	return nil
}

// Meal TheMealDB 回傳的原始資料，strIngredientN / strMeasureN 在 Extra
type Meal struct {
	IDMeal          string            `json:"idMeal"`
	StrMeal         string            `json:"strMeal"`
	StrCategory     string            `json:"strCategory"`
	StrArea         string            `json:"strArea"`
	StrInstructions string            `json:"strInstructions"`
	StrMealThumb    string            `json:"strMealThumb"`
	StrTags         string            `json:"strTags"`
	StrYoutube      string            `json:"strYoutube"`
	Extra           map[string]string `json:"-"`
}

// UnmarshalJSON TheMealDB 的欄位常為 null，一律當成空字串
func (m *Meal) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	str := func(key string) string {
		if s, ok := raw[key].(string); ok {
			return s
		}
		return ""
	}
	*m = Meal{
		IDMeal:          str("idMeal"),
		StrMeal:         str("strMeal"),
		StrCategory:     str("strCategory"),
		StrArea:         str("strArea"),
		StrInstructions: str("strInstructions"),
		StrMealThumb:    str("strMealThumb"),
		StrTags:         str("strTags"),
		StrYoutube:      str("strYoutube"),
		Extra:           make(map[string]string),
	}
	for k := range raw {
		if strings.HasPrefix(k, "strIngredient") || strings.HasPrefix(k, "strMeasure") {
			m.Extra[k] = str(k)
		}
	}
	return nil
}

// GeneratedRecipe AI 產生的單筆食譜
type GeneratedRecipe struct {
	StrMeal         string       `json:"strMeal"`
	StrInstructions string       `json:"strInstructions"`
	Ingredients     []Ingredient `json:"ingredients"`
	StrCategory     *string      `json:"strCategory,omitempty"`
	StrArea         *string      `json:"strArea,omitempty"`
	StrTags         *string      `json:"strTags,omitempty"`
}

// GeneratedList AI 回應
type GeneratedList struct {
	Recipes []GeneratedRecipe `json:"recipes"`
}
