package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"recipe-finder/internal/core/ai/openrouter"
	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/pkg/common"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
)

// recipeListSchema AI 回應必須符合的結構
const recipeListSchema = `{
  "type": "object",
  "required": ["recipes"],
  "properties": {
    "recipes": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["strMeal", "strInstructions", "ingredients"],
        "properties": {
          "strMeal": {"type": "string", "minLength": 1},
          "strInstructions": {"type": "string", "minLength": 1},
          "ingredients": {
            "type": "array",
            "minItems": 1,
            "items": {
              "type": "object",
              "required": ["name", "measure"],
              "properties": {
                "name": {"type": "string", "minLength": 1},
                "measure": {"type": "string"}
              }
            }
          },
          "strCategory": {"type": "string"},
          "strArea": {"type": "string"},
          "strTags": {"type": "string"}
        }
      }
    }
  }
}`

var schema = mustCompile(recipeListSchema)

func mustCompile(s string) *gojsonschema.Schema {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(fmt.Sprintf("invalid recipe schema: %v", err))
	}
	return compiled
}

const promptTemplate = `You are an expert chef. A user is looking for recipes based on a search query.

Their search query is '%s' and they are searching by '%s'.

- If the mode is 'ingredient', create up to 3 distinct recipes that feature the specified ingredients.
- If the mode is 'dish', create the classic recipe for that dish, and include 1-2 popular variations if they exist.

Respond with a JSON object that matches this shape exactly:
{
  "recipes": [{
    "strMeal": string,
    "strInstructions": string (steps separated by \n),
    "ingredients": [{ "name": string, "measure": string }],
    "strCategory": string (optional),
    "strArea": string (optional),
    "strTags": string (optional, comma separated)
  }]
}

Do not include any text before or after the JSON. Never wrap the JSON in backticks or markdown code fences.`

// Generator 以 LLM 產生食譜
type Generator struct {
	llm openrouter.Completer
}

// New 創建食譜生成器
func New(llm openrouter.Completer) *Generator {
	return &Generator{llm: llm}
}

// Generate 依查詢與模式產生食譜，格式錯誤視為失敗
func (g *Generator) Generate(ctx context.Context, query string, mode recipe.Mode) (*recipe.GeneratedList, error) {
	start := time.Now()
	text, err := g.llm.Chat(ctx, openrouter.ChatRequest{
		Messages:    []openrouter.Message{{Role: "user", Content: fmt.Sprintf(promptTemplate, query, mode)}},
		Temperature: 0.7,
		JSON:        true,
	})
	common.LogAICall("generate_recipes", time.Since(start), err)
	if err != nil {
		return nil, err
	}

	list, err := Parse(text)
	if err != nil {
		common.LogWarn("AI 食譜格式錯誤", zap.String("query", query), zap.Error(err))
		return nil, err
	}
	return list, nil
}

// Parse 解開圍欄、驗證結構並轉型
func Parse(raw string) (*recipe.GeneratedList, error) {
	text, err := common.ExtractJSONObject(raw)
	if err != nil {
		return nil, common.ErrAIInvalidPayload.Wrap(err)
	}

	var doc interface{}
	if err := common.ParseJSON(text, &doc); err != nil {
		return nil, common.ErrAIInvalidPayload.Wrap(fmt.Errorf("invalid JSON: %w", err))
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, common.ErrAIInvalidPayload.Wrap(err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, common.ErrAIInvalidPayload.Wrap(fmt.Errorf("schema validation failed: %s", strings.Join(msgs, "; ")))
	}

	var list recipe.GeneratedList
	if err := json.Unmarshal([]byte(text), &list); err != nil {
		return nil, common.ErrAIInvalidPayload.Wrap(err)
	}
	return &list, nil
}
