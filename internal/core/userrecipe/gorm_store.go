package userrecipe

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/infrastructure/database"
	"recipe-finder/internal/pkg/common"

	"gorm.io/gorm"
)

// GormStore 以資料庫直接存取（管理權限）
type GormStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormStore 創建資料庫查詢路徑
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db, now: time.Now}
}

// FindByNamePrefix 範圍查詢 name >= q AND name <= q + "\uf8ff"
func (s *GormStore) FindByNamePrefix(ctx context.Context, prefix string) ([]recipe.Recipe, error) {
	var rows []database.UserRecipeModel
	err := s.db.WithContext(ctx).
		Where("name >= ? AND name <= ?", prefix, prefix+PrefixCeiling).
		Order("name").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query user recipes: %w", err)
	}

	recipes := make([]recipe.Recipe, 0, len(rows))
	for _, row := range rows {
		recipes = append(recipes, recipe.NormalizeUserRecord(rowToRecord(row), row.ID))
	}
	return recipes, nil
}

// Create 寫入投稿
func (s *GormStore) Create(ctx context.Context, r NewRecipe) (string, error) {
	ingredients, err := json.Marshal(r.Ingredients)
	if err != nil {
		return "", fmt.Errorf("failed to encode ingredients: %w", err)
	}
	tags, err := json.Marshal(r.Tags)
	if err != nil {
		return "", fmt.Errorf("failed to encode tags: %w", err)
	}

	row := database.UserRecipeModel{
		ID:           common.GenerateUUID(),
		Name:         r.Name,
		Description:  r.Description,
		ImageURL:     r.ImageURL,
		Ingredients:  string(ingredients),
		Instructions: r.Instructions,
		Category:     r.Category,
		Area:         r.Area,
		Tags:         string(tags),
		AuthorID:     r.AuthorID,
		AuthorName:   r.AuthorName,
		CreatedAt:    s.now(),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", fmt.Errorf("failed to save user recipe: %w", err)
	}
	return row.ID, nil
}

// rowToRecord 轉成未定型別的文件，JSON 欄位壞掉時保留原字串交給正規化處理
func rowToRecord(row database.UserRecipeModel) map[string]any {
	record := map[string]any{
		"name":         row.Name,
		"description":  row.Description,
		"imageUrl":     row.ImageURL,
		"instructions": row.Instructions,
		"category":     row.Category,
		"area":         row.Area,
		"authorId":     row.AuthorID,
		"authorName":   row.AuthorName,
	}

	var ingredients any
	if err := json.Unmarshal([]byte(row.Ingredients), &ingredients); err == nil {
		record["ingredients"] = ingredients
	}

	var tags any
	if err := json.Unmarshal([]byte(row.Tags), &tags); err == nil {
		record["tags"] = tags
	} else {
		record["tags"] = row.Tags
	}
	return record
}
