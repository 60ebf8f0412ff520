package userrecipe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/infrastructure/config"

	"github.com/go-resty/resty/v2"
)

// ErrNoSession context 中沒有使用者 session
var ErrNoSession = errors.New("no user session in context")

// SessionStore 以呼叫者自己的 session 查詢 user-content 服務
type SessionStore struct {
	client *resty.Client
}

type documentList struct {
	Documents []struct {
		ID   string         `json:"id"`
		Data map[string]any `json:"data"`
	} `json:"documents"`
}

// NewSessionStore 創建 session 查詢路徑
func NewSessionStore(cfg config.UserStoreConfig) *SessionStore {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.SessionBaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")
	return &SessionStore{client: client}
}

// FindByNamePrefix GET /userRecipes?startAt=q&endAt=q+"\uf8ff"&orderBy=name
func (s *SessionStore) FindByNamePrefix(ctx context.Context, prefix string) ([]recipe.Recipe, error) {
	session, ok := SessionFrom(ctx)
	if !ok {
		return nil, ErrNoSession
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(session.Token).
		SetQueryParams(map[string]string{
			"orderBy": "name",
			"startAt": prefix,
			"endAt":   prefix + PrefixCeiling,
		}).
		Get("/userRecipes")
	if err != nil {
		return nil, fmt.Errorf("failed to query user-content service: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("user-content service returned status %d", resp.StatusCode())
	}

	var list documentList
	if err := json.Unmarshal(resp.Body(), &list); err != nil {
		return nil, fmt.Errorf("failed to parse user-content response: %w", err)
	}

	recipes := make([]recipe.Recipe, 0, len(list.Documents))
	for _, doc := range list.Documents {
		recipes = append(recipes, recipe.NormalizeUserRecord(doc.Data, doc.ID))
	}
	return recipes, nil
}
