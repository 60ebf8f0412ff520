package userrecipe

import (
	"context"

	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/pkg/common"

	"go.uber.org/zap"
)

// PrefixCeiling 前綴查詢的上界字元：name >= q AND name <= q + PrefixCeiling
const PrefixCeiling = "\uf8ff"

// Store 使用者投稿食譜查詢
// 以名稱前綴比對，大小寫敏感，不是子字串也不是模糊比對
type Store interface {
	FindByNamePrefix(ctx context.Context, prefix string) ([]recipe.Recipe, error)
}

// NewRecipe 待寫入的投稿
type NewRecipe struct {
	Name         string
	Description  string
	ImageURL     string
	Ingredients  []recipe.Ingredient
	Instructions string
	Category     string
	Area         string
	Tags         []string
	AuthorID     string
	AuthorName   string
}

// Writer 寫入投稿，回傳新 ID
type Writer interface {
	Create(ctx context.Context, r NewRecipe) (string, error)
}

type sessionKey struct{}

// Session 呼叫者自己的登入憑證
type Session struct {
	Token string
}

// WithSession 將使用者 session 放入 context
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom 取出 context 中的使用者 session
func SessionFrom(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok && s.Token != ""
}

// Selector 依執行情境選擇查詢路徑：
// 有使用者 session 時以使用者身分查詢，否則使用管理權限的資料庫連線
type Selector struct {
	elevated Store
	session  Store
}

// NewSelector elevated / session 都可以為 nil
func NewSelector(elevated, session Store) *Selector {
	return &Selector{elevated: elevated, session: session}
}

// FindByNamePrefix 查詢失敗時記錄並回傳空結果
func (s *Selector) FindByNamePrefix(ctx context.Context, prefix string) []recipe.Recipe {
	store, path := s.pick(ctx)
	if store == nil {
		return nil
	}

	recipes, err := store.FindByNamePrefix(ctx, prefix)
	if err != nil {
		common.LogWarn("使用者食譜查詢失敗",
			zap.String("path", path),
			zap.String("prefix", prefix),
			zap.Error(err),
		)
		return nil
	}
	return recipes
}

func (s *Selector) pick(ctx context.Context) (Store, string) {
	if _, ok := SessionFrom(ctx); ok && s.session != nil {
		return s.session, "session"
	}
	return s.elevated, "elevated"
}
