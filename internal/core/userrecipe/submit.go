package userrecipe

import (
	"context"
	"fmt"
	"path"
	"strings"

	"recipe-finder/internal/core/image"
	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/pkg/common"

	"go.uber.org/zap"
)

// ImageFile 上傳的圖片
type ImageFile struct {
	Filename string
	Data     []byte
}

// Submission 投稿表單
type Submission struct {
	AuthorID     string
	AuthorName   string
	Name         string
	Description  string
	Instructions string
	Ingredients  []recipe.Ingredient
	Category     string
	Area         string
	Tags         []string
	Image        *ImageFile
}

// Failure 投稿失敗的原因分類
type Failure int

const (
	FailureNone Failure = iota
	// FailureInput 呼叫端輸入不完整或圖片不合格
	FailureInput
	// FailureUpload 圖片儲存失敗
	FailureUpload
	// FailureStore 投稿寫入失敗
	FailureStore
)

// Result 投稿結果，失敗也以結果回傳不丟錯誤
type Result struct {
	Success  bool    `json:"success"`
	Message  string  `json:"message"`
	ID       string  `json:"id,omitempty"`
	ImageURL string  `json:"imageUrl,omitempty"`
	Failure  Failure `json:"-"`
}

func rejected(message string) Result {
	return Result{Message: message, Failure: FailureInput}
}

// ImageValidator 圖片驗證
type ImageValidator interface {
	Validate(data []byte) (image.Info, error)
}

// Uploader 圖片上傳，回傳公開 URL
type Uploader interface {
	Upload(ctx context.Context, objectName, contentType string, data []byte) (string, error)
}

// Submitter 驗證、上傳圖片並寫入投稿
type Submitter struct {
	writer    Writer
	uploader  Uploader
	validator ImageValidator
	newID     func() string
}

// NewSubmitter 創建投稿服務
func NewSubmitter(writer Writer, uploader Uploader, validator ImageValidator) *Submitter {
	return &Submitter{
		writer:    writer,
		uploader:  uploader,
		validator: validator,
		newID:     common.GenerateUUID,
	}
}

const (
	msgImageRequired = "Image is required."
	msgSubmitted     = "Recipe submitted successfully!"
	msgSubmitFailed  = "Failed to submit recipe. Please try again."
)

// Submit 投稿
func (s *Submitter) Submit(ctx context.Context, sub Submission) Result {
	if sub.Image == nil || len(sub.Image.Data) == 0 {
		return rejected(msgImageRequired)
	}
	if strings.TrimSpace(sub.Name) == "" {
		return rejected("Recipe name is required.")
	}
	if strings.TrimSpace(sub.AuthorID) == "" {
		return rejected("Author is required.")
	}

	info, err := s.validator.Validate(sub.Image.Data)
	if err != nil {
		common.LogWarn("投稿圖片驗證失敗", zap.String("author", sub.AuthorID), zap.Error(err))
		return rejected(common.ToResponse(err, false).Message)
	}

	objectName := ObjectName(sub.AuthorID, s.newID(), sub.Image.Filename)
	imageURL, err := s.uploader.Upload(ctx, objectName, info.ContentType, sub.Image.Data)
	if err != nil {
		common.LogError("投稿圖片上傳失敗", zap.String("object", objectName), zap.Error(err))
		return Result{Message: msgSubmitFailed, Failure: FailureUpload}
	}

	id, err := s.writer.Create(ctx, NewRecipe{
		Name:         strings.TrimSpace(sub.Name),
		Description:  sub.Description,
		ImageURL:     imageURL,
		Ingredients:  compactIngredients(sub.Ingredients),
		Instructions: sub.Instructions,
		Category:     sub.Category,
		Area:         sub.Area,
		Tags:         sub.Tags,
		AuthorID:     sub.AuthorID,
		AuthorName:   sub.AuthorName,
	})
	if err != nil {
		common.LogError("投稿寫入失敗", zap.String("author", sub.AuthorID), zap.Error(err))
		return Result{Message: msgSubmitFailed, Failure: FailureStore}
	}

	common.LogInfo("投稿完成", zap.String("id", id), zap.String("author", sub.AuthorID))
	return Result{Success: true, Message: msgSubmitted, ID: id, ImageURL: imageURL}
}

// ObjectName user-recipes/<authorId>/<uuid>-<檔名>
func ObjectName(authorID, id, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "image"
	}
	return fmt.Sprintf("user-recipes/%s/%s-%s", authorID, id, name)
}

func compactIngredients(in []recipe.Ingredient) []recipe.Ingredient {
	out := make([]recipe.Ingredient, 0, len(in))
	for _, ing := range in {
		if strings.TrimSpace(ing.Name) == "" {
			continue
		}
		out = append(out, ing)
	}
	return out
}
