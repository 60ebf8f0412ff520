package recipe

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/core/userrecipe"
	"recipe-finder/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

const maxMultipartMemory = 8 << 20

// parseIngredients 表單中的 ingredients 為 JSON 陣列字串
func parseIngredients(raw string) ([]recipe.Ingredient, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var ingredients []recipe.Ingredient
	if err := json.Unmarshal([]byte(raw), &ingredients); err != nil {
		return nil, common.NewValidationError("ingredients must be a JSON array")
	}
	return ingredients, nil
}

// splitTags 逗號分隔
func splitTags(raw string) []string {
	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// readImage 讀取 multipart 圖片；沒有附檔或不是 multipart 時回傳 nil
func readImage(c *gin.Context, field string) (*userrecipe.ImageFile, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	return readFileHeader(header)
}

func readFileHeader(header *multipart.FileHeader) (*userrecipe.ImageFile, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &userrecipe.ImageFile{Filename: header.Filename, Data: data}, nil
}
