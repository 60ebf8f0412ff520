package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// ErrEmptyPayload 模型回傳空白內容
var ErrEmptyPayload = errors.New("empty payload")

// ParseJSON 解析 JSON 字符串到結構體，不允許多餘資料
func ParseJSON(data string, v interface{}) error {
	dec := json.NewDecoder(strings.NewReader(data))
	if err := dec.Decode(v); err != nil {
		return err
	}

	// 確保沒有多餘資料
	if _, err := dec.Token(); err != io.EOF {
		if err != nil {
			return err
		}
		return fmt.Errorf("unexpected extra JSON data")
	}
	return nil
}

var fenceOpenPattern = regexp.MustCompile("^```[a-zA-Z0-9_-]*\\s*")

// ExtractJSONObject 從模型輸出中取出 JSON 物件：
// 去除 ``` 圍欄，再取第一個 { 到最後一個 } 之間的內容
func ExtractJSONObject(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", ErrEmptyPayload
	}

	if strings.HasPrefix(text, "```") {
		text = fenceOpenPattern.ReplaceAllString(text, "")
		text = strings.TrimSpace(strings.TrimSuffix(text, "```"))
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end != -1 && end > start {
		text = text[start : end+1]
	}
	return text, nil
}
