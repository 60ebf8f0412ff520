package openrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Completer 文字生成能力，方便以假實作測試
type Completer interface {
	Chat(ctx context.Context, req ChatRequest) (string, error)
}

// ImageGenerator 圖片生成能力
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// Client OpenRouter API 客戶端
type Client struct {
	client *resty.Client
	config config.OpenRouterConfig
}

// Message 消息結構
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ResponseFormat 要求模型輸出 JSON
type ResponseFormat struct {
	Type string `json:"type"`
}

// ChatRequest 呼叫端參數，Model 為空時使用設定值
type ChatRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
	JSON        bool
}

// request 表示 API 請求
type request struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	Temperature    float64         `json:"temperature,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
	Modalities     []string        `json:"modalities,omitempty"`
}

// response OpenRouter 響應結構
type response struct {
	ID      string `json:"id"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
			Images  []struct {
				ImageURL struct {
					URL string `json:"url"`
				} `json:"image_url"`
			} `json:"images"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// errorBody 表示 API 錯誤
type errorBody struct {
	Error struct {
		Message string      `json:"message"`
		Type    string      `json:"type"`
		Code    interface{} `json:"code"`
	} `json:"error"`
}

// APIError 非 200 回應，保留狀態碼供配額判斷
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("OpenRouter API error (status %d): %s", e.StatusCode, e.Message)
}

// NewClient 創建新的 OpenRouter 客戶端
func NewClient(cfg config.OpenRouterConfig) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetHeader("HTTP-Referer", "https://recipe-finder.app").
		SetHeader("X-Title", "Recipe Finder")

	return &Client{client: client, config: cfg}
}

// Chat 送出 chat/completions 並回傳第一個選項的內容
func (c *Client) Chat(ctx context.Context, req ChatRequest) (string, error) {
	body := request{
		Model:       common.FirstNonEmpty(req.Model, c.config.Model),
		Messages:    req.Messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	if body.MaxTokens == 0 {
		body.MaxTokens = c.config.MaxTokens
	}
	if req.JSON {
		body.ResponseFormat = &ResponseFormat{Type: "json_object"}
	}

	result, err := c.send(ctx, body)
	if err != nil {
		return "", err
	}

	content := result.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("empty content in OpenRouter response: %w", common.ErrEmptyPayload)
	}
	return content, nil
}

// GenerateImage 以圖片模型生成，回傳第一張圖的 URL（可能是 data URL）
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	body := request{
		Model:      common.FirstNonEmpty(c.config.ImageModel, c.config.Model),
		Messages:   []Message{{Role: "user", Content: prompt}},
		Modalities: []string{"image", "text"},
	}

	result, err := c.send(ctx, body)
	if err != nil {
		return "", err
	}

	images := result.Choices[0].Message.Images
	if len(images) == 0 || images[0].ImageURL.URL == "" {
		return "", fmt.Errorf("no image in OpenRouter response")
	}
	return images[0].ImageURL.URL, nil
}

func (c *Client) send(ctx context.Context, body request) (*response, error) {
	common.LogDebug("Sending request to OpenRouter",
		zap.String("model", body.Model),
		zap.Int("messages", len(body.Messages)),
	)

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		Post("/chat/completions")
	if err != nil {
		return nil, fmt.Errorf("failed to send request to OpenRouter: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode(), Message: errorMessage(resp.Body())}
	}

	var result response
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse OpenRouter response: %w (response: %s)", err, sanitizeResponse(resp.Body()))
	}

	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("no choices in OpenRouter response")
	}

	common.LogDebug("OpenRouter 回應",
		zap.String("model", body.Model),
		zap.Int("total_tokens", result.Usage.TotalTokens),
	)
	return &result, nil
}

// errorMessage 取出錯誤訊息，非 JSON 時回傳清理後的原文
func errorMessage(body []byte) string {
	var e errorBody
	if err := json.Unmarshal(body, &e); err == nil && e.Error.Message != "" {
		return e.Error.Message
	}
	return sanitizeResponse(body)
}

// sanitizeResponse 清理響應內容，移除圖片數據並截斷
func sanitizeResponse(body []byte) string {
	s := string(body)
	if strings.Contains(s, "data:image/") || (len(s) > 100 && strings.Contains(s, "base64")) {
		return "[IMAGE_DATA_REMOVED]"
	}
	if len(s) > 500 {
		return s[:500] + "..."
	}
	return s
}
