package governor

import (
	"errors"
	"math"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"recipe-finder/internal/core/ai/openrouter"
)

var retryHintPattern = regexp.MustCompile(`(?i)retry in\s+([\d.]+)s`)

// IsQuotaError 判斷是否為配額或速率限制錯誤（HTTP 429 或訊息含 quota / 429）
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *openrouter.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
		return true
	}
	msg := err.Error()
	return strings.Contains(strings.ToLower(msg), "quota") || strings.Contains(msg, "429")
}

// RetryHint 從錯誤訊息取出 "retry in <秒>s"，向上取整到毫秒
func RetryHint(msg string) (time.Duration, bool) {
	m := retryHintPattern.FindStringSubmatch(msg)
	if m == nil {
		return 0, false
	}
	seconds, err := strconv.ParseFloat(m[1], 64)
	if err != nil || math.IsInf(seconds, 0) || math.IsNaN(seconds) {
		return 0, false
	}
	// 先取到微秒再進位，避免浮點誤差多出 1ms
	micros := math.Round(seconds * 1e6)
	return time.Duration(math.Ceil(micros/1000)) * time.Millisecond, true
}

// CooldownFor 配額錯誤的冷卻時間，沒有提示時使用預設值
func CooldownFor(err error, fallback time.Duration) time.Duration {
	if d, ok := RetryHint(err.Error()); ok {
		return d
	}
	return fallback
}
