package contact

import (
	"context"
	"strings"
	"time"

	"recipe-finder/internal/infrastructure/database"
	"recipe-finder/internal/pkg/common"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StatusNew 新訊息的狀態
const StatusNew = "new"

// Result 聯絡表單結果
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Service 聯絡表單
type Service struct {
	db  *gorm.DB
	now func() time.Time
}

// NewService 創建聯絡表單服務
func NewService(db *gorm.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// Submit 儲存聯絡訊息，email 與內容皆為必填
func (s *Service) Submit(ctx context.Context, email, message string) Result {
	email = strings.TrimSpace(email)
	if email == "" || strings.TrimSpace(message) == "" {
		return Result{Message: "Email and message are required."}
	}

	row := database.ContactMessageModel{
		ID:        common.GenerateUUID(),
		Email:     email,
		Message:   message,
		Status:    StatusNew,
		CreatedAt: s.now(),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		common.LogError("聯絡訊息儲存失敗", zap.Error(err))
		return Result{Message: "Failed to send message. Please try again."}
	}

	common.LogInfo("收到聯絡訊息", zap.String("id", row.ID))
	return Result{Success: true, Message: "Message sent successfully!"}
}
