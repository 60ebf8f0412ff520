package notification

import (
	"context"
	"fmt"
	"time"

	"recipe-finder/internal/infrastructure/database"
	"recipe-finder/internal/pkg/common"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Notification 使用者通知
type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Link      string    `json:"link,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// Service 使用者通知
type Service struct {
	db  *gorm.DB
	now func() time.Time
}

// NewService 創建通知服務
func NewService(db *gorm.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// Create 建立通知，失敗只記錄；回傳新 ID，失敗時為空字串
func (s *Service) Create(ctx context.Context, userID, message, link string) string {
	if userID == "" {
		common.LogError("建立通知需要 user id")
		return ""
	}

	row := database.NotificationModel{
		ID:        common.GenerateUUID(),
		UserID:    userID,
		Message:   message,
		Link:      link,
		CreatedAt: s.now(),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		common.LogError("建立通知失敗", zap.String("user", userID), zap.Error(err))
		return ""
	}
	return row.ID
}

// List 使用者的通知，新的在前
func (s *Service) List(ctx context.Context, userID string, limit int) ([]Notification, error) {
	q := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []database.NotificationModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	out := make([]Notification, 0, len(rows))
	for _, row := range rows {
		out = append(out, Notification{
			ID:        row.ID,
			Message:   row.Message,
			Link:      row.Link,
			Read:      row.Read,
			CreatedAt: row.CreatedAt,
		})
	}
	return out, nil
}

// MarkRead 標記已讀；參數缺少或找不到時回傳 false
func (s *Service) MarkRead(ctx context.Context, userID, id string) bool {
	if userID == "" || id == "" {
		return false
	}

	res := s.db.WithContext(ctx).
		Model(&database.NotificationModel{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if err := res.Error; err != nil {
		common.LogError("標記通知已讀失敗", zap.String("id", id), zap.Error(err))
		return false
	}
	return res.RowsAffected > 0
}

// UnreadCount 未讀數量
func (s *Service) UnreadCount(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&database.NotificationModel{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return count, nil
}
