package database

import (
	"time"
)

// UserRecipeModel 使用者投稿的食譜
// Ingredients / Tags 以 JSON 文字儲存，讀取時再轉回未定型別資料正規化
type UserRecipeModel struct {
	ID           string `gorm:"type:char(36);primaryKey"`
	Name         string `gorm:"type:varchar(255);not null;index"`
	Description  string `gorm:"type:text"`
	ImageURL     string `gorm:"type:text"`
	Ingredients  string `gorm:"type:text"`
	Instructions string `gorm:"type:text"`
	Category     string `gorm:"type:varchar(100)"`
	Area         string `gorm:"type:varchar(100)"`
	Tags         string `gorm:"type:text"`
	AuthorID     string `gorm:"type:varchar(128);index"`
	AuthorName   string `gorm:"type:varchar(255)"`
	CreatedAt    time.Time
}

// TableName 資料表名稱
func (UserRecipeModel) TableName() string { return "user_recipes" }

// ContactMessageModel 聯絡表單
type ContactMessageModel struct {
	ID        string `gorm:"type:char(36);primaryKey"`
	Email     string `gorm:"type:varchar(255);not null"`
	Message   string `gorm:"type:text;not null"`
	Status    string `gorm:"type:varchar(20);default:'new';index"`
	CreatedAt time.Time
}

// TableName 資料表名稱
func (ContactMessageModel) TableName() string { return "contact_messages" }

// NotificationModel 使用者通知
type NotificationModel struct {
	ID        string `gorm:"type:char(36);primaryKey"`
	UserID    string `gorm:"type:varchar(128);not null;index"`
	Message   string `gorm:"type:text;not null"`
	Link      string `gorm:"type:text"`
	Read      bool   `gorm:"default:false"`
	CreatedAt time.Time
}

// TableName 資料表名稱
func (NotificationModel) TableName() string { return "notifications" }
