package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User представляє користувача в системі.
type User struct {
	ID          string `gorm:"primaryKey" json:"id"` // UUID
	Username    string `gorm:"uniqueIndex" json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// BeforeCreate — це хук GORM, який викликається перед створенням запису.
// Він генерує новий UUID для користувача, якщо ID ще не встановлено.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}
