package models

import (
	"time"
)

// User 用户模型，登录标识为邮箱
type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name         string    `gorm:"size:255;not null" json:"nome"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	IsStaff      bool      `gorm:"default:false" json:"is_staff"`
	IsAdmin      bool      `gorm:"default:false" json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// 关联
	Tasks          []Task          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"tasks,omitempty"`
	Categories     []Category      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"categories,omitempty"`
	KnowledgeNotes []KnowledgeNote `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"knowledge_notes,omitempty"`
}

// TableName 指定表名
func (User) TableName() string {
	return "usuarios"
}
