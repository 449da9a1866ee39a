package models

import (
	"time"
)

// KnowledgeNote 知识库条目，Markdown格式内容
type KnowledgeNote struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Title     string    `gorm:"size:200;not null" json:"titulo"`
	Content   string    `gorm:"type:text" json:"conteudo_markdown"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名
func (KnowledgeNote) TableName() string {
	return "base_conhecimento"
}
