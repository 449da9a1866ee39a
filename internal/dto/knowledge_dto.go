package dto

import (
	"task-go/internal/models"
)

// KnowledgeNoteRequest 创建/编辑知识条目请求
type KnowledgeNoteRequest struct {
	Title   string `json:"titulo" binding:"required,max=200"`
	Content string `json:"conteudo_markdown" binding:"required"`
}

// KnowledgeNoteResponse 知识条目响应
type KnowledgeNoteResponse struct {
	ID        uint   `json:"id"`
	Title     string `json:"titulo"`
	Content   string `json:"conteudo_markdown"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// NewKnowledgeNoteResponse 由模型构建知识条目响应
func NewKnowledgeNoteResponse(note *models.KnowledgeNote) KnowledgeNoteResponse {
	return KnowledgeNoteResponse{
		ID:        note.ID,
		Title:     note.Title,
		Content:   note.Content,
		CreatedAt: note.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt: note.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
