package dto

import (
	"task-go/internal/models"
)

// CategoryRequest 创建/编辑分类请求
type CategoryRequest struct {
	Name  string `json:"nome" binding:"required,max=100"`
	Color string `json:"cor" binding:"omitempty,hexcolor"`
}

// CategoryResponse 分类响应
type CategoryResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"nome"`
	Color     string `json:"cor"`
	CreatedAt string `json:"criado_em"`
}

// NewCategoryResponse 由模型构建分类响应
func NewCategoryResponse(category *models.Category) CategoryResponse {
	return CategoryResponse{
		ID:        category.ID,
		Name:      category.Name,
		Color:     category.Color,
		CreatedAt: category.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// CategoryDetailResponse 分类详情，附带该分类下的任务
type CategoryDetailResponse struct {
	CategoryResponse
	Tasks []TaskResponse `json:"tarefas"`
}
