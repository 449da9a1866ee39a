package handler

import (
	"task-go/internal/dto"
	"task-go/internal/service"
	"task-go/internal/utils"

	"github.com/gin-gonic/gin"
)

// CommentHandler 留言处理器
type CommentHandler struct {
	commentService *service.CommentService
}

// NewCommentHandler 创建留言处理器
func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// SubmitComment 提交留言并通知管理员
func (h *CommentHandler) SubmitComment(c *gin.Context) {
	var req dto.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if err := h.commentService.SubmitComment(&req); err != nil {
		utils.InternalError(c, err.Error())
		return
	}

	utils.SuccessWithMessage(c, "comentário recebido", gin.H{"success": true})
}
