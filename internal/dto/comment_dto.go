package dto

// CommentRequest 留言请求，触发邮件通知
type CommentRequest struct {
	Name    string `json:"nome" binding:"required,max=255"`
	Comment string `json:"comentario" binding:"required"`
}
