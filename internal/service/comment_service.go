package service

import (
	"fmt"

	"task-go/internal/dto"
	"task-go/pkg/mailer"

	"github.com/sirupsen/logrus"
)

// CommentService 访客留言，收到留言时给管理员发邮件通知
type CommentService struct {
	mailer     *mailer.Mailer
	adminEmail string
	logger     *logrus.Logger
}

// NewCommentService 创建留言服务
func NewCommentService(m *mailer.Mailer, adminEmail string, logger *logrus.Logger) *CommentService {
	return &CommentService{
		mailer:     m,
		adminEmail: adminEmail,
		logger:     logger,
	}
}

// SubmitComment 处理留言并发送邮件通知。
// 邮件发送失败向上传播，调用方返回错误响应。
func (s *CommentService) SubmitComment(req *dto.CommentRequest) error {
	body := fmt.Sprintf("Received comment from %s\n\n%s", req.Name, req.Comment)

	if err := s.mailer.Send(s.adminEmail, "Received comment", body); err != nil {
		return fmt.Errorf("发送通知邮件失败: %w", err)
	}

	s.logger.WithField("nome", req.Name).Info("留言已接收")
	return nil
}
