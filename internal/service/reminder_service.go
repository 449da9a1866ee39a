package service

import (
	"fmt"
	"strings"
	"time"

	"task-go/internal/config"
	"task-go/internal/models"
	"task-go/internal/repository"
	"task-go/pkg/mailer"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ReminderService 逾期任务提醒。
// 定时扫描逾期超过阈值天数的未完成任务，按用户汇总后发送提醒邮件。
type ReminderService struct {
	taskRepo *repository.TaskRepository
	userRepo *repository.UserRepository
	mailer   *mailer.Mailer
	cfg      *config.Config
	logger   *logrus.Logger
	cron     *cron.Cron
}

// NewReminderService 创建提醒服务
func NewReminderService(
	taskRepo *repository.TaskRepository,
	userRepo *repository.UserRepository,
	m *mailer.Mailer,
	cfg *config.Config,
	logger *logrus.Logger,
) *ReminderService {
	return &ReminderService{
		taskRepo: taskRepo,
		userRepo: userRepo,
		mailer:   m,
		cfg:      cfg,
		logger:   logger,
	}
}

// Start 启动定时扫描
func (s *ReminderService) Start() error {
	s.cron = cron.New()

	_, err := s.cron.AddFunc(s.cfg.Reminder.CronSpec, func() {
		if err := s.RunOnce(); err != nil {
			s.logger.WithError(err).Error("逾期任务扫描失败")
		}
	})
	if err != nil {
		return fmt.Errorf("注册定时任务失败: %w", err)
	}

	s.cron.Start()
	s.logger.WithField("cron_spec", s.cfg.Reminder.CronSpec).Info("逾期任务提醒已启动")
	return nil
}

// Stop 停止定时扫描
func (s *ReminderService) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// RunOnce 执行一次逾期扫描并发送提醒
func (s *ReminderService) RunOnce() error {
	cutoff := time.Now().AddDate(0, 0, -s.cfg.Reminder.OverdueDays).Truncate(24 * time.Hour)

	tasks, err := s.taskRepo.ListOverdueAll(cutoff)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		s.logger.Info("没有需要提醒的逾期任务")
		return nil
	}

	// 按用户分组汇总
	byUser := make(map[uint][]models.Task)
	for _, task := range tasks {
		byUser[task.UserID] = append(byUser[task.UserID], task)
	}

	for userID, userTasks := range byUser {
		user, err := s.userRepo.GetByID(userID)
		if err != nil {
			s.logger.WithError(err).WithField("user_id", userID).Warn("提醒时未找到用户")
			continue
		}

		body := s.buildDigest(user, userTasks)
		subject := fmt.Sprintf("Você tem %d tarefa(s) atrasada(s)", len(userTasks))

		if err := s.mailer.Send(user.Email, subject, body); err != nil {
			s.logger.WithError(err).WithField("user_id", userID).Error("发送提醒邮件失败")
			continue
		}

		s.logger.WithFields(logrus.Fields{
			"user_id": userID,
			"tasks":   len(userTasks),
		}).Info("逾期提醒已发送")
	}

	return nil
}

// buildDigest 生成一个用户的逾期任务摘要正文
func (s *ReminderService) buildDigest(user *models.User, tasks []models.Task) string {
	var b strings.Builder
	today := time.Now().Truncate(24 * time.Hour)

	fmt.Fprintf(&b, "Olá %s,\n\n", user.Name)
	fmt.Fprintf(&b, "As tarefas abaixo estão atrasadas há mais de %d dias:\n\n", s.cfg.Reminder.OverdueDays)

	for i := range tasks {
		task := &tasks[i]
		days := 0
		if task.DueDate != nil {
			days = int(today.Sub(*task.DueDate).Hours() / 24)
		}
		fmt.Fprintf(&b, "- %s (prazo: %s, %d dias de atraso)\n",
			task.Title, task.DueDate.Format("02/01/2006"), days)
	}

	return b.String()
}
