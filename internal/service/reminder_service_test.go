package service

import (
	"strings"
	"testing"
	"time"

	"task-go/internal/config"
	"task-go/internal/models"
	"task-go/internal/repository"
	"task-go/pkg/mailer"

	"gorm.io/gorm"
)

func newTestReminderService(db *gorm.DB, overdueDays int) *ReminderService {
	cfg := &config.Config{}
	cfg.Reminder.CronSpec = "0 8 * * *"
	cfg.Reminder.OverdueDays = overdueDays

	logger := newTestLogger()
	m := mailer.NewMailer(mailer.Config{Enabled: false}, logger)

	return NewReminderService(
		repository.NewTaskRepository(db),
		repository.NewUserRepository(db),
		m,
		cfg,
		logger,
	)
}

func TestReminderRunOnceNoOverdueTasks(t *testing.T) {
	db := newTestDB(t)
	svc := newTestReminderService(db, 15)
	user := seedUser(t, db, "emdia@teste.com")

	// 未到期的任务不触发提醒
	due := time.Now().AddDate(0, 0, 3)
	task := &models.Task{Title: "Futura", DueDate: &due, UserID: user.ID}
	if err := db.Create(task).Error; err != nil {
		t.Fatalf("创建任务失败: %v", err)
	}

	if err := svc.RunOnce(); err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
}

func TestReminderRunOnceWithOverdueTasks(t *testing.T) {
	db := newTestDB(t)
	svc := newTestReminderService(db, 15)
	user := seedUser(t, db, "atrasada@teste.com")

	overdue := time.Now().AddDate(0, 0, -20)
	tasks := []models.Task{
		{Title: "Muito atrasada", DueDate: &overdue, Status: models.StatusInProgress, UserID: user.ID},
		// 已完成的任务不算逾期
		{Title: "Feita", DueDate: &overdue, Status: models.StatusDone, UserID: user.ID},
	}
	for i := range tasks {
		if err := db.Create(&tasks[i]).Error; err != nil {
			t.Fatalf("创建任务失败: %v", err)
		}
	}

	if err := svc.RunOnce(); err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
}

func TestBuildDigest(t *testing.T) {
	db := newTestDB(t)
	svc := newTestReminderService(db, 15)

	user := &models.User{Name: "Beatriz", Email: "bia@teste.com"}
	due := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	tasks := []models.Task{
		{Title: "Declaração de impostos", DueDate: &due},
	}

	body := svc.buildDigest(user, tasks)

	if !strings.Contains(body, "Olá Beatriz") {
		t.Errorf("摘要应以用户名开头: %q", body)
	}
	if !strings.Contains(body, "Declaração de impostos") {
		t.Errorf("摘要应包含任务标题: %q", body)
	}
	if !strings.Contains(body, "10/01/2024") {
		t.Errorf("摘要应包含到期日: %q", body)
	}
	if !strings.Contains(body, "15 dias") {
		t.Errorf("摘要应包含阈值天数: %q", body)
	}
}
