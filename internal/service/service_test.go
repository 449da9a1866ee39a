package service

import (
	"fmt"
	"io"
	"testing"

	"task-go/internal/models"
	"task-go/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 每个测试一个独立的内存数据库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("迁移测试数据库失败: %v", err)
	}

	return db
}

// newTestLogger 静默日志，测试输出不被日志淹没
func newTestLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// seedUser 创建一个测试用户
func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := &models.User{
		Email:        email,
		Name:         "Teste",
		PasswordHash: "x",
		IsActive:     true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("创建测试用户失败: %v", err)
	}
	return user
}

// newTestTaskService 组装一个指向测试库的任务服务
func newTestTaskService(db *gorm.DB) *TaskService {
	return NewTaskService(
		repository.NewTaskRepository(db),
		repository.NewStepRepository(db),
		repository.NewCategoryRepository(db),
		repository.NewKnowledgeRepository(db),
		newTestLogger(),
	)
}
