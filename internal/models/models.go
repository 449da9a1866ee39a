package models

import (
	"task-go/internal/config"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB 全局数据库实例
var DB *gorm.DB

// InitDB 初始化数据库
func InitDB(cfg *config.Config) error {
	var err error

	DB, err = gorm.Open(sqlite.Open(cfg.Database.Path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent), // 使用静默模式
		TranslateError: true,                                  // 把驱动错误翻译成 gorm.ErrDuplicatedKey 等
	})
	if err != nil {
		return err
	}

	return AutoMigrate(DB)
}

// AutoMigrate 自动迁移数据库表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Category{},
		&KnowledgeNote{},
		&Task{},
		&Step{},
	)
}

// GetDB 获取数据库实例
func GetDB() *gorm.DB {
	return DB
}
