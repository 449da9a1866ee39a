package config

import (
	"fmt"
	"time"
)

// Config 应用配置结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis_service"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Admin    AdminConfig    `mapstructure:"admin"`
	CORS     CORSConfig     `mapstructure:"cors"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
	Reminder ReminderConfig `mapstructure:"reminder"`
	Import   ImportConfig   `mapstructure:"import"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	ProductionMode bool   `mapstructure:"production_mode"`
}

// GetAddress 获取服务器地址
func (s *ServerConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// RedisConfig Redis配置
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	DB       int    `mapstructure:"db"`
	Password string `mapstructure:"password"`
}

// GetAddress 获取Redis地址
func (r *RedisConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// JWTConfig JWT配置
type JWTConfig struct {
	SecretKey     string `mapstructure:"secret_key"`
	Algorithm     string `mapstructure:"algorithm"`
	ExpireMinutes int    `mapstructure:"expire_minutes"`
}

// GetExpireDuration 获取过期时间
func (j *JWTConfig) GetExpireDuration() time.Duration {
	return time.Duration(j.ExpireMinutes) * time.Minute
}

// AdminConfig 管理员配置
type AdminConfig struct {
	Email    string `mapstructure:"email"`
	Name     string `mapstructure:"name"`
	Password string `mapstructure:"password"`
}

// CORSConfig CORS配置
type CORSConfig struct {
	Origins          []string `mapstructure:"origins"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	AllowMethods     []string `mapstructure:"allow_methods"`
	AllowHeaders     []string `mapstructure:"allow_headers"`
}

// SMTPConfig 邮件发送配置
type SMTPConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// ReminderConfig 逾期任务提醒配置
type ReminderConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	CronSpec    string `mapstructure:"cron_spec"`
	OverdueDays int    `mapstructure:"overdue_days"`
}

// ImportConfig CSV导入配置
type ImportConfig struct {
	// 同一用户允许的并发导入数量
	MaxConcurrentPerUser int `mapstructure:"max_concurrent_per_user"`
	// 导入槽位的过期时间（秒），防止异常退出后槽位泄漏
	SlotTTLSeconds int `mapstructure:"slot_ttl_seconds"`
}

// GetSlotTTL 获取槽位过期时间
func (i *ImportConfig) GetSlotTTL() time.Duration {
	return time.Duration(i.SlotTTLSeconds) * time.Second
}
