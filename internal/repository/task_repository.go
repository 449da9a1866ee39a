package repository

import (
	"time"

	"task-go/internal/models"

	"gorm.io/gorm"
)

// TaskRepository 任务数据访问层。
// 所有查询都按用户过滤，属主过滤是唯一的访问控制手段。
type TaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository 创建任务Repository
func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// DB 返回底层数据库实例，用于跨表事务
func (r *TaskRepository) DB() *gorm.DB {
	return r.db
}

// Create 创建任务（含步骤）
func (r *TaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// GetByIDAndUserID 按ID和属主获取任务，非属主视为不存在
func (r *TaskRepository) GetByIDAndUserID(id uint, userID uint) (*models.Task, error) {
	var task models.Task
	err := r.db.Preload("Category").
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("ordem ASC, id ASC")
		}).
		Preload("KnowledgeNotes").
		Where("id = ? AND user_id = ?", id, userID).
		First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Update 更新任务
func (r *TaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete 删除任务，步骤随任务级联删除
func (r *TaskRepository) Delete(task *models.Task) error {
	return r.db.Select("Steps").Delete(task).Error
}

// ListByUserID 获取用户的未归档任务列表
func (r *TaskRepository) ListByUserID(userID uint) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.Preload("Category").
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("ordem ASC, id ASC")
		}).
		Where("user_id = ? AND archived = ?", userID, false).
		Order("created_at DESC").
		Find(&tasks).Error
	return tasks, err
}

// ListArchivedByUserID 获取用户的已归档任务
func (r *TaskRepository) ListArchivedByUserID(userID uint) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.Preload("Category").
		Where("user_id = ? AND archived = ?", userID, true).
		Order("updated_at DESC").
		Find(&tasks).Error
	return tasks, err
}

// ListByCategory 获取某分类下的任务
func (r *TaskRepository) ListByCategory(categoryID uint, userID uint) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.Preload("Steps", func(db *gorm.DB) *gorm.DB {
		return db.Order("ordem ASC, id ASC")
	}).
		Where("category_id = ? AND user_id = ?", categoryID, userID).
		Order("created_at DESC").
		Find(&tasks).Error
	return tasks, err
}

// ListOverdue 获取截止日期早于指定日期且未完成的任务
func (r *TaskRepository) ListOverdue(userID uint, before time.Time) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.Where("user_id = ? AND archived = ? AND status <> ? AND data_conclusao IS NOT NULL AND data_conclusao < ?",
		userID, false, models.StatusDone, before).
		Order("data_conclusao ASC").
		Find(&tasks).Error
	return tasks, err
}

// ListOverdueAll 获取全部用户的逾期任务（提醒任务扫描用）
func (r *TaskRepository) ListOverdueAll(before time.Time) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.Preload("Category").
		Where("archived = ? AND status <> ? AND data_conclusao IS NOT NULL AND data_conclusao < ?",
			false, models.StatusDone, before).
		Order("user_id ASC, data_conclusao ASC").
		Find(&tasks).Error
	return tasks, err
}

// DashboardCounts 仪表盘统计结果
type DashboardCounts struct {
	Total    int64 `json:"total"`
	DueToday int64 `json:"hoje"`
	Focus    int64 `json:"foco"`
	Overdue  int64 `json:"atrasadas"`
	Done     int64 `json:"concluidas"`
}

// CountDashboard 统计用户仪表盘数据，只统计未归档任务
func (r *TaskRepository) CountDashboard(userID uint, today time.Time) (*DashboardCounts, error) {
	var counts DashboardCounts

	base := func() *gorm.DB {
		return r.db.Model(&models.Task{}).Where("user_id = ? AND archived = ?", userID, false)
	}

	if err := base().Count(&counts.Total).Error; err != nil {
		return nil, err
	}
	if err := base().Where("data_conclusao = ? AND status <> ?", today, models.StatusDone).
		Count(&counts.DueToday).Error; err != nil {
		return nil, err
	}
	if err := base().Where("is_current_focus = ? AND status <> ?", true, models.StatusDone).
		Count(&counts.Focus).Error; err != nil {
		return nil, err
	}
	if err := base().Where("data_conclusao < ? AND status <> ?", today, models.StatusDone).
		Count(&counts.Overdue).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", models.StatusDone).Count(&counts.Done).Error; err != nil {
		return nil, err
	}

	return &counts, nil
}

// ListAll 获取所有任务（管理员）
func (r *TaskRepository) ListAll(offset, limit int) ([]models.Task, int64, error) {
	var tasks []models.Task
	var total int64

	if err := r.db.Model(&models.Task{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Preload("Category").Order("created_at DESC").Offset(offset).Limit(limit).Find(&tasks).Error
	return tasks, total, err
}
