package repository

import (
	"task-go/internal/models"

	"gorm.io/gorm"
)

// StepRepository 步骤数据访问层
type StepRepository struct {
	db *gorm.DB
}

// NewStepRepository 创建步骤Repository
func NewStepRepository(db *gorm.DB) *StepRepository {
	return &StepRepository{db: db}
}

// GetByIDAndUserID 按ID获取步骤，通过父任务校验属主。
// 非属主的步骤视为不存在，避免先取对象再比对属主的泄漏路径。
func (r *StepRepository) GetByIDAndUserID(id uint, userID uint) (*models.Step, error) {
	return getStepScoped(r.db, id, userID)
}

// getStepScoped 在给定事务/连接上执行属主限定的步骤查询
func getStepScoped(db *gorm.DB, id uint, userID uint) (*models.Step, error) {
	var step models.Step
	err := db.Joins("JOIN tarefas ON tarefas.id = etapas.task_id").
		Where("etapas.id = ? AND tarefas.user_id = ?", id, userID).
		First(&step).Error
	if err != nil {
		return nil, err
	}
	return &step, nil
}

// ListByTaskID 获取任务的全部步骤，按顺序号排序，顺序号相同按ID稳定排序
func (r *StepRepository) ListByTaskID(taskID uint) ([]models.Step, error) {
	return listStepsScoped(r.db, taskID)
}

// listStepsScoped 在给定事务/连接上读取任务的步骤集合
func listStepsScoped(db *gorm.DB, taskID uint) ([]models.Step, error) {
	var steps []models.Step
	err := db.Where("task_id = ?", taskID).Order("ordem ASC, id ASC").Find(&steps).Error
	return steps, err
}

// ReplaceForTask 整体替换任务的步骤集合（编辑任务时使用）
func (r *StepRepository) ReplaceForTask(taskID uint, steps []models.Step) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", taskID).Delete(&models.Step{}).Error; err != nil {
			return err
		}
		for i := range steps {
			steps[i].ID = 0
			steps[i].TaskID = taskID
		}
		if len(steps) == 0 {
			return nil
		}
		return tx.Create(&steps).Error
	})
}
