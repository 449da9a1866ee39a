package service

import (
	"errors"
	"time"

	"task-go/internal/dto"
	"task-go/internal/models"
	"task-go/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrNotFound 实体不存在或不属于当前用户
var ErrNotFound = errors.New("记录不存在")

// ErrNotDone 任务未完成不允许归档
var ErrNotDone = errors.New("只有已完成的任务才能归档")

// TaskService 任务业务逻辑
type TaskService struct {
	taskRepo      *repository.TaskRepository
	stepRepo      *repository.StepRepository
	categoryRepo  *repository.CategoryRepository
	knowledgeRepo *repository.KnowledgeRepository
	logger        *logrus.Logger
}

// NewTaskService 创建任务服务
func NewTaskService(
	taskRepo *repository.TaskRepository,
	stepRepo *repository.StepRepository,
	categoryRepo *repository.CategoryRepository,
	knowledgeRepo *repository.KnowledgeRepository,
	logger *logrus.Logger,
) *TaskService {
	return &TaskService{
		taskRepo:      taskRepo,
		stepRepo:      stepRepo,
		categoryRepo:  categoryRepo,
		knowledgeRepo: knowledgeRepo,
		logger:        logger,
	}
}

// ListTasks 获取用户的未归档任务
func (s *TaskService) ListTasks(userID uint) ([]dto.TaskResponse, error) {
	tasks, err := s.taskRepo.ListByUserID(userID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TaskResponse, len(tasks))
	for i := range tasks {
		responses[i] = dto.NewTaskResponse(&tasks[i])
	}
	return responses, nil
}

// GetTask 获取任务详情
func (s *TaskService) GetTask(taskID uint, userID uint) (*dto.TaskResponse, error) {
	task, err := s.taskRepo.GetByIDAndUserID(taskID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	resp := dto.NewTaskResponse(task)
	return &resp, nil
}

// CreateTask 创建任务（含步骤与知识关联）
func (s *TaskService) CreateTask(userID uint, req *dto.TaskRequest) (*dto.TaskResponse, error) {
	task := &models.Task{
		Title:          req.Title,
		Description:    req.Description,
		StartDate:      dto.ParseDatePtr(req.StartDate),
		DueDate:        dto.ParseDatePtr(req.DueDate),
		Status:         models.StatusNotStarted,
		IsCurrentFocus: req.IsCurrentFocus,
		UserID:         userID,
	}

	if req.Status != "" {
		task.Status = models.Status(req.Status)
	}

	if err := s.resolveCategory(task, req.CategoryID, userID); err != nil {
		return nil, err
	}

	for i, step := range req.Steps {
		task.Steps = append(task.Steps, models.Step{
			Description: step.Description,
			Done:        step.Done,
			Order:       i,
		})
	}

	if err := s.resolveKnowledgeNotes(task, req.KnowledgeNoteIDs, userID); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"task_id": task.ID,
		"user_id": userID,
	}).Info("任务已创建")

	return s.GetTask(task.ID, userID)
}

// UpdateTask 编辑任务，步骤集合整体替换
func (s *TaskService) UpdateTask(taskID uint, userID uint, req *dto.TaskRequest) (*dto.TaskResponse, error) {
	task, err := s.taskRepo.GetByIDAndUserID(taskID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	task.Title = req.Title
	task.Description = req.Description
	task.StartDate = dto.ParseDatePtr(req.StartDate)
	task.DueDate = dto.ParseDatePtr(req.DueDate)
	task.IsCurrentFocus = req.IsCurrentFocus
	if req.Status != "" {
		// 手工指定的状态原样接受，下一次步骤切换时会重新推导
		task.Status = models.Status(req.Status)
	}

	task.Category = nil
	task.CategoryID = nil
	if err := s.resolveCategory(task, req.CategoryID, userID); err != nil {
		return nil, err
	}

	steps := make([]models.Step, len(req.Steps))
	for i, step := range req.Steps {
		steps[i] = models.Step{
			Description: step.Description,
			Done:        step.Done,
			Order:       i,
		}
	}

	task.Steps = nil
	task.KnowledgeNotes = nil
	if err := s.taskRepo.Update(task); err != nil {
		return nil, err
	}
	if err := s.stepRepo.ReplaceForTask(task.ID, steps); err != nil {
		return nil, err
	}

	if req.KnowledgeNoteIDs != nil {
		notes, err := s.knowledgeRepo.GetByIDsAndUserID(req.KnowledgeNoteIDs, userID)
		if err != nil {
			return nil, err
		}
		if err := s.taskRepo.DB().Model(task).Association("KnowledgeNotes").Replace(notes); err != nil {
			return nil, err
		}
	}

	return s.GetTask(task.ID, userID)
}

// DeleteTask 删除任务，步骤级联删除
func (s *TaskService) DeleteTask(taskID uint, userID uint) error {
	task, err := s.taskRepo.GetByIDAndUserID(taskID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	return s.taskRepo.Delete(task)
}

// ToggleStep 切换步骤完成标记并重新推导父任务状态。
// 翻转、重读步骤集合、状态写回在同一事务内完成，
// 避免并发切换同一任务的不同步骤时状态写丢失。
func (s *TaskService) ToggleStep(stepID uint, userID uint) (*dto.ToggleStepResponse, error) {
	var resp dto.ToggleStepResponse

	err := s.taskRepo.DB().Transaction(func(tx *gorm.DB) error {
		var step models.Step
		if err := tx.Joins("JOIN tarefas ON tarefas.id = etapas.task_id").
			Where("etapas.id = ? AND tarefas.user_id = ?", stepID, userID).
			First(&step).Error; err != nil {
			return err
		}

		// 翻转完成标记
		step.Done = !step.Done
		if err := tx.Model(&models.Step{}).Where("id = ?", step.ID).
			Update("done", step.Done).Error; err != nil {
			return err
		}

		var task models.Task
		if err := tx.First(&task, step.TaskID).Error; err != nil {
			return err
		}

		// 在本事务内重读完整步骤集合后再推导
		var steps []models.Step
		if err := tx.Where("task_id = ?", task.ID).
			Order("ordem ASC, id ASC").Find(&steps).Error; err != nil {
			return err
		}

		newStatus := models.DeriveStatus(task.Status, steps)

		// 只有状态变化才写回，避免无意义的更新时间戳变动
		if newStatus != task.Status {
			if err := tx.Model(&models.Task{}).Where("id = ?", task.ID).
				Update("status", newStatus).Error; err != nil {
				return err
			}
		}

		resp = dto.ToggleStepResponse{
			Status:         "sucesso",
			StepDone:       step.Done,
			TaskStatus:     newStatus.Label(),
			TaskStatusCode: string(newStatus),
			TaskID:         task.ID,
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &resp, nil
}

// ArchiveTask 归档任务，仅允许已完成的任务
func (s *TaskService) ArchiveTask(taskID uint, userID uint) error {
	task, err := s.taskRepo.GetByIDAndUserID(taskID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if task.Status != models.StatusDone {
		return ErrNotDone
	}

	task.Archived = true
	return s.taskRepo.Update(task)
}

// ListArchived 获取已归档任务
func (s *TaskService) ListArchived(userID uint) ([]dto.TaskResponse, error) {
	tasks, err := s.taskRepo.ListArchivedByUserID(userID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TaskResponse, len(tasks))
	for i := range tasks {
		responses[i] = dto.NewTaskResponse(&tasks[i])
	}
	return responses, nil
}

// Dashboard 仪表盘统计
func (s *TaskService) Dashboard(userID uint) (*repository.DashboardCounts, error) {
	today := time.Now().Truncate(24 * time.Hour)
	return s.taskRepo.CountDashboard(userID, today)
}

// ListOverdue 获取逾期超过指定天数的任务
func (s *TaskService) ListOverdue(userID uint, days int) ([]dto.TaskResponse, error) {
	cutoff := time.Now().AddDate(0, 0, -days).Truncate(24 * time.Hour)
	tasks, err := s.taskRepo.ListOverdue(userID, cutoff)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TaskResponse, len(tasks))
	for i := range tasks {
		responses[i] = dto.NewTaskResponse(&tasks[i])
	}
	return responses, nil
}

// resolveCategory 解析并校验分类归属
func (s *TaskService) resolveCategory(task *models.Task, categoryID *uint, userID uint) error {
	if categoryID == nil {
		return nil
	}

	category, err := s.categoryRepo.GetByIDAndUserID(*categoryID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	task.CategoryID = &category.ID
	return nil
}

// resolveKnowledgeNotes 解析并校验知识条目归属
func (s *TaskService) resolveKnowledgeNotes(task *models.Task, noteIDs []uint, userID uint) error {
	if len(noteIDs) == 0 {
		return nil
	}

	notes, err := s.knowledgeRepo.GetByIDsAndUserID(noteIDs, userID)
	if err != nil {
		return err
	}

	task.KnowledgeNotes = notes
	return nil
}
