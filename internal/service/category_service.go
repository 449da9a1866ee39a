package service

import (
	"errors"

	"task-go/internal/dto"
	"task-go/internal/models"
	"task-go/internal/repository"

	"gorm.io/gorm"
)

// ErrDuplicateCategory 同一用户下分类名称重复
var ErrDuplicateCategory = errors.New("já existe uma categoria com esse nome")

// ErrForbidden 访问了其他用户的记录
var ErrForbidden = errors.New("sem permissão para acessar este recurso")

// CategoryService 分类业务逻辑
type CategoryService struct {
	categoryRepo *repository.CategoryRepository
	taskRepo     *repository.TaskRepository
}

// NewCategoryService 创建分类服务
func NewCategoryService(categoryRepo *repository.CategoryRepository, taskRepo *repository.TaskRepository) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		taskRepo:     taskRepo,
	}
}

// ListCategories 分页获取用户的分类
func (s *CategoryService) ListCategories(userID uint, page, perPage int) ([]dto.CategoryResponse, int64, error) {
	offset := (page - 1) * perPage
	categories, total, err := s.categoryRepo.ListByUserID(userID, offset, perPage)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]dto.CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = dto.NewCategoryResponse(&categories[i])
	}
	return responses, total, nil
}

// GetCategoryDetail 获取分类详情及其任务。
// 对非属主返回 ErrForbidden 而不是"不存在"，
// 监控侧据此区分越权访问和失效链接。
func (s *CategoryService) GetCategoryDetail(categoryID uint, userID uint) (*dto.CategoryDetailResponse, error) {
	category, err := s.categoryRepo.GetByID(categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if category.UserID != userID {
		return nil, ErrForbidden
	}

	tasks, err := s.taskRepo.ListByCategory(category.ID, userID)
	if err != nil {
		return nil, err
	}

	detail := &dto.CategoryDetailResponse{
		CategoryResponse: dto.NewCategoryResponse(category),
		Tasks:            make([]dto.TaskResponse, len(tasks)),
	}
	for i := range tasks {
		detail.Tasks[i] = dto.NewTaskResponse(&tasks[i])
	}

	return detail, nil
}

// CreateCategory 创建分类。
// 显式创建重名分类时向调用方报告冲突，
// 与导入路径的静默get-or-create语义不同。
func (s *CategoryService) CreateCategory(userID uint, req *dto.CategoryRequest) (*dto.CategoryResponse, error) {
	color := req.Color
	if color == "" {
		color = models.DefaultCategoryColor
	}

	category := &models.Category{
		Name:   req.Name,
		Color:  color,
		UserID: userID,
	}

	if err := s.categoryRepo.Create(category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateCategory
		}
		return nil, err
	}

	resp := dto.NewCategoryResponse(category)
	return &resp, nil
}

// UpdateCategory 编辑分类
func (s *CategoryService) UpdateCategory(categoryID uint, userID uint, req *dto.CategoryRequest) (*dto.CategoryResponse, error) {
	category, err := s.categoryRepo.GetByIDAndUserID(categoryID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	category.Name = req.Name
	if req.Color != "" {
		category.Color = req.Color
	}

	if err := s.categoryRepo.Update(category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateCategory
		}
		return nil, err
	}

	resp := dto.NewCategoryResponse(category)
	return &resp, nil
}

// DeleteCategory 删除分类，关联任务的分类引用置空
func (s *CategoryService) DeleteCategory(categoryID uint, userID uint) error {
	category, err := s.categoryRepo.GetByIDAndUserID(categoryID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	return s.categoryRepo.Delete(category)
}
