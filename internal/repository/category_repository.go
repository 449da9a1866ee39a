package repository

import (
	"task-go/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CategoryRepository 分类数据访问层
type CategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类Repository
func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create 创建分类，(名称, 用户)重复时返回 gorm.ErrDuplicatedKey
func (r *CategoryRepository) Create(category *models.Category) error {
	return r.db.Create(category).Error
}

// GetByID 按ID获取分类（不限属主，调用方负责权限判定）
func (r *CategoryRepository) GetByID(id uint) (*models.Category, error) {
	var category models.Category
	err := r.db.First(&category, id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// GetByIDAndUserID 按ID和属主获取分类
func (r *CategoryRepository) GetByIDAndUserID(id uint, userID uint) (*models.Category, error) {
	var category models.Category
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// GetByNameAndUserID 按名称和属主获取分类
func (r *CategoryRepository) GetByNameAndUserID(name string, userID uint) (*models.Category, error) {
	var category models.Category
	err := r.db.Where("name = ? AND user_id = ?", name, userID).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// GetOrCreate 获取或创建分类。
// 采用"冲突时不插入+回读"的写法而不是先查后插，
// 并发导入同名分类时唯一约束冲突被吸收，不向上抛错。
func (r *CategoryRepository) GetOrCreate(name string, color string, userID uint) (*models.Category, error) {
	category := models.Category{
		Name:   name,
		Color:  color,
		UserID: userID,
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(&category).Error
	if err != nil {
		return nil, err
	}

	// DoNothing 命中冲突时不回填ID，统一回读保证拿到已存在的行
	return r.GetByNameAndUserID(name, userID)
}

// Update 更新分类
func (r *CategoryRepository) Update(category *models.Category) error {
	return r.db.Save(category).Error
}

// Delete 删除分类，关联任务的分类引用置空
func (r *CategoryRepository) Delete(category *models.Category) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Task{}).
			Where("category_id = ?", category.ID).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(category).Error
	})
}

// ListByUserID 分页获取用户的分类，按创建时间排序
func (r *CategoryRepository) ListByUserID(userID uint, offset, limit int) ([]models.Category, int64, error) {
	var categories []models.Category
	var total int64

	query := r.db.Model(&models.Category{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at ASC").Offset(offset).Limit(limit).Find(&categories).Error
	return categories, total, err
}
