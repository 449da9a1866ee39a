package repository

import (
	"task-go/internal/models"

	"gorm.io/gorm"
)

// KnowledgeRepository 知识库数据访问层
type KnowledgeRepository struct {
	db *gorm.DB
}

// NewKnowledgeRepository 创建知识库Repository
func NewKnowledgeRepository(db *gorm.DB) *KnowledgeRepository {
	return &KnowledgeRepository{db: db}
}

// Create 创建知识条目
func (r *KnowledgeRepository) Create(note *models.KnowledgeNote) error {
	return r.db.Create(note).Error
}

// GetByIDAndUserID 按ID和属主获取知识条目
func (r *KnowledgeRepository) GetByIDAndUserID(id uint, userID uint) (*models.KnowledgeNote, error) {
	var note models.KnowledgeNote
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&note).Error
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// GetByIDsAndUserID 批量获取属主的知识条目（任务关联校验用）
func (r *KnowledgeRepository) GetByIDsAndUserID(ids []uint, userID uint) ([]models.KnowledgeNote, error) {
	var notes []models.KnowledgeNote
	err := r.db.Where("id IN ? AND user_id = ?", ids, userID).Find(&notes).Error
	return notes, err
}

// Update 更新知识条目
func (r *KnowledgeRepository) Update(note *models.KnowledgeNote) error {
	return r.db.Save(note).Error
}

// Delete 删除知识条目
func (r *KnowledgeRepository) Delete(note *models.KnowledgeNote) error {
	return r.db.Delete(note).Error
}

// ListByUserID 分页获取用户的知识条目
func (r *KnowledgeRepository) ListByUserID(userID uint, offset, limit int) ([]models.KnowledgeNote, int64, error) {
	var notes []models.KnowledgeNote
	var total int64

	query := r.db.Model(&models.KnowledgeNote{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&notes).Error
	return notes, total, err
}
