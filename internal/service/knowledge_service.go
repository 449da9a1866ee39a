package service

import (
	"errors"

	"task-go/internal/dto"
	"task-go/internal/models"
	"task-go/internal/repository"

	"gorm.io/gorm"
)

// KnowledgeService 知识库业务逻辑
type KnowledgeService struct {
	knowledgeRepo *repository.KnowledgeRepository
}

// NewKnowledgeService 创建知识库服务
func NewKnowledgeService(knowledgeRepo *repository.KnowledgeRepository) *KnowledgeService {
	return &KnowledgeService{knowledgeRepo: knowledgeRepo}
}

// ListNotes 分页获取用户的知识条目
func (s *KnowledgeService) ListNotes(userID uint, page, perPage int) ([]dto.KnowledgeNoteResponse, int64, error) {
	offset := (page - 1) * perPage
	notes, total, err := s.knowledgeRepo.ListByUserID(userID, offset, perPage)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]dto.KnowledgeNoteResponse, len(notes))
	for i := range notes {
		responses[i] = dto.NewKnowledgeNoteResponse(&notes[i])
	}
	return responses, total, nil
}

// GetNote 获取知识条目
func (s *KnowledgeService) GetNote(noteID uint, userID uint) (*dto.KnowledgeNoteResponse, error) {
	note, err := s.knowledgeRepo.GetByIDAndUserID(noteID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	resp := dto.NewKnowledgeNoteResponse(note)
	return &resp, nil
}

// CreateNote 创建知识条目
func (s *KnowledgeService) CreateNote(userID uint, req *dto.KnowledgeNoteRequest) (*dto.KnowledgeNoteResponse, error) {
	note := &models.KnowledgeNote{
		Title:   req.Title,
		Content: req.Content,
		UserID:  userID,
	}

	if err := s.knowledgeRepo.Create(note); err != nil {
		return nil, err
	}

	resp := dto.NewKnowledgeNoteResponse(note)
	return &resp, nil
}

// UpdateNote 编辑知识条目
func (s *KnowledgeService) UpdateNote(noteID uint, userID uint, req *dto.KnowledgeNoteRequest) (*dto.KnowledgeNoteResponse, error) {
	note, err := s.knowledgeRepo.GetByIDAndUserID(noteID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	note.Title = req.Title
	note.Content = req.Content

	if err := s.knowledgeRepo.Update(note); err != nil {
		return nil, err
	}

	resp := dto.NewKnowledgeNoteResponse(note)
	return &resp, nil
}

// DeleteNote 删除知识条目
func (s *KnowledgeService) DeleteNote(noteID uint, userID uint) error {
	note, err := s.knowledgeRepo.GetByIDAndUserID(noteID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	return s.knowledgeRepo.Delete(note)
}
