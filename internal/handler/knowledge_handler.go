package handler

import (
	"errors"
	"strconv"

	"task-go/internal/dto"
	"task-go/internal/middleware"
	"task-go/internal/service"
	"task-go/internal/utils"

	"github.com/gin-gonic/gin"
)

// KnowledgeHandler 知识库处理器
type KnowledgeHandler struct {
	knowledgeService *service.KnowledgeService
}

// NewKnowledgeHandler 创建知识库处理器
func NewKnowledgeHandler(knowledgeService *service.KnowledgeService) *KnowledgeHandler {
	return &KnowledgeHandler{
		knowledgeService: knowledgeService,
	}
}

// ListNotes 分页获取知识条目
func (h *KnowledgeHandler) ListNotes(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	notes, total, err := h.knowledgeService.ListNotes(userID, page, perPage)
	if err != nil {
		utils.InternalError(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, notes, total, page, perPage)
}

// GetNote 获取知识条目
func (h *KnowledgeHandler) GetNote(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	noteID, _ := strconv.ParseUint(c.Param("note_id"), 10, 32)

	note, err := h.knowledgeService.GetNote(uint(noteID), userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			utils.NotFound(c, "conhecimento não encontrado")
			return
		}
		utils.InternalError(c, err.Error())
		return
	}

	utils.SuccessResponse(c, note)
}

// CreateNote 创建知识条目
func (h *KnowledgeHandler) CreateNote(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req dto.KnowledgeNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	note, err := h.knowledgeService.CreateNote(userID, &req)
	if err != nil {
		utils.InternalError(c, err.Error())
		return
	}

	utils.SuccessWithMessage(c, "条目已创建", note)
}

// UpdateNote 编辑知识条目
func (h *KnowledgeHandler) UpdateNote(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	noteID, _ := strconv.ParseUint(c.Param("note_id"), 10, 32)

	var req dto.KnowledgeNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	note, err := h.knowledgeService.UpdateNote(uint(noteID), userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			utils.NotFound(c, "conhecimento não encontrado")
			return
		}
		utils.InternalError(c, err.Error())
		return
	}

	utils.SuccessWithMessage(c, "条目已更新", note)
}

// DeleteNote 删除知识条目
func (h *KnowledgeHandler) DeleteNote(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	noteID, _ := strconv.ParseUint(c.Param("note_id"), 10, 32)

	if err := h.knowledgeService.DeleteNote(uint(noteID), userID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			utils.NotFound(c, "conhecimento não encontrado")
			return
		}
		utils.InternalError(c, err.Error())
		return
	}

	utils.SuccessWithMessage(c, "条目已删除", gin.H{"success": true})
}
