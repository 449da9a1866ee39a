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

// CategoryHandler 分类处理器
type CategoryHandler struct {
	categoryService *service.CategoryService
}

// NewCategoryHandler 创建分类处理器
func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
	}
}

// ListCategories 分页获取分类列表
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "6"))

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 6
	}

	categories, total, err := h.categoryService.ListCategories(userID, page, perPage)
	if err != nil {
		utils.InternalError(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, categories, total, page, perPage)
}

// GetCategory 获取分类详情及其任务
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	categoryID, _ := strconv.ParseUint(c.Param("category_id"), 10, 32)

	detail, err := h.categoryService.GetCategoryDetail(uint(categoryID), userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			utils.NotFound(c, "categoria não encontrada")
			return
		}
		if errors.Is(err, service.ErrForbidden) {
			utils.Forbidden(c, err.Error())
			return
		}
		utils.InternalError(c, err.Error())
		return
	}

	utils.SuccessResponse(c, detail)
}

// CreateCategory 创建分类
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	category, err := h.categoryService.CreateCategory(userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateCategory) {
			utils.Conflict(c, err.Error())
			return
		}
		utils.InternalError(c, err.Error())
		return
	}

	utils.SuccessWithMessage(c, "分类已创建", category)
}

// UpdateCategory 编辑分类
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	categoryID, _ := strconv.ParseUint(c.Param("category_id"), 10, 32)

	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	category, err := h.categoryService.UpdateCategory(uint(categoryID), userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			utils.NotFound(c, "categoria não encontrada")
			return
		}
		if errors.Is(err, service.ErrDuplicateCategory) {
			utils.Conflict(c, err.Error())
			return
		}
		utils.InternalError(c, err.Error())
		return
	}

	utils.SuccessWithMessage(c, "分类已更新", category)
}

// DeleteCategory 删除分类
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	categoryID, _ := strconv.ParseUint(c.Param("category_id"), 10, 32)

	if err := h.categoryService.DeleteCategory(uint(categoryID), userID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			utils.NotFound(c, "categoria não encontrada")
			return
		}
		utils.InternalError(c, err.Error())
		return
	}

	utils.SuccessWithMessage(c, "分类已删除", gin.H{"success": true})
}
