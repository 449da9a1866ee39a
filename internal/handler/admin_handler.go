package handler

import (
	"strconv"

	"task-go/internal/dto"
	"task-go/internal/repository"
	"task-go/internal/service"
	"task-go/internal/utils"

	"github.com/gin-gonic/gin"
)

// AdminHandler 管理员处理器
type AdminHandler struct {
	userRepo        *repository.UserRepository
	taskRepo        *repository.TaskRepository
	reminderService *service.ReminderService
}

// NewAdminHandler 创建管理员处理器
func NewAdminHandler(
	userRepo *repository.UserRepository,
	taskRepo *repository.TaskRepository,
	reminderService *service.ReminderService,
) *AdminHandler {
	return &AdminHandler{
		userRepo:        userRepo,
		taskRepo:        taskRepo,
		reminderService: reminderService,
	}
}

// ListUsers 获取所有用户
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	users, total, err := h.userRepo.List(offset, perPage)
	if err != nil {
		utils.InternalError(c, err.Error())
		return
	}

	infos := make([]dto.UserInfo, 0, len(users))
	for i := range users {
		user := &users[i]
		infos = append(infos, dto.UserInfo{
			ID:       user.ID,
			Email:    user.Email,
			Name:     user.Name,
			IsActive: user.IsActive,
			IsStaff:  user.IsStaff,
			IsAdmin:  user.IsAdmin,
		})
	}

	utils.PaginatedResponse(c, infos, total, page, perPage)
}

// DeleteUser 删除用户及其全部数据
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)

	if err := h.userRepo.Delete(uint(id)); err != nil {
		utils.InternalError(c, err.Error())
		return
	}

	utils.SuccessWithMessage(c, "用户已删除", gin.H{"success": true})
}

// ListAllTasks 获取所有用户的任务
func (h *AdminHandler) ListAllTasks(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	tasks, total, err := h.taskRepo.ListAll(offset, perPage)
	if err != nil {
		utils.InternalError(c, err.Error())
		return
	}

	responses := make([]dto.TaskResponse, 0, len(tasks))
	for i := range tasks {
		responses = append(responses, dto.NewTaskResponse(&tasks[i]))
	}

	utils.PaginatedResponse(c, responses, total, page, perPage)
}

// RunReminder 手动触发一次逾期任务扫描
func (h *AdminHandler) RunReminder(c *gin.Context) {
	if err := h.reminderService.RunOnce(); err != nil {
		utils.InternalError(c, err.Error())
		return
	}

	utils.SuccessWithMessage(c, "扫描已执行", gin.H{"success": true})
}
