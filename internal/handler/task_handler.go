package handler

import (
	"errors"
	"io"
	"strconv"

	"task-go/internal/dto"
	"task-go/internal/middleware"
	"task-go/internal/service"
	"task-go/internal/utils"
	"task-go/pkg/importlimit"

	"github.com/gin-gonic/gin"
)

// TaskHandler 任务处理器
type TaskHandler struct {
	taskService   *service.TaskService
	importService *service.ImportService
	exportService *service.ExportService
	importLimiter *importlimit.Limiter
	overdueDays   int
}

// NewTaskHandler 创建任务处理器
func NewTaskHandler(
	taskService *service.TaskService,
	importService *service.ImportService,
	exportService *service.ExportService,
	importLimiter *importlimit.Limiter,
	overdueDays int,
) *TaskHandler {
	return &TaskHandler{
		taskService:   taskService,
		importService: importService,
		exportService: exportService,
		importLimiter: importLimiter,
		overdueDays:   overdueDays,
	}
}

// ListTasks 获取未归档任务列表
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	tasks, err := h.taskService.ListTasks(userID)
	if err != nil {
		utils.InternalError(c, err.Error())
		return
	}

	utils.SuccessResponse(c, tasks)
}

// GetTask 获取任务详情
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	taskID, _ := strconv.ParseUint(c.Param("task_id"), 10, 32)

	task, err := h.taskService.GetTask(uint(taskID), userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			utils.NotFound(c, "tarefa não encontrada")
			return
		}
		utils.InternalError(c, err.Error())
		return
	}

	utils.SuccessResponse(c, task)
}

// CreateTask 创建任务
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req dto.TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.CreateTask(userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			utils.NotFound(c, "categoria não encontrada")
			return
		}
		utils.InternalError(c, err.Error())
		return
	}

	utils.SuccessWithMessage(c, "任务已创建", task)
}

// UpdateTask 编辑任务
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	taskID, _ := strconv.ParseUint(c.Param("task_id"), 10, 32)

	var req dto.TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.UpdateTask(uint(taskID), userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			utils.NotFound(c, "tarefa não encontrada")
			return
		}
		utils.InternalError(c, err.Error())
		return
	}

	utils.SuccessWithMessage(c, "任务已更新", task)
}

// DeleteTask 删除任务
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	taskID, _ := strconv.ParseUint(c.Param("task_id"), 10, 32)

	if err := h.taskService.DeleteTask(uint(taskID), userID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			utils.NotFound(c, "tarefa não encontrada")
			return
		}
		utils.InternalError(c, err.Error())
		return
	}

	utils.SuccessWithMessage(c, "任务已删除", gin.H{"success": true})
}

// ToggleStep 切换步骤完成标记并返回重新推导的任务状态
func (h *TaskHandler) ToggleStep(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	stepID, _ := strconv.ParseUint(c.Param("step_id"), 10, 32)

	resp, err := h.taskService.ToggleStep(uint(stepID), userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			utils.NotFound(c, "etapa não encontrada")
			return
		}
		utils.InternalError(c, err.Error())
		return
	}

	// 响应体是前端依赖的固定格式，不走统一包装
	c.JSON(200, resp)
}

// ToggleStepWrongMethod 非POST访问切换端点，返回结构化405
func (h *TaskHandler) ToggleStepWrongMethod(c *gin.Context) {
	utils.MethodNotAllowed(c, "use POST para alternar etapas")
}

// ArchiveTask 归档任务
func (h *TaskHandler) ArchiveTask(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	taskID, _ := strconv.ParseUint(c.Param("task_id"), 10, 32)

	if err := h.taskService.ArchiveTask(uint(taskID), userID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			utils.NotFound(c, "tarefa não encontrada")
			return
		}
		if errors.Is(err, service.ErrNotDone) {
			utils.BadRequest(c, err.Error())
			return
		}
		utils.InternalError(c, err.Error())
		return
	}

	utils.SuccessWithMessage(c, "任务已归档", gin.H{"success": true})
}

// ListArchived 获取归档任务列表
func (h *TaskHandler) ListArchived(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	tasks, err := h.taskService.ListArchived(userID)
	if err != nil {
		utils.InternalError(c, err.Error())
		return
	}

	utils.SuccessResponse(c, tasks)
}

// ExportArchived 导出归档任务为CSV附件
func (h *TaskHandler) ExportArchived(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	data, err := h.exportService.ExportArchived(userID)
	if err != nil {
		utils.InternalError(c, err.Error())
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+service.ExportFilename+`"`)
	c.Data(200, "text/csv", data)
}

// ImportTasks 上传CSV并导入任务
func (h *TaskHandler) ImportTasks(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	file, err := c.FormFile("arquivo_csv")
	if err != nil {
		utils.BadRequest(c, "文件上传失败: "+err.Error())
		return
	}

	// 同一用户同时只允许一个导入在处理
	if err := h.importLimiter.Acquire(c.Request.Context(), userID); err != nil {
		if errors.Is(err, importlimit.ErrLimitReached) {
			utils.Conflict(c, "já existe uma importação em andamento")
			return
		}
		utils.InternalError(c, err.Error())
		return
	}
	defer h.importLimiter.Release(c.Request.Context(), userID)

	src, err := file.Open()
	if err != nil {
		utils.BadRequest(c, "打开文件失败: "+err.Error())
		return
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		utils.BadRequest(c, "读取文件失败: "+err.Error())
		return
	}

	result, err := h.importService.ImportTasks(userID, file.Filename, content)
	if err != nil {
		if errors.Is(err, service.ErrNotCSV) || errors.Is(err, service.ErrNotUTF8) {
			utils.BadRequest(c, err.Error())
			return
		}
		utils.InternalError(c, err.Error())
		return
	}

	utils.SuccessWithMessage(c, result.Message, result)
}

// Dashboard 仪表盘统计
func (h *TaskHandler) Dashboard(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	counts, err := h.taskService.Dashboard(userID)
	if err != nil {
		utils.InternalError(c, err.Error())
		return
	}

	utils.SuccessResponse(c, counts)
}

// ListOverdue 获取逾期任务，默认阈值沿用提醒配置
func (h *TaskHandler) ListOverdue(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	days, err := strconv.Atoi(c.DefaultQuery("days", strconv.Itoa(h.overdueDays)))
	if err != nil || days < 0 {
		utils.BadRequest(c, "days 参数无效")
		return
	}

	tasks, err := h.taskService.ListOverdue(userID, days)
	if err != nil {
		utils.InternalError(c, err.Error())
		return
	}

	utils.SuccessResponse(c, tasks)
}
