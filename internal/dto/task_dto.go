package dto

import (
	"time"

	"task-go/internal/models"
)

// DateLayout 接口日期格式（仅日期）
const DateLayout = "2006-01-02"

// StepRequest 步骤请求
type StepRequest struct {
	Description string `json:"descricao" binding:"required,max=255"`
	Done        bool   `json:"concluida"`
}

// TaskRequest 创建/编辑任务请求。
// Etapas 为整体替换语义：提交的集合取代任务当前的全部步骤。
type TaskRequest struct {
	Title            string        `json:"titulo" binding:"required,max=255"`
	Description      string        `json:"descricao"`
	StartDate        string        `json:"data_inicio" binding:"omitempty,datetime=2006-01-02"`
	DueDate          string        `json:"data_conclusao" binding:"omitempty,datetime=2006-01-02"`
	Status           string        `json:"status" binding:"omitempty,taskstatus"`
	IsCurrentFocus   bool          `json:"is_foco_atual"`
	CategoryID       *uint         `json:"categoria_id"`
	Steps            []StepRequest `json:"etapas" binding:"omitempty,dive"`
	KnowledgeNoteIDs []uint        `json:"conhecimento_ids"`
}

// StepResponse 步骤响应
type StepResponse struct {
	ID          uint   `json:"id"`
	Description string `json:"descricao"`
	Done        bool   `json:"concluida"`
	Order       int    `json:"ordem"`
}

// TaskResponse 任务响应
type TaskResponse struct {
	ID             uint                    `json:"id"`
	Title          string                  `json:"titulo"`
	Description    string                  `json:"descricao"`
	StartDate      string                  `json:"data_inicio,omitempty"`
	DueDate        string                  `json:"data_conclusao,omitempty"`
	Status         string                  `json:"status"`
	StatusLabel    string                  `json:"status_label"`
	IsCurrentFocus bool                    `json:"is_foco_atual"`
	Archived       bool                    `json:"arquivada"`
	Category       *CategoryResponse       `json:"categoria,omitempty"`
	Progress       models.Progress         `json:"progresso"`
	Steps          []StepResponse          `json:"etapas"`
	KnowledgeNotes []KnowledgeNoteResponse `json:"conhecimentos,omitempty"`
	CreatedAt      string                  `json:"criada_em"`
	UpdatedAt      string                  `json:"atualizada_em"`
}

// NewTaskResponse 由模型构建任务响应
func NewTaskResponse(task *models.Task) TaskResponse {
	resp := TaskResponse{
		ID:             task.ID,
		Title:          task.Title,
		Description:    task.Description,
		Status:         string(task.Status),
		StatusLabel:    task.Status.Label(),
		IsCurrentFocus: task.IsCurrentFocus,
		Archived:       task.Archived,
		Progress:       task.GetProgress(),
		Steps:          make([]StepResponse, 0, len(task.Steps)),
		CreatedAt:      task.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:      task.UpdatedAt.Format("2006-01-02 15:04:05"),
	}

	if task.StartDate != nil {
		resp.StartDate = task.StartDate.Format(DateLayout)
	}
	if task.DueDate != nil {
		resp.DueDate = task.DueDate.Format(DateLayout)
	}
	if task.Category != nil {
		cat := NewCategoryResponse(task.Category)
		resp.Category = &cat
	}
	for _, step := range task.Steps {
		resp.Steps = append(resp.Steps, StepResponse{
			ID:          step.ID,
			Description: step.Description,
			Done:        step.Done,
			Order:       step.Order,
		})
	}
	for _, note := range task.KnowledgeNotes {
		resp.KnowledgeNotes = append(resp.KnowledgeNotes, NewKnowledgeNoteResponse(&note))
	}

	return resp
}

// ToggleStepResponse 步骤切换响应，字段名沿用既有前端契约
type ToggleStepResponse struct {
	Status         string `json:"status"`
	StepDone       bool   `json:"etapa_concluida"`
	TaskStatus     string `json:"tarefa_status"`
	TaskStatusCode string `json:"tarefa_status_code"`
	TaskID         uint   `json:"tarefa_id"`
}

// RowError 导入时单行被拒绝的原因
type RowError struct {
	Line   int    `json:"linha"`
	Field  string `json:"campo"`
	Reason string `json:"motivo"`
}

// ImportResultResponse CSV导入结果
type ImportResultResponse struct {
	Created   int        `json:"created"`
	RowErrors []RowError `json:"row_errors"`
	Message   string     `json:"message"`
}

// ParseDatePtr 解析接口日期字符串，空串返回nil
func ParseDatePtr(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return nil
	}
	return &t
}
