package models

import (
	"time"
)

// Status 任务状态，闭合枚举
type Status string

const (
	// StatusNotStarted 未开始
	StatusNotStarted Status = "nao_iniciado"
	// StatusInProgress 进行中
	StatusInProgress Status = "em_andamento"
	// StatusDone 已完成
	StatusDone Status = "concluida"
)

// statusLabels 状态的展示文案，沿用既有数据契约（葡萄牙语）
var statusLabels = map[Status]string{
	StatusNotStarted: "Não Iniciado",
	StatusInProgress: "Em Andamento",
	StatusDone:       "Concluída",
}

// Label 返回状态的展示文案
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// IsValid 判断是否为合法状态码
func (s Status) IsValid() bool {
	_, ok := statusLabels[s]
	return ok
}

// DeriveStatus 根据步骤完成情况推导任务状态。
// 规则（按优先级）：
//  1. 没有步骤时保持当前状态不变；
//  2. 全部完成 -> concluida；
//  3. 至少一个完成 -> em_andamento；
//  4. 一个都没完成 -> nao_iniciado。
//
// 纯函数，不依赖持久层，便于单独测试。
func DeriveStatus(current Status, steps []Step) Status {
	if len(steps) == 0 {
		return current
	}

	done := 0
	for _, step := range steps {
		if step.Done {
			done++
		}
	}

	switch {
	case done == len(steps):
		return StatusDone
	case done > 0:
		return StatusInProgress
	default:
		return StatusNotStarted
	}
}

// Task 任务模型
type Task struct {
	ID             uint       `gorm:"primarykey" json:"id"`
	Title          string     `gorm:"size:255;not null" json:"titulo"`
	Description    string     `gorm:"type:text" json:"descricao"`
	StartDate      *time.Time `gorm:"column:data_inicio;type:date" json:"data_inicio"`
	DueDate        *time.Time `gorm:"column:data_conclusao;type:date" json:"data_conclusao"`
	Status         Status     `gorm:"size:20;default:'nao_iniciado'" json:"status"`
	IsCurrentFocus bool       `gorm:"default:false" json:"is_foco_atual"`
	Archived       bool       `gorm:"default:false" json:"arquivada"`
	UserID         uint       `gorm:"not null;index" json:"user_id"`
	CategoryID     *uint      `gorm:"index" json:"categoria_id"`
	CreatedAt      time.Time  `json:"criada_em"`
	UpdatedAt      time.Time  `json:"atualizada_em"`

	// 关联
	Category       *Category       `gorm:"foreignKey:CategoryID" json:"categoria,omitempty"`
	Steps          []Step          `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"etapas,omitempty"`
	KnowledgeNotes []KnowledgeNote `gorm:"many2many:tarefa_conhecimentos" json:"conhecimentos,omitempty"`
}

// TableName 指定表名
func (Task) TableName() string {
	return "tarefas"
}

// Progress 任务进度统计
type Progress struct {
	Total   int `json:"total"`
	Done    int `json:"feitas"`
	Percent int `json:"porcentagem"`
}

// GetProgress 统计任务的步骤完成进度
func (t *Task) GetProgress() Progress {
	total := len(t.Steps)
	if total == 0 {
		return Progress{}
	}

	done := 0
	for _, step := range t.Steps {
		if step.Done {
			done++
		}
	}

	return Progress{
		Total:   total,
		Done:    done,
		Percent: done * 100 / total,
	}
}

// Step 任务的清单步骤，随任务级联删除
type Step struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	Description string `gorm:"size:255;not null" json:"descricao"`
	Done        bool   `gorm:"default:false" json:"concluida"`
	// 同一任务内按 Order 排序，允许重复，重复时按 ID 稳定排序
	Order  int  `gorm:"column:ordem;default:0" json:"ordem"`
	TaskID uint `gorm:"not null;index" json:"tarefa_id"`
}

// TableName 指定表名
func (Step) TableName() string {
	return "etapas"
}
