package models

import (
	"time"
)

// DefaultCategoryColor 分类默认颜色
const DefaultCategoryColor = "#000000"

// Category 任务分类模型，(名称, 用户)组合唯一
type Category struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex:idx_categoria_nome_usuario" json:"nome"`
	Color     string    `gorm:"size:7;default:'#000000'" json:"cor"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_categoria_nome_usuario" json:"user_id"`
	CreatedAt time.Time `json:"criado_em"`

	// 关联：删除分类时任务的分类引用置空，不级联删除任务
	Tasks []Task `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"tasks,omitempty"`
}

// TableName 指定表名
func (Category) TableName() string {
	return "categorias_de_tarefa"
}
