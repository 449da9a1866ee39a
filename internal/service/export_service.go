package service

import (
	"bytes"
	"encoding/csv"

	"task-go/internal/repository"
)

// ExportFilename 归档任务导出的固定文件名
const ExportFilename = "tarefas_arquivadas.csv"

// exportHeader 导出列头，列序和文案是对外契约的一部分，
// 已有脚本依赖该格式消费导出文件，不要改动。
var exportHeader = []string{"Título", "Descrição", "Data de Conclusão", "Categoria"}

// noCategoryLabel 无分类任务在导出文件中的占位文案
const noCategoryLabel = "Sem Categoria"

// ExportService 归档任务CSV导出
type ExportService struct {
	taskRepo *repository.TaskRepository
}

// NewExportService 创建导出服务
func NewExportService(taskRepo *repository.TaskRepository) *ExportService {
	return &ExportService{taskRepo: taskRepo}
}

// ExportArchived 导出用户的归档任务为CSV字节流
func (s *ExportService) ExportArchived(userID uint) ([]byte, error) {
	tasks, err := s.taskRepo.ListArchivedByUserID(userID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(exportHeader); err != nil {
		return nil, err
	}

	for i := range tasks {
		task := &tasks[i]

		category := noCategoryLabel
		if task.Category != nil {
			category = task.Category.Name
		}

		record := []string{
			task.Title,
			task.Description,
			task.UpdatedAt.Format("02/01/2006 15:04"),
			category,
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
