package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"task-go/internal/dto"
	"task-go/internal/middleware"
	"task-go/internal/models"
	"task-go/internal/repository"

	"github.com/sirupsen/logrus"
)

// 导入文件级失败，整个文件不导入
var (
	// ErrNotCSV 扩展名不是 .csv（大小写敏感，沿用既有契约）
	ErrNotCSV = errors.New("o arquivo deve ser um CSV (.csv)")
	// ErrNotUTF8 文件不是合法的UTF-8文本
	ErrNotUTF8 = errors.New("erro de codificação no arquivo, esperado CSV UTF-8")
)

// importDateLayouts 日期解析格式，按顺序尝试，第一个成功的生效
var importDateLayouts = []string{"02-01-2006", "02/01/2006", "2006-01-02"}

// ImportService CSV任务导入。
// 解析管线：分隔符探测 -> 表头归一化 -> 逐行解析 -> 校验落库，
// 单行失败只拒绝该行并记录原因，不影响批次内其他行。
type ImportService struct {
	taskRepo     *repository.TaskRepository
	categoryRepo *repository.CategoryRepository
	logger       *logrus.Logger
}

// NewImportService 创建导入服务
func NewImportService(
	taskRepo *repository.TaskRepository,
	categoryRepo *repository.CategoryRepository,
	logger *logrus.Logger,
) *ImportService {
	return &ImportService{
		taskRepo:     taskRepo,
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

// taskRow 一行解析出的候选任务
type taskRow struct {
	title       string
	description string
	startDate   *time.Time
	dueDate     *time.Time
	status      models.Status
	category    string
	steps       []string
}

// ImportTasks 把上传的CSV文件导入为当前用户的任务。
// 文件级失败（扩展名、编码）返回错误且不导入任何行；
// 行级失败累积在结果的 RowErrors 中。
func (s *ImportService) ImportTasks(userID uint, filename string, content []byte) (*dto.ImportResultResponse, error) {
	if !strings.HasSuffix(filename, ".csv") {
		return nil, ErrNotCSV
	}

	if !utf8.Valid(content) {
		return nil, ErrNotUTF8
	}

	text := string(content)
	lines := splitLines(text)
	if len(lines) == 0 {
		return &dto.ImportResultResponse{
			Created:   0,
			RowErrors: []dto.RowError{},
			Message:   "o arquivo está vazio",
		}, nil
	}

	delimiter := detectDelimiter(lines[0])

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("ler cabeçalho: %w", err)
	}
	header = normalizeHeader(header)

	result := &dto.ImportResultResponse{RowErrors: []dto.RowError{}}

	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// 引号等语法错误只拒绝当前行，继续处理后续行
			result.RowErrors = append(result.RowErrors, dto.RowError{
				Line:   line,
				Reason: err.Error(),
			})
			middleware.CountImportRow("rejected")
			continue
		}

		row, rowErr := parseRow(header, record, line)
		if rowErr != nil {
			result.RowErrors = append(result.RowErrors, *rowErr)
			middleware.CountImportRow("rejected")
			continue
		}

		if err := s.createTask(userID, row); err != nil {
			result.RowErrors = append(result.RowErrors, dto.RowError{
				Line:   line,
				Field:  "",
				Reason: err.Error(),
			})
			middleware.CountImportRow("rejected")
			continue
		}

		result.Created++
		middleware.CountImportRow("created")
	}

	if result.Created > 0 {
		result.Message = fmt.Sprintf("%d tarefas importadas com sucesso", result.Created)
	} else {
		result.Message = "nenhuma tarefa foi importada, verifique o formato do arquivo (cabeçalhos)"
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":  userID,
		"filename": filename,
		"created":  result.Created,
		"rejected": len(result.RowErrors),
	}).Info("CSV导入完成")

	return result, nil
}

// createTask 落库一行：分类get-or-create、任务、步骤
func (s *ImportService) createTask(userID uint, row *taskRow) error {
	task := &models.Task{
		Title:       row.title,
		Description: row.description,
		StartDate:   row.startDate,
		DueDate:     row.dueDate,
		Status:      row.status,
		UserID:      userID,
	}

	if row.category != "" {
		category, err := s.categoryRepo.GetOrCreate(row.category, models.DefaultCategoryColor, userID)
		if err != nil {
			return fmt.Errorf("resolver categoria: %w", err)
		}
		task.CategoryID = &category.ID
	}

	for i, description := range row.steps {
		task.Steps = append(task.Steps, models.Step{
			Description: description,
			Order:       i,
		})
	}

	return s.taskRepo.Create(task)
}

// splitLines 按行拆分，过滤尾部空行
func splitLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// detectDelimiter 分隔符探测：只看第一行，含分号用分号，否则用逗号。
// 已知局限：逗号分隔文件的标题里含分号会误判，按契约保留该行为。
func detectDelimiter(firstLine string) rune {
	if strings.Contains(firstLine, ";") {
		return ';'
	}
	return ','
}

// normalizeHeader 归一化表头：去BOM、去首尾空白
func normalizeHeader(header []string) []string {
	normalized := make([]string, len(header))
	for i, name := range header {
		name = strings.TrimPrefix(name, "\uFEFF")
		normalized[i] = strings.TrimSpace(name)
	}
	return normalized
}

// parseRow 把一条记录解析为候选任务，返回行级拒绝原因
func parseRow(header []string, record []string, line int) (*taskRow, *dto.RowError) {
	fields := make(map[string]string, len(header))
	for i, name := range header {
		if i < len(record) {
			fields[name] = record[i]
		}
	}

	title, ok := fields["titulo"]
	if !ok {
		return nil, &dto.RowError{Line: line, Field: "titulo", Reason: "coluna ausente"}
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, &dto.RowError{Line: line, Field: "titulo", Reason: "valor vazio"}
	}

	row := &taskRow{
		title:       title,
		description: strings.TrimSpace(fields["descricao"]),
		startDate:   parseImportDate(fields["data_inicio"]),
		dueDate:     parseImportDate(fields["data_conclusao"]),
		status:      coerceStatus(fields["status"]),
		category:    strings.TrimSpace(fields["categoria"]),
		steps:       parseSteps(fields["etapas"]),
	}

	return row, nil
}

// parseImportDate 逐个尝试支持的日期格式，都不匹配视为无日期
func parseImportDate(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	for _, layout := range importDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}

// coerceStatus 非法或缺失的状态一律回落为未开始，不拒绝该行
func coerceStatus(value string) models.Status {
	status := models.Status(strings.TrimSpace(value))
	if !status.IsValid() {
		return models.StatusNotStarted
	}
	return status
}

// parseSteps 按竖线拆分步骤描述，空段丢弃。
// 顺序号是过滤后的下标，空段不会在序列里留下空洞。
func parseSteps(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	segments := strings.Split(value, "|")
	steps := make([]string, 0, len(segments))
	for _, segment := range segments {
		if description := strings.TrimSpace(segment); description != "" {
			steps = append(steps, description)
		}
	}
	return steps
}
