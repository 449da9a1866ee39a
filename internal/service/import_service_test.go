package service

import (
	"errors"
	"testing"

	"task-go/internal/models"
	"task-go/internal/repository"

	"gorm.io/gorm"
)

func newTestImportService(db *gorm.DB) *ImportService {
	return NewImportService(
		repository.NewTaskRepository(db),
		repository.NewCategoryRepository(db),
		newTestLogger(),
	)
}

func TestImportTasksRejectsNonCSV(t *testing.T) {
	db := newTestDB(t)
	svc := newTestImportService(db)
	user := seedUser(t, db, "ext@teste.com")

	for _, filename := range []string{"tarefas.txt", "tarefas.CSV", "tarefas"} {
		_, err := svc.ImportTasks(user.ID, filename, []byte("titulo\nA"))
		if !errors.Is(err, ErrNotCSV) {
			t.Errorf("ImportTasks(%q) error = %v, want ErrNotCSV", filename, err)
		}
	}
}

func TestImportTasksRejectsInvalidUTF8(t *testing.T) {
	db := newTestDB(t)
	svc := newTestImportService(db)
	user := seedUser(t, db, "latin1@teste.com")

	// "título" em Latin-1
	content := []byte{0x74, 0xED, 0x74, 0x75, 0x6C, 0x6F}
	_, err := svc.ImportTasks(user.ID, "tarefas.csv", content)
	if !errors.Is(err, ErrNotUTF8) {
		t.Errorf("ImportTasks() error = %v, want ErrNotUTF8", err)
	}
}

func TestImportTasksEmptyFile(t *testing.T) {
	db := newTestDB(t)
	svc := newTestImportService(db)
	user := seedUser(t, db, "vazio@teste.com")

	result, err := svc.ImportTasks(user.ID, "tarefas.csv", []byte(""))
	if err != nil {
		t.Fatalf("ImportTasks() error = %v", err)
	}
	if result.Created != 0 {
		t.Errorf("Created = %d, want 0", result.Created)
	}
	if result.Message == "" {
		t.Error("空文件应返回提示消息")
	}
}

func TestImportTasksMinimalRow(t *testing.T) {
	db := newTestDB(t)
	svc := newTestImportService(db)
	user := seedUser(t, db, "minimo@teste.com")

	content := "titulo,status\nComprar leite,concluida\n"
	result, err := svc.ImportTasks(user.ID, "tarefas.csv", []byte(content))
	if err != nil {
		t.Fatalf("ImportTasks() error = %v", err)
	}
	if result.Created != 1 {
		t.Fatalf("Created = %d, want 1 (erros: %+v)", result.Created, result.RowErrors)
	}

	var task models.Task
	if err := db.Where("user_id = ?", user.ID).First(&task).Error; err != nil {
		t.Fatalf("读取导入任务失败: %v", err)
	}
	if task.Title != "Comprar leite" {
		t.Errorf("Title = %q, want %q", task.Title, "Comprar leite")
	}
	if task.Status != models.StatusDone {
		t.Errorf("Status = %q, want %q", task.Status, models.StatusDone)
	}
}

func TestImportTasksStepOrderSkipsBlankSegments(t *testing.T) {
	db := newTestDB(t)
	svc := newTestImportService(db)
	user := seedUser(t, db, "etapas@teste.com")

	content := "titulo,etapas\nProjeto,Etapa A| |Etapa B\n"
	result, err := svc.ImportTasks(user.ID, "tarefas.csv", []byte(content))
	if err != nil {
		t.Fatalf("ImportTasks() error = %v", err)
	}
	if result.Created != 1 {
		t.Fatalf("Created = %d, want 1 (erros: %+v)", result.Created, result.RowErrors)
	}

	var steps []models.Step
	if err := db.Joins("JOIN tarefas ON tarefas.id = etapas.task_id").
		Where("tarefas.user_id = ?", user.ID).
		Order("ordem ASC").Find(&steps).Error; err != nil {
		t.Fatalf("读取步骤失败: %v", err)
	}

	if len(steps) != 2 {
		t.Fatalf("步骤数量 = %d, want 2", len(steps))
	}
	// 空段丢弃后顺序号连续，不留空洞
	if steps[0].Description != "Etapa A" || steps[0].Order != 0 {
		t.Errorf("步骤0 = %q/%d, want Etapa A/0", steps[0].Description, steps[0].Order)
	}
	if steps[1].Description != "Etapa B" || steps[1].Order != 1 {
		t.Errorf("步骤1 = %q/%d, want Etapa B/1", steps[1].Description, steps[1].Order)
	}
}

func TestImportTasksSemicolonDelimiterAndBOM(t *testing.T) {
	db := newTestDB(t)
	svc := newTestImportService(db)
	user := seedUser(t, db, "bom@teste.com")

	content := "\uFEFFtitulo;categoria\nRelatório;Trabalho\n"
	result, err := svc.ImportTasks(user.ID, "tarefas.csv", []byte(content))
	if err != nil {
		t.Fatalf("ImportTasks() error = %v", err)
	}
	if result.Created != 1 {
		t.Fatalf("Created = %d, want 1 (erros: %+v)", result.Created, result.RowErrors)
	}

	var category models.Category
	if err := db.Where("user_id = ? AND name = ?", user.ID, "Trabalho").
		First(&category).Error; err != nil {
		t.Fatalf("分类未创建: %v", err)
	}
	if category.Color != models.DefaultCategoryColor {
		t.Errorf("Color = %q, want %q", category.Color, models.DefaultCategoryColor)
	}
}

func TestImportTasksReusesCategory(t *testing.T) {
	db := newTestDB(t)
	svc := newTestImportService(db)
	user := seedUser(t, db, "reuso@teste.com")

	content := "titulo,categoria\nTarefa 1,Casa\nTarefa 2,Casa\n"
	result, err := svc.ImportTasks(user.ID, "tarefas.csv", []byte(content))
	if err != nil {
		t.Fatalf("ImportTasks() error = %v", err)
	}
	if result.Created != 2 {
		t.Fatalf("Created = %d, want 2 (erros: %+v)", result.Created, result.RowErrors)
	}

	var count int64
	if err := db.Model(&models.Category{}).
		Where("user_id = ? AND name = ?", user.ID, "Casa").
		Count(&count).Error; err != nil {
		t.Fatalf("统计分类失败: %v", err)
	}
	if count != 1 {
		t.Errorf("同名分类数量 = %d, want 1", count)
	}
}

func TestImportTasksCollectsRowErrors(t *testing.T) {
	db := newTestDB(t)
	svc := newTestImportService(db)
	user := seedUser(t, db, "erros@teste.com")

	// 第二行缺标题，第三行正常
	content := "titulo,descricao\n ,sem titulo\nVálida,ok\n"
	result, err := svc.ImportTasks(user.ID, "tarefas.csv", []byte(content))
	if err != nil {
		t.Fatalf("ImportTasks() error = %v", err)
	}

	if result.Created != 1 {
		t.Errorf("Created = %d, want 1", result.Created)
	}
	if len(result.RowErrors) != 1 {
		t.Fatalf("RowErrors = %+v, want 1 erro", result.RowErrors)
	}
	rowErr := result.RowErrors[0]
	if rowErr.Line != 2 {
		t.Errorf("linha = %d, want 2", rowErr.Line)
	}
	if rowErr.Field != "titulo" {
		t.Errorf("campo = %q, want titulo", rowErr.Field)
	}
}

func TestDetectDelimiter(t *testing.T) {
	if got := detectDelimiter("titulo;descricao"); got != ';' {
		t.Errorf("detectDelimiter = %q, want ;", got)
	}
	if got := detectDelimiter("titulo,descricao"); got != ',' {
		t.Errorf("detectDelimiter = %q, want ,", got)
	}
	// 无分隔符时回落为逗号
	if got := detectDelimiter("titulo"); got != ',' {
		t.Errorf("detectDelimiter = %q, want ,", got)
	}
}

func TestCoerceStatus(t *testing.T) {
	tests := []struct {
		in   string
		want models.Status
	}{
		{"concluida", models.StatusDone},
		{"em_andamento", models.StatusInProgress},
		{"nao_iniciado", models.StatusNotStarted},
		{"", models.StatusNotStarted},
		{"feita", models.StatusNotStarted},
		{"CONCLUIDA", models.StatusNotStarted},
	}
	for _, tt := range tests {
		if got := coerceStatus(tt.in); got != tt.want {
			t.Errorf("coerceStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseImportDate(t *testing.T) {
	for _, value := range []string{"25-12-2024", "25/12/2024", "2024-12-25"} {
		got := parseImportDate(value)
		if got == nil {
			t.Errorf("parseImportDate(%q) = nil", value)
			continue
		}
		if got.Year() != 2024 || got.Month() != 12 || got.Day() != 25 {
			t.Errorf("parseImportDate(%q) = %v", value, got)
		}
	}

	if got := parseImportDate("31-02-2024x"); got != nil {
		t.Errorf("parseImportDate(inválida) = %v, want nil", got)
	}
	if got := parseImportDate(""); got != nil {
		t.Errorf("parseImportDate(vazia) = %v, want nil", got)
	}
}

func TestParseSteps(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"A|B|C", []string{"A", "B", "C"}},
		{"A| |B", []string{"A", "B"}},
		{" | | ", []string{}},
		{"  Única  ", []string{"Única"}},
	}
	for _, tt := range tests {
		got := parseSteps(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("parseSteps(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("parseSteps(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}
