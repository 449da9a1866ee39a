package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"task-go/internal/models"
	"task-go/internal/repository"
	"task-go/internal/service"
	"task-go/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newHandlerTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("迁移测试数据库失败: %v", err)
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	taskRepo := repository.NewTaskRepository(db)
	stepRepo := repository.NewStepRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	knowledgeRepo := repository.NewKnowledgeRepository(db)

	taskService := service.NewTaskService(taskRepo, stepRepo, categoryRepo, knowledgeRepo, log)
	importService := service.NewImportService(taskRepo, categoryRepo, log)
	exportService := service.NewExportService(taskRepo)

	// 限制器置空，路由里不挂导入端点，避免测试依赖redis
	h := NewTaskHandler(taskService, importService, exportService, nil, 15)

	user := &models.User{Email: "handler@teste.com", Name: "Teste", PasswordHash: "x", IsActive: true}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("创建测试用户失败: %v", err)
	}

	r := gin.New()
	// 模拟认证中间件注入的用户身份
	r.Use(func(c *gin.Context) {
		c.Set("user_id", user.ID)
		c.Next()
	})
	r.POST("/api/etapas/:step_id/toggle", h.ToggleStep)
	r.GET("/api/etapas/:step_id/toggle", h.ToggleStepWrongMethod)
	r.GET("/api/tarefas/exportar", h.ExportArchived)

	return r, db
}

func TestToggleStepWrongVerbReturns405(t *testing.T) {
	r, _ := newHandlerTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/etapas/1/toggle", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", w.Code)
	}

	var resp utils.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if resp.Code != http.StatusMethodNotAllowed {
		t.Errorf("envelope code = %d, want 405", resp.Code)
	}
	if resp.Message == "" {
		t.Error("405响应应包含提示消息")
	}
}

func TestToggleStepEndpointContract(t *testing.T) {
	r, db := newHandlerTestRouter(t)

	var user models.User
	if err := db.First(&user).Error; err != nil {
		t.Fatalf("读取测试用户失败: %v", err)
	}

	task := &models.Task{
		Title:  "Contrato",
		Status: models.StatusNotStarted,
		UserID: user.ID,
		Steps:  []models.Step{{Description: "única", Order: 0}},
	}
	if err := db.Create(task).Error; err != nil {
		t.Fatalf("创建任务失败: %v", err)
	}

	url := "/api/etapas/" + strconv.FormatUint(uint64(task.Steps[0].ID), 10) + "/toggle"
	req := httptest.NewRequest(http.MethodPost, url, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}

	if resp["status"] != "sucesso" {
		t.Errorf("status = %v, want sucesso", resp["status"])
	}
	if resp["etapa_concluida"] != true {
		t.Errorf("etapa_concluida = %v, want true", resp["etapa_concluida"])
	}
	if resp["tarefa_status_code"] != "concluida" {
		t.Errorf("tarefa_status_code = %v, want concluida", resp["tarefa_status_code"])
	}
	if resp["tarefa_status"] != "Concluída" {
		t.Errorf("tarefa_status = %v, want Concluída", resp["tarefa_status"])
	}
}

func TestExportArchivedHeaders(t *testing.T) {
	r, _ := newHandlerTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/tarefas/exportar", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := w.Header().Get("Content-Type"); got != "text/csv" {
		t.Errorf("Content-Type = %q, want text/csv", got)
	}
	disposition := w.Header().Get("Content-Disposition")
	if disposition != `attachment; filename="tarefas_arquivadas.csv"` {
		t.Errorf("Content-Disposition = %q", disposition)
	}
}
