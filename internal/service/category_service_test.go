package service

import (
	"errors"
	"testing"

	"task-go/internal/dto"
	"task-go/internal/models"
	"task-go/internal/repository"

	"gorm.io/gorm"
)

func newTestCategoryService(db *gorm.DB) *CategoryService {
	return NewCategoryService(
		repository.NewCategoryRepository(db),
		repository.NewTaskRepository(db),
	)
}

func TestCreateCategoryDuplicateConflict(t *testing.T) {
	db := newTestDB(t)
	svc := newTestCategoryService(db)
	user := seedUser(t, db, "dup@teste.com")

	req := &dto.CategoryRequest{Name: "Trabalho", Color: "#FF0000"}
	if _, err := svc.CreateCategory(user.ID, req); err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}

	_, err := svc.CreateCategory(user.ID, req)
	if !errors.Is(err, ErrDuplicateCategory) {
		t.Errorf("重复创建 error = %v, want ErrDuplicateCategory", err)
	}

	// 不同用户可以使用同名分类
	other := seedUser(t, db, "outra@teste.com")
	if _, err := svc.CreateCategory(other.ID, req); err != nil {
		t.Errorf("其他用户创建同名分类 error = %v", err)
	}
}

func TestCreateCategoryDefaultColor(t *testing.T) {
	db := newTestDB(t)
	svc := newTestCategoryService(db)
	user := seedUser(t, db, "cor@teste.com")

	created, err := svc.CreateCategory(user.ID, &dto.CategoryRequest{Name: "Estudos"})
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	if created.Color != models.DefaultCategoryColor {
		t.Errorf("Color = %q, want %q", created.Color, models.DefaultCategoryColor)
	}
}

func TestGetCategoryDetailForeignOwnerForbidden(t *testing.T) {
	db := newTestDB(t)
	svc := newTestCategoryService(db)
	owner := seedUser(t, db, "dono2@teste.com")
	intruder := seedUser(t, db, "intruso@teste.com")

	created, err := svc.CreateCategory(owner.ID, &dto.CategoryRequest{Name: "Pessoal"})
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}

	// 存在但不属于请求者 -> 403 而不是 404
	if _, err := svc.GetCategoryDetail(created.ID, intruder.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("非属主访问 error = %v, want ErrForbidden", err)
	}

	if _, err := svc.GetCategoryDetail(9999, intruder.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("不存在的分类 error = %v, want ErrNotFound", err)
	}
}

func TestDeleteCategoryDetachesTasks(t *testing.T) {
	db := newTestDB(t)
	svc := newTestCategoryService(db)
	user := seedUser(t, db, "solta@teste.com")

	created, err := svc.CreateCategory(user.ID, &dto.CategoryRequest{Name: "Temporária"})
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}

	task := &models.Task{Title: "Ligada", UserID: user.ID, CategoryID: &created.ID}
	if err := db.Create(task).Error; err != nil {
		t.Fatalf("创建任务失败: %v", err)
	}

	if err := svc.DeleteCategory(created.ID, user.ID); err != nil {
		t.Fatalf("DeleteCategory() error = %v", err)
	}

	var stored models.Task
	if err := db.First(&stored, task.ID).Error; err != nil {
		t.Fatalf("任务不应随分类删除: %v", err)
	}
	if stored.CategoryID != nil {
		t.Errorf("CategoryID = %v, want nil", *stored.CategoryID)
	}
}
