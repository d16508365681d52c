package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sakif/todo-api/internal/apperror"
	"github.com/sakif/todo-api/internal/model"
)

func newTestCategoryService() (*CategoryService, *fakeCategoryRepo) {
	categories := newFakeCategoryRepo()
	return NewCategoryService(categories, testLogger()), categories
}

// =========================================================================
// CREATE TESTS
// =========================================================================

func TestCategoryCreate_DefaultColor(t *testing.T) {
	svc, _ := newTestCategoryService()

	category, err := svc.Create(context.Background(), "user-1", "Groceries", "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if category.Color != model.DefaultCategoryColor {
		t.Errorf("color = %q, want default %q", category.Color, model.DefaultCategoryColor)
	}
}

func TestCategoryCreate_TrimsName(t *testing.T) {
	svc, _ := newTestCategoryService()

	category, err := svc.Create(context.Background(), "user-1", "  Groceries  ", "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if category.Name != "Groceries" {
		t.Errorf("name = %q, want %q", category.Name, "Groceries")
	}
}

func TestCategoryCreate_NameValidation(t *testing.T) {
	svc, _ := newTestCategoryService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "user-1", "   ", "")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("blank name: error = %v, want ErrValidation", err)
	}

	_, err = svc.Create(ctx, "user-1", strings.Repeat("a", MaxCategoryNameLength+1), "")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("over-long name: error = %v, want ErrValidation", err)
	}
}

func TestCategoryCreate_ColorValidation(t *testing.T) {
	svc, _ := newTestCategoryService()
	ctx := context.Background()

	for _, color := range []string{"3B82F6", "#3B82", "#GGGGGG", "blue", "#3B82F6FF"} {
		_, err := svc.Create(ctx, "user-1", "Groceries", color)
		if !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("Create() with color %q: error = %v, want ErrValidation", color, err)
		}
	}

	if _, err := svc.Create(ctx, "user-1", "Groceries", "#ff00aa"); err != nil {
		t.Errorf("Create() with lowercase hex: unexpected error %v", err)
	}
}

// Names are unique per user, not globally: two users may both have
// "Groceries".
func TestCategoryCreate_DuplicatePerUserOnly(t *testing.T) {
	svc, _ := newTestCategoryService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, "user-1", "Groceries", ""); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	_, err := svc.Create(ctx, "user-1", "Groceries", "")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("same user, same name: error = %v, want ErrConflict", err)
	}

	if _, err := svc.Create(ctx, "user-2", "Groceries", ""); err != nil {
		t.Errorf("different user, same name: unexpected error %v", err)
	}
}

// =========================================================================
// UPDATE TESTS
// =========================================================================

func TestCategoryUpdate_RenameCollision(t *testing.T) {
	svc, _ := newTestCategoryService()
	ctx := context.Background()

	groceries, _ := svc.Create(ctx, "user-1", "Groceries", "")
	if _, err := svc.Create(ctx, "user-1", "Work", ""); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	_, err := svc.Update(ctx, "user-1", groceries.ID, strptr("Work"), nil)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("rename onto an existing name: error = %v, want ErrConflict", err)
	}
}

// Writing a category's own name back is not a collision.
func TestCategoryUpdate_SameNameIsFine(t *testing.T) {
	svc, _ := newTestCategoryService()
	ctx := context.Background()

	groceries, _ := svc.Create(ctx, "user-1", "Groceries", "")

	updated, err := svc.Update(ctx, "user-1", groceries.ID, strptr("Groceries"), strptr("#FF0000"))
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Color != "#FF0000" {
		t.Errorf("color = %q, want %q", updated.Color, "#FF0000")
	}
}

func TestCategoryUpdate_CrossUserIsNotFound(t *testing.T) {
	svc, _ := newTestCategoryService()
	ctx := context.Background()

	category, _ := svc.Create(ctx, "user-1", "Groceries", "")

	_, err := svc.Update(ctx, "user-2", category.ID, strptr("Stolen"), nil)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Update() as other user: error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// LIST AND DELETE TESTS
// =========================================================================

func TestCategoryList_OnlyOwn(t *testing.T) {
	svc, _ := newTestCategoryService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, "user-1", "Groceries", ""); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := svc.Create(ctx, "user-2", "Work", ""); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	categories, err := svc.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(categories) != 1 || categories[0].Name != "Groceries" {
		t.Errorf("List() = %+v, want just Groceries", categories)
	}
}

func TestCategoryDelete_CrossUserIsNotFound(t *testing.T) {
	svc, _ := newTestCategoryService()
	ctx := context.Background()

	category, _ := svc.Create(ctx, "user-1", "Groceries", "")

	err := svc.Delete(ctx, "user-2", category.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Delete() as other user: error = %v, want ErrNotFound", err)
	}

	if _, err := svc.List(ctx, "user-1"); err != nil {
		t.Fatalf("List() error = %v", err)
	}
}
