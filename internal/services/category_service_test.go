package services

import (
	"context"
	"testing"

	"github.com/Gowsikakho/expense-track/internal/models"
	"github.com/Gowsikakho/expense-track/internal/pagination"
	"github.com/Gowsikakho/expense-track/internal/testutil"
)

func TestCreateCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		cat, err := svc.CreateCategory(ctx, user.ID, "Groceries", "🛒", "#22c55e")
		testutil.AssertNoError(t, err)

		if cat.ID == "" {
			t.Fatal("expected category ID")
		}
		if cat.Color != "#22c55e" {
			t.Errorf("expected color #22c55e, got %s", cat.Color)
		}
	})

	t.Run("duplicate_name_case_insensitive", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(ctx, user.ID, "Travel", "", "")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateCategory(ctx, user.ID, "travel", "", "")
		testutil.AssertAppError(t, err, "DUPLICATE_CATEGORY")
	})

	t.Run("same_name_other_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(ctx, user1.ID, "Travel", "", "")
		testutil.AssertNoError(t, err)
		_, err = svc.CreateCategory(ctx, user2.ID, "Travel", "", "")
		testutil.AssertNoError(t, err)
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateCategory(ctx, user.ID, " ", "", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("name_reusable_after_delete", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		cat, err := svc.CreateCategory(ctx, user.ID, "Travel", "", "")
		testutil.AssertNoError(t, err)
		testutil.AssertNoError(t, svc.DeleteCategory(ctx, user.ID, cat.ID))

		_, err = svc.CreateCategory(ctx, user.ID, "Travel", "", "")
		testutil.AssertNoError(t, err)
	})
}

func TestGetUserCategories(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCategoryService(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	testutil.CreateTestCategory(t, db, user.ID, "Zoo")
	testutil.CreateTestCategory(t, db, user.ID, "Books")
	testutil.CreateTestCategory(t, db, other.ID, "Other")

	result, err := svc.GetUserCategories(ctx, user.ID, pagination.PageRequest{})
	testutil.AssertNoError(t, err)

	if result.TotalItems != 2 {
		t.Fatalf("expected 2 categories, got %d", result.TotalItems)
	}
	if result.Data[0].Name != "Books" {
		t.Errorf("expected categories ordered by name, got %s first", result.Data[0].Name)
	}
}

func TestUpdateCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("rename", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, "Food")

		got, err := svc.UpdateCategory(ctx, user.ID, cat.ID, strPtr("Food & Dining"), nil, strPtr("#ef4444"))
		testutil.AssertNoError(t, err)

		if got.Name != "Food & Dining" || got.Color != "#ef4444" {
			t.Errorf("unexpected category %+v", got)
		}
	})

	t.Run("rename_to_same_name_keeps_working", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, "Food")

		_, err := svc.UpdateCategory(ctx, user.ID, cat.ID, strPtr("food"), nil, nil)
		testutil.AssertNoError(t, err)
	})

	t.Run("rename_conflict", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestCategory(t, db, user.ID, "Food")
		cat := testutil.CreateTestCategory(t, db, user.ID, "Travel")

		_, err := svc.UpdateCategory(ctx, user.ID, cat.ID, strPtr("FOOD"), nil, nil)
		testutil.AssertAppError(t, err, "DUPLICATE_CATEGORY")
	})

	t.Run("other_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user1.ID, "Food")

		_, err := svc.UpdateCategory(ctx, user2.ID, cat.ID, strPtr("Mine"), nil, nil)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestDeleteCategory(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCategoryService(db)
	user := testutil.CreateTestUser(t, db)
	cat := testutil.CreateTestCategory(t, db, user.ID, "Food")
	expense := testutil.CreateTestExpense(t, db, user.ID, "12", "2024-03-01", testutil.WithCategory(cat.ID))

	testutil.AssertNoError(t, svc.DeleteCategory(ctx, user.ID, cat.ID))

	var stored models.Expense
	testutil.AssertNoError(t, db.First(&stored, "id = ?", expense.ID).Error)
	if stored.CategoryID != nil {
		t.Errorf("expected category to be cleared, got %s", *stored.CategoryID)
	}

	err := svc.DeleteCategory(ctx, user.ID, cat.ID)
	testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
}

func TestSeedDefaultCategories(t *testing.T) {
	ctx := context.Background()

	t.Run("seeds_when_empty", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)

		created, err := svc.SeedDefaultCategories(ctx, user.ID)
		testutil.AssertNoError(t, err)

		if len(created) != len(models.DefaultCategories) {
			t.Fatalf("expected %d categories, got %d", len(models.DefaultCategories), len(created))
		}
		if created[0].Name != "Food & Dining" || created[0].ID == "" {
			t.Errorf("unexpected first category %+v", created[0])
		}

		again, err := svc.SeedDefaultCategories(ctx, user.ID)
		testutil.AssertNoError(t, err)
		if len(again) != 0 {
			t.Errorf("expected no categories on second seed, got %d", len(again))
		}
	})

	t.Run("skips_when_user_has_categories", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestCategory(t, db, user.ID, "Mine")

		created, err := svc.SeedDefaultCategories(ctx, user.ID)
		testutil.AssertNoError(t, err)
		if len(created) != 0 {
			t.Errorf("expected no seeded categories, got %d", len(created))
		}
	})
}
