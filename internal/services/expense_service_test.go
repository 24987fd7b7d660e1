package services

import (
	"context"
	"testing"
	"time"

	"github.com/Gowsikakho/expense-track/internal/month"
	"github.com/Gowsikakho/expense-track/internal/pagination"
	"github.com/Gowsikakho/expense-track/internal/testutil"
)

func TestCreateExpense(t *testing.T) {
	ctx := context.Background()

	t.Run("personal", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)

		loc := time.FixedZone("IST", 5*3600+1800)
		expense, err := svc.CreateExpense(ctx, user.ID, ExpenseInput{
			Name:   "Coffee",
			Amount: testutil.Dec("4.50"),
			Date:   time.Date(2024, 3, 5, 23, 30, 0, 0, loc),
			Notes:  "morning",
		})
		testutil.AssertNoError(t, err)

		if expense.BudgetID != nil {
			t.Error("expected personal expense")
		}
		if !expense.Date.Equal(testutil.Date("2024-03-05")) {
			t.Errorf("expected calendar date 2024-03-05, got %v", expense.Date)
		}
	})

	t.Run("with_budget_and_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID, "100")
		cat := testutil.CreateTestCategory(t, db, user.ID, "Food")

		expense, err := svc.CreateExpense(ctx, user.ID, ExpenseInput{
			Name:       "Lunch",
			Amount:     testutil.Dec("12"),
			Date:       testutil.Date("2024-03-05"),
			BudgetID:   &budget.ID,
			CategoryID: &cat.ID,
		})
		testutil.AssertNoError(t, err)
		if *expense.BudgetID != budget.ID || *expense.CategoryID != cat.ID {
			t.Errorf("unexpected references %+v", expense)
		}
	})

	t.Run("other_users_budget", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, other.ID, "100")

		_, err := svc.CreateExpense(ctx, user.ID, ExpenseInput{
			Name: "Sneaky", Amount: testutil.Dec("1"), Date: testutil.Date("2024-03-05"), BudgetID: &budget.ID,
		})
		testutil.AssertAppError(t, err, "OWNERSHIP_VIOLATION")
	})

	t.Run("other_users_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, other.ID, "Food")

		_, err := svc.CreateExpense(ctx, user.ID, ExpenseInput{
			Name: "Sneaky", Amount: testutil.Dec("1"), Date: testutil.Date("2024-03-05"), CategoryID: &cat.ID,
		})
		testutil.AssertAppError(t, err, "OWNERSHIP_VIOLATION")
	})

	t.Run("missing_budget", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateExpense(ctx, user.ID, ExpenseInput{
			Name: "x", Amount: testutil.Dec("1"), Date: testutil.Date("2024-03-05"), BudgetID: strPtr("nope"),
		})
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})

	t.Run("negative_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateExpense(ctx, user.ID, ExpenseInput{
			Name: "x", Amount: testutil.Dec("-1"), Date: testutil.Date("2024-03-05"),
		})
		testutil.AssertAppError(t, err, "INVALID_AMOUNT")
	})

	t.Run("rounds_to_stored_scale", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)

		expense, err := svc.CreateExpense(ctx, user.ID, ExpenseInput{
			Name: "x", Amount: testutil.Dec("1.005"), Date: testutil.Date("2024-03-05"),
		})
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, expense.Amount, "1.01")

		amount := testutil.Dec("2.344")
		updated, err := svc.UpdateExpense(ctx, user.ID, expense.ID, ExpenseUpdate{Amount: &amount})
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, updated.Amount, "2.34")
	})

	t.Run("amount_out_of_range", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateExpense(ctx, user.ID, ExpenseInput{
			Name: "x", Amount: testutil.Dec("10000000000"), Date: testutil.Date("2024-03-05"),
		})
		testutil.AssertAppError(t, err, "INVALID_AMOUNT")
	})

	t.Run("missing_name_or_date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateExpense(ctx, user.ID, ExpenseInput{Amount: testutil.Dec("1"), Date: testutil.Date("2024-03-05")})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
		_, err = svc.CreateExpense(ctx, user.ID, ExpenseInput{Name: "x", Amount: testutil.Dec("1")})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetUserExpenses(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewExpenseService(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	budget := testutil.CreateTestBudget(t, db, user.ID, "100")
	cat := testutil.CreateTestCategory(t, db, user.ID, "Food")

	testutil.CreateTestExpense(t, db, user.ID, "10", "2024-03-01", testutil.WithBudget(budget.ID))
	testutil.CreateTestExpense(t, db, user.ID, "20", "2024-03-31", testutil.WithCategory(cat.ID))
	testutil.CreateTestExpense(t, db, user.ID, "30", "2024-04-01")
	testutil.CreateTestExpense(t, db, other.ID, "40", "2024-03-15")

	march := month.MustParse("2024-03")

	tests := []struct {
		name   string
		filter ExpenseFilter
		want   int64
	}{
		{"all", ExpenseFilter{}, 3},
		{"month", ExpenseFilter{Month: &march}, 2},
		{"budget", ExpenseFilter{BudgetID: &budget.ID}, 1},
		{"category", ExpenseFilter{CategoryID: &cat.ID}, 1},
		{"personal", ExpenseFilter{PersonalOnly: true}, 2},
		{"personal_in_month", ExpenseFilter{PersonalOnly: true, Month: &march}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.GetUserExpenses(ctx, user.ID, pagination.PageRequest{}, tt.filter)
			testutil.AssertNoError(t, err)
			if result.TotalItems != tt.want {
				t.Errorf("expected %d expenses, got %d", tt.want, result.TotalItems)
			}
		})
	}

	t.Run("latest_date_first", func(t *testing.T) {
		result, err := svc.GetUserExpenses(ctx, user.ID, pagination.PageRequest{}, ExpenseFilter{})
		testutil.AssertNoError(t, err)
		if !result.Data[0].Date.Equal(testutil.Date("2024-04-01")) {
			t.Errorf("expected 2024-04-01 first, got %v", result.Data[0].Date)
		}
	})
}

func TestGetRecentExpenses(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewExpenseService(db)
	user := testutil.CreateTestUser(t, db)

	var lastID string
	for i := 0; i < 12; i++ {
		lastID = testutil.CreateTestExpense(t, db, user.ID, "1", "2024-03-01").ID
	}

	recent, err := svc.GetRecentExpenses(ctx, user.ID, 0)
	testutil.AssertNoError(t, err)
	if len(recent) != DefaultRecentExpenses {
		t.Fatalf("expected %d expenses, got %d", DefaultRecentExpenses, len(recent))
	}
	if recent[0].ID != lastID {
		t.Errorf("expected most recent expense first")
	}

	few, err := svc.GetRecentExpenses(ctx, user.ID, 3)
	testutil.AssertNoError(t, err)
	if len(few) != 3 {
		t.Errorf("expected 3 expenses, got %d", len(few))
	}
}

func TestUpdateExpense(t *testing.T) {
	ctx := context.Background()

	t.Run("move_and_detach", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)
		b1 := testutil.CreateTestBudget(t, db, user.ID, "100")
		b2 := testutil.CreateTestBudget(t, db, user.ID, "100")
		expense := testutil.CreateTestExpense(t, db, user.ID, "10", "2024-03-01", testutil.WithBudget(b1.ID))

		amount := testutil.Dec("15.25")
		got, err := svc.UpdateExpense(ctx, user.ID, expense.ID, ExpenseUpdate{BudgetID: &b2.ID, Amount: &amount})
		testutil.AssertNoError(t, err)
		if got.BudgetID == nil || *got.BudgetID != b2.ID {
			t.Errorf("expected budget %s, got %v", b2.ID, got.BudgetID)
		}
		testutil.AssertDecimal(t, got.Amount, "15.25")

		got, err = svc.UpdateExpense(ctx, user.ID, expense.ID, ExpenseUpdate{ClearBudget: true})
		testutil.AssertNoError(t, err)
		if got.BudgetID != nil {
			t.Error("expected expense to be detached")
		}
	})

	t.Run("other_users_budget", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, other.ID, "100")
		expense := testutil.CreateTestExpense(t, db, user.ID, "10", "2024-03-01")

		_, err := svc.UpdateExpense(ctx, user.ID, expense.ID, ExpenseUpdate{BudgetID: &budget.ID})
		testutil.AssertAppError(t, err, "OWNERSHIP_VIOLATION")
	})

	t.Run("not_found_for_other_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewExpenseService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		expense := testutil.CreateTestExpense(t, db, user.ID, "10", "2024-03-01")

		_, err := svc.UpdateExpense(ctx, other.ID, expense.ID, ExpenseUpdate{Name: strPtr("mine")})
		testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")
	})
}

func TestDeleteExpense(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewExpenseService(db)
	user := testutil.CreateTestUser(t, db)
	expense := testutil.CreateTestExpense(t, db, user.ID, "10", "2024-03-01")

	testutil.AssertNoError(t, svc.DeleteExpense(ctx, user.ID, expense.ID))

	_, err := svc.GetExpenseByID(ctx, user.ID, expense.ID)
	testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")
}
