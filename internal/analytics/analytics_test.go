package analytics

import (
	"testing"
	"time"

	"github.com/Gowsikakho/expense-track/internal/models"
	"github.com/Gowsikakho/expense-track/internal/month"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr(s string) *string { return &s }

func budget(id, amount string) models.Budget {
	return models.Budget{Base: models.Base{ID: id}, Name: "budget " + id, Amount: dec(amount)}
}

func expense(id, name, amount, date string, budgetID, categoryID *string) models.Expense {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return models.Expense{
		Base:       models.Base{ID: id},
		Name:       name,
		Amount:     dec(amount),
		Date:       d,
		BudgetID:   budgetID,
		CategoryID: categoryID,
	}
}

func TestBudgetTotals(t *testing.T) {
	budgets := []models.Budget{budget("b2", "500"), budget("b1", "100"), budget("b3", "50")}
	expenses := []models.Expense{
		expense("e1", "Groceries", "120.50", "2024-03-01", ptr("b2"), nil),
		expense("e2", "Fuel", "79.50", "2024-03-02", ptr("b2"), nil),
		expense("e3", "Movie", "100", "2024-03-03", ptr("b1"), nil),
		expense("e4", "Gift", "30", "2024-03-03", nil, nil),
		expense("e5", "Orphan", "10", "2024-03-03", ptr("gone"), nil),
		expense("e6", "Broken", "-5", "2024-03-03", ptr("b3"), nil),
	}

	got := BudgetTotals(expenses, budgets)
	if len(got) != 3 {
		t.Fatalf("expected 3 budgets, got %d", len(got))
	}

	t.Run("keeps input order", func(t *testing.T) {
		if got[0].Budget.ID != "b2" || got[1].Budget.ID != "b1" || got[2].Budget.ID != "b3" {
			t.Errorf("unexpected order %s %s %s", got[0].Budget.ID, got[1].Budget.ID, got[2].Budget.ID)
		}
	})

	t.Run("sums per budget", func(t *testing.T) {
		if !got[0].TotalSpend.Equal(dec("200")) || got[0].ItemCount != 2 {
			t.Errorf("b2: got %s/%d", got[0].TotalSpend, got[0].ItemCount)
		}
		if !got[0].Remaining.Equal(dec("300")) {
			t.Errorf("b2 remaining: got %s", got[0].Remaining)
		}
	})

	t.Run("zero expense budget appears", func(t *testing.T) {
		if !got[2].TotalSpend.IsZero() || got[2].ItemCount != 0 {
			t.Errorf("b3: got %s/%d", got[2].TotalSpend, got[2].ItemCount)
		}
	})

	t.Run("sum matches budgeted expenses", func(t *testing.T) {
		total := decimal.Zero
		for _, s := range got {
			total = total.Add(s.TotalSpend)
		}
		if !total.Equal(dec("300")) {
			t.Errorf("expected 300, got %s", total)
		}
	})

	t.Run("active excludes exhausted budgets", func(t *testing.T) {
		active := ActiveBudgets(got)
		if len(active) != 2 {
			t.Fatalf("expected 2 active, got %d", len(active))
		}
		for _, a := range active {
			if a.Budget.ID == "b1" {
				t.Error("b1 is fully spent and must not be active")
			}
		}
	})
}

func TestActiveBudgetsOverspent(t *testing.T) {
	spends := BudgetTotals(
		[]models.Expense{expense("e1", "x", "150", "2024-03-01", ptr("b1"), nil)},
		[]models.Budget{budget("b1", "100")},
	)
	if len(ActiveBudgets(spends)) != 0 {
		t.Error("overspent budget must not be active")
	}
	if !spends[0].Remaining.Equal(dec("-50")) {
		t.Errorf("expected remaining -50, got %s", spends[0].Remaining)
	}
}

func TestCategoryTotals(t *testing.T) {
	categories := []models.Category{
		{Base: models.Base{ID: "c1"}, Name: "Food & Dining", Icon: "🍔", Color: "#ef4444"},
		{Base: models.Base{ID: "c2"}, Name: "Rent", Icon: "🏠", Color: "#000000"},
		{Base: models.Base{ID: "c3"}, Name: "Unused", Icon: "x"},
	}
	expenses := []models.Expense{
		expense("e1", "Lunch", "20", "2024-03-01", nil, ptr("c1")),
		expense("e2", "Pizza", "15", "2024-03-02", nil, nil),
		expense("e3", "March rent", "1000", "2024-03-01", nil, ptr("c2")),
		expense("e4", "Fuel", "35", "2024-03-05", nil, nil),
		expense("e5", "Taxi", "35", "2024-03-06", nil, nil),
		expense("e6", "Gift", "35", "2024-03-07", nil, nil),
	}

	got := CategoryTotals(expenses, categories)
	if len(got) != 4 {
		t.Fatalf("expected 4 buckets, got %d: %+v", len(got), got)
	}

	if got[0].Name != "Rent" || !got[0].TotalAmount.Equal(dec("1000")) {
		t.Errorf("expected Rent first, got %s %s", got[0].Name, got[0].TotalAmount)
	}
	if got[1].Name != "Transportation" || got[1].Count != 2 || !got[1].Derived {
		t.Errorf("expected derived Transportation with 2, got %+v", got[1])
	}
	if got[2].Name != "Food & Dining" || !got[2].TotalAmount.Equal(dec("35")) || got[2].Derived {
		t.Errorf("derived food should merge into stored category, got %+v", got[2])
	}
	if got[3].Name != UncategorizedName {
		t.Errorf("expected Uncategorized last on name tie-break, got %s", got[3].Name)
	}

	for _, e := range expenses {
		if e.ID == "e2" && e.CategoryID != nil {
			t.Error("derivation must not write back to expenses")
		}
	}
}

func TestDailyTimeline(t *testing.T) {
	m := month.MustParse("2024-02")
	expenses := []models.Expense{
		expense("e1", "a", "10", "2024-02-01", nil, nil),
		expense("e2", "b", "5.25", "2024-02-01", ptr("b1"), nil),
		expense("e3", "c", "7", "2024-02-29", nil, nil),
		expense("e4", "outside", "100", "2024-03-01", nil, nil),
		expense("e5", "outside", "100", "2024-01-31", nil, nil),
	}

	got := DailyTimeline(expenses, m)
	if len(got) != 29 {
		t.Fatalf("expected 29 days, got %d", len(got))
	}
	if got[0].Day != 1 || got[0].Date != "2024-02-01" || !got[0].Amount.Equal(dec("15.25")) {
		t.Errorf("unexpected first day %+v", got[0])
	}
	if !got[28].Amount.Equal(dec("7")) {
		t.Errorf("unexpected last day %+v", got[28])
	}
	if !got[14].Amount.IsZero() {
		t.Errorf("expected zero-filled day, got %+v", got[14])
	}

	empty := DailyTimeline(nil, month.MustParse("2024-04"))
	if len(empty) != 30 {
		t.Errorf("expected 30 zero entries, got %d", len(empty))
	}

	s := Summarize(got)
	if !s.Total.Equal(dec("22.25")) || s.ActiveDays != 2 || s.DaysInMonth != 29 {
		t.Errorf("unexpected summary %+v", s)
	}
	if !s.DailyAverage.Equal(dec("0.77")) {
		t.Errorf("expected average 0.77, got %s", s.DailyAverage)
	}
}

func TestMonthTotal(t *testing.T) {
	m := month.MustParse("2024-03")
	expenses := []models.Expense{
		expense("e1", "a", "3000", "2024-03-01", ptr("b1"), nil),
		expense("e2", "b", "200", "2024-03-31", nil, nil),
		expense("e3", "c", "999", "2024-04-01", nil, nil),
		expense("e4", "d", "-1", "2024-03-10", nil, nil),
	}
	if got := MonthTotal(expenses, m); !got.Equal(dec("3200")) {
		t.Errorf("expected 3200, got %s", got)
	}
	if got := MonthTotal(nil, m); !got.IsZero() {
		t.Errorf("expected zero for no expenses, got %s", got)
	}
}
