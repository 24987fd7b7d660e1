// Package analytics computes budget, category and daily aggregates from
// snapshots of expenses and budgets.
//
// Functions here do no store I/O and keep no state: the same input always
// produces the same output. Malformed amounts are left out of every total
// and reported through the logger.
package analytics

import (
	"sort"
	"strings"

	"github.com/Gowsikakho/expense-track/internal/logger"
	"github.com/Gowsikakho/expense-track/internal/models"
	"github.com/Gowsikakho/expense-track/internal/money"
	"github.com/Gowsikakho/expense-track/internal/month"

	"github.com/shopspring/decimal"
)

// BudgetSpend is a budget joined with the expenses that reference it.
type BudgetSpend struct {
	Budget     models.Budget   `json:"budget"`
	TotalSpend decimal.Decimal `json:"total_spend"`
	ItemCount  int             `json:"item_count"`
	Remaining  decimal.Decimal `json:"remaining"`
}

// Active reports whether the budget still has allocation left.
func (b BudgetSpend) Active() bool {
	return b.Remaining.IsPositive()
}

// CategoryTotal is the spend attributed to one category within a month.
// Derived is set when the bucket came from name-based derivation only.
type CategoryTotal struct {
	CategoryID  *string         `json:"category_id,omitempty"`
	Name        string          `json:"name"`
	Icon        string          `json:"icon"`
	Color       string          `json:"color,omitempty"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Count       int             `json:"count"`
	Derived     bool            `json:"derived"`
}

// DayAmount is one point of a daily timeline.
type DayAmount struct {
	Day    int             `json:"day"`
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// Summary condenses a daily timeline.
type Summary struct {
	Total        decimal.Decimal `json:"total"`
	DailyAverage decimal.Decimal `json:"daily_average"`
	ActiveDays   int             `json:"active_days"`
	DaysInMonth  int             `json:"days_in_month"`
}

// valid reports whether an expense amount can be counted. Stored amounts are
// already decimals, so the only malformed value left is a negative one.
func valid(e models.Expense) bool {
	if e.Amount.IsNegative() {
		logger.Named("analytics").Warnw("excluding expense with malformed amount",
			"expense_id", e.ID, "user_id", e.UserID, "amount", e.Amount.String())
		return false
	}
	return true
}

// BudgetTotals left-joins budgets with their expenses. Every budget appears
// once, in input order, including budgets with no expenses. Expenses without
// a budget, or whose budget is not in the list, are ignored.
func BudgetTotals(expenses []models.Expense, budgets []models.Budget) []BudgetSpend {
	type acc struct {
		total decimal.Decimal
		count int
	}
	byBudget := make(map[string]*acc, len(budgets))
	for _, b := range budgets {
		byBudget[b.ID] = &acc{total: decimal.Zero}
	}

	for _, e := range expenses {
		if e.BudgetID == nil {
			continue
		}
		a, ok := byBudget[*e.BudgetID]
		if !ok || !valid(e) {
			continue
		}
		a.total = a.total.Add(e.Amount)
		a.count++
	}

	out := make([]BudgetSpend, 0, len(budgets))
	for _, b := range budgets {
		a := byBudget[b.ID]
		out = append(out, BudgetSpend{
			Budget:     b,
			TotalSpend: a.total,
			ItemCount:  a.count,
			Remaining:  b.Amount.Sub(a.total),
		})
	}
	return out
}

// ActiveBudgets keeps budgets whose allocation exceeds their spend.
func ActiveBudgets(spends []BudgetSpend) []BudgetSpend {
	out := make([]BudgetSpend, 0, len(spends))
	for _, s := range spends {
		if s.Active() {
			out = append(out, s)
		}
	}
	return out
}

// CategoryTotals groups expenses by category. Expenses without a known
// category are bucketed by DeriveCategory; a derived bucket whose name
// matches one of the given categories is merged into it. Only buckets with
// at least one expense are returned, ordered by total descending and then
// by name.
func CategoryTotals(expenses []models.Expense, categories []models.Category) []CategoryTotal {
	buckets := make(map[string]*CategoryTotal)
	byName := make(map[string]string, len(categories))
	for _, c := range categories {
		id := c.ID
		buckets[c.ID] = &CategoryTotal{
			CategoryID:  &id,
			Name:        c.Name,
			Icon:        c.Icon,
			Color:       c.Color,
			TotalAmount: decimal.Zero,
		}
		byName[strings.ToLower(c.Name)] = c.ID
	}

	for _, e := range expenses {
		if !valid(e) {
			continue
		}
		var key string
		if e.CategoryID != nil && buckets[*e.CategoryID] != nil {
			key = *e.CategoryID
		} else {
			d := DeriveCategory(e.Name)
			if id, ok := byName[strings.ToLower(d.Name)]; ok {
				key = id
			} else {
				key = "derived:" + d.Name
				if buckets[key] == nil {
					buckets[key] = &CategoryTotal{Name: d.Name, Icon: d.Icon, TotalAmount: decimal.Zero, Derived: true}
				}
			}
		}
		b := buckets[key]
		b.TotalAmount = b.TotalAmount.Add(e.Amount)
		b.Count++
	}

	out := make([]CategoryTotal, 0, len(buckets))
	for _, b := range buckets {
		if b.Count > 0 {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].TotalAmount.Cmp(out[j].TotalAmount); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// DailyTimeline returns one entry per calendar day of m, zero-filled.
// Expenses dated outside m are ignored.
func DailyTimeline(expenses []models.Expense, m month.Month) []DayAmount {
	days := m.Days()
	out := make([]DayAmount, days)
	for d := 1; d <= days; d++ {
		out[d-1] = DayAmount{Day: d, Date: m.Day(d).Format("2006-01-02"), Amount: decimal.Zero}
	}
	for _, e := range expenses {
		if !m.Contains(e.Date) || !valid(e) {
			continue
		}
		i := e.Date.UTC().Day() - 1
		out[i].Amount = out[i].Amount.Add(e.Amount)
	}
	return out
}

// MonthTotal sums every valid expense dated inside m, budgeted or not.
func MonthTotal(expenses []models.Expense, m month.Month) decimal.Decimal {
	var amounts []decimal.Decimal
	for _, e := range expenses {
		if m.Contains(e.Date) && valid(e) {
			amounts = append(amounts, e.Amount)
		}
	}
	return money.Sum(amounts...)
}

// Summarize totals a timeline. The average is over every day of the month,
// not only days with spend, rounded to money.Scale.
func Summarize(timeline []DayAmount) Summary {
	s := Summary{Total: decimal.Zero, DailyAverage: decimal.Zero, DaysInMonth: len(timeline)}
	for _, d := range timeline {
		s.Total = s.Total.Add(d.Amount)
		if d.Amount.IsPositive() {
			s.ActiveDays++
		}
	}
	if s.DaysInMonth > 0 {
		s.DailyAverage = s.Total.Div(decimal.NewFromInt(int64(s.DaysInMonth))).Round(money.Scale)
	}
	return s
}
