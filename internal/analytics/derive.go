package analytics

import "strings"

// UncategorizedName is the bucket for expense names no keyword matches.
const UncategorizedName = "Uncategorized"

// DerivedCategory is a display-only category inferred from an expense name.
type DerivedCategory struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

type keywordRule struct {
	category DerivedCategory
	keywords []string
}

// Rules are tried in order and the first matching keyword wins, so a name
// containing keywords from two rules lands in the earlier rule.
var keywordRules = []keywordRule{
	{DerivedCategory{"Food & Dining", "🍔"}, []string{
		"food", "grocer", "restaurant", "lunch", "dinner", "breakfast", "cafe", "coffee", "pizza", "snack", "swiggy", "zomato",
	}},
	{DerivedCategory{"Transportation", "🚗"}, []string{
		"fuel", "petrol", "diesel", "uber", "taxi", "cab", "bus", "train", "metro", "parking", "toll", "flight",
	}},
	{DerivedCategory{"Bills & Utilities", "💡"}, []string{
		"electric", "water", "internet", "wifi", "recharge", "rent", "utility", "utilities", "bill",
	}},
	{DerivedCategory{"Healthcare", "🏥"}, []string{
		"doctor", "hospital", "pharmacy", "medicine", "medical", "clinic", "dentist", "health",
	}},
	{DerivedCategory{"Education", "📚"}, []string{
		"book", "course", "tuition", "school", "college", "exam",
	}},
	{DerivedCategory{"Entertainment", "🎮"}, []string{
		"movie", "cinema", "netflix", "spotify", "game", "concert",
	}},
	{DerivedCategory{"Shopping", "🛍️"}, []string{
		"shopping", "amazon", "flipkart", "clothes", "shoes", "mall", "electronics", "phone",
	}},
}

var uncategorized = DerivedCategory{Name: UncategorizedName, Icon: "📌"}

// DeriveCategory maps an expense name to a display category by
// case-insensitive substring match. The result is never persisted.
func DeriveCategory(expenseName string) DerivedCategory {
	name := strings.ToLower(strings.TrimSpace(expenseName))
	if name == "" {
		return uncategorized
	}
	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if strings.Contains(name, kw) {
				return rule.category
			}
		}
	}
	return uncategorized
}
