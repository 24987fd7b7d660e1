package models

// Category labels expenses for analytics. Names are unique per user among
// live (not soft-deleted) rows.
type Category struct {
	Base
	UserID string `gorm:"type:uuid;not null;index" json:"user_id"`
	Name   string `gorm:"not null" json:"name"`
	Icon   string `json:"icon"`
	Color  string `json:"color"`
}

// DefaultCategory is a category seeded for users who have none.
type DefaultCategory struct {
	Name  string
	Icon  string
	Color string
}

// DefaultCategories are seeded in this order.
var DefaultCategories = []DefaultCategory{
	{Name: "Food & Dining", Icon: "🍔", Color: "#ef4444"},
	{Name: "Transportation", Icon: "🚗", Color: "#3b82f6"},
	{Name: "Shopping", Icon: "🛍️", Color: "#8b5cf6"},
	{Name: "Entertainment", Icon: "🎮", Color: "#f59e0b"},
	{Name: "Bills & Utilities", Icon: "💡", Color: "#06b6d4"},
	{Name: "Healthcare", Icon: "🏥", Color: "#22c55e"},
	{Name: "Education", Icon: "📚", Color: "#4845d2"},
	{Name: "Others", Icon: "📌", Color: "#6b7280"},
}
