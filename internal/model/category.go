// Package model defines the core domain models used throughout the application.
package model

import "time"

// OtherCategoryName is the terminal fallback bucket every user owns.
const OtherCategoryName = "Other"

// Category represents a spending bucket owned by a user.
type Category struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	ID        string
	Name      string
	Emoji     string
	OwnerID   string // empty for system templates
	IsSystem  bool
}

// IsOther reports whether c is the user's protected fallback category.
func (c Category) IsOther() bool {
	return c.Name == OtherCategoryName
}

// CategoryTemplate describes a category cloned into every new user's set.
type CategoryTemplate struct {
	Name  string
	Emoji string
}

// DefaultCategories is the category set provisioned at registration.
var DefaultCategories = []CategoryTemplate{
	{Name: "Food", Emoji: "🍽️"},
	{Name: "Transport", Emoji: "🚗"},
	{Name: "Entertainment", Emoji: "🎬"},
	{Name: "Shopping", Emoji: "🛒"},
	{Name: "Healthcare", Emoji: "🏥"},
	{Name: "Utilities", Emoji: "💡"},
	{Name: "Education", Emoji: "📚"},
	{Name: "Grocery", Emoji: "🥕"},
	{Name: OtherCategoryName, Emoji: "📝"},
}

// CategoryNames returns the display names of cats in order.
func CategoryNames(cats []Category) []string {
	names := make([]string, len(cats))
	for i, cat := range cats {
		names[i] = cat.Name
	}
	return names
}

// FindCategoryByName returns the first category named name, or nil.
func FindCategoryByName(cats []Category, name string) *Category {
	for i := range cats {
		if cats[i].Name == name {
			return &cats[i]
		}
	}
	return nil
}
