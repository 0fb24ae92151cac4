package menu

import "strings"

type Category string

const (
	CategoryAppetizer  Category = "Appetizer"
	CategoryMainCourse Category = "Main Course"
	CategoryDessert    Category = "Dessert"
	CategoryBeverage   Category = "Beverage"
	CategorySalad      Category = "Salad"
	CategorySoup       Category = "Soup"
)

var Categories = []Category{
	CategoryAppetizer,
	CategoryMainCourse,
	CategoryDessert,
	CategoryBeverage,
	CategorySalad,
	CategorySoup,
}

// ParseCategory matches case-insensitively. Empty means Appetizer.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return CategoryAppetizer, nil
	}
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", ErrInvalidCategory
}

type MenuItem struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Price       float64  `json:"price"`
	Image       string   `json:"image"`
	IsVeg       bool     `json:"isVeg"`
	Rating      *float64 `json:"rating,omitempty"`
	Reviews     *int     `json:"reviews,omitempty"`
}

type CreateInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Price       *float64 `json:"price"`
	Image       string   `json:"image"`
	IsVeg       bool     `json:"isVeg"`
	Rating      *float64 `json:"rating"`
	Reviews     *int     `json:"reviews"`
}

// UpdateInput carries only the fields to change.
type UpdateInput struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Price       *float64 `json:"price"`
	Image       *string  `json:"image"`
	IsVeg       *bool    `json:"isVeg"`
	Rating      *float64 `json:"rating"`
	Reviews     *int     `json:"reviews"`
}
