package valueobjects

import "fmt"

type Category string

const (
	CategoryTechnical      Category = "technical"
	CategoryBilling        Category = "billing"
	CategoryGeneral        Category = "general"
	CategoryFeatureRequest Category = "feature_request"
)

// DefaultCategory applies when a ticket is created without a category.
const DefaultCategory = CategoryGeneral

var validCategories = map[Category]bool{
	CategoryTechnical:      true,
	CategoryBilling:        true,
	CategoryGeneral:        true,
	CategoryFeatureRequest: true,
}

func (c Category) String() string {
	return string(c)
}

func (c Category) IsValid() bool {
	return validCategories[c]
}

func NewCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", fmt.Errorf("invalid category: %s", s)
	}
	return c, nil
}
