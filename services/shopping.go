package services

import (
	"fmt"
	"strings"

	"github.com/jinzhu/gorm"
)

// ShoppingItem is one aggregated line of a shopping list.
type ShoppingItem struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int64  `json:"amount"`
}

// AggregateShoppingList sums ingredient amounts over every recipe in the
// user's cart, one item per (name, unit), sorted by name then unit.
func AggregateShoppingList(db *gorm.DB, userID int64) ([]ShoppingItem, error) {
	var items []ShoppingItem
	err := db.Table("shopping_list_entries").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS amount").
		Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = shopping_list_entries.recipe_id").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("shopping_list_entries.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name ASC").Order("ingredients.measurement_unit ASC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []ShoppingItem{}
	}
	return items, nil
}

// ShoppingListFilename is the attachment name for username's list.
func ShoppingListFilename(username string) string {
	return username + "_shopping_cart.txt"
}

// RenderShoppingList formats items as the plain text download.
func RenderShoppingList(username string, items []ShoppingItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Shopping list for %s.\n", username)
	for _, it := range items {
		fmt.Fprintf(&b, "%s - %d %s\n", it.Name, it.Amount, it.MeasurementUnit)
	}
	return b.String()
}
