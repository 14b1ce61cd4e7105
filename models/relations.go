package models

import "time"

// Subscription is a directed follow: Subscriber follows Author.
// Subscriber and Author are never the same user.
type Subscription struct {
	ID           int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	SubscriberID int64      `gorm:"not null;index;unique_index:ux_subscription" json:"subscriber_id"`
	AuthorID     int64      `gorm:"not null;index;unique_index:ux_subscription" json:"author_id"`
	CreatedAt    *time.Time `json:"created_at"`
}

// FavoriteRecipe marks a recipe the user likes.
type FavoriteRecipe struct {
	ID        int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	UserID    int64      `gorm:"not null;index;unique_index:ux_favorite_recipe" json:"user_id"`
	RecipeID  int64      `gorm:"not null;index;unique_index:ux_favorite_recipe" json:"recipe_id"`
	CreatedAt *time.Time `json:"created_at"`
}

// ShoppingListEntry puts a recipe in the user's shopping cart.
type ShoppingListEntry struct {
	ID        int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	UserID    int64      `gorm:"not null;index;unique_index:ux_shopping_list_entry" json:"user_id"`
	RecipeID  int64      `gorm:"not null;index;unique_index:ux_shopping_list_entry" json:"recipe_id"`
	CreatedAt *time.Time `json:"created_at"`
}

func (ShoppingListEntry) TableName() string {
	return "shopping_list_entries"
}

// All lists every persisted model, in dependency order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Ingredient{},
		&Tag{},
		&Recipe{},
		&RecipeIngredient{},
		&RecipeTag{},
		&Subscription{},
		&FavoriteRecipe{},
		&ShoppingListEntry{},
	}
}
